package common

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v2"
)

type Encode func(v interface{}, w io.Writer) error

var DefaultEncodes = map[string]Encode{
	"json": func(v interface{}, w io.Writer) error {
		return jsonEncode(v, w, false)
	},
	"prettyjson": func(v interface{}, w io.Writer) error {
		return jsonEncode(v, w, true)
	},
	"yaml": yamlEncode,
}

func jsonEncode(v interface{}, w io.Writer, pretty bool) error {
	e := json.NewEncoder(w)
	if pretty {
		e.SetIndent("", "  ")
	}

	return e.Encode(&v)
}

// yamlEncode goes through json first, so the `json` tags and the
// `MarshalJSON` methods of the values decide the field names.
func yamlEncode(v interface{}, w io.Writer) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	var m yaml.MapSlice
	if err := yaml.Unmarshal(b, &m); err != nil {
		// not an object
		var i interface{}
		if err := yaml.Unmarshal(b, &i); err != nil {
			return err
		}
		return yaml.NewEncoder(w).Encode(i)
	}

	return yaml.NewEncoder(w).Encode(m)
}
