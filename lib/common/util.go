package common

import (
	"bytes"
	"encoding/json"
	"os"

	uuid "github.com/satori/go.uuid"
)

func GenerateUUID() string {
	return uuid.Must(uuid.NewV4(), nil).String()
}

func GetENVValue(key, defaultValue string) (v string) {
	var found bool
	if v, found = os.LookupEnv(key); !found {
		return defaultValue
	}

	return
}

func InStringArray(a []string, s string) (index int, found bool) {
	var h string
	for index, h = range a {
		found = h == s
		if found {
			return
		}
	}

	index = -1
	return
}

func MustMarshalJSON(o interface{}) []byte {
	b, _ := json.Marshal(o)
	return b
}

func JSONMarshalWithoutEscapeHTML(v interface{}) ([]byte, error) {
	buffer := &bytes.Buffer{}
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buffer.Bytes(), "\n"), nil
}
