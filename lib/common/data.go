package common

import "encoding/json"

type Serializable interface {
	Serialize() ([]byte, error)
}

func EncodeJSONValue(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func DecodeJSONValue(b []byte, v interface{}) error {
	return json.Unmarshal(b, v)
}
