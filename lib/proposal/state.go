package proposal

import (
	"encoding/json"

	"boscoin.io/obscura/lib/errors"
)

type State uint8

const (
	StateActive State = iota
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *State) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return errors.DecodingFailed.Clone().SetData("error", err.Error())
	}

	switch v {
	case "active":
		*s = StateActive
	case "closed":
		*s = StateClosed
	default:
		return errors.DecodingFailed.Clone().SetData("state", v)
	}

	return nil
}
