package errors

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
)

// Kind groups errors by the reason a transition was refused.
type Kind string

const (
	KindAuthorization Kind = "authorization"
	KindState         Kind = "state"
	KindTemporal      Kind = "temporal"
	KindRange         Kind = "range"
	KindIdentity      Kind = "identity"
	KindStorage       Kind = "storage"
	KindEncoding      Kind = "encoding"
	KindUnknown       Kind = "unknown"
)

type Error struct {
	Code    uint                   `json:"code"`
	Kind    Kind                   `json:"kind"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty" rlp:"-"`
}

func (o *Error) Serialize() (b []byte, err error) {
	b, err = json.Marshal(o)
	return
}

func (o *Error) Error() string {
	b, _ := o.Serialize()
	return string(b)
}

func (o *Error) SetData(k string, v interface{}) *Error {
	o.Data[k] = v

	return o
}

func (o *Error) Clone() *Error {
	var new Error
	new = *o

	new.Data = map[string]interface{}{}
	for k, v := range o.Data {
		new.Data[k] = v
	}

	return &new
}

// Is reports whether target is the same sentinel, ignoring `Data`; cloned
// errors still match the sentinel they came from.
func (o *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return o.Code == t.Code
}

func (o *Error) EncodeRLP(w io.Writer) (err error) {
	if o == nil {
		return rlp.Encode(w, []uint{})
	}

	if len(o.Data) > 0 {
		var d [][2]interface{}

		var keys []string
		for k := range o.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			d = append(d, [2]interface{}{k, o.Data[k]})
		}
		if err = rlp.Encode(w, d); err != nil {
			return
		}
	}

	return rlp.Encode(w, struct {
		Code    uint
		Kind    string
		Message string
	}{
		Code:    o.Code,
		Kind:    string(o.Kind),
		Message: o.Message,
	})
}

func NewError(code uint, kind Kind, message string) *Error {
	return &Error{Code: code, Kind: kind, Message: message, Data: map[string]interface{}{}}
}

// KindOf returns the `Kind` of err, or `KindUnknown` when err is not an
// `*Error`.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}

	return KindUnknown
}
