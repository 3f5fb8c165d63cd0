package operation

import (
	"encoding/json"
	"reflect"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/errors"
)

type OperationType string

const (
	TypeRegisterVoter        OperationType = "register-voter"
	TypeDelegate             OperationType = "delegate"
	TypeRevoke               OperationType = "revoke"
	TypeCreateProposal       OperationType = "create-proposal"
	TypeVote                 OperationType = "vote"
	TypeCloseProposal        OperationType = "close-proposal"
	TypeRequestDecryption    OperationType = "request-decryption"
	TypeDecryptionCallback   OperationType = "decryption-callback"
	TypeMarkDecryptionFailed OperationType = "mark-decryption-failed"
	TypeClaimRefund          OperationType = "claim-refund"
)

var Types = []OperationType{
	TypeRegisterVoter,
	TypeDelegate,
	TypeRevoke,
	TypeCreateProposal,
	TypeVote,
	TypeCloseProposal,
	TypeRequestDecryption,
	TypeDecryptionCallback,
	TypeMarkDecryptionFailed,
	TypeClaimRefund,
}

func IsValidOperationType(oType string) bool {
	for _, t := range Types {
		if string(t) == oType {
			return true
		}
	}
	return false
}

type Operation struct {
	H Header
	B Body
}

func NewOperation(opb Body) (op Operation, err error) {
	var t OperationType
	switch opb.(type) {
	case RegisterVoter:
		t = TypeRegisterVoter
	case Delegate:
		t = TypeDelegate
	case Revoke:
		t = TypeRevoke
	case CreateProposal:
		t = TypeCreateProposal
	case Vote:
		t = TypeVote
	case CloseProposal:
		t = TypeCloseProposal
	case RequestDecryption:
		t = TypeRequestDecryption
	case DecryptionCallback:
		t = TypeDecryptionCallback
	case MarkDecryptionFailed:
		t = TypeMarkDecryptionFailed
	case ClaimRefund:
		t = TypeClaimRefund
	default:
		err = errors.UnknownOperationType
		return
	}

	op = Operation{
		H: Header{Type: t},
		B: opb,
	}

	return
}

func MustNewOperation(opb Body) Operation {
	op, err := NewOperation(opb)
	if err != nil {
		panic(err)
	}
	return op
}

type Header struct {
	Type OperationType `json:"type"`
}

type Body interface {
	//
	// Check that this operation is self consistent
	//
	// Only checks which do not need the ledger state belong here; the
	// ledger checks everything else when it applies the operation.
	//
	IsWellFormed(common.Config) error
}

func (o Operation) IsWellFormed(conf common.Config) (err error) {
	if o.B == nil {
		return errors.InvalidOperation
	}

	if t, err := NewOperation(o.B); err != nil {
		return err
	} else if t.H.Type != o.H.Type {
		return errors.InvalidOperation.Clone().SetData("type", o.H.Type)
	}

	return o.B.IsWellFormed(conf)
}

func (o Operation) String() string {
	encoded, _ := json.MarshalIndent(o, "", "  ")

	return string(encoded)
}

type envelop struct {
	H Header
	B interface{}
}

func (o *Operation) UnmarshalJSON(b []byte) (err error) {
	var raw json.RawMessage
	oj := envelop{
		B: &raw,
	}
	if err = json.Unmarshal(b, &oj); err != nil {
		return
	}

	o.H = oj.H

	var body Body
	if body, err = UnmarshalBodyJSON(oj.H.Type, raw); err != nil {
		return
	}
	o.B = body
	return nil
}

func UnmarshalBodyJSON(t OperationType, b []byte) (Body, error) {
	if bi, err := newBodyFromType(t); err != nil {
		return nil, err
	} else if err = json.Unmarshal(b, bi); err != nil {
		return nil, err
	} else {
		// No other way to go from interface-to-pointer to interface-to-value
		// because values within interfaces are not addressable
		return reflect.ValueOf(bi).Elem().Interface().(Body), nil
	}
}

// Returns: A pointer to a body with a type matching `ty`
func newBodyFromType(ty OperationType) (interface{}, error) {
	switch ty {
	case TypeRegisterVoter:
		return &RegisterVoter{}, nil
	case TypeDelegate:
		return &Delegate{}, nil
	case TypeRevoke:
		return &Revoke{}, nil
	case TypeCreateProposal:
		return &CreateProposal{}, nil
	case TypeVote:
		return &Vote{}, nil
	case TypeCloseProposal:
		return &CloseProposal{}, nil
	case TypeRequestDecryption:
		return &RequestDecryption{}, nil
	case TypeDecryptionCallback:
		return &DecryptionCallback{}, nil
	case TypeMarkDecryptionFailed:
		return &MarkDecryptionFailed{}, nil
	case TypeClaimRefund:
		return &ClaimRefund{}, nil
	default:
		return nil, errors.InvalidOperation.Clone().SetData("type", ty)
	}
}
