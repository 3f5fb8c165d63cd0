package ledger

import (
	"time"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/transaction/operation"
)

// Result is what a committed transition returns to its caller.
type Result struct {
	Hash       string            `json:"hash,omitempty"`
	Source     string            `json:"source"`
	Created    time.Time         `json:"created"`
	Operations []OperationResult `json:"operations"`
}

// OperationResult carries the record an operation created or changed, like
// the new proposal of `create-proposal` or the request of
// `request-decryption`.
type OperationResult struct {
	Type  operation.OperationType `json:"type"`
	Value interface{}             `json:"value"`
}

func (r *Result) String() string {
	return string(common.MustMarshalJSON(r))
}

// Last returns the value of the last operation.
func (r *Result) Last() interface{} {
	if len(r.Operations) < 1 {
		return nil
	}
	return r.Operations[len(r.Operations)-1].Value
}
