package resource

import (
	"github.com/nvellon/hal"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/ledger"
)

const (
	TransactionCommitted = "committed"
	TransactionRejected  = "rejected"
)

// TransactionStatus is what the node remembers of a submitted transaction.
// It never holds the transaction body, so the choices of votes are not kept.
type TransactionStatus struct {
	Hash   string
	Source string
	Status string
	Result *ledger.Result
	Error  *errors.Error
}

func NewCommittedTransaction(result *ledger.Result) *TransactionStatus {
	return &TransactionStatus{
		Hash:   result.Hash,
		Source: result.Source,
		Status: TransactionCommitted,
		Result: result,
	}
}

func NewRejectedTransaction(hash, source string, err error) *TransactionStatus {
	e, ok := err.(*errors.Error)
	if !ok {
		e = errors.HTTPServerError.Clone().SetData("error", err.Error())
	}

	return &TransactionStatus{
		Hash:   hash,
		Source: source,
		Status: TransactionRejected,
		Error:  e,
	}
}

func (t TransactionStatus) GetMap() hal.Entry {
	entry := hal.Entry{
		"hash":   t.Hash,
		"source": t.Source,
		"status": t.Status,
	}
	if t.Result != nil {
		entry["created"] = common.FormatISO8601(t.Result.Created)
		entry["operations"] = t.Result.Operations
	}
	if t.Error != nil {
		entry["error"] = t.Error
	}

	return entry
}

func (t TransactionStatus) Resource() *hal.Resource {
	r := hal.NewResource(t, t.LinkSelf())
	r.AddLink("source", hal.NewLink(expand(URLVoter, "address", t.Source)))
	return r
}

func (t TransactionStatus) LinkSelf() string {
	return expand(URLTransactionByHash, "hash", t.Hash)
}
