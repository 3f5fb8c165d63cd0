package api

import (
	"io/ioutil"
	"net/http"

	"github.com/gorilla/mux"

	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/httputils"
	"boscoin.io/obscura/lib/node/runner/api/resource"
	"boscoin.io/obscura/lib/transaction"
)

// MaxTransactionBodySize bounds the body of `PostTransactionsHandler`.
const MaxTransactionBodySize int64 = 1 << 20

// PostTransactionsHandler applies a signed transaction. The status of the
// transaction, committed or rejected, is kept for
// `GetTransactionByHashHandler`.
func (api NetworkHandlerAPI) PostTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	body, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, MaxTransactionBodySize))
	if err != nil {
		httputils.WriteJSONError(w, errors.BadRequestParameter.Clone().SetData("error", err.Error()))
		return
	}

	tx, err := transaction.NewTransactionFromJSON(body)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	result, err := api.ledger.Submit(tx)
	if err != nil {
		// only a transaction signed by its source can report a rejection
		// under its hash; anyone can resend a body with a broken signature.
		if tx.IsWellFormed(api.ledger.Config()) == nil {
			api.cacheTransaction(resource.NewRejectedTransaction(tx.GetHash(), tx.Source(), err))
		}
		httputils.WriteJSONError(w, err)
		return
	}

	status := resource.NewCommittedTransaction(result)
	api.cacheTransaction(status)

	httputils.MustWriteJSON(w, 200, status)
}

func (api NetworkHandlerAPI) GetTransactionByHashHandler(w http.ResponseWriter, r *http.Request) {
	hash := mux.Vars(r)["hash"]

	status, found := api.getCachedTransaction(hash)
	if !found {
		httputils.WriteJSONError(w, errors.TransactionNotFound.Clone().SetData("hash", hash))
		return
	}

	httputils.MustWriteJSON(w, 200, status)
}
