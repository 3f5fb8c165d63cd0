package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	lru "github.com/hashicorp/golang-lru"

	"boscoin.io/obscura/lib/common/keypair"
	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/ledger"
	"boscoin.io/obscura/lib/node"
	"boscoin.io/obscura/lib/node/runner/api/resource"
	"boscoin.io/obscura/lib/storage"
)

const APIVersionV1 = "v1"

// API Endpoint patterns
const (
	GetNodeInfoPattern                  = "/"
	GetVotersHandlerPattern             = "/voters"
	GetVoterHandlerPattern              = "/voters/{address}"
	GetProposalsHandlerPattern          = "/proposals"
	GetProposalHandlerPattern           = "/proposals/{id}"
	GetProposalVotesHandlerPattern      = "/proposals/{id}/votes"
	GetProposalReceiptsHandlerPattern   = "/proposals/{id}/receipts"
	GetProposalVoterHandlerPattern      = "/proposals/{id}/voters/{address}"
	GetProposalDecryptionHandlerPattern = "/proposals/{id}/decryption"
	GetAccountSequenceHandlerPattern    = "/accounts/{address}/sequence"
	PostTransactionPattern              = "/transactions"
	GetTransactionByHashHandlerPattern  = "/transactions/{hash}"
	GetEventsHandlerPattern             = "/events"
)

// DefaultTransactionCacheSize is the number of submitted transactions whose
// status is kept for `GetTransactionByHashHandler`.
const DefaultTransactionCacheSize = 10000

type NetworkHandlerAPI struct {
	ledger    *ledger.Ledger
	storage   *storage.LevelDBBackend
	txCache   *lru.Cache
	urlPrefix string
	version   string

	GetNodeInfo func() node.NodeInfo
}

func NewNetworkHandlerAPI(l *ledger.Ledger, urlPrefix string, txCacheSize int) (*NetworkHandlerAPI, error) {
	txCache, err := lru.New(txCacheSize)
	if err != nil {
		return nil, err
	}

	return &NetworkHandlerAPI{
		ledger:    l,
		storage:   l.Storage(),
		txCache:   txCache,
		urlPrefix: urlPrefix,
		version:   APIVersionV1,
	}, nil
}

func (api NetworkHandlerAPI) HandlerURLPattern(pattern string) string {
	return fmt.Sprintf("%s/%s%s", api.urlPrefix, api.version, pattern)
}

func (api NetworkHandlerAPI) cacheTransaction(status *resource.TransactionStatus) {
	if len(status.Hash) < 1 {
		return
	}

	// a committed transaction stays committed; replays are rejected but
	// must not hide the result.
	if status.Status != resource.TransactionCommitted {
		if v, found := api.txCache.Peek(status.Hash); found {
			if cached, ok := v.(*resource.TransactionStatus); ok && cached.Status == resource.TransactionCommitted {
				return
			}
		}
	}

	api.txCache.Add(status.Hash, status)
}

func (api NetworkHandlerAPI) getCachedTransaction(hash string) (*resource.TransactionStatus, bool) {
	v, found := api.txCache.Get(hash)
	if !found {
		return nil, false
	}
	status, ok := v.(*resource.TransactionStatus)
	return status, ok
}

func parseProposalID(r *http.Request) (uint64, error) {
	s := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.BadRequestParameter.Clone().SetData("id", s)
	}
	return id, nil
}

func parseAddress(r *http.Request) (string, error) {
	address := mux.Vars(r)["address"]
	if !keypair.IsAddress(address) {
		return "", errors.BadPublicAddress.Clone().SetData("address", address)
	}
	return address, nil
}
