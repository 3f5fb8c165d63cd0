package api

import (
	"net/http"

	"boscoin.io/obscura/lib/decryption"
	"boscoin.io/obscura/lib/httputils"
	"boscoin.io/obscura/lib/node"
	"boscoin.io/obscura/lib/proposal"
	"boscoin.io/obscura/lib/storage"
	"boscoin.io/obscura/lib/voter"
)

func (api NetworkHandlerAPI) NodeInfoHandler(w http.ResponseWriter, r *http.Request) {
	var info node.NodeInfo
	if api.GetNodeInfo != nil {
		info = api.GetNodeInfo()
	} else {
		info.Policy = node.NewNodePolicy(api.ledger.Config(), "")
	}

	ledgerInfo, err := api.ledgerInfo()
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}
	info.Ledger = ledgerInfo

	httputils.MustWriteJSON(w, 200, info)
}

func (api NetworkHandlerAPI) ledgerInfo() (info node.LedgerInfo, err error) {
	info.Owner = api.ledger.Owner()
	info.Authority = api.ledger.Authority()

	if info.Voters, err = storage.CurrentSequence(api.storage, voter.VoterSequenceKey); err != nil {
		return
	}
	if info.Proposals, err = proposal.CountProposals(api.storage); err != nil {
		return
	}
	if info.DecryptionRequests, err = storage.CurrentSequence(api.storage, decryption.RequestSequenceKey); err != nil {
		return
	}

	return
}
