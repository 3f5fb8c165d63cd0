package api

import (
	"net/http"

	"boscoin.io/obscura/lib/httputils"
	"boscoin.io/obscura/lib/node/runner/api/resource"
	"boscoin.io/obscura/lib/proposal"
)

func (api NetworkHandlerAPI) GetProposalDecryptionHandler(w http.ResponseWriter, r *http.Request) {
	readFunc := func() (payload interface{}, err error) {
		id, err := parseProposalID(r)
		if err != nil {
			return nil, err
		}
		if _, err = proposal.GetProposal(api.storage, id); err != nil {
			return nil, err
		}
		req, err := api.ledger.GetDecryptionRequest(id)
		if err != nil {
			return nil, err
		}
		return resource.NewDecryptionRequest(req), nil
	}

	payload, err := readFunc()
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, payload)
}
