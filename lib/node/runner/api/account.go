package api

import (
	"net/http"

	"boscoin.io/obscura/lib/httputils"
	"boscoin.io/obscura/lib/node/runner/api/resource"
)

func (api NetworkHandlerAPI) GetAccountSequenceHandler(w http.ResponseWriter, r *http.Request) {
	readFunc := func() (payload interface{}, err error) {
		address, err := parseAddress(r)
		if err != nil {
			return nil, err
		}
		sequenceID, err := api.ledger.GetSequenceID(address)
		if err != nil {
			return nil, err
		}
		return resource.Sequence{Address: address, SequenceID: sequenceID}, nil
	}

	payload, err := readFunc()
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, payload)
}
