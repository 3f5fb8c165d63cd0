package api

import (
	"net/http"

	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/httputils"
	"boscoin.io/obscura/lib/node/runner/api/resource"
	"boscoin.io/obscura/lib/voter"
)

func (api NetworkHandlerAPI) GetVoterHandler(w http.ResponseWriter, r *http.Request) {
	readFunc := func() (payload interface{}, err error) {
		address, err := parseAddress(r)
		if err != nil {
			return nil, err
		}
		v, err := api.ledger.GetVoter(address)
		if errors.NotRegistered.Is(err) {
			return nil, errors.VoterNotFound.Clone().SetData("address", address)
		} else if err != nil {
			return nil, err
		}
		d, err := api.ledger.GetDelegation(address)
		if err != nil {
			return nil, err
		}
		balance, err := api.ledger.RefundBalance(address)
		if err != nil {
			return nil, err
		}
		return resource.NewVoter(v, d, balance), nil
	}

	payload, err := readFunc()
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, payload)
}

func (api NetworkHandlerAPI) GetVotersHandler(w http.ResponseWriter, r *http.Request) {
	p, err := NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	readFunc := func() (rs []resource.Resource, firstCursor, lastCursor []byte, err error) {
		iterFunc, closeFunc := voter.GetVotersByRegistered(api.storage, p.ListOptions())
		defer closeFunc()

		for {
			v, hasNext, cursor := iterFunc()
			if !hasNext {
				break
			}
			d, err := api.ledger.GetDelegation(v.Address)
			if err != nil {
				return nil, nil, nil, err
			}
			balance, err := api.ledger.RefundBalance(v.Address)
			if err != nil {
				return nil, nil, nil, err
			}
			rs = append(rs, resource.NewVoter(v, d, balance))

			if firstCursor == nil {
				firstCursor = cursor
			}
			lastCursor = cursor
		}
		return
	}

	rs, firstCursor, lastCursor, err := readFunc()
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, p.ResourceList(rs, firstCursor, lastCursor))
}
