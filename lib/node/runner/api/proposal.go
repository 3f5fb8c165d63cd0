package api

import (
	"net/http"

	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/httputils"
	"boscoin.io/obscura/lib/node/runner/api/resource"
	"boscoin.io/obscura/lib/proposal"
)

func (api NetworkHandlerAPI) GetProposalHandler(w http.ResponseWriter, r *http.Request) {
	readFunc := func() (payload interface{}, err error) {
		id, err := parseProposalID(r)
		if err != nil {
			return nil, err
		}
		p, err := api.ledger.GetProposal(id)
		if err != nil {
			return nil, err
		}
		return resource.NewProposal(p), nil
	}

	payload, err := readFunc()
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, payload)
}

func (api NetworkHandlerAPI) GetProposalsHandler(w http.ResponseWriter, r *http.Request) {
	p, err := NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	now := api.ledger.Now()

	var rs []resource.Resource
	var firstCursor, lastCursor []byte
	{
		iterFunc, closeFunc := proposal.GetProposals(api.storage, p.ListOptions())
		for {
			pp, hasNext, cursor := iterFunc()
			if !hasNext {
				break
			}
			pp.State = pp.EffectiveState(now)
			rs = append(rs, resource.NewProposal(pp))

			if firstCursor == nil {
				firstCursor = cursor
			}
			lastCursor = cursor
		}
		closeFunc()
	}

	httputils.MustWriteJSON(w, 200, p.ResourceList(rs, firstCursor, lastCursor))
}

func (api NetworkHandlerAPI) GetProposalVotesHandler(w http.ResponseWriter, r *http.Request) {
	readFunc := func() (payload interface{}, err error) {
		id, err := parseProposalID(r)
		if err != nil {
			return nil, err
		}
		ev, err := api.ledger.GetEncryptedVotes(id)
		if err != nil {
			return nil, err
		}
		return resource.NewEncryptedVotes(ev), nil
	}

	payload, err := readFunc()
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, payload)
}

func (api NetworkHandlerAPI) GetProposalReceiptsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseProposalID(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}
	if found, err := proposal.ExistsProposal(api.storage, id); err != nil {
		httputils.WriteJSONError(w, err)
		return
	} else if !found {
		httputils.WriteJSONError(w, errors.InvalidProposalID.Clone().SetData("proposal", id))
		return
	}

	p, err := NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	var rs []resource.Resource
	var firstCursor, lastCursor []byte
	{
		iterFunc, closeFunc := proposal.GetReceipts(api.storage, id, p.ListOptions())
		for {
			receipt, hasNext, cursor := iterFunc()
			if !hasNext {
				break
			}
			rs = append(rs, resource.NewReceipt(receipt))

			if firstCursor == nil {
				firstCursor = cursor
			}
			lastCursor = cursor
		}
		closeFunc()
	}

	httputils.MustWriteJSON(w, 200, p.ResourceList(rs, firstCursor, lastCursor))
}

func (api NetworkHandlerAPI) GetProposalVoterHandler(w http.ResponseWriter, r *http.Request) {
	readFunc := func() (payload interface{}, err error) {
		id, err := parseProposalID(r)
		if err != nil {
			return nil, err
		}
		address, err := parseAddress(r)
		if err != nil {
			return nil, err
		}
		voted, err := api.ledger.HasVoted(id, address)
		if err != nil {
			return nil, err
		}
		return resource.HasVoted{ProposalID: id, Address: address, Voted: voted}, nil
	}

	payload, err := readFunc()
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, payload)
}
