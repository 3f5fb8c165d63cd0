package resource

import (
	"github.com/nvellon/hal"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/proposal"
)

// Proposal shows the state of the proposal at the time it was read. The
// accumulators are left to `EncryptedVotes`.
type Proposal struct {
	p *proposal.Proposal
}

func NewProposal(p *proposal.Proposal) *Proposal {
	return &Proposal{p: p}
}

func (p Proposal) GetMap() hal.Entry {
	entry := hal.Entry{
		"id":          p.p.ID,
		"creator":     p.p.Creator,
		"description": p.p.Description,
		"created":     common.FormatISO8601(p.p.Created),
		"deadline":    common.FormatISO8601(p.p.Deadline),
		"state":       p.p.State,
		"vote_count":  p.p.VoteCount,
	}
	if p.p.Result != nil {
		entry["result"] = map[string]interface{}{
			"yes":        p.p.Result.Yes,
			"no":         p.p.Result.No,
			"request_id": p.p.Result.RequestID,
			"revealed":   common.FormatISO8601(p.p.Result.Revealed),
		}
	}

	return entry
}

func (p Proposal) Resource() *hal.Resource {
	id := formatID(p.p.ID)

	r := hal.NewResource(p, p.LinkSelf())
	r.AddLink("votes", hal.NewLink(expand(URLProposalVotes, "id", id)))
	r.AddLink("receipts", hal.NewLink(expand(URLProposalReceipts, "id", id)+"{?cursor,limit,reverse}", hal.LinkAttr{"templated": true}))
	r.AddLink("voter", hal.NewLink(expand(URLProposalVoter, "id", id), hal.LinkAttr{"templated": true}))
	r.AddLink("decryption", hal.NewLink(expand(URLProposalDecryption, "id", id)))
	return r
}

func (p Proposal) LinkSelf() string {
	return expand(URLProposal, "id", formatID(p.p.ID))
}

func (p Proposal) MarshalJSON() ([]byte, error) {
	return common.JSONMarshalWithoutEscapeHTML(p.Resource().GetMap())
}

type EncryptedVotes struct {
	ev *proposal.EncryptedVotes
}

func NewEncryptedVotes(ev *proposal.EncryptedVotes) *EncryptedVotes {
	return &EncryptedVotes{ev: ev}
}

func (e EncryptedVotes) GetMap() hal.Entry {
	return hal.Entry{
		"proposal_id":  e.ev.ProposalID,
		"yes":          e.ev.Yes.String(),
		"no":           e.ev.No.String(),
		"vote_count":   e.ev.VoteCount,
		"sealed_tally": e.ev.SealedTally,
	}
}

func (e EncryptedVotes) Resource() *hal.Resource {
	r := hal.NewResource(e, e.LinkSelf())
	r.AddLink("proposal", hal.NewLink(expand(URLProposal, "id", formatID(e.ev.ProposalID))))
	return r
}

func (e EncryptedVotes) LinkSelf() string {
	return expand(URLProposalVotes, "id", formatID(e.ev.ProposalID))
}

type Receipt struct {
	r *proposal.Receipt
}

func NewReceipt(r *proposal.Receipt) *Receipt {
	return &Receipt{r: r}
}

func (r Receipt) GetMap() hal.Entry {
	return hal.Entry{
		"proposal_id": r.r.ProposalID,
		"voter":       r.r.Voter,
		"power":       r.r.Power,
		"proof_hash":  r.r.ProofHash,
		"created":     common.FormatISO8601(r.r.Created),
	}
}

func (r Receipt) Resource() *hal.Resource {
	return hal.NewResource(r, r.LinkSelf())
}

func (r Receipt) LinkSelf() string {
	return expand(URLProposalVoter, "id", formatID(r.r.ProposalID), "address", r.r.Voter)
}

// HasVoted answers whether address voted on a proposal.
type HasVoted struct {
	ProposalID uint64
	Address    string
	Voted      bool
}

func (h HasVoted) GetMap() hal.Entry {
	return hal.Entry{
		"proposal_id": h.ProposalID,
		"address":     h.Address,
		"voted":       h.Voted,
	}
}

func (h HasVoted) Resource() *hal.Resource {
	r := hal.NewResource(h, h.LinkSelf())
	r.AddLink("proposal", hal.NewLink(expand(URLProposal, "id", formatID(h.ProposalID))))
	return r
}

func (h HasVoted) LinkSelf() string {
	return expand(URLProposalVoter, "id", formatID(h.ProposalID), "address", h.Address)
}
