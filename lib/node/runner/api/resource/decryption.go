package resource

import (
	"github.com/nvellon/hal"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/decryption"
)

type DecryptionRequest struct {
	r *decryption.Request
}

func NewDecryptionRequest(r *decryption.Request) *DecryptionRequest {
	return &DecryptionRequest{r: r}
}

func (d DecryptionRequest) GetMap() hal.Entry {
	entry := hal.Entry{
		"id":           d.r.ID,
		"proposal_id":  d.r.ProposalID,
		"requester":    d.r.Requester,
		"requested_at": common.FormatISO8601(d.r.RequestedAt),
		"status":       d.r.Status,
	}
	if !d.r.Finished.IsZero() {
		entry["finished"] = common.FormatISO8601(d.r.Finished)
	}

	return entry
}

func (d DecryptionRequest) Resource() *hal.Resource {
	r := hal.NewResource(d, d.LinkSelf())
	r.AddLink("proposal", hal.NewLink(expand(URLProposal, "id", formatID(d.r.ProposalID))))
	return r
}

func (d DecryptionRequest) LinkSelf() string {
	return expand(URLProposalDecryption, "id", formatID(d.r.ProposalID))
}
