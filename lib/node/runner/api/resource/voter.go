package resource

import (
	"github.com/nvellon/hal"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/voter"
)

type Voter struct {
	v             *voter.Voter
	delegation    *voter.Delegation
	refundBalance common.Amount
}

func NewVoter(v *voter.Voter, delegation *voter.Delegation, refundBalance common.Amount) *Voter {
	return &Voter{
		v:             v,
		delegation:    delegation,
		refundBalance: refundBalance,
	}
}

func (v Voter) GetMap() hal.Entry {
	entry := hal.Entry{
		"address":        v.v.Address,
		"power":          v.v.Power,
		"registered":     common.FormatISO8601(v.v.Registered),
		"refund_balance": v.refundBalance,
	}
	if v.delegation != nil && v.delegation.Active {
		entry["delegation"] = map[string]interface{}{
			"target":  v.delegation.Target,
			"weight":  v.delegation.Weight,
			"updated": common.FormatISO8601(v.delegation.Updated),
		}
	}

	return entry
}

func (v Voter) Resource() *hal.Resource {
	r := hal.NewResource(v, v.LinkSelf())
	r.AddLink("sequence", hal.NewLink(expand(URLAccountSequence, "address", v.v.Address)))
	return r
}

func (v Voter) LinkSelf() string {
	return expand(URLVoter, "address", v.v.Address)
}

func (v Voter) MarshalJSON() ([]byte, error) {
	return common.JSONMarshalWithoutEscapeHTML(v.Resource().GetMap())
}
