package resource

import (
	"github.com/nvellon/hal"
)

// Sequence is the sequence id the next transaction of the account must
// carry.
type Sequence struct {
	Address    string
	SequenceID uint64
}

func (s Sequence) GetMap() hal.Entry {
	return hal.Entry{
		"address":     s.Address,
		"sequence_id": s.SequenceID,
	}
}

func (s Sequence) Resource() *hal.Resource {
	r := hal.NewResource(s, s.LinkSelf())
	r.AddLink("voter", hal.NewLink(expand(URLVoter, "address", s.Address)))
	return r
}

func (s Sequence) LinkSelf() string {
	return expand(URLAccountSequence, "address", s.Address)
}
