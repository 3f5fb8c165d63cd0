package decryption

import (
	"fmt"
	"sync"
	"time"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/proposal"
	"boscoin.io/obscura/lib/storage"
)

// Refund is the claim of a voter on a proposal whose decryption failed. It
// exists from the moment the claim is accepted, before any value moves.
//
// models
//  * 'proposal' and 'voter'
// 	- 'rf-<Refund.ProposalID>-<Refund.Voter>': `Refund`

const RefundPrefix string = "rf-"

type Refund struct {
	ProposalID uint64        `json:"proposal_id"`
	Voter      string        `json:"voter"`
	Amount     common.Amount `json:"amount"`
	Claimed    time.Time     `json:"claimed"`
}

func (r *Refund) Serialize() ([]byte, error) {
	return common.EncodeJSONValue(r)
}

func GetRefundKey(proposalID uint64, voter string) string {
	return fmt.Sprintf("%s%020d-%s", RefundPrefix, proposalID, voter)
}

func GetRefund(st *storage.LevelDBBackend, proposalID uint64, voter string) (r *Refund, err error) {
	err = st.Get(GetRefundKey(proposalID, voter), &r)
	return
}

// Refunder releases escrowed deposits. A claim for a (proposal, voter) pair
// that arrives while another claim of the same pair is releasing fails with
// `RefundInProgress`.
type Refunder struct {
	escrow   Escrow
	inflight sync.Map
}

func NewRefunder(escrow Escrow) *Refunder {
	return &Refunder{escrow: escrow}
}

func (f *Refunder) Escrow() Escrow {
	return f.escrow
}

func (f *Refunder) Claim(st *storage.LevelDBBackend, proposalID uint64, voter string, now time.Time) (*Refund, error) {
	key := GetRefundKey(proposalID, voter)
	if _, loaded := f.inflight.LoadOrStore(key, struct{}{}); loaded {
		return nil, errors.RefundInProgress.Clone().SetData("voter", voter)
	}
	defer f.inflight.Delete(key)

	request, err := GetRequestByProposal(st, proposalID)
	if err != nil {
		return nil, err
	}
	if request.Status != StatusFailed {
		return nil, errors.DecryptionNotFailed.Clone().SetData("status", request.Status.String())
	}

	if voted, err := proposal.HasVoted(st, proposalID, voter); err != nil {
		return nil, err
	} else if !voted {
		return nil, errors.DidNotVote.Clone().SetData("voter", voter)
	}

	if previous, err := GetRefund(st, proposalID, voter); err == nil {
		return nil, errors.AlreadyRefunded.Clone().SetData("voter", voter).SetData("claimed", common.FormatISO8601(previous.Claimed))
	} else if !storage.IsNotFound(err) {
		return nil, err
	}

	r := &Refund{ProposalID: proposalID, Voter: voter, Claimed: now}
	if err = st.New(key, r); err != nil {
		return nil, err
	}

	if r.Amount, err = f.escrow.Release(st, proposalID, voter); err != nil {
		return nil, err
	}
	if err = st.Set(key, r); err != nil {
		return nil, err
	}

	log.Debug("refund issued", "proposal", proposalID, "voter", voter, "amount", r.Amount)

	return r, nil
}
