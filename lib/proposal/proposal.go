package proposal

import (
	"encoding/json"
	"fmt"
	"time"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/storage"
)

// Proposal is a time-bounded yes/no question. the storage should support,
//  * find by `ID`
//  * get list ordered by `ID`
//
// models
//  * 'id'
// 	- 'pp-id-<Proposal.ID>': `Proposal`

const (
	ProposalPrefixID    string = "pp-id-"
	ProposalSequenceKey string = "pp-sequence"
)

type Proposal struct {
	ID          uint64      `json:"id"`
	Creator     string      `json:"creator"`
	Description string      `json:"description"`
	Created     time.Time   `json:"created"`
	Deadline    time.Time   `json:"deadline"`
	State       State       `json:"state"`
	Yes         Accumulator `json:"yes"`
	No          Accumulator `json:"no"`
	VoteCount   uint64      `json:"vote_count"`
	SealedTally []byte      `json:"sealed_tally"`
	Result      *Result     `json:"result,omitempty"`
}

// Result is the plaintext tally revealed by the decryption authority.
type Result struct {
	Yes       common.Power `json:"yes"`
	No        common.Power `json:"no"`
	RequestID uint64       `json:"request_id"`
	Revealed  time.Time    `json:"revealed"`
}

func (p *Proposal) String() string {
	return string(common.MustMarshalJSON(p))
}

func (p *Proposal) Serialize() ([]byte, error) {
	return common.EncodeJSONValue(p)
}

func (p *Proposal) Save(st *storage.LevelDBBackend) error {
	return st.Put(GetProposalKey(p.ID), p)
}

// EffectiveState is the state at `now`; an active proposal past its deadline
// reads as closed even before `Close` persists it.
func (p *Proposal) EffectiveState(now time.Time) State {
	if p.State == StateActive && now.After(p.Deadline) {
		return StateClosed
	}

	return p.State
}

func (p *Proposal) IsDeadlinePassed(now time.Time) bool {
	return now.After(p.Deadline)
}

func GetProposalKey(id uint64) string {
	return storage.SequenceKey(ProposalPrefixID, id)
}

func GetProposal(st *storage.LevelDBBackend, id uint64) (p *Proposal, err error) {
	if err = st.Get(GetProposalKey(id), &p); err != nil {
		if storage.IsNotFound(err) {
			err = errors.InvalidProposalID.Clone().SetData("proposal", id)
		}
		return
	}

	return
}

func ExistsProposal(st *storage.LevelDBBackend, id uint64) (bool, error) {
	return st.Has(GetProposalKey(id))
}

// CountProposals returns the number of proposals, which is also the id the
// next one gets.
func CountProposals(st *storage.LevelDBBackend) (uint64, error) {
	return storage.CurrentSequence(st, ProposalSequenceKey)
}

func CheckDescription(config common.Config, description string) error {
	if l := len(description); l < config.MinDescriptionLength || l > config.MaxDescriptionLength {
		return errors.InvalidDescription.Clone().SetData("length", l)
	}

	return nil
}

// Create appends a new active proposal whose deadline is `VotingPeriod` from
// `now`.
func Create(st *storage.LevelDBBackend, config common.Config, creator, description string, now time.Time) (*Proposal, error) {
	if err := CheckDescription(config, description); err != nil {
		return nil, err
	}

	id, err := storage.NextSequence(st, ProposalSequenceKey)
	if err != nil {
		return nil, err
	}

	p := &Proposal{
		ID:          id,
		Creator:     creator,
		Description: description,
		Created:     now,
		Deadline:    now.Add(config.VotingPeriod),
		State:       StateActive,
	}

	if p.Yes, err = seedAccumulator(id, now, "yes"); err != nil {
		return nil, errors.EncodingFailed.Clone().SetData("error", err.Error())
	}
	if p.No, err = seedAccumulator(id, now, "no"); err != nil {
		return nil, errors.EncodingFailed.Clone().SetData("error", err.Error())
	}
	if p.SealedTally, err = (Tally{}).Seal(config.TallyKey); err != nil {
		return nil, err
	}

	if err = st.New(GetProposalKey(id), p); err != nil {
		return nil, err
	}

	log.Debug("proposal created", "proposal", id, "deadline", p.Deadline)

	return p, nil
}

// Close persists the closed state once the deadline passed.
func Close(st *storage.LevelDBBackend, id uint64, now time.Time) (*Proposal, error) {
	p, err := GetProposal(st, id)
	if err != nil {
		return nil, err
	}

	if !p.IsDeadlinePassed(now) {
		return nil, errors.VotingStillActive.Clone().SetData("deadline", p.Deadline)
	}

	p.State = StateClosed
	if err = p.Save(st); err != nil {
		return nil, err
	}

	return p, nil
}

// SetResult stores the revealed plaintext result.
func SetResult(st *storage.LevelDBBackend, id uint64, result Result) (*Proposal, error) {
	p, err := GetProposal(st, id)
	if err != nil {
		return nil, err
	}

	p.Result = &result
	if err = p.Save(st); err != nil {
		return nil, err
	}

	return p, nil
}

// EncryptedVotes is what `GetEncryptedVotes` exposes: the opaque
// accumulators and the sealed tally, never the plaintext.
type EncryptedVotes struct {
	ProposalID  uint64      `json:"proposal_id"`
	Yes         Accumulator `json:"yes"`
	No          Accumulator `json:"no"`
	VoteCount   uint64      `json:"vote_count"`
	SealedTally []byte      `json:"sealed_tally"`
}

func GetEncryptedVotes(st *storage.LevelDBBackend, id uint64) (*EncryptedVotes, error) {
	p, err := GetProposal(st, id)
	if err != nil {
		return nil, err
	}

	return &EncryptedVotes{
		ProposalID:  p.ID,
		Yes:         p.Yes,
		No:          p.No,
		VoteCount:   p.VoteCount,
		SealedTally: p.SealedTally,
	}, nil
}

func GetProposals(st *storage.LevelDBBackend, options storage.ListOptions) (func() (*Proposal, bool, []byte), func()) {
	iterFunc, closeFunc := st.GetIterator(ProposalPrefixID, options)

	return (func() (*Proposal, bool, []byte) {
			item, hasNext := iterFunc()
			if !hasNext {
				return nil, false, item.Key
			}

			var p Proposal
			if err := json.Unmarshal(item.Value, &p); err != nil {
				return nil, false, item.Key
			}
			return &p, hasNext, item.Key
		}), (func() {
			closeFunc()
		})
}

func proposalKeySuffix(id uint64) string {
	return fmt.Sprintf("%020d", id)
}
