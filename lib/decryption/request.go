package decryption

import (
	"encoding/json"
	"fmt"
	"time"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/proposal"
	"boscoin.io/obscura/lib/storage"
)

// Request asks the decryption authority to reveal the tally of a proposal.
// A proposal gets at most one request, whatever its outcome.
//
// models
//  * 'id'
// 	- 'dc-id-<Request.ID>': `Request`
//  * 'proposal'
// 	- 'dc-proposal-<Request.ProposalID>': `Request.ID`

const (
	RequestPrefixID       string = "dc-id-"
	RequestPrefixProposal string = "dc-proposal-"
	RequestSequenceKey    string = "dc-sequence"
)

type Status uint8

const (
	StatusPending Status = iota
	StatusResolved
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusResolved:
		return "resolved"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return errors.DecodingFailed.Clone().SetData("error", err.Error())
	}

	switch v {
	case "pending":
		*s = StatusPending
	case "resolved":
		*s = StatusResolved
	case "failed":
		*s = StatusFailed
	default:
		return errors.DecodingFailed.Clone().SetData("status", v)
	}

	return nil
}

type Request struct {
	ID          uint64    `json:"id"`
	ProposalID  uint64    `json:"proposal_id"`
	Requester   string    `json:"requester"`
	RequestedAt time.Time `json:"requested_at"`
	Status      Status    `json:"status"`
	Finished    time.Time `json:"finished"`
}

func (r *Request) Serialize() ([]byte, error) {
	return common.EncodeJSONValue(r)
}

func (r *Request) Save(st *storage.LevelDBBackend) error {
	return st.Put(GetRequestKey(r.ID), r)
}

// IsTimedOut reports whether anyone may mark the request failed at `now`.
func (r *Request) IsTimedOut(config common.Config, now time.Time) bool {
	return !now.Before(r.RequestedAt.Add(config.DecryptionTimeout))
}

func GetRequestKey(id uint64) string {
	return storage.SequenceKey(RequestPrefixID, id)
}

func GetRequestProposalKey(proposalID uint64) string {
	return fmt.Sprintf("%s%020d", RequestPrefixProposal, proposalID)
}

func GetRequest(st *storage.LevelDBBackend, id uint64) (r *Request, err error) {
	if err = st.Get(GetRequestKey(id), &r); err != nil {
		if storage.IsNotFound(err) {
			err = errors.UnknownOrResolvedRequest.Clone().SetData("request", id)
		}
		return
	}

	return
}

// GetRequestByProposal returns the request of a proposal, or
// `DecryptionNotRequested`.
func GetRequestByProposal(st *storage.LevelDBBackend, proposalID uint64) (*Request, error) {
	var id uint64
	if err := st.Get(GetRequestProposalKey(proposalID), &id); err != nil {
		if storage.IsNotFound(err) {
			return nil, errors.DecryptionNotRequested.Clone().SetData("proposal", proposalID)
		}
		return nil, err
	}

	return GetRequest(st, id)
}

// RequestDecryption opens the single request of a proposal whose deadline
// passed. The proposal is closed on the way.
func RequestDecryption(st *storage.LevelDBBackend, proposalID uint64, requester string, now time.Time) (*Request, error) {
	p, err := proposal.GetProposal(st, proposalID)
	if err != nil {
		return nil, err
	}

	if !p.IsDeadlinePassed(now) {
		return nil, errors.VotingStillActive.Clone().SetData("deadline", p.Deadline)
	}

	if exists, err := st.Has(GetRequestProposalKey(proposalID)); err != nil {
		return nil, err
	} else if exists {
		return nil, errors.DecryptionAlreadyRequested.Clone().SetData("proposal", proposalID)
	}

	if p.State != proposal.StateClosed {
		if _, err = proposal.Close(st, proposalID, now); err != nil {
			return nil, err
		}
	}

	id, err := storage.NextSequence(st, RequestSequenceKey)
	if err != nil {
		return nil, err
	}

	r := &Request{
		ID:          id,
		ProposalID:  proposalID,
		Requester:   requester,
		RequestedAt: now,
		Status:      StatusPending,
	}
	if err = st.New(GetRequestKey(id), r); err != nil {
		return nil, err
	}
	if err = st.New(GetRequestProposalKey(proposalID), id); err != nil {
		return nil, err
	}

	log.Debug("decryption requested", "proposal", proposalID, "request", id)

	return r, nil
}

// Callback resolves a pending request with the revealed result. The caller
// must have authenticated the authority and its proof already.
func Callback(st *storage.LevelDBBackend, requestID uint64, yes, no common.Power, now time.Time) (*Request, error) {
	r, err := GetRequest(st, requestID)
	if err != nil {
		return nil, err
	}
	if r.Status != StatusPending {
		return nil, errors.UnknownOrResolvedRequest.Clone().SetData("request", requestID)
	}

	r.Status = StatusResolved
	r.Finished = now
	if err = r.Save(st); err != nil {
		return nil, err
	}

	result := proposal.Result{Yes: yes, No: no, RequestID: requestID, Revealed: now}
	if _, err = proposal.SetResult(st, r.ProposalID, result); err != nil {
		return nil, err
	}

	log.Debug("decryption resolved", "proposal", r.ProposalID, "request", requestID)

	return r, nil
}

// MarkFailed moves the pending request of a proposal to failed. Only the
// owner may do so before the timeout.
func MarkFailed(st *storage.LevelDBBackend, config common.Config, proposalID uint64, byOwner bool, now time.Time) (*Request, error) {
	r, err := GetRequestByProposal(st, proposalID)
	if err != nil {
		return nil, err
	}

	if !byOwner && !r.IsTimedOut(config, now) {
		return nil, errors.OnlyOwnerOrAfterTimeout.Clone().SetData("timeout", r.RequestedAt.Add(config.DecryptionTimeout))
	}

	if r.Status != StatusPending {
		return nil, errors.NotPending.Clone().SetData("status", r.Status.String())
	}

	r.Status = StatusFailed
	r.Finished = now
	if err = r.Save(st); err != nil {
		return nil, err
	}

	log.Debug("decryption failed", "proposal", proposalID, "request", r.ID, "by-owner", byOwner)

	return r, nil
}
