package client

import (
	"fmt"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/decryption"
	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/httputils"
	"boscoin.io/obscura/lib/ledger"
	"boscoin.io/obscura/lib/proposal"
)

// Error is a problem returned by the node.
type Error struct {
	Problem httputils.Problem
}

func (e *Error) Error() string {
	return fmt.Sprintf("status=%d: %s", e.Problem.Status, e.Problem.Error())
}

// Match reports whether the node answered with target.
func (e *Error) Match(target *errors.Error) bool {
	return e.Problem.Code == target.Code
}

type Link struct {
	Href      string `json:"href"`
	Templated bool   `json:"templated,omitempty"`
}

type Delegation struct {
	Target  string       `json:"target"`
	Weight  common.Power `json:"weight"`
	Updated string       `json:"updated"`
}

type Voter struct {
	Links struct {
		Self     Link `json:"self"`
		Sequence Link `json:"sequence"`
	} `json:"_links"`

	Address       string        `json:"address"`
	Power         common.Power  `json:"power"`
	Registered    string        `json:"registered"`
	RefundBalance common.Amount `json:"refund_balance"`
	Delegation    *Delegation   `json:"delegation,omitempty"`
}

type Sequence struct {
	Address    string `json:"address"`
	SequenceID uint64 `json:"sequence_id"`
}

type Result struct {
	Yes       common.Power `json:"yes"`
	No        common.Power `json:"no"`
	RequestID uint64       `json:"request_id"`
	Revealed  string       `json:"revealed"`
}

type Proposal struct {
	Links struct {
		Self       Link `json:"self"`
		Votes      Link `json:"votes"`
		Receipts   Link `json:"receipts"`
		Voter      Link `json:"voter"`
		Decryption Link `json:"decryption"`
	} `json:"_links"`

	ID          uint64         `json:"id"`
	Creator     string         `json:"creator"`
	Description string         `json:"description"`
	Created     string         `json:"created"`
	Deadline    string         `json:"deadline"`
	State       proposal.State `json:"state"`
	VoteCount   uint64         `json:"vote_count"`
	Result      *Result        `json:"result,omitempty"`
}

type ProposalsPage struct {
	Links struct {
		Self Link `json:"self"`
		Next Link `json:"next"`
		Prev Link `json:"prev"`
	} `json:"_links"`
	Embedded struct {
		Records []Proposal `json:"records"`
	} `json:"_embedded"`
}

type EncryptedVotes struct {
	ProposalID  uint64 `json:"proposal_id"`
	Yes         string `json:"yes"`
	No          string `json:"no"`
	VoteCount   uint64 `json:"vote_count"`
	SealedTally []byte `json:"sealed_tally"`
}

type HasVoted struct {
	ProposalID uint64 `json:"proposal_id"`
	Address    string `json:"address"`
	Voted      bool   `json:"voted"`
}

type DecryptionRequest struct {
	ID          uint64            `json:"id"`
	ProposalID  uint64            `json:"proposal_id"`
	Requester   string            `json:"requester"`
	RequestedAt string            `json:"requested_at"`
	Status      decryption.Status `json:"status"`
	Finished    string            `json:"finished,omitempty"`
}

type TransactionStatus struct {
	Links struct {
		Self   Link `json:"self"`
		Source Link `json:"source"`
	} `json:"_links"`

	Hash       string                   `json:"hash"`
	Source     string                   `json:"source"`
	Status     string                   `json:"status"`
	Created    string                   `json:"created,omitempty"`
	Operations []ledger.OperationResult `json:"operations,omitempty"`
	Error      *errors.Error            `json:"error,omitempty"`
}
