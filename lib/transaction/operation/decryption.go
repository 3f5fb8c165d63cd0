package operation

import (
	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/errors"
)

type RequestDecryption struct {
	ProposalID uint64 `json:"proposal_id"`
}

func NewRequestDecryption(proposalID uint64) RequestDecryption {
	return RequestDecryption{ProposalID: proposalID}
}

func (o RequestDecryption) IsWellFormed(common.Config) error {
	return nil
}

// DecryptionCallback is sent by the decryption authority. `Proof` is the
// authority's signature over the request id and the revealed counts.
type DecryptionCallback struct {
	RequestID uint64       `json:"request_id"`
	Yes       common.Power `json:"yes"`
	No        common.Power `json:"no"`
	Proof     []byte       `json:"proof"`
}

func NewDecryptionCallback(requestID uint64, yes, no common.Power, proof []byte) DecryptionCallback {
	return DecryptionCallback{RequestID: requestID, Yes: yes, No: no, Proof: proof}
}

func (o DecryptionCallback) IsWellFormed(config common.Config) error {
	if len(o.Proof) < 1 {
		return errors.InvalidCallbackProof
	}

	return checkProof(config, o.Proof)
}

type MarkDecryptionFailed struct {
	ProposalID uint64 `json:"proposal_id"`
}

func NewMarkDecryptionFailed(proposalID uint64) MarkDecryptionFailed {
	return MarkDecryptionFailed{ProposalID: proposalID}
}

func (o MarkDecryptionFailed) IsWellFormed(common.Config) error {
	return nil
}

type ClaimRefund struct {
	ProposalID uint64 `json:"proposal_id"`
}

func NewClaimRefund(proposalID uint64) ClaimRefund {
	return ClaimRefund{ProposalID: proposalID}
}

func (o ClaimRefund) IsWellFormed(common.Config) error {
	return nil
}
