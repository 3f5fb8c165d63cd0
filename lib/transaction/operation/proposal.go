package operation

import (
	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/errors"
)

type CreateProposal struct {
	Description string `json:"description"`
}

func NewCreateProposal(description string) CreateProposal {
	return CreateProposal{Description: description}
}

func (o CreateProposal) IsWellFormed(config common.Config) error {
	if l := len(o.Description); l < config.MinDescriptionLength || l > config.MaxDescriptionLength {
		return errors.InvalidDescription.Clone().SetData("length", l)
	}

	return nil
}

// Vote carries the choice of the source and its opaque input proof.
type Vote struct {
	ProposalID uint64 `json:"proposal_id"`
	Choice     bool   `json:"choice"`
	Proof      []byte `json:"proof"`
}

func NewVote(proposalID uint64, choice bool, proof []byte) Vote {
	return Vote{ProposalID: proposalID, Choice: choice, Proof: proof}
}

func (o Vote) IsWellFormed(config common.Config) error {
	return checkProof(config, o.Proof)
}

type CloseProposal struct {
	ProposalID uint64 `json:"proposal_id"`
}

func NewCloseProposal(proposalID uint64) CloseProposal {
	return CloseProposal{ProposalID: proposalID}
}

func (o CloseProposal) IsWellFormed(common.Config) error {
	return nil
}

func checkProof(config common.Config, proof []byte) error {
	if len(proof) > config.MaxProofLength {
		return errors.InvalidProofLength.Clone().SetData("length", len(proof))
	}

	return nil
}
