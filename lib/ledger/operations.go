package ledger

import (
	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/decryption"
	"boscoin.io/obscura/lib/proposal"
	"boscoin.io/obscura/lib/transaction/operation"
	"boscoin.io/obscura/lib/voter"
)

// The methods below apply a single operation for an already authenticated
// caller. Signed transactions go through `Submit`.

func (l *Ledger) Register(caller, address string) (*voter.Voter, error) {
	r, err := l.Apply(caller, operation.NewRegisterVoter(address))
	if err != nil {
		return nil, err
	}
	return r.Last().(*voter.Voter), nil
}

func (l *Ledger) Delegate(caller, to string) (*voter.Delegation, error) {
	r, err := l.Apply(caller, operation.NewDelegate(to))
	if err != nil {
		return nil, err
	}
	return r.Last().(*voter.Delegation), nil
}

func (l *Ledger) Revoke(caller string) (*voter.Delegation, error) {
	r, err := l.Apply(caller, operation.Revoke{})
	if err != nil {
		return nil, err
	}
	return r.Last().(*voter.Delegation), nil
}

func (l *Ledger) CreateProposal(caller, description string) (*proposal.Proposal, error) {
	r, err := l.Apply(caller, operation.NewCreateProposal(description))
	if err != nil {
		return nil, err
	}
	return r.Last().(*proposal.Proposal), nil
}

func (l *Ledger) Vote(caller string, proposalID uint64, choice bool, proof []byte) (*proposal.Receipt, error) {
	r, err := l.Apply(caller, operation.NewVote(proposalID, choice, proof))
	if err != nil {
		return nil, err
	}
	return r.Last().(*proposal.Receipt), nil
}

func (l *Ledger) CloseProposal(caller string, proposalID uint64) (*proposal.Proposal, error) {
	r, err := l.Apply(caller, operation.NewCloseProposal(proposalID))
	if err != nil {
		return nil, err
	}
	return r.Last().(*proposal.Proposal), nil
}

// RequestDecryption returns the id of the new request.
func (l *Ledger) RequestDecryption(caller string, proposalID uint64) (uint64, error) {
	r, err := l.Apply(caller, operation.NewRequestDecryption(proposalID))
	if err != nil {
		return 0, err
	}
	return r.Last().(*decryption.Request).ID, nil
}

func (l *Ledger) DecryptionCallback(caller string, requestID uint64, yes, no common.Power, proof []byte) (*decryption.Request, error) {
	r, err := l.Apply(caller, operation.NewDecryptionCallback(requestID, yes, no, proof))
	if err != nil {
		return nil, err
	}
	return r.Last().(*decryption.Request), nil
}

func (l *Ledger) MarkDecryptionFailed(caller string, proposalID uint64) (*decryption.Request, error) {
	r, err := l.Apply(caller, operation.NewMarkDecryptionFailed(proposalID))
	if err != nil {
		return nil, err
	}
	return r.Last().(*decryption.Request), nil
}

func (l *Ledger) ClaimRefund(caller string, proposalID uint64) (*decryption.Refund, error) {
	r, err := l.Apply(caller, operation.NewClaimRefund(proposalID))
	if err != nil {
		return nil, err
	}
	return r.Last().(*decryption.Refund), nil
}
