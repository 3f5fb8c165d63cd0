package ledger

import (
	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/decryption"
	"boscoin.io/obscura/lib/proposal"
	"boscoin.io/obscura/lib/voter"
)

func (l *Ledger) PowerOf(address string) (common.Power, error) {
	return voter.PowerOf(l.st, address)
}

func (l *Ledger) IsRegistered(address string) (bool, error) {
	return voter.IsRegistered(l.st, address)
}

func (l *Ledger) GetVoter(address string) (*voter.Voter, error) {
	return voter.GetVoter(l.st, address)
}

func (l *Ledger) GetDelegation(address string) (*voter.Delegation, error) {
	return voter.GetDelegation(l.st, address)
}

// GetProposal reports the state effective at the current time.
func (l *Ledger) GetProposal(id uint64) (*proposal.Proposal, error) {
	p, err := proposal.GetProposal(l.st, id)
	if err != nil {
		return nil, err
	}
	p.State = p.EffectiveState(l.clock.Now())

	return p, nil
}

func (l *Ledger) GetEncryptedVotes(id uint64) (*proposal.EncryptedVotes, error) {
	return proposal.GetEncryptedVotes(l.st, id)
}

func (l *Ledger) HasVoted(id uint64, address string) (bool, error) {
	return proposal.HasVoted(l.st, id, address)
}

func (l *Ledger) GetDecryptionRequest(proposalID uint64) (*decryption.Request, error) {
	return decryption.GetRequestByProposal(l.st, proposalID)
}

func (l *Ledger) GetSequenceID(address string) (uint64, error) {
	return GetSequenceID(l.st, address)
}

func (l *Ledger) RefundBalance(address string) (common.Amount, error) {
	return decryption.Balance(l.st, address)
}
