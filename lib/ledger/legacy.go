package ledger

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/common/keypair"
	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/proposal"
)

// ResultsRequestHash is the message the owner signs to read results through
// `GetProposalResults`.
func ResultsRequestHash(proposalID uint64, key [common.TallyKeyLength]byte) (string, error) {
	h, err := common.MakeMixHash([]interface{}{"results", proposalID, key[:]})
	if err != nil {
		return "", errors.EncodingFailed.Clone().SetData("error", err.Error())
	}

	return hexutil.Encode(h[:]), nil
}

func MakeResultsSignature(kp keypair.KP, networkID []byte, proposalID uint64, key [common.TallyKeyLength]byte) ([]byte, error) {
	hash, err := ResultsRequestHash(proposalID, key)
	if err != nil {
		return nil, err
	}

	return keypair.MakeSignature(kp, networkID, hash)
}

// GetProposalResults opens the tally of a proposal right away, without a
// decryption request. Only the owner can sign for it, only after the
// deadline, and nothing is written.
func (l *Ledger) GetProposalResults(proposalID uint64, key [common.TallyKeyLength]byte, signature []byte) (*proposal.Tally, error) {
	l.Lock()
	defer l.Unlock()

	if exists, err := proposal.ExistsProposal(l.st, proposalID); err != nil {
		return nil, err
	} else if !exists {
		return nil, errors.InvalidProposalID.Clone().SetData("proposal", proposalID)
	}

	hash, err := ResultsRequestHash(proposalID, key)
	if err != nil {
		return nil, err
	}
	if err = keypair.VerifySignature(l.Owner(), l.config.NetworkID, hash, signature); err != nil {
		return nil, errors.InvalidOwnerSignature
	}

	return proposal.Results(l.st, proposalID, key, l.clock.Now())
}
