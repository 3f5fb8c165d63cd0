package proposal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/crypto/sha3"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/storage"
	"boscoin.io/obscura/lib/voter"
)

// Receipt records that a voter voted on a proposal. The choice is not part
// of it.
//
// models
//  * 'proposal' and 'voter'
// 	- 'pp-voted-<Receipt.ProposalID>-<Receipt.Voter>': `Receipt`

const ReceiptPrefix string = "pp-voted-"

type Receipt struct {
	ProposalID uint64       `json:"proposal_id"`
	Voter      string       `json:"voter"`
	Power      common.Power `json:"power"`
	ProofHash  string       `json:"proof_hash"`
	Created    time.Time    `json:"created"`
}

func (r *Receipt) Serialize() ([]byte, error) {
	return common.EncodeJSONValue(r)
}

func GetReceiptKey(proposalID uint64, address string) string {
	return fmt.Sprintf("%s%s-%s", ReceiptPrefix, proposalKeySuffix(proposalID), address)
}

func getReceiptPrefix(proposalID uint64) string {
	return fmt.Sprintf("%s%s-", ReceiptPrefix, proposalKeySuffix(proposalID))
}

func HasVoted(st *storage.LevelDBBackend, proposalID uint64, address string) (bool, error) {
	if exists, err := ExistsProposal(st, proposalID); err != nil {
		return false, err
	} else if !exists {
		return false, errors.InvalidProposalID.Clone().SetData("proposal", proposalID)
	}

	return st.Has(GetReceiptKey(proposalID, address))
}

func GetReceipts(st *storage.LevelDBBackend, proposalID uint64, options storage.ListOptions) (func() (*Receipt, bool, []byte), func()) {
	iterFunc, closeFunc := st.GetIterator(getReceiptPrefix(proposalID), options)

	return (func() (*Receipt, bool, []byte) {
			item, hasNext := iterFunc()
			if !hasNext {
				return nil, false, item.Key
			}

			var r Receipt
			if err := json.Unmarshal(item.Value, &r); err != nil {
				return nil, false, item.Key
			}
			return &r, hasNext, item.Key
		}), (func() {
			closeFunc()
		})
}

// Vote folds the current power of address into the accumulator selected by
// choice and into the sealed tally.
func Vote(st *storage.LevelDBBackend, config common.Config, proposalID uint64, address string, choice bool, proof []byte, now time.Time) (*Receipt, error) {
	p, err := GetProposal(st, proposalID)
	if err != nil {
		return nil, err
	}

	v, err := voter.GetVoter(st, address)
	if err != nil {
		return nil, err
	}

	if p.State != StateActive {
		return nil, errors.ProposalNotActive.Clone().SetData("proposal", proposalID)
	}
	if p.IsDeadlinePassed(now) {
		return nil, errors.VotingPeriodEnded.Clone().SetData("deadline", p.Deadline)
	}

	if voted, err := st.Has(GetReceiptKey(proposalID, address)); err != nil {
		return nil, err
	} else if voted {
		return nil, errors.AlreadyVoted.Clone().SetData("voter", address)
	}

	delegation, err := voter.GetDelegation(st, address)
	if err != nil {
		return nil, err
	}
	if delegation.Active || v.Power.IsZero() {
		return nil, errors.DelegationActive.Clone().SetData("voter", address)
	}

	if len(proof) > config.MaxProofLength {
		return nil, errors.InvalidProofLength.Clone().SetData("length", len(proof))
	}

	if choice {
		p.Yes, err = p.Yes.Mix(proposalID, address, v.Power, now)
	} else {
		p.No, err = p.No.Mix(proposalID, address, v.Power, now)
	}
	if err != nil {
		return nil, errors.EncodingFailed.Clone().SetData("error", err.Error())
	}

	tally, err := OpenTally(p.SealedTally, config.TallyKey)
	if err != nil {
		return nil, err
	}
	if err = tally.Add(choice, v.Power); err != nil {
		return nil, err
	}
	if p.SealedTally, err = tally.Seal(config.TallyKey); err != nil {
		return nil, err
	}
	p.VoteCount++

	if err = p.Save(st); err != nil {
		return nil, err
	}

	r := &Receipt{
		ProposalID: proposalID,
		Voter:      address,
		Power:      v.Power,
		ProofHash:  hashProof(proof),
		Created:    now,
	}
	if err = st.New(GetReceiptKey(proposalID, address), r); err != nil {
		return nil, err
	}

	log.Debug("vote cast", "proposal", proposalID, "voter", address)

	return r, nil
}

func hashProof(proof []byte) string {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(proof)
	return hexutil.Encode(hasher.Sum(nil))
}
