package decryption

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/common/keypair"
	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/proposal"
)

// CallbackProofHash is the message the authority signs for a callback.
func CallbackProofHash(requestID uint64, yes, no common.Power) (string, error) {
	h, err := common.MakeMixHash([]interface{}{"callback", requestID, yes, no})
	if err != nil {
		return "", errors.EncodingFailed.Clone().SetData("error", err.Error())
	}

	return hexutil.Encode(h[:]), nil
}

func MakeCallbackProof(kp keypair.KP, networkID []byte, requestID uint64, yes, no common.Power) ([]byte, error) {
	hash, err := CallbackProofHash(requestID, yes, no)
	if err != nil {
		return nil, err
	}

	return keypair.MakeSignature(kp, networkID, hash)
}

// VerifyCallbackProof checks that proof is the signature of address over
// the callback arguments.
func VerifyCallbackProof(address string, networkID []byte, requestID uint64, yes, no common.Power, proof []byte) error {
	hash, err := CallbackProofHash(requestID, yes, no)
	if err != nil {
		return err
	}

	if err = keypair.VerifySignature(address, networkID, hash, proof); err != nil {
		return errors.InvalidCallbackProof.Clone().SetData("request", requestID)
	}

	return nil
}

// Authority is the decryption side: it holds the tally key and the keypair
// the ledger accepts callbacks from.
type Authority struct {
	kp        keypair.KP
	networkID []byte
	tallyKey  [common.TallyKeyLength]byte
}

func NewAuthority(kp keypair.KP, networkID []byte, tallyKey [common.TallyKeyLength]byte) *Authority {
	return &Authority{kp: kp, networkID: networkID, tallyKey: tallyKey}
}

func (a *Authority) Address() string {
	return a.kp.Address()
}

// Respond opens the sealed tally of a request and returns the callback
// arguments.
func (a *Authority) Respond(requestID uint64, sealed []byte) (yes, no common.Power, proof []byte, err error) {
	var tally *proposal.Tally
	if tally, err = proposal.OpenTally(sealed, a.tallyKey); err != nil {
		return
	}

	yes, no = tally.Yes, tally.No
	proof, err = MakeCallbackProof(a.kp, a.networkID, requestID, yes, no)

	return
}
