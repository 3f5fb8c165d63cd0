package proposal

import (
	"crypto/rand"
	"io"
	"time"

	"github.com/vmihailenco/msgpack"
	"golang.org/x/crypto/nacl/secretbox"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/storage"
)

const sealNonceLength = 24

// Tally is the weighted count of a proposal. It is only ever stored sealed
// under the tally key of the ledger.
type Tally struct {
	Yes   common.Power `json:"yes"`
	No    common.Power `json:"no"`
	Votes uint64       `json:"votes"`
}

type tallyWire struct {
	Yes   string `msgpack:"y"`
	No    string `msgpack:"n"`
	Votes uint64 `msgpack:"v"`
}

func (t *Tally) Add(choice bool, power common.Power) (err error) {
	if choice {
		t.Yes, err = t.Yes.Add(power)
	} else {
		t.No, err = t.No.Add(power)
	}
	if err != nil {
		return
	}
	t.Votes++

	return
}

// Seal encodes the tally and seals it with key under a random nonce; the
// tally key outlives the storage, so nonces must not depend on ledger state.
func (t Tally) Seal(key [common.TallyKeyLength]byte) ([]byte, error) {
	plain, err := msgpack.Marshal(tallyWire{Yes: t.Yes.String(), No: t.No.String(), Votes: t.Votes})
	if err != nil {
		return nil, errors.EncodingFailed.Clone().SetData("error", err.Error())
	}

	var nonce [sealNonceLength]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, errors.EncodingFailed.Clone().SetData("error", err.Error())
	}

	return secretbox.Seal(nonce[:], plain, &nonce, &key), nil
}

// OpenTally opens a sealed tally; a wrong key gives `InvalidTallyKey`.
func OpenTally(sealed []byte, key [common.TallyKeyLength]byte) (*Tally, error) {
	if len(sealed) < sealNonceLength+secretbox.Overhead {
		return nil, errors.InvalidTallyKey.Clone().SetData("error", "sealed tally too short")
	}

	var nonce [sealNonceLength]byte
	copy(nonce[:], sealed[:sealNonceLength])

	plain, ok := secretbox.Open(nil, sealed[sealNonceLength:], &nonce, &key)
	if !ok {
		return nil, errors.InvalidTallyKey
	}

	var w tallyWire
	if err := msgpack.Unmarshal(plain, &w); err != nil {
		return nil, errors.DecodingFailed.Clone().SetData("error", err.Error())
	}

	t := &Tally{Votes: w.Votes}
	var err error
	if t.Yes, err = common.PowerFromString(w.Yes); err != nil {
		return nil, err
	}
	if t.No, err = common.PowerFromString(w.No); err != nil {
		return nil, err
	}

	return t, nil
}

// Results opens the tally of a proposal once its deadline passed. It
// changes nothing in the storage.
func Results(st *storage.LevelDBBackend, id uint64, key [common.TallyKeyLength]byte, now time.Time) (*Tally, error) {
	p, err := GetProposal(st, id)
	if err != nil {
		return nil, err
	}

	if !p.IsDeadlinePassed(now) {
		return nil, errors.VotingStillActive.Clone().SetData("deadline", p.Deadline)
	}

	return OpenTally(p.SealedTally, key)
}
