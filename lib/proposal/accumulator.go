package proposal

import (
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/errors"
)

// Accumulator is the opaque value votes are folded into. It is a one-way
// mix and can not be turned back into a count; the countable tally is the
// sealed `Tally`.
type Accumulator [32]byte

func (a Accumulator) String() string {
	return hexutil.Encode(a[:])
}

func (a Accumulator) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

func (a *Accumulator) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return errors.DecodingFailed.Clone().SetData("accumulator", string(b))
	}

	d, err := hexutil.Decode(string(b[1 : len(b)-1]))
	if err != nil || len(d) != len(a) {
		return errors.DecodingFailed.Clone().SetData("accumulator", string(b))
	}
	copy(a[:], d)

	return nil
}

// seedAccumulator derives the starting value of one side of a proposal, so
// no two proposals start from the same accumulators.
func seedAccumulator(proposalID uint64, created time.Time, side string) (Accumulator, error) {
	h, err := common.MakeMixHash([]interface{}{
		"seed",
		side,
		proposalID,
		uint64(created.UnixNano()),
	})

	return Accumulator(h), err
}

// Mix folds one vote into the accumulator. The nonce depends on the time,
// the voter and the proposal.
func (a Accumulator) Mix(proposalID uint64, voter string, power common.Power, now time.Time) (Accumulator, error) {
	nonce, err := common.MakeMixHash([]interface{}{uint64(now.UnixNano()), voter, proposalID})
	if err != nil {
		return Accumulator{}, err
	}

	h, err := common.MakeMixHash([]interface{}{a[:], voter, power, nonce[:]})
	if err != nil {
		return Accumulator{}, err
	}

	return Accumulator(h), nil
}
