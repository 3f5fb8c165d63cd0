package common

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"boscoin.io/obscura/lib/errors"
)

// MaxVotingPower is the ceiling of any voter's power, 2^128 - 1.
var MaxVotingPower = func() Power {
	var p Power
	p.v.Lsh(uint256.NewInt(1), 128)
	p.v.Sub(&p.v, uint256.NewInt(1))
	return p
}()

// Power is the voting weight an account holds. Every arithmetic on it is
// checked against `MaxVotingPower`.
type Power struct {
	v uint256.Int
}

func NewPower(n uint64) Power {
	var p Power
	p.v.SetUint64(n)
	return p
}

func PowerFromString(s string) (p Power, err error) {
	if err = p.v.SetFromDecimal(s); err != nil {
		err = errors.DecodingFailed.Clone().SetData("error", err.Error())
		return
	}
	if p.v.Gt(&MaxVotingPower.v) {
		err = errors.VotingPowerOverflow
		return
	}

	return
}

func MustPowerFromString(s string) Power {
	p, err := PowerFromString(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Power) Add(added Power) (n Power, err error) {
	if _, overflow := n.v.AddOverflow(&p.v, &added.v); overflow || n.v.Gt(&MaxVotingPower.v) {
		err = errors.VotingPowerOverflow
	}
	return
}

func (p Power) Sub(sub Power) (n Power, err error) {
	if p.v.Lt(&sub.v) {
		err = errors.VotingPowerUnderflow
		return
	}
	n.v.Sub(&p.v, &sub.v)
	return
}

func (p Power) MustAdd(added Power) Power {
	n, err := p.Add(added)
	if err != nil {
		panic(err)
	}
	return n
}

func (p Power) Cmp(o Power) int {
	return p.v.Cmp(&o.v)
}

func (p Power) Equal(o Power) bool {
	return p.v.Eq(&o.v)
}

func (p Power) IsZero() bool {
	return p.v.IsZero()
}

func (p Power) Bytes32() [32]byte {
	return p.v.Bytes32()
}

func (p Power) String() string {
	return p.v.Dec()
}

func (p Power) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("\"%s\"", p.String())), nil
}

func (p *Power) UnmarshalJSON(b []byte) (err error) {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return errors.DecodingFailed.Clone().SetData("power", string(b))
	}
	*p, err = PowerFromString(string(b[1 : len(b)-1]))
	return
}

func (p Power) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, p.v.ToBig())
}

func (p *Power) DecodeRLP(s *rlp.Stream) error {
	b, err := s.BigInt()
	if err != nil {
		return err
	}
	if overflow := p.v.SetFromBig(b); overflow || p.v.Gt(&MaxVotingPower.v) {
		return errors.VotingPowerOverflow
	}
	return nil
}
