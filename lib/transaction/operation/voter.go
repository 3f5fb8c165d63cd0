package operation

import (
	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/common/keypair"
	"boscoin.io/obscura/lib/errors"
)

// RegisterVoter is sent by the owner to make `Target` an eligible voter.
type RegisterVoter struct {
	Target string `json:"target"`
}

func NewRegisterVoter(target string) RegisterVoter {
	return RegisterVoter{Target: target}
}

func (o RegisterVoter) IsWellFormed(common.Config) error {
	return checkAddress(o.Target)
}

func (o RegisterVoter) TargetAddress() string {
	return o.Target
}

// Delegate moves the whole power of the source to `Target`.
type Delegate struct {
	Target string `json:"target"`
}

func NewDelegate(target string) Delegate {
	return Delegate{Target: target}
}

func (o Delegate) IsWellFormed(common.Config) error {
	return checkAddress(o.Target)
}

func (o Delegate) TargetAddress() string {
	return o.Target
}

// Revoke ends the active delegation of the source.
type Revoke struct{}

func (o Revoke) IsWellFormed(common.Config) error {
	return nil
}

type Targetable interface {
	TargetAddress() string
}

func checkAddress(address string) error {
	if !keypair.IsAddress(address) {
		return errors.BadPublicAddress.Clone().SetData("address", address)
	}

	return nil
}
