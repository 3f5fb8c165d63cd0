package voter

import (
	"fmt"
	"time"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/storage"
)

// Delegation is keyed by the delegator. `Weight` is the exact power moved to
// `Target` when the delegation was set; a revoke moves back exactly that
// amount, whatever `Target` did with its power meanwhile.
//
// models
//  * 'delegator'
// 	- 'dg-delegator-<Delegation.Delegator>': `Delegation`

const DelegationPrefixDelegator string = "dg-delegator-"

type Delegation struct {
	Delegator string       `json:"delegator"`
	Target    string       `json:"target"`
	Active    bool         `json:"active"`
	Weight    common.Power `json:"weight"`
	Updated   time.Time    `json:"updated"`
}

func (d *Delegation) Serialize() ([]byte, error) {
	return common.EncodeJSONValue(d)
}

func (d *Delegation) Save(st *storage.LevelDBBackend) error {
	return st.Put(GetDelegationKey(d.Delegator), d)
}

func GetDelegationKey(delegator string) string {
	return fmt.Sprintf("%s%s", DelegationPrefixDelegator, delegator)
}

// GetDelegation returns the delegation record of delegator. An account that
// never delegated gets an inactive record.
func GetDelegation(st *storage.LevelDBBackend, delegator string) (d *Delegation, err error) {
	if err = st.Get(GetDelegationKey(delegator), &d); err != nil {
		if storage.IsNotFound(err) {
			return &Delegation{Delegator: delegator}, nil
		}
		return
	}

	return
}

// Delegate moves the whole power of `from` to `to`. An active delegation of
// `from` is reversed first, so re-delegating to another target is one call.
func Delegate(st *storage.LevelDBBackend, from, to string, now time.Time) (*Delegation, error) {
	delegator, err := GetVoter(st, from)
	if err != nil {
		return nil, err
	}

	if from == to {
		return nil, errors.SelfDelegation
	}

	if _, err = GetVoter(st, to); err != nil {
		if errors.NotRegistered.Is(err) {
			return nil, errors.DelegateNotRegistered.Clone().SetData("delegate", to)
		}
		return nil, err
	}

	current, err := GetDelegation(st, from)
	if err != nil {
		return nil, err
	}

	if current.Active {
		if delegator, err = reverse(st, delegator, current); err != nil {
			return nil, err
		}
	}

	if delegator.Power.IsZero() {
		return nil, errors.NoPowerToDelegate
	}

	// reloaded since reversing may have changed the target's balance
	target, err := GetVoter(st, to)
	if err != nil {
		return nil, err
	}

	amount := delegator.Power
	if target.Power, err = target.Power.Add(amount); err != nil {
		return nil, errors.DelegatePowerOverflow.Clone().SetData("delegate", to)
	}
	delegator.Power = common.Power{}

	if err = target.Save(st); err != nil {
		return nil, err
	}
	if err = delegator.Save(st); err != nil {
		return nil, err
	}

	d := &Delegation{
		Delegator: from,
		Target:    to,
		Active:    true,
		Weight:    amount,
		Updated:   now,
	}
	if err = d.Save(st); err != nil {
		return nil, err
	}

	log.Debug("delegation set", "delegator", from, "target", to, "weight", amount)

	return d, nil
}

// Revoke returns the stored weight of the active delegation of `from`.
func Revoke(st *storage.LevelDBBackend, from string, now time.Time) (*Delegation, error) {
	delegator, err := GetVoter(st, from)
	if err != nil {
		return nil, err
	}

	d, err := GetDelegation(st, from)
	if err != nil {
		return nil, err
	}
	if !d.Active {
		return nil, errors.NoActiveDelegation
	}

	if _, err = reverse(st, delegator, d); err != nil {
		return nil, err
	}

	d.Active = false
	d.Updated = now
	if err = d.Save(st); err != nil {
		return nil, err
	}

	log.Debug("delegation revoked", "delegator", from, "target", d.Target, "weight", d.Weight)

	return d, nil
}

// reverse moves `d.Weight` from the target back to the delegator and saves
// both. `d` itself is not saved.
func reverse(st *storage.LevelDBBackend, delegator *Voter, d *Delegation) (*Voter, error) {
	target, err := GetVoter(st, d.Target)
	if err != nil {
		return nil, err
	}

	if target.Power, err = target.Power.Sub(d.Weight); err != nil {
		return nil, errors.DelegatePowerUnderflow.Clone().SetData("delegate", d.Target)
	}
	if delegator.Power, err = delegator.Power.Add(d.Weight); err != nil {
		return nil, errors.DelegatePowerOverflow.Clone().SetData("delegator", delegator.Address)
	}

	if err = target.Save(st); err != nil {
		return nil, err
	}
	if err = delegator.Save(st); err != nil {
		return nil, err
	}

	return delegator, nil
}
