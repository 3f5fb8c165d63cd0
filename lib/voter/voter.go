package voter

import (
	"encoding/json"
	"fmt"
	"time"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/storage"
)

// Voter is an account eligible to vote. the storage should support,
//  * find by `Address`
//  * get list by registered order
//
// models
//  * 'address'
// 	- 'vt-address-<Voter.Address>': `Voter`
//  * 'registered'
// 	- 'vt-registered-<sequence>': `Voter.Address`

const (
	VoterPrefixAddress    string = "vt-address-"
	VoterPrefixRegistered string = "vt-registered-"
	VoterSequenceKey      string = "vt-sequence"
)

type Voter struct {
	Address    string       `json:"address"`
	Power      common.Power `json:"power"`
	Registered time.Time    `json:"registered"`
}

func NewVoter(address string, registered time.Time) *Voter {
	return &Voter{
		Address:    address,
		Power:      common.InitialVotingPower,
		Registered: registered,
	}
}

func (v *Voter) String() string {
	return string(common.MustMarshalJSON(v))
}

func (v *Voter) Serialize() ([]byte, error) {
	return common.EncodeJSONValue(v)
}

func (v *Voter) Save(st *storage.LevelDBBackend) (err error) {
	key := GetVoterKey(v.Address)

	var exists bool
	if exists, err = st.Has(key); err != nil {
		return
	}

	if exists {
		return st.Set(key, v)
	}

	if err = st.New(key, v); err != nil {
		return
	}

	var n uint64
	if n, err = storage.NextSequence(st, VoterSequenceKey); err != nil {
		return
	}

	return st.New(storage.SequenceKey(VoterPrefixRegistered, n), v.Address)
}

func GetVoterKey(address string) string {
	return fmt.Sprintf("%s%s", VoterPrefixAddress, address)
}

func GetVoter(st *storage.LevelDBBackend, address string) (v *Voter, err error) {
	if err = st.Get(GetVoterKey(address), &v); err != nil {
		if storage.IsNotFound(err) {
			err = errors.NotRegistered.Clone().SetData("voter", address)
		}
		return
	}

	return
}

func IsRegistered(st *storage.LevelDBBackend, address string) (bool, error) {
	return st.Has(GetVoterKey(address))
}

// PowerOf returns the current power of address; unregistered accounts hold
// nothing.
func PowerOf(st *storage.LevelDBBackend, address string) (common.Power, error) {
	v, err := GetVoter(st, address)
	if err != nil {
		if errors.NotRegistered.Is(err) {
			return common.Power{}, nil
		}
		return common.Power{}, err
	}

	return v.Power, nil
}

// Register makes address an eligible voter holding `InitialVotingPower`.
func Register(st *storage.LevelDBBackend, address string, now time.Time) (*Voter, error) {
	exists, err := IsRegistered(st, address)
	if err != nil {
		return nil, err
	} else if exists {
		return nil, errors.AlreadyRegistered.Clone().SetData("voter", address)
	}

	v := NewVoter(address, now)
	if err = v.Save(st); err != nil {
		return nil, err
	}

	log.Debug("voter registered", "voter", address)

	return v, nil
}

func GetVoterAddressesByRegistered(st *storage.LevelDBBackend, options storage.ListOptions) (func() (string, bool, []byte), func()) {
	iterFunc, closeFunc := st.GetIterator(VoterPrefixRegistered, options)

	return (func() (string, bool, []byte) {
			item, hasNext := iterFunc()
			if !hasNext {
				return "", false, item.Key
			}

			var address string
			json.Unmarshal(item.Value, &address)
			return address, hasNext, item.Key
		}), (func() {
			closeFunc()
		})
}

func GetVotersByRegistered(st *storage.LevelDBBackend, options storage.ListOptions) (func() (*Voter, bool, []byte), func()) {
	iterFunc, closeFunc := GetVoterAddressesByRegistered(st, options)

	return (func() (*Voter, bool, []byte) {
			address, hasNext, cursor := iterFunc()
			if !hasNext {
				return nil, false, cursor
			}

			v, err := GetVoter(st, address)
			if err != nil {
				return nil, false, cursor
			}
			return v, hasNext, cursor
		}), (func() {
			closeFunc()
		})
}
