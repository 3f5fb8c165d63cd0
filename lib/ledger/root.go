package ledger

import (
	"time"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/storage"
)

const RootKey string = "ledger-root"

// Root is set once when the ledger is initialized and never changes.
type Root struct {
	Owner     string    `json:"owner"`
	Authority string    `json:"authority"`
	Created   time.Time `json:"created"`
}

func (r *Root) Serialize() ([]byte, error) {
	return common.EncodeJSONValue(r)
}

func GetRoot(st *storage.LevelDBBackend) (r *Root, err error) {
	if err = st.Get(RootKey, &r); err != nil {
		if storage.IsNotFound(err) {
			err = errors.LedgerNotInitialized
		}
		return
	}

	return
}

// AccessControl answers who may call the owner-only and authority-only
// operations.
type AccessControl struct {
	root Root
}

func (a AccessControl) Owner() string {
	return a.root.Owner
}

func (a AccessControl) Authority() string {
	return a.root.Authority
}

func (a AccessControl) IsOwner(address string) bool {
	return address == a.root.Owner
}

func (a AccessControl) OnlyOwner(caller string) error {
	if !a.IsOwner(caller) {
		return errors.OnlyOwner.Clone().SetData("caller", caller)
	}

	return nil
}

func (a AccessControl) OnlyAuthority(caller string) error {
	if caller != a.root.Authority {
		return errors.OnlyDecryptionAuthority.Clone().SetData("caller", caller)
	}

	return nil
}
