package ledger

import (
	"fmt"

	"boscoin.io/obscura/lib/storage"
)

// models
//  * 'address'
// 	- 'ac-sequence-<address>': next sequence id of the account

const AccountSequencePrefix string = "ac-sequence-"

func GetAccountSequenceKey(address string) string {
	return fmt.Sprintf("%s%s", AccountSequencePrefix, address)
}

// GetSequenceID returns the sequence id the next transaction of address
// must carry.
func GetSequenceID(st *storage.LevelDBBackend, address string) (uint64, error) {
	return storage.CurrentSequence(st, GetAccountSequenceKey(address))
}

func increaseSequenceID(st *storage.LevelDBBackend, address string) error {
	_, err := storage.NextSequence(st, GetAccountSequenceKey(address))
	return err
}
