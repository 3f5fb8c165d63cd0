package storage

import "fmt"

// NextSequence returns the value stored under `key`, starting at 0, and
// stores the incremented value back. Run it inside a transaction to keep
// the allocation atomic with the record that uses it.
func NextSequence(st *LevelDBBackend, key string) (n uint64, err error) {
	if err = st.Get(key, &n); err != nil {
		if !IsNotFound(err) {
			return
		}
		n, err = 0, nil
	}

	if err = st.Put(key, n+1); err != nil {
		return
	}

	return
}

// CurrentSequence returns the next value `NextSequence` would allocate.
func CurrentSequence(st *LevelDBBackend, key string) (n uint64, err error) {
	if err = st.Get(key, &n); err != nil && IsNotFound(err) {
		err = nil
	}
	return
}

// SequenceKey formats n so that lexical key order equals numeric order.
func SequenceKey(prefix string, n uint64) string {
	return fmt.Sprintf("%s%020d", prefix, n)
}
