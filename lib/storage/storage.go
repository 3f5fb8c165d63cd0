package storage

import "boscoin.io/obscura/lib/errors"

type IterItem struct {
	N     uint64
	Key   []byte
	Value []byte
}

type Item struct {
	Key   string
	Value interface{}
}

// IsNotFound reports whether err means the record is missing.
func IsNotFound(err error) bool {
	e, ok := err.(*errors.Error)
	return ok && e.Code == errors.StorageRecordDoesNotExist.Code
}
