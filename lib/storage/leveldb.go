package storage

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	leveldbIterator "github.com/syndtr/goleveldb/leveldb/iterator"
	leveldbOpt "github.com/syndtr/goleveldb/leveldb/opt"
	leveldbStorage "github.com/syndtr/goleveldb/leveldb/storage"
	leveldbUtil "github.com/syndtr/goleveldb/leveldb/util"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/errors"
)

type LevelDBCore interface {
	Has([]byte, *leveldbOpt.ReadOptions) (bool, error)
	Get([]byte, *leveldbOpt.ReadOptions) ([]byte, error)
	NewIterator(*leveldbUtil.Range, *leveldbOpt.ReadOptions) leveldbIterator.Iterator
	Put([]byte, []byte, *leveldbOpt.WriteOptions) error
	Write(*leveldb.Batch, *leveldbOpt.WriteOptions) error
	Delete([]byte, *leveldbOpt.WriteOptions) error
}

// LevelDBBackend wraps either the database itself or an open
// `*leveldb.Transaction`; every model reads and writes through it.
type LevelDBBackend struct {
	DB *leveldb.DB

	Core LevelDBCore

	// goleveldb allows a single open transaction per database
	txLock *sync.Mutex
	txDone bool
}

func setLevelDBCoreError(err error) error {
	if err == nil {
		return nil
	}

	return errors.StorageCoreError.Clone().SetData("error", err.Error())
}

func NewStorage(config *Config) (*LevelDBBackend, error) {
	st := &LevelDBBackend{}
	if err := st.Init(config); err != nil {
		return nil, err
	}

	return st, nil
}

func (st *LevelDBBackend) Init(config *Config) (err error) {
	var db *leveldb.DB

	switch config.Scheme {
	case "file":
		if db, err = leveldb.OpenFile(config.Path, nil); err != nil {
			return setLevelDBCoreError(err)
		}
	case "memory":
		if db, err = leveldb.Open(leveldbStorage.NewMemStorage(), nil); err != nil {
			return setLevelDBCoreError(err)
		}
	default:
		return errors.InvalidStorageConfig.Clone().SetData("scheme", config.Scheme)
	}

	st.DB = db
	st.Core = db
	st.txLock = &sync.Mutex{}

	return
}

func (st *LevelDBBackend) Close() error {
	return st.DB.Close()
}

func (st *LevelDBBackend) IsTransaction() bool {
	_, ok := st.Core.(*leveldb.Transaction)
	return ok
}

// OpenTransaction returns a backend whose writes stay invisible until
// `Commit`. It blocks while another transaction is open. `Discard` after
// `Commit` or `Discard` does nothing.
func (st *LevelDBBackend) OpenTransaction() (*LevelDBBackend, error) {
	if st.IsTransaction() {
		return nil, errors.StorageAlreadyTransaction
	}

	st.txLock.Lock()
	transaction, err := st.DB.OpenTransaction()
	if err != nil {
		st.txLock.Unlock()
		return nil, setLevelDBCoreError(err)
	}

	return &LevelDBBackend{
		DB:     st.DB,
		Core:   transaction,
		txLock: st.txLock,
	}, nil
}

func (st *LevelDBBackend) Discard() error {
	ts, ok := st.Core.(*leveldb.Transaction)
	if !ok {
		return errors.StorageNotTransaction
	}
	if st.txDone {
		return nil
	}
	st.txDone = true
	defer st.txLock.Unlock()

	ts.Discard()
	return nil
}

func (st *LevelDBBackend) Commit() error {
	ts, ok := st.Core.(*leveldb.Transaction)
	if !ok {
		return errors.StorageNotTransaction
	}
	if st.txDone {
		return errors.StorageNotTransaction
	}
	st.txDone = true
	defer st.txLock.Unlock()

	if err := ts.Commit(); err != nil {
		ts.Discard()
		return setLevelDBCoreError(err)
	}

	return nil
}

func (st *LevelDBBackend) makeKey(key string) []byte {
	return []byte(key)
}

func (st *LevelDBBackend) encode(v interface{}) (encoded []byte, err error) {
	if serializable, ok := v.(common.Serializable); ok {
		encoded, err = serializable.Serialize()
	} else {
		encoded, err = common.EncodeJSONValue(v)
	}
	if err != nil {
		err = errors.EncodingFailed.Clone().SetData("error", err.Error())
	}

	return
}

func (st *LevelDBBackend) Has(k string) (bool, error) {
	ok, err := st.Core.Has(st.makeKey(k), nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return false, nil
		}
		return false, setLevelDBCoreError(err)
	}

	return ok, nil
}

func (st *LevelDBBackend) GetRaw(k string) (b []byte, err error) {
	b, err = st.Core.Get(st.makeKey(k), nil)
	if err == leveldb.ErrNotFound {
		err = errors.StorageRecordDoesNotExist
		return
	}
	err = setLevelDBCoreError(err)

	return
}

func (st *LevelDBBackend) Get(k string, i interface{}) (err error) {
	var b []byte
	if b, err = st.GetRaw(k); err != nil {
		return
	}

	if err = common.DecodeJSONValue(b, i); err != nil {
		err = errors.DecodingFailed.Clone().SetData("error", err.Error())
		return
	}

	return
}

// New stores `v` under `k`, failing when `k` already exists.
func (st *LevelDBBackend) New(k string, v interface{}) (err error) {
	var encoded []byte
	if encoded, err = st.encode(v); err != nil {
		return
	}

	var exists bool
	if exists, err = st.Has(k); err != nil {
		return
	} else if exists {
		return errors.StorageRecordAlreadyExists
	}

	return setLevelDBCoreError(st.Core.Put(st.makeKey(k), encoded, nil))
}

// Set overwrites an existing record.
func (st *LevelDBBackend) Set(k string, v interface{}) (err error) {
	var encoded []byte
	if encoded, err = st.encode(v); err != nil {
		return
	}

	var exists bool
	if exists, err = st.Has(k); err != nil {
		return
	} else if !exists {
		return errors.StorageRecordDoesNotExist
	}

	return setLevelDBCoreError(st.Core.Put(st.makeKey(k), encoded, nil))
}

// Put writes `v` whether or not `k` exists.
func (st *LevelDBBackend) Put(k string, v interface{}) (err error) {
	var encoded []byte
	if encoded, err = st.encode(v); err != nil {
		return
	}

	return setLevelDBCoreError(st.Core.Put(st.makeKey(k), encoded, nil))
}

func (st *LevelDBBackend) Remove(k string) (err error) {
	var exists bool
	if exists, err = st.Has(k); err != nil {
		return
	} else if !exists {
		return errors.StorageRecordDoesNotExist
	}

	return setLevelDBCoreError(st.Core.Delete(st.makeKey(k), nil))
}

// GetIterator walks the keys under `prefix`. The returned release function
// must be called when the caller stops early.
func (st *LevelDBBackend) GetIterator(prefix string, option ListOptions) (func() (IterItem, bool), func()) {
	var reverse = false
	var cursor []byte
	var limit uint64 = 0
	if option != nil {
		reverse = option.Reverse()
		cursor = option.Cursor()
		limit = option.Limit()
	}

	var dbRange *leveldbUtil.Range
	if len(prefix) > 0 {
		dbRange = leveldbUtil.BytesPrefix(st.makeKey(prefix))
	}

	iter := st.Core.NewIterator(dbRange, nil)

	var released bool
	release := func() {
		if !released {
			released = true
			iter.Release()
		}
	}

	var step func() bool
	var first func() bool
	if reverse {
		step = iter.Prev
		first = iter.Last
		if cursor != nil {
			first = func() bool {
				if !iter.Seek(cursor) {
					return iter.Last()
				}
				return iter.Prev()
			}
		}
	} else {
		step = iter.Next
		first = iter.First
		if cursor != nil {
			first = func() bool {
				if !iter.Seek(cursor) {
					return false
				}
				if string(iter.Key()) == string(cursor) {
					return iter.Next()
				}
				return true
			}
		}
	}

	var started bool
	var n uint64
	return func() (IterItem, bool) {
		if released {
			return IterItem{}, false
		}
		if limit != 0 && n >= limit {
			release()
			return IterItem{}, false
		}

		var ok bool
		if !started {
			started = true
			ok = first()
		} else {
			ok = step()
		}
		if !ok {
			release()
			return IterItem{}, false
		}

		n++
		key := append([]byte(nil), iter.Key()...)
		value := append([]byte(nil), iter.Value()...)
		return IterItem{N: n, Key: key, Value: value}, true
	}, release
}
