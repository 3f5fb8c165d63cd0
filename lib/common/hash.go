package common

import (
	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/sha3"
)

var HashSalt = []byte("obscura")

func MakeHash(b []byte) []byte {
	return argon2.Key(b, HashSalt, 3, 32*1024, 4, 32)
}

func MakeObjectHash(i interface{}) (b []byte, err error) {
	var e []byte
	if e, err = rlp.EncodeToBytes(i); err != nil {
		return
	}

	b = MakeHash(e)

	return
}

func MustMakeObjectHash(i interface{}) (b []byte) {
	b, _ = MakeObjectHash(i)
	return
}

// MakeMixHash is the fast one-way function used wherever a value is folded
// into another many times, like the vote accumulators.
func MakeMixHash(i interface{}) (h [32]byte, err error) {
	var e []byte
	if e, err = rlp.EncodeToBytes(i); err != nil {
		return
	}

	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(e)
	copy(h[:], hasher.Sum(nil))

	return
}
