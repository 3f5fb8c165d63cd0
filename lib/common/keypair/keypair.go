// Encapsulate Stellar's keypair package
//
// Provides additional wrapper and convenience functions,
// suited for usage within obscura
package keypair

import (
	stellar "github.com/stellar/go/keypair"

	"boscoin.io/obscura/lib/errors"
)

// Aliases to stellar types
type Full = stellar.Full
type KP = stellar.KP

// Aliases to stellar functions
var Master = stellar.Master
var Parse = stellar.Parse
var RandomCanFail = stellar.Random

// MakeSignature makes signature from given hash string
func MakeSignature(kp KP, networkID []byte, hash string) ([]byte, error) {
	return kp.Sign(append(append([]byte{}, networkID...), []byte(hash)...))
}

// VerifySignature checks that signature was made by address over networkID
// and hash.
func VerifySignature(address string, networkID []byte, hash string, signature []byte) error {
	kp, err := Parse(address)
	if err != nil {
		return errors.BadPublicAddress
	}

	return kp.Verify(append(append([]byte{}, networkID...), []byte(hash)...), signature)
}

// IsAddress reports whether s is a public address and not a secret seed.
func IsAddress(s string) bool {
	kp, err := Parse(s)
	if err != nil {
		return false
	}
	_, isFull := kp.(*Full)

	return !isFull
}
