package operation

import (
	"boscoin.io/obscura/lib/common/keypair"
)

// TestMakeOperation returns a well-formed operation, registering a random
// voter unless a target is given.
func TestMakeOperation(targets ...string) Operation {
	target := keypair.Random().Address()
	if len(targets) > 0 {
		target = targets[0]
	}

	return MustNewOperation(NewRegisterVoter(target))
}
