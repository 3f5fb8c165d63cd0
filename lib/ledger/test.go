package ledger

import (
	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/common/keypair"
	"boscoin.io/obscura/lib/decryption"
	"boscoin.io/obscura/lib/storage"
)

// TestLedger is a ledger over a memory storage with a fixed clock.
type TestLedger struct {
	*Ledger

	Clock               *common.FixedClock
	OwnerKP             *keypair.Full
	AuthKP              *keypair.Full
	DecryptionAuthority *decryption.Authority
}

func NewTestLedger(options ...Option) *TestLedger {
	config := common.NewTestConfig()
	clock := common.NewTestClock()
	owner := keypair.Random()
	authKP := keypair.Random()

	l, err := New(storage.NewTestStorage(), config, clock, owner.Address(), authKP.Address(), options...)
	if err != nil {
		panic(err)
	}

	return &TestLedger{
		Ledger:              l,
		Clock:               clock,
		OwnerKP:             owner,
		AuthKP:              authKP,
		DecryptionAuthority: decryption.NewAuthority(authKP, config.NetworkID, config.TallyKey),
	}
}

// RegisterRandom registers new voters from the owner.
func (t *TestLedger) RegisterRandom(n int) []*keypair.Full {
	var kps []*keypair.Full
	for i := 0; i < n; i++ {
		kp := keypair.Random()
		if _, err := t.Register(t.OwnerKP.Address(), kp.Address()); err != nil {
			panic(err)
		}
		kps = append(kps, kp)
	}

	return kps
}
