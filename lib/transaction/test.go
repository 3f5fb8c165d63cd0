package transaction

import (
	"boscoin.io/obscura/lib/common/keypair"
	"boscoin.io/obscura/lib/transaction/operation"
)

// TestMakeTransaction returns a signed transaction with `n` register
// operations from a random source.
func TestMakeTransaction(networkID []byte, n int) (kp *keypair.Full, tx Transaction) {
	kp = keypair.Random()

	var ops []operation.Operation
	for i := 0; i < n; i++ {
		ops = append(ops, operation.TestMakeOperation())
	}

	tx, _ = NewTransaction(kp.Address(), 0, ops...)
	tx.Sign(kp, networkID)

	return
}

// TestMakeSignedTransaction signs a transaction of bodies from kp.
func TestMakeSignedTransaction(networkID []byte, kp *keypair.Full, sequenceID uint64, bodies ...operation.Body) Transaction {
	tx := MustNewTransaction(kp.Address(), sequenceID, bodies...)
	tx.Sign(kp, networkID)

	return tx
}
