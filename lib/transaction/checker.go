package transaction

import (
	"github.com/btcsuite/btcutil/base58"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/common/keypair"
	"boscoin.io/obscura/lib/errors"
)

type Checker struct {
	common.DefaultChecker

	Config      common.Config
	Transaction Transaction
}

func CheckSource(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if !keypair.IsAddress(checker.Transaction.B.Source) {
		err = errors.BadPublicAddress.Clone().SetData("address", checker.Transaction.B.Source)
		return
	}

	return
}

func CheckOverOperationsLimit(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)

	if len(checker.Transaction.B.Operations) < 1 {
		err = errors.EmptyOperations
		return
	}
	if len(checker.Transaction.B.Operations) > checker.Config.OpsLimit {
		err = errors.TooManyOperations.Clone().SetData("limit", checker.Config.OpsLimit)
		return
	}

	return
}

func CheckOperations(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)

	for _, op := range checker.Transaction.B.Operations {
		if err = op.IsWellFormed(checker.Config); err != nil {
			return
		}
	}

	return
}

func CheckHash(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)

	if checker.Transaction.H.Hash != checker.Transaction.B.MakeHashString() {
		err = errors.InvalidHash
		return
	}

	return
}

func CheckVerifySignature(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)

	signature := base58.Decode(checker.Transaction.H.Signature)
	err = keypair.VerifySignature(
		checker.Transaction.B.Source,
		checker.Config.NetworkID,
		checker.Transaction.H.Hash,
		signature,
	)
	if err != nil {
		err = errors.SignatureVerificationFailed
		return
	}

	return
}
