package decryption

import (
	"fmt"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/storage"
)

// Escrow holds the value a voter deposits with a vote until it is refunded.
type Escrow interface {
	Deposit(st *storage.LevelDBBackend, proposalID uint64, voter string, amount common.Amount) error
	Release(st *storage.LevelDBBackend, proposalID uint64, voter string) (common.Amount, error)
}

// DepositEscrow keeps deposits in the ledger storage and credits released
// deposits to the refundable balance of the voter.
//
// models
//   - 'es-deposit-<proposal id>-<voter>': `common.Amount`, by proposal and voter
//   - 'es-balance-<voter>': `common.Amount`, by voter
type DepositEscrow struct{}

const (
	EscrowPrefixDeposit string = "es-deposit-"
	EscrowPrefixBalance string = "es-balance-"
)

func GetDepositKey(proposalID uint64, voter string) string {
	return fmt.Sprintf("%s%020d-%s", EscrowPrefixDeposit, proposalID, voter)
}

func GetBalanceKey(voter string) string {
	return fmt.Sprintf("%s%s", EscrowPrefixBalance, voter)
}

func (DepositEscrow) Deposit(st *storage.LevelDBBackend, proposalID uint64, voter string, amount common.Amount) error {
	return st.New(GetDepositKey(proposalID, voter), amount)
}

func (DepositEscrow) Release(st *storage.LevelDBBackend, proposalID uint64, voter string) (common.Amount, error) {
	key := GetDepositKey(proposalID, voter)

	var amount common.Amount
	if err := st.Get(key, &amount); err != nil {
		if storage.IsNotFound(err) {
			return 0, errors.NothingEscrowed.Clone().SetData("voter", voter)
		}
		return 0, err
	}

	balance, err := Balance(st, voter)
	if err != nil {
		return 0, err
	}
	if balance, err = balance.Add(amount); err != nil {
		return 0, err
	}

	if err = st.Put(GetBalanceKey(voter), balance); err != nil {
		return 0, err
	}
	if err = st.Remove(key); err != nil {
		return 0, err
	}

	return amount, nil
}

// Balance is the refunded value credited to voter.
func Balance(st *storage.LevelDBBackend, voter string) (common.Amount, error) {
	var balance common.Amount
	if err := st.Get(GetBalanceKey(voter), &balance); err != nil && !storage.IsNotFound(err) {
		return 0, err
	}

	return balance, nil
}

// Deposited returns the amount escrowed for a vote, zero when nothing is.
func Deposited(st *storage.LevelDBBackend, proposalID uint64, voter string) (common.Amount, error) {
	var amount common.Amount
	if err := st.Get(GetDepositKey(proposalID, voter), &amount); err != nil && !storage.IsNotFound(err) {
		return 0, err
	}

	return amount, nil
}
