// Define the `Amount` type, the value escrowed for a vote and released by a
// refund claim.
//
//   - `Add` / `Sub` do an addition / substraction and return an error object
//   - `MustAdd` / `MustSub` call `Add` / `Sub` and turn any `error` into a `panic`.
//     Those are provided for testing and should not be in production code.
//   - Invariant `panic`s if the instance it's called on violates its invariant
package common

import (
	"fmt"
	"strconv"

	"boscoin.io/obscura/lib/errors"
)

const (
	// 10,000,000 units == 1 coin
	AmountPerCoin Amount = 10000000
	// The maximum amount any escrow or refundable balance can hold
	MaximumBalance Amount = 1000000000000 * AmountPerCoin
	// An invalid valid, used to make an instance unusable
	invalidValue = Amount(MaximumBalance + 1)
)

type Amount uint64

// Check this type's invariant, that is, its value is <= MaximumBalance
func (a Amount) Invariant() {
	if a > MaximumBalance {
		// `uint64` is necessary to avoid a recursive call to `String`
		panic(fmt.Errorf("Amount '%d' is higher than the maximum balance (%d)", uint64(a), uint64(MaximumBalance)))
	}
}

func (a Amount) String() string {
	a.Invariant()
	return strconv.FormatUint(uint64(a), 10)
}

// Add an `Amount` to this `Amount`
//
// If the resulting value would overflow MaximumBalance, an error is returned.
func (a Amount) Add(added Amount) (n Amount, err error) {
	a.Invariant()
	added.Invariant()
	if n = a + added; n > MaximumBalance {
		err = errors.MaximumBalanceReached
	}
	return
}

func (a Amount) MustAdd(added Amount) Amount {
	if v, err := a.Add(added); err != nil {
		panic(err)
	} else {
		return v
	}
}

// Substract an `Amount` to this `Amount`
//
// If the resulting value would underflow, an error is returned,
// along with an invalid value (which would trigger a `panic` if used).
func (a Amount) Sub(sub Amount) (Amount, error) {
	a.Invariant()
	sub.Invariant()
	if a < sub {
		return invalidValue, errors.BalanceUnderZero
	}
	return a - sub, nil
}

func (a Amount) MustSub(sub Amount) Amount {
	if v, err := a.Sub(sub); err != nil {
		panic(err)
	} else {
		return v
	}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("\"%s\"", a.String())), nil
}

// If Unmarshalling errors, `a` will have an `invalidValue`
func (a *Amount) UnmarshalJSON(b []byte) (err error) {
	if len(b) < 2 {
		*a = invalidValue
		return errors.DecodingFailed
	}
	*a, err = AmountFromString(string(b[1 : len(b)-1]))
	return
}

func AmountFromString(str string) (Amount, error) {
	if value, err := strconv.ParseUint(str, 10, 64); err != nil {
		return invalidValue, err
	} else if Amount(value) > MaximumBalance {
		return invalidValue, errors.MaximumBalanceReached
	} else {
		return Amount(value), nil
	}
}

func MustAmountFromString(str string) Amount {
	if value, err := AmountFromString(str); err != nil {
		panic(err)
	} else {
		return value
	}
}
