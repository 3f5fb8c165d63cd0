package common

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/obscura/lib/errors"
)

var (
	maximumBalance    = uint64(MaximumBalance)
	maximumBalanceStr = strconv.FormatUint(maximumBalance, 10)
)

func TestAmountInvariant(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("exceeds max allowable amount value.")
		}
	}()

	amount := Amount(maximumBalance + 1)
	amount.Invariant()
}

func TestAmountAddSub(t *testing.T) {
	a, err := Amount(100).Add(Amount(50))
	require.NoError(t, err)
	require.Equal(t, Amount(150), a)

	_, err = MaximumBalance.Add(Amount(1))
	require.Equal(t, errors.MaximumBalanceReached, err)

	s, err := Amount(100).Sub(Amount(100))
	require.NoError(t, err)
	require.Equal(t, Amount(0), s)

	_, err = Amount(1).Sub(Amount(2))
	require.Equal(t, errors.BalanceUnderZero, err)
}

func TestAmountFromString(t *testing.T) {
	amount, err := AmountFromString(maximumBalanceStr)
	require.NoError(t, err)
	require.Equal(t, maximumBalanceStr, amount.String())

	_, err = AmountFromString(strconv.FormatUint(maximumBalance+1, 10))
	require.Equal(t, errors.MaximumBalanceReached, err)

	_, err = AmountFromString("showme")
	require.Error(t, err)
}

func TestAmountJSON(t *testing.T) {
	b, err := json.Marshal(Amount(10000))
	require.NoError(t, err)
	require.Equal(t, `"10000"`, string(b))

	var a Amount
	require.NoError(t, json.Unmarshal(b, &a))
	require.Equal(t, Amount(10000), a)
}
