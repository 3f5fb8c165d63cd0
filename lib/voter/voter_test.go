package voter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/common/keypair"
	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/storage"
)

func registerRandom(t *testing.T, st *storage.LevelDBBackend, n int) []string {
	now := common.NewTestClock().Now()

	var addresses []string
	for i := 0; i < n; i++ {
		address := keypair.Random().Address()
		_, err := Register(st, address, now)
		require.NoError(t, err)
		addresses = append(addresses, address)
	}

	return addresses
}

func TestRegister(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	address := keypair.Random().Address()

	registered, err := IsRegistered(st, address)
	require.NoError(t, err)
	require.False(t, registered)

	power, err := PowerOf(st, address)
	require.NoError(t, err)
	require.True(t, power.IsZero())

	v, err := Register(st, address, common.NewTestClock().Now())
	require.NoError(t, err)
	require.Equal(t, address, v.Address)
	require.True(t, v.Power.Equal(common.NewPower(1)))

	registered, err = IsRegistered(st, address)
	require.NoError(t, err)
	require.True(t, registered)

	_, err = Register(st, address, common.NewTestClock().Now())
	require.True(t, errors.AlreadyRegistered.Is(err))

	fetched, err := GetVoter(st, address)
	require.NoError(t, err)
	require.True(t, fetched.Power.Equal(common.NewPower(1)))
}

func TestGetVotersByRegistered(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	addresses := registerRandom(t, st, 5)

	var got []string
	iterFunc, closeFunc := GetVotersByRegistered(st, nil)
	for {
		v, hasNext, _ := iterFunc()
		if !hasNext {
			break
		}
		got = append(got, v.Address)
	}
	closeFunc()

	require.Equal(t, addresses, got)
}

func TestGetVoterNotRegistered(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	_, err := GetVoter(st, keypair.Random().Address())
	require.True(t, errors.NotRegistered.Is(err))
	require.Equal(t, errors.KindState, errors.KindOf(err))
}
