package transaction

import (
	"encoding/json"
	"testing"

	"github.com/btcsuite/btcutil/base58"
	"github.com/stretchr/testify/require"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/common/keypair"
	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/transaction/operation"
)

func TestTransactionWellFormed(t *testing.T) {
	config := common.NewTestConfig()

	_, tx := TestMakeTransaction(config.NetworkID, 2)
	require.NoError(t, tx.IsWellFormed(config))

	b, err := tx.Serialize()
	require.NoError(t, err)

	var decoded Transaction
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.NoError(t, decoded.IsWellFormed(config))
	require.Equal(t, tx.GetHash(), decoded.B.MakeHashString())
}

func TestTransactionEmptyOperations(t *testing.T) {
	_, err := NewTransaction(keypair.Random().Address(), 0)
	require.True(t, errors.EmptyOperations.Is(err))
}

func TestTransactionChecker(t *testing.T) {
	config := common.NewTestConfig()

	{ // another network
		_, tx := TestMakeTransaction([]byte("another-network"), 1)
		require.True(t, errors.SignatureVerificationFailed.Is(tx.IsWellFormed(config)))
	}

	{ // body changed after signing
		kp, tx := TestMakeTransaction(config.NetworkID, 1)
		tx.B.SequenceID = 10
		require.True(t, errors.InvalidHash.Is(tx.IsWellFormed(config)))

		tx.Sign(kp, config.NetworkID)
		require.NoError(t, tx.IsWellFormed(config))
	}

	{ // signed by somebody else
		_, tx := TestMakeTransaction(config.NetworkID, 1)
		signature, _ := keypair.MakeSignature(keypair.Random(), config.NetworkID, tx.H.Hash)
		tx.H.Signature = base58.Encode(signature)
		require.True(t, errors.SignatureVerificationFailed.Is(tx.IsWellFormed(config)))
	}

	{ // bad source
		kp, tx := TestMakeTransaction(config.NetworkID, 1)
		tx.B.Source = kp.Seed()
		require.True(t, errors.BadPublicAddress.Is(tx.IsWellFormed(config)))
	}

	{ // too many operations
		config := common.NewTestConfig()
		config.OpsLimit = 2
		_, tx := TestMakeTransaction(config.NetworkID, 3)
		require.True(t, errors.TooManyOperations.Is(tx.IsWellFormed(config)))
	}

	{ // malformed operation
		kp := keypair.Random()
		tx := TestMakeSignedTransaction(config.NetworkID, kp, 0, operation.NewCreateProposal(""))
		require.True(t, errors.InvalidDescription.Is(tx.IsWellFormed(config)))
	}
}

func TestTransactionSequenceID(t *testing.T) {
	kp := keypair.Random()
	tx := TestMakeSignedTransaction(common.TestNetworkID, kp, 3, operation.Revoke{})

	require.Equal(t, kp.Address(), tx.Source())
	require.True(t, tx.IsValidSequenceID(3))
	require.False(t, tx.IsValidSequenceID(2))
}

func TestTransactionFromJSON(t *testing.T) {
	config := common.NewTestConfig()
	kp, tx := TestMakeTransaction(config.NetworkID, 2)

	b, err := tx.Serialize()
	require.NoError(t, err)

	decoded, err := NewTransactionFromJSON(b)
	require.NoError(t, err)
	require.Equal(t, tx.GetHash(), decoded.GetHash())
	require.Equal(t, kp.Address(), decoded.Source())
	require.Len(t, decoded.B.Operations, 2)
	require.NoError(t, decoded.IsWellFormed(config))

	_, err = NewTransactionFromJSON([]byte("{"))
	require.True(t, errors.DecodingFailed.Is(err))
}
