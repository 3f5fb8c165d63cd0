package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/obscura/lib/common/keypair"
	"boscoin.io/obscura/lib/transaction"
	"boscoin.io/obscura/lib/transaction/operation"
)

func TestPostTransactionsHandler(t *testing.T) {
	ts, l, _ := prepareAPIServer()
	defer ts.Close()
	defer l.Storage().Close()

	networkID := l.Config().NetworkID
	target := keypair.Random().Address()

	tx := transaction.TestMakeSignedTransaction(networkID, l.OwnerKP, 0,
		operation.NewRegisterVoter(target),
		operation.NewCreateProposal("through the api"),
	)
	b, err := tx.Serialize()
	require.NoError(t, err)

	{ // committed
		status, m := postJSON(t, ts.URL+PostTransactionPattern, b)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, tx.GetHash(), m["hash"])
		require.Equal(t, "committed", m["status"])
		require.Len(t, m["operations"], 2)

		registered, err := l.IsRegistered(target)
		require.NoError(t, err)
		require.True(t, registered)
	}

	{ // sequence moved
		status, m := getJSON(t, ts.URL+expandPattern(GetAccountSequenceHandlerPattern, "address", l.Owner()))
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, float64(1), m["sequence_id"])
	}

	{ // replay is rejected
		status, m := postJSON(t, ts.URL+PostTransactionPattern, b)
		require.Equal(t, http.StatusConflict, status)
		require.Equal(t, "state", m["kind"])
	}

	{ // replay does not hide the committed status
		status, m := getJSON(t, ts.URL+expandPattern(GetTransactionByHashHandlerPattern, "hash", tx.GetHash()))
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "committed", m["status"])
		require.Len(t, m["operations"], 2)
		require.Nil(t, m["error"])
	}

	{ // same body signed by another key
		forged := tx
		forged.Sign(keypair.Random(), networkID)
		require.Equal(t, tx.GetHash(), forged.GetHash())

		fb, err := forged.Serialize()
		require.NoError(t, err)

		status, _ := postJSON(t, ts.URL+PostTransactionPattern, fb)
		require.NotEqual(t, http.StatusOK, status)

		status, m := getJSON(t, ts.URL+expandPattern(GetTransactionByHashHandlerPattern, "hash", tx.GetHash()))
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "committed", m["status"])
	}

	{ // unknown
		status, _ := getJSON(t, ts.URL+expandPattern(GetTransactionByHashHandlerPattern, "hash", "unknown"))
		require.Equal(t, http.StatusNotFound, status)
	}

	{ // broken body
		status, m := postJSON(t, ts.URL+PostTransactionPattern, []byte("{"))
		require.Equal(t, http.StatusBadRequest, status)
		require.Equal(t, "encoding", m["kind"])
	}
}

func TestPostTransactionNotOwner(t *testing.T) {
	ts, l, _ := prepareAPIServer()
	defer ts.Close()
	defer l.Storage().Close()

	kp := l.RegisterRandom(1)[0]
	tx := transaction.TestMakeSignedTransaction(l.Config().NetworkID, kp, 0, operation.NewCreateProposal("not allowed"))
	b, err := tx.Serialize()
	require.NoError(t, err)

	status, m := postJSON(t, ts.URL+PostTransactionPattern, b)
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, "authorization", m["kind"])

	// signed by the source, so the rejection is kept
	status, m = getJSON(t, ts.URL+expandPattern(GetTransactionByHashHandlerPattern, "hash", tx.GetHash()))
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "rejected", m["status"])
	require.NotNil(t, m["error"])

	// signed by another key
	forged := transaction.TestMakeSignedTransaction(l.Config().NetworkID, kp, 1, operation.NewCreateProposal("forged"))
	forged.Sign(keypair.Random(), l.Config().NetworkID)
	b, err = forged.Serialize()
	require.NoError(t, err)

	status, _ = postJSON(t, ts.URL+PostTransactionPattern, b)
	require.Equal(t, http.StatusForbidden, status)

	// nothing is kept for a transaction its source never signed
	status, _ = getJSON(t, ts.URL+expandPattern(GetTransactionByHashHandlerPattern, "hash", forged.GetHash()))
	require.Equal(t, http.StatusNotFound, status)
}

func TestVoteTransactionStatusHasNoChoice(t *testing.T) {
	ts, l, _ := prepareAPIServer()
	defer ts.Close()
	defer l.Storage().Close()

	kp := l.RegisterRandom(1)[0]
	p, err := l.CreateProposal(l.Owner(), "secret ballot")
	require.NoError(t, err)

	tx := transaction.TestMakeSignedTransaction(l.Config().NetworkID, kp, 0, operation.NewVote(p.ID, true, []byte("proof")))
	b, err := tx.Serialize()
	require.NoError(t, err)

	status, _ := postJSON(t, ts.URL+PostTransactionPattern, b)
	require.Equal(t, http.StatusOK, status)

	status, m := getJSON(t, ts.URL+expandPattern(GetTransactionByHashHandlerPattern, "hash", tx.GetHash()))
	require.Equal(t, http.StatusOK, status)

	ops := m["operations"].([]interface{})
	require.Len(t, ops, 1)
	value := ops[0].(map[string]interface{})["value"].(map[string]interface{})
	require.Equal(t, kp.Address(), value["voter"])
	require.Nil(t, value["choice"])
}
