package decryption

import (
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/common/keypair"
	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/storage"
)

func TestClaimRefund(t *testing.T) {
	env := newTestEnv(t)
	defer env.st.Close()

	p, voters := env.votedProposal(t, 2)
	refunder := NewRefunder(env.escrow)

	_, err := refunder.Claim(env.st, p.ID, voters[0], env.clock.Now())
	require.True(t, errors.DecryptionNotRequested.Is(err))

	_, err = RequestDecryption(env.st, p.ID, env.owner, env.clock.Now())
	require.NoError(t, err)

	_, err = refunder.Claim(env.st, p.ID, voters[0], env.clock.Now())
	require.True(t, errors.DecryptionNotFailed.Is(err))

	_, err = MarkFailed(env.st, env.config, p.ID, true, env.clock.Now())
	require.NoError(t, err)

	_, err = refunder.Claim(env.st, p.ID, keypair.Random().Address(), env.clock.Now())
	require.True(t, errors.DidNotVote.Is(err))

	r, err := refunder.Claim(env.st, p.ID, voters[0], env.clock.Now())
	require.NoError(t, err)
	require.Equal(t, env.config.VoteDeposit, r.Amount)

	balance, err := Balance(env.st, voters[0])
	require.NoError(t, err)
	require.Equal(t, env.config.VoteDeposit, balance)

	_, err = refunder.Claim(env.st, p.ID, voters[0], env.clock.Now())
	require.True(t, errors.AlreadyRefunded.Is(err))
	require.Equal(t, common.FormatISO8601(r.Claimed), err.(*errors.Error).Data["claimed"])

	balance, err = Balance(env.st, voters[0])
	require.NoError(t, err)
	require.Equal(t, env.config.VoteDeposit, balance)

	deposited, err := Deposited(env.st, p.ID, voters[1])
	require.NoError(t, err)
	require.Equal(t, env.config.VoteDeposit, deposited)
}

// reentrantEscrow claims again from inside `Release`.
type reentrantEscrow struct {
	DepositEscrow
	refunder *Refunder
	err      error
}

func (e *reentrantEscrow) Release(st *storage.LevelDBBackend, proposalID uint64, voter string) (common.Amount, error) {
	_, e.err = e.refunder.Claim(st, proposalID, voter, common.NewTestClock().Now())
	return e.DepositEscrow.Release(st, proposalID, voter)
}

func TestClaimRefundReentrant(t *testing.T) {
	env := newTestEnv(t)
	defer env.st.Close()

	p, voters := env.votedProposal(t, 1)

	escrow := &reentrantEscrow{}
	refunder := NewRefunder(escrow)
	escrow.refunder = refunder

	_, err := RequestDecryption(env.st, p.ID, env.owner, env.clock.Now())
	require.NoError(t, err)
	_, err = MarkFailed(env.st, env.config, p.ID, true, env.clock.Now())
	require.NoError(t, err)

	r, err := refunder.Claim(env.st, p.ID, voters[0], env.clock.Now())
	require.NoError(t, err)
	require.True(t, errors.RefundInProgress.Is(escrow.err))

	balance, err := Balance(env.st, voters[0])
	require.NoError(t, err)
	require.Equal(t, r.Amount, balance)
}

func TestReleaseNothingEscrowed(t *testing.T) {
	env := newTestEnv(t)
	defer env.st.Close()

	_, err := env.escrow.Release(env.st, 0, keypair.Random().Address())
	require.True(t, errors.NothingEscrowed.Is(err))
}
