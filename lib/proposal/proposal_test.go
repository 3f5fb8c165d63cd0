package proposal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/common/keypair"
	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/storage"
	"boscoin.io/obscura/lib/voter"
)

type testEnv struct {
	st     *storage.LevelDBBackend
	config common.Config
	clock  *common.FixedClock
	owner  string
}

func newTestEnv(t *testing.T) *testEnv {
	env := &testEnv{
		st:     storage.NewTestStorage(),
		config: common.NewTestConfig(),
		clock:  common.NewTestClock(),
		owner:  keypair.Random().Address(),
	}

	_, err := voter.Register(env.st, env.owner, env.clock.Now())
	require.NoError(t, err)

	return env
}

func (env *testEnv) register(t *testing.T) string {
	address := keypair.Random().Address()
	_, err := voter.Register(env.st, address, env.clock.Now())
	require.NoError(t, err)

	return address
}

func (env *testEnv) create(t *testing.T) *Proposal {
	p, err := Create(env.st, env.config, env.owner, "proposal", env.clock.Now())
	require.NoError(t, err)

	return p
}

func TestCreateProposal(t *testing.T) {
	env := newTestEnv(t)
	defer env.st.Close()

	description := strings.Repeat("a", 500)
	p, err := Create(env.st, env.config, env.owner, description, env.clock.Now())
	require.NoError(t, err)
	require.Equal(t, uint64(0), p.ID)
	require.Equal(t, StateActive, p.State)
	require.Equal(t, env.clock.Now().Add(7*24*time.Hour), p.Deadline)

	stored, err := GetProposal(env.st, p.ID)
	require.NoError(t, err)
	require.Equal(t, description, stored.Description)
	require.Equal(t, p.Yes, stored.Yes)

	second, err := Create(env.st, env.config, env.owner, description, env.clock.Now())
	require.NoError(t, err)
	require.Equal(t, uint64(1), second.ID)
	require.NotEqual(t, p.Yes, second.Yes)
	require.NotEqual(t, p.No, second.No)
	require.NotEqual(t, p.Yes, p.No)

	count, err := CountProposals(env.st)
	require.NoError(t, err)
	require.Equal(t, uint64(2), count)
}

func TestCreateProposalDescriptionLength(t *testing.T) {
	env := newTestEnv(t)
	defer env.st.Close()

	for _, l := range []int{0, 1025} {
		_, err := Create(env.st, env.config, env.owner, strings.Repeat("a", l), env.clock.Now())
		require.True(t, errors.InvalidDescription.Is(err), "length %d", l)
		require.Equal(t, errors.KindRange, errors.KindOf(err))
	}

	_, err := Create(env.st, env.config, env.owner, strings.Repeat("a", 1024), env.clock.Now())
	require.NoError(t, err)

	_, err = Create(env.st, env.config, env.owner, "a", env.clock.Now())
	require.NoError(t, err)
}

func TestGetProposalUnknown(t *testing.T) {
	env := newTestEnv(t)
	defer env.st.Close()

	_, err := GetProposal(env.st, 0)
	require.True(t, errors.InvalidProposalID.Is(err))

	_, err = HasVoted(env.st, 0, env.owner)
	require.True(t, errors.InvalidProposalID.Is(err))

	_, err = GetEncryptedVotes(env.st, 0)
	require.True(t, errors.InvalidProposalID.Is(err))
}

func TestEffectiveStateAndClose(t *testing.T) {
	env := newTestEnv(t)
	defer env.st.Close()

	p := env.create(t)

	_, err := Close(env.st, p.ID, p.Deadline)
	require.True(t, errors.VotingStillActive.Is(err))
	require.Equal(t, errors.KindTemporal, errors.KindOf(err))
	require.Equal(t, StateActive, p.EffectiveState(p.Deadline))

	after := p.Deadline.Add(time.Nanosecond)
	require.Equal(t, StateClosed, p.EffectiveState(after))

	stored, err := GetProposal(env.st, p.ID)
	require.NoError(t, err)
	require.Equal(t, StateActive, stored.State)

	closed, err := Close(env.st, p.ID, after)
	require.NoError(t, err)
	require.Equal(t, StateClosed, closed.State)

	// closing again keeps it closed
	_, err = Close(env.st, p.ID, after)
	require.NoError(t, err)
}

func TestGetProposals(t *testing.T) {
	env := newTestEnv(t)
	defer env.st.Close()

	for i := 0; i < 3; i++ {
		env.create(t)
	}

	var ids []uint64
	iterFunc, closeFunc := GetProposals(env.st, storage.NewDefaultListOptions(true, nil, 0))
	for {
		p, hasNext, _ := iterFunc()
		if !hasNext {
			break
		}
		ids = append(ids, p.ID)
	}
	closeFunc()

	require.Equal(t, []uint64{2, 1, 0}, ids)
}

func TestStateJSON(t *testing.T) {
	b, err := StateClosed.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `"closed"`, string(b))

	var s State
	require.NoError(t, s.UnmarshalJSON([]byte(`"active"`)))
	require.Equal(t, StateActive, s)

	require.Error(t, s.UnmarshalJSON([]byte(`"open"`)))
}
