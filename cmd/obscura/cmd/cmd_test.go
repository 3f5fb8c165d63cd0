package cmd

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	cmdcommon "boscoin.io/obscura/cmd/obscura/common"
	"boscoin.io/obscura/lib/client"
	"boscoin.io/obscura/lib/common/keypair"
	"boscoin.io/obscura/lib/decryption"
	"boscoin.io/obscura/lib/ledger"
	"boscoin.io/obscura/lib/node/runner"
	"boscoin.io/obscura/lib/transaction/operation"
)

const testTallyKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestParseFlagsNode(t *testing.T) {
	flagNetworkID = "obscura-test-network"
	flagGenesis = keypair.Random().Address()
	flagAuthority = keypair.Random().Address()
	flagTallyKey = testTallyKey
	flagEndpointString = "http://127.0.0.1:23456"
	flagStorageConfigString = "memory://"
	flagVotingPeriod = "1h"
	flagDecryptionTimeout = "10m"
	flagRateLimitAPI = cmdcommon.ListFlags{"10-S", "127.0.0.1=0-S"}
	flagTxCacheSize = "10"

	parseFlagsNode()

	require.Equal(t, []byte("obscura-test-network"), config.NetworkID)
	require.Equal(t, time.Hour, config.VotingPeriod)
	require.Equal(t, 10*time.Minute, config.DecryptionTimeout)
	require.Equal(t, byte(0x1f), config.TallyKey[31])

	require.Equal(t, "127.0.0.1:23456", runnerConfig.BindAddress)
	require.Equal(t, "http://127.0.0.1:23456", runnerConfig.Endpoint)
	require.False(t, runnerConfig.IsTLS())
	require.Equal(t, 10, runnerConfig.TransactionCacheSize)
	require.Equal(t, int64(10), runnerConfig.RateLimitRuleAPI.Default.Limit)
	require.Equal(t, int64(0), runnerConfig.RateLimitRuleAPI.ByIPAddress["127.0.0.1"].Limit)

	require.NotNil(t, storageConfig)
}

func TestParseEndpoint(t *testing.T) {
	u, err := parseEndpoint("https://localhost:12345")
	require.NoError(t, err)
	require.Equal(t, "localhost:12345", u.Host)

	_, err = parseEndpoint("http://localhost")
	require.Error(t, err)

	_, err = parseEndpoint("tcp://localhost:12345")
	require.Error(t, err)
}

func TestParseFlagRateLimit(t *testing.T) {
	var testFlags cmdcommon.ListFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Var(&testFlags, "rate-limit", "")

	{ // no rule given
		rule, err := parseFlagRateLimit(nil)
		require.NoError(t, err)
		require.Equal(t, runner.DefaultRateLimitAPI.Limit, rule.Default.Limit)
	}

	{ // default and by ip address
		err := fs.Parse([]string{"--rate-limit", "3-M", "--rate-limit", "1.2.3.4=0-S"})
		require.NoError(t, err)

		rule, err := parseFlagRateLimit(testFlags)
		require.NoError(t, err)
		require.Equal(t, int64(3), rule.Default.Limit)
		require.Equal(t, time.Minute, rule.Default.Period)
		require.Equal(t, 1, len(rule.ByIPAddress))
		require.Equal(t, int64(0), rule.ByIPAddress["1.2.3.4"].Limit)
	}

	{ // wrong rate
		_, err := parseFlagRateLimit(cmdcommon.ListFlags{"3-X-Y"})
		require.Error(t, err)
	}
}

func TestSplitFields(t *testing.T) {
	require.Equal(t, []string{"10-S", "1.2.3.4=0-S"}, splitFields("10-S, 1.2.3.4=0-S"))
	require.Empty(t, splitFields(" "))
}

func newTestFlagSet() (*pflag.FlagSet, *string, *cmdcommon.ListFlags) {
	var (
		networkID string
		rules     cmdcommon.ListFlags
	)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringVar(&networkID, "network-id", "", "")
	fs.Var(&rules, "rate-limit-api", "")
	fs.String("config", "", "")

	return fs, &networkID, &rules
}

func TestApplyConfig(t *testing.T) {
	content := []byte(strings.Join([]string{
		"network-id: from-file",
		"rate-limit-api:",
		"  - 10-S",
		"  - 1.2.3.4=0-S",
	}, "\n"))

	{ // values from file
		fs, networkID, rules := newTestFlagSet()
		require.NoError(t, fs.Parse(nil))
		require.NoError(t, applyConfig(fs, content))

		require.Equal(t, "from-file", *networkID)
		require.Equal(t, cmdcommon.ListFlags{"10-S", "1.2.3.4=0-S"}, *rules)
	}

	{ // command line wins
		fs, networkID, _ := newTestFlagSet()
		require.NoError(t, fs.Parse([]string{"--network-id", "from-flag"}))
		require.NoError(t, applyConfig(fs, content))

		require.Equal(t, "from-flag", *networkID)
	}

	{ // unknown key
		fs, _, _ := newTestFlagSet()
		require.Error(t, applyConfig(fs, []byte("unknown: 1")))
	}

	{ // config in config
		fs, _, _ := newTestFlagSet()
		require.Error(t, applyConfig(fs, []byte("config: other.yml")))
	}
}

func TestMakeOperation(t *testing.T) {
	target := keypair.Random().Address()

	op, err := makeOperation(operation.TypeRegisterVoter, `{"target": "`+target+`"}`)
	require.NoError(t, err)
	require.Equal(t, operation.TypeRegisterVoter, op.H.Type)

	_, err = makeOperation(operation.OperationType("findme"), `{}`)
	require.Error(t, err)

	_, err = makeOperation(operation.TypeVote, `not json`)
	require.Error(t, err)
}

func TestParseSecretSeed(t *testing.T) {
	kp := keypair.Random()

	parsed, err := parseSecretSeed(kp.Seed())
	require.NoError(t, err)
	require.Equal(t, kp.Address(), parsed.Address())

	_, err = parseSecretSeed(kp.Address())
	require.Error(t, err)

	_, err = parseSecretSeed("")
	require.Error(t, err)
}

func prepareNode(t *testing.T) (*ledger.TestLedger, *httptest.Server, *client.Client) {
	l := ledger.NewTestLedger()

	nr, err := runner.NewNodeRunner(l.Ledger, runner.NewConfig(), nil)
	require.NoError(t, err)
	nr.Ready()

	ts := httptest.NewServer(nr.Router())
	return l, ts, client.NewClient(ts.URL, 5*time.Second, nil)
}

func TestSubmitOperations(t *testing.T) {
	l, ts, nc := prepareNode(t)
	defer ts.Close()

	target := keypair.Random()

	op, err := operation.NewOperation(operation.NewRegisterVoter(target.Address()))
	require.NoError(t, err)

	// network id comes from the node
	status, err := submitOperations(nc, l.OwnerKP, "", op)
	require.NoError(t, err)
	require.Equal(t, l.Owner(), status.Source)

	registered, err := l.IsRegistered(target.Address())
	require.NoError(t, err)
	require.True(t, registered)

	// sequence id follows
	op, err = operation.NewOperation(operation.NewCreateProposal("raise the quorum"))
	require.NoError(t, err)
	_, err = submitOperations(nc, l.OwnerKP, "", op)
	require.NoError(t, err)

	// wrong network id
	_, err = submitOperations(nc, l.OwnerKP, "another-network", op)
	require.Error(t, err)
}

func TestRespondDecryption(t *testing.T) {
	l, ts, nc := prepareNode(t)
	defer ts.Close()

	kps := l.RegisterRandom(2)

	p, err := l.CreateProposal(l.Owner(), "raise the quorum")
	require.NoError(t, err)

	_, err = l.Vote(kps[0].Address(), p.ID, true, nil)
	require.NoError(t, err)
	_, err = l.Vote(kps[1].Address(), p.ID, false, nil)
	require.NoError(t, err)
	_, err = l.Vote(l.Owner(), p.ID, true, nil)
	require.NoError(t, err)

	// not requested yet
	_, err = respondDecryption(nc, l.AuthKP, "", l.Config().TallyKey, p.ID)
	require.Error(t, err)

	l.Clock.Set(p.Deadline.Add(time.Second))

	_, err = l.RequestDecryption(l.Owner(), p.ID)
	require.NoError(t, err)

	_, err = respondDecryption(nc, l.AuthKP, "", l.Config().TallyKey, p.ID)
	require.NoError(t, err)

	request, err := nc.GetDecryption(p.ID)
	require.NoError(t, err)
	require.Equal(t, decryption.StatusResolved, request.Status)

	resolved, err := nc.GetProposal(p.ID)
	require.NoError(t, err)
	require.NotNil(t, resolved.Result)
	require.Equal(t, "2", resolved.Result.Yes.String())
	require.Equal(t, "1", resolved.Result.No.String())

	// already resolved
	_, err = respondDecryption(nc, l.AuthKP, "", l.Config().TallyKey, p.ID)
	require.Error(t, err)
}
