package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	logging "github.com/inconshreveable/log15"
	"github.com/mattn/go-isatty"
	"github.com/oklog/run"
	"github.com/spf13/cobra"

	cmdcommon "boscoin.io/obscura/cmd/obscura/common"
	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/common/keypair"
	"boscoin.io/obscura/lib/decryption"
	"boscoin.io/obscura/lib/ledger"
	"boscoin.io/obscura/lib/metrics"
	"boscoin.io/obscura/lib/node/runner"
	"boscoin.io/obscura/lib/proposal"
	"boscoin.io/obscura/lib/storage"
	"boscoin.io/obscura/lib/voter"
)

const (
	defaultNetwork  string      = "http"
	defaultPort     int         = 12345
	defaultHost     string      = "0.0.0.0"
	defaultLogLevel logging.Lvl = logging.LvlInfo
)

var (
	flagNetworkID      string = common.GetENVValue("OBSCURA_NETWORK_ID", "")
	flagGenesis        string = common.GetENVValue("OBSCURA_GENESIS", "")
	flagAuthority      string = common.GetENVValue("OBSCURA_AUTHORITY", "")
	flagTallyKey       string = common.GetENVValue("OBSCURA_TALLY_KEY", "")
	flagLogLevel       string = common.GetENVValue("OBSCURA_LOG_LEVEL", defaultLogLevel.String())
	flagLogOutput      string = common.GetENVValue("OBSCURA_LOG_OUTPUT", "")
	flagHTTPLog        string = common.GetENVValue("OBSCURA_HTTP_LOG", "")
	flagEndpointString string = common.GetENVValue(
		"OBSCURA_ENDPOINT",
		fmt.Sprintf("%s://%s:%d", defaultNetwork, defaultHost, defaultPort),
	)
	flagStorageConfigString string
	flagTLSCertFile         string = common.GetENVValue("OBSCURA_TLS_CERT", "")
	flagTLSKeyFile          string = common.GetENVValue("OBSCURA_TLS_KEY", "")
	flagNTPServer           string = common.GetENVValue("OBSCURA_NTP_SERVER", "")
	flagVotingPeriod        string = common.GetENVValue("OBSCURA_VOTING_PERIOD", common.VotingPeriod.String())
	flagDecryptionTimeout   string = common.GetENVValue("OBSCURA_DECRYPTION_TIMEOUT", common.DecryptionTimeout.String())
	flagVoteDeposit         string = common.GetENVValue("OBSCURA_VOTE_DEPOSIT", common.DefaultVoteDeposit.String())
	flagOperationsLimit     string = common.GetENVValue("OBSCURA_OPERATIONS_LIMIT", strconv.Itoa(common.DefaultOperationsInTransactionLimit))
	flagTxCacheSize         string = common.GetENVValue("OBSCURA_TX_CACHE_SIZE", "")
	flagDebugPProf          bool   = common.GetENVValue("OBSCURA_DEBUG_PPROF", "0") == "1"
	flagRateLimitAPI        cmdcommon.ListFlags
	flagConfigFile          string
)

var (
	nodeCmd *cobra.Command

	config        common.Config
	runnerConfig  runner.Config
	storageConfig *storage.Config
	logLevel      logging.Lvl
	logHandler    logging.Handler
	log           logging.Logger = logging.New("module", "main")
)

func init() {
	var err error

	nodeCmd = &cobra.Command{
		Use:   "node",
		Short: "Run obscura node",
		Run: func(c *cobra.Command, args []string) {
			if len(flagConfigFile) > 0 {
				if err := loadConfigFile(c.Flags(), flagConfigFile); err != nil {
					cmdcommon.PrintFlagsError(c, "--config", err)
				}
			}

			parseFlagsNode()

			runNode()
		},
	}

	// storage
	var currentDirectory string
	if currentDirectory, err = os.Getwd(); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--storage", err)
	}
	if currentDirectory, err = filepath.Abs(currentDirectory); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--storage", err)
	}
	flagStorageConfigString = common.GetENVValue("OBSCURA_STORAGE", fmt.Sprintf("file://%s/db", currentDirectory))

	nodeCmd.Flags().StringVar(&flagConfigFile, "config", flagConfigFile, "yaml file with the options of this command; command line options take precedence")
	nodeCmd.Flags().StringVar(&flagNetworkID, "network-id", flagNetworkID, "network id")
	nodeCmd.Flags().StringVar(&flagGenesis, "genesis", flagGenesis, "address of the owner of the ledger")
	nodeCmd.Flags().StringVar(&flagAuthority, "authority", flagAuthority, "address of the decryption authority")
	nodeCmd.Flags().StringVar(&flagTallyKey, "tally-key", flagTallyKey, "hex encoded key sealing the tallies")
	nodeCmd.Flags().StringVar(&flagLogLevel, "log-level", flagLogLevel, "log level, {crit, error, warn, info, debug}")
	nodeCmd.Flags().StringVar(&flagLogOutput, "log-output", flagLogOutput, "set log output file")
	nodeCmd.Flags().StringVar(&flagHTTPLog, "http-log", flagHTTPLog, "set combined http access log file")
	nodeCmd.Flags().StringVar(&flagEndpointString, "endpoint", flagEndpointString, "endpoint uri to listen on")
	nodeCmd.Flags().StringVar(&flagStorageConfigString, "storage", flagStorageConfigString, "storage uri, 'file:///path' or 'memory://'")
	nodeCmd.Flags().StringVar(&flagTLSCertFile, "tls-cert", flagTLSCertFile, "tls certificate file, needed by https endpoint")
	nodeCmd.Flags().StringVar(&flagTLSKeyFile, "tls-key", flagTLSKeyFile, "tls key file, needed by https endpoint")
	nodeCmd.Flags().StringVar(&flagNTPServer, "ntp-server", flagNTPServer, "ntp server correcting the clock of the ledger")
	nodeCmd.Flags().StringVar(&flagVotingPeriod, "voting-period", flagVotingPeriod, "lifetime of a proposal")
	nodeCmd.Flags().StringVar(&flagDecryptionTimeout, "decryption-timeout", flagDecryptionTimeout, "time for the authority to answer a decryption request")
	nodeCmd.Flags().StringVar(&flagVoteDeposit, "vote-deposit", flagVoteDeposit, "deposit escrowed by each vote")
	nodeCmd.Flags().StringVar(&flagOperationsLimit, "operations-limit", flagOperationsLimit, "operations limit in a transaction")
	nodeCmd.Flags().StringVar(&flagTxCacheSize, "tx-cache-size", flagTxCacheSize, "number of submitted transactions kept for lookup")
	nodeCmd.Flags().BoolVar(&flagDebugPProf, "debug-pprof", flagDebugPProf, "serve pprof under /debug")
	nodeCmd.Flags().Var(&flagRateLimitAPI, "rate-limit-api", "rate limit for api: [<ip>=]<limit>-<period>, ex) '10-S', '1.2.3.4=0-S'")

	rootCmd.AddCommand(nodeCmd)
}

func parseFlagRateLimit(l cmdcommon.ListFlags) (runner.RateLimitRule, error) {
	if len(l) < 1 {
		if env := common.GetENVValue("OBSCURA_RATE_LIMIT_API", ""); len(env) > 0 {
			return runner.ParseRateLimitRule(splitFields(env), runner.DefaultRateLimitAPI)
		}
	}

	return runner.ParseRateLimitRule([]string(l), runner.DefaultRateLimitAPI)
}

// parseEndpoint gives the bind address of the endpoint.
func parseEndpoint(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}

	switch u.Scheme {
	case "http", "https":
	default:
		return nil, fmt.Errorf("unsupported scheme, '%s'", u.Scheme)
	}
	if len(u.Port()) < 1 {
		return nil, errors.New("port must be given")
	}

	return u, nil
}

func parseFlagsNode() {
	var err error

	if len(flagNetworkID) < 1 {
		cmdcommon.PrintFlagsError(nodeCmd, "--network-id", errors.New("--network-id must be given"))
	}
	if !keypair.IsAddress(flagGenesis) {
		cmdcommon.PrintFlagsError(nodeCmd, "--genesis", errors.New("address of the owner must be given"))
	}
	if !keypair.IsAddress(flagAuthority) {
		cmdcommon.PrintFlagsError(nodeCmd, "--authority", errors.New("address of the decryption authority must be given"))
	}

	config = common.NewConfig([]byte(flagNetworkID))
	if len(flagTallyKey) < 1 {
		cmdcommon.PrintFlagsError(nodeCmd, "--tally-key", errors.New("must be given"))
	}
	if err = config.SetTallyKeyHex(flagTallyKey); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--tally-key", err)
	}
	if config.VotingPeriod, err = time.ParseDuration(flagVotingPeriod); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--voting-period", err)
	}
	if config.DecryptionTimeout, err = time.ParseDuration(flagDecryptionTimeout); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--decryption-timeout", err)
	}
	if config.VoteDeposit, err = common.AmountFromString(flagVoteDeposit); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--vote-deposit", err)
	}
	if config.OpsLimit, err = strconv.Atoi(flagOperationsLimit); err != nil || config.OpsLimit < 1 {
		cmdcommon.PrintFlagsError(nodeCmd, "--operations-limit", fmt.Errorf("must be a positive number"))
	}

	runnerConfig = runner.NewConfig()
	{
		endpoint, err := parseEndpoint(flagEndpointString)
		if err != nil {
			cmdcommon.PrintFlagsError(nodeCmd, "--endpoint", err)
		}
		runnerConfig.Endpoint = endpoint.String()
		runnerConfig.BindAddress = endpoint.Host

		if endpoint.Scheme == "https" {
			if _, err = os.Stat(flagTLSCertFile); err != nil {
				cmdcommon.PrintFlagsError(nodeCmd, "--tls-cert", err)
			}
			if _, err = os.Stat(flagTLSKeyFile); err != nil {
				cmdcommon.PrintFlagsError(nodeCmd, "--tls-key", err)
			}
			runnerConfig.TLSCertFile = flagTLSCertFile
			runnerConfig.TLSKeyFile = flagTLSKeyFile
		}
	}

	if runnerConfig.RateLimitRuleAPI, err = parseFlagRateLimit(flagRateLimitAPI); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--rate-limit-api", err)
	}
	if len(flagTxCacheSize) > 0 {
		if runnerConfig.TransactionCacheSize, err = strconv.Atoi(flagTxCacheSize); err != nil {
			cmdcommon.PrintFlagsError(nodeCmd, "--tx-cache-size", err)
		}
	}
	runnerConfig.NTPServer = flagNTPServer
	runnerConfig.DebugPProf = flagDebugPProf

	if storageConfig, err = storage.NewConfigFromString(flagStorageConfigString); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--storage", err)
	}

	if logLevel, err = logging.LvlFromString(flagLogLevel); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--log-level", err)
	}

	var formatter logging.Format
	if isatty.IsTerminal(os.Stdout.Fd()) {
		formatter = logging.TerminalFormat()
	} else {
		formatter = common.JsonFormatEx(false, true)
	}
	logHandler = logging.StreamHandler(os.Stdout, formatter)

	if len(flagLogOutput) < 1 {
		flagLogOutput = "<stdout>"
	} else {
		if logHandler, err = logging.FileHandler(flagLogOutput, common.JsonFormatEx(false, true)); err != nil {
			cmdcommon.PrintFlagsError(nodeCmd, "--log-output", err)
		}
	}

	if len(flagHTTPLog) > 0 {
		f, err := os.OpenFile(flagHTTPLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			cmdcommon.PrintFlagsError(nodeCmd, "--http-log", err)
		}
		runnerConfig.HTTPLogOutput = f
	}

	setLogging(logLevel, logHandler)

	log.Info("Starting obscura")

	// print flags
	parsedFlags := []interface{}{}
	parsedFlags = append(parsedFlags, "\n\tnetwork-id", flagNetworkID)
	parsedFlags = append(parsedFlags, "\n\tgenesis", flagGenesis)
	parsedFlags = append(parsedFlags, "\n\tauthority", flagAuthority)
	parsedFlags = append(parsedFlags, "\n\tendpoint", flagEndpointString)
	parsedFlags = append(parsedFlags, "\n\tstorage", flagStorageConfigString)
	parsedFlags = append(parsedFlags, "\n\ttls-cert", flagTLSCertFile)
	parsedFlags = append(parsedFlags, "\n\ttls-key", flagTLSKeyFile)
	parsedFlags = append(parsedFlags, "\n\tlog-level", flagLogLevel)
	parsedFlags = append(parsedFlags, "\n\tlog-output", flagLogOutput)
	parsedFlags = append(parsedFlags, "\n\tntp-server", flagNTPServer)
	parsedFlags = append(parsedFlags, "\n\tvoting-period", config.VotingPeriod)
	parsedFlags = append(parsedFlags, "\n\tdecryption-timeout", config.DecryptionTimeout)
	parsedFlags = append(parsedFlags, "\n\tvote-deposit", config.VoteDeposit)
	parsedFlags = append(parsedFlags, "\n\toperations-limit", config.OpsLimit)
	parsedFlags = append(parsedFlags, "\n\trate-limit-api", runnerConfig.RateLimitRuleAPI)

	log.Debug("parsed flags:", parsedFlags...)
}

func setLogging(level logging.Lvl, handler logging.Handler) {
	common.SetLoggerHandler(log, level, handler)
	common.SetLogging(level, handler)
	voter.SetLogging(level, handler)
	proposal.SetLogging(level, handler)
	decryption.SetLogging(level, handler)
	ledger.SetLogging(level, handler)
	runner.SetLogging(level, handler)
}

func runNode() {
	st, err := storage.NewStorage(storageConfig)
	if err != nil {
		log.Crit("failed to initialize storage", "error", err)

		os.Exit(1)
	}
	defer st.Close()

	metrics.InitPrometheusMetrics()
	metrics.SetVersion()

	clock := runner.NewNTPClock(runnerConfig.NTPServer, nil)
	if err := clock.Sync(); err != nil {
		log.Warn("clock is not synced; the local clock is used", "error", err)
	}

	l, err := ledger.New(st, config, clock, flagGenesis, flagAuthority, ledger.WithMetrics(metrics.Ledger))
	if err != nil {
		log.Crit("failed to open ledger", "error", err)

		os.Exit(1)
	}

	// Execution group.
	var g run.Group
	{
		nr, err := runner.NewNodeRunner(l, runnerConfig, clock)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}

		g.Add(func() error {
			if err := nr.Start(); err != nil {
				log.Crit("failed to start node", "error", err)
				return err
			}
			return nil
		}, func(error) {
			nr.Stop()
		})
	}
	{
		cancel := make(chan struct{})
		g.Add(func() error {
			return cmdcommon.Interrupt(cancel)
		}, func(error) {
			close(cancel)
		})
	}

	if err := g.Run(); err != nil {
		log.Info("node stopped", "reason", err)
	}
}

// splitFields splits the rules given by environment, separated by space or
// comma.
func splitFields(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
}
