package runner

import (
	"io"
	"io/ioutil"
	"time"

	"boscoin.io/obscura/lib/node/runner/api"
)

const (
	DefaultBindAddress     = "0.0.0.0:12345"
	DefaultNTPSyncInterval = 10 * time.Minute
	DefaultShutdownTimeout = 5 * time.Second

	DefaultReadTimeout       = 20 * time.Second
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultIdleTimeout       = 60 * time.Second
)

type Config struct {
	// BindAddress is the `host:port` the HTTP server listens on.
	BindAddress string
	// Endpoint is the public url of the node, reported in the node info.
	Endpoint string

	TLSCertFile string
	TLSKeyFile  string

	// No write timeout is set; the event stream stays open.
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration

	RateLimitRuleAPI     RateLimitRule
	TransactionCacheSize int

	NTPServer       string
	NTPSyncInterval time.Duration

	// HTTPLogOutput receives the combined access log.
	HTTPLogOutput io.Writer
	DebugPProf    bool
}

func NewConfig() Config {
	return Config{
		BindAddress:          DefaultBindAddress,
		Endpoint:             "http://" + DefaultBindAddress,
		RateLimitRuleAPI:     NewRateLimitRule(DefaultRateLimitAPI),
		TransactionCacheSize: api.DefaultTransactionCacheSize,
		NTPSyncInterval:      DefaultNTPSyncInterval,
		ReadTimeout:          DefaultReadTimeout,
		ReadHeaderTimeout:    DefaultReadHeaderTimeout,
		IdleTimeout:          DefaultIdleTimeout,
		HTTPLogOutput:        ioutil.Discard,
	}
}

func (c Config) IsTLS() bool {
	return len(c.TLSCertFile) > 0 && len(c.TLSKeyFile) > 0
}
