// NodeRunner serves the ledger over HTTP. It owns the router, the middlewares
// and the lifecycle of the server.
package runner

import (
	"context"
	"net/http"
	"net/http/pprof"
	"strings"
	"sync"
	"time"

	ghandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	logging "github.com/inconshreveable/log15"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/ledger"
	"boscoin.io/obscura/lib/metrics"
	"boscoin.io/obscura/lib/node"
	"boscoin.io/obscura/lib/node/runner/api"
	"boscoin.io/obscura/lib/version"
)

const (
	UrlPathPrefixAPI    = "/api"
	UrlPathPrefixMetric = "/metrics"
	UrlPathPrefixDebug  = "/debug"
)

type NodeRunner struct {
	ledger     *ledger.Ledger
	conf       Config
	clock      *NTPClock
	router     *mux.Router
	server     *http.Server
	apiHandler *api.NetworkHandlerAPI

	readyOnce sync.Once
	state     node.StateHolder
	started   time.Time
	stop      chan struct{}

	log logging.Logger
}

// NewNodeRunner prepares a runner for the ledger. clock may be nil when the
// ledger does not run on a NTP corrected clock.
func NewNodeRunner(l *ledger.Ledger, conf Config, clock *NTPClock) (nr *NodeRunner, err error) {
	if conf.TransactionCacheSize < 1 {
		conf.TransactionCacheSize = api.DefaultTransactionCacheSize
	}

	nr = &NodeRunner{
		ledger: l,
		conf:   conf,
		clock:  clock,
		router: mux.NewRouter(),
		stop:   make(chan struct{}),
		log:    log.New(logging.Ctx{"endpoint": conf.Endpoint}),
	}
	nr.state.SetBooting()

	if nr.apiHandler, err = api.NewNetworkHandlerAPI(l, UrlPathPrefixAPI, conf.TransactionCacheSize); err != nil {
		return nil, err
	}
	nr.apiHandler.GetNodeInfo = nr.NodeInfo

	return nr, nil
}

// Ready builds the router and the server. `Start` calls it; calling it
// again does nothing.
func (nr *NodeRunner) Ready() {
	nr.readyOnce.Do(nr.ready)
}

func (nr *NodeRunner) ready() {
	nr.router.Use(RecoverMiddleware(nr.log, false))
	nr.router.Use(LogMiddleware(nr.log))

	apiRouter := nr.router.PathPrefix(UrlPathPrefixAPI).Subrouter()
	{ // CORS
		allowedOrigins := ghandlers.AllowedOrigins([]string{"*"})
		allowedMethods := ghandlers.AllowedMethods([]string{"GET", "POST"})
		allowedHeaders := ghandlers.AllowedHeaders([]string{"Content-Type", "X-Requested-With", "Cache-Control", "Access-Control"})

		apiRouter.Use(ghandlers.CORS(allowedOrigins, allowedMethods, allowedHeaders))
	}
	apiRouter.Use(RateLimitMiddleware(nr.log, nr.conf.RateLimitRuleAPI))
	apiRouter.Use(MetricsMiddleware(metrics.API))

	h := nr.apiHandler
	handlers := []struct {
		pattern string
		handler http.HandlerFunc
	}{
		{api.GetNodeInfoPattern, h.NodeInfoHandler},
		{api.GetVotersHandlerPattern, h.GetVotersHandler},
		{api.GetVoterHandlerPattern, h.GetVoterHandler},
		{api.GetProposalsHandlerPattern, h.GetProposalsHandler},
		{api.GetProposalHandlerPattern, h.GetProposalHandler},
		{api.GetProposalVotesHandlerPattern, h.GetProposalVotesHandler},
		{api.GetProposalReceiptsHandlerPattern, h.GetProposalReceiptsHandler},
		{api.GetProposalVoterHandlerPattern, h.GetProposalVoterHandler},
		{api.GetProposalDecryptionHandlerPattern, h.GetProposalDecryptionHandler},
		{api.GetAccountSequenceHandlerPattern, h.GetAccountSequenceHandler},
		{api.GetTransactionByHashHandlerPattern, h.GetTransactionByHashHandler},
		{api.GetEventsHandlerPattern, h.GetEventsHandler},
	}
	// the subrouter already matched the prefix.
	apiPath := func(pattern string) string {
		return strings.TrimPrefix(h.HandlerURLPattern(pattern), UrlPathPrefixAPI)
	}
	for _, i := range handlers {
		apiRouter.HandleFunc(apiPath(i.pattern), i.handler).Methods("GET", "OPTIONS")
	}
	apiRouter.HandleFunc(
		apiPath(api.PostTransactionPattern),
		h.PostTransactionsHandler,
	).Methods("POST").Headers("Content-Type", "application/json")

	// node info also answers at the root.
	nr.router.HandleFunc("/", h.NodeInfoHandler).Methods("GET")

	nr.router.Handle(UrlPathPrefixMetric, promhttp.Handler()).Methods("GET")

	if nr.conf.DebugPProf {
		nr.router.HandleFunc(UrlPathPrefixDebug+"/pprof/cmdline", pprof.Cmdline)
		nr.router.HandleFunc(UrlPathPrefixDebug+"/pprof/profile", pprof.Profile)
		nr.router.HandleFunc(UrlPathPrefixDebug+"/pprof/symbol", pprof.Symbol)
		nr.router.HandleFunc(UrlPathPrefixDebug+"/pprof/trace", pprof.Trace)
		nr.router.PathPrefix(UrlPathPrefixDebug + "/pprof/").HandlerFunc(pprof.Index)
	}

	nr.server = &http.Server{
		Addr:              nr.conf.BindAddress,
		Handler:           ghandlers.CombinedLoggingHandler(nr.conf.HTTPLogOutput, nr.router),
		ReadTimeout:       nr.conf.ReadTimeout,
		ReadHeaderTimeout: nr.conf.ReadHeaderTimeout,
	}
	nr.server.SetKeepAlivesEnabled(true)

	if err := http2.ConfigureServer(nr.server, &http2.Server{IdleTimeout: nr.conf.IdleTimeout}); err != nil {
		nr.log.Error("failed to configure http2", "error", err)
	}
}

// Start serves until `Stop` is called. It returns nil after a clean stop.
func (nr *NodeRunner) Start() (err error) {
	nr.log.Debug("NodeRunner started")
	nr.Ready()

	if nr.clock != nil {
		nr.clock.Sync()
		go nr.clock.Run(nr.conf.NTPSyncInterval, nr.stop)
	}

	nr.started = time.Now()
	nr.state.SetServing()
	nr.log.Info("start serving", "bind", nr.conf.BindAddress, "tls", nr.conf.IsTLS())

	if nr.conf.IsTLS() {
		err = nr.server.ListenAndServeTLS(nr.conf.TLSCertFile, nr.conf.TLSKeyFile)
	} else {
		err = nr.server.ListenAndServe()
	}
	if err == http.ErrServerClosed {
		err = nil
	}

	return
}

func (nr *NodeRunner) Stop() {
	if nr.state.State() == node.StateTERMINATING {
		return
	}
	nr.state.SetTerminating()
	close(nr.stop)

	if nr.server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()

	if err := nr.server.Shutdown(ctx); err != nil {
		nr.log.Error("failed to shutdown server", "error", err)
		nr.server.Close()
	}
	nr.log.Info("stopped")
}

func (nr *NodeRunner) NodeInfo() node.NodeInfo {
	var started string
	if !nr.started.IsZero() {
		started = common.FormatISO8601(nr.started)
	}

	var offset time.Duration
	if nr.clock != nil {
		offset = nr.clock.Offset()
	}

	return node.NodeInfo{
		Node: node.NodeInfoNode{
			Version:     version.GetInfo(),
			Started:     started,
			State:       nr.state.State(),
			Endpoint:    nr.conf.Endpoint,
			ClockOffset: offset,
		},
		Policy: node.NewNodePolicy(nr.ledger.Config(), nr.conf.RateLimitRuleAPI.String()),
	}
}

func (nr *NodeRunner) Router() *mux.Router {
	return nr.router
}

func (nr *NodeRunner) Ledger() *ledger.Ledger {
	return nr.ledger
}

func (nr *NodeRunner) State() node.State {
	return nr.state.State()
}

func (nr *NodeRunner) Log() logging.Logger {
	return nr.log
}
