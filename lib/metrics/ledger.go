package metrics

import (
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

type LedgerMetrics struct {
	TransitionsTotal          metrics.Counter
	RejectionsTotal           metrics.Counter
	TransitionDurationSeconds metrics.Histogram

	Voters             metrics.Gauge
	Proposals          metrics.Gauge
	PendingDecryptions metrics.Gauge
}

func (m *LedgerMetrics) AddTransition(operation string, committed bool) {
	result := ResultCommitted
	if !committed {
		result = ResultRejected
	}
	m.TransitionsTotal.With(LedgerOperation, operation, LedgerResult, result).Add(1)
}

func (m *LedgerMetrics) AddRejection(operation, kind string) {
	m.RejectionsTotal.With(LedgerOperation, operation, LedgerKind, kind).Add(1)
}

func (m *LedgerMetrics) ObserveDurationSeconds(begin time.Time) {
	m.TransitionDurationSeconds.Observe(time.Since(begin).Seconds())
}

func (m *LedgerMetrics) AddVoters(delta int) {
	m.Voters.Add(float64(delta))
}

func (m *LedgerMetrics) AddProposals(delta int) {
	m.Proposals.Add(float64(delta))
}

func (m *LedgerMetrics) AddPendingDecryptions(delta int) {
	m.PendingDecryptions.Add(float64(delta))
}

func PromLedgerMetrics() *LedgerMetrics {
	return &LedgerMetrics{
		TransitionsTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: LedgerSubsystem,
			Name:      "transitions_total",
			Help:      "Total number of applied operations.",
		}, []string{LedgerOperation, LedgerResult}),
		RejectionsTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: LedgerSubsystem,
			Name:      "rejections_total",
			Help:      "Total number of rejected operations by error kind.",
		}, []string{LedgerOperation, LedgerKind}),
		TransitionDurationSeconds: prometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
			Namespace: Namespace,
			Subsystem: LedgerSubsystem,
			Name:      "transition_duration_seconds",
			Help:      "Time to apply one transaction.",
		}, []string{}),
		Voters: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: LedgerSubsystem,
			Name:      "voters",
			Help:      "Number of registered voters.",
		}, []string{}),
		Proposals: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: LedgerSubsystem,
			Name:      "proposals",
			Help:      "Number of proposals.",
		}, []string{}),
		PendingDecryptions: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: LedgerSubsystem,
			Name:      "pending_decryptions",
			Help:      "Number of pending decryption requests.",
		}, []string{}),
	}
}

func NopLedgerMetrics() *LedgerMetrics {
	return &LedgerMetrics{
		TransitionsTotal:          discard.NewCounter(),
		RejectionsTotal:           discard.NewCounter(),
		TransitionDurationSeconds: discard.NewHistogram(),
		Voters:                    discard.NewGauge(),
		Proposals:                 discard.NewGauge(),
		PendingDecryptions:        discard.NewGauge(),
	}
}
