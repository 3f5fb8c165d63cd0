package metrics

import (
	"strconv"
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const (
	APIEndpoint = "endpoint"
	APIMethod   = "method"
	APIStatus   = "status"
)

type APIMetrics struct {
	RequestsTotal          metrics.Counter
	RequestErrorsTotal     metrics.Counter
	RequestDurationSeconds metrics.Histogram
}

func PromAPIMetrics() *APIMetrics {
	labels := []string{APIEndpoint, APIMethod, APIStatus}
	return &APIMetrics{
		RequestsTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: APISubsystem,
			Name:      "requests_total",
			Help:      "Total number of requests.",
		}, labels),
		RequestErrorsTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: APISubsystem,
			Name:      "request_errors_total",
			Help:      "Total number of request errors",
		}, labels),
		RequestDurationSeconds: prometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
			Namespace: Namespace,
			Subsystem: APISubsystem,
			Name:      "request_duration_seconds",
			Help:      "Request duration in seconds.",
		}, labels),
	}
}

func NopAPIMetrics() *APIMetrics {
	return &APIMetrics{
		RequestsTotal:          discard.NewCounter(),
		RequestErrorsTotal:     discard.NewCounter(),
		RequestDurationSeconds: discard.NewHistogram(),
	}
}

// ObserveRequest records one served request. Statuses of 400 and above also
// count as errors.
func (m *APIMetrics) ObserveRequest(endpoint, method string, status int, took time.Duration) {
	lvs := []string{
		APIEndpoint, endpoint,
		APIMethod, method,
		APIStatus, strconv.Itoa(status),
	}

	m.RequestsTotal.With(lvs...).Add(1)
	if status >= 400 {
		m.RequestErrorsTotal.With(lvs...).Add(1)
	}
	m.RequestDurationSeconds.With(lvs...).Observe(took.Seconds())
}
