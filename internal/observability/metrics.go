// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Launch workflow metrics
	TokenCreations *prometheus.CounterVec
	GateRejections *prometheus.CounterVec
	GateFailOpen   *prometheus.CounterVec
	StepDuration   *prometheus.HistogramVec
	LastLaunch     prometheus.Gauge
	LamportsFunded prometheus.Counter

	// External call metrics
	ExternalCallLatency *prometheus.HistogramVec
	ExternalCallErrors  *prometheus.CounterVec
	RPCCallLatency      *prometheus.HistogramVec

	// HTTP metrics
	HTTPRequests  *prometheus.CounterVec
	HTTPThrottled prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	StartTime prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "solana_launchpad"
	}

	m := &Metrics{
		TokenCreations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "launch",
			Name:      "token_creations_total",
			Help:      "Token creation requests by outcome",
		}, []string{"outcome"}),
		GateRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "launch",
			Name:      "gate_rejections_total",
			Help:      "Requests rejected by the rate limiter by limit type",
		}, []string{"type"}),
		GateFailOpen: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "launch",
			Name:      "gate_fail_open_total",
			Help:      "Rate limit checks that allowed a request because the backing store failed",
		}, []string{"check"}),
		StepDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "launch",
			Name:      "step_duration_seconds",
			Help:      "Duration of each launch workflow step",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"step", "status"}),
		LastLaunch: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "launch",
			Name:      "last_successful_launch_timestamp",
			Help:      "Unix timestamp of last successful token launch",
		}),
		LamportsFunded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "launch",
			Name:      "lamports_funded_total",
			Help:      "Total lamports transferred to provisioned wallets",
		}),

		ExternalCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "external",
			Name:      "call_duration_seconds",
			Help:      "Latency of third-party API calls",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"service", "operation"}),
		ExternalCallErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "external",
			Name:      "call_errors_total",
			Help:      "Failed third-party API calls",
		}, []string{"service", "operation"}),
		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_duration_seconds",
			Help:      "Latency of Solana RPC calls",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method"}),

		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		HTTPThrottled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "throttled_total",
			Help:      "HTTP requests rejected by the per-IP throttle",
		}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"operation"}),

		StartTime: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "start_time_seconds",
			Help:      "Unix timestamp of process start",
		}),
	}
	m.StartTime.Set(float64(time.Now().Unix()))
	return m
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordCreation counts a finished creation request.
func RecordCreation(outcome string) {
	DefaultMetrics.TokenCreations.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		DefaultMetrics.LastLaunch.Set(float64(time.Now().Unix()))
	}
}

// RecordGateRejection counts a rate limit rejection.
func RecordGateRejection(limitType string) {
	DefaultMetrics.GateRejections.WithLabelValues(limitType).Inc()
}

// RecordGateFailOpen counts a rate limit check that failed open.
func RecordGateFailOpen(check string) {
	DefaultMetrics.GateFailOpen.WithLabelValues(check).Inc()
}

// ObserveStep records the duration of a workflow step.
func ObserveStep(step, status string, d time.Duration) {
	DefaultMetrics.StepDuration.WithLabelValues(step, status).Observe(d.Seconds())
}

// RecordFunding adds a confirmed funding transfer.
func RecordFunding(lamports uint64) {
	DefaultMetrics.LamportsFunded.Add(float64(lamports))
}

// RecordExternalCall records a third-party API call.
func RecordExternalCall(service, operation string, d time.Duration, err error) {
	DefaultMetrics.ExternalCallLatency.WithLabelValues(service, operation).Observe(d.Seconds())
	if err != nil {
		DefaultMetrics.ExternalCallErrors.WithLabelValues(service, operation).Inc()
	}
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordHTTPRequest counts a served HTTP request.
func RecordHTTPRequest(method, route, status string) {
	DefaultMetrics.HTTPRequests.WithLabelValues(method, route, status).Inc()
}

// RecordHTTPThrottled counts a throttled HTTP request.
func RecordHTTPThrottled() {
	DefaultMetrics.HTTPThrottled.Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(operation).Inc()
	}
}
