package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors exposed on /metrics.
type Metrics struct {
	// counters
	CounterRequests *prometheus.CounterVec
	CounterUpdates  prometheus.Counter
	CounterExports  prometheus.Counter

	// histograms
	HistRequestDuration prometheus.Histogram
}

// NewMetrics registers the server collectors on reg.
func NewMetrics(namespace, subsystem string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "requests",
		Help:      "The total number of handled requests",
	}, []string{"route", "method", "status"})
	counterUpdates := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "set_updates",
		Help:      "The total number of accepted set updates",
	})
	counterExports := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "csv_exports",
		Help:      "The total number of CSV downloads",
	})

	histReqDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Total duration of requests in seconds",
		Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 1, 10},
	})

	return &Metrics{
		CounterRequests:     counterRequests,
		CounterUpdates:      counterUpdates,
		CounterExports:      counterExports,
		HistRequestDuration: histReqDuration,
	}
}
