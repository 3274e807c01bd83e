package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the server's Prometheus instruments.
type metrics struct {
	registry *prometheus.Registry

	analysesTotal    prometheus.Counter
	analysesFailed   prometheus.Counter
	rowsRejected     prometheus.Counter
	analysisDuration prometheus.Histogram
}

func newMetrics() *metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &metrics{
		registry: registry,
		analysesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "qpcr_analyses_total",
			Help: "Completed analysis runs.",
		}),
		analysesFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "qpcr_analyses_failed_total",
			Help: "Analysis runs that ended in a fatal error.",
		}),
		rowsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "qpcr_rows_rejected_total",
			Help: "Input rows excluded by validation.",
		}),
		analysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "qpcr_analysis_duration_seconds",
			Help:    "Wall-clock duration of analysis runs.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
