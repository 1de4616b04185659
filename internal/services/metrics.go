package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects Prometheus counters for the transform service.
type Metrics struct {
	BatchesTotal     *prometheus.CounterVec
	RecordsProcessed prometheus.Counter
	RecordsDropped   prometheus.Counter
	BatchDuration    prometheus.Histogram
}

// NewMetrics registers the transform metrics on the given registerer. The
// application passes its own registry so repeated construction never
// collides with previously registered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BatchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "transformd",
			Name:      "batches_total",
			Help:      "Transform batches by outcome.",
		}, []string{"outcome"}),
		RecordsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "transformd",
			Name:      "records_processed_total",
			Help:      "Records that survived cleaning and were enriched.",
		}),
		RecordsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "transformd",
			Name:      "records_dropped_total",
			Help:      "Raw records dropped during validation.",
		}),
		BatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "transformd",
			Name:      "batch_duration_seconds",
			Help:      "End-to-end transform duration per batch.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
