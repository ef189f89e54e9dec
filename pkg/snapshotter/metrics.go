package snapshotter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Snapshot collection metrics
	snapshotCollectionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kubetrim_snapshot_collection_duration_seconds",
			Help:    "Time taken to collect a complete cluster snapshot",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30},
		},
	)

	snapshotCollectionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kubetrim_snapshot_collection_total",
			Help: "Total number of snapshot collection attempts",
		},
		[]string{"status"}, // success or error
	)

	snapshotCollectorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kubetrim_snapshot_collector_duration_seconds",
			Help:    "Time taken by individual collectors",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"collector"}, // node, pod
	)

	snapshotSampleCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kubetrim_snapshot_samples",
			Help: "Number of samples in the last collected snapshot",
		},
		[]string{"kind"}, // node or pod
	)

	enrichFailureTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kubetrim_snapshot_enrich_failures_total",
			Help: "Total number of pod spec lookups that failed during enrichment",
		},
	)
)
