package provision

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	provisionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kubetrim_provision_duration_seconds",
			Help:    "Time taken by a complete provisioning run",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		},
	)

	provisionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kubetrim_provision_total",
			Help: "Total number of provisioning runs",
		},
		[]string{"status"}, // success or error
	)

	stepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kubetrim_provision_step_duration_seconds",
			Help:    "Time taken by individual provisioning steps",
			Buckets: []float64{0.01, 0.1, 1, 5, 15, 60, 120},
		},
		[]string{"step"}, // resolve, download, install, verify
	)
)
