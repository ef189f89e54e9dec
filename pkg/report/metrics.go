package report

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reportBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kubetrim_report_build_duration_seconds",
			Help:    "Time taken to build a right-sizing report",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	reportBuildTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kubetrim_report_build_total",
			Help: "Total number of report build attempts",
		},
		[]string{"status"}, // success or error
	)

	reportImageCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kubetrim_report_images",
			Help: "Number of distinct images in the last built report",
		},
	)
)
