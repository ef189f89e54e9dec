package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeSamples = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kubetrim_store_samples",
			Help: "Number of samples currently retained, by backend and kind",
		},
		[]string{"backend", "kind"},
	)

	storeAppendTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kubetrim_store_append_total",
			Help: "Total number of samples appended to the store",
		},
		[]string{"backend", "kind"},
	)
)
