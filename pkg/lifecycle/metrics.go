package lifecycle

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kubetrim_lifecycle_transitions_total",
			Help: "Total number of lifecycle state transitions",
		},
		[]string{"from", "to"},
	)

	stateGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kubetrim_lifecycle_state",
			Help: "Current lifecycle state (1 for the active state, 0 otherwise)",
		},
		[]string{"state"},
	)
)

var allStates = []State{
	StateStarting,
	StateProvisioning,
	StateReady,
	StateRunning,
	StateStopped,
	StateFailed,
}

func setStateGauge(active State) {
	for _, s := range allStates {
		v := 0.0
		if s == active {
			v = 1.0
		}
		stateGauge.WithLabelValues(string(s)).Set(v)
	}
}
