package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	solvesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solverd",
			Subsystem: "engine",
			Name:      "solves_total",
			Help:      "Total solve calls by normalized status",
		},
		[]string{"status"},
	)

	solveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "solverd",
			Subsystem: "engine",
			Name:      "solve_duration_seconds",
			Help:      "Wall-clock duration of solver runtime calls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	gateWait = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "solverd",
			Subsystem: "engine",
			Name:      "gate_wait_seconds",
			Help:      "Time spent waiting for the GPU gate in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(solvesTotal, solveDuration, gateWait)
}
