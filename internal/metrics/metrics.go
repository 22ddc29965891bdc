package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SimulationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neurosim_simulations_total",
			Help: "Total number of simulation jobs by terminal status.",
		},
		[]string{"status"},
	)

	SimulationDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neurosim_simulation_duration_seconds",
			Help:    "Wall-clock duration of simulation executions in seconds.",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600},
		},
		[]string{"status"},
	)

	SimulationsRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "neurosim_simulations_running",
			Help: "Number of simulations currently executing.",
		},
	)

	SimulationsPending = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "neurosim_simulations_pending",
			Help: "Number of simulations waiting in the admission queue.",
		},
	)

	ClaimContentionTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "neurosim_claim_contention_total",
			Help: "Total number of lost dispatch claims.",
		},
	)

	ModelsRegistered = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "neurosim_models_registered",
			Help: "Number of registered simulation models.",
		},
	)
)

// Register registers all custom neurosim metrics with the
// default Prometheus registry.
func Register() {
	prometheus.MustRegister(
		SimulationsTotal,
		SimulationDurationSeconds,
		SimulationsRunning,
		SimulationsPending,
		ClaimContentionTotal,
		ModelsRegistered,
	)
}
