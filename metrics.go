package sweep

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	trialsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sweep_trials_total",
		Help: "Sweep trials by sweeper and outcome",
	}, []string{"sweeper", "outcome"})

	trialDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sweep_trial_duration_seconds",
		Help:    "Duration of sweep trials",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
	}, []string{"sweeper"})

	batchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sweep_batches_total",
		Help: "Isolated sweep batches by mode and status",
	}, []string{"mode", "status"})

	recoveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sweep_recoveries_total",
		Help: "Feature sweeps recovered from a checkpoint, by the reason the batch gave no result",
	}, []string{"reason"})

	recoveredResultsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sweep_recovered_results_total",
		Help: "Accepted sweep results replayed from checkpoints",
	})
)
