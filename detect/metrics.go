package detect

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposed to Prometheus, grounded on the pack's own
// promauto-global-var idiom (enterprise/cmd/repo-updater/internal/authz's
// metrics.go).
var (
	optimiseTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "detectengine_optimise_total",
		Help: "Total number of Optimise calls.",
	})
	optimiseDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "detectengine_optimise_duration_seconds",
		Help:    "Time spent rewriting an expression tree into a Detection.",
		Buckets: prometheus.DefBuckets,
	})
	solveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "detectengine_solve_total",
		Help: "Total number of Solve calls, labelled by match outcome.",
	}, []string{"matched"})
	solveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "detectengine_solve_duration_seconds",
		Help:    "Time spent evaluating a Detection against one document.",
		Buckets: prometheus.DefBuckets,
	})
)
