// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScopeComputations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scope_computations_total",
			Help: "Total number of assessment scope computations",
		},
		[]string{"certification_type"},
	)

	ScopeComputationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "scope_computation_duration_seconds",
			Help: "Duration of assessment scope computation in seconds",
		},
	)

	UnrecognizedConditions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_unrecognized_conditions_total",
			Help: "Trigger conditions that failed to parse at catalog compile time",
		},
		[]string{"category"},
	)

	FilterFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "question_filter_fallbacks_total",
			Help: "Question filter invocations that returned the bank unfiltered for lack of scope tagging",
		},
	)

	SnapshotRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refdata_snapshot_refreshes_total",
			Help: "Reference-data snapshot refreshes by outcome",
		},
		[]string{"outcome"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)
)
