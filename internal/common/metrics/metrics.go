// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
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

	// ReplyResults counts pipeline runs by the layer that produced the primary candidate.
	ReplyResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reply_pipeline_results_total",
			Help: "Reply pipeline runs by primary match source",
		},
		[]string{"source"},
	)

	ReplyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reply_pipeline_duration_seconds",
			Help:    "End-to-end reply pipeline duration in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 20},
		},
		[]string{"source"},
	)

	// ReplyDegradations counts every fallback taken inside the pipeline.
	ReplyDegradations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reply_pipeline_degradations_total",
			Help: "Degradations to local recovery by stage and reason",
		},
		[]string{"stage", "reason"},
	)

	RemoteCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_remote_calls_total",
			Help: "Remote language-model calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	SalePlans = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sale_plans_total",
			Help: "Sale plans produced by trigger",
		},
		[]string{"trigger"},
	)
)
