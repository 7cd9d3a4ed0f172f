// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Total number of user messages answered, by resolved intent category",
		},
		[]string{"category"},
	)

	ChatRetrievalFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_retrieval_failures_total",
			Help: "Total number of failed catalog retrievals",
		},
		[]string{"operation", "error_code"},
	)

	ChatCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_cache_lookups_total",
			Help: "Retrieval cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	ChatRoundDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "chat_round_duration_seconds",
			Help: "Duration of one submit-to-reply round in seconds",
		},
		[]string{"category"},
	)

	ChatRoundsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_rounds_active",
			Help: "Number of rounds currently in the Processing state",
		},
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
)
