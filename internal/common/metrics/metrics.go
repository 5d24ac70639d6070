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

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "investment_recommendations_total",
			Help: "Recommendations produced, by label",
		},
		[]string{"label"},
	)

	SimulationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "investment_simulations_total",
			Help: "Mortgage simulations, by outcome",
		},
		[]string{"outcome"},
	)

	SimulationCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "investment_simulation_cache_total",
			Help: "Simulation cache lookups, by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served by the API",
		},
		[]string{"route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

// JobTimer tracks one in-flight job for a task type.
type JobTimer struct {
	taskType string
	timer    *prometheus.Timer
}

// StartJob increments the active gauge and starts the duration timer.
func StartJob(taskType string) *JobTimer {
	WorkerJobsActive.WithLabelValues(taskType).Inc()
	return &JobTimer{
		taskType: taskType,
		timer:    prometheus.NewTimer(WorkerJobDuration.WithLabelValues(taskType)),
	}
}

// Complete records a successful job.
func (j *JobTimer) Complete() {
	j.finish()
	WorkerJobsCompleted.WithLabelValues(j.taskType).Inc()
}

// Fail records a failed job with its error code.
func (j *JobTimer) Fail(errorCode string) {
	j.finish()
	WorkerJobsFailed.WithLabelValues(j.taskType, errorCode).Inc()
}

func (j *JobTimer) finish() {
	j.timer.ObserveDuration()
	WorkerJobsActive.WithLabelValues(j.taskType).Dec()
}
