package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	BackfillInserted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "backfill_entries_inserted_total",
			Help: "Missed-day entries written by progress reconstruction",
		},
	)
	BackfillDuplicates = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "backfill_duplicates_suppressed_total",
			Help: "Missed-day entries skipped because a concurrent request already wrote them",
		},
	)
	BackfillFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "backfill_failures_total",
			Help: "Backfill batch inserts that failed",
		},
	)
	CacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Derived view cache lookups",
		},
		[]string{"result"},
	)
	JobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduled_job_runs_total",
			Help: "Scheduled job executions",
		},
		[]string{"job", "status"},
	)
)

// Register adds the domain collectors to reg. Call once from main.go.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		BackfillInserted,
		BackfillDuplicates,
		BackfillFailures,
		CacheRequests,
		JobRuns,
	)
}
