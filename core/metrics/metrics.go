package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "migration_verifier"

var (
	registerOnce sync.Once

	pagesFetched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "pages_total",
			Help:      "Record listing pages requested, by store and result.",
		},
		[]string{"store", "result"},
	)
	incompleteSnapshots = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "incomplete_snapshots_total",
			Help:      "Snapshots that ended early, by store and reason (partial, truncated).",
		},
		[]string{"store", "reason"},
	)
	malformedRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "malformed_records_total",
			Help:      "Records excluded from snapshots for lacking an identifier.",
		},
		[]string{"store"},
	)
	discrepancies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "diff",
			Name:      "discrepancies_total",
			Help:      "Identifiers present on one side only, by direction.",
		},
		[]string{"direction"},
	)
	runs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "total",
			Help:      "Completed reconciliation runs, by outcome.",
		},
		[]string{"outcome"},
	)
	runDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of reconciliation runs.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
		},
	)
)

// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(pagesFetched, incompleteSnapshots, malformedRecords, discrepancies, runs, runDuration)
	})
}

// RecordPage counts one page request against store.
func RecordPage(store string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	pagesFetched.WithLabelValues(store, result).Inc()
}

// RecordIncomplete counts a snapshot that stopped early.
func RecordIncomplete(store, reason string) {
	incompleteSnapshots.WithLabelValues(store, reason).Inc()
}

// RecordMalformed counts records dropped for lacking an identifier.
func RecordMalformed(store string, n int) {
	if n > 0 {
		malformedRecords.WithLabelValues(store).Add(float64(n))
	}
}

// RecordDiscrepancies counts identifiers missing in and extra in the target.
func RecordDiscrepancies(missingInTarget, extraInTarget int) {
	discrepancies.WithLabelValues("missing_in_target").Add(float64(missingInTarget))
	discrepancies.WithLabelValues("extra_in_target").Add(float64(extraInTarget))
}

// RecordRun counts a finished run and observes its duration.
func RecordRun(outcome string, d time.Duration) {
	runs.WithLabelValues(outcome).Inc()
	runDuration.Observe(d.Seconds())
}
