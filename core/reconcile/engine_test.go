package reconcile

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"migration-verifier/core/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine(source, target store.Store, reporter Reporter, cfg Config) *Engine {
	e := NewEngine(source, target, reporter, cfg, zap.NewNop())
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return fixed }
	e.newID = func() string { return "run-1" }
	return e
}

func TestRun_CleanMatch(t *testing.T) {
	source := newFakeStore("source", "Person", "Order").
		with("Person", seq("p", 25)...).
		with("Order", seq("o", 7)...)
	target := newFakeStore("target", "Person", "Order").
		with("Person", seq("p", 25)...).
		with("Order", seq("o", 7)...)
	reporter := newRecordingReporter()

	summary, err := newTestEngine(source, target, reporter, Config{PageSize: 10, Workers: 2}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeSuccess, summary.Outcome)
	assert.Equal(t, "run-1", summary.RunID)
	assert.Equal(t, 32, summary.TotalSource)
	assert.Equal(t, 32, summary.TotalTarget)
	assert.Zero(t, summary.TotalMissingInTarget)
	assert.Zero(t, summary.TotalExtraInTarget)
	assert.Empty(t, summary.TypesOnlyInSource)
	assert.Empty(t, summary.TypesOnlyInTarget)

	require.Len(t, summary.Types, 2)
	assert.Equal(t, "Person", summary.Types[0].Type)
	assert.Equal(t, "Order", summary.Types[1].Type)
	assert.Equal(t, "mem://Person", summary.Types[0].Location)

	assert.Equal(t, 1, reporter.begun)
	assert.Same(t, summary, reporter.summary)
	assert.Len(t, reporter.reports, 2)
}

func TestRun_MissingInTarget(t *testing.T) {
	source := newFakeStore("source", "Person").with("Person", "a", "b", "c")
	target := newFakeStore("target", "Person").with("Person", "a", "b")
	reporter := newRecordingReporter()

	summary, err := newTestEngine(source, target, reporter, Config{}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeDiscrepancyFound, summary.Outcome)
	assert.Equal(t, 1, summary.TotalMissingInTarget)
	assert.Zero(t, summary.TotalExtraInTarget)

	report := reporter.reports["Person"]
	require.NotNil(t, report)
	assert.Equal(t, []string{"c"}, report.Discrepancy.MissingInTarget)
	assert.Empty(t, report.Discrepancy.ExtraInTarget)
	assert.Equal(t, 3, report.SourceCount)
	assert.Equal(t, 2, report.TargetCount)
}

func TestRun_ExtraInTarget(t *testing.T) {
	source := newFakeStore("source", "Person").with("Person", "a")
	target := newFakeStore("target", "Person").with("Person", "a", "z")
	reporter := newRecordingReporter()

	summary, err := newTestEngine(source, target, reporter, Config{}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeDiscrepancyFound, summary.Outcome)
	assert.Equal(t, 1, summary.TotalExtraInTarget)
	assert.Equal(t, []string{"z"}, reporter.reports["Person"].Discrepancy.ExtraInTarget)
}

func TestRun_TypeOnlyInSource(t *testing.T) {
	source := newFakeStore("source", "Person", "Order").
		with("Person", "a").
		with("Order", "o1", "o2")
	target := newFakeStore("target", "Person").with("Person", "a")
	reporter := newRecordingReporter()

	summary, err := newTestEngine(source, target, reporter, Config{}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Order"}, summary.TypesOnlyInSource)
	assert.Equal(t, OutcomeDiscrepancyFound, summary.Outcome)
	assert.Zero(t, target.requestsFor("Order"), "target is not queried for a type it does not list")

	row, ok := summary.Lookup("Order")
	require.True(t, ok)
	assert.True(t, row.OnlyInSource)
	assert.Equal(t, 2, row.MissingInTarget)
	assert.Zero(t, row.TargetCount)
	assert.False(t, row.Incomplete)
}

func TestRun_RepeatedSourceTypeProcessedOnce(t *testing.T) {
	source := newFakeStore("source", "A", "A", "B").
		with("A", "1", "2", "3").
		with("B", "b")
	target := newFakeStore("target", "A", "B").
		with("A", "1", "2").
		with("B", "b")
	reporter := newRecordingReporter()

	summary, err := newTestEngine(source, target, reporter, Config{Workers: 4}).Run(context.Background())
	require.NoError(t, err)

	// The catalog itself is kept as listed
	assert.Equal(t, []string{"A", "A", "B"}, summary.SourceTypes)

	require.Len(t, summary.Types, 2)
	assert.Equal(t, "A", summary.Types[0].Type)
	assert.Equal(t, "B", summary.Types[1].Type)
	assert.Equal(t, 4, summary.TotalSource)
	assert.Equal(t, 3, summary.TotalTarget)
	assert.Equal(t, 1, summary.TotalMissingInTarget)
	assert.Equal(t, 2, reporter.writes)
	assert.Equal(t, 1, source.requestsFor("A"))
}

func TestRun_TypeOnlyInTargetIsListedNotCompared(t *testing.T) {
	source := newFakeStore("source", "Person").with("Person", "a")
	target := newFakeStore("target", "Person", "Legacy").
		with("Person", "a").
		with("Legacy", "x")
	reporter := newRecordingReporter()

	summary, err := newTestEngine(source, target, reporter, Config{}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Legacy"}, summary.TypesOnlyInTarget)
	assert.Zero(t, target.requestsFor("Legacy"))
	_, ok := summary.Lookup("Legacy")
	assert.False(t, ok)
	assert.Equal(t, OutcomeSuccess, summary.Outcome)
}

func TestRun_EnumerationFailureIsFatal(t *testing.T) {
	tests := []struct {
		name   string
		failOn string
	}{
		{name: "source", failOn: "source"},
		{name: "target", failOn: "target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newFakeStore("source", "Person").with("Person", "a")
			target := newFakeStore("target", "Person").with("Person", "a")
			if tt.failOn == "source" {
				source.typesErr = errors.New("status 500")
			} else {
				target.typesErr = errors.New("status 500")
			}
			reporter := newRecordingReporter()

			summary, err := newTestEngine(source, target, reporter, Config{}).Run(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, store.ErrStoreUnavailable)
			assert.Contains(t, err.Error(), tt.failOn)

			assert.Equal(t, OutcomeFatalError, summary.Outcome)
			assert.Zero(t, source.requestsFor("Person"))
			assert.Zero(t, target.requestsFor("Person"))
			assert.Empty(t, reporter.reports)
			require.NotNil(t, reporter.summary)
			assert.Equal(t, OutcomeFatalError, reporter.summary.Outcome)
		})
	}
}

func TestRun_PartialSnapshotDegradesTypeOnly(t *testing.T) {
	source := newFakeStore("source", "Person", "Order").
		with("Person", seq("p", 30)...).
		with("Order", "o1")
	target := newFakeStore("target", "Person", "Order").
		with("Person", seq("p", 30)...).
		with("Order", "o1")
	target.failAt["Person"] = 10
	reporter := newRecordingReporter()

	summary, err := newTestEngine(source, target, reporter, Config{PageSize: 10}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeDiscrepancyFound, summary.Outcome)
	assert.Equal(t, 1, summary.IncompleteTypes)

	person, _ := summary.Lookup("Person")
	assert.True(t, person.TargetPartial)
	assert.True(t, person.Incomplete)
	assert.Equal(t, 10, person.TargetCount)
	assert.Equal(t, 20, person.MissingInTarget)

	order, _ := summary.Lookup("Order")
	assert.True(t, order.Clean(), "later types are still processed")
}

func TestRun_SafetyBound(t *testing.T) {
	source := newFakeStore("source", "Person").with("Person", seq("p", 50)...)
	target := newFakeStore("target", "Person").with("Person", seq("p", 50)...)
	reporter := newRecordingReporter()

	summary, err := newTestEngine(source, target, reporter, Config{PageSize: 10, MaxPages: 3}).Run(context.Background())
	require.NoError(t, err)

	row, _ := summary.Lookup("Person")
	assert.True(t, row.Truncated)
	assert.Equal(t, 30, row.SourceCount)
	assert.Equal(t, 30, row.TargetCount)
	assert.Equal(t, OutcomeDiscrepancyFound, summary.Outcome, "truncated data is never reported as clean")
	assert.Equal(t, 3, source.requestsFor("Person"))
}

func TestRun_MalformedRecords(t *testing.T) {
	source := newFakeStore("source", "Person").with("Person", "a", "", "b")
	target := newFakeStore("target", "Person").with("Person", "a", "b")
	reporter := newRecordingReporter()

	summary, err := newTestEngine(source, target, reporter, Config{}).Run(context.Background())
	require.NoError(t, err)

	row, _ := summary.Lookup("Person")
	assert.Equal(t, 2, row.SourceCount)
	assert.Equal(t, 1, row.SourceMalformed)
	assert.True(t, row.Incomplete)
	assert.Equal(t, 1, summary.TotalMalformed)
	assert.Equal(t, OutcomeDiscrepancyFound, summary.Outcome)
}

func TestRun_AccountingInvariant(t *testing.T) {
	source := newFakeStore("source", "A", "B", "C").
		with("A", "1", "2", "3", "4").
		with("B", "x", "y").
		with("C", "k")
	target := newFakeStore("target", "A", "B", "C").
		with("A", "2", "3", "5").
		with("B", "x", "y", "z", "w").
		with("C")
	reporter := newRecordingReporter()

	summary, err := newTestEngine(source, target, reporter, Config{PageSize: 2}).Run(context.Background())
	require.NoError(t, err)

	for _, row := range summary.Types {
		assert.Equal(t,
			row.SourceCount-row.MissingInTarget,
			row.TargetCount-row.ExtraInTarget,
			"type %s", row.Type)
	}
	assert.Equal(t,
		summary.TotalSource-summary.TotalMissingInTarget,
		summary.TotalTarget-summary.TotalExtraInTarget)
}

func TestRun_Idempotent(t *testing.T) {
	source := newFakeStore("source", "A", "B").with("A", "1", "2").with("B", "x")
	target := newFakeStore("target", "A", "B").with("A", "1").with("B", "x", "y")
	reporter := newRecordingReporter()
	engine := newTestEngine(source, target, reporter, Config{})

	first, err := engine.Run(context.Background())
	require.NoError(t, err)
	second, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, reporter.begun)
	assert.Len(t, reporter.reports, 2, "reporter output is replaced, not appended")
}

func TestRun_OrderIndependentOfWorkers(t *testing.T) {
	types := make([]string, 40)
	for i := range types {
		types[i] = fmt.Sprintf("T%02d", 39-i)
	}
	source := newFakeStore("source", types...)
	target := newFakeStore("target", types...)
	for i, typ := range types {
		source.with(typ, seq(typ, i+1)...)
		target.with(typ, seq(typ, i)...)
	}

	for _, workers := range []int{1, 8} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			summary, err := newTestEngine(source, target, newRecordingReporter(), Config{PageSize: 4, Workers: workers}).
				Run(context.Background())
			require.NoError(t, err)

			require.Len(t, summary.Types, len(types))
			for i, row := range summary.Types {
				assert.Equal(t, types[i], row.Type)
			}
			assert.Equal(t, len(types), summary.TotalMissingInTarget)
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	source := newFakeStore("source", "A", "B", "C").
		with("A", "1").
		with("B", "1").
		with("C", "1")
	target := newFakeStore("target", "A", "B", "C").
		with("A", "1").
		with("B", "1").
		with("C", "1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	source.onList = func(ctx context.Context, recordType string) error {
		if recordType == "B" {
			cancel()
		}
		return ctx.Err()
	}
	reporter := newRecordingReporter()

	summary, err := newTestEngine(source, target, reporter, Config{Workers: 1}).Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, OutcomeAborted, summary.Outcome)
	assert.Zero(t, source.requestsFor("C"), "no new types start after cancellation")
	require.NotNil(t, reporter.summary, "an aborted run still writes its summary")
	assert.Equal(t, OutcomeAborted, reporter.summary.Outcome)

	row, ok := summary.Lookup("A")
	require.True(t, ok)
	assert.True(t, row.Clean())
}

func TestRun_BeginFailure(t *testing.T) {
	source := newFakeStore("source", "A").with("A", "1")
	target := newFakeStore("target", "A").with("A", "1")
	reporter := newRecordingReporter()
	reporter.beginErr = errors.New("permission denied")

	summary, err := newTestEngine(source, target, reporter, Config{}).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.Equal(t, OutcomeFatalError, summary.Outcome)
	assert.Zero(t, source.requestsFor("A"))
}

func TestRun_TypeWriteFailureIsAbsorbed(t *testing.T) {
	source := newFakeStore("source", "A").with("A", "1")
	target := newFakeStore("target", "A").with("A", "1")
	reporter := newRecordingReporter()
	reporter.typeErr = errors.New("disk full")

	summary, err := newTestEngine(source, target, reporter, Config{}).Run(context.Background())
	require.NoError(t, err)

	row, _ := summary.Lookup("A")
	assert.Equal(t, "disk full", row.ReportError)
	assert.Empty(t, row.Location)
	assert.Equal(t, OutcomeSuccess, summary.Outcome)
}

func TestRun_SummaryWriteFailure(t *testing.T) {
	source := newFakeStore("source", "A").with("A", "1")
	target := newFakeStore("target", "A").with("A", "1")
	reporter := newRecordingReporter()
	reporter.summaryErr = errors.New("bucket gone")

	summary, err := newTestEngine(source, target, reporter, Config{}).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket gone")
	assert.Equal(t, OutcomeSuccess, summary.Outcome)
}

func TestTypeReport_Summary(t *testing.T) {
	source := &Snapshot{Store: "source", Type: "A", IDs: []string{"1", "2"}, Malformed: 1}
	target := &Snapshot{Store: "target", Type: "A", IDs: []string{"2", "3"}, Truncated: true}

	report := NewTypeReport("A", source, target)
	row := report.Summary("out/A", nil)

	assert.Equal(t, []string{"1"}, report.Discrepancy.MissingInTarget)
	assert.Equal(t, []string{"3"}, report.Discrepancy.ExtraInTarget)
	assert.True(t, report.Incomplete())
	assert.False(t, report.Clean())
	assert.Equal(t, TypeSummary{
		Type:            "A",
		SourceCount:     2,
		TargetCount:     2,
		MissingInTarget: 1,
		ExtraInTarget:   1,
		SourceMalformed: 1,
		Truncated:       true,
		Incomplete:      true,
		Location:        "out/A",
	}, row)
}
