package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordPage(t *testing.T) {
	before := testutil.ToFloat64(pagesFetched.WithLabelValues("metrics-test", "error"))
	RecordPage("metrics-test", false)
	RecordPage("metrics-test", true)
	assert.Equal(t, before+1, testutil.ToFloat64(pagesFetched.WithLabelValues("metrics-test", "error")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(pagesFetched.WithLabelValues("metrics-test", "ok")), 1.0)
}

func TestRecordMalformed_IgnoresZero(t *testing.T) {
	series := testutil.CollectAndCount(malformedRecords)
	RecordMalformed("metrics-zero", 0)
	assert.Equal(t, series, testutil.CollectAndCount(malformedRecords))

	RecordMalformed("metrics-some", 3)
	assert.Equal(t, 3.0, testutil.ToFloat64(malformedRecords.WithLabelValues("metrics-some")))
}

func TestRecordDiscrepanciesAndRun(t *testing.T) {
	missing := testutil.ToFloat64(discrepancies.WithLabelValues("missing_in_target"))
	extra := testutil.ToFloat64(discrepancies.WithLabelValues("extra_in_target"))

	RecordDiscrepancies(2, 5)
	assert.Equal(t, missing+2, testutil.ToFloat64(discrepancies.WithLabelValues("missing_in_target")))
	assert.Equal(t, extra+5, testutil.ToFloat64(discrepancies.WithLabelValues("extra_in_target")))

	runsBefore := testutil.ToFloat64(runs.WithLabelValues("success"))
	RecordRun("success", 1500*time.Millisecond)
	assert.Equal(t, runsBefore+1, testutil.ToFloat64(runs.WithLabelValues("success")))
}

func TestRegister_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}
