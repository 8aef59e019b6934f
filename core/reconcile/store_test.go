package reconcile

import (
	"context"
	"fmt"
	"sync"

	"migration-verifier/core/store"
)

// fakeStore is an in-memory store. An empty identifier in records stands for
// a record without an id.
type fakeStore struct {
	name     string
	types    []string
	typesErr error
	records  map[string][]string
	failAt   map[string]int
	onList   func(ctx context.Context, recordType string) error

	mu       sync.Mutex
	requests map[string]int
}

func newFakeStore(name string, types ...string) *fakeStore {
	return &fakeStore{
		name:     name,
		types:    types,
		records:  make(map[string][]string),
		failAt:   make(map[string]int),
		requests: make(map[string]int),
	}
}

func (s *fakeStore) with(recordType string, ids ...string) *fakeStore {
	s.records[recordType] = ids
	return s
}

func (s *fakeStore) requestsFor(recordType string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[recordType]
}

func (s *fakeStore) Name() string { return s.name }

func (s *fakeStore) ListTypes(ctx context.Context) ([]string, error) {
	if s.typesErr != nil {
		return nil, s.typesErr
	}
	return s.types, nil
}

func (s *fakeStore) ListRecords(ctx context.Context, recordType string, limit, offset int) (*store.Page, error) {
	s.mu.Lock()
	s.requests[recordType]++
	s.mu.Unlock()

	if s.onList != nil {
		if err := s.onList(ctx, recordType); err != nil {
			return nil, err
		}
	}
	if at, ok := s.failAt[recordType]; ok && offset >= at {
		return nil, &store.StatusError{URL: "fake://" + recordType, StatusCode: 503}
	}

	all := s.records[recordType]
	page := &store.Page{IDs: []string{}}
	if offset >= len(all) {
		return page, nil
	}
	end := min(offset+limit, len(all))
	page.Records = end - offset
	for _, id := range all[offset:end] {
		if id == "" {
			page.Malformed++
			continue
		}
		page.IDs = append(page.IDs, id)
	}
	return page, nil
}

// seq returns n identifiers prefix-00000 ... in ascending order.
func seq(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s-%05d", prefix, i)
	}
	return out
}

// recordingReporter keeps everything the engine hands it.
type recordingReporter struct {
	mu         sync.Mutex
	begun      int
	writes     int
	reports    map[string]*TypeReport
	summary    *RunSummary
	beginErr   error
	typeErr    error
	summaryErr error
}

func newRecordingReporter() *recordingReporter {
	return &recordingReporter{reports: make(map[string]*TypeReport)}
}

func (r *recordingReporter) Begin(ctx context.Context, info RunInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.begun++
	r.writes = 0
	r.reports = make(map[string]*TypeReport)
	r.summary = nil
	return r.beginErr
}

func (r *recordingReporter) WriteType(ctx context.Context, report *TypeReport) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if r.typeErr != nil {
		return "", r.typeErr
	}
	r.reports[report.Type] = report
	return "mem://" + report.Type, nil
}

func (r *recordingReporter) WriteSummary(ctx context.Context, summary *RunSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summary = summary
	return r.summaryErr
}
