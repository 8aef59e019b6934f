package reconcile

import (
	"context"
	"errors"
	"fmt"

	"migration-verifier/core/metrics"
	"migration-verifier/core/store"

	"go.uber.org/zap"
)

const (
	// DefaultPageSize is the number of records requested per page.
	DefaultPageSize = 1000
	// DefaultMaxPages bounds pagination per type; with the default page size
	// a snapshot never exceeds 100,000 records.
	DefaultMaxPages = 100
)

// EnumerateTypes returns the store's record types exactly as the store lists them.
// Any failure is reported as store.ErrStoreUnavailable.
func EnumerateTypes(ctx context.Context, s store.Store) ([]RecordType, error) {
	types, err := s.ListTypes(ctx)
	if err != nil {
		return nil, wrapUnavailable(s.Name(), err)
	}
	return types, nil
}

// Fetcher retrieves complete snapshots through a store's paginated listing.
type Fetcher struct {
	pageSize int
	maxPages int
	logger   *zap.Logger
}

// NewFetcher creates a fetcher. Non-positive sizes fall back to the defaults.
func NewFetcher(pageSize, maxPages int, logger *zap.Logger) *Fetcher {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Fetcher{pageSize: pageSize, maxPages: maxPages, logger: logger}
}

// Fetch pages through recordType on s, starting at offset zero, until a short
// page, a failed page or the page bound.
//
// A failed page (error status, timeout, cancellation) does not fail the call:
// the records accumulated so far are returned with Partial set. Hitting the
// page bound returns the accumulated records with Truncated set.
func (f *Fetcher) Fetch(ctx context.Context, s store.Store, recordType RecordType) *Snapshot {
	snap := &Snapshot{
		Store: s.Name(),
		Type:  recordType,
		IDs:   make([]RecordID, 0),
	}
	seen := make(map[RecordID]struct{})
	log := f.logger.With(zap.String("store", s.Name()), zap.String("type", recordType))

	for snap.Pages < f.maxPages {
		offset := snap.Pages * f.pageSize
		snap.Pages++

		page, err := s.ListRecords(ctx, recordType, f.pageSize, offset)
		metrics.RecordPage(s.Name(), err == nil)
		if err != nil {
			snap.Partial = true
			snap.Error = fmt.Sprintf("page at offset %d: %v", offset, err)
			metrics.RecordIncomplete(s.Name(), "partial")
			log.Warn("Record listing failed, keeping partial snapshot",
				zap.Int("offset", offset),
				zap.Int("collected", len(snap.IDs)),
				zap.Error(err),
			)
			return snap
		}

		for _, id := range page.IDs {
			if _, dup := seen[id]; dup {
				snap.Duplicates++
				continue
			}
			seen[id] = struct{}{}
			snap.IDs = append(snap.IDs, id)
		}
		snap.Malformed += page.Malformed
		metrics.RecordMalformed(s.Name(), page.Malformed)

		if page.Records < f.pageSize {
			log.Debug("Record listing complete",
				zap.Int("pages", snap.Pages),
				zap.Int("records", len(snap.IDs)),
				zap.Int("malformed", snap.Malformed),
			)
			return snap
		}
	}

	snap.Truncated = true
	metrics.RecordIncomplete(s.Name(), "truncated")
	log.Warn("Page limit reached, snapshot is likely an undercount",
		zap.Int("max_pages", f.maxPages),
		zap.Int("page_size", f.pageSize),
		zap.Int("records", len(snap.IDs)),
	)
	return snap
}

func wrapUnavailable(name string, err error) error {
	if errors.Is(err, store.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", store.ErrStoreUnavailable, name, err)
}
