package integrity

import (
	"context"

	"migration-verifier/core/storage"
	"migration-verifier/core/store"
	"migration-verifier/feature/integrity/checks"

	"go.uber.org/zap"
)

// Service handles dependency checks.
type Service struct {
	stores []store.Store
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewService creates a new integrity service. client may be nil when reports
// are written to the local filesystem.
func NewService(stores []store.Store, client storage.Client, bucket string, logger *zap.Logger) *Service {
	return &Service{
		stores: stores,
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// CheckStores probes every configured store.
func (s *Service) CheckStores(ctx context.Context) []checks.StoreReport {
	reports := make([]checks.StoreReport, 0, len(s.stores))
	for _, st := range s.stores {
		r := checks.CheckStore(ctx, st)
		if !r.OK() {
			s.logger.Warn("Store check failed", zap.String("store", r.Store), zap.String("error", r.Error))
		}
		reports = append(reports, r)
	}
	return reports
}

// CheckSink verifies the report bucket. It returns false when no bucket is used.
func (s *Service) CheckSink(ctx context.Context) (bool, error) {
	if s.client == nil {
		return false, nil
	}
	return true, checks.CheckBucket(ctx, s.client, s.bucket)
}
