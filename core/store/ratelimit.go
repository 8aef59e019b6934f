package store

import (
	"context"
	"math"

	"golang.org/x/time/rate"
)

// limitedStore delays every call until the token bucket admits it.
type limitedStore struct {
	Store
	limiter *rate.Limiter
}

// WithRateLimit wraps s so that at most perSecond requests are issued per second.
// A non-positive rate returns s unchanged.
func WithRateLimit(s Store, perSecond float64) Store {
	if perSecond <= 0 {
		return s
	}
	burst := int(math.Ceil(perSecond))
	return &limitedStore{
		Store:   s,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (l *limitedStore) ListTypes(ctx context.Context) ([]string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return l.Store.ListTypes(ctx)
}

func (l *limitedStore) ListRecords(ctx context.Context, recordType string, limit, offset int) (*Page, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return l.Store.ListRecords(ctx, recordType, limit, offset)
}
