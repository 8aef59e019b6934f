package store

import (
	"fmt"

	"migration-verifier/core/database"
)

// Open builds the store described by cfg and applies its rate limit.
// SQL stores are connected and their table layout is validated up front.
func Open(name string, cfg Config) (Store, error) {
	var s Store

	switch cfg.Kind {
	case KindHTTP, "":
		httpStore, err := NewHTTP(name, cfg)
		if err != nil {
			return nil, err
		}
		s = httpStore
	case KindSQL:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("store %s: %w", name, err)
		}
		sqlStore := NewSQL(name, db, cfg)
		if err := sqlStore.Validate(); err != nil {
			return nil, err
		}
		s = sqlStore
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}

	return WithRateLimit(s, cfg.RatePerSecond), nil
}
