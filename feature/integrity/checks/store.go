package checks

import (
	"context"
	"time"

	"migration-verifier/core/reconcile"
	"migration-verifier/core/store"
)

// StoreReport is the result of probing one entity store.
type StoreReport struct {
	Store   string `json:"store"`
	Status  string `json:"status"`
	Types   int    `json:"types"`
	Latency string `json:"latency"`
	Error   string `json:"error,omitempty"`
}

// OK reports whether the store answered.
func (r StoreReport) OK() bool {
	return r.Status == StatusOK
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// CheckStore lists the store's type catalog, the one request a run cannot do without.
func CheckStore(ctx context.Context, s store.Store) StoreReport {
	start := time.Now()
	types, err := reconcile.EnumerateTypes(ctx, s)
	report := StoreReport{
		Store:   s.Name(),
		Status:  StatusOK,
		Types:   len(types),
		Latency: time.Since(start).String(),
	}
	if err != nil {
		report.Status = StatusError
		report.Error = err.Error()
	}
	return report
}
