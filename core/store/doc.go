// Package store provides the entity store clients compared by a reconciliation run.
//
// A Store exposes two operations: a type catalog (ListTypes) and a paginated,
// identifier-ordered record listing (ListRecords). Two implementations exist:
//
//   - HTTPStore: GET {base}/types and GET {base}/records?type=T&limit=P&offset=O&orderBy=id
//   - SQLStore: SELECT DISTINCT type / SELECT id ... ORDER BY id LIMIT P OFFSET O over one table
//
// Type catalog failures are wrapped with ErrStoreUnavailable. Record page
// failures are returned as plain errors (a *StatusError for non-2xx HTTP
// responses); the caller decides how a failed page affects the snapshot.
//
// WithRateLimit wraps any Store with a token bucket so concurrent workers
// respect store-side request limits.
package store
