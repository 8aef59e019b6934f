package store

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable is returned when a store cannot answer a request
	// that the run depends on (non-success status, unreachable, undecodable body).
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrUnknownKind is returned by Open for an unsupported store kind.
	ErrUnknownKind = errors.New("unknown store kind")
)

// Page is one page of a record listing.
type Page struct {
	// IDs holds the identifiers of the well-formed records, in listing order.
	IDs []string
	// Malformed counts records on the page that carried no usable identifier.
	Malformed int
	// Records is the number of records the store returned, malformed ones included.
	// Pagination ends when it falls below the requested limit.
	Records int
}

// Store is an entity store exposing a type catalog and a paginated record listing.
// Implementations must be safe for concurrent use.
type Store interface {
	// Name identifies the store in logs and reports (e.g. "source", "target").
	Name() string
	// ListTypes returns the store's record types in the order the store provides them.
	ListTypes(ctx context.Context) ([]string, error)
	// ListRecords returns up to limit records of recordType ordered by identifier,
	// skipping the first offset records.
	ListRecords(ctx context.Context, recordType string, limit, offset int) (*Page, error)
}

// StatusError reports a non-success HTTP status returned by a store.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("GET %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: status %d: %s", e.URL, e.StatusCode, e.Body)
}
