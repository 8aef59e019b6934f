// Package integrity checks the dependencies a reconciliation run relies on.
//
// Unlike the 'verify' package which runs reconciliations, this package only
// confirms that a run could start: both entity stores answer their type
// catalog request and, when reports go to object storage, the bucket exists.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks (503 when any fails).
//   - GET /integrity/stores : Probes the source and target stores.
//   - GET /integrity/sink : Checks the report bucket (skipped for local sinks).
package integrity
