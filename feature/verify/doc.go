// Package verify exposes reconciliation runs over HTTP.
//
// Runs are triggered on demand and coalesced: while a run is in progress,
// further triggers join it instead of starting a second run against the same
// report sink. The summary of the latest run is kept in memory only.
//
// # HTTP Endpoints
//
//   - POST /runs : Starts a run (supports ?wait=true to block for the summary).
//   - GET /runs/latest : Returns the latest run summary.
//   - GET /runs/latest/types/:type : Returns one type's row of the latest run.
package verify
