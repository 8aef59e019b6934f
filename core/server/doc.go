// Package server holds the HTTP server configuration.
//
// The serve command exposes reconciliation runs over HTTP. This package
// defines the listen port, the API key protecting the endpoints and the
// graceful shutdown bound.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server
// settings and by the serve command to start the Fiber application.
package server
