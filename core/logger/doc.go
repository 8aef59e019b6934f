// Package logger provides a structured logging facility based on Zap.
//
// The verifier logs every run milestone (type enumeration, per-type fetch,
// diff results, sink writes) through a single *zap.Logger built here.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json (machine consumption) or console (terminal use)
//
// # Request correlation
//
// When the verifier runs as an HTTP service, WithRayID attaches the request's
// RayID to the logger so every line emitted for one request can be correlated.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	log.Info("Run started", zap.String("run_id", id))
package logger
