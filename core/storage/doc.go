// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so reconciliation reports can be published to
// AWS S3 or a self-hosted MinIO bucket instead of the local filesystem.
//
// # Client Interface
//
// The Client interface covers only what the S3 report sink needs, which keeps
// it easy to mock in unit tests (see core/storage/mocks).
//
//   - BucketExists / MakeBucket: make sure the report bucket is there.
//   - ListObjects / RemoveObjects: clear the previous run's reports.
//   - PutObject: upload one report file.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
