package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"migration-verifier/core/storage"

	"github.com/minio/minio-go/v7"
)

// S3Sink writes reports below a key prefix of an object storage bucket.
type S3Sink struct {
	client storage.Client
	bucket string
	prefix string
	region string
}

// NewS3Sink creates a sink writing to bucket under prefix. An empty prefix is
// refused since Reset deletes every object below it.
func NewS3Sink(client storage.Client, bucket, prefix string) (*S3Sink, error) {
	prefix = strings.Trim(prefix, "/")
	if bucket == "" {
		return nil, errors.New("s3 report sink requires a bucket")
	}
	if prefix == "" {
		return nil, errors.New("s3 report sink requires a non-empty prefix")
	}
	return &S3Sink{client: client, bucket: bucket, prefix: prefix}, nil
}

// Reset creates the bucket when missing and removes every object under the prefix.
func (s *S3Sink) Reset(ctx context.Context) error {
	created, err := storage.EnsureBucket(ctx, s.client, s.bucket, s.region)
	if err != nil || created {
		return err
	}
	if _, err := storage.RemovePrefix(ctx, s.client, s.bucket, s.prefix+"/"); err != nil {
		return fmt.Errorf("failed to clear previous reports: %w", err)
	}
	return nil
}

// Write uploads data as the object prefix/name.
func (s *S3Sink) Write(ctx context.Context, name string, data []byte) error {
	key := s.key(name)
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType(name),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// Location returns the s3:// URI of name.
func (s *S3Sink) Location(name string) string {
	return "s3://" + s.bucket + "/" + s.key(name)
}

func (s *S3Sink) key(name string) string {
	return path.Join(s.prefix, name)
}

func contentType(name string) string {
	if path.Ext(name) == ".json" {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}
