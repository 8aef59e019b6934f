package report

import (
	"context"
	"errors"
	"fmt"

	"migration-verifier/core/storage"
)

// ErrUnknownSink is returned by NewSink for an unsupported sink name.
var ErrUnknownSink = errors.New("unknown report sink")

// Sink is a hierarchical store holding the output of the latest run only.
// Names are slash separated and relative to the sink root.
type Sink interface {
	// Reset removes everything below the sink root.
	Reset(ctx context.Context) error
	// Write stores data under name, replacing any previous content.
	Write(ctx context.Context, name string, data []byte) error
	// Location returns a human readable address for name.
	Location(name string) string
}

// NewSink builds the sink selected by cfg. The storage configuration is only
// used by the s3 sink.
func NewSink(cfg Config, storageCfg storage.Config) (Sink, error) {
	switch cfg.Sink {
	case SinkLocal, "":
		return NewLocalSink(cfg.Dir)
	case SinkS3:
		client, err := storage.NewClient(storageCfg)
		if err != nil {
			return nil, err
		}
		sink, err := NewS3Sink(client, storageCfg.Bucket, cfg.Prefix)
		if err != nil {
			return nil, err
		}
		sink.region = storageCfg.Region
		return sink, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSink, cfg.Sink)
	}
}
