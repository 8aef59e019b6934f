package report

const (
	// SinkLocal writes reports below a local directory.
	SinkLocal = "local"
	// SinkS3 writes reports below a key prefix of an S3 bucket.
	SinkS3 = "s3"
)

// Config holds configuration for the report sink.
type Config struct {
	// Sink selects where reports are written (local, s3).
	Sink string `mapstructure:"sink" default:"local"`
	// Dir is the local report directory. It is cleared at the start of every run.
	Dir string `mapstructure:"dir" default:"./reconcile-logs"`
	// Prefix is the object key prefix used by the s3 sink.
	Prefix string `mapstructure:"prefix" default:"reconcile-logs"`
	// WriteSnapshots controls whether raw identifier snapshots are written for audit.
	WriteSnapshots bool `mapstructure:"write_snapshots" default:"true"`
}
