package config

import (
	"os"
	"path/filepath"
	"testing"

	"migration-verifier/core/report"
	"migration-verifier/core/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, store.KindHTTP, cfg.Source.Kind)
	assert.Equal(t, "/types", cfg.Source.TypesPath)
	assert.Equal(t, "/records", cfg.Target.RecordsPath)
	assert.Equal(t, "id", cfg.Target.IDField)
	assert.Equal(t, 30, cfg.Source.TimeoutSeconds)
	assert.Equal(t, "mysql", cfg.Source.Database.Driver)
	assert.Equal(t, 1000, cfg.Reconcile.PageSize)
	assert.Equal(t, 100, cfg.Reconcile.MaxPages)
	assert.Equal(t, 4, cfg.Reconcile.Workers)
	assert.Equal(t, report.SinkLocal, cfg.Report.Sink)
	assert.Equal(t, "./reconcile-logs", cfg.Report.Dir)
	assert.True(t, cfg.Report.WriteSnapshots)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("SOURCE_BASE_URL", "http://old:8080")
	t.Setenv("TARGET_BASE_URL", "http://new:8080")
	t.Setenv("RECONCILE_WORKERS", "8")
	t.Setenv("SOURCE_RATE_PER_SECOND", "2.5")
	t.Setenv("TARGET_DATABASE_HOST", "db.internal")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "http://old:8080", cfg.Source.BaseURL)
	assert.Equal(t, "http://new:8080", cfg.Target.BaseURL)
	assert.Equal(t, 8, cfg.Reconcile.Workers)
	assert.Equal(t, 2.5, cfg.Source.RatePerSecond)
	assert.Equal(t, "db.internal", cfg.Target.Database.Host)
}

func TestLoadConfig_FilesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	yaml := "source:\n  base_url: http://from-yaml\nreconcile:\n  page_size: 50\nreport:\n  sink: s3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RECONCILE_PAGE_SIZE=75\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("RECONCILE_PAGE_SIZE") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://from-yaml", cfg.Source.BaseURL)
	assert.Equal(t, 75, cfg.Reconcile.PageSize, "environment overrides config.yaml")
	assert.Equal(t, report.SinkS3, cfg.Report.Sink)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("source: [unclosed"), 0o644))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Source: store.Config{Kind: store.KindHTTP, BaseURL: "http://a"},
			Target: store.Config{Kind: store.KindSQL, Table: "records", TypeColumn: "type", IDColumn: "id"},
			Report: report.Config{Sink: report.SinkLocal},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing base url", mutate: func(c *Config) { c.Source.BaseURL = "" }, wantErr: "source.base_url"},
		{name: "unknown kind", mutate: func(c *Config) { c.Target.Kind = "grpc" }, wantErr: "target.kind"},
		{name: "sql without table", mutate: func(c *Config) { c.Target.Table = "" }, wantErr: "target.table"},
		{name: "negative workers", mutate: func(c *Config) { c.Reconcile.Workers = -1 }, wantErr: "must not be negative"},
		{name: "unknown sink", mutate: func(c *Config) { c.Report.Sink = "ftp" }, wantErr: "report.sink"},
		{name: "s3 without bucket", mutate: func(c *Config) { c.Report.Sink = report.SinkS3 }, wantErr: "storage.bucket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
