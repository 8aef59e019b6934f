package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"migration-verifier/core/logger"
	"migration-verifier/core/reconcile"
	"migration-verifier/core/report"
	"migration-verifier/core/server"
	"migration-verifier/core/storage"
	"migration-verifier/core/store"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Source is the store the migration read from.
	Source store.Config `mapstructure:"source"`
	// Target is the store the migration wrote to.
	Target store.Config `mapstructure:"target"`
	// Reconcile holds pagination and parallelism settings of a run.
	Reconcile reconcile.Config `mapstructure:"reconcile"`
	// Report selects and configures the report sink.
	Report report.Config `mapstructure:"report"`
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage used by the s3 sink.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
}

// LoadConfig loads configuration from config.yaml, the .env file and
// environment variables found in path, in increasing order of precedence.
func LoadConfig(path string) (*Config, error) {
	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(filepath.Join(path, ".env"))

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	configFile := filepath.Join(path, "config.yaml")
	if _, err := os.Stat(configFile); err == nil {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", configFile, err)
		}
	}

	// Map environment variables to nested keys (e.g. SOURCE_BASE_URL -> source.base_url)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	return &config, nil
}

// Validate checks the settings a reconciliation run depends on.
func (c *Config) Validate() error {
	var errs []error
	for name, s := range map[string]store.Config{"source": c.Source, "target": c.Target} {
		switch s.Kind {
		case store.KindHTTP, "":
			if s.BaseURL == "" {
				errs = append(errs, fmt.Errorf("%s.base_url is required", name))
			}
		case store.KindSQL:
			if s.Table == "" || s.TypeColumn == "" || s.IDColumn == "" {
				errs = append(errs, fmt.Errorf("%s.table, %s.type_column and %s.id_column are required", name, name, name))
			}
		default:
			errs = append(errs, fmt.Errorf("%s.kind: %w: %q", name, store.ErrUnknownKind, s.Kind))
		}
	}
	if c.Reconcile.PageSize < 0 || c.Reconcile.MaxPages < 0 || c.Reconcile.Workers < 0 {
		errs = append(errs, errors.New("reconcile.page_size, reconcile.max_pages and reconcile.workers must not be negative"))
	}
	switch c.Report.Sink {
	case report.SinkLocal, "":
	case report.SinkS3:
		if err := c.Storage.Validate(); err != nil {
			errs = append(errs, err)
		}
	default:
		errs = append(errs, fmt.Errorf("report.sink: %w: %q", report.ErrUnknownSink, c.Report.Sink))
	}
	return errors.Join(errs...)
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
