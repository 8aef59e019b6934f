// Package config provides configuration management for the migration verifier.
//
// It utilizes Viper for loading configuration from an optional config.yaml,
// a .env file and environment variables. Defaults come from the `default`
// struct tags of each section and are registered by reflection.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Source, Target: how to reach each entity store (http or sql)
//   - Reconcile: page size, page bound and worker count
//   - Report: report sink selection (local directory or S3 prefix)
//   - Server: HTTP server settings (port, API key)
//   - Storage: S3/MinIO credentials and bucket for the s3 sink
//   - Log: Logging level and format
//
// Nested keys map to environment variables by replacing dots with
// underscores, e.g. SOURCE_BASE_URL sets source.base_url.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Source.BaseURL)
package config
