package store

import "migration-verifier/core/database"

const (
	// KindHTTP selects the HTTP entity store client.
	KindHTTP = "http"
	// KindSQL selects the relational table store.
	KindSQL = "sql"
)

// Config describes how to reach one entity store.
type Config struct {
	// Kind is the store implementation (http, sql).
	Kind string `mapstructure:"kind" default:"http"`
	// BaseURL is the root URL of an HTTP store.
	BaseURL string `mapstructure:"base_url" default:""`
	// TypesPath is the path of the type catalog endpoint.
	TypesPath string `mapstructure:"types_path" default:"/types"`
	// RecordsPath is the path of the record listing endpoint.
	RecordsPath string `mapstructure:"records_path" default:"/records"`
	// TypesField is the JSON field holding the type list in the catalog response.
	TypesField string `mapstructure:"types_field" default:"types"`
	// IDField is the JSON field holding a record's identifier.
	IDField string `mapstructure:"id_field" default:"id"`
	// TimeoutSeconds bounds each individual request (one page or the type catalog).
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// RatePerSecond caps requests issued to the store; zero disables the limit.
	RatePerSecond float64 `mapstructure:"rate_per_second" default:"0"`

	// Table is the table read by an SQL store.
	Table string `mapstructure:"table" default:"records"`
	// TypeColumn is the column holding the record type.
	TypeColumn string `mapstructure:"type_column" default:"type"`
	// IDColumn is the column holding the record identifier.
	IDColumn string `mapstructure:"id_column" default:"id"`
	// Database is the connection used by an SQL store.
	Database database.Config `mapstructure:"database"`
}
