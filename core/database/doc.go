// Package database handles database connections and schema inspection.
//
// It wraps GORM to open MySQL or SQLite connections from the application's
// configuration. The SQL entity store uses it to read record types and
// identifiers straight out of a table, so a migration can be verified
// against a relational database as well as an HTTP store.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let the SQL store verify, before a run
// starts, that the configured table really has the type and id columns it
// is about to page through.
//
// # Usage
//
//	db, err := database.Connect(cfg.Source.Database)
//	missing, err := database.MissingColumns(db, "records", "type", "id")
package database
