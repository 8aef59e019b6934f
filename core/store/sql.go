package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"migration-verifier/core/database"
	"migration-verifier/core/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLStore serves types and records straight from a relational table.
// Types are the distinct values of the type column; records are paged by the id column.
type SQLStore struct {
	name       string
	db         *gorm.DB
	table      string
	typeColumn string
	idColumn   string
	timeout    time.Duration
}

// NewSQL creates a store reading cfg.Table through db.
func NewSQL(name string, db *gorm.DB, cfg Config) *SQLStore {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	return &SQLStore{
		name:       name,
		db:         db,
		table:      withDefault(cfg.Table, "records"),
		typeColumn: withDefault(cfg.TypeColumn, "type"),
		idColumn:   withDefault(cfg.IDColumn, "id"),
		timeout:    time.Duration(timeout) * time.Second,
	}
}

// Name returns the store's name.
func (s *SQLStore) Name() string {
	return s.name
}

// Validate checks that the configured table exposes the type and id columns.
func (s *SQLStore) Validate() error {
	missing, err := database.MissingColumns(s.db, s.table, s.typeColumn, s.idColumn)
	if err != nil {
		return fmt.Errorf("store %s: %w", s.name, err)
	}
	if len(missing) > 0 {
		return fmt.Errorf("store %s: table %s is missing columns: %s", s.name, s.table, strings.Join(missing, ", "))
	}
	return nil
}

// ListTypes returns the distinct non-null values of the type column in ascending order.
func (s *SQLStore) ListTypes(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var types []string
	err := s.db.WithContext(ctx).
		Table(s.table).
		Where(clause.Expr{SQL: "? IS NOT NULL", Vars: []any{clause.Column{Name: s.typeColumn}}}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: s.typeColumn}}).
		Distinct().
		Pluck(s.typeColumn, &types).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, s.name, err)
	}
	return types, nil
}

// ListRecords returns one page of identifiers for recordType ordered by the id column.
// NULL or empty identifiers are counted as malformed.
func (s *SQLStore) ListRecords(ctx context.Context, recordType string, limit, offset int) (*Page, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.WithContext(ctx).
		Table(s.table).
		Select(s.idColumn).
		Where(map[string]any{s.typeColumn: recordType}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: s.idColumn}}).
		Limit(limit).
		Offset(offset).
		Rows()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	page := &Page{IDs: make([]string, 0, limit)}
	for rows.Next() {
		var value any
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		page.Records++

		id, ok := utils.ToString(value)
		if !ok || id == "" {
			page.Malformed++
			continue
		}
		page.IDs = append(page.IDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", s.table, err)
	}
	return page, nil
}
