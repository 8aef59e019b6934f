package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE records (id TEXT, kind TEXT, payload TEXT)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "records")
	assert.NoError(t, err)
	assert.Len(t, columns, 3)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}
	assert.Equal(t, "text", colMap["id"])
	assert.Equal(t, "text", colMap["kind"])

	// A missing table has no columns
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestMissingColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE records (id TEXT, kind TEXT)").Error)

	missing, err := MissingColumns(db, "records", "id", "KIND")
	assert.NoError(t, err)
	assert.Empty(t, missing)

	missing, err = MissingColumns(db, "records", "id", "entity_type")
	assert.NoError(t, err)
	assert.Equal(t, []string{"entity_type"}, missing)

	missing, err = MissingColumns(db, "absent", "id")
	assert.NoError(t, err)
	assert.Equal(t, []string{"id"}, missing)
}

func TestMissingColumns_QuotedTableName(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE records (id TEXT, kind TEXT)").Error)

	// The name is bound as a value, never spliced into SQL
	missing, err := MissingColumns(db, "records'); DROP TABLE records; --", "id")
	assert.NoError(t, err)
	assert.Equal(t, []string{"id"}, missing)
	assert.True(t, db.Migrator().HasTable("records"))
}
