package data

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(context.Background(), dbPath)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
	assert.Equal(t, Sqlite, s.Dialect())
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)
}

func TestOpen_RecordsSchemaVersion(t *testing.T) {
	s := setupTestStore(t)

	var version int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, version)
}

func TestOpen_Idempotent(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(ctx, dbPath)
	require.NoError(t, err)
	defer s2.Close()

	var rows int
	require.NoError(t, s2.db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestDialectFor(t *testing.T) {
	assert.Equal(t, Postgres, DialectFor("postgres://u:p@localhost/db"))
	assert.Equal(t, Postgres, DialectFor("PostgreSQL://localhost/db"))
	assert.Equal(t, Sqlite, DialectFor("/tmp/data.db"))
}

func TestRebind(t *testing.T) {
	pg := &Store{dialect: Postgres}
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", pg.rebind("SELECT * FROM t WHERE a = ? AND b = ?"))

	lite := &Store{dialect: Sqlite}
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))
}

func TestNilStore(t *testing.T) {
	var s *Store
	ctx := context.Background()

	assert.NoError(t, s.Close())
	_, err := s.GetReport(ctx, 1)
	assert.ErrorIs(t, err, errDBNotInitialized)
	_, err = s.ListReports(ctx, "", 0)
	assert.ErrorIs(t, err, errDBNotInitialized)
	_, err = s.GetStats(ctx)
	assert.ErrorIs(t, err, errDBNotInitialized)
	_, err = s.DeleteReports(ctx)
	assert.ErrorIs(t, err, errDBNotInitialized)
	_, err = s.SaveReport(ctx, "x", "y", nil)
	assert.ErrorIs(t, err, errDBNotInitialized)
}
