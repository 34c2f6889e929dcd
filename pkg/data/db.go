package data

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	// DataFileName is the default sqlite file name in the app dir.
	DataFileName string = "data.db"

	schemaVersion = 1
	timeFormat    = time.RFC3339Nano
)

// Dialect identifies the SQL flavor of the store.
type Dialect string

const (
	Sqlite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

var (
	//go:embed sql/*
	f embed.FS

	errDBNotInitialized = errors.New("database not initialized")

	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
)

// Store persists scored reports.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// DialectFor returns the dialect implied by target: Postgres for
// postgres:// URLs, sqlite file path otherwise.
func DialectFor(target string) Dialect {
	t := strings.ToLower(target)
	if strings.HasPrefix(t, "postgres://") || strings.HasPrefix(t, "postgresql://") {
		return Postgres
	}
	return Sqlite
}

// Open opens the database at target and makes sure the schema exists.
func Open(ctx context.Context, target string) (*Store, error) {
	if target == "" {
		return nil, errors.New("database path or DSN not specified")
	}

	d := DialectFor(target)
	db, err := sql.Open(string(d), target)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", d, err)
	}
	if d == Sqlite {
		// single writer, avoids SQLITE_BUSY under concurrent scoring
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, dialect: d}
	if err := s.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("connecting to %s database: %w", s.dialect, err)
	}

	b, err := f.ReadFile("sql/" + string(s.dialect) + ".sql")
	if err != nil {
		return fmt.Errorf("reading the schema creation file: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, string(b)); err != nil {
		return fmt.Errorf("creating database schema: %w", err)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if version < schemaVersion {
		q := s.rebind("INSERT INTO schema_version (version, applied_at) VALUES (?, ?)")
		if _, err := s.db.ExecContext(ctx, q, schemaVersion, time.Now().UTC().Format(timeFormat)); err != nil {
			return fmt.Errorf("recording schema version: %w", err)
		}
		slog.Debug("db schema created", "dialect", s.dialect, "version", schemaVersion)
	}
	return nil
}

// Dialect returns the SQL flavor of the store.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// rebind converts ? placeholders to $n for Postgres.
func (s *Store) rebind(q string) string {
	if s.dialect != Postgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) ready() error {
	if s == nil || s.db == nil {
		return errDBNotInitialized
	}
	return nil
}
