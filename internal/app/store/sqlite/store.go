// Package sqlitestore is the relational backend: users, study_groups and the
// user_studygroup association in a single SQLite file.
package sqlitestore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dalemusser/studyhub/internal/domain/errs"
	"github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store owns the database handle shared by the table stores.
type Store struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at path and applies the schema.
//
// The connection is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// Safe to call on an existing database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection also
	// serializes check-then-act sequences issued from one process.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func dsn(path string) string {
	q := url.Values{}
	q.Set("_journal_mode", "WAL")
	q.Set("_synchronous", "NORMAL")
	q.Set("_busy_timeout", "5000")
	q.Set("_foreign_keys", "on")
	return "file:" + path + "?" + q.Encode()
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// DB returns the underlying handle for tests and diagnostics.
func (s *Store) DB() *sql.DB { return s.db }

// Users returns the identity store.
func (s *Store) Users() *Users { return &Users{db: s.db} }

// Groups returns the study-group store.
func (s *Store) Groups() *Groups { return &Groups{db: s.db} }

// Memberships returns the association store.
func (s *Store) Memberships() *Memberships { return &Memberships{db: s.db} }

/* -------------------------------------------------------------------------- */
/* helpers                                                                    */
/* -------------------------------------------------------------------------- */

// constraint reports the constraint kind and message of a SQLite error.
func constraint(err error) (sqlite3.ErrNoExtended, string, bool) {
	var se sqlite3.Error
	if !errors.As(err, &se) || se.Code != sqlite3.ErrConstraint {
		return 0, "", false
	}
	return se.ExtendedCode, se.Error(), true
}

// isUnique reports whether err is a UNIQUE violation on table.column.
func isUnique(err error, column string) bool {
	code, msg, ok := constraint(err)
	return ok && code == sqlite3.ErrConstraintUnique && strings.Contains(msg, column)
}

func isForeignKey(err error) bool {
	code, _, ok := constraint(err)
	return ok && code == sqlite3.ErrConstraintForeignKey
}

var errDanglingRef = fmt.Errorf("%w: membership references a missing user or group", errs.ErrNotFound)

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// parseID converts a string id. Ids that are not integers cannot match any
// row, so they are reported as ok=false.
func parseID(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	return n, err == nil
}

type scanner interface {
	Scan(dest ...any) error
}
