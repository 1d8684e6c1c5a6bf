// Package store owns the read-only SQLite connection to an extracted WWDC
// database. It is the only package that imports the sqlite3 driver and
// exposes no write path at runtime.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/smith-tools/sosumi/internal/logging"
)

// DefaultWorkRoot is where extraction working directories live when the
// caller does not supply one: $HOME/.sosumi/work.
func DefaultWorkRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".sosumi", "work")
}

// OpenError wraps a failure to open or ping the extracted SQLite file.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("database open failed for %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// DB owns the SQLite connection for the process lifetime. The connection is
// opened read-only with foreign keys enabled; all access goes through db.mu
// so statement preparation never races even though SQLite itself already
// serializes writers (there are none here — reads only).
type DB struct {
	conn   *sql.DB
	mu     sync.RWMutex
	path   string
	closed bool
}

// Open opens the SQLite file at path read-only, with foreign-key
// enforcement and a busy timeout so concurrent readers never see
// SQLITE_BUSY under normal load.
func Open(path string) (*DB, error) {
	defer logging.Since(logging.CategoryStore, "Open", time.Now())

	logging.Get(logging.CategoryStore).Info("opening database at %s", path)

	dsn := fmt.Sprintf("file:%s?mode=ro&_foreign_keys=on", path)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("failed to open database at %s: %v", path, err)
		return nil, &OpenError{Path: path, Err: err}
	}

	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.Get(logging.CategoryStore).Warn("failed to set busy_timeout: %v", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		logging.Get(logging.CategoryStore).Error("failed to ping database at %s: %v", path, err)
		return nil, &OpenError{Path: path, Err: err}
	}

	logging.Get(logging.CategoryStore).Info("database opened read-only at %s", path)
	return &DB{conn: conn, path: path}, nil
}

// Close releases the underlying connection. Safe to call more than once.
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	logging.Get(logging.CategoryStore).Info("closing database at %s", d.path)
	return d.conn.Close()
}

// Query runs a read query, synchronized against concurrent callers. The
// caller owns the returned *sql.Rows and must Close it.
func (d *DB) Query(query string) (*sql.Rows, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return nil, fmt.Errorf("database is closed")
	}
	return d.conn.Query(query)
}

// QueryRow runs a read query expected to return at most one row.
func (d *DB) QueryRow(query string) *sql.Row {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.conn.QueryRow(query)
}

// Path returns the filesystem path the handle was opened from.
func (d *DB) Path() string {
	return d.path
}
