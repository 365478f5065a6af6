// Package sqlite stores normalized articles in a SQLite database.
//
// Each extraction run owns one row in runs and one row per written document
// in articles. A run is written inside a single transaction, so readers never
// see a partially written run.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	wikidump "github.com/llamasoft/WikiDump"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// memoryPath opens a private in-memory database.
const memoryPath = ":memory:"

// schemaVersion is stored in PRAGMA user_version once the schema exists.
const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	categories TEXT NOT NULL DEFAULT '',
	transclusions TEXT NOT NULL DEFAULT '',
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL DEFAULT '',
	written INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS articles (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	title TEXT NOT NULL,
	content TEXT NOT NULL DEFAULT '',
	content_hash TEXT NOT NULL DEFAULT '',
	UNIQUE (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_articles_title ON articles(title);
`

// DB is a handle to a WikiDump database file.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB returns a DB for path. Nothing is opened until Open.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Path returns the database path.
func (db *DB) Path() string {
	return db.path
}

// pragmas returns the connection settings applied on Open. A run holds one
// long write transaction, so lock waits are generous.
func (db *DB) pragmas() []string {
	p := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	if db.path != memoryPath {
		p = append(p, "PRAGMA journal_mode = WAL", "PRAGMA synchronous = NORMAL")
	}
	return p
}

// Open connects to the database and brings the schema up to date.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", db.path, err)
	}
	// Every connection to ":memory:" would see its own database.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("connect %s: %w", db.path, err)
	}
	for _, pragma := range db.pragmas() {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}

	db.db = conn
	if err := db.migrate(); err != nil {
		conn.Close()
		db.db = nil
		return err
	}
	return nil
}

// Close closes the database. Closing an unopened DB is a no-op.
func (db *DB) Close() error {
	if db.db == nil {
		return nil
	}
	return db.db.Close()
}

func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, opts)
}

// migrate creates the schema on a fresh database and refuses databases
// written by a newer schema.
func (db *DB) migrate() error {
	var version int
	if err := db.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	switch {
	case version == schemaVersion:
		return nil
	case version > schemaVersion:
		return wikidump.Errorf(wikidump.ECONFLICT, "database schema version %d is newer than supported version %d", version, schemaVersion)
	}

	if _, err := db.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := db.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("write schema version: %w", err)
	}
	return nil
}
