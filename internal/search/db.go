// Package search provides the SQLite-backed search index used for the
// storefront search box and admin autocomplete. Like every derived view in
// the system it is non-authoritative: rows are reconciled against the
// content tree by checksum on startup and after watcher events, and the
// whole database can be deleted and rebuilt at any time.
package search

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS items (
	path       TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	category   TEXT NOT NULL DEFAULT '',
	slug       TEXT NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	names      TEXT NOT NULL DEFAULT '',
	image      TEXT NOT NULL DEFAULT '',
	body       TEXT NOT NULL DEFAULT '',
	checksum   TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_items_kind ON items(kind);
`

// DB wraps a sql.DB with search-index operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("search: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("search: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("search: apply schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("search: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
