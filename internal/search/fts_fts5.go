//go:build sqlite_fts5

package search

import (
	"database/sql"
	"fmt"
)

const ftsSchemaSQL = `
CREATE VIRTUAL TABLE IF NOT EXISTS items_fts USING fts5(
	path UNINDEXED,
	title,
	names,
	body,
	tokenize = 'unicode61'
);
`

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(ftsSchemaSQL)
	return err
}

func ftsUpsert(tx *sql.Tx, row ItemRow) error {
	if _, err := tx.Exec(`DELETE FROM items_fts WHERE path = ?`, row.Path); err != nil {
		return fmt.Errorf("search: fts delete: %w", err)
	}
	_, err := tx.Exec(`
		INSERT INTO items_fts (path, title, names, body)
		VALUES (?, ?, ?, ?)
	`, row.Path, row.Title, row.Names, row.Body)
	if err != nil {
		return fmt.Errorf("search: fts insert: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, path string) {
	_, _ = tx.Exec(`DELETE FROM items_fts WHERE path = ?`, path)
}

// Search performs a full-text search using the FTS5 index with snippets.
func (db *DB) Search(query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT i.kind, i.category, i.slug, i.title,
		       snippet(items_fts, 3, '', '', '...', 24)
		FROM items_fts f
		JOIN items i ON i.path = f.path
		WHERE items_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search: fts query: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.Kind, &r.Category, &r.Slug, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
