package search

import (
	"fmt"
	"time"
)

// Item kinds indexed for search.
const (
	KindProduct = "product"
	KindPost    = "post"
)

// ItemRow represents one indexed content item.
type ItemRow struct {
	Path      string
	Kind      string
	Category  string // category slug, products only
	Slug      string
	Title     string
	Names     string // localized names joined with newlines
	Image     string // primary thumbnail filename, products only
	Body      string
	Checksum  string
	UpdatedAt time.Time
}

// Result is one search hit.
type Result struct {
	Kind     string `json:"kind"`
	Category string `json:"category,omitempty"`
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Snippet  string `json:"snippet"`
}

// Suggestion is one autocomplete candidate for the storefront search box.
type Suggestion struct {
	Title    string `json:"title"`
	Names    string `json:"names,omitempty"`
	Category string `json:"category"`
	Slug     string `json:"slug"`
	Image    string `json:"image,omitempty"`
}

// Upsert inserts or replaces one item and its FTS entry.
func (db *DB) Upsert(row ItemRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("search: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO items (path, kind, category, slug, title, names, image, body, checksum, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			kind       = excluded.kind,
			category   = excluded.category,
			slug       = excluded.slug,
			title      = excluded.title,
			names      = excluded.names,
			image      = excluded.image,
			body       = excluded.body,
			checksum   = excluded.checksum,
			updated_at = excluded.updated_at
	`, row.Path, row.Kind, row.Category, row.Slug, row.Title, row.Names, row.Image, row.Body, row.Checksum, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("search: upsert item: %w", err)
	}

	if err := ftsUpsert(tx, row); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes one item and its FTS entry.
func (db *DB) Delete(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("search: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	_, _ = tx.Exec(`DELETE FROM items WHERE path = ?`, path)

	return tx.Commit()
}

// AllChecksums returns every indexed path with its stored checksum.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM items`)
	if err != nil {
		return nil, fmt.Errorf("search: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// Autocomplete returns product suggestions matching the query against the
// title or any localized name. Results are unranked beyond title order.
func (db *DB) Autocomplete(query string, limit int) ([]Suggestion, error) {
	if limit <= 0 {
		limit = 10
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT title, names, category, slug, image
		FROM items
		WHERE kind = ? AND (title LIKE ? OR names LIKE ?)
		ORDER BY title COLLATE NOCASE
		LIMIT ?
	`, KindProduct, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("search: autocomplete: %w", err)
	}
	defer rows.Close()

	var out []Suggestion
	for rows.Next() {
		var s Suggestion
		if err := rows.Scan(&s.Title, &s.Names, &s.Category, &s.Slug, &s.Image); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
