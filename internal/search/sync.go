package search

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/halvard/vitrine/internal/models"
	"github.com/halvard/vitrine/internal/store"
)

// Sync reconciles the index against the content tree. Rows whose checksum
// matches the current entity are left alone, changed or new entities are
// upserted, and rows for files that no longer exist are deleted.
func Sync(db *DB, st *store.Store, logger *slog.Logger) error {
	existing, err := db.AllChecksums()
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(existing))

	products, err := st.ListProducts("")
	if err != nil {
		return fmt.Errorf("search: list products: %w", err)
	}
	for _, p := range products {
		row := productRow(p)
		seen[row.Path] = true
		if existing[row.Path] == row.Checksum {
			continue
		}
		if err := db.Upsert(row); err != nil {
			logger.Warn("search sync: upsert failed", "path", row.Path, "error", err)
		}
	}

	posts, err := st.ListPosts()
	if err != nil {
		return fmt.Errorf("search: list posts: %w", err)
	}
	for _, p := range posts {
		row := postRow(p)
		seen[row.Path] = true
		if existing[row.Path] == row.Checksum {
			continue
		}
		if err := db.Upsert(row); err != nil {
			logger.Warn("search sync: upsert failed", "path", row.Path, "error", err)
		}
	}

	for path := range existing {
		if seen[path] {
			continue
		}
		if err := db.Delete(path); err != nil {
			logger.Warn("search sync: delete failed", "path", path, "error", err)
		}
	}
	return nil
}

func productRow(p models.Product) ItemRow {
	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0]
	}
	names := joinNames(p.Names)
	return ItemRow{
		Path:      store.ProductDocPath(p.CategorySlug, p.Slug),
		Kind:      KindProduct,
		Category:  p.CategorySlug,
		Slug:      p.Slug,
		Title:     p.Title,
		Names:     names,
		Image:     image,
		Body:      p.Body,
		Checksum:  digest(p.Title, names, p.CategorySlug, image, p.Body),
		UpdatedAt: p.UpdatedAt,
	}
}

func postRow(p models.BlogPost) ItemRow {
	return ItemRow{
		Path:      store.PostDocPath(p.Slug),
		Kind:      KindPost,
		Slug:      p.Slug,
		Title:     p.Title,
		Body:      p.Body,
		Checksum:  digest(p.Title, "", "", "", p.Body),
		UpdatedAt: p.UpdatedAt,
	}
}

// joinNames flattens a localized-name map into a stable newline-joined
// string suitable for LIKE and FTS matching.
func joinNames(names map[string]string) string {
	if len(names) == 0 {
		return ""
	}
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	vals := make([]string, 0, len(keys))
	for _, k := range keys {
		vals = append(vals, names[k])
	}
	return strings.Join(vals, "\n")
}

func digest(fields ...string) string {
	h := sha256.New()
	for _, f := range fields {
		io.WriteString(h, f)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
