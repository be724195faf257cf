package store

import (
	"log/slog"
)

// Store provides typed entity access on top of a Provider. It owns the
// on-disk layout:
//
//	products/<category>/<slug>/product.md   front matter + description
//	products/<category>/<slug>/tags.txt     one tag per line
//	products/<category>/<slug>/images/      uploaded files (names only here)
//	categories/<slug>/category.md
//	blog/<slug>.md
//	codex/<slug>.md
//
// A product is a two-file aggregate (product.md + tags.txt); the accessors
// hide that detail so higher layers see one consistent object.
type Store struct {
	fs     Provider
	logger *slog.Logger
}

// New creates a Store over the given provider.
func New(fs Provider, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{fs: fs, logger: logger}
}

// Files exposes the underlying provider for collaborators that work at the
// file level (search sync, image uploads).
func (s *Store) Files() Provider { return s.fs }
