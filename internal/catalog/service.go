// Package catalog is the public read/write contract over the content tree.
// It composes the entity store, slug index, tag graph, and codex resolver
// into CRUD operations and integrity-preserving cascades. There are no real
// transactions underneath: multi-file cascades are best-effort, report
// partial failures explicitly, and rely on rebuildable indexes plus disk as
// the single source of truth to stay consistent.
package catalog

import (
	"log/slog"

	"github.com/halvard/vitrine/internal/codex"
	"github.com/halvard/vitrine/internal/index"
	"github.com/halvard/vitrine/internal/store"
	"github.com/halvard/vitrine/internal/tags"
)

// Service is the catalog facade.
type Service struct {
	store  *store.Store
	tags   *tags.Graph
	codex  *codex.Resolver
	logger *slog.Logger
}

// New creates the facade over one store.
func New(st *store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  st,
		tags:   tags.New(st, logger),
		codex:  codex.NewResolver(st, logger),
		logger: logger,
	}
}

// Store exposes the underlying entity store.
func (s *Service) Store() *store.Store { return s.store }

// Tags exposes the tag graph.
func (s *Service) Tags() *tags.Graph { return s.tags }

// Codex exposes the codex resolver.
func (s *Service) Codex() *codex.Resolver { return s.codex }

// Snapshot builds a fresh slug index. Called before every write cascade and
// by read paths that need cross-entity resolution; a single request may
// reuse one build, but nothing longer-lived than that.
func (s *Service) Snapshot() (*index.Snapshot, error) {
	return index.Build(s.store, s.logger)
}

// Annotate resolves [[Term]] markup in body against the current glossary.
func (s *Service) Annotate(body string) (string, error) {
	gl, err := s.codex.Glossary()
	if err != nil {
		return "", err
	}
	return gl.Annotate(body), nil
}
