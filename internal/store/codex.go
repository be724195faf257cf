package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/halvard/vitrine/internal/apperr"
	"github.com/halvard/vitrine/internal/models"
)

type codexFrontmatter struct {
	Title   string   `yaml:"title"`
	Aliases []string `yaml:"aliases"`
}

// CodexDocPath returns the file path for a codex entry slug.
func CodexDocPath(slug string) string {
	return path.Join("codex", slug+".md")
}

// ReadCodexEntry loads one glossary entry by slug.
func (s *Store) ReadCodexEntry(slug string) (*models.CodexEntry, error) {
	docPath := CodexDocPath(slug)
	data, err := s.fs.Read(docPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.NotFoundf("codex entry %s", slug)
		}
		return nil, err
	}
	mod, _ := s.fs.ModTime(docPath)

	var fm codexFrontmatter
	body, err := decodeDoc(data, &fm)
	if err != nil {
		return nil, apperr.Validationf("codex entry %s: %v", slug, err)
	}
	if fm.Title == "" {
		return nil, apperr.Validationf("codex entry %s: missing title", slug)
	}
	return &models.CodexEntry{
		Slug:      slug,
		Title:     fm.Title,
		Aliases:   dedupeTags(fm.Aliases),
		Body:      body,
		UpdatedAt: mod,
	}, nil
}

// WriteCodexEntry persists a glossary entry file. Alias uniqueness across
// the whole glossary is the catalog facade's concern, enforced before the
// write reaches the store.
func (s *Store) WriteCodexEntry(e *models.CodexEntry) error {
	fm := codexFrontmatter{
		Title:   e.Title,
		Aliases: emptyIfNil(e.Aliases),
	}
	doc, err := encodeDoc(fm, e.Body)
	if err != nil {
		return fmt.Errorf("store: codex entry %s: %w", e.Slug, err)
	}
	return s.fs.Write(CodexDocPath(e.Slug), doc)
}

// DeleteCodexEntry removes a glossary entry file.
func (s *Store) DeleteCodexEntry(slug string) error {
	if err := s.fs.Delete(CodexDocPath(slug)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperr.NotFoundf("codex entry %s", slug)
		}
		return err
	}
	return nil
}

// ListCodexEntries re-scans the codex directory, sorted by title.
func (s *Store) ListCodexEntries() ([]models.CodexEntry, error) {
	metas, err := s.fs.List("codex", ".md")
	if err != nil {
		return nil, err
	}
	out := make([]models.CodexEntry, 0, len(metas))
	for _, m := range metas {
		slug := strings.TrimSuffix(path.Base(m.Path), ".md")
		e, err := s.ReadCodexEntry(slug)
		if err != nil {
			s.logger.Warn("store: skipping codex entry",
				slog.String("path", m.Path),
				slog.String("error", err.Error()))
			continue
		}
		out = append(out, *e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
	})
	return out, nil
}

// NewCodexSlug derives a fresh slug for an entry title, unique within the
// codex directory.
func (s *Store) NewCodexSlug(title string) (string, error) {
	base, err := Slugify(title)
	if err != nil {
		return "", err
	}
	return dedupeSlug(base, func(candidate string) bool {
		return s.fs.Exists(CodexDocPath(candidate))
	}), nil
}
