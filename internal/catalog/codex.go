package catalog

import (
	"github.com/halvard/vitrine/internal/models"
)

// CodexEntries lists glossary entries sorted by title.
func (s *Service) CodexEntries() ([]models.CodexEntry, error) {
	return s.store.ListCodexEntries()
}

// CodexEntry returns one glossary entry by slug.
func (s *Service) CodexEntry(slug string) (*models.CodexEntry, error) {
	return s.store.ReadCodexEntry(slug)
}

// CodexReferences returns the products and posts whose bodies reference
// the entry via [[Term]] markup.
func (s *Service) CodexReferences(slug string) ([]models.Reference, error) {
	return s.codex.ReferencedBy(slug)
}

// CreateCodexEntry assigns a slug from the title and writes the file.
// The title and every alias must be unique across the whole glossary,
// case-insensitively; a collision rejects the save and leaves the glossary
// unchanged.
func (s *Service) CreateCodexEntry(in CodexInput) (*models.CodexEntry, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	slug, err := s.store.NewCodexSlug(in.Title)
	if err != nil {
		return nil, err
	}
	e := &models.CodexEntry{
		Slug:    slug,
		Title:   in.Title,
		Aliases: in.Aliases,
		Body:    in.Body,
	}
	if err := s.codex.CheckAliases(e); err != nil {
		return nil, err
	}
	if err := s.store.WriteCodexEntry(e); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateCodexEntry rewrites an existing entry; the slug is stable even
// when the title changes, so existing [[Term]] markup keeps resolving
// through the new title and aliases.
func (s *Service) UpdateCodexEntry(slug string, in CodexInput) (*models.CodexEntry, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.store.ReadCodexEntry(slug); err != nil {
		return nil, err
	}
	e := &models.CodexEntry{
		Slug:    slug,
		Title:   in.Title,
		Aliases: in.Aliases,
		Body:    in.Body,
	}
	if err := s.codex.CheckAliases(e); err != nil {
		return nil, err
	}
	if err := s.store.WriteCodexEntry(e); err != nil {
		return nil, err
	}
	return e, nil
}

// DeleteCodexEntry removes a glossary entry. Always allowed: codex entries
// are documentation, not structural data, so existing [[Term]] references
// simply degrade to unresolved plain text and no content is touched.
func (s *Service) DeleteCodexEntry(slug string) error {
	return s.store.DeleteCodexEntry(slug)
}
