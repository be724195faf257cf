package codex

import (
	"log/slog"

	"github.com/halvard/vitrine/internal/apperr"
	"github.com/halvard/vitrine/internal/models"
	"github.com/halvard/vitrine/internal/store"
)

// Resolver builds glossaries from the store and reverse-indexes which
// products and posts reference which entry. Both views are derived and
// rebuilt from a fresh scan on every call.
type Resolver struct {
	store  *store.Store
	logger *slog.Logger
}

// NewResolver creates a resolver over the given store.
func NewResolver(st *store.Store, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: st, logger: logger}
}

// Glossary scans the codex directory and builds the term map.
func (r *Resolver) Glossary() (*Glossary, error) {
	entries, err := r.store.ListCodexEntries()
	if err != nil {
		return nil, err
	}
	return BuildGlossary(entries)
}

// ReferencedBy scans every product and blog post body for [[Term]] markup
// resolving to the given entry slug. Used to show "used in N products" in
// the glossary editor.
func (r *Resolver) ReferencedBy(slug string) ([]models.Reference, error) {
	gl, err := r.Glossary()
	if err != nil {
		return nil, err
	}

	var refs []models.Reference
	products, err := r.store.ListProducts("")
	if err != nil {
		return nil, err
	}
	for i := range products {
		p := &products[i]
		if bodyReferences(gl, p.Body, slug) {
			refs = append(refs, models.Reference{
				Kind:         "product",
				CategorySlug: p.CategorySlug,
				Slug:         p.Slug,
				Title:        p.Title,
			})
		}
	}

	posts, err := r.store.ListPosts()
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if bodyReferences(gl, posts[i].Body, slug) {
			refs = append(refs, models.Reference{
				Kind:  "post",
				Slug:  posts[i].Slug,
				Title: posts[i].Title,
			})
		}
	}
	return refs, nil
}

// CheckAliases verifies that candidate's title and aliases collide with no
// other entry, case-insensitively. Enforced at save time so an editor can
// never silently create an unreachable duplicate; the glossary build check
// alone would only catch it after the fact.
func (r *Resolver) CheckAliases(candidate *models.CodexEntry) error {
	entries, err := r.store.ListCodexEntries()
	if err != nil {
		return err
	}
	claimed := make(map[string]string) // normalized term → owning slug
	for _, e := range entries {
		if e.Slug == candidate.Slug {
			continue
		}
		for _, term := range append([]string{e.Title}, e.Aliases...) {
			if key := Normalize(term); key != "" {
				claimed[key] = e.Slug
			}
		}
	}
	for _, term := range append([]string{candidate.Title}, candidate.Aliases...) {
		key := Normalize(term)
		if key == "" {
			return apperr.Validationf("codex entry %s: empty alias", candidate.Slug)
		}
		if owner, dup := claimed[key]; dup {
			return apperr.Validationf("term %q already belongs to entry %s", term, owner)
		}
	}
	return nil
}

func bodyReferences(gl *Glossary, body, slug string) bool {
	for _, term := range ExtractTerms(body) {
		if e, ok := gl.Resolve(term); ok && e.Slug == slug {
			return true
		}
	}
	return false
}
