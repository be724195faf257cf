// Package index provides the in-memory slug index: a derived, rebuildable
// view over the entity store mapping identities to entities and category
// names to their member products. The index never persists anything and is
// never trusted across mutations; callers rebuild it before every write
// cascade and after every structural change. Disk stays the source of truth.
package index

import (
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/halvard/vitrine/internal/apperr"
	"github.com/halvard/vitrine/internal/models"
	"github.com/halvard/vitrine/internal/store"
)

// Snapshot is one consistent build of the slug index. A Snapshot is
// immutable after Build returns; concurrent readers need no locking.
type Snapshot struct {
	products    map[string]*models.Product  // "catSlug/slug"
	byCatName   map[string][]*models.Product // category display name
	categories  map[string]*models.Category // by slug
	byName      map[string]*models.Category // by display name, collisions resolved
	posts       map[string]*models.BlogPost
	codex       map[string]*models.CodexEntry
	tagMembers  map[string][]models.ProductRef
	catsOrdered []models.Category // includes ad-hoc entries, sorted
}

// Build performs one full scan of the store. O(total entities); queries on
// the returned snapshot are O(1) amortized.
//
// Two categories resolving to the same display name is tolerated: the most
// recently modified file wins and the loser is reported as a warning, never
// a fatal error. A product whose category name matches no category file is
// surfaced as an ad-hoc category flagged AdHoc.
func Build(st *store.Store, logger *slog.Logger) (*Snapshot, error) {
	if logger == nil {
		logger = slog.Default()
	}
	snap := &Snapshot{
		products:   make(map[string]*models.Product),
		byCatName:  make(map[string][]*models.Product),
		categories: make(map[string]*models.Category),
		byName:     make(map[string]*models.Category),
		posts:      make(map[string]*models.BlogPost),
		codex:      make(map[string]*models.CodexEntry),
		tagMembers: make(map[string][]models.ProductRef),
	}

	cats, err := st.ListCategories()
	if err != nil {
		return nil, err
	}
	for i := range cats {
		c := &cats[i]
		snap.categories[c.Slug] = c
		if prev, dup := snap.byName[c.Name]; dup {
			// Duplicate display names: newest file wins.
			if c.UpdatedAt.After(prev.UpdatedAt) {
				snap.byName[c.Name] = c
				logger.Warn("index: duplicate category name",
					slog.String("name", c.Name),
					slog.String("winner", c.Slug),
					slog.String("loser", prev.Slug))
			} else {
				logger.Warn("index: duplicate category name",
					slog.String("name", c.Name),
					slog.String("winner", prev.Slug),
					slog.String("loser", c.Slug))
			}
			continue
		}
		snap.byName[c.Name] = c
	}

	products, err := st.ListProducts("")
	if err != nil {
		return nil, err
	}
	adHoc := make(map[string]*models.Category)
	for i := range products {
		p := &products[i]
		snap.products[p.Ref().String()] = p
		snap.byCatName[p.Category] = append(snap.byCatName[p.Category], p)
		for _, t := range p.Tags {
			snap.tagMembers[t] = append(snap.tagMembers[t], p.Ref())
		}
		if p.Category != "" {
			if _, known := snap.byName[p.Category]; !known {
				if _, seen := adHoc[p.Category]; !seen {
					adHoc[p.Category] = &models.Category{
						Slug:  p.CategorySlug,
						Name:  p.Category,
						AdHoc: true,
					}
					logger.Warn("index: product references unknown category",
						slog.String("product", p.Ref().String()),
						slog.String("category", p.Category))
				}
			}
		}
	}

	posts, err := st.ListPosts()
	if err != nil {
		return nil, err
	}
	for i := range posts {
		snap.posts[posts[i].Slug] = &posts[i]
	}

	entries, err := st.ListCodexEntries()
	if err != nil {
		return nil, err
	}
	for i := range entries {
		snap.codex[entries[i].Slug] = &entries[i]
	}

	snap.catsOrdered = append(snap.catsOrdered, cats...)
	for _, c := range adHoc {
		snap.catsOrdered = append(snap.catsOrdered, *c)
	}
	store.SortCategories(snap.catsOrdered)

	return snap, nil
}

// Product resolves a product by (category slug, slug).
func (s *Snapshot) Product(catSlug, slug string) (*models.Product, error) {
	p, ok := s.products[path.Join(catSlug, slug)]
	if !ok {
		return nil, apperr.NotFoundf("product %s/%s", catSlug, slug)
	}
	return p, nil
}

// Category resolves a category by slug.
func (s *Snapshot) Category(slug string) (*models.Category, error) {
	c, ok := s.categories[slug]
	if !ok {
		return nil, apperr.NotFoundf("category %s", slug)
	}
	return c, nil
}

// CategoryByName resolves a category by display name.
func (s *Snapshot) CategoryByName(name string) (*models.Category, error) {
	c, ok := s.byName[name]
	if !ok {
		return nil, apperr.NotFoundf("category named %q", name)
	}
	return c, nil
}

// Post resolves a blog post by slug.
func (s *Snapshot) Post(slug string) (*models.BlogPost, error) {
	p, ok := s.posts[slug]
	if !ok {
		return nil, apperr.NotFoundf("post %s", slug)
	}
	return p, nil
}

// CodexEntry resolves a glossary entry by slug.
func (s *Snapshot) CodexEntry(slug string) (*models.CodexEntry, error) {
	e, ok := s.codex[slug]
	if !ok {
		return nil, apperr.NotFoundf("codex entry %s", slug)
	}
	return e, nil
}

// FindByCategory returns every product whose denormalized category name
// equals name, in catalog order.
func (s *Snapshot) FindByCategory(name string) []models.Product {
	members := s.byCatName[name]
	out := make([]models.Product, 0, len(members))
	for _, p := range members {
		out = append(out, *p)
	}
	return out
}

// Categories returns every category in catalog order, including ad-hoc
// entries synthesized from orphaned product references.
func (s *Snapshot) Categories() []models.Category {
	return append([]models.Category(nil), s.catsOrdered...)
}

// TagMembers returns the refs of every product carrying the tag.
func (s *Snapshot) TagMembers(name string) []models.ProductRef {
	refs := append([]models.ProductRef(nil), s.tagMembers[name]...)
	sort.Slice(refs, func(i, j int) bool {
		return refs[i].String() < refs[j].String()
	})
	return refs
}

// TagNames returns every known tag name, sorted.
func (s *Snapshot) TagNames() []string {
	names := make([]string, 0, len(s.tagMembers))
	for name := range s.tagMembers {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}
