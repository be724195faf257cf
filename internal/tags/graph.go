// Package tags implements the derived tag graph. Tags are not stored as
// their own files: a tag exists exactly as long as at least one product
// carries its name, so every structural operation here is a write fan-out
// across product files. The file-based store keeps no secondary tag index
// on disk, making these operations O(products).
package tags

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/halvard/vitrine/internal/apperr"
	"github.com/halvard/vitrine/internal/models"
	"github.com/halvard/vitrine/internal/store"
)

// Graph exposes tag operations over the entity store. It holds no state of
// its own; every call re-scans the products tree.
type Graph struct {
	store  *store.Store
	logger *slog.Logger
}

// New creates a tag graph over the given store.
func New(st *store.Store, logger *slog.Logger) *Graph {
	if logger == nil {
		logger = slog.Default()
	}
	return &Graph{store: st, logger: logger}
}

// List returns every tag with its member set, sorted by name.
func (g *Graph) List() ([]models.Tag, error) {
	products, err := g.store.ListProducts("")
	if err != nil {
		return nil, err
	}
	members := make(map[string][]models.ProductRef)
	for i := range products {
		for _, t := range products[i].Tags {
			members[t] = append(members[t], products[i].Ref())
		}
	}
	out := make([]models.Tag, 0, len(members))
	for name, refs := range members {
		sort.Slice(refs, func(i, j int) bool {
			return refs[i].String() < refs[j].String()
		})
		out = append(out, models.Tag{Name: name, Count: len(refs), Members: refs})
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// Rename replaces oldName with newName in every product whose tag list
// contains oldName (exact, case-sensitive) and rewrites those products.
// When a product already carries newName the two entries merge silently:
// oldName is dropped and no duplicate is introduced. Failed rewrites are
// collected in the result; already-applied rewrites are not rolled back.
func (g *Graph) Rename(oldName, newName string) (models.CascadeResult, error) {
	var res models.CascadeResult
	if oldName == "" || newName == "" {
		return res, apperr.Validationf("tag rename needs both names")
	}
	if oldName == newName {
		return res, nil
	}
	return g.rewrite(oldName, func(tags []string) []string {
		out := make([]string, 0, len(tags))
		for _, t := range tags {
			if t == oldName {
				t = newName
			}
			out = append(out, t)
		}
		return out
	})
}

// Delete removes name from every product's tag list. The products
// themselves are never deleted.
func (g *Graph) Delete(name string) (models.CascadeResult, error) {
	if name == "" {
		return models.CascadeResult{}, apperr.Validationf("tag name is required")
	}
	return g.rewrite(name, func(tags []string) []string {
		out := make([]string, 0, len(tags))
		for _, t := range tags {
			if t != name {
				out = append(out, t)
			}
		}
		return out
	})
}

// AddMembership adds name to one product's tag list. Adding an existing
// tag is a no-op, not an error.
func (g *Graph) AddMembership(name string, ref models.ProductRef) error {
	if name == "" {
		return apperr.Validationf("tag name is required")
	}
	p, err := g.store.ReadProduct(ref.CategorySlug, ref.Slug)
	if err != nil {
		return err
	}
	if p.HasTag(name) {
		return nil
	}
	p.Tags = append(p.Tags, name)
	return g.store.WriteProduct(p)
}

// RemoveMembership removes name from one product's tag list. Removing a
// non-member is a no-op, not an error.
func (g *Graph) RemoveMembership(name string, ref models.ProductRef) error {
	p, err := g.store.ReadProduct(ref.CategorySlug, ref.Slug)
	if err != nil {
		return err
	}
	if !p.HasTag(name) {
		return nil
	}
	out := p.Tags[:0]
	for _, t := range p.Tags {
		if t != name {
			out = append(out, t)
		}
	}
	p.Tags = out
	return g.store.WriteProduct(p)
}

// rewrite applies xform to the tag list of every product carrying match and
// rewrites the changed ones. Duplicates introduced by the transform (tag
// merges) collapse on write.
func (g *Graph) rewrite(match string, xform func([]string) []string) (models.CascadeResult, error) {
	var res models.CascadeResult
	products, err := g.store.ListProducts("")
	if err != nil {
		return res, err
	}
	for i := range products {
		p := &products[i]
		if !p.HasTag(match) {
			continue
		}
		p.Tags = xform(p.Tags)
		if err := g.store.WriteProduct(p); err != nil {
			g.logger.Warn("tags: rewrite failed",
				slog.String("product", p.Ref().String()),
				slog.String("error", err.Error()))
			res.Failed = append(res.Failed, p.Ref().String())
			continue
		}
		res.Updated++
	}
	return res, nil
}
