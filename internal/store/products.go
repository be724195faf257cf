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

type productFrontmatter struct {
	Title       string            `yaml:"title"`
	Category    string            `yaml:"category"`
	Names       map[string]string `yaml:"names,omitempty"`
	SKU         string            `yaml:"sku,omitempty"`
	Price       float64           `yaml:"price"`
	InStock     bool              `yaml:"in_stock"`
	Images      []string          `yaml:"images"`
	PreOrder    bool              `yaml:"is_pre_order"`
	AvailableAt string            `yaml:"available_date,omitempty"`
	OnSale      bool              `yaml:"is_on_sale"`
	SalePrice   float64           `yaml:"sale_price,omitempty"`
	NewArrival  bool              `yaml:"is_new_arrival"`
	Series      string            `yaml:"series,omitempty"`
	Scale       string            `yaml:"scale,omitempty"`
	Size        string            `yaml:"size,omitempty"`
	Weight      string            `yaml:"weight,omitempty"`
	ZHTWPrice   float64           `yaml:"zhtw_price,omitempty"`
	Cost        float64           `yaml:"cost,omitempty"`
	FinalPrice  float64           `yaml:"final_price,omitempty"`
	CostTW      float64           `yaml:"cost_tw,omitempty"`
	OrderWeight float64           `yaml:"order_weight"`
}

// ProductDocPath returns the product.md path for a product identity.
func ProductDocPath(catSlug, slug string) string {
	return path.Join("products", catSlug, slug, "product.md")
}

// ProductTagsPath returns the tags.txt path for a product identity.
func ProductTagsPath(catSlug, slug string) string {
	return path.Join("products", catSlug, slug, "tags.txt")
}

// ProductImagesDir returns the images directory for a product identity.
func ProductImagesDir(catSlug, slug string) string {
	return path.Join("products", catSlug, slug, "images")
}

// ReadProduct loads one product from its two files. A missing product.md is
// ErrNotFound; unparseable front matter or a missing title is ErrValidation.
// A missing tags.txt is an empty tag list, not an error.
func (s *Store) ReadProduct(catSlug, slug string) (*models.Product, error) {
	docPath := ProductDocPath(catSlug, slug)
	data, err := s.fs.Read(docPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.NotFoundf("product %s/%s", catSlug, slug)
		}
		return nil, err
	}
	mod, _ := s.fs.ModTime(docPath)

	var fm productFrontmatter
	body, err := decodeDoc(data, &fm)
	if err != nil {
		return nil, apperr.Validationf("product %s/%s: %v", catSlug, slug, err)
	}
	if fm.Title == "" {
		return nil, apperr.Validationf("product %s/%s: missing title", catSlug, slug)
	}

	tags, err := s.readTagList(catSlug, slug)
	if err != nil {
		return nil, err
	}

	p := &models.Product{
		Slug:         slug,
		CategorySlug: catSlug,
		Category:     fm.Category,
		Title:        fm.Title,
		Names:        fm.Names,
		SKU:          fm.SKU,
		Price:        fm.Price,
		OnSale:       fm.OnSale,
		SalePrice:    fm.SalePrice,
		Cost:         fm.Cost,
		FinalPrice:   fm.FinalPrice,
		ZHTWPrice:    fm.ZHTWPrice,
		CostTW:       fm.CostTW,
		InStock:      fm.InStock,
		PreOrder:     fm.PreOrder,
		AvailableAt:  fm.AvailableAt,
		NewArrival:   fm.NewArrival,
		Series:       fm.Series,
		Scale:        fm.Scale,
		Size:         fm.Size,
		Weight:       fm.Weight,
		Images:       fm.Images,
		Tags:         tags,
		OrderWeight:  fm.OrderWeight,
		Body:         body,
		UpdatedAt:    mod,
	}
	return p, nil
}

// WriteProduct persists a product as its two files. Each file write is
// atomic on its own; the pair is not, which is acceptable because both
// files are rewritten together on the next save.
func (s *Store) WriteProduct(p *models.Product) error {
	fm := productFrontmatter{
		Title:       p.Title,
		Category:    p.Category,
		Names:       p.Names,
		SKU:         p.SKU,
		Price:       p.Price,
		InStock:     p.InStock,
		Images:      emptyIfNil(p.Images),
		PreOrder:    p.PreOrder,
		AvailableAt: p.AvailableAt,
		OnSale:      p.OnSale,
		SalePrice:   p.SalePrice,
		NewArrival:  p.NewArrival,
		Series:      p.Series,
		Scale:       p.Scale,
		Size:        p.Size,
		Weight:      p.Weight,
		ZHTWPrice:   p.ZHTWPrice,
		Cost:        p.Cost,
		FinalPrice:  p.FinalPrice,
		CostTW:      p.CostTW,
		OrderWeight: p.OrderWeight,
	}
	doc, err := encodeDoc(fm, p.Body)
	if err != nil {
		return fmt.Errorf("store: product %s: %w", p.Ref(), err)
	}
	if err := s.fs.Write(ProductDocPath(p.CategorySlug, p.Slug), doc); err != nil {
		return err
	}
	return s.writeTagList(p.CategorySlug, p.Slug, dedupeTags(p.Tags))
}

// DeleteProduct removes the product directory (both files plus images).
func (s *Store) DeleteProduct(catSlug, slug string) error {
	dir := path.Join("products", catSlug, slug)
	if err := s.fs.RemoveAll(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperr.NotFoundf("product %s/%s", catSlug, slug)
		}
		return err
	}
	return nil
}

// ListProducts re-scans the products tree and returns every valid product,
// sorted by descending order weight then title. catSlug narrows the scan to
// one category directory; empty scans all. Invalid files are skipped with a
// warning so one bad edit never hides the rest of the catalog.
func (s *Store) ListProducts(catSlug string) ([]models.Product, error) {
	dir := "products"
	if catSlug != "" {
		dir = path.Join("products", catSlug)
	}
	metas, err := s.fs.List(dir, "product.md")
	if err != nil {
		return nil, err
	}
	out := make([]models.Product, 0, len(metas))
	for _, m := range metas {
		cat, slug, ok := splitProductPath(m.Path)
		if !ok {
			continue
		}
		p, err := s.ReadProduct(cat, slug)
		if err != nil {
			s.logger.Warn("store: skipping product",
				slog.String("path", m.Path),
				slog.String("error", err.Error()))
			continue
		}
		out = append(out, *p)
	}
	sortProducts(out)
	return out, nil
}

// NewProductSlug derives a fresh slug for a product title, unique within
// its category directory.
func (s *Store) NewProductSlug(catSlug, title string) (string, error) {
	base, err := Slugify(title)
	if err != nil {
		return "", err
	}
	return dedupeSlug(base, func(candidate string) bool {
		return s.fs.Exists(path.Join("products", catSlug, candidate))
	}), nil
}

// readTagList reads the side tag file; tags are one per line, deduplicated
// on read with original order preserved.
func (s *Store) readTagList(catSlug, slug string) ([]string, error) {
	data, err := s.fs.Read(ProductTagsPath(catSlug, slug))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var tags []string
	for _, line := range strings.Split(string(data), "\n") {
		if t := strings.TrimSpace(line); t != "" {
			tags = append(tags, t)
		}
	}
	return dedupeTags(tags), nil
}

func (s *Store) writeTagList(catSlug, slug string, tags []string) error {
	var b strings.Builder
	for _, t := range tags {
		b.WriteString(t)
		b.WriteByte('\n')
	}
	return s.fs.Write(ProductTagsPath(catSlug, slug), []byte(b.String()))
}

// splitProductPath extracts (category, slug) from products/<cat>/<slug>/product.md.
func splitProductPath(p string) (string, string, bool) {
	parts := strings.Split(p, "/")
	if len(parts) != 4 || parts[0] != "products" || parts[3] != "product.md" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

func sortProducts(ps []models.Product) {
	sort.SliceStable(ps, func(i, j int) bool {
		if ps[i].OrderWeight != ps[j].OrderWeight {
			return ps[i].OrderWeight > ps[j].OrderWeight
		}
		return strings.ToLower(ps[i].Title) < strings.ToLower(ps[j].Title)
	})
}

func dedupeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := tags[:0:0]
	for _, t := range tags {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func emptyIfNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
