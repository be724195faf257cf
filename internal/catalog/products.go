package catalog

import (
	"errors"
	"strings"

	"github.com/halvard/vitrine/internal/apperr"
	"github.com/halvard/vitrine/internal/models"
)

// Filter narrows product listings the way the storefront does.
type Filter struct {
	CategorySlug string
	Tag          string
	Search       string // substring match over title and localized names
	PreOrder     bool
	OnSale       bool
	NewArrival   bool
}

// Products lists products in catalog order, optionally filtered.
func (s *Service) Products(f Filter) ([]models.Product, error) {
	products, err := s.store.ListProducts(f.CategorySlug)
	if err != nil {
		return nil, err
	}
	out := products[:0]
	for _, p := range products {
		if f.Tag != "" && !p.HasTag(f.Tag) {
			continue
		}
		if f.PreOrder && !p.PreOrder {
			continue
		}
		if f.OnSale && !p.OnSale {
			continue
		}
		if f.NewArrival && !p.NewArrival {
			continue
		}
		if f.Search != "" && !matchesSearch(&p, f.Search) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Product returns one product by (category slug, slug).
func (s *Service) Product(catSlug, slug string) (*models.Product, error) {
	return s.store.ReadProduct(catSlug, slug)
}

// CreateProduct assigns a slug within the category directory and writes
// both product files. The category must exist; its display name is
// denormalized onto the product.
func (s *Service) CreateProduct(in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.CategorySlug == "" {
		return nil, apperr.Validationf("product: category is required")
	}
	cat, err := s.store.ReadCategory(in.CategorySlug)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Validationf("product: unknown category %q", in.CategorySlug)
		}
		return nil, err
	}
	slug, err := s.store.NewProductSlug(in.CategorySlug, in.Title)
	if err != nil {
		return nil, err
	}
	p := productFromInput(in, cat.Name, slug)
	if err := s.store.WriteProduct(p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProduct rewrites an existing product in place. Identity (category
// directory and slug) never changes on update.
func (s *Service) UpdateProduct(catSlug, slug string, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	existing, err := s.store.ReadProduct(catSlug, slug)
	if err != nil {
		return nil, err
	}
	in.CategorySlug = catSlug
	p := productFromInput(in, existing.Category, slug)
	if err := s.store.WriteProduct(p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProduct removes the product directory.
func (s *Service) DeleteProduct(catSlug, slug string) error {
	return s.store.DeleteProduct(catSlug, slug)
}

// AppendProductImage records a stored image filename on the product. The
// upload layer owns the bytes; the catalog only tracks names. First image
// stays first: it is the primary thumbnail.
func (s *Service) AppendProductImage(catSlug, slug, filename string) (*models.Product, error) {
	p, err := s.store.ReadProduct(catSlug, slug)
	if err != nil {
		return nil, err
	}
	for _, img := range p.Images {
		if img == filename {
			return p, nil
		}
	}
	p.Images = append(p.Images, filename)
	if err := s.store.WriteProduct(p); err != nil {
		return nil, err
	}
	return p, nil
}

func productFromInput(in ProductInput, categoryName, slug string) *models.Product {
	return &models.Product{
		Slug:         slug,
		CategorySlug: in.CategorySlug,
		Category:     categoryName,
		Title:        in.Title,
		Names:        in.Names,
		SKU:          in.SKU,
		Price:        in.Price,
		OnSale:       in.OnSale,
		SalePrice:    in.SalePrice,
		Cost:         in.Cost,
		FinalPrice:   in.FinalPrice,
		ZHTWPrice:    in.ZHTWPrice,
		CostTW:       in.CostTW,
		InStock:      in.InStock,
		PreOrder:     in.PreOrder,
		AvailableAt:  in.AvailableAt,
		NewArrival:   in.NewArrival,
		Series:       in.Series,
		Scale:        in.Scale,
		Size:         in.Size,
		Weight:       in.Weight,
		Images:       in.Images,
		Tags:         in.Tags,
		OrderWeight:  in.OrderWeight,
		Body:         in.Body,
	}
}

func matchesSearch(p *models.Product, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(p.Title), q) {
		return true
	}
	for _, name := range p.Names {
		if strings.Contains(strings.ToLower(name), q) {
			return true
		}
	}
	return false
}
