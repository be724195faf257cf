// Package models defines the domain types for Vitrine.
package models

import (
	"fmt"
	"time"
)

// Product is a catalog item stored as products/<category>/<slug>/product.md
// plus a side tags.txt file. CategorySlug is the directory the product lives
// in; Category is the denormalized display name of its category and is the
// value rewritten by category rename cascades.
type Product struct {
	Slug         string            `json:"slug"`
	CategorySlug string            `json:"category_slug"`
	Category     string            `json:"category"`
	Title        string            `json:"title"`
	Names        map[string]string `json:"names,omitempty"` // locale → localized name
	SKU          string            `json:"sku,omitempty"`
	Price        float64           `json:"price"`
	OnSale       bool              `json:"is_on_sale"`
	SalePrice    float64           `json:"sale_price,omitempty"`
	Cost         float64           `json:"cost,omitempty"`
	FinalPrice   float64           `json:"final_price,omitempty"`
	ZHTWPrice    float64           `json:"zhtw_price,omitempty"`
	CostTW       float64           `json:"cost_tw,omitempty"`
	InStock      bool              `json:"in_stock"`
	PreOrder     bool              `json:"is_pre_order"`
	AvailableAt  string            `json:"available_date,omitempty"` // YYYY-MM or YYYY-MM-DD
	NewArrival   bool              `json:"is_new_arrival"`
	Series       string            `json:"series,omitempty"`
	Scale        string            `json:"scale,omitempty"`
	Size         string            `json:"size,omitempty"`
	Weight       string            `json:"weight,omitempty"`
	Images       []string          `json:"images"` // order-significant, first is the thumbnail
	Tags         []string          `json:"tags"`
	OrderWeight  float64           `json:"order_weight"`
	Body         string            `json:"description"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Ref returns the product's stable identity.
func (p *Product) Ref() ProductRef {
	return ProductRef{CategorySlug: p.CategorySlug, Slug: p.Slug}
}

// HasTag reports whether the product carries the tag (exact, case-sensitive).
func (p *Product) HasTag(name string) bool {
	for _, t := range p.Tags {
		if t == name {
			return true
		}
	}
	return false
}

// ProductRef identifies a product without carrying its content.
type ProductRef struct {
	CategorySlug string `json:"category"`
	Slug         string `json:"slug"`
}

func (r ProductRef) String() string {
	return fmt.Sprintf("%s/%s", r.CategorySlug, r.Slug)
}

// Category is stored as categories/<slug>/category.md. AdHoc marks a
// category that exists only as a product reference with no backing file.
type Category struct {
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon,omitempty"`
	OrderWeight float64   `json:"order_weight"`
	AdHoc       bool      `json:"ad_hoc,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BlogPost is stored as blog/<slug>.md with a date-prefixed slug.
type BlogPost struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Author    string    `json:"author,omitempty"`
	Excerpt   string    `json:"excerpt,omitempty"`
	Tags      []string  `json:"tags"`
	Body      string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CodexEntry is a glossary record stored as codex/<slug>.md, resolvable
// from [[Term]] markup by title or any alias (case-insensitive).
type CodexEntry struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Aliases   []string  `json:"aliases"`
	Body      string    `json:"body"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tag is derived: it exists exactly as long as at least one product
// carries its name. Members are sorted by ref.
type Tag struct {
	Name    string       `json:"name"`
	Count   int          `json:"count"`
	Members []ProductRef `json:"members"`
}

// Reference points at a product or blog post whose body mentions a codex
// entry via [[Term]] markup.
type Reference struct {
	Kind         string `json:"kind"` // "product" or "post"
	CategorySlug string `json:"category,omitempty"`
	Slug         string `json:"slug"`
	Title        string `json:"title"`
}
