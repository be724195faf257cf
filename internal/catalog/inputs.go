package catalog

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/halvard/vitrine/internal/apperr"
)

// CategoryInput carries the writable fields of a category.
type CategoryInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	OrderWeight float64 `json:"order_weight"`
}

func (in *CategoryInput) validate() error {
	err := validation.ValidateStruct(in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 120)),
	)
	if err != nil {
		return apperr.Validationf("category: %v", err)
	}
	return nil
}

// ProductInput carries the writable fields of a product. CategorySlug
// selects the directory on create and is immutable afterwards.
type ProductInput struct {
	CategorySlug string            `json:"category"`
	Title        string            `json:"title"`
	Names        map[string]string `json:"names"`
	SKU          string            `json:"sku"`
	Price        float64           `json:"price"`
	OnSale       bool              `json:"is_on_sale"`
	SalePrice    float64           `json:"sale_price"`
	Cost         float64           `json:"cost"`
	FinalPrice   float64           `json:"final_price"`
	ZHTWPrice    float64           `json:"zhtw_price"`
	CostTW       float64           `json:"cost_tw"`
	InStock      bool              `json:"in_stock"`
	PreOrder     bool              `json:"is_pre_order"`
	AvailableAt  string            `json:"available_date"`
	NewArrival   bool              `json:"is_new_arrival"`
	Series       string            `json:"series"`
	Scale        string            `json:"scale"`
	Size         string            `json:"size"`
	Weight       string            `json:"weight"`
	Images       []string          `json:"images"`
	Tags         []string          `json:"tags"`
	OrderWeight  float64           `json:"order_weight"`
	Body         string            `json:"description"`
}

func (in *ProductInput) validate() error {
	err := validation.ValidateStruct(in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Price, validation.Min(0.0)),
		validation.Field(&in.SalePrice, validation.Min(0.0)),
		validation.Field(&in.AvailableAt, validation.When(in.PreOrder, validation.Required)),
	)
	if err != nil {
		return apperr.Validationf("product: %v", err)
	}
	return nil
}

// PostInput carries the writable fields of a blog post.
type PostInput struct {
	Title   string   `json:"title"`
	Date    string   `json:"date"`
	Author  string   `json:"author"`
	Excerpt string   `json:"excerpt"`
	Tags    []string `json:"tags"`
	Body    string   `json:"content"`
}

func (in *PostInput) validate() error {
	err := validation.ValidateStruct(in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Date, validation.Required, validation.Date("2006-01-02")),
	)
	if err != nil {
		return apperr.Validationf("post: %v", err)
	}
	return nil
}

// CodexInput carries the writable fields of a glossary entry.
type CodexInput struct {
	Title   string   `json:"title"`
	Aliases []string `json:"aliases"`
	Body    string   `json:"body"`
}

func (in *CodexInput) validate() error {
	err := validation.ValidateStruct(in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
	)
	if err != nil {
		return apperr.Validationf("codex entry: %v", err)
	}
	return nil
}
