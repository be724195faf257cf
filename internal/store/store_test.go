package store

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/halvard/vitrine/internal/apperr"
	"github.com/halvard/vitrine/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	fs, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return New(fs, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestProductRoundTrip(t *testing.T) {
	s := newTestStore(t)
	p := &models.Product{
		Slug:         "asuka-kit",
		CategorySlug: "figures",
		Category:     "Figures",
		Title:        "Asuka Kit",
		Names:        map[string]string{"ja": "アスカ"},
		SKU:          "FIG-001",
		Price:        120.5,
		InStock:      true,
		PreOrder:     true,
		AvailableAt:  "2026-03",
		Series:       "Evangelion",
		Scale:        "1/7",
		Images:       []string{"front.jpg", "back.jpg"},
		Tags:         []string{"anime", "resin"},
		OrderWeight:  5,
		Body:         "Cast in [[Resin]].\n",
	}
	if err := s.WriteProduct(p); err != nil {
		t.Fatal(err)
	}

	got, err := s.ReadProduct("figures", "asuka-kit")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != p.Title || got.Category != "Figures" || got.SKU != "FIG-001" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Names["ja"] != "アスカ" {
		t.Errorf("names = %v", got.Names)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "anime" {
		t.Errorf("tags = %v", got.Tags)
	}
	if len(got.Images) != 2 || got.Images[0] != "front.jpg" {
		t.Errorf("images = %v", got.Images)
	}
	if !strings.Contains(got.Body, "[[Resin]]") {
		t.Errorf("body = %q", got.Body)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set from mtime")
	}
}

func TestProductMissingTagsFile(t *testing.T) {
	s := newTestStore(t)
	p := &models.Product{Slug: "a", CategorySlug: "c", Title: "A"}
	if err := s.WriteProduct(p); err != nil {
		t.Fatal(err)
	}
	// Simulate a hand-made product without tags.txt.
	if err := s.fs.Delete(ProductTagsPath("c", "a")); err != nil {
		t.Fatal(err)
	}
	got, err := s.ReadProduct("c", "a")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Tags) != 0 {
		t.Errorf("tags = %v, want empty", got.Tags)
	}
}

func TestReadProductNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.ReadProduct("c", "missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestReadProductMissingTitle(t *testing.T) {
	s := newTestStore(t)
	doc := []byte("---\ncategory: Figures\n---\n\nbody\n")
	if err := s.fs.Write(ProductDocPath("c", "bad"), doc); err != nil {
		t.Fatal(err)
	}
	_, err := s.ReadProduct("c", "bad")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("want ErrValidation, got %v", err)
	}
}

func TestListProductsSkipsInvalid(t *testing.T) {
	s := newTestStore(t)
	_ = s.WriteProduct(&models.Product{Slug: "good", CategorySlug: "c", Title: "Good"})
	_ = s.fs.Write(ProductDocPath("c", "bad"), []byte("---\n---\n\nno title\n"))

	products, err := s.ListProducts("")
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 1 || products[0].Slug != "good" {
		t.Errorf("products = %+v", products)
	}
}

func TestListProductsOrder(t *testing.T) {
	s := newTestStore(t)
	_ = s.WriteProduct(&models.Product{Slug: "b", CategorySlug: "c", Title: "Bravo", OrderWeight: 1})
	_ = s.WriteProduct(&models.Product{Slug: "a", CategorySlug: "c", Title: "alpha", OrderWeight: 1})
	_ = s.WriteProduct(&models.Product{Slug: "z", CategorySlug: "c", Title: "Zulu", OrderWeight: 9})

	products, err := s.ListProducts("")
	if err != nil {
		t.Fatal(err)
	}
	got := []string{products[0].Slug, products[1].Slug, products[2].Slug}
	want := []string{"z", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestTagsDedupedOnWrite(t *testing.T) {
	s := newTestStore(t)
	p := &models.Product{Slug: "a", CategorySlug: "c", Title: "A", Tags: []string{"x", "y", "x"}}
	if err := s.WriteProduct(p); err != nil {
		t.Fatal(err)
	}
	got, err := s.ReadProduct("c", "a")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Tags) != 2 {
		t.Errorf("tags = %v, want deduped", got.Tags)
	}
}

func TestNewProductSlugDedupe(t *testing.T) {
	s := newTestStore(t)
	_ = s.WriteProduct(&models.Product{Slug: "asuka-kit", CategorySlug: "c", Title: "Asuka Kit"})

	slug, err := s.NewProductSlug("c", "Asuka Kit")
	if err != nil {
		t.Fatal(err)
	}
	if slug != "asuka-kit-2" {
		t.Errorf("slug = %q, want asuka-kit-2", slug)
	}
}

func TestSlugifyRejectsEmpty(t *testing.T) {
	if _, err := Slugify("!!!"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("want ErrValidation, got %v", err)
	}
}

func TestCategoryRoundTrip(t *testing.T) {
	s := newTestStore(t)
	c := &models.Category{Slug: "figures", Name: "Figures", Description: "Scale figures.\n", Icon: "fig.png", OrderWeight: 3}
	if err := s.WriteCategory(c); err != nil {
		t.Fatal(err)
	}
	got, err := s.ReadCategory("figures")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Figures" || got.Icon != "fig.png" || got.OrderWeight != 3 {
		t.Errorf("category = %+v", got)
	}
	if !strings.Contains(got.Description, "Scale figures.") {
		t.Errorf("description = %q", got.Description)
	}
}

func TestPostRoundTripAndExcerptFallback(t *testing.T) {
	s := newTestStore(t)
	long := strings.Repeat("word ", 100)
	p := &models.BlogPost{Slug: "2026-01-05-news", Title: "News", Date: "2026-01-05", Body: long}
	if err := s.WritePost(p); err != nil {
		t.Fatal(err)
	}
	got, err := s.ReadPost("2026-01-05-news")
	if err != nil {
		t.Fatal(err)
	}
	if got.Excerpt == "" || len(got.Excerpt) > 200 {
		t.Errorf("excerpt fallback broken: %d chars", len(got.Excerpt))
	}
}

func TestExcerptFallbackKeepsRunesWhole(t *testing.T) {
	s := newTestStore(t)
	// 3 bytes per rune, so byte 200 lands mid-sequence.
	long := strings.Repeat("限定版模型", 20)
	p := &models.BlogPost{Slug: "2026-01-06-zh", Title: "限定版", Date: "2026-01-06", Body: long}
	if err := s.WritePost(p); err != nil {
		t.Fatal(err)
	}
	got, err := s.ReadPost("2026-01-06-zh")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Excerpt) > 200 {
		t.Errorf("excerpt too long: %d bytes", len(got.Excerpt))
	}
	if !utf8.ValidString(got.Excerpt) {
		t.Errorf("excerpt split a rune: %q", got.Excerpt)
	}
}

func TestNewPostSlugDatePrefix(t *testing.T) {
	s := newTestStore(t)
	slug, err := s.NewPostSlug("2026-01-05", "Big News!")
	if err != nil {
		t.Fatal(err)
	}
	if slug != "2026-01-05-big-news" {
		t.Errorf("slug = %q", slug)
	}
}

func TestListPostsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	_ = s.WritePost(&models.BlogPost{Slug: "2026-01-01-old", Title: "Old", Date: "2026-01-01"})
	_ = s.WritePost(&models.BlogPost{Slug: "2026-02-01-new", Title: "New", Date: "2026-02-01"})

	posts, err := s.ListPosts()
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 2 || posts[0].Slug != "2026-02-01-new" {
		t.Errorf("posts = %+v", posts)
	}
}

func TestCodexEntryRoundTrip(t *testing.T) {
	s := newTestStore(t)
	e := &models.CodexEntry{Slug: "resin", Title: "Resin", Aliases: []string{"resin kit"}, Body: "A casting material.\n"}
	if err := s.WriteCodexEntry(e); err != nil {
		t.Fatal(err)
	}
	got, err := s.ReadCodexEntry("resin")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Resin" || len(got.Aliases) != 1 {
		t.Errorf("entry = %+v", got)
	}
}
