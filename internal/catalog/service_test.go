package catalog_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/halvard/vitrine/internal/apperr"
	"github.com/halvard/vitrine/internal/catalog"
	"github.com/halvard/vitrine/internal/testutil"
)

func newService(t *testing.T) *catalog.Service {
	t.Helper()
	_, st := testutil.TestStore(t)
	return catalog.New(st, testutil.Logger())
}

func mustCategory(t *testing.T, svc *catalog.Service, name string) string {
	t.Helper()
	c, err := svc.CreateCategory(catalog.CategoryInput{Name: name})
	if err != nil {
		t.Fatal(err)
	}
	return c.Slug
}

func mustProduct(t *testing.T, svc *catalog.Service, in catalog.ProductInput) string {
	t.Helper()
	p, err := svc.CreateProduct(in)
	if err != nil {
		t.Fatal(err)
	}
	return p.Slug
}

func TestCreateCategory(t *testing.T) {
	svc := newService(t)
	c, err := svc.CreateCategory(catalog.CategoryInput{Name: "Model Kits", OrderWeight: 3})
	if err != nil {
		t.Fatal(err)
	}
	if c.Slug != "model-kits" {
		t.Errorf("slug = %q", c.Slug)
	}

	// Same display name is rejected even though the slug would dedupe.
	_, err = svc.CreateCategory(catalog.CategoryInput{Name: "Model Kits"})
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("duplicate name: %v", err)
	}

	_, err = svc.CreateCategory(catalog.CategoryInput{})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("missing name: %v", err)
	}
}

func TestCreateProduct(t *testing.T) {
	svc := newService(t)
	catSlug := mustCategory(t, svc, "Figures")

	p, err := svc.CreateProduct(catalog.ProductInput{
		CategorySlug: catSlug,
		Title:        "Asuka Model Kit",
		Price:        120,
		Tags:         []string{"resin"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if p.Slug != "asuka-model-kit" {
		t.Errorf("slug = %q", p.Slug)
	}
	if p.Category != "Figures" {
		t.Errorf("denormalized category = %q", p.Category)
	}

	_, err = svc.CreateProduct(catalog.ProductInput{CategorySlug: "nope", Title: "X"})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("unknown category: %v", err)
	}

	_, err = svc.CreateProduct(catalog.ProductInput{
		CategorySlug: catSlug, Title: "Limited Run", PreOrder: true,
	})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("pre-order without date: %v", err)
	}
}

func TestUpdateProductKeepsIdentity(t *testing.T) {
	svc := newService(t)
	catSlug := mustCategory(t, svc, "Figures")
	slug := mustProduct(t, svc, catalog.ProductInput{CategorySlug: catSlug, Title: "Asuka"})

	p, err := svc.UpdateProduct(catSlug, slug, catalog.ProductInput{
		CategorySlug: "ignored", Title: "Asuka Deluxe", Price: 150,
	})
	if err != nil {
		t.Fatal(err)
	}
	if p.Slug != slug || p.CategorySlug != catSlug {
		t.Errorf("identity changed: %s/%s", p.CategorySlug, p.Slug)
	}
	if p.Category != "Figures" {
		t.Errorf("category = %q", p.Category)
	}

	_, err = svc.UpdateProduct(catSlug, "missing", catalog.ProductInput{Title: "X"})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing product: %v", err)
	}
}

func TestProductsFilter(t *testing.T) {
	svc := newService(t)
	catSlug := mustCategory(t, svc, "Figures")
	otherSlug := mustCategory(t, svc, "Tools")

	mustProduct(t, svc, catalog.ProductInput{
		CategorySlug: catSlug, Title: "Asuka",
		Names: map[string]string{"ja": "アスカ"},
		Tags:  []string{"resin"}, OnSale: true,
	})
	mustProduct(t, svc, catalog.ProductInput{
		CategorySlug: catSlug, Title: "Rei",
		PreOrder: true, AvailableAt: "2026-10-01",
	})
	mustProduct(t, svc, catalog.ProductInput{CategorySlug: otherSlug, Title: "Cutter"})

	all, err := svc.Products(catalog.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("all = %d", len(all))
	}

	got, err := svc.Products(catalog.Filter{CategorySlug: catSlug})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("by category = %d", len(got))
	}

	got, err = svc.Products(catalog.Filter{Tag: "resin"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "Asuka" {
		t.Errorf("by tag = %+v", got)
	}

	got, err = svc.Products(catalog.Filter{OnSale: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "Asuka" {
		t.Errorf("on sale = %+v", got)
	}

	got, err = svc.Products(catalog.Filter{PreOrder: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "Rei" {
		t.Errorf("pre-order = %+v", got)
	}

	// Search matches localized names too.
	got, err = svc.Products(catalog.Filter{Search: "アスカ"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "Asuka" {
		t.Errorf("search = %+v", got)
	}
}

func TestRenameCategoryCascade(t *testing.T) {
	svc := newService(t)
	catSlug := mustCategory(t, svc, "Figures")
	slug := mustProduct(t, svc, catalog.ProductInput{CategorySlug: catSlug, Title: "Asuka"})
	mustProduct(t, svc, catalog.ProductInput{CategorySlug: catSlug, Title: "Rei"})

	res, err := svc.RenameCategory("Figures", "Garage Kits")
	if err != nil {
		t.Fatal(err)
	}
	if res.Updated != 2 || len(res.Failed) != 0 {
		t.Fatalf("res = %+v", res)
	}

	// The slug is stable; only the display name moved.
	c, err := svc.Category(catSlug)
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != "Garage Kits" {
		t.Errorf("name = %q", c.Name)
	}
	p, err := svc.Product(catSlug, slug)
	if err != nil {
		t.Fatal(err)
	}
	if p.Category != "Garage Kits" {
		t.Errorf("product category = %q", p.Category)
	}
}

func TestRenameCategoryErrors(t *testing.T) {
	svc := newService(t)
	mustCategory(t, svc, "Figures")
	mustCategory(t, svc, "Tools")

	if _, err := svc.RenameCategory("Figures", "Tools"); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("name collision: %v", err)
	}
	if _, err := svc.RenameCategory("Nope", "Anything"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown old name: %v", err)
	}
	if _, err := svc.RenameCategory("Figures", ""); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("empty new name: %v", err)
	}
	res, err := svc.RenameCategory("Figures", "Figures")
	if err != nil || res.Updated != 0 {
		t.Errorf("identity rename: %+v %v", res, err)
	}
}

func TestDeleteCategoryGate(t *testing.T) {
	svc := newService(t)
	catSlug := mustCategory(t, svc, "Figures")
	slug := mustProduct(t, svc, catalog.ProductInput{CategorySlug: catSlug, Title: "Asuka"})

	err := svc.DeleteCategory(catSlug)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("delete with members: %v", err)
	}

	if err := svc.DeleteProduct(catSlug, slug); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteCategory(catSlug); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Category(catSlug); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("category should be gone: %v", err)
	}
}

func TestPosts(t *testing.T) {
	svc := newService(t)
	p, err := svc.CreatePost(catalog.PostInput{Title: "Big News", Date: "2026-01-05", Body: "Hello."})
	if err != nil {
		t.Fatal(err)
	}
	if p.Slug != "2026-01-05-big-news" {
		t.Errorf("slug = %q", p.Slug)
	}

	if _, err := svc.CreatePost(catalog.PostInput{Title: "No Date"}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("missing date: %v", err)
	}

	// The slug survives a title change.
	upd, err := svc.UpdatePost(p.Slug, catalog.PostInput{Title: "Bigger News", Date: "2026-01-05"})
	if err != nil {
		t.Fatal(err)
	}
	if upd.Slug != p.Slug {
		t.Errorf("slug changed to %q", upd.Slug)
	}

	if err := svc.DeletePost(p.Slug); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Post(p.Slug); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("post should be gone: %v", err)
	}
}

func TestCodexEntries(t *testing.T) {
	svc := newService(t)
	e, err := svc.CreateCodexEntry(catalog.CodexInput{
		Title: "Resin", Aliases: []string{"resin kit"}, Body: "A casting material.",
	})
	if err != nil {
		t.Fatal(err)
	}
	if e.Slug != "resin" {
		t.Errorf("slug = %q", e.Slug)
	}

	// A second entry claiming an existing alias is rejected.
	_, err = svc.CreateCodexEntry(catalog.CodexInput{Title: "Casting", Aliases: []string{"RESIN KIT"}})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("alias collision: %v", err)
	}

	// Updating the owner with its own terms is fine.
	if _, err := svc.UpdateCodexEntry(e.Slug, catalog.CodexInput{
		Title: "Resin", Aliases: []string{"resin kit", "cast resin"},
	}); err != nil {
		t.Fatal(err)
	}
}

func TestAnnotateAndReferences(t *testing.T) {
	svc := newService(t)
	catSlug := mustCategory(t, svc, "Figures")
	slug := mustProduct(t, svc, catalog.ProductInput{
		CategorySlug: catSlug, Title: "Asuka", Body: "Cast in [[Resin]].",
	})
	entry, err := svc.CreateCodexEntry(catalog.CodexInput{Title: "Resin"})
	if err != nil {
		t.Fatal(err)
	}

	out, err := svc.Annotate("Made of [[resin]] and [[Unknown]].")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "[resin](/codex/resin)") || !strings.Contains(out, "[[Unknown]]") {
		t.Errorf("annotated = %q", out)
	}

	refs, err := svc.CodexReferences(entry.Slug)
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 1 || refs[0].Slug != slug {
		t.Errorf("refs = %+v", refs)
	}

	// Deleting the entry is always allowed; markup degrades to plain text.
	if err := svc.DeleteCodexEntry(entry.Slug); err != nil {
		t.Fatal(err)
	}
	out, err = svc.Annotate("Made of [[resin]].")
	if err != nil {
		t.Fatal(err)
	}
	if out != "Made of [[resin]]." {
		t.Errorf("annotated after delete = %q", out)
	}
}
