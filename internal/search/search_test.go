package search_test

import (
	"testing"
	"time"

	"github.com/halvard/vitrine/internal/models"
	"github.com/halvard/vitrine/internal/search"
	"github.com/halvard/vitrine/internal/store"
	"github.com/halvard/vitrine/internal/testutil"
)

func TestUpsertAndChecksums(t *testing.T) {
	db := testutil.TestDB(t)

	row := search.ItemRow{
		Path: "products/figures/asuka", Kind: search.KindProduct,
		Category: "figures", Slug: "asuka", Title: "Asuka",
		Body: "resin kit", Checksum: "c1", UpdatedAt: time.Now(),
	}
	if err := db.Upsert(row); err != nil {
		t.Fatal(err)
	}
	// Upserting the same path replaces, never duplicates.
	row.Checksum = "c2"
	if err := db.Upsert(row); err != nil {
		t.Fatal(err)
	}

	sums, err := db.AllChecksums()
	if err != nil {
		t.Fatal(err)
	}
	if len(sums) != 1 || sums[row.Path] != "c2" {
		t.Errorf("checksums = %v", sums)
	}

	if err := db.Delete(row.Path); err != nil {
		t.Fatal(err)
	}
	sums, err = db.AllChecksums()
	if err != nil {
		t.Fatal(err)
	}
	if len(sums) != 0 {
		t.Errorf("checksums after delete = %v", sums)
	}
}

func TestSearchMatchesTitleNamesBody(t *testing.T) {
	db := testutil.TestDB(t)
	rows := []search.ItemRow{
		{Path: "products/figures/asuka", Kind: search.KindProduct, Category: "figures",
			Slug: "asuka", Title: "Asuka Kit", Names: "アスカ", Body: "cast in resin"},
		{Path: "blog/2026-01-01-news", Kind: search.KindPost,
			Slug: "2026-01-01-news", Title: "News", Body: "about resin casting"},
		{Path: "products/tools/cutter", Kind: search.KindProduct, Category: "tools",
			Slug: "cutter", Title: "Cutter", Body: "steel"},
	}
	for _, r := range rows {
		if err := db.Upsert(r); err != nil {
			t.Fatal(err)
		}
	}

	hits, err := db.Search("resin", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Fatalf("hits = %+v", hits)
	}

	hits, err = db.Search("アスカ", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Slug != "asuka" {
		t.Errorf("localized hit = %+v", hits)
	}

	hits, err = db.Search("nothing-here", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("hits = %+v", hits)
	}
}

func TestAutocompleteProductsOnly(t *testing.T) {
	db := testutil.TestDB(t)
	rows := []search.ItemRow{
		{Path: "products/figures/asuka", Kind: search.KindProduct, Category: "figures",
			Slug: "asuka", Title: "Asuka Kit", Image: "box.jpg"},
		{Path: "blog/2026-01-01-asuka", Kind: search.KindPost,
			Slug: "2026-01-01-asuka", Title: "Asuka Retrospective"},
	}
	for _, r := range rows {
		if err := db.Upsert(r); err != nil {
			t.Fatal(err)
		}
	}

	suggestions, err := db.Autocomplete("asuka", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("suggestions = %+v", suggestions)
	}
	if suggestions[0].Slug != "asuka" || suggestions[0].Image != "box.jpg" {
		t.Errorf("suggestion = %+v", suggestions[0])
	}
}

func TestSyncReconciles(t *testing.T) {
	db := testutil.TestDB(t)
	_, st := testutil.TestStore(t)

	if err := st.WriteCategory(&models.Category{Slug: "figures", Name: "Figures"}); err != nil {
		t.Fatal(err)
	}
	p := &models.Product{
		Slug: "asuka", CategorySlug: "figures", Category: "Figures",
		Title: "Asuka", Body: "resin kit",
	}
	if err := st.WriteProduct(p); err != nil {
		t.Fatal(err)
	}
	if err := st.WritePost(&models.BlogPost{
		Slug: "2026-01-01-news", Title: "News", Date: "2026-01-01", Body: "hello",
	}); err != nil {
		t.Fatal(err)
	}

	if err := search.Sync(db, st, testutil.Logger()); err != nil {
		t.Fatal(err)
	}
	sums, err := db.AllChecksums()
	if err != nil {
		t.Fatal(err)
	}
	if len(sums) != 2 {
		t.Fatalf("checksums = %v", sums)
	}
	productPath := store.ProductDocPath("figures", "asuka")
	before, ok := sums[productPath]
	if !ok {
		t.Fatalf("product not indexed: %v", sums)
	}

	// Unchanged content keeps its checksum across syncs.
	if err := search.Sync(db, st, testutil.Logger()); err != nil {
		t.Fatal(err)
	}
	sums, err = db.AllChecksums()
	if err != nil {
		t.Fatal(err)
	}
	if sums[productPath] != before {
		t.Error("checksum changed without an edit")
	}

	// An edit changes the checksum, a delete drops the row.
	p.Body = "recast in pvc"
	if err := st.WriteProduct(p); err != nil {
		t.Fatal(err)
	}
	if err := st.DeletePost("2026-01-01-news"); err != nil {
		t.Fatal(err)
	}
	if err := search.Sync(db, st, testutil.Logger()); err != nil {
		t.Fatal(err)
	}
	sums, err = db.AllChecksums()
	if err != nil {
		t.Fatal(err)
	}
	if len(sums) != 1 {
		t.Fatalf("checksums = %v", sums)
	}
	if sums[productPath] == before {
		t.Error("checksum did not change after edit")
	}

	hits, err := db.Search("pvc", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Slug != "asuka" {
		t.Errorf("hits = %+v", hits)
	}
}
