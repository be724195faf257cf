package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/halvard/vitrine/internal/api"
	"github.com/halvard/vitrine/internal/catalog"
	"github.com/halvard/vitrine/internal/testutil"
)

func newServer(t *testing.T, authEnabled bool, token string) (*httptest.Server, *catalog.Service) {
	t.Helper()
	dir, st := testutil.TestStore(t)
	svc := catalog.New(st, testutil.Logger())
	srv := httptest.NewServer(api.NewRouter(svc, nil, authEnabled, token, nil, dir))
	t.Cleanup(srv.Close)
	return srv, svc
}

func doJSON(t *testing.T, method, url, token string, body any) (int, []byte) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, buf)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, data
}

func TestAuth(t *testing.T) {
	srv, _ := newServer(t, true, "secret")

	status, _ := doJSON(t, http.MethodGet, srv.URL+"/categories", "", nil)
	if status != http.StatusUnauthorized {
		t.Errorf("no token: %d", status)
	}
	status, _ = doJSON(t, http.MethodGet, srv.URL+"/categories", "wrong", nil)
	if status != http.StatusUnauthorized {
		t.Errorf("bad token: %d", status)
	}
	status, _ = doJSON(t, http.MethodGet, srv.URL+"/categories", "secret", nil)
	if status != http.StatusOK {
		t.Errorf("good token: %d", status)
	}
}

func TestAuthDisabled(t *testing.T) {
	srv, _ := newServer(t, false, "")
	status, _ := doJSON(t, http.MethodGet, srv.URL+"/categories", "", nil)
	if status != http.StatusOK {
		t.Errorf("status = %d", status)
	}
}

func TestCategoryCRUD(t *testing.T) {
	srv, _ := newServer(t, false, "")

	status, body := doJSON(t, http.MethodPost, srv.URL+"/categories",
		"", map[string]any{"name": "Figures", "order_weight": 2})
	if status != http.StatusCreated {
		t.Fatalf("create: %d %s", status, body)
	}
	var created struct {
		Slug string `json:"slug"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatal(err)
	}
	if created.Slug != "figures" {
		t.Errorf("slug = %q", created.Slug)
	}

	status, _ = doJSON(t, http.MethodPost, srv.URL+"/categories",
		"", map[string]any{"name": "Figures"})
	if status != http.StatusConflict {
		t.Errorf("duplicate name: %d", status)
	}

	status, _ = doJSON(t, http.MethodPost, srv.URL+"/categories", "", map[string]any{})
	if status != http.StatusBadRequest {
		t.Errorf("missing name: %d", status)
	}

	status, _ = doJSON(t, http.MethodGet, srv.URL+"/categories/figures", "", nil)
	if status != http.StatusOK {
		t.Errorf("get: %d", status)
	}
	status, _ = doJSON(t, http.MethodGet, srv.URL+"/categories/nope", "", nil)
	if status != http.StatusNotFound {
		t.Errorf("get missing: %d", status)
	}

	status, _ = doJSON(t, http.MethodDelete, srv.URL+"/categories/figures", "", nil)
	if status != http.StatusNoContent {
		t.Errorf("delete: %d", status)
	}
}

func TestProductLifecycle(t *testing.T) {
	srv, _ := newServer(t, false, "")

	doJSON(t, http.MethodPost, srv.URL+"/categories", "", map[string]any{"name": "Figures"})

	status, body := doJSON(t, http.MethodPost, srv.URL+"/products", "", map[string]any{
		"category":    "figures",
		"title":       "Asuka Model Kit",
		"price":       120,
		"tags":        []string{"resin"},
		"description": "Cast in [[Resin]].",
	})
	if status != http.StatusCreated {
		t.Fatalf("create: %d %s", status, body)
	}

	status, body = doJSON(t, http.MethodGet, srv.URL+"/products?tag=resin", "", nil)
	if status != http.StatusOK {
		t.Fatalf("list: %d", status)
	}
	var list struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatal(err)
	}
	if list.Total != 1 {
		t.Errorf("total = %d", list.Total)
	}

	// HTML rendering links codex terms once an entry exists.
	doJSON(t, http.MethodPost, srv.URL+"/codex", "", map[string]any{"title": "Resin"})
	status, body = doJSON(t, http.MethodGet,
		srv.URL+"/products/figures/asuka-model-kit?render=html", "", nil)
	if status != http.StatusOK {
		t.Fatalf("render: %d", status)
	}
	var detail struct {
		HTML string `json:"html"`
	}
	if err := json.Unmarshal(body, &detail); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(detail.HTML, `href="/codex/resin"`) {
		t.Errorf("html = %q", detail.HTML)
	}

	status, _ = doJSON(t, http.MethodPut, srv.URL+"/products/figures/asuka-model-kit",
		"", map[string]any{"title": "Asuka Deluxe", "price": 150})
	if status != http.StatusOK {
		t.Errorf("update: %d", status)
	}

	status, _ = doJSON(t, http.MethodDelete, srv.URL+"/products/figures/asuka-model-kit", "", nil)
	if status != http.StatusNoContent {
		t.Errorf("delete: %d", status)
	}
	status, _ = doJSON(t, http.MethodGet, srv.URL+"/products/figures/asuka-model-kit", "", nil)
	if status != http.StatusNotFound {
		t.Errorf("get after delete: %d", status)
	}
}

func TestRenameCategoryEndpoint(t *testing.T) {
	srv, svc := newServer(t, false, "")

	doJSON(t, http.MethodPost, srv.URL+"/categories", "", map[string]any{"name": "Figures"})
	doJSON(t, http.MethodPost, srv.URL+"/products", "",
		map[string]any{"category": "figures", "title": "Asuka"})

	status, body := doJSON(t, http.MethodPost, srv.URL+"/categories/rename",
		"", map[string]any{"old_name": "Figures", "new_name": "Garage Kits"})
	if status != http.StatusOK {
		t.Fatalf("rename: %d %s", status, body)
	}
	var res struct {
		Updated int `json:"updated"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatal(err)
	}
	if res.Updated != 1 {
		t.Errorf("updated = %d", res.Updated)
	}
	p, err := svc.Product("figures", "asuka")
	if err != nil {
		t.Fatal(err)
	}
	if p.Category != "Garage Kits" {
		t.Errorf("category = %q", p.Category)
	}

	status, _ = doJSON(t, http.MethodPost, srv.URL+"/categories/rename",
		"", map[string]any{"old_name": "Nope", "new_name": "X"})
	if status != http.StatusNotFound {
		t.Errorf("unknown old name: %d", status)
	}
}

func TestDeleteCategoryConflict(t *testing.T) {
	srv, _ := newServer(t, false, "")
	doJSON(t, http.MethodPost, srv.URL+"/categories", "", map[string]any{"name": "Figures"})
	doJSON(t, http.MethodPost, srv.URL+"/products", "",
		map[string]any{"category": "figures", "title": "Asuka"})

	status, _ := doJSON(t, http.MethodDelete, srv.URL+"/categories/figures", "", nil)
	if status != http.StatusConflict {
		t.Errorf("delete with members: %d", status)
	}
}

func TestBlogEndpoints(t *testing.T) {
	srv, _ := newServer(t, false, "")

	status, body := doJSON(t, http.MethodPost, srv.URL+"/blog", "", map[string]any{
		"title": "Big News", "date": "2026-01-05", "content": "Hello.",
	})
	if status != http.StatusCreated {
		t.Fatalf("create: %d %s", status, body)
	}
	var post struct {
		Slug string `json:"slug"`
	}
	if err := json.Unmarshal(body, &post); err != nil {
		t.Fatal(err)
	}
	if post.Slug != "2026-01-05-big-news" {
		t.Errorf("slug = %q", post.Slug)
	}

	status, _ = doJSON(t, http.MethodPost, srv.URL+"/blog",
		"", map[string]any{"title": "No Date"})
	if status != http.StatusBadRequest {
		t.Errorf("missing date: %d", status)
	}

	status, _ = doJSON(t, http.MethodGet, srv.URL+"/blog/"+post.Slug, "", nil)
	if status != http.StatusOK {
		t.Errorf("get: %d", status)
	}
}

func TestAnnotateEndpoint(t *testing.T) {
	srv, _ := newServer(t, false, "")
	doJSON(t, http.MethodPost, srv.URL+"/codex", "",
		map[string]any{"title": "Resin", "aliases": []string{"resin kit"}})

	status, body := doJSON(t, http.MethodPost, srv.URL+"/codex/annotate",
		"", map[string]any{"content": "Made of [[resin kit]] and [[Unknown]]."})
	if status != http.StatusOK {
		t.Fatalf("annotate: %d %s", status, body)
	}
	var out struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	want := "Made of [resin kit](/codex/resin) and [[Unknown]]."
	if out.Content != want {
		t.Errorf("content = %q", out.Content)
	}
}

func TestTagEndpoints(t *testing.T) {
	srv, svc := newServer(t, false, "")
	doJSON(t, http.MethodPost, srv.URL+"/categories", "", map[string]any{"name": "Figures"})
	doJSON(t, http.MethodPost, srv.URL+"/products", "",
		map[string]any{"category": "figures", "title": "Asuka", "tags": []string{"resin"}})

	status, body := doJSON(t, http.MethodGet, srv.URL+"/tags", "", nil)
	if status != http.StatusOK {
		t.Fatalf("list: %d", status)
	}
	if !strings.Contains(string(body), `"resin"`) {
		t.Errorf("body = %s", body)
	}

	status, _ = doJSON(t, http.MethodPost, srv.URL+"/tags/rename",
		"", map[string]any{"old_name": "resin", "new_name": "resin-cast"})
	if status != http.StatusOK {
		t.Errorf("rename: %d", status)
	}
	p, err := svc.Product("figures", "asuka")
	if err != nil {
		t.Fatal(err)
	}
	if !p.HasTag("resin-cast") {
		t.Errorf("tags = %v", p.Tags)
	}

	status, _ = doJSON(t, http.MethodDelete, srv.URL+"/tags/resin-cast", "", nil)
	if status != http.StatusOK {
		t.Errorf("delete: %d", status)
	}
	p, err = svc.Product("figures", "asuka")
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Tags) != 0 {
		t.Errorf("tags = %v", p.Tags)
	}
}

func TestImageUploadAndList(t *testing.T) {
	srv, svc := newServer(t, false, "")
	doJSON(t, http.MethodPost, srv.URL+"/categories", "", map[string]any{"name": "Figures"})
	doJSON(t, http.MethodPost, srv.URL+"/products", "",
		map[string]any{"category": "figures", "title": "Asuka"})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "box.png")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte("not-really-a-png")); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req, err := http.NewRequest(http.MethodPost,
		srv.URL+"/products/figures/asuka/images", &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload: %d", resp.StatusCode)
	}

	p, err := svc.Product("figures", "asuka")
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Images) != 1 || p.Images[0] != "box.png" {
		t.Errorf("images = %v", p.Images)
	}

	status, body := doJSON(t, http.MethodGet, srv.URL+"/products/figures/asuka/images", "", nil)
	if status != http.StatusOK {
		t.Fatalf("list: %d", status)
	}
	var listed struct {
		Images []string `json:"images"`
	}
	if err := json.Unmarshal(body, &listed); err != nil {
		t.Fatal(err)
	}
	if len(listed.Images) != 1 || listed.Images[0] != "box.png" {
		t.Errorf("listed = %v", listed.Images)
	}

	status, _ = doJSON(t, http.MethodGet, srv.URL+"/products/figures/nope/images", "", nil)
	if status != http.StatusNotFound {
		t.Errorf("missing product: %d", status)
	}
}

func TestUploadRejectsPathTraversal(t *testing.T) {
	dir, st := testutil.TestStore(t)
	svc := catalog.New(st, testutil.Logger())
	srv := httptest.NewServer(api.NewRouter(svc, nil, false, "", nil, dir))
	t.Cleanup(srv.Close)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "evil.png")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte("payload")); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	// chi passes ".." URL params through uncleaned, so a raw request can
	// try to climb out of the content root.
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/products/../../images", &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("upload with dot segments: %d", resp.StatusCode)
	}
	outside := filepath.Join(dir, "..", "images", "evil.png")
	if _, err := os.Stat(outside); !os.IsNotExist(err) {
		t.Errorf("file planted outside content root at %s", outside)
	}

	req, err = http.NewRequest(http.MethodGet, srv.URL+"/products/../../images", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("list with dot segments: %d", resp.StatusCode)
	}
}

func TestUploadRequiresExistingProduct(t *testing.T) {
	srv, _ := newServer(t, false, "")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "box.png")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte("payload")); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/products/figures/ghost/images", &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("upload to missing product: %d", resp.StatusCode)
	}
}

func TestSearchDisabled(t *testing.T) {
	srv, _ := newServer(t, false, "")
	status, _ := doJSON(t, http.MethodGet, srv.URL+"/search?q=x", "", nil)
	if status != http.StatusServiceUnavailable {
		t.Errorf("search: %d", status)
	}
	status, _ = doJSON(t, http.MethodGet, srv.URL+"/autocomplete?q=x", "", nil)
	if status != http.StatusServiceUnavailable {
		t.Errorf("autocomplete: %d", status)
	}
}

func TestInvalidJSONBody(t *testing.T) {
	srv, _ := newServer(t, false, "")
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/categories",
		strings.NewReader("{not json"))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", resp.StatusCode)
	}
}
