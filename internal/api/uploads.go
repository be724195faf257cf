package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/halvard/vitrine/internal/catalog"
	"github.com/halvard/vitrine/internal/store"
)

const maxUploadBytes = 50 << 20 // 50 MB

// allowedUploadExts is the extension allowlist for product media and
// category icons. Video formats are included for product showcase clips.
var allowedUploadExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".webm": true,
}

// UploadHandler accepts and serves content media files under the
// content root.
type UploadHandler struct {
	contentRoot string
	svc         *catalog.Service
}

// NewUploadHandler creates a handler rooted at the content directory.
func NewUploadHandler(contentRoot string, svc *catalog.Service) *UploadHandler {
	return &UploadHandler{contentRoot: contentRoot, svc: svc}
}

// safeName validates that the filename is a plain name with an allowed
// extension and returns the cleaned name.
func safeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("filename is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid filename: %s", name)
	}
	if !allowedUploadExts[strings.ToLower(filepath.Ext(cleaned))] {
		return "", fmt.Errorf("file type not allowed: %s", name)
	}
	return cleaned, nil
}

// safeSegment validates one URL path parameter (category or slug). chi
// does not clean dot segments, so a raw param can carry ".." and walk
// out of the content root when joined into a destination path.
func safeSegment(s string) (string, error) {
	if s == "" || s == "." || s == ".." || strings.ContainsAny(s, `/\`) {
		return "", fmt.Errorf("invalid path segment: %q", s)
	}
	return s, nil
}

// resolveDir joins a content-relative directory onto the content root and
// verifies the cleaned result is still under it.
func (h *UploadHandler) resolveDir(relDir string) (string, error) {
	root := filepath.Clean(h.contentRoot)
	abs := filepath.Join(root, filepath.FromSlash(relDir))
	if abs != root && !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes content root: %s", relDir)
	}
	return abs, nil
}

// uploadParams validates the category and slug URL params.
func uploadParams(r *http.Request) (string, string, error) {
	catSlug, err := safeSegment(chi.URLParam(r, "category"))
	if err != nil {
		return "", "", err
	}
	slug, err := safeSegment(chi.URLParam(r, "slug"))
	if err != nil {
		return "", "", err
	}
	return catSlug, slug, nil
}

// UploadProductImage handles POST /api/products/{category}/{slug}/images
// (multipart/form-data, field "file"). The filename is appended to the
// product's image list; the first upload becomes the thumbnail. The
// product must exist before any byte is written.
func (h *UploadHandler) UploadProductImage(w http.ResponseWriter, r *http.Request) {
	catSlug, slug, err := uploadParams(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if _, err := h.svc.Product(catSlug, slug); err != nil {
		writeErr(w, err)
		return
	}

	name, err := h.receiveFile(w, r, store.ProductImagesDir(catSlug, slug))
	if err != nil {
		return // receiveFile already wrote the response
	}

	p, err := h.svc.AppendProductImage(catSlug, slug, name)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"filename": name,
		"url":      fmt.Sprintf("/images/products/%s/%s/%s", catSlug, slug, name),
		"images":   p.Images,
	})
}

// UploadCategoryIcon handles POST /api/categories/{slug}/icon. The
// uploaded filename replaces the category's icon.
func (h *UploadHandler) UploadCategoryIcon(w http.ResponseWriter, r *http.Request) {
	slug, err := safeSegment(chi.URLParam(r, "slug"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	cat, err := h.svc.Category(slug)
	if err != nil {
		writeErr(w, err)
		return
	}

	name, err := h.receiveFile(w, r, store.CategoryImagesDir(slug))
	if err != nil {
		return
	}

	updated, err := h.svc.UpdateCategory(slug, catalog.CategoryInput{
		Name:        cat.Name,
		Description: cat.Description,
		Icon:        name,
		OrderWeight: cat.OrderWeight,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"filename": name,
		"url":      fmt.Sprintf("/images/categories/%s/%s", slug, name),
		"icon":     updated.Icon,
	})
}

// receiveFile reads the multipart "file" field and stores it under the
// given content-relative directory. On failure the HTTP response has
// already been written.
func (h *UploadHandler) receiveFile(w http.ResponseWriter, r *http.Request, relDir string) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return "", err
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return "", err
	}
	defer file.Close()

	name, err := safeName(header.Filename)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return "", err
	}

	dir, err := h.resolveDir(relDir)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to create images dir"))
		return "", err
	}

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to create file"))
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to write file"))
		return "", err
	}
	return name, nil
}

// ListProductImages handles GET /api/products/{category}/{slug}/images.
// It scans the on-disk images directory rather than the product's image
// list, so files copied in by hand show up too.
func (h *UploadHandler) ListProductImages(w http.ResponseWriter, r *http.Request) {
	catSlug, slug, err := uploadParams(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	if _, err := h.svc.Product(catSlug, slug); err != nil {
		writeErr(w, err)
		return
	}

	dir, err := h.resolveDir(store.ProductImagesDir(catSlug, slug))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to read images dir"))
		return
	}
	files := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := safeName(e.Name()); err != nil {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	writeJSON(w, http.StatusOK, map[string]any{"images": files})
}

// ServeProductImage handles GET /images/products/{category}/{slug}/{filename}.
func (h *UploadHandler) ServeProductImage(w http.ResponseWriter, r *http.Request) {
	catSlug, slug, err := uploadParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	name, err := safeName(chi.URLParam(r, "filename"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.serve(w, r, store.ProductImagesDir(catSlug, slug), name)
}

// ServeCategoryImage handles GET /images/categories/{slug}/{filename}.
func (h *UploadHandler) ServeCategoryImage(w http.ResponseWriter, r *http.Request) {
	slug, err := safeSegment(chi.URLParam(r, "slug"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	name, err := safeName(chi.URLParam(r, "filename"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.serve(w, r, store.CategoryImagesDir(slug), name)
}

func (h *UploadHandler) serve(w http.ResponseWriter, r *http.Request, relDir, name string) {
	dir, err := h.resolveDir(relDir)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	abs := filepath.Join(dir, name)
	if _, err := os.Stat(abs); os.IsNotExist(err) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}
