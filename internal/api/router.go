package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/halvard/vitrine/internal/catalog"
	"github.com/halvard/vitrine/internal/search"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// searchDB may be nil to disable the search endpoints.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// contentRoot is used to resolve image directories.
func NewRouter(svc *catalog.Service, searchDB *search.DB, authEnabled bool, token string, sseHandler http.Handler, contentRoot string) chi.Router {
	h := NewHandler(svc, searchDB)
	uh := NewUploadHandler(contentRoot, svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Categories.
	r.Get("/categories", h.ListCategories)
	r.Post("/categories", h.CreateCategory)
	r.Post("/categories/rename", h.RenameCategory)
	r.Get("/categories/{slug}", h.GetCategory)
	r.Put("/categories/{slug}", h.UpdateCategory)
	r.Delete("/categories/{slug}", h.DeleteCategory)
	r.Post("/categories/{slug}/icon", uh.UploadCategoryIcon)

	// Products.
	r.Get("/products", h.ListProducts)
	r.Post("/products", h.CreateProduct)
	r.Get("/products/{category}/{slug}", h.GetProduct)
	r.Put("/products/{category}/{slug}", h.UpdateProduct)
	r.Delete("/products/{category}/{slug}", h.DeleteProduct)
	r.Get("/products/{category}/{slug}/images", uh.ListProductImages)
	r.Post("/products/{category}/{slug}/images", uh.UploadProductImage)

	// Blog.
	r.Get("/blog", h.ListPosts)
	r.Post("/blog", h.CreatePost)
	r.Get("/blog/{slug}", h.GetPost)
	r.Put("/blog/{slug}", h.UpdatePost)
	r.Delete("/blog/{slug}", h.DeletePost)

	// Codex glossary.
	r.Get("/codex", h.ListCodexEntries)
	r.Post("/codex", h.CreateCodexEntry)
	r.Post("/codex/annotate", h.Annotate)
	r.Get("/codex/{slug}", h.GetCodexEntry)
	r.Put("/codex/{slug}", h.UpdateCodexEntry)
	r.Delete("/codex/{slug}", h.DeleteCodexEntry)
	r.Get("/codex/{slug}/references", h.CodexReferences)

	// Tags.
	r.Get("/tags", h.ListTags)
	r.Post("/tags/rename", h.RenameTag)
	r.Delete("/tags/{name}", h.DeleteTag)

	// Search.
	r.Get("/search", h.Search)
	r.Get("/autocomplete", h.Autocomplete)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}

// NewImageRouter serves uploaded media outside the auth group so the
// storefront can embed the URLs directly.
func NewImageRouter(svc *catalog.Service, contentRoot string) chi.Router {
	uh := NewUploadHandler(contentRoot, svc)

	r := chi.NewRouter()
	r.Get("/products/{category}/{slug}/{filename}", uh.ServeProductImage)
	r.Get("/categories/{slug}/{filename}", uh.ServeCategoryImage)
	return r
}
