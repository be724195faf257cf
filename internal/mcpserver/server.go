// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes catalog tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/halvard/vitrine/internal/catalog"
	"github.com/halvard/vitrine/internal/search"
)

// Server wraps the MCP server with catalog tools.
type Server struct {
	mcp      *server.MCPServer
	svc      *catalog.Service
	searchDB *search.DB // nil when the search index is disabled
}

// New creates a new MCP server with all catalog tools registered.
func New(svc *catalog.Service, searchDB *search.DB) *Server {
	s := &Server{svc: svc, searchDB: searchDB}

	s.mcp = server.NewMCPServer(
		"Vitrine",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_products",
		mcp.WithDescription("Search products by title, localized name or description."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchProducts)

	s.mcp.AddTool(mcp.NewTool("get_product",
		mcp.WithDescription("Read one product with its full description and tags."),
		mcp.WithString("category", mcp.Required(), mcp.Description("Category slug the product lives in")),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Product slug")),
	), s.getProduct)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List all catalog categories in display order."),
	), s.listCategories)

	s.mcp.AddTool(mcp.NewTool("lookup_codex",
		mcp.WithDescription("Look up a glossary term (title or alias) in the codex."),
		mcp.WithString("term", mcp.Required(), mcp.Description("Term to resolve, case-insensitive")),
	), s.lookupCodex)

	s.mcp.AddTool(mcp.NewTool("codex_references",
		mcp.WithDescription("List the products and blog posts whose bodies reference a codex entry."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Codex entry slug")),
	), s.codexReferences)

	s.mcp.AddTool(mcp.NewTool("get_content_contract",
		mcp.WithDescription("Returns the canonical Vitrine content format contract. "+
			"Call this before creating or editing content files to ensure correct structure."),
	), s.getContentContract)

	s.mcp.AddTool(mcp.NewTool("upload_product_image",
		mcp.WithDescription("Download an image from a URL or data URI and attach it to a product. "+
			"The first attached image becomes the product thumbnail."),
		mcp.WithString("category", mcp.Required(), mcp.Description("Category slug the product lives in")),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Product slug")),
		mcp.WithString("url", mcp.Required(), mcp.Description("HTTP(S) URL or base64 data URI of the image")),
		mcp.WithString("filename", mcp.Description("Optional filename override")),
	), s.uploadProductImage)

	// Resource: content format contract.
	s.mcp.AddResource(
		mcp.NewResource("vitrine://content-format", "Content Format Contract",
			mcp.WithResourceDescription("Canonical content file formats that all catalog files must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContractResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchProducts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if s.searchDB != nil {
		results, err := s.searchDB.Search(query, 20)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out, _ := json.MarshalIndent(results, "", "  ")
		return mcp.NewToolResultText(string(out)), nil
	}
	// No search index; fall back to an in-memory scan.
	products, err := s.svc.Products(catalog.Filter{Search: query})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(products, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getProduct(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	catSlug, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := s.svc.Product(catSlug, slug)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s/%s", catSlug, slug)), nil
	}
	out, _ := json.MarshalIndent(p, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cats, err := s.svc.Categories()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(cats, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) lookupCodex(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	term, err := req.RequireString("term")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	gl, err := s.svc.Codex().Glossary()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	entry, ok := gl.Resolve(term)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no codex entry for %q", term)), nil
	}
	out, _ := json.MarshalIndent(entry, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) codexReferences(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	refs, err := s.svc.CodexReferences(slug)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(refs) == 0 {
		return mcp.NewToolResultText("no references found"), nil
	}
	var lines []string
	for _, r := range refs {
		if r.Kind == "product" {
			lines = append(lines, fmt.Sprintf("product %s/%s: %s", r.CategorySlug, r.Slug, r.Title))
		} else {
			lines = append(lines, fmt.Sprintf("%s %s: %s", r.Kind, r.Slug, r.Title))
		}
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getContentContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ContentFormatContract), nil
}

func (s *Server) readContractResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "vitrine://content-format",
			MIMEType: "text/markdown",
			Text:     ContentFormatContract,
		},
	}, nil
}
