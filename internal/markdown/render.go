// Package markdown renders content bodies to HTML for the storefront.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// engine is stateless and safe for concurrent use, so a single shared
// instance serves all requests.
var engine = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Linkify),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// Render converts a markdown body to HTML. Raw HTML in the source is
// escaped; content files are author-supplied but served to the storefront.
func Render(body string) (string, error) {
	var buf bytes.Buffer
	if err := engine.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("markdown: render: %w", err)
	}
	return buf.String(), nil
}
