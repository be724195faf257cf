// Package codex resolves [[Term]] references in markdown bodies against the
// glossary of codex entries. Matching is restricted to explicit double
// bracket markup; plain-text occurrences of titles or aliases are never
// linked automatically, which keeps short aliases from producing false
// positives on common words.
package codex

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/halvard/vitrine/internal/apperr"
	"github.com/halvard/vitrine/internal/models"
)

var wikilinkRe = regexp.MustCompile(`\[\[(.*?)\]\]`)

// Glossary maps normalized terms (lower-cased titles and aliases) to their
// entries. A Glossary is immutable once built.
type Glossary struct {
	byKey map[string]*models.CodexEntry
}

// BuildGlossary indexes entries by normalized title and aliases. Two
// entries claiming the same normalized term is a conflict naming both
// slugs; the glossary would be unreachable for one of them otherwise.
func BuildGlossary(entries []models.CodexEntry) (*Glossary, error) {
	g := &Glossary{byKey: make(map[string]*models.CodexEntry)}
	for i := range entries {
		e := &entries[i]
		for _, term := range append([]string{e.Title}, e.Aliases...) {
			key := Normalize(term)
			if key == "" {
				continue
			}
			if prev, dup := g.byKey[key]; dup && prev.Slug != e.Slug {
				return nil, apperr.Conflictf("term %q claimed by both %s and %s", term, prev.Slug, e.Slug)
			}
			g.byKey[key] = e
		}
	}
	return g, nil
}

// Normalize lower-cases and trims a term for case-insensitive matching.
func Normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// Resolve looks up a term against titles and aliases.
func (g *Glossary) Resolve(term string) (*models.CodexEntry, bool) {
	e, ok := g.byKey[Normalize(term)]
	return e, ok
}

// Annotate rewrites every resolvable [[Term]] (or [[Term|display]]) in body
// into a markdown link to the entry. Unresolved markup is left untouched so
// authors can reference entries that do not exist yet. The output contains
// no [[...]] for resolved terms, so annotating twice equals annotating once.
func (g *Glossary) Annotate(body string) string {
	return wikilinkRe.ReplaceAllStringFunc(body, func(m string) string {
		raw := strings.TrimSuffix(strings.TrimPrefix(m, "[["), "]]")
		term, display := raw, raw
		if i := strings.Index(raw, "|"); i >= 0 {
			term = raw[:i]
			display = raw[i+1:]
		}
		entry, ok := g.Resolve(term)
		if !ok {
			return m
		}
		return fmt.Sprintf("[%s](/codex/%s)", strings.TrimSpace(display), entry.Slug)
	})
}

// ExtractTerms returns the deduplicated [[Term]] targets in body, aliases
// stripped, in order of first occurrence.
func ExtractTerms(body string) []string {
	matches := wikilinkRe.FindAllStringSubmatch(body, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		target := m[1]
		if i := strings.Index(target, "|"); i >= 0 {
			target = target[:i]
		}
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out
}
