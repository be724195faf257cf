package store

import (
	"fmt"

	"github.com/goliatone/go-slug"

	"github.com/halvard/vitrine/internal/apperr"
)

// Slugify normalizes a title into a URL-safe slug.
func Slugify(title string) (string, error) {
	s, err := slug.Normalize(title)
	if err != nil || s == "" {
		return "", apperr.Validationf("cannot derive slug from %q", title)
	}
	return s, nil
}

// dedupeSlug returns base if it is free, otherwise base-2, base-3, … Slugs
// are assigned once at creation time and never change afterwards.
func dedupeSlug(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if !taken(candidate) {
			return candidate
		}
	}
}
