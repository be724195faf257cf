package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/halvard/vitrine/internal/apperr"
	"github.com/halvard/vitrine/internal/models"
)

type categoryFrontmatter struct {
	Name        string  `yaml:"name"`
	OrderWeight float64 `yaml:"order_weight"`
	Icon        string  `yaml:"icon,omitempty"`
}

// CategoryDocPath returns the category.md path for a category slug.
func CategoryDocPath(slug string) string {
	return path.Join("categories", slug, "category.md")
}

// CategoryImagesDir returns the icon upload directory for a category slug.
func CategoryImagesDir(slug string) string {
	return path.Join("categories", slug, "images")
}

// ReadCategory loads one category by slug. The description is the body.
func (s *Store) ReadCategory(slug string) (*models.Category, error) {
	docPath := CategoryDocPath(slug)
	data, err := s.fs.Read(docPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.NotFoundf("category %s", slug)
		}
		return nil, err
	}
	mod, _ := s.fs.ModTime(docPath)

	var fm categoryFrontmatter
	body, err := decodeDoc(data, &fm)
	if err != nil {
		return nil, apperr.Validationf("category %s: %v", slug, err)
	}
	if fm.Name == "" {
		return nil, apperr.Validationf("category %s: missing name", slug)
	}
	return &models.Category{
		Slug:        slug,
		Name:        fm.Name,
		Description: body,
		Icon:        fm.Icon,
		OrderWeight: fm.OrderWeight,
		UpdatedAt:   mod,
	}, nil
}

// WriteCategory persists a category file.
func (s *Store) WriteCategory(c *models.Category) error {
	fm := categoryFrontmatter{
		Name:        c.Name,
		OrderWeight: c.OrderWeight,
		Icon:        c.Icon,
	}
	doc, err := encodeDoc(fm, c.Description)
	if err != nil {
		return fmt.Errorf("store: category %s: %w", c.Slug, err)
	}
	return s.fs.Write(CategoryDocPath(c.Slug), doc)
}

// DeleteCategory removes the category directory. The caller is responsible
// for the member guard; the store only handles files.
func (s *Store) DeleteCategory(slug string) error {
	if err := s.fs.RemoveAll(path.Join("categories", slug)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperr.NotFoundf("category %s", slug)
		}
		return err
	}
	return nil
}

// ListCategories re-scans the categories tree, sorted by descending order
// weight then name. Invalid files are skipped with a warning.
func (s *Store) ListCategories() ([]models.Category, error) {
	metas, err := s.fs.List("categories", "category.md")
	if err != nil {
		return nil, err
	}
	out := make([]models.Category, 0, len(metas))
	for _, m := range metas {
		parts := strings.Split(m.Path, "/")
		if len(parts) != 3 {
			continue
		}
		c, err := s.ReadCategory(parts[1])
		if err != nil {
			s.logger.Warn("store: skipping category",
				slog.String("path", m.Path),
				slog.String("error", err.Error()))
			continue
		}
		out = append(out, *c)
	}
	SortCategories(out)
	return out, nil
}

// NewCategorySlug derives a fresh slug for a category name, unique among
// category directories.
func (s *Store) NewCategorySlug(name string) (string, error) {
	base, err := Slugify(name)
	if err != nil {
		return "", err
	}
	return dedupeSlug(base, func(candidate string) bool {
		return s.fs.Exists(path.Join("categories", candidate))
	}), nil
}

// SortCategories orders categories by descending order weight then name.
func SortCategories(cs []models.Category) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].OrderWeight != cs[j].OrderWeight {
			return cs[i].OrderWeight > cs[j].OrderWeight
		}
		return strings.ToLower(cs[i].Name) < strings.ToLower(cs[j].Name)
	})
}
