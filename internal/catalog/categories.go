package catalog

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/halvard/vitrine/internal/apperr"
	"github.com/halvard/vitrine/internal/models"
)

// Categories lists every category, including ad-hoc entries synthesized
// from orphaned product references.
func (s *Service) Categories() ([]models.Category, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Categories(), nil
}

// Category returns one category by slug.
func (s *Service) Category(slug string) (*models.Category, error) {
	return s.store.ReadCategory(slug)
}

// CreateCategory assigns a slug from the name and writes the file. A
// category with the same display name is rejected; slug collisions are
// deduplicated with a numeric suffix.
func (s *Service) CreateCategory(in CategoryInput) (*models.Category, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	if _, err := snap.CategoryByName(in.Name); err == nil {
		return nil, fmt.Errorf("%w: category named %q", apperr.ErrAlreadyExists, in.Name)
	}
	slug, err := s.store.NewCategorySlug(in.Name)
	if err != nil {
		return nil, err
	}
	c := &models.Category{
		Slug:        slug,
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
		OrderWeight: in.OrderWeight,
	}
	if err := s.store.WriteCategory(c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCategory rewrites an existing category in place. Changing the name
// here does NOT cascade into products; use RenameCategory for that.
func (s *Service) UpdateCategory(slug string, in CategoryInput) (*models.Category, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	c, err := s.store.ReadCategory(slug)
	if err != nil {
		return nil, err
	}
	c.Name = in.Name
	c.Description = in.Description
	c.Icon = in.Icon
	c.OrderWeight = in.OrderWeight
	if err := s.store.WriteCategory(c); err != nil {
		return nil, err
	}
	return c, nil
}

// RenameCategory changes a category's display name and rewrites every
// product whose denormalized category equals the old name. Individual
// product failures do not stop the cascade and there is no rollback; the
// result carries the updated count and the identities that failed.
func (s *Service) RenameCategory(oldName, newName string) (models.CascadeResult, error) {
	var res models.CascadeResult
	if newName == "" {
		return res, apperr.Validationf("category rename needs a new name")
	}
	if oldName == newName {
		return res, nil
	}

	snap, err := s.Snapshot()
	if err != nil {
		return res, err
	}
	cat, err := snap.CategoryByName(oldName)
	if err != nil {
		return res, err
	}
	if _, lookupErr := snap.CategoryByName(newName); lookupErr == nil {
		return res, apperr.Conflictf("category named %q already exists", newName)
	}

	cat.Name = newName
	if err := s.store.WriteCategory(cat); err != nil {
		return res, err
	}

	for _, p := range snap.FindByCategory(oldName) {
		p.Category = newName
		if err := s.store.WriteProduct(&p); err != nil {
			s.logger.Warn("catalog: category cascade failed",
				slog.String("product", p.Ref().String()),
				slog.String("error", err.Error()))
			res.Failed = append(res.Failed, p.Ref().String())
			continue
		}
		res.Updated++
	}
	return res, nil
}

// DeleteCategory removes the category file. It is the one hard referential
// integrity gate in the system: deletion is rejected while any product
// still references the category by name.
func (s *Service) DeleteCategory(slug string) error {
	cat, err := s.store.ReadCategory(slug)
	if err != nil {
		return err
	}
	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	if members := snap.FindByCategory(cat.Name); len(members) > 0 {
		return apperr.Conflictf("category %q still has %d products", cat.Name, len(members))
	}
	if err := s.store.DeleteCategory(slug); err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	return nil
}
