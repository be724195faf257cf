package catalog

import (
	"github.com/halvard/vitrine/internal/models"
)

// Posts lists blog posts, newest first.
func (s *Service) Posts() ([]models.BlogPost, error) {
	return s.store.ListPosts()
}

// Post returns one blog post by slug.
func (s *Service) Post(slug string) (*models.BlogPost, error) {
	return s.store.ReadPost(slug)
}

// CreatePost assigns a date-prefixed slug and writes the file.
func (s *Service) CreatePost(in PostInput) (*models.BlogPost, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	slug, err := s.store.NewPostSlug(in.Date, in.Title)
	if err != nil {
		return nil, err
	}
	p := &models.BlogPost{
		Slug:    slug,
		Title:   in.Title,
		Date:    in.Date,
		Author:  in.Author,
		Excerpt: in.Excerpt,
		Tags:    in.Tags,
		Body:    in.Body,
	}
	if err := s.store.WritePost(p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePost rewrites an existing post in place; the slug is stable even
// when the title or date changes.
func (s *Service) UpdatePost(slug string, in PostInput) (*models.BlogPost, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.store.ReadPost(slug); err != nil {
		return nil, err
	}
	p := &models.BlogPost{
		Slug:    slug,
		Title:   in.Title,
		Date:    in.Date,
		Author:  in.Author,
		Excerpt: in.Excerpt,
		Tags:    in.Tags,
		Body:    in.Body,
	}
	if err := s.store.WritePost(p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePost removes a blog post.
func (s *Service) DeletePost(slug string) error {
	return s.store.DeletePost(slug)
}
