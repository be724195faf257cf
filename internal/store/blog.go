package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/halvard/vitrine/internal/apperr"
	"github.com/halvard/vitrine/internal/models"
)

type postFrontmatter struct {
	Title   string   `yaml:"title"`
	Date    string   `yaml:"date"`
	Author  string   `yaml:"author,omitempty"`
	Excerpt string   `yaml:"excerpt,omitempty"`
	Tags    []string `yaml:"tags"`
}

// PostDocPath returns the file path for a blog post slug.
func PostDocPath(slug string) string {
	return path.Join("blog", slug+".md")
}

// ReadPost loads one blog post by slug.
func (s *Store) ReadPost(slug string) (*models.BlogPost, error) {
	docPath := PostDocPath(slug)
	data, err := s.fs.Read(docPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.NotFoundf("post %s", slug)
		}
		return nil, err
	}
	mod, _ := s.fs.ModTime(docPath)

	var fm postFrontmatter
	body, err := decodeDoc(data, &fm)
	if err != nil {
		return nil, apperr.Validationf("post %s: %v", slug, err)
	}
	if fm.Title == "" {
		return nil, apperr.Validationf("post %s: missing title", slug)
	}
	excerpt := fm.Excerpt
	if excerpt == "" && len(body) > 0 {
		excerpt = truncateExcerpt(body, 200)
	}
	return &models.BlogPost{
		Slug:      slug,
		Title:     fm.Title,
		Date:      fm.Date,
		Author:    fm.Author,
		Excerpt:   excerpt,
		Tags:      dedupeTags(fm.Tags),
		Body:      body,
		UpdatedAt: mod,
	}, nil
}

// truncateExcerpt cuts s to at most max bytes, backing up to a rune
// boundary so multi-byte text is never split mid-sequence.
func truncateExcerpt(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// WritePost persists a blog post file.
func (s *Store) WritePost(p *models.BlogPost) error {
	fm := postFrontmatter{
		Title:   p.Title,
		Date:    p.Date,
		Author:  p.Author,
		Excerpt: p.Excerpt,
		Tags:    emptyIfNil(p.Tags),
	}
	doc, err := encodeDoc(fm, p.Body)
	if err != nil {
		return fmt.Errorf("store: post %s: %w", p.Slug, err)
	}
	return s.fs.Write(PostDocPath(p.Slug), doc)
}

// DeletePost removes a blog post file.
func (s *Store) DeletePost(slug string) error {
	if err := s.fs.Delete(PostDocPath(slug)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperr.NotFoundf("post %s", slug)
		}
		return err
	}
	return nil
}

// ListPosts re-scans the blog directory, newest first.
func (s *Store) ListPosts() ([]models.BlogPost, error) {
	metas, err := s.fs.List("blog", ".md")
	if err != nil {
		return nil, err
	}
	out := make([]models.BlogPost, 0, len(metas))
	for _, m := range metas {
		slug := strings.TrimSuffix(path.Base(m.Path), ".md")
		p, err := s.ReadPost(slug)
		if err != nil {
			s.logger.Warn("store: skipping post",
				slog.String("path", m.Path),
				slog.String("error", err.Error()))
			continue
		}
		out = append(out, *p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Slug < out[j].Slug
	})
	return out, nil
}

// NewPostSlug derives a date-prefixed slug for a blog post title, unique
// within the blog directory.
func (s *Store) NewPostSlug(date, title string) (string, error) {
	base, err := Slugify(title)
	if err != nil {
		return "", err
	}
	if date != "" {
		base = date + "-" + base
	}
	return dedupeSlug(base, func(candidate string) bool {
		return s.fs.Exists(PostDocPath(candidate))
	}), nil
}
