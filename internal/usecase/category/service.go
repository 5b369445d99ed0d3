package category

import (
	"context"
	"regexp"
	"strings"

	dom "example.com/storefront/internal/domain/category"
)

type Service struct {
	repo dom.Repository
}

func NewService(repo dom.Repository) *Service {
	return &Service{repo: repo}
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a category name.
func Slugify(name string) string {
	s := nonSlugChars.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

func (s *Service) Create(ctx context.Context, c *dom.Category) (*dom.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, dom.ErrCategoryInvalidName
	}
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	if !dom.ValidSlug(c.Slug) {
		return nil, dom.ErrCategoryInvalidSlug
	}
	c.IsActive = true
	return s.repo.Create(ctx, c)
}

type UpdateInput struct {
	ID          int64
	Name        *string
	Slug        *string
	Description *string
	Image       *string
	IsActive    *bool
}

func (s *Service) Update(ctx context.Context, in UpdateInput) (*dom.Category, error) {
	existed, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, dom.ErrCategoryInvalidName
		}
		existed.Name = name
	}
	if in.Slug != nil {
		if !dom.ValidSlug(*in.Slug) {
			return nil, dom.ErrCategoryInvalidSlug
		}
		existed.Slug = *in.Slug
	}
	if in.Description != nil {
		existed.Description = *in.Description
	}
	if in.Image != nil {
		existed.Image = *in.Image
	}
	if in.IsActive != nil {
		existed.IsActive = *in.IsActive
	}

	return s.repo.Update(ctx, existed)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*dom.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter dom.ListFilter) ([]*dom.Category, error) {
	return s.repo.List(ctx, filter)
}
