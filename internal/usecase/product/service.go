package product

import (
	"context"
	"fmt"
	"strings"

	domcategory "example.com/storefront/internal/domain/category"
	dom "example.com/storefront/internal/domain/product"
	domuser "example.com/storefront/internal/domain/user"
)

type CategoryRepository interface {
	GetByID(ctx context.Context, id int64) (*domcategory.Category, error)
}

type Service struct {
	repo       dom.Repository
	categories CategoryRepository
}

func NewService(repo dom.Repository, categories CategoryRepository) *Service {
	return &Service{repo: repo, categories: categories}
}

// Actor is the signed-in account managing listings.
type Actor struct {
	UserID int64
	Role   domuser.Role
}

type CreateInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int64
	Image       string
	Images      []string
	CategoryID  int64
}

type UpdateInput struct {
	ID          int64
	Name        *string
	Description *string
	Price       *float64
	Stock       *int64
	Image       *string
	Images      []string
	CategoryID  *int64
	IsActive    *bool
}

func (s *Service) Create(ctx context.Context, actor Actor, in CreateInput) (*dom.Product, error) {
	if !actor.Role.CanSell() {
		return nil, domuser.ErrUnauthorized
	}
	p := &dom.Product{
		SellerID:    actor.UserID,
		CategoryID:  in.CategoryID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Image:       in.Image,
		Images:      in.Images,
		IsActive:    true,
	}
	if err := s.validate(ctx, p); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Update(ctx context.Context, actor Actor, in UpdateInput) (*dom.Product, error) {
	p, err := s.owned(ctx, actor, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	if in.Images != nil {
		p.Images = in.Images
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}

	if err := s.validate(ctx, p); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, actor Actor, id int64) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// GetByID returns a product as shown in the public catalog; inactive listings
// are hidden.
func (s *Service) GetByID(ctx context.Context, id int64) (*dom.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, dom.ErrProductNotFound
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, filter dom.ListFilter) ([]*dom.Product, error) {
	return s.repo.List(ctx, filter)
}

// ListMine returns the caller's own listings, active or not.
func (s *Service) ListMine(ctx context.Context, actor Actor) ([]*dom.Product, error) {
	if !actor.Role.CanSell() {
		return nil, domuser.ErrUnauthorized
	}
	return s.repo.List(ctx, dom.ListFilter{SellerID: &actor.UserID})
}

// owned loads id and checks the actor may manage it: sellers their own
// listings, admins any listing.
func (s *Service) owned(ctx context.Context, actor Actor, id int64) (*dom.Product, error) {
	if !actor.Role.CanSell() {
		return nil, domuser.ErrUnauthorized
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Role.IsAdmin() && !p.OwnedBy(actor.UserID) {
		return nil, dom.ErrNotOwner
	}
	return p, nil
}

func (s *Service) validate(ctx context.Context, p *dom.Product) error {
	switch {
	case p.Name == "":
		return fmt.Errorf("name is required: %w", dom.ErrInvalidProduct)
	case p.Price <= 0:
		return fmt.Errorf("price must be greater than 0: %w", dom.ErrInvalidProduct)
	case p.Stock < 0:
		return fmt.Errorf("stock must be >= 0: %w", dom.ErrInvalidProduct)
	}
	if p.CategoryID > 0 {
		if _, err := s.categories.GetByID(ctx, p.CategoryID); err != nil {
			return err
		}
	}
	return nil
}
