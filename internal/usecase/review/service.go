package review

import (
	"context"
	"strings"

	domproduct "example.com/storefront/internal/domain/product"
	domreview "example.com/storefront/internal/domain/review"
)

type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domproduct.Product, error)
}

type Service struct {
	repo     domreview.Repository
	products ProductRepository
}

func NewService(repo domreview.Repository, products ProductRepository) *Service {
	return &Service{repo: repo, products: products}
}

type CreateInput struct {
	ProductID int64
	UserID    int64
	Rating    int
	Comment   string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domreview.Review, error) {
	if in.Rating < domreview.MinRating || in.Rating > domreview.MaxRating {
		return nil, domreview.ErrInvalidRating
	}
	p, err := s.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, domproduct.ErrProductNotFound
	}

	return s.repo.Create(ctx, &domreview.Review{
		ProductID: in.ProductID,
		UserID:    in.UserID,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
	})
}

func (s *Service) ListByProduct(ctx context.Context, productID int64) ([]*domreview.Review, error) {
	return s.repo.ListByProduct(ctx, productID)
}

// Average returns the mean rating of reviews, or 0 when there are none.
func Average(reviews []*domreview.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}
