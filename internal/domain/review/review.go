package review

import (
	"context"
	"errors"
	"time"
)

type Review struct {
	ID        int64
	ProductID int64
	UserID    int64
	UserName  string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

const (
	MinRating = 1
	MaxRating = 5
)

var (
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrReviewExists  = errors.New("product already reviewed by user")
)

type Repository interface {
	Create(ctx context.Context, r *Review) (*Review, error)
	ListByProduct(ctx context.Context, productID int64) ([]*Review, error)
}
