package order

import "context"

type ListFilter struct {
	UserID *int64
}

type Repository interface {
	// Create stores o and its items, checking and decrementing stock for every
	// item in the same transaction.
	Create(ctx context.Context, o *Order) (*Order, error)
	List(ctx context.Context, filter ListFilter) ([]*Order, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status, payment *PaymentStatus) (*Order, error)
}
