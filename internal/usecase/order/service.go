package order

import (
	"context"

	domorder "example.com/storefront/internal/domain/order"
)

type Service struct {
	repo domorder.Repository
}

func NewService(repo domorder.Repository) *Service {
	return &Service{repo: repo}
}

// List returns every order, newest first.
func (s *Service) List(ctx context.Context) ([]*domorder.Order, error) {
	return s.repo.List(ctx, domorder.ListFilter{})
}

// ListMine returns the orders placed by userID, newest first.
func (s *Service) ListMine(ctx context.Context, userID int64) ([]*domorder.Order, error) {
	return s.repo.List(ctx, domorder.ListFilter{UserID: &userID})
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domorder.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// GetMine returns an order only when it belongs to userID.
func (s *Service) GetMine(ctx context.Context, userID, id int64) (*domorder.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, domorder.ErrOrderNotFound
	}
	return o, nil
}

type UpdateStatusInput struct {
	ID            int64
	Status        domorder.Status
	PaymentStatus *domorder.PaymentStatus
}

func (s *Service) UpdateStatus(ctx context.Context, in UpdateStatusInput) (*domorder.Order, error) {
	if !in.Status.IsValid() {
		return nil, domorder.ErrInvalidStatus
	}
	if in.PaymentStatus != nil && !in.PaymentStatus.IsValid() {
		return nil, domorder.ErrInvalidPaymentStatus
	}
	return s.repo.UpdateStatus(ctx, in.ID, in.Status, in.PaymentStatus)
}
