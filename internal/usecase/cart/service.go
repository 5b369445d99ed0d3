package cart

import (
	"context"

	"go.uber.org/zap"

	domcart "example.com/storefront/internal/domain/cart"
	domproduct "example.com/storefront/internal/domain/product"
)

type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domproduct.Product, error)
}

// Service is the catalog-aware entry point used by the HTTP layer. It does the
// checks a product view does before handing a snapshot to the store.
type Service struct {
	sessions    *Sessions
	productRepo ProductRepository
	logger      *zap.Logger
}

func NewService(sessions *Sessions, productRepo ProductRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sessions:    sessions,
		productRepo: productRepo,
		logger:      logger,
	}
}

// SnapshotOf copies the catalog fields the cart keeps.
func SnapshotOf(p *domproduct.Product) domcart.Product {
	return domcart.Product{
		ID:         p.ID,
		Name:       p.Name,
		Price:      p.Price,
		Stock:      p.Stock,
		Image:      p.Image,
		SellerID:   p.SellerID,
		CategoryID: p.CategoryID,
	}
}

func (s *Service) AddToCart(ctx context.Context, key string, productID, quantity int64) (domcart.Outcome, Snapshot, error) {
	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return domcart.Outcome{}, Snapshot{}, err
	}
	if !p.IsActive {
		return domcart.Outcome{}, Snapshot{}, domproduct.ErrProductNotFound
	}
	if !p.InStock() {
		return domcart.Outcome{}, Snapshot{}, domproduct.ErrOutOfStock
	}

	store, err := s.sessions.Open(ctx, key)
	if err != nil {
		return domcart.Outcome{}, Snapshot{}, err
	}
	out := store.AddItem(SnapshotOf(p), quantity)
	if out.Clamped {
		s.logger.Info("cart quantity clamped to stock",
			zap.String("cart_key", key),
			zap.Int64("product_id", productID),
			zap.Int64("requested", quantity),
			zap.Int64("applied", out.Applied))
	}
	return out, store.Snapshot(), nil
}

func (s *Service) UpdateQuantity(ctx context.Context, key string, productID, quantity int64) (domcart.Outcome, Snapshot, error) {
	store, err := s.sessions.Open(ctx, key)
	if err != nil {
		return domcart.Outcome{}, Snapshot{}, err
	}
	out := store.SetQuantity(productID, quantity)
	return out, store.Snapshot(), nil
}

func (s *Service) RemoveItem(ctx context.Context, key string, productID int64) (Snapshot, error) {
	store, err := s.sessions.Open(ctx, key)
	if err != nil {
		return Snapshot{}, err
	}
	store.RemoveItem(productID)
	return store.Snapshot(), nil
}

func (s *Service) ClearCart(ctx context.Context, key string) error {
	store, err := s.sessions.Open(ctx, key)
	if err != nil {
		return err
	}
	store.Clear()
	return nil
}

// GetCart reads the cart without opening a session for it, so anonymous
// reads do not leave stores behind.
func (s *Service) GetCart(ctx context.Context, key string) (Snapshot, error) {
	return s.sessions.Peek(ctx, key)
}

// Subscribe streams the cart for key to l until the returned func is called.
func (s *Service) Subscribe(ctx context.Context, key string, l Listener) (Snapshot, func(), error) {
	store, err := s.sessions.Open(ctx, key)
	if err != nil {
		return Snapshot{}, nil, err
	}
	unsubscribe := store.Subscribe(l)
	return store.Snapshot(), unsubscribe, nil
}

// MergeGuestCart folds a guest cart into the buyer's cart after sign-in.
func (s *Service) MergeGuestCart(ctx context.Context, guestKey string, userID int64) (Snapshot, error) {
	snap, err := s.sessions.Merge(ctx, guestKey, UserKey(userID))
	if err != nil {
		return snap, err
	}
	s.logger.Info("guest cart merged",
		zap.String("guest_key", guestKey),
		zap.Int64("user_id", userID),
		zap.Int64("count", snap.Count))
	return snap, nil
}
