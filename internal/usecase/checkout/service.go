package checkout

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domorder "example.com/storefront/internal/domain/order"
	domuser "example.com/storefront/internal/domain/user"
	cartuc "example.com/storefront/internal/usecase/cart"
)

type CartSessions interface {
	Open(ctx context.Context, key string) (*cartuc.Store, error)
}

type OrderRepository interface {
	Create(ctx context.Context, o *domorder.Order) (*domorder.Order, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domuser.User, error)
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Service struct {
	carts     CartSessions
	orderRepo OrderRepository
	userRepo  UserRepository
	mailer    Mailer
	logger    *zap.Logger
}

func NewService(carts CartSessions, orderRepo OrderRepository, userRepo UserRepository, mailer Mailer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		carts:     carts,
		orderRepo: orderRepo,
		userRepo:  userRepo,
		mailer:    mailer,
		logger:    logger,
	}
}

type Input struct {
	UserID          int64
	CartKey         string
	PaymentMethod   domorder.PaymentMethod
	ShippingAddress domorder.ShippingAddress
}

// Checkout turns the cart behind in.CartKey into a pending order. The ordered
// quantities leave the cart only when the order was stored.
func (s *Service) Checkout(ctx context.Context, in Input) (*domorder.Order, error) {
	if in.UserID == 0 {
		return nil, domuser.ErrUnauthorized
	}
	if !in.PaymentMethod.IsValid() {
		return nil, domorder.ErrInvalidPayment
	}
	if !in.ShippingAddress.Complete() {
		return nil, domorder.ErrIncompleteAddress
	}

	store, err := s.carts.Open(ctx, in.CartKey)
	if err != nil {
		return nil, err
	}
	state := store.State()
	if state.IsEmpty() {
		return nil, domorder.ErrEmptyOrderItems
	}

	order, err := s.orderRepo.Create(ctx, domorder.NewFromCart(in.UserID, state, in.PaymentMethod, in.ShippingAddress))
	if err != nil {
		s.logger.Warn("checkout failed",
			zap.Int64("user_id", in.UserID),
			zap.String("cart_key", in.CartKey),
			zap.Error(err))
		return nil, err
	}

	store.Settle(state.Entries())
	s.logger.Info("order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", in.UserID),
		zap.Float64("total", order.TotalAmount))

	s.sendConfirmation(ctx, order)
	return order, nil
}

func (s *Service) sendConfirmation(ctx context.Context, o *domorder.Order) {
	if s.mailer == nil || s.userRepo == nil {
		return
	}
	u, err := s.userRepo.GetByID(ctx, o.UserID)
	if err != nil {
		s.logger.Warn("order confirmation skipped", zap.Int64("order_id", o.ID), zap.Error(err))
		return
	}
	subject := fmt.Sprintf("Order #%d received", o.ID)
	if err := s.mailer.Send(ctx, u.Email, subject, ConfirmationBody(u.Name, o)); err != nil {
		s.logger.Warn("order confirmation not sent", zap.Int64("order_id", o.ID), zap.Error(err))
	}
}

// ConfirmationBody renders the plain-text order confirmation.
func ConfirmationBody(name string, o *domorder.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThanks for your order #%d.\n\n", name, o.ID)
	for _, it := range o.Items {
		fmt.Fprintf(&b, "  %d x %s  Rs. %.2f\n", it.Quantity, it.Name, it.Price*float64(it.Quantity))
	}
	fmt.Fprintf(&b, "\nTotal: Rs. %.2f\nPayment: %s\n", o.TotalAmount, o.PaymentMethod)
	a := o.ShippingAddress
	fmt.Fprintf(&b, "Ship to: %s, %s, %s %s (%s)\n", a.Name, a.Address, a.City, a.PostalCode, a.Phone)
	return b.String()
}
