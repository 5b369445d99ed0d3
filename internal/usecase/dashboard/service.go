package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	domorder "example.com/storefront/internal/domain/order"
	domuser "example.com/storefront/internal/domain/user"
)

const recentOrders = 5

type OrderRepository interface {
	List(ctx context.Context, filter domorder.ListFilter) ([]*domorder.Order, error)
}

type UserRepository interface {
	List(ctx context.Context, filter domuser.ListUsersFilter) ([]*domuser.User, error)
}

type ProductCounter interface {
	Count(ctx context.Context) (int64, error)
}

// Stats is the admin overview.
type Stats struct {
	TotalSales    float64
	TotalOrders   int
	Buyers        int
	Sellers       int
	Products      int64
	PendingOrders int
	RecentOrders  []*domorder.Order
}

type Service struct {
	orders   OrderRepository
	users    UserRepository
	products ProductCounter
}

func NewService(orders OrderRepository, users UserRepository, products ProductCounter) *Service {
	return &Service{orders: orders, users: users, products: products}
}

// Stats loads orders, users and the product count concurrently. The first
// failing query cancels the others.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var (
		orders   []*domorder.Order
		users    []*domuser.User
		products int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.orders.List(gctx, domorder.ListFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		users, err = s.users.List(gctx, domuser.ListUsersFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.products.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	st := &Stats{TotalOrders: len(orders), Products: products}
	for _, o := range orders {
		st.TotalSales += o.TotalAmount
		if o.Status == domorder.StatusPending {
			st.PendingOrders++
		}
	}
	for _, u := range users {
		switch u.Role {
		case domuser.RoleUser:
			st.Buyers++
		case domuser.RoleSeller:
			st.Sellers++
		}
	}
	st.RecentOrders = orders[:min(len(orders), recentOrders)]
	return st, nil
}
