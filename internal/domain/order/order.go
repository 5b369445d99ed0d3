package order

import (
	"strings"
	"time"

	domcart "example.com/storefront/internal/domain/cart"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

type PaymentMethod string

const (
	PaymentCOD       PaymentMethod = "cod"
	PaymentEasypaisa PaymentMethod = "easypaisa"
	PaymentJazzCash  PaymentMethod = "jazzcash"
)

func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCOD, PaymentEasypaisa, PaymentJazzCash:
		return true
	default:
		return false
	}
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	default:
		return false
	}
}

type ShippingAddress struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

// Complete reports whether every field the courier needs is filled in.
func (a ShippingAddress) Complete() bool {
	for _, v := range []string{a.Name, a.Phone, a.Address, a.City, a.PostalCode} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

type Order struct {
	ID              int64
	UserID          int64
	Status          Status
	PaymentMethod   PaymentMethod
	PaymentStatus   PaymentStatus
	TotalAmount     float64
	ShippingAddress ShippingAddress
	Items           []OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Name      string
	Price     float64
	Quantity  int64
	Image     string
}

// NewFromCart builds a pending order from a cart snapshot. Prices and names
// come from the snapshot, the total from the cart.
func NewFromCart(userID int64, state domcart.State, method PaymentMethod, addr ShippingAddress) *Order {
	entries := state.Entries()
	items := make([]OrderItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, OrderItem{
			ProductID: e.Product.ID,
			Name:      e.Product.Name,
			Price:     e.Product.Price,
			Quantity:  e.Quantity,
			Image:     e.Product.Image,
		})
	}
	return &Order{
		UserID:          userID,
		Status:          StatusPending,
		PaymentMethod:   method,
		PaymentStatus:   PaymentPending,
		TotalAmount:     state.Total(),
		ShippingAddress: addr,
		Items:           items,
	}
}
