package product

import "time"

type Product struct {
	ID          int64
	SellerID    int64
	CategoryID  int64
	Name        string
	Description string
	Price       float64
	Stock       int64
	Image       string
	Images      []string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InStock reports whether at least one unit can be sold.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// OwnedBy reports whether sellerID listed the product.
func (p *Product) OwnedBy(sellerID int64) bool {
	return p.SellerID == sellerID
}

type ListFilter struct {
	CategoryID *int64
	SellerID   *int64
	Search     string
	OnlyActive bool
}
