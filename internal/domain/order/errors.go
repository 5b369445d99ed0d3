package order

import "errors"

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidPayment       = errors.New("invalid payment method")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrEmptyOrderItems      = errors.New("no items to checkout")
	ErrCheckoutValidation   = errors.New("checkout validation failed")
	ErrIncompleteAddress    = errors.New("shipping address is incomplete")
)
