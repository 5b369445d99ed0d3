package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	domorder "example.com/storefront/internal/domain/order"
	cartuc "example.com/storefront/internal/usecase/cart"
	checkoutuc "example.com/storefront/internal/usecase/checkout"
)

type addCartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" validate:"gte=0,max=10000"`
}

type updateCartItemRequest struct {
	Quantity *int64 `json:"quantity" validate:"required,gte=0,max=10000"`
}

type shippingAddressRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	Phone      string `json:"phone" validate:"required,max=20"`
	Address    string `json:"address" validate:"required,max=255"`
	City       string `json:"city" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
}

type checkoutRequest struct {
	PaymentMethod   string                 `json:"payment_method" validate:"required,oneof=cod easypaisa jazzcash"`
	ShippingAddress shippingAddressRequest `json:"shipping_address"`
}

var errStreamingUnsupported = errors.New("streaming unsupported")

func (a *API) handleGetCart(w http.ResponseWriter, r *http.Request) {
	snap, err := a.cartSvc.GetCart(r.Context(), getCartKey(r.Context()))
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSnapshot(snap))
}

func (a *API) handleCartCount(w http.ResponseWriter, r *http.Request) {
	snap, err := a.cartSvc.GetCart(r.Context(), getCartKey(r.Context()))
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": snap.Count})
}

func (a *API) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	out, snap, err := a.cartSvc.AddToCart(r.Context(), getCartKey(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"outcome": mapOutcome(out),
		"cart":    mapSnapshot(snap),
	})
}

func (a *API) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "productID")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var req updateCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	out, snap, err := a.cartSvc.UpdateQuantity(r.Context(), getCartKey(r.Context()), productID, *req.Quantity)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"outcome": mapOutcome(out),
		"cart":    mapSnapshot(snap),
	})
}

func (a *API) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "productID")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	snap, err := a.cartSvc.RemoveItem(r.Context(), getCartKey(r.Context()), productID)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSnapshot(snap))
}

func (a *API) handleClearCart(w http.ResponseWriter, r *http.Request) {
	if err := a.cartSvc.ClearCart(r.Context(), getCartKey(r.Context())); err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCartEvents streams the cart as server-sent events: the current cart
// first, then one event per change. Slow readers only see the latest cart.
func (a *API) handleCartEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, errStreamingUnsupported)
		return
	}

	updates := make(chan cartuc.Snapshot, 1)
	initial, unsubscribe, err := a.cartSvc.Subscribe(r.Context(), getCartKey(r.Context()), func(s cartuc.Snapshot) {
		for {
			select {
			case updates <- s:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeCartEvent(w, initial); err != nil {
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(a.eventPing)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case snap := <-updates:
			if err := writeCartEvent(w, snap); err != nil {
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		}
		flusher.Flush()
	}
}

func writeCartEvent(w http.ResponseWriter, snap cartuc.Snapshot) error {
	data, err := json.Marshal(mapSnapshot(snap))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: cart\ndata: %s\n\n", data)
	return err
}

func (a *API) handleCheckout(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())

	var req checkoutRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	order, err := a.checkoutSvc.Checkout(r.Context(), checkoutuc.Input{
		UserID:        user.UserID,
		CartKey:       cartuc.UserKey(user.UserID),
		PaymentMethod: domorder.PaymentMethod(req.PaymentMethod),
		ShippingAddress: domorder.ShippingAddress{
			Name:       req.ShippingAddress.Name,
			Phone:      req.ShippingAddress.Phone,
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			PostalCode: req.ShippingAddress.PostalCode,
		},
	})
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapOrder(order))
}
