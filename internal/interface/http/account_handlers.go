package http

import (
	"net/http"

	useruc "example.com/storefront/internal/usecase/user"
)

type updateProfileRequest struct {
	Name    *string `json:"name" validate:"omitempty,max=100"`
	Phone   *string `json:"phone" validate:"omitempty,max=20"`
	Address *string `json:"address" validate:"omitempty,max=255"`
}

func (a *API) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	u, err := a.userSvc.GetProfile(r.Context(), user.UserID)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapUser(u))
}

func (a *API) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	var req updateProfileRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	u, err := a.userSvc.UpdateProfile(r.Context(), useruc.UpdateProfileInput{
		UserID:  user.UserID,
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapUser(u))
}

func (a *API) handleListMyOrders(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	orders, err := a.orderSvc.ListMine(r.Context(), user.UserID)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": mapOrders(orders)})
}

func (a *API) handleGetMyOrder(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	o, err := a.orderSvc.GetMine(r.Context(), user.UserID, id)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}
