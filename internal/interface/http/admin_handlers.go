package http

import (
	"net/http"

	domorder "example.com/storefront/internal/domain/order"
	domuser "example.com/storefront/internal/domain/user"
	orderuc "example.com/storefront/internal/usecase/order"
	useruc "example.com/storefront/internal/usecase/user"
)

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin seller user"`
}

type updateOrderStatusRequest struct {
	Status        string  `json:"status" validate:"required"`
	PaymentStatus *string `json:"payment_status"`
}

func (a *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	var filter domuser.ListUsersFilter
	if raw := r.URL.Query().Get("role"); raw != "" {
		role, err := domuser.ParseRole(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		filter.Role = &role
	}

	users, err := a.userSvc.List(r.Context(), filter)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	resp := make([]map[string]any, 0, len(users))
	for _, u := range users {
		resp = append(resp, mapUser(u))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": resp})
}

func (a *API) handleChangeUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var req changeRoleRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	u, err := a.userSvc.ChangeRole(r.Context(), useruc.ChangeRoleInput{
		ExecutorID: getAuthUser(r.Context()).UserID,
		TargetID:   id,
		Role:       domuser.Role(req.Role),
	})
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapUser(u))
}

func (a *API) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.userSvc.Delete(r.Context(), getAuthUser(r.Context()).UserID, id); err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := a.orderSvc.List(r.Context())
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": mapOrders(orders)})
}

func (a *API) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	o, err := a.orderSvc.GetByID(r.Context(), id)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

func (a *API) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var req updateOrderStatusRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	in := orderuc.UpdateStatusInput{ID: id, Status: domorder.Status(req.Status)}
	if req.PaymentStatus != nil {
		ps := domorder.PaymentStatus(*req.PaymentStatus)
		in.PaymentStatus = &ps
	}
	o, err := a.orderSvc.UpdateStatus(r.Context(), in)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := a.dashboardSvc.Stats(r.Context())
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapStats(stats))
}
