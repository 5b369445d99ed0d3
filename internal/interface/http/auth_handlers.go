package http

import (
	"net/http"

	"go.uber.org/zap"

	authuc "example.com/storefront/internal/usecase/auth"
	cartuc "example.com/storefront/internal/usecase/cart"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	result, err := a.authSvc.Login(r.Context(), authuc.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}

	a.writeSession(w, r, http.StatusOK, result)
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	result, err := a.authSvc.Register(r.Context(), authuc.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}

	a.writeSession(w, r, http.StatusCreated, result)
}

// writeSession answers a successful sign-in. A guest cart carried by the
// request is folded into the user's cart.
func (a *API) writeSession(w http.ResponseWriter, r *http.Request, status int, result *authuc.LoginResult) {
	resp := map[string]any{
		"token": result.Token,
		"user":  mapUser(result.User),
	}
	if id, ok := guestSessionID(r); ok && a.cartSvc != nil {
		snap, err := a.cartSvc.MergeGuestCart(r.Context(), cartuc.GuestKey(id), result.User.ID)
		if err != nil {
			// the guest cookie stays so the merge is retried on the next sign-in
			a.logger.Warn("guest cart not merged", zap.Int64("user_id", result.User.ID), zap.Error(err))
		} else {
			resp["cart"] = mapSnapshot(snap)
			clearGuestCookie(w)
		}
	}
	writeJSON(w, status, resp)
}
