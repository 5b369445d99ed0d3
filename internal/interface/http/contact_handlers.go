package http

import (
	"net/http"

	contactuc "example.com/storefront/internal/usecase/contact"
)

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

func (a *API) handleSubmitContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	msg, err := a.contactSvc.Submit(r.Context(), contactuc.SubmitInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapMessage(msg))
}

func (a *API) handleListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := a.contactSvc.List(r.Context())
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	resp := make([]map[string]any, 0, len(messages))
	for _, m := range messages {
		resp = append(resp, mapMessage(m))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": resp})
}
