package http

import (
	"net/http"

	reviewuc "example.com/storefront/internal/usecase/review"
)

type createReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

func (a *API) handleListReviews(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	reviews, err := a.reviewSvc.ListByProduct(r.Context(), productID)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}

	resp := make([]map[string]any, 0, len(reviews))
	for _, rv := range reviews {
		resp = append(resp, mapReview(rv))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data":    resp,
		"average": reviewuc.Average(reviews),
	})
}

func (a *API) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	productID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var req createReviewRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	rv, err := a.reviewSvc.Create(r.Context(), reviewuc.CreateInput{
		ProductID: productID,
		UserID:    user.UserID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	rv.UserName = user.Name
	writeJSON(w, http.StatusCreated, mapReview(rv))
}
