package http

import (
	"net/http"

	domcategory "example.com/storefront/internal/domain/category"
	categoryuc "example.com/storefront/internal/usecase/category"
)

type createCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Slug        string `json:"slug" validate:"omitempty,max=100"`
	Description string `json:"description"`
	Image       string `json:"image" validate:"omitempty,url"`
}

type updateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Slug        *string `json:"slug" validate:"omitempty,max=100"`
	Description *string `json:"description"`
	Image       *string `json:"image" validate:"omitempty,url"`
	IsActive    *bool   `json:"is_active"`
}

func (a *API) listCategories(w http.ResponseWriter, r *http.Request, filter domcategory.ListFilter) {
	categories, err := a.categorySvc.List(r.Context(), filter)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	resp := make([]map[string]any, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, mapCategory(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": resp})
}

func (a *API) handleListCategories(w http.ResponseWriter, r *http.Request) {
	a.listCategories(w, r, domcategory.ListFilter{OnlyActive: true})
}

func (a *API) handleListCategoriesAdmin(w http.ResponseWriter, r *http.Request) {
	a.listCategories(w, r, domcategory.ListFilter{})
}

func (a *API) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	c, err := a.categorySvc.GetByID(r.Context(), id)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCategory(c))
}

func (a *API) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	c, err := a.categorySvc.Create(r.Context(), &domcategory.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapCategory(c))
}

func (a *API) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var req updateCategoryRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	c, err := a.categorySvc.Update(r.Context(), categoryuc.UpdateInput{
		ID:          id,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Image:       req.Image,
		IsActive:    req.IsActive,
	})
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCategory(c))
}

func (a *API) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.categorySvc.Delete(r.Context(), id); err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
