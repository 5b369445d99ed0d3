package http

import (
	"net/http"
	"strconv"

	domproduct "example.com/storefront/internal/domain/product"
	productuc "example.com/storefront/internal/usecase/product"
)

type createProductRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Stock       int64    `json:"stock" validate:"gte=0"`
	Image       string   `json:"image" validate:"omitempty,url"`
	Images      []string `json:"images" validate:"omitempty,dive,url"`
	CategoryID  int64    `json:"category_id" validate:"gte=0"`
}

type updateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,max=200"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Stock       *int64   `json:"stock" validate:"omitempty,gte=0"`
	Image       *string  `json:"image" validate:"omitempty,url"`
	Images      []string `json:"images" validate:"omitempty,dive,url"`
	CategoryID  *int64   `json:"category_id" validate:"omitempty,gte=0"`
	IsActive    *bool    `json:"is_active"`
}

func listFilterFromQuery(r *http.Request) domproduct.ListFilter {
	filter := domproduct.ListFilter{
		Search: r.URL.Query().Get("q"),
	}
	if cid := r.URL.Query().Get("category_id"); cid != "" {
		if id, err := strconv.ParseInt(cid, 10, 64); err == nil {
			filter.CategoryID = &id
		}
	}
	if sid := r.URL.Query().Get("seller_id"); sid != "" {
		if id, err := strconv.ParseInt(sid, 10, 64); err == nil {
			filter.SellerID = &id
		}
	}
	return filter
}

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	filter := listFilterFromQuery(r)
	filter.OnlyActive = true

	products, err := a.productSvc.List(r.Context(), filter)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": mapProducts(products)})
}

func (a *API) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	p, err := a.productSvc.GetByID(r.Context(), id)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(p))
}

func (a *API) handleListProductsAdmin(w http.ResponseWriter, r *http.Request) {
	filter := listFilterFromQuery(r)
	if status := r.URL.Query().Get("only_active"); status == "1" || status == "true" {
		filter.OnlyActive = true
	}

	products, err := a.productSvc.List(r.Context(), filter)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": mapProducts(products)})
}

func actorOf(user *authUser) productuc.Actor {
	return productuc.Actor{UserID: user.UserID, Role: user.Role}
}

func (a *API) handleListMyProducts(w http.ResponseWriter, r *http.Request) {
	products, err := a.productSvc.ListMine(r.Context(), actorOf(getAuthUser(r.Context())))
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": mapProducts(products)})
}

func (a *API) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	p, err := a.productSvc.Create(r.Context(), actorOf(getAuthUser(r.Context())), productuc.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Image:       req.Image,
		Images:      req.Images,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapProduct(p))
}

func (a *API) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var req updateProductRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	p, err := a.productSvc.Update(r.Context(), actorOf(getAuthUser(r.Context())), productuc.UpdateInput{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Image:       req.Image,
		Images:      req.Images,
		CategoryID:  req.CategoryID,
		IsActive:    req.IsActive,
	})
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(p))
}

func (a *API) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.productSvc.Delete(r.Context(), actorOf(getAuthUser(r.Context())), id); err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
