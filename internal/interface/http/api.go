package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domcategory "example.com/storefront/internal/domain/category"
	domorder "example.com/storefront/internal/domain/order"
	domproduct "example.com/storefront/internal/domain/product"
	domreview "example.com/storefront/internal/domain/review"
	domuser "example.com/storefront/internal/domain/user"
	authuc "example.com/storefront/internal/usecase/auth"
	cartuc "example.com/storefront/internal/usecase/cart"
	categoryuc "example.com/storefront/internal/usecase/category"
	checkoutuc "example.com/storefront/internal/usecase/checkout"
	contactuc "example.com/storefront/internal/usecase/contact"
	dashboarduc "example.com/storefront/internal/usecase/dashboard"
	orderuc "example.com/storefront/internal/usecase/order"
	productuc "example.com/storefront/internal/usecase/product"
	reviewuc "example.com/storefront/internal/usecase/review"
	useruc "example.com/storefront/internal/usecase/user"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type API struct {
	authSvc      *authuc.Service
	userSvc      *useruc.Service
	categorySvc  *categoryuc.Service
	productSvc   *productuc.Service
	reviewSvc    *reviewuc.Service
	cartSvc      *cartuc.Service
	checkoutSvc  *checkoutuc.Service
	orderSvc     *orderuc.Service
	contactSvc   *contactuc.Service
	dashboardSvc *dashboarduc.Service
	tokenSvc     authuc.TokenService
	healthChecks map[string]HealthCheck
	logger       *zap.Logger
	validator    *validator.Validate

	// heartbeat interval of the cart event stream
	eventPing time.Duration
}

type Dependencies struct {
	AuthService      *authuc.Service
	UserService      *useruc.Service
	CategoryService  *categoryuc.Service
	ProductService   *productuc.Service
	ReviewService    *reviewuc.Service
	CartService      *cartuc.Service
	CheckoutService  *checkoutuc.Service
	OrderService     *orderuc.Service
	ContactService   *contactuc.Service
	DashboardService *dashboarduc.Service
	TokenService     authuc.TokenService
	HealthChecks     map[string]HealthCheck
	Logger           *zap.Logger
}

func NewAPI(deps Dependencies) *API {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		authSvc:      deps.AuthService,
		userSvc:      deps.UserService,
		categorySvc:  deps.CategoryService,
		productSvc:   deps.ProductService,
		reviewSvc:    deps.ReviewService,
		cartSvc:      deps.CartService,
		checkoutSvc:  deps.CheckoutService,
		orderSvc:     deps.OrderService,
		contactSvc:   deps.ContactService,
		dashboardSvc: deps.DashboardService,
		tokenSvc:     deps.TokenService,
		healthChecks: deps.HealthChecks,
		logger:       logger,
		validator:    validator.New(),
		eventPing:    25 * time.Second,
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(a.requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.AllowContentType("application/json", "text/plain"))

	r.Get("/health", a.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", a.handleRegister)
		r.Post("/auth/login", a.handleLogin)

		r.Get("/products", a.handleListProducts)
		r.Get("/products/{id}", a.handleGetProduct)
		r.Get("/products/{id}/reviews", a.handleListReviews)
		r.Get("/categories", a.handleListCategories)
		r.Post("/contact", a.handleSubmitContact)

		r.Group(func(cr chi.Router) {
			cr.Use(a.optionalAuth)
			cr.Use(a.cartSession)
			cr.Get("/cart", a.handleGetCart)
			cr.Get("/cart/count", a.handleCartCount)
			cr.Get("/cart/events", a.handleCartEvents)
			cr.Post("/cart/items", a.handleAddCartItem)
			cr.Put("/cart/items/{productID}", a.handleUpdateCartItem)
			cr.Delete("/cart/items/{productID}", a.handleRemoveCartItem)
			cr.Delete("/cart", a.handleClearCart)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(a.authMiddleware)
			pr.Get("/me", a.handleGetProfile)
			pr.Put("/me", a.handleUpdateProfile)
			pr.Get("/me/orders", a.handleListMyOrders)
			pr.Get("/me/orders/{id}", a.handleGetMyOrder)
			pr.Post("/checkout", a.handleCheckout)
			pr.Post("/products/{id}/reviews", a.handleCreateReview)
		})

		r.Group(func(sr chi.Router) {
			sr.Use(a.authMiddleware)
			sr.Use(a.requireRoles(domuser.RoleSeller, domuser.RoleAdmin))
			sr.Route("/seller/products", func(rr chi.Router) {
				rr.Get("/", a.handleListMyProducts)
				rr.Post("/", a.handleCreateProduct)
				rr.Put("/{id}", a.handleUpdateProduct)
				rr.Delete("/{id}", a.handleDeleteProduct)
			})
		})

		r.Group(func(ar chi.Router) {
			ar.Use(a.authMiddleware)
			ar.Use(a.requireRoles(domuser.RoleAdmin))

			ar.Route("/admin", func(admin chi.Router) {
				admin.Get("/dashboard", a.handleDashboard)
				admin.Get("/messages", a.handleListMessages)

				admin.Route("/users", func(rr chi.Router) {
					rr.Get("/", a.handleListUsers)
					rr.Patch("/{id}/role", a.handleChangeUserRole)
					rr.Delete("/{id}", a.handleDeleteUser)
				})

				admin.Route("/categories", func(rr chi.Router) {
					rr.Get("/", a.handleListCategoriesAdmin)
					rr.Post("/", a.handleCreateCategory)
					rr.Get("/{id}", a.handleGetCategory)
					rr.Put("/{id}", a.handleUpdateCategory)
					rr.Delete("/{id}", a.handleDeleteCategory)
				})

				admin.Route("/products", func(rr chi.Router) {
					rr.Get("/", a.handleListProductsAdmin)
					rr.Put("/{id}", a.handleUpdateProduct)
					rr.Delete("/{id}", a.handleDeleteProduct)
				})

				admin.Route("/orders", func(rr chi.Router) {
					rr.Get("/", a.handleListOrders)
					rr.Get("/{id}", a.handleGetOrder)
					rr.Patch("/{id}", a.handleUpdateOrderStatus)
				})
			})
		})
	})

	return r
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(a.healthChecks))
	for name, check := range a.healthChecks {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	body := map[string]any{"status": "ok", "checks": checks}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	writeJSON(w, status, body)
}

func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return a.validator.Struct(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func parseIDParam(r *http.Request, key string) (int64, error) {
	idStr := chi.URLParam(r, key)
	return strconv.ParseInt(idStr, 10, 64)
}

var errInternal = errors.New("internal server error")

func (a *API) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domuser.ErrCannotAssignRole),
		errors.Is(err, domuser.ErrInvalidRole),
		errors.Is(err, domuser.ErrInvalidCredential),
		errors.Is(err, domcategory.ErrCategoryInvalidName),
		errors.Is(err, domcategory.ErrCategoryInvalidSlug),
		errors.Is(err, domproduct.ErrInvalidProduct),
		errors.Is(err, domreview.ErrInvalidRating),
		errors.Is(err, contactuc.ErrInvalidMessage):
		respondError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, domcategory.ErrCategorySlugExists),
		errors.Is(err, domuser.ErrEmailAlreadyUsed),
		errors.Is(err, domreview.ErrReviewExists):
		respondError(w, http.StatusConflict, err)
	case errors.Is(err, domuser.ErrUserNotFound),
		errors.Is(err, domcategory.ErrCategoryNotFound),
		errors.Is(err, domproduct.ErrProductNotFound),
		errors.Is(err, domorder.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, domuser.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, err)
	case errors.Is(err, domproduct.ErrNotOwner),
		errors.Is(err, domuser.ErrCannotDeleteSelf):
		respondError(w, http.StatusForbidden, err)
	case errors.Is(err, domorder.ErrEmptyOrderItems),
		errors.Is(err, domorder.ErrInvalidPayment),
		errors.Is(err, domorder.ErrInvalidPaymentStatus),
		errors.Is(err, domorder.ErrIncompleteAddress),
		errors.Is(err, domorder.ErrCheckoutValidation),
		errors.Is(err, domorder.ErrInvalidStatus),
		errors.Is(err, domproduct.ErrOutOfStock):
		respondError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, cartuc.ErrUnavailable):
		a.logger.Warn("cart storage unavailable",
			zap.String("path", r.URL.Path),
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.Error(err))
		respondError(w, http.StatusServiceUnavailable, cartuc.ErrUnavailable)
	default:
		a.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, errInternal)
	}
}
