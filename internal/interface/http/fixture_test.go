package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	domcart "example.com/storefront/internal/domain/cart"
	domcategory "example.com/storefront/internal/domain/category"
	domcontact "example.com/storefront/internal/domain/contact"
	domorder "example.com/storefront/internal/domain/order"
	domproduct "example.com/storefront/internal/domain/product"
	domreview "example.com/storefront/internal/domain/review"
	domuser "example.com/storefront/internal/domain/user"
	"example.com/storefront/internal/infra/security"
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

// --- in-memory repositories ---

type memUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*domuser.User
	nextID int64
}

func (m *memUserRepo) Create(ctx context.Context, u *domuser.User) (*domuser.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return nil, domuser.ErrEmailAlreadyUsed
		}
	}
	m.nextID++
	u.ID = m.nextID
	cloned := *u
	m.users[u.ID] = &cloned
	return u, nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id int64) (*domuser.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cloned := *u
		return &cloned, nil
	}
	return nil, domuser.ErrUserNotFound
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (*domuser.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cloned := *u
			return &cloned, nil
		}
	}
	return nil, domuser.ErrUserNotFound
}

func (m *memUserRepo) List(ctx context.Context, filter domuser.ListUsersFilter) ([]*domuser.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domuser.User, 0, len(m.users))
	for _, u := range m.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		cloned := *u
		out = append(out, &cloned)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memUserRepo) Update(ctx context.Context, u *domuser.User) (*domuser.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return nil, domuser.ErrUserNotFound
	}
	cloned := *u
	m.users[u.ID] = &cloned
	return u, nil
}

func (m *memUserRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return domuser.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

type memProductRepo struct {
	mu       sync.Mutex
	products map[int64]*domproduct.Product
	nextID   int64
}

func (m *memProductRepo) Create(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	cloned := *p
	m.products[p.ID] = &cloned
	return p, nil
}

func (m *memProductRepo) Update(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cloned := *p
	m.products[p.ID] = &cloned
	return p, nil
}

func (m *memProductRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return domproduct.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *memProductRepo) GetByID(ctx context.Context, id int64) (*domproduct.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.products[id]; ok {
		cloned := *p
		return &cloned, nil
	}
	return nil, domproduct.ErrProductNotFound
}

func (m *memProductRepo) List(ctx context.Context, filter domproduct.ListFilter) ([]*domproduct.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domproduct.Product, 0, len(m.products))
	for _, p := range m.products {
		switch {
		case filter.OnlyActive && !p.IsActive:
			continue
		case filter.CategoryID != nil && p.CategoryID != *filter.CategoryID:
			continue
		case filter.SellerID != nil && p.SellerID != *filter.SellerID:
			continue
		case filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)):
			continue
		}
		cloned := *p
		out = append(out, &cloned)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memProductRepo) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.products)), nil
}

type memCategoryRepo struct {
	mu         sync.Mutex
	categories map[int64]*domcategory.Category
	nextID     int64
}

func (m *memCategoryRepo) Create(ctx context.Context, c *domcategory.Category) (*domcategory.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.categories {
		if existing.Slug == c.Slug {
			return nil, domcategory.ErrCategorySlugExists
		}
	}
	m.nextID++
	c.ID = m.nextID
	cloned := *c
	m.categories[c.ID] = &cloned
	return c, nil
}

func (m *memCategoryRepo) Update(ctx context.Context, c *domcategory.Category) (*domcategory.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cloned := *c
	m.categories[c.ID] = &cloned
	return c, nil
}

func (m *memCategoryRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return domcategory.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *memCategoryRepo) GetByID(ctx context.Context, id int64) (*domcategory.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.categories[id]; ok {
		cloned := *c
		return &cloned, nil
	}
	return nil, domcategory.ErrCategoryNotFound
}

func (m *memCategoryRepo) List(ctx context.Context, filter domcategory.ListFilter) ([]*domcategory.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domcategory.Category, 0, len(m.categories))
	for _, c := range m.categories {
		if filter.OnlyActive && !c.IsActive {
			continue
		}
		cloned := *c
		out = append(out, &cloned)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// memOrderRepo checks and decrements stock like the SQL repository does.
type memOrderRepo struct {
	mu       sync.Mutex
	orders   map[int64]*domorder.Order
	nextID   int64
	products *memProductRepo
}

func (m *memOrderRepo) Create(ctx context.Context, o *domorder.Order) (*domorder.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products.mu.Lock()
	defer m.products.mu.Unlock()

	for _, it := range o.Items {
		p, ok := m.products.products[it.ProductID]
		if !ok || !p.IsActive || p.Stock < it.Quantity {
			return nil, domorder.ErrCheckoutValidation
		}
	}
	for _, it := range o.Items {
		m.products.products[it.ProductID].Stock -= it.Quantity
	}
	m.nextID++
	o.ID = m.nextID
	o.CreatedAt = time.Now()
	cloned := *o
	m.orders[o.ID] = &cloned
	return o, nil
}

func (m *memOrderRepo) List(ctx context.Context, filter domorder.ListFilter) ([]*domorder.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domorder.Order, 0, len(m.orders))
	for _, o := range m.orders {
		if filter.UserID != nil && o.UserID != *filter.UserID {
			continue
		}
		cloned := *o
		out = append(out, &cloned)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memOrderRepo) GetByID(ctx context.Context, id int64) (*domorder.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.orders[id]; ok {
		cloned := *o
		return &cloned, nil
	}
	return nil, domorder.ErrOrderNotFound
}

func (m *memOrderRepo) UpdateStatus(ctx context.Context, id int64, status domorder.Status, payment *domorder.PaymentStatus) (*domorder.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, domorder.ErrOrderNotFound
	}
	o.Status = status
	if payment != nil {
		o.PaymentStatus = *payment
	}
	cloned := *o
	return &cloned, nil
}

type memReviewRepo struct {
	mu      sync.Mutex
	reviews []*domreview.Review
}

func (m *memReviewRepo) Create(ctx context.Context, r *domreview.Review) (*domreview.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.reviews {
		if existing.ProductID == r.ProductID && existing.UserID == r.UserID {
			return nil, domreview.ErrReviewExists
		}
	}
	r.ID = int64(len(m.reviews) + 1)
	m.reviews = append(m.reviews, r)
	return r, nil
}

func (m *memReviewRepo) ListByProduct(ctx context.Context, productID int64) ([]*domreview.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domreview.Review
	for _, r := range m.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

type memContactRepo struct {
	mu       sync.Mutex
	messages []*domcontact.Message
}

func (m *memContactRepo) Create(ctx context.Context, msg *domcontact.Message) (*domcontact.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = int64(len(m.messages) + 1)
	m.messages = append(m.messages, msg)
	return msg, nil
}

func (m *memContactRepo) List(ctx context.Context) ([]*domcontact.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domcontact.Message(nil), m.messages...), nil
}

type memCartStorage struct {
	mu      sync.Mutex
	data    map[string][]byte
	loadErr error
}

func (m *memCartStorage) failLoads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

func (m *memCartStorage) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	d, ok := m.data[key]
	if !ok {
		return nil, domcart.ErrSnapshotNotFound
	}
	return d, nil
}

func (m *memCartStorage) Save(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	return nil
}

func (m *memCartStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to+"|"+subject)
	return nil
}

// --- fixture ---

const (
	adminID  = int64(1)
	sellerID = int64(2)
	buyerID  = int64(3)
	password = "secret123"
)

type fixture struct {
	api      *API
	router   http.Handler
	users    *memUserRepo
	products *memProductRepo
	orders   *memOrderRepo
	messages *memContactRepo
	sessions *cartuc.Sessions
	carts    *memCartStorage
	mailer   *recordingMailer

	adminToken  string
	sellerToken string
	buyerToken  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	hasher := security.NewBcryptService(bcrypt.MinCost)
	hash, err := hasher.Hash(password)
	require.NoError(t, err)

	users := &memUserRepo{users: map[int64]*domuser.User{
		adminID:  {ID: adminID, Name: "Admin", Email: "admin@example.com", PasswordHash: hash, Role: domuser.RoleAdmin},
		sellerID: {ID: sellerID, Name: "Sana Seller", Email: "seller@example.com", PasswordHash: hash, Role: domuser.RoleSeller},
		buyerID:  {ID: buyerID, Name: "Bilal Buyer", Email: "buyer@example.com", PasswordHash: hash, Role: domuser.RoleUser},
	}, nextID: 3}
	categories := &memCategoryRepo{categories: map[int64]*domcategory.Category{
		1: {ID: 1, Name: "Shoes", Slug: "shoes", IsActive: true},
	}, nextID: 1}
	products := &memProductRepo{products: map[int64]*domproduct.Product{
		1: {ID: 1, SellerID: sellerID, CategoryID: 1, Name: "Runner", Price: 500, Stock: 5, IsActive: true},
		2: {ID: 2, SellerID: sellerID, CategoryID: 1, Name: "Sandal", Price: 300, Stock: 10, IsActive: true},
		3: {ID: 3, SellerID: sellerID, CategoryID: 1, Name: "Sold Out Boot", Price: 900, Stock: 0, IsActive: true},
		4: {ID: 4, SellerID: sellerID, CategoryID: 1, Name: "Hidden", Price: 100, Stock: 3, IsActive: false},
	}, nextID: 4}
	orders := &memOrderRepo{orders: make(map[int64]*domorder.Order), products: products}
	messages := &memContactRepo{}
	mailer := &recordingMailer{}

	logger := zap.NewNop()
	carts := &memCartStorage{data: make(map[string][]byte)}
	sessions := cartuc.NewSessions(carts, logger, time.Second)
	t.Cleanup(sessions.Close)

	tokens := security.NewJWTService("test-secret", time.Hour)

	api := NewAPI(Dependencies{
		AuthService:      authuc.NewService(users, hasher, tokens),
		UserService:      useruc.NewService(users),
		CategoryService:  categoryuc.NewService(categories),
		ProductService:   productuc.NewService(products, categories),
		ReviewService:    reviewuc.NewService(&memReviewRepo{}, products),
		CartService:      cartuc.NewService(sessions, products, logger),
		CheckoutService:  checkoutuc.NewService(sessions, orders, users, mailer, logger),
		OrderService:     orderuc.NewService(orders),
		ContactService:   contactuc.NewService(messages, mailer, "shop@example.com", logger),
		DashboardService: dashboarduc.NewService(orders, users, products),
		TokenService:     tokens,
		Logger:           logger,
	})

	f := &fixture{
		api:      api,
		router:   api.Router(),
		users:    users,
		products: products,
		orders:   orders,
		messages: messages,
		sessions: sessions,
		carts:    carts,
		mailer:   mailer,
	}
	f.adminToken = f.token(t, tokens, adminID)
	f.sellerToken = f.token(t, tokens, sellerID)
	f.buyerToken = f.token(t, tokens, buyerID)
	return f
}

func (f *fixture) token(t *testing.T, tokens *security.JWTService, id int64) string {
	t.Helper()
	tok, err := tokens.GenerateToken(f.users.users[id])
	require.NoError(t, err)
	return tok
}

func newRequest(method, path, token string, body any) *http.Request {
	var req *http.Request
	if body != nil {
		payload, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}
