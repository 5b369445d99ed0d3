package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	domuser "example.com/storefront/internal/domain/user"
)

type mockUserRepository struct {
	usersByEmail  map[string]*domuser.User
	nextID        int64
	getByEmailErr error
	createErr     error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		usersByEmail: make(map[string]*domuser.User),
		nextID:       1,
	}
}

func (m *mockUserRepository) Create(ctx context.Context, u *domuser.User) (*domuser.User, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	if _, ok := m.usersByEmail[u.Email]; ok {
		return nil, domuser.ErrEmailAlreadyUsed
	}
	cloned := *u
	cloned.ID = m.nextID
	m.nextID++
	m.usersByEmail[u.Email] = &cloned
	return &cloned, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*domuser.User, error) {
	for _, u := range m.usersByEmail {
		if u.ID == id {
			cloned := *u
			return &cloned, nil
		}
	}
	return nil, domuser.ErrUserNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domuser.User, error) {
	if m.getByEmailErr != nil {
		return nil, m.getByEmailErr
	}
	if user, ok := m.usersByEmail[email]; ok {
		cloned := *user
		return &cloned, nil
	}
	return nil, domuser.ErrUserNotFound
}

func (m *mockUserRepository) List(ctx context.Context, filter domuser.ListUsersFilter) ([]*domuser.User, error) {
	return nil, nil
}

func (m *mockUserRepository) Update(ctx context.Context, u *domuser.User) (*domuser.User, error) {
	return u, nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id int64) error {
	return nil
}

type mockHasher struct {
	compareErr error
}

func (m *mockHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (m *mockHasher) Compare(hash string, password string) error {
	if m.compareErr != nil {
		return m.compareErr
	}
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type mockTokenService struct {
	token       string
	generateErr error
}

func (m *mockTokenService) GenerateToken(u *domuser.User) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	if m.token != "" {
		return m.token, nil
	}
	return "mock-token-" + u.Email, nil
}

func (m *mockTokenService) ParseToken(token string) (*Claims, error) {
	return nil, nil
}

func TestLogin_Success(t *testing.T) {
	repo := newMockUserRepository()
	repo.usersByEmail["ayesha@example.com"] = &domuser.User{
		ID:           1,
		Name:         "Ayesha",
		Email:        "ayesha@example.com",
		PasswordHash: "hashed:secret123",
		Role:         domuser.RoleUser,
	}

	svc := NewService(repo, &mockHasher{}, &mockTokenService{token: "valid-jwt-token"})

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "ayesha@example.com",
		Password: "secret123",
	})

	require.NoError(t, err)
	require.Equal(t, "valid-jwt-token", result.Token)
	require.Equal(t, int64(1), result.User.ID)
	require.Equal(t, domuser.RoleUser, result.User.Role)
}

func TestLogin_EmailNormalization(t *testing.T) {
	repo := newMockUserRepository()
	repo.usersByEmail["bilal@example.com"] = &domuser.User{
		ID:           2,
		Email:        "bilal@example.com",
		PasswordHash: "hashed:secret123",
		Role:         domuser.RoleSeller,
	}
	svc := NewService(repo, &mockHasher{}, &mockTokenService{})

	tests := []string{"bilal@example.com", "  BILAL@example.com ", "Bilal@Example.Com"}
	for _, email := range tests {
		t.Run(email, func(t *testing.T) {
			result, err := svc.Login(context.Background(), LoginInput{Email: email, Password: "secret123"})
			require.NoError(t, err)
			require.Equal(t, int64(2), result.User.ID)
		})
	}
}

func TestLogin_InvalidInput(t *testing.T) {
	svc := NewService(newMockUserRepository(), &mockHasher{}, &mockTokenService{})

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "empty email", email: "", password: "secret123"},
		{name: "blank email", email: "   ", password: "secret123"},
		{name: "empty password", email: "a@example.com", password: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Login(context.Background(), LoginInput{Email: tt.email, Password: tt.password})
			require.ErrorIs(t, err, domuser.ErrInvalidCredential)
			require.Nil(t, result)
		})
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := NewService(newMockUserRepository(), &mockHasher{}, &mockTokenService{})

	result, err := svc.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "secret123"})

	require.ErrorIs(t, err, domuser.ErrUnauthorized)
	require.Nil(t, result)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newMockUserRepository()
	repo.usersByEmail["ayesha@example.com"] = &domuser.User{ID: 1, Email: "ayesha@example.com", PasswordHash: "hashed:secret123"}
	svc := NewService(repo, &mockHasher{}, &mockTokenService{})

	result, err := svc.Login(context.Background(), LoginInput{Email: "ayesha@example.com", Password: "wrong-pass"})

	require.ErrorIs(t, err, domuser.ErrUnauthorized)
	require.Nil(t, result)
}

func TestLogin_RepositoryFailureIsNotMasked(t *testing.T) {
	repo := newMockUserRepository()
	repo.getByEmailErr = errors.New("connection refused")
	svc := NewService(repo, &mockHasher{}, &mockTokenService{})

	_, err := svc.Login(context.Background(), LoginInput{Email: "a@example.com", Password: "secret123"})

	require.EqualError(t, err, "connection refused")
}

func TestLogin_TokenGenerationFails(t *testing.T) {
	repo := newMockUserRepository()
	repo.usersByEmail["ayesha@example.com"] = &domuser.User{ID: 1, Email: "ayesha@example.com", PasswordHash: "hashed:secret123"}
	svc := NewService(repo, &mockHasher{}, &mockTokenService{generateErr: errors.New("signing failed")})

	result, err := svc.Login(context.Background(), LoginInput{Email: "ayesha@example.com", Password: "secret123"})

	require.EqualError(t, err, "signing failed")
	require.Nil(t, result)
}

func TestRegister_CreatesBuyerAndSignsIn(t *testing.T) {
	repo := newMockUserRepository()
	svc := NewService(repo, &mockHasher{}, &mockTokenService{})

	result, err := svc.Register(context.Background(), RegisterInput{
		Name:     " Sana ",
		Email:    "Sana@Example.com",
		Password: "secret123",
	})

	require.NoError(t, err)
	require.Equal(t, "mock-token-sana@example.com", result.Token)
	require.Equal(t, "Sana", result.User.Name)
	require.Equal(t, domuser.RoleUser, result.User.Role)
	require.Equal(t, "hashed:secret123", result.User.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newMockUserRepository()
	svc := NewService(repo, &mockHasher{}, &mockTokenService{})

	_, err := svc.Register(context.Background(), RegisterInput{Name: "Sana", Email: "sana@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{Name: "Other", Email: "sana@example.com", Password: "secret456"})
	require.ErrorIs(t, err, domuser.ErrEmailAlreadyUsed)
}

func TestRegister_MissingFields(t *testing.T) {
	svc := NewService(newMockUserRepository(), &mockHasher{}, &mockTokenService{})

	_, err := svc.Register(context.Background(), RegisterInput{Email: "sana@example.com", Password: "secret123"})

	require.ErrorIs(t, err, domuser.ErrInvalidCredential)
}
