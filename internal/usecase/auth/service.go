package auth

import (
	"context"
	"errors"
	"strings"

	domuser "example.com/storefront/internal/domain/user"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

type Claims struct {
	UserID int64
	Role   domuser.Role
	Email  string
	Name   string
}

type TokenService interface {
	GenerateToken(u *domuser.User) (string, error)
	ParseToken(token string) (*Claims, error)
}

type Service struct {
	userRepo domuser.Repository
	hasher   PasswordHasher
	tokens   TokenService
}

func NewService(
	userRepo domuser.Repository,
	hasher PasswordHasher,
	tokens TokenService,
) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginResult struct {
	Token string
	User  *domuser.User
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domuser.ErrInvalidCredential
	}

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domuser.ErrUserNotFound) {
			return nil, domuser.ErrUnauthorized
		}
		return nil, err
	}

	if err := s.hasher.Compare(u.PasswordHash, in.Password); err != nil {
		return nil, domuser.ErrUnauthorized
	}

	return s.issue(u)
}

// Register creates a buyer account and signs it in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*LoginResult, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || name == "" || in.Password == "" {
		return nil, domuser.ErrInvalidCredential
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.userRepo.Create(ctx, &domuser.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domuser.RoleUser,
	})
	if err != nil {
		return nil, err
	}

	return s.issue(u)
}

func (s *Service) issue(u *domuser.User) (*LoginResult, error) {
	token, err := s.tokens.GenerateToken(u)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token: token,
		User:  u,
	}, nil
}
