package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domuser "example.com/storefront/internal/domain/user"
	authuc "example.com/storefront/internal/usecase/auth"
)

const issuer = "storefront"

var errInvalidToken = errors.New("invalid token")

type JWTService struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

func NewJWTService(secret string, expiration time.Duration) *JWTService {
	return &JWTService{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

type jwtClaims struct {
	UserID int64  `json:"uid"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

func (s *JWTService) GenerateToken(u *domuser.User) (string, error) {
	now := s.now()
	claims := jwtClaims{
		UserID: u.ID,
		Role:   string(u.Role),
		Email:  u.Email,
		Name:   u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) ParseToken(token string) (*authuc.Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok || !parsed.Valid {
		return nil, errInvalidToken
	}

	role, err := domuser.ParseRole(claims.Role)
	if err != nil {
		return nil, err
	}

	return &authuc.Claims{
		UserID: claims.UserID,
		Role:   role,
		Email:  claims.Email,
		Name:   claims.Name,
	}, nil
}
