package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domuser "example.com/storefront/internal/domain/user"
	cartuc "example.com/storefront/internal/usecase/cart"
)

type ctxKey int

const (
	ctxUserKey ctxKey = iota
	ctxCartKey
)

const (
	cartCookieName   = "cart_session"
	cartCookieMaxAge = 30 * 24 * 60 * 60
)

var (
	errUnauthenticated = errors.New("unauthenticated")
	errForbidden       = errors.New("forbidden")
)

type authUser struct {
	UserID int64
	Role   domuser.Role
	Email  string
	Name   string
}

func (a *API) authenticate(r *http.Request) (*authUser, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	claims, err := a.tokenSvc.ParseToken(token)
	if err != nil {
		return nil, false
	}
	return &authUser{
		UserID: claims.UserID,
		Role:   claims.Role,
		Email:  claims.Email,
		Name:   claims.Name,
	}, true
}

func (a *API) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := a.authenticate(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, errUnauthenticated)
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// optionalAuth attaches the user when a valid token is present and lets
// anonymous requests through.
func (a *API) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := a.authenticate(r); ok {
			r = r.WithContext(context.WithValue(r.Context(), ctxUserKey, user))
		}
		next.ServeHTTP(w, r)
	})
}

func (a *API) requireRoles(roles ...domuser.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := getAuthUser(r.Context())
			if user == nil {
				respondError(w, http.StatusUnauthorized, errUnauthenticated)
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			respondError(w, http.StatusForbidden, errForbidden)
		})
	}
}

// cartSession picks the cart for the request: the user's cart when signed
// in, otherwise the guest cart named by the cart_session cookie, issuing a
// new cookie when missing.
func (a *API) cartSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var key string
		if user := getAuthUser(r.Context()); user != nil {
			key = cartuc.UserKey(user.UserID)
		} else {
			id, ok := guestSessionID(r)
			if !ok {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cartCookieName,
					Value:    id,
					Path:     "/",
					MaxAge:   cartCookieMaxAge,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			key = cartuc.GuestKey(id)
		}
		ctx := context.WithValue(r.Context(), ctxCartKey, key)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func guestSessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(cartCookieName)
	if err != nil {
		return "", false
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return "", false
	}
	return c.Value, true
}

func clearGuestCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cartCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			a.logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("remote_addr", r.RemoteAddr))
		}()
		next.ServeHTTP(ww, r)
	})
}

func getAuthUser(ctx context.Context) *authUser {
	val := ctx.Value(ctxUserKey)
	if user, ok := val.(*authUser); ok {
		return user
	}
	return nil
}

func getCartKey(ctx context.Context) string {
	key, _ := ctx.Value(ctxCartKey).(string)
	return key
}
