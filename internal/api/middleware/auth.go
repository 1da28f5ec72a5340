package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/example/ec-storefront/internal/auth"
)

// SessionCookie carries the browser session. API clients send the same token
// as a Bearer Authorization header instead.
const SessionCookie = "access_token"

var errNoToken = errors.New("no session token")

// TokenValidator verifies a session token. *auth.JWTService implements it.
type TokenValidator interface {
	ValidateAccessToken(token string) (*auth.Claims, error)
}

type userKey struct{}

// WithUser returns a copy of ctx carrying the session claims.
func WithUser(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, userKey{}, claims)
}

func GetUserFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(userKey{}).(*auth.Claims)
	return claims, ok && claims != nil
}

// GetUserID returns the session user id, or "" for anonymous requests.
func GetUserID(ctx context.Context) string {
	if claims, ok := GetUserFromContext(ctx); ok {
		return claims.ID()
	}
	return ""
}

// IsAdmin reports whether the session carries the admin or service role.
func IsAdmin(ctx context.Context) bool {
	claims, ok := GetUserFromContext(ctx)
	return ok && hasRole(claims, auth.RoleAdmin, auth.RoleService)
}

// ExtractToken prefers a non-empty session cookie over the Authorization header.
func ExtractToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func authenticate(sessions TokenValidator, r *http.Request) (*auth.Claims, error) {
	token := ExtractToken(r)
	if token == "" {
		return nil, errNoToken
	}
	return sessions.ValidateAccessToken(token)
}

// rejection is the client-facing reason for a failed authenticate.
func rejection(err error) string {
	switch {
	case errors.Is(err, errNoToken):
		return "unauthorized"
	case errors.Is(err, auth.ErrExpiredToken):
		return "session expired"
	default:
		return "invalid token"
	}
}

// AuthMiddleware answers 401 unless the request carries a valid session.
func AuthMiddleware(sessions TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := authenticate(sessions, r)
			if err != nil {
				respondError(w, rejection(err), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims)))
		})
	}
}

// OptionalAuthMiddleware attaches the session when one validates. Bad or
// expired tokens are treated as anonymous.
func OptionalAuthMiddleware(sessions TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, err := authenticate(sessions, r); err == nil {
				r = r.WithContext(WithUser(r.Context(), claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetUserFromContext(r.Context())
			switch {
			case !ok:
				respondError(w, "unauthorized", http.StatusUnauthorized)
			case !hasRole(claims, roles...):
				respondError(w, "forbidden", http.StatusForbidden)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func hasRole(claims *auth.Claims, roles ...string) bool {
	for _, role := range roles {
		if claims.Role == role {
			return true
		}
	}
	return false
}

func respondError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
