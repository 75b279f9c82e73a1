package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Waypost/waypost/internal/domain"
)

// AuthVerifier is the slice of the auth service the middleware needs.
type AuthVerifier interface {
	VerifyToken(token string) (*domain.AuthClaims, error)
	VerifyAPIKey(ctx context.Context, rawKey string) (*domain.AuthClaims, error)
}

// AuthMiddleware authenticates API requests. Two credential shapes are
// accepted: "Bearer <jwt>" for short-lived tokens and "Bearer wp_…" or the
// X-API-Key header for raw API keys. The verified claims ride the request
// context for handlers and the auth service.
type AuthMiddleware struct {
	verifier AuthVerifier
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(verifier AuthVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAuth rejects unauthenticated requests.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.authenticate(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(domain.WithAuthClaims(r.Context(), claims)))
	})
}

// RequireAdmin rejects requests whose claims lack the admin role.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.authenticate(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		if !claims.IsAdmin() {
			http.Error(w, "admin access required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r.WithContext(domain.WithAuthClaims(r.Context(), claims)))
	})
}

func (m *AuthMiddleware) authenticate(r *http.Request) (*domain.AuthClaims, error) {
	if rawKey := r.Header.Get("X-API-Key"); rawKey != "" {
		return m.verifier.VerifyAPIKey(r.Context(), rawKey)
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, &domain.ErrUnauthorized{Message: "authorization header is required"}
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, &domain.ErrUnauthorized{Message: "invalid authorization header format"}
	}

	credential := strings.TrimSpace(parts[1])
	if strings.HasPrefix(credential, "wp_") {
		return m.verifier.VerifyAPIKey(r.Context(), credential)
	}
	return m.verifier.VerifyToken(credential)
}
