package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination mocks/mock_auth_service.go -package mocks github.com/Waypost/waypost/internal/domain AuthService
//go:generate mockgen -destination mocks/mock_api_key_repository.go -package mocks github.com/Waypost/waypost/internal/domain APIKeyRepository

// Roles carried in auth claims.
const (
	RoleAdmin     = "admin"
	RoleWorkspace = "workspace"
)

// APIKeyPrefixLen is how many leading characters of a raw key are stored for
// lookup; the rest is only ever compared against the hash.
const APIKeyPrefixLen = 8

// APIKey is a tenant credential. The raw secret is shown once at creation;
// only its hash is stored.
type APIKey struct {
	ID          string     `json:"id"`
	WorkspaceID string     `json:"workspace_id"`
	Name        string     `json:"name"`
	Prefix      string     `json:"prefix"`
	Hash        string     `json:"-"`
	Role        string     `json:"role"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsActive reports whether the key may authenticate.
func (k *APIKey) IsActive() bool {
	return k.RevokedAt == nil
}

// AuthClaims is the authenticated identity attached to a request context.
type AuthClaims struct {
	WorkspaceID string `json:"workspace_id,omitempty"`
	Role        string `json:"role"`
	APIKeyID    string `json:"api_key_id,omitempty"`
}

// IsAdmin reports whether the claims allow platform-level operations.
func (c *AuthClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

type authContextKey string

// AuthClaimsContextKey is where middleware stores the authenticated claims.
const AuthClaimsContextKey authContextKey = "auth_claims"

// WithAuthClaims attaches authenticated claims to a request context.
func WithAuthClaims(ctx context.Context, claims *AuthClaims) context.Context {
	return context.WithValue(ctx, AuthClaimsContextKey, claims)
}

// AuthClaimsFromContext returns the claims middleware attached, if any.
func AuthClaimsFromContext(ctx context.Context) (*AuthClaims, bool) {
	claims, ok := ctx.Value(AuthClaimsContextKey).(*AuthClaims)
	return claims, ok && claims != nil
}

// APIKeyRepository stores credentials in the system database.
type APIKeyRepository interface {
	Create(ctx context.Context, key *APIKey) error
	GetByPrefix(ctx context.Context, prefix string) ([]*APIKey, error)
	GetByID(ctx context.Context, id string) (*APIKey, error)
	TouchLastUsed(ctx context.Context, id string, at time.Time) error
	Revoke(ctx context.Context, id string, at time.Time) error
	ListByWorkspace(ctx context.Context, workspaceID string) ([]*APIKey, error)
}

// AuthService authenticates requests and mints tokens.
type AuthService interface {
	// AuthenticateFromContext returns the claims middleware attached, or
	// ErrUnauthorized.
	AuthenticateFromContext(ctx context.Context) (*AuthClaims, error)

	// AuthenticateForWorkspace additionally checks the claims grant access
	// to the given workspace. Admin claims pass for any workspace.
	AuthenticateForWorkspace(ctx context.Context, workspaceID string) (*AuthClaims, error)

	// VerifyToken validates a bearer token and returns its claims.
	VerifyToken(token string) (*AuthClaims, error)

	// VerifyAPIKey validates a raw API key and returns its claims.
	VerifyAPIKey(ctx context.Context, rawKey string) (*AuthClaims, error)

	// GenerateToken mints a signed bearer token for the claims.
	GenerateToken(claims *AuthClaims, expiresAt time.Time) (string, error)

	// CreateAPIKey mints a workspace credential and returns the raw secret
	// exactly once.
	CreateAPIKey(ctx context.Context, workspaceID, name, role string) (*APIKey, string, error)
	RevokeAPIKey(ctx context.Context, workspaceID, keyID string) error
	ListAPIKeys(ctx context.Context, workspaceID string) ([]*APIKey, error)
}
