package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/pkg/crypto"
	"github.com/Waypost/waypost/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthService implements domain.AuthService with HMAC-signed JWTs for
// short-lived bearer tokens and bcrypt-hashed API keys for long-lived tenant
// credentials.
type AuthService struct {
	apiKeyRepo domain.APIKeyRepository
	secretKey  []byte
	logger     logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(apiKeyRepo domain.APIKeyRepository, secretKey string, log logger.Logger) *AuthService {
	return &AuthService{
		apiKeyRepo: apiKeyRepo,
		secretKey:  []byte(secretKey),
		logger:     log,
	}
}

// tokenClaims is the JWT claim set behind a bearer token.
type tokenClaims struct {
	WorkspaceID string `json:"workspace_id,omitempty"`
	Role        string `json:"role"`
	APIKeyID    string `json:"api_key_id,omitempty"`
	jwt.RegisteredClaims
}

// AuthenticateFromContext returns the claims middleware attached.
func (s *AuthService) AuthenticateFromContext(ctx context.Context) (*domain.AuthClaims, error) {
	claims, ok := domain.AuthClaimsFromContext(ctx)
	if !ok {
		return nil, &domain.ErrUnauthorized{Message: "request is not authenticated"}
	}
	return claims, nil
}

// AuthenticateForWorkspace additionally checks workspace access. Admin
// claims pass for any workspace.
func (s *AuthService) AuthenticateForWorkspace(ctx context.Context, workspaceID string) (*domain.AuthClaims, error) {
	claims, err := s.AuthenticateFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if claims.IsAdmin() {
		return claims, nil
	}
	if claims.WorkspaceID == "" || claims.WorkspaceID != workspaceID {
		return nil, &domain.ErrUnauthorized{Message: fmt.Sprintf("no access to workspace %s", workspaceID)}
	}
	return claims, nil
}

// VerifyToken validates a bearer token and returns its claims.
func (s *AuthService) VerifyToken(token string) (*domain.AuthClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, &domain.ErrUnauthorized{Message: "invalid or expired token"}
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || claims.Role == "" {
		return nil, &domain.ErrUnauthorized{Message: "token carries no role"}
	}
	return &domain.AuthClaims{
		WorkspaceID: claims.WorkspaceID,
		Role:        claims.Role,
		APIKeyID:    claims.APIKeyID,
	}, nil
}

// GenerateToken mints a signed bearer token for the claims.
func (s *AuthService) GenerateToken(claims *domain.AuthClaims, expiresAt time.Time) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &tokenClaims{
		WorkspaceID: claims.WorkspaceID,
		Role:        claims.Role,
		APIKeyID:    claims.APIKeyID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
		},
	})
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyAPIKey validates a raw API key. The stored prefix narrows the
// candidate set; the bcrypt hash decides.
func (s *AuthService) VerifyAPIKey(ctx context.Context, rawKey string) (*domain.AuthClaims, error) {
	if len(rawKey) <= domain.APIKeyPrefixLen {
		return nil, &domain.ErrUnauthorized{Message: "invalid api key"}
	}

	candidates, err := s.apiKeyRepo.GetByPrefix(ctx, rawKey[:domain.APIKeyPrefixLen])
	if err != nil {
		return nil, fmt.Errorf("failed to look up api key: %w", err)
	}

	for _, key := range candidates {
		if !key.IsActive() {
			continue
		}
		if !crypto.CheckAPIKeyHash(rawKey, key.Hash) {
			continue
		}
		if err := s.apiKeyRepo.TouchLastUsed(ctx, key.ID, time.Now().UTC()); err != nil {
			s.logger.WithField("api_key_id", key.ID).Warn("Failed to stamp api key usage")
		}
		return &domain.AuthClaims{
			WorkspaceID: key.WorkspaceID,
			Role:        key.Role,
			APIKeyID:    key.ID,
		}, nil
	}
	return nil, &domain.ErrUnauthorized{Message: "invalid api key"}
}

// CreateAPIKey mints a workspace credential. The returned raw secret is
// shown exactly once; only its hash is stored.
func (s *AuthService) CreateAPIKey(ctx context.Context, workspaceID, name, role string) (*domain.APIKey, string, error) {
	if name == "" {
		return nil, "", fmt.Errorf("api key name is required")
	}
	switch role {
	case domain.RoleAdmin, domain.RoleWorkspace:
	case "":
		role = domain.RoleWorkspace
	default:
		return nil, "", fmt.Errorf("unknown role: %s", role)
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, "", fmt.Errorf("failed to generate api key: %w", err)
	}
	rawKey := "wp_" + base64.RawURLEncoding.EncodeToString(raw)

	hash, err := crypto.HashAPIKey(rawKey)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash api key: %w", err)
	}

	key := &domain.APIKey{
		ID:          uuid.New().String(),
		WorkspaceID: workspaceID,
		Name:        name,
		Prefix:      rawKey[:domain.APIKeyPrefixLen],
		Hash:        hash,
		Role:        role,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.apiKeyRepo.Create(ctx, key); err != nil {
		return nil, "", fmt.Errorf("failed to store api key: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"workspace_id": workspaceID,
		"api_key_id":   key.ID,
		"role":         role,
	}).Info("API key created")
	return key, rawKey, nil
}

// RevokeAPIKey disables a credential. Revocation is permanent.
func (s *AuthService) RevokeAPIKey(ctx context.Context, workspaceID, keyID string) error {
	key, err := s.apiKeyRepo.GetByID(ctx, keyID)
	if err != nil {
		return err
	}
	if key.WorkspaceID != workspaceID {
		return &domain.ErrUnauthorized{Message: "api key belongs to another workspace"}
	}
	if err := s.apiKeyRepo.Revoke(ctx, keyID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to revoke api key: %w", err)
	}
	s.logger.WithFields(map[string]interface{}{
		"workspace_id": workspaceID,
		"api_key_id":   keyID,
	}).Info("API key revoked")
	return nil
}

// ListAPIKeys returns the workspace's credentials, hashes excluded.
func (s *AuthService) ListAPIKeys(ctx context.Context, workspaceID string) ([]*domain.APIKey, error) {
	return s.apiKeyRepo.ListByWorkspace(ctx, workspaceID)
}
