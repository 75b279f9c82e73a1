package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/internal/domain/mocks"
	"github.com/Waypost/waypost/pkg/crypto"
	"github.com/Waypost/waypost/pkg/logger"
)

type authFixture struct {
	svc        *AuthService
	apiKeyRepo *mocks.MockAPIKeyRepository
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &authFixture{apiKeyRepo: mocks.NewMockAPIKeyRepository(ctrl)}
	f.svc = NewAuthService(f.apiKeyRepo, "jwt-signing-secret", logger.NewTestLogger(t))
	return f
}

func TestGenerateAndVerifyToken(t *testing.T) {
	f := newAuthFixture(t)

	token, err := f.svc.GenerateToken(&domain.AuthClaims{
		WorkspaceID: "ws1",
		Role:        domain.RoleWorkspace,
		APIKeyID:    "key-1",
	}, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)

	claims, err := f.svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ws1", claims.WorkspaceID)
	assert.Equal(t, domain.RoleWorkspace, claims.Role)
	assert.Equal(t, "key-1", claims.APIKeyID)
}

func TestVerifyTokenExpired(t *testing.T) {
	f := newAuthFixture(t)

	token, err := f.svc.GenerateToken(&domain.AuthClaims{Role: domain.RoleWorkspace},
		time.Now().UTC().Add(-time.Minute))
	require.NoError(t, err)

	_, err = f.svc.VerifyToken(token)
	assert.IsType(t, &domain.ErrUnauthorized{}, err)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	f := newAuthFixture(t)
	other := newAuthFixture(t)
	other.svc.secretKey = []byte("a different secret")

	token, err := other.svc.GenerateToken(&domain.AuthClaims{Role: domain.RoleAdmin},
		time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)

	_, err = f.svc.VerifyToken(token)
	assert.IsType(t, &domain.ErrUnauthorized{}, err)
}

func TestVerifyTokenGarbage(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.VerifyToken("not-a-jwt")
	assert.IsType(t, &domain.ErrUnauthorized{}, err)
}

func TestAuthenticateForWorkspace(t *testing.T) {
	f := newAuthFixture(t)

	ctx := domain.WithAuthClaims(context.Background(),
		&domain.AuthClaims{WorkspaceID: "ws1", Role: domain.RoleWorkspace})

	claims, err := f.svc.AuthenticateForWorkspace(ctx, "ws1")
	require.NoError(t, err)
	assert.Equal(t, "ws1", claims.WorkspaceID)

	_, err = f.svc.AuthenticateForWorkspace(ctx, "ws2")
	assert.IsType(t, &domain.ErrUnauthorized{}, err)
}

func TestAuthenticateForWorkspaceAdminBypass(t *testing.T) {
	f := newAuthFixture(t)

	ctx := domain.WithAuthClaims(context.Background(), &domain.AuthClaims{Role: domain.RoleAdmin})

	claims, err := f.svc.AuthenticateForWorkspace(ctx, "any-workspace")
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())
}

func TestAuthenticateFromContextUnauthenticated(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.AuthenticateFromContext(context.Background())
	assert.IsType(t, &domain.ErrUnauthorized{}, err)
}

func TestCreateAndVerifyAPIKey(t *testing.T) {
	f := newAuthFixture(t)

	var stored *domain.APIKey
	f.apiKeyRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, key *domain.APIKey) error {
			stored = key
			return nil
		})

	key, rawKey, err := f.svc.CreateAPIKey(context.Background(), "ws1", "ci deploys", "")
	require.NoError(t, err)

	assert.Equal(t, domain.RoleWorkspace, key.Role)
	assert.Equal(t, rawKey[:domain.APIKeyPrefixLen], key.Prefix)
	assert.NotContains(t, key.Hash, rawKey)
	assert.True(t, crypto.CheckAPIKeyHash(rawKey, stored.Hash))

	f.apiKeyRepo.EXPECT().GetByPrefix(gomock.Any(), rawKey[:domain.APIKeyPrefixLen]).
		Return([]*domain.APIKey{stored}, nil)
	f.apiKeyRepo.EXPECT().TouchLastUsed(gomock.Any(), stored.ID, gomock.Any()).Return(nil)

	claims, err := f.svc.VerifyAPIKey(context.Background(), rawKey)
	require.NoError(t, err)
	assert.Equal(t, "ws1", claims.WorkspaceID)
	assert.Equal(t, stored.ID, claims.APIKeyID)
}

func TestCreateAPIKeyRejectsUnknownRole(t *testing.T) {
	f := newAuthFixture(t)

	_, _, err := f.svc.CreateAPIKey(context.Background(), "ws1", "bad", "superuser")
	assert.Error(t, err)
}

func TestVerifyAPIKeySkipsRevokedKeys(t *testing.T) {
	f := newAuthFixture(t)

	hash, err := crypto.HashAPIKey("wp_raw-key-material")
	require.NoError(t, err)
	revokedAt := time.Now().UTC()
	revoked := &domain.APIKey{
		ID:          "key-1",
		WorkspaceID: "ws1",
		Prefix:      "wp_raw-k",
		Hash:        hash,
		Role:        domain.RoleWorkspace,
		RevokedAt:   &revokedAt,
	}

	f.apiKeyRepo.EXPECT().GetByPrefix(gomock.Any(), "wp_raw-k").
		Return([]*domain.APIKey{revoked}, nil)

	_, err = f.svc.VerifyAPIKey(context.Background(), "wp_raw-key-material")
	assert.IsType(t, &domain.ErrUnauthorized{}, err)
}

func TestVerifyAPIKeyWrongSecret(t *testing.T) {
	f := newAuthFixture(t)

	hash, err := crypto.HashAPIKey("wp_the-real-key")
	require.NoError(t, err)
	key := &domain.APIKey{
		ID:     "key-1",
		Prefix: "wp_the-r",
		Hash:   hash,
		Role:   domain.RoleWorkspace,
	}

	f.apiKeyRepo.EXPECT().GetByPrefix(gomock.Any(), "wp_the-r").
		Return([]*domain.APIKey{key}, nil)

	_, err = f.svc.VerifyAPIKey(context.Background(), "wp_the-rong-key")
	assert.IsType(t, &domain.ErrUnauthorized{}, err)
}

func TestVerifyAPIKeyTooShort(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.VerifyAPIKey(context.Background(), "wp_")
	assert.IsType(t, &domain.ErrUnauthorized{}, err)
}

func TestRevokeAPIKeyOwnershipCheck(t *testing.T) {
	f := newAuthFixture(t)

	f.apiKeyRepo.EXPECT().GetByID(gomock.Any(), "key-1").
		Return(&domain.APIKey{ID: "key-1", WorkspaceID: "ws2"}, nil)

	err := f.svc.RevokeAPIKey(context.Background(), "ws1", "key-1")
	assert.IsType(t, &domain.ErrUnauthorized{}, err)
}

func TestRevokeAPIKey(t *testing.T) {
	f := newAuthFixture(t)

	f.apiKeyRepo.EXPECT().GetByID(gomock.Any(), "key-1").
		Return(&domain.APIKey{ID: "key-1", WorkspaceID: "ws1"}, nil)
	f.apiKeyRepo.EXPECT().Revoke(gomock.Any(), "key-1", gomock.Any()).Return(nil)

	assert.NoError(t, f.svc.RevokeAPIKey(context.Background(), "ws1", "key-1"))
}
