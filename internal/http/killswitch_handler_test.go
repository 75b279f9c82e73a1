package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/internal/domain/mocks"
	"github.com/Waypost/waypost/pkg/logger"
)

type killSwitchHandlerFixture struct {
	service     *mocks.MockKillSwitchServiceInterface
	authService *mocks.MockAuthService
	mux         *http.ServeMux
}

func setupKillSwitchHandler(t *testing.T) *killSwitchHandlerFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &killSwitchHandlerFixture{
		service:     mocks.NewMockKillSwitchServiceInterface(ctrl),
		authService: mocks.NewMockAuthService(ctrl),
		mux:         http.NewServeMux(),
	}
	handler := NewKillSwitchHandler(f.service, f.authService, logger.NewTestLogger(t))
	handler.RegisterRoutes(f.mux)
	return f
}

func (f *killSwitchHandlerFixture) asAdmin() *domain.AuthClaims {
	claims := &domain.AuthClaims{Role: domain.RoleAdmin, APIKeyID: "key-admin"}
	f.authService.EXPECT().VerifyToken("admin-token").Return(claims, nil)
	return claims
}

func adminRequest(method, path, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	req.Header.Set("Authorization", "Bearer admin-token")
	return req
}

func TestKillSwitchActivateWorkspace(t *testing.T) {
	f := setupKillSwitchHandler(t)
	claims := f.asAdmin()
	f.authService.EXPECT().AuthenticateFromContext(gomock.Any()).Return(claims, nil)

	f.service.EXPECT().
		Trip(gomock.Any(), "ws1", domain.KillAdminTriggered, "quality drop", "key-admin").
		Return(&domain.KillSwitchEvent{ID: "evt-1", Reason: domain.KillAdminTriggered}, nil)

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, adminRequest(http.MethodPost, "/api/admin/killswitch.activate",
		`{"workspace_id":"ws1","detail":"quality drop"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "evt-1")
}

func TestKillSwitchActivateGlobal(t *testing.T) {
	f := setupKillSwitchHandler(t)
	claims := f.asAdmin()
	f.authService.EXPECT().AuthenticateFromContext(gomock.Any()).Return(claims, nil)

	f.service.EXPECT().
		EngageGlobal(gomock.Any(), domain.KillAdminTriggered, "incident response", "key-admin").
		Return(nil)

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, adminRequest(http.MethodPost, "/api/admin/killswitch.activate",
		`{"detail":"incident response"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"engaged":true`)
}

func TestKillSwitchDeactivate(t *testing.T) {
	f := setupKillSwitchHandler(t)
	f.asAdmin()

	f.service.EXPECT().ClearGlobal(gomock.Any()).Return(nil)

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, adminRequest(http.MethodPost, "/api/admin/killswitch.deactivate", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"engaged":false`)
}

func TestKillSwitchStatus(t *testing.T) {
	f := setupKillSwitchHandler(t)
	f.asAdmin()

	f.service.EXPECT().
		GlobalState(gomock.Any()).
		Return(&domain.GlobalSwitchState{Engaged: true, Reason: domain.KillAccountBlocked}, nil)

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, adminRequest(http.MethodGet, "/api/admin/killswitch.status", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), string(domain.KillAccountBlocked))
}

func TestKillSwitchRejectsNonAdmin(t *testing.T) {
	f := setupKillSwitchHandler(t)

	claims := &domain.AuthClaims{WorkspaceID: "ws1", Role: domain.RoleWorkspace}
	f.authService.EXPECT().VerifyToken("admin-token").Return(claims, nil)

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, adminRequest(http.MethodPost, "/api/admin/killswitch.activate", `{}`))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestKillSwitchRejectsUnauthenticated(t *testing.T) {
	f := setupKillSwitchHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/killswitch.status", nil)
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
