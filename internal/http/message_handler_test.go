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

type messageHandlerFixture struct {
	service     *mocks.MockMessageServiceInterface
	authService *mocks.MockAuthService
	mux         *http.ServeMux
}

func setupMessageHandler(t *testing.T) *messageHandlerFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &messageHandlerFixture{
		service:     mocks.NewMockMessageServiceInterface(ctrl),
		authService: mocks.NewMockAuthService(ctrl),
		mux:         http.NewServeMux(),
	}
	handler := NewMessageHandler(f.service, f.authService, logger.NewTestLogger(t))
	handler.RegisterRoutes(f.mux)
	return f
}

func (f *messageHandlerFixture) authorize(workspaceID string) {
	claims := &domain.AuthClaims{WorkspaceID: workspaceID, Role: domain.RoleWorkspace}
	f.authService.EXPECT().VerifyToken("test-token").Return(claims, nil)
	f.authService.EXPECT().AuthenticateForWorkspace(gomock.Any(), workspaceID).Return(claims, nil)
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer test-token")
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSendTemplateEndpoint(t *testing.T) {
	f := setupMessageHandler(t)
	f.authorize("ws1")

	f.service.EXPECT().
		SendTemplate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, req *domain.SendTemplateRequest) (*domain.SendTemplateResult, error) {
			assert.Equal(t, "ws1", req.WorkspaceID)
			assert.Equal(t, "tpl-1", req.TemplateID)
			assert.Equal(t, "919900112233", req.To)
			return &domain.SendTemplateResult{ProviderMessageID: "wamid.out1"}, nil
		})

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, postJSON("/api/messages.sendTemplate",
		`{"workspace_id":"ws1","template_id":"tpl-1","to":"919900112233","variables":{"body":["#1042"]}}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "wamid.out1")
}

func TestSendTemplateValidationRejected(t *testing.T) {
	f := setupMessageHandler(t)

	claims := &domain.AuthClaims{WorkspaceID: "ws1", Role: domain.RoleWorkspace}
	f.authService.EXPECT().VerifyToken("test-token").Return(claims, nil)

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, postJSON("/api/messages.sendTemplate",
		`{"workspace_id":"ws1","to":"919900112233"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "template_id or template_name")
}

func TestSendTemplateRateLimitedCarriesRetryAfter(t *testing.T) {
	f := setupMessageHandler(t)
	f.authorize("ws1")

	f.service.EXPECT().
		SendTemplate(gomock.Any(), gomock.Any()).
		Return(nil, domain.NewLimitError(domain.ErrKindRateLimitExceeded, 2, "burst limit reached"))

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, postJSON("/api/messages.sendTemplate",
		`{"workspace_id":"ws1","template_id":"tpl-1","to":"919900112233"}`))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), string(domain.ErrKindRateLimitExceeded))
}

func TestSendTemplateOptedOutIsForbidden(t *testing.T) {
	f := setupMessageHandler(t)
	f.authorize("ws1")

	f.service.EXPECT().
		SendTemplate(gomock.Any(), gomock.Any()).
		Return(nil, domain.NewSendError(domain.ErrKindOptedOut, "contact has opted out"))

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, postJSON("/api/messages.sendTemplate",
		`{"workspace_id":"ws1","template_id":"tpl-1","to":"919900112233"}`))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSendTemplateWrongWorkspaceIsUnauthorized(t *testing.T) {
	f := setupMessageHandler(t)

	claims := &domain.AuthClaims{WorkspaceID: "ws2", Role: domain.RoleWorkspace}
	f.authService.EXPECT().VerifyToken("test-token").Return(claims, nil)
	f.authService.EXPECT().
		AuthenticateForWorkspace(gomock.Any(), "ws1").
		Return(nil, &domain.ErrUnauthorized{Message: "workspace access denied"})

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, postJSON("/api/messages.sendTemplate",
		`{"workspace_id":"ws1","template_id":"tpl-1","to":"919900112233"}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSendBulkEndpoint(t *testing.T) {
	f := setupMessageHandler(t)
	f.authorize("ws1")

	f.service.EXPECT().
		SendBulk(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, req *domain.SendBulkRequest) (*domain.SendBulkResult, error) {
			assert.Len(t, req.Recipients, 2)
			return &domain.SendBulkResult{Sent: 2, Results: []domain.BulkItemResult{
				{To: "919900112233", Success: true},
				{To: "919900112234", Success: true},
			}}, nil
		})

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, postJSON("/api/messages.sendBulk",
		`{"workspace_id":"ws1","template_id":"tpl-1","recipients":[{"to":"919900112233"},{"to":"919900112234"}]}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sent":2`)
}

func TestListMessagesEndpoint(t *testing.T) {
	f := setupMessageHandler(t)
	f.authorize("ws1")

	f.service.EXPECT().
		List(gomock.Any(), "ws1", gomock.Any()).
		DoAndReturn(func(_ interface{}, _ string, params domain.MessageListParams) (*domain.MessageListResult, error) {
			assert.Equal(t, "conv-1", params.ConversationID)
			assert.Equal(t, 50, params.Limit)
			return &domain.MessageListResult{Messages: []*domain.Message{{ID: "msg-1"}}}, nil
		})

	req := httptest.NewRequest(http.MethodGet,
		"/api/messages.list?workspace_id=ws1&conversation_id=conv-1&limit=50", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "msg-1")
}

func TestListMessagesRequiresWorkspaceID(t *testing.T) {
	f := setupMessageHandler(t)

	claims := &domain.AuthClaims{WorkspaceID: "ws1", Role: domain.RoleWorkspace}
	f.authService.EXPECT().VerifyToken("test-token").Return(claims, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/messages.list", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMessagesMethodNotAllowed(t *testing.T) {
	f := setupMessageHandler(t)

	claims := &domain.AuthClaims{WorkspaceID: "ws1", Role: domain.RoleWorkspace}
	f.authService.EXPECT().VerifyToken("test-token").Return(claims, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/messages.sendTemplate", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
