package http

import (
	"errors"
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

func setupWebhookHandler(t *testing.T) (*WebhookHandler, *mocks.MockWebhookIngressServiceInterface, *http.ServeMux) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	ingress := mocks.NewMockWebhookIngressServiceInterface(ctrl)
	handler := NewWebhookHandler(ingress, logger.NewTestLogger(t))

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	return handler, ingress, mux
}

func TestWebhookVerifyHandshake(t *testing.T) {
	_, ingress, mux := setupWebhookHandler(t)

	ingress.EXPECT().
		VerifySubscription("subscribe", "verify-token", "challenge-42").
		Return("challenge-42", nil)

	req := httptest.NewRequest(http.MethodGet,
		"/webhooks/bsp?hub.mode=subscribe&hub.verify_token=verify-token&hub.challenge=challenge-42", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "challenge-42", rec.Body.String())
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
}

func TestWebhookVerifyHandshakeRejected(t *testing.T) {
	_, ingress, mux := setupWebhookHandler(t)

	ingress.EXPECT().
		VerifySubscription("subscribe", "wrong", "challenge-42").
		Return("", domain.NewSendError(domain.ErrKindInvalidSignature, "verify token mismatch"))

	req := httptest.NewRequest(http.MethodGet,
		"/webhooks/bsp?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=challenge-42", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWebhookDeliveryAdmitted(t *testing.T) {
	_, ingress, mux := setupWebhookHandler(t)

	body := `{"object":"whatsapp_business_account","entry":[]}`
	ingress.EXPECT().
		Admit(gomock.Any(), []byte(body), "sha256=abc", "", gomock.Any()).
		Return(&domain.WebhookLog{ID: "log-1", DeliveryID: "delivery-1"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/bsp", strings.NewReader(body))
	req.Header.Set("X-Hub-Signature-256", "sha256=abc")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "delivery-1", rec.Header().Get("X-Delivery-Id"))
}

func TestWebhookDeliveryForwardsDeliveryIDHeader(t *testing.T) {
	_, ingress, mux := setupWebhookHandler(t)

	body := `{"object":"whatsapp_business_account","entry":[]}`
	ingress.EXPECT().
		Admit(gomock.Any(), []byte(body), "sha256=abc", "dlv-77", gomock.Any()).
		Return(&domain.WebhookLog{ID: "log-1", DeliveryID: "dlv-77"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/bsp", strings.NewReader(body))
	req.Header.Set("X-Hub-Signature-256", "sha256=abc")
	req.Header.Set("X-Delivery-Id", "dlv-77")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dlv-77", rec.Header().Get("X-Delivery-Id"))
}

func TestWebhookDeliveryRejections(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "missing signature",
			err:        domain.NewSendError(domain.ErrKindMissingSignature, "missing signature header"),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "invalid signature",
			err:        domain.NewSendError(domain.ErrKindInvalidSignature, "signature does not match body"),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "replay",
			err:        domain.NewSendError(domain.ErrKindReplay, "delivery already seen"),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "config error",
			err:        domain.NewSendError(domain.ErrKindConfigError, "app secret is not configured"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ingress, mux := setupWebhookHandler(t)

			ingress.EXPECT().
				Admit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return(nil, tt.err)

			req := httptest.NewRequest(http.MethodPost, "/webhooks/bsp", strings.NewReader("{}"))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestWebhookDeliveryPostAdmissionFaultStillAcks(t *testing.T) {
	_, ingress, mux := setupWebhookHandler(t)

	// A queue fault after admission must not surface as an error: the
	// provider would retry a delivery that is already logged.
	ingress.EXPECT().
		Admit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&domain.WebhookLog{ID: "log-1", DeliveryID: "delivery-1"}, errors.New("failed to enqueue webhook job"))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/bsp", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "delivery-1", rec.Header().Get("X-Delivery-Id"))
}

func TestWebhookDeliveryPayloadTooLarge(t *testing.T) {
	_, _, mux := setupWebhookHandler(t)

	huge := strings.Repeat("a", maxWebhookBodyBytes+1)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/bsp", strings.NewReader(huge))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestWebhookMethodNotAllowed(t *testing.T) {
	_, _, mux := setupWebhookHandler(t)

	req := httptest.NewRequest(http.MethodDelete, "/webhooks/bsp", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
