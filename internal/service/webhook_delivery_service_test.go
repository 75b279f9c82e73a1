package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	svix "github.com/standard-webhooks/standard-webhooks/libraries/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/internal/domain/mocks"
	"github.com/Waypost/waypost/pkg/logger"
)

var testWebhookSecret = "whsec_" + base64.StdEncoding.EncodeToString([]byte("0123456789abcdef01234567"))

type deliveryFixture struct {
	svc              *WebhookDeliveryService
	subscriptionRepo *mocks.MockWebhookSubscriptionRepository
	deliveryRepo     *mocks.MockWebhookDeliveryRepository
	workspaceRepo    *mocks.MockWorkspaceRepository
}

func newDeliveryFixture(t *testing.T) *deliveryFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &deliveryFixture{
		subscriptionRepo: mocks.NewMockWebhookSubscriptionRepository(ctrl),
		deliveryRepo:     mocks.NewMockWebhookDeliveryRepository(ctrl),
		workspaceRepo:    mocks.NewMockWorkspaceRepository(ctrl),
	}
	f.svc = NewWebhookDeliveryService(
		f.subscriptionRepo, f.deliveryRepo, f.workspaceRepo,
		&http.Client{Timeout: 5 * time.Second}, logger.NewTestLogger(t),
	)
	return f
}

func enabledSubscription(url string, eventTypes ...string) *domain.WebhookSubscription {
	return &domain.WebhookSubscription{
		ID:         "sub-1",
		Name:       "crm sync",
		URL:        url,
		Secret:     testWebhookSecret,
		EventTypes: eventTypes,
		Enabled:    true,
	}
}

func pendingDelivery() *domain.WebhookDelivery {
	return &domain.WebhookDelivery{
		ID:             "dlv-1",
		SubscriptionID: "sub-1",
		EventType:      "message.received",
		Payload:        map[string]interface{}{"entity_id": "msg-1"},
		Status:         domain.WebhookDeliveryStatusPending,
		MaxAttempts:    webhookDeliveryMaxAttempts,
	}
}

func TestExternalEventType(t *testing.T) {
	tests := []struct {
		name    string
		payload domain.EventPayload
		want    string
	}{
		{
			name:    "message received",
			payload: domain.EventPayload{Type: domain.EventMessageReceived},
			want:    "message.received",
		},
		{
			name: "delivered status",
			payload: domain.EventPayload{
				Type: domain.EventMessageStatus,
				Data: map[string]interface{}{"status": "delivered"},
			},
			want: "message.delivered",
		},
		{
			name: "unknown status not fanned out",
			payload: domain.EventPayload{
				Type: domain.EventMessageStatus,
				Data: map[string]interface{}{"status": "queued"},
			},
			want: "",
		},
		{
			name: "reopened conversation",
			payload: domain.EventPayload{
				Type: domain.EventConversationNew,
				Data: map[string]interface{}{"reopened": true},
			},
			want: "conversation.reopened",
		},
		{
			name: "opt in",
			payload: domain.EventPayload{
				Type: domain.EventContactOptedOut,
				Data: map[string]interface{}{"opted_in": true},
			},
			want: "contact.opted_in",
		},
		{
			name: "template approved",
			payload: domain.EventPayload{
				Type: domain.EventTemplateStatus,
				Data: map[string]interface{}{"status": "APPROVED"},
			},
			want: "template.approved",
		},
		{
			name:    "campaign scheduled maps to started",
			payload: domain.EventPayload{Type: domain.EventCampaignScheduled},
			want:    "campaign.started",
		},
		{
			name:    "kill switch events stay internal",
			payload: domain.EventPayload{Type: domain.EventKillSwitchTripped},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, externalEventType(tt.payload))
		})
	}
}

func TestHandleEventEnqueuesMatchingSubscriptions(t *testing.T) {
	f := newDeliveryFixture(t)

	wants := enabledSubscription("https://crm.example.com/hook", "message.received")
	other := enabledSubscription("https://other.example.com/hook", "campaign.paused")
	other.ID = "sub-2"

	f.subscriptionRepo.EXPECT().List(gomock.Any(), "ws1").
		Return([]*domain.WebhookSubscription{wants, other}, nil)

	var stored *domain.WebhookDelivery
	f.deliveryRepo.EXPECT().Create(gomock.Any(), "ws1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, d *domain.WebhookDelivery) error {
			stored = d
			return nil
		})

	f.svc.handleEvent(context.Background(), domain.EventPayload{
		Type:        domain.EventMessageReceived,
		WorkspaceID: "ws1",
		EntityID:    "msg-1",
		Data:        map[string]interface{}{"from": "919900112233"},
	})

	require.NotNil(t, stored)
	assert.Equal(t, "sub-1", stored.SubscriptionID)
	assert.Equal(t, "message.received", stored.EventType)
	assert.Equal(t, domain.WebhookDeliveryStatusPending, stored.Status)
	assert.Equal(t, webhookDeliveryMaxAttempts, stored.MaxAttempts)
	assert.Equal(t, "msg-1", stored.Payload["entity_id"])
}

func TestHandleEventWildcardSubscription(t *testing.T) {
	f := newDeliveryFixture(t)

	sub := enabledSubscription("https://crm.example.com/hook", "*")
	f.subscriptionRepo.EXPECT().List(gomock.Any(), "ws1").
		Return([]*domain.WebhookSubscription{sub}, nil)
	f.deliveryRepo.EXPECT().Create(gomock.Any(), "ws1", gomock.Any()).Return(nil)

	f.svc.handleEvent(context.Background(), domain.EventPayload{
		Type:        domain.EventCampaignPaused,
		WorkspaceID: "ws1",
		EntityID:    "camp-1",
	})
}

func TestHandleEventInternalEventNotFannedOut(t *testing.T) {
	f := newDeliveryFixture(t)

	// No List expectation: events without an external name never hit the
	// subscription store.
	f.svc.handleEvent(context.Background(), domain.EventPayload{
		Type:        domain.EventKillSwitchTripped,
		WorkspaceID: "ws1",
	})
}

func TestProcessWorkspaceDeliversAndSigns(t *testing.T) {
	f := newDeliveryFixture(t)

	var gotBody []byte
	var gotHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotHeaders = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sub := enabledSubscription(server.URL, "message.received")
	delivery := pendingDelivery()

	f.deliveryRepo.EXPECT().GetPendingForWorkspace(gomock.Any(), "ws1", 100).
		Return([]*domain.WebhookDelivery{delivery}, nil)
	f.subscriptionRepo.EXPECT().GetByID(gomock.Any(), "ws1", "sub-1").Return(sub, nil)
	f.deliveryRepo.EXPECT().MarkDelivered(gomock.Any(), "ws1", "dlv-1", http.StatusOK, gomock.Any()).Return(nil)
	f.subscriptionRepo.EXPECT().IncrementStats(gomock.Any(), "ws1", "sub-1", true).Return(nil)
	f.subscriptionRepo.EXPECT().UpdateLastDeliveryAt(gomock.Any(), "ws1", "sub-1", gomock.Any()).Return(nil)

	require.NoError(t, f.svc.processWorkspace(context.Background(), "ws1"))

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(gotBody, &envelope))
	assert.Equal(t, "dlv-1", envelope["id"])
	assert.Equal(t, "message.received", envelope["type"])
	assert.Equal(t, "ws1", envelope["workspace_id"])

	assert.Equal(t, "dlv-1", gotHeaders.Get("webhook-id"))
	assert.NotEmpty(t, gotHeaders.Get("webhook-timestamp"))

	// The receiver must be able to verify with the shared secret.
	wh, err := svix.NewWebhook(sub.Secret)
	require.NoError(t, err)
	assert.NoError(t, wh.Verify(gotBody, gotHeaders))
}

func TestProcessWorkspaceSchedulesRetryOn500(t *testing.T) {
	f := newDeliveryFixture(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "downstream exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	sub := enabledSubscription(server.URL, "message.received")
	delivery := pendingDelivery()
	delivery.Attempts = 2

	f.deliveryRepo.EXPECT().GetPendingForWorkspace(gomock.Any(), "ws1", 100).
		Return([]*domain.WebhookDelivery{delivery}, nil)
	f.subscriptionRepo.EXPECT().GetByID(gomock.Any(), "ws1", "sub-1").Return(sub, nil)
	f.deliveryRepo.EXPECT().
		ScheduleRetry(gomock.Any(), "ws1", "dlv-1", gomock.Any(), 3, gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, nextAttempt time.Time, _ int, statusCode *int, _, lastError *string) error {
			assert.True(t, nextAttempt.After(time.Now().UTC()))
			require.NotNil(t, statusCode)
			assert.Equal(t, http.StatusInternalServerError, *statusCode)
			require.NotNil(t, lastError)
			assert.Equal(t, "HTTP 500", *lastError)
			return nil
		})

	require.NoError(t, f.svc.processWorkspace(context.Background(), "ws1"))
}

func TestProcessWorkspaceExhaustedAttemptsMarkFailed(t *testing.T) {
	f := newDeliveryFixture(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sub := enabledSubscription(server.URL, "message.received")
	delivery := pendingDelivery()
	delivery.Attempts = webhookDeliveryMaxAttempts - 1

	f.deliveryRepo.EXPECT().GetPendingForWorkspace(gomock.Any(), "ws1", 100).
		Return([]*domain.WebhookDelivery{delivery}, nil)
	f.subscriptionRepo.EXPECT().GetByID(gomock.Any(), "ws1", "sub-1").Return(sub, nil)
	f.deliveryRepo.EXPECT().
		MarkFailed(gomock.Any(), "ws1", "dlv-1", webhookDeliveryMaxAttempts, "HTTP 502", gomock.Any(), gomock.Any()).
		Return(nil)
	f.subscriptionRepo.EXPECT().IncrementStats(gomock.Any(), "ws1", "sub-1", false).Return(nil)

	require.NoError(t, f.svc.processWorkspace(context.Background(), "ws1"))
}

func TestProcessWorkspaceSkipsDisabledSubscription(t *testing.T) {
	f := newDeliveryFixture(t)

	sub := enabledSubscription("https://crm.example.com/hook", "message.received")
	sub.Enabled = false
	delivery := pendingDelivery()

	f.deliveryRepo.EXPECT().GetPendingForWorkspace(gomock.Any(), "ws1", 100).
		Return([]*domain.WebhookDelivery{delivery}, nil)
	f.subscriptionRepo.EXPECT().GetByID(gomock.Any(), "ws1", "sub-1").Return(sub, nil)

	require.NoError(t, f.svc.processWorkspace(context.Background(), "ws1"))
}

func TestProcessWorkspaceCachesSubscriptionLookups(t *testing.T) {
	f := newDeliveryFixture(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sub := enabledSubscription(server.URL, "message.received")
	first := pendingDelivery()
	second := pendingDelivery()
	second.ID = "dlv-2"

	f.deliveryRepo.EXPECT().GetPendingForWorkspace(gomock.Any(), "ws1", 100).
		Return([]*domain.WebhookDelivery{first, second}, nil)
	f.subscriptionRepo.EXPECT().GetByID(gomock.Any(), "ws1", "sub-1").Return(sub, nil).Times(1)
	f.deliveryRepo.EXPECT().MarkDelivered(gomock.Any(), "ws1", gomock.Any(), http.StatusOK, gomock.Any()).Return(nil).Times(2)
	f.subscriptionRepo.EXPECT().IncrementStats(gomock.Any(), "ws1", "sub-1", true).Return(nil).Times(2)
	f.subscriptionRepo.EXPECT().UpdateLastDeliveryAt(gomock.Any(), "ws1", "sub-1", gomock.Any()).Return(nil).Times(2)

	require.NoError(t, f.svc.processWorkspace(context.Background(), "ws1"))
}
