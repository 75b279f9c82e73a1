package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/pkg/logger"
	"github.com/google/uuid"
	svix "github.com/standard-webhooks/standard-webhooks/libraries/go"
)

// webhookDeliveryMaxAttempts bounds retries of one outgoing delivery.
const webhookDeliveryMaxAttempts = 8

// WebhookDeliveryService fans gateway events out to tenant-registered
// webhook endpoints. Publishing is two-phase: event bus handlers persist
// delivery rows, and the worker loop drains them with standard-webhooks
// signatures and exponential retries.
type WebhookDeliveryService struct {
	subscriptionRepo domain.WebhookSubscriptionRepository
	deliveryRepo     domain.WebhookDeliveryRepository
	workspaceRepo    domain.WorkspaceRepository
	logger           logger.Logger
	httpClient       *http.Client
	pollInterval     time.Duration
	batchSize        int
}

// NewWebhookDeliveryService creates a new webhook delivery service
func NewWebhookDeliveryService(
	subscriptionRepo domain.WebhookSubscriptionRepository,
	deliveryRepo domain.WebhookDeliveryRepository,
	workspaceRepo domain.WorkspaceRepository,
	httpClient *http.Client,
	log logger.Logger,
) *WebhookDeliveryService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &WebhookDeliveryService{
		subscriptionRepo: subscriptionRepo,
		deliveryRepo:     deliveryRepo,
		workspaceRepo:    workspaceRepo,
		logger:           log,
		httpClient:       httpClient,
		pollInterval:     10 * time.Second,
		batchSize:        100,
	}
}

// SubscribeToEvents registers the fan-out handlers on the event bus.
func (s *WebhookDeliveryService) SubscribeToEvents(eventBus domain.EventBus) {
	for _, eventType := range []domain.EventType{
		domain.EventMessageReceived,
		domain.EventMessageStatus,
		domain.EventConversationNew,
		domain.EventContactOptedOut,
		domain.EventTemplateStatus,
		domain.EventCampaignScheduled,
		domain.EventCampaignPaused,
		domain.EventCampaignCompleted,
	} {
		eventBus.Subscribe(eventType, s.handleEvent)
	}
}

// handleEvent persists one delivery row per matching subscription. The event
// bus handler only enqueues; actual HTTP happens on the worker loop so a slow
// endpoint never blocks the send path.
func (s *WebhookDeliveryService) handleEvent(ctx context.Context, payload domain.EventPayload) {
	externalType := externalEventType(payload)
	if externalType == "" {
		return
	}

	subs, err := s.subscriptionRepo.List(ctx, payload.WorkspaceID)
	if err != nil {
		s.logger.WithField("workspace_id", payload.WorkspaceID).Error(fmt.Sprintf("Failed to list webhook subscriptions: %v", err))
		return
	}

	data := payload.Data
	if data == nil {
		data = map[string]interface{}{}
	}
	data["entity_id"] = payload.EntityID

	now := time.Now().UTC()
	for _, sub := range subs {
		if !sub.WantsEvent(externalType) {
			continue
		}
		delivery := &domain.WebhookDelivery{
			ID:             uuid.New().String(),
			SubscriptionID: sub.ID,
			EventType:      externalType,
			Payload:        data,
			Status:         domain.WebhookDeliveryStatusPending,
			MaxAttempts:    webhookDeliveryMaxAttempts,
			NextAttemptAt:  now,
			CreatedAt:      now,
		}
		if err := s.deliveryRepo.Create(ctx, payload.WorkspaceID, delivery); err != nil {
			s.logger.WithFields(map[string]interface{}{
				"subscription_id": sub.ID,
				"event_type":      externalType,
			}).Error(fmt.Sprintf("Failed to enqueue webhook delivery: %v", err))
		}
	}
}

// externalEventType maps an internal event onto the subscription event
// vocabulary. Events with no external name are not fanned out.
func externalEventType(payload domain.EventPayload) string {
	switch payload.Type {
	case domain.EventMessageReceived:
		return "message.received"
	case domain.EventMessageStatus:
		status, _ := payload.Data["status"].(string)
		switch status {
		case "sent", "delivered", "read", "failed":
			return "message." + status
		}
		return ""
	case domain.EventConversationNew:
		if reopened, _ := payload.Data["reopened"].(bool); reopened {
			return "conversation.reopened"
		}
		return "conversation.opened"
	case domain.EventContactOptedOut:
		if optedIn, _ := payload.Data["opted_in"].(bool); optedIn {
			return "contact.opted_in"
		}
		return "contact.opted_out"
	case domain.EventTemplateStatus:
		status, _ := payload.Data["status"].(string)
		switch strings.ToUpper(status) {
		case string(domain.TemplateApproved):
			return "template.approved"
		case string(domain.TemplateRejected):
			return "template.rejected"
		case string(domain.TemplatePaused):
			return "template.paused"
		case string(domain.TemplateDisabled):
			return "template.disabled"
		}
		return ""
	case domain.EventCampaignScheduled:
		return "campaign.started"
	case domain.EventCampaignPaused:
		return "campaign.paused"
	case domain.EventCampaignCompleted:
		return "campaign.completed"
	}
	return ""
}

// Start runs the delivery worker loop until the context is cancelled.
func (s *WebhookDeliveryService) Start(ctx context.Context) {
	s.logger.Info("Webhook delivery worker started")

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Webhook delivery worker stopping...")
			return
		case <-ticker.C:
			s.ProcessPending(ctx)
		}
	}
}

// ProcessPending drains due deliveries across every workspace. Exposed so the
// cron endpoint can trigger a drain in deployments without the worker loop.
func (s *WebhookDeliveryService) ProcessPending(ctx context.Context) {
	workspaces, err := s.workspaceRepo.List(ctx)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Failed to list workspaces for webhook delivery: %v", err))
		return
	}

	for _, workspace := range workspaces {
		if err := s.processWorkspace(ctx, workspace.ID); err != nil {
			s.logger.WithField("workspace_id", workspace.ID).Error(fmt.Sprintf("Failed to process webhook deliveries: %v", err))
		}
	}
}

func (s *WebhookDeliveryService) processWorkspace(ctx context.Context, workspaceID string) error {
	deliveries, err := s.deliveryRepo.GetPendingForWorkspace(ctx, workspaceID, s.batchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending deliveries: %w", err)
	}
	if len(deliveries) == 0 {
		return nil
	}

	subscriptions := make(map[string]*domain.WebhookSubscription)
	for _, delivery := range deliveries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		sub, ok := subscriptions[delivery.SubscriptionID]
		if !ok {
			sub, err = s.subscriptionRepo.GetByID(ctx, workspaceID, delivery.SubscriptionID)
			if err != nil {
				s.logger.WithField("delivery_id", delivery.ID).Warn(fmt.Sprintf("Subscription lookup failed: %v", err))
				continue
			}
			subscriptions[delivery.SubscriptionID] = sub
		}
		if !sub.Enabled {
			continue
		}
		s.attemptDelivery(ctx, workspaceID, delivery, sub)
	}
	return nil
}

// attemptDelivery sends one delivery and settles its outcome.
func (s *WebhookDeliveryService) attemptDelivery(ctx context.Context, workspaceID string, delivery *domain.WebhookDelivery, sub *domain.WebhookSubscription) {
	now := time.Now().UTC()
	envelope := map[string]interface{}{
		"id":           delivery.ID,
		"type":         delivery.EventType,
		"workspace_id": workspaceID,
		"timestamp":    now.Format(time.RFC3339),
		"data":         delivery.Payload,
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		s.settleFailure(ctx, workspaceID, delivery, sub, nil, "", fmt.Sprintf("failed to marshal payload: %v", err))
		return
	}

	wh, err := svix.NewWebhook(sub.Secret)
	if err != nil {
		s.settleFailure(ctx, workspaceID, delivery, sub, nil, "", fmt.Sprintf("invalid signing secret: %v", err))
		return
	}
	signature, err := wh.Sign(delivery.ID, now, body)
	if err != nil {
		s.settleFailure(ctx, workspaceID, delivery, sub, nil, "", fmt.Sprintf("failed to sign payload: %v", err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sub.URL, bytes.NewReader(body))
	if err != nil {
		s.settleFailure(ctx, workspaceID, delivery, sub, nil, "", err.Error())
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("webhook-id", delivery.ID)
	req.Header.Set("webhook-timestamp", fmt.Sprintf("%d", now.Unix()))
	req.Header.Set("webhook-signature", signature)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.settleFailure(ctx, workspaceID, delivery, sub, nil, "", err.Error())
		return
	}
	defer resp.Body.Close()

	// Response bodies are kept for debugging, capped at 1KB.
	respBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	respBody := string(respBytes)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		s.settleSuccess(ctx, workspaceID, delivery, sub, resp.StatusCode, respBody)
		return
	}
	s.settleFailure(ctx, workspaceID, delivery, sub, &resp.StatusCode, respBody, fmt.Sprintf("HTTP %d", resp.StatusCode))
}

func (s *WebhookDeliveryService) settleSuccess(ctx context.Context, workspaceID string, delivery *domain.WebhookDelivery, sub *domain.WebhookSubscription, statusCode int, responseBody string) {
	if err := s.deliveryRepo.MarkDelivered(ctx, workspaceID, delivery.ID, statusCode, responseBody); err != nil {
		s.logger.WithField("delivery_id", delivery.ID).Error(fmt.Sprintf("Failed to mark delivery as delivered: %v", err))
		return
	}
	if err := s.subscriptionRepo.IncrementStats(ctx, workspaceID, sub.ID, true); err != nil {
		s.logger.WithField("subscription_id", sub.ID).Warn("Failed to increment subscription stats")
	}
	if err := s.subscriptionRepo.UpdateLastDeliveryAt(ctx, workspaceID, sub.ID, time.Now().UTC()); err != nil {
		s.logger.WithField("subscription_id", sub.ID).Warn("Failed to update last delivery timestamp")
	}

	s.logger.WithFields(map[string]interface{}{
		"delivery_id":     delivery.ID,
		"subscription_id": sub.ID,
		"status_code":     statusCode,
	}).Debug("Webhook delivered")
}

func (s *WebhookDeliveryService) settleFailure(ctx context.Context, workspaceID string, delivery *domain.WebhookDelivery, sub *domain.WebhookSubscription, statusCode *int, responseBody, errorMsg string) {
	attempts := delivery.Attempts + 1

	if attempts >= delivery.MaxAttempts {
		if err := s.deliveryRepo.MarkFailed(ctx, workspaceID, delivery.ID, attempts, errorMsg, statusCode, &responseBody); err != nil {
			s.logger.WithField("delivery_id", delivery.ID).Error(fmt.Sprintf("Failed to mark delivery as failed: %v", err))
			return
		}
		if err := s.subscriptionRepo.IncrementStats(ctx, workspaceID, sub.ID, false); err != nil {
			s.logger.WithField("subscription_id", sub.ID).Warn("Failed to increment subscription stats")
		}
		s.logger.WithFields(map[string]interface{}{
			"delivery_id":     delivery.ID,
			"subscription_id": sub.ID,
			"attempts":        attempts,
			"error":           errorMsg,
		}).Warn("Webhook delivery permanently failed")
		return
	}

	nextAttempt := time.Now().UTC().Add(domain.RetryBackoff(attempts))
	if err := s.deliveryRepo.ScheduleRetry(ctx, workspaceID, delivery.ID, nextAttempt, attempts, statusCode, &responseBody, &errorMsg); err != nil {
		s.logger.WithField("delivery_id", delivery.ID).Error(fmt.Sprintf("Failed to schedule delivery retry: %v", err))
		return
	}

	s.logger.WithFields(map[string]interface{}{
		"delivery_id":     delivery.ID,
		"subscription_id": sub.ID,
		"attempts":        attempts,
		"next_attempt":    nextAttempt.Format(time.RFC3339),
		"error":           errorMsg,
	}).Debug("Webhook delivery failed, retry scheduled")
}
