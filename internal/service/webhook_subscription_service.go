package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/pkg/logger"
	"github.com/google/uuid"
)

// WebhookSubscriptionService manages the endpoints tenants register to
// receive gateway events. Secrets follow the standard-webhooks "whsec_"
// format and are returned only on creation and rotation.
type WebhookSubscriptionService struct {
	repo         domain.WebhookSubscriptionRepository
	deliveryRepo domain.WebhookDeliveryRepository
	logger       logger.Logger
}

// NewWebhookSubscriptionService creates a new webhook subscription service
func NewWebhookSubscriptionService(
	repo domain.WebhookSubscriptionRepository,
	deliveryRepo domain.WebhookDeliveryRepository,
	log logger.Logger,
) *WebhookSubscriptionService {
	return &WebhookSubscriptionService{
		repo:         repo,
		deliveryRepo: deliveryRepo,
		logger:       log,
	}
}

// generateSecret returns a signing secret in standard-webhooks format.
func generateSecret() (string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return "whsec_" + base64.StdEncoding.EncodeToString(raw), nil
}

// validateSubscription checks URL and event types before persisting.
func validateSubscription(sub *domain.WebhookSubscription) error {
	if strings.TrimSpace(sub.Name) == "" {
		return fmt.Errorf("subscription name is required")
	}
	parsed, err := url.Parse(sub.URL)
	if err != nil || (parsed.Scheme != "https" && parsed.Scheme != "http") || parsed.Host == "" {
		return fmt.Errorf("subscription url must be a valid http(s) url")
	}
	if len(sub.EventTypes) == 0 {
		return fmt.Errorf("at least one event type is required")
	}
	for _, eventType := range sub.EventTypes {
		if eventType == "*" {
			continue
		}
		if !isKnownEventType(eventType) {
			return fmt.Errorf("unknown event type: %s", eventType)
		}
	}
	return nil
}

func isKnownEventType(eventType string) bool {
	for _, known := range domain.WebhookEventTypes {
		if known == eventType {
			return true
		}
	}
	return false
}

// Create registers a subscription and returns it with its secret set. This
// is the only time the full secret leaves the service.
func (s *WebhookSubscriptionService) Create(ctx context.Context, workspaceID string, sub *domain.WebhookSubscription) (*domain.WebhookSubscription, error) {
	if err := validateSubscription(sub); err != nil {
		return nil, err
	}

	secret, err := generateSecret()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sub.ID = uuid.New().String()
	sub.Secret = secret
	sub.Enabled = true
	sub.CreatedAt = now
	sub.UpdatedAt = now

	if err := s.repo.Create(ctx, workspaceID, sub); err != nil {
		return nil, fmt.Errorf("failed to create webhook subscription: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"workspace_id":    workspaceID,
		"subscription_id": sub.ID,
		"event_types":     strings.Join(sub.EventTypes, ","),
	}).Info("Webhook subscription created")
	return sub, nil
}

// Get returns one subscription with the secret masked.
func (s *WebhookSubscriptionService) Get(ctx context.Context, workspaceID, id string) (*domain.WebhookSubscription, error) {
	sub, err := s.repo.GetByID(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	sub.Secret = maskSecret(sub.Secret)
	return sub, nil
}

// List returns every subscription of the workspace with secrets masked.
func (s *WebhookSubscriptionService) List(ctx context.Context, workspaceID string) ([]*domain.WebhookSubscription, error) {
	subs, err := s.repo.List(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	for _, sub := range subs {
		sub.Secret = maskSecret(sub.Secret)
	}
	return subs, nil
}

// Update changes the mutable fields of a subscription. The secret and the
// delivery counters are not touchable through this path.
func (s *WebhookSubscriptionService) Update(ctx context.Context, workspaceID string, update *domain.WebhookSubscription) (*domain.WebhookSubscription, error) {
	existing, err := s.repo.GetByID(ctx, workspaceID, update.ID)
	if err != nil {
		return nil, err
	}

	existing.Name = update.Name
	existing.URL = update.URL
	existing.EventTypes = update.EventTypes
	existing.Enabled = update.Enabled
	existing.Description = update.Description
	existing.UpdatedAt = time.Now().UTC()

	if err := validateSubscription(existing); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, workspaceID, existing); err != nil {
		return nil, fmt.Errorf("failed to update webhook subscription: %w", err)
	}

	existing.Secret = maskSecret(existing.Secret)
	return existing, nil
}

// RotateSecret replaces the signing secret and returns the new one.
func (s *WebhookSubscriptionService) RotateSecret(ctx context.Context, workspaceID, id string) (string, error) {
	sub, err := s.repo.GetByID(ctx, workspaceID, id)
	if err != nil {
		return "", err
	}

	secret, err := generateSecret()
	if err != nil {
		return "", err
	}
	sub.Secret = secret
	sub.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, workspaceID, sub); err != nil {
		return "", fmt.Errorf("failed to rotate webhook secret: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"workspace_id":    workspaceID,
		"subscription_id": id,
	}).Info("Webhook subscription secret rotated")
	return secret, nil
}

// Delete removes a subscription. Pending deliveries for it are left to fail
// their lookup and age out.
func (s *WebhookSubscriptionService) Delete(ctx context.Context, workspaceID, id string) error {
	if err := s.repo.Delete(ctx, workspaceID, id); err != nil {
		return err
	}
	s.logger.WithFields(map[string]interface{}{
		"workspace_id":    workspaceID,
		"subscription_id": id,
	}).Info("Webhook subscription deleted")
	return nil
}

// ListDeliveries returns the delivery history of one subscription.
func (s *WebhookSubscriptionService) ListDeliveries(ctx context.Context, workspaceID, subscriptionID string, limit, offset int) ([]*domain.WebhookDelivery, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.deliveryRepo.ListBySubscription(ctx, workspaceID, subscriptionID, limit, offset)
}

// SendTest enqueues a synthetic delivery so a tenant can verify their
// endpoint and signature handling.
func (s *WebhookSubscriptionService) SendTest(ctx context.Context, workspaceID, subscriptionID, eventType string) (*domain.WebhookDelivery, error) {
	sub, err := s.repo.GetByID(ctx, workspaceID, subscriptionID)
	if err != nil {
		return nil, err
	}
	if eventType == "" && len(sub.EventTypes) > 0 && sub.EventTypes[0] != "*" {
		eventType = sub.EventTypes[0]
	}
	if eventType == "" {
		eventType = "message.received"
	}
	if !isKnownEventType(eventType) {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	now := time.Now().UTC()
	delivery := &domain.WebhookDelivery{
		ID:             uuid.New().String(),
		SubscriptionID: sub.ID,
		EventType:      eventType,
		Payload: map[string]interface{}{
			"test":      true,
			"entity_id": "test_" + uuid.New().String()[:8],
			"sent_at":   now.Format(time.RFC3339),
		},
		Status:        domain.WebhookDeliveryStatusPending,
		MaxAttempts:   1,
		NextAttemptAt: now,
		CreatedAt:     now,
	}
	if err := s.deliveryRepo.Create(ctx, workspaceID, delivery); err != nil {
		return nil, fmt.Errorf("failed to enqueue test delivery: %w", err)
	}
	return delivery, nil
}

func maskSecret(secret string) string {
	if len(secret) <= 10 {
		return "whsec_****"
	}
	return secret[:10] + "****"
}
