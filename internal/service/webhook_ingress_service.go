package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/Waypost/waypost/config"
	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/pkg/crypto"
	"github.com/Waypost/waypost/pkg/logger"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// WebhookIngressService is the admission pipeline behind the webhook
// endpoint: signature verification, freshness and replay checks, a redacted
// audit log, and a queue hand-off. It never touches tenant state; the
// dispatcher does the actual processing.
type WebhookIngressService struct {
	logRepo     domain.WebhookLogRepository
	jobRepo     domain.WebhookJobRepository
	replayGuard domain.ReplayGuard
	logger      logger.Logger

	verifyToken   string
	appSecret     string
	skipSignature bool
	isProduction  bool
	replayTTL     time.Duration
	maxAge        time.Duration
}

// NewWebhookIngressService creates a new webhook ingress service
func NewWebhookIngressService(
	logRepo domain.WebhookLogRepository,
	jobRepo domain.WebhookJobRepository,
	replayGuard domain.ReplayGuard,
	cfg *config.Config,
	log logger.Logger,
) *WebhookIngressService {
	return &WebhookIngressService{
		logRepo:       logRepo,
		jobRepo:       jobRepo,
		replayGuard:   replayGuard,
		logger:        log,
		verifyToken:   cfg.BSP.WebhookVerifyToken,
		appSecret:     cfg.BSP.AppSecret,
		skipSignature: cfg.BSP.SkipSignatureVerification,
		isProduction:  cfg.IsProduction(),
		replayTTL:     cfg.ReplayTTL(),
		maxAge:        cfg.MaxWebhookAge(),
	}
}

// VerifySubscription answers the provider's GET handshake.
func (s *WebhookIngressService) VerifySubscription(mode, token, challenge string) (string, error) {
	if mode != "subscribe" {
		return "", domain.NewSendError(domain.ErrKindInvalidSignature, "unsupported hub mode %q", mode)
	}
	if token == "" || token != s.verifyToken {
		s.logger.Warn("Webhook subscription handshake with wrong verify token")
		return "", domain.NewSendError(domain.ErrKindInvalidSignature, "verify token mismatch")
	}
	return challenge, nil
}

// Admit verifies, replay-checks, logs and enqueues one delivery. The returned
// log is persisted even for rejected deliveries so every attempt leaves an
// audit trail; rejections also return a *SendError naming the flag.
//
// Replay detection keys on the provider's delivery id header. Without the
// header there is no stable delivery identity, so the check does not apply
// and the body hash only labels the log and job.
func (s *WebhookIngressService) Admit(ctx context.Context, body []byte, signatureHeader, deliveryIDHeader string, receivedAt time.Time) (*domain.WebhookLog, error) {
	verified, flag, admitErr := s.verifySignature(body, signatureHeader)
	deliveryID := deliveryIDHeader
	if deliveryID == "" {
		deliveryID = hex.EncodeToString(crypto.Sha256Hash(string(body)))
	}

	log := &domain.WebhookLog{
		ID:            uuid.New().String(),
		DeliveryID:    deliveryID,
		PhoneNumberID: gjson.GetBytes(body, "entry.0.changes.0.value.metadata.phone_number_id").String(),
		EventType:     classifyFirstChange(body),
		Verified:      verified,
		SecurityFlag:  flag,
		Payload:       domain.RedactWebhookPayload(body),
		CreatedAt:     receivedAt,
		ExpiresAt:     receivedAt.Add(domain.WebhookLogRetention),
	}

	if admitErr == nil && s.maxAge > 0 {
		if sent := gjson.GetBytes(body, "entry.0.time").Int(); sent > 0 {
			age := receivedAt.Sub(time.Unix(sent, 0))
			if age > s.maxAge {
				log.SecurityFlag = domain.SecurityFlagReplay
				admitErr = domain.NewSendError(domain.ErrKindReplay, "delivery is %s old, max age is %s", age, s.maxAge)
			}
		}
	}

	if admitErr == nil && deliveryIDHeader != "" {
		firstSeen, err := s.replayGuard.MarkDelivery(ctx, deliveryID, s.replayTTL)
		if err != nil {
			// Fail open: an unreachable guard must not drop real events.
			s.logger.WithField("delivery_id", deliveryID).Warn(fmt.Sprintf("Replay guard unreachable, admitting delivery: %v", err))
		}
		if !firstSeen {
			log.SecurityFlag = domain.SecurityFlagReplay
			admitErr = domain.NewSendError(domain.ErrKindReplay, "delivery %s already seen", deliveryID)
			s.logger.WithFields(map[string]interface{}{
				"delivery_id": deliveryID,
				"event_type":  string(log.EventType),
			}).Warn("Replayed webhook delivery rejected")
		}
	}

	if err := s.logRepo.Create(ctx, log); err != nil {
		if admitErr != nil {
			s.logger.Error(fmt.Sprintf("Failed to record rejected webhook delivery: %v", err))
			return nil, admitErr
		}
		return nil, fmt.Errorf("failed to record webhook delivery: %w", err)
	}
	if admitErr != nil {
		return log, admitErr
	}

	job := &domain.WebhookJob{
		ID:              uuid.New().String(),
		DeliveryID:      deliveryID,
		WebhookLogID:    log.ID,
		Body:            body,
		SignatureHeader: signatureHeader,
		Status:          domain.WebhookJobPending,
		NextAttemptAt:   receivedAt,
		CreatedAt:       receivedAt,
		UpdatedAt:       receivedAt,
	}
	if err := s.jobRepo.Enqueue(ctx, job); err != nil {
		return log, fmt.Errorf("failed to enqueue webhook job: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"delivery_id": deliveryID,
		"event_type":  string(log.EventType),
		"verified":    verified,
	}).Debug("Webhook delivery admitted")
	return log, nil
}

// verifySignature applies the admission security policy. It returns whether
// the body was cryptographically verified, the security flag to record when
// it was not, and the rejection error if the delivery must be refused.
func (s *WebhookIngressService) verifySignature(body []byte, signatureHeader string) (bool, string, error) {
	if s.appSecret == "" {
		if s.isProduction {
			return false, domain.SecurityFlagConfigError, domain.NewSendError(domain.ErrKindConfigError, "app secret is not configured")
		}
		s.logger.Warn("No app secret configured, admitting unverified webhook")
		return false, "", nil
	}
	if signatureHeader == "" {
		if s.skipSignature && !s.isProduction {
			s.logger.Warn("Signature verification skipped, admitting unverified webhook")
			return false, "", nil
		}
		return false, domain.SecurityFlagMissingSignature, domain.NewSendError(domain.ErrKindMissingSignature, "missing signature header")
	}
	if !crypto.VerifySignatureHeader(s.appSecret, body, signatureHeader) {
		if s.skipSignature && !s.isProduction {
			s.logger.Warn("Signature mismatch ignored, admitting unverified webhook")
			return false, "", nil
		}
		return false, domain.SecurityFlagInvalidSignature, domain.NewSendError(domain.ErrKindInvalidSignature, "signature does not match body")
	}
	return true, "", nil
}

// classifyFirstChange derives the log's event type from the first change of
// the first entry. Deliveries with mixed changes are classified by their
// first change here; the dispatcher classifies each change on its own.
func classifyFirstChange(body []byte) domain.WebhookEventType {
	change := gjson.GetBytes(body, "entry.0.changes.0")
	if !change.Exists() {
		return domain.WebhookEventUnknown
	}
	switch change.Get("field").String() {
	case "messages":
		if change.Get("value.statuses").Exists() {
			return domain.WebhookEventStatus
		}
		if change.Get("value.messages").Exists() {
			return domain.WebhookEventMessage
		}
		return domain.WebhookEventUnknown
	case "message_template_status_update":
		return domain.WebhookEventTemplateStatus
	case "account_update":
		return domain.WebhookEventAccountUpdate
	case "business_capability_update":
		return domain.WebhookEventCapabilityUpdate
	case domain.AdUpdateReview, domain.AdUpdateStatus, domain.AdUpdateAccountDisabled:
		return domain.WebhookEventAdUpdate
	default:
		return domain.WebhookEventUnknown
	}
}
