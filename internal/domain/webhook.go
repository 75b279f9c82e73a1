package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

//go:generate mockgen -destination mocks/mock_webhook_log_repository.go -package mocks github.com/Waypost/waypost/internal/domain WebhookLogRepository
//go:generate mockgen -destination mocks/mock_replay_guard.go -package mocks github.com/Waypost/waypost/internal/domain ReplayGuard

// WebhookLogRetention is how long redacted webhook payloads are kept.
const WebhookLogRetention = 30 * 24 * time.Hour

// WebhookEventType classifies the change object inside a webhook entry.
type WebhookEventType string

const (
	WebhookEventMessage          WebhookEventType = "message"
	WebhookEventStatus           WebhookEventType = "status"
	WebhookEventTemplateStatus   WebhookEventType = "template_status"
	WebhookEventAccountUpdate    WebhookEventType = "account_update"
	WebhookEventCapabilityUpdate WebhookEventType = "business_capability_update"
	WebhookEventAdUpdate         WebhookEventType = "ad_update"
	WebhookEventUnknown          WebhookEventType = "unknown"
)

// Ad update sub-kinds.
const (
	AdUpdateReview          = "ad_review"
	AdUpdateStatus          = "ad_status_update"
	AdUpdateAccountDisabled = "account_disabled"
)

// Webhook admission security flags recorded on rejected deliveries.
const (
	SecurityFlagMissingSignature = "MISSING_SIGNATURE"
	SecurityFlagInvalidSignature = "INVALID_SIGNATURE"
	SecurityFlagReplay           = "REPLAY"
	SecurityFlagConfigError      = "CONFIG_ERROR"
)

// WebhookLog is the audit and idempotency record of one webhook delivery.
// The payload it stores is redacted; (delivery id, event type) is unique and
// guards at-most-once processing.
type WebhookLog struct {
	ID            string           `json:"id"`
	DeliveryID    string           `json:"delivery_id,omitempty"`
	WorkspaceID   string           `json:"workspace_id,omitempty"`
	PhoneNumberID string           `json:"phone_number_id,omitempty"`
	EventType     WebhookEventType `json:"event_type"`
	Processed     bool             `json:"processed"`
	Verified      bool             `json:"verified"`
	BSPRouted     bool             `json:"bsp_routed"`
	SecurityFlag  string           `json:"security_flag,omitempty"`
	Error         string           `json:"error,omitempty"`
	Payload       json.RawMessage  `json:"payload,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	ExpiresAt     time.Time        `json:"expires_at"`
}

// MaskPhone hides everything but the last four digits of a phone number.
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}

const redactedPlaceholder = "[REDACTED]"

// phone-bearing keys are masked, content-bearing keys are replaced wholesale.
var redactMaskKeys = map[string]bool{
	"from":                 true,
	"to":                   true,
	"wa_id":                true,
	"display_phone_number": true,
	"recipient_id":         true,
}

var redactDropKeys = map[string]bool{
	"body":        true,
	"text":        true,
	"caption":     true,
	"name":        true,
	"interactive": true,
	"button":      true,
	"contacts":    false, // handled structurally below
}

// RedactWebhookPayload strips personal data from a raw webhook body before it
// is persisted: phone numbers keep only their last four digits, message
// bodies, profile names and interactive payloads become "[REDACTED]".
// Unparseable bodies are replaced entirely rather than stored raw.
func RedactWebhookPayload(raw []byte) json.RawMessage {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return json.RawMessage(`{"redacted":"unparseable payload"}`)
	}
	redactValue(&doc)
	out, err := json.Marshal(doc)
	if err != nil {
		return json.RawMessage(`{"redacted":"unparseable payload"}`)
	}
	return out
}

func redactValue(v *interface{}) {
	switch node := (*v).(type) {
	case map[string]interface{}:
		for key, child := range node {
			if redactMaskKeys[key] {
				if s, ok := child.(string); ok {
					node[key] = MaskPhone(s)
					continue
				}
			}
			if redactDropKeys[key] {
				node[key] = redactedPlaceholder
				continue
			}
			c := child
			redactValue(&c)
			node[key] = c
		}
	case []interface{}:
		for i := range node {
			redactValue(&node[i])
		}
	}
}

// WebhookLogListParams filters webhook log listings for operators.
type WebhookLogListParams struct {
	Cursor      string           `json:"cursor,omitempty"`
	Limit       int              `json:"limit,omitempty"`
	WorkspaceID string           `json:"workspace_id,omitempty"`
	EventType   WebhookEventType `json:"event_type,omitempty"`
	Processed   *bool            `json:"processed,omitempty"`
}

// FromQuery creates WebhookLogListParams from HTTP query parameters
func (p *WebhookLogListParams) FromQuery(query url.Values) error {
	p.Cursor = query.Get("cursor")
	p.WorkspaceID = query.Get("workspace_id")
	p.EventType = WebhookEventType(query.Get("event_type"))
	if processed := query.Get("processed"); processed != "" {
		b, err := strconv.ParseBool(processed)
		if err != nil {
			return fmt.Errorf("invalid processed value: %s", processed)
		}
		p.Processed = &b
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return fmt.Errorf("invalid limit value: %s", limitStr)
		}
		p.Limit = limit
	}
	return p.Validate()
}

func (p *WebhookLogListParams) Validate() error {
	if p.Limit < 0 {
		return fmt.Errorf("limit cannot be negative")
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Limit == 0 {
		p.Limit = 20
	}
	return nil
}

// WebhookLogListResult contains a page of webhook logs.
type WebhookLogListResult struct {
	Logs       []*WebhookLog `json:"logs"`
	NextCursor string        `json:"next_cursor,omitempty"`
	HasMore    bool          `json:"has_more"`
}

// WebhookLogRepository stores delivery records in the system database.
type WebhookLogRepository interface {
	Create(ctx context.Context, log *WebhookLog) error
	// MarkProcessed flips the processed flag and records the handler error,
	// if any.
	MarkProcessed(ctx context.Context, id string, processErr string) error
	// SetRouting records the resolved workspace after tenant routing.
	SetRouting(ctx context.Context, id, workspaceID string, routed bool) error
	// HasProcessed reports whether a processed log exists for the
	// (delivery id, event type) pair. It is the at-most-once guard.
	HasProcessed(ctx context.Context, deliveryID string, eventType WebhookEventType) (bool, error)
	GetByID(ctx context.Context, id string) (*WebhookLog, error)
	List(ctx context.Context, params WebhookLogListParams) (*WebhookLogListResult, error)
	// DeleteExpired removes logs past their retention and returns the count.
	DeleteExpired(ctx context.Context) (int64, error)
}

// ReplayGuard is the short-lived delivery-id store backing replay defense.
type ReplayGuard interface {
	// MarkDelivery records a delivery id with the given TTL. firstSeen is
	// false when the id was already present, which indicates a replay. When
	// the backing store is unreachable the guard fails open: firstSeen is
	// true and err carries the store error for the caller to log.
	MarkDelivery(ctx context.Context, deliveryID string, ttl time.Duration) (firstSeen bool, err error)
}

// TemplateStatusUpdate is a parsed message_template_status_update change.
type TemplateStatusUpdate struct {
	// WorkspaceID is set when tenant routing succeeded before handling.
	WorkspaceID        string `json:"workspace_id,omitempty"`
	Event              string `json:"event"`
	EventID            string `json:"event_id,omitempty"`
	ProviderTemplateID string `json:"message_template_id,omitempty"`
	ProviderName       string `json:"message_template_name,omitempty"`
	Language           string `json:"message_template_language,omitempty"`
	Reason             string `json:"reason,omitempty"`
}

// InboundMedia is the media block of an inbound message.
type InboundMedia struct {
	ProviderMediaID string `json:"id"`
	MimeType        string `json:"mime_type"`
	SHA256          string `json:"sha256"`
	Caption         string `json:"caption,omitempty"`
	Filename        string `json:"filename,omitempty"`
}

// InboundMessage is one parsed entry of a messages[] change.
type InboundMessage struct {
	ProviderMessageID string        `json:"id"`
	From              string        `json:"from"`
	ProfileName       string        `json:"profile_name,omitempty"`
	Type              MessageType   `json:"type"`
	Body              string        `json:"body,omitempty"`
	Media             *InboundMedia `json:"media,omitempty"`
	Timestamp         time.Time     `json:"timestamp"`
	Raw               []byte        `json:"-"`
}

// InboundStatus is one parsed entry of a statuses[] change.
type InboundStatus struct {
	ProviderMessageID string        `json:"id"`
	RecipientID       string        `json:"recipient_id"`
	Status            MessageStatus `json:"status"`
	Timestamp         time.Time     `json:"timestamp"`
	ErrorCode         int           `json:"error_code,omitempty"`
	ErrorMessage      string        `json:"error_message,omitempty"`
}

// AccountUpdate is a parsed account_update change.
type AccountUpdate struct {
	PhoneNumberID   string `json:"phone_number_id,omitempty"`
	PhoneStatus     string `json:"phone_status,omitempty"`
	AccountStatus   string `json:"account_status,omitempty"`
	DecisionStatus  string `json:"decision_status,omitempty"`
	QualityRating   string `json:"quality_rating,omitempty"`
	MessagingTier   string `json:"current_limit,omitempty"`
	Event           string `json:"event,omitempty"`
	CustomerAssetID string `json:"customer_asset_id,omitempty"`
}

// CapabilityUpdate is a parsed business_capability_update change.
type CapabilityUpdate struct {
	Capability string `json:"capability"`
	Status     string `json:"status"`
}

// WebhookIngressServiceInterface is the admission pipeline behind
// POST /webhooks/bsp. Admit returns the persisted log for the delivery; a
// rejected delivery returns a *SendError whose kind maps to the response
// status.
type WebhookIngressServiceInterface interface {
	// VerifySubscription answers the provider's GET handshake, returning
	// the challenge to echo or an error when the token does not match.
	VerifySubscription(mode, token, challenge string) (string, error)

	// Admit verifies, replay-checks, logs and enqueues one delivery.
	// deliveryIDHeader is the provider's optional delivery id; replay
	// detection only applies when it is present.
	Admit(ctx context.Context, body []byte, signatureHeader, deliveryIDHeader string, receivedAt time.Time) (*WebhookLog, error)
}

// MessageIngestorInterface processes routed inbound message events.
type MessageIngestorInterface interface {
	IngestInbound(ctx context.Context, workspace *Workspace, msg *InboundMessage) error
}

// StatusApplierInterface folds routed delivery status events into stored
// messages.
type StatusApplierInterface interface {
	ApplyInboundStatus(ctx context.Context, workspace *Workspace, status *InboundStatus) error
}

// AccountReactorInterface applies account and capability updates to the
// workspace health snapshot and trips the kill switch when a transition
// demands it.
type AccountReactorInterface interface {
	ApplyAccountUpdate(ctx context.Context, workspace *Workspace, update *AccountUpdate) error
	ApplyCapabilityUpdate(ctx context.Context, workspace *Workspace, update *CapabilityUpdate) error
}
