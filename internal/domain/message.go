package domain

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

//go:generate mockgen -destination mocks/mock_message_repository.go -package mocks github.com/Waypost/waypost/internal/domain MessageRepository
//go:generate mockgen -destination mocks/mock_message_service.go -package mocks github.com/Waypost/waypost/internal/domain MessageServiceInterface

// MessageDirection tells inbound from outbound.
type MessageDirection string

const (
	MessageInbound  MessageDirection = "inbound"
	MessageOutbound MessageDirection = "outbound"
)

// MessageType is the content type of a message.
type MessageType string

const (
	MessageTypeText     MessageType = "text"
	MessageTypeImage    MessageType = "image"
	MessageTypeVideo    MessageType = "video"
	MessageTypeDocument MessageType = "document"
	MessageTypeAudio    MessageType = "audio"
	MessageTypeVoice    MessageType = "voice"
	MessageTypeSticker  MessageType = "sticker"
	MessageTypeTemplate MessageType = "template"
	MessageTypeSystem   MessageType = "system"
)

// MessageStatus is the delivery state of a message.
type MessageStatus string

const (
	MessageStatusQueued    MessageStatus = "queued"
	MessageStatusSending   MessageStatus = "sending"
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusRead      MessageStatus = "read"
	MessageStatusFailed    MessageStatus = "failed"
	MessageStatusReceived  MessageStatus = "received"
)

// statusRank orders the forward delivery path; failed and received sit
// outside the path.
var statusRank = map[MessageStatus]int{
	MessageStatusQueued:    1,
	MessageStatusSending:   2,
	MessageStatusSent:      3,
	MessageStatusDelivered: 4,
	MessageStatusRead:      5,
}

// BodyPreview derives the conversation preview for a message body by type:
// text keeps the body, everything else gets a labelled placeholder.
func BodyPreview(messageType MessageType, body string) string {
	switch messageType {
	case MessageTypeText, MessageTypeSystem:
		return body
	case MessageTypeImage:
		return "[Image]"
	case MessageTypeVideo:
		return "[Video]"
	case MessageTypeDocument:
		return "[Document]"
	case MessageTypeAudio:
		return "[Audio]"
	case MessageTypeVoice:
		return "[Voice message]"
	case MessageTypeSticker:
		return "[Sticker]"
	case MessageTypeTemplate:
		return body
	default:
		return "[Message]"
	}
}

// TemplateVariables binds positional values to the template slots.
type TemplateVariables struct {
	Header      []string `json:"header,omitempty"`
	Body        []string `json:"body,omitempty"`
	Buttons     []string `json:"buttons,omitempty"`
	HeaderMedia string   `json:"header_media,omitempty"`
	OTP         string   `json:"otp,omitempty"`
}

// TemplateDescriptor records which template a message was sent with, stored
// as JSONB on the message.
type TemplateDescriptor struct {
	TemplateID string            `json:"template_id,omitempty"`
	Name       string            `json:"name"`
	Category   TemplateCategory  `json:"category,omitempty"`
	Language   string            `json:"language,omitempty"`
	Variables  TemplateVariables `json:"variables,omitempty"`
}

// Value implements the driver.Valuer interface for database serialization
func (t TemplateDescriptor) Value() (driver.Value, error) {
	return json.Marshal(t)
}

// Scan implements the sql.Scanner interface for database deserialization
func (t *TemplateDescriptor) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	v, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("type assertion to []byte failed")
	}

	cloned := bytes.Clone(v)
	return json.Unmarshal(cloned, t)
}

// MediaRef preserves the provider media metadata of a message and, after a
// successful fetch, the stored location.
type MediaRef struct {
	ProviderMediaID string `json:"provider_media_id,omitempty"`
	MimeType        string `json:"mime_type,omitempty"`
	SHA256          string `json:"sha256,omitempty"`
	Caption         string `json:"caption,omitempty"`
	Filename        string `json:"filename,omitempty"`
	// URL is the provider-origin URL until the media fetch rewrites it to
	// the stored path.
	URL string `json:"url,omitempty"`
}

// Value implements the driver.Valuer interface for database serialization
func (m MediaRef) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface for database deserialization
func (m *MediaRef) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	v, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("type assertion to []byte failed")
	}

	cloned := bytes.Clone(v)
	return json.Unmarshal(cloned, m)
}

// MessageMeta is the provider envelope kept with the message.
type MessageMeta struct {
	ProviderMessageID string          `json:"provider_message_id,omitempty"`
	Timestamp         *time.Time      `json:"timestamp,omitempty"`
	Raw               json.RawMessage `json:"raw,omitempty"`
}

// Value implements the driver.Valuer interface for database serialization
func (m MessageMeta) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface for database deserialization
func (m *MessageMeta) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	v, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("type assertion to []byte failed")
	}

	cloned := bytes.Clone(v)
	return json.Unmarshal(cloned, m)
}

// StatusUpdate is one entry of the per-message status history.
type StatusUpdate struct {
	Status MessageStatus `json:"status"`
	At     time.Time     `json:"at"`
	Reason string        `json:"reason,omitempty"`
}

// StatusUpdates is the status history stored as JSONB.
type StatusUpdates []StatusUpdate

// Value implements the driver.Valuer interface for database serialization
func (s StatusUpdates) Value() (driver.Value, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface for database deserialization
func (s *StatusUpdates) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	v, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("type assertion to []byte failed")
	}

	cloned := bytes.Clone(v)
	return json.Unmarshal(cloned, s)
}

// Message is one inbound or outbound message of a conversation.
type Message struct {
	ID             string           `json:"id"`
	ConversationID string           `json:"conversation_id"`
	ContactID      string           `json:"contact_id"`
	Direction      MessageDirection `json:"direction"`
	Type           MessageType      `json:"type"`
	Body           string           `json:"body,omitempty"`
	Status         MessageStatus    `json:"status"`

	// ProviderMessageID is unique per workspace; it is the join key for
	// webhook status updates.
	ProviderMessageID string `json:"provider_message_id,omitempty"`

	Template *TemplateDescriptor `json:"template,omitempty"`
	Media    *MediaRef           `json:"media,omitempty"`
	Meta     *MessageMeta        `json:"meta,omitempty"`

	CampaignID    string `json:"campaign_id,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`

	StatusHistory StatusUpdates `json:"status_history,omitempty"`

	QueuedAt    *time.Time `json:"queued_at,omitempty"`
	SentAt      *time.Time `json:"sent_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	FailedAt    *time.Time `json:"failed_at,omitempty"`
	ReceivedAt  *time.Time `json:"received_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ApplyStatus applies a delivery status update. Forward-path transitions are
// monotonic, timestamp fields are first-write-wins, failed is terminal and a
// repeated terminal status is a no-op. It reports whether anything changed.
func (m *Message) ApplyStatus(status MessageStatus, at time.Time, reason string) bool {
	if m.Status == MessageStatusFailed {
		return false
	}
	if status == m.Status && status != MessageStatusFailed {
		// Same status repeated; stamp the timestamp if a prior update
		// somehow missed it, otherwise nothing to do.
		if m.stampStatusTime(status, at) {
			m.UpdatedAt = at
			return true
		}
		return false
	}

	if status == MessageStatusFailed {
		m.Status = MessageStatusFailed
		m.FailureReason = reason
		m.stampStatusTime(status, at)
		m.StatusHistory = append(m.StatusHistory, StatusUpdate{Status: status, At: at, Reason: reason})
		m.UpdatedAt = at
		return true
	}

	newRank, onPath := statusRank[status]
	if !onPath {
		return false
	}
	if currentRank, ok := statusRank[m.Status]; ok && newRank < currentRank {
		// Late or out-of-order update; keep the timestamp if unset but do
		// not move the status backwards.
		changed := m.stampStatusTime(status, at)
		if changed {
			m.UpdatedAt = at
		}
		return changed
	}

	m.Status = status
	m.stampStatusTime(status, at)
	m.StatusHistory = append(m.StatusHistory, StatusUpdate{Status: status, At: at})
	m.UpdatedAt = at
	return true
}

// stampStatusTime sets the timestamp field for status once; it reports
// whether the field was written.
func (m *Message) stampStatusTime(status MessageStatus, at time.Time) bool {
	set := func(field **time.Time) bool {
		if *field != nil {
			return false
		}
		t := at
		*field = &t
		return true
	}
	switch status {
	case MessageStatusQueued:
		return set(&m.QueuedAt)
	case MessageStatusSent:
		return set(&m.SentAt)
	case MessageStatusDelivered:
		return set(&m.DeliveredAt)
	case MessageStatusRead:
		return set(&m.ReadAt)
	case MessageStatusFailed:
		return set(&m.FailedAt)
	case MessageStatusReceived:
		return set(&m.ReceivedAt)
	}
	return false
}

// ErrMessageNotFound is returned when a message is not found
type ErrMessageNotFound struct {
	ID string
}

func (e *ErrMessageNotFound) Error() string {
	return fmt.Sprintf("message with ID %s not found", e.ID)
}

// For database scanning
type dbMessage struct {
	ID                string
	ConversationID    string
	ContactID         string
	Direction         string
	Type              string
	Body              sql.NullString
	Status            string
	ProviderMessageID sql.NullString
	Template          []byte
	Media             []byte
	Meta              []byte
	CampaignID        sql.NullString
	FailureReason     sql.NullString
	StatusHistory     []byte
	QueuedAt          sql.NullTime
	SentAt            sql.NullTime
	DeliveredAt       sql.NullTime
	ReadAt            sql.NullTime
	FailedAt          sql.NullTime
	ReceivedAt        sql.NullTime
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ScanMessage scans a message from the database
func ScanMessage(scanner interface {
	Scan(dest ...interface{}) error
}) (*Message, error) {
	var dbm dbMessage
	if err := scanner.Scan(
		&dbm.ID,
		&dbm.ConversationID,
		&dbm.ContactID,
		&dbm.Direction,
		&dbm.Type,
		&dbm.Body,
		&dbm.Status,
		&dbm.ProviderMessageID,
		&dbm.Template,
		&dbm.Media,
		&dbm.Meta,
		&dbm.CampaignID,
		&dbm.FailureReason,
		&dbm.StatusHistory,
		&dbm.QueuedAt,
		&dbm.SentAt,
		&dbm.DeliveredAt,
		&dbm.ReadAt,
		&dbm.FailedAt,
		&dbm.ReceivedAt,
		&dbm.CreatedAt,
		&dbm.UpdatedAt,
	); err != nil {
		return nil, err
	}

	m := &Message{
		ID:                dbm.ID,
		ConversationID:    dbm.ConversationID,
		ContactID:         dbm.ContactID,
		Direction:         MessageDirection(dbm.Direction),
		Type:              MessageType(dbm.Type),
		Body:              dbm.Body.String,
		Status:            MessageStatus(dbm.Status),
		ProviderMessageID: dbm.ProviderMessageID.String,
		CampaignID:        dbm.CampaignID.String,
		FailureReason:     dbm.FailureReason.String,
		CreatedAt:         dbm.CreatedAt,
		UpdatedAt:         dbm.UpdatedAt,
	}

	if len(dbm.Template) > 0 {
		m.Template = &TemplateDescriptor{}
		if err := json.Unmarshal(dbm.Template, m.Template); err != nil {
			return nil, fmt.Errorf("failed to unmarshal template descriptor: %w", err)
		}
	}
	if len(dbm.Media) > 0 {
		m.Media = &MediaRef{}
		if err := json.Unmarshal(dbm.Media, m.Media); err != nil {
			return nil, fmt.Errorf("failed to unmarshal media ref: %w", err)
		}
	}
	if len(dbm.Meta) > 0 {
		m.Meta = &MessageMeta{}
		if err := json.Unmarshal(dbm.Meta, m.Meta); err != nil {
			return nil, fmt.Errorf("failed to unmarshal message meta: %w", err)
		}
	}
	if len(dbm.StatusHistory) > 0 {
		if err := json.Unmarshal(dbm.StatusHistory, &m.StatusHistory); err != nil {
			return nil, fmt.Errorf("failed to unmarshal status history: %w", err)
		}
	}

	for _, pair := range []struct {
		src sql.NullTime
		dst **time.Time
	}{
		{dbm.QueuedAt, &m.QueuedAt},
		{dbm.SentAt, &m.SentAt},
		{dbm.DeliveredAt, &m.DeliveredAt},
		{dbm.ReadAt, &m.ReadAt},
		{dbm.FailedAt, &m.FailedAt},
		{dbm.ReceivedAt, &m.ReceivedAt},
	} {
		if pair.src.Valid {
			t := pair.src.Time
			*pair.dst = &t
		}
	}

	return m, nil
}

// SendTemplateRequest is the input of a single outbound template send.
type SendTemplateRequest struct {
	WorkspaceID  string            `json:"workspace_id"`
	TemplateID   string            `json:"template_id,omitempty"`
	TemplateName string            `json:"template_name,omitempty"`
	To           string            `json:"to"`
	Variables    TemplateVariables `json:"variables"`
	ContactID    string            `json:"contact_id,omitempty"`
	CampaignID   string            `json:"campaign_id,omitempty"`
	Meta         map[string]string `json:"meta,omitempty"`
}

func (r *SendTemplateRequest) Validate() error {
	if r.WorkspaceID == "" {
		return fmt.Errorf("workspace_id is required")
	}
	if r.TemplateID == "" && r.TemplateName == "" {
		return fmt.Errorf("template_id or template_name is required")
	}
	if r.To == "" {
		return fmt.Errorf("to is required")
	}
	return nil
}

// SendTemplateResult is returned on a successful send.
type SendTemplateResult struct {
	Message           *Message          `json:"message"`
	ProviderMessageID string            `json:"provider_message_id"`
	Budgets           *RemainingBudgets `json:"budgets,omitempty"`
}

// BulkRecipient is one entry of a bulk send.
type BulkRecipient struct {
	To        string            `json:"to"`
	Variables TemplateVariables `json:"variables"`
	ContactID string            `json:"contact_id,omitempty"`
}

// SendBulkRequest sends one template to many recipients.
type SendBulkRequest struct {
	WorkspaceID  string          `json:"workspace_id"`
	TemplateID   string          `json:"template_id,omitempty"`
	TemplateName string          `json:"template_name,omitempty"`
	Recipients   []BulkRecipient `json:"recipients"`
	CampaignID   string          `json:"campaign_id,omitempty"`
}

func (r *SendBulkRequest) Validate() error {
	if r.WorkspaceID == "" {
		return fmt.Errorf("workspace_id is required")
	}
	if r.TemplateID == "" && r.TemplateName == "" {
		return fmt.Errorf("template_id or template_name is required")
	}
	if len(r.Recipients) == 0 {
		return fmt.Errorf("recipients are required")
	}
	if len(r.Recipients) > 1000 {
		return fmt.Errorf("a bulk send is limited to 1000 recipients")
	}
	return nil
}

// BulkItemResult is the per-recipient outcome of a bulk send.
type BulkItemResult struct {
	To                string     `json:"to"`
	Success           bool       `json:"success"`
	MessageID         string     `json:"message_id,omitempty"`
	ProviderMessageID string     `json:"provider_message_id,omitempty"`
	Error             *SendError `json:"error,omitempty"`
}

// SendBulkResult aggregates the outcomes of a bulk send.
type SendBulkResult struct {
	Sent    int               `json:"sent"`
	Failed  int               `json:"failed"`
	Results []BulkItemResult  `json:"results"`
	Budgets *RemainingBudgets `json:"budgets,omitempty"`
}

// MessageListParams filters message listings.
type MessageListParams struct {
	Cursor         string           `json:"cursor,omitempty"`
	Limit          int              `json:"limit,omitempty"`
	ConversationID string           `json:"conversation_id,omitempty"`
	ContactID      string           `json:"contact_id,omitempty"`
	CampaignID     string           `json:"campaign_id,omitempty"`
	Direction      MessageDirection `json:"direction,omitempty"`
	Status         MessageStatus    `json:"status,omitempty"`
}

// FromQuery creates MessageListParams from HTTP query parameters
func (p *MessageListParams) FromQuery(query url.Values) error {
	p.Cursor = query.Get("cursor")
	p.ConversationID = query.Get("conversation_id")
	p.ContactID = query.Get("contact_id")
	p.CampaignID = query.Get("campaign_id")
	p.Direction = MessageDirection(query.Get("direction"))
	p.Status = MessageStatus(query.Get("status"))
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return fmt.Errorf("invalid limit value: %s", limitStr)
		}
		p.Limit = limit
	}
	return p.Validate()
}

func (p *MessageListParams) Validate() error {
	if p.Limit < 0 {
		return fmt.Errorf("limit cannot be negative")
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Limit == 0 {
		p.Limit = 20
	}
	switch p.Direction {
	case "", MessageInbound, MessageOutbound:
	default:
		return fmt.Errorf("invalid direction: %s", p.Direction)
	}
	return nil
}

// MessageListResult contains a page of messages.
type MessageListResult struct {
	Messages   []*Message `json:"messages"`
	NextCursor string     `json:"next_cursor,omitempty"`
	HasMore    bool       `json:"has_more"`
}

// MessageRepository operates on the per-workspace database.
type MessageRepository interface {
	Create(ctx context.Context, workspaceID string, message *Message) error
	CreateTx(ctx context.Context, tx *sql.Tx, message *Message) error
	GetByID(ctx context.Context, workspaceID, id string) (*Message, error)
	// GetByProviderMessageID is the join used by webhook status updates.
	GetByProviderMessageID(ctx context.Context, workspaceID, providerMessageID string) (*Message, error)
	Update(ctx context.Context, workspaceID string, message *Message) error
	List(ctx context.Context, workspaceID string, params MessageListParams) (*MessageListResult, error)
}

// MessageServiceInterface is the outbound send surface.
type MessageServiceInterface interface {
	SendTemplate(ctx context.Context, req *SendTemplateRequest) (*SendTemplateResult, error)
	SendBulk(ctx context.Context, req *SendBulkRequest) (*SendBulkResult, error)
	List(ctx context.Context, workspaceID string, params MessageListParams) (*MessageListResult, error)
}
