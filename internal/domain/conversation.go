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

//go:generate mockgen -destination mocks/mock_conversation_repository.go -package mocks github.com/Waypost/waypost/internal/domain ConversationRepository
//go:generate mockgen -destination mocks/mock_conversation_service.go -package mocks github.com/Waypost/waypost/internal/domain ConversationServiceInterface

// ServiceWindow is how long after the last customer message non-template
// messages stay permitted.
const ServiceWindow = 24 * time.Hour

// ConversationStatus is the lifecycle state of a conversation.
type ConversationStatus string

const (
	ConversationOpen     ConversationStatus = "open"
	ConversationClosed   ConversationStatus = "closed"
	ConversationResolved ConversationStatus = "resolved"
)

// ConversationType records who initiated the current conversation episode;
// it drives the billing category.
type ConversationType string

const (
	ConversationCustomerInitiated ConversationType = "customer_initiated"
	ConversationBusinessInitiated ConversationType = "business_initiated"
)

// UnreadCounts maps agent id to unread message count, stored as JSONB.
type UnreadCounts map[string]int

// Value implements the driver.Valuer interface for database serialization
func (u UnreadCounts) Value() (driver.Value, error) {
	if len(u) == 0 {
		return nil, nil
	}
	return json.Marshal(u)
}

// Scan implements the sql.Scanner interface for database deserialization
func (u *UnreadCounts) Scan(value interface{}) error {
	if value == nil {
		*u = nil
		return nil
	}

	v, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("type assertion to []byte failed")
	}

	cloned := bytes.Clone(v)
	return json.Unmarshal(cloned, u)
}

// Conversation is the single messaging thread between a workspace and one
// contact. There is at most one per contact; reopening resets the episode
// fields instead of creating a new row.
type Conversation struct {
	ID        string             `json:"id"`
	ContactID string             `json:"contact_id"`
	Status    ConversationStatus `json:"status"`
	Type      ConversationType   `json:"type"`

	StartedAt             time.Time  `json:"started_at"`
	LastActivityAt        time.Time  `json:"last_activity_at"`
	LastCustomerMessageAt *time.Time `json:"last_customer_message_at,omitempty"`
	LastMessagePreview    string     `json:"last_message_preview,omitempty"`
	LastMessageType       string     `json:"last_message_type,omitempty"`

	UnreadCounts UnreadCounts `json:"unread_counts,omitempty"`
	AssignedTo   string       `json:"assigned_to,omitempty"`
	SLADeadline  *time.Time   `json:"sla_deadline,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsServiceWindowOpen reports whether a customer message arrived within the
// 24-hour service window.
func (c *Conversation) IsServiceWindowOpen(now time.Time) bool {
	if c.LastCustomerMessageAt == nil {
		return false
	}
	return now.Sub(*c.LastCustomerMessageAt) < ServiceWindow
}

// RecordInbound updates the conversation for a customer message at ts,
// reopening a closed conversation as customer initiated.
func (c *Conversation) RecordInbound(ts time.Time, preview, messageType string) {
	if c.Status != ConversationOpen {
		c.Status = ConversationOpen
		c.Type = ConversationCustomerInitiated
		c.StartedAt = ts
	}
	c.LastActivityAt = ts
	c.LastCustomerMessageAt = &ts
	c.LastMessagePreview = preview
	c.LastMessageType = messageType
	c.UpdatedAt = ts
}

// RecordOutbound updates the conversation for a business message at ts.
func (c *Conversation) RecordOutbound(ts time.Time, preview, messageType string) {
	c.LastActivityAt = ts
	c.LastMessagePreview = preview
	c.LastMessageType = messageType
	c.UpdatedAt = ts
}

// IncrementUnread bumps the unread counter of every agent except sender.
func (c *Conversation) IncrementUnread(agentIDs []string) {
	if len(agentIDs) == 0 {
		return
	}
	if c.UnreadCounts == nil {
		c.UnreadCounts = make(UnreadCounts, len(agentIDs))
	}
	for _, id := range agentIDs {
		c.UnreadCounts[id]++
	}
}

// ErrConversationNotFound is returned when a conversation is not found
type ErrConversationNotFound struct {
	ID string
}

func (e *ErrConversationNotFound) Error() string {
	return fmt.Sprintf("conversation with ID %s not found", e.ID)
}

// For database scanning
type dbConversation struct {
	ID                    string
	ContactID             string
	Status                string
	Type                  string
	StartedAt             time.Time
	LastActivityAt        time.Time
	LastCustomerMessageAt sql.NullTime
	LastMessagePreview    sql.NullString
	LastMessageType       sql.NullString
	UnreadCounts          []byte
	AssignedTo            sql.NullString
	SLADeadline           sql.NullTime
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// ScanConversation scans a conversation from the database
func ScanConversation(scanner interface {
	Scan(dest ...interface{}) error
}) (*Conversation, error) {
	var dbc dbConversation
	if err := scanner.Scan(
		&dbc.ID,
		&dbc.ContactID,
		&dbc.Status,
		&dbc.Type,
		&dbc.StartedAt,
		&dbc.LastActivityAt,
		&dbc.LastCustomerMessageAt,
		&dbc.LastMessagePreview,
		&dbc.LastMessageType,
		&dbc.UnreadCounts,
		&dbc.AssignedTo,
		&dbc.SLADeadline,
		&dbc.CreatedAt,
		&dbc.UpdatedAt,
	); err != nil {
		return nil, err
	}

	c := &Conversation{
		ID:                 dbc.ID,
		ContactID:          dbc.ContactID,
		Status:             ConversationStatus(dbc.Status),
		Type:               ConversationType(dbc.Type),
		StartedAt:          dbc.StartedAt,
		LastActivityAt:     dbc.LastActivityAt,
		LastMessagePreview: dbc.LastMessagePreview.String,
		LastMessageType:    dbc.LastMessageType.String,
		AssignedTo:         dbc.AssignedTo.String,
		CreatedAt:          dbc.CreatedAt,
		UpdatedAt:          dbc.UpdatedAt,
	}
	if dbc.LastCustomerMessageAt.Valid {
		t := dbc.LastCustomerMessageAt.Time
		c.LastCustomerMessageAt = &t
	}
	if dbc.SLADeadline.Valid {
		t := dbc.SLADeadline.Time
		c.SLADeadline = &t
	}
	if len(dbc.UnreadCounts) > 0 {
		if err := json.Unmarshal(dbc.UnreadCounts, &c.UnreadCounts); err != nil {
			return nil, fmt.Errorf("failed to unmarshal unread counts: %w", err)
		}
	}
	return c, nil
}

// ConversationListParams filters conversation listings.
type ConversationListParams struct {
	Cursor     string             `json:"cursor,omitempty"`
	Limit      int                `json:"limit,omitempty"`
	Status     ConversationStatus `json:"status,omitempty"`
	AssignedTo string             `json:"assigned_to,omitempty"`
}

// FromQuery creates ConversationListParams from HTTP query parameters
func (p *ConversationListParams) FromQuery(query url.Values) error {
	p.Cursor = query.Get("cursor")
	p.Status = ConversationStatus(query.Get("status"))
	p.AssignedTo = query.Get("assigned_to")
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return fmt.Errorf("invalid limit value: %s", limitStr)
		}
		p.Limit = limit
	}
	return p.Validate()
}

func (p *ConversationListParams) Validate() error {
	if p.Limit < 0 {
		return fmt.Errorf("limit cannot be negative")
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Limit == 0 {
		p.Limit = 20
	}
	switch p.Status {
	case "", ConversationOpen, ConversationClosed, ConversationResolved:
	default:
		return fmt.Errorf("invalid conversation status: %s", p.Status)
	}
	return nil
}

// ConversationListResult contains a page of conversations.
type ConversationListResult struct {
	Conversations []*Conversation `json:"conversations"`
	NextCursor    string          `json:"next_cursor,omitempty"`
	HasMore       bool            `json:"has_more"`
}

// ConversationRepository operates on the per-workspace database.
type ConversationRepository interface {
	// UpsertForContact finds-or-creates the conversation of a contact
	// atomically and reports whether it was created.
	UpsertForContact(ctx context.Context, workspaceID string, conversation *Conversation) (created bool, err error)
	UpsertForContactTx(ctx context.Context, tx *sql.Tx, conversation *Conversation) (created bool, err error)
	GetByID(ctx context.Context, workspaceID, id string) (*Conversation, error)
	GetByContactID(ctx context.Context, workspaceID, contactID string) (*Conversation, error)
	Update(ctx context.Context, workspaceID string, conversation *Conversation) error
	List(ctx context.Context, workspaceID string, params ConversationListParams) (*ConversationListResult, error)
}

// ConversationServiceInterface exposes conversation operations.
type ConversationServiceInterface interface {
	// OpenForInbound records a customer message on the contact's
	// conversation, creating or reopening it as needed.
	OpenForInbound(ctx context.Context, workspace *Workspace, contact *Contact, ts time.Time, preview, messageType string) (conversation *Conversation, created bool, err error)
	// OpenForOutbound ensures a conversation exists for an outbound send,
	// marking it business initiated on create.
	OpenForOutbound(ctx context.Context, workspaceID, contactID string, ts time.Time, preview, messageType string) (conversation *Conversation, created bool, err error)
	GetByID(ctx context.Context, workspaceID, id string) (*Conversation, error)
	List(ctx context.Context, workspaceID string, params ConversationListParams) (*ConversationListResult, error)
}
