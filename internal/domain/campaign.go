package domain

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

//go:generate mockgen -destination mocks/mock_campaign_repository.go -package mocks github.com/Waypost/waypost/internal/domain CampaignRepository
//go:generate mockgen -destination mocks/mock_campaign_service.go -package mocks github.com/Waypost/waypost/internal/domain CampaignServiceInterface

// CampaignStatus is the lifecycle state of a campaign.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignRunning   CampaignStatus = "running"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
	CampaignCancelled CampaignStatus = "cancelled"
)

// CampaignBatchStatus is the state of one batch of campaign recipients.
type CampaignBatchStatus string

const (
	BatchPending    CampaignBatchStatus = "pending"
	BatchQueued     CampaignBatchStatus = "queued"
	BatchProcessing CampaignBatchStatus = "processing"
	BatchCompleted  CampaignBatchStatus = "completed"
	BatchPaused     CampaignBatchStatus = "paused"
)

// CampaignMessageStatus is the per-recipient send state.
type CampaignMessageStatus string

const (
	CampaignMessagePending CampaignMessageStatus = "pending"
	CampaignMessageSent    CampaignMessageStatus = "sent"
	CampaignMessageFailed  CampaignMessageStatus = "failed"
	CampaignMessageSkipped CampaignMessageStatus = "skipped"
)

// CampaignMessageMaxAttempts bounds retries of a single recipient send.
const CampaignMessageMaxAttempts = 5

// Campaign is a bulk template send to a recipient set. Scheduling and
// audience building live outside the gateway; the gateway runs, pauses and
// accounts for campaigns.
type Campaign struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	TemplateID string         `json:"template_id"`
	Status     CampaignStatus `json:"status"`
	// PauseReason carries the kill-switch reason when status is paused.
	PauseReason string `json:"pause_reason,omitempty"`

	TotalRecipients int `json:"total_recipients"`
	SentCount       int `json:"sent_count"`
	FailedCount     int `json:"failed_count"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	PausedAt    *time.Time `json:"paused_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CampaignBatch groups campaign recipients for incremental processing.
type CampaignBatch struct {
	ID         string              `json:"id"`
	CampaignID string              `json:"campaign_id"`
	Status     CampaignBatchStatus `json:"status"`
	Sequence   int                 `json:"sequence"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// CampaignMessage is the exactly-once record per (campaign, contact). The
// storage layer enforces the uniqueness; a second insert for the same pair is
// a no-op.
type CampaignMessage struct {
	ID                string                `json:"id"`
	CampaignID        string                `json:"campaign_id"`
	BatchID           string                `json:"batch_id,omitempty"`
	ContactID         string                `json:"contact_id"`
	Status            CampaignMessageStatus `json:"status"`
	Attempts          int                   `json:"attempts"`
	MaxAttempts       int                   `json:"max_attempts"`
	LastError         string                `json:"last_error,omitempty"`
	ProviderMessageID string                `json:"provider_message_id,omitempty"`
	SentAt            *time.Time            `json:"sent_at,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// CanRetry reports whether a failed recipient send has budget left.
func (m *CampaignMessage) CanRetry() bool {
	max := m.MaxAttempts
	if max == 0 {
		max = CampaignMessageMaxAttempts
	}
	return m.Status == CampaignMessageFailed && m.Attempts < max
}

// ErrCampaignNotFound is returned when a campaign is not found
type ErrCampaignNotFound struct {
	ID string
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %s not found", e.ID)
}

// CreateCampaignRequest creates a draft campaign with its recipient set.
type CreateCampaignRequest struct {
	WorkspaceID string   `json:"workspace_id"`
	Name        string   `json:"name"`
	TemplateID  string   `json:"template_id"`
	ContactIDs  []string `json:"contact_ids"`
}

func (r *CreateCampaignRequest) Validate() error {
	if r.WorkspaceID == "" {
		return fmt.Errorf("workspace_id is required")
	}
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.TemplateID == "" {
		return fmt.Errorf("template_id is required")
	}
	if len(r.ContactIDs) == 0 {
		return fmt.Errorf("contact_ids are required")
	}
	return nil
}

// CampaignListParams filters campaign listings.
type CampaignListParams struct {
	Cursor string         `json:"cursor,omitempty"`
	Limit  int            `json:"limit,omitempty"`
	Status CampaignStatus `json:"status,omitempty"`
}

// FromQuery creates CampaignListParams from HTTP query parameters
func (p *CampaignListParams) FromQuery(query url.Values) error {
	p.Cursor = query.Get("cursor")
	p.Status = CampaignStatus(query.Get("status"))
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return fmt.Errorf("invalid limit value: %s", limitStr)
		}
		p.Limit = limit
	}
	return p.Validate()
}

func (p *CampaignListParams) Validate() error {
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

// CampaignListResult contains a page of campaigns.
type CampaignListResult struct {
	Campaigns  []*Campaign `json:"campaigns"`
	NextCursor string      `json:"next_cursor,omitempty"`
	HasMore    bool        `json:"has_more"`
}

// CampaignRepository operates on the per-workspace database.
type CampaignRepository interface {
	Create(ctx context.Context, workspaceID string, campaign *Campaign) error
	GetByID(ctx context.Context, workspaceID, id string) (*Campaign, error)
	Update(ctx context.Context, workspaceID string, campaign *Campaign) error
	List(ctx context.Context, workspaceID string, params CampaignListParams) (*CampaignListResult, error)
	// ListByStatus returns every campaign in the given status; the
	// kill-switch uses it to enumerate running campaigns.
	ListByStatus(ctx context.Context, workspaceID string, status CampaignStatus) ([]*Campaign, error)

	CreateBatch(ctx context.Context, workspaceID string, batch *CampaignBatch) error
	// PauseBatches moves a campaign's PENDING and QUEUED batches to PAUSED
	// and returns how many were paused.
	PauseBatches(ctx context.Context, workspaceID, campaignID string) (int64, error)
	ListBatches(ctx context.Context, workspaceID, campaignID string) ([]*CampaignBatch, error)
	UpdateBatch(ctx context.Context, workspaceID string, batch *CampaignBatch) error

	// CreateMessage inserts the exactly-once recipient record. created is
	// false when the (campaign, contact) pair already exists.
	CreateMessage(ctx context.Context, workspaceID string, message *CampaignMessage) (created bool, err error)
	GetMessage(ctx context.Context, workspaceID, campaignID, contactID string) (*CampaignMessage, error)
	GetMessageByProviderMessageID(ctx context.Context, workspaceID, providerMessageID string) (*CampaignMessage, error)
	UpdateMessage(ctx context.Context, workspaceID string, message *CampaignMessage) error
	// ListPendingMessages returns up to limit recipients still awaiting a
	// send, in insertion order.
	ListPendingMessages(ctx context.Context, workspaceID, campaignID string, limit int) ([]*CampaignMessage, error)
	CountMessages(ctx context.Context, workspaceID, campaignID string) (pending, sent, failed int, err error)
}

// CampaignServiceInterface manages campaign execution.
type CampaignServiceInterface interface {
	CreateCampaign(ctx context.Context, req *CreateCampaignRequest) (*Campaign, error)
	// StartCampaign checks workspace safety and schedules the campaign
	// runner task.
	StartCampaign(ctx context.Context, workspaceID, campaignID string) (*Campaign, error)
	PauseCampaign(ctx context.Context, workspaceID, campaignID, reason string) (*Campaign, error)
	GetCampaign(ctx context.Context, workspaceID, id string) (*Campaign, error)
	ListCampaigns(ctx context.Context, workspaceID string, params CampaignListParams) (*CampaignListResult, error)
	// ApplyStatusRollup folds a delivery status update into the campaign
	// recipient record it belongs to.
	ApplyStatusRollup(ctx context.Context, workspaceID, campaignID, providerMessageID string, status MessageStatus, reason string) error
}
