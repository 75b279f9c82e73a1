package domain

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

//go:generate mockgen -destination mocks/mock_contact_timeline_repository.go -package mocks github.com/Waypost/waypost/internal/domain ContactTimelineRepository

// Timeline operations.
const (
	TimelineOpInsert = "insert"
	TimelineOpUpdate = "update"
	TimelineOpDelete = "delete"
)

// Timeline entity types.
const (
	TimelineEntityContact      = "contact"
	TimelineEntityMessage      = "message"
	TimelineEntityConversation = "conversation"
	TimelineEntityOptState     = "opt_state"
)

// ContactTimelineEntry is one audit record of something that happened to a
// contact. Opt-state changes always land here so consent history survives
// message retention.
type ContactTimelineEntry struct {
	ID         string                 `json:"id"`
	ContactID  string                 `json:"contact_id"`
	Operation  string                 `json:"operation"`
	EntityType string                 `json:"entity_type"`
	EntityID   *string                `json:"entity_id,omitempty"`
	Changes    map[string]interface{} `json:"changes,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// NewOptStateTimelineEntry records a consent transition.
func NewOptStateTimelineEntry(contactID, status, via string, now time.Time) *ContactTimelineEntry {
	return &ContactTimelineEntry{
		ContactID:  contactID,
		Operation:  TimelineOpUpdate,
		EntityType: TimelineEntityOptState,
		Changes: map[string]interface{}{
			"status": status,
			"via":    via,
		},
		CreatedAt: now.UTC(),
	}
}

// TimelineListRequest represents the request parameters for listing timeline entries
type TimelineListRequest struct {
	WorkspaceID string
	ContactID   string
	Limit       int
	Cursor      *string
}

// TimelineListResponse represents the response for listing timeline entries
type TimelineListResponse struct {
	Timeline   []*ContactTimelineEntry `json:"timeline"`
	NextCursor *string                 `json:"next_cursor,omitempty"`
}

// Validate validates the timeline list request
func (r *TimelineListRequest) Validate() error {
	if r.WorkspaceID == "" {
		return fmt.Errorf("workspace_id is required")
	}
	if r.ContactID == "" {
		return fmt.Errorf("contact_id is required")
	}
	if r.Limit < 0 {
		return fmt.Errorf("limit must be non-negative")
	}
	if r.Limit > 100 {
		return fmt.Errorf("limit cannot exceed 100")
	}
	return nil
}

// FromQuery parses query parameters into a TimelineListRequest
func (r *TimelineListRequest) FromQuery(query url.Values) error {
	r.WorkspaceID = query.Get("workspace_id")
	r.ContactID = query.Get("contact_id")

	r.Limit = 50 // Default
	if limitStr := query.Get("limit"); limitStr != "" {
		parsedLimit, err := strconv.Atoi(limitStr)
		if err != nil {
			return fmt.Errorf("invalid limit parameter: must be an integer")
		}
		r.Limit = parsedLimit
	}

	if cursorStr := query.Get("cursor"); cursorStr != "" {
		r.Cursor = &cursorStr
	}

	return r.Validate()
}

// ContactTimelineRepository defines methods for contact timeline persistence
type ContactTimelineRepository interface {
	Create(ctx context.Context, workspaceID string, entry *ContactTimelineEntry) error
	CreateTx(ctx context.Context, tx *sql.Tx, entry *ContactTimelineEntry) error
	// List retrieves timeline entries for a contact, newest first
	List(ctx context.Context, workspaceID string, contactID string, limit int, cursor *string) ([]*ContactTimelineEntry, *string, error)
	// DeleteForContact deletes all timeline entries for a contact
	DeleteForContact(ctx context.Context, workspaceID string, contactID string) error
}
