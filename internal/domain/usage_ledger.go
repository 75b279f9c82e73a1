package domain

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

//go:generate mockgen -destination mocks/mock_usage_ledger_repository.go -package mocks github.com/Waypost/waypost/internal/domain UsageLedgerRepository

// UsageEntryKind labels what a ledger entry accounts for.
type UsageEntryKind string

const (
	UsageMessageSent        UsageEntryKind = "message_sent"
	UsageMessageReceived    UsageEntryKind = "message_received"
	UsageTemplateSubmission UsageEntryKind = "template_submission"
	UsageMediaStored        UsageEntryKind = "media_stored"
)

// UsageEntry is one append-only billing record. Entries are written after a
// provider accept and are never updated or deleted inside the retention
// window; the usage counters on the workspace are a cache, the ledger is the
// source of truth.
type UsageEntry struct {
	ID         string         `json:"id"`
	Kind       UsageEntryKind `json:"kind"`
	MessageID  string         `json:"message_id,omitempty"`
	TemplateID string         `json:"template_id,omitempty"`
	CampaignID string         `json:"campaign_id,omitempty"`
	Category   string         `json:"category,omitempty"`
	Quantity   int64          `json:"quantity"`
	BillingDay string         `json:"billing_day"`
	CreatedAt  time.Time      `json:"created_at"`
}

// NewMessageUsageEntry builds the ledger record for one accepted send.
func NewMessageUsageEntry(messageID, campaignID string, category TemplateCategory, now time.Time) *UsageEntry {
	return &UsageEntry{
		Kind:       UsageMessageSent,
		MessageID:  messageID,
		CampaignID: campaignID,
		Category:   string(category),
		Quantity:   1,
		BillingDay: now.UTC().Format("2006-01-02"),
		CreatedAt:  now.UTC(),
	}
}

// NewInboundUsageEntry builds the ledger record for one ingested inbound
// message. Every stored inbound produces one, keywords included.
func NewInboundUsageEntry(messageID string, now time.Time) *UsageEntry {
	return &UsageEntry{
		Kind:       UsageMessageReceived,
		MessageID:  messageID,
		Quantity:   1,
		BillingDay: now.UTC().Format("2006-01-02"),
		CreatedAt:  now.UTC(),
	}
}

// UsageListParams filters ledger listings.
type UsageListParams struct {
	Cursor string         `json:"cursor,omitempty"`
	Limit  int            `json:"limit,omitempty"`
	Kind   UsageEntryKind `json:"kind,omitempty"`
	Day    string         `json:"day,omitempty"`
}

// FromQuery creates UsageListParams from HTTP query parameters
func (p *UsageListParams) FromQuery(query url.Values) error {
	p.Cursor = query.Get("cursor")
	p.Kind = UsageEntryKind(query.Get("kind"))
	p.Day = query.Get("day")
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return fmt.Errorf("invalid limit value: %s", limitStr)
		}
		p.Limit = limit
	}
	return p.Validate()
}

func (p *UsageListParams) Validate() error {
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

// UsageListResult contains a page of ledger entries.
type UsageListResult struct {
	Entries    []*UsageEntry `json:"entries"`
	NextCursor string        `json:"next_cursor,omitempty"`
	HasMore    bool          `json:"has_more"`
}

// UsageSummary totals one billing day per kind.
type UsageSummary struct {
	Day          string           `json:"day"`
	MessagesSent int64            `json:"messages_sent"`
	Templates    int64            `json:"templates_submitted"`
	ByCategory   map[string]int64 `json:"by_category,omitempty"`
}

// UsageLedgerRepository appends to the per-workspace ledger. There is no
// update or single-entry delete by design of the ledger; purging happens only
// past the billing retention.
type UsageLedgerRepository interface {
	Append(ctx context.Context, workspaceID string, entry *UsageEntry) error
	AppendTx(ctx context.Context, tx *sql.Tx, entry *UsageEntry) error
	List(ctx context.Context, workspaceID string, params UsageListParams) (*UsageListResult, error)
	SummarizeDay(ctx context.Context, workspaceID, day string) (*UsageSummary, error)
}
