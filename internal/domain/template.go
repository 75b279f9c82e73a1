package domain

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

//go:generate mockgen -destination mocks/mock_template_repository.go -package mocks github.com/Waypost/waypost/internal/domain TemplateRepository
//go:generate mockgen -destination mocks/mock_template_service.go -package mocks github.com/Waypost/waypost/internal/domain TemplateServiceInterface

// TemplateCategory is the provider's billing category of a template.
type TemplateCategory string

const (
	CategoryMarketing      TemplateCategory = "MARKETING"
	CategoryUtility        TemplateCategory = "UTILITY"
	CategoryAuthentication TemplateCategory = "AUTHENTICATION"
)

// ValidTemplateCategories lists every accepted category value.
var ValidTemplateCategories = []string{
	string(CategoryMarketing),
	string(CategoryUtility),
	string(CategoryAuthentication),
}

// TemplateStatus is the local mirror of the provider's template state. After
// submission the provider is authoritative; webhook updates overwrite.
type TemplateStatus string

const (
	TemplateDraft    TemplateStatus = "DRAFT"
	TemplatePending  TemplateStatus = "PENDING"
	TemplateApproved TemplateStatus = "APPROVED"
	TemplateRejected TemplateStatus = "REJECTED"
	TemplatePaused   TemplateStatus = "PAUSED"
	TemplateDisabled TemplateStatus = "DISABLED"
	TemplateInAppeal TemplateStatus = "IN_APPEAL"
	TemplateDeleted  TemplateStatus = "DELETED"
)

// templateEventMap folds the provider's template lifecycle events onto local
// statuses.
var templateEventMap = map[string]TemplateStatus{
	"APPROVED":           TemplateApproved,
	"REINSTATED":         TemplateApproved,
	"REJECTED":           TemplateRejected,
	"PENDING":            TemplatePending,
	"PENDING_DELETION":   TemplatePending,
	"IN_APPEAL":          TemplatePending,
	"QUALITY_PENDING":    TemplatePending,
	"DELETED":            TemplateDeleted,
	"DISABLED":           TemplateDisabled,
	"FLAGGED":            TemplateDisabled,
	"FLAGGED_FOR_REVIEW": TemplateDisabled,
	"AUTO_DISABLED":      TemplateDisabled,
	"BLOCKED":            TemplateDisabled,
	"PAUSED":             TemplatePaused,
}

// MapTemplateEvent resolves a provider lifecycle event to the local status it
// implies; ok is false for unknown events.
func MapTemplateEvent(event string) (TemplateStatus, bool) {
	status, ok := templateEventMap[strings.ToUpper(strings.TrimSpace(event))]
	return status, ok
}

// RejectionCategory buckets provider rejection reasons for operator guidance.
type RejectionCategory string

const (
	RejectionScam           RejectionCategory = "SCAM"
	RejectionPromotional    RejectionCategory = "PROMOTIONAL_CONTENT"
	RejectionAbusive        RejectionCategory = "ABUSIVE_CONTENT"
	RejectionInvalidFormat  RejectionCategory = "INVALID_FORMAT"
	RejectionMissingExample RejectionCategory = "MISSING_EXAMPLE"
	RejectionInvalidURL     RejectionCategory = "INVALID_URL"
	RejectionInvalidMedia   RejectionCategory = "INVALID_MEDIA"
	RejectionDuplicate      RejectionCategory = "DUPLICATE"
	RejectionTrademark      RejectionCategory = "TRADEMARK"
	RejectionPolicy         RejectionCategory = "POLICY_VIOLATION"
	RejectionOther          RejectionCategory = "OTHER"
)

type rejectionRule struct {
	category RejectionCategory
	pattern  *regexp.Regexp
	help     string
}

// Ordered: the first matching rule wins, so the specific buckets come before
// the generic policy catch-all.
var rejectionRules = []rejectionRule{
	{RejectionScam, regexp.MustCompile(`(?i)scam|fraud|phish|decept`), "The template was flagged as deceptive. Remove misleading claims and resubmit."},
	{RejectionPromotional, regexp.MustCompile(`(?i)promotional|promotion|marketing language|advertis|discount|sale`), "Promotional language is only allowed in MARKETING templates. Recategorize or remove the promotional wording."},
	{RejectionAbusive, regexp.MustCompile(`(?i)abusive|offensive|threat|harass|hate`), "The content was flagged as abusive. Review the provider content policy before resubmitting."},
	{RejectionMissingExample, regexp.MustCompile(`(?i)example`), "Every variable needs a sample value. Add examples for each placeholder and resubmit."},
	{RejectionInvalidURL, regexp.MustCompile(`(?i)\burl\b|link`), "A button or body URL failed validation. Use a full https:// URL on a domain you own."},
	{RejectionInvalidMedia, regexp.MustCompile(`(?i)media|image|video|attachment`), "The header media failed validation. Check the format and size limits."},
	{RejectionInvalidFormat, regexp.MustCompile(`(?i)format`), "The template structure is invalid. Check placeholder numbering and component order."},
	{RejectionDuplicate, regexp.MustCompile(`(?i)duplicate|already exists`), "An identical template already exists. Reuse it or change the content meaningfully."},
	{RejectionTrademark, regexp.MustCompile(`(?i)trademark|copyright|brand`), "The template appears to use a protected brand. Remove third-party marks you are not licensed to use."},
	{RejectionPolicy, regexp.MustCompile(`(?i)policy|violation|guideline|compliance`), "The template violates a provider policy. Review the commerce and content policies."},
}

// CategorizeRejection parses a provider rejection reason into a fixed
// category with operator help text. Unmatched reasons fall into OTHER.
func CategorizeRejection(reason string) (RejectionCategory, string) {
	for _, rule := range rejectionRules {
		if rule.pattern.MatchString(reason) {
			return rule.category, rule.help
		}
	}
	return RejectionOther, "The provider rejected the template. Review the reason text and adjust the content."
}

var placeholderPattern = regexp.MustCompile(`\{\{(\d+)\}\}`)

// CountPlaceholders returns the arity of a component text: the highest {{N}}
// index present, zero when the text is static.
func CountPlaceholders(text string) int {
	highest := 0
	for _, match := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return highest
}

// NamespaceTemplateName builds the provider-side name for a workspace's
// template: the last 8 characters of the workspace id, an underscore, then
// the local name.
func NamespaceTemplateName(workspaceID, localName string) string {
	return WorkspaceIDSuffix(workspaceID) + "_" + localName
}

// ParseNamespacedName splits a provider-side template name into the tenant
// suffix and the local name. Workspace ids are alphanumeric so the suffix
// never contains an underscore; everything after the first underscore is the
// local name.
func ParseNamespacedName(providerName string) (suffix, localName string, ok bool) {
	idx := strings.Index(providerName, "_")
	if idx <= 0 || idx == len(providerName)-1 {
		return "", "", false
	}
	return providerName[:idx], providerName[idx+1:], true
}

// TemplateButtonType is the kind of a template button.
type TemplateButtonType string

const (
	ButtonQuickReply  TemplateButtonType = "quick_reply"
	ButtonURL         TemplateButtonType = "url"
	ButtonPhoneNumber TemplateButtonType = "phone_number"
	ButtonCopyCode    TemplateButtonType = "copy_code"
)

// TemplateButton is one button of a template. URL buttons may carry a {{1}}
// suffix placeholder; copy-code buttons always take one dynamic value.
type TemplateButton struct {
	Type        TemplateButtonType `json:"type"`
	Text        string             `json:"text,omitempty"`
	URL         string             `json:"url,omitempty"`
	PhoneNumber string             `json:"phone_number,omitempty"`
	Example     string             `json:"example,omitempty"`
}

// DynamicSlots returns how many variable values the button consumes.
func (b *TemplateButton) DynamicSlots() int {
	switch b.Type {
	case ButtonURL:
		return CountPlaceholders(b.URL)
	case ButtonCopyCode:
		return 1
	default:
		return 0
	}
}

// HeaderType is the content kind of a template header.
type HeaderType string

const (
	HeaderNone     HeaderType = ""
	HeaderText     HeaderType = "text"
	HeaderImage    HeaderType = "image"
	HeaderVideo    HeaderType = "video"
	HeaderDocument HeaderType = "document"
)

// TemplateComponents is the component set of a template, stored as JSONB.
type TemplateComponents struct {
	HeaderType HeaderType       `json:"header_type,omitempty"`
	HeaderText string           `json:"header_text,omitempty"`
	BodyText   string           `json:"body_text"`
	FooterText string           `json:"footer_text,omitempty"`
	Buttons    []TemplateButton `json:"buttons,omitempty"`

	// Examples are the sample values submitted to the provider, positional
	// per body placeholder.
	Examples []string `json:"examples,omitempty"`
}

// Value implements the driver.Valuer interface for database serialization
func (c TemplateComponents) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements the sql.Scanner interface for database deserialization
func (c *TemplateComponents) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	v, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("type assertion to []byte failed")
	}

	cloned := bytes.Clone(v)
	return json.Unmarshal(cloned, c)
}

// HeaderSlots returns the variable arity of the header.
func (c *TemplateComponents) HeaderSlots() int {
	if c.HeaderType == HeaderText {
		return CountPlaceholders(c.HeaderText)
	}
	return 0
}

// BodySlots returns the variable arity of the body.
func (c *TemplateComponents) BodySlots() int {
	return CountPlaceholders(c.BodyText)
}

// ButtonSlots returns the total dynamic values the buttons consume.
func (c *TemplateComponents) ButtonSlots() int {
	total := 0
	for i := range c.Buttons {
		total += c.Buttons[i].DynamicSlots()
	}
	return total
}

// HasMediaHeader reports whether the header takes a media link.
func (c *TemplateComponents) HasMediaHeader() bool {
	switch c.HeaderType {
	case HeaderImage, HeaderVideo, HeaderDocument:
		return true
	}
	return false
}

// ApprovalSource tells where a template status transition came from.
const (
	ApprovalSourceWebhook = "WEBHOOK"
	ApprovalSourceLocal   = "LOCAL"
	ApprovalSourceSync    = "SYNC"
)

// ApprovalEvent is one entry of a template's approval history.
type ApprovalEvent struct {
	Status         TemplateStatus `json:"status"`
	PreviousStatus TemplateStatus `json:"previous_status,omitempty"`
	Source         string         `json:"source"`
	EventID        string         `json:"event_id,omitempty"`
	Reason         string         `json:"reason,omitempty"`
	At             time.Time      `json:"at"`
}

// ApprovalHistory is the transition log stored as JSONB.
type ApprovalHistory []ApprovalEvent

// Value implements the driver.Valuer interface for database serialization
func (h ApprovalHistory) Value() (driver.Value, error) {
	if len(h) == 0 {
		return nil, nil
	}
	return json.Marshal(h)
}

// Scan implements the sql.Scanner interface for database deserialization
func (h *ApprovalHistory) Scan(value interface{}) error {
	if value == nil {
		*h = nil
		return nil
	}

	v, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("type assertion to []byte failed")
	}

	cloned := bytes.Clone(v)
	return json.Unmarshal(cloned, h)
}

// Template is a pre-approved message form. Identity is (workspace, name,
// language); the provider-side name carries the tenant prefix.
type Template struct {
	ID          string             `json:"id"`
	WorkspaceID string             `json:"workspace_id"`
	Name        string             `json:"name"`
	Language    string             `json:"language"`
	Category    TemplateCategory   `json:"category"`
	Components  TemplateComponents `json:"components"`
	Status      TemplateStatus     `json:"status"`

	ProviderTemplateID string `json:"provider_template_id,omitempty"`
	ProviderName       string `json:"provider_name,omitempty"`

	RejectionReason   string            `json:"rejection_reason,omitempty"`
	RejectionCategory RejectionCategory `json:"rejection_category,omitempty"`
	RejectionHelp     string            `json:"rejection_help,omitempty"`

	History ApprovalHistory `json:"history,omitempty"`

	// Webhook idempotency: the same event type arriving again within 5s is
	// dropped.
	LastWebhookEventID string     `json:"last_webhook_event_id,omitempty"`
	LastWebhookEvent   string     `json:"last_webhook_event,omitempty"`
	LastWebhookUpdate  *time.Time `json:"last_webhook_update,omitempty"`

	// OriginalTemplateID links a forked version to its predecessor.
	OriginalTemplateID string `json:"original_template_id,omitempty"`
	Active             bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TemplateWebhookDedupeWindow collapses repeated lifecycle events.
const TemplateWebhookDedupeWindow = 5 * time.Second

// IsDuplicateWebhook reports whether an event of this type arrived within
// the dedupe window.
func (t *Template) IsDuplicateWebhook(event string, now time.Time) bool {
	if t.LastWebhookUpdate == nil {
		return false
	}
	if !strings.EqualFold(t.LastWebhookEvent, event) {
		return false
	}
	return now.Sub(*t.LastWebhookUpdate) < TemplateWebhookDedupeWindow
}

// ApplyWebhookEvent applies an authoritative lifecycle event: the status is
// overwritten, the history appended with source WEBHOOK, and rejection fields
// filled on REJECTED or cleared on APPROVED.
func (t *Template) ApplyWebhookEvent(event, eventID, reason string, now time.Time) (previous TemplateStatus, changed bool) {
	status, ok := MapTemplateEvent(event)
	if !ok {
		return t.Status, false
	}

	previous = t.Status
	t.Status = status
	t.LastWebhookEventID = eventID
	t.LastWebhookEvent = strings.ToUpper(strings.TrimSpace(event))
	ts := now
	t.LastWebhookUpdate = &ts

	switch status {
	case TemplateApproved:
		t.RejectionReason = ""
		t.RejectionCategory = ""
		t.RejectionHelp = ""
		t.Active = true
	case TemplateRejected:
		t.RejectionReason = reason
		t.RejectionCategory, t.RejectionHelp = CategorizeRejection(reason)
	}

	t.History = append(t.History, ApprovalEvent{
		Status:         status,
		PreviousStatus: previous,
		Source:         ApprovalSourceWebhook,
		EventID:        eventID,
		Reason:         reason,
		At:             now,
	})
	t.UpdatedAt = now
	return previous, true
}

// IsSendable reports whether the template may be used for outbound sends.
func (t *Template) IsSendable() bool {
	return t.Status == TemplateApproved
}

// ErrTemplateNotFound is returned when a template is not found
type ErrTemplateNotFound struct {
	ID string
}

func (e *ErrTemplateNotFound) Error() string {
	return fmt.Sprintf("template with ID %s not found", e.ID)
}

// For database scanning
type dbTemplate struct {
	ID                 string
	WorkspaceID        string
	Name               string
	Language           string
	Category           string
	Components         []byte
	Status             string
	ProviderTemplateID sql.NullString
	ProviderName       sql.NullString
	RejectionReason    sql.NullString
	RejectionCategory  sql.NullString
	RejectionHelp      sql.NullString
	History            []byte
	LastWebhookEventID sql.NullString
	LastWebhookEvent   sql.NullString
	LastWebhookUpdate  sql.NullTime
	OriginalTemplateID sql.NullString
	Active             bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ScanTemplate scans a template from the database
func ScanTemplate(scanner interface {
	Scan(dest ...interface{}) error
}) (*Template, error) {
	var dbt dbTemplate
	if err := scanner.Scan(
		&dbt.ID,
		&dbt.WorkspaceID,
		&dbt.Name,
		&dbt.Language,
		&dbt.Category,
		&dbt.Components,
		&dbt.Status,
		&dbt.ProviderTemplateID,
		&dbt.ProviderName,
		&dbt.RejectionReason,
		&dbt.RejectionCategory,
		&dbt.RejectionHelp,
		&dbt.History,
		&dbt.LastWebhookEventID,
		&dbt.LastWebhookEvent,
		&dbt.LastWebhookUpdate,
		&dbt.OriginalTemplateID,
		&dbt.Active,
		&dbt.CreatedAt,
		&dbt.UpdatedAt,
	); err != nil {
		return nil, err
	}

	t := &Template{
		ID:                 dbt.ID,
		WorkspaceID:        dbt.WorkspaceID,
		Name:               dbt.Name,
		Language:           dbt.Language,
		Category:           TemplateCategory(dbt.Category),
		Status:             TemplateStatus(dbt.Status),
		ProviderTemplateID: dbt.ProviderTemplateID.String,
		ProviderName:       dbt.ProviderName.String,
		RejectionReason:    dbt.RejectionReason.String,
		RejectionCategory:  RejectionCategory(dbt.RejectionCategory.String),
		RejectionHelp:      dbt.RejectionHelp.String,
		LastWebhookEventID: dbt.LastWebhookEventID.String,
		LastWebhookEvent:   dbt.LastWebhookEvent.String,
		OriginalTemplateID: dbt.OriginalTemplateID.String,
		Active:             dbt.Active,
		CreatedAt:          dbt.CreatedAt,
		UpdatedAt:          dbt.UpdatedAt,
	}
	if err := json.Unmarshal(dbt.Components, &t.Components); err != nil {
		return nil, fmt.Errorf("failed to unmarshal components: %w", err)
	}
	if len(dbt.History) > 0 {
		if err := json.Unmarshal(dbt.History, &t.History); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history: %w", err)
		}
	}
	if dbt.LastWebhookUpdate.Valid {
		ts := dbt.LastWebhookUpdate.Time
		t.LastWebhookUpdate = &ts
	}
	return t, nil
}

var templateNamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// CreateTemplateRequest creates a local DRAFT template.
type CreateTemplateRequest struct {
	WorkspaceID string             `json:"workspace_id"`
	Name        string             `json:"name"`
	Language    string             `json:"language"`
	Category    TemplateCategory   `json:"category"`
	Components  TemplateComponents `json:"components"`
}

func (r *CreateTemplateRequest) Validate() error {
	if r.WorkspaceID == "" {
		return fmt.Errorf("workspace_id is required")
	}
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(r.Name) > 512 {
		return fmt.Errorf("name length must be between 1 and 512")
	}
	if !templateNamePattern.MatchString(r.Name) {
		return fmt.Errorf("name must be lowercase letters, digits and underscores")
	}
	if r.Language == "" {
		return fmt.Errorf("language is required")
	}
	switch r.Category {
	case CategoryMarketing, CategoryUtility, CategoryAuthentication:
	default:
		return fmt.Errorf("invalid category: %s", r.Category)
	}
	if r.Components.BodyText == "" {
		return fmt.Errorf("body text is required")
	}
	if r.Components.HeaderType == HeaderText && r.Components.HeaderText == "" {
		return fmt.Errorf("header text is required for a text header")
	}
	return nil
}

// SubmitTemplateRequest submits a DRAFT or REJECTED template to the provider.
type SubmitTemplateRequest struct {
	WorkspaceID string `json:"workspace_id"`
	TemplateID  string `json:"template_id"`
}

func (r *SubmitTemplateRequest) Validate() error {
	if r.WorkspaceID == "" {
		return fmt.Errorf("workspace_id is required")
	}
	if r.TemplateID == "" {
		return fmt.Errorf("template_id is required")
	}
	return nil
}

// DeleteTemplateRequest removes a template provider-side and locally.
type DeleteTemplateRequest struct {
	WorkspaceID string `json:"workspace_id"`
	TemplateID  string `json:"template_id"`
}

func (r *DeleteTemplateRequest) Validate() error {
	if r.WorkspaceID == "" {
		return fmt.Errorf("workspace_id is required")
	}
	if r.TemplateID == "" {
		return fmt.Errorf("template_id is required")
	}
	return nil
}

// TemplateListParams filters template listings.
type TemplateListParams struct {
	Cursor   string           `json:"cursor,omitempty"`
	Limit    int              `json:"limit,omitempty"`
	Status   TemplateStatus   `json:"status,omitempty"`
	Category TemplateCategory `json:"category,omitempty"`
}

// FromQuery creates TemplateListParams from HTTP query parameters
func (p *TemplateListParams) FromQuery(query url.Values) error {
	p.Cursor = query.Get("cursor")
	p.Status = TemplateStatus(query.Get("status"))
	p.Category = TemplateCategory(query.Get("category"))
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return fmt.Errorf("invalid limit value: %s", limitStr)
		}
		p.Limit = limit
	}
	return p.Validate()
}

func (p *TemplateListParams) Validate() error {
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

// TemplateListResult contains a page of templates.
type TemplateListResult struct {
	Templates  []*Template `json:"templates"`
	NextCursor string      `json:"next_cursor,omitempty"`
	HasMore    bool        `json:"has_more"`
}

// TemplateStatusChange describes one authoritative transition, emitted on the
// workspace channel as template.status.
type TemplateStatusChange struct {
	TemplateID         string            `json:"template_id"`
	ProviderTemplateID string            `json:"provider_template_id,omitempty"`
	Status             TemplateStatus    `json:"status"`
	PreviousStatus     TemplateStatus    `json:"previous_status"`
	Reason             string            `json:"reason,omitempty"`
	RejectionDetails   *RejectionDetails `json:"rejection_details,omitempty"`
	Authoritative      bool              `json:"authoritative"`
}

// RejectionDetails carries the parsed rejection bucket with help text.
type RejectionDetails struct {
	Category RejectionCategory `json:"category"`
	Help     string            `json:"help"`
}

// TemplateRepository operates on the per-workspace database.
type TemplateRepository interface {
	Create(ctx context.Context, workspaceID string, template *Template) error
	GetByID(ctx context.Context, workspaceID, id string) (*Template, error)
	GetByName(ctx context.Context, workspaceID, name, language string) (*Template, error)
	GetByProviderTemplateID(ctx context.Context, workspaceID, providerTemplateID string) (*Template, error)
	GetByProviderName(ctx context.Context, workspaceID, providerName string) (*Template, error)
	Update(ctx context.Context, workspaceID string, template *Template) error
	List(ctx context.Context, workspaceID string, params TemplateListParams) (*TemplateListResult, error)
}

// TemplateServiceInterface manages the template lifecycle.
type TemplateServiceInterface interface {
	CreateTemplate(ctx context.Context, req *CreateTemplateRequest) (*Template, error)
	// SubmitTemplate namespaces the name, submits to the parent WABA and
	// marks the template PENDING. It consumes a template-submission slot.
	SubmitTemplate(ctx context.Context, req *SubmitTemplateRequest) (*Template, error)
	DeleteTemplate(ctx context.Context, req *DeleteTemplateRequest) error
	GetTemplate(ctx context.Context, workspaceID, id string) (*Template, error)
	ListTemplates(ctx context.Context, workspaceID string, params TemplateListParams) (*TemplateListResult, error)
	// ApplyStatusWebhook reconciles one authoritative lifecycle event.
	ApplyStatusWebhook(ctx context.Context, update *TemplateStatusUpdate) error
}
