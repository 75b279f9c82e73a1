package domain

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/asaskevich/govalidator"
)

//go:generate mockgen -destination mocks/mock_workspace_repository.go -package mocks github.com/Waypost/waypost/internal/domain WorkspaceRepository
//go:generate mockgen -destination mocks/mock_workspace_service.go -package mocks github.com/Waypost/waypost/internal/domain WorkspaceServiceInterface

// PhoneStatus is the provider-side health of the workspace's assigned number.
type PhoneStatus string

const (
	PhoneStatusPending      PhoneStatus = "PENDING"
	PhoneStatusConnected    PhoneStatus = "CONNECTED"
	PhoneStatusDisconnected PhoneStatus = "DISCONNECTED"
	PhoneStatusBanned       PhoneStatus = "BANNED"
	PhoneStatusFlagged      PhoneStatus = "FLAGGED"
	PhoneStatusRestricted   PhoneStatus = "RESTRICTED"
	PhoneStatusRateLimited  PhoneStatus = "RATE_LIMITED"
)

// ValidPhoneStatuses lists every accepted phone status value.
var ValidPhoneStatuses = []string{
	string(PhoneStatusPending),
	string(PhoneStatusConnected),
	string(PhoneStatusDisconnected),
	string(PhoneStatusBanned),
	string(PhoneStatusFlagged),
	string(PhoneStatusRestricted),
	string(PhoneStatusRateLimited),
}

// QualityRating is the provider-reported messaging quality of the number.
type QualityRating string

const (
	QualityGreen   QualityRating = "GREEN"
	QualityYellow  QualityRating = "YELLOW"
	QualityRed     QualityRating = "RED"
	QualityUnknown QualityRating = "UNKNOWN"
)

// MessagingTier is the provider's ordered business-initiated conversation cap.
type MessagingTier string

const (
	TierNotSet    MessagingTier = "TIER_NOT_SET"
	Tier50        MessagingTier = "TIER_50"
	Tier250       MessagingTier = "TIER_250"
	Tier1K        MessagingTier = "TIER_1K"
	Tier10K       MessagingTier = "TIER_10K"
	Tier100K      MessagingTier = "TIER_100K"
	TierUnlimited MessagingTier = "TIER_UNLIMITED"
)

var tierRank = map[MessagingTier]int{
	TierNotSet:    0,
	Tier50:        1,
	Tier250:       2,
	Tier1K:        3,
	Tier10K:       4,
	Tier100K:      5,
	TierUnlimited: 6,
}

// Rank returns the position of the tier in the ordered scale; unknown tiers
// rank zero.
func (t MessagingTier) Rank() int {
	return tierRank[t]
}

// IsDowngradeFrom reports whether moving from previous to t lowered the tier.
// Unknown values never count as a downgrade.
func (t MessagingTier) IsDowngradeFrom(previous MessagingTier) bool {
	if t == "" || previous == "" {
		return false
	}
	newRank, ok := tierRank[t]
	if !ok {
		return false
	}
	oldRank, ok := tierRank[previous]
	if !ok {
		return false
	}
	return newRank < oldRank
}

// AccountStatus is the provider account status reported on account updates.
type AccountStatus string

const (
	AccountStatusActive        AccountStatus = "ACTIVE"
	AccountStatusDisabled      AccountStatus = "DISABLED"
	AccountStatusPendingReview AccountStatus = "PENDING_REVIEW"
	AccountStatusSuspended     AccountStatus = "SUSPENDED"
)

// ValidAccountStatuses lists every accepted account status value.
var ValidAccountStatuses = []string{
	string(AccountStatusActive),
	string(AccountStatusDisabled),
	string(AccountStatusPendingReview),
	string(AccountStatusSuspended),
}

// AccountDecision is the provider's review decision for the account.
type AccountDecision string

const (
	DecisionApproved        AccountDecision = "APPROVED"
	DecisionDisabled        AccountDecision = "DISABLED"
	DecisionPendingDeletion AccountDecision = "PENDING_DELETION"
	DecisionUnderReview     AccountDecision = "UNDER_REVIEW"
)

// IsEnforcement reports whether the decision indicates provider enforcement.
func (d AccountDecision) IsEnforcement() bool {
	switch d {
	case DecisionDisabled, DecisionPendingDeletion, DecisionUnderReview:
		return true
	}
	return false
}

// BillingStatus gates outbound sending independently of provider health.
type BillingStatus string

const (
	BillingActive    BillingStatus = "active"
	BillingTrialing  BillingStatus = "trialing"
	BillingPastDue   BillingStatus = "past_due"
	BillingSuspended BillingStatus = "suspended"
)

// Capability names the gateway reacts to on capability updates.
const (
	CapabilityMessaging             = "MESSAGING"
	CapabilityPhoneNumberManagement = "PHONE_NUMBER_MANAGEMENT"
)

// WorkspaceSettings contains configurable workspace settings stored as JSONB.
type WorkspaceSettings struct {
	Timezone   string `json:"timezone"`
	OwnerEmail string `json:"owner_email,omitempty"`

	// TrialAllowsSending permits outbound sends while the workspace is
	// still trialing.
	TrialAllowsSending bool `json:"trial_allows_sending,omitempty"`

	// RateLimits overrides the plan defaults when set; zero fields fall
	// back to the plan.
	RateLimits *RateLimitOverrides `json:"rate_limits,omitempty"`

	// SLAMinutes is the first-response deadline applied to new
	// conversations; zero disables SLA tracking.
	SLAMinutes int `json:"sla_minutes,omitempty"`

	// AgentIDs receive round-robin conversation auto-assignment.
	AgentIDs []string `json:"agent_ids,omitempty"`
}

// Validate validates workspace settings
func (ws *WorkspaceSettings) Validate() error {
	if ws.Timezone == "" {
		ws.Timezone = "UTC"
	}
	if ws.OwnerEmail != "" && !govalidator.IsEmail(ws.OwnerEmail) {
		return fmt.Errorf("invalid owner email: %s", ws.OwnerEmail)
	}
	if ws.SLAMinutes < 0 {
		return fmt.Errorf("sla_minutes cannot be negative")
	}
	if ws.RateLimits != nil {
		if err := ws.RateLimits.Validate(); err != nil {
			return fmt.Errorf("invalid rate limit overrides: %w", err)
		}
	}
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (ws WorkspaceSettings) Value() (driver.Value, error) {
	return json.Marshal(ws)
}

// Scan implements the sql.Scanner interface for database deserialization
func (ws *WorkspaceSettings) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	v, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("type assertion to []byte failed")
	}

	cloned := bytes.Clone(v)
	return json.Unmarshal(cloned, ws)
}

// BSPState carries the provider-account bookkeeping that is reconciled from
// webhooks and periodic sync, stored as JSONB.
type BSPState struct {
	// Capabilities maps capability name to its last reported status.
	Capabilities map[string]string `json:"capabilities,omitempty"`

	// CapabilityBlocked is set when MESSAGING or PHONE_NUMBER_MANAGEMENT
	// is revoked; the outbound sender observes it.
	CapabilityBlocked bool `json:"capability_blocked,omitempty"`

	// CustomerAssetIDs records PARTNER_ADDED asset ids from account updates.
	CustomerAssetIDs []string `json:"customer_asset_ids,omitempty"`

	TotalMessagesSent int64            `json:"total_messages_sent,omitempty"`
	CategoryCounts    map[string]int64 `json:"category_counts,omitempty"`
	LastMessageAt     *time.Time       `json:"last_message_at,omitempty"`
	LastSyncAt        *time.Time       `json:"last_sync_at,omitempty"`
	ConnectedAt       *time.Time       `json:"connected_at,omitempty"`
}

// Value implements the driver.Valuer interface for database serialization
func (b BSPState) Value() (driver.Value, error) {
	return json.Marshal(b)
}

// Scan implements the sql.Scanner interface for database deserialization
func (b *BSPState) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	v, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("type assertion to []byte failed")
	}

	cloned := bytes.Clone(v)
	return json.Unmarshal(cloned, b)
}

// RecordCapability stores a capability status and recomputes the block flag.
func (b *BSPState) RecordCapability(name, status string) {
	if b.Capabilities == nil {
		b.Capabilities = make(map[string]string)
	}
	b.Capabilities[name] = status

	blocked := false
	for _, capability := range []string{CapabilityMessaging, CapabilityPhoneNumberManagement} {
		if b.Capabilities[capability] == "REVOKED" {
			blocked = true
		}
	}
	b.CapabilityBlocked = blocked
}

// Workspace is a tenant of the gateway. All of its messaging data lives in a
// dedicated per-workspace database; the system database keeps this record as
// the routing and health source.
type Workspace struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	PlanTier PlanTier `json:"plan_tier"`

	// Provider assignment. PhoneNumberID is unique across all workspaces.
	PhoneNumberID      string `json:"phone_number_id,omitempty"`
	DisplayPhoneNumber string `json:"display_phone_number,omitempty"`
	WABAID             string `json:"waba_id,omitempty"`

	// Provider health, authoritative from webhooks and periodic sync.
	PhoneStatus     PhoneStatus     `json:"phone_status"`
	QualityRating   QualityRating   `json:"quality_rating"`
	MessagingTier   MessagingTier   `json:"messaging_tier"`
	AccountStatus   AccountStatus   `json:"account_status"`
	AccountDecision AccountDecision `json:"account_decision,omitempty"`

	BillingStatus BillingStatus `json:"billing_status"`

	// Materialized usage counters; the anchors mark the UTC day and month
	// the counters belong to.
	MessagesToday            int    `json:"messages_today"`
	MessagesThisMonth        int    `json:"messages_this_month"`
	TemplateSubmissionsToday int    `json:"template_submissions_today"`
	UsageDay                 string `json:"usage_day,omitempty"`
	UsageMonth               string `json:"usage_month,omitempty"`

	Settings WorkspaceSettings `json:"settings"`
	BSP      BSPState          `json:"bsp"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate performs validation on the workspace fields
func (w *Workspace) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("invalid workspace: id is required")
	}
	if !govalidator.IsAlphanumeric(w.ID) {
		return fmt.Errorf("invalid workspace: id must be alphanumeric")
	}
	if len(w.ID) > 32 {
		return fmt.Errorf("invalid workspace: id length must be between 1 and 32")
	}

	if w.Name == "" {
		return fmt.Errorf("invalid workspace: name is required")
	}
	if len(w.Name) > 255 {
		return fmt.Errorf("invalid workspace: name length must be between 1 and 255")
	}

	if !w.PlanTier.IsValid() {
		return fmt.Errorf("invalid workspace: unknown plan tier %q", w.PlanTier)
	}

	// A workspace cannot be CONNECTED without both provider identifiers.
	if w.PhoneStatus == PhoneStatusConnected && (w.PhoneNumberID == "" || w.WABAID == "") {
		return fmt.Errorf("invalid workspace: CONNECTED requires a phone number id and a WABA id")
	}

	if err := w.Settings.Validate(); err != nil {
		return fmt.Errorf("invalid workspace settings: %w", err)
	}

	return nil
}

// IDSuffix returns the last 8 characters of the workspace id, the tenant
// prefix used for provider-side template names.
func (w *Workspace) IDSuffix() string {
	return WorkspaceIDSuffix(w.ID)
}

// WorkspaceIDSuffix returns the last 8 characters of a workspace id; shorter
// ids are returned whole.
func WorkspaceIDSuffix(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[len(id)-8:]
}

// IsBSPConnected reports whether the workspace has a provider assignment.
func (w *Workspace) IsBSPConnected() bool {
	return w.PhoneNumberID != "" && w.WABAID != ""
}

// CanSendMessages returns nil when the phone status permits outbound sends,
// otherwise the policy error to surface. RESTRICTED and FLAGGED numbers stay
// readable but must not send.
func (w *Workspace) CanSendMessages() *SendError {
	switch w.PhoneStatus {
	case PhoneStatusConnected:
		return nil
	case PhoneStatusBanned:
		return NewSendError(ErrKindPhoneBanned, "phone number is banned by the provider")
	case PhoneStatusRateLimited:
		return NewLimitError(ErrKindPhoneRateLimited, 3600, "phone number is rate limited by the provider")
	case PhoneStatusRestricted, PhoneStatusFlagged:
		return NewSendError(ErrKindPhoneDisconnected, "phone number is %s and cannot send", w.PhoneStatus)
	default:
		return NewSendError(ErrKindPhoneDisconnected, "phone number status is %s", w.PhoneStatus)
	}
}

// BillingAllowsSend returns nil when the billing status permits sends.
func (w *Workspace) BillingAllowsSend() *SendError {
	switch w.BillingStatus {
	case BillingTrialing:
		if !w.Settings.TrialAllowsSending {
			return NewSendError(ErrKindBillingTrialBlock, "trial workspaces cannot send messages")
		}
		return nil
	case BillingPastDue:
		return NewSendError(ErrKindBillingPastDue, "billing is past due")
	case BillingSuspended:
		return NewSendError(ErrKindBillingSuspended, "billing is suspended")
	default:
		return nil
	}
}

// EffectiveLimits resolves the workspace limits from the plan defaults and
// any workspace-specific overrides.
func (w *Workspace) EffectiveLimits() PlanLimits {
	limits := w.PlanTier.Limits()
	if w.Settings.RateLimits != nil {
		limits = w.Settings.RateLimits.Apply(limits)
	}
	return limits
}

// UsageDayKey formats the UTC day anchor for usage counters.
func UsageDayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// UsageMonthKey formats the UTC month anchor for usage counters.
func UsageMonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// CurrentUsage returns the counters valid at now, treating counters from a
// previous day or month as zero.
func (w *Workspace) CurrentUsage(now time.Time) (day, month, templatesDay int) {
	if w.UsageDay == UsageDayKey(now) {
		day = w.MessagesToday
		templatesDay = w.TemplateSubmissionsToday
	}
	if w.UsageMonth == UsageMonthKey(now) {
		month = w.MessagesThisMonth
	}
	return day, month, templatesDay
}

// CreateWorkspaceRequest defines the payload to create a workspace.
type CreateWorkspaceRequest struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	PlanTier      PlanTier          `json:"plan_tier"`
	BillingStatus BillingStatus     `json:"billing_status,omitempty"`
	Settings      WorkspaceSettings `json:"settings"`
}

// Validate validates the request and returns the workspace to persist.
func (r *CreateWorkspaceRequest) Validate() (*Workspace, error) {
	if r.PlanTier == "" {
		r.PlanTier = PlanFree
	}
	if r.BillingStatus == "" {
		r.BillingStatus = BillingActive
	}
	now := time.Now().UTC()
	w := &Workspace{
		ID:            r.ID,
		Name:          r.Name,
		PlanTier:      r.PlanTier,
		PhoneStatus:   PhoneStatusPending,
		QualityRating: QualityUnknown,
		MessagingTier: TierNotSet,
		AccountStatus: AccountStatusActive,
		BillingStatus: r.BillingStatus,
		Settings:      r.Settings,
		UsageDay:      UsageDayKey(now),
		UsageMonth:    UsageMonthKey(now),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// AssignPhoneRequest binds a provider phone number to a workspace.
type AssignPhoneRequest struct {
	WorkspaceID        string `json:"workspace_id"`
	PhoneNumberID      string `json:"phone_number_id"`
	DisplayPhoneNumber string `json:"display_phone_number,omitempty"`
	WABAID             string `json:"waba_id"`
}

func (r *AssignPhoneRequest) Validate() error {
	if r.WorkspaceID == "" {
		return fmt.Errorf("workspace_id is required")
	}
	if r.PhoneNumberID == "" {
		return fmt.Errorf("phone_number_id is required")
	}
	if r.WABAID == "" {
		return fmt.Errorf("waba_id is required")
	}
	return nil
}

// ErrWorkspaceNotFound is returned when a workspace is not found
type ErrWorkspaceNotFound struct {
	ID string
}

func (e *ErrWorkspaceNotFound) Error() string {
	return fmt.Sprintf("workspace with ID %s not found", e.ID)
}

// ErrPhoneNumberTaken is returned when the phone number id is already
// assigned to another workspace.
type ErrPhoneNumberTaken struct {
	PhoneNumberID string
	WorkspaceID   string
}

func (e *ErrPhoneNumberTaken) Error() string {
	return fmt.Sprintf("phone number id %s is already assigned to workspace %s", e.PhoneNumberID, e.WorkspaceID)
}

// For database scanning
type dbWorkspace struct {
	ID                       string
	Name                     string
	PlanTier                 string
	PhoneNumberID            sql.NullString
	DisplayPhoneNumber       sql.NullString
	WABAID                   sql.NullString
	PhoneStatus              string
	QualityRating            string
	MessagingTier            string
	AccountStatus            string
	AccountDecision          sql.NullString
	BillingStatus            string
	MessagesToday            int
	MessagesThisMonth        int
	TemplateSubmissionsToday int
	UsageDay                 sql.NullString
	UsageMonth               sql.NullString
	Settings                 []byte
	BSP                      []byte
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// ScanWorkspace scans a workspace from the database
func ScanWorkspace(scanner interface {
	Scan(dest ...interface{}) error
}) (*Workspace, error) {
	var dbw dbWorkspace
	if err := scanner.Scan(
		&dbw.ID,
		&dbw.Name,
		&dbw.PlanTier,
		&dbw.PhoneNumberID,
		&dbw.DisplayPhoneNumber,
		&dbw.WABAID,
		&dbw.PhoneStatus,
		&dbw.QualityRating,
		&dbw.MessagingTier,
		&dbw.AccountStatus,
		&dbw.AccountDecision,
		&dbw.BillingStatus,
		&dbw.MessagesToday,
		&dbw.MessagesThisMonth,
		&dbw.TemplateSubmissionsToday,
		&dbw.UsageDay,
		&dbw.UsageMonth,
		&dbw.Settings,
		&dbw.BSP,
		&dbw.CreatedAt,
		&dbw.UpdatedAt,
	); err != nil {
		return nil, err
	}

	w := &Workspace{
		ID:                       dbw.ID,
		Name:                     dbw.Name,
		PlanTier:                 PlanTier(dbw.PlanTier),
		PhoneNumberID:            dbw.PhoneNumberID.String,
		DisplayPhoneNumber:       dbw.DisplayPhoneNumber.String,
		WABAID:                   dbw.WABAID.String,
		PhoneStatus:              PhoneStatus(dbw.PhoneStatus),
		QualityRating:            QualityRating(dbw.QualityRating),
		MessagingTier:            MessagingTier(dbw.MessagingTier),
		AccountStatus:            AccountStatus(dbw.AccountStatus),
		AccountDecision:          AccountDecision(dbw.AccountDecision.String),
		BillingStatus:            BillingStatus(dbw.BillingStatus),
		MessagesToday:            dbw.MessagesToday,
		MessagesThisMonth:        dbw.MessagesThisMonth,
		TemplateSubmissionsToday: dbw.TemplateSubmissionsToday,
		UsageDay:                 dbw.UsageDay.String,
		UsageMonth:               dbw.UsageMonth.String,
		CreatedAt:                dbw.CreatedAt,
		UpdatedAt:                dbw.UpdatedAt,
	}

	if len(dbw.Settings) > 0 {
		if err := json.Unmarshal(dbw.Settings, &w.Settings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
		}
	}
	if len(dbw.BSP) > 0 {
		if err := json.Unmarshal(dbw.BSP, &w.BSP); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bsp state: %w", err)
		}
	}

	return w, nil
}

// WorkspaceRepository is the storage surface for workspaces and their
// per-workspace databases.
type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *Workspace) error
	GetByID(ctx context.Context, id string) (*Workspace, error)
	// GetByPhoneNumberID returns ErrWorkspaceNotFound when no workspace
	// owns the phone number id.
	GetByPhoneNumberID(ctx context.Context, phoneNumberID string) (*Workspace, error)
	List(ctx context.Context) ([]*Workspace, error)
	Update(ctx context.Context, workspace *Workspace) error
	Delete(ctx context.Context, id string) error

	// AssignPhone persists a phone assignment; it fails with
	// ErrPhoneNumberTaken when another workspace holds the number.
	AssignPhone(ctx context.Context, workspaceID, phoneNumberID, displayPhoneNumber, wabaID string) error

	// IncrementMessageUsage atomically bumps the daily and monthly message
	// counters, rolling the anchors when a UTC day or month boundary passed.
	IncrementMessageUsage(ctx context.Context, workspaceID string, now time.Time) error
	// IncrementTemplateSubmissions atomically bumps the daily template
	// submission counter with the same rollover semantics.
	IncrementTemplateSubmissions(ctx context.Context, workspaceID string, now time.Time) error

	// Database management
	GetConnection(ctx context.Context, workspaceID string) (*sql.DB, error)
	GetSystemConnection(ctx context.Context) (*sql.DB, error)
	CreateDatabase(ctx context.Context, workspaceID string) error
	DeleteDatabase(ctx context.Context, workspaceID string) error

	// Transaction management
	WithWorkspaceTransaction(ctx context.Context, workspaceID string, fn func(*sql.Tx) error) error
}

// WorkspaceServiceInterface exposes workspace management to the HTTP layer.
type WorkspaceServiceInterface interface {
	CreateWorkspace(ctx context.Context, req *CreateWorkspaceRequest) (*Workspace, error)
	GetWorkspace(ctx context.Context, id string) (*Workspace, error)
	ListWorkspaces(ctx context.Context) ([]*Workspace, error)
	// AssignPhoneNumber invalidates the router cache entries before
	// persisting the assignment so a reassigned number can never route to
	// its previous owner.
	AssignPhoneNumber(ctx context.Context, req *AssignPhoneRequest) (*Workspace, error)
	DeleteWorkspace(ctx context.Context, id string) error
}
