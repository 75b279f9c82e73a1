package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination mocks/mock_kill_switch_repository.go -package mocks github.com/Waypost/waypost/internal/domain KillSwitchRepository
//go:generate mockgen -destination mocks/mock_global_switch_store.go -package mocks github.com/Waypost/waypost/internal/domain GlobalSwitchStore
//go:generate mockgen -destination mocks/mock_kill_switch_service.go -package mocks github.com/Waypost/waypost/internal/domain KillSwitchServiceInterface

// KillSwitchReason names why campaign sending was halted.
type KillSwitchReason string

const (
	KillQualityDegraded     KillSwitchReason = "QUALITY_DEGRADED"
	KillTierDowngraded      KillSwitchReason = "TIER_DOWNGRADED"
	KillAccountBlocked      KillSwitchReason = "ACCOUNT_BLOCKED"
	KillCapabilityRevoked   KillSwitchReason = "CAPABILITY_REVOKED"
	KillEnforcementDetected KillSwitchReason = "ENFORCEMENT_DETECTED"
	KillAdminTriggered      KillSwitchReason = "ADMIN_TRIGGERED"
)

// KillSwitchEventRetention is how long trip records are kept.
const KillSwitchEventRetention = 7 * 24 * time.Hour

// GlobalKillSwitchTTL caps an engaged global switch; it auto-expires rather
// than staying stuck if nobody clears it.
const GlobalKillSwitchTTL = 24 * time.Hour

// KillSwitchEvent records one trip of the kill switch in the workspace it
// tripped for.
type KillSwitchEvent struct {
	ID                string           `json:"id"`
	Reason            KillSwitchReason `json:"reason"`
	Detail            string           `json:"detail,omitempty"`
	PausedCampaignIDs []string         `json:"paused_campaign_ids,omitempty"`
	PausedBatchCount  int64            `json:"paused_batch_count"`
	TriggeredBy       string           `json:"triggered_by,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	ExpiresAt         time.Time        `json:"expires_at"`
}

// GlobalSwitchState is the platform-wide switch as read back from the store.
type GlobalSwitchState struct {
	Engaged   bool             `json:"engaged"`
	Reason    KillSwitchReason `json:"reason,omitempty"`
	Detail    string           `json:"detail,omitempty"`
	EngagedAt time.Time        `json:"engaged_at,omitempty"`
	EngagedBy string           `json:"engaged_by,omitempty"`
}

// SafetyCheck is one named precondition of campaign sending.
type SafetyCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// SafetyReport aggregates the checks run before a campaign may start or
// continue.
type SafetyReport struct {
	Safe   bool          `json:"safe"`
	Checks []SafetyCheck `json:"checks"`
}

// Failed returns the first failing check, or nil when all passed.
func (r *SafetyReport) Failed() *SafetyCheck {
	for i := range r.Checks {
		if !r.Checks[i].Passed {
			return &r.Checks[i]
		}
	}
	return nil
}

// KillSwitchRepository stores trip records in the per-workspace database.
type KillSwitchRepository interface {
	Create(ctx context.Context, workspaceID string, event *KillSwitchEvent) error
	List(ctx context.Context, workspaceID string, limit int) ([]*KillSwitchEvent, error)
	DeleteExpired(ctx context.Context, workspaceID string) (int64, error)
}

// GlobalSwitchStore holds the platform-wide switch in shared fast storage so
// every node observes a trip immediately. Reads fail closed: when the store
// is unreachable the switch reports engaged.
type GlobalSwitchStore interface {
	Engage(ctx context.Context, state *GlobalSwitchState, ttl time.Duration) error
	Clear(ctx context.Context) error
	Get(ctx context.Context) (*GlobalSwitchState, error)
}

// KillSwitchServiceInterface trips, clears and consults the kill switch.
type KillSwitchServiceInterface interface {
	// Trip pauses every running campaign in the workspace, pauses their
	// pending batches, records the event, alerts the workspace owner, and
	// engages the global switch for platform-level reasons.
	Trip(ctx context.Context, workspaceID string, reason KillSwitchReason, detail, triggeredBy string) (*KillSwitchEvent, error)

	// EngageGlobal trips the platform-wide switch without touching a
	// specific workspace.
	EngageGlobal(ctx context.Context, reason KillSwitchReason, detail, triggeredBy string) error

	// ClearGlobal releases the platform-wide switch.
	ClearGlobal(ctx context.Context) error

	// GlobalState reads the platform-wide switch.
	GlobalState(ctx context.Context) (*GlobalSwitchState, error)

	// IsWorkspaceSafeForCampaigns runs every safety check for the
	// workspace: global switch, account status, enforcement decisions,
	// phone quality, messaging capability, billing.
	IsWorkspaceSafeForCampaigns(ctx context.Context, workspace *Workspace) (*SafetyReport, error)

	ListEvents(ctx context.Context, workspaceID string, limit int) ([]*KillSwitchEvent, error)
}
