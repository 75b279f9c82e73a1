package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/pkg/logger"
	"github.com/Waypost/waypost/pkg/mailer"
	"github.com/google/uuid"
)

// KillSwitchService implements domain.KillSwitchServiceInterface. A trip is
// the gateway protecting the shared BSP account: every running campaign in
// the workspace stops and, for platform-level reasons, the global switch
// engages too.
type KillSwitchService struct {
	workspaceRepo domain.WorkspaceRepository
	campaignRepo  domain.CampaignRepository
	killRepo      domain.KillSwitchRepository
	taskRepo      domain.TaskRepository
	globalStore   domain.GlobalSwitchStore
	eventBus      domain.EventBus
	mailer        mailer.Mailer
	logger        logger.Logger
}

// NewKillSwitchService creates a new kill switch service
func NewKillSwitchService(
	workspaceRepo domain.WorkspaceRepository,
	campaignRepo domain.CampaignRepository,
	killRepo domain.KillSwitchRepository,
	taskRepo domain.TaskRepository,
	globalStore domain.GlobalSwitchStore,
	eventBus domain.EventBus,
	opsMailer mailer.Mailer,
	log logger.Logger,
) *KillSwitchService {
	return &KillSwitchService{
		workspaceRepo: workspaceRepo,
		campaignRepo:  campaignRepo,
		killRepo:      killRepo,
		taskRepo:      taskRepo,
		globalStore:   globalStore,
		eventBus:      eventBus,
		mailer:        opsMailer,
		logger:        log,
	}
}

// globalReasons engage the platform-wide switch: these conditions concern the
// shared parent WABA, not a single tenant.
func isGlobalReason(reason domain.KillSwitchReason) bool {
	switch reason {
	case domain.KillAccountBlocked, domain.KillEnforcementDetected:
		return true
	}
	return false
}

// Trip halts campaign sending for the workspace.
func (s *KillSwitchService) Trip(ctx context.Context, workspaceID string, reason domain.KillSwitchReason, detail, triggeredBy string) (*domain.KillSwitchEvent, error) {
	workspace, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	running, err := s.campaignRepo.ListByStatus(ctx, workspaceID, domain.CampaignRunning)
	if err != nil {
		return nil, fmt.Errorf("failed to list running campaigns: %w", err)
	}

	var pausedIDs []string
	var batchCount int64
	for _, campaign := range running {
		campaign.Status = domain.CampaignPaused
		campaign.PauseReason = string(reason)
		campaign.PausedAt = &now
		campaign.UpdatedAt = now
		if err := s.campaignRepo.Update(ctx, workspaceID, campaign); err != nil {
			s.logger.WithField("campaign_id", campaign.ID).Error(fmt.Sprintf("Failed to pause campaign on trip: %v", err))
			continue
		}
		pausedIDs = append(pausedIDs, campaign.ID)

		paused, err := s.campaignRepo.PauseBatches(ctx, workspaceID, campaign.ID)
		if err != nil {
			s.logger.WithField("campaign_id", campaign.ID).Warn("Failed to pause campaign batches on trip")
		}
		batchCount += paused

		s.pauseCampaignTask(ctx, workspaceID, campaign.ID)

		s.eventBus.Publish(ctx, domain.EventPayload{
			Type:        domain.EventCampaignPaused,
			WorkspaceID: workspaceID,
			EntityID:    campaign.ID,
			Data:        map[string]interface{}{"reason": string(reason)},
		})
	}

	event := &domain.KillSwitchEvent{
		ID:                uuid.New().String(),
		Reason:            reason,
		Detail:            detail,
		PausedCampaignIDs: pausedIDs,
		PausedBatchCount:  batchCount,
		TriggeredBy:       triggeredBy,
		CreatedAt:         now,
		ExpiresAt:         now.Add(domain.KillSwitchEventRetention),
	}
	if err := s.killRepo.Create(ctx, workspaceID, event); err != nil {
		return nil, fmt.Errorf("failed to record kill switch event: %w", err)
	}

	if workspace.Settings.OwnerEmail != "" {
		if err := s.mailer.SendKillSwitchAlert(workspace.Settings.OwnerEmail, workspace.Name, string(reason), pausedIDs); err != nil {
			s.logger.WithField("workspace_id", workspaceID).Warn("Failed to send kill switch alert mail")
		}
	}

	if isGlobalReason(reason) {
		if err := s.EngageGlobal(ctx, reason, detail, triggeredBy); err != nil {
			s.logger.Error(fmt.Sprintf("Failed to engage global kill switch: %v", err))
		}
	}

	s.eventBus.Publish(ctx, domain.EventPayload{
		Type:        domain.EventKillSwitchTripped,
		WorkspaceID: workspaceID,
		EntityID:    event.ID,
		Data: map[string]interface{}{
			"reason":           string(reason),
			"detail":           detail,
			"paused_campaigns": len(pausedIDs),
		},
	})

	s.logger.WithFields(map[string]interface{}{
		"workspace_id":     workspaceID,
		"reason":           string(reason),
		"paused_campaigns": len(pausedIDs),
		"paused_batches":   batchCount,
	}).Warn("Kill switch tripped")
	return event, nil
}

// pauseCampaignTask parks the runner task of a paused campaign so the
// scheduler does not pick it back up until an operator resumes it.
func (s *KillSwitchService) pauseCampaignTask(ctx context.Context, workspaceID, campaignID string) {
	task, err := s.taskRepo.GetTaskByCampaignID(ctx, workspaceID, campaignID)
	if err != nil {
		return
	}
	nextRun := time.Now().UTC().Add(domain.GlobalKillSwitchTTL)
	if err := s.taskRepo.MarkAsPaused(ctx, workspaceID, task.ID, nextRun, task.Progress, task.State); err != nil {
		s.logger.WithField("task_id", task.ID).Warn("Failed to pause campaign task on trip")
	}
}

// EngageGlobal trips the platform-wide switch.
func (s *KillSwitchService) EngageGlobal(ctx context.Context, reason domain.KillSwitchReason, detail, triggeredBy string) error {
	state := &domain.GlobalSwitchState{
		Engaged:   true,
		Reason:    reason,
		Detail:    detail,
		EngagedAt: time.Now().UTC(),
		EngagedBy: triggeredBy,
	}
	if err := s.globalStore.Engage(ctx, state, domain.GlobalKillSwitchTTL); err != nil {
		return fmt.Errorf("failed to engage global switch: %w", err)
	}
	s.logger.WithField("reason", string(reason)).Warn("Global kill switch engaged")
	return nil
}

// ClearGlobal releases the platform-wide switch.
func (s *KillSwitchService) ClearGlobal(ctx context.Context) error {
	if err := s.globalStore.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear global switch: %w", err)
	}
	s.logger.Info("Global kill switch cleared")
	return nil
}

// GlobalState reads the platform-wide switch, failing closed when the store
// is unreachable.
func (s *KillSwitchService) GlobalState(ctx context.Context) (*domain.GlobalSwitchState, error) {
	state, err := s.globalStore.Get(ctx)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Global switch store unreachable, reporting engaged: %v", err))
		return &domain.GlobalSwitchState{
			Engaged: true,
			Reason:  domain.KillAdminTriggered,
			Detail:  "switch store unreachable",
		}, nil
	}
	return state, nil
}

// IsWorkspaceSafeForCampaigns runs every campaign safety check.
func (s *KillSwitchService) IsWorkspaceSafeForCampaigns(ctx context.Context, workspace *domain.Workspace) (*domain.SafetyReport, error) {
	report := &domain.SafetyReport{}
	add := func(name string, passed bool, detail string) {
		report.Checks = append(report.Checks, domain.SafetyCheck{Name: name, Passed: passed, Detail: detail})
	}

	global, err := s.GlobalState(ctx)
	if err != nil {
		return nil, err
	}
	if global.Engaged {
		add("global_switch", false, fmt.Sprintf("global kill switch engaged: %s", global.Reason))
	} else {
		add("global_switch", true, "")
	}

	switch workspace.AccountStatus {
	case domain.AccountStatusDisabled, domain.AccountStatusSuspended:
		add("account_status", false, fmt.Sprintf("account is %s", workspace.AccountStatus))
	default:
		add("account_status", true, "")
	}

	if workspace.AccountDecision.IsEnforcement() {
		add("account_decision", false, fmt.Sprintf("account review decision is %s", workspace.AccountDecision))
	} else {
		add("account_decision", true, "")
	}

	switch workspace.QualityRating {
	case domain.QualityRed:
		add("quality_rating", false, "quality rating is RED")
	case domain.QualityYellow:
		add("quality_rating", true, "quality rating is YELLOW, monitor closely")
	default:
		add("quality_rating", true, "")
	}

	if workspace.BSP.CapabilityBlocked {
		add("capabilities", false, "messaging capability revoked by the provider")
	} else {
		add("capabilities", true, "")
	}

	if !workspace.IsBSPConnected() {
		add("phone", false, "no phone number assigned")
	} else if se := workspace.CanSendMessages(); se != nil {
		add("phone", false, se.Message)
	} else {
		add("phone", true, "")
	}

	if se := workspace.BillingAllowsSend(); se != nil {
		add("billing", false, se.Message)
	} else {
		add("billing", true, "")
	}

	report.Safe = report.Failed() == nil
	return report, nil
}

// ListEvents returns the most recent trip records for a workspace.
func (s *KillSwitchService) ListEvents(ctx context.Context, workspaceID string, limit int) ([]*domain.KillSwitchEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.killRepo.List(ctx, workspaceID, limit)
}
