package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/pkg/logger"
	"github.com/google/uuid"
)

// healthSyncInterval is how long after a completed sync the next one is
// scheduled.
const healthSyncInterval = 15 * time.Minute

// HealthSyncProcessor periodically pulls phone and account health from the
// provider and feeds it through the account reactor, catching degradations
// whose webhooks were missed.
type HealthSyncProcessor struct {
	workspaceRepo domain.WorkspaceRepository
	provider      domain.ProviderClient
	reactor       domain.AccountReactorInterface
	taskService   domain.TaskService
	logger        logger.Logger
	parentWABAID  string
}

// NewHealthSyncProcessor creates a new health sync processor
func NewHealthSyncProcessor(
	workspaceRepo domain.WorkspaceRepository,
	provider domain.ProviderClient,
	reactor domain.AccountReactorInterface,
	taskService domain.TaskService,
	log logger.Logger,
	parentWABAID string,
) *HealthSyncProcessor {
	return &HealthSyncProcessor{
		workspaceRepo: workspaceRepo,
		provider:      provider,
		reactor:       reactor,
		taskService:   taskService,
		logger:        log,
		parentWABAID:  parentWABAID,
	}
}

// CanProcess returns true if this processor can handle the given task type
func (p *HealthSyncProcessor) CanProcess(taskType string) bool {
	return taskType == domain.TaskTypeHealthSync
}

// wouldTrip mirrors the account reactor's trip conditions so the sync state
// can report how many workspaces degraded during this run.
func wouldTrip(workspace *domain.Workspace, update *domain.AccountUpdate) bool {
	if update.QualityRating == string(domain.QualityRed) && workspace.QualityRating != domain.QualityRed {
		return true
	}
	if update.AccountStatus == string(domain.AccountStatusDisabled) && workspace.AccountStatus != domain.AccountStatusDisabled {
		return true
	}
	if domain.AccountDecision(update.DecisionStatus).IsEnforcement() && !workspace.AccountDecision.IsEnforcement() {
		return true
	}
	if domain.MessagingTier(update.MessagingTier).IsDowngradeFrom(workspace.MessagingTier) {
		return true
	}
	return false
}

// Process walks every connected workspace, resuming from where the previous
// slice stopped.
func (p *HealthSyncProcessor) Process(ctx context.Context, task *domain.Task, timeoutAt time.Time) (bool, error) {
	if task.State == nil {
		task.State = &domain.TaskState{}
	}
	if task.State.HealthSync == nil {
		task.State.HealthSync = &domain.HealthSyncState{}
	}
	state := task.State.HealthSync

	workspaces, err := p.workspaceRepo.List(ctx)
	if err != nil {
		return false, err
	}

	// The parent WABA is shared, one account snapshot covers every tenant.
	accountInfo, err := p.provider.GetAccountInfo(ctx, p.parentWABAID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch account health: %w", err)
	}

	resuming := state.LastSyncedWorkspaceID != ""
	for _, workspace := range workspaces {
		if resuming {
			if workspace.ID == state.LastSyncedWorkspaceID {
				resuming = false
			}
			continue
		}
		if workspace.PhoneNumberID == "" {
			continue
		}
		if time.Until(timeoutAt) < timeoutMargin {
			task.State.Message = fmt.Sprintf("synced %d workspaces, continuing", state.SyncedCount)
			return false, nil
		}

		phoneInfo, err := p.provider.GetPhoneInfo(ctx, workspace.PhoneNumberID)
		if err != nil {
			p.logger.WithFields(map[string]interface{}{
				"workspace_id":    workspace.ID,
				"phone_number_id": workspace.PhoneNumberID,
			}).Warn(fmt.Sprintf("Failed to fetch phone health: %v", err))
			state.LastSyncedWorkspaceID = workspace.ID
			continue
		}

		update := &domain.AccountUpdate{
			PhoneNumberID:  workspace.PhoneNumberID,
			PhoneStatus:    phoneInfo.Status,
			QualityRating:  phoneInfo.QualityRating,
			MessagingTier:  phoneInfo.MessagingTier,
			AccountStatus:  accountInfo.AccountStatus,
			DecisionStatus: accountInfo.DecisionStatus,
		}
		if wouldTrip(workspace, update) {
			state.TrippedCount++
		}

		if err := p.reactor.ApplyAccountUpdate(ctx, workspace, update); err != nil {
			p.logger.WithField("workspace_id", workspace.ID).Error(fmt.Sprintf("Failed to apply synced health: %v", err))
		} else {
			now := time.Now().UTC()
			workspace.BSP.LastSyncAt = &now
			if err := p.workspaceRepo.Update(ctx, workspace); err != nil {
				p.logger.WithField("workspace_id", workspace.ID).Warn("Failed to stamp sync time")
			}
			state.SyncedCount++
		}
		state.LastSyncedWorkspaceID = workspace.ID
	}

	task.State.Message = fmt.Sprintf("synced %d workspaces, %d tripped", state.SyncedCount, state.TrippedCount)
	p.logger.WithFields(map[string]interface{}{
		"synced":  state.SyncedCount,
		"tripped": state.TrippedCount,
	}).Info("Health sync completed")

	p.scheduleNext(ctx, task.WorkspaceID)
	return true, nil
}

// scheduleNext queues the following sync run.
func (p *HealthSyncProcessor) scheduleNext(ctx context.Context, workspaceID string) {
	nextRun := time.Now().UTC().Add(healthSyncInterval)
	task, err := (&domain.CreateTaskRequest{
		WorkspaceID:  workspaceID,
		Type:         domain.TaskTypeHealthSync,
		NextRunAfter: &nextRun,
	}).Validate()
	if err != nil {
		p.logger.Error(fmt.Sprintf("Failed to build next health sync task: %v", err))
		return
	}
	task.ID = uuid.New().String()
	if err := p.taskService.CreateTask(ctx, workspaceID, task); err != nil {
		p.logger.Error(fmt.Sprintf("Failed to schedule next health sync: %v", err))
	}
}
