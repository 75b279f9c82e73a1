package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/pkg/logger"
)

// campaignSendBatchSize is how many pending recipients one Process slice
// claims at a time.
const campaignSendBatchSize = 50

// timeoutMargin is how close to the task deadline Process stops claiming
// work and yields so the executor can park the state.
const timeoutMargin = 3 * time.Second

// CampaignTaskProcessor runs campaigns in resumable slices under the task
// scheduler. Every slice re-checks workspace safety so a kill-switch trip is
// observed between sends, not just between runs.
type CampaignTaskProcessor struct {
	workspaceRepo domain.WorkspaceRepository
	campaignRepo  domain.CampaignRepository
	templateRepo  domain.TemplateRepository
	contactRepo   domain.ContactRepository
	messageSvc    domain.MessageServiceInterface
	killSwitch    domain.KillSwitchServiceInterface
	eventBus      domain.EventBus
	logger        logger.Logger
}

// NewCampaignTaskProcessor creates a new campaign task processor
func NewCampaignTaskProcessor(
	workspaceRepo domain.WorkspaceRepository,
	campaignRepo domain.CampaignRepository,
	templateRepo domain.TemplateRepository,
	contactRepo domain.ContactRepository,
	messageSvc domain.MessageServiceInterface,
	killSwitch domain.KillSwitchServiceInterface,
	eventBus domain.EventBus,
	log logger.Logger,
) *CampaignTaskProcessor {
	return &CampaignTaskProcessor{
		workspaceRepo: workspaceRepo,
		campaignRepo:  campaignRepo,
		templateRepo:  templateRepo,
		contactRepo:   contactRepo,
		messageSvc:    messageSvc,
		killSwitch:    killSwitch,
		eventBus:      eventBus,
		logger:        log,
	}
}

// CanProcess returns true if this processor can handle the given task type
func (p *CampaignTaskProcessor) CanProcess(taskType string) bool {
	return taskType == domain.TaskTypeRunCampaign
}

// defaultVariables fills the body slots with the template's example values so
// campaign sends pass variable validation without per-recipient values.
func defaultVariables(template *domain.Template) domain.TemplateVariables {
	vars := domain.TemplateVariables{}
	slots := template.Components.BodySlots()
	for i := 0; i < slots; i++ {
		if i < len(template.Components.Examples) {
			vars.Body = append(vars.Body, template.Components.Examples[i])
		} else {
			vars.Body = append(vars.Body, "")
		}
	}
	return vars
}

// Process executes or continues a campaign run. It returns false when time
// ran out with recipients left, so the executor parks the task for the next
// cron tick.
func (p *CampaignTaskProcessor) Process(ctx context.Context, task *domain.Task, timeoutAt time.Time) (bool, error) {
	if task.State == nil {
		task.State = &domain.TaskState{}
	}
	if task.State.RunCampaign == nil {
		if task.CampaignID == nil {
			return false, fmt.Errorf("run_campaign task %s has no campaign id", task.ID)
		}
		task.State.RunCampaign = &domain.RunCampaignState{CampaignID: *task.CampaignID}
	}
	state := task.State.RunCampaign

	campaign, err := p.campaignRepo.GetByID(ctx, task.WorkspaceID, state.CampaignID)
	if err != nil {
		return false, err
	}
	if campaign.Status != domain.CampaignRunning {
		// Paused or cancelled out from under the task; nothing to run.
		p.logger.WithFields(map[string]interface{}{
			"campaign_id": campaign.ID,
			"status":      string(campaign.Status),
		}).Info("Campaign is not running, ending task")
		return true, nil
	}

	workspace, err := p.workspaceRepo.GetByID(ctx, task.WorkspaceID)
	if err != nil {
		return false, err
	}
	report, err := p.killSwitch.IsWorkspaceSafeForCampaigns(ctx, workspace)
	if err != nil {
		return false, err
	}
	if !report.Safe {
		failed := report.Failed()
		p.logger.WithFields(map[string]interface{}{
			"campaign_id": campaign.ID,
			"check":       failed.Name,
		}).Warn("Workspace no longer safe, pausing campaign")
		p.pauseCampaign(ctx, task.WorkspaceID, campaign, failed.Detail)
		return true, nil
	}

	template, err := p.templateRepo.GetByID(ctx, task.WorkspaceID, campaign.TemplateID)
	if err != nil {
		return false, err
	}
	vars := defaultVariables(template)

	for {
		if time.Until(timeoutAt) < timeoutMargin {
			p.saveProgress(ctx, task, campaign, state)
			return false, nil
		}
		select {
		case <-ctx.Done():
			p.saveProgress(ctx, task, campaign, state)
			return false, ctx.Err()
		default:
		}

		pending, err := p.campaignRepo.ListPendingMessages(ctx, task.WorkspaceID, campaign.ID, campaignSendBatchSize)
		if err != nil {
			return false, err
		}
		if len(pending) == 0 {
			return true, p.completeCampaign(ctx, task.WorkspaceID, campaign, state)
		}

		for _, recipient := range pending {
			if time.Until(timeoutAt) < timeoutMargin {
				p.saveProgress(ctx, task, campaign, state)
				return false, nil
			}

			done, err := p.sendToRecipient(ctx, task.WorkspaceID, campaign, template, recipient, vars, state)
			if err != nil {
				p.saveProgress(ctx, task, campaign, state)
				return false, err
			}
			if !done {
				// The campaign was paused mid-slice (token expiry or a
				// persistent limit); stop claiming recipients.
				p.saveProgress(ctx, task, campaign, state)
				return false, nil
			}
			state.RecipientOffset++
		}
		p.saveProgress(ctx, task, campaign, state)
	}
}

// sendToRecipient sends one campaign message and updates its exactly-once
// record. It returns done=false when the run must stop without an error.
func (p *CampaignTaskProcessor) sendToRecipient(ctx context.Context, workspaceID string, campaign *domain.Campaign, template *domain.Template, recipient *domain.CampaignMessage, vars domain.TemplateVariables, state *domain.RunCampaignState) (bool, error) {
	now := time.Now().UTC()

	contact, err := p.contactRepo.GetByID(ctx, workspaceID, recipient.ContactID)
	if err != nil {
		recipient.Status = domain.CampaignMessageSkipped
		recipient.LastError = "contact not found"
		recipient.UpdatedAt = now
		state.SkippedCount++
		return true, p.campaignRepo.UpdateMessage(ctx, workspaceID, recipient)
	}
	if contact.IsOptedOut() {
		recipient.Status = domain.CampaignMessageSkipped
		recipient.LastError = "contact opted out"
		recipient.UpdatedAt = now
		state.SkippedCount++
		return true, p.campaignRepo.UpdateMessage(ctx, workspaceID, recipient)
	}

	result, sendErr := p.messageSvc.SendTemplate(ctx, &domain.SendTemplateRequest{
		WorkspaceID: workspaceID,
		TemplateID:  template.ID,
		To:          contact.Phone,
		Variables:   vars,
		ContactID:   contact.ID,
		CampaignID:  campaign.ID,
	})
	recipient.Attempts++
	recipient.UpdatedAt = now

	if sendErr != nil {
		if domain.IsErrorKind(sendErr, domain.ErrKindTokenExpired) {
			// The message service already paused the campaign and
			// alerted the owner; leave the recipient pending for the
			// eventual resume.
			recipient.Attempts--
			return false, nil
		}
		if se, ok := domain.AsSendError(sendErr); ok && se.RetryAfter > 0 {
			// A limit error stalls the whole run, not one recipient.
			recipient.Attempts--
			return false, nil
		}
		if domain.IsErrorKind(sendErr, domain.ErrKindOptedOut) {
			recipient.Status = domain.CampaignMessageSkipped
			recipient.LastError = sendErr.Error()
			state.SkippedCount++
			return true, p.campaignRepo.UpdateMessage(ctx, workspaceID, recipient)
		}

		recipient.LastError = sendErr.Error()
		if domain.IsRetryableSendError(sendErr) && recipient.Attempts < domain.CampaignMessageMaxAttempts {
			// Stays pending; a later slice retries it.
			return true, p.campaignRepo.UpdateMessage(ctx, workspaceID, recipient)
		}
		recipient.Status = domain.CampaignMessageFailed
		state.FailedCount++
		return true, p.campaignRepo.UpdateMessage(ctx, workspaceID, recipient)
	}

	recipient.Status = domain.CampaignMessageSent
	recipient.ProviderMessageID = result.ProviderMessageID
	recipient.SentAt = &now
	state.SentCount++
	return true, p.campaignRepo.UpdateMessage(ctx, workspaceID, recipient)
}

// saveProgress mirrors the run state onto the campaign counters.
func (p *CampaignTaskProcessor) saveProgress(ctx context.Context, task *domain.Task, campaign *domain.Campaign, state *domain.RunCampaignState) {
	campaign.SentCount = state.SentCount
	campaign.FailedCount = state.FailedCount
	campaign.UpdatedAt = time.Now().UTC()
	if err := p.campaignRepo.Update(ctx, task.WorkspaceID, campaign); err != nil {
		p.logger.WithField("campaign_id", campaign.ID).Warn("Failed to save campaign counters")
	}

	if state.TotalRecipients > 0 {
		done := state.SentCount + state.FailedCount + state.SkippedCount
		task.State.Progress = float64(done) / float64(state.TotalRecipients) * 100
	}
	task.State.Message = fmt.Sprintf("%d sent, %d failed, %d skipped", state.SentCount, state.FailedCount, state.SkippedCount)
}

// completeCampaign marks the campaign and its batches finished.
func (p *CampaignTaskProcessor) completeCampaign(ctx context.Context, workspaceID string, campaign *domain.Campaign, state *domain.RunCampaignState) error {
	now := time.Now().UTC()
	campaign.Status = domain.CampaignCompleted
	campaign.SentCount = state.SentCount
	campaign.FailedCount = state.FailedCount
	campaign.CompletedAt = &now
	campaign.UpdatedAt = now
	if err := p.campaignRepo.Update(ctx, workspaceID, campaign); err != nil {
		return err
	}

	batches, err := p.campaignRepo.ListBatches(ctx, workspaceID, campaign.ID)
	if err == nil {
		for _, batch := range batches {
			if batch.Status == domain.BatchCompleted {
				continue
			}
			batch.Status = domain.BatchCompleted
			batch.UpdatedAt = now
			if err := p.campaignRepo.UpdateBatch(ctx, workspaceID, batch); err != nil {
				p.logger.WithField("batch_id", batch.ID).Warn("Failed to complete campaign batch")
			}
		}
	}

	p.eventBus.Publish(ctx, domain.EventPayload{
		Type:        domain.EventCampaignCompleted,
		WorkspaceID: workspaceID,
		EntityID:    campaign.ID,
		Data: map[string]interface{}{
			"sent":    state.SentCount,
			"failed":  state.FailedCount,
			"skipped": state.SkippedCount,
		},
	})
	p.logger.WithFields(map[string]interface{}{
		"campaign_id": campaign.ID,
		"sent":        state.SentCount,
		"failed":      state.FailedCount,
		"skipped":     state.SkippedCount,
	}).Info("Campaign completed")
	return nil
}

// pauseCampaign parks a running campaign mid-task.
func (p *CampaignTaskProcessor) pauseCampaign(ctx context.Context, workspaceID string, campaign *domain.Campaign, reason string) {
	now := time.Now().UTC()
	campaign.Status = domain.CampaignPaused
	campaign.PauseReason = reason
	campaign.PausedAt = &now
	campaign.UpdatedAt = now
	if err := p.campaignRepo.Update(ctx, workspaceID, campaign); err != nil {
		p.logger.WithField("campaign_id", campaign.ID).Error(fmt.Sprintf("Failed to pause campaign: %v", err))
		return
	}
	if _, err := p.campaignRepo.PauseBatches(ctx, workspaceID, campaign.ID); err != nil {
		p.logger.WithField("campaign_id", campaign.ID).Warn("Failed to pause campaign batches")
	}
	p.eventBus.Publish(ctx, domain.EventPayload{
		Type:        domain.EventCampaignPaused,
		WorkspaceID: workspaceID,
		EntityID:    campaign.ID,
		Data:        map[string]interface{}{"reason": reason},
	})
}
