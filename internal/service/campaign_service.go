package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/pkg/logger"
	"github.com/google/uuid"
)

// campaignBatchSize is how many recipients share one batch row.
const campaignBatchSize = 500

// CampaignService implements domain.CampaignServiceInterface. Audience
// building and scheduling live upstream; this service owns execution,
// pausing and delivery accounting.
type CampaignService struct {
	workspaceRepo domain.WorkspaceRepository
	campaignRepo  domain.CampaignRepository
	templateRepo  domain.TemplateRepository
	taskRepo      domain.TaskRepository
	taskService   domain.TaskService
	killSwitch    domain.KillSwitchServiceInterface
	eventBus      domain.EventBus
	logger        logger.Logger
}

// NewCampaignService creates a new campaign service
func NewCampaignService(
	workspaceRepo domain.WorkspaceRepository,
	campaignRepo domain.CampaignRepository,
	templateRepo domain.TemplateRepository,
	taskRepo domain.TaskRepository,
	taskService domain.TaskService,
	killSwitch domain.KillSwitchServiceInterface,
	eventBus domain.EventBus,
	log logger.Logger,
) *CampaignService {
	return &CampaignService{
		workspaceRepo: workspaceRepo,
		campaignRepo:  campaignRepo,
		templateRepo:  templateRepo,
		taskRepo:      taskRepo,
		taskService:   taskService,
		killSwitch:    killSwitch,
		eventBus:      eventBus,
		logger:        log,
	}
}

// CreateCampaign stores a draft campaign with its batches and exactly-once
// recipient records. Duplicate contact ids collapse to one recipient.
func (s *CampaignService) CreateCampaign(ctx context.Context, req *domain.CreateCampaignRequest) (*domain.Campaign, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.templateRepo.GetByID(ctx, req.WorkspaceID, req.TemplateID); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(req.ContactIDs))
	contactIDs := make([]string, 0, len(req.ContactIDs))
	for _, id := range req.ContactIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		contactIDs = append(contactIDs, id)
	}

	now := time.Now().UTC()
	campaign := &domain.Campaign{
		ID:              uuid.New().String(),
		Name:            req.Name,
		TemplateID:      req.TemplateID,
		Status:          domain.CampaignDraft,
		TotalRecipients: len(contactIDs),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.campaignRepo.Create(ctx, req.WorkspaceID, campaign); err != nil {
		return nil, err
	}

	for offset := 0; offset < len(contactIDs); offset += campaignBatchSize {
		end := offset + campaignBatchSize
		if end > len(contactIDs) {
			end = len(contactIDs)
		}
		batch := &domain.CampaignBatch{
			ID:         uuid.New().String(),
			CampaignID: campaign.ID,
			Status:     domain.BatchPending,
			Sequence:   offset / campaignBatchSize,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.campaignRepo.CreateBatch(ctx, req.WorkspaceID, batch); err != nil {
			return nil, err
		}

		for _, contactID := range contactIDs[offset:end] {
			message := &domain.CampaignMessage{
				ID:          uuid.New().String(),
				CampaignID:  campaign.ID,
				BatchID:     batch.ID,
				ContactID:   contactID,
				Status:      domain.CampaignMessagePending,
				MaxAttempts: domain.CampaignMessageMaxAttempts,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if _, err := s.campaignRepo.CreateMessage(ctx, req.WorkspaceID, message); err != nil {
				return nil, err
			}
		}
	}
	return campaign, nil
}

// StartCampaign runs the safety checks and schedules the runner task.
func (s *CampaignService) StartCampaign(ctx context.Context, workspaceID, campaignID string) (*domain.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, workspaceID, campaignID)
	if err != nil {
		return nil, err
	}
	switch campaign.Status {
	case domain.CampaignDraft, domain.CampaignPaused:
	default:
		return nil, fmt.Errorf("campaign %s is %s, only draft or paused campaigns can be started", campaignID, campaign.Status)
	}

	workspace, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	report, err := s.killSwitch.IsWorkspaceSafeForCampaigns(ctx, workspace)
	if err != nil {
		return nil, err
	}
	if !report.Safe {
		failed := report.Failed()
		return nil, fmt.Errorf("workspace failed safety check %s: %s", failed.Name, failed.Detail)
	}

	now := time.Now().UTC()
	// Reuse the parked task when resuming a paused campaign.
	if existing, err := s.taskRepo.GetTaskByCampaignID(ctx, workspaceID, campaignID); err == nil && existing.Status != domain.TaskStatusCompleted {
		existing.Status = domain.TaskStatusPending
		existing.NextRunAfter = &now
		if err := s.taskRepo.Update(ctx, workspaceID, existing); err != nil {
			return nil, fmt.Errorf("failed to reschedule campaign task: %w", err)
		}
	} else {
		task, err := (&domain.CreateTaskRequest{
			WorkspaceID: workspaceID,
			Type:        domain.TaskTypeRunCampaign,
			State: &domain.TaskState{
				Message: fmt.Sprintf("Running campaign %s", campaign.Name),
				RunCampaign: &domain.RunCampaignState{
					CampaignID:      campaignID,
					TotalRecipients: campaign.TotalRecipients,
				},
			},
		}).Validate()
		if err != nil {
			return nil, err
		}
		task.ID = uuid.New().String()
		task.CampaignID = &campaignID
		if err := s.taskService.CreateTask(ctx, workspaceID, task); err != nil {
			return nil, fmt.Errorf("failed to create campaign task: %w", err)
		}
	}

	campaign.Status = domain.CampaignRunning
	campaign.PauseReason = ""
	campaign.PausedAt = nil
	if campaign.StartedAt == nil {
		campaign.StartedAt = &now
	}
	campaign.UpdatedAt = now
	if err := s.campaignRepo.Update(ctx, workspaceID, campaign); err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, domain.EventPayload{
		Type:        domain.EventCampaignScheduled,
		WorkspaceID: workspaceID,
		EntityID:    campaignID,
		Data:        map[string]interface{}{"total_recipients": campaign.TotalRecipients},
	})
	return campaign, nil
}

// PauseCampaign stops a running campaign, parks its batches and its task.
func (s *CampaignService) PauseCampaign(ctx context.Context, workspaceID, campaignID, reason string) (*domain.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, workspaceID, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.Status != domain.CampaignRunning {
		return nil, fmt.Errorf("campaign %s is %s, only running campaigns can be paused", campaignID, campaign.Status)
	}

	now := time.Now().UTC()
	campaign.Status = domain.CampaignPaused
	campaign.PauseReason = reason
	campaign.PausedAt = &now
	campaign.UpdatedAt = now
	if err := s.campaignRepo.Update(ctx, workspaceID, campaign); err != nil {
		return nil, err
	}
	if _, err := s.campaignRepo.PauseBatches(ctx, workspaceID, campaignID); err != nil {
		s.logger.WithField("campaign_id", campaignID).Warn("Failed to pause campaign batches")
	}

	if task, err := s.taskRepo.GetTaskByCampaignID(ctx, workspaceID, campaignID); err == nil {
		if err := s.taskRepo.MarkAsPaused(ctx, workspaceID, task.ID, now.Add(domain.GlobalKillSwitchTTL), task.Progress, task.State); err != nil {
			s.logger.WithField("task_id", task.ID).Warn("Failed to pause campaign task")
		}
	}

	s.eventBus.Publish(ctx, domain.EventPayload{
		Type:        domain.EventCampaignPaused,
		WorkspaceID: workspaceID,
		EntityID:    campaignID,
		Data:        map[string]interface{}{"reason": reason},
	})
	return campaign, nil
}

// GetCampaign retrieves a campaign by ID
func (s *CampaignService) GetCampaign(ctx context.Context, workspaceID, id string) (*domain.Campaign, error) {
	return s.campaignRepo.GetByID(ctx, workspaceID, id)
}

// ListCampaigns retrieves campaigns with pagination
func (s *CampaignService) ListCampaigns(ctx context.Context, workspaceID string, params domain.CampaignListParams) (*domain.CampaignListResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.campaignRepo.List(ctx, workspaceID, params)
}

// ApplyStatusRollup folds a delivery status into the recipient record it
// belongs to. Only a terminal failure after an accepted send moves counters;
// delivered and read receipts are message-level detail.
func (s *CampaignService) ApplyStatusRollup(ctx context.Context, workspaceID, campaignID, providerMessageID string, status domain.MessageStatus, reason string) error {
	if status != domain.MessageStatusFailed {
		return nil
	}

	message, err := s.campaignRepo.GetMessageByProviderMessageID(ctx, workspaceID, providerMessageID)
	if err != nil {
		if _, ok := err.(*domain.ErrNotFound); ok {
			s.logger.WithFields(map[string]interface{}{
				"campaign_id":         campaignID,
				"provider_message_id": providerMessageID,
			}).Warn("Delivery failure for unknown campaign recipient")
			return nil
		}
		return err
	}
	if message.Status == domain.CampaignMessageFailed {
		return nil
	}

	wasSent := message.Status == domain.CampaignMessageSent
	message.Status = domain.CampaignMessageFailed
	message.LastError = reason
	message.UpdatedAt = time.Now().UTC()
	if err := s.campaignRepo.UpdateMessage(ctx, workspaceID, message); err != nil {
		return err
	}

	campaign, err := s.campaignRepo.GetByID(ctx, workspaceID, campaignID)
	if err != nil {
		return err
	}
	if wasSent && campaign.SentCount > 0 {
		campaign.SentCount--
	}
	campaign.FailedCount++
	campaign.UpdatedAt = time.Now().UTC()
	return s.campaignRepo.Update(ctx, workspaceID, campaign)
}
