package service

import (
	"context"
	"fmt"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/pkg/logger"
)

// StatusService implements domain.StatusApplierInterface: it folds delivery
// receipts into stored messages and their campaign recipient records.
type StatusService struct {
	messageRepo domain.MessageRepository
	campaignSvc domain.CampaignServiceInterface
	eventBus    domain.EventBus
	logger      logger.Logger
}

// NewStatusService creates a new status service
func NewStatusService(messageRepo domain.MessageRepository, campaignSvc domain.CampaignServiceInterface, eventBus domain.EventBus, log logger.Logger) *StatusService {
	return &StatusService{
		messageRepo: messageRepo,
		campaignSvc: campaignSvc,
		eventBus:    eventBus,
		logger:      log,
	}
}

// ApplyInboundStatus applies one statuses[] entry. Statuses for unknown
// provider message ids are dropped with a warning; the provider redelivers
// and the message may simply not be ours.
func (s *StatusService) ApplyInboundStatus(ctx context.Context, workspace *domain.Workspace, status *domain.InboundStatus) error {
	message, err := s.messageRepo.GetByProviderMessageID(ctx, workspace.ID, status.ProviderMessageID)
	if err != nil {
		if _, ok := err.(*domain.ErrNotFound); ok {
			s.logger.WithFields(map[string]interface{}{
				"workspace_id":        workspace.ID,
				"provider_message_id": status.ProviderMessageID,
				"status":              string(status.Status),
			}).Warn("Status update for unknown message, dropping")
			return nil
		}
		return fmt.Errorf("failed to load message for status update: %w", err)
	}

	reason := status.ErrorMessage
	if reason == "" && status.ErrorCode != 0 {
		reason = fmt.Sprintf("provider error %d", status.ErrorCode)
	}

	changed := message.ApplyStatus(status.Status, status.Timestamp, reason)
	if !changed {
		s.logger.WithFields(map[string]interface{}{
			"message_id": message.ID,
			"status":     string(status.Status),
		}).Debug("Status update did not advance the message, skipping")
		return nil
	}

	if err := s.messageRepo.Update(ctx, workspace.ID, message); err != nil {
		return fmt.Errorf("failed to persist status update: %w", err)
	}

	if message.CampaignID != "" {
		if err := s.campaignSvc.ApplyStatusRollup(ctx, workspace.ID, message.CampaignID, status.ProviderMessageID, status.Status, reason); err != nil {
			s.logger.WithFields(map[string]interface{}{
				"campaign_id": message.CampaignID,
				"message_id":  message.ID,
			}).Warn("Failed to roll status up into campaign")
		}
	}

	s.eventBus.Publish(ctx, domain.EventPayload{
		Type:        domain.EventMessageStatus,
		WorkspaceID: workspace.ID,
		EntityID:    message.ID,
		Data: map[string]interface{}{
			"status":              string(message.Status),
			"provider_message_id": status.ProviderMessageID,
			"failure_reason":      message.FailureReason,
		},
	})
	return nil
}
