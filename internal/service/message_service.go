package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/pkg/crypto"
	"github.com/Waypost/waypost/pkg/logger"
	"github.com/Waypost/waypost/pkg/mailer"
	"github.com/google/uuid"
)

// MessageService implements domain.MessageServiceInterface: the outbound
// template send pipeline and message listings.
type MessageService struct {
	workspaceRepo   domain.WorkspaceRepository
	messageRepo     domain.MessageRepository
	templateRepo    domain.TemplateRepository
	contactRepo     domain.ContactRepository
	campaignRepo    domain.CampaignRepository
	usageRepo       domain.UsageLedgerRepository
	conversationSvc domain.ConversationServiceInterface
	rateLimitSvc    domain.RateLimitServiceInterface
	provider        domain.ProviderClient
	eventBus        domain.EventBus
	mailer          mailer.Mailer
	logger          logger.Logger

	defaultCountryCode string
	encryptBodies      bool
	secretKey          string
}

// NewMessageService creates a new message service
func NewMessageService(
	workspaceRepo domain.WorkspaceRepository,
	messageRepo domain.MessageRepository,
	templateRepo domain.TemplateRepository,
	contactRepo domain.ContactRepository,
	campaignRepo domain.CampaignRepository,
	usageRepo domain.UsageLedgerRepository,
	conversationSvc domain.ConversationServiceInterface,
	rateLimitSvc domain.RateLimitServiceInterface,
	provider domain.ProviderClient,
	eventBus domain.EventBus,
	opsMailer mailer.Mailer,
	log logger.Logger,
	defaultCountryCode string,
	encryptBodies bool,
	secretKey string,
) *MessageService {
	return &MessageService{
		workspaceRepo:      workspaceRepo,
		messageRepo:        messageRepo,
		templateRepo:       templateRepo,
		contactRepo:        contactRepo,
		campaignRepo:       campaignRepo,
		usageRepo:          usageRepo,
		conversationSvc:    conversationSvc,
		rateLimitSvc:       rateLimitSvc,
		provider:           provider,
		eventBus:           eventBus,
		mailer:             opsMailer,
		logger:             log,
		defaultCountryCode: defaultCountryCode,
		encryptBodies:      encryptBodies,
		secretKey:          secretKey,
	}
}

// checkSendGates runs the workspace-level policy checks that apply to every
// outbound send.
func (s *MessageService) checkSendGates(workspace *domain.Workspace) error {
	if !workspace.IsBSPConnected() {
		return domain.NewSendError(domain.ErrKindPhoneNotConfigured, "workspace has no phone number assigned")
	}
	if workspace.BSP.CapabilityBlocked {
		return domain.NewSendError(domain.ErrKindPhoneDisconnected, "messaging capability has been revoked by the provider")
	}
	if se := workspace.CanSendMessages(); se != nil {
		return se
	}
	if se := workspace.BillingAllowsSend(); se != nil {
		return se
	}
	return nil
}

// resolveTemplate loads the template by id or name and enforces ownership and
// approval.
func (s *MessageService) resolveTemplate(ctx context.Context, workspace *domain.Workspace, templateID, templateName string) (*domain.Template, error) {
	var template *domain.Template
	var err error
	if templateID != "" {
		template, err = s.templateRepo.GetByID(ctx, workspace.ID, templateID)
	} else {
		template, err = s.templateRepo.GetByName(ctx, workspace.ID, templateName, "")
	}
	if err != nil {
		if _, ok := err.(*domain.ErrTemplateNotFound); ok {
			return nil, domain.NewSendError(domain.ErrKindTemplateNotFound, "template %s%s not found", templateID, templateName)
		}
		return nil, err
	}

	if template.WorkspaceID != "" && template.WorkspaceID != workspace.ID {
		return nil, domain.NewSendError(domain.ErrKindTemplateOwnershipMismatch,
			"template %s belongs to another workspace", template.ID)
	}
	if !template.IsSendable() {
		return nil, domain.NewSendError(domain.ErrKindTemplateNotApproved,
			"template %s is %s, only APPROVED templates can be sent", template.Name, template.Status)
	}
	return template, nil
}

// renderTemplateBody substitutes the positional body variables into the
// template text for the stored message body and the conversation preview.
func renderTemplateBody(bodyText string, vars []string) string {
	rendered := bodyText
	for i, v := range vars {
		rendered = strings.ReplaceAll(rendered, fmt.Sprintf("{{%d}}", i+1), v)
	}
	return rendered
}

// SendTemplate runs the full outbound pipeline for one recipient.
func (s *MessageService) SendTemplate(ctx context.Context, req *domain.SendTemplateRequest) (*domain.SendTemplateResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	workspace, err := s.workspaceRepo.GetByID(ctx, req.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if err := s.checkSendGates(workspace); err != nil {
		return nil, err
	}

	template, err := s.resolveTemplate(ctx, workspace, req.TemplateID, req.TemplateName)
	if err != nil {
		return nil, err
	}
	if se := domain.ValidateVariables(&template.Components, &req.Variables); se != nil {
		return nil, se
	}

	to, err := domain.NormalizePhone(req.To, s.defaultCountryCode)
	if err != nil {
		return nil, err
	}

	contact, err := s.contactRepo.GetByPhone(ctx, workspace.ID, to)
	if err != nil {
		if _, ok := err.(*domain.ErrNotFound); !ok {
			return nil, err
		}
		contact = nil
	}
	if contact != nil && contact.IsOptedOut() {
		return nil, domain.NewSendError(domain.ErrKindOptedOut, "contact %s has opted out", contact.ID)
	}
	// The consent gate also honors an explicit contact id, which may name a
	// record the phone lookup misses.
	if req.ContactID != "" {
		byID, err := s.contactRepo.GetByID(ctx, workspace.ID, req.ContactID)
		if err != nil {
			if _, ok := err.(*domain.ErrNotFound); !ok {
				return nil, err
			}
		} else if byID.IsOptedOut() {
			return nil, domain.NewSendError(domain.ErrKindOptedOut, "contact %s has opted out", byID.ID)
		} else if contact == nil {
			contact = byID
		}
	}

	budgets, err := s.rateLimitSvc.CheckMessageSend(ctx, workspace)
	if err != nil {
		if se, ok := domain.AsSendError(err); ok {
			if se.Details == nil {
				se.Details = map[string]interface{}{}
			}
			se.Details["budgets"] = budgets
		}
		return nil, err
	}

	payload := domain.BuildTemplatePayload(template, to, &req.Variables)
	providerMessageID, err := s.provider.SendTemplateMessage(ctx, workspace.PhoneNumberID, payload)
	if err != nil {
		if domain.IsErrorKind(err, domain.ErrKindTokenExpired) {
			s.handleTokenExpired(ctx, workspace, req.CampaignID)
		}
		return nil, err
	}

	message, err := s.recordOutbound(ctx, workspace, template, contact, to, providerMessageID, req)
	if err != nil {
		// The provider accepted the send; surface the persistence failure
		// but keep the provider id so the caller can reconcile.
		return &domain.SendTemplateResult{ProviderMessageID: providerMessageID, Budgets: budgets}, err
	}

	return &domain.SendTemplateResult{
		Message:           message,
		ProviderMessageID: providerMessageID,
		Budgets:           budgets,
	}, nil
}

// recordOutbound applies the success effects of an accepted send: contact and
// conversation upserts, the stored message, the usage ledger entry and the
// materialized counters.
func (s *MessageService) recordOutbound(ctx context.Context, workspace *domain.Workspace, template *domain.Template, contact *domain.Contact, to, providerMessageID string, req *domain.SendTemplateRequest) (*domain.Message, error) {
	now := time.Now().UTC()

	if contact == nil {
		contact = &domain.Contact{
			ID:        uuid.New().String(),
			Phone:     to,
			OptIn:     domain.OptInState{Status: true, Via: domain.OptInViaAPI, At: &now},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := s.contactRepo.Upsert(ctx, workspace.ID, contact); err != nil {
			return nil, fmt.Errorf("failed to upsert contact: %w", err)
		}
	}

	body := renderTemplateBody(template.Components.BodyText, req.Variables.Body)
	preview := domain.BodyPreview(domain.MessageTypeTemplate, body)

	conversation, _, err := s.conversationSvc.OpenForOutbound(ctx, workspace.ID, contact.ID, now, preview, string(domain.MessageTypeTemplate))
	if err != nil {
		return nil, fmt.Errorf("failed to open conversation: %w", err)
	}

	storedBody := body
	if s.encryptBodies {
		encrypted, encErr := crypto.EncryptString(body, s.secretKey)
		if encErr != nil {
			return nil, fmt.Errorf("failed to encrypt message body: %w", encErr)
		}
		storedBody = encrypted
	}

	message := &domain.Message{
		ID:                uuid.New().String(),
		ConversationID:    conversation.ID,
		ContactID:         contact.ID,
		Direction:         domain.MessageOutbound,
		Type:              domain.MessageTypeTemplate,
		Body:              storedBody,
		Status:            domain.MessageStatusSent,
		ProviderMessageID: providerMessageID,
		Template: &domain.TemplateDescriptor{
			TemplateID: template.ID,
			Name:       template.Name,
			Category:   template.Category,
			Language:   template.Language,
			Variables:  req.Variables,
		},
		CampaignID: req.CampaignID,
		SentAt:     &now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.messageRepo.Create(ctx, workspace.ID, message); err != nil {
		return nil, fmt.Errorf("failed to persist outbound message: %w", err)
	}

	entry := domain.NewMessageUsageEntry(message.ID, req.CampaignID, template.Category, now)
	entry.ID = uuid.New().String()
	if err := s.usageRepo.Append(ctx, workspace.ID, entry); err != nil {
		s.logger.WithField("message_id", message.ID).Warn("Failed to append usage ledger entry")
	}
	if err := s.workspaceRepo.IncrementMessageUsage(ctx, workspace.ID, now); err != nil {
		s.logger.WithField("workspace_id", workspace.ID).Warn("Failed to increment workspace usage counters")
	}

	s.eventBus.Publish(ctx, domain.EventPayload{
		Type:        domain.EventMessageStatus,
		WorkspaceID: workspace.ID,
		EntityID:    message.ID,
		Data: map[string]interface{}{
			"status":              string(domain.MessageStatusSent),
			"provider_message_id": providerMessageID,
			"conversation_id":     conversation.ID,
		},
	})
	return message, nil
}

// handleTokenExpired reacts to a rejected system token: the campaign the send
// belonged to is paused and the workspace owner alerted. The token is shared
// platform infrastructure, so this fires on the first send that trips it.
func (s *MessageService) handleTokenExpired(ctx context.Context, workspace *domain.Workspace, campaignID string) {
	s.logger.WithField("workspace_id", workspace.ID).Error("Provider rejected the system token")

	if campaignID != "" {
		campaign, err := s.campaignRepo.GetByID(ctx, workspace.ID, campaignID)
		if err == nil && campaign.Status == domain.CampaignRunning {
			now := time.Now().UTC()
			campaign.Status = domain.CampaignPaused
			campaign.PauseReason = string(domain.ErrKindTokenExpired)
			campaign.PausedAt = &now
			campaign.UpdatedAt = now
			if err := s.campaignRepo.Update(ctx, workspace.ID, campaign); err != nil {
				s.logger.WithField("campaign_id", campaignID).Error("Failed to pause campaign after token expiry")
			}
			if _, err := s.campaignRepo.PauseBatches(ctx, workspace.ID, campaignID); err != nil {
				s.logger.WithField("campaign_id", campaignID).Error("Failed to pause campaign batches after token expiry")
			}
		}
	}

	if workspace.Settings.OwnerEmail != "" {
		if err := s.mailer.SendTokenExpiredAlert(workspace.Settings.OwnerEmail, workspace.Name); err != nil {
			s.logger.WithField("workspace_id", workspace.ID).Warn("Failed to send token expired alert")
		}
	}
}

// SendBulk sends one template to up to 1000 recipients, validating the
// template once and pacing sends from the workspace per-second cap.
func (s *MessageService) SendBulk(ctx context.Context, req *domain.SendBulkRequest) (*domain.SendBulkResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	workspace, err := s.workspaceRepo.GetByID(ctx, req.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if err := s.checkSendGates(workspace); err != nil {
		return nil, err
	}
	if _, err := s.resolveTemplate(ctx, workspace, req.TemplateID, req.TemplateName); err != nil {
		return nil, err
	}

	limits := workspace.EffectiveLimits()
	interval := time.Duration(0)
	if limits.MessagesPerSecond > 0 {
		interval = time.Second / time.Duration(limits.MessagesPerSecond)
	}

	result := &domain.SendBulkResult{Results: make([]domain.BulkItemResult, 0, len(req.Recipients))}
	for i, recipient := range req.Recipients {
		if i > 0 && interval > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(interval):
			}
		}

		item := domain.BulkItemResult{To: recipient.To}
		sendResult, sendErr := s.SendTemplate(ctx, &domain.SendTemplateRequest{
			WorkspaceID:  req.WorkspaceID,
			TemplateID:   req.TemplateID,
			TemplateName: req.TemplateName,
			To:           recipient.To,
			Variables:    recipient.Variables,
			ContactID:    recipient.ContactID,
			CampaignID:   req.CampaignID,
		})
		if sendErr != nil {
			result.Failed++
			if se, ok := domain.AsSendError(sendErr); ok {
				item.Error = se
			} else {
				item.Error = domain.NewSendError(domain.ErrKindMetaAPIError, "%s", sendErr.Error())
			}
		} else {
			result.Sent++
			item.Success = true
			item.ProviderMessageID = sendResult.ProviderMessageID
			if sendResult.Message != nil {
				item.MessageID = sendResult.Message.ID
			}
			result.Budgets = sendResult.Budgets
		}
		result.Results = append(result.Results, item)
	}
	return result, nil
}

// List retrieves messages with pagination, decrypting bodies when encryption
// at rest is enabled.
func (s *MessageService) List(ctx context.Context, workspaceID string, params domain.MessageListParams) (*domain.MessageListResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	result, err := s.messageRepo.List(ctx, workspaceID, params)
	if err != nil {
		return nil, err
	}
	if s.encryptBodies {
		for _, message := range result.Messages {
			if message.Body == "" {
				continue
			}
			plain, decErr := crypto.DecryptFromHexString(message.Body, s.secretKey)
			if decErr != nil {
				s.logger.WithField("message_id", message.ID).Warn("Failed to decrypt message body")
				continue
			}
			message.Body = plain
		}
	}
	return result, nil
}
