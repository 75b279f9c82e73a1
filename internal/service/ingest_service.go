package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/pkg/logger"
	"github.com/google/uuid"
)

// MediaFetcher downloads and stores inbound media. Satisfied by MediaService.
type MediaFetcher interface {
	FetchInboundMedia(ctx context.Context, workspaceID string, media *domain.InboundMedia) (*domain.MediaRef, error)
}

// IngestService implements domain.MessageIngestorInterface: it turns a routed
// inbound provider message into a contact, a conversation, a stored message
// and, for text, a keyword or FAQ auto-reply.
type IngestService struct {
	contactSvc      domain.ContactServiceInterface
	conversationSvc domain.ConversationServiceInterface
	messageRepo     domain.MessageRepository
	autoReplyRepo   domain.AutoReplyRepository
	templateRepo    domain.TemplateRepository
	usageRepo       domain.UsageLedgerRepository
	mediaSvc        MediaFetcher
	provider        domain.ProviderClient
	eventBus        domain.EventBus
	logger          logger.Logger
}

// NewIngestService creates a new ingest service
func NewIngestService(
	contactSvc domain.ContactServiceInterface,
	conversationSvc domain.ConversationServiceInterface,
	messageRepo domain.MessageRepository,
	autoReplyRepo domain.AutoReplyRepository,
	templateRepo domain.TemplateRepository,
	usageRepo domain.UsageLedgerRepository,
	mediaSvc MediaFetcher,
	provider domain.ProviderClient,
	eventBus domain.EventBus,
	log logger.Logger,
) *IngestService {
	return &IngestService{
		contactSvc:      contactSvc,
		conversationSvc: conversationSvc,
		messageRepo:     messageRepo,
		autoReplyRepo:   autoReplyRepo,
		templateRepo:    templateRepo,
		usageRepo:       usageRepo,
		mediaSvc:        mediaSvc,
		provider:        provider,
		eventBus:        eventBus,
		logger:          log,
	}
}

// Bodies of the system messages recorded for consent keywords.
const (
	optOutSystemNote = "Contact opted out"
	optInSystemNote  = "Contact opted in"
)

// IngestInbound processes one inbound message for its workspace. Redelivered
// provider message ids are absorbed without side effects.
func (s *IngestService) IngestInbound(ctx context.Context, workspace *domain.Workspace, msg *domain.InboundMessage) error {
	// Redeliveries arrive with the same provider message id.
	if existing, err := s.messageRepo.GetByProviderMessageID(ctx, workspace.ID, msg.ProviderMessageID); err == nil && existing != nil {
		s.logger.WithFields(map[string]interface{}{
			"workspace_id":        workspace.ID,
			"provider_message_id": msg.ProviderMessageID,
		}).Debug("Skipping already ingested inbound message")
		return nil
	} else if err != nil {
		if _, ok := err.(*domain.ErrNotFound); !ok {
			return fmt.Errorf("failed to check inbound idempotency: %w", err)
		}
	}

	contact, _, err := s.contactSvc.UpsertInbound(ctx, workspace.ID, msg.From, msg.ProfileName)
	if err != nil {
		return fmt.Errorf("failed to upsert inbound contact: %w", err)
	}

	// STOP and START are consent commands, not conversation content. The
	// transition is recorded twice: on the contact and as a system message
	// in the conversation.
	systemNote := ""
	if msg.Type == domain.MessageTypeText {
		if domain.IsOptOutKeyword(msg.Body) {
			systemNote = optOutSystemNote
			if err := s.contactSvc.SetOptState(ctx, workspace.ID, contact.ID, false, domain.OptInViaKeyword); err != nil {
				return fmt.Errorf("failed to record keyword opt-out: %w", err)
			}
		} else if domain.IsOptInKeyword(msg.Body) {
			systemNote = optInSystemNote
			if err := s.contactSvc.SetOptState(ctx, workspace.ID, contact.ID, true, domain.OptInViaKeyword); err != nil {
				return fmt.Errorf("failed to record keyword opt-in: %w", err)
			}
		}
	}
	isKeyword := systemNote != ""

	preview := domain.BodyPreview(msg.Type, msg.Body)
	conversation, _, err := s.conversationSvc.OpenForInbound(ctx, workspace, contact, msg.Timestamp, preview, string(msg.Type))
	if err != nil {
		return fmt.Errorf("failed to open conversation: %w", err)
	}

	// Media download is best-effort: the provider ids stay on the message
	// so a later retry can re-resolve them.
	var mediaRef *domain.MediaRef
	if msg.Media != nil {
		mediaRef, err = s.mediaSvc.FetchInboundMedia(ctx, workspace.ID, msg.Media)
		if err != nil {
			s.logger.WithFields(map[string]interface{}{
				"workspace_id": workspace.ID,
				"media_id":     msg.Media.ProviderMediaID,
			}).Warn("Failed to fetch inbound media, keeping provider reference")
			mediaRef = &domain.MediaRef{
				ProviderMediaID: msg.Media.ProviderMediaID,
				MimeType:        msg.Media.MimeType,
				SHA256:          msg.Media.SHA256,
				Caption:         msg.Media.Caption,
				Filename:        msg.Media.Filename,
			}
		}
	}

	now := time.Now().UTC()
	ts := msg.Timestamp
	message := &domain.Message{
		ID:                uuid.New().String(),
		ConversationID:    conversation.ID,
		ContactID:         contact.ID,
		Direction:         domain.MessageInbound,
		Type:              msg.Type,
		Body:              msg.Body,
		Status:            domain.MessageStatusReceived,
		ProviderMessageID: msg.ProviderMessageID,
		Media:             mediaRef,
		Meta: &domain.MessageMeta{
			ProviderMessageID: msg.ProviderMessageID,
			Timestamp:         &ts,
			Raw:               json.RawMessage(msg.Raw),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.messageRepo.Create(ctx, workspace.ID, message); err != nil {
		return fmt.Errorf("failed to persist inbound message: %w", err)
	}

	// Every stored inbound hits the billing ledger, keywords included.
	inboundEntry := domain.NewInboundUsageEntry(message.ID, now)
	inboundEntry.ID = uuid.New().String()
	if err := s.usageRepo.Append(ctx, workspace.ID, inboundEntry); err != nil {
		s.logger.WithField("message_id", message.ID).Warn("Failed to append inbound usage entry")
	}

	if mediaRef != nil && mediaRef.URL != "" {
		entry := &domain.UsageEntry{
			ID:         uuid.New().String(),
			Kind:       domain.UsageMediaStored,
			MessageID:  message.ID,
			Quantity:   1,
			BillingDay: now.Format("2006-01-02"),
			CreatedAt:  now,
		}
		if err := s.usageRepo.Append(ctx, workspace.ID, entry); err != nil {
			s.logger.WithField("message_id", message.ID).Warn("Failed to append media usage entry")
		}
	}

	// Consent commands skip the reply cascade: a system message marks the
	// transition in the conversation and opted-out contacts get no further
	// traffic.
	if isKeyword {
		s.recordSystemMessage(ctx, workspace, contact, conversation, systemNote)
	} else if msg.Type == domain.MessageTypeText && msg.Body != "" && !contact.IsOptedOut() {
		s.runReplyCascade(ctx, workspace, contact, conversation, message)
	}

	s.eventBus.Publish(ctx, domain.EventPayload{
		Type:        domain.EventMessageReceived,
		WorkspaceID: workspace.ID,
		EntityID:    message.ID,
		Data: map[string]interface{}{
			"contact_id":      contact.ID,
			"conversation_id": conversation.ID,
			"type":            string(msg.Type),
		},
	})
	return nil
}

// recordSystemMessage stores the conversation-visible marker of a consent
// transition.
func (s *IngestService) recordSystemMessage(ctx context.Context, workspace *domain.Workspace, contact *domain.Contact, conversation *domain.Conversation, note string) {
	now := time.Now().UTC()
	message := &domain.Message{
		ID:             uuid.New().String(),
		ConversationID: conversation.ID,
		ContactID:      contact.ID,
		Direction:      domain.MessageInbound,
		Type:           domain.MessageTypeSystem,
		Body:           note,
		Status:         domain.MessageStatusReceived,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.messageRepo.Create(ctx, workspace.ID, message); err != nil {
		s.logger.WithField("contact_id", contact.ID).Warn("Failed to persist consent system message")
	}
}

// runReplyCascade tries the keyword rules first and falls back to the FAQ
// bank. It reports whether a reply was sent.
func (s *IngestService) runReplyCascade(ctx context.Context, workspace *domain.Workspace, contact *domain.Contact, conversation *domain.Conversation, inbound *domain.Message) bool {
	rules, err := s.autoReplyRepo.ListRules(ctx, workspace.ID)
	if err != nil {
		s.logger.WithField("workspace_id", workspace.ID).Warn("Failed to load auto-reply rules")
		return false
	}

	if rule := domain.MatchAutoReply(rules, inbound.Body); rule != nil {
		recently, err := s.autoReplyRepo.RecentlyReplied(ctx, workspace.ID, rule.ID, contact.ID, domain.AutoReplyWindow)
		if err != nil {
			s.logger.WithField("auto_reply_id", rule.ID).Warn("Failed to check auto-reply recency")
			return false
		}
		if recently {
			s.logger.WithFields(map[string]interface{}{
				"auto_reply_id": rule.ID,
				"contact_id":    contact.ID,
			}).Debug("Suppressing repeated auto-reply inside window")
			return false
		}
		if !s.boundTemplateApproved(ctx, workspace, rule) {
			return false
		}
		return s.sendReply(ctx, workspace, contact, rule.Response, rule.ID)
	}

	faqs, err := s.autoReplyRepo.ListFAQs(ctx, workspace.ID)
	if err != nil {
		s.logger.WithField("workspace_id", workspace.ID).Warn("Failed to load FAQs")
		return false
	}
	if faq := domain.BestFAQMatch(faqs, inbound.Body); faq != nil {
		if err := s.autoReplyRepo.IncrementFAQMatch(ctx, workspace.ID, faq.ID); err != nil {
			s.logger.WithField("faq_id", faq.ID).Warn("Failed to increment FAQ match count")
		}
		return s.sendReply(ctx, workspace, contact, faq.Answer, "")
	}
	return false
}

// boundTemplateApproved re-checks the rule's template at fire time: a rule
// whose bound template lost approval stays silent.
func (s *IngestService) boundTemplateApproved(ctx context.Context, workspace *domain.Workspace, rule *domain.AutoReply) bool {
	template, err := s.templateRepo.GetByID(ctx, workspace.ID, rule.TemplateID)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"auto_reply_id": rule.ID,
			"template_id":   rule.TemplateID,
		}).Warn("Failed to load auto-reply template")
		return false
	}
	if !template.IsSendable() {
		s.logger.WithFields(map[string]interface{}{
			"auto_reply_id":   rule.ID,
			"template_id":     rule.TemplateID,
			"template_status": string(template.Status),
		}).Debug("Suppressing auto-reply with unapproved template")
		return false
	}
	return true
}

// sendReply sends a free-form text inside the service window the inbound
// message just opened, and records it as an outbound message.
func (s *IngestService) sendReply(ctx context.Context, workspace *domain.Workspace, contact *domain.Contact, text, autoReplyID string) bool {
	providerMessageID, err := s.provider.SendTextMessage(ctx, workspace.PhoneNumberID, contact.Phone, text)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"workspace_id": workspace.ID,
			"contact_id":   contact.ID,
		}).Error(fmt.Sprintf("Failed to send auto-reply: %v", err))
		return false
	}

	now := time.Now().UTC()
	preview := domain.BodyPreview(domain.MessageTypeText, text)
	conversation, _, err := s.conversationSvc.OpenForOutbound(ctx, workspace.ID, contact.ID, now, preview, string(domain.MessageTypeText))
	if err != nil {
		s.logger.WithField("contact_id", contact.ID).Warn("Failed to record auto-reply on conversation")
		return true
	}

	message := &domain.Message{
		ID:                uuid.New().String(),
		ConversationID:    conversation.ID,
		ContactID:         contact.ID,
		Direction:         domain.MessageOutbound,
		Type:              domain.MessageTypeText,
		Body:              text,
		Status:            domain.MessageStatusSent,
		ProviderMessageID: providerMessageID,
		SentAt:            &now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.messageRepo.Create(ctx, workspace.ID, message); err != nil {
		s.logger.WithField("contact_id", contact.ID).Warn("Failed to persist auto-reply message")
		return true
	}

	if autoReplyID != "" {
		entry := &domain.AutoReplyLog{
			ID:          uuid.New().String(),
			AutoReplyID: autoReplyID,
			ContactID:   contact.ID,
			MessageID:   message.ID,
			CreatedAt:   now,
			ExpiresAt:   now.Add(domain.AutoReplyLogRetention),
		}
		if err := s.autoReplyRepo.LogReply(ctx, workspace.ID, entry); err != nil {
			s.logger.WithField("auto_reply_id", autoReplyID).Warn("Failed to log fired auto-reply")
		}
	}
	return true
}
