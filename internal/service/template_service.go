package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/pkg/logger"
	"github.com/google/uuid"
)

// TemplateService implements domain.TemplateServiceInterface: the local
// template lifecycle, provider submission on the shared parent WABA and the
// authoritative webhook reconciliation.
type TemplateService struct {
	workspaceRepo domain.WorkspaceRepository
	templateRepo  domain.TemplateRepository
	provider      domain.ProviderClient
	rateLimitSvc  domain.RateLimitServiceInterface
	eventBus      domain.EventBus
	logger        logger.Logger
	parentWABAID  string
}

// NewTemplateService creates a new template service
func NewTemplateService(
	workspaceRepo domain.WorkspaceRepository,
	templateRepo domain.TemplateRepository,
	provider domain.ProviderClient,
	rateLimitSvc domain.RateLimitServiceInterface,
	eventBus domain.EventBus,
	log logger.Logger,
	parentWABAID string,
) *TemplateService {
	return &TemplateService{
		workspaceRepo: workspaceRepo,
		templateRepo:  templateRepo,
		provider:      provider,
		rateLimitSvc:  rateLimitSvc,
		eventBus:      eventBus,
		logger:        log,
		parentWABAID:  parentWABAID,
	}
}

// CreateTemplate stores a local DRAFT. Nothing reaches the provider until
// submission.
func (s *TemplateService) CreateTemplate(ctx context.Context, req *domain.CreateTemplateRequest) (*domain.Template, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.templateRepo.GetByName(ctx, req.WorkspaceID, req.Name, req.Language); err == nil && existing != nil {
		return nil, fmt.Errorf("template %s (%s) already exists", req.Name, req.Language)
	}

	now := time.Now().UTC()
	template := &domain.Template{
		ID:          uuid.New().String(),
		WorkspaceID: req.WorkspaceID,
		Name:        req.Name,
		Language:    req.Language,
		Category:    req.Category,
		Components:  req.Components,
		Status:      domain.TemplateDraft,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.templateRepo.Create(ctx, req.WorkspaceID, template); err != nil {
		return nil, err
	}
	return template, nil
}

// SubmitTemplate sends a DRAFT or REJECTED template to the parent WABA under
// its namespaced name and marks it PENDING.
func (s *TemplateService) SubmitTemplate(ctx context.Context, req *domain.SubmitTemplateRequest) (*domain.Template, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	workspace, err := s.workspaceRepo.GetByID(ctx, req.WorkspaceID)
	if err != nil {
		return nil, err
	}
	template, err := s.templateRepo.GetByID(ctx, req.WorkspaceID, req.TemplateID)
	if err != nil {
		return nil, err
	}
	switch template.Status {
	case domain.TemplateDraft, domain.TemplateRejected:
	default:
		return nil, fmt.Errorf("template %s is %s, only DRAFT or REJECTED templates can be submitted", template.ID, template.Status)
	}

	if _, err := s.rateLimitSvc.CheckTemplateSubmission(ctx, workspace); err != nil {
		return nil, err
	}

	providerName := domain.NamespaceTemplateName(workspace.ID, template.Name)
	submission := &domain.ProviderTemplateSubmission{
		Name:       providerName,
		Language:   template.Language,
		Category:   template.Category,
		Components: buildSubmissionComponents(&template.Components),
	}

	providerTemplateID, err := s.provider.SubmitTemplate(ctx, s.parentWABAID, submission)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	previous := template.Status
	template.ProviderTemplateID = providerTemplateID
	template.ProviderName = providerName
	template.Status = domain.TemplatePending
	template.History = append(template.History, domain.ApprovalEvent{
		Status:         domain.TemplatePending,
		PreviousStatus: previous,
		Source:         domain.ApprovalSourceLocal,
		At:             now,
	})
	if err := s.templateRepo.Update(ctx, req.WorkspaceID, template); err != nil {
		return nil, err
	}

	if err := s.workspaceRepo.IncrementTemplateSubmissions(ctx, workspace.ID, now); err != nil {
		s.logger.WithField("workspace_id", workspace.ID).Warn("Failed to increment template submission counter")
	}

	s.logger.WithFields(map[string]interface{}{
		"workspace_id":  workspace.ID,
		"template_id":   template.ID,
		"provider_name": providerName,
	}).Info("Submitted template to provider")
	return template, nil
}

// buildSubmissionComponents converts the stored component set into the
// provider's creation wire format, including the example values required for
// templates with placeholders.
func buildSubmissionComponents(c *domain.TemplateComponents) []map[string]interface{} {
	var components []map[string]interface{}

	switch {
	case c.HeaderType == domain.HeaderText:
		components = append(components, map[string]interface{}{
			"type":   "HEADER",
			"format": "TEXT",
			"text":   c.HeaderText,
		})
	case c.HasMediaHeader():
		components = append(components, map[string]interface{}{
			"type":   "HEADER",
			"format": strings.ToUpper(string(c.HeaderType)),
		})
	}

	body := map[string]interface{}{
		"type": "BODY",
		"text": c.BodyText,
	}
	if c.BodySlots() > 0 && len(c.Examples) > 0 {
		body["example"] = map[string]interface{}{
			"body_text": [][]string{c.Examples},
		}
	}
	components = append(components, body)

	if c.FooterText != "" {
		components = append(components, map[string]interface{}{
			"type": "FOOTER",
			"text": c.FooterText,
		})
	}

	if len(c.Buttons) > 0 {
		buttons := make([]map[string]interface{}, 0, len(c.Buttons))
		for i := range c.Buttons {
			b := &c.Buttons[i]
			button := map[string]interface{}{
				"type": strings.ToUpper(string(b.Type)),
				"text": b.Text,
			}
			if b.URL != "" {
				button["url"] = b.URL
			}
			if b.PhoneNumber != "" {
				button["phone_number"] = b.PhoneNumber
			}
			buttons = append(buttons, button)
		}
		components = append(components, map[string]interface{}{
			"type":    "BUTTONS",
			"buttons": buttons,
		})
	}
	return components
}

// DeleteTemplate removes the template provider-side when it was submitted and
// soft-deletes it locally. Stored messages keep their template descriptors.
func (s *TemplateService) DeleteTemplate(ctx context.Context, req *domain.DeleteTemplateRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	template, err := s.templateRepo.GetByID(ctx, req.WorkspaceID, req.TemplateID)
	if err != nil {
		return err
	}

	if template.ProviderName != "" {
		if err := s.provider.DeleteTemplate(ctx, s.parentWABAID, template.ProviderName); err != nil {
			return fmt.Errorf("failed to delete template at provider: %w", err)
		}
	}

	template.Status = domain.TemplateDeleted
	template.Active = false
	return s.templateRepo.Update(ctx, req.WorkspaceID, template)
}

// GetTemplate retrieves a template by ID
func (s *TemplateService) GetTemplate(ctx context.Context, workspaceID, id string) (*domain.Template, error) {
	return s.templateRepo.GetByID(ctx, workspaceID, id)
}

// ListTemplates retrieves templates with pagination
func (s *TemplateService) ListTemplates(ctx context.Context, workspaceID string, params domain.TemplateListParams) (*domain.TemplateListResult, error) {
	return s.templateRepo.List(ctx, workspaceID, params)
}

// ApplyStatusWebhook reconciles one authoritative lifecycle event from the
// provider. Template events arrive on the parent WABA without a phone number,
// so when routing has not resolved a workspace the namespaced template name
// is the tenant key.
func (s *TemplateService) ApplyStatusWebhook(ctx context.Context, update *domain.TemplateStatusUpdate) error {
	workspaceID := update.WorkspaceID
	if workspaceID == "" {
		var err error
		workspaceID, err = s.resolveWorkspaceByTemplateName(ctx, update.ProviderName)
		if err != nil {
			return err
		}
	}

	template, err := s.findTemplate(ctx, workspaceID, update)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if template.IsDuplicateWebhook(update.Event, now) {
		s.logger.WithFields(map[string]interface{}{
			"template_id": template.ID,
			"event":       update.Event,
		}).Debug("Dropping duplicate template webhook inside dedupe window")
		return nil
	}

	previous, changed := template.ApplyWebhookEvent(update.Event, update.EventID, update.Reason, now)
	if !changed {
		s.logger.WithFields(map[string]interface{}{
			"template_id": template.ID,
			"event":       update.Event,
		}).Warn("Unknown template lifecycle event, ignoring")
		return nil
	}

	if update.ProviderTemplateID != "" && template.ProviderTemplateID == "" {
		template.ProviderTemplateID = update.ProviderTemplateID
	}

	// An approved fork supersedes its predecessor.
	if template.Status == domain.TemplateApproved && template.OriginalTemplateID != "" {
		if original, err := s.templateRepo.GetByID(ctx, workspaceID, template.OriginalTemplateID); err == nil {
			original.Active = false
			if err := s.templateRepo.Update(ctx, workspaceID, original); err != nil {
				s.logger.WithField("template_id", original.ID).Warn("Failed to deactivate superseded template")
			}
		}
	}

	if err := s.templateRepo.Update(ctx, workspaceID, template); err != nil {
		return fmt.Errorf("failed to persist template status: %w", err)
	}

	change := domain.TemplateStatusChange{
		TemplateID:         template.ID,
		ProviderTemplateID: template.ProviderTemplateID,
		Status:             template.Status,
		PreviousStatus:     previous,
		Reason:             update.Reason,
		Authoritative:      true,
	}
	if template.Status == domain.TemplateRejected {
		change.RejectionDetails = &domain.RejectionDetails{
			Category: template.RejectionCategory,
			Help:     template.RejectionHelp,
		}
	}
	s.eventBus.Publish(ctx, domain.EventPayload{
		Type:        domain.EventTemplateStatus,
		WorkspaceID: workspaceID,
		EntityID:    template.ID,
		Data: map[string]interface{}{
			"change": change,
		},
	})
	return nil
}

// findTemplate locates the template a webhook refers to, preferring the
// provider id over the namespaced name.
func (s *TemplateService) findTemplate(ctx context.Context, workspaceID string, update *domain.TemplateStatusUpdate) (*domain.Template, error) {
	if update.ProviderTemplateID != "" {
		template, err := s.templateRepo.GetByProviderTemplateID(ctx, workspaceID, update.ProviderTemplateID)
		if err == nil {
			return template, nil
		}
		if _, ok := err.(*domain.ErrTemplateNotFound); !ok {
			return nil, err
		}
	}
	if update.ProviderName != "" {
		return s.templateRepo.GetByProviderName(ctx, workspaceID, update.ProviderName)
	}
	return nil, &domain.ErrTemplateNotFound{ID: update.ProviderTemplateID}
}

// resolveWorkspaceByTemplateName maps a namespaced provider template name to
// its owning workspace via the id suffix prefix.
func (s *TemplateService) resolveWorkspaceByTemplateName(ctx context.Context, providerName string) (string, error) {
	suffix, _, ok := domain.ParseNamespacedName(providerName)
	if !ok {
		return "", domain.NewSendError(domain.ErrKindUnroutedEvent, "template name %q carries no tenant prefix", providerName)
	}
	workspaces, err := s.workspaceRepo.List(ctx)
	if err != nil {
		return "", err
	}
	for _, w := range workspaces {
		if w.IDSuffix() == suffix {
			return w.ID, nil
		}
	}
	return "", domain.NewSendError(domain.ErrKindUnroutedEvent, "no workspace matches template prefix %q", suffix)
}

// SyncTemplates pulls the parent WABA's template list and reconciles this
// workspace's share of it. Webhook-touched templates are skipped; the webhook
// stream is authoritative and sync only fills gaps.
func (s *TemplateService) SyncTemplates(ctx context.Context, workspaceID string) (int, error) {
	workspace, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return 0, err
	}
	prefix := workspace.IDSuffix() + "_"

	infos, err := s.provider.ListTemplates(ctx, s.parentWABAID)
	if err != nil {
		return 0, err
	}

	synced := 0
	now := time.Now().UTC()
	for _, info := range infos {
		if !strings.HasPrefix(info.Name, prefix) {
			continue
		}
		template, err := s.templateRepo.GetByProviderName(ctx, workspaceID, info.Name)
		if err != nil {
			if _, ok := err.(*domain.ErrTemplateNotFound); ok {
				continue
			}
			return synced, err
		}
		if template.LastWebhookUpdate != nil {
			continue
		}

		status, ok := domain.MapTemplateEvent(info.Status)
		if !ok || status == template.Status {
			continue
		}
		previous := template.Status
		template.Status = status
		if template.ProviderTemplateID == "" {
			template.ProviderTemplateID = info.ID
		}
		template.History = append(template.History, domain.ApprovalEvent{
			Status:         status,
			PreviousStatus: previous,
			Source:         domain.ApprovalSourceSync,
			At:             now,
		})
		if err := s.templateRepo.Update(ctx, workspaceID, template); err != nil {
			return synced, err
		}
		synced++
	}
	return synced, nil
}
