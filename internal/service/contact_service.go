package service

import (
	"context"
	"time"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/pkg/logger"
	"github.com/google/uuid"
)

// ContactService implements domain.ContactServiceInterface
type ContactService struct {
	repo               domain.ContactRepository
	timelineRepo       domain.ContactTimelineRepository
	eventBus           domain.EventBus
	logger             logger.Logger
	defaultCountryCode string
}

// NewContactService creates a new contact service
func NewContactService(
	repo domain.ContactRepository,
	timelineRepo domain.ContactTimelineRepository,
	eventBus domain.EventBus,
	log logger.Logger,
	defaultCountryCode string,
) *ContactService {
	return &ContactService{
		repo:               repo,
		timelineRepo:       timelineRepo,
		eventBus:           eventBus,
		logger:             log,
		defaultCountryCode: defaultCountryCode,
	}
}

// UpsertInbound finds-or-creates the contact behind an inbound message. A new
// contact starts opted in: sending us a message is the consent signal.
func (s *ContactService) UpsertInbound(ctx context.Context, workspaceID, phone, name string) (*domain.Contact, bool, error) {
	normalized, err := domain.NormalizePhone(phone, s.defaultCountryCode)
	if err != nil {
		return nil, false, err
	}

	// Some providers omit the profile name; the contact still needs one.
	if name == "" {
		name = "Unknown"
	}

	now := time.Now().UTC()
	contact := &domain.Contact{
		ID:    uuid.New().String(),
		Phone: normalized,
		Name:  name,
		OptIn: domain.OptInState{
			Status: true,
			Via:    domain.OptInViaInboundMessage,
			At:     &now,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Upsert(ctx, workspaceID, contact)
	if err != nil {
		s.logger.WithField("workspace_id", workspaceID).Error("Failed to upsert inbound contact")
		return nil, false, err
	}

	if created {
		s.writeTimeline(ctx, workspaceID, &domain.ContactTimelineEntry{
			ContactID:  contact.ID,
			Operation:  domain.TimelineOpInsert,
			EntityType: domain.TimelineEntityContact,
			Changes:    map[string]interface{}{"phone": contact.Phone, "via": domain.OptInViaInboundMessage},
		})
	}
	return contact, created, nil
}

// GetByID retrieves a contact by ID
func (s *ContactService) GetByID(ctx context.Context, workspaceID, id string) (*domain.Contact, error) {
	return s.repo.GetByID(ctx, workspaceID, id)
}

// GetByPhone retrieves a contact by its normalized phone number
func (s *ContactService) GetByPhone(ctx context.Context, workspaceID, phone string) (*domain.Contact, error) {
	normalized, err := domain.NormalizePhone(phone, s.defaultCountryCode)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByPhone(ctx, workspaceID, normalized)
}

// SetOptState records a consent transition with its source and audit entry.
func (s *ContactService) SetOptState(ctx context.Context, workspaceID, contactID string, optedIn bool, via string) error {
	now := time.Now().UTC()
	state := domain.OptInState{Status: optedIn, Via: via, At: &now}
	if err := s.repo.UpdateOptIn(ctx, workspaceID, contactID, state); err != nil {
		return err
	}

	status := "opted_out"
	if optedIn {
		status = "opted_in"
	}
	s.writeTimeline(ctx, workspaceID, domain.NewOptStateTimelineEntry(contactID, status, via, now))

	if !optedIn {
		s.eventBus.Publish(ctx, domain.EventPayload{
			Type:        domain.EventContactOptedOut,
			WorkspaceID: workspaceID,
			EntityID:    contactID,
			Data:        map[string]interface{}{"via": via},
		})
	}
	return nil
}

// IsOptedOut reports whether the contact refused outbound messages. An
// unknown contact is not opted out; consent is assumed granted by the caller
// that collected the number.
func (s *ContactService) IsOptedOut(ctx context.Context, workspaceID, contactID, phone string) (bool, error) {
	var contact *domain.Contact
	var err error
	if contactID != "" {
		contact, err = s.repo.GetByID(ctx, workspaceID, contactID)
	} else {
		contact, err = s.GetByPhone(ctx, workspaceID, phone)
	}
	if err != nil {
		if _, ok := err.(*domain.ErrNotFound); ok {
			return false, nil
		}
		return false, err
	}
	return contact.IsOptedOut(), nil
}

// List retrieves contacts with pagination
func (s *ContactService) List(ctx context.Context, workspaceID string, params domain.ContactListParams) (*domain.ContactListResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, workspaceID, params)
}

// writeTimeline appends an audit entry; timeline failures never fail the
// operation they describe.
func (s *ContactService) writeTimeline(ctx context.Context, workspaceID string, entry *domain.ContactTimelineEntry) {
	if err := s.timelineRepo.Create(ctx, workspaceID, entry); err != nil {
		s.logger.WithField("contact_id", entry.ContactID).Warn("Failed to write contact timeline entry")
	}
}
