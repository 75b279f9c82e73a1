package service

import (
	"context"
	"time"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/pkg/logger"
	"github.com/google/uuid"
)

// ConversationService implements domain.ConversationServiceInterface. There
// is at most one conversation per contact; inbound traffic reopens it instead
// of creating a new row.
type ConversationService struct {
	repo     domain.ConversationRepository
	eventBus domain.EventBus
	logger   logger.Logger
}

// NewConversationService creates a new conversation service
func NewConversationService(repo domain.ConversationRepository, eventBus domain.EventBus, log logger.Logger) *ConversationService {
	return &ConversationService{
		repo:     repo,
		eventBus: eventBus,
		logger:   log,
	}
}

// OpenForInbound finds-or-creates the conversation for a customer message,
// bumping unread counters and applying the workspace SLA and auto-assignment
// settings on a fresh episode.
func (s *ConversationService) OpenForInbound(ctx context.Context, workspace *domain.Workspace, contact *domain.Contact, ts time.Time, preview, messageType string) (*domain.Conversation, bool, error) {
	conversation, err := s.repo.GetByContactID(ctx, workspace.ID, contact.ID)
	if err != nil {
		if _, ok := err.(*domain.ErrNotFound); !ok {
			return nil, false, err
		}
		conversation = nil
	}

	created := conversation == nil
	if created {
		conversation = &domain.Conversation{
			ID:        uuid.New().String(),
			ContactID: contact.ID,
			Status:    domain.ConversationOpen,
			Type:      domain.ConversationCustomerInitiated,
			StartedAt: ts,
			CreatedAt: ts,
		}
	}

	freshEpisode := created || conversation.Status != domain.ConversationOpen
	conversation.RecordInbound(ts, preview, messageType)

	if freshEpisode {
		if workspace.Settings.SLAMinutes > 0 {
			deadline := ts.Add(time.Duration(workspace.Settings.SLAMinutes) * time.Minute)
			conversation.SLADeadline = &deadline
		}
		if conversation.AssignedTo == "" && len(workspace.Settings.AgentIDs) > 0 {
			conversation.AssignedTo = s.pickAgent(workspace.Settings.AgentIDs, conversation.ID)
		}
	}

	if conversation.AssignedTo != "" {
		if conversation.UnreadCounts == nil {
			conversation.UnreadCounts = domain.UnreadCounts{}
		}
		conversation.UnreadCounts[conversation.AssignedTo]++
	}

	if created {
		if _, err := s.repo.UpsertForContact(ctx, workspace.ID, conversation); err != nil {
			return nil, false, err
		}
		s.eventBus.Publish(ctx, domain.EventPayload{
			Type:        domain.EventConversationNew,
			WorkspaceID: workspace.ID,
			EntityID:    conversation.ID,
			Data:        map[string]interface{}{"contact_id": contact.ID},
		})
	} else {
		if err := s.repo.Update(ctx, workspace.ID, conversation); err != nil {
			return nil, false, err
		}
	}
	return conversation, created, nil
}

// OpenForOutbound finds-or-creates the conversation for a business message.
func (s *ConversationService) OpenForOutbound(ctx context.Context, workspaceID, contactID string, ts time.Time, preview, messageType string) (*domain.Conversation, bool, error) {
	conversation, err := s.repo.GetByContactID(ctx, workspaceID, contactID)
	if err != nil {
		if _, ok := err.(*domain.ErrNotFound); !ok {
			return nil, false, err
		}
		conversation = nil
	}

	created := conversation == nil
	if created {
		conversation = &domain.Conversation{
			ID:        uuid.New().String(),
			ContactID: contactID,
			Status:    domain.ConversationOpen,
			Type:      domain.ConversationBusinessInitiated,
			StartedAt: ts,
			CreatedAt: ts,
		}
	}
	conversation.RecordOutbound(ts, preview, messageType)

	if created {
		if _, err := s.repo.UpsertForContact(ctx, workspaceID, conversation); err != nil {
			return nil, false, err
		}
		s.eventBus.Publish(ctx, domain.EventPayload{
			Type:        domain.EventConversationNew,
			WorkspaceID: workspaceID,
			EntityID:    conversation.ID,
			Data:        map[string]interface{}{"contact_id": contactID},
		})
	} else {
		if err := s.repo.Update(ctx, workspaceID, conversation); err != nil {
			return nil, false, err
		}
	}
	return conversation, created, nil
}

// GetByID retrieves a conversation by ID
func (s *ConversationService) GetByID(ctx context.Context, workspaceID, id string) (*domain.Conversation, error) {
	return s.repo.GetByID(ctx, workspaceID, id)
}

// List retrieves conversations with pagination
func (s *ConversationService) List(ctx context.Context, workspaceID string, params domain.ConversationListParams) (*domain.ConversationListResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, workspaceID, params)
}

// pickAgent distributes new conversations across agents. The conversation id
// is random, so hashing it gives a stable assignment without shared state.
func (s *ConversationService) pickAgent(agentIDs []string, conversationID string) string {
	sum := 0
	for _, r := range conversationID {
		sum += int(r)
	}
	return agentIDs[sum%len(agentIDs)]
}
