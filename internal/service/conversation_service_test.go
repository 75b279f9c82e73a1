package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/internal/domain/mocks"
	"github.com/Waypost/waypost/pkg/logger"
)

type conversationFixture struct {
	svc      *ConversationService
	repo     *mocks.MockConversationRepository
	eventBus *mocks.MockEventBus
}

func newConversationFixture(t *testing.T) *conversationFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &conversationFixture{
		repo:     mocks.NewMockConversationRepository(ctrl),
		eventBus: mocks.NewMockEventBus(ctrl),
	}
	f.svc = NewConversationService(f.repo, f.eventBus, logger.NewTestLogger(t))
	return f
}

func TestOpenForInboundCreatesConversation(t *testing.T) {
	f := newConversationFixture(t)
	ws := safeWorkspace()
	contact := optedInContact()
	ts := time.Now().UTC()

	f.repo.EXPECT().GetByContactID(gomock.Any(), "ws1", "contact-1").
		Return(nil, &domain.ErrNotFound{Entity: "conversation", ID: "contact-1"})
	f.repo.EXPECT().UpsertForContact(gomock.Any(), "ws1", gomock.Any()).Return(true, nil)
	f.eventBus.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, payload domain.EventPayload) {
			assert.Equal(t, domain.EventConversationNew, payload.Type)
			assert.Equal(t, "contact-1", payload.Data["contact_id"])
		})

	conversation, created, err := f.svc.OpenForInbound(context.Background(), ws, contact, ts, "hello there", "text")
	require.NoError(t, err)

	assert.True(t, created)
	assert.Equal(t, domain.ConversationOpen, conversation.Status)
	assert.Equal(t, domain.ConversationCustomerInitiated, conversation.Type)
	assert.Equal(t, "hello there", conversation.LastMessagePreview)
	require.NotNil(t, conversation.LastCustomerMessageAt)
	assert.Equal(t, ts, *conversation.LastCustomerMessageAt)
}

func TestOpenForInboundReusesOpenConversation(t *testing.T) {
	f := newConversationFixture(t)
	ws := safeWorkspace()
	contact := optedInContact()
	ts := time.Now().UTC()

	existing := &domain.Conversation{
		ID:        "conv-1",
		ContactID: "contact-1",
		Status:    domain.ConversationOpen,
		Type:      domain.ConversationCustomerInitiated,
		StartedAt: ts.Add(-time.Hour),
	}

	f.repo.EXPECT().GetByContactID(gomock.Any(), "ws1", "contact-1").Return(existing, nil)
	f.repo.EXPECT().Update(gomock.Any(), "ws1", existing).Return(nil)

	conversation, created, err := f.svc.OpenForInbound(context.Background(), ws, contact, ts, "follow up", "text")
	require.NoError(t, err)

	assert.False(t, created)
	assert.Equal(t, "conv-1", conversation.ID)
	assert.Equal(t, ts.Add(-time.Hour), conversation.StartedAt)
}

func TestOpenForInboundReopensClosedConversation(t *testing.T) {
	f := newConversationFixture(t)
	ws := safeWorkspace()
	ws.Settings.SLAMinutes = 30
	contact := optedInContact()
	ts := time.Now().UTC()

	closed := &domain.Conversation{
		ID:        "conv-1",
		ContactID: "contact-1",
		Status:    domain.ConversationClosed,
		Type:      domain.ConversationBusinessInitiated,
		StartedAt: ts.Add(-48 * time.Hour),
	}

	f.repo.EXPECT().GetByContactID(gomock.Any(), "ws1", "contact-1").Return(closed, nil)
	f.repo.EXPECT().Update(gomock.Any(), "ws1", closed).Return(nil)

	conversation, created, err := f.svc.OpenForInbound(context.Background(), ws, contact, ts, "hi again", "text")
	require.NoError(t, err)

	assert.False(t, created)
	assert.Equal(t, domain.ConversationOpen, conversation.Status)
	assert.Equal(t, domain.ConversationCustomerInitiated, conversation.Type)
	assert.Equal(t, ts, conversation.StartedAt)
	require.NotNil(t, conversation.SLADeadline)
	assert.Equal(t, ts.Add(30*time.Minute), *conversation.SLADeadline)
}

func TestOpenForInboundAssignsAgentAndCountsUnread(t *testing.T) {
	f := newConversationFixture(t)
	ws := safeWorkspace()
	ws.Settings.AgentIDs = []string{"agent-1"}
	contact := optedInContact()

	f.repo.EXPECT().GetByContactID(gomock.Any(), "ws1", "contact-1").
		Return(nil, &domain.ErrNotFound{Entity: "conversation", ID: "contact-1"})
	f.repo.EXPECT().UpsertForContact(gomock.Any(), "ws1", gomock.Any()).Return(true, nil)
	f.eventBus.EXPECT().Publish(gomock.Any(), gomock.Any())

	conversation, _, err := f.svc.OpenForInbound(context.Background(), ws, contact, time.Now().UTC(), "hello", "text")
	require.NoError(t, err)

	assert.Equal(t, "agent-1", conversation.AssignedTo)
	assert.Equal(t, 1, conversation.UnreadCounts["agent-1"])
}

func TestOpenForOutboundCreatesBusinessInitiated(t *testing.T) {
	f := newConversationFixture(t)
	ts := time.Now().UTC()

	f.repo.EXPECT().GetByContactID(gomock.Any(), "ws1", "contact-1").
		Return(nil, &domain.ErrNotFound{Entity: "conversation", ID: "contact-1"})
	f.repo.EXPECT().UpsertForContact(gomock.Any(), "ws1", gomock.Any()).Return(true, nil)
	f.eventBus.EXPECT().Publish(gomock.Any(), gomock.Any())

	conversation, created, err := f.svc.OpenForOutbound(context.Background(), "ws1", "contact-1", ts, "Your order #1042 has shipped.", "template")
	require.NoError(t, err)

	assert.True(t, created)
	assert.Equal(t, domain.ConversationBusinessInitiated, conversation.Type)
	// An outbound send never opens the customer service window.
	assert.Nil(t, conversation.LastCustomerMessageAt)
	assert.False(t, conversation.IsServiceWindowOpen(ts))
}

func TestOpenForOutboundUpdatesExisting(t *testing.T) {
	f := newConversationFixture(t)
	ts := time.Now().UTC()
	lastCustomer := ts.Add(-time.Hour)

	existing := &domain.Conversation{
		ID:                    "conv-1",
		ContactID:             "contact-1",
		Status:                domain.ConversationOpen,
		Type:                  domain.ConversationCustomerInitiated,
		LastCustomerMessageAt: &lastCustomer,
	}

	f.repo.EXPECT().GetByContactID(gomock.Any(), "ws1", "contact-1").Return(existing, nil)
	f.repo.EXPECT().Update(gomock.Any(), "ws1", existing).Return(nil)

	conversation, created, err := f.svc.OpenForOutbound(context.Background(), "ws1", "contact-1", ts, "reply", "text")
	require.NoError(t, err)

	assert.False(t, created)
	assert.True(t, conversation.IsServiceWindowOpen(ts))
	assert.Equal(t, "reply", conversation.LastMessagePreview)
}
