package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/internal/domain/mocks"
	"github.com/Waypost/waypost/pkg/logger"
)

type contactFixture struct {
	svc          *ContactService
	repo         *mocks.MockContactRepository
	timelineRepo *mocks.MockContactTimelineRepository
	eventBus     *mocks.MockEventBus
}

func newContactFixture(t *testing.T) *contactFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &contactFixture{
		repo:         mocks.NewMockContactRepository(ctrl),
		timelineRepo: mocks.NewMockContactTimelineRepository(ctrl),
		eventBus:     mocks.NewMockEventBus(ctrl),
	}
	f.svc = NewContactService(f.repo, f.timelineRepo, f.eventBus, logger.NewTestLogger(t), "91")
	return f
}

func TestUpsertInboundCreatesOptedInContact(t *testing.T) {
	f := newContactFixture(t)

	f.repo.EXPECT().Upsert(gomock.Any(), "ws1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, contact *domain.Contact) (bool, error) {
			assert.Equal(t, "919900112233", contact.Phone)
			assert.Equal(t, "Asha", contact.Name)
			assert.True(t, contact.OptIn.Status)
			assert.Equal(t, domain.OptInViaInboundMessage, contact.OptIn.Via)
			return true, nil
		})
	f.timelineRepo.EXPECT().Create(gomock.Any(), "ws1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, entry *domain.ContactTimelineEntry) error {
			assert.Equal(t, domain.TimelineOpInsert, entry.Operation)
			assert.Equal(t, domain.TimelineEntityContact, entry.EntityType)
			return nil
		})

	contact, created, err := f.svc.UpsertInbound(context.Background(), "ws1", "+91 99001 12233", "Asha")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "919900112233", contact.Phone)
}

func TestUpsertInboundDefaultsMissingProfileName(t *testing.T) {
	f := newContactFixture(t)

	f.repo.EXPECT().Upsert(gomock.Any(), "ws1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, contact *domain.Contact) (bool, error) {
			assert.Equal(t, "Unknown", contact.Name)
			return true, nil
		})
	f.timelineRepo.EXPECT().Create(gomock.Any(), "ws1", gomock.Any()).Return(nil)

	contact, created, err := f.svc.UpsertInbound(context.Background(), "ws1", "919900112233", "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Unknown", contact.Name)
}

func TestUpsertInboundExistingContactSkipsTimeline(t *testing.T) {
	f := newContactFixture(t)

	f.repo.EXPECT().Upsert(gomock.Any(), "ws1", gomock.Any()).Return(false, nil)

	_, created, err := f.svc.UpsertInbound(context.Background(), "ws1", "919900112233", "Asha")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestUpsertInboundRejectsShortNumber(t *testing.T) {
	f := newContactFixture(t)

	_, _, err := f.svc.UpsertInbound(context.Background(), "ws1", "12345", "Asha")
	assert.True(t, domain.IsErrorKind(err, domain.ErrKindInvalidRecipient))
}

func TestSetOptStateOptOutPublishesEvent(t *testing.T) {
	f := newContactFixture(t)

	f.repo.EXPECT().UpdateOptIn(gomock.Any(), "ws1", "contact-1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _, _ string, state domain.OptInState) error {
			assert.False(t, state.Status)
			assert.Equal(t, domain.OptInViaKeyword, state.Via)
			return nil
		})
	f.timelineRepo.EXPECT().Create(gomock.Any(), "ws1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, entry *domain.ContactTimelineEntry) error {
			assert.Equal(t, "opted_out", entry.Changes["status"])
			return nil
		})
	f.eventBus.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, payload domain.EventPayload) {
			assert.Equal(t, domain.EventContactOptedOut, payload.Type)
			assert.Equal(t, "contact-1", payload.EntityID)
		})

	err := f.svc.SetOptState(context.Background(), "ws1", "contact-1", false, domain.OptInViaKeyword)
	assert.NoError(t, err)
}

func TestSetOptStateOptInStaysQuiet(t *testing.T) {
	f := newContactFixture(t)

	f.repo.EXPECT().UpdateOptIn(gomock.Any(), "ws1", "contact-1", gomock.Any()).Return(nil)
	f.timelineRepo.EXPECT().Create(gomock.Any(), "ws1", gomock.Any()).Return(nil)

	err := f.svc.SetOptState(context.Background(), "ws1", "contact-1", true, domain.OptInViaKeyword)
	assert.NoError(t, err)
}

func TestSetOptStateTimelineFailureIsNotFatal(t *testing.T) {
	f := newContactFixture(t)

	f.repo.EXPECT().UpdateOptIn(gomock.Any(), "ws1", "contact-1", gomock.Any()).Return(nil)
	f.timelineRepo.EXPECT().Create(gomock.Any(), "ws1", gomock.Any()).
		Return(assert.AnError)

	err := f.svc.SetOptState(context.Background(), "ws1", "contact-1", true, domain.OptInViaAPI)
	assert.NoError(t, err)
}

func TestIsOptedOutUnknownContact(t *testing.T) {
	f := newContactFixture(t)

	f.repo.EXPECT().GetByPhone(gomock.Any(), "ws1", "919900112233").
		Return(nil, &domain.ErrNotFound{Entity: "contact", ID: "919900112233"})

	optedOut, err := f.svc.IsOptedOut(context.Background(), "ws1", "", "919900112233")
	require.NoError(t, err)
	assert.False(t, optedOut)
}

func TestIsOptedOutByContactID(t *testing.T) {
	f := newContactFixture(t)
	contact := optedInContact()
	contact.OptIn.Status = false

	f.repo.EXPECT().GetByID(gomock.Any(), "ws1", "contact-1").Return(contact, nil)

	optedOut, err := f.svc.IsOptedOut(context.Background(), "ws1", "contact-1", "")
	require.NoError(t, err)
	assert.True(t, optedOut)
}

func TestGetByPhoneNormalizesInput(t *testing.T) {
	f := newContactFixture(t)
	contact := optedInContact()

	f.repo.EXPECT().GetByPhone(gomock.Any(), "ws1", "919900112233").Return(contact, nil)

	got, err := f.svc.GetByPhone(context.Background(), "ws1", "+91-99001-12233")
	require.NoError(t, err)
	assert.Equal(t, contact, got)
}
