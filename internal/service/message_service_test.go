package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/internal/domain/mocks"
	"github.com/Waypost/waypost/pkg/crypto"
	"github.com/Waypost/waypost/pkg/logger"
	pkgmocks "github.com/Waypost/waypost/pkg/mocks"
)

const testSecretKey = "test-secret-key-32-bytes-long!!!"

type messageFixture struct {
	svc             *MessageService
	workspaceRepo   *mocks.MockWorkspaceRepository
	messageRepo     *mocks.MockMessageRepository
	templateRepo    *mocks.MockTemplateRepository
	contactRepo     *mocks.MockContactRepository
	campaignRepo    *mocks.MockCampaignRepository
	usageRepo       *mocks.MockUsageLedgerRepository
	conversationSvc *mocks.MockConversationServiceInterface
	rateLimitSvc    *mocks.MockRateLimitServiceInterface
	provider        *mocks.MockProviderClient
	eventBus        *mocks.MockEventBus
	opsMailer       *pkgmocks.MockMailer
}

func newMessageFixture(t *testing.T, encryptBodies bool) *messageFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &messageFixture{
		workspaceRepo:   mocks.NewMockWorkspaceRepository(ctrl),
		messageRepo:     mocks.NewMockMessageRepository(ctrl),
		templateRepo:    mocks.NewMockTemplateRepository(ctrl),
		contactRepo:     mocks.NewMockContactRepository(ctrl),
		campaignRepo:    mocks.NewMockCampaignRepository(ctrl),
		usageRepo:       mocks.NewMockUsageLedgerRepository(ctrl),
		conversationSvc: mocks.NewMockConversationServiceInterface(ctrl),
		rateLimitSvc:    mocks.NewMockRateLimitServiceInterface(ctrl),
		provider:        mocks.NewMockProviderClient(ctrl),
		eventBus:        mocks.NewMockEventBus(ctrl),
		opsMailer:       pkgmocks.NewMockMailer(ctrl),
	}
	f.svc = NewMessageService(
		f.workspaceRepo, f.messageRepo, f.templateRepo, f.contactRepo,
		f.campaignRepo, f.usageRepo, f.conversationSvc, f.rateLimitSvc,
		f.provider, f.eventBus, f.opsMailer, logger.NewTestLogger(t),
		"91", encryptBodies, testSecretKey,
	)
	return f
}

func approvedTemplate() *domain.Template {
	template := draftTemplate()
	template.Status = domain.TemplateApproved
	template.ProviderName = "ws1_order_update"
	return template
}

func sendRequest() *domain.SendTemplateRequest {
	return &domain.SendTemplateRequest{
		WorkspaceID: "ws1",
		TemplateID:  "tpl-1",
		To:          "919900112233",
		Variables:   domain.TemplateVariables{Body: []string{"#1042"}},
	}
}

func TestSendTemplateSuccess(t *testing.T) {
	f := newMessageFixture(t, false)
	ws := safeWorkspace()
	contact := optedInContact()
	budgets := &domain.RemainingBudgets{PerSecond: 0, Day: 99, Month: 999}

	f.workspaceRepo.EXPECT().GetByID(gomock.Any(), "ws1").Return(ws, nil)
	f.templateRepo.EXPECT().GetByID(gomock.Any(), "ws1", "tpl-1").Return(approvedTemplate(), nil)
	f.contactRepo.EXPECT().GetByPhone(gomock.Any(), "ws1", "919900112233").Return(contact, nil)
	f.rateLimitSvc.EXPECT().CheckMessageSend(gomock.Any(), ws).Return(budgets, nil)

	f.provider.EXPECT().SendTemplateMessage(gomock.Any(), "phone-1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, payload *domain.ProviderMessagePayload) (string, error) {
			assert.Equal(t, "919900112233", payload.To)
			return "wamid.out1", nil
		})

	f.conversationSvc.EXPECT().
		OpenForOutbound(gomock.Any(), "ws1", "contact-1", gomock.Any(), "Your order #1042 has shipped.", "template").
		Return(&domain.Conversation{ID: "conv-1"}, false, nil)

	var stored *domain.Message
	f.messageRepo.EXPECT().Create(gomock.Any(), "ws1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, m *domain.Message) error {
			stored = m
			return nil
		})
	f.usageRepo.EXPECT().Append(gomock.Any(), "ws1", gomock.Any()).Return(nil)
	f.workspaceRepo.EXPECT().IncrementMessageUsage(gomock.Any(), "ws1", gomock.Any()).Return(nil)
	f.eventBus.EXPECT().Publish(gomock.Any(), gomock.Any())

	result, err := f.svc.SendTemplate(context.Background(), sendRequest())
	require.NoError(t, err)

	assert.Equal(t, "wamid.out1", result.ProviderMessageID)
	assert.Same(t, budgets, result.Budgets)
	assert.Equal(t, domain.MessageOutbound, stored.Direction)
	assert.Equal(t, domain.MessageStatusSent, stored.Status)
	assert.Equal(t, "Your order #1042 has shipped.", stored.Body)
	require.NotNil(t, stored.Template)
	assert.Equal(t, "tpl-1", stored.Template.TemplateID)
}

func TestSendTemplatePolicyGates(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*domain.Workspace)
		wantKind domain.SendErrorKind
	}{
		{
			name:     "no phone assigned",
			mutate:   func(ws *domain.Workspace) { ws.PhoneNumberID = "" },
			wantKind: domain.ErrKindPhoneNotConfigured,
		},
		{
			name:     "capability revoked",
			mutate:   func(ws *domain.Workspace) { ws.BSP.CapabilityBlocked = true },
			wantKind: domain.ErrKindPhoneDisconnected,
		},
		{
			name:     "banned phone",
			mutate:   func(ws *domain.Workspace) { ws.PhoneStatus = domain.PhoneStatusBanned },
			wantKind: domain.ErrKindPhoneBanned,
		},
		{
			name:     "past due billing",
			mutate:   func(ws *domain.Workspace) { ws.BillingStatus = domain.BillingPastDue },
			wantKind: domain.ErrKindBillingPastDue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newMessageFixture(t, false)
			ws := safeWorkspace()
			tt.mutate(ws)

			f.workspaceRepo.EXPECT().GetByID(gomock.Any(), "ws1").Return(ws, nil)

			_, err := f.svc.SendTemplate(context.Background(), sendRequest())
			assert.True(t, domain.IsErrorKind(err, tt.wantKind), "got %v", err)
		})
	}
}

func TestSendTemplateNotApproved(t *testing.T) {
	f := newMessageFixture(t, false)
	template := draftTemplate()

	f.workspaceRepo.EXPECT().GetByID(gomock.Any(), "ws1").Return(safeWorkspace(), nil)
	f.templateRepo.EXPECT().GetByID(gomock.Any(), "ws1", "tpl-1").Return(template, nil)

	_, err := f.svc.SendTemplate(context.Background(), sendRequest())
	assert.True(t, domain.IsErrorKind(err, domain.ErrKindTemplateNotApproved))
}

func TestSendTemplateOwnershipMismatch(t *testing.T) {
	f := newMessageFixture(t, false)
	template := approvedTemplate()
	template.WorkspaceID = "someone-else"

	f.workspaceRepo.EXPECT().GetByID(gomock.Any(), "ws1").Return(safeWorkspace(), nil)
	f.templateRepo.EXPECT().GetByID(gomock.Any(), "ws1", "tpl-1").Return(template, nil)

	_, err := f.svc.SendTemplate(context.Background(), sendRequest())
	assert.True(t, domain.IsErrorKind(err, domain.ErrKindTemplateOwnershipMismatch))
}

func TestSendTemplateUnknownTemplate(t *testing.T) {
	f := newMessageFixture(t, false)

	f.workspaceRepo.EXPECT().GetByID(gomock.Any(), "ws1").Return(safeWorkspace(), nil)
	f.templateRepo.EXPECT().GetByID(gomock.Any(), "ws1", "tpl-1").
		Return(nil, &domain.ErrTemplateNotFound{ID: "tpl-1"})

	_, err := f.svc.SendTemplate(context.Background(), sendRequest())
	assert.True(t, domain.IsErrorKind(err, domain.ErrKindTemplateNotFound))
}

func TestSendTemplateVariableCountMismatch(t *testing.T) {
	f := newMessageFixture(t, false)

	f.workspaceRepo.EXPECT().GetByID(gomock.Any(), "ws1").Return(safeWorkspace(), nil)
	f.templateRepo.EXPECT().GetByID(gomock.Any(), "ws1", "tpl-1").Return(approvedTemplate(), nil)

	req := sendRequest()
	req.Variables.Body = nil

	_, err := f.svc.SendTemplate(context.Background(), req)
	assert.True(t, domain.IsErrorKind(err, domain.ErrKindVariableCountMismatch))
}

func TestSendTemplateOptedOutContact(t *testing.T) {
	f := newMessageFixture(t, false)
	contact := optedInContact()
	contact.OptIn.Status = false

	f.workspaceRepo.EXPECT().GetByID(gomock.Any(), "ws1").Return(safeWorkspace(), nil)
	f.templateRepo.EXPECT().GetByID(gomock.Any(), "ws1", "tpl-1").Return(approvedTemplate(), nil)
	f.contactRepo.EXPECT().GetByPhone(gomock.Any(), "ws1", "919900112233").Return(contact, nil)

	_, err := f.svc.SendTemplate(context.Background(), sendRequest())
	assert.True(t, domain.IsErrorKind(err, domain.ErrKindOptedOut))
}

func TestSendTemplateOptedOutContactByID(t *testing.T) {
	f := newMessageFixture(t, false)
	contact := optedInContact()
	contact.OptIn.Status = false

	f.workspaceRepo.EXPECT().GetByID(gomock.Any(), "ws1").Return(safeWorkspace(), nil)
	f.templateRepo.EXPECT().GetByID(gomock.Any(), "ws1", "tpl-1").Return(approvedTemplate(), nil)

	// The phone lookup misses, but the explicit contact id names an
	// opted-out record; the gate still holds.
	f.contactRepo.EXPECT().GetByPhone(gomock.Any(), "ws1", "919900112233").
		Return(nil, &domain.ErrNotFound{Entity: "contact", ID: "919900112233"})
	f.contactRepo.EXPECT().GetByID(gomock.Any(), "ws1", "contact-1").Return(contact, nil)

	req := sendRequest()
	req.ContactID = "contact-1"

	_, err := f.svc.SendTemplate(context.Background(), req)
	assert.True(t, domain.IsErrorKind(err, domain.ErrKindOptedOut))
}

func TestSendTemplateRateLimitCarriesBudgets(t *testing.T) {
	f := newMessageFixture(t, false)
	ws := safeWorkspace()
	budgets := &domain.RemainingBudgets{PerSecond: 0, Day: 50}

	f.workspaceRepo.EXPECT().GetByID(gomock.Any(), "ws1").Return(ws, nil)
	f.templateRepo.EXPECT().GetByID(gomock.Any(), "ws1", "tpl-1").Return(approvedTemplate(), nil)
	f.contactRepo.EXPECT().GetByPhone(gomock.Any(), "ws1", "919900112233").
		Return(nil, &domain.ErrNotFound{Entity: "contact", ID: "919900112233"})
	f.rateLimitSvc.EXPECT().CheckMessageSend(gomock.Any(), ws).
		Return(budgets, domain.NewLimitError(domain.ErrKindRateLimitExceeded, 1, "message rate limit exceeded"))

	_, err := f.svc.SendTemplate(context.Background(), sendRequest())
	require.Error(t, err)

	se, ok := domain.AsSendError(err)
	require.True(t, ok)
	assert.Same(t, budgets, se.Details["budgets"])
}

func TestSendTemplateCreatesContactOnFirstSend(t *testing.T) {
	f := newMessageFixture(t, false)
	ws := safeWorkspace()

	f.workspaceRepo.EXPECT().GetByID(gomock.Any(), "ws1").Return(ws, nil)
	f.templateRepo.EXPECT().GetByID(gomock.Any(), "ws1", "tpl-1").Return(approvedTemplate(), nil)
	f.contactRepo.EXPECT().GetByPhone(gomock.Any(), "ws1", "919900112233").
		Return(nil, &domain.ErrNotFound{Entity: "contact", ID: "919900112233"})
	f.rateLimitSvc.EXPECT().CheckMessageSend(gomock.Any(), ws).Return(&domain.RemainingBudgets{}, nil)
	f.provider.EXPECT().SendTemplateMessage(gomock.Any(), "phone-1", gomock.Any()).Return("wamid.out1", nil)

	f.contactRepo.EXPECT().Upsert(gomock.Any(), "ws1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, contact *domain.Contact) (bool, error) {
			assert.Equal(t, "919900112233", contact.Phone)
			assert.True(t, contact.OptIn.Status)
			assert.Equal(t, domain.OptInViaAPI, contact.OptIn.Via)
			return true, nil
		})
	f.conversationSvc.EXPECT().
		OpenForOutbound(gomock.Any(), "ws1", gomock.Any(), gomock.Any(), gomock.Any(), "template").
		Return(&domain.Conversation{ID: "conv-1"}, true, nil)
	f.messageRepo.EXPECT().Create(gomock.Any(), "ws1", gomock.Any()).Return(nil)
	f.usageRepo.EXPECT().Append(gomock.Any(), "ws1", gomock.Any()).Return(nil)
	f.workspaceRepo.EXPECT().IncrementMessageUsage(gomock.Any(), "ws1", gomock.Any()).Return(nil)
	f.eventBus.EXPECT().Publish(gomock.Any(), gomock.Any())

	_, err := f.svc.SendTemplate(context.Background(), sendRequest())
	assert.NoError(t, err)
}

func TestSendTemplateTokenExpiredPausesCampaign(t *testing.T) {
	f := newMessageFixture(t, false)
	ws := safeWorkspace()
	campaign := &domain.Campaign{ID: "camp-1", Status: domain.CampaignRunning}

	f.workspaceRepo.EXPECT().GetByID(gomock.Any(), "ws1").Return(ws, nil)
	f.templateRepo.EXPECT().GetByID(gomock.Any(), "ws1", "tpl-1").Return(approvedTemplate(), nil)
	f.contactRepo.EXPECT().GetByPhone(gomock.Any(), "ws1", "919900112233").Return(optedInContact(), nil)
	f.rateLimitSvc.EXPECT().CheckMessageSend(gomock.Any(), ws).Return(&domain.RemainingBudgets{}, nil)
	f.provider.EXPECT().SendTemplateMessage(gomock.Any(), "phone-1", gomock.Any()).
		Return("", domain.NewSendError(domain.ErrKindTokenExpired, "system token rejected"))

	f.campaignRepo.EXPECT().GetByID(gomock.Any(), "ws1", "camp-1").Return(campaign, nil)
	f.campaignRepo.EXPECT().Update(gomock.Any(), "ws1", campaign).Return(nil)
	f.campaignRepo.EXPECT().PauseBatches(gomock.Any(), "ws1", "camp-1").Return(int64(1), nil)
	f.opsMailer.EXPECT().SendTokenExpiredAlert("owner@acme.test", "Acme").Return(nil)

	req := sendRequest()
	req.CampaignID = "camp-1"

	_, err := f.svc.SendTemplate(context.Background(), req)
	assert.True(t, domain.IsErrorKind(err, domain.ErrKindTokenExpired))
	assert.Equal(t, domain.CampaignPaused, campaign.Status)
	assert.Equal(t, string(domain.ErrKindTokenExpired), campaign.PauseReason)
}

func TestSendTemplatePersistFailureKeepsProviderID(t *testing.T) {
	f := newMessageFixture(t, false)
	ws := safeWorkspace()

	f.workspaceRepo.EXPECT().GetByID(gomock.Any(), "ws1").Return(ws, nil)
	f.templateRepo.EXPECT().GetByID(gomock.Any(), "ws1", "tpl-1").Return(approvedTemplate(), nil)
	f.contactRepo.EXPECT().GetByPhone(gomock.Any(), "ws1", "919900112233").Return(optedInContact(), nil)
	f.rateLimitSvc.EXPECT().CheckMessageSend(gomock.Any(), ws).Return(&domain.RemainingBudgets{}, nil)
	f.provider.EXPECT().SendTemplateMessage(gomock.Any(), "phone-1", gomock.Any()).Return("wamid.out1", nil)
	f.conversationSvc.EXPECT().
		OpenForOutbound(gomock.Any(), "ws1", "contact-1", gomock.Any(), gomock.Any(), "template").
		Return(nil, false, errors.New("database is down"))

	result, err := f.svc.SendTemplate(context.Background(), sendRequest())
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "wamid.out1", result.ProviderMessageID)
	assert.Nil(t, result.Message)
}

func TestSendBulkMixedResults(t *testing.T) {
	f := newMessageFixture(t, false)
	ws := safeWorkspace()
	// Lift the pacing interval out of the test's way.
	ws.Settings.RateLimits = &domain.RateLimitOverrides{MessagesPerSecond: 1000}

	f.workspaceRepo.EXPECT().GetByID(gomock.Any(), "ws1").Return(ws, nil).Times(3)
	f.templateRepo.EXPECT().GetByID(gomock.Any(), "ws1", "tpl-1").Return(approvedTemplate(), nil).Times(3)

	// First recipient succeeds.
	f.contactRepo.EXPECT().GetByPhone(gomock.Any(), "ws1", "919900112233").Return(optedInContact(), nil)
	f.rateLimitSvc.EXPECT().CheckMessageSend(gomock.Any(), ws).Return(&domain.RemainingBudgets{Day: 42}, nil)
	f.provider.EXPECT().SendTemplateMessage(gomock.Any(), "phone-1", gomock.Any()).Return("wamid.bulk1", nil)
	f.conversationSvc.EXPECT().
		OpenForOutbound(gomock.Any(), "ws1", gomock.Any(), gomock.Any(), gomock.Any(), "template").
		Return(&domain.Conversation{ID: "conv-1"}, false, nil)
	f.messageRepo.EXPECT().Create(gomock.Any(), "ws1", gomock.Any()).Return(nil)
	f.usageRepo.EXPECT().Append(gomock.Any(), "ws1", gomock.Any()).Return(nil)
	f.workspaceRepo.EXPECT().IncrementMessageUsage(gomock.Any(), "ws1", gomock.Any()).Return(nil)
	f.eventBus.EXPECT().Publish(gomock.Any(), gomock.Any())

	// Second recipient is opted out.
	optedOut := optedInContact()
	optedOut.ID = "contact-2"
	optedOut.Phone = "919900112299"
	optedOut.OptIn.Status = false
	f.contactRepo.EXPECT().GetByPhone(gomock.Any(), "ws1", "919900112299").Return(optedOut, nil)

	result, err := f.svc.SendBulk(context.Background(), &domain.SendBulkRequest{
		WorkspaceID: "ws1",
		TemplateID:  "tpl-1",
		Recipients: []domain.BulkRecipient{
			{To: "919900112233", Variables: domain.TemplateVariables{Body: []string{"#1"}}},
			{To: "919900112299", Variables: domain.TemplateVariables{Body: []string{"#2"}}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Results, 2)
	assert.True(t, result.Results[0].Success)
	assert.Equal(t, "wamid.bulk1", result.Results[0].ProviderMessageID)
	require.NotNil(t, result.Results[1].Error)
	assert.Equal(t, domain.ErrKindOptedOut, result.Results[1].Error.Kind)
}

func TestListDecryptsBodies(t *testing.T) {
	f := newMessageFixture(t, true)

	encrypted, err := crypto.EncryptString("hello plain", testSecretKey)
	require.NoError(t, err)

	f.messageRepo.EXPECT().List(gomock.Any(), "ws1", gomock.Any()).Return(&domain.MessageListResult{
		Messages: []*domain.Message{
			{ID: "msg-1", Body: encrypted},
			{ID: "msg-2", Body: ""},
		},
	}, nil)

	result, err := f.svc.List(context.Background(), "ws1", domain.MessageListParams{})
	require.NoError(t, err)

	assert.Equal(t, "hello plain", result.Messages[0].Body)
	assert.Empty(t, result.Messages[1].Body)
}
