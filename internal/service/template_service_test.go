package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/internal/domain/mocks"
	"github.com/Waypost/waypost/pkg/logger"
)

type templateFixture struct {
	svc           *TemplateService
	workspaceRepo *mocks.MockWorkspaceRepository
	templateRepo  *mocks.MockTemplateRepository
	provider      *mocks.MockProviderClient
	rateLimitSvc  *mocks.MockRateLimitServiceInterface
	eventBus      *mocks.MockEventBus
}

func newTemplateFixture(t *testing.T) *templateFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &templateFixture{
		workspaceRepo: mocks.NewMockWorkspaceRepository(ctrl),
		templateRepo:  mocks.NewMockTemplateRepository(ctrl),
		provider:      mocks.NewMockProviderClient(ctrl),
		rateLimitSvc:  mocks.NewMockRateLimitServiceInterface(ctrl),
		eventBus:      mocks.NewMockEventBus(ctrl),
	}
	f.svc = NewTemplateService(
		f.workspaceRepo, f.templateRepo, f.provider, f.rateLimitSvc,
		f.eventBus, logger.NewTestLogger(t), "parent-waba",
	)
	return f
}

func draftTemplate() *domain.Template {
	return &domain.Template{
		ID:          "tpl-1",
		WorkspaceID: "ws1",
		Name:        "order_update",
		Language:    "en_US",
		Category:    domain.CategoryUtility,
		Components: domain.TemplateComponents{
			BodyText: "Your order {{1}} has shipped.",
			Examples: []string{"#1042"},
		},
		Status: domain.TemplateDraft,
		Active: true,
	}
}

func TestCreateTemplate(t *testing.T) {
	f := newTemplateFixture(t)

	req := &domain.CreateTemplateRequest{
		WorkspaceID: "ws1",
		Name:        "order_update",
		Language:    "en_US",
		Category:    domain.CategoryUtility,
		Components:  domain.TemplateComponents{BodyText: "Your order {{1}} has shipped."},
	}

	f.templateRepo.EXPECT().GetByName(gomock.Any(), "ws1", "order_update", "en_US").
		Return(nil, &domain.ErrTemplateNotFound{ID: "order_update"})
	f.templateRepo.EXPECT().Create(gomock.Any(), "ws1", gomock.Any()).Return(nil)

	template, err := f.svc.CreateTemplate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, domain.TemplateDraft, template.Status)
	assert.True(t, template.Active)
	assert.NotEmpty(t, template.ID)
	assert.Empty(t, template.ProviderName)
}

func TestCreateTemplateRejectsDuplicateName(t *testing.T) {
	f := newTemplateFixture(t)

	req := &domain.CreateTemplateRequest{
		WorkspaceID: "ws1",
		Name:        "order_update",
		Language:    "en_US",
		Category:    domain.CategoryUtility,
		Components:  domain.TemplateComponents{BodyText: "hi"},
	}

	f.templateRepo.EXPECT().GetByName(gomock.Any(), "ws1", "order_update", "en_US").
		Return(draftTemplate(), nil)

	_, err := f.svc.CreateTemplate(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCreateTemplateValidation(t *testing.T) {
	f := newTemplateFixture(t)

	tests := []struct {
		name string
		req  *domain.CreateTemplateRequest
	}{
		{"uppercase name", &domain.CreateTemplateRequest{WorkspaceID: "ws1", Name: "Order", Language: "en_US", Category: domain.CategoryUtility, Components: domain.TemplateComponents{BodyText: "x"}}},
		{"missing body", &domain.CreateTemplateRequest{WorkspaceID: "ws1", Name: "order", Language: "en_US", Category: domain.CategoryUtility}},
		{"bad category", &domain.CreateTemplateRequest{WorkspaceID: "ws1", Name: "order", Language: "en_US", Category: "SPAM", Components: domain.TemplateComponents{BodyText: "x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateTemplate(context.Background(), tt.req)
			assert.Error(t, err)
		})
	}
}

func TestSubmitTemplate(t *testing.T) {
	f := newTemplateFixture(t)
	ws := safeWorkspace()
	template := draftTemplate()

	f.workspaceRepo.EXPECT().GetByID(gomock.Any(), "ws1").Return(ws, nil)
	f.templateRepo.EXPECT().GetByID(gomock.Any(), "ws1", "tpl-1").Return(template, nil)
	f.rateLimitSvc.EXPECT().CheckTemplateSubmission(gomock.Any(), ws).Return(nil, nil)

	f.provider.EXPECT().SubmitTemplate(gomock.Any(), "parent-waba", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, submission *domain.ProviderTemplateSubmission) (string, error) {
			assert.Equal(t, "ws1_order_update", submission.Name)
			assert.Equal(t, "en_US", submission.Language)
			assert.Equal(t, domain.CategoryUtility, submission.Category)
			return "provider-tpl-9", nil
		})

	f.templateRepo.EXPECT().Update(gomock.Any(), "ws1", template).Return(nil)
	f.workspaceRepo.EXPECT().IncrementTemplateSubmissions(gomock.Any(), "ws1", gomock.Any()).Return(nil)

	got, err := f.svc.SubmitTemplate(context.Background(), &domain.SubmitTemplateRequest{WorkspaceID: "ws1", TemplateID: "tpl-1"})
	require.NoError(t, err)

	assert.Equal(t, domain.TemplatePending, got.Status)
	assert.Equal(t, "provider-tpl-9", got.ProviderTemplateID)
	assert.Equal(t, "ws1_order_update", got.ProviderName)
	require.Len(t, got.History, 1)
	assert.Equal(t, domain.ApprovalSourceLocal, got.History[0].Source)
	assert.Equal(t, domain.TemplateDraft, got.History[0].PreviousStatus)
}

func TestSubmitTemplateRejectsNonDraft(t *testing.T) {
	f := newTemplateFixture(t)
	ws := safeWorkspace()
	template := draftTemplate()
	template.Status = domain.TemplateApproved

	f.workspaceRepo.EXPECT().GetByID(gomock.Any(), "ws1").Return(ws, nil)
	f.templateRepo.EXPECT().GetByID(gomock.Any(), "ws1", "tpl-1").Return(template, nil)

	_, err := f.svc.SubmitTemplate(context.Background(), &domain.SubmitTemplateRequest{WorkspaceID: "ws1", TemplateID: "tpl-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only DRAFT or REJECTED")
}

func TestSubmitTemplateRespectsSubmissionBudget(t *testing.T) {
	f := newTemplateFixture(t)
	ws := safeWorkspace()

	f.workspaceRepo.EXPECT().GetByID(gomock.Any(), "ws1").Return(ws, nil)
	f.templateRepo.EXPECT().GetByID(gomock.Any(), "ws1", "tpl-1").Return(draftTemplate(), nil)
	f.rateLimitSvc.EXPECT().CheckTemplateSubmission(gomock.Any(), ws).
		Return(nil, domain.NewLimitError(domain.ErrKindTemplateLimitExceeded, 3600, "template submission limit reached"))

	_, err := f.svc.SubmitTemplate(context.Background(), &domain.SubmitTemplateRequest{WorkspaceID: "ws1", TemplateID: "tpl-1"})
	assert.True(t, domain.IsErrorKind(err, domain.ErrKindTemplateLimitExceeded))
}

func TestSubmitTemplateProviderFailureLeavesDraft(t *testing.T) {
	f := newTemplateFixture(t)
	ws := safeWorkspace()
	template := draftTemplate()

	f.workspaceRepo.EXPECT().GetByID(gomock.Any(), "ws1").Return(ws, nil)
	f.templateRepo.EXPECT().GetByID(gomock.Any(), "ws1", "tpl-1").Return(template, nil)
	f.rateLimitSvc.EXPECT().CheckTemplateSubmission(gomock.Any(), ws).Return(nil, nil)
	f.provider.EXPECT().SubmitTemplate(gomock.Any(), "parent-waba", gomock.Any()).
		Return("", errors.New("provider unavailable"))

	_, err := f.svc.SubmitTemplate(context.Background(), &domain.SubmitTemplateRequest{WorkspaceID: "ws1", TemplateID: "tpl-1"})
	require.Error(t, err)
	assert.Equal(t, domain.TemplateDraft, template.Status)
}

func TestBuildSubmissionComponents(t *testing.T) {
	c := &domain.TemplateComponents{
		HeaderType: domain.HeaderText,
		HeaderText: "Order update",
		BodyText:   "Order {{1}} is {{2}}.",
		FooterText: "Reply STOP to opt out",
		Buttons: []domain.TemplateButton{
			{Type: domain.ButtonURL, Text: "Track", URL: "https://acme.test/t/{{1}}"},
			{Type: domain.ButtonQuickReply, Text: "Help"},
		},
		Examples: []string{"#1042", "shipped"},
	}

	components := buildSubmissionComponents(c)
	require.Len(t, components, 4)

	assert.Equal(t, "HEADER", components[0]["type"])
	assert.Equal(t, "TEXT", components[0]["format"])

	body := components[1]
	assert.Equal(t, "BODY", body["type"])
	example, ok := body["example"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, [][]string{{"#1042", "shipped"}}, example["body_text"])

	assert.Equal(t, "FOOTER", components[2]["type"])

	buttons, ok := components[3]["buttons"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, buttons, 2)
	assert.Equal(t, "URL", buttons[0]["type"])
	assert.Equal(t, "https://acme.test/t/{{1}}", buttons[0]["url"])
	assert.Equal(t, "QUICK_REPLY", buttons[1]["type"])
}

func TestBuildSubmissionComponentsMediaHeader(t *testing.T) {
	c := &domain.TemplateComponents{
		HeaderType: domain.HeaderImage,
		BodyText:   "See attached.",
	}

	components := buildSubmissionComponents(c)
	require.Len(t, components, 2)
	assert.Equal(t, "HEADER", components[0]["type"])
	assert.Equal(t, "IMAGE", components[0]["format"])
	_, hasExample := components[1]["example"]
	assert.False(t, hasExample)
}

func TestDeleteTemplateSubmitted(t *testing.T) {
	f := newTemplateFixture(t)
	template := draftTemplate()
	template.Status = domain.TemplateApproved
	template.ProviderName = "ws1_order_update"

	f.templateRepo.EXPECT().GetByID(gomock.Any(), "ws1", "tpl-1").Return(template, nil)
	f.provider.EXPECT().DeleteTemplate(gomock.Any(), "parent-waba", "ws1_order_update").Return(nil)
	f.templateRepo.EXPECT().Update(gomock.Any(), "ws1", template).Return(nil)

	require.NoError(t, f.svc.DeleteTemplate(context.Background(), &domain.DeleteTemplateRequest{WorkspaceID: "ws1", TemplateID: "tpl-1"}))
	assert.Equal(t, domain.TemplateDeleted, template.Status)
	assert.False(t, template.Active)
}

func TestDeleteTemplateDraftSkipsProvider(t *testing.T) {
	f := newTemplateFixture(t)
	template := draftTemplate()

	f.templateRepo.EXPECT().GetByID(gomock.Any(), "ws1", "tpl-1").Return(template, nil)
	f.templateRepo.EXPECT().Update(gomock.Any(), "ws1", template).Return(nil)

	require.NoError(t, f.svc.DeleteTemplate(context.Background(), &domain.DeleteTemplateRequest{WorkspaceID: "ws1", TemplateID: "tpl-1"}))
}

func TestApplyStatusWebhookApproved(t *testing.T) {
	f := newTemplateFixture(t)
	template := draftTemplate()
	template.Status = domain.TemplatePending
	template.ProviderTemplateID = "provider-tpl-9"
	template.ProviderName = "ws1_order_update"

	f.templateRepo.EXPECT().GetByProviderTemplateID(gomock.Any(), "ws1", "provider-tpl-9").Return(template, nil)
	f.templateRepo.EXPECT().Update(gomock.Any(), "ws1", template).Return(nil)

	var published domain.EventPayload
	f.eventBus.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, event domain.EventPayload) {
			published = event
		})

	err := f.svc.ApplyStatusWebhook(context.Background(), &domain.TemplateStatusUpdate{
		WorkspaceID:        "ws1",
		Event:              "APPROVED",
		ProviderTemplateID: "provider-tpl-9",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TemplateApproved, template.Status)
	assert.True(t, template.Active)
	assert.Equal(t, domain.EventTemplateStatus, published.Type)

	change, ok := published.Data["change"].(domain.TemplateStatusChange)
	require.True(t, ok)
	assert.True(t, change.Authoritative)
	assert.Equal(t, domain.TemplatePending, change.PreviousStatus)
}

func TestApplyStatusWebhookRejectedCategorizes(t *testing.T) {
	f := newTemplateFixture(t)
	template := draftTemplate()
	template.Status = domain.TemplatePending
	template.ProviderName = "ws1_order_update"

	f.templateRepo.EXPECT().GetByProviderName(gomock.Any(), "ws1", "ws1_order_update").Return(template, nil)
	f.templateRepo.EXPECT().Update(gomock.Any(), "ws1", template).Return(nil)

	var published domain.EventPayload
	f.eventBus.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, event domain.EventPayload) {
			published = event
		})

	err := f.svc.ApplyStatusWebhook(context.Background(), &domain.TemplateStatusUpdate{
		WorkspaceID:  "ws1",
		Event:        "REJECTED",
		ProviderName: "ws1_order_update",
		Reason:       "Missing example for variable 1",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TemplateRejected, template.Status)
	assert.Equal(t, domain.RejectionMissingExample, template.RejectionCategory)
	assert.NotEmpty(t, template.RejectionHelp)

	change := published.Data["change"].(domain.TemplateStatusChange)
	require.NotNil(t, change.RejectionDetails)
	assert.Equal(t, domain.RejectionMissingExample, change.RejectionDetails.Category)
}

func TestApplyStatusWebhookResolvesWorkspaceByName(t *testing.T) {
	f := newTemplateFixture(t)
	template := draftTemplate()
	template.Status = domain.TemplatePending
	template.ProviderName = "ws1_order_update"

	f.workspaceRepo.EXPECT().List(gomock.Any()).
		Return([]*domain.Workspace{{ID: "other"}, {ID: "ws1"}}, nil)
	f.templateRepo.EXPECT().GetByProviderName(gomock.Any(), "ws1", "ws1_order_update").Return(template, nil)
	f.templateRepo.EXPECT().Update(gomock.Any(), "ws1", template).Return(nil)
	f.eventBus.EXPECT().Publish(gomock.Any(), gomock.Any())

	err := f.svc.ApplyStatusWebhook(context.Background(), &domain.TemplateStatusUpdate{
		Event:        "APPROVED",
		ProviderName: "ws1_order_update",
	})
	assert.NoError(t, err)
}

func TestApplyStatusWebhookUnroutableName(t *testing.T) {
	f := newTemplateFixture(t)

	err := f.svc.ApplyStatusWebhook(context.Background(), &domain.TemplateStatusUpdate{
		Event:        "APPROVED",
		ProviderName: "no-prefix",
	})
	assert.True(t, domain.IsErrorKind(err, domain.ErrKindUnroutedEvent))
}

func TestApplyStatusWebhookDuplicateDropped(t *testing.T) {
	f := newTemplateFixture(t)
	template := draftTemplate()
	template.Status = domain.TemplateApproved
	template.ProviderName = "ws1_order_update"
	template.LastWebhookEvent = "APPROVED"
	recent := time.Now().UTC().Add(-time.Second)
	template.LastWebhookUpdate = &recent

	f.templateRepo.EXPECT().GetByProviderName(gomock.Any(), "ws1", "ws1_order_update").Return(template, nil)

	// No Update, no publish.
	err := f.svc.ApplyStatusWebhook(context.Background(), &domain.TemplateStatusUpdate{
		WorkspaceID:  "ws1",
		Event:        "APPROVED",
		ProviderName: "ws1_order_update",
	})
	assert.NoError(t, err)
}

func TestApplyStatusWebhookUnknownEventIgnored(t *testing.T) {
	f := newTemplateFixture(t)
	template := draftTemplate()
	template.ProviderName = "ws1_order_update"

	f.templateRepo.EXPECT().GetByProviderName(gomock.Any(), "ws1", "ws1_order_update").Return(template, nil)

	err := f.svc.ApplyStatusWebhook(context.Background(), &domain.TemplateStatusUpdate{
		WorkspaceID:  "ws1",
		Event:        "SOMETHING_NEW",
		ProviderName: "ws1_order_update",
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.TemplateDraft, template.Status)
}

func TestApplyStatusWebhookApprovedForkSupersedes(t *testing.T) {
	f := newTemplateFixture(t)
	fork := draftTemplate()
	fork.ID = "tpl-2"
	fork.Status = domain.TemplatePending
	fork.ProviderName = "ws1_order_update_v2"
	fork.OriginalTemplateID = "tpl-1"

	original := draftTemplate()
	original.Status = domain.TemplateApproved

	f.templateRepo.EXPECT().GetByProviderName(gomock.Any(), "ws1", "ws1_order_update_v2").Return(fork, nil)
	f.templateRepo.EXPECT().GetByID(gomock.Any(), "ws1", "tpl-1").Return(original, nil)
	f.templateRepo.EXPECT().Update(gomock.Any(), "ws1", original).Return(nil)
	f.templateRepo.EXPECT().Update(gomock.Any(), "ws1", fork).Return(nil)
	f.eventBus.EXPECT().Publish(gomock.Any(), gomock.Any())

	err := f.svc.ApplyStatusWebhook(context.Background(), &domain.TemplateStatusUpdate{
		WorkspaceID:  "ws1",
		Event:        "APPROVED",
		ProviderName: "ws1_order_update_v2",
	})
	require.NoError(t, err)
	assert.False(t, original.Active)
}

func TestSyncTemplatesFillsGaps(t *testing.T) {
	f := newTemplateFixture(t)
	ws := safeWorkspace()

	pending := draftTemplate()
	pending.Status = domain.TemplatePending
	pending.ProviderName = "ws1_order_update"

	touched := draftTemplate()
	touched.ID = "tpl-3"
	touched.Status = domain.TemplatePending
	touched.ProviderName = "ws1_promo"
	recent := time.Now().UTC()
	touched.LastWebhookUpdate = &recent

	f.workspaceRepo.EXPECT().GetByID(gomock.Any(), "ws1").Return(ws, nil)
	f.provider.EXPECT().ListTemplates(gomock.Any(), "parent-waba").Return([]*domain.ProviderTemplateInfo{
		{ID: "p-1", Name: "ws1_order_update", Status: "APPROVED"},
		{ID: "p-2", Name: "ws1_promo", Status: "REJECTED"},
		{ID: "p-3", Name: "other_template", Status: "APPROVED"},
	}, nil)
	f.templateRepo.EXPECT().GetByProviderName(gomock.Any(), "ws1", "ws1_order_update").Return(pending, nil)
	f.templateRepo.EXPECT().GetByProviderName(gomock.Any(), "ws1", "ws1_promo").Return(touched, nil)
	f.templateRepo.EXPECT().Update(gomock.Any(), "ws1", pending).Return(nil)

	synced, err := f.svc.SyncTemplates(context.Background(), "ws1")
	require.NoError(t, err)

	// The webhook-touched template is skipped; sync only fills the gap.
	assert.Equal(t, 1, synced)
	assert.Equal(t, domain.TemplateApproved, pending.Status)
	assert.Equal(t, "p-1", pending.ProviderTemplateID)
	require.NotEmpty(t, pending.History)
	assert.Equal(t, domain.ApprovalSourceSync, pending.History[len(pending.History)-1].Source)
}
