package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/pkg/logger"
)

func freeWorkspace(id string) *domain.Workspace {
	return &domain.Workspace{
		ID:       id,
		Name:     "Test Workspace",
		PlanTier: domain.PlanFree,
	}
}

// settleWindow sleeps into the next second when too little of the current
// fixed window remains, so burst assertions never straddle a rollover.
func settleWindow() {
	next := time.Now().Truncate(time.Second).Add(time.Second)
	if time.Until(next) < 200*time.Millisecond {
		time.Sleep(time.Until(next))
	}
}

func TestCheckMessageSendWithinLimits(t *testing.T) {
	svc := NewRateLimitService(logger.NewTestLogger(t))
	defer svc.Stop()

	settleWindow()

	budgets, err := svc.CheckMessageSend(context.Background(), freeWorkspace("ws1"))
	require.NoError(t, err)
	require.NotNil(t, budgets)

	limits := domain.PlanFree.Limits()
	assert.Equal(t, limits.MessagesPerDay, budgets.Day)
	assert.Equal(t, limits.MessagesPerMonth, budgets.Month)
	// One burst token was consumed by the check itself.
	assert.Equal(t, limits.MessagesPerSecond-1, budgets.PerSecond)
}

func TestCheckMessageSendBurstLimit(t *testing.T) {
	svc := NewRateLimitService(logger.NewTestLogger(t))
	defer svc.Stop()

	settleWindow()

	// The free plan allows one message per second.
	ws := freeWorkspace("ws1")
	_, err := svc.CheckMessageSend(context.Background(), ws)
	require.NoError(t, err)

	budgets, err := svc.CheckMessageSend(context.Background(), ws)
	require.Error(t, err)
	assert.True(t, domain.IsErrorKind(err, domain.ErrKindRateLimitExceeded))
	assert.Zero(t, budgets.PerSecond)

	se, ok := domain.AsSendError(err)
	require.True(t, ok)
	assert.Greater(t, se.RetryAfter, 0)
}

func TestCheckMessageSendDailyLimit(t *testing.T) {
	svc := NewRateLimitService(logger.NewTestLogger(t))
	defer svc.Stop()

	now := time.Now().UTC()
	ws := freeWorkspace("ws1")
	ws.MessagesToday = domain.PlanFree.Limits().MessagesPerDay
	ws.UsageDay = domain.UsageDayKey(now)

	budgets, err := svc.CheckMessageSend(context.Background(), ws)
	require.Error(t, err)
	assert.True(t, domain.IsErrorKind(err, domain.ErrKindDailyLimitExceeded))
	assert.Zero(t, budgets.Day)
	// The daily cap must not burn a burst token.
	assert.Equal(t, domain.PlanFree.Limits().MessagesPerSecond, budgets.PerSecond)

	se, _ := domain.AsSendError(err)
	assert.Greater(t, se.RetryAfter, 0)
	assert.LessOrEqual(t, se.RetryAfter, 24*3600+1)
}

func TestCheckMessageSendMonthlyLimit(t *testing.T) {
	svc := NewRateLimitService(logger.NewTestLogger(t))
	defer svc.Stop()

	now := time.Now().UTC()
	ws := freeWorkspace("ws1")
	ws.MessagesThisMonth = domain.PlanFree.Limits().MessagesPerMonth
	ws.UsageMonth = domain.UsageMonthKey(now)

	_, err := svc.CheckMessageSend(context.Background(), ws)
	require.Error(t, err)
	assert.True(t, domain.IsErrorKind(err, domain.ErrKindMonthlyLimitExceeded))
}

func TestStaleUsageCountersIgnored(t *testing.T) {
	svc := NewRateLimitService(logger.NewTestLogger(t))
	defer svc.Stop()

	// Counters anchored to a previous day count as zero.
	ws := freeWorkspace("ws1")
	ws.MessagesToday = 10_000
	ws.UsageDay = "2020-01-01"
	ws.MessagesThisMonth = 10_000
	ws.UsageMonth = "2020-01"

	_, err := svc.CheckMessageSend(context.Background(), ws)
	assert.NoError(t, err)
}

func TestCheckTemplateSubmissionLimit(t *testing.T) {
	svc := NewRateLimitService(logger.NewTestLogger(t))
	defer svc.Stop()

	now := time.Now().UTC()
	ws := freeWorkspace("ws1")

	_, err := svc.CheckTemplateSubmission(context.Background(), ws)
	require.NoError(t, err)

	ws.TemplateSubmissionsToday = domain.PlanFree.Limits().TemplatesPerDay
	ws.UsageDay = domain.UsageDayKey(now)

	budgets, err := svc.CheckTemplateSubmission(context.Background(), ws)
	require.Error(t, err)
	assert.True(t, domain.IsErrorKind(err, domain.ErrKindTemplateLimitExceeded))
	assert.Zero(t, budgets.TemplatesPerDay)
}

func TestCheckAPIRequestLimit(t *testing.T) {
	svc := NewRateLimitService(logger.NewTestLogger(t))
	defer svc.Stop()

	ws := freeWorkspace("ws1")
	limit := domain.PlanFree.Limits().APICallsPerMinute

	for i := 0; i < limit; i++ {
		_, err := svc.CheckAPIRequest(context.Background(), ws)
		require.NoError(t, err)
	}

	_, err := svc.CheckAPIRequest(context.Background(), ws)
	require.Error(t, err)
	assert.True(t, domain.IsErrorKind(err, domain.ErrKindRateLimitExceeded))
}

func TestWorkspacesAreIsolated(t *testing.T) {
	svc := NewRateLimitService(logger.NewTestLogger(t))
	defer svc.Stop()

	settleWindow()

	_, err := svc.CheckMessageSend(context.Background(), freeWorkspace("ws1"))
	require.NoError(t, err)

	// Exhausting ws1's burst budget must not affect ws2.
	_, err = svc.CheckMessageSend(context.Background(), freeWorkspace("ws1"))
	require.Error(t, err)

	_, err = svc.CheckMessageSend(context.Background(), freeWorkspace("ws2"))
	assert.NoError(t, err)
}

func TestRateLimitOverridesApply(t *testing.T) {
	svc := NewRateLimitService(logger.NewTestLogger(t))
	defer svc.Stop()

	settleWindow()

	ws := freeWorkspace("ws1")
	ws.Settings.RateLimits = &domain.RateLimitOverrides{MessagesPerSecond: 3}

	// Three sends pass where the free plan would allow one.
	for i := 0; i < 3; i++ {
		_, err := svc.CheckMessageSend(context.Background(), ws)
		require.NoError(t, err)
	}
	_, err := svc.CheckMessageSend(context.Background(), ws)
	assert.True(t, domain.IsErrorKind(err, domain.ErrKindRateLimitExceeded))
}

func TestBudgetsDoesNotConsume(t *testing.T) {
	svc := NewRateLimitService(logger.NewTestLogger(t))
	defer svc.Stop()

	ws := freeWorkspace("ws1")
	limits := domain.PlanFree.Limits()

	for i := 0; i < 5; i++ {
		budgets := svc.Budgets(context.Background(), ws)
		assert.Equal(t, limits.MessagesPerSecond, budgets.PerSecond)
		assert.Equal(t, limits.APICallsPerMinute, budgets.APIPerMinute)
	}
}
