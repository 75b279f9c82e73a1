package service

import (
	"context"
	"time"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/pkg/logger"
	"github.com/Waypost/waypost/pkg/ratelimiter"
)

// Fixed-window namespaces. The per-second and per-minute limits live in the
// in-memory limiter; the daily and monthly limits live on the workspace
// record so they survive restarts.
const (
	burstNamespacePrefix = "msg_burst:"
	apiNamespacePrefix   = "api_minute:"
)

// RateLimitService implements domain.RateLimitServiceInterface. Every answer
// carries the remaining budgets for all five limits so callers can pace
// themselves without probing.
type RateLimitService struct {
	limiter *ratelimiter.RateLimiter
	logger  logger.Logger
}

// NewRateLimitService creates a new rate limit service
func NewRateLimitService(log logger.Logger) *RateLimitService {
	return &RateLimitService{
		limiter: ratelimiter.NewRateLimiter(),
		logger:  log,
	}
}

// secondsToUTCMidnight returns how long until the daily counters roll over.
func secondsToUTCMidnight(now time.Time) int {
	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
	return int(midnight.Sub(now).Seconds()) + 1
}

// secondsToNextUTCMonth returns how long until the monthly counter rolls over.
func secondsToNextUTCMonth(now time.Time) int {
	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return int(first.Sub(now).Seconds()) + 1
}

// ensurePolicies registers the workspace's current limits with the in-memory
// limiter. Limits can change between calls (plan change, override update), so
// the policies are refreshed on every check.
func (s *RateLimitService) ensurePolicies(workspace *domain.Workspace, limits domain.PlanLimits) (burstNS, apiNS string) {
	burstNS = burstNamespacePrefix + workspace.ID
	apiNS = apiNamespacePrefix + workspace.ID
	s.limiter.SetPolicy(burstNS, ratelimiter.Policy{Limit: limits.MessagesPerSecond, Window: time.Second})
	s.limiter.SetPolicy(apiNS, ratelimiter.Policy{Limit: limits.APICallsPerMinute, Window: time.Minute})
	return burstNS, apiNS
}

func (s *RateLimitService) budgets(workspace *domain.Workspace, limits domain.PlanLimits, burstNS, apiNS string, now time.Time) *domain.RemainingBudgets {
	day, month, templatesDay := workspace.CurrentUsage(now)
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}
		return v
	}
	return &domain.RemainingBudgets{
		PerSecond:       s.limiter.Remaining(burstNS, workspace.ID),
		Day:             clamp(limits.MessagesPerDay - day),
		Month:           clamp(limits.MessagesPerMonth - month),
		TemplatesPerDay: clamp(limits.TemplatesPerDay - templatesDay),
		APIPerMinute:    s.limiter.Remaining(apiNS, workspace.ID),
	}
}

// CheckMessageSend consumes one message slot. The cheap persistent checks run
// first so a day-capped workspace never burns burst tokens.
func (s *RateLimitService) CheckMessageSend(ctx context.Context, workspace *domain.Workspace) (*domain.RemainingBudgets, error) {
	now := time.Now().UTC()
	limits := workspace.EffectiveLimits()
	burstNS, apiNS := s.ensurePolicies(workspace, limits)

	day, month, _ := workspace.CurrentUsage(now)
	if day >= limits.MessagesPerDay {
		return s.budgets(workspace, limits, burstNS, apiNS, now),
			domain.NewLimitError(domain.ErrKindDailyLimitExceeded, secondsToUTCMidnight(now),
				"daily message limit of %d reached", limits.MessagesPerDay)
	}
	if month >= limits.MessagesPerMonth {
		return s.budgets(workspace, limits, burstNS, apiNS, now),
			domain.NewLimitError(domain.ErrKindMonthlyLimitExceeded, secondsToNextUTCMonth(now),
				"monthly message limit of %d reached", limits.MessagesPerMonth)
	}

	if !s.limiter.Allow(burstNS, workspace.ID) {
		retryAfter := s.limiter.GetRemainingWindow(burstNS, workspace.ID)
		return s.budgets(workspace, limits, burstNS, apiNS, now),
			domain.NewLimitError(domain.ErrKindRateLimitExceeded, retryAfter,
				"per-second send limit of %d reached", limits.MessagesPerSecond)
	}

	return s.budgets(workspace, limits, burstNS, apiNS, now), nil
}

// CheckTemplateSubmission consumes one template submission slot.
func (s *RateLimitService) CheckTemplateSubmission(ctx context.Context, workspace *domain.Workspace) (*domain.RemainingBudgets, error) {
	now := time.Now().UTC()
	limits := workspace.EffectiveLimits()
	burstNS, apiNS := s.ensurePolicies(workspace, limits)

	_, _, templatesDay := workspace.CurrentUsage(now)
	if templatesDay >= limits.TemplatesPerDay {
		return s.budgets(workspace, limits, burstNS, apiNS, now),
			domain.NewLimitError(domain.ErrKindTemplateLimitExceeded, secondsToUTCMidnight(now),
				"daily template submission limit of %d reached", limits.TemplatesPerDay)
	}
	return s.budgets(workspace, limits, burstNS, apiNS, now), nil
}

// CheckAPIRequest consumes one API request slot for the workspace.
func (s *RateLimitService) CheckAPIRequest(ctx context.Context, workspace *domain.Workspace) (*domain.RemainingBudgets, error) {
	now := time.Now().UTC()
	limits := workspace.EffectiveLimits()
	burstNS, apiNS := s.ensurePolicies(workspace, limits)

	if !s.limiter.Allow(apiNS, workspace.ID) {
		retryAfter := s.limiter.GetRemainingWindow(apiNS, workspace.ID)
		return s.budgets(workspace, limits, burstNS, apiNS, now),
			domain.NewLimitError(domain.ErrKindRateLimitExceeded, retryAfter,
				"API request limit of %d per minute reached", limits.APICallsPerMinute)
	}
	return s.budgets(workspace, limits, burstNS, apiNS, now), nil
}

// Budgets reports the remaining budgets without consuming anything.
func (s *RateLimitService) Budgets(ctx context.Context, workspace *domain.Workspace) *domain.RemainingBudgets {
	now := time.Now().UTC()
	limits := workspace.EffectiveLimits()
	burstNS, apiNS := s.ensurePolicies(workspace, limits)
	return s.budgets(workspace, limits, burstNS, apiNS, now)
}

// Stop shuts down the limiter sweep goroutine.
func (s *RateLimitService) Stop() {
	s.limiter.Stop()
}
