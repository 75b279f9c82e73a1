package service

import (
	"context"
	"errors"
	"time"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/pkg/cache"
	"github.com/Waypost/waypost/pkg/logger"
)

// routerCacheTTL bounds how long a phone-to-workspace mapping (or a miss) is
// served without consulting the database.
const routerCacheTTL = 5 * time.Minute

// TenantRouterService implements domain.TenantRouterInterface on top of the
// workspace repository with a short TTL cache. Misses are cached too: a
// phone number the platform does not own keeps arriving with every webhook
// retry, and each lookup would otherwise hit the database.
type TenantRouterService struct {
	workspaceRepo domain.WorkspaceRepository
	cache         cache.Cache
	logger        logger.Logger
}

// NewTenantRouterService creates a new tenant router service
func NewTenantRouterService(workspaceRepo domain.WorkspaceRepository, log logger.Logger) *TenantRouterService {
	return &TenantRouterService{
		workspaceRepo: workspaceRepo,
		cache:         cache.NewInMemoryCache(routerCacheTTL),
		logger:        log,
	}
}

// GetWorkspaceByPhoneID resolves a phone number id to its workspace.
func (s *TenantRouterService) GetWorkspaceByPhoneID(ctx context.Context, phoneNumberID string) (*domain.Workspace, error) {
	if phoneNumberID == "" {
		return nil, &domain.ErrWorkspaceNotFound{ID: phoneNumberID}
	}

	value, err := s.cache.GetOrSet(phoneNumberID, routerCacheTTL, func() (interface{}, error) {
		workspace, err := s.workspaceRepo.GetByPhoneNumberID(ctx, phoneNumberID)
		if err != nil {
			var notFound *domain.ErrWorkspaceNotFound
			if errors.As(err, &notFound) {
				// Cache the miss as a nil value.
				return nil, nil
			}
			return nil, err
		}
		return workspace, nil
	})
	if err != nil {
		s.logger.WithField("phone_number_id", phoneNumberID).Error("Failed to resolve workspace for phone number")
		return nil, err
	}
	if value == nil {
		return nil, &domain.ErrWorkspaceNotFound{ID: phoneNumberID}
	}
	return value.(*domain.Workspace), nil
}

// InvalidatePhone drops the cache entry for one phone number id.
func (s *TenantRouterService) InvalidatePhone(phoneNumberID string) {
	if phoneNumberID == "" {
		return
	}
	s.cache.Delete(phoneNumberID)
}

// ClearPhoneCache drops every cached mapping.
func (s *TenantRouterService) ClearPhoneCache() {
	s.cache.Clear()
}

// Stop shuts down the cache cleanup goroutine.
func (s *TenantRouterService) Stop() {
	s.cache.Stop()
}
