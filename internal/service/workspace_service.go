package service

import (
	"context"
	"fmt"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/pkg/logger"
)

// WorkspaceService implements domain.WorkspaceServiceInterface
type WorkspaceService struct {
	repo   domain.WorkspaceRepository
	router domain.TenantRouterInterface
	logger logger.Logger
}

// NewWorkspaceService creates a new workspace service
func NewWorkspaceService(repo domain.WorkspaceRepository, router domain.TenantRouterInterface, log logger.Logger) *WorkspaceService {
	return &WorkspaceService{
		repo:   repo,
		router: router,
		logger: log,
	}
}

// CreateWorkspace creates the workspace record and its tenant database.
func (s *WorkspaceService) CreateWorkspace(ctx context.Context, req *domain.CreateWorkspaceRequest) (*domain.Workspace, error) {
	workspace, err := req.Validate()
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, workspace); err != nil {
		s.logger.WithField("workspace_id", workspace.ID).Error("Failed to create workspace record")
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	if err := s.repo.CreateDatabase(ctx, workspace.ID); err != nil {
		s.logger.WithField("workspace_id", workspace.ID).Error("Failed to create workspace database, rolling back record")
		if delErr := s.repo.Delete(ctx, workspace.ID); delErr != nil {
			s.logger.WithField("workspace_id", workspace.ID).Error("Failed to roll back workspace record")
		}
		return nil, fmt.Errorf("failed to create workspace database: %w", err)
	}

	s.logger.WithField("workspace_id", workspace.ID).Info("Workspace created")
	return workspace, nil
}

// GetWorkspace retrieves a workspace by ID
func (s *WorkspaceService) GetWorkspace(ctx context.Context, id string) (*domain.Workspace, error) {
	return s.repo.GetByID(ctx, id)
}

// ListWorkspaces retrieves all workspaces
func (s *WorkspaceService) ListWorkspaces(ctx context.Context) ([]*domain.Workspace, error) {
	return s.repo.List(ctx)
}

// AssignPhoneNumber binds a provider phone number to a workspace. The router
// cache entries are invalidated before the assignment is persisted so a
// reassigned number can never route to its previous owner.
func (s *WorkspaceService) AssignPhoneNumber(ctx context.Context, req *domain.AssignPhoneRequest) (*domain.Workspace, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	workspace, err := s.repo.GetByID(ctx, req.WorkspaceID)
	if err != nil {
		return nil, err
	}

	// Invalidate before persisting: the number and the workspace's previous
	// number both stop routing until the database answers again.
	s.router.InvalidatePhone(req.PhoneNumberID)
	if workspace.PhoneNumberID != "" && workspace.PhoneNumberID != req.PhoneNumberID {
		s.router.InvalidatePhone(workspace.PhoneNumberID)
	}

	if err := s.repo.AssignPhone(ctx, req.WorkspaceID, req.PhoneNumberID, req.DisplayPhoneNumber, req.WABAID); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"workspace_id":    req.WorkspaceID,
		"phone_number_id": req.PhoneNumberID,
	}).Info("Phone number assigned to workspace")

	return s.repo.GetByID(ctx, req.WorkspaceID)
}

// DeleteWorkspace removes the workspace record and its tenant database.
func (s *WorkspaceService) DeleteWorkspace(ctx context.Context, id string) error {
	workspace, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if workspace.PhoneNumberID != "" {
		s.router.InvalidatePhone(workspace.PhoneNumberID)
	}

	if err := s.repo.DeleteDatabase(ctx, id); err != nil {
		s.logger.WithField("workspace_id", id).Error("Failed to delete workspace database")
		return fmt.Errorf("failed to delete workspace database: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}

	s.logger.WithField("workspace_id", id).Info("Workspace deleted")
	return nil
}
