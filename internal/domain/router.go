package domain

import "context"

//go:generate mockgen -destination mocks/mock_tenant_router.go -package mocks github.com/Waypost/waypost/internal/domain TenantRouterInterface

// TenantRouterInterface resolves provider phone number ids to workspaces.
// Every webhook event that carries a phone number id goes through it, so
// implementations cache aggressively, including misses.
type TenantRouterInterface interface {
	// GetWorkspaceByPhoneID resolves a phone number id to its workspace.
	// Unknown ids return ErrWorkspaceNotFound; the miss itself is cached so
	// repeated unrouted deliveries do not hammer the database.
	GetWorkspaceByPhoneID(ctx context.Context, phoneNumberID string) (*Workspace, error)

	// InvalidatePhone drops the cache entry for one phone number id. It
	// must run before a reassignment is persisted so the number can never
	// route to its previous owner.
	InvalidatePhone(phoneNumberID string)

	// ClearPhoneCache drops every cached mapping.
	ClearPhoneCache()
}
