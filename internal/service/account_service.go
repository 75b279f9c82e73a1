package service

import (
	"context"
	"fmt"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/pkg/logger"
)

// AccountService implements domain.AccountReactorInterface: it folds account
// and capability updates into the workspace health snapshot and trips the
// kill switch on dangerous transitions.
type AccountService struct {
	workspaceRepo domain.WorkspaceRepository
	killSwitch    domain.KillSwitchServiceInterface
	logger        logger.Logger
}

// NewAccountService creates a new account service
func NewAccountService(workspaceRepo domain.WorkspaceRepository, killSwitch domain.KillSwitchServiceInterface, log logger.Logger) *AccountService {
	return &AccountService{
		workspaceRepo: workspaceRepo,
		killSwitch:    killSwitch,
		logger:        log,
	}
}

func containsString(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// ApplyAccountUpdate applies one account_update change. Unknown enum values
// are logged and skipped rather than stored; the provider adds values faster
// than we do.
func (s *AccountService) ApplyAccountUpdate(ctx context.Context, workspace *domain.Workspace, update *domain.AccountUpdate) error {
	type trip struct {
		reason domain.KillSwitchReason
		detail string
	}
	var trips []trip

	if update.PhoneStatus != "" {
		if containsString(domain.ValidPhoneStatuses, update.PhoneStatus) {
			workspace.PhoneStatus = domain.PhoneStatus(update.PhoneStatus)
		} else {
			s.logger.WithFields(map[string]interface{}{
				"workspace_id": workspace.ID,
				"phone_status": update.PhoneStatus,
			}).Warn("Ignoring unknown phone status")
		}
	}

	if update.QualityRating != "" {
		switch rating := domain.QualityRating(update.QualityRating); rating {
		case domain.QualityGreen, domain.QualityYellow, domain.QualityRed, domain.QualityUnknown:
			previous := workspace.QualityRating
			workspace.QualityRating = rating
			if rating == domain.QualityRed && previous != domain.QualityRed {
				trips = append(trips, trip{
					reason: domain.KillQualityDegraded,
					detail: fmt.Sprintf("quality rating dropped from %s to RED", previous),
				})
			}
		default:
			s.logger.WithFields(map[string]interface{}{
				"workspace_id":   workspace.ID,
				"quality_rating": update.QualityRating,
			}).Warn("Ignoring unknown quality rating")
		}
	}

	if update.MessagingTier != "" {
		tier := domain.MessagingTier(update.MessagingTier)
		if tier.Rank() > 0 || tier == domain.TierNotSet {
			previous := workspace.MessagingTier
			workspace.MessagingTier = tier
			if tier.IsDowngradeFrom(previous) {
				trips = append(trips, trip{
					reason: domain.KillTierDowngraded,
					detail: fmt.Sprintf("messaging tier downgraded from %s to %s", previous, tier),
				})
			}
		} else {
			s.logger.WithFields(map[string]interface{}{
				"workspace_id":   workspace.ID,
				"messaging_tier": update.MessagingTier,
			}).Warn("Ignoring unknown messaging tier")
		}
	}

	if update.AccountStatus != "" {
		if containsString(domain.ValidAccountStatuses, update.AccountStatus) {
			previous := workspace.AccountStatus
			workspace.AccountStatus = domain.AccountStatus(update.AccountStatus)
			if workspace.AccountStatus == domain.AccountStatusDisabled && previous != domain.AccountStatusDisabled {
				trips = append(trips, trip{
					reason: domain.KillAccountBlocked,
					detail: "provider disabled the business account",
				})
			}
		} else {
			s.logger.WithFields(map[string]interface{}{
				"workspace_id":   workspace.ID,
				"account_status": update.AccountStatus,
			}).Warn("Ignoring unknown account status")
		}
	}

	if update.DecisionStatus != "" {
		previous := workspace.AccountDecision
		workspace.AccountDecision = domain.AccountDecision(update.DecisionStatus)
		if workspace.AccountDecision.IsEnforcement() && !previous.IsEnforcement() {
			trips = append(trips, trip{
				reason: domain.KillEnforcementDetected,
				detail: fmt.Sprintf("account review decision is %s", update.DecisionStatus),
			})
		}
	}

	if update.Event == "PARTNER_ADDED" && update.CustomerAssetID != "" {
		if !containsString(workspace.BSP.CustomerAssetIDs, update.CustomerAssetID) {
			workspace.BSP.CustomerAssetIDs = append(workspace.BSP.CustomerAssetIDs, update.CustomerAssetID)
		}
	}

	if err := s.workspaceRepo.Update(ctx, workspace); err != nil {
		return fmt.Errorf("failed to persist account update: %w", err)
	}

	for _, t := range trips {
		if _, err := s.killSwitch.Trip(ctx, workspace.ID, t.reason, t.detail, "account_webhook"); err != nil {
			s.logger.WithFields(map[string]interface{}{
				"workspace_id": workspace.ID,
				"reason":       string(t.reason),
			}).Error(fmt.Sprintf("Failed to trip kill switch: %v", err))
		}
	}
	return nil
}

// ApplyCapabilityUpdate records the capability status and trips the kill
// switch when messaging or number management is revoked.
func (s *AccountService) ApplyCapabilityUpdate(ctx context.Context, workspace *domain.Workspace, update *domain.CapabilityUpdate) error {
	wasBlocked := workspace.BSP.CapabilityBlocked
	workspace.BSP.RecordCapability(update.Capability, update.Status)

	if err := s.workspaceRepo.Update(ctx, workspace); err != nil {
		return fmt.Errorf("failed to persist capability update: %w", err)
	}

	if workspace.BSP.CapabilityBlocked && !wasBlocked {
		detail := fmt.Sprintf("capability %s is %s", update.Capability, update.Status)
		if _, err := s.killSwitch.Trip(ctx, workspace.ID, domain.KillCapabilityRevoked, detail, "capability_webhook"); err != nil {
			s.logger.WithField("workspace_id", workspace.ID).Error(fmt.Sprintf("Failed to trip kill switch: %v", err))
		}
	}
	return nil
}
