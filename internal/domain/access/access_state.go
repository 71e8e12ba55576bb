package access

import (
	"time"

	"flipfolio/internal/domain/entitlements"
	"flipfolio/internal/domain/plans"
)

// ComputeAccessState derives the effective access for UI/product from
// the stored entitlement. The entitlement row is the only input; this
// never calls the billing platform.
func ComputeAccessState(now time.Time, ent *entitlements.Entitlement) AccessState {
	if ent == nil || ent.StripeSubscriptionID == "" {
		return AccessLocked
	}

	// Active trial
	if ent.Status == entitlements.StatusTrialing {
		if ent.TrialEnd != nil && now.Before(*ent.TrialEnd) {
			return AccessTrial
		}
		return AccessLimited
	}

	switch ent.Status {
	case entitlements.StatusActive:
		return stateForTier(ent.Tier)

	case entitlements.StatusPastDue:
		return AccessLimited

	case entitlements.StatusCanceled:
		// Access runs until the paid-through end date.
		if now.Before(ent.CurrentPeriodEnd) {
			return stateForTier(ent.Tier)
		}
		return AccessLocked

	default:
		return AccessLocked
	}
}

// Full vs limited decided by tier: starter stays limited.
func stateForTier(tier plans.Tier) AccessState {
	switch tier {
	case plans.TierPro, plans.TierGrowth:
		return AccessFull
	default:
		return AccessLimited
	}
}
