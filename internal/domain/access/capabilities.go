package access

import "flipfolio/internal/domain/plans"

// CapabilitiesFor lists the product capabilities granted by the access
// state and tier. Consumed by the UI layer through the entitlement read
// endpoint.
func CapabilitiesFor(state AccessState, tier plans.Tier) []string {
	// locked/limited: read-only product
	if state == AccessLocked || state == AccessLimited {
		return []string{}
	}

	// trial
	if state == AccessTrial {
		return []string{"properties", "cost_tracking"}
	}

	// full: tier-based
	switch tier {
	case plans.TierStarter:
		return []string{"properties", "cost_tracking"}
	case plans.TierPro:
		return []string{"properties", "cost_tracking", "documents", "schedules"}
	case plans.TierGrowth:
		return []string{"properties", "cost_tracking", "documents", "schedules", "portfolio_analytics"}
	default:
		return []string{"properties", "cost_tracking"}
	}
}
