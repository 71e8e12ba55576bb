package plans

import "strings"

// Tier is the internal product plan level. Values form a closed set;
// everything arriving from outside goes through ParseTier.
type Tier string

const (
	TierNone    Tier = "none"
	TierStarter Tier = "starter"
	TierPro     Tier = "pro"
	TierGrowth  Tier = "growth"
)

// Paid reports whether the tier grants paid features.
func (t Tier) Paid() bool {
	switch t {
	case TierStarter, TierPro, TierGrowth:
		return true
	}
	return false
}

// ParseTier normalizes a tier string. Unknown values come back as
// TierNone with ok=false so callers decide how loudly to complain.
func ParseTier(s string) (Tier, bool) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case TierStarter:
		return TierStarter, true
	case TierPro:
		return TierPro, true
	case TierGrowth:
		return TierGrowth, true
	case TierNone:
		return TierNone, true
	}
	return TierNone, false
}

// Interval is the billing interval of a plan price.
type Interval string

const (
	IntervalMonth Interval = "month"
	IntervalYear  Interval = "year"
)

func ParseInterval(s string) (Interval, bool) {
	switch Interval(strings.ToLower(strings.TrimSpace(s))) {
	case IntervalMonth:
		return IntervalMonth, true
	case IntervalYear:
		return IntervalYear, true
	}
	return "", false
}
