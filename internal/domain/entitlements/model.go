package entitlements

import (
	"strings"
	"time"

	"flipfolio/internal/domain/plans"
)

// Status is the subscription status as this system understands it.
// The set is closed; anything the billing platform sends that is not in
// it gets coerced by ParseStatus.
type Status string

const (
	StatusTrialing Status = "trialing"
	StatusActive   Status = "active"
	StatusPastDue  Status = "past_due"
	StatusUnpaid   Status = "unpaid"
	StatusCanceled Status = "canceled"
)

// ParseStatus restricts a platform status string to the closed enum.
// Unrecognized values (incomplete, paused, future additions) come back
// as StatusUnpaid with ok=false; callers log the coercion.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusTrialing:
		return StatusTrialing, true
	case StatusActive:
		return StatusActive, true
	case StatusPastDue:
		return StatusPastDue, true
	case StatusUnpaid:
		return StatusUnpaid, true
	case StatusCanceled:
		return StatusCanceled, true
	}
	return StatusUnpaid, false
}

// Entitlement is the durable record of what a user is currently
// entitled to. At most one row per user; reconciliation replaces the
// whole row, never individual fields. Rows are never deleted --
// cancellation is a status value.
type Entitlement struct {
	ID     uint `gorm:"primaryKey" json:"-"`
	UserID uint `gorm:"not null;uniqueIndex:idx_entitlements_user_id" json:"user_id"`

	Tier   plans.Tier `gorm:"type:varchar(20);not null;default:'none'" json:"tier"`
	Status Status     `gorm:"type:varchar(20);not null" json:"status"`

	StripeCustomerID     string `gorm:"column:stripe_customer_id;index:idx_entitlements_stripe_customer_id" json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID string `gorm:"column:stripe_subscription_id;index:idx_entitlements_stripe_subscription_id" json:"stripe_subscription_id,omitempty"`
	StripePriceID        string `gorm:"column:stripe_price_id" json:"stripe_price_id,omitempty"`

	CurrentPeriodStart time.Time  `gorm:"column:current_period_start" json:"current_period_start"`
	CurrentPeriodEnd   time.Time  `gorm:"column:current_period_end" json:"current_period_end"`
	TrialEnd           *time.Time `gorm:"column:trial_end" json:"trial_end,omitempty"`
	CancelAtPeriodEnd  bool       `gorm:"column:cancel_at_period_end" json:"cancel_at_period_end"`

	LastSyncedAt time.Time `gorm:"column:last_synced_at" json:"last_synced_at"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Snapshot is one complete projection of a subscription, as carried by
// a webhook event or supplied by the override channel. Applying a
// snapshot replaces the stored row entirely.
type Snapshot struct {
	UserID               uint
	Tier                 plans.Tier
	Status               Status
	StripeCustomerID     string
	StripeSubscriptionID string
	StripePriceID        string
	CurrentPeriodStart   time.Time
	CurrentPeriodEnd     time.Time
	TrialEnd             *time.Time
	CancelAtPeriodEnd    bool
}

func (e *Entitlement) apply(snap Snapshot) {
	e.UserID = snap.UserID
	e.Tier = snap.Tier
	e.Status = snap.Status
	e.StripeCustomerID = snap.StripeCustomerID
	e.StripeSubscriptionID = snap.StripeSubscriptionID
	e.StripePriceID = snap.StripePriceID
	e.CurrentPeriodStart = snap.CurrentPeriodStart
	e.CurrentPeriodEnd = snap.CurrentPeriodEnd
	e.TrialEnd = snap.TrialEnd
	e.CancelAtPeriodEnd = snap.CancelAtPeriodEnd
}

// IsActive reports whether the entitlement currently grants access.
func (e *Entitlement) IsActive() bool {
	return e.Status == StatusActive || e.Status == StatusTrialing
}
