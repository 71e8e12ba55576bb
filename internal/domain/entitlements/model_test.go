package entitlements

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"trialing", "active", "past_due", "unpaid", "canceled"} {
		status, ok := ParseStatus(s)
		assert.True(t, ok, s)
		assert.Equal(t, Status(s), status)
	}

	// Everything outside the closed enum coerces to unpaid.
	for _, s := range []string{"incomplete", "incomplete_expired", "paused", "", "something_new"} {
		status, ok := ParseStatus(s)
		assert.False(t, ok, s)
		assert.Equal(t, StatusUnpaid, status)
	}

	status, ok := ParseStatus("  Active ")
	assert.True(t, ok)
	assert.Equal(t, StatusActive, status)
}

func TestEntitlementIsActive(t *testing.T) {
	assert.True(t, (&Entitlement{Status: StatusActive}).IsActive())
	assert.True(t, (&Entitlement{Status: StatusTrialing}).IsActive())
	assert.False(t, (&Entitlement{Status: StatusPastDue}).IsActive())
	assert.False(t, (&Entitlement{Status: StatusCanceled}).IsActive())
	assert.False(t, (&Entitlement{Status: StatusUnpaid}).IsActive())
}

func TestSnapshotApplyReplacesWholeRow(t *testing.T) {
	trialEnd := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	row := Entitlement{
		UserID:               7,
		Tier:                 "pro",
		Status:               StatusActive,
		StripeSubscriptionID: "sub_old",
		TrialEnd:             &trialEnd,
		CancelAtPeriodEnd:    true,
	}

	row.apply(Snapshot{
		UserID:               7,
		Tier:                 "starter",
		Status:               StatusCanceled,
		StripeSubscriptionID: "sub_new",
	})

	assert.Equal(t, Status(StatusCanceled), row.Status)
	assert.Equal(t, "sub_new", row.StripeSubscriptionID)
	assert.Nil(t, row.TrialEnd, "fields absent from the snapshot are cleared, not merged")
	assert.False(t, row.CancelAtPeriodEnd)
}
