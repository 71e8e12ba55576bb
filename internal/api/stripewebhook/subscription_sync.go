package stripewebhooks

import (
	"context"
	"strconv"
	"time"

	"github.com/stripe/stripe-go/v75"

	"flipfolio/internal/domain/entitlements"
)

// syncSubscription reconciles one subscription snapshot into the
// entitlement store. The snapshot in the event being processed is
// always trusted over whatever is stored, even when deliveries arrive
// out of order; Stripe provides no sequence numbers in this
// integration, and inventing ordering logic here would only guess.
//
// A non-nil return means a transient failure worth a platform retry.
// Data problems (unidentifiable user, malformed snapshot) are logged
// and swallowed so the delivery still gets acknowledged.
func (h *Handler) syncSubscription(ctx context.Context, eventType stripe.EventType, sub *stripe.Subscription) error {
	if sub.ID == "" || sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		h.log.Error("subscription snapshot missing id/items/price, skipping",
			"event", eventType, "subscription_id", sub.ID)
		return nil
	}

	priceID := sub.Items.Data[0].Price.ID
	customerID := ""
	if sub.Customer != nil {
		customerID = sub.Customer.ID
	}

	userID := h.resolveUser(ctx, sub, customerID)
	if userID == 0 {
		// Retries cannot conjure up missing metadata, so acknowledge.
		h.log.Error("could not resolve owning user for subscription, skipping",
			"event", eventType, "subscription_id", sub.ID, "customer_id", customerID)
		return nil
	}

	status, known := entitlements.ParseStatus(string(sub.Status))
	if !known {
		h.log.Warn("unrecognized subscription status coerced to unpaid",
			"subscription_id", sub.ID, "status", sub.Status)
	}

	var trialEnd *time.Time
	if sub.TrialEnd > 0 {
		t := time.Unix(sub.TrialEnd, 0).UTC()
		trialEnd = &t
	}

	snap := entitlements.Snapshot{
		UserID:               userID,
		Tier:                 h.catalog.TierForPrice(priceID),
		Status:               status,
		StripeCustomerID:     customerID,
		StripeSubscriptionID: sub.ID,
		StripePriceID:        priceID,
		CurrentPeriodStart:   time.Unix(sub.CurrentPeriodStart, 0).UTC(),
		CurrentPeriodEnd:     time.Unix(sub.CurrentPeriodEnd, 0).UTC(),
		TrialEnd:             trialEnd,
		CancelAtPeriodEnd:    sub.CancelAtPeriodEnd,
	}

	if _, err := h.store.Upsert(ctx, snap); err != nil {
		return err
	}

	h.log.Info("entitlement reconciled",
		"event", eventType, "user_id", userID, "subscription_id", sub.ID,
		"tier", snap.Tier, "status", snap.Status)
	return nil
}

// resolveUser recovers the owning user for a subscription snapshot.
// Preference order: subscription metadata, platform customer metadata,
// then correlation against already stored rows.
func (h *Handler) resolveUser(ctx context.Context, sub *stripe.Subscription, customerID string) uint {
	if id := userIDFromMetadata(sub.Metadata); id != 0 {
		return id
	}

	if customerID != "" {
		md, err := h.customers.GetCustomerMetadata(ctx, customerID)
		if err != nil {
			h.log.Warn("customer metadata lookup failed",
				"customer_id", customerID, "error", err)
		} else if id := userIDFromMetadata(md); id != 0 {
			return id
		}
	}

	if row, err := h.store.FindBySubscriptionID(ctx, sub.ID); err == nil {
		return row.UserID
	}
	if row, err := h.store.FindByCustomerID(ctx, customerID); err == nil {
		return row.UserID
	}
	return 0
}

func userIDFromMetadata(md map[string]string) uint {
	if md == nil {
		return 0
	}
	s := md["user_id"]
	if s == "" {
		return 0
	}
	uid, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(uid)
}
