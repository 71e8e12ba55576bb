package stripewebhooks

import (
	"context"
	"strconv"

	"github.com/stripe/stripe-go/v75"

	billingdomain "flipfolio/internal/domain/billing"
)

// recordCheckoutCompleted writes an informational payment history row
// for a completed checkout. Entitlement state is deliberately not
// touched here: the subscription lifecycle events carry the
// authoritative snapshot, and assembling state from multiple event
// types would race.
func (h *Handler) recordCheckoutCompleted(ctx context.Context, sess *stripe.CheckoutSession) error {
	userID := userIDFromMetadata(sess.Metadata)
	if userID == 0 && sess.ClientReferenceID != "" {
		if uid, err := strconv.ParseUint(sess.ClientReferenceID, 10, 64); err == nil {
			userID = uint(uid)
		}
	}
	if userID == 0 {
		h.log.Error("checkout session carries no user id, skipping payment record",
			"session_id", sess.ID)
		return nil
	}

	payment := &billingdomain.Payment{
		UserID:          userID,
		StripeSessionID: sess.ID,
		AmountCents:     sess.AmountTotal,
		Currency:        string(sess.Currency),
		Status:          string(sess.PaymentStatus),
	}
	if sess.Subscription != nil {
		payment.StripeSubscriptionID = sess.Subscription.ID
	}
	if sess.Invoice != nil {
		payment.StripeInvoiceID = sess.Invoice.ID
	}

	if err := h.payments.Record(ctx, payment); err != nil {
		h.log.Error("failed to record checkout payment",
			"session_id", sess.ID, "user_id", userID, "error", err)
		return err
	}

	h.log.Info("checkout completed", "session_id", sess.ID, "user_id", userID,
		"amount_cents", payment.AmountCents)
	return nil
}
