package stripewebhooks

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"

	billingdomain "flipfolio/internal/domain/billing"
	"flipfolio/internal/domain/entitlements"
	"flipfolio/internal/domain/plans"
)

const maxBodyBytes = 65536

// EntitlementStore is the reconciliation target plus the correlation
// lookups used to resolve a delivery back to a user.
type EntitlementStore interface {
	Upsert(ctx context.Context, snap entitlements.Snapshot) (*entitlements.Entitlement, error)
	FindBySubscriptionID(ctx context.Context, subscriptionID string) (*entitlements.Entitlement, error)
	FindByCustomerID(ctx context.Context, customerID string) (*entitlements.Entitlement, error)
}

// CustomerRetriever fetches platform customer metadata, used as a
// fallback when a subscription snapshot does not carry the user id.
type CustomerRetriever interface {
	GetCustomerMetadata(ctx context.Context, customerID string) (map[string]string, error)
}

// PaymentRecorder stores informational payment history rows.
type PaymentRecorder interface {
	Record(ctx context.Context, p *billingdomain.Payment) error
}

// Handler ingests Stripe webhook deliveries. Each delivery is handled
// synchronously in its own request; Stripe's retry-on-non-2xx is the
// only delivery guarantee this engine relies on, so a delivery is
// acknowledged only after reconciliation completed or was deliberately
// skipped.
type Handler struct {
	webhookSecret string
	store         EntitlementStore
	payments      PaymentRecorder
	catalog       *plans.Catalog
	customers     CustomerRetriever
	log           *slog.Logger
}

func NewHandler(
	webhookSecret string,
	store EntitlementStore,
	payments PaymentRecorder,
	catalog *plans.Catalog,
	customers CustomerRetriever,
	log *slog.Logger,
) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		webhookSecret: webhookSecret,
		store:         store,
		payments:      payments,
		catalog:       catalog,
		customers:     customers,
		log:           log,
	}
}

// StripeWebhook is the inbound webhook endpoint. Signature verification
// runs over the raw, unparsed body; re-serializing first would
// invalidate the signature.
func (h *Handler) StripeWebhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		h.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		h.log.Warn("webhook signature verification failed", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	ctx := c.Request.Context()

	switch event.Type {
	case "customer.subscription.created",
		"customer.subscription.updated",
		"customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse subscription"})
			return
		}
		if err := h.syncSubscription(ctx, event.Type, &sub); err != nil {
			// Transient store failure: non-2xx so Stripe redelivers.
			h.log.Error("subscription reconciliation failed", "event", event.Type,
				"subscription_id", sub.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Reconciliation failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "received"})

	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse session"})
			return
		}
		if err := h.recordCheckoutCompleted(ctx, &sess); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "received"})

	case "invoice.paid", "invoice.payment_failed":
		// Informational only. Entitlement state is always re-derived
		// from the subscription snapshot, never assembled from invoice
		// events, so these are acknowledged without reconciliation.
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err == nil {
			h.log.Info("invoice event acknowledged",
				"event", event.Type, "invoice_id", invoice.ID, "amount_due", invoice.AmountDue)
		}
		c.JSON(http.StatusOK, gin.H{"status": "received"})

	default:
		// Acknowledge unknown events to avoid retries.
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	}
}
