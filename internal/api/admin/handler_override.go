package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"flipfolio/internal/domain/entitlements"
	"flipfolio/internal/domain/plans"
)

// overrideSecretHeader carries the shared secret, presented out-of-band
// from normal user authentication.
const overrideSecretHeader = "X-Override-Secret"

// OverrideHandler is the internal override channel: a trusted path for
// QA and support tooling to force an entitlement value. The route is
// only registered outside production; the secret check here is the
// second gate.
type OverrideHandler struct {
	*Handler
	secretHash string
}

func NewOverrideHandler(h *Handler, secretHash string) *OverrideHandler {
	return &OverrideHandler{Handler: h, secretHash: secretHash}
}

type overrideRequest struct {
	UserID               uint       `json:"user_id" binding:"required"`
	Tier                 string     `json:"tier" binding:"required"`
	Status               string     `json:"status" binding:"required"`
	StripeCustomerID     string     `json:"stripe_customer_id"`
	StripeSubscriptionID string     `json:"stripe_subscription_id"`
	StripePriceID        string     `json:"stripe_price_id"`
	CurrentPeriodStart   time.Time  `json:"current_period_start"`
	CurrentPeriodEnd     time.Time  `json:"current_period_end"`
	TrialEnd             *time.Time `json:"trial_end"`
	CancelAtPeriodEnd    bool       `json:"cancel_at_period_end"`
}

// OverrideEntitlement performs the same whole-row upsert as webhook
// reconciliation, but with caller-supplied values.
func (h *OverrideHandler) OverrideEntitlement(c *gin.Context) {
	if !h.authorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid override secret"})
		return
	}

	var body overrideRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid entitlement fields"})
		return
	}

	tier, ok := plans.ParseTier(body.Tier)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown tier"})
		return
	}
	status, ok := entitlements.ParseStatus(body.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status"})
		return
	}
	if tier != plans.TierNone && body.StripeSubscriptionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paid tiers require a subscription id"})
		return
	}
	if status == entitlements.StatusTrialing && body.TrialEnd == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Trialing requires trial_end"})
		return
	}

	row, err := h.store.Upsert(c.Request.Context(), entitlements.Snapshot{
		UserID:               body.UserID,
		Tier:                 tier,
		Status:               status,
		StripeCustomerID:     body.StripeCustomerID,
		StripeSubscriptionID: body.StripeSubscriptionID,
		StripePriceID:        body.StripePriceID,
		CurrentPeriodStart:   body.CurrentPeriodStart,
		CurrentPeriodEnd:     body.CurrentPeriodEnd,
		TrialEnd:             body.TrialEnd,
		CancelAtPeriodEnd:    body.CancelAtPeriodEnd,
	})
	if err != nil {
		h.log.Error("entitlement override failed", "user_id", body.UserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Override failed"})
		return
	}

	h.log.Warn("entitlement overridden",
		"user_id", body.UserID, "tier", tier, "status", status)
	c.JSON(http.StatusOK, row)
}

func (h *OverrideHandler) authorized(c *gin.Context) bool {
	if h.secretHash == "" {
		return false
	}
	secret := c.GetHeader(overrideSecretHeader)
	if secret == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(h.secretHash), []byte(secret)) == nil
}
