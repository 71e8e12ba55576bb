package billing

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"flipfolio/internal/domain/plans"
	stripeclient "flipfolio/internal/infra/stripe"
)

type checkoutRequest struct {
	Tier        string `json:"tier" binding:"required"`
	Interval    string `json:"interval" binding:"required"`
	SuccessURL  string `json:"success_url" binding:"required,url"`
	CancelURL   string `json:"cancel_url" binding:"required,url"`
	VoucherCode string `json:"voucher_code"`
}

// CreateCheckoutSession opens a checkout session for the requested tier
// and interval. It never touches the entitlement store; entitlements
// only change when the resulting subscription comes back through the
// webhook.
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var body checkoutRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, CodeValidationError, "Missing or invalid checkout fields")
		return
	}

	tier, ok := plans.ParseTier(body.Tier)
	if !ok || !tier.Paid() {
		apiError(c, http.StatusBadRequest, CodeValidationError, "Unknown tier")
		return
	}
	interval, ok := plans.ParseInterval(body.Interval)
	if !ok {
		apiError(c, http.StatusBadRequest, CodeValidationError, "Interval must be month or year")
		return
	}

	priceID, ok := h.catalog.PriceID(tier, interval)
	if !ok {
		apiError(c, http.StatusBadRequest, CodeInvalidTier, "No price configured for this tier and interval")
		return
	}

	params := stripeclient.CheckoutParams{
		UserID:     userID,
		Email:      c.GetString("email"),
		PriceID:    priceID,
		SuccessURL: body.SuccessURL,
		CancelURL:  body.CancelURL,
	}
	if d := h.discounts.Resolve(c.Request.Context(), body.VoucherCode); d != nil {
		params.CouponID = d.CouponID
		params.PromotionCodeID = d.PromotionCodeID
	}

	sess, err := h.sessions.CreateCheckoutSession(c.Request.Context(), params)
	if err != nil {
		h.log.Error("checkout session creation failed", "user_id", userID, "error", err)
		apiError(c, http.StatusBadGateway, CodeUpstreamError, "Could not start checkout, please retry")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"checkout_url": sess.URL,
		"session_id":   sess.SessionID,
	})
}

type portalRequest struct {
	ReturnURL string `json:"return_url" binding:"required,url"`
}

// CreateBillingPortal opens a self-service portal session. Requires the
// user to already have a platform customer id on record.
func (h *Handler) CreateBillingPortal(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var body portalRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, CodeValidationError, "Missing or invalid return_url")
		return
	}

	ent, err := h.store.Get(c.Request.Context(), userID)
	if err != nil || ent.StripeCustomerID == "" {
		apiError(c, http.StatusConflict, CodeNoSubscription, "No subscription on record (subscribe first)")
		return
	}

	url, err := h.sessions.CreatePortalSession(c.Request.Context(), ent.StripeCustomerID, body.ReturnURL)
	if err != nil {
		h.log.Error("portal session creation failed", "user_id", userID, "error", err)
		apiError(c, http.StatusBadGateway, CodeUpstreamError, "Could not open billing portal, please retry")
		return
	}

	c.JSON(http.StatusOK, gin.H{"portal_url": url})
}
