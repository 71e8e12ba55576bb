package billing

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	billingdomain "flipfolio/internal/domain/billing"
	"flipfolio/internal/domain/entitlements"
	"flipfolio/internal/domain/plans"
	stripeclient "flipfolio/internal/infra/stripe"
)

// Error codes returned by the billing endpoints.
const (
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeValidationError = "VALIDATION_ERROR"
	CodeInvalidTier     = "INVALID_TIER"
	CodeNoSubscription  = "NO_SUBSCRIPTION"
	CodeUpstreamError   = "UPSTREAM_ERROR"
	CodeInternalError   = "INTERNAL_ERROR"
)

// SessionCreator opens checkout and portal sessions on the billing
// platform. Session creation never charges by itself, so retrying a
// failed call is always safe.
type SessionCreator interface {
	CreateCheckoutSession(ctx context.Context, p stripeclient.CheckoutParams) (*stripeclient.CheckoutSession, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
}

// Handler serves the billing endpoints for authenticated users.
type Handler struct {
	store     *entitlements.Store
	payments  *billingdomain.Store
	catalog   *plans.Catalog
	discounts *DiscountResolver
	sessions  SessionCreator
	log       *slog.Logger
}

func NewHandler(
	store *entitlements.Store,
	payments *billingdomain.Store,
	catalog *plans.Catalog,
	discounts *DiscountResolver,
	sessions SessionCreator,
	log *slog.Logger,
) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		store:     store,
		payments:  payments,
		catalog:   catalog,
		discounts: discounts,
		sessions:  sessions,
		log:       log,
	}
}

func apiError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"code": code, "message": message})
}

func callerID(c *gin.Context) (uint, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		apiError(c, http.StatusUnauthorized, CodeUnauthorized, "User not identified")
		return 0, false
	}
	return userID, true
}
