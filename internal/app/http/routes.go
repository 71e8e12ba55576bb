package routes

import (
	adminapi "flipfolio/internal/api/admin"
	billingapi "flipfolio/internal/api/billing"
	plansapi "flipfolio/internal/api/plans"
	stripewebhooks "flipfolio/internal/api/stripewebhook"
	"flipfolio/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

// Deps carries the constructed handlers into route registration.
// Override is nil in production, which keeps the route unregistered
// entirely rather than merely rejecting calls.
type Deps struct {
	Billing  *billingapi.Handler
	Webhook  *stripewebhooks.Handler
	Plans    *plansapi.Handler
	Admin    *adminapi.Handler
	Override *adminapi.OverrideHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Raw body route: no sanitization, no auth. Signature verification
	// is the authentication.
	r.POST("/webhook", d.Webhook.StripeWebhook)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/plans", d.Plans.ListPlans)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(), middleware.SanitizeJSONInput())
	auth.GET("/billing/entitlement", d.Billing.GetEntitlement)
	auth.GET("/billing/payments", d.Billing.GetPaymentHistory)
	auth.POST("/billing/checkout", d.Billing.CreateCheckoutSession)
	auth.POST("/billing/portal", d.Billing.CreateBillingPortal)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.GET("/entitlements", d.Admin.ListEntitlements)
	admin.GET("/campaigns", d.Admin.ListCampaigns)
	admin.POST("/campaigns", d.Admin.CreateCampaign)

	if d.Override != nil {
		// Shared-secret override channel, gated inside the handler.
		r.POST("/admin/entitlements/override", d.Override.OverrideEntitlement)
	}
}
