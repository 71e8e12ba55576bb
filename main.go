package main

import (
	"log/slog"
	"os"
	"time"

	"flipfolio/config"
	"flipfolio/database"
	adminapi "flipfolio/internal/api/admin"
	billingapi "flipfolio/internal/api/billing"
	plansapi "flipfolio/internal/api/plans"
	stripewebhooks "flipfolio/internal/api/stripewebhook"
	routes "flipfolio/internal/app/http"
	billingdomain "flipfolio/internal/domain/billing"
	"flipfolio/internal/domain/campaigns"
	"flipfolio/internal/domain/entitlements"
	"flipfolio/internal/domain/plans"
	"flipfolio/internal/infra/logging"
	stripeclient "flipfolio/internal/infra/stripe"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()
	logging.Init(config.LOG_LEVEL, config.LOG_FORMAT)
	database.InitDB()

	catalog := plans.NewCatalog(map[plans.PriceKey]string{
		{Tier: plans.TierStarter, Interval: plans.IntervalMonth}: config.PRICE_STARTER_MONTH,
		{Tier: plans.TierStarter, Interval: plans.IntervalYear}:  config.PRICE_STARTER_YEAR,
		{Tier: plans.TierPro, Interval: plans.IntervalMonth}:     config.PRICE_PRO_MONTH,
		{Tier: plans.TierPro, Interval: plans.IntervalYear}:      config.PRICE_PRO_YEAR,
		{Tier: plans.TierGrowth, Interval: plans.IntervalMonth}:  config.PRICE_GROWTH_MONTH,
		{Tier: plans.TierGrowth, Interval: plans.IntervalYear}:   config.PRICE_GROWTH_YEAR,
	}, slog.Default())

	entStore := entitlements.NewStore(database.DB)
	paymentStore := billingdomain.NewStore(database.DB)
	campaignStore := campaigns.NewStore(database.DB)
	stripeClient := stripeclient.NewClient(config.STRIPE_SECRET_KEY)

	discounts := billingapi.NewDiscountResolver(stripeClient, campaignStore, slog.Default())
	billingHandler := billingapi.NewHandler(entStore, paymentStore, catalog, discounts, stripeClient, slog.Default())
	webhookHandler := stripewebhooks.NewHandler(
		config.STRIPE_WEBHOOK_SECRET, entStore, paymentStore, catalog, stripeClient, slog.Default())
	plansHandler := plansapi.NewHandler(catalog)
	adminHandler := adminapi.NewHandler(entStore, campaignStore, slog.Default())

	deps := routes.Deps{
		Billing: billingHandler,
		Webhook: webhookHandler,
		Plans:   plansHandler,
		Admin:   adminHandler,
	}
	if !config.IsProduction() && config.OVERRIDE_SECRET_HASH != "" {
		deps.Override = adminapi.NewOverrideHandler(adminHandler, config.OVERRIDE_SECRET_HASH)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{os.Getenv("CORS_ORIGIN")},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, deps)

	r.Run(":" + config.PORT)
}
