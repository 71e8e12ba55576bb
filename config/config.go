package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	PORT       string
	APP_ENV    string
	APP_URL    string
	DB_URL     string
	JWT_SECRET string

	STRIPE_SECRET_KEY     string
	STRIPE_WEBHOOK_SECRET string

	// One price per tier per billing interval. Configured in the Stripe
	// dashboard and mirrored here; the catalog is built from these once
	// at startup.
	PRICE_STARTER_MONTH string
	PRICE_STARTER_YEAR  string
	PRICE_PRO_MONTH     string
	PRICE_PRO_YEAR      string
	PRICE_GROWTH_MONTH  string
	PRICE_GROWTH_YEAR   string

	// bcrypt hash of the shared secret for the entitlement override
	// endpoint. The endpoint itself is only registered outside production.
	OVERRIDE_SECRET_HASH string

	LOG_LEVEL  string
	LOG_FORMAT string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	APP_ENV = getEnv("APP_ENV", "development")
	APP_URL = getEnv("APP_URL", "http://localhost:5173")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")

	STRIPE_SECRET_KEY = mustEnv("STRIPE_SECRET_KEY")
	STRIPE_WEBHOOK_SECRET = mustEnv("STRIPE_WEBHOOK_SECRET")

	PRICE_STARTER_MONTH = mustEnv("STRIPE_PRICE_STARTER_MONTH")
	PRICE_STARTER_YEAR = mustEnv("STRIPE_PRICE_STARTER_YEAR")
	PRICE_PRO_MONTH = mustEnv("STRIPE_PRICE_PRO_MONTH")
	PRICE_PRO_YEAR = mustEnv("STRIPE_PRICE_PRO_YEAR")
	PRICE_GROWTH_MONTH = mustEnv("STRIPE_PRICE_GROWTH_MONTH")
	PRICE_GROWTH_YEAR = mustEnv("STRIPE_PRICE_GROWTH_YEAR")

	OVERRIDE_SECRET_HASH = getEnv("ENTITLEMENT_OVERRIDE_SECRET_HASH", "")

	LOG_LEVEL = getEnv("LOG_LEVEL", "info")
	LOG_FORMAT = getEnv("LOG_FORMAT", "text")
}

// IsProduction reports whether the deployment is explicitly production.
func IsProduction() bool {
	return APP_ENV == "production"
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
