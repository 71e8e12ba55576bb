package database

import (
	"fmt"
	"log"
	"os"

	"flipfolio/internal/domain/billing"
	"flipfolio/internal/domain/campaigns"
	"flipfolio/internal/domain/entitlements"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	DB = db

	if err := DB.AutoMigrate(
		&entitlements.Entitlement{},
		&billing.Payment{},
		&campaigns.Campaign{},
	); err != nil {
		log.Fatal("AutoMigrate error:", err)
	}

	fmt.Println("Connected and migrated successfully")
}
