package database

import (
	"fmt"
	"log"

	"resumehub/internal/config"
	"resumehub/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var gormDB *gorm.DB

// ConnectGorm инициализирует GORM с URL из config.yaml
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	cfg := config.GetConfig()
	dsn := cfg.Database.DSN

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	gormDB = db
	return db, nil
}

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate() error {
	db, err := ConnectGorm()
	if err != nil {
		return err
	}

	// Расширение для uuid_generate_v4()
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid extension: %w", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.LoginAttempt{},
		&models.Resume{},
		&models.Optimization{},
		&models.ChatSession{},
		&models.ChatMessage{},
		&models.APIKey{},
		&models.SubscriptionPlan{},
		&models.UserSubscription{},
		&models.PaymentTransaction{},
		&models.Team{},
		&models.TeamMember{},
		&models.Project{},
		&models.ActivityLog{},
		&models.AnalyticsEvent{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}

	log.Println("Database migration completed")
	return nil
}
