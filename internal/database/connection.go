// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tradenet/portal-backend/internal/config"
	"github.com/tradenet/portal-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Enable UUID extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.User{},
		&models.HSCode{},
		&models.Product{},
		&models.Category{},
		&models.Service{},
		&models.Wish{},
		&models.Offer{},
		&models.Match{},
		&models.Event{},
		&models.EventRegistration{},
		&models.JobPost{},
		&models.JobApplication{},
		&models.ClinicCase{},
		&models.StandardCriterion{},
		&models.Assessment{},
		&models.AssessmentScore{},
		&models.Poll{},
		&models.PollOption{},
		&models.Ballot{},
		&models.AuditLog{},
		&models.AdminNotification{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		"CREATE INDEX IF NOT EXISTS idx_users_role_status ON users(role, status)",

		// Wish/Offer indexes: the matching pass scans pending records by type
		"CREATE INDEX IF NOT EXISTS idx_wishes_status_type ON wishes(status, listing_type)",
		"CREATE INDEX IF NOT EXISTS idx_offers_status_type ON offers(status, listing_type)",
		"CREATE INDEX IF NOT EXISTS idx_matches_pair ON matches(wish_id, offer_id)",
		"CREATE INDEX IF NOT EXISTS idx_matches_created_at ON matches(created_at DESC)",

		// Event indexes
		"CREATE INDEX IF NOT EXISTS idx_events_status_starts ON events(status, starts_at)",
		"CREATE INDEX IF NOT EXISTS idx_event_registrations_event ON event_registrations(event_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_event_registrations_email ON event_registrations(event_id, email)",

		// Job board indexes
		"CREATE INDEX IF NOT EXISTS idx_job_posts_status ON job_posts(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_job_applications_job ON job_applications(job_post_id, status)",

		// Clinic indexes
		"CREATE INDEX IF NOT EXISTS idx_clinic_cases_status ON clinic_cases(status, priority)",
		"CREATE INDEX IF NOT EXISTS idx_clinic_cases_assignee ON clinic_cases(assignee_id)",

		// Voting indexes
		"CREATE INDEX IF NOT EXISTS idx_polls_status_window ON polls(status, opens_at, closes_at)",
		"CREATE INDEX IF NOT EXISTS idx_ballots_option ON ballots(option_id)",

		// Audit indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_action ON audit_logs(user_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",

		// Full-text search indexes
		"CREATE INDEX IF NOT EXISTS idx_wishes_search ON wishes USING GIN(to_tsvector('english', title || ' ' || description))",
		"CREATE INDEX IF NOT EXISTS idx_offers_search ON offers USING GIN(to_tsvector('english', title || ' ' || description))",
		"CREATE INDEX IF NOT EXISTS idx_job_posts_search ON job_posts USING GIN(to_tsvector('english', title || ' ' || description))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Seed initial data
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	// Create default admin user
	var adminCount int64
	db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.User{
			Username: "admin",
			Email:    "admin@businessportal.example",
			Role:     models.UserRoleAdmin,
			Status:   models.UserStatusActive,
			ProfileData: models.JSONB{
				"first_name": "System",
				"last_name":  "Administrator",
			},
		}

		if err := admin.SetPassword("admin123!@#"); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("Default admin user created successfully")
	}

	// Seed the default quality-standard scorecard
	defaultCriteria := []models.StandardCriterion{
		{Name: "Product quality management", Weight: 30, MaxScore: 10},
		{Name: "Export readiness", Weight: 25, MaxScore: 10},
		{Name: "Financial discipline", Weight: 20, MaxScore: 10},
		{Name: "Workforce and safety", Weight: 15, MaxScore: 10},
		{Name: "Digital presence", Weight: 10, MaxScore: 10},
	}

	var criteriaCount int64
	db.Model(&models.StandardCriterion{}).Count(&criteriaCount)
	if criteriaCount == 0 {
		for _, criterion := range defaultCriteria {
			criterion.IsActive = true
			if err := db.Create(&criterion).Error; err != nil {
				log.Printf("Warning: Failed to seed criterion %s: %v", criterion.Name, err)
			}
		}
	}

	log.Println("Initial data seeding completed")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
