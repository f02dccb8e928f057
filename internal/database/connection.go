// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/solaforge/solaforge-backend/internal/config"
	"github.com/solaforge/solaforge-backend/internal/models"
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
		&models.Collection{},
		&models.NFT{},
		&models.NFTAttribute{},
		&models.NFTLike{},
		&models.Token{},
		&models.Transaction{},
		&models.GenerationEvent{},
		&models.CreditPurchase{},
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
		"CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)",

		// NFT indexes
		"CREATE INDEX IF NOT EXISTS idx_nfts_owner ON nfts(owner_wallet)",
		"CREATE INDEX IF NOT EXISTS idx_nfts_creator ON nfts(creator_wallet)",
		"CREATE INDEX IF NOT EXISTS idx_nfts_listed_price ON nfts(is_listed, price)",
		"CREATE INDEX IF NOT EXISTS idx_nfts_rarity ON nfts(rarity_score DESC, created_at ASC)",
		"CREATE INDEX IF NOT EXISTS idx_nfts_created_at ON nfts(created_at DESC)",

		// Attribute frequency lookups
		"CREATE INDEX IF NOT EXISTS idx_nft_attributes_nft_position ON nft_attributes(nft_id, position)",

		// Transaction indexes
		"CREATE INDEX IF NOT EXISTS idx_transactions_nft ON transactions(nft_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_wallets ON transactions(from_wallet, to_wallet)",

		// Token indexes
		"CREATE INDEX IF NOT EXISTS idx_tokens_creator_backend ON tokens(creator_wallet, backend)",

		// Full-text search
		"CREATE INDEX IF NOT EXISTS idx_nfts_search ON nfts USING GIN(to_tsvector('english', name || ' ' || description))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

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
