package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Deep-1402/cafe/internal/model"
	"github.com/Deep-1402/cafe/pkg/config"
)

var db *gorm.DB

// InitDB opens the master database and migrates the directory tables.
// Tenant databases are never touched here; they are owned by the
// tenancy package.
func InitDB(cfg *config.Config) error {
	pgConfig := postgres.Config{
		DSN:                  cfg.DB.DSN(cfg.DB.MasterDBName),
		PreferSimpleProtocol: true, // Disables implicit prepared statement usage
	}

	var err error
	db, err = gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger: logger.Default.LogMode(cfg.DB.LogLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to master database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	if err := db.AutoMigrate(&model.SubscriptionPlan{}, &model.Tenant{}); err != nil {
		return fmt.Errorf("failed to migrate master schema: %w", err)
	}

	zap.L().Info("Master database connected",
		zap.String("database", cfg.DB.MasterDBName))

	return nil
}

// GetDB returns the master database instance
func GetDB() *gorm.DB {
	return db
}
