package tenancy

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Deep-1402/cafe/pkg/config"
)

func gormLogger(level gormlogger.LogLevel) gormlogger.Interface {
	return gormlogger.Default.LogMode(level)
}

// Postgres SQLSTATE codes the factory and directory classify on.
const (
	pgDuplicateDatabase = "42P04"
	pgUniqueViolation   = "23505"
)

// Factory opens database handles. It never creates databases on its
// own; CreateDatabase goes through a separate administrative
// connection bound to the maintenance database.
type Factory struct {
	cfg *config.DBConfig
}

// NewFactory creates a connection factory from database configuration.
func NewFactory(cfg *config.DBConfig) *Factory {
	return &Factory{cfg: cfg}
}

// Open connects to the named database and verifies it is reachable.
// Failures wrap ErrConnection.
func (f *Factory) Open(ctx context.Context, dbName string) (*gorm.DB, error) {
	pgConfig := postgres.Config{
		DSN:                  f.cfg.DSN(dbName),
		PreferSimpleProtocol: true, // Disables implicit prepared statement usage
	}

	db, err := gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger: gormLogger(f.cfg.LogLevel),
	})
	if err != nil {
		return nil, wrap(ErrConnection, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, wrap(ErrConnection, err)
	}

	sqlDB.SetMaxIdleConns(f.cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(f.cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(f.cfg.ConnMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, wrap(ErrConnection, err)
	}

	return db, nil
}

// CreateDatabase issues CREATE DATABASE through the administrative
// connection. Postgres has no IF NOT EXISTS for databases, so an
// already-existing database (SQLSTATE 42P04) is treated as success to
// keep provisioning retry-safe.
func (f *Factory) CreateDatabase(ctx context.Context, dbName string) error {
	admin, err := f.Open(ctx, f.cfg.AdminDBName)
	if err != nil {
		return err
	}
	defer closeDB(admin)

	stmt := fmt.Sprintf("CREATE DATABASE %q", dbName)
	if err := admin.WithContext(ctx).Exec(stmt).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgDuplicateDatabase {
			return nil
		}
		return wrap(ErrConnection, err)
	}
	return nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
