package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("cafe")
	require.NoError(t, err)

	assert.Equal(t, "cafe", cfg.ServiceName)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, "cafe_master", cfg.DB.MasterDBName)
	assert.Equal(t, "postgres", cfg.DB.AdminDBName)
	assert.Equal(t, "disable", cfg.DB.SSLMode)
	assert.Equal(t, logger.Warn, cfg.DB.LogLevel)
	assert.Equal(t, time.Hour, cfg.DB.ConnMaxLifetime)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 24, cfg.JWT.ExpirationHours)
	assert.Equal(t, "cafe", cfg.Metrics.Prefix)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_MASTER_NAME", "directory")
	t.Setenv("DB_MAX_OPEN_CONNS", "25")
	t.Setenv("DB_CONN_MAX_LIFETIME", "30m")
	t.Setenv("DB_LOG_LEVEL", "silent")
	t.Setenv("JWT_EXPIRATION_HOURS", "2")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load("cafe")
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "directory", cfg.DB.MasterDBName)
	assert.Equal(t, 25, cfg.DB.MaxOpenConns)
	assert.Equal(t, 30*time.Minute, cfg.DB.ConnMaxLifetime)
	assert.Equal(t, logger.Silent, cfg.DB.LogLevel)
	assert.Equal(t, 2, cfg.JWT.ExpirationHours)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_MAX_IDLE_CONNS", "not-a-number")
	t.Setenv("DB_CONN_MAX_LIFETIME", "soon")
	t.Setenv("DB_LOG_LEVEL", "chatty")

	cfg, err := Load("cafe")
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.DB.MaxIdleConns)
	assert.Equal(t, time.Hour, cfg.DB.ConnMaxLifetime)
	assert.Equal(t, logger.Warn, cfg.DB.LogLevel)
}

func TestDSN(t *testing.T) {
	cfg := DBConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "postgres",
		Password: "password",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=password dbname=tenant_abc sslmode=disable",
		cfg.DSN("tenant_abc"))
}
