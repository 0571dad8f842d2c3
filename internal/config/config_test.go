package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.PaymentTimeout)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
	assert.Equal(t, 500, cfg.SweepBatchSize)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.NotEmpty(t, cfg.AllowedOrigins)
	assert.Contains(t, cfg.DatabaseURL, "postgres://")
	assert.Equal(t, filepath.Join("migrations", "postgres"), filepath.Clean(cfg.MigrationsDir()))
}

func TestLoad_OverridesTimeouts(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("ORDER_PAYMENT_TIMEOUT", "30m")
	t.Setenv("ORDER_SWEEP_INTERVAL", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.PaymentTimeout)
	assert.Equal(t, 5*time.Minute, cfg.SweepInterval)
}

func TestLoad_PostgresParts(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTGRESQL_HOST", "db")
	t.Setenv("POSTGRESQL_USER", "market")
	t.Setenv("POSTGRESQL_PASSWORD", "p@ss")
	t.Setenv("POSTGRESQL_DBNAME", "campus")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://market:p%40ss@db:5432/campus?sslmode=disable", cfg.DatabaseURL)
}

func TestLoad_MySQLDriver(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.Contains(t, cfg.DatabaseURL, "parseTime=true")
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_DRIVER", "sqlite")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_RejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("ORDER_PAYMENT_TIMEOUT", "0s")

	_, err := Load()
	assert.Error(t, err)
}
