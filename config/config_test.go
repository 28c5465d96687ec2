package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "ENV", "JWT_SECRET", "ALLOWED_ORIGINS", "STORAGE_DRIVER", "TAX_RATE", "RATE_LIMIT_RPS", "LOW_STOCK_THRESHOLD", "REDIS_ADDR"} {
		t.Setenv(key, "")
	}
	prev := AppConfig
	t.Cleanup(func() { AppConfig = prev })
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 24, cfg.JWTExpiryHours)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, "local", cfg.StorageDriver)
	assert.Equal(t, 5, cfg.LowStockThreshold)
	assert.Equal(t, 20.0, cfg.RateLimitRPS)
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.IsProduction())
	assert.Same(t, cfg, AppConfig)
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", " https://shop.example.com , ,https://admin.example.com")
	t.Setenv("TAX_RATE", "18")
	t.Setenv("RATE_LIMIT_RPS", "0")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 18.0, cfg.TaxRate)
	assert.Zero(t, cfg.RateLimitRPS)
}

func TestLoadConfigValidation(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	_, err := LoadConfig()
	assert.EqualError(t, err, "JWT_SECRET must be set in production")

	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("STORAGE_DRIVER", "gcs")
	_, err = LoadConfig()
	assert.EqualError(t, err, `unknown STORAGE_DRIVER "gcs"`)
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "shop", DBSSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=shop sslmode=disable", cfg.DSN())
}
