package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_PORT", "")
	t.Setenv("RATE_BACKEND", "")
	t.Setenv("STATS_CACHE_TTL", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.StatsCacheTTL)
	assert.True(t, decimal.NewFromInt(30).Equal(cfg.RateBackend))
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("RATE_DESIGN", "22.5")
	t.Setenv("LOG_JSON", "yes")
	t.Setenv("JWT_EXPIRY", "not-a-number")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, decimal.RequireFromString("22.5").Equal(cfg.RateDesign))
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, 24, cfg.JWTExpiry)
}

func TestValidate(t *testing.T) {
	t.Run("default secret in production", func(t *testing.T) {
		cfg := Load()
		cfg.Environment = "production"
		cfg.JWTSecret = "your-secret-key"
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive rate", func(t *testing.T) {
		cfg := Load()
		cfg.RateTesting = decimal.Zero
		assert.Error(t, cfg.Validate())
	})

	t.Run("production with secret", func(t *testing.T) {
		cfg := Load()
		cfg.Environment = "production"
		cfg.JWTSecret = "s3cr3t"
		assert.NoError(t, cfg.Validate())
	})
}
