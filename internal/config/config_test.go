package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":3099", cfg.HTTP.Addr)
	assert.Equal(t, ":3001", cfg.Live.Addr)
	assert.True(t, cfg.DBEnabled)
	assert.Equal(t, "vervekart", cfg.Database.Database)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "vervekart:status-events", cfg.Redis.Stream)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORS.Origins)
	assert.Empty(t, cfg.AddressRegistry.BaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("DB_ENABLED", "false")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CORS_ORIGINS", "https://vervekart.no, https://admin.vervekart.no")

	cfg := Load()

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.False(t, cfg.DBEnabled)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"https://vervekart.no", "https://admin.vervekart.no"}, cfg.CORS.Origins)
}

func TestLoadBadPortFallsBack(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")
	cfg := Load()
	assert.Equal(t, 5432, cfg.Database.Port)
}
