package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.example",
		Port:     5433,
		User:     "verver",
		Password: "secret",
		Database: "vervekart",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.example port=5433 user=verver password=secret dbname=vervekart sslmode=require",
		cfg.GetDSN())
}

func TestDatabaseLoadFromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db.example")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "vervekart_test")

	cfg := DatabaseConfig{Host: "localhost", Port: 5432, Database: "vervekart", SSLMode: "disable"}
	cfg.LoadFromEnv("DB")

	assert.Equal(t, "db.example", cfg.Host)
	assert.Equal(t, 5433, cfg.Port)
	assert.Equal(t, "vervekart_test", cfg.Database)
	// Unset keys keep their defaults.
	assert.Equal(t, "disable", cfg.SSLMode)
}

func TestRedisLoadFromEnv(t *testing.T) {
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")

	var cfg RedisConfig
	cfg.LoadFromEnv("REDIS")

	assert.Equal(t, "localhost:6379", cfg.Addr)
	assert.Equal(t, 3, cfg.DB)
	assert.Empty(t, cfg.Password)
}
