package config

import (
	"os"
	"strings"

	commoncfg "github.com/asleulv/vervekart/common/config"
)

// Config holds vervekart service configuration. Both binaries load the same
// struct; the live service only reads Live, CORS and Log.
type Config struct {
	HTTP struct {
		Addr string
	}
	Live struct {
		Addr string
	}
	DBEnabled bool
	Database  commoncfg.DatabaseConfig
	Redis     struct {
		commoncfg.RedisConfig
		Stream string
	}
	CORS struct {
		Origins []string
	}
	AddressRegistry struct {
		BaseURL string
	}
	Log struct {
		Level  string
		Format string
	}
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":3099")
	cfg.Live.Addr = getEnv("LIVE_HTTP_ADDR", ":3001")

	// Default to true for local dev; when the DB is unavailable the API falls
	// back to the in-memory repositories so the map UI still works.
	cfg.DBEnabled = getEnv("DB_ENABLED", "true") == "true"
	cfg.Database = commoncfg.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "vervekart",
		SSLMode:  "disable",
	}
	cfg.Database.LoadFromEnv("DB")

	// Empty REDIS_ADDR disables the status event stream entirely.
	cfg.Redis.LoadFromEnv("REDIS")
	cfg.Redis.Stream = getEnv("STATUS_EVENT_STREAM", "vervekart:status-events")

	cfg.CORS.Origins = splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000"))

	// External address registry the /api/addresses/bounds proxy talks to.
	cfg.AddressRegistry.BaseURL = getEnv("ADDRESSES_API_URL", "")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
