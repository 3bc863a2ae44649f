package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries every environment-driven knob of the feed service.
type Config struct {
	Port            string
	Env             string
	PostgresConnStr string
	MongoURI        string
	NatsURL         string

	TrendingEnabled       bool
	TrendingInterval      time.Duration
	TrendingTimeout       time.Duration
	TrendingCacheSize     int
	TrendingManualTrigger bool

	FeedDefaultLimit int
	FeedMaxLimit     int

	AgentScanInterval time.Duration
	AgentScanMaxItems int64
	AgentScanTimeout  time.Duration
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		PostgresConnStr: getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:        getEnv("MONGO_URI", ""),
		NatsURL:         getEnv("NATS_URL", "nats://localhost:4222"),

		TrendingEnabled:       getEnvBool("TRENDING_WORKER_ENABLED", true),
		TrendingInterval:      getEnvDuration("TRENDING_REFRESH_INTERVAL", 5*time.Minute),
		TrendingTimeout:       getEnvDuration("TRENDING_REFRESH_TIMEOUT", 5*time.Minute),
		TrendingCacheSize:     getEnvInt("TRENDING_CACHE_SIZE", 100),
		TrendingManualTrigger: getEnvBool("TRENDING_MANUAL_TRIGGER_ENABLED", true),

		FeedDefaultLimit: getEnvInt("FEED_DEFAULT_LIMIT", 10),
		FeedMaxLimit:     getEnvInt("FEED_MAX_LIMIT", 50),

		AgentScanInterval: getEnvDuration("AGENT_FEED_SCAN_INTERVAL", time.Hour),
		AgentScanMaxItems: int64(getEnvInt("MAX_AGENT_FEED_ITEMS_PER_SCAN", 50)),
		AgentScanTimeout:  getEnvDuration("AGENT_FEED_SCAN_TIMEOUT", 5*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
