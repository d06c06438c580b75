// Package config provides configuration for the orchestrator.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the orchestrator configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Session store
	StoreBackend  string
	DatabasePath  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	// Extraction model
	ExtractorMode   string
	OpenAIAPIKey    string
	OpenAIModel     string
	IntentTimeout   time.Duration
	GreetingTimeout time.Duration
	CollectTimeout  time.Duration

	// Downstream planning agent
	PlannerURL          string
	PlannerTimeout      time.Duration
	PlannerMaxAttempts  int
	PlannerRetryBackoff time.Duration

	// Input and output policy checks
	PolicyEnabled bool
	PolicyTimeout time.Duration

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:            getEnvInt("HTTP_PORT", 8080),
		StoreBackend:        getEnv("STORE_BACKEND", "memory"),
		DatabasePath:        getEnv("DATABASE_PATH", "file:orchestrator.db?cache=shared&mode=rwc"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		SessionTTL:          getEnvDuration("SESSION_TTL", 24*time.Hour),
		ExtractorMode:       getEnv("EXTRACTOR_MODE", "openai"),
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:         getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		IntentTimeout:       getEnvDuration("INTENT_TIMEOUT", 15*time.Second),
		GreetingTimeout:     getEnvDuration("GREETING_TIMEOUT", 20*time.Second),
		CollectTimeout:      getEnvDuration("COLLECT_TIMEOUT", 35*time.Second),
		PlannerURL:          getEnv("PLANNER_URL", ""),
		PlannerTimeout:      getEnvDuration("PLANNER_TIMEOUT", 30*time.Second),
		PlannerMaxAttempts:  getEnvInt("PLANNER_MAX_ATTEMPTS", 3),
		PlannerRetryBackoff: getEnvDuration("PLANNER_RETRY_BACKOFF", 2*time.Second),
		PolicyEnabled:       getEnvBool("POLICY_ENABLED", true),
		PolicyTimeout:       getEnvDuration("POLICY_TIMEOUT", 2*time.Second),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
