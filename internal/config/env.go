package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// loadDotenv merges a .env file from the current directory into the process
// environment without overriding variables that are already set.
func loadDotenv() {
	if !fileExists(".env") {
		return
	}
	// Load never overrides existing process env, matching env precedence.
	_ = godotenv.Load()
}

// loadFromEnv overrides config from KANBO_* environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("KANBO_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("KANBO_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("KANBO_BOARD_KEY"); v != "" {
		cfg.BoardKey = v
	}
	if v := os.Getenv("KANBO_SCHEMA"); v != "" {
		cfg.SchemaFile = v
	}
	if v := os.Getenv("KANBO_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("KANBO_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = db
		}
	}
	if v := os.Getenv("KANBO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("KANBO_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("KANBO_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
	}
}

func boolFromString(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
