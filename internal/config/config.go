// Package config handles configuration loading and defaults.
package config

import (
	"flag"
	"fmt"

	"github.com/BurntSushi/toml"
)

// Storage backend names.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Default values.
const (
	DefaultDataDir   = "~/.kanbo"
	DefaultBackend   = BackendFile
	DefaultBoardKey  = "board"
	DefaultRedisAddr = "localhost:6379"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for kanbo.
type Config struct {
	// Storage
	DataDir    string `toml:"data_dir"`
	Backend    string `toml:"backend"`
	BoardKey   string `toml:"board_key"`
	SchemaFile string `toml:"schema_file"`
	RedisAddr  string `toml:"redis_addr"`
	RedisDB    int    `toml:"redis_db"`

	// Logging
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (OS config dir or ~/.kanbo/kanbo.toml)
// 3. Project config file (kanbo.toml or .kanbo.toml in current directory)
// 4. .env file and environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	userConfigFile := findUserConfigFile()
	if userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	// 3. Try to load from project config file (overrides user config)
	projectConfigFile := findProjectConfigFile()
	if projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	// 4. Override from environment (.env first, then process env)
	loadDotenv()
	loadFromEnv(cfg)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cfg, nil
}

// loadConfigFile loads TOML config from the given file.
func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// parseFlags registers the global flags on fs and parses args into cfg.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory for the file storage backend")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "Storage backend (file|memory|redis)")
	fs.StringVar(&cfg.BoardKey, "board-key", cfg.BoardKey, "Storage key the board is persisted under")
	fs.StringVar(&cfg.SchemaFile, "schema", cfg.SchemaFile, "JSON Schema file for validating stored boards")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address for the redis backend")
	fs.IntVar(&cfg.RedisDB, "redis-db", cfg.RedisDB, "Redis database number")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	return fs.Parse(args)
}

func setDefaults(cfg *Config) {
	cfg.DataDir = DefaultDataDir
	cfg.Backend = DefaultBackend
	cfg.BoardKey = DefaultBoardKey
	cfg.RedisAddr = DefaultRedisAddr
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// finalizeConfig computes derived values and validates the backend choice.
func finalizeConfig(cfg *Config) error {
	cfg.DataDir = expandPath(cfg.DataDir)
	if cfg.SchemaFile != "" {
		cfg.SchemaFile = expandPath(cfg.SchemaFile)
	}

	switch cfg.Backend {
	case BackendFile, BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("unknown backend %q, must be one of: file, memory, redis", cfg.Backend)
	}

	if cfg.BoardKey == "" {
		return fmt.Errorf("board_key must not be empty")
	}

	return nil
}
