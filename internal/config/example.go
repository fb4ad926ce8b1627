package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# Kanbo configuration file
# Every value can be overridden by KANBO_* environment variables or CLI flags

# Directory for the file storage backend (supports ~ expansion)
data_dir = "~/.kanbo"

# Storage backend: file, memory, or redis
backend = "file"

# Storage key the board envelope is persisted under.
# Separate keys give you separate boards.
board_key = "board"

# JSON Schema used to validate stored boards on startup.
# Leave empty for the built-in minimal checks.
# schema_file = "board.schema.json"

# Redis connection (only used with backend = "redis")
redis_addr = "localhost:6379"
redis_db = 0

# Logging
log_level = "info"    # debug, info, warn, error
log_format = "text"   # text, json, logfmt
log_timestamps = false
`
}
