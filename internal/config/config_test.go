// Package config tests configuration loading.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

// isolateEnv points every config discovery path at empty temp directories so
// the developer's real machine never leaks into a test.
func isolateEnv(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	for _, key := range []string{
		"KANBO_DATA_DIR", "KANBO_BACKEND", "KANBO_BOARD_KEY", "KANBO_SCHEMA",
		"KANBO_REDIS_ADDR", "KANBO_REDIS_DB", "KANBO_LOG_LEVEL",
		"KANBO_LOG_FORMAT", "KANBO_LOG_TIMESTAMPS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func load(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	return Load(fs, args)
}

func TestDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := load(t)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	home, _ := os.UserHomeDir()
	if cfg.DataDir != filepath.Join(home, ".kanbo") {
		t.Errorf("DataDir: got %q, want %q", cfg.DataDir, filepath.Join(home, ".kanbo"))
	}
	if cfg.Backend != BackendFile {
		t.Errorf("Backend: got %q, want %q", cfg.Backend, BackendFile)
	}
	if cfg.BoardKey != DefaultBoardKey {
		t.Errorf("BoardKey: got %q, want %q", cfg.BoardKey, DefaultBoardKey)
	}
	if cfg.RedisAddr != DefaultRedisAddr {
		t.Errorf("RedisAddr: got %q, want %q", cfg.RedisAddr, DefaultRedisAddr)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("logging defaults: got %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestProjectConfigFile(t *testing.T) {
	isolateEnv(t)

	content := `
backend = "memory"
board_key = "team"
log_level = "debug"
`
	if err := os.WriteFile("kanbo.toml", []byte(content), 0644); err != nil {
		t.Fatalf("writing project config: %v", err)
	}

	cfg, err := load(t)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != BackendMemory {
		t.Errorf("Backend: got %q, want memory", cfg.Backend)
	}
	if cfg.BoardKey != "team" {
		t.Errorf("BoardKey: got %q, want team", cfg.BoardKey)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
}

func TestUserConfigFile(t *testing.T) {
	isolateEnv(t)

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if err := os.MkdirAll(filepath.Join(configDir, "kanbo"), 0755); err != nil {
		t.Fatalf("creating config dir: %v", err)
	}
	content := `redis_addr = "redis.internal:6379"` + "\n"
	if err := os.WriteFile(filepath.Join(configDir, "kanbo", "kanbo.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("writing user config: %v", err)
	}

	cfg, err := load(t)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.RedisAddr != "redis.internal:6379" {
		t.Errorf("RedisAddr: got %q, want redis.internal:6379", cfg.RedisAddr)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	isolateEnv(t)

	if err := os.WriteFile("kanbo.toml", []byte(`backend = "memory"`+"\n"), 0644); err != nil {
		t.Fatalf("writing project config: %v", err)
	}
	t.Setenv("KANBO_BACKEND", "redis")
	t.Setenv("KANBO_REDIS_DB", "3")

	cfg, err := load(t)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != BackendRedis {
		t.Errorf("Backend: got %q, want redis", cfg.Backend)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("RedisDB: got %d, want 3", cfg.RedisDB)
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("KANBO_BACKEND", "redis")

	cfg, err := load(t, "--backend", "memory")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != BackendMemory {
		t.Errorf("Backend: got %q, want memory", cfg.Backend)
	}
}

func TestDotenvFile(t *testing.T) {
	isolateEnv(t)
	t.Cleanup(func() {
		// godotenv writes into the process environment; scrub it.
		os.Unsetenv("KANBO_BOARD_KEY")
	})

	if err := os.WriteFile(".env", []byte("KANBO_BOARD_KEY=dotenv-board\n"), 0644); err != nil {
		t.Fatalf("writing .env: %v", err)
	}

	cfg, err := load(t)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BoardKey != "dotenv-board" {
		t.Errorf("BoardKey: got %q, want dotenv-board", cfg.BoardKey)
	}
}

func TestInvalidBackend(t *testing.T) {
	isolateEnv(t)

	if _, err := load(t, "--backend", "postgres"); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestEmptyBoardKeyRejected(t *testing.T) {
	isolateEnv(t)

	if _, err := load(t, "--board-key", ""); err == nil {
		t.Error("expected error for empty board key")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/boards", filepath.Join(home, "boards")},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
	}

	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}
