package config

import (
	"os"
	"path/filepath"
	"strings"
)

// findUserConfigFile locates the user-level config file, preferring the OS
// config directory over the legacy ~/.kanbo location.
func findUserConfigFile() string {
	if dir, err := os.UserConfigDir(); err == nil {
		candidate := filepath.Join(dir, "kanbo", "kanbo.toml")
		if fileExists(candidate) {
			return candidate
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, ".kanbo", "kanbo.toml")
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

// findProjectConfigFile locates a per-directory config file.
func findProjectConfigFile() string {
	for _, name := range []string{"kanbo.toml", ".kanbo.toml"} {
		if fileExists(name) {
			return name
		}
	}
	return ""
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

// expandPath expands a leading ~ and environment variables in paths.
func expandPath(p string) string {
	if p == "" {
		return p
	}

	expanded := os.ExpandEnv(p)
	if expanded == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return home
	}
	if strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, expanded[2:])
	}
	return expanded
}
