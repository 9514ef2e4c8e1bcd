// Package config provides environment-aware path defaults shared by the CLI
// and the server.
package config

import (
	"os"
	"path/filepath"
)

// GetDataPath returns the data directory path.
// It checks for DATA_PATH environment variable, otherwise uses a default.
func GetDataPath() string {
	if path := os.Getenv("DATA_PATH"); path != "" {
		return path
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return filepath.Join(cwd, ".data")
}

// GetCatalogCachePath returns the JSON file used by the CLI to cache the
// remote font catalog.
// It checks for FONT_CACHE_PATH environment variable, otherwise uses a default.
func GetCatalogCachePath() string {
	if path := os.Getenv("FONT_CACHE_PATH"); path != "" {
		return path
	}

	return filepath.Join(GetDataPath(), "catalog.json")
}

// GetDatabasePath returns the SQLite database path.
// It checks for DATABASE_PATH environment variable, otherwise uses a default.
func GetDatabasePath() string {
	if path := os.Getenv("DATABASE_PATH"); path != "" {
		return path
	}

	return filepath.Join(GetDataPath(), "plat-fontmatch.db")
}
