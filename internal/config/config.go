package config

import (
	"github.com/zeromicro/go-zero/mcp"
	"github.com/zeromicro/go-zero/rest"
)

// Config holds the server configuration.
type Config struct {
	mcp.McpConf

	UI        UIConfig        `json:",optional"`
	API       APIConfig       `json:",optional"`
	Catalog   CatalogConfig   `json:",optional"`
	Fonts     FontsConfig     `json:",optional"`
	Database  DatabaseConfig  `json:",optional"`
	Snapshots SnapshotsConfig `json:",optional"`
	Sessions  SessionsConfig  `json:",optional"`
}

// UIConfig holds the Web UI server settings.
type UIConfig struct {
	rest.RestConf
}

// APIConfig holds the REST API server settings.
type APIConfig struct {
	rest.RestConf
}

// CatalogConfig holds font catalog resolution settings.
type CatalogConfig struct {
	// Endpoints are tried in order. Empty means the Google Fonts metadata listing.
	Endpoints []string `json:",optional"`

	CacheTTL       string `json:",default=24h"`
	RequestTimeout string `json:",default=10s"`
	CacheKey       string `json:",default=google-fonts-catalog-v1"`
}

// FontsConfig holds stylesheet loading settings.
type FontsConfig struct {
	StylesheetBase string `json:",default=https://fonts.googleapis.com/css2"`
	LoadTimeout    string `json:",default=8s"`

	// TargetWeights are the representative weights requested per family.
	// Empty means 300, 400 and 700.
	TargetWeights []int `json:",optional"`

	// RateLimit caps stylesheet fetches per second.
	RateLimit int `json:",default=20"`
}

// DatabaseConfig holds database settings.
type DatabaseConfig struct {
	Path string `json:",default=./.data/plat-fontmatch.db"`
}

// SnapshotsConfig holds snapshot retention settings.
type SnapshotsConfig struct {
	Limit int `json:",default=14"`
}

// SessionsConfig holds pairing session lifetime settings.
type SessionsConfig struct {
	IdleTimeout   string `json:",default=30m"`
	SweepInterval string `json:",default=1m"`
}
