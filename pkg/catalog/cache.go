package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joeblew999/plat-fontmatch/pkg/font"
)

// ErrCacheMiss is returned by a CacheStore holding no catalog.
var ErrCacheMiss = errors.New("catalog: cache miss")

// CacheStore persists the serialized catalog between runs.
type CacheStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// cachePayload is the persisted layout: a millisecond timestamp and the
// catalog entries.
type cachePayload struct {
	Timestamp int64        `json:"timestamp"`
	Fonts     []font.Entry `json:"fonts"`
}

func encodeCache(entries []font.Entry, at time.Time) ([]byte, error) {
	data, err := json.Marshal(cachePayload{Timestamp: at.UnixMilli(), Fonts: entries})
	if err != nil {
		return nil, fmt.Errorf("marshal catalog cache: %w", err)
	}
	return data, nil
}

// decodeCache returns the cached entries if the payload is well formed,
// younger than ttl and holds more than one usable font.
func decodeCache(data []byte, now time.Time, ttl time.Duration) ([]font.Entry, error) {
	var payload cachePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode catalog cache: %w", err)
	}
	if payload.Timestamp <= 0 {
		return nil, errors.New("catalog cache has no timestamp")
	}
	age := now.Sub(time.UnixMilli(payload.Timestamp))
	if age < 0 || age > ttl {
		return nil, fmt.Errorf("catalog cache expired (age %s)", age.Round(time.Second))
	}

	entries := make([]font.Entry, 0, len(payload.Fonts))
	seen := make(map[string]bool, len(payload.Fonts))
	for _, f := range payload.Fonts {
		e := font.NewEntry(f.Family, f.Weights, string(f.Category))
		if e.Family == "" || seen[e.Family] {
			continue
		}
		seen[e.Family] = true
		entries = append(entries, e)
	}
	if len(entries) < 2 {
		return nil, fmt.Errorf("catalog cache holds %d usable fonts", len(entries))
	}
	return entries, nil
}

// FileCache keeps the catalog in a JSON file. The CLI uses it when no
// database is configured.
type FileCache struct {
	path string
}

// NewFileCache creates a file-backed cache at path.
func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

// Path returns the cache file location.
func (c *FileCache) Path() string {
	return c.path
}

// Load reads the cache file.
func (c *FileCache) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("read catalog cache: %w", err)
	}
	return data, nil
}

// Save writes the cache file, creating its directory as needed.
func (c *FileCache) Save(ctx context.Context, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create catalog cache directory: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog cache: %w", err)
	}
	return nil
}
