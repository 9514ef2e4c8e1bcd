package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/joeblew999/plat-fontmatch/pkg/catalog"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

// DefaultCatalogCacheKey names the catalog row when none is configured.
const DefaultCatalogCacheKey = "google-fonts-catalog-v1"

var _ catalog.CacheStore = (*CatalogCache)(nil)

// CatalogCache stores the serialized catalog in the catalog_cache table.
type CatalogCache struct {
	conn sqlx.SqlConn
	key  string
}

// NewCatalogCache returns a cache reading and writing the row named key.
func NewCatalogCache(conn sqlx.SqlConn, key string) *CatalogCache {
	if key == "" {
		key = DefaultCatalogCacheKey
	}
	return &CatalogCache{conn: conn, key: key}
}

// Load returns the stored payload or catalog.ErrCacheMiss.
func (c *CatalogCache) Load(ctx context.Context) ([]byte, error) {
	var payload string
	err := c.conn.QueryRowCtx(ctx, &payload, "select `payload` from `catalog_cache` where `key` = ? limit 1", c.key)
	switch {
	case err == nil:
		return []byte(payload), nil
	case errors.Is(err, sqlx.ErrNotFound):
		return nil, catalog.ErrCacheMiss
	default:
		return nil, fmt.Errorf("load catalog cache: %w", err)
	}
}

// Save replaces the stored payload.
func (c *CatalogCache) Save(ctx context.Context, data []byte) error {
	query := "insert into `catalog_cache` (`key`, `payload`, `updated_at`) values (?, ?, CURRENT_TIMESTAMP) " +
		"on conflict(`key`) do update set `payload` = excluded.`payload`, `updated_at` = excluded.`updated_at`"
	if _, err := c.conn.ExecCtx(ctx, query, c.key, string(data)); err != nil {
		return fmt.Errorf("save catalog cache: %w", err)
	}
	return nil
}
