// Package catalog resolves the list of fonts the pairing engine draws from.
//
// Resolution tries a fresh persisted copy first, then each metadata endpoint
// in priority order, and finally a built-in fallback table. It never fails:
// callers always get a catalog with at least two fonts.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/joeblew999/plat-fontmatch/pkg/font"
	"github.com/joeblew999/plat-fontmatch/pkg/log"
	"github.com/zeromicro/go-zero/core/threading"
)

// Resolution sources, also used as metric labels.
const (
	SourceCache    = "cache"
	SourceRemote   = "remote"
	SourceFallback = "fallback"
)

// DefaultTTL is how long a persisted catalog stays fresh.
const DefaultTTL = 7 * 24 * time.Hour

// maxMetadataBytes caps a metadata response body.
const maxMetadataBytes = 32 << 20

// ProviderOptions configures the Provider
type ProviderOptions struct {
	Endpoints    []string
	TTL          time.Duration
	Timeout      time.Duration
	Client       *http.Client
	Cache        CacheStore
	ForceRefresh bool
	Now          func() time.Time
	Fallback     []font.Entry
}

// ProviderOption configures the provider
type ProviderOption func(*ProviderOptions)

// WithEndpoints sets the metadata endpoints, highest priority first.
func WithEndpoints(endpoints ...string) ProviderOption {
	return func(opts *ProviderOptions) {
		opts.Endpoints = slices.Clone(endpoints)
	}
}

// WithTTL sets how long a persisted catalog is trusted.
func WithTTL(ttl time.Duration) ProviderOption {
	return func(opts *ProviderOptions) {
		if ttl > 0 {
			opts.TTL = ttl
		}
	}
}

// WithTimeout bounds each endpoint request.
func WithTimeout(d time.Duration) ProviderOption {
	return func(opts *ProviderOptions) {
		if d > 0 {
			opts.Timeout = d
		}
	}
}

// WithHTTPClient sets the client used for endpoint requests.
func WithHTTPClient(client *http.Client) ProviderOption {
	return func(opts *ProviderOptions) {
		if client != nil {
			opts.Client = client
		}
	}
}

// WithCache sets where the catalog is persisted between runs.
func WithCache(cache CacheStore) ProviderOption {
	return func(opts *ProviderOptions) {
		opts.Cache = cache
	}
}

// WithForceRefresh skips reading the persisted catalog. A successful remote
// fetch still overwrites it.
func WithForceRefresh(force bool) ProviderOption {
	return func(opts *ProviderOptions) {
		opts.ForceRefresh = force
	}
}

// WithClock overrides the time source used for cache freshness.
func WithClock(now func() time.Time) ProviderOption {
	return func(opts *ProviderOptions) {
		if now != nil {
			opts.Now = now
		}
	}
}

// WithFallback replaces the built-in fallback table. Tables with fewer than
// two fonts are ignored.
func WithFallback(entries []font.Entry) ProviderOption {
	return func(opts *ProviderOptions) {
		if len(entries) >= 2 {
			opts.Fallback = slices.Clone(entries)
		}
	}
}

// Provider resolves the catalog once per process and shares the result.
type Provider struct {
	options *ProviderOptions

	once    sync.Once
	done    chan struct{}
	entries []font.Entry
	source  string
}

// NewProvider creates a provider. Without endpoints it resolves straight to
// the cache or the fallback table.
func NewProvider(opts ...ProviderOption) *Provider {
	options := &ProviderOptions{
		Endpoints: []string{font.GoogleFontsMetadataURL},
		TTL:       DefaultTTL,
		Timeout:   15 * time.Second,
		Client:    http.DefaultClient,
		Now:       time.Now,
		Fallback:  font.Fallback(),
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Provider{
		options: options,
		done:    make(chan struct{}),
	}
}

// Catalog returns the resolved catalog, starting resolution on first use.
// Concurrent callers share one resolution. If ctx ends first the fallback
// table is returned while resolution carries on in the background.
func (p *Provider) Catalog(ctx context.Context) []font.Entry {
	p.once.Do(p.start)

	select {
	case <-p.done:
		return cloneEntries(p.entries)
	case <-ctx.Done():
		return p.Fallback()
	}
}

// Done is closed once resolution has finished.
func (p *Provider) Done() <-chan struct{} {
	p.once.Do(p.start)
	return p.done
}

// Source reports where the resolved catalog came from, or "" while
// resolution is still running.
func (p *Provider) Source() string {
	select {
	case <-p.done:
		return p.source
	default:
		return ""
	}
}

// Fallback returns a copy of the fallback table.
func (p *Provider) Fallback() []font.Entry {
	return cloneEntries(p.options.Fallback)
}

func (p *Provider) start() {
	threading.GoSafe(func() {
		entries, source := p.Fallback(), SourceFallback
		defer func() {
			p.entries, p.source = entries, source
			resolutions.Inc(source)
			catalogSize.Set(float64(len(entries)), source)
			close(p.done)
		}()

		entries, source = p.resolve(context.Background())
		log.Info("Font catalog resolved", "source", source, "fonts", len(entries))
	})
}

func (p *Provider) resolve(ctx context.Context) ([]font.Entry, string) {
	if entries, ok := p.readCache(ctx); ok {
		return entries, SourceCache
	}

	for _, endpoint := range p.options.Endpoints {
		entries, err := p.fetch(ctx, endpoint)
		if err == nil && len(entries) < 2 {
			err = fmt.Errorf("endpoint returned %d fonts", len(entries))
		}
		if err != nil {
			endpointFailures.Inc(endpoint)
			log.Warn("Font metadata endpoint unusable, trying next", "endpoint", endpoint, "error", err)
			continue
		}
		p.writeCache(ctx, entries)
		return entries, SourceRemote
	}

	return p.Fallback(), SourceFallback
}

func (p *Provider) readCache(ctx context.Context) ([]font.Entry, bool) {
	if p.options.Cache == nil || p.options.ForceRefresh {
		return nil, false
	}

	data, err := p.options.Cache.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			log.Warn("Failed to read catalog cache", "error", err)
		}
		return nil, false
	}

	entries, err := decodeCache(data, p.options.Now(), p.options.TTL)
	if err != nil {
		log.Debug("Ignoring catalog cache", "reason", err)
		return nil, false
	}
	return entries, true
}

func (p *Provider) writeCache(ctx context.Context, entries []font.Entry) {
	if p.options.Cache == nil {
		return
	}

	data, err := encodeCache(entries, p.options.Now())
	if err == nil {
		err = p.options.Cache.Save(ctx, data)
	}
	if err != nil {
		log.Warn("Failed to persist catalog cache", "error", err)
	}
}

func (p *Provider) fetch(ctx context.Context, endpoint string) ([]font.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, p.options.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.options.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch metadata: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxMetadataBytes))
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	return ParseMetadata(body)
}

func cloneEntries(entries []font.Entry) []font.Entry {
	out := make([]font.Entry, len(entries))
	for i, e := range entries {
		out[i] = e
		out[i].Weights = slices.Clone(e.Weights)
	}
	return out
}
