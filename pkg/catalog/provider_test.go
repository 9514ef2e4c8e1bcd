package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joeblew999/plat-fontmatch/pkg/font"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const googleMetadata = `)]}'
{"familyMetadataList":[
 {"family":"Inter","category":"Sans Serif","fonts":{"400":{},"400i":{},"700":{}},"axes":[]},
 {"family":"Lora","category":"Serif","fonts":{},"axes":[{"tag":"wght","min":380,"max":720}]},
 {"family":"","category":"Serif"},
 {"family":"Caveat","category":"Handwriting"}
]}`

type memoryCache struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

func (c *memoryCache) Load(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		return nil, ErrCacheMiss
	}
	return c.data, nil
}

func (c *memoryCache) Save(ctx context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = data
	c.saves++
	return nil
}

func metadataServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestParseMetadataGoogleListing(t *testing.T) {
	entries, err := ParseMetadata([]byte(googleMetadata))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, font.Entry{Family: "Inter", Weights: []int{400, 700}, Category: font.CategorySansSerif}, entries[0])
	assert.Equal(t, font.Entry{Family: "Lora", Weights: []int{400, 500, 600, 700}, Category: font.CategorySerif}, entries[1])
	assert.Equal(t, font.Entry{Family: "Caveat", Weights: []int{400, 700}, Category: font.CategoryHandwriting}, entries[2])
}

func TestParseMetadataItems(t *testing.T) {
	body := `{"items":[
	 {"family":"Roboto Mono","category":"monospace","variants":["100","regular","italic","700italic"]},
	 {"family":"Anton","category":"DISPLAY","variants":["regular"]}
	]}`
	entries, err := ParseMetadata([]byte(body))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, []int{100, 400, 700}, entries[0].Weights)
	assert.Equal(t, font.CategoryMonospace, entries[0].Category)
	assert.Equal(t, []int{400}, entries[1].Weights)
	assert.Equal(t, font.CategoryDisplay, entries[1].Category)
}

func TestParseMetadataAxisClamped(t *testing.T) {
	body := `{"familyMetadataList":[{"family":"Wide","axes":[{"tag":"wght","min":1,"max":1000}]}]}`
	entries, err := ParseMetadata([]byte(body))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []int{100, 200, 300, 400, 500, 600, 700, 800, 900}, entries[0].Weights)
	assert.Equal(t, font.CategorySansSerif, entries[0].Category)
}

func TestParseMetadataRejectsGarbage(t *testing.T) {
	_, err := ParseMetadata([]byte("not json"))
	assert.Error(t, err)

	_, err = ParseMetadata([]byte(`{"items": 7}`))
	assert.Error(t, err)
}

func TestProviderRemoteThenCached(t *testing.T) {
	srv, hits := metadataServer(t, http.StatusOK, googleMetadata)
	cache := &memoryCache{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	p := NewProvider(WithEndpoints(srv.URL), WithCache(cache), WithClock(clock))
	entries := p.Catalog(context.Background())
	assert.Equal(t, []string{"Inter", "Lora", "Caveat"}, font.Families(entries))
	assert.Equal(t, SourceRemote, p.Source())
	assert.Equal(t, 1, cache.saves)
	assert.EqualValues(t, 1, hits.Load())

	now = now.Add(24 * time.Hour)
	second := NewProvider(WithEndpoints(srv.URL), WithCache(cache), WithClock(clock))
	assert.Equal(t, font.Families(entries), font.Families(second.Catalog(context.Background())))
	assert.Equal(t, SourceCache, second.Source())
	assert.EqualValues(t, 1, hits.Load(), "fresh cache skips the network")
}

func TestProviderExpiredCacheRefetches(t *testing.T) {
	srv, hits := metadataServer(t, http.StatusOK, googleMetadata)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	stale, err := encodeCache([]font.Entry{{Family: "Old A"}, {Family: "Old B"}}, now.Add(-8*24*time.Hour))
	require.NoError(t, err)
	cache := &memoryCache{data: stale}

	p := NewProvider(WithEndpoints(srv.URL), WithCache(cache), WithClock(func() time.Time { return now }))
	entries := p.Catalog(context.Background())
	assert.Equal(t, SourceRemote, p.Source())
	assert.Len(t, entries, 3)
	assert.EqualValues(t, 1, hits.Load())
}

func TestProviderForceRefreshIgnoresFreshCache(t *testing.T) {
	srv, hits := metadataServer(t, http.StatusOK, googleMetadata)
	now := time.Now()
	fresh, err := encodeCache([]font.Entry{{Family: "Cached A"}, {Family: "Cached B"}}, now)
	require.NoError(t, err)
	cache := &memoryCache{data: fresh}

	p := NewProvider(WithEndpoints(srv.URL), WithCache(cache), WithForceRefresh(true))
	assert.Len(t, p.Catalog(context.Background()), 3)
	assert.Equal(t, SourceRemote, p.Source())
	assert.EqualValues(t, 1, hits.Load())
}

func TestProviderEndpointsInPriorityOrder(t *testing.T) {
	broken, brokenHits := metadataServer(t, http.StatusInternalServerError, "boom")
	tiny, tinyHits := metadataServer(t, http.StatusOK, `{"items":[{"family":"Only"}]}`)
	good, goodHits := metadataServer(t, http.StatusOK, googleMetadata)

	p := NewProvider(WithEndpoints(broken.URL, tiny.URL, good.URL))
	entries := p.Catalog(context.Background())

	assert.Len(t, entries, 3)
	assert.Equal(t, SourceRemote, p.Source())
	assert.EqualValues(t, 1, brokenHits.Load())
	assert.EqualValues(t, 1, tinyHits.Load())
	assert.EqualValues(t, 1, goodHits.Load())
}

func TestProviderFallsBack(t *testing.T) {
	broken, _ := metadataServer(t, http.StatusOK, "<html>")
	cache := &memoryCache{data: []byte("{corrupt")}

	p := NewProvider(WithEndpoints(broken.URL), WithCache(cache))
	entries := p.Catalog(context.Background())

	assert.Equal(t, SourceFallback, p.Source())
	assert.True(t, font.SameFamilies(font.Fallback(), entries))
	assert.Zero(t, cache.saves, "fallback is never persisted")
}

func TestProviderResolvesOnce(t *testing.T) {
	srv, hits := metadataServer(t, http.StatusOK, googleMetadata)
	p := NewProvider(WithEndpoints(srv.URL))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, p.Catalog(context.Background()), 3)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, hits.Load())
}

func TestProviderCallerCancellation(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(googleMetadata))
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	p := NewProvider(WithEndpoints(srv.URL))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	entries := p.Catalog(ctx)
	assert.True(t, font.SameFamilies(font.Fallback(), entries))
	assert.Empty(t, p.Source(), "resolution keeps running")
}

func TestProviderReturnsCopies(t *testing.T) {
	p := NewProvider(WithEndpoints())
	first := p.Catalog(context.Background())
	first[0].Family = "Mutated"
	first[1].Weights[0] = 123

	second := p.Catalog(context.Background())
	assert.NotEqual(t, "Mutated", second[0].Family)
	assert.NotEqual(t, 123, second[1].Weights[0])
}

func TestFileCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.json")
	cache := NewFileCache(path)

	_, err := cache.Load(context.Background())
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, cache.Save(context.Background(), []byte(`{"timestamp":1}`)))
	data, err := cache.Load(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"timestamp":1}`, string(data))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestDecodeCacheValidation(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	good, err := encodeCache([]font.Entry{{Family: "A", Weights: []int{400}}, {Family: "B"}}, now.Add(-time.Hour))
	require.NoError(t, err)

	entries, err := decodeCache(good, now, DefaultTTL)
	require.NoError(t, err)
	assert.Equal(t, []int{400, 700}, entries[1].Weights, "missing weights get defaults")

	_, err = decodeCache(good, now.Add(8*24*time.Hour), DefaultTTL)
	assert.Error(t, err)

	single, err := encodeCache([]font.Entry{{Family: "A"}, {Family: "A"}}, now)
	require.NoError(t, err)
	_, err = decodeCache(single, now, DefaultTTL)
	assert.Error(t, err, "one usable font is not a catalog")

	_, err = decodeCache([]byte(`{"fonts":[{"family":"A"},{"family":"B"}]}`), now, DefaultTTL)
	assert.Error(t, err, "timestamp is required")
}
