package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/joeblew999/plat-fontmatch/internal/config"
	"github.com/joeblew999/plat-fontmatch/internal/svc"
	"github.com/joeblew999/plat-fontmatch/pkg/catalog"
	"github.com/joeblew999/plat-fontmatch/pkg/font"
	"github.com/joeblew999/plat-fontmatch/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSessionRecreatedAfterRemoval(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer down.Close()

	provider := catalog.NewProvider(catalog.WithEndpoints(down.URL))
	loader := font.NewLoader(nil, nil)
	registry := session.NewRegistry(func() (*session.Controller, error) {
		return svc.NewController(provider, loader)
	})
	defer registry.Stop()

	d := &defaultSession{svcCtx: svc.NewServiceContext(config.Config{}, provider, loader, registry, nil)}

	id, c, err := d.get()
	require.NoError(t, err)
	again, same, err := d.get()
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Same(t, c, same)

	require.NoError(t, registry.Remove(id))
	next, fresh, err := d.get()
	require.NoError(t, err)
	assert.NotEqual(t, id, next)
	assert.Equal(t, 1, registry.Len())

	st := d.state(next, fresh)
	assert.Equal(t, "none", st.Lock)
}

func TestDuration(t *testing.T) {
	assert.Equal(t, 90*time.Second, duration("90s", time.Minute))
	assert.Equal(t, time.Minute, duration("", time.Minute))
	assert.Equal(t, time.Minute, duration("soon", time.Minute))
	assert.Equal(t, time.Minute, duration("-5s", time.Minute))
}
