// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package svc

import (
	"context"

	"github.com/joeblew999/plat-fontmatch/internal/config"
	"github.com/joeblew999/plat-fontmatch/pkg/catalog"
	"github.com/joeblew999/plat-fontmatch/pkg/font"
	"github.com/joeblew999/plat-fontmatch/pkg/session"
	"github.com/joeblew999/plat-fontmatch/pkg/snapshot"
)

type ServiceContext struct {
	Config    config.Config
	Catalog   *catalog.Provider
	Loader    *font.Loader
	Sessions  *session.Registry
	Snapshots *snapshot.Store
}

func NewServiceContext(c config.Config, provider *catalog.Provider, loader *font.Loader,
	sessions *session.Registry, snapshots *snapshot.Store) *ServiceContext {
	return &ServiceContext{
		Config:    c,
		Catalog:   provider,
		Loader:    loader,
		Sessions:  sessions,
		Snapshots: snapshots,
	}
}

// NewController starts a pairing session. Once the catalog has resolved the
// session starts on it directly; until then it starts on the fallback table
// and swaps the resolved catalog in when it arrives.
func NewController(provider *catalog.Provider, loader *font.Loader, opts ...session.Option) (*session.Controller, error) {
	select {
	case <-provider.Done():
		return session.New(provider.Catalog(context.Background()), loader, opts...)
	default:
	}

	c, err := session.New(provider.Fallback(), loader, opts...)
	if err != nil {
		return nil, err
	}
	c.WatchCatalog(provider)
	return c, nil
}
