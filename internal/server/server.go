package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/joeblew999/plat-fontmatch/internal/config"
	"github.com/joeblew999/plat-fontmatch/internal/errorx"
	"github.com/joeblew999/plat-fontmatch/internal/handler"
	"github.com/joeblew999/plat-fontmatch/internal/svc"
	"github.com/joeblew999/plat-fontmatch/internal/ui"
	"github.com/joeblew999/plat-fontmatch/pkg/catalog"
	"github.com/joeblew999/plat-fontmatch/pkg/db"
	"github.com/joeblew999/plat-fontmatch/pkg/font"
	"github.com/joeblew999/plat-fontmatch/pkg/session"
	"github.com/joeblew999/plat-fontmatch/pkg/snapshot"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/mr"
	"github.com/zeromicro/go-zero/core/proc"
	"github.com/zeromicro/go-zero/core/prometheus"
	"github.com/zeromicro/go-zero/core/service"
	"github.com/zeromicro/go-zero/mcp"
	"github.com/zeromicro/go-zero/rest"
)

// Server wraps the MCP server and the font pairing services.
type Server struct {
	config config.Config
	group  *service.ServiceGroup
}

// New creates a new server instance.
func New(c config.Config) (*Server, error) {
	// Register global error handler for proper HTTP status codes
	errorx.RegisterErrorHandler()

	// Enable go-zero prometheus metrics (required for metric.CounterVec/HistogramVec/GaugeVec to record)
	prometheus.Enable()

	mcpServer := mcp.NewMcpServer(c.McpConf)

	// The database and the stylesheet loader are independent
	var database *db.DB
	var loader *font.Loader

	err := mr.Finish(
		func() error {
			var e error
			database, e = db.Open(c.Database.Path)
			return e
		},
		func() error {
			loader = newLoader(c.Fonts)
			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}

	conn := database.SqlConn()

	providerOpts := []catalog.ProviderOption{
		catalog.WithTTL(duration(c.Catalog.CacheTTL, 24*time.Hour)),
		catalog.WithTimeout(duration(c.Catalog.RequestTimeout, 10*time.Second)),
		catalog.WithCache(db.NewCatalogCache(conn, c.Catalog.CacheKey)),
	}
	if len(c.Catalog.Endpoints) > 0 {
		providerOpts = append(providerOpts, catalog.WithEndpoints(c.Catalog.Endpoints...))
	}
	provider := catalog.NewProvider(providerOpts...)
	// Start resolving now so the first session is likely to get the full catalog.
	provider.Done()

	snapshots := snapshot.NewStore(conn, snapshot.WithLimit(c.Snapshots.Limit))

	sessions := session.NewRegistry(
		func() (*session.Controller, error) {
			return svc.NewController(provider, loader)
		},
		session.WithIdleTimeout(duration(c.Sessions.IdleTimeout, 30*time.Minute)),
		session.WithOnRemove(func(id string) {
			if err := snapshots.RemoveSession(context.Background(), id); err != nil {
				logx.Errorw("Failed to remove session snapshots", logx.Field("session_id", id), logx.Field("error", err.Error()))
			}
		}),
	)

	svcCtx := svc.NewServiceContext(c, provider, loader, sessions, snapshots)

	RegisterMCPTools(mcpServer, svcCtx)

	// Create UI rest server (Datastar web UI) with CORS
	uiServer, err := rest.NewServer(c.UI.RestConf, rest.WithCors("*"))
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create UI server: %w", err)
	}

	uiHandlers := ui.NewHandlers(svcCtx)
	uiServer.AddRoutes(uiHandlers.Routes())
	uiServer.AddRoutes(uiHandlers.SSERoutes(), rest.WithSSE())

	// Create API rest server (goctl-generated JSON REST API) with CORS
	apiServer, err := rest.NewServer(c.API.RestConf, rest.WithCors("*"))
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create API server: %w", err)
	}

	handler.RegisterHandlers(apiServer, svcCtx)

	// Expose Prometheus metrics endpoint
	apiServer.AddRoute(rest.Route{
		Method:  http.MethodGet,
		Path:    "/metrics",
		Handler: promhttp.Handler().ServeHTTP,
	})

	proc.AddShutdownListener(func() {
		logx.Info("Closing database")
		database.Close()
	})

	// Build service group: sessions + UI + API + MCP (stopped in reverse order)
	group := service.NewServiceGroup()
	group.Add(newSessionsService(sessions, duration(c.Sessions.SweepInterval, time.Minute)))
	group.Add(uiServer)
	group.Add(apiServer)
	group.Add(mcpServer)

	logx.Infow("plat-fontmatch server configured",
		logx.Field("mcp", fmt.Sprintf("http://%s:%d/sse", c.Host, c.Port)),
		logx.Field("ui", fmt.Sprintf("http://%s:%d", c.UI.Host, c.UI.Port)),
		logx.Field("api", fmt.Sprintf("http://%s:%d/api/v1", c.API.Host, c.API.Port)),
		logx.Field("database", c.Database.Path),
		logx.Field("snapshot_limit", snapshots.Limit()),
	)
	logx.Infof("To add to Claude: claude mcp add plat-fontmatch -- npx -y mcp-remote http://localhost:%d/sse", c.Port)

	return &Server{config: c, group: group}, nil
}

// Start starts all services. Blocks until shutdown signal.
func (s *Server) Start() {
	s.group.Start()
}

// Stop stops all services.
func (s *Server) Stop() {
	s.group.Stop()
}

func newLoader(c config.FontsConfig) *font.Loader {
	timeout := duration(c.LoadTimeout, 8*time.Second)
	fetcher := font.NewHTTPFetcher(&http.Client{Timeout: timeout}, c.RateLimit)

	opts := []font.LoaderOption{
		font.WithStylesheetBase(c.StylesheetBase),
		font.WithLoadTimeout(timeout),
	}
	if len(c.TargetWeights) > 0 {
		opts = append(opts, font.WithTargetWeights(c.TargetWeights))
	}
	return font.NewLoader(font.NewDocument(), fetcher, opts...)
}

// duration parses a config duration, using def when it is empty or invalid.
func duration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
