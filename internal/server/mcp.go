package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/joeblew999/plat-fontmatch/internal/logic"
	"github.com/joeblew999/plat-fontmatch/internal/logic/fonts"
	"github.com/joeblew999/plat-fontmatch/internal/svc"
	"github.com/joeblew999/plat-fontmatch/internal/types"
	"github.com/joeblew999/plat-fontmatch/pkg/session"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/mcp"
)

// defaultSession is the pairing session MCP tools act on. It is recreated
// when the registry has expired it.
type defaultSession struct {
	svcCtx *svc.ServiceContext

	mu sync.Mutex
	id string
}

func (d *defaultSession) get() (string, *session.Controller, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.id != "" {
		c, err := d.svcCtx.Sessions.Get(d.id)
		if err == nil {
			return d.id, c, nil
		}
		if !errors.Is(err, session.ErrSessionNotFound) {
			return "", nil, err
		}
	}

	id, c, err := d.svcCtx.Sessions.Create()
	if err != nil {
		return "", nil, err
	}
	d.id = id
	logx.Infow("MCP session started", logx.Field("session_id", id))
	return id, c, nil
}

func (d *defaultSession) state(id string, c *session.Controller) types.SessionState {
	return logic.SessionState(d.svcCtx, id, c.State())
}

// RegisterMCPTools registers all MCP tools for font pairing.
func RegisterMCPTools(s mcp.McpServer, svcCtx *svc.ServiceContext) {
	d := &defaultSession{svcCtx: svcCtx}

	registerShuffleTool(s, d)
	registerToggleLockTool(s, d)
	registerPickFontTool(s, d)
	registerListFontsTool(s, svcCtx)
	registerPairResource(s, d)
}

func registerShuffleTool(s mcp.McpServer, d *defaultSession) {
	s.RegisterTool(mcp.Tool{
		Name:        "shuffle_pair",
		Description: "Move to the next font pair. A locked slot keeps its font while the other slot cycles. Returns whether the pair changed and the new pair.",
		InputSchema: mcp.InputSchema{
			Properties: map[string]any{},
		},
		Handler: func(ctx context.Context, p map[string]any) (any, error) {
			id, c, err := d.get()
			if err != nil {
				return nil, err
			}

			applied, err := c.Shuffle(ctx)
			if err != nil {
				return nil, fmt.Errorf("shuffle failed: %w", err)
			}

			return types.TransitionResponse{Applied: applied, State: d.state(id, c)}, nil
		},
	})
}

func registerToggleLockTool(s mcp.McpServer, d *defaultSession) {
	s.RegisterTool(mcp.Tool{
		Name:        "toggle_lock",
		Description: "Pin the primary or secondary font so shuffles only change the other one. Toggling the pinned slot again unlocks it.",
		InputSchema: mcp.InputSchema{
			Properties: map[string]any{
				"slot": map[string]any{
					"type":        "string",
					"enum":        []string{"primary", "secondary"},
					"description": "Slot to pin or unpin",
				},
			},
			Required: []string{"slot"},
		},
		Handler: func(ctx context.Context, p map[string]any) (any, error) {
			var args struct {
				Slot string `json:"slot"`
			}
			if err := mcp.ParseArguments(p, &args); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}

			slot, err := session.ParseSlot(args.Slot)
			if err != nil {
				return nil, err
			}
			id, c, err := d.get()
			if err != nil {
				return nil, err
			}
			if _, err := c.ToggleLock(slot); err != nil {
				return nil, err
			}

			return d.state(id, c), nil
		},
	})
}

func registerPickFontTool(s mcp.McpServer, d *defaultSession) {
	s.RegisterTool(mcp.Tool{
		Name:        "pick_font",
		Description: "Put a specific font family into the primary or secondary slot. The family must exist in the catalog and differ from the font in the other slot.",
		InputSchema: mcp.InputSchema{
			Properties: map[string]any{
				"slot": map[string]any{
					"type":        "string",
					"enum":        []string{"primary", "secondary"},
					"description": "Slot to set",
				},
				"family": map[string]any{
					"type":        "string",
					"description": "Font family name (e.g., Playfair Display, Inter)",
				},
			},
			Required: []string{"slot", "family"},
		},
		Handler: func(ctx context.Context, p map[string]any) (any, error) {
			var args struct {
				Slot   string `json:"slot"`
				Family string `json:"family"`
			}
			if err := mcp.ParseArguments(p, &args); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}

			slot, err := session.ParseSlot(args.Slot)
			if err != nil {
				return nil, err
			}
			id, c, err := d.get()
			if err != nil {
				return nil, err
			}
			if _, ok := c.Font(args.Family); !ok {
				return nil, fmt.Errorf("font not in catalog: %s", args.Family)
			}

			var applied bool
			if slot == session.LockPrimary {
				applied, err = c.SetPrimary(ctx, args.Family)
			} else {
				applied, err = c.SetSecondary(ctx, args.Family)
			}
			if err != nil {
				return nil, fmt.Errorf("pick failed: %w", err)
			}

			return types.TransitionResponse{Applied: applied, State: d.state(id, c)}, nil
		},
	})
}

func registerListFontsTool(s mcp.McpServer, svcCtx *svc.ServiceContext) {
	s.RegisterTool(mcp.Tool{
		Name:        "list_fonts",
		Description: "List font families in the catalog, optionally filtered by category or a name substring.",
		InputSchema: mcp.InputSchema{
			Properties: map[string]any{
				"category": map[string]any{
					"type":        "string",
					"description": "serif, sans-serif, display, handwriting or monospace",
				},
				"query": map[string]any{
					"type":        "string",
					"description": "Case-insensitive substring of the family name",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of fonts to return (default 50)",
				},
			},
		},
		Handler: func(ctx context.Context, p map[string]any) (any, error) {
			var args struct {
				Category string `json:"category"`
				Query    string `json:"query"`
				Limit    int    `json:"limit"`
			}
			if err := mcp.ParseArguments(p, &args); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			if args.Limit <= 0 {
				args.Limit = 50
			}

			return fonts.NewListFontsLogic(ctx, svcCtx).ListFonts(&types.ListFontsRequest{
				Category: args.Category,
				Query:    args.Query,
				Limit:    args.Limit,
			})
		},
	})
}

func registerPairResource(s mcp.McpServer, d *defaultSession) {
	s.RegisterResource(mcp.Resource{
		Name:        "pair",
		URI:         "fontmatch://pair",
		Description: "The font pair currently shown in the default session",
		MimeType:    "text/plain",
		Handler: func(ctx context.Context) (mcp.ResourceContent, error) {
			id, c, err := d.get()
			if err != nil {
				return mcp.ResourceContent{}, err
			}
			st := d.state(id, c)

			var b strings.Builder
			fmt.Fprintf(&b, "Primary: %s (%s)\n", st.Pair.Primary.Family, st.Pair.Primary.Category)
			fmt.Fprintf(&b, "  font-family: %s\n  stylesheet: %s\n", st.Pair.Primary.Stack, st.Pair.Primary.Href)
			fmt.Fprintf(&b, "Secondary: %s (%s)\n", st.Pair.Secondary.Family, st.Pair.Secondary.Category)
			fmt.Fprintf(&b, "  font-family: %s\n  stylesheet: %s\n", st.Pair.Secondary.Stack, st.Pair.Secondary.Href)
			fmt.Fprintf(&b, "Lock: %s\nCatalog: %d fonts\n", st.Lock, st.FontCount)

			return mcp.ResourceContent{
				URI:      "fontmatch://pair",
				MimeType: "text/plain",
				Text:     b.String(),
			}, nil
		},
	})
}
