// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package fonts

import (
	"context"
	"strings"

	"github.com/joeblew999/plat-fontmatch/internal/logic"
	"github.com/joeblew999/plat-fontmatch/internal/svc"
	"github.com/joeblew999/plat-fontmatch/internal/types"
	"github.com/joeblew999/plat-fontmatch/pkg/font"

	"github.com/zeromicro/go-zero/core/logx"
)

// sourcePending is reported while the catalog is still resolving.
const sourcePending = "pending"

type ListFontsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewListFontsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ListFontsLogic {
	return &ListFontsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ListFontsLogic) ListFonts(req *types.ListFontsRequest) (resp *types.ListFontsResponse, err error) {
	entries, source := l.catalog()

	query := strings.ToLower(strings.TrimSpace(req.Query))
	items := make([]types.FontItem, 0, len(entries))
	for _, e := range entries {
		if req.Category != "" && e.Category != font.ParseCategory(req.Category) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(e.Family), query) {
			continue
		}
		items = append(items, logic.FontItem(l.svcCtx.Loader, e))
		if req.Limit > 0 && len(items) == req.Limit {
			break
		}
	}

	return &types.ListFontsResponse{
		Fonts:  items,
		Count:  len(items),
		Total:  len(entries),
		Source: source,
	}, nil
}

// catalog returns the resolved catalog without waiting for a resolution
// still in flight.
func (l *ListFontsLogic) catalog() ([]font.Entry, string) {
	select {
	case <-l.svcCtx.Catalog.Done():
		return l.svcCtx.Catalog.Catalog(l.ctx), l.svcCtx.Catalog.Source()
	default:
		return l.svcCtx.Catalog.Fallback(), sourcePending
	}
}
