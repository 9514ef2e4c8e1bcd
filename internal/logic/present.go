// Package logic holds the conversions shared by the API logic groups.
package logic

import (
	"time"

	"github.com/joeblew999/plat-fontmatch/internal/svc"
	"github.com/joeblew999/plat-fontmatch/internal/types"
	"github.com/joeblew999/plat-fontmatch/pkg/font"
	"github.com/joeblew999/plat-fontmatch/pkg/session"
	"github.com/joeblew999/plat-fontmatch/pkg/snapshot"
)

// FontItem converts a catalog entry, including the stylesheet the loader
// would request for it.
func FontItem(loader *font.Loader, e font.Entry) types.FontItem {
	item := types.FontItem{
		Family:   e.Family,
		Weights:  e.Weights,
		Category: string(e.Category),
		Stack:    e.Stack(),
	}
	if loader != nil {
		item.Href = loader.Href(e.Family, e.Weights)
	}
	return item
}

func SessionState(svcCtx *svc.ServiceContext, id string, st session.State) types.SessionState {
	return types.SessionState{
		Id: id,
		Pair: types.PairItem{
			Primary:   FontItem(svcCtx.Loader, st.Pair.Primary),
			Secondary: FontItem(svcCtx.Loader, st.Pair.Secondary),
		},
		Lock:           string(st.Lock),
		FontCount:      st.FontCount,
		CatalogLoading: st.CatalogLoading,
		PairUpdating:   st.PairUpdating,
		Version:        st.Version,
	}
}

func SnapshotItem(s *snapshot.Snapshot) types.SnapshotItem {
	return types.SnapshotItem{
		Id:        s.ID,
		SessionId: s.SessionID,
		Primary:   s.Primary,
		Secondary: s.Secondary,
		Lock:      s.Lock,
		SavedAt:   s.SavedAt.Format(time.RFC3339Nano),
	}
}
