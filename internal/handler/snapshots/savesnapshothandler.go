// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package snapshots

import (
	"net/http"

	"github.com/joeblew999/plat-fontmatch/internal/logic/snapshots"
	"github.com/joeblew999/plat-fontmatch/internal/svc"
	"github.com/joeblew999/plat-fontmatch/internal/types"
	"github.com/zeromicro/go-zero/rest/httpx"
)

func SaveSnapshotHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.SessionRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		l := snapshots.NewSaveSnapshotLogic(r.Context(), svcCtx)
		resp, err := l.SaveSnapshot(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
