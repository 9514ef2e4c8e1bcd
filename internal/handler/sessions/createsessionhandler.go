// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package sessions

import (
	"net/http"

	"github.com/joeblew999/plat-fontmatch/internal/logic/sessions"
	"github.com/joeblew999/plat-fontmatch/internal/svc"
	"github.com/zeromicro/go-zero/rest/httpx"
)

func CreateSessionHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := sessions.NewCreateSessionLogic(r.Context(), svcCtx)
		resp, err := l.CreateSession()
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
