// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package sessions

import (
	"context"

	"github.com/joeblew999/plat-fontmatch/internal/logic"
	"github.com/joeblew999/plat-fontmatch/internal/svc"
	"github.com/joeblew999/plat-fontmatch/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type GetSessionLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGetSessionLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GetSessionLogic {
	return &GetSessionLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GetSessionLogic) GetSession(req *types.SessionRequest) (resp *types.SessionState, err error) {
	c, err := l.svcCtx.Sessions.Get(req.Id)
	if err != nil {
		return nil, err
	}

	state := logic.SessionState(l.svcCtx, req.Id, c.State())
	return &state, nil
}
