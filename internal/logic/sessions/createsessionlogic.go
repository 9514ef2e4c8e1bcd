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

type CreateSessionLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewCreateSessionLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CreateSessionLogic {
	return &CreateSessionLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *CreateSessionLogic) CreateSession() (resp *types.CreateSessionResponse, err error) {
	id, c, err := l.svcCtx.Sessions.Create()
	if err != nil {
		return nil, err
	}

	l.Infow("session created", logx.Field("session_id", id))
	return &types.CreateSessionResponse{
		Id:    id,
		State: logic.SessionState(l.svcCtx, id, c.State()),
	}, nil
}
