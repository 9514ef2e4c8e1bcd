// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package sessions

import (
	"context"

	"github.com/joeblew999/plat-fontmatch/internal/svc"
	"github.com/joeblew999/plat-fontmatch/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type DeleteSessionLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewDeleteSessionLogic(ctx context.Context, svcCtx *svc.ServiceContext) *DeleteSessionLogic {
	return &DeleteSessionLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *DeleteSessionLogic) DeleteSession(req *types.SessionRequest) (resp *types.DeleteResponse, err error) {
	if err := l.svcCtx.Sessions.Remove(req.Id); err != nil {
		return nil, err
	}
	return &types.DeleteResponse{Deleted: true}, nil
}
