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

type ShuffleLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewShuffleLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ShuffleLogic {
	return &ShuffleLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ShuffleLogic) Shuffle(req *types.SessionRequest) (resp *types.TransitionResponse, err error) {
	c, err := l.svcCtx.Sessions.Get(req.Id)
	if err != nil {
		return nil, err
	}

	applied, err := c.Shuffle(l.ctx)
	if err != nil {
		return nil, err
	}

	return &types.TransitionResponse{
		Applied: applied,
		State:   logic.SessionState(l.svcCtx, req.Id, c.State()),
	}, nil
}
