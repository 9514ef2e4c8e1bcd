// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package sessions

import (
	"context"

	"github.com/joeblew999/plat-fontmatch/internal/logic"
	"github.com/joeblew999/plat-fontmatch/internal/svc"
	"github.com/joeblew999/plat-fontmatch/internal/types"
	"github.com/joeblew999/plat-fontmatch/pkg/session"

	"github.com/zeromicro/go-zero/core/logx"
)

type ToggleLockLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewToggleLockLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ToggleLockLogic {
	return &ToggleLockLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ToggleLockLogic) ToggleLock(req *types.LockRequest) (resp *types.SessionState, err error) {
	slot, err := session.ParseSlot(req.Slot)
	if err != nil {
		return nil, err
	}
	c, err := l.svcCtx.Sessions.Get(req.Id)
	if err != nil {
		return nil, err
	}

	if _, err := c.ToggleLock(slot); err != nil {
		return nil, err
	}

	state := logic.SessionState(l.svcCtx, req.Id, c.State())
	return &state, nil
}
