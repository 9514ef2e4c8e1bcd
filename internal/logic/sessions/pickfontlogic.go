// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package sessions

import (
	"context"

	"github.com/joeblew999/plat-fontmatch/internal/errorx"
	"github.com/joeblew999/plat-fontmatch/internal/logic"
	"github.com/joeblew999/plat-fontmatch/internal/svc"
	"github.com/joeblew999/plat-fontmatch/internal/types"
	"github.com/joeblew999/plat-fontmatch/pkg/session"

	"github.com/zeromicro/go-zero/core/logx"
)

type PickFontLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewPickFontLogic(ctx context.Context, svcCtx *svc.ServiceContext) *PickFontLogic {
	return &PickFontLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *PickFontLogic) PickFont(req *types.PickRequest) (resp *types.TransitionResponse, err error) {
	slot, err := session.ParseSlot(req.Slot)
	if err != nil {
		return nil, err
	}
	c, err := l.svcCtx.Sessions.Get(req.Id)
	if err != nil {
		return nil, err
	}
	if _, ok := c.Font(req.Family); !ok {
		return nil, errorx.ErrNotFound("font not in catalog: " + req.Family)
	}

	var applied bool
	if slot == session.LockPrimary {
		applied, err = c.SetPrimary(l.ctx, req.Family)
	} else {
		applied, err = c.SetSecondary(l.ctx, req.Family)
	}
	if err != nil {
		return nil, err
	}

	return &types.TransitionResponse{
		Applied: applied,
		State:   logic.SessionState(l.svcCtx, req.Id, c.State()),
	}, nil
}
