// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package snapshots

import (
	"context"

	"github.com/joeblew999/plat-fontmatch/internal/logic"
	"github.com/joeblew999/plat-fontmatch/internal/svc"
	"github.com/joeblew999/plat-fontmatch/internal/types"
	"github.com/joeblew999/plat-fontmatch/pkg/snapshot"

	"github.com/zeromicro/go-zero/core/logx"
)

type LoadSnapshotLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewLoadSnapshotLogic(ctx context.Context, svcCtx *svc.ServiceContext) *LoadSnapshotLogic {
	return &LoadSnapshotLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// LoadSnapshot applies a saved pair to the session it was saved from. The
// lock mode in effect is left alone.
func (l *LoadSnapshotLogic) LoadSnapshot(req *types.LoadSnapshotRequest) (resp *types.TransitionResponse, err error) {
	c, err := l.svcCtx.Sessions.Get(req.Id)
	if err != nil {
		return nil, err
	}

	snap, err := l.svcCtx.Snapshots.Get(l.ctx, req.SnapshotId)
	if err != nil {
		return nil, err
	}
	if snap.SessionID != req.Id {
		return nil, snapshot.ErrNotFound
	}

	applied, err := c.SetPair(l.ctx, snap.Primary, snap.Secondary)
	if err != nil {
		return nil, err
	}

	return &types.TransitionResponse{
		Applied: applied,
		State:   logic.SessionState(l.svcCtx, req.Id, c.State()),
	}, nil
}
