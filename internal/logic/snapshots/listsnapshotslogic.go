// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package snapshots

import (
	"context"

	"github.com/joeblew999/plat-fontmatch/internal/logic"
	"github.com/joeblew999/plat-fontmatch/internal/svc"
	"github.com/joeblew999/plat-fontmatch/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type ListSnapshotsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewListSnapshotsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ListSnapshotsLogic {
	return &ListSnapshotsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ListSnapshotsLogic) ListSnapshots(req *types.SessionRequest) (resp *types.ListSnapshotsResponse, err error) {
	if _, err := l.svcCtx.Sessions.Get(req.Id); err != nil {
		return nil, err
	}

	snaps, err := l.svcCtx.Snapshots.List(l.ctx, req.Id)
	if err != nil {
		return nil, err
	}

	items := make([]types.SnapshotItem, 0, len(snaps))
	for _, s := range snaps {
		items = append(items, logic.SnapshotItem(s))
	}

	return &types.ListSnapshotsResponse{
		Snapshots: items,
		Count:     len(items),
		Limit:     l.svcCtx.Snapshots.Limit(),
	}, nil
}
