// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package snapshots

import (
	"context"

	"github.com/joeblew999/plat-fontmatch/internal/svc"
	"github.com/joeblew999/plat-fontmatch/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type DeleteSnapshotLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewDeleteSnapshotLogic(ctx context.Context, svcCtx *svc.ServiceContext) *DeleteSnapshotLogic {
	return &DeleteSnapshotLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *DeleteSnapshotLogic) DeleteSnapshot(req *types.DeleteSnapshotRequest) (resp *types.DeleteResponse, err error) {
	if err := l.svcCtx.Snapshots.Remove(l.ctx, req.SnapshotId); err != nil {
		return nil, err
	}

	l.Infow("snapshot removed", logx.Field("snapshot_id", req.SnapshotId))
	return &types.DeleteResponse{Deleted: true}, nil
}
