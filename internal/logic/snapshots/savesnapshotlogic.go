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

type SaveSnapshotLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewSaveSnapshotLogic(ctx context.Context, svcCtx *svc.ServiceContext) *SaveSnapshotLogic {
	return &SaveSnapshotLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *SaveSnapshotLogic) SaveSnapshot(req *types.SessionRequest) (resp *types.SnapshotItem, err error) {
	c, err := l.svcCtx.Sessions.Get(req.Id)
	if err != nil {
		return nil, err
	}

	state := c.State()
	snap, err := l.svcCtx.Snapshots.Save(l.ctx, req.Id, state.Pair, string(state.Lock))
	if err != nil {
		return nil, err
	}

	item := logic.SnapshotItem(snap)
	return &item, nil
}
