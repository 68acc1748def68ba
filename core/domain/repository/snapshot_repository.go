package repository

import (
	"context"
	"time"
)

// TableSnapshot 牌桌最新状态快照，Step 为已执行的命令数
type TableSnapshot struct {
	TableID   string
	Step      int64
	Data      []byte // BSON 编码的状态
	UpdatedAt time.Time
}

// SnapshotRepository 牌桌快照仓储接口，只保留每张牌桌最新的一份
type SnapshotRepository interface {
	// SaveSnapshot 保存快照，Step 不比已存的新时返回 ErrStaleSnapshot
	SaveSnapshot(ctx context.Context, snap *TableSnapshot) error

	// LoadSnapshot 读取牌桌最新快照
	LoadSnapshot(ctx context.Context, tableID string) (*TableSnapshot, error)

	// DeleteSnapshot 牌桌结束后删除快照
	DeleteSnapshot(ctx context.Context, tableID string) error
}
