package repository

import (
	"context"

	"riichi/core/domain/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GameRecordRepository 游戏记录仓储接口
type GameRecordRepository interface {
	// SaveGameRecord 保存游戏记录（元数据），已存在时覆盖
	SaveGameRecord(ctx context.Context, record *entity.GameRecord) error

	// FindGameRecord 根据ID查找游戏记录
	FindGameRecord(ctx context.Context, recordID primitive.ObjectID) (*entity.GameRecord, error)

	// FindGameRecordByTable 根据牌桌ID查找游戏记录
	FindGameRecordByTable(ctx context.Context, tableID string) (*entity.GameRecord, error)

	// SaveRoundRecords 批量保存局记录，已存在时按 _id 覆盖
	SaveRoundRecords(ctx context.Context, rounds []*entity.RoundRecord) error

	// FindRoundRecords 查找游戏的所有局记录（按局顺序）
	FindRoundRecords(ctx context.Context, gameRecordID primitive.ObjectID) ([]*entity.RoundRecord, error)
}
