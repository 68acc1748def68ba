package persistence

import (
	"context"
	"errors"
	"fmt"

	"riichi/common/database"
	"riichi/common/log"
	"riichi/core/domain/entity"
	"riichi/core/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	gameRecordCollection  = "game_records"
	roundRecordCollection = "round_records"
)

type GameRecordRepository struct {
	mongo *database.MongoManager
}

func NewGameRecordRepository(mongo *database.MongoManager) repository.GameRecordRepository {
	return &GameRecordRepository{mongo: mongo}
}

// SaveGameRecord 保存游戏记录（元数据），按 _id 覆盖
func (r *GameRecordRepository) SaveGameRecord(ctx context.Context, record *entity.GameRecord) error {
	collection := r.mongo.Db.Collection(gameRecordCollection)

	opts := options.Replace().SetUpsert(true)
	if _, err := collection.ReplaceOne(ctx, bson.M{"_id": record.ID}, record, opts); err != nil {
		log.Error("保存游戏记录失败: %v", err)
		return fmt.Errorf("%w: %v", repository.ErrMongodb, err)
	}
	return nil
}

// FindGameRecord 根据ID查找游戏记录
func (r *GameRecordRepository) FindGameRecord(ctx context.Context, recordID primitive.ObjectID) (*entity.GameRecord, error) {
	return r.findOne(ctx, bson.M{"_id": recordID})
}

// FindGameRecordByTable 根据牌桌ID查找最近的游戏记录
func (r *GameRecordRepository) FindGameRecordByTable(ctx context.Context, tableID string) (*entity.GameRecord, error) {
	return r.findOne(ctx, bson.M{"table_id": tableID}, options.FindOne().SetSort(bson.D{{Key: "start_time", Value: -1}}))
}

func (r *GameRecordRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*entity.GameRecord, error) {
	collection := r.mongo.Db.Collection(gameRecordCollection)

	var record entity.GameRecord
	err := collection.FindOne(ctx, filter, opts...).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrGameRecordNotFound
		}
		log.Error("查询游戏记录失败: %v", err)
		return nil, fmt.Errorf("%w: %v", repository.ErrMongodb, err)
	}
	return &record, nil
}

// SaveRoundRecords 批量保存局记录，重复保存时按 _id 覆盖
func (r *GameRecordRepository) SaveRoundRecords(ctx context.Context, rounds []*entity.RoundRecord) error {
	if len(rounds) == 0 {
		return nil
	}
	collection := r.mongo.Db.Collection(roundRecordCollection)

	models := make([]mongo.WriteModel, 0, len(rounds))
	for _, round := range rounds {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": round.ID}).
			SetReplacement(round).
			SetUpsert(true))
	}
	if _, err := collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		log.Error("批量保存局记录失败: %v", err)
		return fmt.Errorf("%w: %v", repository.ErrMongodb, err)
	}
	return nil
}

// FindRoundRecords 查找游戏的所有局记录（按开局时间排序）
func (r *GameRecordRepository) FindRoundRecords(ctx context.Context, gameRecordID primitive.ObjectID) ([]*entity.RoundRecord, error) {
	collection := r.mongo.Db.Collection(roundRecordCollection)

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}, {Key: "deal_no", Value: 1}})
	cursor, err := collection.Find(ctx, bson.M{"game_record_id": gameRecordID}, opts)
	if err != nil {
		log.Error("查询局记录失败: %v", err)
		return nil, fmt.Errorf("%w: %v", repository.ErrMongodb, err)
	}
	defer cursor.Close(ctx)

	var rounds []*entity.RoundRecord
	if err := cursor.All(ctx, &rounds); err != nil {
		log.Error("解析局记录失败: %v", err)
		return nil, fmt.Errorf("%w: %v", repository.ErrMongodb, err)
	}
	if len(rounds) == 0 {
		return nil, repository.ErrRoundRecordNotFound
	}
	return rounds, nil
}
