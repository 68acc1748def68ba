package persistence

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"riichi/common/config"
	"riichi/common/database"
	"riichi/core/domain/entity"
	"riichi/core/domain/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// 需要真实的 MongoDB：MONGO_URL=mongodb://127.0.0.1:27017 go test ./core/infrastructure/persistence/
func newTestMongo(t *testing.T) *database.MongoManager {
	t.Helper()
	url := os.Getenv("MONGO_URL")
	if url == "" {
		t.Skip("MONGO_URL 未设置，跳过 MongoDB 集成测试")
	}
	m, err := database.NewMongo(context.Background(), config.MongoConf{Url: url, Db: "riichi_test", MinPoolSize: 1, MaxPoolSize: 2})
	if err != nil {
		t.Fatalf("连接 MongoDB 失败: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestGameRecordRepository_SaveAndFind(t *testing.T) {
	mongo := newTestMongo(t)
	repo := NewGameRecordRepository(mongo)
	ctx := context.Background()

	tableID := uuid.NewString()
	players := []entity.PlayerInfo{{SeatIndex: 0, InitialPoints: 25000}, {SeatIndex: 1, InitialPoints: 25000}}
	record := entity.NewGameRecord(tableID, "riichi_mahjong_4p", 42, players)
	t.Cleanup(func() {
		_, _ = mongo.Db.Collection(gameRecordCollection).DeleteMany(ctx, bson.M{"table_id": tableID})
		_, _ = mongo.Db.Collection(roundRecordCollection).DeleteMany(ctx, bson.M{"game_record_id": record.ID})
	})

	if _, err := repo.FindGameRecordByTable(ctx, tableID); !errors.Is(err, repository.ErrGameRecordNotFound) {
		t.Fatalf("expected ErrGameRecordNotFound, got %v", err)
	}
	if err := repo.SaveGameRecord(ctx, record); err != nil {
		t.Fatalf("save: %v", err)
	}

	// 重复保存按 _id 覆盖
	record.AbortGame("测试")
	if err := repo.SaveGameRecord(ctx, record); err != nil {
		t.Fatalf("save again: %v", err)
	}
	got, err := repo.FindGameRecord(ctx, record.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status != entity.GameStatusAborted || got.Seed != 42 || len(got.Players) != 2 {
		t.Fatalf("unexpected record %+v", got)
	}

	first := entity.NewRoundRecord(record.ID, 0, "East", 0, 0, 1)
	second := entity.NewRoundRecord(record.ID, 1, "East", 1, 0, 2)
	second.StartTime = first.StartTime.Add(time.Second)
	if err := repo.SaveRoundRecords(ctx, []*entity.RoundRecord{second, first}); err != nil {
		t.Fatalf("save rounds: %v", err)
	}
	if err := repo.SaveRoundRecords(ctx, []*entity.RoundRecord{first}); err != nil {
		t.Fatalf("save rounds again: %v", err)
	}
	rounds, err := repo.FindRoundRecords(ctx, record.ID)
	if err != nil {
		t.Fatalf("find rounds: %v", err)
	}
	if len(rounds) != 2 || rounds[0].DealNo != 1 || rounds[1].DealNo != 2 {
		t.Fatalf("rounds not ordered by deal: %d rounds", len(rounds))
	}
}
