package mahjong

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// SnapshotVersion 快照格式版本，字段有不兼容变化时递增
const SnapshotVersion = 1

// snapshotEnvelope 快照外层，便于存储层按版本与步数处理
type snapshotEnvelope struct {
	Version int        `json:"version" bson:"version"`
	State   *GameState `json:"state" bson:"state"`
}

// MarshalSnapshot 状态序列化为 JSON，牌同时保留牌种与物理编号
func MarshalSnapshot(s *GameState) ([]byte, error) {
	return json.Marshal(snapshotEnvelope{Version: SnapshotVersion, State: s})
}

// UnmarshalSnapshot 由 JSON 恢复状态
func UnmarshalSnapshot(data []byte) (*GameState, error) {
	var env snapshotEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("解析快照失败: %w", err)
	}
	return env.restore()
}

// MarshalSnapshotBSON 状态序列化为 BSON，供 Mongo/Redis 存储
func MarshalSnapshotBSON(s *GameState) ([]byte, error) {
	return bson.Marshal(snapshotEnvelope{Version: SnapshotVersion, State: s})
}

func UnmarshalSnapshotBSON(data []byte) (*GameState, error) {
	var env snapshotEnvelope
	if err := bson.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("解析 BSON 快照失败: %w", err)
	}
	return env.restore()
}

func (env snapshotEnvelope) restore() (*GameState, error) {
	if env.Version != SnapshotVersion {
		return nil, fmt.Errorf("快照版本 %d 不受支持", env.Version)
	}
	if env.State == nil {
		return nil, fmt.Errorf("快照缺少状态")
	}
	if err := env.State.checkInvariants(); err != nil {
		return nil, err
	}
	return env.State, nil
}
