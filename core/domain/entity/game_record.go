package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	GameStatusInProgress = "in_progress"
	GameStatusCompleted  = "completed"
	GameStatusAborted    = "aborted"
)

// GameRecord 游戏记录元数据（聚合根）
// 存储牌桌基本信息、规则、种子、最终结果
type GameRecord struct {
	ID          primitive.ObjectID `bson:"_id"`
	TableID     string             `bson:"table_id"`
	GameType    string             `bson:"game_type"` // "riichi_mahjong_4p"
	Seed        int64              `bson:"seed"`      // 洗牌种子，复盘用
	Rules       map[string]any     `bson:"rules"`
	Players     []PlayerInfo       `bson:"players"`
	StartTime   time.Time          `bson:"start_time"`
	EndTime     time.Time          `bson:"end_time"`
	Duration    int                `bson:"duration"` // 秒
	FinalResult *GameFinalResult   `bson:"final_result"`
	Status      string             `bson:"status"`
	AbortReason string             `bson:"abort_reason,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
}

// PlayerInfo 座位信息，身份由宿主层维护
type PlayerInfo struct {
	SeatIndex     int `bson:"seat_index"`
	InitialPoints int `bson:"initial_points"`
}

// GameFinalResult 游戏最终结果
type GameFinalResult struct {
	Rankings []PlayerRanking `bson:"rankings"` // 按名次排序
	Points   [4]int          `bson:"points"`   // 按座位索引
}

// PlayerRanking 玩家排名
type PlayerRanking struct {
	SeatIndex int `bson:"seat_index"`
	Points    int `bson:"points"`
	Rank      int `bson:"rank"` // 1-4
}

// NewGameRecord 创建游戏记录
func NewGameRecord(tableID, gameType string, seed int64, players []PlayerInfo) *GameRecord {
	return &GameRecord{
		ID:        primitive.NewObjectID(),
		TableID:   tableID,
		GameType:  gameType,
		Seed:      seed,
		Players:   players,
		StartTime: time.Now(),
		Status:    GameStatusInProgress,
		CreatedAt: time.Now(),
	}
}

// CompleteGame 完成游戏（设置最终结果）
func (gr *GameRecord) CompleteGame(finalResult *GameFinalResult) {
	gr.EndTime = time.Now()
	gr.Duration = int(gr.EndTime.Sub(gr.StartTime).Seconds())
	gr.FinalResult = finalResult
	gr.Status = GameStatusCompleted
}

// AbortGame 中止游戏
func (gr *GameRecord) AbortGame(reason string) {
	gr.EndTime = time.Now()
	gr.Duration = int(gr.EndTime.Sub(gr.StartTime).Seconds())
	gr.Status = GameStatusAborted
	gr.AbortReason = reason
}
