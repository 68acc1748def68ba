package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoundRecord 局记录（每局一个文档）
// 存储该局的命令流和结算结果，配合对局种子即可复盘
type RoundRecord struct {
	ID           primitive.ObjectID `bson:"_id"`
	GameRecordID primitive.ObjectID `bson:"game_record_id"` // 关联游戏记录
	HandNo       int                `bson:"hand_no"`        // 0 起：东1局=0 ... 南4局=7
	RoundWind    string             `bson:"round_wind"`     // 场风 "East", "South", "West", "North"
	DealerIndex  int                `bson:"dealer_index"`   // 庄家座位
	Honba        int                `bson:"honba"`          // 本场数
	DealNo       int                `bson:"deal_no"`        // 洗牌序号
	Events       []RoundEvent       `bson:"events"`         // 事件流（按时间顺序）
	RoundResult  *RoundResult       `bson:"round_result"`   // 回合结果（回合结束时设置）
	StartTime    time.Time          `bson:"start_time"`
	EndTime      time.Time          `bson:"end_time"`
	Duration     int                `bson:"duration"` // 秒
	CreatedAt    time.Time          `bson:"created_at"`
}

// RoundEvent 回合事件（只存命令，不存快照）
type RoundEvent struct {
	Sequence  int                    `bson:"sequence"`   // 事件序号（从0开始，该局内递增）
	EventType string                 `bson:"event_type"` // 命令名
	Timestamp time.Time              `bson:"timestamp"`
	SeatIndex int                    `bson:"seat_index"` // 操作玩家座位（-1表示系统事件）
	Data      map[string]interface{} `bson:"data"`
}

// RoundResult 回合结果
type RoundResult struct {
	EndType string    `bson:"end_type"` // "tsumo", "ron", "exhaustive_draw", "nine_terminals" ...
	Claims  []HuClaim `bson:"claims"`   // 和牌信息（如果有）
	Delta   [4]int    `bson:"delta"`    // 点数变化（按座位索引）
	Points  [4]int    `bson:"points"`   // 回合结束后的点数（按座位索引）
	Tenpai  [4]bool   `bson:"tenpai"`   // 荒牌流局时的听牌情况
	Renchan bool      `bson:"renchan"`  // 庄家连庄
}

// HuClaim 和牌信息
type HuClaim struct {
	WinnerSeat int      `bson:"winner_seat"` // 和牌玩家座位
	LoserSeat  int      `bson:"loser_seat"`  // 放铳玩家座位（自摸时为-1）
	WinTile    Tile     `bson:"win_tile"`
	Han        int      `bson:"han"`
	Fu         int      `bson:"fu"`
	Yakuman    int      `bson:"yakuman"` // 役满倍数
	Yaku       []string `bson:"yaku"`
	Points     int      `bson:"points"` // 和了者收入（含本场，不含供托）
}

// Tile 牌（用于存储）
type Tile struct {
	Type int  `bson:"type"` // 牌种 0-33
	ID   int  `bson:"id"`   // 物理编号 0-135
	Red  bool `bson:"red,omitempty"`
}

// NewRoundRecord 创建局记录
func NewRoundRecord(gameRecordID primitive.ObjectID, handNo int, roundWind string, dealerIndex, honba, dealNo int) *RoundRecord {
	return &RoundRecord{
		ID:           primitive.NewObjectID(),
		GameRecordID: gameRecordID,
		HandNo:       handNo,
		RoundWind:    roundWind,
		DealerIndex:  dealerIndex,
		Honba:        honba,
		DealNo:       dealNo,
		Events:       make([]RoundEvent, 0, 160),
		StartTime:    time.Now(),
		CreatedAt:    time.Now(),
	}
}

// AddEvent 添加事件
func (rr *RoundRecord) AddEvent(eventType string, seatIndex int, data map[string]interface{}) {
	rr.Events = append(rr.Events, RoundEvent{
		Sequence:  len(rr.Events),
		EventType: eventType,
		Timestamp: time.Now(),
		SeatIndex: seatIndex,
		Data:      data,
	})
}

// CompleteRound 完成回合（设置回合结果）
func (rr *RoundRecord) CompleteRound(result *RoundResult) {
	rr.EndTime = time.Now()
	rr.Duration = int(rr.EndTime.Sub(rr.StartTime).Seconds())
	rr.RoundResult = result
}

// 系统事件类型，玩家命令直接使用命令名
const (
	EventTypeRoundStart = "round_start"
	EventTypeRoundEnd   = "round_end"
)
