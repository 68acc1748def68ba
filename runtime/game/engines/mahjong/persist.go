package mahjong

import (
	"context"
	"sync"
	"time"

	"riichi/common/log"
	"riichi/core/domain/entity"
	"riichi/core/domain/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	GameTypeRiichi4p      = "riichi_mahjong_4p"
	DefaultPersistTimeout = 30 * time.Second
	defaultRoundsPerGame  = 8
	systemEventSeat       = -1
)

// GamePersister 游戏持久化组件
// 负责在对局过程中收集命令流，对局结束后异步写入数据库
type GamePersister struct {
	repo         repository.GameRecordRepository
	gameRecord   *entity.GameRecord
	rounds       []*entity.RoundRecord // 所有局，对局结束后一次性保存
	currentRound *entity.RoundRecord
	eventMu      sync.Mutex
	closed       bool
	pending      sync.WaitGroup
	timeout      time.Duration
}

// NewGamePersister 创建持久化组件
func NewGamePersister(repo repository.GameRecordRepository, tableID string, seed int64, rules RuleSet) *GamePersister {
	players := make([]entity.PlayerInfo, 0, 4)
	for seat := 0; seat < 4; seat++ {
		players = append(players, entity.PlayerInfo{SeatIndex: seat, InitialPoints: rules.InitialPoints})
	}
	gameRecord := entity.NewGameRecord(tableID, GameTypeRiichi4p, seed, players)
	gameRecord.Rules = map[string]any{
		"red_fives":      rules.RedFives,
		"open_tanyao":    rules.OpenTanyao,
		"hand_count":     rules.Length.HandCount(),
		"initial_points": rules.InitialPoints,
		"busting":        rules.Busting,
		"double_yakuman": rules.DoubleYakuman,
	}

	return &GamePersister{
		repo:       repo,
		gameRecord: gameRecord,
		rounds:     make([]*entity.RoundRecord, 0, defaultRoundsPerGame),
		timeout:    DefaultPersistTimeout,
	}
}

func (gp *GamePersister) GetGameRecordID() primitive.ObjectID {
	return gp.gameRecord.ID
}

// StartRound 配牌后开始记录新的一局
func (gp *GamePersister) StartRound(s *GameState) {
	gp.eventMu.Lock()
	defer gp.eventMu.Unlock()
	if gp.closed {
		return
	}

	gp.currentRound = entity.NewRoundRecord(
		gp.gameRecord.ID,
		s.Round.HandNo,
		s.Round.Wind().String(),
		s.Round.Dealer(),
		s.Round.Honba,
		s.Round.DealNo,
	)
	gp.rounds = append(gp.rounds, gp.currentRound)

	gp.currentRound.AddEvent(entity.EventTypeRoundStart, systemEventSeat, map[string]interface{}{
		"dora_indicators": toEntityTiles(s.DoraIndicators),
		"pot":             s.Round.Pot,
		"current_turn":    s.Actor,
	})
}

// RecordCommand 记录一条已生效的命令，next 为命令生效后的状态
func (gp *GamePersister) RecordCommand(cmd Command, next *GameState) {
	gp.eventMu.Lock()
	defer gp.eventMu.Unlock()
	if gp.closed || gp.currentRound == nil {
		return
	}

	data := map[string]interface{}{}
	switch cmd.Kind {
	case CmdDraw:
		if p := &next.Players[cmd.Seat]; p.HasDrawn {
			data["tile"] = toEntityTile(p.Drawn)
		}
	case CmdDiscard, CmdDeclareRiichi:
		data["tile"] = toEntityTile(cmd.Tile)
	case CmdCallChi:
		data["tiles"] = toEntityTiles(cmd.Pair[:])
	case CmdCallClosedKan, CmdCallAddedKan:
		data["kind"] = int(cmd.Kind34)
	}
	gp.currentRound.AddEvent(cmd.Kind.String(), cmd.Seat, data)
}

// CompleteRound 完成当前局
func (gp *GamePersister) CompleteRound(s *GameState) {
	gp.eventMu.Lock()
	defer gp.eventMu.Unlock()
	if gp.closed || gp.currentRound == nil || s.Result == nil {
		return
	}

	res := s.Result
	claims := make([]entity.HuClaim, 0, len(res.Wins))
	for _, c := range huClaimsOf(res) {
		claims = append(claims, entity.HuClaim{
			WinnerSeat: c.WinnerSeat,
			LoserSeat:  c.LoserSeat,
			WinTile:    toEntityTile(c.WinTile),
			Han:        c.Han,
			Fu:         c.Fu,
			Yakuman:    c.Yakuman,
			Yaku:       c.Yaku,
			Points:     c.Points,
		})
	}
	result := &entity.RoundResult{
		EndType: res.Kind.String(),
		Claims:  claims,
		Delta:   res.Deltas,
		Tenpai:  res.Tenpai,
		Renchan: res.Renchan,
	}
	for i := range s.Players {
		result.Points[i] = s.Players[i].Points
	}

	gp.currentRound.CompleteRound(result)
	gp.currentRound.AddEvent(entity.EventTypeRoundEnd, systemEventSeat, map[string]interface{}{})
	gp.currentRound = nil
}

// FinalizeGame 对局正常结束，异步写入数据库
func (gp *GamePersister) FinalizeGame(gr *GameResult) {
	rankings := make([]entity.PlayerRanking, 0, 4)
	for rank, seat := range gr.Ranking {
		rankings = append(rankings, entity.PlayerRanking{SeatIndex: seat, Points: gr.Points[seat], Rank: rank + 1})
	}
	gp.finish(func(record *entity.GameRecord) {
		record.CompleteGame(&entity.GameFinalResult{Rankings: rankings, Points: gr.Points})
	})
}

// AbortGame 牌桌崩坏或被提前关闭，保存已有的局
func (gp *GamePersister) AbortGame(reason string) {
	gp.finish(func(record *entity.GameRecord) {
		record.AbortGame(reason)
	})
}

func (gp *GamePersister) finish(mark func(*entity.GameRecord)) {
	gp.eventMu.Lock()
	if gp.closed {
		gp.eventMu.Unlock()
		return
	}
	gp.closed = true
	mark(gp.gameRecord)
	rounds := make([]*entity.RoundRecord, len(gp.rounds))
	copy(rounds, gp.rounds) // 复制数组，避免异步写入时被修改
	gp.eventMu.Unlock()

	if gp.repo == nil {
		return
	}
	gp.pending.Add(1)
	go func() {
		defer gp.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), gp.timeout)
		defer cancel()

		if err := gp.repo.SaveGameRecord(ctx, gp.gameRecord); err != nil {
			log.Error("保存游戏记录失败: table=%s: %v", gp.gameRecord.TableID, err)
			return
		}
		if err := gp.repo.SaveRoundRecords(ctx, rounds); err != nil {
			log.Error("批量保存局记录失败: table=%s: %v", gp.gameRecord.TableID, err)
			return
		}
		log.Info("游戏记录保存成功: gameRecordID=%s, rounds=%d", gp.gameRecord.ID.Hex(), len(rounds))
	}()
}

// Wait 等待异步写入完成
func (gp *GamePersister) Wait() {
	gp.pending.Wait()
}

func toEntityTile(t Tile) entity.Tile {
	return entity.Tile{Type: int(t.Type), ID: t.ID, Red: t.Red}
}

func toEntityTiles(ts []Tile) []entity.Tile {
	out := make([]entity.Tile, len(ts))
	for i, t := range ts {
		out[i] = toEntityTile(t)
	}
	return out
}
