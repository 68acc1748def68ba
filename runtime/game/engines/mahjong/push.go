package mahjong

import "riichi/common/log"

// 推送场景，由一次成功的状态转移（prev -> next）推导：
// 1. 回合开始（每家只收到自己的配牌）
// 2. 摸牌（仅自己可见）
// 3. 出牌 / 立直
// 4. 吃、碰、明杠、暗杠、加杠
// 5. 翻开新宝牌
// 6. 可选操作（仅对有操作的座位）
// 7. 回合结束
// 8. 游戏结束
// 9. 牌桌崩坏

type TableEventType string

const (
	EventRoundStart  TableEventType = "round_start"
	EventDraw        TableEventType = "draw"
	EventDiscard     TableEventType = "discard"
	EventMeld        TableEventType = "meld"
	EventDora        TableEventType = "dora"
	EventCallOptions TableEventType = "call_options"
	EventRoundEnd    TableEventType = "round_end"
	EventGameEnd     TableEventType = "game_end"
	EventDamaged     TableEventType = "damaged"
)

// TableEvent 发往宿主层的推送
// Seat >= 0 且 Private 为 true 时，只能投递给该座位
type TableEvent struct {
	TableID string         `json:"tableId"`
	Step    int64          `json:"step"`
	Type    TableEventType `json:"type"`
	Seat    int            `json:"seat"`
	Private bool           `json:"private,omitempty"`
	Data    any            `json:"data,omitempty"`
}

// Pusher 推送出口（NATS 等），由宿主层注入
type Pusher interface {
	Push(event TableEvent) error
}

// RoundStartDTO 回合开始
type RoundStartDTO struct {
	DoraIndicators []Tile       `json:"doraIndicators"`
	Situation      SituationDTO `json:"situation"`
	HandTiles      []Tile       `json:"handTiles"` // 自己的配牌
	CurrentTurn    int          `json:"currentTurn"`
}

// SituationDTO 场况信息
type SituationDTO struct {
	DealerIndex  int    `json:"dealerIndex"`
	RoundWind    string `json:"roundWind"`
	RoundNumber  int    `json:"roundNumber"` // 局数 (1-4)
	Honba        int    `json:"honba"`
	RiichiSticks int    `json:"riichiSticks"`
	Remaining    int    `json:"remaining"`
}

type DrawTileDTO struct {
	Tile    Tile `json:"tile"`
	Rinshan bool `json:"rinshan,omitempty"`
}

type DiscardTileDTO struct {
	SeatIndex int  `json:"seatIndex"`
	Tile      Tile `json:"tile"`
	Riichi    bool `json:"riichi,omitempty"`
	Tsumogiri bool `json:"tsumogiri,omitempty"`
}

// MeldActionDTO 鸣牌信息
type MeldActionDTO struct {
	ActionType string `json:"actionType"` // 副露类型
	SeatIndex  int    `json:"seatIndex"`
	Meld       Meld   `json:"meld"`
}

type DoraDTO struct {
	DoraIndicators []Tile `json:"doraIndicators"`
}

// RoundEndDTO 回合结束信息
type RoundEndDTO struct {
	EndType       string       `json:"endType"`
	Claims        []HuClaimDTO `json:"claims,omitempty"`
	Delta         [4]int       `json:"delta"`
	Points        [4]int       `json:"points"`
	Tenpai        [4]bool      `json:"tenpai"`
	Renchan       bool         `json:"renchan"`
	UraIndicators []Tile       `json:"uraIndicators,omitempty"`
}

// HuClaimDTO 和牌信息
type HuClaimDTO struct {
	WinnerSeat int      `json:"winnerSeat"`
	LoserSeat  int      `json:"loserSeat"` // 自摸时为 -1
	WinTile    Tile     `json:"winTile"`
	Han        int      `json:"han"`
	Fu         int      `json:"fu"`
	Yakuman    int      `json:"yakuman,omitempty"`
	Yaku       []string `json:"yaku"`
	Points     int      `json:"points"`
}

type GameEndDTO struct {
	FinalRanking [4]PlayerRankingDTO `json:"finalRanking"`
}

type PlayerRankingDTO struct {
	SeatIndex int `json:"seatIndex"`
	Points    int `json:"points"`
	Rank      int `json:"rank"` // 1-4
}

func situationOf(s *GameState) SituationDTO {
	return SituationDTO{
		DealerIndex:  s.Round.Dealer(),
		RoundWind:    s.Round.Wind().String(),
		RoundNumber:  s.Round.Kyoku(),
		Honba:        s.Round.Honba,
		RiichiSticks: s.Round.Pot,
		Remaining:    s.Wall.Remaining(),
	}
}

// huClaimsOf 和了记录转换为推送/存档使用的形式
func huClaimsOf(res *RoundResult) []HuClaimDTO {
	claims := make([]HuClaimDTO, 0, len(res.Wins))
	for _, w := range res.Wins {
		loser := w.From
		if w.From == w.Seat {
			loser = -1
		}
		names := make([]string, 0, len(w.Score.Yaku))
		for _, y := range w.Score.Yaku {
			names = append(names, y.Name)
		}
		claims = append(claims, HuClaimDTO{
			WinnerSeat: w.Seat,
			LoserSeat:  loser,
			WinTile:    w.WinTile,
			Han:        w.Score.Han,
			Fu:         w.Score.Fu,
			Yakuman:    w.Score.Yakuman,
			Yaku:       names,
			Points:     w.Score.Total,
		})
	}
	return claims
}

func roundEndOf(s *GameState) RoundEndDTO {
	res := s.Result
	dto := RoundEndDTO{
		EndType:       res.Kind.String(),
		Claims:        huClaimsOf(res),
		Delta:         res.Deltas,
		Tenpai:        res.Tenpai,
		Renchan:       res.Renchan,
		UraIndicators: res.UraIndicators,
	}
	for i := range s.Players {
		dto.Points[i] = s.Players[i].Points
	}
	return dto
}

func gameEndOf(gr *GameResult) GameEndDTO {
	var dto GameEndDTO
	for rank, seat := range gr.Ranking {
		dto.FinalRanking[rank] = PlayerRankingDTO{SeatIndex: seat, Points: gr.Points[seat], Rank: rank + 1}
	}
	return dto
}

// buildEvents 由一次成功的状态转移推导推送列表，不修改 prev/next
func buildEvents(tableID string, step int64, prev, next *GameState, cmd Command) []TableEvent {
	events := make([]TableEvent, 0, 6)
	add := func(typ TableEventType, seat int, private bool, data any) {
		events = append(events, TableEvent{TableID: tableID, Step: step, Type: typ, Seat: seat, Private: private, Data: data})
	}

	switch cmd.Kind {
	case CmdBeginRound:
		situation := situationOf(next)
		for seat := range next.Players {
			add(EventRoundStart, seat, true, RoundStartDTO{
				DoraIndicators: next.DoraIndicators,
				Situation:      situation,
				HandTiles:      next.Players[seat].ConcealedTiles(),
				CurrentTurn:    next.Actor,
			})
		}
	case CmdDraw:
		p := &next.Players[cmd.Seat]
		if p.HasDrawn {
			add(EventDraw, cmd.Seat, true, DrawTileDTO{Tile: p.Drawn})
		}
	case CmdDiscard, CmdDeclareRiichi:
		add(EventDiscard, cmd.Seat, false, DiscardTileDTO{
			SeatIndex: cmd.Seat,
			Tile:      cmd.Tile,
			Riichi:    cmd.Kind == CmdDeclareRiichi,
			Tsumogiri: prev.Players[cmd.Seat].HasDrawn && prev.Players[cmd.Seat].Drawn.ID == cmd.Tile.ID,
		})
	case CmdCallClosedKan:
		if m, ok := newMeld(prev, next, cmd.Seat); ok {
			add(EventMeld, cmd.Seat, false, MeldActionDTO{ActionType: cmd.Kind.String(), SeatIndex: cmd.Seat, Meld: m})
		}
	case CmdCallAddedKan, CmdCallPon, CmdCallChi, CmdCallOpenKan, CmdDeclineCall, CmdDeclareWinByDiscard:
		// 响应阶段由最后一个响应决定结果，鸣牌的座位不一定是发命令的座位
		for seat := range next.Players {
			if m, ok := newMeld(prev, next, seat); ok {
				add(EventMeld, seat, false, MeldActionDTO{ActionType: m.Type.String(), SeatIndex: seat, Meld: m})
			}
		}
	}

	if len(next.DoraIndicators) > len(prev.DoraIndicators) && cmd.Kind != CmdBeginRound {
		add(EventDora, -1, false, DoraDTO{DoraIndicators: next.DoraIndicators})
	}

	// 杠后补牌
	if next.Phase == PhaseDiscard && next.Players[next.Actor].Rinshan && !prev.Players[next.Actor].Rinshan {
		p := &next.Players[next.Actor]
		add(EventDraw, next.Actor, true, DrawTileDTO{Tile: p.Drawn, Rinshan: true})
	}

	if next.Phase == PhaseCalling {
		for seat := range next.Pending {
			if !next.Pending[seat].Any() || next.Responses[seat].Kind != RespNone {
				continue
			}
			if prev.Phase == PhaseCalling && prev.Pending[seat].Any() {
				continue
			}
			add(EventCallOptions, seat, true, next.LegalActions(seat))
		}
	}

	if next.Result != nil && prev.Result == nil {
		add(EventRoundEnd, -1, false, roundEndOf(next))
	}
	if next.GameResult != nil && prev.GameResult == nil {
		add(EventGameEnd, -1, false, gameEndOf(next.GameResult))
	}
	return events
}

// newMeld 座位新增的副露（加杠为原碰升级）
func newMeld(prev, next *GameState, seat int) (Meld, bool) {
	before, after := prev.Players[seat].Melds, next.Players[seat].Melds
	if len(after) > len(before) {
		return after[len(after)-1], true
	}
	for i := range after {
		if after[i].Type != before[i].Type {
			return after[i], true
		}
	}
	return Meld{}, false
}

// dispatchPush 逐条推送，推送失败只记日志，不影响牌桌
func (eg *RiichiMahjong4p) dispatchPush(events []TableEvent) {
	if eg.pusher == nil {
		return
	}
	for _, ev := range events {
		if err := eg.pusher.Push(ev); err != nil {
			log.Warn("dispatchPush: 推送失败 table=%s type=%s seat=%d: %v", ev.TableID, ev.Type, ev.Seat, err)
		}
	}
}
