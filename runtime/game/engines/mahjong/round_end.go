package mahjong

import "sort"

type RoundEndKind int

const (
	EndTsumo         RoundEndKind = iota // 自摸
	EndRon                               // 荣和（含一炮双响）
	EndExhaustive                        // 荒牌流局
	EndNineTerminals                     // 九种九牌
	EndFourKans                          // 四杠散了
	EndFourRiichi                        // 四家立直
	EndFourWinds                         // 四风连打
	EndTripleRon                         // 三家和了
)

var roundEndNames = [...]string{"tsumo", "ron", "exhaustive_draw", "nine_terminals", "four_kans", "four_riichi", "four_winds", "triple_ron"}

func (k RoundEndKind) String() string {
	if k < 0 || int(k) >= len(roundEndNames) {
		return "unknown"
	}
	return roundEndNames[k]
}

// IsAbort 途中流局，不结算点数
func (k RoundEndKind) IsAbort() bool {
	return k >= EndNineTerminals
}

func (k RoundEndKind) IsWin() bool {
	return k == EndTsumo || k == EndRon
}

// WinRecord 一家和了
type WinRecord struct {
	Seat    int      `json:"seat" bson:"seat"`
	From    int      `json:"from" bson:"from"` // 放铳者，自摸时等于 Seat
	WinTile Tile     `json:"winTile" bson:"winTile"`
	Hand    []Tile   `json:"hand" bson:"hand"` // 和了时的手牌，含和了牌
	Melds   []Meld   `json:"melds" bson:"melds"`
	Score   WinScore `json:"score" bson:"score"`
}

// RoundResult 一局的结算
type RoundResult struct {
	Kind          RoundEndKind `json:"kind" bson:"kind"`
	HandNo        int          `json:"handNo" bson:"handNo"`
	Honba         int          `json:"honba" bson:"honba"`
	Wins          []WinRecord  `json:"wins,omitempty" bson:"wins,omitempty"`
	Tenpai        [4]bool      `json:"tenpai" bson:"tenpai"`
	Deltas        [4]int       `json:"deltas" bson:"deltas"`
	Renchan       bool         `json:"renchan" bson:"renchan"` // 庄家连庄（途中流局也按连庄处理）
	UraIndicators []Tile       `json:"uraIndicators,omitempty" bson:"uraIndicators,omitempty"`
}

func (r *RoundResult) clone() *RoundResult {
	c := *r
	c.Wins = make([]WinRecord, len(r.Wins))
	for i, w := range r.Wins {
		w.Hand = append([]Tile(nil), w.Hand...)
		w.Melds = append([]Meld(nil), w.Melds...)
		w.Score.Yaku = append([]YakuResult(nil), w.Score.Yaku...)
		c.Wins[i] = w
	}
	c.UraIndicators = append([]Tile(nil), r.UraIndicators...)
	return &c
}

// GameResult 终局
// Ranking[i] 为第 i+1 名的座位，Points 为含剩余供托的最终点数
type GameResult struct {
	Ranking [4]int `json:"ranking" bson:"ranking"`
	Points  [4]int `json:"points" bson:"points"`
}

// finishRound 应用点数变化，进入结算阶段
func (s *GameState) finishRound(res *RoundResult) {
	res.HandNo = s.Round.HandNo
	res.Honba = s.Round.Honba
	for i := range s.Players {
		s.Players[i].Points += res.Deltas[i]
	}
	s.clearCalls()
	s.Result = res
	s.Phase = PhaseRoundResult
}

// LeadTsumoEnding 自摸：闲家各付，庄家付双倍；供托归和了者
func (s *GameState) LeadTsumoEnding(seat int) {
	score, ok := s.canTsumo(seat)
	if !ok {
		return
	}
	p := &s.Players[seat]
	dealer := s.Round.Dealer()
	res := &RoundResult{Kind: EndTsumo, Renchan: seat == dealer}
	for other := range s.Players {
		if other == seat {
			continue
		}
		pay := score.TsumoNonDealer
		if other == dealer {
			pay = score.TsumoDealer
		}
		res.Deltas[other] -= pay
		res.Deltas[seat] += pay
	}
	res.Deltas[seat] += s.Round.Pot * 1000
	s.Round.Pot = 0
	res.Wins = []WinRecord{{
		Seat:    seat,
		From:    seat,
		WinTile: p.Drawn,
		Hand:    p.ConcealedTiles(),
		Melds:   append([]Meld(nil), p.Melds...),
		Score:   *score,
	}}
	if p.Riichi {
		res.UraIndicators = append([]Tile(nil), s.UraIndicators...)
	}
	s.Actor = seat
	s.finishRound(res)
}

// LeadRonEnding 荣和：放铳者逐一支付每个和了者（本场各算），供托归舍牌者下家方向最近的和了者
func (s *GameState) LeadRonEnding(claimants []int, chankan bool) {
	tile := s.LastDiscard.Tile
	from := s.LastDiscard.Seat
	dealer := s.Round.Dealer()
	res := &RoundResult{Kind: EndRon}
	for _, seat := range claimants {
		score, ok := s.canRon(seat, tile, chankan)
		if !ok {
			continue
		}
		p := &s.Players[seat]
		res.Deltas[seat] += score.RonPayment
		res.Deltas[from] -= score.RonPayment
		if len(res.Wins) == 0 {
			res.Deltas[seat] += s.Round.Pot * 1000
			s.Round.Pot = 0
		}
		res.Wins = append(res.Wins, WinRecord{
			Seat:    seat,
			From:    from,
			WinTile: tile,
			Hand:    append(append([]Tile(nil), p.Hand...), tile),
			Melds:   append([]Meld(nil), p.Melds...),
			Score:   *score,
		})
		if seat == dealer {
			res.Renchan = true
		}
		if p.Riichi {
			res.UraIndicators = append([]Tile(nil), s.UraIndicators...)
		}
	}
	s.finishRound(res)
}

// LeadNormalDrawEnding 荒牌流局：不听者共付 3000 点给听牌者，庄家听牌连庄
func (s *GameState) LeadNormalDrawEnding() {
	res := &RoundResult{Kind: EndExhaustive}
	tenpai := 0
	for i := range s.Players {
		res.Tenpai[i] = s.isTenpai(i)
		if res.Tenpai[i] {
			tenpai++
		}
	}
	if tenpai > 0 && tenpai < 4 {
		gain, loss := 3000/tenpai, 3000/(4-tenpai)
		for i := range s.Players {
			if res.Tenpai[i] {
				res.Deltas[i] = gain
			} else {
				res.Deltas[i] = -loss
			}
		}
	}
	res.Renchan = res.Tenpai[s.Round.Dealer()]
	s.finishRound(res)
}

// LeadAbortiveDrawEnding 途中流局，不结算，连庄
func (s *GameState) LeadAbortiveDrawEnding(kind RoundEndKind) {
	s.finishRound(&RoundResult{Kind: kind, Renchan: true})
}

// advanceRound 进入下一局或终局
// 庄家和了/听牌/途中流局连庄；荒牌流局与连庄本场 +1，闲家和了本场清零
func (s *GameState) advanceRound() {
	res := s.Result
	r := s.Round
	switch {
	case res.Kind.IsWin():
		if res.Renchan {
			r.Honba++
		} else {
			r.HandNo++
			r.Honba = 0
		}
	case res.Kind == EndExhaustive:
		r.Honba++
		if !res.Renchan {
			r.HandNo++
		}
	default:
		r.Honba++
	}
	s.Round = RoundState{HandNo: r.HandNo, Honba: r.Honba, Pot: r.Pot, DealNo: r.DealNo}
	s.Result = nil

	if s.gameOver() {
		s.finishGame()
		return
	}
	s.Phase = PhaseDealing
	s.Actor = s.Round.Dealer()
}

func (s *GameState) gameOver() bool {
	if s.Round.HandNo >= s.Rules.Length.HandCount() {
		return true
	}
	if s.Rules.Busting {
		for i := range s.Players {
			if s.Players[i].Points < 0 {
				return true
			}
		}
	}
	return false
}

// finishGame 终局：剩余供托归第一名，同分按起家座位顺序
func (s *GameState) finishGame() {
	var gr GameResult
	seats := []int{0, 1, 2, 3}
	sort.SliceStable(seats, func(i, j int) bool {
		return s.Players[seats[i]].Points > s.Players[seats[j]].Points
	})
	copy(gr.Ranking[:], seats)
	s.Players[seats[0]].Points += s.Round.Pot * 1000
	s.Round.Pot = 0
	for i := range s.Players {
		gr.Points[i] = s.Players[i].Points
	}
	s.GameResult = &gr
	s.Phase = PhaseGameResult
}
