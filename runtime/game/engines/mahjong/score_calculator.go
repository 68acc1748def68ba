package mahjong

type LimitTier int

const (
	LimitNone         LimitTier = iota
	LimitMangan                 // 满贯
	LimitHaneman                // 跳满
	LimitBaiman                 // 倍满
	LimitSanbaiman              // 三倍满
	LimitKazoeYakuman           // 累计役满
	LimitYakuman                // 役满
)

func (l LimitTier) String() string {
	switch l {
	case LimitMangan:
		return "mangan"
	case LimitHaneman:
		return "haneman"
	case LimitBaiman:
		return "baiman"
	case LimitSanbaiman:
		return "sanbaiman"
	case LimitKazoeYakuman:
		return "kazoe yakuman"
	case LimitYakuman:
		return "yakuman"
	default:
		return ""
	}
}

// ScoreInput 和牌计分输入
type ScoreInput struct {
	Ctx            YakuContext
	Dealer         bool
	DoraIndicators []Tile
	UraIndicators  []Tile // 仅立直时计入
	Tiles          []Tile // 和了时的全部实体牌（手牌、和了牌、副露），用于数赤宝牌
	Honba          int
}

// WinScore 最优解释下的计分结果
// RonPayment 为荣和时放铳者支付；TsumoDealer/TsumoNonDealer 为自摸时庄家/闲家各自支付，均已含本场
type WinScore struct {
	Yaku           []YakuResult `json:"yaku" bson:"yaku"`
	Han            int          `json:"han" bson:"han"`
	Fu             int          `json:"fu" bson:"fu"`
	Yakuman        int          `json:"yakuman" bson:"yakuman"`
	Dora           int          `json:"dora" bson:"dora"`
	Ura            int          `json:"ura" bson:"ura"`
	Aka            int          `json:"aka" bson:"aka"`
	Base           int          `json:"base" bson:"base"`
	Limit          LimitTier    `json:"limit" bson:"limit"`
	Shape          AgariShape   `json:"shape" bson:"shape"`
	Wait           WaitKind     `json:"wait" bson:"wait"`
	RonPayment     int          `json:"ronPayment" bson:"ronPayment"`
	TsumoDealer    int          `json:"tsumoDealer" bson:"tsumoDealer"`
	TsumoNonDealer int          `json:"tsumoNonDealer" bson:"tsumoNonDealer"`
	Total          int          `json:"total" bson:"total"`
}

// ScoreHand 对全部 (拆解, 和了面子) 组合计分，取支付最高者
// 没有任何役（宝牌不算役）时返回 false
func ScoreHand(in ScoreInput) (*WinScore, bool) {
	ctx := &in.Ctx
	patterns := Patterns(ctx)
	if len(patterns) == 0 {
		return nil, false
	}

	dora, ura, aka := countBonus(in)

	var best *WinScore
	for i := range patterns {
		p := &patterns[i]
		yakus := EvaluateYaku(ctx, p)
		if len(yakus) == 0 {
			continue
		}
		ws := &WinScore{Yaku: yakus, Shape: p.Shape, Wait: p.Wait}
		for _, y := range yakus {
			ws.Han += y.Han
			ws.Yakuman += y.Yakuman
		}
		if ws.Yakuman == 0 {
			ws.Dora, ws.Ura, ws.Aka = dora, ura, aka
			ws.Han += dora + ura + aka
			ws.Fu = calculateFu(ctx, p, hasYaku(yakus, YakuPinfu))
		}
		ws.Base, ws.Limit = basePoints(ws.Han, ws.Fu, ws.Yakuman)
		ws.settle(in.Dealer, ctx.Tsumo, in.Honba)

		if best == nil || ws.better(best) {
			best = ws
		}
	}
	return best, best != nil
}

func (ws *WinScore) better(other *WinScore) bool {
	if ws.Total != other.Total {
		return ws.Total > other.Total
	}
	if ws.Han != other.Han {
		return ws.Han > other.Han
	}
	return ws.Fu > other.Fu
}

func hasYaku(yakus []YakuResult, id Yaku) bool {
	for _, y := range yakus {
		if y.Yaku == id {
			return true
		}
	}
	return false
}

// countBonus 宝牌、里宝牌（仅立直）、赤宝牌
func countBonus(in ScoreInput) (dora, ura, aka int) {
	full := in.Ctx.fullHand()
	for _, ind := range in.DoraIndicators {
		dora += int(full[DoraFrom(ind.Type)])
	}
	if in.Ctx.Riichi || in.Ctx.DoubleRiichi {
		for _, ind := range in.UraIndicators {
			ura += int(full[DoraFrom(ind.Type)])
		}
	}
	for _, t := range in.Tiles {
		if t.Red {
			aka++
		}
	}
	return dora, ura, aka
}

// calculateFu 计算符数
func calculateFu(ctx *YakuContext, p *HandPattern, pinfu bool) int {
	switch p.Shape {
	case ShapeChiitoi:
		return 25 // 七对子固定25符
	case ShapeKokushi:
		return 0
	}

	// 平和固定30符（荣和）或20符（自摸）
	if pinfu {
		if ctx.Tsumo {
			return 20
		}
		return 30
	}

	fu := 20 // 副底
	menzen := ctx.Menzen()
	if menzen && !ctx.Tsumo {
		fu += 10 // 门清荣和+10符
	}
	if ctx.Tsumo {
		fu += 2 // 自摸+2符
	}

	fu += pairFu(ctx, p.Head)
	for _, g := range p.Groups {
		fu += groupFu(g)
	}
	if p.Wait == WaitKanchan || p.Wait == WaitPenchan || p.Wait == WaitTanki {
		fu += 2 // 边张/嵌张/单骑+2符
	}

	// 向上取整到10的倍数
	fu = ((fu + 9) / 10) * 10
	if !menzen && fu == 20 {
		fu = 30 // 副露的 20 符手按 30 符计
	}
	return fu
}

// pairFu 雀头是三元牌/自风/场风时各+2符（连风牌+4）
func pairFu(ctx *YakuContext, head TileType) int {
	fu := 0
	if head.IsDragon() {
		fu += 2
	}
	if head == ctx.SeatWind.TileType() {
		fu += 2
	}
	if head == ctx.RoundWind.TileType() {
		fu += 2
	}
	return fu
}

// groupFu 明刻 中张2/幺九4，暗刻翻倍，杠子再乘4
func groupFu(g Group) int {
	if g.Kind != GroupTriplet {
		return 0
	}
	fu := 2
	if g.Tile.IsYaochu() {
		fu = 4
	}
	if !g.Open {
		fu *= 2
	}
	if g.Kan {
		fu *= 4
	}
	return fu
}

// basePoints 基本点：符×2^(番+2)，超过 2000 封顶满贯，满贯以上按番数取固定值
func basePoints(han, fu, yakuman int) (int, LimitTier) {
	switch {
	case yakuman > 0:
		return 8000 * yakuman, LimitYakuman
	case han >= 13:
		return 8000, LimitKazoeYakuman
	case han >= 11:
		return 6000, LimitSanbaiman
	case han >= 8:
		return 4000, LimitBaiman
	case han >= 6:
		return 3000, LimitHaneman
	case han >= 5:
		return 2000, LimitMangan
	}
	base := fu * (1 << (2 + han))
	if base > 2000 {
		return 2000, LimitMangan
	}
	return base, LimitNone
}

// settle 计算支付：荣和由放铳者全付，自摸由其他三家分担（庄家付双倍），本场每次 300 点
func (ws *WinScore) settle(dealer, tsumo bool, honba int) {
	if !tsumo {
		if dealer {
			ws.RonPayment = roundUpTo100(ws.Base*6) + 300*honba
		} else {
			ws.RonPayment = roundUpTo100(ws.Base*4) + 300*honba
		}
		ws.Total = ws.RonPayment
		return
	}
	if dealer {
		ws.TsumoNonDealer = roundUpTo100(ws.Base*2) + 100*honba
		ws.Total = ws.TsumoNonDealer * 3
		return
	}
	ws.TsumoDealer = roundUpTo100(ws.Base*2) + 100*honba
	ws.TsumoNonDealer = roundUpTo100(ws.Base) + 100*honba
	ws.Total = ws.TsumoDealer + ws.TsumoNonDealer*2
}

func roundUpTo100(x int) int {
	return (x + 99) / 100 * 100
}
