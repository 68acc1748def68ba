package mahjong

// Yaku 役种（和牌方式）
type Yaku int

// 役种常量定义
const (
	// 基本役
	YakuRiichi       Yaku = iota // 立直：门清状态下宣布立直，并放置1000点棒
	YakuDoubleRiichi             // 两立直：第一巡未被打断时立直
	YakuIppatsu                  // 一发：立直后一巡内和牌
	YakuTsumo                    // 门前清自摸和：门清状态下自摸和牌

	// 平和系
	YakuPinfu     // 平和：4顺子+非役牌雀头，两面听牌
	YakuIppeiko   // 一杯口：同种花色、同种顺子有两组
	YakuRyanpeiko // 二杯口：手牌中有两个不同的一杯口

	// 役牌系
	YakuHaku      // 役牌 白
	YakuHatsu     // 役牌 发
	YakuChun      // 役牌 中
	YakuSeatWind  // 自风
	YakuRoundWind // 场风

	// 断幺系
	YakuTanyao // 断幺九：手牌全部由数牌2-8组成

	// 偶然役
	YakuHaitei  // 海底摸月
	YakuHoutei  // 河底捞鱼
	YakuRinshan // 岭上开花
	YakuChankan // 抢杠

	// 顺子系
	YakuSanshoku // 三色同顺：相同顺子在三种花色中都出现
	YakuIttsu    // 一气通贯：同种花色有123、456、789三个顺子

	// 带幺系
	YakuChanta  // 混全带幺九：所有面子都包含幺九牌
	YakuJunchan // 纯全带幺九：所有面子都包含数牌幺九(1、9)

	// 老头系
	YakuHonroto // 混老头：全部由幺九牌(1、9、字牌)组成

	// 清一色系
	YakuHonitsu  // 混一色：一种花色+字牌
	YakuChinitsu // 清一色：同一种花色(无字牌)

	// 刻子系
	YakuToitoi         // 对对和：4个刻子(杠子)+1个对子
	YakuSananko        // 三暗刻：手牌中有3个暗刻
	YakuSanshokuDoukou // 三色同刻
	YakuSankantsu      // 三杠子：手牌中有3个杠子
	YakuShousangen     // 小三元

	// 特殊型
	YakuChiitoi // 七对子：7个不同的对子

	// 役满役种
	YakuKokushi       // 国士无双(十三幺)：13种幺九牌各1张+其中任意1张
	YakuKokushi13     // 国士十三面（双倍）
	YakuSuuankou      // 四暗刻：手牌中有四个暗刻
	YakuSuuankouTanki // 四暗刻单骑：四暗刻且听牌形式为单骑（双倍）
	YakuDaisangen     // 大三元
	YakuShousushi     // 小四喜
	YakuDaisushi      // 大四喜（双倍）
	YakuTsuuiisou     // 字一色
	YakuChinroto      // 清老头：全部由数牌幺九(1、9)组成
	YakuRyuuiisou     // 绿一色
	YakuChuuren       // 九莲宝灯：同一种花色的1112345678999，加上任意一张同花色的牌
	YakuJunseiChuuren // 纯正九莲宝灯：九莲宝灯听所有的9种牌（双倍）
	YakuSuukantsu     // 四杠子
	YakuTenhou        // 天和
	YakuChiihou       // 地和
)

var yakuNames = map[Yaku]string{
	YakuRiichi:         "riichi",
	YakuDoubleRiichi:   "double riichi",
	YakuIppatsu:        "ippatsu",
	YakuTsumo:          "menzen tsumo",
	YakuPinfu:          "pinfu",
	YakuIppeiko:        "iipeikou",
	YakuRyanpeiko:      "ryanpeikou",
	YakuHaku:           "yakuhai haku",
	YakuHatsu:          "yakuhai hatsu",
	YakuChun:           "yakuhai chun",
	YakuSeatWind:       "seat wind",
	YakuRoundWind:      "round wind",
	YakuTanyao:         "tanyao",
	YakuHaitei:         "haitei",
	YakuHoutei:         "houtei",
	YakuRinshan:        "rinshan kaihou",
	YakuChankan:        "chankan",
	YakuSanshoku:       "sanshoku doujun",
	YakuIttsu:          "ittsu",
	YakuChanta:         "chanta",
	YakuJunchan:        "junchan",
	YakuHonroto:        "honroutou",
	YakuHonitsu:        "honitsu",
	YakuChinitsu:       "chinitsu",
	YakuToitoi:         "toitoi",
	YakuSananko:        "sanankou",
	YakuSanshokuDoukou: "sanshoku doukou",
	YakuSankantsu:      "sankantsu",
	YakuShousangen:     "shousangen",
	YakuChiitoi:        "chiitoitsu",
	YakuKokushi:        "kokushi musou",
	YakuKokushi13:      "kokushi musou 13-sided",
	YakuSuuankou:       "suuankou",
	YakuSuuankouTanki:  "suuankou tanki",
	YakuDaisangen:      "daisangen",
	YakuShousushi:      "shousuushii",
	YakuDaisushi:       "daisuushii",
	YakuTsuuiisou:      "tsuuiisou",
	YakuChinroto:       "chinroutou",
	YakuRyuuiisou:      "ryuuiisou",
	YakuChuuren:        "chuuren poutou",
	YakuJunseiChuuren:  "junsei chuuren poutou",
	YakuSuukantsu:      "suukantsu",
	YakuTenhou:         "tenhou",
	YakuChiihou:        "chiihou",
}

func (y Yaku) String() string {
	if name, ok := yakuNames[y]; ok {
		return name
	}
	return "unknown"
}

type WaitKind int

const (
	WaitRyanmen WaitKind = iota // 两面
	WaitKanchan                 // 嵌张
	WaitPenchan                 // 边张
	WaitShanpon                 // 双碰
	WaitTanki                   // 单骑
)

// YakuContext 役判定所需的局面信息
type YakuContext struct {
	WinTile       Tile
	Hand          Hand34 // 手牌（含和了牌，不含副露）
	Melds         []Meld
	Tsumo         bool
	SeatWind      Wind
	RoundWind     Wind
	Riichi        bool
	DoubleRiichi  bool
	Ippatsu       bool
	Haitei        bool
	Houtei        bool
	Rinshan       bool
	Chankan       bool
	Tenhou        bool
	Chiihou       bool
	OpenTanyao    bool
	DoubleYakuman bool
}

// Menzen 门清：没有明副露（暗杠不破坏门清）
func (ctx *YakuContext) Menzen() bool {
	for _, m := range ctx.Melds {
		if m.IsOpen() {
			return false
		}
	}
	return true
}

// fullHand 手牌加副露的全部牌种计数
func (ctx *YakuContext) fullHand() Hand34 {
	h := ctx.Hand
	for _, m := range ctx.Melds {
		for _, t := range m.Tiles {
			h[t.Type]++
		}
	}
	return h
}

// HandPattern 一种和牌解释：形状、雀头、全部面子（含副露）与和了牌所在位置
type HandPattern struct {
	Shape    AgariShape
	Head     TileType
	Groups   []Group
	WinGroup int // 和了牌所在面子下标，-1 表示雀头（单骑）
	Wait     WaitKind
}

// Patterns 枚举一手和牌的全部 (拆解, 和了面子) 组合
func Patterns(ctx *YakuContext) []HandPattern {
	info := Decompose(ctx.Hand, len(ctx.Melds))
	win := ctx.WinTile.Type
	meldGroups := MeldGroups(ctx.Melds)

	var out []HandPattern
	for _, dec := range info.Standard {
		concealed := len(dec.Groups)
		base := make([]Group, 0, 4)
		base = append(base, dec.Groups...)
		base = append(base, meldGroups...)

		for i := 0; i < concealed; i++ {
			g := base[i]
			if !g.Contains(win) {
				continue
			}
			groups := append([]Group(nil), base...)
			wait := WaitShanpon
			if g.Kind == GroupRun {
				wait = runWait(g.Tile, win)
			} else if !ctx.Tsumo {
				// 荣和完成的刻子按明刻计
				groups[i].Open = true
			}
			out = append(out, HandPattern{Shape: ShapeStandard, Head: dec.Head, Groups: groups, WinGroup: i, Wait: wait})
		}
		if dec.Head == win {
			out = append(out, HandPattern{Shape: ShapeStandard, Head: dec.Head, Groups: base, WinGroup: -1, Wait: WaitTanki})
		}
	}
	if info.Chiitoi {
		out = append(out, HandPattern{Shape: ShapeChiitoi, Head: win, WinGroup: -1, Wait: WaitTanki})
	}
	if info.Kokushi {
		out = append(out, HandPattern{Shape: ShapeKokushi, Head: win, WinGroup: -1, Wait: WaitTanki})
	}
	return out
}

func runWait(start, win TileType) WaitKind {
	switch {
	case win == start+1:
		return WaitKanchan
	case win == start && start.Number() == 7:
		return WaitPenchan
	case win == start+2 && start.Number() == 1:
		return WaitPenchan
	default:
		return WaitRyanmen
	}
}

// YakuResult 成立的役，Closed/Open 为门清/副露时的番数，Open 为 0 表示限门清
type YakuResult struct {
	Yaku    Yaku   `json:"yaku" bson:"yaku"`
	Name    string `json:"name" bson:"name"`
	Han     int    `json:"han" bson:"han"`
	Closed  int    `json:"closed" bson:"closed"`
	Open    int    `json:"open" bson:"open"`
	Yakuman int    `json:"yakuman,omitempty" bson:"yakuman,omitempty"`
}

type YakuChecker interface {
	ID() Yaku
	Values() (closed int, open int)
	Check(ctx *YakuContext, p *HandPattern) (int, int)
}

type yakuCheckerFunc struct {
	id      Yaku
	closed  int
	open    int
	yakuman int
	check   func(ctx *YakuContext, p *HandPattern) bool
}

func (f yakuCheckerFunc) ID() Yaku { return f.id }

func (f yakuCheckerFunc) Values() (int, int) { return f.closed, f.open }

// Check 返回 (番数, 役满倍数)，副露时限门清役返回 0
func (f yakuCheckerFunc) Check(ctx *YakuContext, p *HandPattern) (int, int) {
	if !f.check(ctx, p) {
		return 0, 0
	}
	if f.yakuman > 0 {
		if f.yakuman > 1 && !ctx.DoubleYakuman {
			return 0, 1
		}
		return 0, f.yakuman
	}
	if ctx.Menzen() {
		return f.closed, 0
	}
	return f.open, 0
}

// EvaluateYaku 对一种和牌解释判定全部成立的役；有役满时只保留役满
func EvaluateYaku(ctx *YakuContext, p *HandPattern) []YakuResult {
	var normal, yakuman []YakuResult
	for _, checker := range RiichiMahjong4pYakuRegistry {
		han, mult := checker.Check(ctx, p)
		if han == 0 && mult == 0 {
			continue
		}
		closed, open := checker.Values()
		r := YakuResult{Yaku: checker.ID(), Name: checker.ID().String(), Han: han, Closed: closed, Open: open, Yakuman: mult}
		if mult > 0 {
			yakuman = append(yakuman, r)
		} else {
			normal = append(normal, r)
		}
	}
	if len(yakuman) > 0 {
		return yakuman
	}
	return normal
}

var RiichiMahjong4pYakuRegistry = []YakuChecker{
	// 役满
	yakuCheckerFunc{id: YakuKokushi, yakuman: 1, check: func(ctx *YakuContext, p *HandPattern) bool {
		return p.Shape == ShapeKokushi && ctx.Hand[ctx.WinTile.Type] != 2
	}},
	yakuCheckerFunc{id: YakuKokushi13, yakuman: 2, check: func(ctx *YakuContext, p *HandPattern) bool {
		return p.Shape == ShapeKokushi && ctx.Hand[ctx.WinTile.Type] == 2
	}},
	yakuCheckerFunc{id: YakuSuuankou, yakuman: 1, check: func(ctx *YakuContext, p *HandPattern) bool {
		return p.Shape == ShapeStandard && concealedTriplets(p) == 4 && p.Wait != WaitTanki
	}},
	yakuCheckerFunc{id: YakuSuuankouTanki, yakuman: 2, check: func(ctx *YakuContext, p *HandPattern) bool {
		return p.Shape == ShapeStandard && concealedTriplets(p) == 4 && p.Wait == WaitTanki
	}},
	yakuCheckerFunc{id: YakuDaisangen, yakuman: 1, check: func(ctx *YakuContext, p *HandPattern) bool {
		return p.Shape == ShapeStandard && countTriplets(p, TileType.IsDragon) == 3
	}},
	yakuCheckerFunc{id: YakuShousushi, yakuman: 1, check: func(ctx *YakuContext, p *HandPattern) bool {
		return p.Shape == ShapeStandard && countTriplets(p, TileType.IsWind) == 3 && p.Head.IsWind()
	}},
	yakuCheckerFunc{id: YakuDaisushi, yakuman: 2, check: func(ctx *YakuContext, p *HandPattern) bool {
		return p.Shape == ShapeStandard && countTriplets(p, TileType.IsWind) == 4
	}},
	yakuCheckerFunc{id: YakuTsuuiisou, yakuman: 1, check: func(ctx *YakuContext, p *HandPattern) bool {
		return allKinds(ctx, TileType.IsHonor)
	}},
	yakuCheckerFunc{id: YakuChinroto, yakuman: 1, check: func(ctx *YakuContext, p *HandPattern) bool {
		return allKinds(ctx, TileType.IsTerminal)
	}},
	yakuCheckerFunc{id: YakuRyuuiisou, yakuman: 1, check: func(ctx *YakuContext, p *HandPattern) bool {
		return allKinds(ctx, isGreen)
	}},
	yakuCheckerFunc{id: YakuChuuren, yakuman: 1, check: func(ctx *YakuContext, p *HandPattern) bool {
		ok, junsei := checkChuuren(ctx, p)
		return ok && !junsei
	}},
	yakuCheckerFunc{id: YakuJunseiChuuren, yakuman: 2, check: func(ctx *YakuContext, p *HandPattern) bool {
		ok, junsei := checkChuuren(ctx, p)
		return ok && junsei
	}},
	yakuCheckerFunc{id: YakuSuukantsu, yakuman: 1, check: func(ctx *YakuContext, p *HandPattern) bool {
		return countKans(ctx) == 4
	}},
	yakuCheckerFunc{id: YakuTenhou, yakuman: 1, check: func(ctx *YakuContext, p *HandPattern) bool {
		return ctx.Tenhou
	}},
	yakuCheckerFunc{id: YakuChiihou, yakuman: 1, check: func(ctx *YakuContext, p *HandPattern) bool {
		return ctx.Chiihou
	}},

	// 基本役
	yakuCheckerFunc{id: YakuRiichi, closed: 1, check: func(ctx *YakuContext, p *HandPattern) bool {
		return ctx.Riichi && !ctx.DoubleRiichi
	}},
	yakuCheckerFunc{id: YakuDoubleRiichi, closed: 2, check: func(ctx *YakuContext, p *HandPattern) bool {
		return ctx.DoubleRiichi
	}},
	yakuCheckerFunc{id: YakuIppatsu, closed: 1, check: func(ctx *YakuContext, p *HandPattern) bool {
		return (ctx.Riichi || ctx.DoubleRiichi) && ctx.Ippatsu
	}},
	yakuCheckerFunc{id: YakuTsumo, closed: 1, check: func(ctx *YakuContext, p *HandPattern) bool {
		return ctx.Tsumo
	}},

	// 平和系
	yakuCheckerFunc{id: YakuPinfu, closed: 1, check: checkPinfu},
	yakuCheckerFunc{id: YakuIppeiko, closed: 1, check: func(ctx *YakuContext, p *HandPattern) bool {
		return p.Shape == ShapeStandard && peikoCount(p) == 1
	}},
	yakuCheckerFunc{id: YakuRyanpeiko, closed: 3, check: func(ctx *YakuContext, p *HandPattern) bool {
		return p.Shape == ShapeStandard && peikoCount(p) >= 2
	}},

	// 役牌系
	yakuCheckerFunc{id: YakuHaku, closed: 1, open: 1, check: func(ctx *YakuContext, p *HandPattern) bool {
		return hasTriplet(p, White)
	}},
	yakuCheckerFunc{id: YakuHatsu, closed: 1, open: 1, check: func(ctx *YakuContext, p *HandPattern) bool {
		return hasTriplet(p, Green)
	}},
	yakuCheckerFunc{id: YakuChun, closed: 1, open: 1, check: func(ctx *YakuContext, p *HandPattern) bool {
		return hasTriplet(p, Red)
	}},
	yakuCheckerFunc{id: YakuSeatWind, closed: 1, open: 1, check: func(ctx *YakuContext, p *HandPattern) bool {
		return hasTriplet(p, ctx.SeatWind.TileType())
	}},
	yakuCheckerFunc{id: YakuRoundWind, closed: 1, open: 1, check: func(ctx *YakuContext, p *HandPattern) bool {
		return hasTriplet(p, ctx.RoundWind.TileType())
	}},

	// 断幺系
	yakuCheckerFunc{id: YakuTanyao, closed: 1, open: 1, check: func(ctx *YakuContext, p *HandPattern) bool {
		if !ctx.Menzen() && !ctx.OpenTanyao {
			return false
		}
		return allKinds(ctx, func(t TileType) bool { return !t.IsYaochu() })
	}},

	// 偶然役
	yakuCheckerFunc{id: YakuHaitei, closed: 1, open: 1, check: func(ctx *YakuContext, p *HandPattern) bool {
		return ctx.Tsumo && ctx.Haitei && !ctx.Rinshan
	}},
	yakuCheckerFunc{id: YakuHoutei, closed: 1, open: 1, check: func(ctx *YakuContext, p *HandPattern) bool {
		return !ctx.Tsumo && ctx.Houtei
	}},
	yakuCheckerFunc{id: YakuRinshan, closed: 1, open: 1, check: func(ctx *YakuContext, p *HandPattern) bool {
		return ctx.Tsumo && ctx.Rinshan
	}},
	yakuCheckerFunc{id: YakuChankan, closed: 1, open: 1, check: func(ctx *YakuContext, p *HandPattern) bool {
		return !ctx.Tsumo && ctx.Chankan
	}},

	// 顺子系
	yakuCheckerFunc{id: YakuSanshoku, closed: 2, open: 1, check: func(ctx *YakuContext, p *HandPattern) bool {
		return p.Shape == ShapeStandard && sameNumberAcrossSuits(p, GroupRun)
	}},
	yakuCheckerFunc{id: YakuIttsu, closed: 2, open: 1, check: checkIttsu},

	// 带幺系
	yakuCheckerFunc{id: YakuChanta, closed: 2, open: 1, check: func(ctx *YakuContext, p *HandPattern) bool {
		return checkOutsideHand(p, false)
	}},
	yakuCheckerFunc{id: YakuJunchan, closed: 3, open: 2, check: func(ctx *YakuContext, p *HandPattern) bool {
		return checkOutsideHand(p, true)
	}},

	// 老头系
	yakuCheckerFunc{id: YakuHonroto, closed: 2, open: 2, check: func(ctx *YakuContext, p *HandPattern) bool {
		return allKinds(ctx, TileType.IsYaochu)
	}},

	// 清一色系
	yakuCheckerFunc{id: YakuHonitsu, closed: 3, open: 2, check: func(ctx *YakuContext, p *HandPattern) bool {
		suits, honors := suitProfile(ctx)
		return suits == 1 && honors
	}},
	yakuCheckerFunc{id: YakuChinitsu, closed: 6, open: 5, check: func(ctx *YakuContext, p *HandPattern) bool {
		suits, honors := suitProfile(ctx)
		return suits == 1 && !honors
	}},

	// 刻子系
	yakuCheckerFunc{id: YakuToitoi, closed: 2, open: 2, check: func(ctx *YakuContext, p *HandPattern) bool {
		return p.Shape == ShapeStandard && countTriplets(p, nil) == 4
	}},
	yakuCheckerFunc{id: YakuSananko, closed: 2, open: 2, check: func(ctx *YakuContext, p *HandPattern) bool {
		return p.Shape == ShapeStandard && concealedTriplets(p) >= 3
	}},
	yakuCheckerFunc{id: YakuSanshokuDoukou, closed: 2, open: 2, check: func(ctx *YakuContext, p *HandPattern) bool {
		return p.Shape == ShapeStandard && sameNumberAcrossSuits(p, GroupTriplet)
	}},
	yakuCheckerFunc{id: YakuSankantsu, closed: 2, open: 2, check: func(ctx *YakuContext, p *HandPattern) bool {
		return countKans(ctx) == 3
	}},
	yakuCheckerFunc{id: YakuShousangen, closed: 2, open: 2, check: func(ctx *YakuContext, p *HandPattern) bool {
		return p.Shape == ShapeStandard && countTriplets(p, TileType.IsDragon) == 2 && p.Head.IsDragon()
	}},

	// 特殊型
	yakuCheckerFunc{id: YakuChiitoi, closed: 2, check: func(ctx *YakuContext, p *HandPattern) bool {
		return p.Shape == ShapeChiitoi
	}},
}

func checkPinfu(ctx *YakuContext, p *HandPattern) bool {
	if p.Shape != ShapeStandard || len(ctx.Melds) > 0 || p.Wait != WaitRyanmen {
		return false
	}
	for _, g := range p.Groups {
		if g.Kind != GroupRun {
			return false
		}
	}
	return !isYakuhai(ctx, p.Head)
}

// isYakuhai 雀头是否为役牌（三元牌、自风、场风）
func isYakuhai(ctx *YakuContext, t TileType) bool {
	return t.IsDragon() || t == ctx.SeatWind.TileType() || t == ctx.RoundWind.TileType()
}

func peikoCount(p *HandPattern) int {
	var runs [KindLimit]int
	for _, g := range p.Groups {
		if g.Kind == GroupRun {
			runs[g.Tile]++
		}
	}
	pairs := 0
	for _, n := range runs {
		pairs += n / 2
	}
	return pairs
}

func hasTriplet(p *HandPattern, t TileType) bool {
	if p.Shape != ShapeStandard {
		return false
	}
	for _, g := range p.Groups {
		if g.Kind == GroupTriplet && g.Tile == t {
			return true
		}
	}
	return false
}

// countTriplets 满足条件的刻子（含杠子）数量，pred 为 nil 时统计全部
func countTriplets(p *HandPattern, pred func(TileType) bool) int {
	n := 0
	for _, g := range p.Groups {
		if g.Kind == GroupTriplet && (pred == nil || pred(g.Tile)) {
			n++
		}
	}
	return n
}

// concealedTriplets 暗刻数（含暗杠，荣和完成的刻子已标记为明刻）
func concealedTriplets(p *HandPattern) int {
	n := 0
	for _, g := range p.Groups {
		if g.Kind == GroupTriplet && !g.Open {
			n++
		}
	}
	return n
}

func countKans(ctx *YakuContext) int {
	n := 0
	for _, m := range ctx.Melds {
		if m.IsKan() {
			n++
		}
	}
	return n
}

func sameNumberAcrossSuits(p *HandPattern, kind GroupKind) bool {
	var masks [10]int
	for _, g := range p.Groups {
		if g.Kind == kind && g.Tile.IsNumbered() {
			masks[g.Tile.Number()] |= 1 << g.Tile.Suit()
		}
	}
	for _, m := range masks {
		if m == 7 {
			return true
		}
	}
	return false
}

func checkIttsu(ctx *YakuContext, p *HandPattern) bool {
	if p.Shape != ShapeStandard {
		return false
	}
	var masks [3]int
	for _, g := range p.Groups {
		if g.Kind != GroupRun {
			continue
		}
		switch g.Tile.Number() {
		case 1:
			masks[g.Tile.Suit()] |= 1
		case 4:
			masks[g.Tile.Suit()] |= 2
		case 7:
			masks[g.Tile.Suit()] |= 4
		}
	}
	return masks[0] == 7 || masks[1] == 7 || masks[2] == 7
}

// checkOutsideHand 全带幺：pure 为 true 时判纯全带（不允许字牌），否则判混全带（必须有字牌）
func checkOutsideHand(p *HandPattern, pure bool) bool {
	if p.Shape != ShapeStandard {
		return false
	}
	honors := p.Head.IsHonor()
	runs := 0
	if pure && !p.Head.IsTerminal() {
		return false
	}
	if !pure && !p.Head.IsYaochu() {
		return false
	}
	for _, g := range p.Groups {
		if g.Kind == GroupRun {
			runs++
		}
		if g.Kind == GroupTriplet && g.Tile.IsHonor() {
			honors = true
		}
		if pure && !g.HasTerminal() {
			return false
		}
		if !pure && !g.HasYaochu() {
			return false
		}
	}
	if runs == 0 {
		return false
	}
	return pure || honors
}

func allKinds(ctx *YakuContext, pred func(TileType) bool) bool {
	full := ctx.fullHand()
	for i, n := range full {
		if n > 0 && !pred(TileType(i)) {
			return false
		}
	}
	return true
}

// suitProfile 出现的数牌花色数，以及是否有字牌
func suitProfile(ctx *YakuContext) (int, bool) {
	full := ctx.fullHand()
	var suits [3]bool
	honors := false
	for i, n := range full {
		if n == 0 {
			continue
		}
		t := TileType(i)
		if t.IsHonor() {
			honors = true
		} else {
			suits[t.Suit()] = true
		}
	}
	count := 0
	for _, s := range suits {
		if s {
			count++
		}
	}
	return count, honors
}

func isGreen(t TileType) bool {
	switch t {
	case So2, So3, So4, So6, So8, Green:
		return true
	}
	return false
}

// checkChuuren 九莲宝灯，junsei 为纯正（和了前为 1112345678999 九面听）
func checkChuuren(ctx *YakuContext, p *HandPattern) (ok bool, junsei bool) {
	if p.Shape != ShapeStandard || len(ctx.Melds) > 0 {
		return false, false
	}
	suits, honors := suitProfile(ctx)
	if suits != 1 || honors {
		return false, false
	}
	base := TileType(ctx.WinTile.Type.Suit() * 9)
	need := [9]uint8{3, 1, 1, 1, 1, 1, 1, 1, 3}
	for i := 0; i < 9; i++ {
		if ctx.Hand[base+TileType(i)] < need[i] {
			return false, false
		}
	}
	before := ctx.Hand
	before[ctx.WinTile.Type]--
	for i := 0; i < 9; i++ {
		if before[base+TileType(i)] != need[i] {
			return true, false
		}
	}
	return true, true
}
