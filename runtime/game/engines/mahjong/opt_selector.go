package mahjong

// CallOptions 一个座位对最近舍牌（或加杠牌）可做的响应
type CallOptions struct {
	Ron     bool      `json:"ron,omitempty" bson:"ron,omitempty"`
	Pon     bool      `json:"pon,omitempty" bson:"pon,omitempty"`
	OpenKan bool      `json:"openKan,omitempty" bson:"openKan,omitempty"`
	Chi     [][2]Tile `json:"chi,omitempty" bson:"chi,omitempty"`
}

func (o CallOptions) Any() bool {
	return o.Ron || o.Pon || o.OpenKan || len(o.Chi) > 0
}

func (o CallOptions) clone() CallOptions {
	o.Chi = append([][2]Tile(nil), o.Chi...)
	return o
}

type ResponseKind int

const (
	RespNone    ResponseKind = iota // 尚未响应
	RespDecline                     // 跳过
	RespChi
	RespPon
	RespOpenKan
	RespRon
)

// priority 荣和 > 杠/碰 > 吃
func (k ResponseKind) priority() int {
	switch k {
	case RespRon:
		return 3
	case RespPon, RespOpenKan:
		return 2
	case RespChi:
		return 1
	default:
		return 0
	}
}

// Response 一个座位的响应
type Response struct {
	Kind ResponseKind `json:"kind" bson:"kind"`
	Pair [2]Tile      `json:"pair,omitempty" bson:"pair,omitempty"` // 吃牌时使用的两张手牌
}

// collectCallOptions 收集其他三家对舍牌的可选操作，返回可荣和的人数
// 立直者只能荣和；河底牌不能吃碰杠；吃只能是下家
func (s *GameState) collectCallOptions(discarder int, tile Tile) ([4]CallOptions, int) {
	var opts [4]CallOptions
	rons := 0
	last := s.Wall.Remaining() == 0
	for i := 1; i < 4; i++ {
		seat := (discarder + i) % 4
		p := &s.Players[seat]
		o := &opts[seat]
		if _, ok := s.canRon(seat, tile, false); ok {
			o.Ron = true
			rons++
		}
		if p.Riichi || last {
			continue
		}
		n := p.countKind(tile.Type)
		o.Pon = n >= 2
		o.OpenKan = n >= 3 && s.canKanNow()
		if i == 1 {
			o.Chi = chiPairs(p.Hand, tile)
		}
	}
	return opts, rons
}

// collectChankanOptions 加杠牌只能被抢杠荣和，同时返回可荣和的家数
func (s *GameState) collectChankanOptions(kanSeat int, tile Tile) ([4]CallOptions, int) {
	var opts [4]CallOptions
	rons := 0
	for i := 1; i < 4; i++ {
		seat := (kanSeat + i) % 4
		if _, ok := s.canRon(seat, tile, true); ok {
			opts[seat].Ron = true
			rons++
		}
	}
	return opts, rons
}

// chiPairs 吃牌的全部手牌组合，按 (牌种, 是否赤牌) 去重
func chiPairs(hand []Tile, tile Tile) [][2]Tile {
	if !tile.Type.IsNumbered() {
		return nil
	}
	n := tile.Type.Number()
	var out [][2]Tile
	seen := make(map[[4]int]struct{})
	for _, offs := range [3][2]int{{-2, -1}, {-1, 1}, {1, 2}} {
		lo, hi := n+offs[0], n+offs[1]
		if lo < 1 || hi > 9 {
			continue
		}
		kLo := tile.Type + TileType(offs[0])
		kHi := tile.Type + TileType(offs[1])
		for _, a := range hand {
			if a.Type != kLo {
				continue
			}
			for _, b := range hand {
				if b.Type != kHi {
					continue
				}
				key := [4]int{int(a.Type), boolInt(a.Red), int(b.Type), boolInt(b.Red)}
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				out = append(out, [2]Tile{a, b})
			}
		}
	}
	return out
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// awaitingResponse 是否还有座位可能改变结果
// 有荣和选项且未响应的座位总是要等；碰杠/吃只在已提交的最高响应比它低时才要等
func (s *GameState) awaitingResponse() bool {
	best := 0
	for i := range s.Responses {
		if p := s.Responses[i].Kind.priority(); p > best {
			best = p
		}
	}
	for seat := range s.Pending {
		o := &s.Pending[seat]
		if !o.Any() || s.Responses[seat].Kind != RespNone {
			continue
		}
		if o.Ron {
			return true
		}
		if (o.Pon || o.OpenKan) && best < RespPon.priority() {
			return true
		}
		if len(o.Chi) > 0 && best < RespChi.priority() {
			return true
		}
	}
	return false
}

// ronClaimants 已宣告荣和的座位，按舍牌者之后的顺序
func (s *GameState) ronClaimants() []int {
	var out []int
	for i := 1; i < 4; i++ {
		seat := (s.LastDiscard.Seat + i) % 4
		if s.Responses[seat].Kind == RespRon {
			out = append(out, seat)
		}
	}
	return out
}

// winningCall 优先级最高的鸣牌响应
func (s *GameState) winningCall() (int, Response, bool) {
	bestSeat, bestPri := -1, 0
	for i := 1; i < 4; i++ {
		seat := (s.LastDiscard.Seat + i) % 4
		if p := s.Responses[seat].Kind.priority(); p > bestPri && s.Responses[seat].Kind != RespRon {
			bestSeat, bestPri = seat, p
		}
	}
	if bestSeat < 0 {
		return 0, Response{}, false
	}
	return bestSeat, s.Responses[bestSeat], true
}
