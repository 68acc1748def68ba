package mahjong

type Phase int

const (
	PhaseWaiting     Phase = iota // 等待开始
	PhaseDealing                  // 等待下一局配牌
	PhaseTsumo                    // 等待摸牌
	PhaseDiscard                  // 等待出牌或宣言
	PhaseCalling                  // 其他家对舍牌（或加杠牌）响应
	PhaseRoundResult              // 本局已结算
	PhaseGameResult               // 对局结束
)

var phaseNames = [...]string{"waiting", "dealing", "tsumo", "discard", "calling", "round_result", "game_result"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// RoundState 场况
// HandNo 从 0 开始：东1局=0 ... 南4局=7，庄家座位 = HandNo%4
type RoundState struct {
	HandNo        int  `json:"handNo" bson:"handNo"`
	Honba         int  `json:"honba" bson:"honba"`
	Pot           int  `json:"pot" bson:"pot"`   // 供托立直棒数
	Turn          int  `json:"turn" bson:"turn"` // 本局出牌次数
	FirstGoAround bool `json:"firstGoAround" bson:"firstGoAround"`
	DealNo        int  `json:"dealNo" bson:"dealNo"` // 本场对局的第几次配牌，参与洗牌种子
}

func (r RoundState) Dealer() int {
	return r.HandNo % 4
}

func (r RoundState) Wind() Wind {
	return Wind(r.HandNo / 4 % 4)
}

// Kyoku 局数，1-4
func (r RoundState) Kyoku() int {
	return r.HandNo%4 + 1
}

// LastDiscard 最近一张舍牌（或加杠牌）
type LastDiscard struct {
	Seat  int  `json:"seat" bson:"seat"`
	Tile  Tile `json:"tile" bson:"tile"`
	Valid bool `json:"valid" bson:"valid"`
}

// PendingKan 等待抢杠响应的加杠
type PendingKan struct {
	Seat int      `json:"seat" bson:"seat"`
	Kind TileType `json:"kind" bson:"kind"`
	Tile Tile     `json:"tile" bson:"tile"`
}

// GameState 牌桌的完整状态，每次状态转移都产生一个新值，旧值不再被修改
type GameState struct {
	Rules          RuleSet        `json:"rules" bson:"rules"`
	Seed           int64          `json:"seed" bson:"seed"`
	Phase          Phase          `json:"phase" bson:"phase"`
	Actor          int            `json:"actor" bson:"actor"`
	Round          RoundState     `json:"round" bson:"round"`
	Players        [4]PlayerImage `json:"players" bson:"players"`
	Wall           Wall           `json:"wall" bson:"wall"`
	DoraIndicators []Tile         `json:"doraIndicators" bson:"doraIndicators"`
	UraIndicators  []Tile         `json:"uraIndicators" bson:"uraIndicators"`
	Pending        [4]CallOptions `json:"pending" bson:"pending"`
	Responses      [4]Response    `json:"responses" bson:"responses"`
	LastDiscard    LastDiscard    `json:"lastDiscard" bson:"lastDiscard"`
	PendingKan     *PendingKan    `json:"pendingKan,omitempty" bson:"pendingKan,omitempty"`
	Result         *RoundResult   `json:"result,omitempty" bson:"result,omitempty"`
	GameResult     *GameResult    `json:"gameResult,omitempty" bson:"gameResult,omitempty"`
}

// NewGame 开一桌新对局，尚未配牌
func NewGame(rules RuleSet, seed int64) *GameState {
	if rules.InitialPoints <= 0 {
		rules.InitialPoints = DefaultInitialPoint
	}
	s := &GameState{
		Rules: rules,
		Seed:  seed,
		Phase: PhaseWaiting,
	}
	for i := range s.Players {
		s.Players[i] = NewPlayerImage(i, rules.InitialPoints)
	}
	return s
}

// Clone 深拷贝
func (s *GameState) Clone() *GameState {
	c := *s
	for i := range c.Players {
		c.Players[i] = s.Players[i].clone()
	}
	c.Wall = s.Wall.clone()
	c.DoraIndicators = append([]Tile(nil), s.DoraIndicators...)
	c.UraIndicators = append([]Tile(nil), s.UraIndicators...)
	for i := range c.Pending {
		c.Pending[i] = s.Pending[i].clone()
	}
	if s.PendingKan != nil {
		pk := *s.PendingKan
		c.PendingKan = &pk
	}
	if s.Result != nil {
		c.Result = s.Result.clone()
	}
	if s.GameResult != nil {
		gr := *s.GameResult
		c.GameResult = &gr
	}
	return &c
}

// SeatWind 座位的自风
func (s *GameState) SeatWind(seat int) Wind {
	return Wind((seat - s.Round.Dealer() + 4) % 4)
}

// TotalPoints 四家点数加供托，用于点数守恒检查
func (s *GameState) TotalPoints() int {
	total := s.Round.Pot * 1000
	for i := range s.Players {
		total += s.Players[i].Points
	}
	return total
}

func (s *GameState) kanCount() int {
	n := 0
	for i := range s.Players {
		n += s.Players[i].kanCount()
	}
	return n
}

// kanSeats 开过杠的座位数
func (s *GameState) kanSeats() int {
	n := 0
	for i := range s.Players {
		if s.Players[i].kanCount() > 0 {
			n++
		}
	}
	return n
}

func (s *GameState) riichiCount() int {
	n := 0
	for i := range s.Players {
		if s.Players[i].Riichi {
			n++
		}
	}
	return n
}

// clearIppatsu 任何鸣牌（含暗杠）都会消除所有人的一发
func (s *GameState) clearIppatsu() {
	for i := range s.Players {
		s.Players[i].Ippatsu = false
	}
}

// clearCalls 清空响应阶段的数据
func (s *GameState) clearCalls() {
	s.Pending = [4]CallOptions{}
	s.Responses = [4]Response{}
	s.PendingKan = nil
}

// revealDora 开杠翻新宝牌指示牌
func (s *GameState) revealDora() {
	dora, ura, ok := s.Wall.RevealDora()
	if !ok {
		return
	}
	s.DoraIndicators = append(s.DoraIndicators, dora)
	s.UraIndicators = append(s.UraIndicators, ura)
}
