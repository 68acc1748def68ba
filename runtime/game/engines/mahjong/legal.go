package mahjong

// LegalActions 某个座位当前可以发出的命令
// UI 或 AI 只应依据这里给出的选项发命令
type LegalActions struct {
	Seat          int        `json:"seat"`
	BeginRound    bool       `json:"beginRound,omitempty"`
	Draw          bool       `json:"draw,omitempty"`
	Discard       []Tile     `json:"discard,omitempty"`
	Riichi        []Tile     `json:"riichi,omitempty"`
	Tsumo         bool       `json:"tsumo,omitempty"`
	Ron           bool       `json:"ron,omitempty"`
	Pon           bool       `json:"pon,omitempty"`
	Chi           [][2]Tile  `json:"chi,omitempty"`
	OpenKan       bool       `json:"openKan,omitempty"`
	ClosedKan     []TileType `json:"closedKan,omitempty"`
	AddedKan      []TileType `json:"addedKan,omitempty"`
	Decline       bool       `json:"decline,omitempty"`
	NineTerminals bool       `json:"nineTerminals,omitempty"`
	AdvanceRound  bool       `json:"advanceRound,omitempty"`
}

// Empty 没有任何可做的操作
func (la LegalActions) Empty() bool {
	return !la.BeginRound && !la.Draw && len(la.Discard) == 0 && len(la.Riichi) == 0 && !la.Tsumo &&
		!la.Ron && !la.Pon && len(la.Chi) == 0 && !la.OpenKan && len(la.ClosedKan) == 0 &&
		len(la.AddedKan) == 0 && !la.Decline && !la.NineTerminals && !la.AdvanceRound
}

// LegalActions 计算座位的合法操作，不修改状态
func (s *GameState) LegalActions(seat int) LegalActions {
	la := LegalActions{Seat: seat}
	if seat < 0 || seat > 3 {
		return la
	}
	switch s.Phase {
	case PhaseWaiting, PhaseDealing:
		la.BeginRound = true
	case PhaseTsumo:
		la.Draw = seat == s.Actor
	case PhaseDiscard:
		if seat != s.Actor {
			return la
		}
		la.Discard = s.discardTiles(seat)
		la.Riichi = s.riichiTiles(seat)
		_, la.Tsumo = s.canTsumo(seat)
		la.ClosedKan = s.closedKanKinds(seat)
		la.AddedKan = s.addedKanKinds(seat)
		la.NineTerminals = s.canNineTerminals(seat)
	case PhaseCalling:
		if s.Responses[seat].Kind != RespNone {
			return la
		}
		o := s.Pending[seat]
		if !o.Any() {
			return la
		}
		la.Ron = o.Ron
		la.Pon = o.Pon
		la.OpenKan = o.OpenKan
		la.Chi = append([][2]Tile(nil), o.Chi...)
		la.Decline = true
	case PhaseRoundResult:
		la.AdvanceRound = true
	}
	return la
}

// LegalActionsOf 与 Transition 对称的包级入口
func LegalActionsOf(s *GameState, seat int) LegalActions {
	return s.LegalActions(seat)
}

// Allows 命令是否在合法操作集合中
func (la LegalActions) Allows(cmd Command) bool {
	switch cmd.Kind {
	case CmdBeginRound:
		return la.BeginRound
	case CmdDraw:
		return la.Draw
	case CmdDiscard:
		return containsTile(la.Discard, cmd.Tile)
	case CmdDeclareRiichi:
		return containsTile(la.Riichi, cmd.Tile)
	case CmdDeclareWinByDraw:
		return la.Tsumo
	case CmdDeclareWinByDiscard:
		return la.Ron
	case CmdCallPon:
		return la.Pon
	case CmdCallOpenKan:
		return la.OpenKan
	case CmdCallChi:
		for _, pair := range la.Chi {
			if samePair(pair, cmd.Pair) {
				return true
			}
		}
		return false
	case CmdCallClosedKan:
		return containsKind(la.ClosedKan, cmd.Kind34)
	case CmdCallAddedKan:
		return containsKind(la.AddedKan, cmd.Kind34)
	case CmdDeclineCall:
		return la.Decline
	case CmdDeclareNineTerminalsDraw:
		return la.NineTerminals
	case CmdAdvanceToNextRound:
		return la.AdvanceRound
	}
	return false
}

// containsTile 按物理编号比较
func containsTile(tiles []Tile, t Tile) bool {
	for _, x := range tiles {
		if x.ID == t.ID && x.Type == t.Type {
			return true
		}
	}
	return false
}

func containsKind(kinds []TileType, k TileType) bool {
	for _, x := range kinds {
		if x == k {
			return true
		}
	}
	return false
}

// samePair 吃牌组合按 (牌种, 赤) 比较，两张的顺序无关
func samePair(a, b [2]Tile) bool {
	eq := func(x, y Tile) bool { return x.Type == y.Type && x.Red == y.Red }
	return (eq(a[0], b[0]) && eq(a[1], b[1])) || (eq(a[0], b[1]) && eq(a[1], b[0]))
}
