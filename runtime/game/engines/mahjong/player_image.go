package mahjong

// Discard 牌河中的一张牌
type Discard struct {
	Tile      Tile `json:"tile" bson:"tile"`
	Riichi    bool `json:"riichi,omitempty" bson:"riichi,omitempty"`       // 立直宣言牌（横置）
	Called    bool `json:"called,omitempty" bson:"called,omitempty"`       // 被吃碰杠拿走
	Tsumogiri bool `json:"tsumogiri,omitempty" bson:"tsumogiri,omitempty"` // 摸切
}

// PlayerImage 一个座位的局内状态
// Hand 为手牌（不含刚摸到的牌），Drawn 在 HasDrawn 为 true 时有效
type PlayerImage struct {
	Seat          int       `json:"seat" bson:"seat"`
	Points        int       `json:"points" bson:"points"`
	Hand          []Tile    `json:"hand" bson:"hand"`
	Drawn         Tile      `json:"drawn" bson:"drawn"`
	HasDrawn      bool      `json:"hasDrawn" bson:"hasDrawn"`
	Melds         []Meld    `json:"melds" bson:"melds"`
	Discards      []Discard `json:"discards" bson:"discards"`
	Riichi        bool      `json:"riichi" bson:"riichi"`
	DoubleRiichi  bool      `json:"doubleRiichi" bson:"doubleRiichi"`
	Ippatsu       bool      `json:"ippatsu" bson:"ippatsu"`
	TempFuriten   bool      `json:"tempFuriten" bson:"tempFuriten"`     // 同巡振听，自己下次出牌时解除
	RiichiFuriten bool      `json:"riichiFuriten" bson:"riichiFuriten"` // 立直后见逃，本局不解除
	Rinshan       bool      `json:"rinshan" bson:"rinshan"`             // Drawn 是岭上牌
}

func NewPlayerImage(seat int, points int) PlayerImage {
	return PlayerImage{
		Seat:     seat,
		Points:   points,
		Hand:     make([]Tile, 0, HandSize+1),
		Melds:    make([]Meld, 0, 4),
		Discards: make([]Discard, 0, 24),
	}
}

// resetForRound 开局时清空局内状态，保留点数
func (p *PlayerImage) resetForRound(hand []Tile) {
	*p = PlayerImage{
		Seat:     p.Seat,
		Points:   p.Points,
		Hand:     append(make([]Tile, 0, HandSize+1), hand...),
		Melds:    make([]Meld, 0, 4),
		Discards: make([]Discard, 0, 24),
	}
}

func (p PlayerImage) clone() PlayerImage {
	p.Hand = append([]Tile(nil), p.Hand...)
	p.Discards = append([]Discard(nil), p.Discards...)
	melds := make([]Meld, len(p.Melds))
	for i, m := range p.Melds {
		m.Tiles = append([]Tile(nil), m.Tiles...)
		melds[i] = m
	}
	p.Melds = melds
	return p
}

// Menzen 门清（暗杠不破坏门清）
func (p *PlayerImage) Menzen() bool {
	for _, m := range p.Melds {
		if m.IsOpen() {
			return false
		}
	}
	return true
}

// ConcealedTiles 手牌加摸到的牌
func (p *PlayerImage) ConcealedTiles() []Tile {
	out := make([]Tile, 0, len(p.Hand)+1)
	out = append(out, p.Hand...)
	if p.HasDrawn {
		out = append(out, p.Drawn)
	}
	return out
}

// TileCount 按面子数折算的手牌张数，暗刻杠子按 3 张计
func (p *PlayerImage) TileCount() int {
	n := len(p.Hand) + 3*len(p.Melds)
	if p.HasDrawn {
		n++
	}
	return n
}

func (p *PlayerImage) countKind(t TileType) int {
	n := 0
	for _, h := range p.Hand {
		if h.Type == t {
			n++
		}
	}
	if p.HasDrawn && p.Drawn.Type == t {
		n++
	}
	return n
}

func (p *PlayerImage) kanCount() int {
	n := 0
	for _, m := range p.Melds {
		if m.IsKan() {
			n++
		}
	}
	return n
}

// hasDiscardedKind 牌河中（含被鸣走的）是否出现过该牌种
func (p *PlayerImage) hasDiscardedKind(t TileType) bool {
	for _, d := range p.Discards {
		if d.Tile.Type == t {
			return true
		}
	}
	return false
}

// takeTile 从手牌或摸到的牌中取出一张
func (p *PlayerImage) takeTile(tile Tile) bool {
	if p.HasDrawn && p.Drawn.ID == tile.ID {
		p.HasDrawn = false
		p.Drawn = Tile{}
		return true
	}
	for i := range p.Hand {
		if p.Hand[i].ID == tile.ID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// takeKind 取出 n 张指定牌种，优先取赤牌
func (p *PlayerImage) takeKind(t TileType, n int, preferRed bool) []Tile {
	var picked []Tile
	pick := func(red bool) {
		for _, tile := range p.ConcealedTiles() {
			if len(picked) == n {
				return
			}
			if tile.Type == t && tile.Red == red {
				picked = append(picked, tile)
			}
		}
	}
	if preferRed {
		pick(true)
		pick(false)
	} else {
		pick(false)
		pick(true)
	}
	if len(picked) != n {
		return nil
	}
	for _, tile := range picked {
		p.takeTile(tile)
	}
	return picked
}

// holdsTile 手牌或摸到的牌中是否有这张物理牌
func (p *PlayerImage) holdsTile(tile Tile) bool {
	if p.HasDrawn && p.Drawn.ID == tile.ID {
		return true
	}
	for _, h := range p.Hand {
		if h.ID == tile.ID {
			return true
		}
	}
	return false
}

// mergeDrawn 摸到的牌并入手牌
func (p *PlayerImage) mergeDrawn() {
	if p.HasDrawn {
		p.Hand = append(p.Hand, p.Drawn)
		p.HasDrawn = false
		p.Drawn = Tile{}
	}
	SortTiles(p.Hand)
	p.Rinshan = false
}

// giveDrawn 摸牌
func (p *PlayerImage) giveDrawn(tile Tile, rinshan bool) {
	p.Drawn = tile
	p.HasDrawn = true
	p.Rinshan = rinshan
}

func (p *PlayerImage) markLastDiscardCalled() {
	if n := len(p.Discards); n > 0 {
		p.Discards[n-1].Called = true
	}
}
