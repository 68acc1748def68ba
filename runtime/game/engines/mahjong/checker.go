package mahjong

// searcher 状态转移共用的向听/听牌计算器，缓存只做记忆化
func searcher() *Searcher {
	return DefaultSearcher()
}

// waitsOf 13 张（扣除副露）手牌的听牌，出牌阶段的当前玩家不适用
func (s *GameState) waitsOf(seat int) []TileType {
	p := &s.Players[seat]
	return searcher().Waits(Hand34FromTiles(p.Hand), len(p.Melds))
}

// isFuriten 振听：同巡/立直后见逃，或听的牌出现在自己牌河中
func (s *GameState) isFuriten(seat int) bool {
	p := &s.Players[seat]
	if p.TempFuriten || p.RiichiFuriten {
		return true
	}
	for _, w := range s.waitsOf(seat) {
		if p.hasDiscardedKind(w) {
			return true
		}
	}
	return false
}

// yakuContext 构造役判定上下文，hand 为含和了牌的手牌
func (s *GameState) yakuContext(seat int, win Tile, hand []Tile, tsumo bool) YakuContext {
	p := &s.Players[seat]
	ctx := YakuContext{
		WinTile:       win,
		Hand:          Hand34FromTiles(hand),
		Melds:         p.Melds,
		Tsumo:         tsumo,
		SeatWind:      s.SeatWind(seat),
		RoundWind:     s.Round.Wind(),
		Riichi:        p.Riichi,
		DoubleRiichi:  p.DoubleRiichi,
		Ippatsu:       p.Ippatsu,
		OpenTanyao:    s.Rules.OpenTanyao,
		DoubleYakuman: s.Rules.DoubleYakuman,
	}
	if tsumo {
		ctx.Rinshan = p.Rinshan
		ctx.Haitei = s.Wall.Remaining() == 0 && !p.Rinshan
		if s.Round.FirstGoAround && len(p.Discards) == 0 && !p.Rinshan {
			ctx.Tenhou = seat == s.Round.Dealer()
			ctx.Chiihou = seat != s.Round.Dealer()
		}
	}
	return ctx
}

func (s *GameState) scoreInput(seat int, ctx YakuContext, hand []Tile) ScoreInput {
	p := &s.Players[seat]
	tiles := append([]Tile(nil), hand...)
	for _, m := range p.Melds {
		tiles = append(tiles, m.Tiles...)
	}
	return ScoreInput{
		Ctx:            ctx,
		Dealer:         seat == s.Round.Dealer(),
		DoraIndicators: s.DoraIndicators,
		UraIndicators:  s.UraIndicators,
		Tiles:          tiles,
		Honba:          s.Round.Honba,
	}
}

// canRon 能否荣和（或抢杠）这张牌：成和、有役、不振听
func (s *GameState) canRon(seat int, tile Tile, chankan bool) (*WinScore, bool) {
	p := &s.Players[seat]
	if p.HasDrawn {
		return nil, false
	}
	hand := append(append(make([]Tile, 0, len(p.Hand)+1), p.Hand...), tile)
	if !searcher().IsAgariAll(Hand34FromTiles(hand), len(p.Melds)) {
		return nil, false
	}
	if s.isFuriten(seat) {
		return nil, false
	}
	ctx := s.yakuContext(seat, tile, hand, false)
	ctx.Chankan = chankan
	ctx.Houtei = !chankan && s.Wall.Remaining() == 0
	return ScoreHand(s.scoreInput(seat, ctx, hand))
}

// canTsumo 摸到的牌能否自摸和
func (s *GameState) canTsumo(seat int) (*WinScore, bool) {
	p := &s.Players[seat]
	if !p.HasDrawn {
		return nil, false
	}
	hand := p.ConcealedTiles()
	if !searcher().IsAgariAll(Hand34FromTiles(hand), len(p.Melds)) {
		return nil, false
	}
	ctx := s.yakuContext(seat, p.Drawn, hand, true)
	return ScoreHand(s.scoreInput(seat, ctx, hand))
}

// isTenpai 流局时是否听牌
func (s *GameState) isTenpai(seat int) bool {
	p := &s.Players[seat]
	return searcher().ShantenAll(Hand34FromTiles(p.Hand), len(p.Melds)) == 0
}

// riichiTiles 立直宣言可打出的牌：打出后向听为 0
func (s *GameState) riichiTiles(seat int) []Tile {
	p := &s.Players[seat]
	if !p.HasDrawn || p.Riichi || !p.Menzen() || p.Points < 1000 || s.Wall.Remaining() < 4 {
		return nil
	}
	full := p.ConcealedTiles()
	h14 := Hand34FromTiles(full)
	var out []Tile
	for _, t := range full {
		h13 := h14
		h13[t.Type]--
		if searcher().ShantenAll(h13, len(p.Melds)) == 0 {
			out = append(out, t)
		}
	}
	SortTiles(out)
	return out
}

// canKanNow 开杠的公共条件：还有岭上牌可摸，场上不足四杠
func (s *GameState) canKanNow() bool {
	return s.Wall.Remaining() >= 1 && s.kanCount() < MaxKans
}

// closedKanKinds 可暗杠的牌种；立直中只能杠摸到的牌且不改变听牌
func (s *GameState) closedKanKinds(seat int) []TileType {
	p := &s.Players[seat]
	if !p.HasDrawn || !s.canKanNow() {
		return nil
	}
	var out []TileType
	h := Hand34FromTiles(p.ConcealedTiles())
	for k := 0; k < KindLimit; k++ {
		if h[k] != 4 {
			continue
		}
		kind := TileType(k)
		if p.Riichi && !riichiKanKeepsWaits(p, kind) {
			continue
		}
		out = append(out, kind)
	}
	return out
}

// riichiKanKeepsWaits 立直后暗杠：必须是摸到的牌，且杠前杠后听牌完全相同
func riichiKanKeepsWaits(p *PlayerImage, kind TileType) bool {
	if p.Drawn.Type != kind {
		return false
	}
	before := Hand34FromTiles(p.Hand)
	after := before
	after[kind] -= 3
	w1 := searcher().Waits(before, len(p.Melds))
	w2 := searcher().Waits(after, len(p.Melds)+1)
	if len(w1) == 0 || len(w1) != len(w2) {
		return false
	}
	for i := range w1 {
		if w1[i] != w2[i] {
			return false
		}
	}
	return true
}

// addedKanKinds 可加杠的牌种
func (s *GameState) addedKanKinds(seat int) []TileType {
	p := &s.Players[seat]
	if !p.HasDrawn || p.Riichi || !s.canKanNow() {
		return nil
	}
	var out []TileType
	for _, m := range p.Melds {
		if m.Type == MeldPon && p.countKind(m.Kind()) > 0 {
			out = append(out, m.Kind())
		}
	}
	return out
}

// canNineTerminals 九种九牌：第一巡未被打断，自己还没出过牌，九种以上幺九牌
func (s *GameState) canNineTerminals(seat int) bool {
	p := &s.Players[seat]
	if !p.HasDrawn || !s.Round.FirstGoAround || len(p.Discards) > 0 || len(p.Melds) > 0 {
		return false
	}
	h := Hand34FromTiles(p.ConcealedTiles())
	kinds := 0
	for _, idx := range kokushiTiles {
		if h[idx] > 0 {
			kinds++
		}
	}
	return kinds >= 9
}

// discardTiles 可打出的牌，立直后只能摸切
func (s *GameState) discardTiles(seat int) []Tile {
	p := &s.Players[seat]
	if p.Riichi {
		if p.HasDrawn {
			return []Tile{p.Drawn}
		}
		return nil
	}
	out := p.ConcealedTiles()
	SortTiles(out)
	return out
}
