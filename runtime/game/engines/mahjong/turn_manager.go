package mahjong

import "fmt"

/*
	状态机：
		waiting/dealing --begin_round--> tsumo --draw--> discard
		discard --discard/riichi--> calling（有人可响应） 或 tsumo（下家）
		discard --closed_kan/added_kan--> 摸岭上牌后仍是 discard（加杠先经过抢杠的 calling）
		calling --ron/pon/chi/kan/decline--> 全部需要等待的座位响应后结算
		任一和了/流局 --> round_result --advance--> dealing 或 game_result
	每次转移都作用在状态的副本上，旧状态不会被修改
*/

// Transition 尝试执行一条命令
// 非法命令返回原状态与 false；转移后内部一致性被破坏时返回 ErrInvariantViolation
func Transition(s *GameState, cmd Command) (*GameState, bool, error) {
	if s == nil {
		return nil, false, fmt.Errorf("%w: 状态为空", ErrInvariantViolation)
	}
	la := s.LegalActions(cmd.Seat)
	if !la.Allows(cmd) {
		return s, false, nil
	}
	next := s.Clone()
	next.apply(cmd)
	if err := next.checkInvariants(); err != nil {
		return s, false, fmt.Errorf("执行 %s 后: %w", cmd, err)
	}
	return next, true, nil
}

func (s *GameState) apply(cmd Command) {
	switch cmd.Kind {
	case CmdBeginRound:
		s.beginRound()
	case CmdDraw:
		s.draw(cmd.Seat)
	case CmdDiscard:
		s.discard(cmd.Seat, cmd.Tile, false)
	case CmdDeclareRiichi:
		s.discard(cmd.Seat, cmd.Tile, true)
	case CmdDeclareWinByDraw:
		s.LeadTsumoEnding(cmd.Seat)
	case CmdDeclareWinByDiscard:
		s.respond(cmd.Seat, Response{Kind: RespRon})
	case CmdCallPon:
		s.respond(cmd.Seat, Response{Kind: RespPon})
	case CmdCallChi:
		s.respond(cmd.Seat, Response{Kind: RespChi, Pair: cmd.Pair})
	case CmdCallOpenKan:
		s.respond(cmd.Seat, Response{Kind: RespOpenKan})
	case CmdDeclineCall:
		s.respond(cmd.Seat, Response{Kind: RespDecline})
	case CmdCallClosedKan:
		s.closedKan(cmd.Seat, cmd.Kind34)
	case CmdCallAddedKan:
		s.addedKan(cmd.Seat, cmd.Kind34)
	case CmdDeclareNineTerminalsDraw:
		s.Actor = cmd.Seat
		s.LeadAbortiveDrawEnding(EndNineTerminals)
	case CmdAdvanceToNextRound:
		s.advanceRound()
	}
}

// beginRound 洗牌、配牌、翻开第一张宝牌指示牌，庄家先摸
func (s *GameState) beginRound() {
	s.Wall.Reshuffle(s.Seed, s.Round.DealNo, s.Rules.RedFives)
	s.Round.DealNo++
	dealer := s.Round.Dealer()
	hands := s.Wall.Deal(dealer)
	for i := range s.Players {
		s.Players[i].resetForRound(hands[i])
	}
	s.DoraIndicators = nil
	s.UraIndicators = nil
	s.revealDora()

	s.Round.Turn = 0
	s.Round.FirstGoAround = true
	s.clearCalls()
	s.LastDiscard = LastDiscard{}
	s.Result = nil
	s.Phase = PhaseTsumo
	s.Actor = dealer
}

// draw 摸牌；牌山摸完时荒牌流局
func (s *GameState) draw(seat int) {
	if s.Wall.Remaining() == 0 {
		s.LeadNormalDrawEnding()
		return
	}
	p := &s.Players[seat]
	if s.Round.FirstGoAround && len(p.Discards) > 0 {
		s.Round.FirstGoAround = false
	}
	t, _ := s.Wall.Draw()
	p.giveDrawn(t, false)
	s.Phase = PhaseDiscard
	s.Actor = seat
}

// discard 出牌（riichi 为立直宣言牌），然后收集其他家的响应
func (s *GameState) discard(seat int, tile Tile, riichi bool) {
	p := &s.Players[seat]
	tsumogiri := p.HasDrawn && p.Drawn.ID == tile.ID
	p.takeTile(tile)
	p.mergeDrawn()

	if riichi {
		p.DoubleRiichi = s.Round.FirstGoAround && len(p.Discards) == 0
		p.Riichi = true
		p.Ippatsu = true
		p.Points -= 1000
		s.Round.Pot++
	} else {
		p.Ippatsu = false
	}
	p.TempFuriten = false
	p.Discards = append(p.Discards, Discard{Tile: tile, Riichi: riichi, Tsumogiri: tsumogiri})
	s.Round.Turn++
	s.LastDiscard = LastDiscard{Seat: seat, Tile: tile, Valid: true}

	opts, rons := s.collectCallOptions(seat, tile)
	if rons >= 3 {
		s.LeadAbortiveDrawEnding(EndTripleRon)
		return
	}
	s.Pending = opts
	s.Responses = [4]Response{}
	for i := range opts {
		if opts[i].Any() {
			s.Phase = PhaseCalling
			s.Actor = seat
			return
		}
	}
	s.passDiscard()
}

// respond 记录一个座位的响应，所有需要等待的座位都响应后结算
func (s *GameState) respond(seat int, resp Response) {
	s.Responses[seat] = resp
	if s.awaitingResponse() {
		return
	}
	s.resolveCalls()
}

func (s *GameState) resolveCalls() {
	chankan := s.PendingKan != nil
	if claimants := s.ronClaimants(); len(claimants) > 0 {
		s.LeadRonEnding(claimants, chankan)
		return
	}
	s.markPassedFuriten()
	if chankan {
		s.completeAddedKan()
		return
	}

	seat, resp, ok := s.winningCall()
	if !ok {
		s.passDiscard()
		return
	}
	if s.fourRiichi() {
		s.LeadAbortiveDrawEnding(EndFourRiichi)
		return
	}
	switch resp.Kind {
	case RespPon:
		s.callPon(seat)
	case RespChi:
		s.callChi(seat, resp.Pair)
	case RespOpenKan:
		s.callOpenKan(seat)
	}
}

// markPassedFuriten 听这张牌却没有荣和的座位进入同巡振听，立直中则本局振听
func (s *GameState) markPassedFuriten() {
	tile := s.LastDiscard.Tile
	for seat := range s.Players {
		if seat == s.LastDiscard.Seat {
			continue
		}
		for _, w := range s.waitsOf(seat) {
			if w != tile.Type {
				continue
			}
			p := &s.Players[seat]
			p.TempFuriten = true
			if p.Riichi {
				p.RiichiFuriten = true
			}
			break
		}
	}
}

// passDiscard 无人鸣牌，轮到下家摸牌
func (s *GameState) passDiscard() {
	s.markPassedFuriten()
	s.clearCalls()
	if s.fourRiichi() {
		s.LeadAbortiveDrawEnding(EndFourRiichi)
		return
	}
	if s.fourWinds() {
		s.LeadAbortiveDrawEnding(EndFourWinds)
		return
	}
	s.Phase = PhaseTsumo
	s.Actor = (s.LastDiscard.Seat + 1) % 4
}

// fourRiichi 第四家立直的宣言牌通过
func (s *GameState) fourRiichi() bool {
	d := &s.Players[s.LastDiscard.Seat]
	n := len(d.Discards)
	return n > 0 && d.Discards[n-1].Riichi && s.riichiCount() == 4
}

// fourWinds 第一巡四家打出同一种风牌
func (s *GameState) fourWinds() bool {
	if !s.Round.FirstGoAround || s.Round.Turn != 4 {
		return false
	}
	kind := TileType(-1)
	for i := range s.Players {
		p := &s.Players[i]
		if len(p.Discards) != 1 || len(p.Melds) > 0 {
			return false
		}
		t := p.Discards[0].Tile.Type
		if !t.IsWind() || (kind >= 0 && t != kind) {
			return false
		}
		kind = t
	}
	return true
}

// afterCall 任何鸣牌都打断第一巡与一发
func (s *GameState) afterCall() {
	s.clearIppatsu()
	s.Round.FirstGoAround = false
	s.clearCalls()
}

func relativeFrom(caller, source int) int {
	return (source - caller + 4) % 4
}

func (s *GameState) callPon(seat int) {
	d, tile := s.LastDiscard.Seat, s.LastDiscard.Tile
	p := &s.Players[seat]
	taken := p.takeKind(tile.Type, 2, true)
	tiles := append(taken, tile)
	SortTiles(tiles)
	p.Melds = append(p.Melds, Meld{Type: MeldPon, Tiles: tiles, From: relativeFrom(seat, d), Called: tile})
	s.Players[d].markLastDiscardCalled()
	s.afterCall()
	s.Phase = PhaseDiscard
	s.Actor = seat
}

func (s *GameState) callChi(seat int, pair [2]Tile) {
	d, tile := s.LastDiscard.Seat, s.LastDiscard.Tile
	p := &s.Players[seat]
	tiles := []Tile{tile}
	for _, want := range pair {
		for _, h := range p.Hand {
			if h.Type == want.Type && h.Red == want.Red {
				p.takeTile(h)
				tiles = append(tiles, h)
				break
			}
		}
	}
	SortTiles(tiles)
	p.Melds = append(p.Melds, Meld{Type: MeldChi, Tiles: tiles, From: relativeFrom(seat, d), Called: tile})
	s.Players[d].markLastDiscardCalled()
	s.afterCall()
	s.Phase = PhaseDiscard
	s.Actor = seat
}

func (s *GameState) callOpenKan(seat int) {
	d, tile := s.LastDiscard.Seat, s.LastDiscard.Tile
	p := &s.Players[seat]
	taken := p.takeKind(tile.Type, 3, true)
	tiles := append(taken, tile)
	SortTiles(tiles)
	p.Melds = append(p.Melds, Meld{Type: MeldOpenKan, Tiles: tiles, From: relativeFrom(seat, d), Called: tile})
	s.Players[d].markLastDiscardCalled()
	s.afterCall()
	s.afterKan(seat)
}

func (s *GameState) closedKan(seat int, kind TileType) {
	p := &s.Players[seat]
	tiles := p.takeKind(kind, 4, true)
	SortTiles(tiles)
	p.Melds = append(p.Melds, Meld{Type: MeldClosedKan, Tiles: tiles, From: 0, Called: tiles[0]})
	s.afterCall()
	s.afterKan(seat)
}

// addedKan 加杠：其他家可以抢杠时先进入响应阶段
func (s *GameState) addedKan(seat int, kind TileType) {
	p := &s.Players[seat]
	var tile Tile
	for _, t := range p.ConcealedTiles() {
		if t.Type == kind {
			tile = t
			break
		}
	}
	s.PendingKan = &PendingKan{Seat: seat, Kind: kind, Tile: tile}
	s.LastDiscard = LastDiscard{Seat: seat, Tile: tile, Valid: true}
	opts, rons := s.collectChankanOptions(seat, tile)
	// 三家同时抢杠与舍牌一样按三家和了流局，杠不成立
	if rons >= 3 {
		s.Actor = seat
		s.LeadAbortiveDrawEnding(EndTripleRon)
		return
	}
	for i := range opts {
		if opts[i].Any() {
			s.Pending = opts
			s.Responses = [4]Response{}
			s.Phase = PhaseCalling
			s.Actor = seat
			return
		}
	}
	s.completeAddedKan()
}

func (s *GameState) completeAddedKan() {
	pk := *s.PendingKan
	p := &s.Players[pk.Seat]
	p.takeTile(pk.Tile)
	for i := range p.Melds {
		m := &p.Melds[i]
		if m.Type == MeldPon && m.Kind() == pk.Kind {
			m.Type = MeldAddedKan
			m.Tiles = append(m.Tiles, pk.Tile)
			SortTiles(m.Tiles)
			break
		}
	}
	s.LastDiscard.Valid = false
	s.afterCall()
	s.afterKan(pk.Seat)
}

// afterKan 四杠散了检查，翻宝牌，摸岭上牌
func (s *GameState) afterKan(seat int) {
	s.Actor = seat
	if s.kanCount() == MaxKans && s.kanSeats() > 1 {
		s.LeadAbortiveDrawEnding(EndFourKans)
		return
	}
	s.revealDora()
	p := &s.Players[seat]
	p.mergeDrawn()
	t, ok := s.Wall.DrawReplacement()
	if !ok {
		s.LeadNormalDrawEnding()
		return
	}
	p.giveDrawn(t, true)
	s.Phase = PhaseDiscard
}

// checkInvariants 136 张物理牌各出现一次；手牌张数与阶段一致
func (s *GameState) checkInvariants() error {
	if len(s.Wall.Tiles) == 0 {
		return nil
	}
	if len(s.Wall.Tiles) != TileLimit {
		return fmt.Errorf("%w: 牌山 %d 张", ErrInvariantViolation, len(s.Wall.Tiles))
	}
	var seen [TileLimit]bool
	count := 0
	mark := func(t Tile, where string) error {
		if t.ID < 0 || t.ID >= TileLimit || TileType(t.ID/4) != t.Type {
			return fmt.Errorf("%w: %s 中的牌 %v 编号非法", ErrInvariantViolation, where, t)
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: 牌 %d(%s) 重复出现于 %s", ErrInvariantViolation, t.ID, t, where)
		}
		seen[t.ID] = true
		count++
		return nil
	}
	for _, t := range s.Wall.Undrawn() {
		if err := mark(t, "牌山"); err != nil {
			return err
		}
	}
	for seat := range s.Players {
		p := &s.Players[seat]
		for _, t := range p.Hand {
			if err := mark(t, "手牌"); err != nil {
				return err
			}
		}
		if p.HasDrawn {
			if err := mark(p.Drawn, "摸牌"); err != nil {
				return err
			}
		}
		for _, m := range p.Melds {
			for _, t := range m.Tiles {
				if err := mark(t, "副露"); err != nil {
					return err
				}
			}
		}
		for _, d := range p.Discards {
			if !d.Called {
				if err := mark(d.Tile, "牌河"); err != nil {
					return err
				}
			}
		}
		if err := s.checkHandSize(seat); err != nil {
			return err
		}
	}
	if count != TileLimit {
		return fmt.Errorf("%w: 只找到 %d 张牌", ErrInvariantViolation, count)
	}
	return nil
}

func (s *GameState) checkHandSize(seat int) error {
	n := s.Players[seat].TileCount()
	ok := n == HandSize
	switch s.Phase {
	case PhaseDiscard:
		if seat == s.Actor {
			ok = n == HandSize+1
		}
	case PhaseCalling:
		if s.PendingKan != nil && seat == s.PendingKan.Seat {
			ok = n == HandSize+1
		}
	case PhaseRoundResult, PhaseDealing, PhaseGameResult:
		ok = n == HandSize || n == HandSize+1
	}
	if !ok {
		return fmt.Errorf("%w: 座位 %d 阶段 %s 手牌 %d 张", ErrInvariantViolation, seat, s.Phase, n)
	}
	return nil
}
