package selfplay

import (
	"fmt"
	"math/rand"

	"riichi/runtime/game/engines/mahjong"
)

type Level int

const (
	LevelRandom Level = iota // 在合法操作中均匀随机
	LevelGreedy              // 能和就和，能立直就立直，否则打向听数最小的牌
)

// Brain 座位的决策者，只在 LegalActions 给出的选项里选择
type Brain interface {
	Decide(s *mahjong.GameState, la mahjong.LegalActions) mahjong.Command
}

func NewBrain(level Level, seed int64) (Brain, error) {
	switch level {
	case LevelRandom:
		return &RandomBrain{rng: rand.New(rand.NewSource(seed))}, nil
	case LevelGreedy:
		return &GreedyBrain{rng: rand.New(rand.NewSource(seed))}, nil
	default:
		return nil, fmt.Errorf("unknown brain level: %d", level)
	}
}

// Commands 把合法操作展开为命令列表
func Commands(la mahjong.LegalActions) []mahjong.Command {
	var out []mahjong.Command
	seat := la.Seat
	if la.BeginRound {
		out = append(out, mahjong.BeginRound())
	}
	if la.AdvanceRound {
		out = append(out, mahjong.AdvanceToNextRound())
	}
	if la.Draw {
		out = append(out, mahjong.Draw(seat))
	}
	for _, t := range la.Discard {
		out = append(out, mahjong.DiscardTile(seat, t))
	}
	for _, t := range la.Riichi {
		out = append(out, mahjong.DeclareRiichi(seat, t))
	}
	if la.Tsumo {
		out = append(out, mahjong.DeclareWinByDraw(seat))
	}
	if la.Ron {
		out = append(out, mahjong.DeclareWinByDiscard(seat))
	}
	if la.Pon {
		out = append(out, mahjong.CallPon(seat))
	}
	for _, pair := range la.Chi {
		out = append(out, mahjong.CallChi(seat, pair))
	}
	if la.OpenKan {
		out = append(out, mahjong.CallOpenKan(seat))
	}
	for _, k := range la.ClosedKan {
		out = append(out, mahjong.CallClosedKan(seat, k))
	}
	for _, k := range la.AddedKan {
		out = append(out, mahjong.CallAddedKan(seat, k))
	}
	if la.Decline {
		out = append(out, mahjong.DeclineCall(seat))
	}
	if la.NineTerminals {
		out = append(out, mahjong.DeclareNineTerminalsDraw(seat))
	}
	return out
}

type RandomBrain struct {
	rng *rand.Rand
}

func (b *RandomBrain) Decide(_ *mahjong.GameState, la mahjong.LegalActions) mahjong.Command {
	cmds := Commands(la)
	return cmds[b.rng.Intn(len(cmds))]
}

type GreedyBrain struct {
	rng *rand.Rand
}

func (b *GreedyBrain) Decide(s *mahjong.GameState, la mahjong.LegalActions) mahjong.Command {
	seat := la.Seat
	switch {
	case la.BeginRound:
		return mahjong.BeginRound()
	case la.AdvanceRound:
		return mahjong.AdvanceToNextRound()
	case la.Draw:
		return mahjong.Draw(seat)
	case la.Tsumo:
		return mahjong.DeclareWinByDraw(seat)
	case la.Ron:
		return mahjong.DeclareWinByDiscard(seat)
	case la.Decline:
		return mahjong.DeclineCall(seat)
	case len(la.Riichi) > 0:
		return mahjong.DeclareRiichi(seat, la.Riichi[b.rng.Intn(len(la.Riichi))])
	case len(la.Discard) > 0:
		return mahjong.DiscardTile(seat, bestDiscard(s, seat, la.Discard))
	}
	cmds := Commands(la)
	return cmds[b.rng.Intn(len(cmds))]
}

// bestDiscard 打出后向听数最小的牌，相同时优先幺九
func bestDiscard(s *mahjong.GameState, seat int, options []mahjong.Tile) mahjong.Tile {
	p := &s.Players[seat]
	hand := p.ConcealedTiles()
	fixed := len(p.Melds)
	h14 := mahjong.Hand34FromTiles(hand)

	best, bestShanten := options[0], 99
	for _, t := range options {
		h13 := h14
		h13[t.Type]--
		sh := mahjong.DefaultSearcher().ShantenAll(h13, fixed)
		if sh < bestShanten || (sh == bestShanten && t.Type.IsYaochu() && !best.Type.IsYaochu()) {
			best, bestShanten = t, sh
		}
	}
	return best
}
