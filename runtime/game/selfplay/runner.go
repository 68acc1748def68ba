package selfplay

import (
	"errors"
	"fmt"

	"riichi/runtime/game"
	"riichi/runtime/game/engines/mahjong"
)

var ErrStepLimit = errors.New("step limit exceeded")

// Table 自对局驱动的牌桌
type Table interface {
	Submit(cmd mahjong.Command) (*mahjong.GameState, bool, error)
	State() *mahjong.GameState
}

// RoomTable 经 RoomManager 提交，快照等钩子照常生效
type RoomTable struct {
	Rooms   *game.RoomManager
	TableID string
}

func (t RoomTable) Submit(cmd mahjong.Command) (*mahjong.GameState, bool, error) {
	return t.Rooms.Submit(t.TableID, cmd)
}

func (t RoomTable) State() *mahjong.GameState {
	table, ok := t.Rooms.GetTable(t.TableID)
	if !ok {
		return nil
	}
	return table.Engine.State()
}

// Play 四个座位各自决策，直到对局结束
// 返回终局状态与生效的命令数
func Play(t Table, brains [4]Brain, maxSteps int) (*mahjong.GameState, int, error) {
	s := t.State()
	if s == nil {
		return nil, 0, fmt.Errorf("牌桌未初始化")
	}
	steps := 0
	for s.Phase != mahjong.PhaseGameResult {
		if maxSteps > 0 && steps >= maxSteps {
			return s, steps, ErrStepLimit
		}
		cmd, ok := nextCommand(s, brains)
		if !ok {
			return s, steps, fmt.Errorf("没有座位可以操作: phase=%s actor=%d", s.Phase, s.Actor)
		}
		next, applied, err := t.Submit(cmd)
		if err != nil {
			return s, steps, err
		}
		if !applied {
			return s, steps, fmt.Errorf("合法操作被拒绝: %s", cmd)
		}
		s = next
		steps++
	}
	return s, steps, nil
}

// nextCommand 响应阶段按座位顺序轮流决策
func nextCommand(s *mahjong.GameState, brains [4]Brain) (mahjong.Command, bool) {
	order := [4]int{s.Actor, (s.Actor + 1) % 4, (s.Actor + 2) % 4, (s.Actor + 3) % 4}
	for _, seat := range order {
		la := s.LegalActions(seat)
		if la.Empty() {
			continue
		}
		return brains[seat].Decide(s, la), true
	}
	return mahjong.Command{}, false
}
