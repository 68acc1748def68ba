package mahjong

import (
	"fmt"
	"sync"
	"sync/atomic"

	"riichi/common/log"
	"riichi/core/domain/repository"
	"riichi/runtime/game/engines"
)

const DefaultCommandQueueSize = 64

var _ engines.Engine[Command, *GameState, LegalActions] = (*RiichiMahjong4p)(nil)

// TableHost 牌桌宿主（Worker），引擎通过它请求销毁自己所在的牌桌
// 实现必须是异步的，Terminate 可能在 actor 协程内被调用
type TableHost interface {
	RequestDestroyTable(tableID string)
}

/*
	引擎只负责串行化：
		所有命令进入 commands 队列，由 actorLoop 单协程调用纯函数 Transition，
		生效后依次做：记录命令流、结算时写局记录、推送事件
		状态值本身不可变，读者通过原子指针拿到某一步的完整状态

	失败处理：
		非法命令直接拒绝，状态不变，不算错误
		状态转移后不变量被破坏，牌桌进入崩坏状态，之后的命令一律返回 ErrTableDamaged，
		并请求宿主销毁牌桌
*/

// RiichiMahjong4p 日麻四人游戏引擎
type RiichiMahjong4p struct {
	TableID   string
	Rules     RuleSet
	host      TableHost
	pusher    Pusher
	repo      repository.GameRecordRepository
	Persister *GamePersister

	current atomic.Pointer[tableView] // 最近一次生效后的状态
	status  atomic.Int32
	damage  atomic.Pointer[damageError]

	commands  chan *submitRequest
	gameDone  chan struct{}
	actorExit chan struct{}
	closed    atomic.Bool // 接收命令的关闭开关
	closeOnce sync.Once
}

type damageError struct {
	err error
}

type tableView struct {
	state *GameState
	step  int64
}

type submitRequest struct {
	cmd   Command
	reply chan submitReply
}

type submitReply struct {
	state   *GameState
	applied bool
	err     error
}

// NewRiichiMahjong4p 创建引擎原型，host/pusher/repo 均可为 nil
func NewRiichiMahjong4p(rules RuleSet, host TableHost, pusher Pusher, repo repository.GameRecordRepository) *RiichiMahjong4p {
	eg := &RiichiMahjong4p{
		Rules:  rules,
		host:   host,
		pusher: pusher,
		repo:   repo,
	}
	eg.status.Store(int32(engines.TableWaiting))
	return eg
}

// InitializeEngine 初始化牌桌并启动事件循环
func (eg *RiichiMahjong4p) InitializeEngine(tableID string, seed int64) error {
	return eg.start(tableID, NewGame(eg.Rules, seed), 0)
}

// Restore 由快照恢复牌桌，已有的局记录不在快照中，恢复后重新开始收集
func (eg *RiichiMahjong4p) Restore(tableID string, state *GameState, step int64) error {
	if state == nil {
		return fmt.Errorf("恢复牌桌 %s: 快照为空", tableID)
	}
	if err := state.checkInvariants(); err != nil {
		return fmt.Errorf("恢复牌桌 %s: %w", tableID, err)
	}
	eg.Rules = state.Rules
	return eg.start(tableID, state.Clone(), step)
}

func (eg *RiichiMahjong4p) start(tableID string, state *GameState, step int64) error {
	if eg.commands != nil {
		return fmt.Errorf("牌桌 %s 已初始化", eg.TableID)
	}
	eg.TableID = tableID
	eg.current.Store(&tableView{state: state, step: step})
	eg.status.Store(int32(statusOf(state)))
	if eg.repo != nil {
		eg.Persister = NewGamePersister(eg.repo, tableID, state.Seed, state.Rules)
		if state.Phase != PhaseWaiting && state.Phase != PhaseDealing && state.Phase != PhaseGameResult {
			eg.Persister.StartRound(state)
		}
	}

	eg.closed.Store(false)
	eg.commands = make(chan *submitRequest, DefaultCommandQueueSize)
	eg.gameDone = make(chan struct{})
	eg.actorExit = make(chan struct{})
	go eg.actorLoop()

	log.Info("牌桌初始化: table=%s seed=%d phase=%s step=%d", tableID, state.Seed, state.Phase, step)
	return nil
}

func statusOf(s *GameState) engines.TableStatus {
	switch s.Phase {
	case PhaseWaiting:
		return engines.TableWaiting
	case PhaseGameResult:
		return engines.TableFinished
	default:
		return engines.TableInProgress
	}
}

// actorLoop 命令循环
func (eg *RiichiMahjong4p) actorLoop() {
	defer close(eg.actorExit)
	for {
		select {
		case <-eg.gameDone:
			return
		case req := <-eg.commands:
			state, applied, err := eg.processCommand(req.cmd)
			req.reply <- submitReply{state: state, applied: applied, err: err}
		}
	}
}

// Submit 提交一条命令并等待结果
func (eg *RiichiMahjong4p) Submit(cmd Command) (*GameState, bool, error) {
	if eg.commands == nil || eg.closed.Load() {
		return eg.State(), false, ErrTableClosed
	}
	req := &submitRequest{cmd: cmd, reply: make(chan submitReply, 1)}
	select {
	case <-eg.gameDone:
		return eg.State(), false, ErrTableClosed
	case eg.commands <- req:
	}
	select {
	case <-eg.gameDone:
		// 关闭前已被处理的命令仍然有结果
		select {
		case rep := <-req.reply:
			return rep.state, rep.applied, rep.err
		default:
			return eg.State(), false, ErrTableClosed
		}
	case rep := <-req.reply:
		return rep.state, rep.applied, rep.err
	}
}

func (eg *RiichiMahjong4p) processCommand(cmd Command) (*GameState, bool, error) {
	view := eg.current.Load()
	if engines.TableStatus(eg.status.Load()) == engines.TableDamaged {
		return view.state, false, ErrTableDamaged
	}

	next, applied, err := Transition(view.state, cmd)
	if err != nil {
		eg.HappenDamageError(err)
		return view.state, false, err
	}
	if !applied {
		log.Debug("拒绝命令: table=%s cmd=%s phase=%s actor=%d", eg.TableID, cmd, view.state.Phase, view.state.Actor)
		return view.state, false, nil
	}

	step := view.step + 1
	eg.current.Store(&tableView{state: next, step: step})
	eg.status.Store(int32(statusOf(next)))

	eg.persist(view.state, next, cmd)
	if next.Result != nil && view.state.Result == nil {
		log.Info("本局结束: table=%s hand=%d honba=%d end=%s deltas=%v", eg.TableID, next.Result.HandNo, next.Result.Honba, next.Result.Kind, next.Result.Deltas)
	}
	if next.GameResult != nil && view.state.GameResult == nil {
		log.Info("对局结束: table=%s ranking=%v points=%v", eg.TableID, next.GameResult.Ranking, next.GameResult.Points)
	}
	eg.dispatchPush(buildEvents(eg.TableID, step, view.state, next, cmd))
	return next, true, nil
}

func (eg *RiichiMahjong4p) persist(prev, next *GameState, cmd Command) {
	if eg.Persister == nil {
		return
	}
	if cmd.Kind == CmdBeginRound {
		eg.Persister.StartRound(next)
	}
	eg.Persister.RecordCommand(cmd, next)
	if next.Result != nil && prev.Result == nil {
		eg.Persister.CompleteRound(next)
	}
	if next.GameResult != nil && prev.GameResult == nil {
		eg.Persister.FinalizeGame(next.GameResult)
	}
}

// State 最近一次生效后的状态，调用方不得修改
func (eg *RiichiMahjong4p) State() *GameState {
	if view := eg.current.Load(); view != nil {
		return view.state
	}
	return nil
}

func (eg *RiichiMahjong4p) Snapshot() (*GameState, int64) {
	if view := eg.current.Load(); view != nil {
		return view.state, view.step
	}
	return nil, 0
}

// LegalActions 不经过命令队列，直接在当前状态上计算
func (eg *RiichiMahjong4p) LegalActions(seat int) LegalActions {
	s := eg.State()
	if s == nil || engines.TableStatus(eg.status.Load()) == engines.TableDamaged {
		return LegalActions{Seat: seat}
	}
	return s.LegalActions(seat)
}

func (eg *RiichiMahjong4p) Status() engines.TableStatus {
	return engines.TableStatus(eg.status.Load())
}

// Err 牌桌崩坏的原因
func (eg *RiichiMahjong4p) Err() error {
	if d := eg.damage.Load(); d != nil {
		return d.err
	}
	return nil
}

// Clone 克隆引擎实例（用于原型模式），只复制规则与外部依赖
func (eg *RiichiMahjong4p) Clone() engines.Engine[Command, *GameState, LegalActions] {
	return NewRiichiMahjong4p(eg.Rules, eg.host, eg.pusher, eg.repo)
}

// HappenDamageError 发生牌桌崩坏的重大事件
func (eg *RiichiMahjong4p) HappenDamageError(err error) {
	log.Error("牌桌崩坏: table=%s: %v", eg.TableID, err)
	eg.damage.Store(&damageError{err: err})
	eg.status.Store(int32(engines.TableDamaged))
	if eg.Persister != nil {
		eg.Persister.AbortGame(err.Error())
	}
	view := eg.current.Load()
	eg.dispatchPush([]TableEvent{{TableID: eg.TableID, Step: view.step, Type: EventDamaged, Seat: -1, Data: err.Error()}})
	eg.Terminate()
}

// Terminate 自毁程序
func (eg *RiichiMahjong4p) Terminate() {
	if eg.host == nil || eg.TableID == "" {
		return
	}
	eg.host.RequestDestroyTable(eg.TableID)
}

func (eg *RiichiMahjong4p) Close() {
	eg.closeOnce.Do(func() {
		eg.closed.Store(true)
		if eg.gameDone != nil {
			close(eg.gameDone)
		}
		if eg.actorExit != nil {
			<-eg.actorExit
		}
		if eg.Persister != nil {
			if engines.TableStatus(eg.status.Load()) == engines.TableInProgress {
				eg.Persister.AbortGame("牌桌关闭")
			}
			eg.Persister.Wait()
		}
	})
}
