package engines

type engineType int32

const (
	RIICHI_MAHJONG_4P_ENGINE engineType = iota // 立直麻将4人 游戏引擎
)

func (t engineType) Int32() int32 {
	return int32(t)
}

type TableStatus int32

const (
	TableWaiting    TableStatus = iota // 等待开始
	TableInProgress                    // 进行中
	TableFinished                      // 结束
	TableDamaged                       // 内部错误中止
)

func (s TableStatus) String() string {
	switch s {
	case TableWaiting:
		return "waiting"
	case TableInProgress:
		return "in_progress"
	case TableFinished:
		return "finished"
	case TableDamaged:
		return "damaged"
	default:
		return "unknown"
	}
}

// Engine 使用原型模式，每个牌桌都有一个游戏引擎
// C 为命令类型，S 为状态快照类型，A 为合法操作类型
type Engine[C any, S any, A any] interface {
	// InitializeEngine 初始化游戏引擎，seed 决定整场对局的洗牌
	InitializeEngine(tableID string, seed int64) error

	// Submit 提交一条命令，引擎内部串行处理
	// 非法命令返回 applied=false 与未变化的状态
	Submit(cmd C) (state S, applied bool, err error)

	// Restore 由快照恢复牌桌，代替 InitializeEngine
	Restore(tableID string, state S, step int64) error

	// State 当前状态（只读）
	State() S

	// Snapshot 当前状态与已生效的命令数，二者一致
	Snapshot() (state S, step int64)

	// LegalActions 座位当前的合法操作
	LegalActions(seat int) A

	// Status 牌桌状态
	Status() TableStatus

	// Clone 克隆引擎实例（用于原型模式）
	Clone() Engine[C, S, A]

	// Terminate 触发销毁牌桌（异步请求）
	Terminate()

	// Close 释放引擎内部资源
	Close()
}
