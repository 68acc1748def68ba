package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"riichi/common/log"
	"riichi/core/domain/repository"
	"riichi/runtime/game/engines"
	"riichi/runtime/game/engines/mahjong"

	"github.com/google/uuid"
)

var (
	ErrTableNotFound     = errors.New("table not found")
	ErrUnknownEngineType = errors.New("unknown engine type")
)

const DefaultSnapshotTimeout = 5 * time.Second

// Engine 四人立直麻将引擎
type Engine = engines.Engine[mahjong.Command, *mahjong.GameState, mahjong.LegalActions]

// Table 一张牌桌
type Table struct {
	ID         string
	EngineType int32
	Engine     Engine
	CreatedAt  time.Time
	mu         sync.Mutex // 串行化提交与快照，保证快照步数单调
}

// RoomManager 牌桌管理器
// 管理所有牌桌实例，使用原型模式管理 Engine
type RoomManager struct {
	tables           map[string]*Table
	enginePrototypes map[int32]Engine // engineType -> Engine 原型
	snapshots        repository.SnapshotRepository
	snapshotEvery    int64 // 每隔多少步写一次快照，0 表示只在一局结束时写
	mu               sync.RWMutex
}

func NewRoomManager() *RoomManager {
	return &RoomManager{
		tables:           make(map[string]*Table),
		enginePrototypes: make(map[int32]Engine),
	}
}

// SetEnginePrototype 注入 Engine 原型，配置热更新时可整体替换
func (rm *RoomManager) SetEnginePrototype(engineType int32, engine Engine) error {
	if engine == nil {
		return fmt.Errorf("Engine 原型不能为空")
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	rm.enginePrototypes[engineType] = engine
	log.Info("RoomManager 注入 Engine 原型: engineType=%d", engineType)
	return nil
}

// SetSnapshotRepository 开启快照，repo 为 nil 时关闭
func (rm *RoomManager) SetSnapshotRepository(repo repository.SnapshotRepository, every int64) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.snapshots = repo
	rm.snapshotEvery = every
}

func (rm *RoomManager) clonePrototype(engineType int32) (Engine, error) {
	rm.mu.RLock()
	prototype, exists := rm.enginePrototypes[engineType]
	rm.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEngineType, engineType)
	}
	engine := prototype.Clone()
	if engine == nil {
		return nil, fmt.Errorf("克隆游戏引擎失败: engineType=%d", engineType)
	}
	return engine, nil
}

// CreateTable 创建牌桌，seed 决定整场对局的洗牌
func (rm *RoomManager) CreateTable(engineType int32, seed int64) (*Table, error) {
	engine, err := rm.clonePrototype(engineType)
	if err != nil {
		return nil, err
	}
	table := &Table{ID: uuid.NewString(), EngineType: engineType, Engine: engine, CreatedAt: time.Now()}
	if err := engine.InitializeEngine(table.ID, seed); err != nil {
		engine.Close()
		return nil, fmt.Errorf("初始化游戏引擎失败: %w", err)
	}

	rm.mu.Lock()
	rm.tables[table.ID] = table
	rm.mu.Unlock()

	log.Info("RoomManager 创建牌桌 %s，引擎类型: %d，seed: %d", table.ID, engineType, seed)
	return table, nil
}

// RestoreTable 由快照仓储恢复牌桌，牌桌 ID 不变
func (rm *RoomManager) RestoreTable(ctx context.Context, engineType int32, tableID string) (*Table, error) {
	rm.mu.RLock()
	repo := rm.snapshots
	_, exists := rm.tables[tableID]
	rm.mu.RUnlock()
	if repo == nil {
		return nil, fmt.Errorf("未配置快照仓储")
	}
	if exists {
		return nil, fmt.Errorf("牌桌 %s 已存在", tableID)
	}

	snap, err := repo.LoadSnapshot(ctx, tableID)
	if err != nil {
		return nil, err
	}
	state, err := mahjong.UnmarshalSnapshotBSON(snap.Data)
	if err != nil {
		return nil, err
	}
	engine, err := rm.clonePrototype(engineType)
	if err != nil {
		return nil, err
	}
	if err := engine.Restore(tableID, state, snap.Step); err != nil {
		engine.Close()
		return nil, err
	}

	table := &Table{ID: tableID, EngineType: engineType, Engine: engine, CreatedAt: time.Now()}
	rm.mu.Lock()
	rm.tables[tableID] = table
	rm.mu.Unlock()

	log.Info("RoomManager 恢复牌桌 %s，step=%d", tableID, snap.Step)
	return table, nil
}

func (rm *RoomManager) GetTable(tableID string) (*Table, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	table, exists := rm.tables[tableID]
	return table, exists
}

// Submit 向牌桌提交命令，同一牌桌的命令串行执行
func (rm *RoomManager) Submit(tableID string, cmd mahjong.Command) (*mahjong.GameState, bool, error) {
	table, ok := rm.GetTable(tableID)
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
	}

	table.mu.Lock()
	defer table.mu.Unlock()

	state, applied, err := table.Engine.Submit(cmd)
	if err != nil || !applied {
		return state, applied, err
	}
	if rm.shouldSnapshot(table, state) {
		if _, err := rm.saveSnapshot(table); err != nil && !errors.Is(err, repository.ErrStaleSnapshot) {
			log.Warn("RoomManager 保存快照失败: table=%s: %v", tableID, err)
		}
	}
	return state, true, nil
}

func (rm *RoomManager) shouldSnapshot(table *Table, state *mahjong.GameState) bool {
	rm.mu.RLock()
	repo, every := rm.snapshots, rm.snapshotEvery
	rm.mu.RUnlock()
	if repo == nil {
		return false
	}
	if state.Phase == mahjong.PhaseRoundResult || state.Phase == mahjong.PhaseGameResult {
		return true
	}
	_, step := table.Engine.Snapshot()
	return every > 0 && step%every == 0
}

// LegalActions 座位当前的合法操作
func (rm *RoomManager) LegalActions(tableID string, seat int) (mahjong.LegalActions, error) {
	table, ok := rm.GetTable(tableID)
	if !ok {
		return mahjong.LegalActions{}, fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
	}
	return table.Engine.LegalActions(seat), nil
}

// Snapshot 立即生成牌桌快照，配置了快照仓储时同时写入
func (rm *RoomManager) Snapshot(tableID string) (*repository.TableSnapshot, error) {
	table, ok := rm.GetTable(tableID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
	}
	table.mu.Lock()
	defer table.mu.Unlock()
	return rm.saveSnapshot(table)
}

// saveSnapshot 调用方持有 table.mu
func (rm *RoomManager) saveSnapshot(table *Table) (*repository.TableSnapshot, error) {
	state, step := table.Engine.Snapshot()
	if state == nil {
		return nil, fmt.Errorf("牌桌 %s 尚未初始化", table.ID)
	}
	data, err := mahjong.MarshalSnapshotBSON(state)
	if err != nil {
		return nil, fmt.Errorf("序列化快照失败: %w", err)
	}
	snap := &repository.TableSnapshot{TableID: table.ID, Step: step, Data: data, UpdatedAt: time.Now()}

	rm.mu.RLock()
	repo := rm.snapshots
	rm.mu.RUnlock()
	if repo == nil {
		return snap, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), DefaultSnapshotTimeout)
	defer cancel()
	if err := repo.SaveSnapshot(ctx, snap); err != nil {
		return snap, err
	}
	return snap, nil
}

// CloseTable 关闭并删除牌桌，已结束的牌桌同时删除快照
func (rm *RoomManager) CloseTable(tableID string) error {
	rm.mu.Lock()
	table, exists := rm.tables[tableID]
	if !exists {
		rm.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
	}
	delete(rm.tables, tableID)
	repo := rm.snapshots
	rm.mu.Unlock()

	table.mu.Lock()
	defer table.mu.Unlock()
	// 关闭牌桌资源（停止 actor、等待记录写入）
	table.Engine.Close()

	if repo != nil && table.Engine.Status() == engines.TableFinished {
		ctx, cancel := context.WithTimeout(context.Background(), DefaultSnapshotTimeout)
		defer cancel()
		if err := repo.DeleteSnapshot(ctx, tableID); err != nil {
			log.Warn("RoomManager 删除快照失败: table=%s: %v", tableID, err)
		}
	}

	log.Info("RoomManager 删除牌桌 %s，状态: %s", tableID, table.Engine.Status())
	return nil
}

// CloseAll 关闭全部牌桌
func (rm *RoomManager) CloseAll() {
	for _, table := range rm.GetAllTables() {
		if err := rm.CloseTable(table.ID); err != nil {
			log.Warn("RoomManager 关闭牌桌失败: %v", err)
		}
	}
}

// GetStats 获取统计信息
func (rm *RoomManager) GetStats() LoadInfo {
	var info LoadInfo
	for _, table := range rm.GetAllTables() {
		info.TableCount++
		switch table.Engine.Status() {
		case engines.TableWaiting:
			info.Waiting++
		case engines.TableInProgress:
			info.InProgress++
		case engines.TableFinished:
			info.Finished++
		case engines.TableDamaged:
			info.Damaged++
		}
	}
	info.SeatCount = info.TableCount * 4
	return info
}

// GetAllTables 获取所有牌桌列表（返回副本）
func (rm *RoomManager) GetAllTables() []*Table {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	tables := make([]*Table, 0, len(rm.tables))
	for _, table := range rm.tables {
		tables = append(tables, table)
	}
	return tables
}
