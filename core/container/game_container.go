package container

import (
	"context"
	"fmt"
	"sync"
	"time"

	"riichi/common/config"
	"riichi/common/log"
	"riichi/core/domain/repository"
	"riichi/core/infrastructure/persistence"
	"riichi/core/infrastructure/realtime"
	"riichi/runtime/game"
	"riichi/runtime/game/engines"
	"riichi/runtime/game/engines/mahjong"
	"riichi/runtime/game/stream"
)

// GameContainer 牌桌服务容器
// 继承 BaseContainer 的数据库连接，添加牌桌相关的依赖
type GameContainer struct {
	*BaseContainer
	GameRecordRepository repository.GameRecordRepository
	SnapshotRepository   repository.SnapshotRepository
	Publisher            *stream.NatsPublisher
	GameWorker           *game.Worker
	closed               bool
	mu                   sync.Mutex
}

// NewGameContainer 按配置创建容器，mongo/redis/nats 未配置时对应功能关闭
func NewGameContainer(ctx context.Context, conf *config.Config) (*GameContainer, error) {
	base, err := NewBase(ctx, conf.Database)
	if err != nil {
		return nil, fmt.Errorf("基础容器初始化失败: %w", err)
	}
	c := &GameContainer{BaseContainer: base}

	if base.GetMongo() != nil {
		c.GameRecordRepository = persistence.NewGameRecordRepository(base.GetMongo())
	}
	if base.GetRedis() != nil {
		ttl := time.Duration(conf.Database.RedisConf.SnapshotTTL) * time.Second
		c.SnapshotRepository = realtime.NewRedisSnapshotRepository(base.GetRedis(), ttl)
	}
	if conf.Nats.URL != "" {
		publisher, err := stream.Connect(conf.Nats.URL, conf.Nats.Subject)
		if err != nil {
			_ = base.Close()
			return nil, fmt.Errorf("连接 nats 失败: %w", err)
		}
		c.Publisher = publisher
	}

	c.GameWorker = game.NewWorker(game.NewRoomManager())
	if c.SnapshotRepository != nil {
		c.GameWorker.RoomManager.SetSnapshotRepository(c.SnapshotRepository, conf.Database.RedisConf.SnapshotEvery)
	}
	if err := c.InstallPrototypes(conf.Rules); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// InstallPrototypes 创建并注入 Engine 原型，配置热更新时重新调用，只影响之后创建的牌桌
func (c *GameContainer) InstallPrototypes(rulesConf config.RulesConf) error {
	var pusher mahjong.Pusher
	if c.Publisher != nil {
		pusher = c.Publisher
	}
	prototype := mahjong.NewRiichiMahjong4p(mahjong.RuleSetFromConf(rulesConf), c.GameWorker, pusher, c.GameRecordRepository)
	if err := c.GameWorker.RoomManager.SetEnginePrototype(engines.RIICHI_MAHJONG_4P_ENGINE.Int32(), prototype); err != nil {
		return fmt.Errorf("注入 Engine 原型失败: %w", err)
	}
	return nil
}

// Close 关闭容器资源（幂等操作，可以安全地多次调用）
// 关闭顺序：1. GameWorker 2. 推送 3. BaseContainer（数据库连接）
func (c *GameContainer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if c.GameWorker != nil {
		c.GameWorker.Close()
	}
	if c.Publisher != nil {
		c.Publisher.Close()
	}
	if c.BaseContainer != nil {
		if err := c.BaseContainer.Close(); err != nil {
			log.Error("BaseContainer 关闭失败: %v", err)
			return err
		}
	}

	log.Info("GameContainer 已关闭")
	return nil
}
