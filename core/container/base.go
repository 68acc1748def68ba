package container

import (
	"context"

	"riichi/common/config"
	"riichi/common/database"
	"riichi/common/log"
)

// BaseContainer 基础容器，管理共享的数据库连接
// 未配置的数据库不连接，对应的仓储为空，牌桌照常运行
type BaseContainer struct {
	mongo *database.MongoManager
	redis *database.RedisManager
}

func NewBase(ctx context.Context, conf config.DatabaseConf) (*BaseContainer, error) {
	base := &BaseContainer{}
	if conf.MongoConf.Url != "" {
		mongo, err := database.NewMongo(ctx, conf.MongoConf)
		if err != nil {
			return nil, err
		}
		base.mongo = mongo
	}
	if conf.RedisConf.Addr != "" || len(conf.RedisConf.ClusterAddrs) > 0 {
		redis, err := database.NewRedis(ctx, conf.RedisConf)
		if err != nil {
			_ = base.Close()
			return nil, err
		}
		base.redis = redis
	}
	log.Info("数据库初始化完成: mongo=%t redis=%t", base.mongo != nil, base.redis != nil)
	return base, nil
}

func (c *BaseContainer) GetMongo() *database.MongoManager {
	return c.mongo
}

func (c *BaseContainer) GetRedis() *database.RedisManager {
	return c.redis
}

// Close 关闭所有资源
func (c *BaseContainer) Close() error {
	var e1, e2 error
	if c.mongo != nil {
		e1 = c.mongo.Close()
	}
	if c.redis != nil {
		e2 = c.redis.Close()
	}
	if e1 != nil {
		log.Error("mongo 关闭失败: %v", e1)
		return e1
	}
	return e2
}
