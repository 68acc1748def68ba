package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"riichi/common/config"
	"riichi/common/log"

	"github.com/redis/go-redis/v9"
)

type RedisManager struct {
	Cli        *redis.Client
	ClusterCli *redis.ClusterClient
	scriptSHAs map[string]string
	mu         sync.RWMutex
}

func NewRedis(ctx context.Context, redisConf config.RedisConf) (*RedisManager, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if redisConf.Addr == "" && len(redisConf.ClusterAddrs) == 0 {
		return nil, errors.New("redis 配置出错: 缺少 addr")
	}

	r := &RedisManager{scriptSHAs: make(map[string]string)}
	if len(redisConf.ClusterAddrs) == 0 {
		r.Cli = redis.NewClient(&redis.Options{
			Addr:         redisConf.Addr,
			Password:     redisConf.Password, // 没有密码时为空字符串，Redis 会忽略
			PoolSize:     redisConf.PoolSize,
			MinIdleConns: redisConf.MinIdleConns,
		})
	} else {
		r.ClusterCli = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        redisConf.ClusterAddrs,
			Password:     redisConf.Password,
			PoolSize:     redisConf.PoolSize,
			MinIdleConns: redisConf.MinIdleConns,
		})
	}

	cli, _ := r.GetClient()
	if err := cli.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("redis 连接错误: %w", err)
	}
	return r, nil
}

func (r *RedisManager) GetClient() (redis.Cmdable, error) {
	if r.Cli != nil {
		return r.Cli, nil
	}
	if r.ClusterCli != nil {
		return r.ClusterCli, nil
	}
	return nil, fmt.Errorf("redis 客户端未初始化")
}

func (r *RedisManager) Del(ctx context.Context, keys ...string) error {
	cli, err := r.GetClient()
	if err != nil {
		return err
	}
	return cli.Del(ctx, keys...).Err()
}

// EvalScript 执行 Lua 脚本，单机模式下缓存脚本 SHA
func (r *RedisManager) EvalScript(ctx context.Context, scriptName, script string, keys []string, args ...any) (any, error) {
	cli, err := r.GetClient()
	if err != nil {
		return nil, err
	}

	if r.Cli != nil && scriptName != "" {
		r.mu.RLock()
		sha, exists := r.scriptSHAs[scriptName]
		r.mu.RUnlock()
		if exists {
			result, err := r.Cli.EvalSha(ctx, sha, keys, args...).Result()
			if err == nil {
				return result, nil
			}
			// SHA 失效，重新加载
			if !strings.HasPrefix(err.Error(), "NOSCRIPT") {
				return nil, err
			}
		}
		sha, err := r.Cli.ScriptLoad(ctx, script).Result()
		if err != nil {
			return nil, fmt.Errorf("加载脚本失败: %w", err)
		}
		r.mu.Lock()
		r.scriptSHAs[scriptName] = sha
		r.mu.Unlock()
		return r.Cli.EvalSha(ctx, sha, keys, args...).Result()
	}

	return cli.Eval(ctx, script, keys, args...).Result()
}

func (r *RedisManager) Close() error {
	if r.Cli != nil {
		if err := r.Cli.Close(); err != nil {
			log.Error("redis 关闭出错: %v", err)
			return err
		}
	}
	if r.ClusterCli != nil {
		if err := r.ClusterCli.Close(); err != nil {
			log.Error("redisCluster 关闭出错: %v", err)
			return err
		}
	}
	return nil
}
