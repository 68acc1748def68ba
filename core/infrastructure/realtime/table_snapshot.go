package realtime

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"riichi/common/database"
	"riichi/common/log"
	"riichi/core/domain/repository"
)

const (
	tableSnapshotKeyPrefix = "table:snapshot:" // Hash: step / data / updated_at
	saveSnapshotScriptName = "save_table_snapshot"
)

// Lua 脚本：只有步数更新时才覆盖快照
// KEYS[1]: 快照 key
// ARGV[1]: step
// ARGV[2]: data
// ARGV[3]: updated_at (unix 毫秒)
// ARGV[4]: ttl 秒，0 表示不过期
// 返回：1 已写入，0 快照过期
var saveSnapshotScript = `
local key = KEYS[1]
local step = tonumber(ARGV[1])
local ttl = tonumber(ARGV[4])

local current = redis.call('HGET', key, 'step')
if current ~= false and tonumber(current) >= step then
    return 0
end

redis.call('HSET', key, 'step', ARGV[1], 'data', ARGV[2], 'updated_at', ARGV[3])
if ttl > 0 then
    redis.call('EXPIRE', key, ttl)
else
    redis.call('PERSIST', key)
end
return 1
`

// RedisSnapshotRepository Redis 实现的牌桌快照仓储，每张牌桌一个 Hash
type RedisSnapshotRepository struct {
	redis *database.RedisManager
	ttl   time.Duration
}

func NewRedisSnapshotRepository(redis *database.RedisManager, ttl time.Duration) repository.SnapshotRepository {
	return &RedisSnapshotRepository{redis: redis, ttl: ttl}
}

func snapshotKey(tableID string) string {
	return tableSnapshotKeyPrefix + tableID
}

func (r *RedisSnapshotRepository) SaveSnapshot(ctx context.Context, snap *repository.TableSnapshot) error {
	updatedAt := snap.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	res, err := r.redis.EvalScript(ctx, saveSnapshotScriptName, saveSnapshotScript,
		[]string{snapshotKey(snap.TableID)},
		snap.Step, snap.Data, updatedAt.UnixMilli(), int64(r.ttl/time.Second))
	if err != nil {
		log.Error("保存牌桌快照失败: table=%s: %v", snap.TableID, err)
		return fmt.Errorf("%w: %v", repository.ErrRedis, err)
	}
	if written, ok := res.(int64); ok && written == 0 {
		return repository.ErrStaleSnapshot
	}
	return nil
}

func (r *RedisSnapshotRepository) LoadSnapshot(ctx context.Context, tableID string) (*repository.TableSnapshot, error) {
	cli, err := r.redis.GetClient()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrRedis, err)
	}
	fields, err := cli.HGetAll(ctx, snapshotKey(tableID)).Result()
	if err != nil {
		log.Error("读取牌桌快照失败: table=%s: %v", tableID, err)
		return nil, fmt.Errorf("%w: %v", repository.ErrRedis, err)
	}
	if len(fields) == 0 {
		return nil, repository.ErrSnapshotNotFound
	}

	step, err := strconv.ParseInt(fields["step"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: 快照步数损坏: %v", repository.ErrRedis, err)
	}
	millis, _ := strconv.ParseInt(fields["updated_at"], 10, 64)
	return &repository.TableSnapshot{
		TableID:   tableID,
		Step:      step,
		Data:      []byte(fields["data"]),
		UpdatedAt: time.UnixMilli(millis),
	}, nil
}

func (r *RedisSnapshotRepository) DeleteSnapshot(ctx context.Context, tableID string) error {
	if err := r.redis.Del(ctx, snapshotKey(tableID)); err != nil {
		log.Error("删除牌桌快照失败: table=%s: %v", tableID, err)
		return fmt.Errorf("%w: %v", repository.ErrRedis, err)
	}
	return nil
}
