package service

import (
	"time"

	"github.com/gomodule/redigo/redis"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"problem-tracker/constant"
	"problem-tracker/internal/dto"
	"problem-tracker/internal/model"
	"problem-tracker/internal/repository"
	"problem-tracker/pkg/logging"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// withConn 缓存关闭时什么也不做
func withConn(fn func(conn redis.Conn)) {
	if repository.RedisPool == nil {
		return
	}
	conn := repository.RedisPool.Get()
	defer closeConn(conn)
	fn(conn)
}

func closeConn(conn redis.Conn) {
	if err := conn.Close(); err != nil {
		logging.Logger.Error("Failed to close Redis connection",
			zap.Error(err),
			zap.String("operation", "close"),
			zap.String("connection_type", "redis"),
		)
	}
}

// snapshotSession 一次读请求的缓存会话：先 WATCH 写入计数再读快照，
// 未命中时回源，回写用 MULTI/EXEC，期间有写入则放弃回写
type snapshotSession struct {
	conn redis.Conn
}

// openSnapshot 缓存关闭或 Redis 不可用时返回 nil，nil 会话的方法都是空操作
func openSnapshot() *snapshotSession {
	if repository.RedisPool == nil {
		return nil
	}
	conn := repository.RedisPool.Get()
	if _, err := conn.Do("WATCH", constant.GetGenerationKey()); err != nil {
		logging.Logger.Warn("Redis WATCH failed",
			zap.String("cache_key", constant.GetGenerationKey()),
			zap.Error(err))
		closeConn(conn)
		return nil
	}
	return &snapshotSession{conn: conn}
}

// load 读取快照；任何错误都按未命中处理
func (s *snapshotSession) load() (*dto.ProblemsResponse, bool) {
	if s == nil {
		return nil, false
	}
	cacheKey := constant.GetSnapshotKey()
	cachedValue, err := redis.Bytes(s.conn.Do("GET", cacheKey))
	if err != nil {
		if err != redis.ErrNil {
			logging.Logger.Warn("Error getting from Redis",
				zap.String("cache_key", cacheKey),
				zap.Error(err))
		}
		return nil, false
	}

	var snapshot dto.ProblemsResponse
	if err := json.Unmarshal(cachedValue, &snapshot); err != nil {
		logging.Logger.Warn("Failed to unmarshal cached value",
			zap.String("cache_key", cacheKey),
			zap.Error(err))
		return nil, false
	}
	return &snapshot, true
}

// store 写回快照；WATCH 之后有写入时 EXEC 返回 nil，不写
func (s *snapshotSession) store(resp *dto.ProblemsResponse) {
	if s == nil {
		return
	}
	cacheKey := constant.GetSnapshotKey()
	cachedValue, err := json.Marshal(resp)
	if err != nil {
		logging.Logger.Warn("Failed to marshal snapshot", zap.Error(err))
		return
	}

	args := redis.Args{}.Add(cacheKey, cachedValue)
	if ttl := int64(repository.SnapshotTTL / time.Second); ttl > 0 {
		args = args.Add("EX", ttl)
	}

	if err := s.conn.Send("MULTI"); err != nil {
		logging.Logger.Error("设置缓存失败", zap.String("cache_key", cacheKey), zap.Error(err))
		return
	}
	if err := s.conn.Send("SET", args...); err != nil {
		logging.Logger.Error("设置缓存失败", zap.String("cache_key", cacheKey), zap.Error(err))
		return
	}
	reply, err := s.conn.Do("EXEC")
	if err != nil {
		logging.Logger.Error("设置缓存失败", zap.String("cache_key", cacheKey), zap.Error(err))
		return
	}
	if reply == nil {
		logging.Logger.Debug("Snapshot skipped, documents changed during read",
			zap.String("cache_key", cacheKey))
	}
}

// close 归还连接，连接关闭时 WATCH 自动失效
func (s *snapshotSession) close() {
	if s == nil {
		return
	}
	closeConn(s.conn)
}

// invalidateSnapshot 任意写操作之后：先增加写入计数让进行中的回写失效，再删除快照
func invalidateSnapshot() {
	withConn(func(conn redis.Conn) {
		if _, err := conn.Do("INCR", constant.GetGenerationKey()); err != nil {
			logging.Logger.Warn("Redis 增加写入计数失败",
				zap.String("cache_key", constant.GetGenerationKey()),
				zap.Error(err))
		}
		cacheKey := constant.GetSnapshotKey()
		if _, err := conn.Do("DEL", cacheKey); err != nil {
			logging.Logger.Warn("Redis 删除缓存失败",
				zap.String("cache_key", cacheKey),
				zap.Error(err))
		}
	})
}

// recordDailyUpdate 记录当天每个 pid 的状态更新次数（hash，3 天过期）
func recordDailyUpdate(status model.ProblemStatus, now time.Time) {
	withConn(func(conn redis.Conn) {
		RecordDailyUpdate(conn, status, constant.GetDateKey(now))
	})
}

// RecordDailyUpdate 记录每日状态更新，field 为 pid 的 JSON 文本
func RecordDailyUpdate(conn redis.Conn, status model.ProblemStatus, date string) {
	dailyKey := constant.GetDailyUpdatesKey(date)
	field := constant.NoPID
	if pid, ok := status.Get("pid"); ok {
		field = string(pid)
	}

	if _, err := conn.Do("HINCRBY", dailyKey, field, 1); err != nil {
		logging.Logger.Error("Failed to record daily update",
			zap.String("key", dailyKey),
			zap.String("pid", field),
			zap.Error(err))
	}

	if _, err := conn.Do("EXPIRE", dailyKey, 3*24*3600); err != nil {
		logging.Logger.Error("Failed to record daily update Expire",
			zap.String("key", dailyKey),
			zap.Error(err))
	}
}

// GetDailyUpdates 获取某日期的状态更新总次数
func GetDailyUpdates(conn redis.Conn, date string) (int64, error) {
	dailyKey := constant.GetDailyUpdatesKey(date)

	values, err := redis.Int64s(conn.Do("HVALS", dailyKey))
	if err != nil {
		logging.Logger.Error("Failed to get daily updates",
			zap.String("key", dailyKey),
			zap.Error(err))
		return 0, err
	}

	var total int64
	for _, v := range values {
		total += v
	}
	return total, nil
}
