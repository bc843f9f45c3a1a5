package repository

import (
	"time"

	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"

	"problem-tracker/internal/config"
	"problem-tracker/pkg/logging"
)

var (
	// RedisPool 为 nil 表示缓存关闭
	RedisPool *redis.Pool

	// SnapshotTTL 读接口快照过期时间，0 表示不过期
	SnapshotTTL time.Duration
)

func InitRedis(cfg config.RedisConfig) {
	if !cfg.Enabled {
		logging.Logger.Info("Redis cache disabled")
		RedisPool = nil
		return
	}

	RedisPool = NewRedisPool(cfg.Addr, cfg.Password)
	SnapshotTTL = cfg.SnapshotTTL
	logging.Logger.Info("Redis cache enabled",
		zap.String("addr", cfg.Addr),
		zap.Duration("snapshot_ttl", cfg.SnapshotTTL),
	)
}

// NewRedisPool 创建连接池；password 非空时在建连后执行 AUTH
func NewRedisPool(addr, password string) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     10,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			conn, err := redis.Dial("tcp", addr)
			if err != nil {
				logging.Logger.Error("Failed to connect Redis",
					zap.String("addr", addr),
					zap.Error(err),
				)
				return nil, err
			}

			if password != "" {
				if _, authErr := conn.Do("AUTH", password); authErr != nil {
					if closeErr := conn.Close(); closeErr != nil {
						logging.Logger.Error("Failed to close redis connection after AUTH failure",
							zap.String("addr", addr),
							zap.Error(closeErr),
						)
					}
					logging.Logger.Error("Redis AUTH failed",
						zap.String("addr", addr),
						zap.Error(authErr),
					)
					return nil, authErr
				}
			}

			logging.Logger.Debug("Redis connection established",
				zap.String("addr", addr),
				zap.Bool("auth", password != ""),
			)
			return conn, nil
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) > time.Minute {
				_, err := c.Do("PING")
				if err != nil {
					logging.Logger.Warn("Redis connection health check failed",
						zap.String("addr", addr),
						zap.Error(err),
					)
				}
				return err
			}
			return nil
		},
	}
}

// CloseRedis 关闭连接池
func CloseRedis() {
	if RedisPool == nil {
		return
	}
	if err := RedisPool.Close(); err != nil {
		logging.Logger.Warn("Redis pool close failed", zap.Error(err))
	}
}
