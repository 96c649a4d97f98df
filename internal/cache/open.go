package cache

import (
	"tunepost-go/internal/config"
	infraredis "tunepost-go/internal/infra/redis"
	"tunepost-go/pkg/logger"

	"go.uber.org/zap"
)

// Open 根据配置选择缓存实现：配置了 url 用 Redis，driver=memory 用进程内缓存，否则禁用
func Open(cfg *config.CacheConfig) (Cache, func() error, error) {
	noop := func() error { return nil }

	if cfg.Enabled() {
		client, err := infraredis.NewClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		r := NewRedis(client, RedisOptions{
			OpTimeout:         cfg.OpTimeout(),
			ReconnectAttempts: cfg.ReconnectAttempts,
			ReconnectInterval: cfg.ReconnectInterval(),
			BreakerFailures:   uint32(cfg.BreakerFailures),
		})
		return r, r.Close, nil
	}

	if cfg.Driver == "memory" {
		m, err := NewMemory(cfg.MemorySize)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using in-process cache", zap.Int("size", cfg.MemorySize))
		return m, noop, nil
	}

	logger.Info("Cache disabled")
	return NewNop(), noop, nil
}

// Status 健康检查展示用，缓存状态不影响服务可用性
func Status(c Cache) string {
	switch v := c.(type) {
	case *Redis:
		if v.Connected() {
			return "connected"
		}
		return "disconnected"
	case *Memory:
		return "memory"
	}
	return "disabled"
}
