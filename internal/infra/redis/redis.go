package redis

import (
	"fmt"

	"tunepost-go/internal/config"
	"tunepost-go/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewClient 根据 cache.url 创建客户端。
// 重试关闭、超时与单次缓存操作超时一致，连接失败交给上层的 fail-soft 缓存处理。
func NewClient(cfg *config.CacheConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cache url: %w", err)
	}

	timeout := cfg.OpTimeout()
	opts.MaxRetries = -1
	opts.DialTimeout = timeout
	opts.ReadTimeout = timeout
	opts.WriteTimeout = timeout
	opts.PoolTimeout = timeout

	logger.Info("Redis client configured",
		zap.String("addr", opts.Addr),
		zap.Int("db", opts.DB),
		zap.Duration("op_timeout", timeout),
	)

	return redis.NewClient(opts), nil
}
