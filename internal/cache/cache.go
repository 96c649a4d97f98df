// Package cache 提供尽力而为的键值缓存。
//
// 所有实现都必须是 fail-soft 的：后端不可用时读返回未命中、写返回 false，
// 调用方把这两种结果当作冷缓存处理，而不是错误。
package cache

import (
	"context"
	"time"

	"tunepost-go/internal/metrics"
	"tunepost-go/pkg/logger"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Cache 缓存门面
type Cache interface {
	// Get 未命中或后端不可用都返回 false
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set 写入成功返回 true
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool
	Delete(ctx context.Context, key string) bool
	Exists(ctx context.Context, key string) bool
	// Increment 不存在的 key 视为 0，失败返回 (0, false)
	Increment(ctx context.Context, key string) (int64, bool)
}

// GetJSON 读取并反序列化，解码失败视为未命中并删除脏数据
func GetJSON(ctx context.Context, c Cache, key string, dst any) bool {
	raw, ok := c.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		logger.Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		c.Delete(ctx, key)
		return false
	}
	return true
}

// SetJSON 序列化后写入
func SetJSON(ctx context.Context, c Cache, key string, value any, ttl time.Duration) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		logger.Warn("Failed to encode cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return c.Set(ctx, key, raw, ttl)
}

func record(op, result string) {
	metrics.CacheOperations.WithLabelValues(op, result).Inc()
}
