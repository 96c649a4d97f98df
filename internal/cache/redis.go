package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"tunepost-go/internal/metrics"
	"tunepost-go/pkg/logger"

	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// RedisOptions Redis 缓存行为参数
type RedisOptions struct {
	OpTimeout         time.Duration
	ReconnectAttempts int
	ReconnectInterval time.Duration
	BreakerFailures   uint32
}

func (o *RedisOptions) normalize() {
	if o.OpTimeout <= 0 {
		o.OpTimeout = 200 * time.Millisecond
	}
	if o.ReconnectAttempts <= 0 {
		o.ReconnectAttempts = 5
	}
	if o.ReconnectInterval <= 0 {
		o.ReconnectInterval = 2 * time.Second
	}
	if o.BreakerFailures == 0 {
		o.BreakerFailures = 3
	}
}

// Redis 基于 go-redis 的 fail-soft 缓存。
// 断开期间所有操作直接返回未命中，后台按固定间隔尝试重连，
// 每轮最多 ReconnectAttempts 次，一轮耗尽后由下一次操作触发新一轮。
type Redis struct {
	client  *redis.Client
	opts    RedisOptions
	breaker *gobreaker.CircuitBreaker[any]

	connected    atomic.Bool
	reconnecting atomic.Bool
	closeOnce    sync.Once
	done         chan struct{}
}

// NewRedis 包装已创建的客户端。初次 ping 失败不会返回错误，缓存只是以断开状态启动。
func NewRedis(client *redis.Client, opts RedisOptions) *Redis {
	opts.normalize()
	r := &Redis{
		client: client,
		opts:   opts,
		done:   make(chan struct{}),
	}
	r.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "redis-cache",
		MaxRequests: 1,
		Timeout:     opts.ReconnectInterval,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.BreakerFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Cache circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if to == gobreaker.StateOpen {
				r.markDisconnected()
			}
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), opts.OpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Cache unavailable at startup, continuing without it", zap.Error(err))
		r.markDisconnected()
	} else {
		r.markConnected()
	}
	return r
}

// Connected 当前是否认为后端可用
func (r *Redis) Connected() bool {
	return r.connected.Load()
}

func (r *Redis) markConnected() {
	r.connected.Store(true)
	metrics.CacheConnected.Set(1)
}

func (r *Redis) markDisconnected() {
	r.connected.Store(false)
	metrics.CacheConnected.Set(0)
	r.startReconnect()
}

// startReconnect 同一时刻最多一个重连协程
func (r *Redis) startReconnect() {
	if !r.reconnecting.CompareAndSwap(false, true) {
		return
	}
	go r.reconnectLoop()
}

func (r *Redis) reconnectLoop() {
	defer r.reconnecting.Store(false)

	ticker := time.NewTicker(r.opts.ReconnectInterval)
	defer ticker.Stop()

	for attempt := 1; attempt <= r.opts.ReconnectAttempts; attempt++ {
		select {
		case <-r.done:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), r.opts.OpTimeout)
		err := r.client.Ping(ctx).Err()
		cancel()
		if err == nil {
			logger.Info("Cache reconnected", zap.Int("attempt", attempt))
			r.markConnected()
			return
		}
		logger.Debug("Cache reconnect attempt failed", zap.Int("attempt", attempt), zap.Error(err))
	}
	logger.Warn("Cache reconnect attempts exhausted", zap.Int("attempts", r.opts.ReconnectAttempts))
}

// exec 在断路器和单次超时保护下执行一个命令
func (r *Redis) exec(ctx context.Context, op string, fn func(ctx context.Context) error) bool {
	if !r.connected.Load() {
		record(op, "skipped")
		r.startReconnect()
		return false
	}

	_, err := r.breaker.Execute(func() (any, error) {
		cctx, cancel := context.WithTimeout(ctx, r.opts.OpTimeout)
		defer cancel()
		return nil, fn(cctx)
	})
	switch {
	case err == nil:
		return true
	case errors.Is(err, redis.Nil):
		record(op, "miss")
		return false
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		record(op, "skipped")
		return false
	}
	record(op, "failed")
	logger.Debug("Cache operation failed", zap.String("op", op), zap.Error(err))
	return false
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	var value []byte
	ok := r.exec(ctx, "get", func(ctx context.Context) error {
		b, err := r.client.Get(ctx, key).Bytes()
		value = b
		return err
	})
	if ok {
		record("get", "hit")
	}
	return value, ok
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	ok := r.exec(ctx, "set", func(ctx context.Context) error {
		return r.client.Set(ctx, key, value, ttl).Err()
	})
	if ok {
		record("set", "ok")
	}
	return ok
}

func (r *Redis) Delete(ctx context.Context, key string) bool {
	return r.exec(ctx, "delete", func(ctx context.Context) error {
		return r.client.Del(ctx, key).Err()
	})
}

func (r *Redis) Exists(ctx context.Context, key string) bool {
	var n int64
	ok := r.exec(ctx, "exists", func(ctx context.Context) error {
		var err error
		n, err = r.client.Exists(ctx, key).Result()
		return err
	})
	return ok && n > 0
}

func (r *Redis) Increment(ctx context.Context, key string) (int64, bool) {
	var n int64
	ok := r.exec(ctx, "incr", func(ctx context.Context) error {
		var err error
		n, err = r.client.Incr(ctx, key).Result()
		return err
	})
	if !ok {
		return 0, false
	}
	return n, true
}

// Close 停止重连并关闭客户端
func (r *Redis) Close() error {
	var err error
	r.closeOnce.Do(func() {
		close(r.done)
		err = r.client.Close()
	})
	return err
}

var _ Cache = (*Redis)(nil)
