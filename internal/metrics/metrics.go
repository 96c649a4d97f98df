package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheOperations 缓存操作计数，result: hit/miss/ok/failed/skipped
	CacheOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tunepost_cache_operations_total",
		Help: "Cache operations by operation and result",
	}, []string{"op", "result"})

	// CacheConnected 1 表示缓存后端可用
	CacheConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tunepost_cache_connected",
		Help: "Whether the cache backend is currently reachable",
	})

	// VoteTransitions 投票状态转移计数
	VoteTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tunepost_vote_transitions_total",
		Help: "Vote transitions by action",
	}, []string{"action"})

	// Notifications 通知分发计数，result: created/suppressed/failed
	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tunepost_notifications_total",
		Help: "Notifications by type and dispatch result",
	}, []string{"type", "result"})
)
