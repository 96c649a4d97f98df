package cache

import (
	"context"
	"fmt"
	"strconv"
)

const (
	NamespaceTrending = "trending"
	NamespaceRankings = "rankings"
)

func generationKey(namespace string) string {
	return "gen:" + namespace
}

// Generation 读取命名空间当前代数，缓存不可用时为 0
func Generation(ctx context.Context, c Cache, namespace string) int64 {
	raw, ok := c.Get(ctx, generationKey(namespace))
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Bump 使命名空间下所有旧 key 失效
func Bump(ctx context.Context, c Cache, namespaces ...string) {
	for _, ns := range namespaces {
		c.Increment(ctx, generationKey(ns))
	}
}

// TrendingKey 热门列表缓存 key
func TrendingKey(gen int64, period, genre string, limit, offset int) string {
	return fmt.Sprintf("trending:v%d:%s:%s:%d:%d", gen, period, genre, limit, offset)
}

// RankingKey 排行榜缓存 key
func RankingKey(gen int64, cohort, period string, limit int) string {
	return fmt.Sprintf("rankings:v%d:%s:%s:%d", gen, cohort, period, limit)
}

// UnreadKey 未读通知数缓存 key
func UnreadKey(userID int64) string {
	return fmt.Sprintf("notifications:unread:%d", userID)
}
