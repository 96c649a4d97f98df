package service

import (
	"time"

	"tunepost-go/internal/model"
)

const (
	defaultLimit = 20
	// maxCacheTTL 热门/排行缓存时间上限，配置更大也按它截断
	maxCacheTTL = 5 * time.Minute
)

// normalizeLimit 0 表示使用默认值，越界返回校验错误
func normalizeLimit(limit, maxLimit int) (int, error) {
	if maxLimit <= 0 {
		maxLimit = 100
	}
	if limit == 0 {
		return min(defaultLimit, maxLimit), nil
	}
	if limit < 0 || limit > maxLimit {
		return 0, invalid("limit", "必须在 1 到 %d 之间", maxLimit)
	}
	return limit, nil
}

// cacheTTL 缓存时间不超过统计窗口，也不超过 maxCacheTTL
func cacheTTL(p model.Period, ceiling time.Duration) time.Duration {
	if ceiling <= 0 || ceiling > maxCacheTTL {
		ceiling = maxCacheTTL
	}
	if w := p.Window(); w > 0 && w < ceiling {
		return w
	}
	return ceiling
}
