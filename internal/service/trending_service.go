package service

import (
	"context"
	"time"

	"tunepost-go/internal/api/dto"
	"tunepost-go/internal/cache"
	"tunepost-go/internal/config"
	"tunepost-go/internal/model"
	"tunepost-go/internal/ranking"
)

const (
	genreAll    = "all"
	maxGenreLen = 50
)

type TrendingService struct {
	recs     RecommendationStore
	cache    cache.Cache
	ttl      time.Duration
	maxLimit int
	now      func() time.Time
}

func NewTrendingService(recs RecommendationStore, c cache.Cache, cfg *config.EngagementConfig) *TrendingService {
	return &TrendingService{
		recs:     recs,
		cache:    c,
		ttl:      cfg.TrendingCacheTTL(),
		maxLimit: cfg.MaxLimit,
		now:      time.Now,
	}
}

// Trending 按窗口得分排序的推荐列表。缓存命中与否不影响结果，只影响耗时
func (s *TrendingService) Trending(ctx context.Context, q dto.TrendingQuery) (*dto.TrendingData, error) {
	if q.Sort != "" && q.Sort != "trending" {
		return nil, invalid("sort", "仅支持 trending")
	}

	periodToken := q.Period
	if periodToken == "" {
		periodToken = string(model.PeriodWeek)
	}
	period, err := model.ParsePeriod(periodToken)
	if err != nil {
		return nil, invalid("period", "必须是 today/week/month/all")
	}

	genre := q.Genre
	if genre == "" {
		genre = genreAll
	}
	if len(genre) > maxGenreLen {
		return nil, invalid("genre", "长度不能超过 %d", maxGenreLen)
	}

	limit, err := normalizeLimit(q.Limit, s.maxLimit)
	if err != nil {
		return nil, err
	}
	if q.Offset < 0 {
		return nil, invalid("offset", "不能为负数")
	}

	gen := cache.Generation(ctx, s.cache, cache.NamespaceTrending)
	key := cache.TrendingKey(gen, string(period), genre, limit, q.Offset)

	var cached dto.TrendingData
	if cache.GetJSON(ctx, s.cache, key, &cached) {
		return &cached, nil
	}

	data, err := s.compute(ctx, period, genre, limit, q.Offset)
	if err != nil {
		return nil, err
	}
	cache.SetJSON(ctx, s.cache, key, data, cacheTTL(period, s.ttl))
	return data, nil
}

func (s *TrendingService) compute(ctx context.Context, period model.Period, genre string, limit, offset int) (*dto.TrendingData, error) {
	filter := model.TrendingFilter{Since: period.Since(s.now())}
	if genre != genreAll {
		filter.Genre = genre
	}

	tallies, err := s.recs.TrendingTallies(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := ranking.Trending(tallies, limit, offset)

	ids := make([]int64, len(page))
	for i, p := range page {
		ids[i] = p.RecommendationID
	}
	recs, err := s.recs.GetRecommendationsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*model.Recommendation, len(recs))
	for i := range recs {
		byID[recs[i].ID] = &recs[i]
	}

	items := make([]dto.TrendingItem, 0, len(page))
	for _, p := range page {
		rec, ok := byID[p.RecommendationID]
		if !ok {
			continue
		}
		items = append(items, dto.TrendingItem{
			RecommendationInfo: toRecommendationInfo(rec),
			Score:              p.Score,
			WindowUpvotes:      p.Upvotes,
			WindowDownvotes:    p.Downvotes,
		})
	}

	return &dto.TrendingData{
		Recommendations: items,
		Period:          string(period),
		Genre:           genre,
		Limit:           limit,
		Offset:          offset,
		Total:           len(tallies),
		HasMore:         offset+len(page) < len(tallies),
		HasPrevious:     offset > 0,
	}, nil
}
