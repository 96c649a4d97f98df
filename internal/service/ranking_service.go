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

type RankingService struct {
	store    RankingStore
	cache    cache.Cache
	ttl      time.Duration
	maxLimit int
	now      func() time.Time
}

func NewRankingService(store RankingStore, c cache.Cache, cfg *config.EngagementConfig) *RankingService {
	return &RankingService{
		store:    store,
		cache:    c,
		ttl:      cfg.RankingCacheTTL(),
		maxLimit: cfg.MaxLimit,
		now:      time.Now,
	}
}

// Rankings 人群排行榜，名次严格递增，前三名带奖牌标识
func (s *RankingService) Rankings(ctx context.Context, q dto.RankingQuery) (*dto.RankingData, error) {
	cohort, err := model.ParseCohort(q.Cohort)
	if err != nil {
		return nil, invalid("cohort", "必须是 curators 或 artists")
	}

	periodToken := q.Period
	if periodToken == "" {
		periodToken = string(model.PeriodAll)
	}
	period, err := model.ParsePeriod(periodToken)
	if err != nil {
		return nil, invalid("period", "必须是 today/week/month/all")
	}

	limit, err := normalizeLimit(q.Limit, s.maxLimit)
	if err != nil {
		return nil, err
	}

	gen := cache.Generation(ctx, s.cache, cache.NamespaceRankings)
	key := cache.RankingKey(gen, string(cohort), string(period), limit)

	var cached dto.RankingData
	if cache.GetJSON(ctx, s.cache, key, &cached) {
		return &cached, nil
	}

	rows, err := s.store.AuthorTallies(ctx, cohort, period.Since(s.now()))
	if err != nil {
		return nil, err
	}

	standings := ranking.Leaderboard(rows, limit)
	entries := make([]dto.RankingEntry, 0, len(standings))
	for _, st := range standings {
		entries = append(entries, dto.RankingEntry{
			UserID:   st.UserID,
			UserName: st.UserName,
			IsArtist: st.IsArtist,
			Position: st.Position,
			Medal:    string(st.Medal),
			Stats: dto.RankingStats{
				Recommendations: st.Recommendations,
				TotalVotes:      st.TotalVotes,
				Followers:       st.Followers,
			},
		})
	}

	data := &dto.RankingData{
		Cohort:   string(cohort),
		Period:   string(period),
		Rankings: entries,
	}
	cache.SetJSON(ctx, s.cache, key, data, cacheTTL(period, s.ttl))
	return data, nil
}
