package service

import (
	"context"
	"strings"

	"tunepost-go/internal/api/dto"
	"tunepost-go/internal/model"
	"tunepost-go/pkg/logger"

	"go.uber.org/zap"
)

const (
	sourceElasticsearch = "elasticsearch"
	sourceDatabase      = "database"
)

type SearchService struct {
	recs  RecommendationStore
	index SearchIndex
}

// NewSearchService index 为 nil 时直接走数据库
func NewSearchService(recs RecommendationStore, index SearchIndex) *SearchService {
	return &SearchService{recs: recs, index: index}
}

// Search 搜索推荐（ES 优先，失败则降级到 DB）
func (s *SearchService) Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchData, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}
	req.Q = strings.TrimSpace(req.Q)

	if s.index != nil {
		data, err := s.searchFromIndex(ctx, req)
		if err == nil {
			return data, nil
		}
		logger.Warn("ES search failed, fallback to DB", zap.Error(err))
	}
	return s.searchFromDB(ctx, req)
}

func (s *SearchService) searchFromIndex(ctx context.Context, req *dto.SearchRequest) (*dto.SearchData, error) {
	hits, err := s.index.SearchRecommendations(ctx, req.Q, (req.Page-1)*req.PageSize, req.PageSize)
	if err != nil {
		return nil, err
	}

	recs, err := s.recs.GetRecommendationsByIDs(ctx, hits.IDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*model.Recommendation, len(recs))
	for i := range recs {
		byID[recs[i].ID] = &recs[i]
	}

	// 保持 ES 的相关度顺序，索引里残留的已删除记录直接跳过
	ordered := make([]model.Recommendation, 0, len(hits.IDs))
	for _, id := range hits.IDs {
		if r, ok := byID[id]; ok {
			ordered = append(ordered, *r)
		}
	}
	return buildSearchData(ordered, hits.Highlights, hits.Total, req, sourceElasticsearch), nil
}

func (s *SearchService) searchFromDB(ctx context.Context, req *dto.SearchRequest) (*dto.SearchData, error) {
	recs, total, err := s.recs.SearchRecommendations(ctx, req.Q, (req.Page-1)*req.PageSize, req.PageSize)
	if err != nil {
		return nil, err
	}
	return buildSearchData(recs, nil, total, req, sourceDatabase), nil
}

func buildSearchData(recs []model.Recommendation, highlights map[int64]map[string][]string, total int64, req *dto.SearchRequest, source string) *dto.SearchData {
	items := make([]dto.SearchResultItem, 0, len(recs))
	for i := range recs {
		items = append(items, dto.SearchResultItem{
			RecommendationInfo: toRecommendationInfo(&recs[i]),
			Highlight:          highlights[recs[i].ID],
		})
	}

	totalPages := (total + int64(req.PageSize) - 1) / int64(req.PageSize)
	return &dto.SearchData{
		Recommendations: items,
		Total:           total,
		Page:            req.Page,
		PageSize:        req.PageSize,
		TotalPages:      totalPages,
		Source:          source,
	}
}
