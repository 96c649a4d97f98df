package service

import (
	"context"
	"errors"

	"tunepost-go/internal/model"
	"tunepost-go/internal/repository"
	"tunepost-go/pkg/logger"

	"go.uber.org/zap"
)

// SearchSyncStore 同步索引所需的读接口
type SearchSyncStore interface {
	GetRecommendation(ctx context.Context, id int64) (*model.Recommendation, error)
	ListRecommendationsAfter(ctx context.Context, afterID int64, limit int) ([]model.Recommendation, error)
}

// SearchWriter 索引写接口
type SearchWriter interface {
	Upsert(ctx context.Context, rec *model.Recommendation) error
	Delete(ctx context.Context, id int64) error
	BulkUpsert(ctx context.Context, recs []model.Recommendation) (success, failed int, err error)
}

// SearchSyncService 消费互动事件，把推荐的最新计数写回搜索索引
type SearchSyncService struct {
	store  SearchSyncStore
	writer SearchWriter
}

func NewSearchSyncService(store SearchSyncStore, writer SearchWriter) *SearchSyncService {
	return &SearchSyncService{store: store, writer: writer}
}

// HandleEvent 以数据库为准重写文档；事件只作为触发信号，丢失或重复都不影响最终结果
func (s *SearchSyncService) HandleEvent(ctx context.Context, e *model.EngagementEvent) error {
	if e.RecommendationID <= 0 {
		return nil
	}

	rec, err := s.store.GetRecommendation(ctx, e.RecommendationID)
	if errors.Is(err, repository.ErrNotFound) {
		return s.writer.Delete(ctx, e.RecommendationID)
	}
	if err != nil {
		return err
	}
	return s.writer.Upsert(ctx, rec)
}

// Reindex 全量重建，按 id 游标分批
func (s *SearchSyncService) Reindex(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 500
	}

	var afterID int64
	total := 0
	for {
		recs, err := s.store.ListRecommendationsAfter(ctx, afterID, batchSize)
		if err != nil {
			return total, err
		}
		if len(recs) == 0 {
			break
		}

		ok, failed, err := s.writer.BulkUpsert(ctx, recs)
		if err != nil {
			return total, err
		}
		if failed > 0 {
			logger.Warn("Some documents failed to index", zap.Int("failed", failed), zap.Int64("after_id", afterID))
		}
		total += ok
		afterID = recs[len(recs)-1].ID
	}

	logger.Info("Search index rebuilt", zap.Int("documents", total))
	return total, nil
}
