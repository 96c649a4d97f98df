package repository

import (
	"context"

	"tunepost-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecommendationRepository struct {
	db *gorm.DB
}

func NewRecommendationRepository(db *gorm.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

// GetRecommendation 根据 ID 获取推荐（含歌曲）
func (r *RecommendationRepository) GetRecommendation(ctx context.Context, id int64) (*model.Recommendation, error) {
	var rec model.Recommendation
	err := r.db.WithContext(ctx).Preload("Song").Where("id = ?", id).Take(&rec).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

// GetRecommendationsByIDs 批量获取，顺序不保证
func (r *RecommendationRepository) GetRecommendationsByIDs(ctx context.Context, ids []int64) ([]model.Recommendation, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var recs []model.Recommendation
	err := r.db.WithContext(ctx).Preload("Song").Where("id IN ?", ids).Find(&recs).Error
	return recs, translate(err)
}

// ListRecommendationsAfter 按 id 游标分页扫描，重建索引用
func (r *RecommendationRepository) ListRecommendationsAfter(ctx context.Context, afterID int64, limit int) ([]model.Recommendation, error) {
	var recs []model.Recommendation
	err := r.db.WithContext(ctx).Preload("Song").
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&recs).Error
	return recs, translate(err)
}

// CreateRecommendation 创建推荐，歌曲按 (title, artist, genre) 复用
func (r *RecommendationRepository) CreateRecommendation(ctx context.Context, rec *model.Recommendation) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		song := rec.Song
		if err := tx.Where("title = ? AND artist = ? AND genre = ?", song.Title, song.Artist, song.Genre).
			FirstOrCreate(&song).Error; err != nil {
			return err
		}
		rec.SongID = song.ID
		rec.Song = song
		return tx.Omit(clause.Associations).Create(rec).Error
	})
	return translate(err)
}

// TrendingTallies 返回窗口内创建的推荐及其窗口内票数
func (r *RecommendationRepository) TrendingTallies(ctx context.Context, filter model.TrendingFilter) ([]model.PostTally, error) {
	voteJoin := "LEFT JOIN votes v ON v.recommendation_id = r.id"
	var voteArgs []any
	if !filter.Since.IsZero() {
		voteJoin += " AND v.voted_at >= ?"
		voteArgs = append(voteArgs, filter.Since)
	}

	query := r.db.WithContext(ctx).Table("recommendations AS r").
		Select(`r.id AS recommendation_id, r.author_id, r.created_at,
			COALESCE(SUM(CASE WHEN v.direction = 1 THEN 1 ELSE 0 END), 0) AS upvotes,
			COALESCE(SUM(CASE WHEN v.direction = -1 THEN 1 ELSE 0 END), 0) AS downvotes`).
		Joins("JOIN songs s ON s.id = r.song_id").
		Joins(voteJoin, voteArgs...).
		Group("r.id, r.author_id, r.created_at")

	if !filter.Since.IsZero() {
		query = query.Where("r.created_at >= ?", filter.Since)
	}
	if filter.Genre != "" {
		query = query.Where("s.genre = ?", filter.Genre)
	}

	var rows []model.PostTally
	if err := query.Scan(&rows).Error; err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

// SearchRecommendations 数据库模糊搜索（ES 不可用时的降级路径）
func (r *RecommendationRepository) SearchRecommendations(ctx context.Context, q string, offset, limit int) ([]model.Recommendation, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Recommendation{}).
		Joins("JOIN songs ON songs.id = recommendations.song_id")

	if q != "" {
		like := "%" + q + "%"
		query = query.Where("songs.title ILIKE ? OR songs.artist ILIKE ? OR recommendations.caption ILIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var recs []model.Recommendation
	err := query.Preload("Song").
		Order("recommendations.created_at DESC, recommendations.id DESC").
		Offset(offset).Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return recs, total, nil
}
