package repository

import (
	"context"

	"tunepost-go/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// CreateComment 创建评论并同事务增加推荐评论数
func (r *CommentRepository) CreateComment(ctx context.Context, comment *model.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Recommendation{}).Where("id = ?", comment.RecommendationID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(comment).Error
	})
	return translate(err)
}

// GetComment 根据 ID 获取评论
func (r *CommentRepository) GetComment(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&comment).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

// DeleteComment 删除评论并同事务减少推荐评论数（不低于 0）
func (r *CommentRepository) DeleteComment(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment model.Comment
		if err := tx.Where("id = ?", id).Take(&comment).Error; err != nil {
			return err
		}
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&model.Recommendation{}).
			Where("id = ? AND comment_count > 0", comment.RecommendationID).
			UpdateColumn("comment_count", gorm.Expr("comment_count - 1")).Error
	})
	return translate(err)
}
