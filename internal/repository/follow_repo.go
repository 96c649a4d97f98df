package repository

import (
	"context"

	"tunepost-go/internal/model"

	"gorm.io/gorm"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// ToggleFollow 已关注则取消，否则关注；同事务维护双方计数。返回操作后是否处于关注状态
func (r *FollowRepository) ToggleFollow(ctx context.Context, followerID, followeeID int64) (bool, error) {
	following := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).Delete(&model.Follow{})
		if result.Error != nil {
			return result.Error
		}

		delta := -1
		if result.RowsAffected == 0 {
			if err := tx.Create(&model.Follow{FollowerID: followerID, FolloweeID: followeeID}).Error; err != nil {
				return err
			}
			following = true
			delta = 1
		}

		if err := tx.Model(&model.User{}).Where("id = ?", followerID).
			UpdateColumn("follow_count", gorm.Expr("GREATEST(follow_count + ?, 0)", delta)).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).Where("id = ?", followeeID).
			UpdateColumn("follower_count", gorm.Expr("GREATEST(follower_count + ?, 0)", delta)).Error
	})
	if err != nil {
		return false, translate(err)
	}
	return following, nil
}

// IsFollowing 检查关注关系是否存在
func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	return count > 0, translate(err)
}

// FollowerIDs 获取用户的全部粉丝 ID（新歌通知扇出）
func (r *FollowRepository) FollowerIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).
		Where("followee_id = ?", userID).
		Order("follower_id").
		Pluck("follower_id", &ids).Error
	return ids, translate(err)
}
