package repository

import (
	"context"

	"tunepost-go/internal/model"

	"gorm.io/gorm"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// ToggleFavorite 已收藏则取消，否则收藏。返回操作后是否处于收藏状态
func (r *FavoriteRepository) ToggleFavorite(ctx context.Context, userID, songID int64) (bool, error) {
	saved := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND song_id = ?", userID, songID).Delete(&model.Favorite{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
		saved = true
		return tx.Create(&model.Favorite{UserID: userID, SongID: songID}).Error
	})
	if err != nil {
		return false, translate(err)
	}
	return saved, nil
}

// IsFavorite 检查是否已收藏
func (r *FavoriteRepository) IsFavorite(ctx context.Context, userID, songID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Favorite{}).
		Where("user_id = ? AND song_id = ?", userID, songID).
		Count(&count).Error
	return count > 0, translate(err)
}

// GetSong 根据 ID 查询歌曲
func (r *FavoriteRepository) GetSong(ctx context.Context, id int64) (*model.Song, error) {
	var song model.Song
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&song).Error; err != nil {
		return nil, translate(err)
	}
	return &song, nil
}
