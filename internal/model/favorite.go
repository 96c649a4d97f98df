package model

import "time"

// Favorite 歌曲收藏，(user_id, song_id) 唯一
type Favorite struct {
	ID      int64     `gorm:"primaryKey;autoIncrement;comment:收藏记录ID" json:"id"`
	UserID  int64     `gorm:"not null;uniqueIndex:uq_favorites_user_song,priority:1;comment:收藏用户ID" json:"userId"`
	SongID  int64     `gorm:"not null;uniqueIndex:uq_favorites_user_song,priority:2;index:idx_favorites_song_id;comment:歌曲ID" json:"songId"`
	SavedAt time.Time `gorm:"autoCreateTime;comment:收藏时间" json:"savedAt"`
}

func (Favorite) TableName() string {
	return "favorites"
}
