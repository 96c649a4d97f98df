package model

import "time"

// Recommendation 歌曲推荐（帖子），票数和评论数只由投票/评论操作修改
type Recommendation struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;comment:推荐标识" json:"id"`
	AuthorID     int64     `gorm:"not null;index:idx_recommendations_author_id;comment:推荐人" json:"authorId"`
	SongID       int64     `gorm:"not null;index:idx_recommendations_song_id;comment:歌曲" json:"songId"`
	Caption      string    `gorm:"type:text;comment:推荐语" json:"caption"`
	Upvotes      int64     `gorm:"not null;default:0;check:chk_recommendations_upvotes,upvotes >= 0;comment:赞数" json:"upvotes"`
	Downvotes    int64     `gorm:"not null;default:0;check:chk_recommendations_downvotes,downvotes >= 0;comment:踩数" json:"downvotes"`
	CommentCount int64     `gorm:"not null;default:0;check:chk_recommendations_comment_count,comment_count >= 0;comment:评论数" json:"commentCount"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index:idx_recommendations_created_at;comment:发布时间" json:"createdAt"`

	Song   Song `gorm:"foreignKey:SongID" json:"song"`
	Author User `gorm:"foreignKey:AuthorID" json:"-"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}
