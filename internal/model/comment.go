package model

import "time"

// Comment 评论，删除时同步减少推荐的评论数
type Comment struct {
	ID               int64     `gorm:"primaryKey;autoIncrement;comment:评论ID" json:"id"`
	RecommendationID int64     `gorm:"not null;index:idx_comments_recommendation_created,priority:1;comment:被评论推荐ID" json:"recommendationId"`
	AuthorID         int64     `gorm:"not null;index:idx_comments_author_id;comment:评论用户ID" json:"authorId"`
	Content          string    `gorm:"type:text;not null;comment:评论内容" json:"content"`
	CreatedAt        time.Time `gorm:"autoCreateTime;index:idx_comments_recommendation_created,priority:2;comment:评论时间" json:"createdAt"`
}

func (Comment) TableName() string {
	return "comments"
}
