package dto

import "time"

// CommentCreateRequest 发表评论请求
type CommentCreateRequest struct {
	Content string `json:"content" binding:"required,min=1,max=1000"`
}

// CommentInfo 评论信息
type CommentInfo struct {
	ID               int64     `json:"id"`
	RecommendationID int64     `json:"recommendationId"`
	AuthorID         int64     `json:"authorId"`
	Content          string    `json:"content"`
	Mentions         []string  `json:"mentions,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}
