package dto

import "time"

// TrendingQuery 热门查询参数
type TrendingQuery struct {
	Sort   string `form:"sort"`
	Period string `form:"period"`
	Genre  string `form:"genre"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

// SongInfo 歌曲信息
type SongInfo struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Genre  string `json:"genre"`
}

// RecommendationInfo 推荐信息
type RecommendationInfo struct {
	ID           int64     `json:"id"`
	AuthorID     int64     `json:"authorId"`
	Caption      string    `json:"caption"`
	Song         SongInfo  `json:"song"`
	Upvotes      int64     `json:"upvotes"`
	Downvotes    int64     `json:"downvotes"`
	CommentCount int64     `json:"commentCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TrendingItem 热门列表中的一项，score 只统计窗口内的票
type TrendingItem struct {
	RecommendationInfo
	Score           int64 `json:"score"`
	WindowUpvotes   int64 `json:"windowUpvotes"`
	WindowDownvotes int64 `json:"windowDownvotes"`
}

// TrendingData 热门列表
type TrendingData struct {
	Recommendations []TrendingItem `json:"recommendations"`
	Period          string         `json:"period"`
	Genre           string         `json:"genre"`
	Limit           int            `json:"limit"`
	Offset          int            `json:"offset"`
	Total           int            `json:"total"`
	HasMore         bool           `json:"hasMore"`
	HasPrevious     bool           `json:"hasPrevious"`
}

// CreateRecommendationRequest 发布推荐请求
type CreateRecommendationRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=200"`
	Artist  string `json:"artist" binding:"required,min=1,max=200"`
	Genre   string `json:"genre" binding:"required,min=1,max=50"`
	Caption string `json:"caption" binding:"max=2000"`
}
