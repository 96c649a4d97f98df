package dto

// FavoriteToggleResult 收藏切换结果
type FavoriteToggleResult struct {
	Action     string `json:"action"` // added / removed
	IsFavorite bool   `json:"isFavorite"`
	SongID     int64  `json:"songId"`
}
