package dto

// RankingQuery 排行榜查询参数
type RankingQuery struct {
	Cohort string `form:"cohort"`
	Period string `form:"period"`
	Limit  int    `form:"limit"`
}

// RankingStats 窗口统计，followers 不受窗口限制
type RankingStats struct {
	Recommendations int64 `json:"recommendations"`
	TotalVotes      int64 `json:"totalVotes"`
	Followers       int64 `json:"followers"`
}

// RankingEntry 排行榜一行
type RankingEntry struct {
	UserID   int64        `json:"userId"`
	UserName string       `json:"userName"`
	IsArtist bool         `json:"isArtist"`
	Position int          `json:"position"`
	Medal    string       `json:"medal,omitempty"`
	Stats    RankingStats `json:"stats"`
}

// RankingData 排行榜
type RankingData struct {
	Cohort   string         `json:"cohort"`
	Period   string         `json:"period"`
	Rankings []RankingEntry `json:"rankings"`
}
