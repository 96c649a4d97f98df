package dto

// SearchRequest 搜索请求参数
type SearchRequest struct {
	Q        string `form:"q"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// SearchResultItem 搜索结果中的推荐
type SearchResultItem struct {
	RecommendationInfo
	Highlight map[string][]string `json:"highlight,omitempty"`
}

// SearchData 搜索结果
type SearchData struct {
	Recommendations []SearchResultItem `json:"recommendations"`
	Total           int64              `json:"total"`
	Page            int                `json:"page"`
	PageSize        int                `json:"pageSize"`
	TotalPages      int64              `json:"totalPages"`
	Source          string             `json:"source"` // elasticsearch 或 database
}
