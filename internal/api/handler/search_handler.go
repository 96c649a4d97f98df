package handler

import (
	"tunepost-go/internal/api/dto"
	"tunepost-go/internal/api/response"
	"tunepost-go/internal/service"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	searchService *service.SearchService
}

func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search 搜索推荐
// @Summary 搜索推荐
// @Description Elasticsearch 不可用时降级为数据库模糊匹配
// @Tags 推荐
// @Produce json
// @Param q query string false "关键词"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=dto.SearchData} "搜索成功"
// @Router /recommendations/search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	data, err := h.searchService.Search(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, "search", err)
		return
	}
	response.OK(c, "搜索成功", data)
}
