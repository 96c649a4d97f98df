package handler

import (
	"tunepost-go/internal/api/dto"
	"tunepost-go/internal/api/response"
	"tunepost-go/internal/service"

	"github.com/gin-gonic/gin"
)

type RankingHandler struct {
	rankingService *service.RankingService
}

func NewRankingHandler(rankingService *service.RankingService) *RankingHandler {
	return &RankingHandler{rankingService: rankingService}
}

// List 排行榜
// @Summary 排行榜
// @Tags 排行榜
// @Produce json
// @Param cohort query string true "curators 或 artists"
// @Param period query string false "today/week/month/all，默认 all"
// @Param limit query int false "条数"
// @Success 200 {object} response.Response{data=dto.RankingData} "获取成功"
// @Failure 400 {object} response.ErrorResponse "参数错误"
// @Router /rankings [get]
func (h *RankingHandler) List(c *gin.Context) {
	var q dto.RankingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	data, err := h.rankingService.Rankings(c.Request.Context(), q)
	if err != nil {
		handleServiceError(c, "rankings", err)
		return
	}
	response.OK(c, "获取成功", data)
}
