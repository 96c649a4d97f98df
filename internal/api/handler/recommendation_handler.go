package handler

import (
	"tunepost-go/internal/api/dto"
	"tunepost-go/internal/api/response"
	"tunepost-go/internal/service"

	"github.com/gin-gonic/gin"
)

type RecommendationHandler struct {
	recService      *service.RecommendationService
	trendingService *service.TrendingService
}

func NewRecommendationHandler(recService *service.RecommendationService, trendingService *service.TrendingService) *RecommendationHandler {
	return &RecommendationHandler{recService: recService, trendingService: trendingService}
}

// List 热门推荐
// @Summary 热门推荐
// @Tags 推荐
// @Produce json
// @Param sort query string false "仅支持 trending"
// @Param period query string false "today/week/month/all，默认 week"
// @Param genre query string false "流派，默认 all"
// @Param limit query int false "条数"
// @Param offset query int false "偏移"
// @Success 200 {object} response.Response{data=dto.TrendingData} "获取成功"
// @Failure 400 {object} response.ErrorResponse "参数错误"
// @Router /recommendations [get]
func (h *RecommendationHandler) List(c *gin.Context) {
	var q dto.TrendingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	data, err := h.trendingService.Trending(c.Request.Context(), q)
	if err != nil {
		handleServiceError(c, "trending", err)
		return
	}
	response.OK(c, "获取成功", data)
}

// Get 推荐详情
// @Summary 推荐详情
// @Tags 推荐
// @Produce json
// @Param id path int true "推荐ID"
// @Success 200 {object} response.Response{data=dto.RecommendationInfo} "获取成功"
// @Failure 404 {object} response.ErrorResponse "推荐不存在"
// @Router /recommendations/{id} [get]
func (h *RecommendationHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	info, err := h.recService.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, "get_recommendation", err)
		return
	}
	response.OK(c, "获取成功", info)
}

// Create 发布推荐
// @Summary 发布推荐
// @Tags 推荐
// @Accept json
// @Produce json
// @Param body body dto.CreateRecommendationRequest true "推荐内容"
// @Success 201 {object} response.Response{data=dto.RecommendationInfo} "发布成功"
// @Failure 400 {object} response.ErrorResponse "参数错误"
// @Router /recommendations [post]
func (h *RecommendationHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateRecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	info, err := h.recService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, "create_recommendation", err)
		return
	}
	response.Created(c, "发布成功", info)
}
