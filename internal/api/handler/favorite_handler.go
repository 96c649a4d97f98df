package handler

import (
	"tunepost-go/internal/api/response"
	"tunepost-go/internal/service"

	"github.com/gin-gonic/gin"
)

type FavoriteHandler struct {
	favoriteService *service.FavoriteService
}

func NewFavoriteHandler(favoriteService *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// Toggle 收藏/取消收藏
// @Summary 收藏歌曲
// @Tags 收藏
// @Produce json
// @Param songId path int true "歌曲ID"
// @Success 200 {object} response.Response{data=dto.FavoriteToggleResult} "操作成功"
// @Failure 404 {object} response.ErrorResponse "歌曲不存在"
// @Router /favorites/{songId} [post]
func (h *FavoriteHandler) Toggle(c *gin.Context) {
	songID, ok := parseIDParam(c, "songId")
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	result, err := h.favoriteService.Toggle(c.Request.Context(), userID, songID)
	if err != nil {
		handleServiceError(c, "favorite", err)
		return
	}
	response.OK(c, "操作成功", result)
}
