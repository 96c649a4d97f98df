package handler

import (
	"tunepost-go/internal/api/response"
	"tunepost-go/internal/service"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	followService *service.FollowService
}

func NewFollowHandler(followService *service.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

// Toggle 关注/取关
// @Summary 关注用户
// @Tags 关注
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=dto.FollowToggleResult} "操作成功"
// @Failure 400 {object} response.ErrorResponse "不能关注自己"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /users/{id}/follow [post]
func (h *FollowHandler) Toggle(c *gin.Context) {
	followeeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	result, err := h.followService.Toggle(c.Request.Context(), userID, followeeID)
	if err != nil {
		handleServiceError(c, "follow", err)
		return
	}
	response.OK(c, "操作成功", result)
}
