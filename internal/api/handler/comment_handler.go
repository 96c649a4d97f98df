package handler

import (
	"tunepost-go/internal/api/dto"
	"tunepost-go/internal/api/response"
	"tunepost-go/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// Create 发表评论
// @Summary 发表评论
// @Description 评论中的 @用户名 会通知对应用户
// @Tags 评论
// @Accept json
// @Produce json
// @Param id path int true "推荐ID"
// @Param body body dto.CommentCreateRequest true "评论内容"
// @Success 201 {object} response.Response{data=dto.CommentInfo} "发表成功"
// @Failure 404 {object} response.ErrorResponse "推荐不存在"
// @Router /recommendations/{id}/comments [post]
func (h *CommentHandler) Create(c *gin.Context) {
	recID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CommentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, "content", "请求参数无效: "+err.Error())
		return
	}

	info, err := h.commentService.Create(c.Request.Context(), userID, recID, &req)
	if err != nil {
		handleServiceError(c, "create_comment", err)
		return
	}
	response.Created(c, "发表评论成功", info)
}

// Delete 删除评论
// @Summary 删除评论
// @Tags 评论
// @Produce json
// @Param id path int true "评论ID"
// @Success 200 {object} response.Response "删除成功"
// @Failure 403 {object} response.ErrorResponse "无权限"
// @Failure 404 {object} response.ErrorResponse "评论不存在"
// @Router /comments/{id} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), userID, commentID); err != nil {
		handleServiceError(c, "delete_comment", err)
		return
	}
	response.OK(c, "删除评论成功", nil)
}
