package handler

import (
	"tunepost-go/internal/api/dto"
	"tunepost-go/internal/api/response"
	"tunepost-go/internal/service"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey 重复提交去重
const HeaderIdempotencyKey = "Idempotency-Key"

type VoteHandler struct {
	voteService *service.VoteService
}

func NewVoteHandler(voteService *service.VoteService) *VoteHandler {
	return &VoteHandler{voteService: voteService}
}

// Vote 投票/取消投票/改投
// @Summary 投票
// @Description 同方向重复调用为取消；携带 Idempotency-Key 时同一 key 的重复请求返回首次结果
// @Tags 投票
// @Accept json
// @Produce json
// @Param id path int true "推荐ID"
// @Param Idempotency-Key header string false "请求去重 key"
// @Param body body dto.VoteRequest true "投票方向"
// @Success 200 {object} response.Response{data=dto.VoteResult} "投票成功"
// @Failure 400 {object} response.ErrorResponse "参数错误"
// @Failure 404 {object} response.ErrorResponse "推荐不存在"
// @Router /recommendations/{id}/vote [post]
func (h *VoteHandler) Vote(c *gin.Context) {
	recID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, "direction", "请求参数无效: "+err.Error())
		return
	}

	result, err := h.voteService.CastVote(c.Request.Context(), recID, userID, req.Direction, c.GetHeader(HeaderIdempotencyKey))
	if err != nil {
		handleServiceError(c, "vote", err)
		return
	}
	response.OK(c, "投票成功", result)
}
