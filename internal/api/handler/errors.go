package handler

import (
	"errors"
	"strconv"

	"tunepost-go/internal/api/middleware"
	"tunepost-go/internal/api/response"
	"tunepost-go/internal/service"
	"tunepost-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handleServiceError 服务层错误到 HTTP 状态码的统一映射。
// 存储不可用等未知错误一律 500，不向调用方暴露细节
func handleServiceError(c *gin.Context, op string, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ValidationFailed(c, verr.Field, verr.Error())
	case errors.Is(err, service.ErrValidation):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrRecommendationNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrSongNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrNotificationNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrCommentNoPermission):
		response.Forbidden(c, err.Error())
	default:
		logger.Error("Request failed",
			zap.String("op", op),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		response.InternalError(c, "操作失败，请稍后重试")
	}
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.ValidationFailed(c, name, "无效的ID")
		return 0, false
	}
	return id, true
}

// currentUser 认证中间件之后调用
func currentUser(c *gin.Context) (int64, bool) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "未登录")
		return 0, false
	}
	return userID, true
}
