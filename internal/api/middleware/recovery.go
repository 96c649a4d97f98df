package middleware

import (
	"tunepost-go/internal/api/response"
	"tunepost-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery 捕获 panic，返回统一的 500 错误体
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.Error("Panic recovered",
			zap.Any("panic", recovered),
			zap.String("request_id", GetRequestID(c)),
			zap.String("route", c.FullPath()),
			zap.Stack("stack"),
		)
		response.InternalError(c, "服务器内部错误")
	})
}
