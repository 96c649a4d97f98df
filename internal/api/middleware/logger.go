package middleware

import (
	"net/http"
	"time"

	"tunepost-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// 探活和指标抓取不记访问日志
var quietPaths = map[string]struct{}{
	"/healthz": {},
	"/metrics": {},
}

// Logger 访问日志，5xx 记 Error，4xx 记 Warn
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := quietPaths[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if userID, ok := GetCurrentUserID(c); ok {
			fields = append(fields, zap.Int64("user_id", userID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		level := zapcore.InfoLevel
		switch {
		case status >= http.StatusInternalServerError:
			level = zapcore.ErrorLevel
		case status >= http.StatusBadRequest:
			level = zapcore.WarnLevel
		}
		if ce := logger.Logger.Check(level, "HTTP request"); ce != nil {
			ce.Write(fields...)
		}
	}
}
