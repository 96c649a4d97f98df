package handler

import (
	"context"
	"net/http"
	"time"

	"tunepost-go/internal/cache"
	"tunepost-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger 检查存储是否可达
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	ping    Pinger
	cache   cache.Cache
	service string
	version string
}

func NewHealthHandler(ping Pinger, c cache.Cache, service, version string) *HealthHandler {
	return &HealthHandler{ping: ping, cache: c, service: service, version: version}
}

// Check GET /healthz，数据库不可达返回 503；缓存只报告状态
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, code, dbStatus := "ok", http.StatusOK, "up"
	if err := h.ping(ctx); err != nil {
		logger.Warn("Health check: database unreachable", zap.Error(err))
		status, code, dbStatus = "degraded", http.StatusServiceUnavailable, "down"
	}

	c.JSON(code, gin.H{
		"status":    status,
		"database":  dbStatus,
		"cache":     cache.Status(h.cache),
		"service":   h.service,
		"version":   h.version,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
