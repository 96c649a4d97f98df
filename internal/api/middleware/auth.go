package middleware

import (
	"strings"

	"tunepost-go/internal/api/response"
	"tunepost-go/pkg/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	ContextKeyUserID = "currentUserID"

	// SessionKeyUserID 认证服务写入会话的用户 ID
	SessionKeyUserID = "user_id"
)

// AuthRequired 会话认证中间件。会话由认证服务签发，这里只读取；
// 没有会话 Cookie 时接受 Bearer Token（API 客户端）
func AuthRequired(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := sessionUserID(c); ok {
			c.Set(ContextKeyUserID, userID)
			c.Next()
			return
		}

		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "未登录")
			return
		}

		claims, err := utils.ParseToken(token, jwtSecret)
		if err != nil {
			response.Unauthorized(c, "无效或过期的认证令牌")
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Next()
	}
}

// GetCurrentUserID 从 Gin Context 中获取当前登录用户 ID
func GetCurrentUserID(c *gin.Context) (int64, bool) {
	val, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0, false
	}
	userID, ok := val.(int64)
	return userID, ok
}

func sessionUserID(c *gin.Context) (int64, bool) {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return 0, false
	}
	var id int64
	switch v := sessions.Default(c).Get(SessionKeyUserID).(type) {
	case int64:
		id = v
	case int:
		id = int64(v)
	case float64:
		id = int64(v)
	}
	return id, id > 0
}

// extractToken 从 Authorization 头中提取 Bearer Token
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
