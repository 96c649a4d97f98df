package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID      = "X-Request-ID"
	ContextKeyRequestID  = "requestID"
	maxIncomingRequestID = 128
)

// RequestID 透传或生成请求 ID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > maxIncomingRequestID {
			id = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// GetRequestID 当前请求 ID
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}
