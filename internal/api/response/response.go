package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 错误类型，客户端按 type 区分处理方式：ValidationError 不应重试，InternalServerError 可稍后重试
const (
	TypeValidation   = "ValidationError"
	TypeBadRequest   = "BadRequest"
	TypeUnauthorized = "Unauthorized"
	TypeForbidden    = "Forbidden"
	TypeNotFound     = "NotFound"
	TypeInternal     = "InternalServerError"
)

// Response 成功响应
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorInfo Field 只在参数校验失败时出现
type ErrorInfo struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Field   string `json:"field,omitempty"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Error ErrorInfo `json:"error"`
}

func success(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

// fail 写入错误并中止后续 handler
func fail(c *gin.Context, status int, info ErrorInfo) {
	info.Code = status
	c.AbortWithStatusJSON(status, ErrorResponse{Error: info})
}

func OK(c *gin.Context, message string, data any) {
	success(c, http.StatusOK, message, data)
}

func Created(c *gin.Context, message string, data any) {
	success(c, http.StatusCreated, message, data)
}

// ValidationFailed 400，带出错字段
func ValidationFailed(c *gin.Context, field, message string) {
	fail(c, http.StatusBadRequest, ErrorInfo{Type: TypeValidation, Message: message, Field: field})
}

func BadRequest(c *gin.Context, message string) {
	fail(c, http.StatusBadRequest, ErrorInfo{Type: TypeBadRequest, Message: message})
}

func Unauthorized(c *gin.Context, message string) {
	fail(c, http.StatusUnauthorized, ErrorInfo{Type: TypeUnauthorized, Message: message})
}

func Forbidden(c *gin.Context, message string) {
	fail(c, http.StatusForbidden, ErrorInfo{Type: TypeForbidden, Message: message})
}

func NotFound(c *gin.Context, message string) {
	fail(c, http.StatusNotFound, ErrorInfo{Type: TypeNotFound, Message: message})
}

// InternalError 存储不可用等服务端错误，不暴露细节
func InternalError(c *gin.Context, message string) {
	fail(c, http.StatusInternalServerError, ErrorInfo{Type: TypeInternal, Message: message})
}
