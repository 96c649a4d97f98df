package service

import (
	"errors"
	"fmt"
)

// ErrValidation 所有输入校验错误都可以用 errors.Is 匹配到它
var ErrValidation = errors.New("参数错误")

var (
	ErrRecommendationNotFound = errors.New("推荐不存在")
	ErrUserNotFound           = errors.New("用户不存在")
	ErrSongNotFound           = errors.New("歌曲不存在")
	ErrCommentNotFound        = errors.New("评论不存在")
	ErrCommentNoPermission    = errors.New("没有权限操作该评论")
	ErrNotificationNotFound   = errors.New("通知不存在")
)

// ValidationError 在访问存储之前拒绝的非法输入，不应重试
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
