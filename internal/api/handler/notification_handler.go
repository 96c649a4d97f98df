package handler

import (
	"strconv"

	"tunepost-go/internal/api/response"
	"tunepost-go/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List 通知列表
// @Summary 通知列表
// @Tags 通知
// @Produce json
// @Param page query int false "页码，从 1 开始"
// @Success 200 {object} response.Response{data=dto.NotificationListData} "获取成功"
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		response.ValidationFailed(c, "page", "页码必须是整数")
		return
	}

	data, err := h.notificationService.List(c.Request.Context(), userID, page)
	if err != nil {
		handleServiceError(c, "list_notifications", err)
		return
	}
	response.OK(c, "获取成功", data)
}

// UnreadCount 未读数
// @Summary 未读通知数
// @Tags 通知
// @Produce json
// @Success 200 {object} response.Response{data=dto.UnreadCountData} "获取成功"
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	data, err := h.notificationService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, "unread_count", err)
		return
	}
	response.OK(c, "获取成功", data)
}

// MarkRead 单条已读
// @Summary 标记已读
// @Tags 通知
// @Produce json
// @Param id path int true "通知ID"
// @Success 200 {object} response.Response{data=dto.MarkReadData} "操作成功"
// @Failure 404 {object} response.ErrorResponse "通知不存在"
// @Router /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	data, err := h.notificationService.MarkRead(c.Request.Context(), userID, id)
	if err != nil {
		handleServiceError(c, "mark_read", err)
		return
	}
	response.OK(c, "操作成功", data)
}

// MarkAllRead 全部已读
// @Summary 全部标记已读
// @Tags 通知
// @Produce json
// @Success 200 {object} response.Response{data=dto.MarkReadData} "操作成功"
// @Router /notifications/mark-all-read [patch]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	data, err := h.notificationService.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, "mark_all_read", err)
		return
	}
	response.OK(c, "操作成功", data)
}
