package dto

import "time"

// NotificationInfo 通知信息
type NotificationInfo struct {
	ID          int64     `json:"id"`
	ActorID     int64     `json:"actorId"`
	Type        string    `json:"type"`
	RelatedID   int64     `json:"relatedId"`
	RelatedKind string    `json:"relatedKind"`
	Content     string    `json:"content"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NotificationListData 通知列表
type NotificationListData struct {
	Notifications []NotificationInfo `json:"notifications"`
	UnreadCount   int64              `json:"unreadCount"`
	HasMore       bool               `json:"hasMore"`
	Page          int                `json:"page"`
	PageSize      int                `json:"pageSize"`
}

// UnreadCountData 未读数
type UnreadCountData struct {
	Count int64 `json:"count"`
}

// MarkReadData 已读操作结果，重复标记同样返回成功
type MarkReadData struct {
	Success bool  `json:"success"`
	Updated int64 `json:"updated"`
}
