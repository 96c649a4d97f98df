package model

import (
	"fmt"
	"time"
)

// NotificationType 通知类型
type NotificationType string

const (
	NotificationComment NotificationType = "comment"
	NotificationVote    NotificationType = "vote"
	NotificationFollow  NotificationType = "follow"
	NotificationNewSong NotificationType = "new_song"
	NotificationMention NotificationType = "mention"
)

// Valid 是否为已知类型
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationComment, NotificationVote, NotificationFollow, NotificationNewSong, NotificationMention:
		return true
	}
	return false
}

// RelatedKind 通知关联实体类型
type RelatedKind string

const (
	RelatedRecommendation RelatedKind = "recommendation"
	RelatedComment        RelatedKind = "comment"
	RelatedUser           RelatedKind = "user"
)

// Notification 通知，创建后只允许 is_read 从 false 变为 true
type Notification struct {
	ID          int64            `gorm:"primaryKey;autoIncrement;comment:通知ID" json:"id"`
	RecipientID int64            `gorm:"not null;index:idx_notifications_recipient_created,priority:1;index:idx_notifications_recipient_unread,priority:1;comment:接收人" json:"recipientId"`
	ActorID     int64            `gorm:"not null;comment:触发人" json:"actorId"`
	Type        NotificationType `gorm:"size:20;not null;comment:通知类型" json:"type"`
	RelatedID   int64            `gorm:"not null;comment:关联实体ID" json:"relatedId"`
	RelatedKind RelatedKind      `gorm:"size:20;not null;comment:关联实体类型" json:"relatedKind"`
	Content     string           `gorm:"type:text;not null;default:'';comment:通知内容" json:"content"`
	IsRead      bool             `gorm:"not null;default:false;index:idx_notifications_recipient_unread,priority:2;comment:是否已读" json:"isRead"`
	CreatedAt   time.Time        `gorm:"autoCreateTime;index:idx_notifications_recipient_created,priority:2;comment:创建时间" json:"createdAt"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotifyCommand 一次通知请求
type NotifyCommand struct {
	RecipientID int64
	ActorID     int64
	Type        NotificationType
	RelatedID   int64
	RelatedKind RelatedKind
	Content     string
}

// Validate 检查类型
func (c NotifyCommand) Validate() error {
	if !c.Type.Valid() {
		return fmt.Errorf("unknown notification type %q", c.Type)
	}
	return nil
}
