package repository

import (
	"context"

	"tunepost-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateNotification 写入通知并同事务给接收人未读计数 +1，接收人不存在时整体回滚
func (r *NotificationRepository) CreateNotification(ctx context.Context, n *model.Notification) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(n).Error; err != nil {
			return err
		}
		res := tx.Model(&model.User{}).Where("id = ?", n.RecipientID).
			UpdateColumn("unread_notification_count", gorm.Expr("unread_notification_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate(err)
}

// MarkNotificationRead 单条已读，只有状态真正变化时才 -1。返回是否发生了变化
func (r *NotificationRepository) MarkNotificationRead(ctx context.Context, id, recipientID int64) (bool, error) {
	changed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Notification{}).
			Where("id = ? AND recipient_id = ? AND is_read = ?", id, recipientID, false).
			Update("is_read", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// 已读或不存在
			var n model.Notification
			return tx.Select("id").Where("id = ? AND recipient_id = ?", id, recipientID).Take(&n).Error
		}
		changed = true
		return tx.Model(&model.User{}).Where("id = ?", recipientID).
			UpdateColumn("unread_notification_count", gorm.Expr("GREATEST(unread_notification_count - 1, 0)")).Error
	})
	if err != nil {
		return false, translate(err)
	}
	return changed, nil
}

// MarkAllNotificationsRead 锁住用户行后全部置为已读并清零计数
func (r *NotificationRepository) MarkAllNotificationsRead(ctx context.Context, recipientID int64) (int64, error) {
	var updated int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").
			Where("id = ?", recipientID).Take(&user).Error; err != nil {
			return err
		}

		result := tx.Model(&model.Notification{}).
			Where("recipient_id = ? AND is_read = ?", recipientID, false).
			Update("is_read", true)
		if result.Error != nil {
			return result.Error
		}
		updated = result.RowsAffected

		return tx.Model(&model.User{}).Where("id = ?", recipientID).
			UpdateColumn("unread_notification_count", 0).Error
	})
	if err != nil {
		return 0, translate(err)
	}
	return updated, nil
}

// ListNotifications 按时间倒序分页
func (r *NotificationRepository) ListNotifications(ctx context.Context, recipientID int64, offset, limit int) ([]model.Notification, error) {
	var list []model.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	return list, translate(err)
}

// UnreadCounter 读取增量维护的未读计数
func (r *NotificationRepository) UnreadCounter(ctx context.Context, recipientID int64) (int64, error) {
	var user model.User
	err := r.db.WithContext(ctx).Select("id", "unread_notification_count").
		Where("id = ?", recipientID).Take(&user).Error
	if err != nil {
		return 0, translate(err)
	}
	return user.UnreadNotificationCount, nil
}

// CountUnread 扫描真实未读数
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, translate(err)
}

// SetUnreadCounter 用扫描结果校正计数
func (r *NotificationRepository) SetUnreadCounter(ctx context.Context, recipientID, count int64) error {
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", recipientID).
		UpdateColumn("unread_notification_count", count).Error
	return translate(err)
}
