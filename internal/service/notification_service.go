package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"tunepost-go/internal/api/dto"
	"tunepost-go/internal/cache"
	"tunepost-go/internal/config"
	"tunepost-go/internal/metrics"
	"tunepost-go/internal/model"
	"tunepost-go/internal/repository"
	"tunepost-go/pkg/logger"
	"tunepost-go/pkg/utils"

	"go.uber.org/zap"
)

// 通知内容最大长度（rune）
const (
	maxNotificationContent = 200
	// maxNotificationPage 超过它的页码直接拒绝，避免 offset 溢出
	maxNotificationPage = 10000
)

type NotificationService struct {
	store     NotificationStore
	cache     cache.Cache
	pageSize  int
	unreadTTL time.Duration
}

func NewNotificationService(store NotificationStore, c cache.Cache, cfg *config.EngagementConfig) *NotificationService {
	pageSize := cfg.NotificationsPageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	return &NotificationService{
		store:     store,
		cache:     c,
		pageSize:  pageSize,
		unreadTTL: cfg.UnreadCacheTTL(),
	}
}

// Notify 创建通知。触发人就是接收人时不创建，返回 (nil, nil)
func (s *NotificationService) Notify(ctx context.Context, cmd model.NotifyCommand) (*model.Notification, error) {
	if err := cmd.Validate(); err != nil {
		return nil, invalid("type", "%v", err)
	}
	if cmd.ActorID == cmd.RecipientID {
		metrics.Notifications.WithLabelValues(string(cmd.Type), "suppressed").Inc()
		return nil, nil
	}

	n := &model.Notification{
		RecipientID: cmd.RecipientID,
		ActorID:     cmd.ActorID,
		Type:        cmd.Type,
		RelatedID:   cmd.RelatedID,
		RelatedKind: cmd.RelatedKind,
		Content:     utils.PlainText(cmd.Content, maxNotificationContent),
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		metrics.Notifications.WithLabelValues(string(cmd.Type), "failed").Inc()
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	metrics.Notifications.WithLabelValues(string(cmd.Type), "created").Inc()
	s.cache.Delete(ctx, cache.UnreadKey(cmd.RecipientID))
	return n, nil
}

// notifyQuietly 作为副作用发送通知，失败只记日志，不影响已提交的主操作
func (s *NotificationService) notifyQuietly(ctx context.Context, cmd model.NotifyCommand) {
	if _, err := s.Notify(ctx, cmd); err != nil {
		logger.Warn("Failed to dispatch notification",
			zap.String("type", string(cmd.Type)),
			zap.Int64("recipient_id", cmd.RecipientID),
			zap.Int64("actor_id", cmd.ActorID),
			zap.Error(err),
		)
	}
}

// MarkRead 单条标记已读，已读的再次标记同样成功
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID int64) (*dto.MarkReadData, error) {
	if notificationID <= 0 {
		return nil, invalid("id", "非法的通知 ID")
	}
	changed, err := s.store.MarkNotificationRead(ctx, notificationID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}

	data := &dto.MarkReadData{Success: true}
	if changed {
		data.Updated = 1
		s.cache.Delete(ctx, cache.UnreadKey(userID))
	}
	return data, nil
}

// MarkAllRead 全部已读并清零未读计数（同一事务）
func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (*dto.MarkReadData, error) {
	updated, err := s.store.MarkAllNotificationsRead(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.cache.Delete(ctx, cache.UnreadKey(userID))
	return &dto.MarkReadData{Success: true, Updated: updated}, nil
}

// List 分页获取通知，同时用扫描到的真实未读数校正计数
func (s *NotificationService) List(ctx context.Context, userID int64, page int) (*dto.NotificationListData, error) {
	if page < 1 || page > maxNotificationPage {
		return nil, invalid("page", "必须在 1 到 %d 之间", maxNotificationPage)
	}

	offset := (page - 1) * s.pageSize
	rows, err := s.store.ListNotifications(ctx, userID, offset, s.pageSize+1)
	if err != nil {
		return nil, err
	}
	hasMore := len(rows) > s.pageSize
	if hasMore {
		rows = rows[:s.pageSize]
	}

	unread, err := s.reconcileUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.NotificationInfo, 0, len(rows))
	for i := range rows {
		items = append(items, toNotificationInfo(&rows[i]))
	}

	return &dto.NotificationListData{
		Notifications: items,
		UnreadCount:   unread,
		HasMore:       hasMore,
		Page:          page,
		PageSize:      s.pageSize,
	}, nil
}

func (s *NotificationService) reconcileUnread(ctx context.Context, userID int64) (int64, error) {
	counter, err := s.store.UnreadCounter(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	truth, err := s.store.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}
	truth = max(truth, 0)

	if counter != truth {
		logger.Warn("Unread counter drifted, correcting",
			zap.Int64("user_id", userID),
			zap.Int64("counter", counter),
			zap.Int64("actual", truth),
		)
		if err := s.store.SetUnreadCounter(ctx, userID, truth); err != nil {
			logger.Error("Failed to correct unread counter", zap.Int64("user_id", userID), zap.Error(err))
		}
		s.cache.Delete(ctx, cache.UnreadKey(userID))
	}
	return truth, nil
}

// UnreadCount 轮询接口，读增量计数，短 TTL 缓存
func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (*dto.UnreadCountData, error) {
	key := cache.UnreadKey(userID)
	if raw, ok := s.cache.Get(ctx, key); ok {
		if n, err := strconv.ParseInt(string(raw), 10, 64); err == nil {
			return &dto.UnreadCountData{Count: n}, nil
		}
	}

	n, err := s.store.UnreadCounter(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	n = max(n, 0)
	s.cache.Set(ctx, key, []byte(strconv.FormatInt(n, 10)), s.unreadTTL)
	return &dto.UnreadCountData{Count: n}, nil
}

func toNotificationInfo(n *model.Notification) dto.NotificationInfo {
	return dto.NotificationInfo{
		ID:          n.ID,
		ActorID:     n.ActorID,
		Type:        string(n.Type),
		RelatedID:   n.RelatedID,
		RelatedKind: string(n.RelatedKind),
		Content:     n.Content,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt,
	}
}
