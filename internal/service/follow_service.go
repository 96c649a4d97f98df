package service

import (
	"context"
	"errors"
	"time"

	"tunepost-go/internal/api/dto"
	"tunepost-go/internal/cache"
	"tunepost-go/internal/model"
	"tunepost-go/internal/repository"
	"tunepost-go/pkg/logger"

	"go.uber.org/zap"
)

type FollowService struct {
	follows  FollowStore
	users    UserStore
	notifier *NotificationService
	cache    cache.Cache
	events   EventPublisher
	now      func() time.Time
}

func NewFollowService(follows FollowStore, users UserStore, notifier *NotificationService, c cache.Cache, events EventPublisher) *FollowService {
	return &FollowService{
		follows:  follows,
		users:    users,
		notifier: notifier,
		cache:    c,
		events:   events,
		now:      time.Now,
	}
}

// Toggle 关注/取关
func (s *FollowService) Toggle(ctx context.Context, followerID, followeeID int64) (*dto.FollowToggleResult, error) {
	if followerID == followeeID {
		return nil, invalid("userId", "不能关注自己")
	}
	if _, err := s.users.GetUser(ctx, followeeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	following, err := s.follows.ToggleFollow(ctx, followerID, followeeID)
	committed := true
	switch {
	case errors.Is(err, repository.ErrConflict):
		logger.Info("Follow conflict resolved by re-read",
			zap.Int64("follower_id", followerID), zap.Int64("followee_id", followeeID))
		committed = false
		following, err = s.follows.IsFollowing(ctx, followerID, followeeID)
		if err != nil {
			return nil, err
		}
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrUserNotFound
	case err != nil:
		return nil, err
	}

	if committed {
		// 粉丝数是排行榜的一部分
		cache.Bump(ctx, s.cache, cache.NamespaceRankings)
		if following {
			s.notifier.notifyQuietly(ctx, model.NotifyCommand{
				RecipientID: followeeID,
				ActorID:     followerID,
				Type:        model.NotificationFollow,
				RelatedID:   followerID,
				RelatedKind: model.RelatedUser,
				Content:     "关注了你",
			})
		}
		s.events.Publish(ctx, model.EngagementEvent{
			Type:         model.EventFollow,
			ActorID:      followerID,
			TargetUserID: followeeID,
			OccurredAt:   s.now(),
		})
	}

	followee, err := s.users.GetUser(ctx, followeeID)
	if err != nil {
		return nil, err
	}

	action := "unfollowed"
	if following {
		action = "followed"
	}
	return &dto.FollowToggleResult{
		Action:        action,
		IsFollowing:   following,
		FolloweeID:    followeeID,
		FollowerCount: followee.FollowerCount,
	}, nil
}
