package service

import (
	"context"
	"time"

	"tunepost-go/internal/model"
)

// 服务层依赖的存储接口，由 repository（gorm）和 repository/memory 实现

type UserStore interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUsersByNames(ctx context.Context, names []string) ([]model.User, error)
}

type RecommendationStore interface {
	GetRecommendation(ctx context.Context, id int64) (*model.Recommendation, error)
	GetRecommendationsByIDs(ctx context.Context, ids []int64) ([]model.Recommendation, error)
	CreateRecommendation(ctx context.Context, rec *model.Recommendation) error
	TrendingTallies(ctx context.Context, filter model.TrendingFilter) ([]model.PostTally, error)
	SearchRecommendations(ctx context.Context, q string, offset, limit int) ([]model.Recommendation, int64, error)
}

type VoteStore interface {
	ApplyVote(ctx context.Context, cmd model.VoteCommand) (*model.VoteOutcome, error)
	GetVoteState(ctx context.Context, recommendationID, voterID int64) (model.VoteState, error)
}

type RankingStore interface {
	AuthorTallies(ctx context.Context, cohort model.Cohort, since time.Time) ([]model.AuthorTally, error)
}

type FollowStore interface {
	ToggleFollow(ctx context.Context, followerID, followeeID int64) (bool, error)
	IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error)
	FollowerIDs(ctx context.Context, userID int64) ([]int64, error)
}

type FavoriteStore interface {
	ToggleFavorite(ctx context.Context, userID, songID int64) (bool, error)
	IsFavorite(ctx context.Context, userID, songID int64) (bool, error)
	GetSong(ctx context.Context, id int64) (*model.Song, error)
}

type CommentStore interface {
	CreateComment(ctx context.Context, c *model.Comment) error
	GetComment(ctx context.Context, id int64) (*model.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *model.Notification) error
	MarkNotificationRead(ctx context.Context, id, recipientID int64) (bool, error)
	MarkAllNotificationsRead(ctx context.Context, recipientID int64) (int64, error)
	ListNotifications(ctx context.Context, recipientID int64, offset, limit int) ([]model.Notification, error)
	UnreadCounter(ctx context.Context, recipientID int64) (int64, error)
	CountUnread(ctx context.Context, recipientID int64) (int64, error)
	SetUnreadCounter(ctx context.Context, recipientID, count int64) error
}

// SearchIndex 推荐全文索引（Elasticsearch）
type SearchIndex interface {
	SearchRecommendations(ctx context.Context, q string, from, size int) (*model.SearchHits, error)
}

// EventPublisher 提交后发布互动事件，失败只记录日志
type EventPublisher interface {
	Publish(ctx context.Context, event model.EngagementEvent)
}

// NopPublisher 未配置 Kafka 时使用
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, model.EngagementEvent) {}
