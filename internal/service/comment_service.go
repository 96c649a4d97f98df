package service

import (
	"context"
	"errors"
	"time"

	"tunepost-go/internal/api/dto"
	"tunepost-go/internal/model"
	"tunepost-go/internal/repository"
	"tunepost-go/pkg/logger"
	"tunepost-go/pkg/utils"

	"go.uber.org/zap"
)

const maxCommentLen = 1000

type CommentService struct {
	comments CommentStore
	recs     RecommendationStore
	users    UserStore
	notifier *NotificationService
	events   EventPublisher
	now      func() time.Time
}

func NewCommentService(comments CommentStore, recs RecommendationStore, users UserStore, notifier *NotificationService, events EventPublisher) *CommentService {
	return &CommentService{
		comments: comments,
		recs:     recs,
		users:    users,
		notifier: notifier,
		events:   events,
		now:      time.Now,
	}
}

// Create 发表评论，通知推荐作者以及被 @ 的用户
func (s *CommentService) Create(ctx context.Context, authorID, recommendationID int64, req *dto.CommentCreateRequest) (*dto.CommentInfo, error) {
	content := utils.PlainText(req.Content, maxCommentLen)
	if content == "" {
		return nil, invalid("content", "评论内容不能为空")
	}

	rec, err := s.recs.GetRecommendation(ctx, recommendationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecommendationNotFound
		}
		return nil, err
	}

	comment := &model.Comment{
		RecommendationID: recommendationID,
		AuthorID:         authorID,
		Content:          content,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecommendationNotFound
		}
		return nil, err
	}

	s.notifier.notifyQuietly(ctx, model.NotifyCommand{
		RecipientID: rec.AuthorID,
		ActorID:     authorID,
		Type:        model.NotificationComment,
		RelatedID:   comment.ID,
		RelatedKind: model.RelatedComment,
		Content:     content,
	})
	mentioned := s.notifyMentions(ctx, comment, rec.AuthorID)

	s.events.Publish(ctx, model.EngagementEvent{
		Type:             model.EventComment,
		RecommendationID: recommendationID,
		ActorID:          authorID,
		TargetUserID:     rec.AuthorID,
		OccurredAt:       s.now(),
	})

	return &dto.CommentInfo{
		ID:               comment.ID,
		RecommendationID: comment.RecommendationID,
		AuthorID:         comment.AuthorID,
		Content:          comment.Content,
		Mentions:         mentioned,
		CreatedAt:        comment.CreatedAt,
	}, nil
}

// notifyMentions 每个被提及的用户最多一条；推荐作者已收到评论通知则不再重复
func (s *CommentService) notifyMentions(ctx context.Context, comment *model.Comment, recAuthorID int64) []string {
	names := utils.Mentions(comment.Content)
	if len(names) == 0 {
		return nil
	}
	users, err := s.users.GetUsersByNames(ctx, names)
	if err != nil {
		logger.Warn("Failed to resolve mentions", zap.Int64("comment_id", comment.ID), zap.Error(err))
		return nil
	}

	var mentioned []string
	for _, u := range users {
		mentioned = append(mentioned, u.UserName)
		if u.ID == recAuthorID {
			continue
		}
		s.notifier.notifyQuietly(ctx, model.NotifyCommand{
			RecipientID: u.ID,
			ActorID:     comment.AuthorID,
			Type:        model.NotificationMention,
			RelatedID:   comment.ID,
			RelatedKind: model.RelatedComment,
			Content:     comment.Content,
		})
	}
	return mentioned
}

// Delete 删除自己的评论
func (s *CommentService) Delete(ctx context.Context, userID, commentID int64) error {
	comment, err := s.comments.GetComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if comment.AuthorID != userID {
		return ErrCommentNoPermission
	}

	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	s.events.Publish(ctx, model.EngagementEvent{
		Type:             model.EventCommentDeleted,
		RecommendationID: comment.RecommendationID,
		ActorID:          userID,
		OccurredAt:       s.now(),
	})
	return nil
}
