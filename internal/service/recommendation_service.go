package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tunepost-go/internal/api/dto"
	"tunepost-go/internal/cache"
	"tunepost-go/internal/model"
	"tunepost-go/internal/repository"
	"tunepost-go/pkg/logger"
	"tunepost-go/pkg/utils"

	"go.uber.org/zap"
)

type RecommendationService struct {
	recs     RecommendationStore
	follows  FollowStore
	notifier *NotificationService
	cache    cache.Cache
	events   EventPublisher
	now      func() time.Time
}

func NewRecommendationService(recs RecommendationStore, follows FollowStore, notifier *NotificationService, c cache.Cache, events EventPublisher) *RecommendationService {
	return &RecommendationService{
		recs:     recs,
		follows:  follows,
		notifier: notifier,
		cache:    c,
		events:   events,
		now:      time.Now,
	}
}

// Create 发布推荐，并通知作者的所有粉丝
func (s *RecommendationService) Create(ctx context.Context, authorID int64, req *dto.CreateRecommendationRequest) (*dto.RecommendationInfo, error) {
	song := model.Song{
		Title:  strings.TrimSpace(req.Title),
		Artist: strings.TrimSpace(req.Artist),
		Genre:  strings.TrimSpace(req.Genre),
	}
	if song.Title == "" || song.Artist == "" || song.Genre == "" {
		return nil, invalid("song", "歌名、歌手和流派不能为空")
	}
	if song.Genre == genreAll {
		return nil, invalid("genre", "all 是保留值")
	}

	rec := &model.Recommendation{
		AuthorID: authorID,
		Caption:  utils.PlainText(req.Caption, 0),
		Song:     song,
	}
	if err := s.recs.CreateRecommendation(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	cache.Bump(ctx, s.cache, cache.NamespaceTrending, cache.NamespaceRankings)
	s.notifyFollowers(ctx, rec)
	s.events.Publish(ctx, model.EngagementEvent{
		Type:             model.EventRecommendation,
		RecommendationID: rec.ID,
		ActorID:          authorID,
		OccurredAt:       s.now(),
	})

	info := toRecommendationInfo(rec)
	return &info, nil
}

func (s *RecommendationService) notifyFollowers(ctx context.Context, rec *model.Recommendation) {
	followers, err := s.follows.FollowerIDs(ctx, rec.AuthorID)
	if err != nil {
		logger.Warn("Failed to load followers for new_song fan-out",
			zap.Int64("author_id", rec.AuthorID), zap.Error(err))
		return
	}

	content := fmt.Sprintf("发布了新推荐：%s - %s", rec.Song.Title, rec.Song.Artist)
	for _, followerID := range followers {
		s.notifier.notifyQuietly(ctx, model.NotifyCommand{
			RecipientID: followerID,
			ActorID:     rec.AuthorID,
			Type:        model.NotificationNewSong,
			RelatedID:   rec.ID,
			RelatedKind: model.RelatedRecommendation,
			Content:     content,
		})
	}
}

// Get 获取单条推荐
func (s *RecommendationService) Get(ctx context.Context, id int64) (*dto.RecommendationInfo, error) {
	rec, err := s.recs.GetRecommendation(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecommendationNotFound
		}
		return nil, err
	}
	info := toRecommendationInfo(rec)
	return &info, nil
}

func toRecommendationInfo(r *model.Recommendation) dto.RecommendationInfo {
	return dto.RecommendationInfo{
		ID:       r.ID,
		AuthorID: r.AuthorID,
		Caption:  r.Caption,
		Song: dto.SongInfo{
			ID:     r.Song.ID,
			Title:  r.Song.Title,
			Artist: r.Song.Artist,
			Genre:  r.Song.Genre,
		},
		Upvotes:      r.Upvotes,
		Downvotes:    r.Downvotes,
		CommentCount: r.CommentCount,
		CreatedAt:    r.CreatedAt,
	}
}
