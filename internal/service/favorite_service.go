package service

import (
	"context"
	"errors"
	"time"

	"tunepost-go/internal/api/dto"
	"tunepost-go/internal/model"
	"tunepost-go/internal/repository"
	"tunepost-go/pkg/logger"

	"go.uber.org/zap"
)

type FavoriteService struct {
	favorites FavoriteStore
	events    EventPublisher
	now       func() time.Time
}

func NewFavoriteService(favorites FavoriteStore, events EventPublisher) *FavoriteService {
	return &FavoriteService{favorites: favorites, events: events, now: time.Now}
}

// Toggle 收藏/取消收藏歌曲
func (s *FavoriteService) Toggle(ctx context.Context, userID, songID int64) (*dto.FavoriteToggleResult, error) {
	if songID <= 0 {
		return nil, invalid("songId", "非法的歌曲 ID")
	}
	if _, err := s.favorites.GetSong(ctx, songID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSongNotFound
		}
		return nil, err
	}

	saved, err := s.favorites.ToggleFavorite(ctx, userID, songID)
	switch {
	case errors.Is(err, repository.ErrConflict):
		logger.Info("Favorite conflict resolved by re-read",
			zap.Int64("user_id", userID), zap.Int64("song_id", songID))
		saved, err = s.favorites.IsFavorite(ctx, userID, songID)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		s.events.Publish(ctx, model.EngagementEvent{
			Type:       model.EventFavorite,
			ActorID:    userID,
			OccurredAt: s.now(),
		})
	}

	action := "removed"
	if saved {
		action = "added"
	}
	return &dto.FavoriteToggleResult{Action: action, IsFavorite: saved, SongID: songID}, nil
}
