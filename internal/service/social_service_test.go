package service

import (
	"context"
	"errors"
	"testing"

	"tunepost-go/internal/api/dto"
	"tunepost-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowToggle(t *testing.T) {
	h := newHarness(t, mustMemoryCache(t))
	fan := h.user(t, "fan", false)
	star := h.user(t, "star", true)

	res, err := h.follows.Toggle(h.ctx, fan, star)
	require.NoError(t, err)
	assert.Equal(t, "followed", res.Action)
	assert.True(t, res.IsFollowing)
	assert.Equal(t, int64(1), res.FollowerCount)
	assert.Equal(t, 1, h.notificationsOf(t, star, model.NotificationFollow))

	res, err = h.follows.Toggle(h.ctx, fan, star)
	require.NoError(t, err)
	assert.Equal(t, "unfollowed", res.Action)
	assert.False(t, res.IsFollowing)
	assert.Zero(t, res.FollowerCount)
	assert.Equal(t, 1, h.notificationsOf(t, star, model.NotificationFollow))

	_, err = h.follows.Toggle(h.ctx, fan, fan)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = h.follows.Toggle(h.ctx, fan, 404)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestNewSongFanOut(t *testing.T) {
	h := newHarness(t, mustMemoryCache(t))
	star := h.user(t, "star", true)
	fans := []int64{h.user(t, "f1", false), h.user(t, "f2", false)}
	other := h.user(t, "other", false)
	for _, f := range fans {
		_, err := h.follows.Toggle(h.ctx, f, star)
		require.NoError(t, err)
	}

	h.post(t, star, "Anthem", "rock")
	for _, f := range fans {
		assert.Equal(t, 1, h.notificationsOf(t, f, model.NotificationNewSong))
	}
	assert.Zero(t, h.notificationsOf(t, other, model.NotificationNewSong))
}

func TestCreateRecommendationValidation(t *testing.T) {
	h := newHarness(t, mustMemoryCache(t))
	author := h.user(t, "author", false)

	_, err := h.recs.Create(h.ctx, author, &dto.CreateRecommendationRequest{Title: " ", Artist: "x", Genre: "rock"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = h.recs.Create(h.ctx, author, &dto.CreateRecommendationRequest{Title: "x", Artist: "x", Genre: "all"})
	assert.ErrorIs(t, err, ErrValidation)

	info, err := h.recs.Create(h.ctx, author, &dto.CreateRecommendationRequest{
		Title: "Song", Artist: "Band", Genre: "rock", Caption: "<i>listen</i> now",
	})
	require.NoError(t, err)
	assert.Equal(t, "listen now", info.Caption)

	got, err := h.recs.Get(h.ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, info.Song.ID, got.Song.ID)

	_, err = h.recs.Get(h.ctx, 999)
	assert.ErrorIs(t, err, ErrRecommendationNotFound)
}

func TestCommentNotifiesAuthorAndMentions(t *testing.T) {
	h := newHarness(t, mustMemoryCache(t))
	author := h.user(t, "author", false)
	commenter := h.user(t, "commenter", false)
	alice := h.user(t, "alice", false)
	rec := h.post(t, author, "Song", "rock")

	info, err := h.comments.Create(h.ctx, commenter, rec, &dto.CommentCreateRequest{
		Content: "@alice @author @commenter @ghost @alice listen",
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "author", "commenter"}, info.Mentions)

	assert.Equal(t, 1, h.notificationsOf(t, author, model.NotificationComment))
	assert.Zero(t, h.notificationsOf(t, author, model.NotificationMention))
	assert.Equal(t, 1, h.notificationsOf(t, alice, model.NotificationMention))
	assert.Zero(t, h.notificationsOf(t, commenter, model.NotificationMention))

	got, err := h.recs.Get(h.ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.CommentCount)

	// 作者自己评论不产生通知
	_, err = h.comments.Create(h.ctx, author, rec, &dto.CommentCreateRequest{Content: "thanks"})
	require.NoError(t, err)
	assert.Equal(t, 1, h.notificationsOf(t, author, model.NotificationComment))
}

func TestCommentDelete(t *testing.T) {
	h := newHarness(t, mustMemoryCache(t))
	author := h.user(t, "author", false)
	commenter := h.user(t, "commenter", false)
	rec := h.post(t, author, "Song", "rock")

	info, err := h.comments.Create(h.ctx, commenter, rec, &dto.CommentCreateRequest{Content: "nice"})
	require.NoError(t, err)

	assert.ErrorIs(t, h.comments.Delete(h.ctx, author, info.ID), ErrCommentNoPermission)
	require.NoError(t, h.comments.Delete(h.ctx, commenter, info.ID))
	assert.ErrorIs(t, h.comments.Delete(h.ctx, commenter, info.ID), ErrCommentNotFound)

	got, err := h.recs.Get(h.ctx, rec)
	require.NoError(t, err)
	assert.Zero(t, got.CommentCount)
}

func TestCommentRejectsEmptyContent(t *testing.T) {
	h := newHarness(t, mustMemoryCache(t))
	_, err := h.comments.Create(h.ctx, 1, 1, &dto.CommentCreateRequest{Content: "<b></b>  "})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFavoriteToggle(t *testing.T) {
	h := newHarness(t, mustMemoryCache(t))
	author := h.user(t, "author", false)
	fan := h.user(t, "fan", false)
	info, err := h.recs.Create(h.ctx, author, &dto.CreateRecommendationRequest{Title: "Song", Artist: "Band", Genre: "rock"})
	require.NoError(t, err)

	res, err := h.favorites.Toggle(h.ctx, fan, info.Song.ID)
	require.NoError(t, err)
	assert.Equal(t, "added", res.Action)
	assert.True(t, res.IsFavorite)

	res, err = h.favorites.Toggle(h.ctx, fan, info.Song.ID)
	require.NoError(t, err)
	assert.Equal(t, "removed", res.Action)
	assert.False(t, res.IsFavorite)

	_, err = h.favorites.Toggle(h.ctx, fan, 999)
	assert.ErrorIs(t, err, ErrSongNotFound)
	_, err = h.favorites.Toggle(h.ctx, fan, 0)
	assert.ErrorIs(t, err, ErrValidation)
}

type failingIndex struct{}

func (failingIndex) SearchRecommendations(context.Context, string, int, int) (*model.SearchHits, error) {
	return nil, errors.New("connection refused")
}

type staticIndex struct{ hits *model.SearchHits }

func (s staticIndex) SearchRecommendations(context.Context, string, int, int) (*model.SearchHits, error) {
	return s.hits, nil
}

func TestSearchFallsBackToDatabase(t *testing.T) {
	h := newHarness(t, mustMemoryCache(t))
	author := h.user(t, "author", false)
	h.post(t, author, "Blue Monday", "synth")
	h.post(t, author, "Yellow", "rock")

	svc := NewSearchService(h.store, failingIndex{})
	data, err := svc.Search(h.ctx, &dto.SearchRequest{Q: "blue"})
	require.NoError(t, err)
	assert.Equal(t, "database", data.Source)
	assert.Equal(t, int64(1), data.Total)
	require.Len(t, data.Recommendations, 1)
	assert.Equal(t, "Blue Monday", data.Recommendations[0].Song.Title)
	assert.Equal(t, 1, data.Page)
	assert.Equal(t, 20, data.PageSize)
}

func TestSearchKeepsIndexOrder(t *testing.T) {
	h := newHarness(t, mustMemoryCache(t))
	author := h.user(t, "author", false)
	first := h.post(t, author, "One", "rock")
	second := h.post(t, author, "Two", "rock")

	svc := NewSearchService(h.store, staticIndex{hits: &model.SearchHits{
		IDs:        []int64{second, 777, first},
		Total:      3,
		Highlights: map[int64]map[string][]string{second: {"title": {"<em>Two</em>"}}},
	}})
	data, err := svc.Search(h.ctx, &dto.SearchRequest{Q: "o", PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, "elasticsearch", data.Source)
	require.Len(t, data.Recommendations, 2)
	assert.Equal(t, second, data.Recommendations[0].ID)
	assert.Equal(t, first, data.Recommendations[1].ID)
	assert.Equal(t, []string{"<em>Two</em>"}, data.Recommendations[0].Highlight["title"])
	assert.Equal(t, int64(2), data.TotalPages)
}
