//go:build integration

package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"tunepost-go/internal/config"
	"tunepost-go/internal/infra/database"
	"tunepost-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("tunepost"),
		postgres.WithUsername("tunepost"),
		postgres.WithPassword("tunepost"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.OpenDSN(dsn, &config.DatabaseConfig{MaxOpenConns: 20, MaxIdleConns: 5, ConnMaxLifetime: 60})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestRepositoriesAgainstPostgres(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	users := NewUserRepository(db)
	recs := NewRecommendationRepository(db)
	votes := NewVoteRepository(db)

	author := &model.User{UserName: "alice"}
	require.NoError(t, users.CreateUser(ctx, author))
	voters := make([]*model.User, 8)
	for i := range voters {
		voters[i] = &model.User{UserName: "voter" + string(rune('a'+i))}
		require.NoError(t, users.CreateUser(ctx, voters[i]))
	}

	rec := &model.Recommendation{
		AuthorID: author.ID,
		Caption:  "late night drive",
		Song:     model.Song{Title: "Nightcall", Artist: "Kavinsky", Genre: "synthwave"},
	}
	require.NoError(t, recs.CreateRecommendation(ctx, rec))
	require.NotZero(t, rec.SongID)

	t.Run("song reused by title artist genre", func(t *testing.T) {
		again := &model.Recommendation{
			AuthorID: author.ID,
			Song:     model.Song{Title: "Nightcall", Artist: "Kavinsky", Genre: "synthwave"},
		}
		require.NoError(t, recs.CreateRecommendation(ctx, again))
		assert.Equal(t, rec.SongID, again.SongID)
	})

	t.Run("vote toggle", func(t *testing.T) {
		cmd := model.VoteCommand{RecommendationID: rec.ID, VoterID: voters[0].ID, Direction: model.VoteUp}
		out, err := votes.ApplyVote(ctx, cmd)
		require.NoError(t, err)
		assert.Equal(t, int64(1), out.Upvotes)

		cmd.Direction = model.VoteDown
		out, err = votes.ApplyVote(ctx, cmd)
		require.NoError(t, err)
		assert.Equal(t, int64(0), out.Upvotes)
		assert.Equal(t, int64(1), out.Downvotes)

		out, err = votes.ApplyVote(ctx, cmd)
		require.NoError(t, err)
		assert.Equal(t, int64(0), out.Downvotes)

		state, err := votes.GetVoteState(ctx, rec.ID, voters[0].ID)
		require.NoError(t, err)
		assert.Equal(t, model.VoteStateNone, state)
	})

	t.Run("concurrent votes keep counters consistent", func(t *testing.T) {
		var wg sync.WaitGroup
		for _, v := range voters {
			wg.Add(1)
			go func(voterID int64) {
				defer wg.Done()
				_, err := votes.ApplyVote(ctx, model.VoteCommand{RecommendationID: rec.ID, VoterID: voterID, Direction: model.VoteUp})
				assert.NoError(t, err)
			}(v.ID)
		}
		wg.Wait()

		got, err := recs.GetRecommendation(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(len(voters)), got.Upvotes)
		assert.Equal(t, int64(0), got.Downvotes)
	})

	t.Run("idempotency key replays", func(t *testing.T) {
		cmd := model.VoteCommand{RecommendationID: rec.ID, VoterID: voters[1].ID, Direction: model.VoteDown, RequestKey: "req-1"}
		first, err := votes.ApplyVote(ctx, cmd)
		require.NoError(t, err)
		second, err := votes.ApplyVote(ctx, cmd)
		require.NoError(t, err)
		assert.True(t, second.Replayed)
		assert.Equal(t, first.Downvotes, second.Downvotes)
		assert.Equal(t, first.Transition, second.Transition)

		cmd.Direction = model.VoteUp
		_, err = votes.ApplyVote(ctx, cmd)
		assert.ErrorIs(t, err, ErrKeyReused)
	})

	t.Run("trending tallies", func(t *testing.T) {
		tallies, err := recs.TrendingTallies(ctx, model.TrendingFilter{Since: time.Now().Add(-time.Hour)})
		require.NoError(t, err)
		require.NotEmpty(t, tallies)
	})

	t.Run("missing recommendation", func(t *testing.T) {
		_, err := recs.GetRecommendation(ctx, 999999)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestNotificationCounterAgainstPostgres(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	users := NewUserRepository(db)
	notes := NewNotificationRepository(db)

	u := &model.User{UserName: "bob"}
	require.NoError(t, users.CreateUser(ctx, u))

	for i := 0; i < 3; i++ {
		require.NoError(t, notes.CreateNotification(ctx, &model.Notification{
			RecipientID: u.ID,
			ActorID:     u.ID + 1,
			Type:        model.NotificationVote,
			RelatedID:   int64(i + 1),
			RelatedKind: model.RelatedRecommendation,
			Content:     "someone liked your recommendation",
		}))
	}

	n, err := notes.UnreadCounter(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	list, err := notes.ListNotifications(ctx, u.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 3)

	ok, err := notes.MarkNotificationRead(ctx, list[0].ID, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	changed, err := notes.MarkAllNotificationsRead(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), changed)

	n, err = notes.CountUnread(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	// 接收人不存在：报 not found，且不留下孤立的通知
	err = notes.CreateNotification(ctx, &model.Notification{
		RecipientID: u.ID + 1000,
		ActorID:     u.ID,
		Type:        model.NotificationFollow,
		RelatedID:   u.ID,
		RelatedKind: model.RelatedUser,
	})
	assert.ErrorIs(t, err, ErrNotFound)
	var orphans int64
	require.NoError(t, db.Model(&model.Notification{}).Where("recipient_id = ?", u.ID+1000).Count(&orphans).Error)
	assert.Zero(t, orphans)
}
