package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"tunepost-go/internal/api/dto"
	"tunepost-go/internal/cache"
	"tunepost-go/internal/config"
	"tunepost-go/internal/model"
	"tunepost-go/internal/repository/memory"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.EngagementEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e model.EngagementEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type harness struct {
	ctx    context.Context
	store  *memory.Store
	cache  cache.Cache
	clock  *testClock
	events *recordingPublisher

	notifications *NotificationService
	votes         *VoteService
	trending      *TrendingService
	rankings      *RankingService
	recs          *RecommendationService
	follows       *FollowService
	favorites     *FavoriteService
	comments      *CommentService
}

var testEngagementConfig = config.EngagementConfig{
	TrendingCacheTTLSeconds: 300,
	RankingCacheTTLSeconds:  300,
	UnreadCacheTTLSeconds:   30,
	NotificationsPageSize:   3,
	MaxLimit:                50,
}

func newHarness(t *testing.T, c cache.Cache) *harness {
	t.Helper()

	store := memory.New()
	clock := &testClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	store.SetClock(clock.Now)
	events := &recordingPublisher{}
	cfg := testEngagementConfig

	h := &harness{
		ctx:    context.Background(),
		store:  store,
		cache:  c,
		clock:  clock,
		events: events,
	}
	h.notifications = NewNotificationService(store, c, &cfg)
	h.votes = NewVoteService(store, store, h.notifications, c, events)
	h.trending = NewTrendingService(store, c, &cfg)
	h.rankings = NewRankingService(store, c, &cfg)
	h.recs = NewRecommendationService(store, store, h.notifications, c, events)
	h.follows = NewFollowService(store, store, h.notifications, c, events)
	h.favorites = NewFavoriteService(store, events)
	h.comments = NewCommentService(store, store, store, h.notifications, events)

	h.votes.now = clock.Now
	h.trending.now = clock.Now
	h.rankings.now = clock.Now
	h.recs.now = clock.Now
	h.follows.now = clock.Now
	h.favorites.now = clock.Now
	h.comments.now = clock.Now
	return h
}

// cacheModes 同一套断言分别在可用缓存、禁用缓存、不可达 Redis 下运行
func cacheModes(t *testing.T) map[string]func() cache.Cache {
	t.Helper()
	return map[string]func() cache.Cache{
		"memory": func() cache.Cache {
			m, err := cache.NewMemory(256)
			require.NoError(t, err)
			return m
		},
		"disabled": func() cache.Cache { return cache.NewNop() },
		"unreachable": func() cache.Cache {
			client := redis.NewClient(&redis.Options{
				Addr:        "127.0.0.1:1",
				MaxRetries:  -1,
				DialTimeout: 50 * time.Millisecond,
			})
			r := cache.NewRedis(client, cache.RedisOptions{
				OpTimeout:         50 * time.Millisecond,
				ReconnectAttempts: 1,
				ReconnectInterval: time.Hour,
			})
			t.Cleanup(func() { _ = r.Close() })
			return r
		},
	}
}

func (h *harness) user(t *testing.T, name string, artist bool) int64 {
	t.Helper()
	u := &model.User{UserName: name, IsArtist: artist}
	require.NoError(t, h.store.CreateUser(h.ctx, u))
	return u.ID
}

func (h *harness) post(t *testing.T, authorID int64, title, genre string) int64 {
	t.Helper()
	info, err := h.recs.Create(h.ctx, authorID, &dto.CreateRecommendationRequest{
		Title:  title,
		Artist: "Artist of " + title,
		Genre:  genre,
	})
	require.NoError(t, err)
	return info.ID
}

func (h *harness) vote(t *testing.T, recID, voterID int64, dir string) *dto.VoteResult {
	t.Helper()
	res, err := h.votes.CastVote(h.ctx, recID, voterID, dir, "")
	require.NoError(t, err)
	return res
}

func (h *harness) notificationsOf(t *testing.T, userID int64, typ model.NotificationType) int {
	t.Helper()
	n := 0
	for page := 1; ; page++ {
		data, err := h.notifications.List(h.ctx, userID, page)
		require.NoError(t, err)
		for _, item := range data.Notifications {
			if item.Type == string(typ) {
				n++
			}
		}
		if !data.HasMore {
			return n
		}
	}
}
