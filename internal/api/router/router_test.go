package router

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"tunepost-go/internal/api/handler"
	"tunepost-go/internal/api/middleware"
	"tunepost-go/internal/cache"
	"tunepost-go/internal/config"
	"tunepost-go/internal/model"
	"tunepost-go/internal/repository/memory"
	"tunepost-go/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserHeader = "X-Test-User"

// fakeAuth 用请求头代替会话
func fakeAuth(c *gin.Context) {
	id, err := strconv.ParseInt(c.GetHeader(testUserHeader), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	c.Set(middleware.ContextKeyUserID, id)
	c.Next()
}

type testServer struct {
	engine *gin.Engine
	store  *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.New()
	c, err := cache.NewMemory(128)
	require.NoError(t, err)
	cfg := &config.EngagementConfig{NotificationsPageSize: 20, MaxLimit: 50}
	events := service.NopPublisher{}

	notifications := service.NewNotificationService(store, c, cfg)
	h := &Handlers{
		Vote: handler.NewVoteHandler(service.NewVoteService(store, store, notifications, c, events)),
		Recommendation: handler.NewRecommendationHandler(
			service.NewRecommendationService(store, store, notifications, c, events),
			service.NewTrendingService(store, c, cfg),
		),
		Search:       handler.NewSearchHandler(service.NewSearchService(store, nil)),
		Ranking:      handler.NewRankingHandler(service.NewRankingService(store, c, cfg)),
		Notification: handler.NewNotificationHandler(notifications),
		Favorite:     handler.NewFavoriteHandler(service.NewFavoriteService(store, events)),
		Follow:       handler.NewFollowHandler(service.NewFollowService(store, store, notifications, c, events)),
		Comment:      handler.NewCommentHandler(service.NewCommentService(store, store, store, notifications, events)),
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	Setup(r, h, fakeAuth)
	return &testServer{engine: r, store: store}
}

func (s *testServer) user(t *testing.T, name string) int64 {
	t.Helper()
	u := &model.User{UserName: name}
	require.NoError(t, s.store.CreateUser(t.Context(), u))
	return u.ID
}

func (s *testServer) do(method, path string, userID int64, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID > 0 {
		req.Header.Set(testUserHeader, strconv.FormatInt(userID, 10))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code  int    `json:"code"`
		Type  string `json:"type"`
		Field string `json:"field"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func (s *testServer) createRecommendation(t *testing.T, author int64, title string) int64 {
	t.Helper()
	w := s.do(http.MethodPost, "/v1/recommendations", author,
		`{"title":"`+title+`","artist":"Band","genre":"rock","caption":"hi"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var info struct {
		ID int64 `json:"id"`
	}
	decode(t, w, &info)
	return info.ID
}

func TestVoteEndpointScenario(t *testing.T) {
	s := newTestServer(t)
	author := s.user(t, "author")
	voter := s.user(t, "voter")
	rec := s.createRecommendation(t, author, "Song")
	path := "/v1/recommendations/" + strconv.FormatInt(rec, 10) + "/vote"

	var res struct {
		Action    string `json:"action"`
		IsVote    bool   `json:"isVote"`
		VoteState string `json:"voteState"`
		Counts    struct {
			Upvotes   int64 `json:"upvotes"`
			Downvotes int64 `json:"downvotes"`
		} `json:"counts"`
	}

	w := s.do(http.MethodPost, path, voter, `{"direction":"up"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &res)
	assert.Equal(t, "created", res.Action)
	assert.True(t, res.IsVote)
	assert.Equal(t, "up", res.VoteState)
	assert.Equal(t, int64(1), res.Counts.Upvotes)

	w = s.do(http.MethodPost, path, voter, `{"direction":"up"}`)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &res)
	assert.Equal(t, "removed", res.Action)
	assert.Equal(t, "none", res.VoteState)
	assert.Equal(t, int64(0), res.Counts.Upvotes)

	w = s.do(http.MethodPost, path, voter, `{"direction":"down"}`)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &res)
	assert.Equal(t, "down", res.VoteState)
	assert.Equal(t, int64(1), res.Counts.Downvotes)

	var count struct {
		Count int64 `json:"count"`
	}
	w = s.do(http.MethodGet, "/v1/notifications/unread-count", author, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &count)
	assert.Equal(t, int64(1), count.Count)
}

func TestVoteEndpointErrors(t *testing.T) {
	s := newTestServer(t)
	voter := s.user(t, "voter")

	w := s.do(http.MethodPost, "/v1/recommendations/1/vote", 0, `{"direction":"up"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/v1/recommendations/abc/vote", voter, `{"direction":"up"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/v1/recommendations/1/vote", voter, `{"direction":"sideways"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w, nil)
	assert.Equal(t, "ValidationError", env.Error.Type)
	assert.Equal(t, "direction", env.Error.Field)

	w = s.do(http.MethodPost, "/v1/recommendations/99/vote", voter, `{"direction":"up"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	s.store.SetUnavailable(true)
	w = s.do(http.MethodPost, "/v1/recommendations/1/vote", voter, `{"direction":"up"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "InternalServerError", decode(t, w, nil).Error.Type)
}

func TestVoteEndpointIdempotencyKey(t *testing.T) {
	s := newTestServer(t)
	author := s.user(t, "author")
	voter := s.user(t, "voter")
	rec := s.createRecommendation(t, author, "Song")
	path := "/v1/recommendations/" + strconv.FormatInt(rec, 10) + "/vote"

	var res struct {
		Replayed  bool   `json:"replayed"`
		VoteState string `json:"voteState"`
	}
	w := s.do(http.MethodPost, path, voter, `{"direction":"up"}`, "Idempotency-Key", "k1")
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodPost, path, voter, `{"direction":"up"}`, "Idempotency-Key", "k1")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &res)
	assert.True(t, res.Replayed)
	assert.Equal(t, "up", res.VoteState)
}

func TestTrendingAndRankingEndpoints(t *testing.T) {
	s := newTestServer(t)
	author := s.user(t, "author")
	voter := s.user(t, "voter")
	first := s.createRecommendation(t, author, "First")
	second := s.createRecommendation(t, author, "Second")
	w := s.do(http.MethodPost, "/v1/recommendations/"+strconv.FormatInt(second, 10)+"/vote", voter, `{"direction":"up"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var trending struct {
		Recommendations []struct {
			ID    int64 `json:"id"`
			Score int64 `json:"score"`
		} `json:"recommendations"`
		Period  string `json:"period"`
		HasMore bool   `json:"hasMore"`
	}
	w = s.do(http.MethodGet, "/v1/recommendations?sort=trending&period=week&genre=rock&limit=10", 0, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &trending)
	require.Len(t, trending.Recommendations, 2)
	assert.Equal(t, second, trending.Recommendations[0].ID)
	assert.Equal(t, first, trending.Recommendations[1].ID)
	assert.Equal(t, "week", trending.Period)

	w = s.do(http.MethodGet, "/v1/recommendations?period=decade", 0, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(http.MethodGet, "/v1/recommendations?limit=abc", 0, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var rankings struct {
		Rankings []struct {
			UserID   int64  `json:"userId"`
			Position int    `json:"position"`
			Medal    string `json:"medal"`
			Stats    struct {
				TotalVotes int64 `json:"totalVotes"`
			} `json:"stats"`
		} `json:"rankings"`
	}
	w = s.do(http.MethodGet, "/v1/rankings?cohort=curators", 0, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &rankings)
	require.Len(t, rankings.Rankings, 1)
	assert.Equal(t, author, rankings.Rankings[0].UserID)
	assert.Equal(t, 1, rankings.Rankings[0].Position)
	assert.Equal(t, "gold", rankings.Rankings[0].Medal)
	assert.Equal(t, int64(1), rankings.Rankings[0].Stats.TotalVotes)

	w = s.do(http.MethodGet, "/v1/rankings", 0, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotificationEndpoints(t *testing.T) {
	s := newTestServer(t)
	author := s.user(t, "author")
	fan := s.user(t, "fan")

	w := s.do(http.MethodPost, "/v1/users/"+strconv.FormatInt(author, 10)+"/follow", fan, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rec := s.createRecommendation(t, author, "Song")
	w = s.do(http.MethodPost, "/v1/recommendations/"+strconv.FormatInt(rec, 10)+"/comments", fan, `{"content":"@author great"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var list struct {
		Notifications []struct {
			ID     int64  `json:"id"`
			Type   string `json:"type"`
			IsRead bool   `json:"isRead"`
		} `json:"notifications"`
		UnreadCount int64 `json:"unreadCount"`
		HasMore     bool  `json:"hasMore"`
	}
	w = s.do(http.MethodGet, "/v1/notifications", author, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	require.Len(t, list.Notifications, 2)
	assert.Equal(t, "comment", list.Notifications[0].Type)
	assert.Equal(t, "follow", list.Notifications[1].Type)
	assert.Equal(t, int64(2), list.UnreadCount)

	id := strconv.FormatInt(list.Notifications[0].ID, 10)
	for i := 0; i < 2; i++ {
		w = s.do(http.MethodPatch, "/v1/notifications/"+id+"/read", author, "")
		require.Equal(t, http.StatusOK, w.Code)
	}
	w = s.do(http.MethodPatch, "/v1/notifications/"+id+"/read", fan, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPatch, "/v1/notifications/mark-all-read", author, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/v1/notifications?page=1", author, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	assert.Zero(t, list.UnreadCount)
	for _, n := range list.Notifications {
		assert.True(t, n.IsRead)
	}

	w = s.do(http.MethodGet, "/v1/notifications?page=0", author, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var fanList struct {
		Notifications []struct {
			Type string `json:"type"`
		} `json:"notifications"`
	}
	w = s.do(http.MethodGet, "/v1/notifications", fan, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &fanList)
	require.Len(t, fanList.Notifications, 1)
	assert.Equal(t, "new_song", fanList.Notifications[0].Type)
}

func TestFavoriteCommentAndSearchEndpoints(t *testing.T) {
	s := newTestServer(t)
	author := s.user(t, "author")
	fan := s.user(t, "fan")

	w := s.do(http.MethodPost, "/v1/recommendations", author, `{"title":"Blue Monday","artist":"New Order","genre":"synth"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var info struct {
		ID   int64 `json:"id"`
		Song struct {
			ID int64 `json:"id"`
		} `json:"song"`
	}
	decode(t, w, &info)

	var fav struct {
		Action     string `json:"action"`
		IsFavorite bool   `json:"isFavorite"`
	}
	w = s.do(http.MethodPost, "/v1/favorites/"+strconv.FormatInt(info.Song.ID, 10), fan, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &fav)
	assert.Equal(t, "added", fav.Action)
	assert.True(t, fav.IsFavorite)

	w = s.do(http.MethodPost, "/v1/favorites/999", fan, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/v1/recommendations/"+strconv.FormatInt(info.ID, 10)+"/comments", fan, `{"content":"yes"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var comment struct {
		ID int64 `json:"id"`
	}
	decode(t, w, &comment)

	w = s.do(http.MethodDelete, "/v1/comments/"+strconv.FormatInt(comment.ID, 10), author, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(http.MethodDelete, "/v1/comments/"+strconv.FormatInt(comment.ID, 10), fan, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var search struct {
		Total  int64  `json:"total"`
		Source string `json:"source"`
	}
	w = s.do(http.MethodGet, "/v1/recommendations/search?q=blue", 0, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &search)
	assert.Equal(t, int64(1), search.Total)
	assert.Equal(t, "database", search.Source)

	w = s.do(http.MethodPost, "/v1/users/"+strconv.FormatInt(fan, 10)+"/follow", fan, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/v1/rankings?cohort=artists", 0, "")
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))

	w = s.do(http.MethodGet, "/v1/rankings?cohort=artists", 0, "", middleware.HeaderRequestID, "abc")
	assert.Equal(t, "abc", w.Header().Get(middleware.HeaderRequestID))
}
