// Package memory 进程内的互动存储，实现与 gorm 仓储相同的方法集，供服务层测试和本地调试使用。
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"tunepost-go/internal/model"
	"tunepost-go/internal/ranking"
	"tunepost-go/internal/repository"
)

// ErrUnavailable 模拟存储不可用
var ErrUnavailable = errors.New("memory store unavailable")

type voteKey struct{ recommendationID, voterID int64 }
type followKey struct{ followerID, followeeID int64 }
type favoriteKey struct{ userID, songID int64 }
type receiptKey struct {
	voterID int64
	key     string
}

// Store 所有方法在同一把锁下执行，天然满足事务语义
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	down bool

	nextID          int64
	users           map[int64]*model.User
	songs           map[int64]*model.Song
	recommendations map[int64]*model.Recommendation
	votes           map[voteKey]*model.Vote
	receipts        map[receiptKey]*model.VoteReceipt
	follows         map[followKey]time.Time
	favorites       map[favoriteKey]time.Time
	comments        map[int64]*model.Comment
	notifications   map[int64]*model.Notification
}

// New 创建空存储
func New() *Store {
	return &Store{
		now:             time.Now,
		users:           make(map[int64]*model.User),
		songs:           make(map[int64]*model.Song),
		recommendations: make(map[int64]*model.Recommendation),
		votes:           make(map[voteKey]*model.Vote),
		receipts:        make(map[receiptKey]*model.VoteReceipt),
		follows:         make(map[followKey]time.Time),
		favorites:       make(map[favoriteKey]time.Time),
		comments:        make(map[int64]*model.Comment),
		notifications:   make(map[int64]*model.Notification),
	}
}

// SetClock 替换时钟
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SetUnavailable 打开后所有操作返回 ErrUnavailable
func (s *Store) SetUnavailable(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down = down
}

func (s *Store) lock() error {
	s.mu.Lock()
	if s.down {
		s.mu.Unlock()
		return ErrUnavailable
	}
	return nil
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// ---- users ----

// CreateUser 创建用户
func (s *Store) CreateUser(_ context.Context, user *model.User) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.UserName == user.UserName {
			return repository.ErrConflict
		}
	}
	if user.ID == 0 {
		user.ID = s.id()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *Store) GetUser(_ context.Context, id int64) (*model.User, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUsersByNames(_ context.Context, names []string) ([]model.User, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []model.User
	for _, u := range s.users {
		if want[u.UserName] {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) AuthorTallies(_ context.Context, cohort model.Cohort, since time.Time) ([]model.AuthorTally, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	rows := make([]model.AuthorTally, 0, len(s.users))
	for _, u := range s.users {
		row := model.AuthorTally{
			UserID:    u.ID,
			UserName:  u.UserName,
			IsArtist:  u.IsArtist,
			Followers: u.FollowerCount,
		}
		for _, rec := range s.recommendations {
			if rec.AuthorID != u.ID || (!since.IsZero() && rec.CreatedAt.Before(since)) {
				continue
			}
			row.Recommendations++
			row.TotalVotes += rec.Upvotes
		}
		rows = append(rows, row)
	}
	return ranking.FilterCohort(rows, cohort), nil
}

// ---- recommendations ----

// CreateRecommendation 歌曲按 (title, artist, genre) 复用
func (s *Store) CreateRecommendation(_ context.Context, rec *model.Recommendation) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()

	if _, ok := s.users[rec.AuthorID]; !ok {
		return repository.ErrNotFound
	}

	var song *model.Song
	for _, sg := range s.songs {
		if sg.Title == rec.Song.Title && sg.Artist == rec.Song.Artist && sg.Genre == rec.Song.Genre {
			song = sg
			break
		}
	}
	if song == nil {
		sg := rec.Song
		sg.ID = s.id()
		song = &sg
		s.songs[sg.ID] = song
	}

	rec.ID = s.id()
	rec.SongID = song.ID
	rec.Song = *song
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	cp := *rec
	s.recommendations[rec.ID] = &cp
	return nil
}

func (s *Store) GetRecommendation(_ context.Context, id int64) (*model.Recommendation, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	rec, ok := s.recommendations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *Store) GetRecommendationsByIDs(_ context.Context, ids []int64) ([]model.Recommendation, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	var out []model.Recommendation
	for _, id := range ids {
		if rec, ok := s.recommendations[id]; ok {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (s *Store) ListRecommendationsAfter(_ context.Context, afterID int64, limit int) ([]model.Recommendation, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	var out []model.Recommendation
	for id, rec := range s.recommendations {
		if id > afterID {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) TrendingTallies(_ context.Context, filter model.TrendingFilter) ([]model.PostTally, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	var out []model.PostTally
	for _, rec := range s.recommendations {
		if !filter.Since.IsZero() && rec.CreatedAt.Before(filter.Since) {
			continue
		}
		if filter.Genre != "" && rec.Song.Genre != filter.Genre {
			continue
		}
		t := model.PostTally{RecommendationID: rec.ID, AuthorID: rec.AuthorID, CreatedAt: rec.CreatedAt}
		for k, v := range s.votes {
			if k.recommendationID != rec.ID || (!filter.Since.IsZero() && v.VotedAt.Before(filter.Since)) {
				continue
			}
			switch v.Direction {
			case model.VoteUp:
				t.Upvotes++
			case model.VoteDown:
				t.Downvotes++
			}
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *Store) SearchRecommendations(_ context.Context, q string, offset, limit int) ([]model.Recommendation, int64, error) {
	if err := s.lock(); err != nil {
		return nil, 0, err
	}
	defer s.mu.Unlock()

	q = strings.ToLower(q)
	var hits []model.Recommendation
	for _, rec := range s.recommendations {
		text := strings.ToLower(rec.Song.Title + "\n" + rec.Song.Artist + "\n" + rec.Caption)
		if q == "" || strings.Contains(text, q) {
			hits = append(hits, *rec)
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if !hits[i].CreatedAt.Equal(hits[j].CreatedAt) {
			return hits[i].CreatedAt.After(hits[j].CreatedAt)
		}
		return hits[i].ID > hits[j].ID
	})
	return ranking.Page(hits, limit, offset), int64(len(hits)), nil
}

// ---- votes ----

func (s *Store) ApplyVote(_ context.Context, cmd model.VoteCommand) (*model.VoteOutcome, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	rk := receiptKey{cmd.VoterID, cmd.RequestKey}
	if cmd.RequestKey != "" {
		if r, ok := s.receipts[rk]; ok {
			if !r.Matches(cmd) {
				return nil, repository.ErrKeyReused
			}
			return r.Outcome(), nil
		}
	}

	rec, ok := s.recommendations[cmd.RecommendationID]
	if !ok {
		return nil, repository.ErrNotFound
	}

	key := voteKey{cmd.RecommendationID, cmd.VoterID}
	from := model.VoteStateNone
	if v, ok := s.votes[key]; ok {
		from = model.StateOf(v.Direction)
	}

	t := model.NextVoteState(from, cmd.Direction)
	now := s.now()
	switch t.Action {
	case model.VoteActionCreated:
		s.votes[key] = &model.Vote{
			ID:               s.id(),
			RecommendationID: cmd.RecommendationID,
			VoterID:          cmd.VoterID,
			Direction:        cmd.Direction,
			VotedAt:          now,
		}
	case model.VoteActionRemoved:
		delete(s.votes, key)
	case model.VoteActionSwitched:
		s.votes[key].Direction = cmd.Direction
		s.votes[key].VotedAt = now
	}
	rec.Upvotes += t.UpDelta
	rec.Downvotes += t.DownDelta

	out := &model.VoteOutcome{
		Transition: t,
		Upvotes:    rec.Upvotes,
		Downvotes:  rec.Downvotes,
		AuthorID:   rec.AuthorID,
	}
	if cmd.RequestKey != "" {
		s.receipts[rk] = model.NewVoteReceipt(cmd, out)
	}
	return out, nil
}

func (s *Store) GetVoteState(_ context.Context, recommendationID, voterID int64) (model.VoteState, error) {
	if err := s.lock(); err != nil {
		return model.VoteStateNone, err
	}
	defer s.mu.Unlock()

	if v, ok := s.votes[voteKey{recommendationID, voterID}]; ok {
		return model.StateOf(v.Direction), nil
	}
	return model.VoteStateNone, nil
}

// VoteRows 当前投票记录数（测试断言用）
func (s *Store) VoteRows(recommendationID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k := range s.votes {
		if k.recommendationID == recommendationID {
			n++
		}
	}
	return n
}

// ---- follows ----

func (s *Store) ToggleFollow(_ context.Context, followerID, followeeID int64) (bool, error) {
	if err := s.lock(); err != nil {
		return false, err
	}
	defer s.mu.Unlock()

	follower, ok1 := s.users[followerID]
	followee, ok2 := s.users[followeeID]
	if !ok1 || !ok2 {
		return false, repository.ErrNotFound
	}

	key := followKey{followerID, followeeID}
	if _, ok := s.follows[key]; ok {
		delete(s.follows, key)
		follower.FollowCount = max(follower.FollowCount-1, 0)
		followee.FollowerCount = max(followee.FollowerCount-1, 0)
		return false, nil
	}
	s.follows[key] = s.now()
	follower.FollowCount++
	followee.FollowerCount++
	return true, nil
}

func (s *Store) IsFollowing(_ context.Context, followerID, followeeID int64) (bool, error) {
	if err := s.lock(); err != nil {
		return false, err
	}
	defer s.mu.Unlock()

	_, ok := s.follows[followKey{followerID, followeeID}]
	return ok, nil
}

func (s *Store) FollowerIDs(_ context.Context, userID int64) ([]int64, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	var ids []int64
	for k := range s.follows {
		if k.followeeID == userID {
			ids = append(ids, k.followerID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// ---- favorites ----

func (s *Store) ToggleFavorite(_ context.Context, userID, songID int64) (bool, error) {
	if err := s.lock(); err != nil {
		return false, err
	}
	defer s.mu.Unlock()

	key := favoriteKey{userID, songID}
	if _, ok := s.favorites[key]; ok {
		delete(s.favorites, key)
		return false, nil
	}
	s.favorites[key] = s.now()
	return true, nil
}

func (s *Store) IsFavorite(_ context.Context, userID, songID int64) (bool, error) {
	if err := s.lock(); err != nil {
		return false, err
	}
	defer s.mu.Unlock()

	_, ok := s.favorites[favoriteKey{userID, songID}]
	return ok, nil
}

func (s *Store) GetSong(_ context.Context, id int64) (*model.Song, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	song, ok := s.songs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *song
	return &cp, nil
}

// ---- comments ----

func (s *Store) CreateComment(_ context.Context, c *model.Comment) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()

	rec, ok := s.recommendations[c.RecommendationID]
	if !ok {
		return repository.ErrNotFound
	}
	c.ID = s.id()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	cp := *c
	s.comments[c.ID] = &cp
	rec.CommentCount++
	return nil
}

func (s *Store) GetComment(_ context.Context, id int64) (*model.Comment, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) DeleteComment(_ context.Context, id int64) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(s.comments, id)
	if rec, ok := s.recommendations[c.RecommendationID]; ok {
		rec.CommentCount = max(rec.CommentCount-1, 0)
	}
	return nil
}

// ---- notifications ----

func (s *Store) CreateNotification(_ context.Context, n *model.Notification) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()

	u, ok := s.users[n.RecipientID]
	if !ok {
		return repository.ErrNotFound
	}
	n.ID = s.id()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	cp := *n
	s.notifications[n.ID] = &cp
	u.UnreadNotificationCount++
	return nil
}

func (s *Store) MarkNotificationRead(_ context.Context, id, recipientID int64) (bool, error) {
	if err := s.lock(); err != nil {
		return false, err
	}
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok || n.RecipientID != recipientID {
		return false, repository.ErrNotFound
	}
	if n.IsRead {
		return false, nil
	}
	n.IsRead = true
	if u, ok := s.users[recipientID]; ok {
		u.UnreadNotificationCount = max(u.UnreadNotificationCount-1, 0)
	}
	return true, nil
}

func (s *Store) MarkAllNotificationsRead(_ context.Context, recipientID int64) (int64, error) {
	if err := s.lock(); err != nil {
		return 0, err
	}
	defer s.mu.Unlock()

	u, ok := s.users[recipientID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	var updated int64
	for _, n := range s.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			updated++
		}
	}
	u.UnreadNotificationCount = 0
	return updated, nil
}

func (s *Store) ListNotifications(_ context.Context, recipientID int64, offset, limit int) ([]model.Notification, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	var list []model.Notification
	for _, n := range s.notifications {
		if n.RecipientID == recipientID {
			list = append(list, *n)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return ranking.Page(list, limit, offset), nil
}

func (s *Store) UnreadCounter(_ context.Context, recipientID int64) (int64, error) {
	if err := s.lock(); err != nil {
		return 0, err
	}
	defer s.mu.Unlock()

	u, ok := s.users[recipientID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return u.UnreadNotificationCount, nil
}

func (s *Store) CountUnread(_ context.Context, recipientID int64) (int64, error) {
	if err := s.lock(); err != nil {
		return 0, err
	}
	defer s.mu.Unlock()

	var n int64
	for _, x := range s.notifications {
		if x.RecipientID == recipientID && !x.IsRead {
			n++
		}
	}
	return n, nil
}

func (s *Store) SetUnreadCounter(_ context.Context, recipientID, count int64) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()

	u, ok := s.users[recipientID]
	if !ok {
		return repository.ErrNotFound
	}
	u.UnreadNotificationCount = count
	return nil
}

// CorruptUnreadCounter 直接改写计数，模拟部分失败后计数与真实状态不一致
func (s *Store) CorruptUnreadCounter(recipientID, count int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[recipientID]; ok {
		u.UnreadNotificationCount = count
	}
}
