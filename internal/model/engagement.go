package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownDirection = errors.New("unknown vote direction")
	ErrUnknownPeriod    = errors.New("unknown period")
	ErrUnknownCohort    = errors.New("unknown cohort")
)

// VoteDirection 投票方向，数值与 votes.direction 列一致
type VoteDirection int8

const (
	VoteUp   VoteDirection = 1
	VoteDown VoteDirection = -1
)

// ParseVoteDirection 解析 "up" / "down"
func ParseVoteDirection(s string) (VoteDirection, error) {
	switch s {
	case "up":
		return VoteUp, nil
	case "down":
		return VoteDown, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

func (d VoteDirection) String() string {
	switch d {
	case VoteUp:
		return "up"
	case VoteDown:
		return "down"
	}
	return fmt.Sprintf("VoteDirection(%d)", int8(d))
}

// Value 实现 driver.Valuer
func (d VoteDirection) Value() (driver.Value, error) {
	return int64(d), nil
}

// Scan 实现 sql.Scanner
func (d *VoteDirection) Scan(src any) error {
	n, err := scanInt8(src)
	if err != nil {
		return err
	}
	*d = VoteDirection(n)
	return nil
}

// VoteState 某个用户对某条推荐的当前投票状态
type VoteState int8

const (
	VoteStateNone VoteState = 0
	VoteStateUp   VoteState = 1
	VoteStateDown VoteState = -1
)

func (s VoteState) String() string {
	switch s {
	case VoteStateNone:
		return "none"
	case VoteStateUp:
		return "up"
	case VoteStateDown:
		return "down"
	}
	return fmt.Sprintf("VoteState(%d)", int8(s))
}

// MarshalText 序列化为 none/up/down
func (s VoteState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText 反序列化（用于缓存和幂等回执）
func (s *VoteState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "none":
		*s = VoteStateNone
	case "up":
		*s = VoteStateUp
	case "down":
		*s = VoteStateDown
	default:
		return fmt.Errorf("invalid vote state %q", string(b))
	}
	return nil
}

// Value 实现 driver.Valuer
func (s VoteState) Value() (driver.Value, error) {
	return int64(s), nil
}

// Scan 实现 sql.Scanner
func (s *VoteState) Scan(src any) error {
	n, err := scanInt8(src)
	if err != nil {
		return err
	}
	*s = VoteState(n)
	return nil
}

func scanInt8(src any) (int8, error) {
	switch v := src.(type) {
	case int64:
		return int8(v), nil
	case int32:
		return int8(v), nil
	case int16:
		return int8(v), nil
	case nil:
		return 0, nil
	}
	return 0, fmt.Errorf("cannot scan %T into vote value", src)
}

// StateOf 将一条投票记录的方向映射为状态
func StateOf(d VoteDirection) VoteState {
	return VoteState(d)
}

// VoteAction 一次投票调用产生的动作
type VoteAction string

const (
	VoteActionCreated   VoteAction = "created"
	VoteActionRemoved   VoteAction = "removed"
	VoteActionSwitched  VoteAction = "switched"
	VoteActionUnchanged VoteAction = "unchanged"
)

// VoteTransition 状态机的一步
type VoteTransition struct {
	From      VoteState
	To        VoteState
	Action    VoteAction
	UpDelta   int64
	DownDelta int64
}

// NextVoteState 投票状态转移表
//
//	none -> d      : 新增记录, d 计数 +1
//	d    -> d      : 取消投票, d 计数 -1
//	d    -> -d     : 改投, 原方向 -1, 新方向 +1
func NextVoteState(from VoteState, dir VoteDirection) VoteTransition {
	t := VoteTransition{From: from}
	switch from {
	case VoteStateNone:
		t.To = StateOf(dir)
		t.Action = VoteActionCreated
		t.addDelta(dir, 1)
	case StateOf(dir):
		t.To = VoteStateNone
		t.Action = VoteActionRemoved
		t.addDelta(dir, -1)
	default:
		t.To = StateOf(dir)
		t.Action = VoteActionSwitched
		t.addDelta(dir, 1)
		t.addDelta(-dir, -1)
	}
	return t
}

func (t *VoteTransition) addDelta(dir VoteDirection, n int64) {
	switch dir {
	case VoteUp:
		t.UpDelta += n
	case VoteDown:
		t.DownDelta += n
	}
}

// NotifiesAuthor 只有进入 up 状态才通知作者，取消投票和点踩都不通知
func (t VoteTransition) NotifiesAuthor() bool {
	return t.To == VoteStateUp && t.From != VoteStateUp
}

// VoteCommand 投票请求
type VoteCommand struct {
	RecommendationID int64
	VoterID          int64
	Direction        VoteDirection
	RequestKey       string
}

// VoteOutcome 投票结果（权威计数）
type VoteOutcome struct {
	Transition VoteTransition
	Upvotes    int64
	Downvotes  int64
	AuthorID   int64
	Replayed   bool
}

// Period 热门/排行统计周期
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

// ParsePeriod 解析周期参数
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodAll:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
}

// Window 回看窗口长度，all 返回 0 表示不限
func (p Period) Window() time.Duration {
	switch p {
	case PeriodToday:
		return 24 * time.Hour
	case PeriodWeek:
		return 7 * 24 * time.Hour
	case PeriodMonth:
		return 30 * 24 * time.Hour
	}
	return 0
}

// Since 窗口起点，零值表示不限
func (p Period) Since(now time.Time) time.Time {
	w := p.Window()
	if w == 0 {
		return time.Time{}
	}
	return now.Add(-w)
}

// Cohort 排行榜人群
type Cohort string

const (
	CohortCurators Cohort = "curators"
	CohortArtists  Cohort = "artists"
)

// ParseCohort 解析人群参数
func ParseCohort(s string) (Cohort, error) {
	switch c := Cohort(s); c {
	case CohortCurators, CohortArtists:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCohort, s)
}

// TrendingFilter 热门候选集筛选条件
type TrendingFilter struct {
	Since time.Time // 零值表示不限
	Genre string    // 空表示不过滤
}

// PostTally 某条推荐在窗口内的票数
type PostTally struct {
	RecommendationID int64
	AuthorID         int64
	CreatedAt        time.Time
	Upvotes          int64
	Downvotes        int64
}

// AuthorTally 某个用户在窗口内的统计
type AuthorTally struct {
	UserID          int64
	UserName        string
	IsArtist        bool
	Recommendations int64
	TotalVotes      int64
	Followers       int64
}

// EngagementEvent 提交后发往 Kafka 的互动事件
type EngagementEvent struct {
	Type             string    `json:"type"`
	RecommendationID int64     `json:"recommendationId,omitempty"`
	ActorID          int64     `json:"actorId"`
	TargetUserID     int64     `json:"targetUserId,omitempty"`
	OccurredAt       time.Time `json:"occurredAt"`
}

const (
	EventVote           = "vote"
	EventComment        = "comment"
	EventCommentDeleted = "comment_deleted"
	EventFollow         = "follow"
	EventFavorite       = "favorite"
	EventRecommendation = "recommendation"
)

// SearchHits 全文检索命中的推荐 ID（按相关度排序）
type SearchHits struct {
	IDs        []int64
	Total      int64
	Highlights map[int64]map[string][]string
}
