// Package ranking 热门列表与排行榜的纯排序逻辑，与存储无关。
package ranking

import (
	"sort"

	"tunepost-go/internal/model"
)

// ScoredPost 带窗口得分的推荐
type ScoredPost struct {
	model.PostTally
	Score int64
}

// TotalVotes 窗口内总票数
func (p ScoredPost) TotalVotes() int64 {
	return p.Upvotes + p.Downvotes
}

// Score 为每条推荐计算 up - down
func Score(tallies []model.PostTally) []ScoredPost {
	out := make([]ScoredPost, len(tallies))
	for i, t := range tallies {
		out[i] = ScoredPost{PostTally: t, Score: t.Upvotes - t.Downvotes}
	}
	return out
}

// SortTrending 得分降序，总票数降序，创建时间升序，id 升序
func SortTrending(posts []ScoredPost) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.TotalVotes() != b.TotalVotes() {
			return a.TotalVotes() > b.TotalVotes()
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.RecommendationID < b.RecommendationID
	})
}

// Page 对已排序切片做 offset/limit 截取
func Page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// Trending 计算并返回一页热门
func Trending(tallies []model.PostTally, limit, offset int) []ScoredPost {
	scored := Score(tallies)
	SortTrending(scored)
	return Page(scored, limit, offset)
}

// Medal 前三名标识
type Medal string

const (
	MedalNone   Medal = ""
	MedalGold   Medal = "gold"
	MedalSilver Medal = "silver"
	MedalBronze Medal = "bronze"
)

// MedalFor 根据名次返回奖牌
func MedalFor(position int) Medal {
	switch position {
	case 1:
		return MedalGold
	case 2:
		return MedalSilver
	case 3:
		return MedalBronze
	}
	return MedalNone
}

// Standing 排行榜中的一行
type Standing struct {
	model.AuthorTally
	Position int
	Medal    Medal
}

// SortLeaderboard 总票数降序，推荐数降序，用户 id 升序
func SortLeaderboard(rows []model.AuthorTally) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.TotalVotes != b.TotalVotes {
			return a.TotalVotes > b.TotalVotes
		}
		if a.Recommendations != b.Recommendations {
			return a.Recommendations > b.Recommendations
		}
		return a.UserID < b.UserID
	})
}

// Leaderboard 排序并分配严格递增的名次（并列也不共享名次）
func Leaderboard(rows []model.AuthorTally, limit int) []Standing {
	sorted := make([]model.AuthorTally, len(rows))
	copy(sorted, rows)
	SortLeaderboard(sorted)
	sorted = Page(sorted, limit, 0)

	out := make([]Standing, len(sorted))
	for i, r := range sorted {
		out[i] = Standing{AuthorTally: r, Position: i + 1, Medal: MedalFor(i + 1)}
	}
	return out
}

// FilterCohort 艺人榜包含所有艺人；策展人榜只包含窗口内有推荐的非艺人
func FilterCohort(rows []model.AuthorTally, cohort model.Cohort) []model.AuthorTally {
	out := make([]model.AuthorTally, 0, len(rows))
	for _, r := range rows {
		switch cohort {
		case model.CohortArtists:
			if r.IsArtist {
				out = append(out, r)
			}
		case model.CohortCurators:
			if !r.IsArtist && r.Recommendations > 0 {
				out = append(out, r)
			}
		}
	}
	return out
}
