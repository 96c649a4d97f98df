package dto

// FollowToggleResult 关注切换结果
type FollowToggleResult struct {
	Action        string `json:"action"` // followed / unfollowed
	IsFollowing   bool   `json:"isFollowing"`
	FolloweeID    int64  `json:"followeeId"`
	FollowerCount int64  `json:"followerCount"`
}
