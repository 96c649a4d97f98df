package model

import "time"

// Follow 关注关系，(follower_id, followee_id) 唯一，不允许关注自己
type Follow struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;comment:关系标识" json:"id"`
	FollowerID int64     `gorm:"not null;uniqueIndex:uq_follows_pair,priority:1;index:idx_follows_follower_id;comment:粉丝用户id" json:"followerId"`
	FolloweeID int64     `gorm:"not null;uniqueIndex:uq_follows_pair,priority:2;index:idx_follows_followee_id;check:chk_follows_not_self,follower_id <> followee_id;comment:被关注用户id" json:"followeeId"`
	CreatedAt  time.Time `gorm:"autoCreateTime;comment:关注时间" json:"createdAt"`
}

func (Follow) TableName() string {
	return "follows"
}
