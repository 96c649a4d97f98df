package model

import "time"

// User 用户模型（只包含互动相关字段，资料字段由用户服务维护）
type User struct {
	ID                      int64     `gorm:"primaryKey;autoIncrement;comment:用户标识" json:"id"`
	UserName                string    `gorm:"size:64;not null;uniqueIndex;comment:用户名" json:"userName"`
	IsArtist                bool      `gorm:"not null;default:false;index:idx_users_is_artist;comment:是否为音乐人" json:"isArtist"`
	FollowCount             int64     `gorm:"not null;default:0;comment:关注其他用户个数" json:"followCount"`
	FollowerCount           int64     `gorm:"not null;default:0;comment:粉丝个数" json:"followerCount"`
	UnreadNotificationCount int64     `gorm:"not null;default:0;comment:未读通知计数" json:"-"`
	CreatedAt               time.Time `gorm:"autoCreateTime;comment:注册时间" json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}
