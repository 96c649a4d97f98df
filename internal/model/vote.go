package model

import "time"

// Vote 投票记录，(recommendation_id, voter_id) 唯一
type Vote struct {
	ID               int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	RecommendationID int64         `gorm:"not null;uniqueIndex:uq_votes_recommendation_voter,priority:1;comment:推荐标识" json:"recommendationId"`
	VoterID          int64         `gorm:"not null;uniqueIndex:uq_votes_recommendation_voter,priority:2;index:idx_votes_voter_id;comment:投票人" json:"voterId"`
	Direction        VoteDirection `gorm:"type:smallint;not null;comment:1 赞 -1 踩" json:"direction"`
	VotedAt          time.Time     `gorm:"not null;index:idx_votes_voted_at;comment:投票时间" json:"votedAt"`
}

func (Vote) TableName() string {
	return "votes"
}

// VoteReceipt 带 Idempotency-Key 的投票回执，(voter_id, request_key) 唯一
type VoteReceipt struct {
	ID               int64         `gorm:"primaryKey;autoIncrement"`
	VoterID          int64         `gorm:"not null;uniqueIndex:uq_vote_receipts_voter_key,priority:1"`
	RequestKey       string        `gorm:"size:128;not null;uniqueIndex:uq_vote_receipts_voter_key,priority:2"`
	RecommendationID int64         `gorm:"not null"`
	Direction        VoteDirection `gorm:"type:smallint;not null;default:0"`
	Action           VoteAction    `gorm:"size:16;not null"`
	FromState        VoteState     `gorm:"type:smallint;not null"`
	ToState          VoteState     `gorm:"type:smallint;not null"`
	Upvotes          int64         `gorm:"not null"`
	Downvotes        int64         `gorm:"not null"`
	AuthorID         int64         `gorm:"not null"`
	CreatedAt        time.Time     `gorm:"autoCreateTime;index:idx_vote_receipts_created_at"`
}

func (VoteReceipt) TableName() string {
	return "vote_receipts"
}

// Matches 回执是否属于同一次投票（同一推荐、同一方向）
func (r *VoteReceipt) Matches(cmd VoteCommand) bool {
	return r.RecommendationID == cmd.RecommendationID && r.Direction == cmd.Direction
}

// Outcome 回放已记录的结果
func (r *VoteReceipt) Outcome() *VoteOutcome {
	return &VoteOutcome{
		Transition: VoteTransition{From: r.FromState, To: r.ToState, Action: r.Action},
		Upvotes:    r.Upvotes,
		Downvotes:  r.Downvotes,
		AuthorID:   r.AuthorID,
		Replayed:   true,
	}
}

// NewVoteReceipt 根据结果生成回执
func NewVoteReceipt(cmd VoteCommand, out *VoteOutcome) *VoteReceipt {
	return &VoteReceipt{
		VoterID:          cmd.VoterID,
		RequestKey:       cmd.RequestKey,
		RecommendationID: cmd.RecommendationID,
		Direction:        cmd.Direction,
		Action:           out.Transition.Action,
		FromState:        out.Transition.From,
		ToState:          out.Transition.To,
		Upvotes:          out.Upvotes,
		Downvotes:        out.Downvotes,
		AuthorID:         out.AuthorID,
	}
}
