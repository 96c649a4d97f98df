package dto

import "tunepost-go/internal/model"

// VoteRequest 投票请求
type VoteRequest struct {
	Direction string `json:"direction" binding:"required"`
}

// VoteCounts 推荐当前的权威票数
type VoteCounts struct {
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
}

// VoteResult 投票结果
type VoteResult struct {
	Action    model.VoteAction `json:"action"`
	IsVote    bool             `json:"isVote"`
	VoteState model.VoteState  `json:"voteState"`
	Counts    VoteCounts       `json:"counts"`
	Replayed  bool             `json:"replayed,omitempty"`
}
