package repository

import (
	"context"
	"errors"
	"time"

	"tunepost-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoteRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db, now: time.Now}
}

// ApplyVote 在一个事务内完成投票状态转移：
// 锁住推荐行串行化同一帖子的投票，写入/删除/更新投票记录并同步计数，
// 带 RequestKey 时同事务写入回执，重复请求直接回放回执。
func (r *VoteRepository) ApplyVote(ctx context.Context, cmd model.VoteCommand) (*model.VoteOutcome, error) {
	var out *model.VoteOutcome

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if cmd.RequestKey != "" {
			var receipt model.VoteReceipt
			err := tx.Where("voter_id = ? AND request_key = ?", cmd.VoterID, cmd.RequestKey).Take(&receipt).Error
			if err == nil {
				if !receipt.Matches(cmd) {
					return ErrKeyReused
				}
				out = receipt.Outcome()
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		var rec model.Recommendation
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "author_id", "upvotes", "downvotes").
			Where("id = ?", cmd.RecommendationID).
			Take(&rec).Error
		if err != nil {
			return err
		}

		from := model.VoteStateNone
		var vote model.Vote
		err = tx.Where("recommendation_id = ? AND voter_id = ?", cmd.RecommendationID, cmd.VoterID).Take(&vote).Error
		switch {
		case err == nil:
			from = model.StateOf(vote.Direction)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		t := model.NextVoteState(from, cmd.Direction)
		now := r.now()

		switch t.Action {
		case model.VoteActionCreated:
			err = tx.Create(&model.Vote{
				RecommendationID: cmd.RecommendationID,
				VoterID:          cmd.VoterID,
				Direction:        cmd.Direction,
				VotedAt:          now,
			}).Error
		case model.VoteActionRemoved:
			err = tx.Delete(&vote).Error
		case model.VoteActionSwitched:
			err = tx.Model(&vote).Updates(map[string]any{
				"direction": cmd.Direction,
				"voted_at":  now,
			}).Error
		}
		if err != nil {
			return err
		}

		err = tx.Model(&model.Recommendation{}).Where("id = ?", rec.ID).
			UpdateColumns(map[string]any{
				"upvotes":   gorm.Expr("upvotes + ?", t.UpDelta),
				"downvotes": gorm.Expr("downvotes + ?", t.DownDelta),
			}).Error
		if err != nil {
			return err
		}

		out = &model.VoteOutcome{
			Transition: t,
			Upvotes:    rec.Upvotes + t.UpDelta,
			Downvotes:  rec.Downvotes + t.DownDelta,
			AuthorID:   rec.AuthorID,
		}

		if cmd.RequestKey != "" {
			return tx.Create(model.NewVoteReceipt(cmd, out)).Error
		}
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// GetVoteState 查询用户对推荐的当前投票状态
func (r *VoteRepository) GetVoteState(ctx context.Context, recommendationID, voterID int64) (model.VoteState, error) {
	var vote model.Vote
	err := r.db.WithContext(ctx).
		Where("recommendation_id = ? AND voter_id = ?", recommendationID, voterID).
		Take(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.VoteStateNone, nil
	}
	if err != nil {
		return model.VoteStateNone, translate(err)
	}
	return model.StateOf(vote.Direction), nil
}
