package service

import (
	"context"
	"errors"
	"time"

	"tunepost-go/internal/api/dto"
	"tunepost-go/internal/cache"
	"tunepost-go/internal/metrics"
	"tunepost-go/internal/model"
	"tunepost-go/internal/repository"
	"tunepost-go/pkg/logger"

	"go.uber.org/zap"
)

// 幂等键最大长度，与 vote_receipts.request_key 列一致
const maxRequestKeyLen = 128

type VoteService struct {
	votes    VoteStore
	recs     RecommendationStore
	notifier *NotificationService
	cache    cache.Cache
	events   EventPublisher
	now      func() time.Time
}

func NewVoteService(votes VoteStore, recs RecommendationStore, notifier *NotificationService, c cache.Cache, events EventPublisher) *VoteService {
	return &VoteService{
		votes:    votes,
		recs:     recs,
		notifier: notifier,
		cache:    c,
		events:   events,
		now:      time.Now,
	}
}

// CastVote 投票/取消/改投。相同方向重复调用视为取消，除非带相同 requestKey（此时回放首次结果）
func (s *VoteService) CastVote(ctx context.Context, recommendationID, voterID int64, direction, requestKey string) (*dto.VoteResult, error) {
	dir, err := model.ParseVoteDirection(direction)
	if err != nil {
		return nil, invalid("direction", "必须是 up 或 down")
	}
	if recommendationID <= 0 {
		return nil, invalid("id", "非法的推荐 ID")
	}
	if len(requestKey) > maxRequestKeyLen {
		return nil, invalid("Idempotency-Key", "长度不能超过 %d", maxRequestKeyLen)
	}

	cmd := model.VoteCommand{
		RecommendationID: recommendationID,
		VoterID:          voterID,
		Direction:        dir,
		RequestKey:       requestKey,
	}

	out, err := s.votes.ApplyVote(ctx, cmd)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrRecommendationNotFound
	case errors.Is(err, repository.ErrKeyReused):
		return nil, invalid("Idempotency-Key", "已用于另一条推荐或另一个方向的投票")
	case errors.Is(err, repository.ErrConflict):
		// 并发的相同请求已先提交，返回当前权威状态
		logger.Info("Vote conflict resolved by re-read",
			zap.Int64("recommendation_id", recommendationID),
			zap.Int64("voter_id", voterID),
		)
		return s.currentState(ctx, recommendationID, voterID)
	case err != nil:
		return nil, err
	}

	if !out.Replayed {
		s.afterCommit(ctx, cmd, out)
	}
	return toVoteResult(out.Transition.Action, out.Transition.To, out.Upvotes, out.Downvotes, out.Replayed), nil
}

func (s *VoteService) currentState(ctx context.Context, recommendationID, voterID int64) (*dto.VoteResult, error) {
	state, err := s.votes.GetVoteState(ctx, recommendationID, voterID)
	if err != nil {
		return nil, err
	}
	rec, err := s.recs.GetRecommendation(ctx, recommendationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecommendationNotFound
		}
		return nil, err
	}
	return toVoteResult(model.VoteActionUnchanged, state, rec.Upvotes, rec.Downvotes, false), nil
}

// afterCommit 提交后的副作用：指标、缓存代数、通知、事件，全部不影响返回结果
func (s *VoteService) afterCommit(ctx context.Context, cmd model.VoteCommand, out *model.VoteOutcome) {
	metrics.VoteTransitions.WithLabelValues(string(out.Transition.Action)).Inc()
	cache.Bump(ctx, s.cache, cache.NamespaceTrending, cache.NamespaceRankings)

	if out.Transition.NotifiesAuthor() {
		s.notifier.notifyQuietly(ctx, model.NotifyCommand{
			RecipientID: out.AuthorID,
			ActorID:     cmd.VoterID,
			Type:        model.NotificationVote,
			RelatedID:   cmd.RecommendationID,
			RelatedKind: model.RelatedRecommendation,
			Content:     "你的推荐收到了一个赞",
		})
	}

	s.events.Publish(ctx, model.EngagementEvent{
		Type:             model.EventVote,
		RecommendationID: cmd.RecommendationID,
		ActorID:          cmd.VoterID,
		TargetUserID:     out.AuthorID,
		OccurredAt:       s.now(),
	})
}

func toVoteResult(action model.VoteAction, state model.VoteState, up, down int64, replayed bool) *dto.VoteResult {
	return &dto.VoteResult{
		Action:    action,
		IsVote:    state != model.VoteStateNone,
		VoteState: state,
		Counts:    dto.VoteCounts{Upvotes: up, Downvotes: down},
		Replayed:  replayed,
	}
}
