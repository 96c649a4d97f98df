package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tunepost-go/internal/model"
	"tunepost-go/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const handleAttempts = 3

var retryBackoff = time.Second

// EventHandler 处理一条互动事件
type EventHandler func(ctx context.Context, event *model.EngagementEvent) error

// DecodeEvent 解析消息体
func DecodeEvent(value []byte) (*model.EngagementEvent, error) {
	var e model.EngagementEvent
	if err := json.Unmarshal(value, &e); err != nil {
		return nil, err
	}
	if e.Type == "" {
		return nil, fmt.Errorf("event type is empty")
	}
	return &e, nil
}

// ConsumeEvents 阻塞消费互动事件直到 ctx 取消。
// 处理完（或重试耗尽）后才提交 offset，进程重启时未提交的消息会重新投递
func ConsumeEvents(ctx context.Context, brokers []string, topic, groupID string, handler EventHandler) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     500 * time.Millisecond,
		StartOffset: kafka.FirstOffset,
	})
	defer func() {
		if err := reader.Close(); err != nil {
			logger.Error("Failed to close kafka reader", zap.Error(err))
		}
	}()

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			logger.Error("Failed to fetch kafka message", zap.String("topic", topic), zap.Error(err))
			if !sleep(ctx, retryBackoff) {
				return
			}
			continue
		}

		process(ctx, msg, handler)

		if err := reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			logger.Warn("Failed to commit kafka offset",
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

// process 解码失败直接丢弃，处理失败按固定间隔重试
func process(ctx context.Context, msg kafka.Message, handler EventHandler) {
	event, err := DecodeEvent(msg.Value)
	if err != nil {
		logger.Error("Dropping undecodable engagement event",
			zap.Int64("offset", msg.Offset),
			zap.ByteString("value", msg.Value),
			zap.Error(err),
		)
		return
	}

	for attempt := 1; attempt <= handleAttempts; attempt++ {
		err = handler(ctx, event)
		if err == nil {
			return
		}
		logger.Warn("Engagement event handler failed",
			zap.String("type", event.Type),
			zap.Int64("recommendation_id", event.RecommendationID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt < handleAttempts && !sleep(ctx, retryBackoff) {
			return
		}
	}
	logger.Error("Giving up on engagement event",
		zap.String("type", event.Type),
		zap.Int64("recommendation_id", event.RecommendationID),
	)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
