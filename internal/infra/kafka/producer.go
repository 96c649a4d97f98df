package kafka

import (
	"context"
	"fmt"
	"time"

	"tunepost-go/internal/config"
	"tunepost-go/internal/model"
	"tunepost-go/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer 互动事件生产者。异步写入，发送失败只记日志，不影响已提交的请求
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer 创建异步生产者
func NewProducer(cfg *config.KafkaConfig) *Producer {
	topic := cfg.EngagementTopic()
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to deliver engagement events",
					zap.Int("count", len(messages)),
					zap.String("topic", topic),
					zap.Error(err),
				)
			}
		},
	}

	logger.Info("Kafka producer initialized",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", topic),
	)
	return &Producer{writer: w, topic: topic}
}

// EventKey 同一条推荐的事件落在同一分区，保证顺序
func EventKey(e model.EngagementEvent) []byte {
	if e.RecommendationID > 0 {
		return []byte(fmt.Sprintf("rec-%d", e.RecommendationID))
	}
	return []byte(fmt.Sprintf("user-%d", e.ActorID))
}

// Publish 发送一条事件
func (p *Producer) Publish(ctx context.Context, e model.EngagementEvent) {
	payload, err := json.Marshal(e)
	if err != nil {
		logger.Error("Failed to marshal engagement event", zap.String("type", e.Type), zap.Error(err))
		return
	}

	msg := kafka.Message{Key: EventKey(e), Value: payload}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.Warn("Failed to enqueue engagement event", zap.String("type", e.Type), zap.Error(err))
		return
	}
	logger.Debug("Engagement event queued",
		zap.String("type", e.Type),
		zap.Int64("recommendation_id", e.RecommendationID),
	)
}

// Close 刷新缓冲区并关闭
func (p *Producer) Close() error {
	logger.Info("Kafka producer closed")
	return p.writer.Close()
}
