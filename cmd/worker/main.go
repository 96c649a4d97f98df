package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tunepost-go/internal/config"
	"tunepost-go/internal/infra/database"
	infraES "tunepost-go/internal/infra/elasticsearch"
	infraKafka "tunepost-go/internal/infra/kafka"
	"tunepost-go/internal/repository"
	"tunepost-go/internal/service"
	"tunepost-go/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const searchSyncGroup = "tunepost-search-sync"

func main() {
	reindex := flag.Bool("reindex", false, "rebuild the search index from the database before consuming")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	db, err := database.Open(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close(db)

	esClient, err := infraES.NewClient(&cfg.Elasticsearch)
	if err != nil {
		logger.Fatal("Failed to init elasticsearch", zap.Error(err))
	}
	index := infraES.NewRecommendationIndex(esClient, cfg.Elasticsearch.RecommendationIndex())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := index.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure search index", zap.Error(err))
	}

	syncService := service.NewSearchSyncService(repository.NewRecommendationRepository(db), index)
	if *reindex {
		if _, err := syncService.Reindex(ctx, 500); err != nil {
			logger.Fatal("Failed to rebuild search index", zap.Error(err))
		}
	}

	if len(cfg.Kafka.Brokers) == 0 {
		logger.Warn("Kafka brokers not configured, nothing to consume")
		return
	}

	// 监听系统信号，优雅退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	logger.Info("Search sync worker started",
		zap.String("topic", cfg.Kafka.EngagementTopic()),
		zap.String("group", searchSyncGroup),
		zap.Strings("brokers", cfg.Kafka.Brokers),
	)
	infraKafka.ConsumeEvents(ctx, cfg.Kafka.Brokers, cfg.Kafka.EngagementTopic(), searchSyncGroup, syncService.HandleEvent)
	logger.Info("Search sync worker stopped")
}
