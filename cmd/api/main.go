package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tunepost-go/internal/api/handler"
	"tunepost-go/internal/api/middleware"
	"tunepost-go/internal/api/router"
	"tunepost-go/internal/cache"
	"tunepost-go/internal/config"
	"tunepost-go/internal/infra/database"
	infraES "tunepost-go/internal/infra/elasticsearch"
	infraKafka "tunepost-go/internal/infra/kafka"
	"tunepost-go/internal/repository"
	"tunepost-go/internal/service"
	"tunepost-go/pkg/logger"

	_ "tunepost-go/api/openapi"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title TunePost API
// @version 1.0
// @description 音乐推荐互动服务：投票、热门、排行榜、通知
// @BasePath /v1

func main() {
	// .env 可选
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

	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to auto migrate", zap.Error(err))
	}

	// 缓存不可用不影响启动
	c, closeCache, err := cache.Open(&cfg.Cache)
	if err != nil {
		logger.Warn("Cache init failed, running without cache", zap.Error(err))
		c, closeCache = cache.NewNop(), func() error { return nil }
	}
	defer closeCache()

	var events service.EventPublisher = service.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := infraKafka.NewProducer(&cfg.Kafka)
		defer producer.Close()
		events = producer
	} else {
		logger.Info("Kafka brokers not configured, engagement events disabled")
	}

	// Elasticsearch 可选，失败则搜索降级到 DB
	var searchIndex service.SearchIndex
	if len(cfg.Elasticsearch.Hosts) > 0 {
		esClient, err := infraES.NewClient(&cfg.Elasticsearch)
		if err != nil {
			logger.Warn("Elasticsearch init failed, search will fallback to DB", zap.Error(err))
		} else {
			idx := infraES.NewRecommendationIndex(esClient, cfg.Elasticsearch.RecommendationIndex())
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := idx.EnsureIndex(ctx); err != nil {
				logger.Warn("Elasticsearch index init failed", zap.Error(err))
			}
			cancel()
			searchIndex = idx
		}
	}

	// Repository -> Service -> Handler
	userRepo := repository.NewUserRepository(db)
	recRepo := repository.NewRecommendationRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	followRepo := repository.NewFollowRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notificationService := service.NewNotificationService(notificationRepo, c, &cfg.Engagement)
	voteService := service.NewVoteService(voteRepo, recRepo, notificationService, c, events)
	trendingService := service.NewTrendingService(recRepo, c, &cfg.Engagement)
	rankingService := service.NewRankingService(userRepo, c, &cfg.Engagement)
	recService := service.NewRecommendationService(recRepo, followRepo, notificationService, c, events)
	followService := service.NewFollowService(followRepo, userRepo, notificationService, c, events)
	favoriteService := service.NewFavoriteService(favoriteRepo, events)
	commentService := service.NewCommentService(commentRepo, recRepo, userRepo, notificationService, events)
	searchService := service.NewSearchService(recRepo, searchIndex)

	handlers := &router.Handlers{
		Vote:           handler.NewVoteHandler(voteService),
		Recommendation: handler.NewRecommendationHandler(recService, trendingService),
		Search:         handler.NewSearchHandler(searchService),
		Ranking:        handler.NewRankingHandler(rankingService),
		Notification:   handler.NewNotificationHandler(notificationService),
		Favorite:       handler.NewFavoriteHandler(favoriteService),
		Follow:         handler.NewFollowHandler(followService),
		Comment:        handler.NewCommentHandler(commentService),
	}
	healthHandler := handler.NewHealthHandler(
		func(ctx context.Context) error { return database.Ping(ctx, db) },
		c, cfg.App.Name, cfg.App.Version,
	)

	gin.SetMode(cfg.App.Mode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	if len(cfg.App.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.App.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", handler.HeaderIdempotencyKey, middleware.HeaderRequestID},
			ExposeHeaders:    []string{middleware.HeaderRequestID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(sessions.Sessions(cfg.Session.Name, cookie.NewStore([]byte(cfg.Session.Secret))))

	r.GET("/healthz", healthHandler.Check)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.Setup(r, handlers, middleware.AuthRequired(cfg.JWT.Secret))

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("mode", cfg.App.Mode),
		zap.String("addr", addr),
		zap.String("cache", cache.Status(c)),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}
