package database

import (
	"context"
	"fmt"
	"time"

	"tunepost-go/internal/config"
	"tunepost-go/internal/model"
	"tunepost-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open 建立 PostgreSQL 连接。TranslateError 打开后唯一键冲突会返回 gorm.ErrDuplicatedKey
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	return OpenDSN(cfg.DSN(), cfg)
}

// OpenDSN 使用给定 DSN 连接，集成测试用容器返回的连接串
func OpenDSN(dsn string, cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("dbname", cfg.DBName),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
	)
	return db, nil
}

// Migrate 迁移全部表结构
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Song{},
		&model.Recommendation{},
		&model.Vote{},
		&model.VoteReceipt{},
		&model.Follow{},
		&model.Favorite{},
		&model.Comment{},
		&model.Notification{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	logger.Info("Database auto migration completed")
	return nil
}

// Ping 健康检查用
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close 关闭连接池
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	logger.Info("Database connection closed")
	return sqlDB.Close()
}
