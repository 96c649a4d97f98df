package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Session       SessionConfig       `mapstructure:"session"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	Log           LogConfig           `mapstructure:"log"`
	Engagement    EngagementConfig    `mapstructure:"engagement"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name        string   `mapstructure:"name"`
	Version     string   `mapstructure:"version"`
	Mode        string   `mapstructure:"mode"`
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 秒
}

// DSN 返回PostgreSQL连接字符串
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// CacheConfig 缓存配置
// URL 为空表示禁用缓存（此时 Driver=memory 可启用进程内缓存）
type CacheConfig struct {
	URL                 string `mapstructure:"url"`
	Driver              string `mapstructure:"driver"`
	OpTimeoutMS         int    `mapstructure:"op_timeout_ms"`
	ReconnectAttempts   int    `mapstructure:"reconnect_attempts"`
	ReconnectIntervalMS int    `mapstructure:"reconnect_interval_ms"`
	BreakerFailures     int    `mapstructure:"breaker_failures"`
	MemorySize          int    `mapstructure:"memory_size"`
}

// OpTimeout 单次缓存操作超时
func (c *CacheConfig) OpTimeout() time.Duration {
	return time.Duration(c.OpTimeoutMS) * time.Millisecond
}

// ReconnectInterval 两次重连之间的间隔
func (c *CacheConfig) ReconnectInterval() time.Duration {
	return time.Duration(c.ReconnectIntervalMS) * time.Millisecond
}

// Enabled 是否配置了远程缓存
func (c *CacheConfig) Enabled() bool {
	return strings.TrimSpace(c.URL) != ""
}

// KafkaConfig Kafka配置
type KafkaConfig struct {
	Brokers []string          `mapstructure:"brokers"`
	Topics  map[string]string `mapstructure:"topics"`
}

// EngagementTopic 返回互动事件 topic
func (k *KafkaConfig) EngagementTopic() string {
	if t := k.Topics["engagement"]; t != "" {
		return t
	}
	return "engagement-events"
}

// ElasticsearchConfig Elasticsearch配置
type ElasticsearchConfig struct {
	Hosts []string          `mapstructure:"hosts"`
	Index map[string]string `mapstructure:"index"`
}

// RecommendationIndex 返回推荐索引名
func (e *ElasticsearchConfig) RecommendationIndex() string {
	if name := e.Index["recommendations"]; name != "" {
		return name
	}
	return "recommendations"
}

// SessionConfig 会话 Cookie 配置（会话由认证服务签发，这里只负责读取）
type SessionConfig struct {
	Name   string `mapstructure:"name"`
	Secret string `mapstructure:"secret"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

// EngagementConfig 排行榜、热门、通知相关参数
type EngagementConfig struct {
	TrendingCacheTTLSeconds int `mapstructure:"trending_cache_ttl_seconds"`
	RankingCacheTTLSeconds  int `mapstructure:"ranking_cache_ttl_seconds"`
	UnreadCacheTTLSeconds   int `mapstructure:"unread_cache_ttl_seconds"`
	NotificationsPageSize   int `mapstructure:"notifications_page_size"`
	MaxLimit                int `mapstructure:"max_limit"`
}

// TrendingCacheTTL 热门列表缓存上限
func (e *EngagementConfig) TrendingCacheTTL() time.Duration {
	return time.Duration(e.TrendingCacheTTLSeconds) * time.Second
}

// RankingCacheTTL 排行榜缓存上限
func (e *EngagementConfig) RankingCacheTTL() time.Duration {
	return time.Duration(e.RankingCacheTTLSeconds) * time.Second
}

// UnreadCacheTTL 未读数缓存时间
func (e *EngagementConfig) UnreadCacheTTL() time.Duration {
	return time.Duration(e.UnreadCacheTTLSeconds) * time.Second
}

// 全局配置实例
var globalConfig *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "tunepost")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.mode", "release")
	v.SetDefault("app.port", 8000)

	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "tunepost")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 3600)

	v.SetDefault("cache.url", "")
	v.SetDefault("cache.driver", "none")
	v.SetDefault("cache.op_timeout_ms", 200)
	v.SetDefault("cache.reconnect_attempts", 5)
	v.SetDefault("cache.reconnect_interval_ms", 2000)
	v.SetDefault("cache.breaker_failures", 3)
	v.SetDefault("cache.memory_size", 1024)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("elasticsearch.hosts", []string{})

	v.SetDefault("session.name", "tunepost_session")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("engagement.trending_cache_ttl_seconds", 300)
	v.SetDefault("engagement.ranking_cache_ttl_seconds", 300)
	v.SetDefault("engagement.unread_cache_ttl_seconds", 30)
	v.SetDefault("engagement.notifications_page_size", 20)
	v.SetDefault("engagement.max_limit", 100)
}

// Load 加载配置文件，文件不存在时仅使用默认值和环境变量
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// CACHE_URL -> cache.url
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	globalConfig = &cfg

	return &cfg, nil
}

// Get 获取全局配置
func Get() *Config {
	if globalConfig == nil {
		panic("config not loaded, please call Load() first")
	}
	return globalConfig
}
