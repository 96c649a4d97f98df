package elasticsearch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tunepost-go/internal/config"
	"tunepost-go/pkg/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

// normalizeHosts 去空白，缺省协议补 http://
func normalizeHosts(raw []string) []string {
	hosts := make([]string, 0, len(raw))
	for _, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if !strings.HasPrefix(h, "http://") && !strings.HasPrefix(h, "https://") {
			h = "http://" + h
		}
		hosts = append(hosts, strings.TrimRight(h, "/"))
	}
	return hosts
}

// NewClient 创建客户端并确认集群可达。调用方据此决定搜索是否降级到数据库
func NewClient(cfg *config.ElasticsearchConfig) (*elasticsearch.Client, error) {
	hosts := normalizeHosts(cfg.Hosts)
	if len(hosts) == 0 {
		return nil, fmt.Errorf("elasticsearch: no hosts configured")
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: hosts,
		RetryOnStatus: []int{
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		},
		MaxRetries:   2,
		RetryBackoff: func(attempt int) time.Duration { return time.Duration(attempt) * 200 * time.Millisecond },
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: create client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := ping(ctx, es); err != nil {
		return nil, err
	}

	logger.Info("Elasticsearch connected", zap.Strings("hosts", hosts))
	return es, nil
}

func ping(ctx context.Context, es *elasticsearch.Client) error {
	res, err := es.Ping(es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch: ping: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch: ping: %s", res.Status())
	}
	return nil
}
