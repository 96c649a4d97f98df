package elasticsearch

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"tunepost-go/pkg/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

// RecommendationIndex 推荐搜索索引，只存检索字段，详情回表查询
type RecommendationIndex struct {
	client *elasticsearch.Client
	name   string
}

// NewRecommendationIndex 绑定索引名
func NewRecommendationIndex(client *elasticsearch.Client, name string) *RecommendationIndex {
	return &RecommendationIndex{client: client, name: name}
}

// Name 索引名
func (i *RecommendationIndex) Name() string {
	return i.name
}

const recommendationsMapping = `{
	"settings": {
		"number_of_shards": 1,
		"number_of_replicas": 0
	},
	"mappings": {
		"properties": {
			"id": {"type": "long"},
			"author_id": {"type": "long"},
			"title": {
				"type": "text",
				"fields": {"keyword": {"type": "keyword", "ignore_above": 200}}
			},
			"artist": {
				"type": "text",
				"fields": {"keyword": {"type": "keyword", "ignore_above": 200}}
			},
			"genre": {"type": "keyword"},
			"caption": {"type": "text"},
			"upvotes": {"type": "long"},
			"downvotes": {"type": "long"},
			"score": {"type": "long"},
			"comment_count": {"type": "long"},
			"created_at": {"type": "date", "format": "strict_date_optional_time||epoch_millis"}
		}
	}
}`

// EnsureIndex 索引不存在时按 mapping 创建
func (i *RecommendationIndex) EnsureIndex(ctx context.Context) error {
	resp, err := i.client.Indices.Exists([]string{i.name}, i.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		logger.Info("Elasticsearch index already exists", zap.String("index", i.name))
		return nil
	}

	resp, err = i.client.Indices.Create(
		i.name,
		i.client.Indices.Create.WithContext(ctx),
		i.client.Indices.Create.WithBody(strings.NewReader(recommendationsMapping)),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return fmt.Errorf("create index failed: %s", resp.String())
	}

	logger.Info("Elasticsearch index created", zap.String("index", i.name))
	return nil
}
