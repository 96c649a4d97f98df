package elasticsearch

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"tunepost-go/internal/model"

	"github.com/goccy/go-json"
)

// SearchRecommendations 全文检索，只返回 id 和高亮，按相关度排序
func (i *RecommendationIndex) SearchRecommendations(ctx context.Context, q string, from, size int) (*model.SearchHits, error) {
	body, err := json.Marshal(buildSearchQuery(q, from, size))
	if err != nil {
		return nil, err
	}

	resp, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(i.name),
		i.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return nil, fmt.Errorf("ES search error: %s", resp.String())
	}

	var esResp struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source struct {
					ID int64 `json:"id"`
				} `json:"_source"`
				Highlight map[string][]string `json:"highlight"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&esResp); err != nil {
		return nil, err
	}

	hits := &model.SearchHits{
		IDs:        make([]int64, 0, len(esResp.Hits.Hits)),
		Total:      esResp.Hits.Total.Value,
		Highlights: make(map[int64]map[string][]string),
	}
	for _, h := range esResp.Hits.Hits {
		hits.IDs = append(hits.IDs, h.Source.ID)
		if len(h.Highlight) > 0 {
			hits.Highlights[h.Source.ID] = h.Highlight
		}
	}
	return hits, nil
}

var searchFields = []string{"title^3", "artist^2", "caption^1"}

func buildSearchQuery(q string, from, size int) map[string]interface{} {
	q = strings.TrimSpace(q)

	var match map[string]interface{}
	if q == "" {
		match = map[string]interface{}{"match_all": map[string]interface{}{}}
	} else {
		mm := map[string]interface{}{
			"query":    q,
			"fields":   searchFields,
			"type":     "best_fields",
			"operator": "or",
		}
		// 短查询不要求最小匹配比例
		if len([]rune(q)) > 2 {
			mm["minimum_should_match"] = "50%"
		}
		match = map[string]interface{}{"multi_match": mm}
	}

	query := map[string]interface{}{
		"query":   match,
		"_source": []string{"id"},
		"from":    from,
		"size":    size,
		"sort": []interface{}{
			map[string]interface{}{"_score": map[string]string{"order": "desc"}},
			map[string]interface{}{"created_at": map[string]string{"order": "desc"}},
		},
	}
	if q != "" {
		query["highlight"] = map[string]interface{}{
			"fields": map[string]interface{}{
				"title":   map[string]interface{}{},
				"artist":  map[string]interface{}{},
				"caption": map[string]interface{}{},
			},
			"pre_tags":  []string{"<em>"},
			"post_tags": []string{"</em>"},
		}
	}
	return query
}
