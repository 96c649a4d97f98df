package elasticsearch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"tunepost-go/internal/model"
	"tunepost-go/pkg/logger"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// RecommendationDoc ES 中的推荐文档
type RecommendationDoc struct {
	ID           int64  `json:"id"`
	AuthorID     int64  `json:"author_id"`
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	Genre        string `json:"genre"`
	Caption      string `json:"caption"`
	Upvotes      int64  `json:"upvotes"`
	Downvotes    int64  `json:"downvotes"`
	Score        int64  `json:"score"`
	CommentCount int64  `json:"comment_count"`
	CreatedAt    string `json:"created_at"`
}

// NewRecommendationDoc 由数据库记录生成文档，score 为累计净票数
func NewRecommendationDoc(r *model.Recommendation) *RecommendationDoc {
	return &RecommendationDoc{
		ID:           r.ID,
		AuthorID:     r.AuthorID,
		Title:        r.Song.Title,
		Artist:       r.Song.Artist,
		Genre:        r.Song.Genre,
		Caption:      r.Caption,
		Upvotes:      r.Upvotes,
		Downvotes:    r.Downvotes,
		Score:        r.Upvotes - r.Downvotes,
		CommentCount: r.CommentCount,
		CreatedAt:    r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Upsert 写入或覆盖单个文档
func (i *RecommendationIndex) Upsert(ctx context.Context, r *model.Recommendation) error {
	body, err := json.Marshal(NewRecommendationDoc(r))
	if err != nil {
		return err
	}

	resp, err := i.client.Index(
		i.name,
		bytes.NewReader(body),
		i.client.Index.WithContext(ctx),
		i.client.Index.WithDocumentID(strconv.FormatInt(r.ID, 10)),
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return fmt.Errorf("index document failed: %s", resp.String())
	}

	logger.Debug("Recommendation synced to ES", zap.Int64("recommendation_id", r.ID))
	return nil
}

// Delete 删除文档，不存在视为成功
func (i *RecommendationIndex) Delete(ctx context.Context, id int64) error {
	resp, err := i.client.Delete(i.name, strconv.FormatInt(id, 10), i.client.Delete.WithContext(ctx))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.IsError() && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete document failed: %s", resp.String())
	}
	return nil
}

// BulkUpsert 批量写入，返回成功和失败条数
func (i *RecommendationIndex) BulkUpsert(ctx context.Context, recs []model.Recommendation) (success, failed int, err error) {
	if len(recs) == 0 {
		return 0, 0, nil
	}

	var buf bytes.Buffer
	for idx := range recs {
		doc, err := json.Marshal(NewRecommendationDoc(&recs[idx]))
		if err != nil {
			return 0, len(recs), err
		}
		fmt.Fprintf(&buf, `{"index":{"_index":%q,"_id":"%d"}}`+"\n", i.name, recs[idx].ID)
		buf.Write(doc)
		buf.WriteByte('\n')
	}

	resp, err := i.client.Bulk(&buf, i.client.Bulk.WithContext(ctx))
	if err != nil {
		return 0, len(recs), err
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return 0, len(recs), fmt.Errorf("bulk failed: %s", resp.String())
	}

	var bulkResp struct {
		Items []struct {
			Index struct {
				Status int `json:"status"`
			} `json:"index"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&bulkResp); err != nil {
		return 0, len(recs), fmt.Errorf("decode bulk response: %w", err)
	}
	for _, item := range bulkResp.Items {
		if item.Index.Status >= 200 && item.Index.Status < 300 {
			success++
		} else {
			failed++
		}
	}

	logger.Info("Bulk sync to ES completed", zap.Int("success", success), zap.Int("failed", failed))
	return success, failed, nil
}
