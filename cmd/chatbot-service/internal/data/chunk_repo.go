package data

import (
	"context"
	"fmt"
	"strconv"

	"campusassistant/cmd/chatbot-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// searchNprobe 检索时探查的聚簇数
const searchNprobe = 16

// ChunkRepository 基于 Milvus 的切片仓储
type ChunkRepository struct {
	milvus client.Client
	dim    int
	log    *log.Helper
}

// NewChunkRepository 创建切片仓储
func NewChunkRepository(milvus client.Client, config *MilvusConfig, logger log.Logger) domain.ChunkRepository {
	return &ChunkRepository{
		milvus: milvus,
		dim:    config.VectorDim,
		log:    log.NewHelper(log.With(logger, "module", "chunk-repo")),
	}
}

// Insert 批量写入切片及其向量
func (r *ChunkRepository) Insert(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) == 0 {
		return nil
	}
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk/vector count mismatch: %d != %d", len(chunks), len(vectors))
	}

	ids := make([]string, len(chunks))
	documentIDs := make([]string, len(chunks))
	contents := make([]string, len(chunks))
	sources := make([]string, len(chunks))
	for i, c := range chunks {
		ids[i] = c.ID
		documentIDs[i] = c.DocumentID
		contents[i] = c.Content
		sources[i] = c.Source
	}

	_, err := r.milvus.Insert(ctx, chunkCollection, "",
		entity.NewColumnVarChar("id", ids),
		entity.NewColumnVarChar("document_id", documentIDs),
		entity.NewColumnVarChar("content", contents),
		entity.NewColumnVarChar("source", sources),
		entity.NewColumnFloatVector("embedding", r.dim, vectors),
	)
	if err != nil {
		return fmt.Errorf("milvus insert: %w", err)
	}

	if err := r.milvus.Flush(ctx, chunkCollection, false); err != nil {
		r.log.Warnf("milvus flush failed: err=%v", err)
	}
	return nil
}

// Search 向量检索 topK 个切片。余弦相似度可能为负，
// 统一截断到 [0,1] 作为相关度。
func (r *ChunkRepository) Search(ctx context.Context, vector []float32, topK int) ([]domain.ScoredChunk, error) {
	sp, err := entity.NewIndexIvfFlatSearchParam(searchNprobe)
	if err != nil {
		return nil, fmt.Errorf("build search param: %w", err)
	}

	results, err := r.milvus.Search(ctx, chunkCollection, nil, "",
		[]string{"id", "document_id", "content", "source"},
		[]entity.Vector{entity.FloatVector(vector)},
		"embedding", entity.COSINE, topK, sp,
	)
	if err != nil {
		return nil, fmt.Errorf("milvus search: %w", err)
	}

	var scored []domain.ScoredChunk
	for _, result := range results {
		idCol := varcharColumn(result.Fields, "id")
		docCol := varcharColumn(result.Fields, "document_id")
		contentCol := varcharColumn(result.Fields, "content")
		sourceCol := varcharColumn(result.Fields, "source")

		for i := 0; i < result.ResultCount; i++ {
			relevance := float64(result.Scores[i])
			if relevance < 0 {
				relevance = 0
			}
			if relevance > 1 {
				relevance = 1
			}
			scored = append(scored, domain.ScoredChunk{
				Chunk: domain.Chunk{
					ID:         columnValue(idCol, i),
					DocumentID: columnValue(docCol, i),
					Content:    columnValue(contentCol, i),
					Source:     columnValue(sourceCol, i),
				},
				Relevance: relevance,
			})
		}
	}
	return scored, nil
}

// DeleteBySource 删除某来源的全部切片
func (r *ChunkRepository) DeleteBySource(ctx context.Context, source string) error {
	expr := fmt.Sprintf("source == '%s'", source)
	if err := r.milvus.Delete(ctx, chunkCollection, "", expr); err != nil {
		return fmt.Errorf("milvus delete: %w", err)
	}
	return nil
}

// Sources 列出所有已索引的来源
func (r *ChunkRepository) Sources(ctx context.Context) ([]string, error) {
	resultSet, err := r.milvus.Query(ctx, chunkCollection, nil,
		`source != ""`, []string{"source"})
	if err != nil {
		return nil, fmt.Errorf("milvus query: %w", err)
	}

	seen := make(map[string]struct{})
	var sources []string
	col := varcharColumn(resultSet, "source")
	if col != nil {
		for _, s := range col.Data() {
			if _, ok := seen[s]; !ok {
				seen[s] = struct{}{}
				sources = append(sources, s)
			}
		}
	}
	return sources, nil
}

// Count 切片总数
func (r *ChunkRepository) Count(ctx context.Context) (int64, error) {
	stats, err := r.milvus.GetCollectionStatistics(ctx, chunkCollection)
	if err != nil {
		return 0, fmt.Errorf("milvus statistics: %w", err)
	}
	return parseRowCount(stats)
}

// parseRowCount 从集合统计里取 row_count
func parseRowCount(stats map[string]string) (int64, error) {
	count, err := strconv.ParseInt(stats["row_count"], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse row_count %q: %w", stats["row_count"], err)
	}
	return count, nil
}

// varcharColumn 按列名取 VarChar 列
func varcharColumn(columns []entity.Column, name string) *entity.ColumnVarChar {
	for _, col := range columns {
		if col.Name() == name {
			if vc, ok := col.(*entity.ColumnVarChar); ok {
				return vc
			}
		}
	}
	return nil
}

// columnValue 取列的第 i 个值，列缺失时返回空串
func columnValue(col *entity.ColumnVarChar, i int) string {
	if col == nil {
		return ""
	}
	data := col.Data()
	if i < 0 || i >= len(data) {
		return ""
	}
	return data[i]
}
