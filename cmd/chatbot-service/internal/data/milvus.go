package data

import (
	"context"
	"fmt"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const (
	// chunkCollection 文档切片集合名
	chunkCollection = "document_chunks"
	// ivfNlist IVF 索引的聚簇数
	ivfNlist = 128
)

// MilvusConfig 向量库配置
type MilvusConfig struct {
	Address   string `yaml:"address"`
	VectorDim int    `yaml:"vector_dim"`
}

// NewMilvus 创建 Milvus 客户端并确保集合与索引就绪
func NewMilvus(config *MilvusConfig) (client.Client, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := client.NewClient(ctx, client.Config{Address: config.Address})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect milvus: %w", err)
	}

	if err := ensureCollection(ctx, c, config.VectorDim); err != nil {
		_ = c.Close()
		return nil, nil, err
	}

	cleanup := func() {
		_ = c.Close()
	}
	return c, cleanup, nil
}

// ensureCollection 集合不存在时建表、建索引并加载
func ensureCollection(ctx context.Context, c client.Client, dim int) error {
	exists, err := c.HasCollection(ctx, chunkCollection)
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	if exists {
		return c.LoadCollection(ctx, chunkCollection, false)
	}

	schema := &entity.Schema{
		CollectionName: chunkCollection,
		Description:    "document chunks for retrieval augmented answers",
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				TypeParams: map[string]string{"max_length": "64"},
			},
			{
				Name:       "document_id",
				DataType:   entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": "64"},
			},
			{
				Name:       "content",
				DataType:   entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": "2048"},
			},
			{
				Name:       "source",
				DataType:   entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": "256"},
			},
			{
				Name:       "embedding",
				DataType:   entity.FieldTypeFloatVector,
				TypeParams: map[string]string{"dim": fmt.Sprintf("%d", dim)},
			},
		},
	}

	if err := c.CreateCollection(ctx, schema, 1); err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	index, err := entity.NewIndexIvfFlat(entity.COSINE, ivfNlist)
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}
	if err := c.CreateIndex(ctx, chunkCollection, "embedding", index, false); err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	return c.LoadCollection(ctx, chunkCollection, false)
}
