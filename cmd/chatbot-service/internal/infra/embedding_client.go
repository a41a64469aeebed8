package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campusassistant/cmd/chatbot-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
)

// EmbeddingConfig 向量化服务配置
type EmbeddingConfig struct {
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// EmbeddingClient 文本向量化客户端
type EmbeddingClient struct {
	client *baseClient
	model  string
	log    *log.Helper
}

// NewEmbeddingClient 创建向量化客户端
func NewEmbeddingClient(config *EmbeddingConfig, logger log.Logger) domain.Embedder {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	return &EmbeddingClient{
		client: newBaseClient(clientConfig{
			ServiceName: "embedding",
			BaseURL:     strings.TrimRight(config.BaseURL, "/"),
			Timeout:     config.Timeout,
		}),
		model: config.Model,
		log:   log.NewHelper(log.With(logger, "module", "embedding-client")),
	}
}

// Embed 批量向量化文本
func (c *EmbeddingClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	req := embedRequest{Model: c.model, Input: texts}

	var resp embedResponse
	if err := c.client.post(ctx, "/api/embed", req, &resp); err != nil {
		return nil, fmt.Errorf("embed texts: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embed texts: got %d embeddings for %d inputs", len(resp.Embeddings), len(texts))
	}
	return resp.Embeddings, nil
}
