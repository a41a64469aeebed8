package service

import (
	"context"

	"campusassistant/cmd/chatbot-service/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
)

// DocumentIndexRequest 文档索引请求
type DocumentIndexRequest struct {
	Source  string `json:"source" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// DocumentIndexResult 索引结果
type DocumentIndexResult struct {
	Source      string `json:"source"`
	ChunksAdded int    `json:"chunks_added"`
}

// DocumentStats 文档库统计
type DocumentStats struct {
	Sources    []string `json:"sources"`
	ChunkCount int64    `json:"chunk_count"`
}

// DocumentService 文档管理服务门面
type DocumentService struct {
	retrieval *biz.RetrievalUsecase
	log       *log.Helper
}

// NewDocumentService 创建文档服务
func NewDocumentService(retrieval *biz.RetrievalUsecase, logger log.Logger) *DocumentService {
	return &DocumentService{
		retrieval: retrieval,
		log:       log.NewHelper(log.With(logger, "module", "document-service")),
	}
}

// Index 索引文档
func (s *DocumentService) Index(ctx context.Context, req *DocumentIndexRequest) (*DocumentIndexResult, error) {
	count, err := s.retrieval.IndexDocument(ctx, req.Source, req.Content)
	if err != nil {
		return nil, err
	}
	biz.DocumentChunksIndexed.WithLabelValues(req.Source).Add(float64(count))
	return &DocumentIndexResult{Source: req.Source, ChunksAdded: count}, nil
}

// Delete 删除某来源的全部切片
func (s *DocumentService) Delete(ctx context.Context, source string) error {
	return s.retrieval.DeleteSource(ctx, source)
}

// Stats 文档库统计
func (s *DocumentService) Stats(ctx context.Context) (*DocumentStats, error) {
	sources, err := s.retrieval.Sources(ctx)
	if err != nil {
		return nil, err
	}
	count, err := s.retrieval.Count(ctx)
	if err != nil {
		return nil, err
	}
	if sources == nil {
		sources = []string{}
	}
	return &DocumentStats{Sources: sources, ChunkCount: count}, nil
}
