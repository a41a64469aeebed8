package biz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campusassistant/cmd/chatbot-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

const (
	// chunkSize 文档切片长度（字符数）
	chunkSize = 500
	// chunkOverlap 相邻切片的重叠长度
	chunkOverlap = 50
	// ragTopK 检索返回的切片数
	ragTopK = 3
	// ragMinRelevance 低于该相关度的切片被丢弃
	ragMinRelevance = 0.3
)

// ragPrompt RAG 应答的系统提示词模板
const ragPrompt = `Answer the question based ONLY on the provided context from documents.
If the context doesn't contain the answer, clearly state that you don't have that information
and suggest where the user might find it.

Context:
%s

Question: %s

Provide a helpful, accurate answer based on the context above.`

// RAGAnswer 基于文档检索生成的应答
type RAGAnswer struct {
	Answer       string
	Sources      []string
	Confidence   float64
	ContextFound bool
	ChunkCount   int
}

// RetrievalUsecase 文档索引与检索增强生成
type RetrievalUsecase struct {
	chunks    domain.ChunkRepository
	embedder  domain.Embedder
	llm       domain.LLMClient
	publisher domain.EventPublisher
	log       *log.Helper
}

// NewRetrievalUsecase 创建检索用例
func NewRetrievalUsecase(
	chunks domain.ChunkRepository,
	embedder domain.Embedder,
	llm domain.LLMClient,
	publisher domain.EventPublisher,
	logger log.Logger,
) *RetrievalUsecase {
	return &RetrievalUsecase{
		chunks:    chunks,
		embedder:  embedder,
		llm:       llm,
		publisher: publisher,
		log:       log.NewHelper(log.With(logger, "module", "retrieval")),
	}
}

// IndexDocument 切片、向量化并写入向量库，返回切片数
func (uc *RetrievalUsecase) IndexDocument(ctx context.Context, source, content string) (int, error) {
	text := strings.TrimSpace(content)
	if text == "" {
		return 0, domain.ErrNoRelevantContent
	}

	documentID := uuid.New().String()
	pieces := SplitText(text, chunkSize, chunkOverlap)

	chunks := make([]domain.Chunk, 0, len(pieces))
	for _, piece := range pieces {
		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: documentID,
			Content:    piece,
			Source:     source,
		})
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vectors, err := uc.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed document: %w", err)
	}

	if err := uc.chunks.Insert(ctx, chunks, vectors); err != nil {
		return 0, fmt.Errorf("insert chunks: %w", err)
	}

	uc.log.Infof("document indexed: source=%s chunks=%d", source, len(chunks))
	uc.publish(ctx, domain.DocumentIndexedEvent{
		EventID:    uuid.New().String(),
		EventType:  "document.indexed",
		DocumentID: documentID,
		Source:     source,
		ChunkCount: len(chunks),
		Timestamp:  time.Now().UnixMilli(),
	})

	return len(chunks), nil
}

// Answer 检索相关切片并生成应答。
// 无切片通过相关度门限时返回 ContextFound=false；
// 置信度取实际使用切片的平均相关度。
func (uc *RetrievalUsecase) Answer(ctx context.Context, query string) (*RAGAnswer, error) {
	vectors, err := uc.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) == 0 {
		return &RAGAnswer{}, nil
	}

	scored, err := uc.chunks.Search(ctx, vectors[0], ragTopK)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}

	var used []domain.ScoredChunk
	for _, sc := range scored {
		if sc.Relevance >= ragMinRelevance {
			used = append(used, sc)
		}
	}
	if len(used) == 0 {
		return &RAGAnswer{}, nil
	}

	var contextParts []string
	var sources []string
	seen := make(map[string]struct{})
	for i, sc := range used {
		contextParts = append(contextParts, fmt.Sprintf("[Document %d]: %s", i+1, sc.Content))
		if _, ok := seen[sc.Source]; !ok {
			seen[sc.Source] = struct{}{}
			sources = append(sources, sc.Source)
		}
	}

	systemPrompt := fmt.Sprintf(ragPrompt, strings.Join(contextParts, "\n\n"), query)
	answer, err := uc.llm.Generate(ctx, query, systemPrompt)
	if err != nil {
		uc.log.Errorf("rag generation failed: err=%v", err)
		return &RAGAnswer{Sources: sources, ContextFound: true}, err
	}

	var sum float64
	for _, sc := range used {
		sum += sc.Relevance
	}

	return &RAGAnswer{
		Answer:       answer,
		Sources:      sources,
		Confidence:   sum / float64(len(used)),
		ContextFound: true,
		ChunkCount:   len(used),
	}, nil
}

// DeleteSource 删除某个来源的全部切片
func (uc *RetrievalUsecase) DeleteSource(ctx context.Context, source string) error {
	if err := uc.chunks.DeleteBySource(ctx, source); err != nil {
		return err
	}
	uc.log.Infof("document deleted: source=%s", source)
	uc.publish(ctx, domain.DocumentDeletedEvent{
		EventID:   uuid.New().String(),
		EventType: "document.deleted",
		Source:    source,
		Timestamp: time.Now().UnixMilli(),
	})
	return nil
}

// Sources 列出已索引的文档来源
func (uc *RetrievalUsecase) Sources(ctx context.Context) ([]string, error) {
	return uc.chunks.Sources(ctx)
}

// Count 向量库中的切片总数
func (uc *RetrievalUsecase) Count(ctx context.Context) (int64, error) {
	return uc.chunks.Count(ctx)
}

func (uc *RetrievalUsecase) publish(ctx context.Context, event any) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.log.Warnf("publish event failed: err=%v", err)
	}
}

// SplitText 按段落、换行、空格的优先级递归切片，
// 相邻切片保留 overlap 个字符的重叠。
func SplitText(text string, size, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, strings.TrimSpace(string(runes[start:])))
			break
		}

		// 在窗口内找最靠后的自然边界
		cut := end
		window := string(runes[start:end])
		for _, sep := range []string{"\n\n", "\n", " "} {
			if idx := strings.LastIndex(window, sep); idx > 0 {
				cut = start + len([]rune(window[:idx]))
				break
			}
		}

		chunk := strings.TrimSpace(string(runes[start:cut]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := cut - overlap
		if next <= start {
			next = cut
		}
		start = next
	}
	return chunks
}
