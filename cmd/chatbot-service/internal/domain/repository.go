package domain

import "context"

// FAQRepository FAQ 仓储接口（Postgres 实现）
type FAQRepository interface {
	Create(ctx context.Context, faq *FAQ) error
	Update(ctx context.Context, faq *FAQ) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*FAQ, error)
	// ListByLanguage 返回参与检索打分的候选集，category 为空表示不过滤
	ListByLanguage(ctx context.Context, lang Language, category string) ([]*FAQ, error)
	List(ctx context.Context, filter FAQFilter) ([]*FAQ, int64, error)
	Categories(ctx context.Context, lang Language) ([]string, error)
	Count(ctx context.Context) (int64, error)
	IncrementViews(ctx context.Context, id string) error
	IncrementHelpful(ctx context.Context, id string) error
}

// ChunkRepository 文档分块向量仓储接口（Milvus 实现）
type ChunkRepository interface {
	Insert(ctx context.Context, chunks []Chunk, vectors [][]float32) error
	Search(ctx context.Context, vector []float32, topK int) ([]ScoredChunk, error)
	DeleteBySource(ctx context.Context, source string) error
	Sources(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

// ContextCache 会话快照缓存接口（Redis 实现），仅在显式保存时调用
type ContextCache interface {
	Save(ctx context.Context, snapshot ContextSnapshot) error
	Load(ctx context.Context, sessionID string) (*ContextSnapshot, error)
	Delete(ctx context.Context, sessionID string) error
}

// Detection 语言探测结果
type Detection struct {
	Language   Language
	Confidence float64
}

// Translator 翻译后端接口
type Translator interface {
	Detect(ctx context.Context, text string) (Detection, error)
	// Translate 源语言与目标语言相同时原样返回
	Translate(ctx context.Context, text string, source, target Language) (string, error)
}

// Embedder 向量化后端接口
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// LLMClient 本地大模型生成接口
type LLMClient interface {
	Generate(ctx context.Context, prompt, systemPrompt string) (string, error)
	Health(ctx context.Context) error
}

// EventPublisher 领域事件发布接口（Kafka 实现），尽力而为，失败不影响主流程
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}
