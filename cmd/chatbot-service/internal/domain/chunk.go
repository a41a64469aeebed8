package domain

// Chunk 文档分块，向量库中检索的最小单元
type Chunk struct {
	ID         string
	DocumentID string
	Content    string
	Source     string
}

// ScoredChunk 带相关度的检索结果
type ScoredChunk struct {
	Chunk
	Relevance float64 // 归一化到 [0,1]
}
