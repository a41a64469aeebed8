package domain

// ChatTurnEvent 每处理完一条消息发布一次
type ChatTurnEvent struct {
	EventID          string   `json:"event_id"`
	EventType        string   `json:"event_type"`
	SessionID        string   `json:"session_id"`
	UserID           string   `json:"user_id,omitempty"`
	Language         string   `json:"language"`
	Intent           string   `json:"intent"`
	Confidence       float64  `json:"confidence"`
	FallbackRequired bool     `json:"fallback_required"`
	Sources          []string `json:"sources,omitempty"`
	LatencyMs        int64    `json:"latency_ms"`
	Timestamp        int64    `json:"timestamp"` // Unix 毫秒
}

// DocumentIndexedEvent 文档分块写入向量库后发布
type DocumentIndexedEvent struct {
	EventID    string `json:"event_id"`
	EventType  string `json:"event_type"`
	DocumentID string `json:"document_id"`
	Source     string `json:"source"`
	ChunkCount int    `json:"chunk_count"`
	Timestamp  int64  `json:"timestamp"`
}

// DocumentDeletedEvent 文档从向量库删除后发布
type DocumentDeletedEvent struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Source    string `json:"source"`
	Timestamp int64  `json:"timestamp"`
}
