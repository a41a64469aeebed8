package domain

// ChatRequest 一次对话请求
type ChatRequest struct {
	Message   string
	Language  Language
	SessionID string
	UserID    string
}

// ChatResponse 对话流水线的最终输出
type ChatResponse struct {
	Response           string   `json:"response"`
	Language           Language `json:"language"`
	SessionID          string   `json:"session_id"`
	ConfidenceScore    float64  `json:"confidence_score"`
	Sources            []string `json:"sources,omitempty"`
	SuggestedQuestions []string `json:"suggested_questions,omitempty"`
	FallbackRequired   bool     `json:"fallback_required"`
	Intent             Intent   `json:"intent"`
}

// ConversationHistory 会话历史查询结果
type ConversationHistory struct {
	SessionID string    `json:"session_id"`
	Messages  []Message `json:"messages"`
	Language  Language  `json:"language,omitempty"`
	CreatedAt string    `json:"created_at,omitempty"`
	Exists    bool      `json:"exists"`
}
