package domain

import "time"

// MessageRole 消息角色
type MessageRole string

const (
	RoleUser      MessageRole = "user"      // 用户
	RoleAssistant MessageRole = "assistant" // 助手
	RoleSystem    MessageRole = "system"    // 系统
)

// MessageMeta 消息附加信息，仅助手消息会携带
type MessageMeta struct {
	Sources    []string `json:"sources,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Message 会话中的一条消息
type Message struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Language  Language    `json:"language"`
	Timestamp time.Time   `json:"timestamp"`
	Meta      MessageMeta `json:"metadata"`
}

// NewUserMessage 创建用户消息
func NewUserMessage(content string, lang Language) Message {
	return Message{
		Role:      RoleUser,
		Content:   content,
		Language:  lang,
		Timestamp: time.Now().UTC(),
	}
}

// NewAssistantMessage 创建助手消息
func NewAssistantMessage(content string, lang Language, sources []string, confidence float64) Message {
	c := confidence
	return Message{
		Role:      RoleAssistant,
		Content:   content,
		Language:  lang,
		Timestamp: time.Now().UTC(),
		Meta: MessageMeta{
			Sources:    sources,
			Confidence: &c,
		},
	}
}
