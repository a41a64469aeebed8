package domain

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultMaxMessages 会话保留的最近消息数上限
	DefaultMaxMessages = 10
	// MaxIntentHistory 意图历史上限
	MaxIntentHistory = 5
)

// ConversationContext 单个会话的上下文聚合根。
// 同一会话可能被并发请求触达，所有读写都要经过内部互斥锁。
type ConversationContext struct {
	mu sync.Mutex

	SessionID     string
	Language      Language
	Messages      []Message
	MaxMessages   int
	Entities      Entities
	IntentHistory []Intent
	Metadata      map[string]string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewConversationContext 创建会话上下文
func NewConversationContext(sessionID string, lang Language) *ConversationContext {
	now := time.Now().UTC()
	return &ConversationContext{
		SessionID:   sessionID,
		Language:    lang,
		MaxMessages: DefaultMaxMessages,
		Metadata:    make(map[string]string),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// AddUserMessage 追加用户消息
func (c *ConversationContext) AddUserMessage(content string, lang Language) {
	c.appendMessage(NewUserMessage(content, lang))
}

// AddAssistantMessage 追加助手消息
func (c *ConversationContext) AddAssistantMessage(content string, lang Language, sources []string, confidence float64) {
	c.appendMessage(NewAssistantMessage(content, lang, sources, confidence))
}

func (c *ConversationContext) appendMessage(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Messages = append(c.Messages, msg)
	// 只保留最近 N 条
	if len(c.Messages) > c.MaxMessages {
		c.Messages = c.Messages[len(c.Messages)-c.MaxMessages:]
	}
	c.UpdatedAt = time.Now().UTC()
}

// UpdateEntities 合并新抽取的实体
func (c *ConversationContext) UpdateEntities(entities Entities) {
	if entities.IsEmpty() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Entities.Merge(entities)
	c.UpdatedAt = time.Now().UTC()
}

// AddIntent 记录意图历史，只保留最近 MaxIntentHistory 条
func (c *ConversationContext) AddIntent(intent Intent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.IntentHistory = append(c.IntentHistory, intent)
	if len(c.IntentHistory) > MaxIntentHistory {
		c.IntentHistory = c.IntentHistory[len(c.IntentHistory)-MaxIntentHistory:]
	}
	c.UpdatedAt = time.Now().UTC()
}

// SetLanguage 更新会话语言
func (c *ConversationContext) SetLanguage(lang Language) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Language = lang
	c.UpdatedAt = time.Now().UTC()
}

// SetMetadata 写入自由格式元数据（如用户反馈）
func (c *ConversationContext) SetMetadata(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Metadata[key] = value
	c.UpdatedAt = time.Now().UTC()
}

// History 返回最近 limit 条消息的副本
func (c *ConversationContext) History(limit int) []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	msgs := c.Messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// HistoryAsText 将最近 limit 条消息渲染为 "Role: content" 文本
func (c *ConversationContext) HistoryAsText(limit int) string {
	history := c.History(limit)
	if len(history) == 0 {
		return ""
	}
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		// 角色可能来自外部快照，空值不做首字母大写
		role := string(msg.Role)
		if role != "" {
			role = strings.ToUpper(role[:1]) + role[1:]
		}
		lines = append(lines, fmt.Sprintf("%s: %s", role, msg.Content))
	}
	return strings.Join(lines, "\n")
}

// MessageCount 当前消息数
func (c *ConversationContext) MessageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Messages)
}

// LastUpdated 最近一次更新时间
func (c *ConversationContext) LastUpdated() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.UpdatedAt
}

// DominantIntent 返回意图历史中出现最多的意图。
// greeting/goodbye/general 不参与统计；并列时取先达到最大计数者。
func (c *ConversationContext) DominantIntent() (Intent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	counts := make(map[Intent]int)
	var best Intent
	bestCount := 0
	for _, intent := range c.IntentHistory {
		switch intent {
		case IntentGreeting, IntentGoodbye, IntentGeneral:
			continue
		}
		counts[intent]++
		if counts[intent] > bestCount {
			best = intent
			bestCount = counts[intent]
		}
	}
	if bestCount == 0 {
		return "", false
	}
	return best, true
}

// Snapshot 导出可序列化的快照，用于显式持久化
func (c *ConversationContext) Snapshot() ContextSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	msgs := make([]Message, len(c.Messages))
	copy(msgs, c.Messages)
	intents := make([]Intent, len(c.IntentHistory))
	copy(intents, c.IntentHistory)
	meta := make(map[string]string, len(c.Metadata))
	for k, v := range c.Metadata {
		meta[k] = v
	}
	return ContextSnapshot{
		SessionID:     c.SessionID,
		Language:      c.Language,
		Messages:      msgs,
		Entities:      c.Entities,
		IntentHistory: intents,
		Metadata:      meta,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// ContextSnapshot 会话上下文的持久化形态
type ContextSnapshot struct {
	SessionID     string            `json:"session_id"`
	Language      Language          `json:"language"`
	Messages      []Message         `json:"messages"`
	Entities      Entities          `json:"entities"`
	IntentHistory []Intent          `json:"intent_history"`
	Metadata      map[string]string `json:"metadata"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Restore 从快照恢复会话上下文
func (s ContextSnapshot) Restore() *ConversationContext {
	ctx := NewConversationContext(s.SessionID, s.Language)
	ctx.Messages = s.Messages
	ctx.Entities = s.Entities
	ctx.IntentHistory = s.IntentHistory
	if s.Metadata != nil {
		ctx.Metadata = s.Metadata
	}
	ctx.CreatedAt = s.CreatedAt
	ctx.UpdatedAt = s.UpdatedAt
	return ctx
}
