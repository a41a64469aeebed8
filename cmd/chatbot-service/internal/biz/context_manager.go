package biz

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"campusassistant/cmd/chatbot-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
)

const (
	// defaultSessionTTL 空闲超过该时长的会话被回收
	defaultSessionTTL = 30 * time.Minute
	// defaultMaxSessions 内存中保留的会话上限，超出按 LRU 淘汰
	defaultMaxSessions = 1000
)

type sessionEntry struct {
	ctx     *domain.ConversationContext
	element *list.Element // 指向 lru 链表节点，Value 为 sessionID
}

// ContextManager 管理会话上下文：内存中 TTL+LRU 双重淘汰，
// Redis 中保留快照用于进程重启后的恢复。
type ContextManager struct {
	mu          sync.Mutex
	sessions    map[string]*sessionEntry
	lru         *list.List // 队首最旧，队尾最新
	ttl         time.Duration
	maxSessions int

	cache domain.ContextCache
	log   *log.Helper
}

// NewContextManager 创建会话上下文管理器
func NewContextManager(cache domain.ContextCache, logger log.Logger) *ContextManager {
	return &ContextManager{
		sessions:    make(map[string]*sessionEntry),
		lru:         list.New(),
		ttl:         defaultSessionTTL,
		maxSessions: defaultMaxSessions,
		cache:       cache,
		log:         log.NewHelper(log.With(logger, "module", "context")),
	}
}

// GetOrCreate 取出会话，不存在则新建。新建路径上内联执行一轮淘汰：
// 先清 TTL 过期会话，仍超上限时从队首逐个挤出最久未用的会话。
func (m *ContextManager) GetOrCreate(ctx context.Context, sessionID string, lang domain.Language) *domain.ConversationContext {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.sessions[sessionID]; ok {
		m.lru.MoveToBack(entry.element)
		return entry.ctx
	}

	// 冷会话先尝试从快照恢复
	if m.cache != nil {
		if snap, err := m.cache.Load(ctx, sessionID); err == nil && snap != nil {
			restored := snap.Restore()
			m.insertLocked(sessionID, restored)
			m.log.Debugf("session restored from snapshot: session_id=%s messages=%d", sessionID, len(snap.Messages))
			return restored
		}
	}

	conv := domain.NewConversationContext(sessionID, lang)
	m.insertLocked(sessionID, conv)
	return conv
}

// Get 只取不建，会话不存在或已过期返回 ErrSessionNotFound
func (m *ContextManager) Get(sessionID string) (*domain.ConversationContext, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if time.Since(entry.ctx.LastUpdated()) > m.ttl {
		m.removeLocked(sessionID)
		return nil, domain.ErrSessionNotFound
	}
	m.lru.MoveToBack(entry.element)
	return entry.ctx, nil
}

// Clear 删除会话及其快照
func (m *ContextManager) Clear(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	_, ok := m.sessions[sessionID]
	if ok {
		m.removeLocked(sessionID)
	}
	m.mu.Unlock()

	if m.cache != nil {
		if err := m.cache.Delete(ctx, sessionID); err != nil {
			m.log.Warnf("delete snapshot failed: session_id=%s err=%v", sessionID, err)
		}
	}
	if !ok {
		return domain.ErrSessionNotFound
	}
	return nil
}

// Count 当前内存中的会话数
func (m *ContextManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Persist 将会话快照写入 Redis，写失败只告警不影响应答
func (m *ContextManager) Persist(ctx context.Context, conv *domain.ConversationContext) {
	if m.cache == nil {
		return
	}
	snap := conv.Snapshot()
	if err := m.cache.Save(ctx, snap); err != nil {
		m.log.Warnf("save snapshot failed: session_id=%s err=%v", snap.SessionID, err)
	}
}

// BuildContextPrompt 把最近 limit 条历史拼进提示词；
// 没有历史时原样返回 query。
func (m *ContextManager) BuildContextPrompt(conv *domain.ConversationContext, query string, limit int) string {
	history := conv.HistoryAsText(limit)
	if history == "" {
		return query
	}
	return fmt.Sprintf(
		"Previous conversation:\n%s\n\nCurrent question: %s\n\nPlease consider the conversation context when answering.",
		history, query,
	)
}

// insertLocked 插入新会话并内联淘汰，调用方须持锁
func (m *ContextManager) insertLocked(sessionID string, conv *domain.ConversationContext) {
	now := time.Now()
	for e := m.lru.Front(); e != nil; {
		next := e.Next()
		id := e.Value.(string)
		if entry, ok := m.sessions[id]; ok && now.Sub(entry.ctx.LastUpdated()) > m.ttl {
			m.removeLocked(id)
		}
		e = next
	}
	for len(m.sessions) >= m.maxSessions {
		front := m.lru.Front()
		if front == nil {
			break
		}
		evicted := front.Value.(string)
		m.removeLocked(evicted)
		m.log.Infof("session evicted: session_id=%s", evicted)
	}

	elem := m.lru.PushBack(sessionID)
	m.sessions[sessionID] = &sessionEntry{ctx: conv, element: elem}
}

func (m *ContextManager) removeLocked(sessionID string) {
	if entry, ok := m.sessions[sessionID]; ok {
		m.lru.Remove(entry.element)
		delete(m.sessions, sessionID)
	}
}
