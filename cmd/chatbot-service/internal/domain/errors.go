package domain

import "errors"

var (
	// ErrSessionNotFound 会话未找到
	ErrSessionNotFound = errors.New("session not found")

	// ErrFAQNotFound FAQ 未找到
	ErrFAQNotFound = errors.New("faq not found")

	// ErrEmptyMessage 消息为空
	ErrEmptyMessage = errors.New("message must not be empty")

	// ErrUnauthorized 未授权
	ErrUnauthorized = errors.New("unauthorized")

	// ErrLLMUnavailable 生成服务不可用
	ErrLLMUnavailable = errors.New("llm service unavailable")

	// ErrNoRelevantContent 检索不到相关内容
	ErrNoRelevantContent = errors.New("no relevant content found")
)
