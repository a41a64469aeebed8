package biz

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChatTurnsTotal 对话轮次计数，按意图与应答来源分
	ChatTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatbot",
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Total number of chat turns processed",
		},
		[]string{"intent", "answer_source", "language"},
	)

	// ChatTurnDuration 单轮对话处理时长
	ChatTurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chatbot",
			Subsystem: "chat",
			Name:      "turn_duration_seconds",
			Help:      "Chat turn processing duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"answer_source"},
	)

	// ChatConfidence 应答置信度分布
	ChatConfidence = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chatbot",
			Subsystem: "chat",
			Name:      "confidence",
			Help:      "Response confidence score distribution",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
		[]string{"answer_source"},
	)

	// HumanFallbackTotal 转人工建议次数
	HumanFallbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatbot",
			Subsystem: "chat",
			Name:      "human_fallback_total",
			Help:      "Total number of turns flagged for human fallback",
		},
		[]string{"intent"},
	)

	// ActiveSessions 内存中的活跃会话数
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "chatbot",
			Subsystem: "session",
			Name:      "active",
			Help:      "Number of conversation sessions held in memory",
		},
	)

	// DocumentChunksIndexed 文档索引切片计数
	DocumentChunksIndexed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatbot",
			Subsystem: "rag",
			Name:      "chunks_indexed_total",
			Help:      "Total number of document chunks indexed",
		},
		[]string{"source"},
	)

	// LLMRequestDuration 大模型请求时长
	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chatbot",
			Subsystem: "llm",
			Name:      "request_duration_seconds",
			Help:      "LLM request duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"status"},
	)
)
