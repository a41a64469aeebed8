package main

import (
	"time"

	"campusassistant/cmd/chatbot-service/internal/data"
	"campusassistant/cmd/chatbot-service/internal/infra"
	"campusassistant/pkg/observability"
)

// Config is application config.
type Config struct {
	Server        ServerConf
	Data          DataConf
	Upstream      UpstreamConf
	Event         EventConf
	Security      SecurityConf
	Observability ObservabilityConf
}

// ServerConf is server config.
type ServerConf struct {
	HTTP      HTTPConf      `yaml:"http"`
	RateLimit RateLimitConf `yaml:"rate_limit"`
}

type HTTPConf struct {
	Network string        `yaml:"network"`
	Addr    string        `yaml:"addr"`
	Timeout time.Duration `yaml:"timeout"`
}

type RateLimitConf struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// DataConf is data config.
type DataConf struct {
	Database data.Config       `yaml:"database"`
	Redis    data.RedisConfig  `yaml:"redis"`
	Milvus   data.MilvusConfig `yaml:"milvus"`
}

// UpstreamConf is upstream services config.
type UpstreamConf struct {
	Ollama     infra.OllamaConfig     `yaml:"ollama"`
	Translator infra.TranslatorConfig `yaml:"translator"`
	Embedding  infra.EmbeddingConfig  `yaml:"embedding"`
}

// EventConf is event config (Kafka).
type EventConf struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// SecurityConf is security config.
type SecurityConf struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// ObservabilityConf is observability config.
type ObservabilityConf struct {
	LogLevel string                      `yaml:"log_level"`
	Tracing  observability.TracingConfig `yaml:"tracing"`
}
