package main

import (
	"campusassistant/cmd/chatbot-service/internal/data"
	"campusassistant/cmd/chatbot-service/internal/infra"
	"campusassistant/cmd/chatbot-service/internal/server"
)

// 配置切分 provider，把顶层 Config 拆给各层

func provideDataConfig(c *Config) *data.Config {
	return &c.Data.Database
}

func provideRedisConfig(c *Config) *data.RedisConfig {
	return &c.Data.Redis
}

func provideMilvusConfig(c *Config) *data.MilvusConfig {
	return &c.Data.Milvus
}

func provideOllamaConfig(c *Config) *infra.OllamaConfig {
	return &c.Upstream.Ollama
}

func provideTranslatorConfig(c *Config) *infra.TranslatorConfig {
	return &c.Upstream.Translator
}

func provideEmbeddingConfig(c *Config) *infra.EmbeddingConfig {
	return &c.Upstream.Embedding
}

func provideKafkaConfig(c *Config) *infra.KafkaConfig {
	return &infra.KafkaConfig{
		Brokers: c.Event.Brokers,
		Topic:   c.Event.Topic,
	}
}

func provideHTTPConfig(c *Config) *server.HTTPConfig {
	return &server.HTTPConfig{
		Network: c.Server.HTTP.Network,
		Addr:    c.Server.HTTP.Addr,
		Timeout: c.Server.HTTP.Timeout,
	}
}

func provideAuthConfig(c *Config) *server.AuthConfig {
	return &server.AuthConfig{
		JWTSecret: c.Security.JWTSecret,
	}
}

func provideRateLimitConfig(c *Config) *server.RateLimitConfig {
	return &server.RateLimitConfig{
		RequestsPerMinute: c.Server.RateLimit.RequestsPerMinute,
	}
}
