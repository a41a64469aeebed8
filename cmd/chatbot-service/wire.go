//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"campusassistant/cmd/chatbot-service/internal/biz"
	"campusassistant/cmd/chatbot-service/internal/data"
	"campusassistant/cmd/chatbot-service/internal/infra"
	"campusassistant/cmd/chatbot-service/internal/server"
	"campusassistant/cmd/chatbot-service/internal/service"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// wireApp init kratos application.
func wireApp(c *Config, logger log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(
		// Config conversion providers
		provideDataConfig,
		provideRedisConfig,
		provideMilvusConfig,
		provideOllamaConfig,
		provideTranslatorConfig,
		provideEmbeddingConfig,
		provideKafkaConfig,
		provideHTTPConfig,
		provideAuthConfig,
		provideRateLimitConfig,

		// Infrastructure layer
		infra.NewOllamaClient,
		infra.NewTranslatorClient,
		infra.NewEmbeddingClient,
		infra.NewKafkaPublisher,

		// Data layer
		data.NewDB,
		data.NewRedis,
		data.NewMilvus,
		data.NewFAQRepository,
		data.NewContextCache,
		data.NewChunkRepository,

		// Business logic layer
		biz.NewIntentDetector,
		biz.NewEntityExtractor,
		biz.NewContextManager,
		biz.NewTranslationUsecase,
		biz.NewFAQUsecase,
		biz.NewRetrievalUsecase,
		biz.NewChatbotUsecase,

		// Service layer
		service.NewChatbotService,
		service.NewFAQService,
		service.NewDocumentService,

		// Server layer
		server.NewHTTPServer,

		// App
		newApp,
	))
}
