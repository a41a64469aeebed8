package server

import (
	"net/http"
	"strconv"
	"time"

	"campusassistant/cmd/chatbot-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	Network string        `yaml:"network"`
	Addr    string        `yaml:"addr"`
	Timeout time.Duration `yaml:"timeout"`
}

// HTTPServer HTTP 服务器，gin 路由挂载到 kratos 传输层
type HTTPServer struct {
	engine  *gin.Engine
	chatbot *service.ChatbotService
	faqs    *service.FAQService
	docs    *service.DocumentService
	logger  log.Logger
}

// NewHTTPServer 创建 HTTP 服务器
func NewHTTPServer(
	config *HTTPConfig,
	authConfig *AuthConfig,
	rateLimitConfig *RateLimitConfig,
	rdb *redis.Client,
	chatbot *service.ChatbotService,
	faqs *service.FAQService,
	docs *service.DocumentService,
	logger log.Logger,
) *khttp.Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	s := &HTTPServer{
		engine:  engine,
		chatbot: chatbot,
		faqs:    faqs,
		docs:    docs,
		logger:  logger,
	}

	// 中间件顺序：恢复最先，限流最靠近业务
	engine.Use(RecoveryMiddleware(logger))
	engine.Use(CORSMiddleware())
	engine.Use(MetricsMiddleware())
	engine.Use(TracingMiddleware())
	engine.Use(LoggingMiddleware(logger))

	s.registerRoutes(authConfig, rateLimitConfig, rdb)

	opts := []khttp.ServerOption{
		khttp.Address(config.Addr),
	}
	if config.Network != "" {
		opts = append(opts, khttp.Network(config.Network))
	}
	if config.Timeout > 0 {
		opts = append(opts, khttp.Timeout(config.Timeout))
	}

	srv := khttp.NewServer(opts...)
	srv.HandlePrefix("/", engine)
	return srv
}

// registerRoutes 注册路由
func (s *HTTPServer) registerRoutes(authConfig *AuthConfig, rateLimitConfig *RateLimitConfig, rdb *redis.Client) {
	api := s.engine.Group("/api/v1")

	// 对话接口，带限流
	chat := api.Group("/chat")
	chat.Use(RateLimitMiddleware(rdb, rateLimitConfig, s.logger))
	{
		chat.POST("", s.chat)
		chat.GET("/history/:session_id", s.history)
		chat.DELETE("/session/:session_id", s.clearSession)
		chat.GET("/sessions/count", s.sessionCount)
		chat.POST("/feedback", s.feedback)
	}

	api.GET("/languages", s.languages)

	// FAQ 接口，读开放，写需要管理员
	faqs := api.Group("/faqs")
	{
		faqs.GET("", s.listFAQs)
		faqs.GET("/categories", s.faqCategories)
		faqs.GET("/:id", s.getFAQ)
		faqs.POST("/search", s.searchFAQs)
		faqs.POST("/:id/helpful", s.markHelpful)

		admin := faqs.Group("")
		admin.Use(AdminAuthMiddleware(authConfig))
		{
			admin.POST("", s.createFAQ)
			admin.PUT("/:id", s.updateFAQ)
			admin.DELETE("/:id", s.deleteFAQ)
			admin.POST("/seed", s.seedFAQs)
		}
	}

	// 文档接口，全部需要管理员
	docs := api.Group("/documents")
	docs.Use(AdminAuthMiddleware(authConfig))
	{
		docs.POST("", s.indexDocument)
		docs.GET("", s.documentStats)
		docs.DELETE("/:source", s.deleteDocument)
	}

	// 健康检查与指标
	s.engine.GET("/health", s.health)
	s.engine.GET("/health/llm", s.llmHealth)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// chat 处理一轮对话
func (s *HTTPServer) chat(c *gin.Context) {
	var req service.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	resp, err := s.chatbot.Chat(c.Request.Context(), &req)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, resp)
}

// history 取会话历史
func (s *HTTPServer) history(c *gin.Context) {
	sessionID := c.Param("session_id")
	Success(c, s.chatbot.History(c.Request.Context(), sessionID))
}

// clearSession 清除会话
func (s *HTTPServer) clearSession(c *gin.Context) {
	sessionID := c.Param("session_id")
	if err := s.chatbot.ClearConversation(c.Request.Context(), sessionID); err != nil {
		Error(c, err)
		return
	}
	Success(c, gin.H{"session_id": sessionID, "cleared": true})
}

// sessionCount 当前活跃会话数
func (s *HTTPServer) sessionCount(c *gin.Context) {
	Success(c, gin.H{"active_sessions": s.chatbot.SessionCount()})
}

// feedback 记录会话反馈
func (s *HTTPServer) feedback(c *gin.Context) {
	var req service.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	if err := s.chatbot.Feedback(c.Request.Context(), &req); err != nil {
		Error(c, err)
		return
	}
	Success(c, gin.H{"session_id": req.SessionID, "recorded": true})
}

// languages 支持的语言清单
func (s *HTTPServer) languages(c *gin.Context) {
	Success(c, s.chatbot.Languages())
}

// searchFAQs 检索 FAQ
func (s *HTTPServer) searchFAQs(c *gin.Context) {
	var req struct {
		Query    string `json:"query" binding:"required"`
		Category string `json:"category"`
		Language string `json:"language"`
		Limit    int    `json:"limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	result, err := s.faqs.Search(c.Request.Context(), req.Query, req.Category, req.Language, req.Limit)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, result)
}

// listFAQs 分页列出 FAQ
func (s *HTTPServer) listFAQs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	result, err := s.faqs.List(c.Request.Context(), c.Query("language"), c.Query("category"), page, perPage)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, result)
}

// getFAQ 取单条 FAQ
func (s *HTTPServer) getFAQ(c *gin.Context) {
	faq, err := s.faqs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, faq)
}

// faqCategories 列出 FAQ 类别
func (s *HTTPServer) faqCategories(c *gin.Context) {
	categories, err := s.faqs.Categories(c.Request.Context(), c.Query("language"))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, categories)
}

// createFAQ 新建 FAQ
func (s *HTTPServer) createFAQ(c *gin.Context) {
	var req service.FAQCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	faq, err := s.faqs.Create(c.Request.Context(), &req)
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, faq)
}

// updateFAQ 更新 FAQ
func (s *HTTPServer) updateFAQ(c *gin.Context) {
	var req service.FAQUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	if err := s.faqs.Update(c.Request.Context(), c.Param("id"), &req); err != nil {
		Error(c, err)
		return
	}
	Success(c, gin.H{"id": c.Param("id"), "updated": true})
}

// deleteFAQ 删除 FAQ
func (s *HTTPServer) deleteFAQ(c *gin.Context) {
	if err := s.faqs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		Error(c, err)
		return
	}
	Success(c, gin.H{"id": c.Param("id"), "deleted": true})
}

// markHelpful 标记 FAQ 有帮助
func (s *HTTPServer) markHelpful(c *gin.Context) {
	if err := s.faqs.MarkHelpful(c.Request.Context(), c.Param("id")); err != nil {
		Error(c, err)
		return
	}
	Success(c, gin.H{"id": c.Param("id"), "helpful": true})
}

// seedFAQs 写入默认 FAQ
func (s *HTTPServer) seedFAQs(c *gin.Context) {
	if err := s.faqs.Seed(c.Request.Context()); err != nil {
		Error(c, err)
		return
	}
	Success(c, gin.H{"seeded": true})
}

// indexDocument 索引文档
func (s *HTTPServer) indexDocument(c *gin.Context) {
	var req service.DocumentIndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	result, err := s.docs.Index(c.Request.Context(), &req)
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, result)
}

// documentStats 文档库统计
func (s *HTTPServer) documentStats(c *gin.Context) {
	stats, err := s.docs.Stats(c.Request.Context())
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, stats)
}

// deleteDocument 删除某来源的全部切片
func (s *HTTPServer) deleteDocument(c *gin.Context) {
	source := c.Param("source")
	if err := s.docs.Delete(c.Request.Context(), source); err != nil {
		Error(c, err)
		return
	}
	Success(c, gin.H{"source": source, "deleted": true})
}

// health 进程健康检查
func (s *HTTPServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "chatbot-service"})
}

// llmHealth 大模型服务健康检查
func (s *HTTPServer) llmHealth(c *gin.Context) {
	if err := s.chatbot.LLMHealth(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
