package service

import (
	"context"
	"strings"

	"campusassistant/cmd/chatbot-service/internal/biz"
	"campusassistant/cmd/chatbot-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
)

// ChatRequest 对话请求 DTO
type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	Language  string `json:"language"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
}

// FeedbackRequest 会话反馈 DTO
type FeedbackRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

// LanguageInfo 语言信息 DTO
type LanguageInfo struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
	Flag       string `json:"flag"`
}

// ChatbotService 对话服务门面
type ChatbotService struct {
	chatbot *biz.ChatbotUsecase
	log     *log.Helper
}

// NewChatbotService 创建对话服务
func NewChatbotService(chatbot *biz.ChatbotUsecase, logger log.Logger) *ChatbotService {
	return &ChatbotService{
		chatbot: chatbot,
		log:     log.NewHelper(log.With(logger, "module", "chatbot-service")),
	}
}

// Chat 处理一轮对话
func (s *ChatbotService) Chat(ctx context.Context, req *ChatRequest) (*domain.ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, domain.ErrEmptyMessage
	}

	return s.chatbot.ProcessMessage(ctx, &domain.ChatRequest{
		Message:   req.Message,
		Language:  domain.NormalizeLanguage(req.Language),
		SessionID: req.SessionID,
		UserID:    req.UserID,
	}), nil
}

// History 取会话历史
func (s *ChatbotService) History(ctx context.Context, sessionID string) *domain.ConversationHistory {
	return s.chatbot.History(ctx, sessionID)
}

// ClearConversation 清除会话
func (s *ChatbotService) ClearConversation(ctx context.Context, sessionID string) error {
	return s.chatbot.ClearConversation(ctx, sessionID)
}

// SessionCount 当前活跃会话数
func (s *ChatbotService) SessionCount() int {
	return s.chatbot.SessionCount()
}

// Feedback 记录会话反馈
func (s *ChatbotService) Feedback(ctx context.Context, req *FeedbackRequest) error {
	return s.chatbot.RecordFeedback(ctx, req.SessionID, req.Rating, req.Comment)
}

// Languages 支持的语言清单
func (s *ChatbotService) Languages() []LanguageInfo {
	packs := s.chatbot.SupportedLanguages()
	infos := make([]LanguageInfo, len(packs))
	for i, p := range packs {
		infos[i] = LanguageInfo{
			Code:       string(p.Code),
			Name:       p.Name,
			NativeName: p.NativeName,
			Flag:       p.Flag,
		}
	}
	return infos
}

// LLMHealth 大模型服务健康状态
func (s *ChatbotService) LLMHealth(ctx context.Context) error {
	return s.chatbot.LLMHealth(ctx)
}
