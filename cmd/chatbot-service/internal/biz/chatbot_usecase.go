package biz

import (
	"context"
	"strconv"
	"time"

	"campusassistant/cmd/chatbot-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

const (
	// faqConfidenceGate FAQ 命中分高于该值直接采用 FAQ 答案
	faqConfidenceGate = 0.7
	// ragConfidenceGate RAG 置信度高于该值采用文档应答
	ragConfidenceGate = 0.4
	// llmDefaultConfidence 纯 LLM 生成应答的固定置信度
	llmDefaultConfidence = 0.6
	// contextPromptHistory 拼入提示词的历史条数
	contextPromptHistory = 3
	// maxSuggestedQuestions 返回的推荐追问上限
	maxSuggestedQuestions = 3
)

// defaultSystemPrompt 通用问答的系统提示词
const defaultSystemPrompt = `You are a helpful campus assistant chatbot for a college/university.
Your job is to answer student queries about admissions, fees, scholarships, timetables,
exams, documents, and other campus-related topics.

Guidelines:
1. Be friendly, concise, and helpful
2. If you're not sure about something, say so clearly
3. Provide accurate information based on the context given
4. If the question is outside your knowledge, suggest contacting the relevant office
5. Keep responses under 200 words unless more detail is needed
6. Use bullet points for lists when appropriate`

// answerSource 应答来源标签，用于指标
type answerSource string

const (
	sourceGreeting answerSource = "greeting"
	sourceGoodbye  answerSource = "goodbye"
	sourceFAQ      answerSource = "faq"
	sourceRAG      answerSource = "rag"
	sourceLLM      answerSource = "llm"
	sourceFallback answerSource = "fallback"
	sourceError    answerSource = "error"
)

// canned 固定文案已按语言预置，无需机器翻译
func (s answerSource) canned() bool {
	return s == sourceGreeting || s == sourceGoodbye || s == sourceFallback || s == sourceError
}

// ChatbotUsecase 对话主流程：语言解析、翻译、意图识别、
// FAQ/RAG/LLM 三级应答与会话维护。
type ChatbotUsecase struct {
	translation *TranslationUsecase
	intents     *IntentDetector
	entities    *EntityExtractor
	contexts    *ContextManager
	faqs        *FAQUsecase
	retrieval   *RetrievalUsecase
	llm         domain.LLMClient
	publisher   domain.EventPublisher
	log         *log.Helper
}

// NewChatbotUsecase 创建对话用例
func NewChatbotUsecase(
	translation *TranslationUsecase,
	intents *IntentDetector,
	entities *EntityExtractor,
	contexts *ContextManager,
	faqs *FAQUsecase,
	retrieval *RetrievalUsecase,
	llm domain.LLMClient,
	publisher domain.EventPublisher,
	logger log.Logger,
) *ChatbotUsecase {
	return &ChatbotUsecase{
		translation: translation,
		intents:     intents,
		entities:    entities,
		contexts:    contexts,
		faqs:        faqs,
		retrieval:   retrieval,
		llm:         llm,
		publisher:   publisher,
		log:         log.NewHelper(log.With(logger, "module", "chatbot")),
	}
}

// ProcessMessage 处理一轮对话。任何内部错误都不外抛，
// 统一降级为用户语言的错误文案并标记转人工。
func (uc *ChatbotUsecase) ProcessMessage(ctx context.Context, req *domain.ChatRequest) (resp *domain.ChatResponse) {
	start := time.Now()

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	requested := req.Language
	if requested == "" {
		requested = domain.DefaultLanguage
	}

	// 兜底：流程中任何 panic 都转成错误应答，会话 ID 保留
	defer func() {
		if r := recover(); r != nil {
			uc.log.Errorf("chat pipeline panic: session_id=%s panic=%v", sessionID, r)
			resp = uc.errorResponse(sessionID, requested)
		}
	}()

	conv := uc.contexts.GetOrCreate(ctx, sessionID, requested)
	ActiveSessions.Set(float64(uc.contexts.Count()))

	// 语言解析与英译
	lang := uc.translation.ResolveLanguage(ctx, req.Message, requested)
	englishMessage := uc.translation.ToEnglish(ctx, req.Message, lang)

	// 意图与实体
	intentResult := uc.intents.Detect(englishMessage)
	intent := intentResult.Intent
	conv.UpdateEntities(uc.entities.Extract(englishMessage))
	conv.AddIntent(intent)

	// 用户原文入会话，后续 LLM 提示词会带上这条
	conv.AddUserMessage(req.Message, lang)

	pack := domain.PackFor(lang)
	var responseText string
	var confidence float64
	var sources []string
	source := sourceLLM

	switch intent {
	case domain.IntentGreeting:
		responseText = pack.Greeting
		confidence = 1.0
		source = sourceGreeting

	case domain.IntentGoodbye:
		responseText = pack.Goodbye
		confidence = 1.0
		source = sourceGoodbye

	default:
		responseText, confidence, sources, source = uc.answer(ctx, conv, englishMessage, intent, pack)
	}

	// 译回用户语言
	if lang != domain.LangEnglish && responseText != "" && !source.canned() {
		responseText = uc.translation.FromEnglish(ctx, responseText, lang)
	}

	// 转人工判断基于原始消息
	fallbackRequired := uc.intents.NeedsHumanFallback(req.Message, confidence)
	if fallbackRequired {
		HumanFallbackTotal.WithLabelValues(string(intent)).Inc()
	}

	// 推荐追问
	suggested := uc.intents.SuggestedQuestions(intent, maxSuggestedQuestions)
	if lang != domain.LangEnglish && len(suggested) > 0 {
		for i, q := range suggested {
			suggested[i] = uc.translation.FromEnglish(ctx, q, lang)
		}
	}

	conv.AddAssistantMessage(responseText, lang, sources, confidence)
	uc.contexts.Persist(ctx, conv)

	elapsed := time.Since(start)
	ChatTurnsTotal.WithLabelValues(string(intent), string(source), string(lang)).Inc()
	ChatTurnDuration.WithLabelValues(string(source)).Observe(elapsed.Seconds())
	ChatConfidence.WithLabelValues(string(source)).Observe(confidence)
	uc.log.Infof("chat turn: session_id=%s intent=%s source=%s confidence=%.2f elapsed=%dms",
		sessionID, intent, source, confidence, elapsed.Milliseconds())

	uc.publishTurn(ctx, sessionID, req.UserID, lang, intent, confidence, fallbackRequired, sources, elapsed)

	return &domain.ChatResponse{
		Response:           responseText,
		Language:           lang,
		SessionID:          sessionID,
		ConfidenceScore:    confidence,
		Sources:            sources,
		SuggestedQuestions: suggested,
		FallbackRequired:   fallbackRequired,
		Intent:             intent,
	}
}

// answer 三级应答：FAQ 高分直接命中，其次 RAG，最后 LLM，
// LLM 不可用时给出用户语言的兜底文案。
func (uc *ChatbotUsecase) answer(
	ctx context.Context,
	conv *domain.ConversationContext,
	englishMessage string,
	intent domain.Intent,
	pack domain.LanguagePack,
) (string, float64, []string, answerSource) {
	// FAQ
	category := CategoryForIntent(intent)
	faqResult, err := uc.faqs.Search(ctx, englishMessage, category, domain.LangEnglish, 1)
	if err != nil {
		uc.log.Warnf("faq search failed: err=%v", err)
	}
	if faqResult != nil && len(faqResult.Matches) > 0 {
		best := faqResult.Matches[0]
		if best.Score > faqConfidenceGate {
			return best.FAQ.Answer, best.Score, []string{"FAQ Database"}, sourceFAQ
		}
	}

	// RAG
	ragResult, err := uc.retrieval.Answer(ctx, englishMessage)
	if err != nil {
		uc.log.Warnf("rag answer failed: err=%v", err)
	}
	if ragResult != nil && ragResult.Answer != "" && ragResult.Confidence > ragConfidenceGate {
		return ragResult.Answer, ragResult.Confidence, ragResult.Sources, sourceRAG
	}

	// LLM 兜底，提示词带最近对话历史
	prompt := uc.contexts.BuildContextPrompt(conv, englishMessage, contextPromptHistory)
	llmStart := time.Now()
	generated, err := uc.llm.Generate(ctx, prompt, defaultSystemPrompt)
	if err != nil {
		LLMRequestDuration.WithLabelValues("error").Observe(time.Since(llmStart).Seconds())
		uc.log.Errorf("llm generation failed: err=%v", err)
		return pack.Fallback, 0.0, nil, sourceFallback
	}
	LLMRequestDuration.WithLabelValues("ok").Observe(time.Since(llmStart).Seconds())
	return generated, llmDefaultConfidence, nil, sourceLLM
}

// errorResponse 流程异常时的统一错误应答
func (uc *ChatbotUsecase) errorResponse(sessionID string, lang domain.Language) *domain.ChatResponse {
	pack := domain.PackFor(lang)
	return &domain.ChatResponse{
		Response:         pack.Error,
		Language:         lang,
		SessionID:        sessionID,
		ConfidenceScore:  0.0,
		FallbackRequired: true,
		Intent:           domain.IntentError,
	}
}

// History 取会话历史，会话不存在时 Exists=false
func (uc *ChatbotUsecase) History(ctx context.Context, sessionID string) *domain.ConversationHistory {
	conv, err := uc.contexts.Get(sessionID)
	if err != nil {
		return &domain.ConversationHistory{SessionID: sessionID, Messages: []domain.Message{}, Exists: false}
	}
	snap := conv.Snapshot()
	return &domain.ConversationHistory{
		SessionID: sessionID,
		Messages:  snap.Messages,
		Language:  snap.Language,
		CreatedAt: snap.CreatedAt.Format(time.RFC3339),
		Exists:    true,
	}
}

// ClearConversation 删除会话
func (uc *ChatbotUsecase) ClearConversation(ctx context.Context, sessionID string) error {
	return uc.contexts.Clear(ctx, sessionID)
}

// SessionCount 当前活跃会话数
func (uc *ChatbotUsecase) SessionCount() int {
	return uc.contexts.Count()
}

// RecordFeedback 把用户评分与评语写进会话元数据并持久化快照
func (uc *ChatbotUsecase) RecordFeedback(ctx context.Context, sessionID string, rating int, comment string) error {
	conv, err := uc.contexts.Get(sessionID)
	if err != nil {
		return err
	}
	conv.SetMetadata("feedback_rating", strconv.Itoa(rating))
	if comment != "" {
		conv.SetMetadata("feedback_comment", comment)
	}
	uc.contexts.Persist(ctx, conv)
	return nil
}

// SupportedLanguages 返回支持的语言清单
func (uc *ChatbotUsecase) SupportedLanguages() []domain.LanguagePack {
	return domain.SupportedLanguages()
}

// LLMHealth 探测大模型服务可用性
func (uc *ChatbotUsecase) LLMHealth(ctx context.Context) error {
	return uc.llm.Health(ctx)
}

func (uc *ChatbotUsecase) publishTurn(
	ctx context.Context,
	sessionID, userID string,
	lang domain.Language,
	intent domain.Intent,
	confidence float64,
	fallbackRequired bool,
	sources []string,
	elapsed time.Duration,
) {
	if uc.publisher == nil {
		return
	}
	event := domain.ChatTurnEvent{
		EventID:          uuid.New().String(),
		EventType:        "chat.turn",
		SessionID:        sessionID,
		UserID:           userID,
		Language:         string(lang),
		Intent:           string(intent),
		Confidence:       confidence,
		FallbackRequired: fallbackRequired,
		Sources:          sources,
		LatencyMs:        elapsed.Milliseconds(),
		Timestamp:        time.Now().UnixMilli(),
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.log.Warnf("publish chat event failed: session_id=%s err=%v", sessionID, err)
	}
}
