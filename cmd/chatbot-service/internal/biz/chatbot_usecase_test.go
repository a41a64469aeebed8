package biz

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"campusassistant/cmd/chatbot-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
)

type chatbotFixture struct {
	uc        *ChatbotUsecase
	faqs      *fakeFAQRepo
	chunks    *fakeChunkRepo
	llm       *fakeLLM
	publisher *fakePublisher
}

func newChatbotFixture(translator domain.Translator) *chatbotFixture {
	logger := log.NewStdLogger(os.Stdout)
	faqs := &fakeFAQRepo{}
	chunks := &fakeChunkRepo{}
	llm := &fakeLLM{answer: "generated answer"}
	publisher := &fakePublisher{}

	uc := NewChatbotUsecase(
		NewTranslationUsecase(translator, logger),
		NewIntentDetector(logger),
		NewEntityExtractor(),
		NewContextManager(newFakeContextCache(), logger),
		NewFAQUsecase(faqs, logger),
		NewRetrievalUsecase(chunks, &fakeEmbedder{}, llm, publisher, logger),
		llm,
		publisher,
		logger,
	)
	return &chatbotFixture{uc: uc, faqs: faqs, chunks: chunks, llm: llm, publisher: publisher}
}

func englishTranslator() *fakeTranslator {
	return &fakeTranslator{detection: domain.Detection{Language: domain.LangEnglish, Confidence: 0.95}}
}

func TestChatbotUsecase_Greeting(t *testing.T) {
	f := newChatbotFixture(englishTranslator())

	resp := f.uc.ProcessMessage(context.Background(), &domain.ChatRequest{Message: "hello"})

	if resp.Intent != domain.IntentGreeting {
		t.Fatalf("Expected greeting intent, got %s", resp.Intent)
	}
	if resp.Response != domain.PackFor(domain.LangEnglish).Greeting {
		t.Errorf("Unexpected greeting: %q", resp.Response)
	}
	if resp.ConfidenceScore != 1.0 {
		t.Errorf("Expected confidence 1.0, got %.2f", resp.ConfidenceScore)
	}
	if resp.FallbackRequired {
		t.Error("Greeting should not require human fallback")
	}
	if resp.SessionID == "" {
		t.Error("Expected generated session ID")
	}
	if len(resp.SuggestedQuestions) != 3 {
		t.Errorf("Expected 3 suggested questions, got %d", len(resp.SuggestedQuestions))
	}
	if len(resp.Sources) != 0 {
		t.Errorf("Expected no sources, got %v", resp.Sources)
	}
}

func TestChatbotUsecase_FAQAnswer(t *testing.T) {
	f := newChatbotFixture(englishTranslator())
	f.faqs.faqs = []*domain.FAQ{{
		ID:       "f1",
		Answer:   "Results are published on the student portal.",
		Category: "exam",
		Language: domain.LangEnglish,
		Keywords: []string{"exam", "marks", "result"},
		Priority: 2,
	}}

	resp := f.uc.ProcessMessage(context.Background(), &domain.ChatRequest{Message: "exam marks result"})

	if resp.Intent != domain.IntentExam {
		t.Fatalf("Expected exam intent, got %s", resp.Intent)
	}
	if resp.Response != "Results are published on the student portal." {
		t.Errorf("Expected faq answer, got %q", resp.Response)
	}
	if len(resp.Sources) != 1 || resp.Sources[0] != "FAQ Database" {
		t.Errorf("Expected FAQ Database source, got %v", resp.Sources)
	}
	if resp.ConfidenceScore <= faqConfidenceGate {
		t.Errorf("Expected confidence above gate, got %.2f", resp.ConfidenceScore)
	}
}

func TestChatbotUsecase_RAGAnswer(t *testing.T) {
	f := newChatbotFixture(englishTranslator())
	f.chunks.results = []domain.ScoredChunk{
		{Chunk: domain.Chunk{Content: "Hostel rooms are allotted after fee payment.", Source: "handbook.pdf"}, Relevance: 0.9},
	}
	f.llm.answer = "Rooms are allotted after fee payment."

	resp := f.uc.ProcessMessage(context.Background(), &domain.ChatRequest{Message: "hostel room availability"})

	if resp.Intent != domain.IntentHostel {
		t.Fatalf("Expected hostel intent, got %s", resp.Intent)
	}
	if resp.Response != "Rooms are allotted after fee payment." {
		t.Errorf("Expected rag answer, got %q", resp.Response)
	}
	if len(resp.Sources) != 1 || resp.Sources[0] != "handbook.pdf" {
		t.Errorf("Expected document source, got %v", resp.Sources)
	}
	if resp.ConfidenceScore != 0.9 {
		t.Errorf("Expected rag confidence 0.9, got %.2f", resp.ConfidenceScore)
	}
}

func TestChatbotUsecase_LLMAnswer(t *testing.T) {
	f := newChatbotFixture(englishTranslator())
	f.llm.answer = "Placements are handled by the training cell."

	resp := f.uc.ProcessMessage(context.Background(), &domain.ChatRequest{Message: "explain the campus placement policy"})

	if resp.Response != "Placements are handled by the training cell." {
		t.Errorf("Expected llm answer, got %q", resp.Response)
	}
	if resp.ConfidenceScore != llmDefaultConfidence {
		t.Errorf("Expected fixed llm confidence, got %.2f", resp.ConfidenceScore)
	}
	if resp.FallbackRequired {
		t.Error("Expected no fallback for llm answer")
	}

	// 提示词应带上当前这轮用户消息
	if len(f.llm.prompts) == 0 {
		t.Fatal("Expected llm to be called")
	}
	prompt := f.llm.prompts[len(f.llm.prompts)-1]
	if !strings.Contains(prompt, "Current question: explain the campus placement policy") {
		t.Errorf("Expected context prompt with current question, got %q", prompt)
	}
}

func TestChatbotUsecase_LLMFailureFallback(t *testing.T) {
	f := newChatbotFixture(englishTranslator())
	f.llm.err = domain.ErrLLMUnavailable

	resp := f.uc.ProcessMessage(context.Background(), &domain.ChatRequest{Message: "explain the campus placement policy"})

	if resp.Response != domain.PackFor(domain.LangEnglish).Fallback {
		t.Errorf("Expected localized fallback, got %q", resp.Response)
	}
	if resp.ConfidenceScore != 0.0 {
		t.Errorf("Expected confidence 0.0, got %.2f", resp.ConfidenceScore)
	}
	if !resp.FallbackRequired {
		t.Error("Expected human fallback for failed generation")
	}
}

func TestChatbotUsecase_HindiRoundTrip(t *testing.T) {
	translator := &fakeTranslator{
		detection: domain.Detection{Language: domain.LangHindi, Confidence: 0.9},
		translate: func(text string, source, target domain.Language) string {
			if target == domain.LangEnglish {
				return "english:" + text
			}
			return "hindi:" + text
		},
	}
	f := newChatbotFixture(translator)
	f.llm.answer = "The semester fee is Rs. 45,000."

	resp := f.uc.ProcessMessage(context.Background(), &domain.ChatRequest{
		Message:  "फीस कितनी है",
		Language: domain.LangHindi,
	})

	if resp.Language != domain.LangHindi {
		t.Fatalf("Expected hindi response language, got %s", resp.Language)
	}
	if resp.Intent != domain.IntentFeeQuery {
		t.Errorf("Expected fee_query intent, got %s", resp.Intent)
	}
	// 应答译回用户语言
	if !strings.HasPrefix(resp.Response, "hindi:") {
		t.Errorf("Expected back-translated response, got %q", resp.Response)
	}
	// 推荐追问也翻译
	for _, q := range resp.SuggestedQuestions {
		if !strings.HasPrefix(q, "hindi:") {
			t.Errorf("Expected translated suggestion, got %q", q)
		}
	}
}

// Translate 阶段 panic 时流程应降级为错误应答且保留会话 ID
type panicTranslator struct{}

func (panicTranslator) Detect(ctx context.Context, text string) (domain.Detection, error) {
	panic("translator exploded")
}

func (panicTranslator) Translate(ctx context.Context, text string, source, target domain.Language) (string, error) {
	panic("translator exploded")
}

func TestChatbotUsecase_GoodbyeCannedUntranslated(t *testing.T) {
	translator := &fakeTranslator{
		detection: domain.Detection{Language: domain.LangHindi, Confidence: 0.9},
		translate: func(text string, source, target domain.Language) string {
			if target == domain.LangEnglish {
				return "english:" + text
			}
			return "hindi:" + text
		},
	}
	f := newChatbotFixture(translator)

	resp := f.uc.ProcessMessage(context.Background(), &domain.ChatRequest{
		Message:  "अलविदा",
		Language: domain.LangHindi,
	})

	if resp.Intent != domain.IntentGoodbye {
		t.Fatalf("Expected goodbye intent, got %s", resp.Intent)
	}
	// 告别语直接用语言包文案，不走机器翻译
	if resp.Response != domain.PackFor(domain.LangHindi).Goodbye {
		t.Errorf("Expected canned hindi goodbye, got %q", resp.Response)
	}
	if resp.ConfidenceScore != 1.0 {
		t.Errorf("Expected confidence 1.0, got %f", resp.ConfidenceScore)
	}
}

func TestChatbotUsecase_PanicRecovery(t *testing.T) {
	f := newChatbotFixture(panicTranslator{})

	resp := f.uc.ProcessMessage(context.Background(), &domain.ChatRequest{
		Message:   "what is the fee",
		Language:  domain.LangHindi,
		SessionID: "keep-me",
	})

	if resp.SessionID != "keep-me" {
		t.Errorf("Expected session ID preserved, got %s", resp.SessionID)
	}
	if resp.Intent != domain.IntentError {
		t.Errorf("Expected error intent, got %s", resp.Intent)
	}
	if !resp.FallbackRequired {
		t.Error("Expected fallback required on error")
	}
	if resp.Response != domain.PackFor(domain.LangHindi).Error {
		t.Errorf("Expected localized error message, got %q", resp.Response)
	}
}

func TestChatbotUsecase_HistoryAndClear(t *testing.T) {
	f := newChatbotFixture(englishTranslator())
	ctx := context.Background()

	resp := f.uc.ProcessMessage(ctx, &domain.ChatRequest{Message: "hello"})

	history := f.uc.History(ctx, resp.SessionID)
	if !history.Exists {
		t.Fatal("Expected history to exist")
	}
	if len(history.Messages) != 2 {
		t.Fatalf("Expected user and assistant messages, got %d", len(history.Messages))
	}
	if history.Messages[0].Role != domain.RoleUser || history.Messages[1].Role != domain.RoleAssistant {
		t.Error("Unexpected message roles")
	}

	if err := f.uc.ClearConversation(ctx, resp.SessionID); err != nil {
		t.Fatalf("ClearConversation failed: %v", err)
	}
	if got := f.uc.History(ctx, resp.SessionID); got.Exists {
		t.Error("Expected history cleared")
	}
}

func TestChatbotUsecase_FeedbackAndSessionCount(t *testing.T) {
	f := newChatbotFixture(englishTranslator())
	ctx := context.Background()

	if got := f.uc.SessionCount(); got != 0 {
		t.Fatalf("Expected no sessions, got %d", got)
	}

	resp := f.uc.ProcessMessage(ctx, &domain.ChatRequest{Message: "hello"})
	if got := f.uc.SessionCount(); got != 1 {
		t.Fatalf("Expected 1 session, got %d", got)
	}

	if err := f.uc.RecordFeedback(ctx, resp.SessionID, 4, "helpful answer"); err != nil {
		t.Fatalf("RecordFeedback failed: %v", err)
	}

	snap := f.uc.History(ctx, resp.SessionID)
	if !snap.Exists {
		t.Fatal("Expected session to exist")
	}

	if err := f.uc.RecordFeedback(ctx, "no-such-session", 5, ""); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}
