package biz

import (
	"os"
	"testing"

	"campusassistant/cmd/chatbot-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
)

func TestIntentDetector_Detect(t *testing.T) {
	logger := log.NewStdLogger(os.Stdout)
	detector := NewIntentDetector(logger)

	testCases := []struct {
		name           string
		message        string
		expectedIntent domain.Intent
		minConfidence  float64
	}{
		{
			name:           "问候 - 英文",
			message:        "hello",
			expectedIntent: domain.IntentGreeting,
			minConfidence:  0.05,
		},
		{
			name:           "问候 - 印地语",
			message:        "नमस्ते",
			expectedIntent: domain.IntentGreeting,
			minConfidence:  0.05,
		},
		{
			name:           "费用查询 - 多关键词",
			message:        "how much are the tuition fees",
			expectedIntent: domain.IntentFeeQuery,
			minConfidence:  0.1,
		},
		{
			// "scholarship" 包含子串 "hi"，需要多个命中才能压过问候规则
			name:           "奖学金",
			message:        "is there a merit scholarship or grant",
			expectedIntent: domain.IntentScholarship,
			minConfidence:  0.1,
		},
		{
			name:           "考试 - 印地语",
			message:        "परीक्षा कब है",
			expectedIntent: domain.IntentExam,
			minConfidence:  0.04,
		},
		{
			name:           "告别",
			message:        "thanks, goodbye",
			expectedIntent: domain.IntentGoodbye,
			minConfidence:  0.1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := detector.Detect(tc.message)

			if result.Intent != tc.expectedIntent {
				t.Errorf("Expected intent %s, got %s", tc.expectedIntent, result.Intent)
			}
			if result.Confidence < tc.minConfidence {
				t.Errorf("Confidence too low: %.3f < %.3f", result.Confidence, tc.minConfidence)
			}
			if len(result.MatchedKeywords) == 0 {
				t.Error("Expected matched keywords")
			}
		})
	}
}

func TestIntentDetector_Detect_Empty(t *testing.T) {
	detector := NewIntentDetector(log.NewStdLogger(os.Stdout))

	result := detector.Detect("   ")
	if result.Intent != domain.IntentGeneral {
		t.Errorf("Expected general intent, got %s", result.Intent)
	}
	if result.Confidence != 0.0 {
		t.Errorf("Expected confidence 0.0, got %.2f", result.Confidence)
	}
}

func TestIntentDetector_Detect_NoMatch(t *testing.T) {
	detector := NewIntentDetector(log.NewStdLogger(os.Stdout))

	result := detector.Detect("xyzzy plugh")
	if result.Intent != domain.IntentGeneral {
		t.Errorf("Expected general intent, got %s", result.Intent)
	}
	if result.Confidence != 0.5 {
		t.Errorf("Expected confidence 0.5, got %.2f", result.Confidence)
	}
}

// 并列分数时应保留规则表中更靠前的意图
func TestIntentDetector_Detect_TieBreak(t *testing.T) {
	detector := NewIntentDetector(log.NewStdLogger(os.Stdout))

	// "fee" 与 "admission" 各命中一次，priority 相同，fee_query 在表中靠前
	result := detector.Detect("admission fee")
	if result.Intent != domain.IntentFeeQuery {
		t.Errorf("Expected fee_query on tie, got %s", result.Intent)
	}
}

func TestIntentDetector_NeedsHumanFallback(t *testing.T) {
	detector := NewIntentDetector(log.NewStdLogger(os.Stdout))

	testCases := []struct {
		name       string
		message    string
		confidence float64
		expected   bool
	}{
		{"转人工短语", "I want to speak to someone", 0.9, true},
		{"投诉", "I have a complaint about the mess food", 0.8, true},
		{"低置信度", "hmm", 0.2, true},
		{"正常问题", "what is the semester fee", 0.8, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := detector.NeedsHumanFallback(tc.message, tc.confidence)
			if got != tc.expected {
				t.Errorf("NeedsHumanFallback(%q, %.1f) = %v, want %v", tc.message, tc.confidence, got, tc.expected)
			}
		})
	}
}

func TestIntentDetector_SuggestedQuestions(t *testing.T) {
	detector := NewIntentDetector(log.NewStdLogger(os.Stdout))

	questions := detector.SuggestedQuestions(domain.IntentFeeQuery, 3)
	if len(questions) != 3 {
		t.Fatalf("Expected 3 questions, got %d", len(questions))
	}

	limited := detector.SuggestedQuestions(domain.IntentFeeQuery, 2)
	if len(limited) != 2 {
		t.Errorf("Expected 2 questions with limit 2, got %d", len(limited))
	}

	// goodbye 不给推荐
	if got := detector.SuggestedQuestions(domain.IntentGoodbye, 3); got != nil {
		t.Errorf("Expected no questions for goodbye, got %v", got)
	}

	// 未映射的意图回退到 general 类别
	general := detector.SuggestedQuestions(domain.IntentLibrary, 3)
	if len(general) != 3 {
		t.Errorf("Expected 3 general questions, got %d", len(general))
	}
}
