package biz

import (
	"strings"

	"campusassistant/cmd/chatbot-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
)

// intentRule 意图关键词规则。Priority 越小单次命中的权重越高，
// greeting/goodbye 设为 1，单一问候词即可胜出。
type intentRule struct {
	Intent   domain.Intent
	Keywords []string
	Priority int
}

// intentRules 规则表。表内顺序即打分并列时的裁决顺序（先到先得），
// 不依赖任何 map 迭代顺序。
var intentRules = []intentRule{
	{
		Intent:   domain.IntentGreeting,
		Priority: 1,
		Keywords: []string{
			"hello", "hi", "hey", "namaste", "good morning", "good afternoon",
			"good evening", "howdy", "greetings", "नमस्ते", "नमस्कार",
		},
	},
	{
		Intent:   domain.IntentFeeQuery,
		Priority: 2,
		Keywords: []string{
			"fee", "fees", "payment", "amount", "cost", "tuition", "charges",
			"price", "pay", "money", "शुल्क", "फीस", "पैसे",
		},
	},
	{
		Intent:   domain.IntentAdmission,
		Priority: 2,
		Keywords: []string{
			"admission", "apply", "application", "eligibility", "seat", "enroll",
			"enrollment", "join", "entry", "प्रवेश", "दाखिला",
		},
	},
	{
		Intent:   domain.IntentScholarship,
		Priority: 2,
		Keywords: []string{
			"scholarship", "financial aid", "grant", "stipend", "merit",
			"concession", "discount", "waiver", "छात्रवृत्ति", "स्कॉलरशिप",
		},
	},
	{
		Intent:   domain.IntentTimetable,
		Priority: 2,
		Keywords: []string{
			"timetable", "schedule", "class timing", "lecture", "period",
			"timing", "when", "time", "समय", "समय सारणी",
		},
	},
	{
		Intent:   domain.IntentExam,
		Priority: 2,
		Keywords: []string{
			"exam", "examination", "test", "marks", "result", "grade",
			"score", "passing", "fail", "परीक्षा", "रिजल्ट",
		},
	},
	{
		Intent:   domain.IntentDocument,
		Priority: 2,
		Keywords: []string{
			"document", "certificate", "transcript", "bonafide", "letter",
			"attestation", "verification", "दस्तावेज़", "प्रमाणपत्र",
		},
	},
	{
		Intent:   domain.IntentContact,
		Priority: 2,
		Keywords: []string{
			"contact", "phone", "email", "address", "office", "location",
			"where", "reach", "संपर्क", "पता",
		},
	},
	{
		Intent:   domain.IntentHostel,
		Priority: 2,
		Keywords: []string{
			"hostel", "accommodation", "room", "mess", "stay", "living",
			"dormitory", "हॉस्टल", "छात्रावास",
		},
	},
	{
		Intent:   domain.IntentLibrary,
		Priority: 2,
		Keywords: []string{
			"library", "book", "borrow", "return", "reading", "पुस्तकालय", "किताब",
		},
	},
	{
		Intent:   domain.IntentGoodbye,
		Priority: 1,
		Keywords: []string{
			"bye", "goodbye", "see you", "thank you", "thanks", "धन्यवाद",
			"अलविदा", "good bye",
		},
	},
}

// humanRequiredKeywords 出现即转人工的短语
var humanRequiredKeywords = []string{
	"speak to someone", "talk to human", "real person",
	"manager", "supervisor", "complaint", "urgent",
	"emergency", "help me please", "not working",
}

// humanFallbackConfidence 低于该置信度建议转人工
const humanFallbackConfidence = 0.3

// suggestedQuestions 按类别的推荐追问
var suggestedQuestions = map[string][]string{
	"admission": {
		"What are the eligibility criteria?",
		"What documents are required?",
		"What is the application deadline?",
	},
	"fees": {
		"What is the semester fee?",
		"What payment methods are accepted?",
		"Is there any late fee penalty?",
	},
	"scholarship": {
		"Who is eligible for scholarship?",
		"How to apply for scholarship?",
		"What is the scholarship amount?",
	},
	"exam": {
		"When are the exams scheduled?",
		"What is the passing criteria?",
		"How can I check my results?",
	},
	"general": {
		"What are the admission requirements?",
		"What is the fee structure?",
		"Are there any scholarships available?",
	},
}

// intentQuestionCategory 意图到推荐问题类别的映射，goodbye 不给推荐
var intentQuestionCategory = map[domain.Intent]string{
	domain.IntentFeeQuery:    "fees",
	domain.IntentAdmission:   "admission",
	domain.IntentScholarship: "scholarship",
	domain.IntentExam:        "exam",
	domain.IntentGreeting:    "general",
	domain.IntentGoodbye:     "",
}

// IntentDetector 基于关键词的意图识别器
type IntentDetector struct {
	rules []intentRule
	log   *log.Helper
}

// NewIntentDetector 创建意图识别器
func NewIntentDetector(logger log.Logger) *IntentDetector {
	return &IntentDetector{
		rules: intentRules,
		log:   log.NewHelper(log.With(logger, "module", "intent")),
	}
}

// Detect 识别意图。输入应为已翻译到英文的文本；
// 空文本返回 general/0.0，无任何命中返回 general/0.5。
func (d *IntentDetector) Detect(text string) domain.IntentResult {
	if strings.TrimSpace(text) == "" {
		return domain.IntentResult{Intent: domain.IntentGeneral, Confidence: 0.0}
	}

	lower := strings.ToLower(text)

	var best *intentRule
	var bestScore float64
	var bestMatches []string

	for i := range d.rules {
		rule := &d.rules[i]
		var matches []string
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				matches = append(matches, kw)
			}
		}
		if len(matches) == 0 {
			continue
		}
		score := float64(len(matches)) * (1.0 / float64(rule.Priority))
		// 严格大于：并列时保留表中更靠前的规则
		if best == nil || score > bestScore {
			best = rule
			bestScore = score
			bestMatches = matches
		}
	}

	if best == nil {
		return domain.IntentResult{Intent: domain.IntentGeneral, Confidence: 0.5}
	}

	confidence := bestScore / float64(len(best.Keywords))
	if confidence > 1.0 {
		confidence = 1.0
	}

	d.log.Debugf("intent detected: intent=%s confidence=%.2f matches=%v", best.Intent, confidence, bestMatches)

	return domain.IntentResult{
		Intent:          best.Intent,
		Confidence:      confidence,
		MatchedKeywords: bestMatches,
	}
}

// NeedsHumanFallback 判断是否需要转人工。
// text 取用户的原始消息（未翻译），confidence 取最终应答置信度。
func (d *IntentDetector) NeedsHumanFallback(text string, confidence float64) bool {
	lower := strings.ToLower(text)
	for _, kw := range humanRequiredKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return confidence < humanFallbackConfidence
}

// SuggestedQuestions 根据意图给出至多 limit 条推荐追问
func (d *IntentDetector) SuggestedQuestions(intent domain.Intent, limit int) []string {
	category, ok := intentQuestionCategory[intent]
	if !ok {
		category = "general"
	}
	if category == "" {
		return nil
	}
	questions, ok := suggestedQuestions[category]
	if !ok {
		questions = suggestedQuestions["general"]
	}
	if limit > 0 && len(questions) > limit {
		questions = questions[:limit]
	}
	out := make([]string, len(questions))
	copy(out, questions)
	return out
}
