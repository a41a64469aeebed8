package biz

import (
	"context"
	"math"
	"os"
	"testing"

	"campusassistant/cmd/chatbot-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
)

func newFAQUsecase(repo *fakeFAQRepo) *FAQUsecase {
	return NewFAQUsecase(repo, log.NewStdLogger(os.Stdout))
}

func TestFAQUsecase_Search_Scoring(t *testing.T) {
	repo := &fakeFAQRepo{faqs: []*domain.FAQ{
		{ID: "a", Answer: "full match", Category: "exam", Language: domain.LangEnglish,
			Keywords: []string{"exam", "schedule", "dates"}, Priority: 2},
		{ID: "b", Answer: "partial match", Category: "exam", Language: domain.LangEnglish,
			Keywords: []string{"exam"}, Priority: 1},
		{ID: "c", Answer: "no match", Category: "library", Language: domain.LangEnglish,
			Keywords: []string{"library"}, Priority: 3},
	}}
	uc := newFAQUsecase(repo)

	result, err := uc.Search(context.Background(), "exam schedule dates", "", domain.LangEnglish, 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	// 零交集的条目不入结果
	if result.Total != 2 {
		t.Fatalf("Expected 2 matches, got %d", result.Total)
	}

	// 全命中 + 高优先级应排在前面且分数封顶 1.0
	if result.Matches[0].FAQ.ID != "a" {
		t.Errorf("Expected faq a first, got %s", result.Matches[0].FAQ.ID)
	}
	if result.Matches[0].Score != 1.0 {
		t.Errorf("Expected capped score 1.0, got %.3f", result.Matches[0].Score)
	}

	// 部分命中：1/3 + priority*0.1
	expected := 1.0/3.0 + 0.1
	if math.Abs(result.Matches[1].Score-expected) > 1e-9 {
		t.Errorf("Expected score %.3f, got %.3f", expected, result.Matches[1].Score)
	}
}

func TestFAQUsecase_Search_Limit(t *testing.T) {
	repo := &fakeFAQRepo{faqs: []*domain.FAQ{
		{ID: "a", Language: domain.LangEnglish, Keywords: []string{"fee"}, Priority: 1},
		{ID: "b", Language: domain.LangEnglish, Keywords: []string{"fee"}, Priority: 2},
	}}
	uc := newFAQUsecase(repo)

	result, err := uc.Search(context.Background(), "fee details", "", domain.LangEnglish, 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(result.Matches) != 1 {
		t.Errorf("Expected 1 match after limit, got %d", len(result.Matches))
	}
	// Total 统计截断前的命中数
	if result.Total != 2 {
		t.Errorf("Expected total 2, got %d", result.Total)
	}
	// 优先级高的排前
	if result.Matches[0].FAQ.ID != "b" {
		t.Errorf("Expected faq b first, got %s", result.Matches[0].FAQ.ID)
	}
}

func TestFAQUsecase_Search_QuestionKeywords(t *testing.T) {
	// 没有显式关键词时，问题文本本身参与匹配
	repo := &fakeFAQRepo{faqs: []*domain.FAQ{
		{ID: "a", Question: "How do I get a bonafide certificate?", Language: domain.LangEnglish, Priority: 1},
	}}
	uc := newFAQUsecase(repo)

	result, err := uc.Search(context.Background(), "bonafide certificate", "", domain.LangEnglish, 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("Expected 1 match via question keywords, got %d", result.Total)
	}
}

func TestFAQUsecase_Search_Empty(t *testing.T) {
	uc := newFAQUsecase(&fakeFAQRepo{})

	result, err := uc.Search(context.Background(), "anything", "", domain.LangEnglish, 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if result.Total != 0 || len(result.Matches) != 0 {
		t.Errorf("Expected empty result, got %+v", result)
	}
}

func TestFAQUsecase_Create_Defaults(t *testing.T) {
	repo := &fakeFAQRepo{}
	uc := newFAQUsecase(repo)

	faq, err := uc.Create(context.Background(), &domain.FAQ{
		Question: "What is the library timing?",
		Answer:   "9 AM to 8 PM on working days.",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if faq.ID == "" {
		t.Error("Expected generated ID")
	}
	if faq.Language != domain.DefaultLanguage {
		t.Errorf("Expected default language, got %s", faq.Language)
	}
	if faq.Category != "general" {
		t.Errorf("Expected default category, got %s", faq.Category)
	}
	// 关键词从问题文本自动抽取
	if len(faq.Keywords) == 0 {
		t.Error("Expected auto-extracted keywords")
	}
}

func TestFAQUsecase_SeedDefaults(t *testing.T) {
	repo := &fakeFAQRepo{}
	uc := newFAQUsecase(repo)

	if err := uc.SeedDefaults(context.Background()); err != nil {
		t.Fatalf("SeedDefaults failed: %v", err)
	}
	count, _ := repo.Count(context.Background())
	if count != int64(len(defaultFAQs)) {
		t.Fatalf("Expected %d seeded faqs, got %d", len(defaultFAQs), count)
	}

	// 已有数据时幂等
	if err := uc.SeedDefaults(context.Background()); err != nil {
		t.Fatalf("Second SeedDefaults failed: %v", err)
	}
	count, _ = repo.Count(context.Background())
	if count != int64(len(defaultFAQs)) {
		t.Errorf("Expected seed to be idempotent, got %d", count)
	}
}

func TestCategoryForIntent(t *testing.T) {
	testCases := []struct {
		intent   domain.Intent
		expected string
	}{
		{domain.IntentFeeQuery, "fees"},
		{domain.IntentAdmission, "admission"},
		{domain.IntentHostel, "hostel"},
		{domain.IntentGeneral, ""},
		{domain.IntentGreeting, ""},
	}
	for _, tc := range testCases {
		if got := CategoryForIntent(tc.intent); got != tc.expected {
			t.Errorf("CategoryForIntent(%s) = %q, want %q", tc.intent, got, tc.expected)
		}
	}
}
