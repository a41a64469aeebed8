package biz

import (
	"context"
	"errors"
	"math"
	"os"
	"reflect"
	"testing"

	"campusassistant/cmd/chatbot-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
)

func newRetrievalUsecase(chunks *fakeChunkRepo, llm *fakeLLM, publisher *fakePublisher) *RetrievalUsecase {
	return NewRetrievalUsecase(chunks, &fakeEmbedder{}, llm, publisher, log.NewStdLogger(os.Stdout))
}

func TestSplitText(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		size     int
		overlap  int
		expected []string
	}{
		{
			name:     "短文本不切分",
			text:     "short text",
			size:     500,
			overlap:  50,
			expected: []string{"short text"},
		},
		{
			name:     "按空格切分并保留重叠",
			text:     "aaaa bbbb cccc dddd",
			size:     10,
			overlap:  2,
			expected: []string{"aaaa bbbb", "bb cccc", "cc dddd"},
		},
		{
			name:     "段落边界优先",
			text:     "para one.\n\npara two.",
			size:     15,
			overlap:  0,
			expected: []string{"para one.", "para two."},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitText(tc.text, tc.size, tc.overlap)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("SplitText = %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestRetrievalUsecase_IndexDocument(t *testing.T) {
	chunks := &fakeChunkRepo{}
	publisher := &fakePublisher{}
	uc := newRetrievalUsecase(chunks, &fakeLLM{}, publisher)

	count, err := uc.IndexDocument(context.Background(), "handbook.pdf", "The admission process starts in June.")
	if err != nil {
		t.Fatalf("IndexDocument failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 chunk, got %d", count)
	}
	if len(chunks.inserted) != 1 {
		t.Fatalf("Expected 1 inserted chunk, got %d", len(chunks.inserted))
	}
	if chunks.inserted[0].Source != "handbook.pdf" {
		t.Errorf("Unexpected source: %s", chunks.inserted[0].Source)
	}
	if chunks.inserted[0].DocumentID == "" || chunks.inserted[0].ID == "" {
		t.Error("Expected generated IDs")
	}
	if publisher.count() != 1 {
		t.Errorf("Expected 1 indexed event, got %d", publisher.count())
	}
}

func TestRetrievalUsecase_IndexDocument_Empty(t *testing.T) {
	uc := newRetrievalUsecase(&fakeChunkRepo{}, &fakeLLM{}, &fakePublisher{})

	if _, err := uc.IndexDocument(context.Background(), "empty.txt", "   "); !errors.Is(err, domain.ErrNoRelevantContent) {
		t.Errorf("Expected ErrNoRelevantContent, got %v", err)
	}
}

func TestRetrievalUsecase_Answer(t *testing.T) {
	chunks := &fakeChunkRepo{results: []domain.ScoredChunk{
		{Chunk: domain.Chunk{Content: "Admissions open in June.", Source: "handbook.pdf"}, Relevance: 0.9},
		{Chunk: domain.Chunk{Content: "Counselling follows the merit list.", Source: "handbook.pdf"}, Relevance: 0.5},
		{Chunk: domain.Chunk{Content: "Mess menu for the week.", Source: "mess.txt"}, Relevance: 0.2},
	}}
	llm := &fakeLLM{answer: "Admissions open in June and counselling follows."}
	uc := newRetrievalUsecase(chunks, llm, &fakePublisher{})

	answer, err := uc.Answer(context.Background(), "when do admissions open")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if !answer.ContextFound {
		t.Fatal("Expected context found")
	}
	// 低于相关度门限的切片被丢弃
	if answer.ChunkCount != 2 {
		t.Errorf("Expected 2 used chunks, got %d", answer.ChunkCount)
	}
	// 置信度为实际使用切片的平均相关度
	if math.Abs(answer.Confidence-0.7) > 1e-9 {
		t.Errorf("Expected confidence 0.7, got %.3f", answer.Confidence)
	}
	if !reflect.DeepEqual(answer.Sources, []string{"handbook.pdf"}) {
		t.Errorf("Unexpected sources: %v", answer.Sources)
	}
	if answer.Answer != llm.answer {
		t.Errorf("Unexpected answer: %q", answer.Answer)
	}
}

func TestRetrievalUsecase_Answer_NoRelevantChunks(t *testing.T) {
	chunks := &fakeChunkRepo{results: []domain.ScoredChunk{
		{Chunk: domain.Chunk{Content: "unrelated", Source: "misc.txt"}, Relevance: 0.1},
	}}
	uc := newRetrievalUsecase(chunks, &fakeLLM{answer: "should not be called"}, &fakePublisher{})

	answer, err := uc.Answer(context.Background(), "when do admissions open")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if answer.ContextFound {
		t.Error("Expected no context found")
	}
	if answer.Answer != "" {
		t.Errorf("Expected empty answer, got %q", answer.Answer)
	}
}

func TestRetrievalUsecase_Answer_LLMFailure(t *testing.T) {
	chunks := &fakeChunkRepo{results: []domain.ScoredChunk{
		{Chunk: domain.Chunk{Content: "Admissions open in June.", Source: "handbook.pdf"}, Relevance: 0.9},
	}}
	uc := newRetrievalUsecase(chunks, &fakeLLM{err: domain.ErrLLMUnavailable}, &fakePublisher{})

	answer, err := uc.Answer(context.Background(), "when do admissions open")
	if err == nil {
		t.Fatal("Expected error from llm failure")
	}
	// 检索本身成功，来源信息仍然返回
	if !answer.ContextFound {
		t.Error("Expected context found despite llm failure")
	}
}

func TestRetrievalUsecase_DeleteSource(t *testing.T) {
	publisher := &fakePublisher{}
	uc := newRetrievalUsecase(&fakeChunkRepo{}, &fakeLLM{}, publisher)

	if err := uc.DeleteSource(context.Background(), "handbook.pdf"); err != nil {
		t.Fatalf("DeleteSource failed: %v", err)
	}
	if publisher.count() != 1 {
		t.Errorf("Expected 1 deleted event, got %d", publisher.count())
	}
}
