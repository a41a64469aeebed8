package service

import (
	"context"
	"time"

	"campusassistant/cmd/chatbot-service/internal/biz"
	"campusassistant/cmd/chatbot-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
)

// FAQCreateRequest 新建 FAQ 请求
type FAQCreateRequest struct {
	Question string   `json:"question" binding:"required"`
	Answer   string   `json:"answer" binding:"required"`
	Category string   `json:"category"`
	Language string   `json:"language"`
	Keywords []string `json:"keywords"`
	Priority int      `json:"priority"`
}

// FAQUpdateRequest 更新 FAQ 请求
type FAQUpdateRequest struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
	Priority int      `json:"priority"`
}

// FAQDTO FAQ 响应对象
type FAQDTO struct {
	ID           string   `json:"id"`
	Question     string   `json:"question"`
	Answer       string   `json:"answer"`
	Category     string   `json:"category"`
	Language     string   `json:"language"`
	Keywords     []string `json:"keywords"`
	Priority     int      `json:"priority"`
	Views        int64    `json:"views"`
	HelpfulCount int64    `json:"helpful_count"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

// FAQListResult 分页列表结果
type FAQListResult struct {
	FAQs       []FAQDTO `json:"faqs"`
	Total      int64    `json:"total"`
	Page       int      `json:"page"`
	PerPage    int      `json:"per_page"`
	TotalPages int64    `json:"total_pages"`
}

// FAQMatchDTO 检索命中结果
type FAQMatchDTO struct {
	Question        string   `json:"question"`
	Answer          string   `json:"answer"`
	Category        string   `json:"category"`
	Score           float64  `json:"score"`
	MatchedKeywords []string `json:"matched_keywords"`
}

// FAQSearchResult 检索结果
type FAQSearchResult struct {
	Matches []FAQMatchDTO `json:"matches"`
	Total   int           `json:"total"`
}

// FAQService FAQ 管理服务门面
type FAQService struct {
	faqs *biz.FAQUsecase
	log  *log.Helper
}

// NewFAQService 创建 FAQ 服务
func NewFAQService(faqs *biz.FAQUsecase, logger log.Logger) *FAQService {
	return &FAQService{
		faqs: faqs,
		log:  log.NewHelper(log.With(logger, "module", "faq-service")),
	}
}

// Search 检索 FAQ
func (s *FAQService) Search(ctx context.Context, query, category, language string, limit int) (*FAQSearchResult, error) {
	if limit <= 0 {
		limit = 5
	}
	result, err := s.faqs.Search(ctx, query, category, domain.NormalizeLanguage(language), limit)
	if err != nil {
		return nil, err
	}

	matches := make([]FAQMatchDTO, len(result.Matches))
	for i, m := range result.Matches {
		matches[i] = FAQMatchDTO{
			Question:        m.FAQ.Question,
			Answer:          m.FAQ.Answer,
			Category:        m.FAQ.Category,
			Score:           m.Score,
			MatchedKeywords: m.MatchedKeywords,
		}
	}
	return &FAQSearchResult{Matches: matches, Total: result.Total}, nil
}

// Create 新建 FAQ
func (s *FAQService) Create(ctx context.Context, req *FAQCreateRequest) (*FAQDTO, error) {
	faq, err := s.faqs.Create(ctx, &domain.FAQ{
		Question: req.Question,
		Answer:   req.Answer,
		Category: req.Category,
		Language: domain.NormalizeLanguage(req.Language),
		Keywords: req.Keywords,
		Priority: req.Priority,
	})
	if err != nil {
		return nil, err
	}
	dto := toFAQDTO(faq)
	return &dto, nil
}

// Update 更新 FAQ
func (s *FAQService) Update(ctx context.Context, id string, req *FAQUpdateRequest) error {
	faq, err := s.faqs.Get(ctx, id)
	if err != nil {
		return err
	}

	if req.Question != "" {
		faq.Question = req.Question
	}
	if req.Answer != "" {
		faq.Answer = req.Answer
	}
	if req.Category != "" {
		faq.Category = req.Category
	}
	if len(req.Keywords) > 0 {
		faq.Keywords = req.Keywords
	}
	if req.Priority != 0 {
		faq.Priority = req.Priority
	}

	return s.faqs.Update(ctx, faq)
}

// Delete 删除 FAQ
func (s *FAQService) Delete(ctx context.Context, id string) error {
	return s.faqs.Delete(ctx, id)
}

// Get 取单条 FAQ
func (s *FAQService) Get(ctx context.Context, id string) (*FAQDTO, error) {
	faq, err := s.faqs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toFAQDTO(faq)
	return &dto, nil
}

// List 分页列出 FAQ
func (s *FAQService) List(ctx context.Context, language, category string, page, perPage int) (*FAQListResult, error) {
	filter := domain.FAQFilter{
		Category: category,
		Page:     page,
		PerPage:  perPage,
	}
	if language != "" {
		filter.Language = domain.NormalizeLanguage(language)
	}

	faqs, total, err := s.faqs.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]FAQDTO, len(faqs))
	for i, f := range faqs {
		dtos[i] = toFAQDTO(f)
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	return &FAQListResult{
		FAQs:       dtos,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: (total + int64(perPage) - 1) / int64(perPage),
	}, nil
}

// Categories 列出类别
func (s *FAQService) Categories(ctx context.Context, language string) ([]string, error) {
	return s.faqs.Categories(ctx, domain.NormalizeLanguage(language))
}

// MarkHelpful 标记有帮助
func (s *FAQService) MarkHelpful(ctx context.Context, id string) error {
	return s.faqs.MarkHelpful(ctx, id)
}

// Seed 写入默认 FAQ
func (s *FAQService) Seed(ctx context.Context) error {
	return s.faqs.SeedDefaults(ctx)
}

func toFAQDTO(faq *domain.FAQ) FAQDTO {
	return FAQDTO{
		ID:           faq.ID,
		Question:     faq.Question,
		Answer:       faq.Answer,
		Category:     faq.Category,
		Language:     string(faq.Language),
		Keywords:     faq.Keywords,
		Priority:     faq.Priority,
		Views:        faq.Views,
		HelpfulCount: faq.HelpfulCount,
		CreatedAt:    faq.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    faq.UpdatedAt.Format(time.RFC3339),
	}
}
