package biz

import (
	"context"
	"sort"
	"strings"

	"campusassistant/cmd/chatbot-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// intentFAQCategory 意图到 FAQ 类别的映射，未映射的意图不做类别过滤
var intentFAQCategory = map[domain.Intent]string{
	domain.IntentFeeQuery:    "fees",
	domain.IntentAdmission:   "admission",
	domain.IntentScholarship: "scholarship",
	domain.IntentExam:        "exam",
	domain.IntentTimetable:   "timetable",
	domain.IntentDocument:    "documents",
	domain.IntentContact:     "contact",
	domain.IntentHostel:      "hostel",
}

// FAQUsecase FAQ 检索与管理
type FAQUsecase struct {
	repo domain.FAQRepository
	log  *log.Helper
}

// NewFAQUsecase 创建 FAQ 用例
func NewFAQUsecase(repo domain.FAQRepository, logger log.Logger) *FAQUsecase {
	return &FAQUsecase{
		repo: repo,
		log:  log.NewHelper(log.With(logger, "module", "faq")),
	}
}

// CategoryForIntent 返回意图对应的 FAQ 类别，空串表示不过滤
func CategoryForIntent(intent domain.Intent) string {
	return intentFAQCategory[intent]
}

// Search 关键词检索 FAQ。
// 得分 = 命中数/查询关键词数 + priority*0.1，封顶 1.0；
// 零交集的条目不入结果，排序为稳定降序。
func (uc *FAQUsecase) Search(ctx context.Context, query, category string, lang domain.Language, limit int) (*domain.FAQSearchResult, error) {
	faqs, err := uc.repo.ListByLanguage(ctx, lang, category)
	if err != nil {
		uc.log.Errorf("list faqs failed: lang=%s err=%v", lang, err)
		return &domain.FAQSearchResult{}, err
	}
	if len(faqs) == 0 {
		return &domain.FAQSearchResult{}, nil
	}

	queryKeywords := ExtractKeywords(query)
	querySet := make(map[string]struct{}, len(queryKeywords))
	for _, kw := range queryKeywords {
		querySet[kw] = struct{}{}
	}

	var matches []domain.FAQMatch
	for i := range faqs {
		faq := faqs[i]

		faqSet := make(map[string]struct{})
		for _, kw := range faq.Keywords {
			faqSet[strings.ToLower(kw)] = struct{}{}
		}
		for _, kw := range ExtractKeywords(faq.Question) {
			faqSet[kw] = struct{}{}
		}

		var matched []string
		for _, kw := range queryKeywords {
			if _, ok := faqSet[kw]; ok {
				matched = append(matched, kw)
			}
		}
		if len(matched) == 0 {
			continue
		}

		denom := len(querySet)
		if denom < 1 {
			denom = 1
		}
		score := float64(len(matched))/float64(denom) + float64(faq.Priority)*0.1
		if score > 1.0 {
			score = 1.0
		}

		matches = append(matches, domain.FAQMatch{
			FAQ:             faq,
			Score:           score,
			MatchedKeywords: matched,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	total := len(matches)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	return &domain.FAQSearchResult{Matches: matches, Total: total}, nil
}

// Create 新建 FAQ，未提供关键词时从问题文本自动抽取
func (uc *FAQUsecase) Create(ctx context.Context, faq *domain.FAQ) (*domain.FAQ, error) {
	if faq.ID == "" {
		faq.ID = uuid.New().String()
	}
	if faq.Language == "" {
		faq.Language = domain.DefaultLanguage
	}
	if faq.Category == "" {
		faq.Category = "general"
	}
	if len(faq.Keywords) == 0 {
		faq.Keywords = ExtractKeywords(faq.Question)
	}
	if err := uc.repo.Create(ctx, faq); err != nil {
		return nil, err
	}
	uc.log.Infof("faq created: id=%s category=%s", faq.ID, faq.Category)
	return faq, nil
}

// Update 更新 FAQ
func (uc *FAQUsecase) Update(ctx context.Context, faq *domain.FAQ) error {
	return uc.repo.Update(ctx, faq)
}

// Delete 删除 FAQ
func (uc *FAQUsecase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// Get 按 ID 取 FAQ 并累加浏览次数
func (uc *FAQUsecase) Get(ctx context.Context, id string) (*domain.FAQ, error) {
	faq, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.IncrementViews(ctx, id); err != nil {
		uc.log.Warnf("increment views failed: id=%s err=%v", id, err)
	}
	return faq, nil
}

// List 分页列出 FAQ
func (uc *FAQUsecase) List(ctx context.Context, filter domain.FAQFilter) ([]*domain.FAQ, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = 20
	}
	return uc.repo.List(ctx, filter)
}

// Categories 列出某语言下所有类别
func (uc *FAQUsecase) Categories(ctx context.Context, lang domain.Language) ([]string, error) {
	return uc.repo.Categories(ctx, lang)
}

// MarkHelpful 标记 FAQ 有帮助
func (uc *FAQUsecase) MarkHelpful(ctx context.Context, id string) error {
	return uc.repo.IncrementHelpful(ctx, id)
}

// SeedDefaults 库为空时写入内置的默认 FAQ
func (uc *FAQUsecase) SeedDefaults(ctx context.Context) error {
	count, err := uc.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		uc.log.Infof("faqs already seeded: count=%d", count)
		return nil
	}
	for _, seed := range defaultFAQs {
		faq := seed
		if _, err := uc.Create(ctx, &faq); err != nil {
			return err
		}
	}
	uc.log.Infof("seeded default faqs: count=%d", len(defaultFAQs))
	return nil
}

// defaultFAQs 内置种子数据，覆盖主要类别
var defaultFAQs = []domain.FAQ{
	{
		Question: "What is the admission process?",
		Answer:   "Admissions open in June every year. Submit the online application form with your previous academic records, then appear for counselling. Seat allotment is based on merit.",
		Category: "admission",
		Language: domain.LangEnglish,
		Keywords: []string{"admission", "apply", "process", "application"},
		Priority: 2,
	},
	{
		Question: "What is the fee structure for the academic year?",
		Answer:   "Tuition fees are Rs. 45,000 per semester for B.Tech programs and Rs. 35,000 for B.Sc programs. Hostel and mess charges are billed separately.",
		Category: "fees",
		Language: domain.LangEnglish,
		Keywords: []string{"fee", "fees", "structure", "tuition", "semester"},
		Priority: 2,
	},
	{
		Question: "How can I pay my fees online?",
		Answer:   "Fees can be paid through the student portal using net banking, UPI, or debit/credit cards. Keep the transaction receipt for your records.",
		Category: "fees",
		Language: domain.LangEnglish,
		Keywords: []string{"pay", "payment", "online", "portal"},
		Priority: 1,
	},
	{
		Question: "Are there any scholarships available?",
		Answer:   "Merit scholarships cover up to 50% of tuition for students scoring above 90%. Need-based financial aid and government scholarships are also available through the scholarship cell.",
		Category: "scholarship",
		Language: domain.LangEnglish,
		Keywords: []string{"scholarship", "merit", "financial", "aid"},
		Priority: 2,
	},
	{
		Question: "When are the semester exams held?",
		Answer:   "End-semester examinations are held in December and May. The detailed timetable is published on the notice board and student portal three weeks in advance.",
		Category: "exam",
		Language: domain.LangEnglish,
		Keywords: []string{"exam", "examination", "semester", "schedule"},
		Priority: 2,
	},
	{
		Question: "How do I get a bonafide certificate?",
		Answer:   "Apply at the administrative office with your student ID. Bonafide certificates are issued within two working days.",
		Category: "documents",
		Language: domain.LangEnglish,
		Keywords: []string{"bonafide", "certificate", "document"},
		Priority: 1,
	},
	{
		Question: "What are the hostel facilities?",
		Answer:   "Separate hostels for boys and girls with Wi-Fi, mess, laundry, and 24x7 security. Rooms are allotted on a first-come basis after fee payment.",
		Category: "hostel",
		Language: domain.LangEnglish,
		Keywords: []string{"hostel", "accommodation", "room", "mess"},
		Priority: 1,
	},
	{
		Question: "How can I contact the administration office?",
		Answer:   "The administration office is open Monday to Friday, 9 AM to 5 PM. Phone: +91 98765 43210, Email: office@campus.edu.",
		Category: "contact",
		Language: domain.LangEnglish,
		Keywords: []string{"contact", "phone", "email", "office"},
		Priority: 1,
	},
}
