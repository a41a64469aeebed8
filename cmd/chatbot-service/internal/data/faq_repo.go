package data

import (
	"context"
	"errors"
	"time"

	"campusassistant/cmd/chatbot-service/internal/domain"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// FAQPO FAQ 持久化对象
type FAQPO struct {
	ID           string         `gorm:"primaryKey"`
	Question     string         `gorm:"type:text;not null"`
	Answer       string         `gorm:"type:text;not null"`
	Category     string         `gorm:"index;default:general"`
	Language     string         `gorm:"index;default:en"`
	Keywords     pq.StringArray `gorm:"type:text[]"`
	Priority     int            `gorm:"default:0"`
	Views        int64          `gorm:"default:0"`
	HelpfulCount int64          `gorm:"default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName 指定表名
func (FAQPO) TableName() string {
	return "faqs"
}

// FAQRepository FAQ 仓储实现
type FAQRepository struct {
	db *gorm.DB
}

// NewFAQRepository 创建 FAQ 仓储
func NewFAQRepository(db *gorm.DB) domain.FAQRepository {
	return &FAQRepository{db: db}
}

// Create 新建 FAQ
func (r *FAQRepository) Create(ctx context.Context, faq *domain.FAQ) error {
	po := r.toPO(faq)
	return r.db.WithContext(ctx).Create(po).Error
}

// Update 更新 FAQ
func (r *FAQRepository) Update(ctx context.Context, faq *domain.FAQ) error {
	po := r.toPO(faq)
	result := r.db.WithContext(ctx).Model(&FAQPO{}).Where("id = ?", faq.ID).Updates(po)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrFAQNotFound
	}
	return nil
}

// Delete 删除 FAQ
func (r *FAQRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&FAQPO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrFAQNotFound
	}
	return nil
}

// GetByID 按 ID 取 FAQ
func (r *FAQRepository) GetByID(ctx context.Context, id string) (*domain.FAQ, error) {
	var po FAQPO
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&po).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFAQNotFound
		}
		return nil, err
	}
	return r.toDomain(&po), nil
}

// ListByLanguage 列出某语言下的 FAQ，category 为空时不过滤类别
func (r *FAQRepository) ListByLanguage(ctx context.Context, lang domain.Language, category string) ([]*domain.FAQ, error) {
	db := r.db.WithContext(ctx).Where("language = ?", string(lang))
	if category != "" {
		db = db.Where("LOWER(category) = LOWER(?)", category)
	}

	var pos []FAQPO
	if err := db.Find(&pos).Error; err != nil {
		return nil, err
	}

	faqs := make([]*domain.FAQ, len(pos))
	for i := range pos {
		faqs[i] = r.toDomain(&pos[i])
	}
	return faqs, nil
}

// List 分页列出 FAQ
func (r *FAQRepository) List(ctx context.Context, filter domain.FAQFilter) ([]*domain.FAQ, int64, error) {
	db := r.db.WithContext(ctx).Model(&FAQPO{})
	if filter.Language != "" {
		db = db.Where("language = ?", string(filter.Language))
	}
	if filter.Category != "" {
		db = db.Where("category = ?", filter.Category)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PerPage
	var pos []FAQPO
	if err := db.Order("priority DESC, created_at DESC").Limit(filter.PerPage).Offset(offset).Find(&pos).Error; err != nil {
		return nil, 0, err
	}

	faqs := make([]*domain.FAQ, len(pos))
	for i := range pos {
		faqs[i] = r.toDomain(&pos[i])
	}
	return faqs, total, nil
}

// Categories 列出某语言下的全部类别
func (r *FAQRepository) Categories(ctx context.Context, lang domain.Language) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&FAQPO{}).
		Where("language = ?", string(lang)).
		Distinct("category").
		Pluck("category", &categories).Error
	return categories, err
}

// Count FAQ 总数
func (r *FAQRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&FAQPO{}).Count(&count).Error
	return count, err
}

// IncrementViews 浏览计数加一
func (r *FAQRepository) IncrementViews(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&FAQPO{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// IncrementHelpful 有帮助计数加一
func (r *FAQRepository) IncrementHelpful(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&FAQPO{}).
		Where("id = ?", id).
		UpdateColumn("helpful_count", gorm.Expr("helpful_count + 1")).Error
}

// toPO 转换为持久化对象
func (r *FAQRepository) toPO(faq *domain.FAQ) *FAQPO {
	return &FAQPO{
		ID:           faq.ID,
		Question:     faq.Question,
		Answer:       faq.Answer,
		Category:     faq.Category,
		Language:     string(faq.Language),
		Keywords:     pq.StringArray(faq.Keywords),
		Priority:     faq.Priority,
		Views:        faq.Views,
		HelpfulCount: faq.HelpfulCount,
		CreatedAt:    faq.CreatedAt,
		UpdatedAt:    faq.UpdatedAt,
	}
}

// toDomain 转换为领域对象
func (r *FAQRepository) toDomain(po *FAQPO) *domain.FAQ {
	return &domain.FAQ{
		ID:           po.ID,
		Question:     po.Question,
		Answer:       po.Answer,
		Category:     po.Category,
		Language:     domain.Language(po.Language),
		Keywords:     []string(po.Keywords),
		Priority:     po.Priority,
		Views:        po.Views,
		HelpfulCount: po.HelpfulCount,
		CreatedAt:    po.CreatedAt,
		UpdatedAt:    po.UpdatedAt,
	}
}
