package biz

import (
	"context"
	"strings"
	"sync"

	"campusassistant/cmd/chatbot-service/internal/domain"
)

// 包内测试共用的内存版依赖实现

type fakeFAQRepo struct {
	mu   sync.Mutex
	faqs []*domain.FAQ
	err  error
}

func (r *fakeFAQRepo) Create(ctx context.Context, faq *domain.FAQ) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *faq
	r.faqs = append(r.faqs, &copied)
	return nil
}

func (r *fakeFAQRepo) Update(ctx context.Context, faq *domain.FAQ) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, f := range r.faqs {
		if f.ID == faq.ID {
			copied := *faq
			r.faqs[i] = &copied
			return nil
		}
	}
	return domain.ErrFAQNotFound
}

func (r *fakeFAQRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, f := range r.faqs {
		if f.ID == id {
			r.faqs = append(r.faqs[:i], r.faqs[i+1:]...)
			return nil
		}
	}
	return domain.ErrFAQNotFound
}

func (r *fakeFAQRepo) GetByID(ctx context.Context, id string) (*domain.FAQ, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.faqs {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, domain.ErrFAQNotFound
}

func (r *fakeFAQRepo) ListByLanguage(ctx context.Context, lang domain.Language, category string) ([]*domain.FAQ, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.FAQ
	for _, f := range r.faqs {
		if f.Language != lang {
			continue
		}
		if category != "" && !strings.EqualFold(f.Category, category) {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (r *fakeFAQRepo) List(ctx context.Context, filter domain.FAQFilter) ([]*domain.FAQ, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.faqs, int64(len(r.faqs)), nil
}

func (r *fakeFAQRepo) Categories(ctx context.Context, lang domain.Language) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]struct{})
	var out []string
	for _, f := range r.faqs {
		if f.Language != lang {
			continue
		}
		if _, ok := seen[f.Category]; !ok {
			seen[f.Category] = struct{}{}
			out = append(out, f.Category)
		}
	}
	return out, nil
}

func (r *fakeFAQRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.faqs)), nil
}

func (r *fakeFAQRepo) IncrementViews(ctx context.Context, id string) error   { return nil }
func (r *fakeFAQRepo) IncrementHelpful(ctx context.Context, id string) error { return nil }

type fakeTranslator struct {
	detection domain.Detection
	detectErr error
	// translate 为空时原样返回，模拟恒等翻译
	translate func(text string, source, target domain.Language) string
	err       error
}

func (t *fakeTranslator) Detect(ctx context.Context, text string) (domain.Detection, error) {
	if t.detectErr != nil {
		return domain.Detection{}, t.detectErr
	}
	return t.detection, nil
}

func (t *fakeTranslator) Translate(ctx context.Context, text string, source, target domain.Language) (string, error) {
	if t.err != nil {
		return "", t.err
	}
	if t.translate == nil {
		return text, nil
	}
	return t.translate(text, source, target), nil
}

type fakeChunkRepo struct {
	mu       sync.Mutex
	inserted []domain.Chunk
	results  []domain.ScoredChunk
	err      error
}

func (r *fakeChunkRepo) Insert(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserted = append(r.inserted, chunks...)
	return nil
}

func (r *fakeChunkRepo) Search(ctx context.Context, vector []float32, topK int) ([]domain.ScoredChunk, error) {
	if r.err != nil {
		return nil, r.err
	}
	if topK > 0 && len(r.results) > topK {
		return r.results[:topK], nil
	}
	return r.results, nil
}

func (r *fakeChunkRepo) DeleteBySource(ctx context.Context, source string) error { return r.err }

func (r *fakeChunkRepo) Sources(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, sc := range r.results {
		if _, ok := seen[sc.Source]; !ok {
			seen[sc.Source] = struct{}{}
			out = append(out, sc.Source)
		}
	}
	return out, nil
}

func (r *fakeChunkRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.inserted)), nil
}

type fakeEmbedder struct {
	dim int
	err error
}

func (e *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	dim := e.dim
	if dim == 0 {
		dim = 4
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, dim)
	}
	return out, nil
}

type fakeLLM struct {
	answer    string
	err       error
	healthErr error
	prompts   []string
}

func (l *fakeLLM) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	l.prompts = append(l.prompts, prompt)
	if l.err != nil {
		return "", l.err
	}
	return l.answer, nil
}

func (l *fakeLLM) Health(ctx context.Context) error { return l.healthErr }

type fakePublisher struct {
	mu     sync.Mutex
	events []any
}

func (p *fakePublisher) Publish(ctx context.Context, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type fakeContextCache struct {
	mu    sync.Mutex
	snaps map[string]domain.ContextSnapshot
}

func newFakeContextCache() *fakeContextCache {
	return &fakeContextCache{snaps: make(map[string]domain.ContextSnapshot)}
}

func (c *fakeContextCache) Save(ctx context.Context, snapshot domain.ContextSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snaps[snapshot.SessionID] = snapshot
	return nil
}

func (c *fakeContextCache) Load(ctx context.Context, sessionID string) (*domain.ContextSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, ok := c.snaps[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &snap, nil
}

func (c *fakeContextCache) Delete(ctx context.Context, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.snaps, sessionID)
	return nil
}
