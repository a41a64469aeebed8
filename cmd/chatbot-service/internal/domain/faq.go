package domain

import "time"

// FAQ 常见问题条目
type FAQ struct {
	ID           string
	Question     string
	Answer       string
	Category     string
	Language     Language
	Keywords     []string
	Priority     int
	Views        int64
	HelpfulCount int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FAQMatch 检索命中的 FAQ 及评分
type FAQMatch struct {
	FAQ             *FAQ
	Score           float64
	MatchedKeywords []string
}

// FAQSearchResult FAQ 检索结果
type FAQSearchResult struct {
	Matches []FAQMatch
	Total   int
}

// FAQFilter FAQ 列表过滤条件
type FAQFilter struct {
	Language Language
	Category string
	Page     int
	PerPage  int
}
