package biz

import "strings"

// stopWords 关键词抽取时剔除的英文虚词
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {}, "will": {}, "would": {}, "could": {},
	"should": {}, "may": {}, "might": {}, "can": {}, "to": {}, "of": {},
	"in": {}, "for": {}, "on": {}, "with": {}, "at": {}, "by": {},
	"from": {}, "as": {}, "into": {}, "about": {}, "like": {}, "through": {},
	"after": {}, "over": {}, "between": {}, "out": {}, "against": {},
	"during": {}, "without": {}, "before": {}, "under": {}, "around": {},
	"among": {}, "and": {}, "or": {}, "but": {}, "if": {}, "then": {},
	"else": {}, "when": {}, "up": {}, "down": {}, "that": {}, "this": {},
	"these": {}, "those": {}, "what": {}, "which": {}, "who": {}, "whom": {},
	"whose": {}, "where": {}, "why": {}, "how": {}, "all": {}, "each": {},
	"every": {}, "both": {}, "few": {}, "more": {}, "most": {}, "other": {},
	"some": {}, "such": {}, "no": {}, "nor": {}, "not": {}, "only": {},
	"own": {}, "same": {}, "so": {}, "than": {}, "too": {}, "very": {},
	"just": {}, "also": {}, "now": {}, "here": {}, "there": {}, "my": {},
	"your": {}, "his": {}, "her": {}, "its": {}, "our": {}, "their": {},
	"me": {}, "you": {}, "him": {}, "us": {}, "them": {}, "i": {},
	"we": {}, "he": {}, "she": {}, "it": {}, "they": {},
}

// ExtractKeywords 抽取检索关键词：小写化、去标点、
// 过滤停用词与长度小于 3 的词，保持出现顺序去重。
func ExtractKeywords(text string) []string {
	var sb strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			sb.WriteRune(r)
		case r > 127:
			// 保留非 ASCII 字符，多语言关键词不被去标点误伤
			sb.WriteRune(r)
		default:
			sb.WriteRune(' ')
		}
	}

	seen := make(map[string]struct{})
	var keywords []string
	for _, word := range strings.Fields(sb.String()) {
		if len([]rune(word)) < 3 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
	}
	return keywords
}
