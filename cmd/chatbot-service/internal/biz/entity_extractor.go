package biz

import (
	"regexp"
	"strconv"
	"strings"

	"campusassistant/cmd/chatbot-service/internal/domain"
)

// 实体抽取用的正则，包级编译一次
var (
	yearRe         = regexp.MustCompile(`\b(20\d{2})\b`)
	amountSymbolRe = regexp.MustCompile(`(?i)(?:Rs\.?|₹|INR)\s*(\d+(?:,\d+)*(?:\.\d{2})?)`)
	amountWordRe   = regexp.MustCompile(`(?i)(\d+(?:,\d+)*)\s*(?:rupees?|rs)`)
	semesterRe     = regexp.MustCompile(`(?i)(?:sem(?:ester)?)\s*(\d+)`)
	academicYearRe = regexp.MustCompile(`(20\d{2})[-/](20)?(\d{2})`)
	emailRe        = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	phoneRe        = regexp.MustCompile(`(?:\+91|0)?[\s-]?[6-9]\d{4}[\s-]?\d{5}`)
)

// departmentNames 院系/学位缩写表，子串匹配，命中转大写
var departmentNames = []string{
	"computer science", "cs", "cse", "it", "information technology",
	"electronics", "ece", "eee", "mechanical", "civil", "chemical",
	"btech", "mtech", "mba", "bba", "bca", "mca", "bsc", "msc",
}

// EntityExtractor 从消息中抽取年份、金额、学期等结构化实体
type EntityExtractor struct{}

// NewEntityExtractor 创建实体抽取器
func NewEntityExtractor() *EntityExtractor {
	return &EntityExtractor{}
}

// Extract 抽取实体。金额优先匹配货币符号写法，其次 "5000 rupees" 写法，
// 千分位逗号会被去掉；学年统一归一成 "20XX-YY"。
func (e *EntityExtractor) Extract(text string) domain.Entities {
	var out domain.Entities

	if m := yearRe.FindStringSubmatch(text); m != nil {
		out.Year = m[1]
	}

	if m := amountSymbolRe.FindStringSubmatch(text); m != nil {
		out.Amount = strings.ReplaceAll(m[1], ",", "")
	} else if m := amountWordRe.FindStringSubmatch(text); m != nil {
		out.Amount = strings.ReplaceAll(m[1], ",", "")
	}

	if m := semesterRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			out.Semester = n
		}
	}

	if m := academicYearRe.FindStringSubmatch(text); m != nil {
		out.AcademicYear = m[1] + "-" + m[3]
	}

	lower := strings.ToLower(text)
	for _, dept := range departmentNames {
		if strings.Contains(lower, dept) {
			out.Department = strings.ToUpper(dept)
			break
		}
	}

	if m := emailRe.FindString(text); m != "" {
		out.Email = m
	}

	if m := phoneRe.FindString(text); m != "" {
		out.Phone = strings.TrimSpace(m)
	}

	return out
}
