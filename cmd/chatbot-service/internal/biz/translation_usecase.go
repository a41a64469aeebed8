package biz

import (
	"context"
	"strings"

	"campusassistant/cmd/chatbot-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
)

// languageOverrideConfidence 检测置信度高于该值时覆盖请求声明的语言
const languageOverrideConfidence = 0.7

// scriptRange 印度文字的 Unicode 码位区间
type scriptRange struct {
	lang       domain.Language
	start, end rune
}

// 天城文同时覆盖印地语与马拉地语，启发式统一判为印地语
var scriptRanges = []scriptRange{
	{domain.LangHindi, 0x0900, 0x097F},
	{domain.LangTamil, 0x0B80, 0x0BFF},
	{domain.LangTelugu, 0x0C00, 0x0C7F},
	{domain.LangBengali, 0x0980, 0x09FF},
}

// TranslationUsecase 封装语言检测与双向翻译。
// 外部翻译服务不可用时检测退化为文字系统启发式，翻译退化为原文透传。
type TranslationUsecase struct {
	translator domain.Translator
	log        *log.Helper
}

// NewTranslationUsecase 创建翻译用例
func NewTranslationUsecase(translator domain.Translator, logger log.Logger) *TranslationUsecase {
	return &TranslationUsecase{
		translator: translator,
		log:        log.NewHelper(log.With(logger, "module", "translation")),
	}
}

// ResolveLanguage 确定本轮会话语言：检测结果置信度超过阈值且属于
// 支持语言时覆盖请求声明，否则沿用 requested。
func (uc *TranslationUsecase) ResolveLanguage(ctx context.Context, text string, requested domain.Language) domain.Language {
	det := uc.Detect(ctx, text)
	if det.Confidence > languageOverrideConfidence && domain.IsSupported(det.Language) && det.Language != requested {
		uc.log.Infof("language override: requested=%s detected=%s confidence=%.2f", requested, det.Language, det.Confidence)
		return det.Language
	}
	return requested
}

// Detect 检测文本语言。过短文本直接返回默认语言，
// 外部检测失败时退回启发式。
func (uc *TranslationUsecase) Detect(ctx context.Context, text string) domain.Detection {
	if len(strings.TrimSpace(text)) < 3 {
		return domain.Detection{Language: domain.DefaultLanguage, Confidence: 0.0}
	}

	det, err := uc.translator.Detect(ctx, text)
	if err != nil {
		uc.log.Warnf("language detection failed, using heuristic: err=%v", err)
		return HeuristicDetect(text)
	}
	det.Language = domain.NormalizeLanguage(string(det.Language))
	return det
}

// ToEnglish 译为英文，源语言已是英文或翻译失败时返回原文
func (uc *TranslationUsecase) ToEnglish(ctx context.Context, text string, source domain.Language) string {
	if source == domain.LangEnglish {
		return text
	}
	translated, err := uc.translator.Translate(ctx, text, source, domain.LangEnglish)
	if err != nil {
		uc.log.Warnf("translate to english failed: source=%s err=%v", source, err)
		return text
	}
	return translated
}

// FromEnglish 从英文译回目标语言，失败时返回英文原文
func (uc *TranslationUsecase) FromEnglish(ctx context.Context, text string, target domain.Language) string {
	if target == domain.LangEnglish {
		return text
	}
	translated, err := uc.translator.Translate(ctx, text, domain.LangEnglish, target)
	if err != nil {
		uc.log.Warnf("translate from english failed: target=%s err=%v", target, err)
		return text
	}
	return translated
}

// HeuristicDetect 按文字系统占比的启发式检测：
// 某一印度文字占比超过 0.3 判为该语言，ASCII 占比超过 0.7 判为英文，
// 其余情况返回默认语言、置信度 0.5。
func HeuristicDetect(text string) domain.Detection {
	counts := make(map[domain.Language]int, len(scriptRanges))
	asciiCount := 0
	total := 0

	for _, r := range text {
		if r == ' ' {
			continue
		}
		total++
		matched := false
		for _, sr := range scriptRanges {
			if r >= sr.start && r <= sr.end {
				counts[sr.lang]++
				matched = true
				break
			}
		}
		if !matched && r < 128 {
			asciiCount++
		}
	}

	if total == 0 {
		return domain.Detection{Language: domain.DefaultLanguage, Confidence: 0.5}
	}

	for _, sr := range scriptRanges {
		if ratio := float64(counts[sr.lang]) / float64(total); ratio > 0.3 {
			return domain.Detection{Language: sr.lang, Confidence: ratio}
		}
	}

	if ratio := float64(asciiCount) / float64(total); ratio > 0.7 {
		return domain.Detection{Language: domain.LangEnglish, Confidence: ratio}
	}

	return domain.Detection{Language: domain.DefaultLanguage, Confidence: 0.5}
}
