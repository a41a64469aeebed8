package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campusassistant/cmd/chatbot-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
)

// TranslatorConfig 翻译服务配置（LibreTranslate 兼容接口）
type TranslatorConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

type detectRequest struct {
	Q      string `json:"q"`
	APIKey string `json:"api_key,omitempty"`
}

type detectResponse []struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// TranslatorClient 翻译服务客户端
type TranslatorClient struct {
	client *baseClient
	apiKey string
	log    *log.Helper
}

// NewTranslatorClient 创建翻译客户端
func NewTranslatorClient(config *TranslatorConfig, logger log.Logger) domain.Translator {
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}
	return &TranslatorClient{
		client: newBaseClient(clientConfig{
			ServiceName: "translator",
			BaseURL:     strings.TrimRight(config.BaseURL, "/"),
			Timeout:     config.Timeout,
		}),
		apiKey: config.APIKey,
		log:    log.NewHelper(log.With(logger, "module", "translator-client")),
	}
}

// Detect 检测文本语言
func (c *TranslatorClient) Detect(ctx context.Context, text string) (domain.Detection, error) {
	req := detectRequest{Q: text, APIKey: c.apiKey}

	var resp detectResponse
	if err := c.client.post(ctx, "/detect", req, &resp); err != nil {
		return domain.Detection{}, fmt.Errorf("detect language: %w", err)
	}
	if len(resp) == 0 {
		return domain.Detection{}, fmt.Errorf("detect language: empty response")
	}

	// 服务端有的实现返回百分制置信度
	confidence := resp[0].Confidence
	if confidence > 1 {
		confidence = confidence / 100
	}

	return domain.Detection{
		Language:   domain.Language(resp[0].Language),
		Confidence: confidence,
	}, nil
}

// Translate 翻译文本
func (c *TranslatorClient) Translate(ctx context.Context, text string, source, target domain.Language) (string, error) {
	if source == target {
		return text, nil
	}

	req := translateRequest{
		Q:      text,
		Source: string(source),
		Target: string(target),
		APIKey: c.apiKey,
	}

	var resp translateResponse
	if err := c.client.post(ctx, "/translate", req, &resp); err != nil {
		return "", fmt.Errorf("translate %s->%s: %w", source, target, err)
	}
	if resp.TranslatedText == "" {
		return "", fmt.Errorf("translate %s->%s: empty response", source, target)
	}
	return resp.TranslatedText, nil
}
