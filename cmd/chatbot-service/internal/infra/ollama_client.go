package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campusassistant/cmd/chatbot-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
)

// OllamaConfig Ollama 服务配置
type OllamaConfig struct {
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	Timeout     time.Duration `yaml:"timeout"`
	NumPredict  int           `yaml:"num_predict"`
	Temperature float64       `yaml:"temperature"`
	TopP        float64       `yaml:"top_p"`
}

// generateRequest /api/generate 请求体
type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	NumPredict  int      `json:"num_predict"`
	Temperature float64  `json:"temperature"`
	TopP        float64  `json:"top_p"`
	Stop        []string `json:"stop"`
}

// generateResponse /api/generate 响应体
type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// tagsResponse /api/tags 响应体
type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// OllamaClient 本地大模型客户端
type OllamaClient struct {
	client *baseClient
	config *OllamaConfig
	log    *log.Helper
}

// NewOllamaClient 创建 Ollama 客户端
func NewOllamaClient(config *OllamaConfig, logger log.Logger) domain.LLMClient {
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.NumPredict == 0 {
		config.NumPredict = 512
	}
	if config.Temperature == 0 {
		config.Temperature = 0.7
	}
	if config.TopP == 0 {
		config.TopP = 0.9
	}
	return &OllamaClient{
		client: newBaseClient(clientConfig{
			ServiceName: "ollama",
			BaseURL:     strings.TrimRight(config.BaseURL, "/"),
			Timeout:     config.Timeout,
		}),
		config: config,
		log:    log.NewHelper(log.With(logger, "module", "ollama-client")),
	}
}

// Generate 生成应答。系统提示词与用户提问拼成单轮对话格式，
// stop 标记避免模型续写出下一轮的用户发言。
func (c *OllamaClient) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	fullPrompt := prompt
	if systemPrompt != "" {
		fullPrompt = fmt.Sprintf("%s\n\nUser: %s\n\nAssistant:", systemPrompt, prompt)
	}

	req := generateRequest{
		Model:  c.config.Model,
		Prompt: fullPrompt,
		Stream: false,
		Options: generateOptions{
			NumPredict:  c.config.NumPredict,
			Temperature: c.config.Temperature,
			TopP:        c.config.TopP,
			Stop:        []string{"\nUser:", "\n\nUser:"},
		},
	}

	var resp generateResponse
	if err := c.client.post(ctx, "/api/generate", req, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
	}

	answer := strings.TrimSpace(resp.Response)
	if answer == "" {
		return "", domain.ErrLLMUnavailable
	}
	return answer, nil
}

// Health 探测模型服务，确认配置的模型已拉取
func (c *OllamaClient) Health(ctx context.Context) error {
	var resp tagsResponse
	if err := c.client.get(ctx, "/api/tags", &resp); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
	}

	for _, m := range resp.Models {
		if m.Name == c.config.Model || strings.HasPrefix(m.Name, c.config.Model+":") {
			return nil
		}
	}
	c.log.Warnf("model not found on ollama: model=%s", c.config.Model)
	return fmt.Errorf("%w: model %s not available", domain.ErrLLMUnavailable, c.config.Model)
}
