package mistral

import (
	"context"
	"fmt"
	"strings"
	"time"

	"snap-pantry/internal/core/ai/provider"
	"snap-pantry/internal/infrastructure/config"
	"snap-pantry/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client Mistral chat completion 客戶端
type Client struct {
	config config.MistralConfig
	client *resty.Client
}

// chatRequest 表示 API 請求
type chatRequest struct {
	Model       string             `json:"model"`
	Messages    []provider.Message `json:"messages"`
	Temperature float64            `json:"temperature"`
	MaxTokens   int                `json:"max_tokens,omitempty"`
}

// chatResponse 表示 API 回應
type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage provider.Usage `json:"usage"`
}

// apiError 表示 API 錯誤
type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

var _ provider.Provider = (*Client)(nil)

// NewClient 創建新的 Mistral 客戶端
func NewClient(cfg config.MistralConfig) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetAuthToken(cfg.APIKey)

	return &Client{
		config: cfg,
		client: client,
	}
}

// Generate 生成回應
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	body := chatRequest{
		Model:       c.config.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	common.LogDebug("Sending request to Mistral",
		zap.String("model", body.Model),
		zap.Int("messages", len(body.Messages)),
	)

	start := time.Now()
	var result chatResponse
	var failure apiError
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&failure).
		Post("/chat/completions")
	if err != nil {
		err = common.Wrap(common.ErrAIServiceError, fmt.Errorf("failed to send request: %w", err))
		common.LogAICall("mistral", time.Since(start), err)
		return nil, err
	}

	if resp.IsError() {
		msg := failure.Message
		if msg == "" {
			msg = resp.String()
		}
		err = common.Wrap(common.ErrAIServiceError, fmt.Errorf("status %d: %s", resp.StatusCode(), msg))
		common.LogAICall("mistral", time.Since(start), err)
		return nil, err
	}

	if len(result.Choices) == 0 {
		err = common.Wrap(common.ErrAIServiceError, fmt.Errorf("no choices in response"))
		common.LogAICall("mistral", time.Since(start), err)
		return nil, err
	}

	common.LogAICall("mistral", time.Since(start), nil)

	return &provider.Response{
		Content: strings.TrimSpace(result.Choices[0].Message.Content),
		Usage:   result.Usage,
	}, nil
}

// GetModel 獲取模型名稱
func (c *Client) GetModel() string {
	return c.config.Model
}

// GetTimeout 獲取超時設定
func (c *Client) GetTimeout() time.Duration {
	return c.config.Timeout
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
