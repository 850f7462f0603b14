package vision

import (
	"context"
	"fmt"
	"strings"
	"time"

	"snap-pantry/internal/core/ai/cache"
	"snap-pantry/internal/infrastructure/config"
	"snap-pantry/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const cacheNamespace = "vision"

// Annotator 影像辨識介面
type Annotator interface {
	Annotate(ctx context.Context, imageBase64 string) (*AnnotateResponse, error)
}

// Client Google Vision images:annotate 客戶端
type Client struct {
	config       config.VisionConfig
	client       *resty.Client
	cacheManager *cache.CacheManager
}

var _ Annotator = (*Client)(nil)

// NewClient 創建影像辨識客戶端，cacheManager 可為 nil
func NewClient(cfg config.VisionConfig, cacheManager *cache.CacheManager) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	return &Client{
		config:       cfg,
		client:       client,
		cacheManager: cacheManager,
	}
}

// buildRequest 建立標籤、物件定位、網路偵測三種功能的請求
func (c *Client) buildRequest(imageBase64 string) *AnnotateRequest {
	return &AnnotateRequest{
		Requests: []AnnotateImageRequest{
			{
				Image: Image{Content: imageBase64},
				Features: []Feature{
					{Type: FeatureLabelDetection, MaxResults: c.config.MaxResults},
					{Type: FeatureObjectLocalization, MaxResults: c.config.MaxResults},
					{Type: FeatureWebDetection, MaxResults: c.config.MaxResults},
				},
			},
		},
	}
}

// Annotate 對一張圖片發送辨識請求
func (c *Client) Annotate(ctx context.Context, imageBase64 string) (*AnnotateResponse, error) {
	if imageBase64 == "" {
		return nil, common.Wrap(common.ErrInvalidImageFormat, fmt.Errorf("image content is empty"))
	}

	// 檢查緩存
	if cached, err := c.cacheManager.Get(ctx, cacheNamespace, imageBase64); err == nil {
		var result AnnotateResponse
		if err := common.ParseJSON(cached, &result); err == nil {
			return &result, nil
		}
	}

	start := time.Now()
	var result AnnotateResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("key", c.config.APIKey).
		SetBody(c.buildRequest(imageBase64)).
		SetResult(&result).
		Post("/images:annotate")
	if err != nil {
		err = common.Wrap(common.ErrVisionServiceError, fmt.Errorf("failed to send request: %w", err))
		common.LogAICall("vision", time.Since(start), err)
		return nil, err
	}

	if resp.IsError() {
		err = common.Wrap(common.ErrVisionServiceError, fmt.Errorf("API request failed with status %d", resp.StatusCode()))
		common.LogAICall("vision", time.Since(start), err)
		common.LogDebug("Vision error body", zap.String("response", resp.String()))
		return nil, err
	}

	common.LogAICall("vision", time.Since(start), nil)

	if encoded, err := common.ToJSON(&result); err == nil {
		if err := c.cacheManager.Set(ctx, cacheNamespace, imageBase64, string(encoded)); err != nil {
			common.LogWarn("Vision 回應快取失敗", zap.Error(err))
		}
	}

	return &result, nil
}
