package expiration

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"snap-pantry/internal/core/ai/cache"
	"snap-pantry/internal/core/ai/provider"
	"snap-pantry/internal/pkg/common"

	"go.uber.org/zap"
)

// DateLayout 到期日格式 MM/DD/YYYY
const DateLayout = "01/02/2006"

const (
	cacheNamespace     = "expiration"
	predictTemperature = 0.2
	predictMaxTokens   = 50

	systemPrompt = "You are a food safety expert. Your task is to provide expiration dates for food items " +
		"based on their purchase date and storage method. Respond with ONLY a date in MM/DD/YYYY format."
)

var datePattern = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)

// Predictor 預測食材到期日
type Predictor struct {
	provider     provider.Provider
	cacheManager *cache.CacheManager
	now          func() time.Time
}

// NewPredictor 創建到期日預測服務，cacheManager 可為 nil
func NewPredictor(p provider.Provider, cacheManager *cache.CacheManager) *Predictor {
	return &Predictor{
		provider:     p,
		cacheManager: cacheManager,
		now:          time.Now,
	}
}

func buildPrompt(foodName, purchaseDate string, storageType common.StorageType, today time.Time) string {
	return fmt.Sprintf(`Food item: %s
Purchase date: %s
Storage method: %s

When will this food expire? Please respond with ONLY the expiration date in MM/DD/YYYY format. If the purchase date is imprecise (like "Today"), assume today's date (%s).`,
		foodName, purchaseDate, storageType, today.Format(DateLayout))
}

// Predict 回傳 MM/DD/YYYY 格式的到期日
// 模型呼叫失敗或回應中找不到日期時，改用依儲存方式推算的預設值，因此永遠會有結果。
func (p *Predictor) Predict(ctx context.Context, foodName, purchaseDate string, storageType common.StorageType) string {
	today := p.now()
	prompt := buildPrompt(foodName, purchaseDate, storageType, today)

	if cached, err := p.cacheManager.Get(ctx, cacheNamespace, prompt); err == nil {
		return cached
	}

	resp, err := p.provider.Generate(ctx, &provider.Request{
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: systemPrompt},
			{Role: provider.RoleUser, Content: prompt},
		},
		Temperature: predictTemperature,
		MaxTokens:   predictMaxTokens,
	})
	if err != nil {
		common.LogWarn("到期日預測失敗，使用預設天數",
			zap.String("food", foodName),
			zap.String("storage_type", string(storageType)),
			zap.Error(err),
		)
		return Fallback(storageType, today)
	}

	match := datePattern.FindString(strings.TrimSpace(resp.Content))
	if match == "" {
		common.LogWarn("模型回應中沒有日期，使用預設天數",
			zap.String("food", foodName),
			zap.String("response", resp.Content),
		)
		return Fallback(storageType, today)
	}

	if err := p.cacheManager.Set(ctx, cacheNamespace, prompt, match); err != nil {
		common.LogDebug("到期日快取失敗", zap.Error(err))
	}
	return match
}

// FallbackDays 依儲存方式決定預設保存天數
func FallbackDays(storageType common.StorageType) int {
	switch storageType {
	case common.StorageFrozen:
		return 90
	case common.StoragePantry:
		return 14
	default:
		return 7
	}
}

// Fallback 以今天加上預設天數計算到期日
func Fallback(storageType common.StorageType, today time.Time) string {
	return today.AddDate(0, 0, FallbackDays(storageType)).Format(DateLayout)
}
