package food

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"snap-pantry/internal/core/ai/vision"
	"snap-pantry/internal/pkg/common"
)

// Extractor 將影像辨識結果轉成去重、排序後的食物候選
type Extractor struct {
	now   func() time.Time
	newID func() string
}

// NewExtractor 創建使用系統時鐘與 UUID 的 Extractor
func NewExtractor() *Extractor {
	return &Extractor{
		now:   time.Now,
		newID: common.GenerateUUID,
	}
}

// ExtractJSON 解析原始回應後抽取
func (e *Extractor) ExtractJSON(raw []byte) ([]common.FoodItem, error) {
	var resp vision.AnnotateResponse
	if err := common.ParseJSONBytes(raw, &resp); err != nil {
		return nil, common.Wrap(common.ErrMalformedVisionResponse, err)
	}
	return e.Extract(&resp)
}

// Extract 依序處理標籤、物件、網路實體、最佳猜測四組結果
func (e *Extractor) Extract(resp *vision.AnnotateResponse) ([]common.FoodItem, error) {
	if resp == nil || len(resp.Responses) == 0 {
		return nil, common.Wrap(common.ErrMalformedVisionResponse, fmt.Errorf("response has no entries"))
	}
	first := resp.Responses[0]
	if first.Error != nil {
		return nil, common.Wrap(common.ErrMalformedVisionResponse,
			fmt.Errorf("annotation error %d: %s", first.Error.Code, first.Error.Message))
	}
	return e.FromImageResponse(first), nil
}

// FromImageResponse 處理單張圖片的結果，缺少的分組視為空
func (e *Extractor) FromImageResponse(r vision.AnnotateImageResponse) []common.FoodItem {
	detectedAt := e.now()
	var items []common.FoodItem
	add := func(name string, confidence float64, source common.Source) {
		if !IsFood(name) {
			return
		}
		items = append(items, common.FoodItem{
			ID:         e.newID(),
			Name:       name,
			Confidence: confidence,
			Source:     source,
			Date:       detectedAt,
		})
	}

	for _, label := range r.LabelAnnotations {
		add(label.Description, label.Score, common.SourceLabel)
	}
	for _, obj := range r.LocalizedObjectAnnotations {
		add(obj.Name, obj.Score, common.SourceObject)
	}
	if web := r.WebDetection; web != nil {
		for _, entity := range web.WebEntities {
			add(entity.Description, entity.Score, common.SourceWeb)
		}
		for _, guess := range web.BestGuessLabels {
			add(guess.Label, common.BestGuessConfidence, common.SourceBestGuess)
		}
	}

	items = RemoveDuplicates(items)
	SortByConfidence(items)

	return items
}

// RemoveDuplicates 以小寫名稱去重，保留第一次出現的項目
func RemoveDuplicates(items []common.FoodItem) []common.FoodItem {
	seen := make(map[string]bool, len(items))
	unique := make([]common.FoodItem, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(item.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, item)
	}
	return unique
}

// SortByConfidence 依信心值遞減排序，同分保持原順序
func SortByConfidence(items []common.FoodItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Confidence > items[j].Confidence
	})
}
