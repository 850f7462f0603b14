package common

import (
	"time"
)

// Source 食物候選項的來源分組
type Source string

const (
	SourceLabel     Source = "label"
	SourceObject    Source = "object"
	SourceWeb       Source = "web"
	SourceBestGuess Source = "best_guess"
)

// BestGuessConfidence 最佳猜測標籤沒有分數，固定使用此信心值
const BestGuessConfidence = 0.9

// StorageType 保存方式
type StorageType string

const (
	StorageRefrigerated StorageType = "refrigerated"
	StoragePantry       StorageType = "pantry"
	StorageFrozen       StorageType = "frozen"
)

// Valid 檢查保存方式是否為已知值
func (s StorageType) Valid() bool {
	switch s {
	case StorageRefrigerated, StoragePantry, StorageFrozen:
		return true
	}
	return false
}

// FoodItem 辨識出的食物
// JSON 欄位沿用行動端既有的儲存格式
type FoodItem struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Confidence     float64     `json:"confidence"`
	Source         Source      `json:"source"`
	Date           time.Time   `json:"date"`
	PurchaseDate   string      `json:"purchaseDate,omitempty"`
	Quantity       string      `json:"quantity,omitempty"`
	ExpirationDate string      `json:"expirationDate,omitempty"`
	StorageType    StorageType `json:"storageType,omitempty"`
}

// PantryItem 一次拍攝後確認儲存的食材紀錄
type PantryItem struct {
	ID        string     `json:"id"`
	Timestamp time.Time  `json:"timestamp"`
	ImageURI  string     `json:"imageUri,omitempty"`
	FoodItems []FoodItem `json:"foodItems"`
}

// Recipe 由語言模型回應解析出的食譜
type Recipe struct {
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	CookingTime  string   `json:"cookingTime"`
	Difficulty   string   `json:"difficulty"`
}

// ExpirationStatus 食材的保存期限狀態
type ExpirationStatus string

const (
	ExpirationUnknown      ExpirationStatus = "unknown"
	ExpirationFresh        ExpirationStatus = "fresh"
	ExpirationExpiringSoon ExpirationStatus = "expiring_soon"
	ExpirationExpired      ExpirationStatus = "expired"
)
