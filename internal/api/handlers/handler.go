package handlers

import (
	"context"
	"time"

	"snap-pantry/internal/core/ai/vision"
	"snap-pantry/internal/core/image"
	"snap-pantry/internal/core/imagestore"
	"snap-pantry/internal/core/pantry"
	"snap-pantry/internal/pkg/common"
)

// ImageProcessor 圖片正規化
type ImageProcessor interface {
	Process(ctx context.Context, input string) (*image.Processed, error)
}

// FoodExtractor 從辨識結果抽取食物
type FoodExtractor interface {
	Extract(resp *vision.AnnotateResponse) ([]common.FoodItem, error)
}

// PantryService 食材庫操作
type PantryService interface {
	List(ctx context.Context) ([]common.PantryItem, error)
	Add(ctx context.Context, req pantry.AddRequest) (*common.PantryItem, error)
	Delete(ctx context.Context, id string) error
}

// ExpirationPredictor 到期日預測
type ExpirationPredictor interface {
	Predict(ctx context.Context, foodName, purchaseDate string, storageType common.StorageType) string
}

// RecipeService 食譜生成與讀取
type RecipeService interface {
	Generate(ctx context.Context) ([]common.Recipe, error)
	Saved(ctx context.Context) ([]common.Recipe, error)
}

// Deps 處理器依賴
type Deps struct {
	Images     ImageProcessor
	ImageStore imagestore.Store
	Vision     vision.Annotator
	Extractor  FoodExtractor
	Pantry     PantryService
	Expiration ExpirationPredictor
	Recipes    RecipeService
}

// Handler API 處理器
type Handler struct {
	deps Deps
	now  func() time.Time
}

// NewHandler 創建 API 處理器
func NewHandler(deps Deps) *Handler {
	return &Handler{
		deps: deps,
		now:  time.Now,
	}
}
