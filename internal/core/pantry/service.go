package pantry

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"snap-pantry/internal/core/queue"
	"snap-pantry/internal/infrastructure/storage"
	"snap-pantry/internal/pkg/common"

	"go.uber.org/zap"
)

// 使用者未填寫時的預設值
const (
	DefaultPurchaseDate = "Today"
	DefaultQuantity     = "1"
)

// ExpirationPredictor 到期日預測
type ExpirationPredictor interface {
	Predict(ctx context.Context, foodName, purchaseDate string, storageType common.StorageType) string
}

// AddRequest 確認加入食材庫的食物
type AddRequest struct {
	FoodItem common.FoodItem
	ImageURI string
}

// Service 食材庫服務
// 所有讀改寫都經過單一 worker 的寫入隊列執行
type Service struct {
	store     storage.Store
	queue     *queue.Manager
	predictor ExpirationPredictor
	now       func() time.Time
	newID     func() string
	lastID    int64
}

// NewService 創建食材庫服務，predictor 可為 nil
func NewService(store storage.Store, writeQueue *queue.Manager, predictor ExpirationPredictor) *Service {
	return &Service{
		store:     store,
		queue:     writeQueue,
		predictor: predictor,
		now:       time.Now,
		newID:     common.GenerateUUID,
	}
}

func (s *Service) load(ctx context.Context) ([]common.PantryItem, error) {
	items := make([]common.PantryItem, 0)
	if _, err := storage.GetJSON(ctx, s.store, storage.KeyPantryItems, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []common.PantryItem{}
	}
	return items, nil
}

// List 回傳整份食材庫，最新的在前
func (s *Service) List(ctx context.Context) ([]common.PantryItem, error) {
	return s.load(ctx)
}

// Add 將一個食物包成新的食材紀錄放在最前面
// 未提供到期日時先預測，預測在寫入隊列之外進行。
func (s *Service) Add(ctx context.Context, req AddRequest) (*common.PantryItem, error) {
	food := req.FoodItem
	if food.Name == "" {
		return nil, common.Wrap(common.ErrInvalidRequest, fmt.Errorf("food item name is required"))
	}
	if food.ID == "" {
		food.ID = s.newID()
	}
	if food.Date.IsZero() {
		food.Date = s.now()
	}
	if food.PurchaseDate == "" {
		food.PurchaseDate = DefaultPurchaseDate
	}
	if food.Quantity == "" {
		food.Quantity = DefaultQuantity
	}
	if food.StorageType == "" {
		food.StorageType = common.StorageRefrigerated
	}
	if food.ExpirationDate == "" && s.predictor != nil {
		food.ExpirationDate = s.predictor.Predict(ctx, food.Name, food.PurchaseDate, food.StorageType)
	}

	var created common.PantryItem
	err := s.queue.Submit(ctx, func(ctx context.Context) error {
		items, err := s.load(ctx)
		if err != nil {
			return err
		}

		now := s.now()
		item := common.PantryItem{
			ID:        s.nextID(now),
			Timestamp: now,
			ImageURI:  req.ImageURI,
			FoodItems: []common.FoodItem{food},
		}

		updated := make([]common.PantryItem, 0, len(items)+1)
		updated = append(updated, item)
		updated = append(updated, items...)
		if err := storage.SetJSON(ctx, s.store, storage.KeyPantryItems, updated); err != nil {
			return err
		}

		created = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	common.LogInfo("食材已加入",
		zap.String("id", created.ID),
		zap.String("food", food.Name),
		zap.String("expiration_date", food.ExpirationDate),
	)
	return &created, nil
}

// nextID 以毫秒時間戳作為 id，保證嚴格遞增，只在寫入隊列中呼叫
func (s *Service) nextID(now time.Time) string {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

// Delete 依 id 移除食材紀錄
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.queue.Submit(ctx, func(ctx context.Context) error {
		items, err := s.load(ctx)
		if err != nil {
			return err
		}

		updated := make([]common.PantryItem, 0, len(items))
		for _, item := range items {
			if item.ID != id {
				updated = append(updated, item)
			}
		}
		if len(updated) == len(items) {
			return common.ErrPantryItemNotFound
		}

		return storage.SetJSON(ctx, s.store, storage.KeyPantryItems, updated)
	})
	if err != nil {
		return err
	}

	common.LogInfo("食材已刪除", zap.String("id", id))
	return nil
}

// Ingredients 回傳食材庫中不重複的食物名稱，保持出現順序
func (s *Service) Ingredients(ctx context.Context) ([]string, error) {
	items, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, item := range items {
		for _, food := range item.FoodItems {
			if seen[food.Name] {
				continue
			}
			seen[food.Name] = true
			names = append(names, food.Name)
		}
	}
	return names, nil
}
