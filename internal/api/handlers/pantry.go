package handlers

import (
	"net/http"
	"time"

	"snap-pantry/internal/core/expiration"
	"snap-pantry/internal/core/pantry"
	"snap-pantry/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// FoodItemPayload 使用者選定的食物
type FoodItemPayload struct {
	ID         string  `json:"id"`
	Name       string  `json:"name" binding:"required"`
	Confidence float64 `json:"confidence" binding:"gte=0,lte=1"`
	Source     string  `json:"source" binding:"omitempty,oneof=label object web best_guess"`
}

// AddPantryRequest 加入食材庫請求
type AddPantryRequest struct {
	FoodItem       FoodItemPayload `json:"food_item"`
	ImageURI       string          `json:"image_uri"`
	PurchaseDate   string          `json:"purchase_date"`
	Quantity       string          `json:"quantity"`
	StorageType    string          `json:"storage_type" binding:"omitempty,storage_type"`
	ExpirationDate string          `json:"expiration_date"`
}

// FoodItemView 回傳時附上保存期限狀態
type FoodItemView struct {
	common.FoodItem
	ExpirationStatus common.ExpirationStatus `json:"expirationStatus"`
}

// PantryItemView 食材紀錄回應
type PantryItemView struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	ImageURI  string         `json:"imageUri,omitempty"`
	FoodItems []FoodItemView `json:"foodItems"`
}

// PantryListResponse 食材庫列表
type PantryListResponse struct {
	Items []PantryItemView `json:"items"`
}

func (h *Handler) toView(item common.PantryItem, now time.Time) PantryItemView {
	foods := make([]FoodItemView, 0, len(item.FoodItems))
	for _, f := range item.FoodItems {
		foods = append(foods, FoodItemView{
			FoodItem:         f,
			ExpirationStatus: expiration.Status(f.ExpirationDate, now),
		})
	}
	return PantryItemView{
		ID:        item.ID,
		Timestamp: item.Timestamp,
		ImageURI:  item.ImageURI,
		FoodItems: foods,
	}
}

// ListPantry 處理 GET /pantry
func (h *Handler) ListPantry(c *gin.Context) {
	items, err := h.deps.Pantry.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	now := h.now()
	views := make([]PantryItemView, 0, len(items))
	for _, item := range items {
		views = append(views, h.toView(item, now))
	}
	c.JSON(http.StatusOK, PantryListResponse{Items: views})
}

// AddPantryItem 處理 POST /pantry
func (h *Handler) AddPantryItem(c *gin.Context) {
	var req AddPantryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.deps.Pantry.Add(c.Request.Context(), pantry.AddRequest{
		FoodItem: common.FoodItem{
			ID:             req.FoodItem.ID,
			Name:           req.FoodItem.Name,
			Confidence:     req.FoodItem.Confidence,
			Source:         common.Source(req.FoodItem.Source),
			PurchaseDate:   req.PurchaseDate,
			Quantity:       req.Quantity,
			ExpirationDate: req.ExpirationDate,
			StorageType:    common.StorageType(req.StorageType),
		},
		ImageURI: req.ImageURI,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.toView(*item, h.now()))
}

// DeletePantryItem 處理 DELETE /pantry/:id
func (h *Handler) DeletePantryItem(c *gin.Context) {
	if err := h.deps.Pantry.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
