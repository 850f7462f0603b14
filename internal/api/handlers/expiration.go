package handlers

import (
	"net/http"

	"snap-pantry/internal/core/pantry"
	"snap-pantry/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// PredictExpirationRequest 到期日預測請求
type PredictExpirationRequest struct {
	FoodName     string `json:"food_name" binding:"required"`
	PurchaseDate string `json:"purchase_date"`
	StorageType  string `json:"storage_type" binding:"omitempty,storage_type"`
}

// PredictExpirationResponse 到期日預測回應
type PredictExpirationResponse struct {
	ExpirationDate string `json:"expiration_date"`
}

// PredictExpiration 處理 POST /expiration/predict
func (h *Handler) PredictExpiration(c *gin.Context) {
	var req PredictExpirationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	purchaseDate := req.PurchaseDate
	if purchaseDate == "" {
		purchaseDate = pantry.DefaultPurchaseDate
	}
	storageType := common.StorageType(req.StorageType)
	if storageType == "" {
		storageType = common.StorageRefrigerated
	}

	date := h.deps.Expiration.Predict(c.Request.Context(), req.FoodName, purchaseDate, storageType)
	c.JSON(http.StatusOK, PredictExpirationResponse{ExpirationDate: date})
}
