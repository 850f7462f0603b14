package handlers

import (
	"net/http"
	"time"

	"snap-pantry/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AnalyzeRequest 拍照辨識請求
// image: data URI、base64 或 URL
type AnalyzeRequest struct {
	Image string `json:"image" binding:"required"`
}

// AnalyzeResponse 拍照辨識回應
type AnalyzeResponse struct {
	ImageURI  string            `json:"image_uri,omitempty"`
	FoodItems []common.FoodItem `json:"food_items"`
}

// AnalyzeCapture 處理 POST /capture/analyze
func (h *Handler) AnalyzeCapture(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	start := time.Now()

	img, err := h.deps.Images.Process(ctx, req.Image)
	if err != nil {
		respondError(c, err)
		return
	}

	annotations, err := h.deps.Vision.Annotate(ctx, img.Base64)
	if err != nil {
		respondError(c, err)
		return
	}

	items, err := h.deps.Extractor.Extract(annotations)
	if err != nil {
		respondError(c, err)
		return
	}

	// 只保存辨識出食物的照片，保存失敗不影響辨識結果
	var imageURI string
	if len(items) > 0 {
		imageURI, err = h.deps.ImageStore.Save(ctx, img.Data, img.ContentType)
		if err != nil {
			common.LogWarn("照片保存失敗",
				zap.String("request_id", requestid.Get(c)),
				zap.Error(err),
			)
			imageURI = ""
		}
	}

	common.LogInfo("拍照辨識完成",
		zap.String("request_id", requestid.Get(c)),
		zap.String("source_format", img.SourceFormat),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
		zap.Int("food_items", len(items)),
		zap.Duration("duration", time.Since(start)),
	)

	c.JSON(http.StatusOK, AnalyzeResponse{
		ImageURI:  imageURI,
		FoodItems: items,
	})
}
