package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"snap-pantry/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var registerOnce sync.Once

// RegisterValidators 在 gin 的驗證引擎註冊自訂規則
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		if err := v.RegisterValidation("storage_type", func(fl validator.FieldLevel) bool {
			return common.StorageType(fl.Field().String()).Valid()
		}); err != nil {
			common.LogError("Failed to register storage_type validator", zap.Error(err))
		}
	})
}

// respondError 將錯誤轉成統一的 JSON 錯誤回應
func respondError(c *gin.Context, err error) {
	var ce *common.CustomError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		ce = common.Wrap(common.ErrGatewayTimeout, err)
	case errors.Is(err, context.Canceled):
		ce = common.Wrap(common.ErrRequestTimeout, err)
	default:
		ce = common.AsCustomError(err)
	}

	resp := common.ErrorResponse{
		Code:    ce.Code,
		Message: ce.Message,
	}
	if gin.Mode() != gin.ReleaseMode && ce.Err != nil {
		resp.Details = ce.Err.Error()
	}

	fields := []zap.Field{
		zap.String("code", ce.Code),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", requestid.Get(c)),
		zap.Error(err),
	}
	if ce.Status >= http.StatusInternalServerError {
		common.LogError("請求處理失敗", fields...)
	} else {
		common.LogWarn("請求處理失敗", fields...)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(ce.Status, resp)
}

// respondBindError 請求格式錯誤
func respondBindError(c *gin.Context, err error) {
	respondError(c, common.Wrap(common.ErrInvalidRequest, err))
}
