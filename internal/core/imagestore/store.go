package imagestore

import (
	"context"
	"fmt"

	"snap-pantry/internal/infrastructure/config"
)

// Store 保存拍攝的照片並回傳可存入 imageUri 的參照
type Store interface {
	Save(ctx context.Context, data []byte, contentType string) (string, error)
}

// New 依設定建立照片儲存
func New(ctx context.Context, cfg config.ImageStoreConfig) (Store, error) {
	switch cfg.Driver {
	case "local":
		return NewLocalStore(cfg.Dir)
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown image store driver %q", cfg.Driver)
	}
}

func extension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
