package storage

import (
	"context"
	"errors"
	"fmt"

	"snap-pantry/internal/infrastructure/config"
)

// ErrNotFound 鍵不存在
var ErrNotFound = errors.New("storage: key not found")

// Store 整份文件讀寫的鍵值儲存
type Store interface {
	// Get 讀取整份文件，不存在時回傳 ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 以整份文件覆寫
	Set(ctx context.Context, key string, value []byte) error

	// Ping 檢查儲存是否可用
	Ping(ctx context.Context) error

	// Close 關閉連接
	Close() error
}

// New 依設定建立儲存驅動
func New(cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "file":
		return NewFileStore(cfg.Dir)
	case "redis":
		return NewRedisStore(cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
