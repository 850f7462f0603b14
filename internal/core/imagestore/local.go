package imagestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"snap-pantry/internal/pkg/common"

	"go.uber.org/zap"
)

// LocalStore 將照片寫入本機目錄
type LocalStore struct {
	dir string
}

// NewLocalStore 建立本機照片儲存
func NewLocalStore(dir string) (*LocalStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve image dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image dir: %w", err)
	}

	common.LogInfo("本機照片儲存已初始化", zap.String("dir", abs))
	return &LocalStore{dir: abs}, nil
}

// Save 以 uuid 命名寫入，回傳 file:// 參照
func (s *LocalStore) Save(ctx context.Context, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, common.GenerateUUID()+extension(contentType))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", common.Wrap(common.ErrStorage, fmt.Errorf("failed to write image: %w", err))
	}
	return "file://" + filepath.ToSlash(path), nil
}
