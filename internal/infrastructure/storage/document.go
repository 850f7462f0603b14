package storage

import (
	"context"
	"errors"
	"fmt"

	"snap-pantry/internal/pkg/common"
)

// Document 鍵名
const (
	KeyPantryItems  = "pantryItems"
	KeySavedRecipes = "savedRecipes"
)

// GetJSON 讀取並解析整份文件，鍵不存在時回傳 false 且不修改 v
func GetJSON(ctx context.Context, s Store, key string, v interface{}) (bool, error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, common.Wrap(common.ErrStorage, err)
	}

	if err := common.ParseJSONBytes(raw, v); err != nil {
		return false, common.Wrap(common.ErrStorage, fmt.Errorf("failed to decode %q: %w", key, err))
	}
	return true, nil
}

// SetJSON 序列化後整份寫回
func SetJSON(ctx context.Context, s Store, key string, v interface{}) error {
	raw, err := common.ToJSON(v)
	if err != nil {
		return common.Wrap(common.ErrStorage, fmt.Errorf("failed to encode %q: %w", key, err))
	}

	if err := s.Set(ctx, key, raw); err != nil {
		return common.Wrap(common.ErrStorage, err)
	}
	return nil
}
