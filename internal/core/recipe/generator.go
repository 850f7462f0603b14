package recipe

import (
	"context"
	"fmt"
	"time"

	"snap-pantry/internal/core/ai/provider"
	"snap-pantry/internal/infrastructure/storage"
	"snap-pantry/internal/pkg/common"

	"go.uber.org/zap"
)

const (
	generateTemperature = 0.7
	generateMaxTokens   = 1500

	systemPrompt = "You are a culinary expert specialized in creating recipes from available ingredients. " +
		"Provide 3 different recipes using the ingredients list provided. " +
		"Each recipe should include a title, ingredients list with quantities, and step-by-step cooking instructions. " +
		"Focus on practical, easy-to-follow recipes."
)

// IngredientSource 提供目前食材庫的食材名稱
type IngredientSource interface {
	Ingredients(ctx context.Context) ([]string, error)
}

// Generator 食譜生成服務
type Generator struct {
	provider provider.Provider
	pantry   IngredientSource
	store    storage.Store
}

// NewGenerator 創建食譜生成服務
func NewGenerator(p provider.Provider, pantry IngredientSource, store storage.Store) *Generator {
	return &Generator{
		provider: p,
		pantry:   pantry,
		store:    store,
	}
}

// buildPrompt 生成使用者提示
func buildPrompt(ingredients []string) string {
	return fmt.Sprintf(`Here are the ingredients in my pantry: %s.
Please generate 3 different recipes I can make with some or all of these ingredients.
Format each recipe with:
1. A descriptive title
2. Required ingredients with quantities
3. Step-by-step cooking instructions
4. Approximate cooking time
5. Difficulty level (Easy, Medium, Hard)

Format your response in a structured way that can be easily parsed into separate recipes.
Use "RECIPE_START" before each recipe and "RECIPE_END" after each recipe.`,
		common.StringSliceToString(ingredients))
}

// Generate 依食材庫內容生成食譜並整份覆寫已儲存的食譜
func (g *Generator) Generate(ctx context.Context) ([]common.Recipe, error) {
	ingredients, err := g.pantry.Ingredients(ctx)
	if err != nil {
		return nil, err
	}
	if len(ingredients) == 0 {
		return nil, common.ErrEmptyPantry
	}

	start := time.Now()
	resp, err := g.provider.Generate(ctx, &provider.Request{
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: systemPrompt},
			{Role: provider.RoleUser, Content: buildPrompt(ingredients)},
		},
		Temperature: generateTemperature,
		MaxTokens:   generateMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	recipes := Parse(resp.Content)
	common.LogInfo("食譜生成完成",
		zap.Int("ingredients", len(ingredients)),
		zap.Int("recipes", len(recipes)),
		zap.Int("response_length", len(resp.Content)),
		zap.Duration("duration", time.Since(start)),
	)
	if len(recipes) == 0 {
		common.LogWarn("模型回應無法解析出任何食譜", zap.String("preview", preview(resp.Content, 200)))
	}

	if err := storage.SetJSON(ctx, g.store, storage.KeySavedRecipes, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// Saved 讀取上次生成的食譜
func (g *Generator) Saved(ctx context.Context) ([]common.Recipe, error) {
	recipes := make([]common.Recipe, 0)
	if _, err := storage.GetJSON(ctx, g.store, storage.KeySavedRecipes, &recipes); err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []common.Recipe{}
	}
	return recipes, nil
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
