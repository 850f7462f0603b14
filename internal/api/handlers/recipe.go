package handlers

import (
	"net/http"

	"snap-pantry/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// RecipesResponse 食譜列表
type RecipesResponse struct {
	Recipes []common.Recipe `json:"recipes"`
}

// GenerateRecipes 處理 POST /recipes/generate
func (h *Handler) GenerateRecipes(c *gin.Context) {
	recipes, err := h.deps.Recipes.Generate(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RecipesResponse{Recipes: recipes})
}

// ListRecipes 處理 GET /recipes
func (h *Handler) ListRecipes(c *gin.Context) {
	recipes, err := h.deps.Recipes.Saved(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RecipesResponse{Recipes: recipes})
}
