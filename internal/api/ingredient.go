package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recetario/backend/internal/middleware"
	"github.com/pageza/recetario/backend/internal/models"
	"github.com/pageza/recetario/backend/internal/policy"
	"github.com/pageza/recetario/backend/internal/service"
	"github.com/pageza/recetario/backend/internal/types"
)

// IngredientHandler serves /recetas/:id/ingredientes.
type IngredientHandler struct {
	recipes     *service.RecipeService
	ingredients *service.IngredientService
}

func NewIngredientHandler(recipes *service.RecipeService, ingredients *service.IngredientService) *IngredientHandler {
	return &IngredientHandler{recipes: recipes, ingredients: ingredients}
}

func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup) {
	ingredients := router.Group("/recetas/:id/ingredientes")
	{
		ingredients.GET("", h.ListIngredients)
		ingredients.POST("", h.CreateIngredient)
		ingredients.GET("/:ingredientId", h.GetIngredient)
		ingredients.PUT("/:ingredientId", h.UpdateIngredient)
		ingredients.DELETE("/:ingredientId", h.DeleteIngredient)
	}
}

// parent resolves the recipe in the path.
func (h *IngredientHandler) parent(c *gin.Context) (*models.Recipe, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return nil, false
	}
	recipe, err := h.recipes.Find(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return recipe, true
}

// child resolves the ingredient in the path, scoped to its recipe.
func (h *IngredientHandler) child(c *gin.Context) (*models.Recipe, *models.Ingredient, bool) {
	recipe, ok := h.parent(c)
	if !ok {
		return nil, nil, false
	}
	id, ok := pathID(c, "ingredientId")
	if !ok {
		return nil, nil, false
	}
	ing, err := h.ingredients.Find(c.Request.Context(), recipe.ID, id)
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}
	return recipe, ing, true
}

func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	recipe, ok := h.parent(c)
	if !ok {
		return
	}
	list, err := h.ingredients.List(c.Request.Context(), recipe.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *IngredientHandler) CreateIngredient(c *gin.Context) {
	recipe, ok := h.parent(c)
	if !ok {
		return
	}
	if err := policy.Authorize(policy.CanCreateIngredient(middleware.CurrentUser(c), recipe)); err != nil {
		respondError(c, err)
		return
	}

	var req types.CreateIngredientRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	ing, err := h.ingredients.Create(c.Request.Context(), recipe.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ing)
}

func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	_, ing, ok := h.child(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ing)
}

func (h *IngredientHandler) UpdateIngredient(c *gin.Context) {
	recipe, ing, ok := h.child(c)
	if !ok {
		return
	}
	if err := policy.Authorize(policy.CanModifyIngredient(middleware.CurrentUser(c), recipe)); err != nil {
		respondError(c, err)
		return
	}

	var req types.UpdateIngredientRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.ingredients.Update(c.Request.Context(), ing, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *IngredientHandler) DeleteIngredient(c *gin.Context) {
	recipe, ing, ok := h.child(c)
	if !ok {
		return
	}
	if err := policy.Authorize(policy.CanModifyIngredient(middleware.CurrentUser(c), recipe)); err != nil {
		respondError(c, err)
		return
	}
	if err := h.ingredients.Delete(c.Request.Context(), ing); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ingrediente eliminado correctamente"})
}
