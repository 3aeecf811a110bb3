package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recetario/backend/internal/middleware"
	"github.com/pageza/recetario/backend/internal/observability"
	"github.com/pageza/recetario/backend/internal/policy"
	"github.com/pageza/recetario/backend/internal/query"
	"github.com/pageza/recetario/backend/internal/service"
	"github.com/pageza/recetario/backend/internal/types"
)

// RecipeHandler serves /recetas.
type RecipeHandler struct {
	recipes *service.RecipeService
	images  *service.ImageService
	metrics *observability.Metrics
	limiter *middleware.RateLimiter
}

func NewRecipeHandler(recipes *service.RecipeService, images *service.ImageService, metrics *observability.Metrics, limiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipes: recipes,
		images:  images,
		metrics: metrics,
		limiter: limiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recetas")
	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("", h.limiter.Middleware(middleware.ByUser), h.CreateRecipe)
		recipes.GET("/:id", h.GetRecipe)
		recipes.PUT("/:id", h.UpdateRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)
		recipes.PUT("/:id/imagen", h.UploadImage)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	params, err := query.ParseRecipeParams(c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := h.recipes.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	recipe, err := h.recipes.Create(c.Request.Context(), user.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.metrics.ObserveRecipeCreated()

	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// UpdateRecipe checks, in order: existence, authorization, the publication
// lock and finally the request body.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	recipe, err := h.recipes.Find(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := policy.Authorize(policy.CanUpdateRecipe(middleware.CurrentUser(c), recipe)); err != nil {
		respondError(c, err)
		return
	}
	if err := service.AssertModifiable(recipe); err != nil {
		respondError(c, err)
		return
	}

	var req types.UpdateRecipeRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.recipes.Update(ctx, recipe, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	recipe, err := h.recipes.Find(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := policy.Authorize(policy.CanDeleteRecipe(middleware.CurrentUser(c), recipe)); err != nil {
		respondError(c, err)
		return
	}

	if err := h.recipes.Delete(ctx, recipe); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Receta eliminada"})
}

// UploadImage replaces the recipe image with the multipart file "imagen".
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	recipe, err := h.recipes.Find(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := policy.Authorize(policy.CanUpdateRecipe(middleware.CurrentUser(c), recipe)); err != nil {
		respondError(c, err)
		return
	}
	if err := service.AssertModifiable(recipe); err != nil {
		respondError(c, err)
		return
	}
	if !h.images.Enabled() {
		respondError(c, service.ErrStorageDisabled)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxImageSize+1<<20)
	fileHeader, err := c.FormFile("imagen")
	if err != nil {
		respondError(c, &service.ImageError{Message: "The imagen field is required."})
		return
	}
	if fileHeader.Size > service.MaxImageSize {
		respondError(c, &service.ImageError{Message: "The imagen field must not be greater than 5120 kilobytes."})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, err)
		return
	}

	stored, err := h.images.Upload(ctx, recipe.ID, data)
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.recipes.SetImage(ctx, recipe, stored.URL)
	if err != nil {
		// The recipe may have been published since the check above.
		if rmErr := h.images.Remove(ctx, stored.Key); rmErr != nil {
			_ = c.Error(fmt.Errorf("removing orphaned image %s: %w", stored.Key, rmErr))
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
