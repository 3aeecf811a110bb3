package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recetario/backend/internal/middleware"
	"github.com/pageza/recetario/backend/internal/observability"
	"github.com/pageza/recetario/backend/internal/service"
)

// LikeHandler serves the like toggle and counters of a recipe.
type LikeHandler struct {
	likes   *service.LikeService
	metrics *observability.Metrics
}

func NewLikeHandler(likes *service.LikeService, metrics *observability.Metrics) *LikeHandler {
	return &LikeHandler{likes: likes, metrics: metrics}
}

func (h *LikeHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/recetas/:id/like", h.ToggleLike)
	router.GET("/recetas/:id/likes", h.CountLikes)
	router.GET("/recetas/:id/like/status", h.LikeStatus)
}

func (h *LikeHandler) ToggleLike(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	status, err := h.likes.Toggle(c.Request.Context(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.metrics.ObserveLike(status.Liked)

	message := "Like eliminado"
	if status.Liked {
		message = "Like agregado"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     message,
		"liked":       status.Liked,
		"likes_count": status.LikesCount,
	})
}

func (h *LikeHandler) CountLikes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	status, err := h.likes.CountFor(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"receta_id":   status.RecipeID,
		"likes_count": status.LikesCount,
	})
}

func (h *LikeHandler) LikeStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	status, err := h.likes.Status(c.Request.Context(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
