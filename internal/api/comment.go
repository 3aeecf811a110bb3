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

// CommentHandler serves /recetas/:id/comentarios.
type CommentHandler struct {
	recipes  *service.RecipeService
	comments *service.CommentService
}

func NewCommentHandler(recipes *service.RecipeService, comments *service.CommentService) *CommentHandler {
	return &CommentHandler{recipes: recipes, comments: comments}
}

func (h *CommentHandler) RegisterRoutes(router *gin.RouterGroup) {
	comments := router.Group("/recetas/:id/comentarios")
	{
		comments.GET("", h.ListComments)
		comments.POST("", h.CreateComment)
		comments.GET("/:commentId", h.GetComment)
		comments.PUT("/:commentId", h.UpdateComment)
		comments.DELETE("/:commentId", h.DeleteComment)
	}
}

func (h *CommentHandler) parent(c *gin.Context) (*models.Recipe, bool) {
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

func (h *CommentHandler) child(c *gin.Context) (*models.Comment, bool) {
	recipe, ok := h.parent(c)
	if !ok {
		return nil, false
	}
	id, ok := pathID(c, "commentId")
	if !ok {
		return nil, false
	}
	comment, err := h.comments.Find(c.Request.Context(), recipe.ID, id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return comment, true
}

func (h *CommentHandler) ListComments(c *gin.Context) {
	recipe, ok := h.parent(c)
	if !ok {
		return
	}
	list, err := h.comments.List(c.Request.Context(), recipe.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": types.NewCommentResponses(list)})
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	recipe, ok := h.parent(c)
	if !ok {
		return
	}

	var req types.CommentRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), recipe.ID, middleware.CurrentUser(c).ID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.NewCommentResponse(comment))
}

func (h *CommentHandler) GetComment(c *gin.Context) {
	comment, ok := h.child(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, types.NewCommentResponse(comment))
}

func (h *CommentHandler) UpdateComment(c *gin.Context) {
	comment, ok := h.child(c)
	if !ok {
		return
	}
	if err := policy.Authorize(policy.CanModifyComment(middleware.CurrentUser(c), comment)); err != nil {
		respondError(c, err)
		return
	}

	var req types.CommentRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.comments.Update(c.Request.Context(), comment, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewCommentResponse(updated))
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	comment, ok := h.child(c)
	if !ok {
		return
	}
	if err := policy.Authorize(policy.CanModifyComment(middleware.CurrentUser(c), comment)); err != nil {
		respondError(c, err)
		return
	}
	if err := h.comments.Delete(c.Request.Context(), comment); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comentario eliminado correctamente"})
}
