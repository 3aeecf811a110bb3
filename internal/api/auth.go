package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recetario/backend/internal/middleware"
	"github.com/pageza/recetario/backend/internal/observability"
	"github.com/pageza/recetario/backend/internal/service"
	"github.com/pageza/recetario/backend/internal/types"
)

// AuthHandler serves registration, login and token management.
type AuthHandler struct {
	authService service.IAuthService
	metrics     *observability.Metrics
	limiter     *middleware.RateLimiter
}

func NewAuthHandler(authService service.IAuthService, metrics *observability.Metrics, limiter *middleware.RateLimiter) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		metrics:     metrics,
		limiter:     limiter,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.limiter.Middleware(middleware.ByClientIP), h.Register)
		auth.POST("/login", h.limiter.Middleware(middleware.ByClientIP), h.Login)
		auth.POST("/logout", requireAuth, h.Logout)
		auth.GET("/me", requireAuth, h.Me)
		auth.POST("/refresh", requireAuth, h.Refresh)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.metrics.ObserveRegistration()

	c.JSON(http.StatusCreated, types.AuthResponse{
		User:  types.NewUserResponse(user),
		Token: token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.AuthResponse{
		User:  types.NewUserResponse(user),
		Token: token,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Revoke(c.Request.Context(), middleware.CurrentClaims(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sesión cerrada con éxito"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, types.NewUserResponse(middleware.CurrentUser(c)))
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	token, err := h.authService.Refresh(c.Request.Context(), middleware.CurrentClaims(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
