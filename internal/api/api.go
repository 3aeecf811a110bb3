package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pageza/recetario/backend/internal/middleware"
	"github.com/pageza/recetario/backend/internal/observability"
	"github.com/pageza/recetario/backend/internal/service"
)

// Dependencies are the collaborators the HTTP layer is built from. Metrics,
// the rate limiters and the image store are optional.
type Dependencies struct {
	DB            *gorm.DB
	Log           *logrus.Logger
	Auth          *service.AuthService
	Images        *service.ImageService
	Metrics       *observability.Metrics
	AuthLimiter   *middleware.RateLimiter
	RecipeLimiter *middleware.RateLimiter
}

// RegisterRoutes registers all API routes on router.
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/ping", Ping)
	router.GET("/health", HealthCheck(deps.DB))
	if deps.Metrics != nil {
		router.GET("/metrics", deps.Metrics.Handler())
	}

	recipes := service.NewRecipeService(deps.DB, deps.Log)
	requireAuth := middleware.AuthMiddleware(deps.Auth)

	root := router.Group("")
	NewAuthHandler(deps.Auth, deps.Metrics, deps.AuthLimiter).RegisterRoutes(root, requireAuth)

	protected := router.Group("", requireAuth)
	NewRecipeHandler(recipes, deps.Images, deps.Metrics, deps.RecipeLimiter).RegisterRoutes(protected)
	NewIngredientHandler(recipes, service.NewIngredientService(deps.DB)).RegisterRoutes(protected)
	NewCommentHandler(recipes, service.NewCommentService(deps.DB)).RegisterRoutes(protected)
	NewLikeHandler(service.NewLikeService(deps.DB), deps.Metrics).RegisterRoutes(protected)
}
