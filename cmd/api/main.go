package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pageza/recetario/backend/config"
	"github.com/pageza/recetario/backend/internal/api"
	"github.com/pageza/recetario/backend/internal/database"
	"github.com/pageza/recetario/backend/internal/logging"
	"github.com/pageza/recetario/backend/internal/middleware"
	"github.com/pageza/recetario/backend/internal/observability"
	"github.com/pageza/recetario/backend/internal/server"
	"github.com/pageza/recetario/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.New("info", config.IsProduction()).WithError(err).Fatal("failed to load configuration")
	}
	log := logging.New(cfg.LogLevel, config.IsProduction())

	ctx := context.Background()

	db, err := database.Open(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.RunMigrations(ctx, db); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	redisClient, err := database.NewRedisClient(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to redis")
	}
	if redisClient == nil {
		log.Warn("redis not configured, rate limiting disabled")
	}

	// Image uploads answer 503 until a bucket is configured.
	var store service.ImageStore
	s3Config, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to configure S3")
	}
	if s3Config != nil {
		store = service.NewS3ImageStore(s3Config)
	}

	srv := server.New(cfg, api.Dependencies{
		DB:            db,
		Log:           log,
		Auth:          service.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL, log),
		Images:        service.NewImageService(store, log),
		Metrics:       observability.NewMetrics(),
		AuthLimiter:   middleware.NewAuthRateLimiter(redisClient),
		RecipeLimiter: middleware.NewRecipeCreationRateLimiter(redisClient),
	})

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.WithError(err).Fatal("server error")
		}
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("received signal")
	}

	log.Info("shutting down server")
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("server shutdown error")
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	log.Info("server stopped")
}
