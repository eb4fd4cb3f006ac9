package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "travelblog/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"travelblog/internal/auth"
	"travelblog/internal/config"
	"travelblog/internal/db"
	"travelblog/internal/handler"
	"travelblog/internal/logging"
	"travelblog/internal/repository"
	"travelblog/internal/router"
	"travelblog/internal/search"
	"travelblog/internal/service"
	"travelblog/internal/storage"
)

// @title Travel Blog API
// @version 1.0
// @description Travel blog posts with admin-only editing, image uploads and session cookies.
// @host localhost:8080
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	ctx := context.Background()

	gormDB, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("database init", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(gormDB); err != nil {
			logger.Error("database close", "error", err)
		}
	}()

	if cfg.ResetDB {
		logger.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			logger.Error("database reset", "error", err)
			os.Exit(1)
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Error("auto-migrate", "error", err)
		os.Exit(1)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Error("database handle", "error", err)
		os.Exit(1)
	}

	var store storage.ObjectStore
	if cfg.StorageEnabled() {
		cld, err := storage.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			logger.Error("cloudinary init", "error", err)
			os.Exit(1)
		}
		store = cld
	}

	var index search.Index
	if cfg.SearchEnabled() {
		es, err := search.NewElastic(search.Options{
			URL:      cfg.ElasticsearchURL,
			Username: cfg.ElasticsearchUsername,
			Password: cfg.ElasticsearchPassword,
			Index:    cfg.ElasticsearchIndex,
		})
		if err != nil {
			logger.Error("elasticsearch init", "error", err)
			os.Exit(1)
		}
		if err := es.Ping(ctx); err != nil {
			// The database search keeps working without the index.
			logger.Warn("elasticsearch unreachable, using database search", "error", err)
		} else if err := es.EnsureIndex(ctx); err != nil {
			logger.Warn("elasticsearch index setup failed, using database search", "error", err)
		} else {
			index = es
		}
	}

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)

	// Services
	sessions := auth.NewSessionService(cfg.SessionSecret, cfg.SessionTTL)
	authService := service.NewAuthService(userRepo)
	imageService := service.NewImageService(store, cfg.CloudinaryFolder)
	postService := service.NewPostService(postRepo, imageService, index)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 15 * time.Second
	e.Server.WriteTimeout = 30 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	router.Register(e, router.Options{
		Development: cfg.IsDevelopment(),
		Logger:      logger,
	}, sessions, router.Handlers{
		Auth:      handler.NewAuthHandler(authService, sessions, cfg.SecureCookies()),
		Posts:     handler.NewPostHandler(postService),
		Upload:    handler.NewUploadHandler(imageService),
		Dashboard: handler.NewDashboardHandler(postService),
		Health:    handler.NewHealthHandler(sqlDB, cfg.AppEnv, cfg.RequiredVarStatus),
	})

	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("server starting", "addr", addr, "swagger", cfg.PublicURL+"/swagger/index.html")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("server stopped")
}
