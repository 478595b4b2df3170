package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"minerva_app_go/config"
	"minerva_app_go/db"
	"minerva_app_go/handlers"
	"minerva_app_go/middleware"
	"minerva_app_go/models"
	"minerva_app_go/services"
	"minerva_app_go/services/i18n"
	"minerva_app_go/services/jobs"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	logger := newLogger(os.Getenv("ENVIRONMENT") == "production")
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// Load configuration
	cfg := config.Load()

	if err := i18n.Load(); err != nil {
		zap.L().Fatal("Failed to load translations", zap.Error(err))
	}

	// Initialize database
	if err := db.Initialize(cfg); err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(&models.Deadline{}, &models.GeneratedDocument{}, &models.LegalResource{}); err != nil {
		zap.L().Error("Failed to run migrations", zap.Error(err))
		return
	}
	if err := services.SeedLegalResources(db.DB); err != nil {
		zap.L().Error("Failed to seed legal resources", zap.Error(err))
	}

	services.InitializeStorage(cfg)
	services.InitializeAssistant(cfg)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})
	e.Use(middleware.Locale(cfg))

	// Local exports and calendar files
	uploadDir := filepath.Clean(cfg.UploadDir)
	e.Static("/"+uploadDir, uploadDir)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")
	api.Use(middleware.ContentSecurityPolicy(middleware.APIContentSecurityPolicy))
	api.Use(middleware.APIRateLimiter.Middleware())
	{
		api.GET("/overview", handlers.OverviewHandler)
		api.PUT("/locale", handlers.SetLocaleHandler)

		// Deadlines
		api.GET("/deadlines/rules", handlers.GetDeadlineRulesHandler)
		api.POST("/deadlines/calculate", handlers.CalculateDeadlineHandler)
		api.GET("/deadlines/export", handlers.ExportDeadlinesHandler)
		api.GET("/deadlines", handlers.ListDeadlinesHandler)
		api.POST("/deadlines", handlers.CreateDeadlineHandler)
		api.DELETE("/deadlines/:id", handlers.DeleteDeadlineHandler)
		api.POST("/deadlines/:id/calendar", handlers.AddDeadlineToCalendarHandler)
		api.GET("/deadlines/:id/calendar", handlers.DownloadDeadlineEventHandler)

		// Document templates and generated documents
		api.GET("/templates", handlers.GetTemplatesHandler)
		api.GET("/templates/:id", handlers.GetTemplateHandler)
		api.GET("/documents", handlers.ListDocumentsHandler)
		api.POST("/documents/generate", handlers.GenerateDocumentHandler, middleware.GenerationRateLimiter.Middleware())
		api.GET("/documents/:id", handlers.GetDocumentHandler)
		api.GET("/documents/:id/preview", handlers.PreviewDocumentHandler, middleware.PreviewCSP())
		api.GET("/documents/:id/download", handlers.DownloadDocumentHandler)
		api.POST("/documents/:id/export", handlers.ExportDocumentHandler, middleware.GenerationRateLimiter.Middleware())

		// Assistant and directory
		api.POST("/chat", handlers.ChatHandler, middleware.ChatRateLimiter.Middleware())
		api.GET("/resources", handlers.GetResourcesHandler)
	}

	// Start background jobs
	scheduler, err := jobs.StartScheduler(db.DB, cfg)
	if err != nil {
		zap.L().Error("Failed to start scheduler", zap.Error(err))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server
	go func() {
		zap.L().Info("Server starting", zap.String("port", cfg.ServerPort), zap.String("environment", cfg.Environment))
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Error("Server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zap.L().Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Server shutdown failed", zap.Error(err))
	}

	// Wait for a running reminder job to finish
	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		zap.L().Warn("Reminder job still running at shutdown")
	}
}

const shutdownTimeout = 10 * time.Second

func newLogger(production bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if production {
		logger, err = zap.NewProduction()
	} else {
		z := zap.NewDevelopmentConfig()
		z.OutputPaths = []string{"stdout"}
		logger, err = z.Build()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
