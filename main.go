package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/azertyfreak/makelaar-contract-generator/config"
	"github.com/azertyfreak/makelaar-contract-generator/handler"
	"github.com/azertyfreak/makelaar-contract-generator/middleware"
	"github.com/azertyfreak/makelaar-contract-generator/parser"
	"github.com/azertyfreak/makelaar-contract-generator/pkg/logger"
	"github.com/azertyfreak/makelaar-contract-generator/service"
	"github.com/gin-gonic/gin"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	// Initialize services
	fileStore, err := service.NewFileStore(&cfg.Storage, &cfg.Minio)
	if err != nil {
		slog.Error("failed to initialize file store", "error", err)
		os.Exit(1)
	}

	if minioStore, ok := fileStore.(*service.MinioFileStore); ok {
		if err := minioStore.EnsureBucket(context.Background()); err != nil {
			slog.Error("failed to ensure MINIO bucket", "error", err)
			os.Exit(1)
		}
	}

	extractor, err := service.NewTextExtractor(&cfg.OCR)
	if err != nil {
		slog.Error("failed to initialize text extractor", "error", err)
		os.Exit(1)
	}

	store := service.NewContractStore(&cfg.Store, cfg.Validation.StrictRevalidate)
	registry := parser.NewRegistry()
	renderer := service.NewRenderer()

	// Initialize handlers
	contractHandler := handler.NewContractHandler(store, registry, extractor, fileStore, renderer, &cfg.Storage)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	router.Use(middleware.RequestID())                 // Request ID for tracing
	router.Use(middleware.Recovery())                  // Panic recovery
	router.Use(middleware.RequestLogger())             // Access logging
	router.Use(corsMiddleware())                       // CORS
	router.Use(cacheMiddleware())                      // Cache control
	router.Use(middleware.RateLimit(100, time.Minute)) // Rate limiting: 100 requests per minute

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   version,
		})
	})

	api := router.Group("/api")
	{
		api.POST("/contract/create", contractHandler.Create)
		api.POST("/contract/:id/upload", contractHandler.Upload)
		api.GET("/contract/:id/data", contractHandler.GetData)
		api.POST("/contract/:id/data", contractHandler.UpdateData)
		api.POST("/contract/:id/validate", contractHandler.Validate)
		api.POST("/contract/:id/generate", contractHandler.Generate)
		api.GET("/contract/:id/download", contractHandler.Download)
		api.GET("/contract/:id/summary", contractHandler.Summary)
		api.GET("/contracts", contractHandler.List)
		api.GET("/documents/types", contractHandler.DocumentTypes)
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// cacheMiddleware keeps contract state and generated documents out of
// intermediary caches
func cacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
		}

		c.Next()
	}
}

// corsMiddleware handles CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
