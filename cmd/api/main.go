package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/timmy/photofeed/internal/api"
	"github.com/timmy/photofeed/internal/api/middleware"
	"github.com/timmy/photofeed/internal/config"
	"github.com/timmy/photofeed/internal/domain"
	"github.com/timmy/photofeed/internal/feed"
	"github.com/timmy/photofeed/internal/logger"
	"github.com/timmy/photofeed/internal/pipeline"
	"github.com/timmy/photofeed/internal/remote"
	"github.com/timmy/photofeed/internal/repository"
	"github.com/timmy/photofeed/internal/storage"
)

func main() {
	// Initialize logger from environment first
	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	// Initialize database
	db, err := repository.InitDB(&repository.DatabaseConfig{
		Driver:          cfg.Database.Driver,
		Path:            cfg.Database.Path,
		DSN:             cfg.Database.DSN,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		AutoMigrate:     cfg.Database.AutoMigrate,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	ctx := context.Background()
	store := repository.NewGormStore(db)

	// Image blobs live either alongside the feed in the database or in
	// S3-compatible object storage (R2, S3, MinIO)
	var imageStore feed.ImageDataStore = store
	if cfg.Storage.Driver == "s3" {
		objectStorage, err := storage.NewStorage(&storage.S3Config{
			Type:      storage.StorageType(cfg.Storage.Type),
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize storage")
		}
		if err := objectStorage.EnsureBucket(ctx); err != nil {
			appLogger.WithError(err).Fatal("Failed to ensure storage bucket")
		}
		imageStore = storage.NewObjectImageDataStore(objectStorage, cfg.Storage.Prefix)
	}

	// Local loaders over the stores
	localFeed := feed.NewLocalFeedLoader(store, time.Now)
	defer localFeed.Close()
	localImages := feed.NewLocalImageDataLoader(imageStore)
	defer localImages.Close()

	// Remote loaders against the upstream API
	httpClient := remote.NewRestyClient(cfg.Upstream.Timeout)
	feedLoader := remote.NewLoader(httpClient, remote.FeedItemsMapper)
	commentsLoader := remote.NewLoader(httpClient, remote.ImageCommentsMapper)
	imageLoader := remote.NewImageDataLoader(httpClient)

	remotePage := func(ctx context.Context, afterID *uuid.UUID) ([]domain.FeedImage, error) {
		return feedLoader.Load(ctx, remote.FeedEndpoint(cfg.Upstream.BaseURL, cfg.Upstream.PageLimit, afterID))
	}
	comments := func(ctx context.Context, imageID uuid.UUID) ([]domain.ImageComment, error) {
		return commentsLoader.Load(ctx, remote.ImageCommentsEndpoint(cfg.Upstream.BaseURL, imageID))
	}

	// Compose pipelines
	feedPipeline := pipeline.NewFeedPipeline(remotePage, localFeed, cfg.Upstream.PageLimit)
	imagePipeline := pipeline.NewImagePipeline(imageLoader.LoadData, localImages)
	validator := pipeline.NewCacheValidator(localFeed.ValidateCache)

	// Setup router
	router := api.SetupRouter(feedPipeline, imagePipeline, comments, appLogger, cfg.Server.Mode, middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// SIGHUP triggers a cache validation pass; SIGINT/SIGTERM shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	for {
		sig := <-quit
		if sig == syscall.SIGHUP {
			appLogger.Info("Received SIGHUP, validating cache")
			validator.Trigger(ctx)
			continue
		}
		break
	}

	appLogger.Info("Shutting down server...")

	// Validate the cache once on the way out so a stale snapshot does not
	// outlive the process
	validator.Run(ctx)

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
