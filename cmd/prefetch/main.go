package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
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
	// Initialize logger first (with defaults)
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "photofeed-prefetch",
	})
	logger.SetDefaultLogger(appLogger)

	// Parse command line flags
	maxPages := flag.Int("pages", 0, "Maximum number of feed pages to walk (0 = until the end)")
	withImages := flag.Bool("images", true, "Also prefetch image blobs into the cache")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}
	if *maxPages == 0 {
		*maxPages = cfg.Prefetch.MaxPages
	}

	appLogger.WithFields(logger.Fields{
		"pages":  *maxPages,
		"images": *withImages,
	}).Info("Starting prefetch")

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := repository.NewGormStore(db)

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

	localFeed := feed.NewLocalFeedLoader(store, time.Now)
	defer localFeed.Close()
	localImages := feed.NewLocalImageDataLoader(imageStore)
	defer localImages.Close()

	httpClient := remote.NewRestyClient(cfg.Upstream.Timeout)
	feedLoader := remote.NewLoader(httpClient, remote.FeedItemsMapper)
	imageLoader := remote.NewImageDataLoader(httpClient)

	remotePage := func(ctx context.Context, afterID *uuid.UUID) ([]domain.FeedImage, error) {
		return feedLoader.Load(ctx, remote.FeedEndpoint(cfg.Upstream.BaseURL, cfg.Upstream.PageLimit, afterID))
	}
	feedPipeline := pipeline.NewFeedPipeline(remotePage, localFeed, cfg.Upstream.PageLimit)
	imagePipeline := pipeline.NewImagePipeline(imageLoader.LoadData, localImages)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Received shutdown signal, canceling...")
		cancel()
	}()

	// Walk the feed page by page; every page the pipeline loads is
	// written into the cache as a side effect
	page, err := feedPipeline.Load(ctx)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load first page")
	}
	pages := 1
	for page.HasMore() && (*maxPages <= 0 || pages < *maxPages) {
		if ctx.Err() != nil {
			break
		}
		page, err = page.LoadMore(ctx)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to load page")
		}
		pages++
	}

	// Warm the blob cache for every cached feed item
	var fetched, failed int
	if *withImages && cfg.Prefetch.ImageBlobs {
		for _, img := range page.Items {
			if ctx.Err() != nil {
				break
			}
			if _, err := imagePipeline.LoadData(ctx, img.URL); err != nil {
				failed++
				appLogger.WithError(err).WithField("url", img.URL).Warn("Failed to prefetch image")
				continue
			}
			fetched++
		}
	}

	appLogger.WithFields(logger.Fields{
		"pages":         pages,
		"items":         len(page.Items),
		"images":        fetched,
		"images_failed": failed,
	}).Info("Prefetch completed")
}
