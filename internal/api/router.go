package api

import (
	"github.com/gin-gonic/gin"
	"github.com/timmy/photofeed/internal/api/handler"
	"github.com/timmy/photofeed/internal/api/middleware"
	"github.com/timmy/photofeed/internal/logger"
	"github.com/timmy/photofeed/internal/pipeline"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	feedPipeline *pipeline.FeedPipeline,
	imagePipeline *pipeline.ImagePipeline,
	comments handler.CommentsFunc,
	log *logger.Logger,
	mode string,
	cors middleware.CORSConfig,
) *gin.Engine {
	// Set Gin mode
	switch mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(cors))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	feedHandler := handler.NewFeedHandler(feedPipeline)
	imageHandler := handler.NewImageHandler(imagePipeline)
	commentsHandler := handler.NewCommentsHandler(comments)

	// Health check
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Feed
		v1.GET("/feed", feedHandler.GetFeed)

		// Images
		v1.GET("/image", imageHandler.GetImage)
		v1.GET("/image/:id/comments", commentsHandler.GetComments)
	}

	return r
}
