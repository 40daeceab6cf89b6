package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/photofeed/internal/pipeline"
)

// ImageHandler handles image data endpoints.
type ImageHandler struct {
	images *pipeline.ImagePipeline
}

// NewImageHandler creates a new image handler.
// Parameters:
//   - images: composed image data pipeline.
// Returns:
//   - *ImageHandler: initialized handler.
func NewImageHandler(images *pipeline.ImagePipeline) *ImageHandler {
	return &ImageHandler{images: images}
}

// GetImage handles GET /api/v1/image.
//
// Serves the image bytes for the given source URL, from the blob cache
// when present and from the network otherwise.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes image bytes).
func (h *ImageHandler) GetImage(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "url query parameter is required",
		})
		return
	}

	data, err := h.images.LoadData(c.Request.Context(), url)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to load image: " + err.Error(),
		})
		return
	}

	c.Data(http.StatusOK, http.DetectContentType(data), data)
}
