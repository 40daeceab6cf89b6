package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/timmy/photofeed/internal/domain"
)

// CommentsFunc fetches the comments for a feed image. Comments are
// always served live and never cached.
type CommentsFunc func(ctx context.Context, imageID uuid.UUID) ([]domain.ImageComment, error)

// CommentsHandler handles image comment endpoints.
type CommentsHandler struct {
	load CommentsFunc
}

// NewCommentsHandler creates a new comments handler.
// Parameters:
//   - load: live comments loader.
// Returns:
//   - *CommentsHandler: initialized handler.
func NewCommentsHandler(load CommentsFunc) *CommentsHandler {
	return &CommentsHandler{load: load}
}

type commentResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	Username  string    `json:"username"`
}

// GetComments handles GET /api/v1/image/:id/comments.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *CommentsHandler) GetComments(c *gin.Context) {
	imageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "image ID must be a valid UUID",
		})
		return
	}

	comments, err := h.load(c.Request.Context(), imageID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to load comments: " + err.Error(),
		})
		return
	}

	items := make([]commentResponse, 0, len(comments))
	for _, comment := range comments {
		items = append(items, commentResponse{
			ID:        comment.ID.String(),
			Message:   comment.Message,
			CreatedAt: comment.CreatedAt,
			Username:  comment.Username,
		})
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
