package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/timmy/photofeed/internal/domain"
	"github.com/timmy/photofeed/internal/pipeline"
)

// FeedHandler handles feed endpoints.
type FeedHandler struct {
	feed *pipeline.FeedPipeline
}

// NewFeedHandler creates a new feed handler.
// Parameters:
//   - feed: composed feed pipeline.
// Returns:
//   - *FeedHandler: initialized handler.
func NewFeedHandler(feed *pipeline.FeedPipeline) *FeedHandler {
	return &FeedHandler{feed: feed}
}

type feedItemResponse struct {
	ID          string  `json:"id"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	Image       string  `json:"image"`
}

type feedResponse struct {
	Items       []feedItemResponse `json:"items"`
	HasMore     bool               `json:"has_more"`
	NextAfterID *string            `json:"next_after_id,omitempty"`
}

// GetFeed handles GET /api/v1/feed.
//
// Without after_id the first page is served, falling back to the cached
// feed when the upstream is unreachable. With after_id the next page is
// fetched and merged into the cached feed.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *FeedHandler) GetFeed(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		page domain.Paginated[domain.FeedImage]
		err  error
	)
	if after := c.Query("after_id"); after != "" {
		afterID, parseErr := uuid.Parse(after)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "after_id must be a valid UUID",
			})
			return
		}
		page, err = h.feed.LoadAfter(ctx, afterID)
	} else {
		page, err = h.feed.Load(ctx)
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to load feed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, toFeedResponse(page))
}

func toFeedResponse(page domain.Paginated[domain.FeedImage]) feedResponse {
	items := make([]feedItemResponse, 0, len(page.Items))
	for _, img := range page.Items {
		items = append(items, feedItemResponse{
			ID:          img.ID.String(),
			Description: img.Description,
			Location:    img.Location,
			Image:       img.URL,
		})
	}

	resp := feedResponse{Items: items, HasMore: page.HasMore()}
	if page.HasMore() && len(page.Items) > 0 {
		next := page.Items[len(page.Items)-1].ID.String()
		resp.NextAfterID = &next
	}
	return resp
}
