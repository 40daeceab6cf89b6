package remote

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/timmy/photofeed/internal/domain"
)

// remoteFeedItem mirrors the upstream feed wire format. The wire schema
// stays private so callers only ever see domain.FeedImage.
type remoteFeedItem struct {
	ID          uuid.UUID `json:"id"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	Image       string    `json:"image"`
}

type feedRoot struct {
	Items []remoteFeedItem `json:"items"`
}

// FeedItemsMapper decodes a feed page response into domain feed images.
// Only status 200 is accepted.
// Parameters:
//   - body: response payload.
//   - statusCode: HTTP status code.
// Returns:
//   - []domain.FeedImage: decoded images in wire order.
//   - error: non-nil on a non-200 status or a decode failure.
func FeedItemsMapper(body []byte, statusCode int) ([]domain.FeedImage, error) {
	if statusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", statusCode)
	}

	var root feedRoot
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, fmt.Errorf("decoding feed payload: %w", err)
	}

	images := make([]domain.FeedImage, 0, len(root.Items))
	for _, item := range root.Items {
		images = append(images, domain.FeedImage{
			ID:          item.ID,
			Description: item.Description,
			Location:    item.Location,
			URL:         item.Image,
		})
	}
	return images, nil
}
