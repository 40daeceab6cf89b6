package remote

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/timmy/photofeed/internal/domain"
)

type remoteComment struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	Username  string    `json:"username"`
}

type commentsRoot struct {
	Items []remoteComment `json:"items"`
}

// ImageCommentsMapper decodes an image comments response. The comments
// endpoint signals success with any 2xx status, unlike the feed endpoint.
// Parameters:
//   - body: response payload.
//   - statusCode: HTTP status code.
// Returns:
//   - []domain.ImageComment: decoded comments in wire order.
//   - error: non-nil on a non-2xx status or a decode failure.
func ImageCommentsMapper(body []byte, statusCode int) ([]domain.ImageComment, error) {
	if statusCode < 200 || statusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", statusCode)
	}

	var root commentsRoot
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, fmt.Errorf("decoding comments payload: %w", err)
	}

	comments := make([]domain.ImageComment, 0, len(root.Items))
	for _, item := range root.Items {
		comments = append(comments, domain.ImageComment{
			ID:        item.ID,
			Message:   item.Message,
			CreatedAt: item.CreatedAt,
			Username:  item.Username,
		})
	}
	return comments, nil
}
