package remote

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
)

// FeedEndpoint builds the URL for one feed page. The cursor is the ID of
// the last item of the previous page; a nil afterID requests the first
// page. Pure function, no I/O.
// Parameters:
//   - baseURL: upstream base URL, without trailing slash.
//   - limit: page size.
//   - afterID: cursor, or nil for the first page.
// Returns:
//   - string: absolute feed page URL.
func FeedEndpoint(baseURL string, limit int, afterID *uuid.UUID) string {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	if afterID != nil {
		query.Set("after_id", afterID.String())
	}
	return fmt.Sprintf("%s/v1/feed?%s", baseURL, query.Encode())
}

// ImageCommentsEndpoint builds the URL for the comments of one image.
// Parameters:
//   - baseURL: upstream base URL, without trailing slash.
//   - imageID: image the comments belong to.
// Returns:
//   - string: absolute comments URL.
func ImageCommentsEndpoint(baseURL string, imageID uuid.UUID) string {
	return fmt.Sprintf("%s/v1/image/%s/comments", baseURL, imageID)
}
