package domain

import (
	"github.com/google/uuid"
)

// FeedImage represents a single image entry in the photo feed.
// Description and Location are optional in the wire format, so they are
// pointers here; URL points at the image resource itself.
type FeedImage struct {
	ID          uuid.UUID `json:"id"`
	Description *string   `json:"description,omitempty"`
	Location    *string   `json:"location,omitempty"`
	URL         string    `json:"url"`
}

// Equal reports whether two feed images are field-for-field identical.
// Parameters:
//   - other: feed image to compare against.
// Returns:
//   - bool: true when every field matches.
func (f FeedImage) Equal(other FeedImage) bool {
	if f.ID != other.ID || f.URL != other.URL {
		return false
	}
	if !equalStringPtr(f.Description, other.Description) {
		return false
	}
	return equalStringPtr(f.Location, other.Location)
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
