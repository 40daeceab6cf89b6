package domain

import (
	"time"

	"github.com/google/uuid"
)

// ImageComment represents a comment attached to a feed image.
// Comments are always fetched live and never cached locally.
type ImageComment struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	Username  string    `json:"username"`
}
