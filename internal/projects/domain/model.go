package domain

import "time"

// ProjectRecord is the persisted unit tying a source image, an optional
// rendered image, and ownership/visibility together. After a successful
// save both image fields hold durable hosted URLs, never data URLs.
type ProjectRecord struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	SourceImage   string    `json:"sourceImage"`
	RenderedImage string    `json:"renderedImage,omitempty"`
	// RenderedPath is a client-local hint and is stripped before the
	// record is submitted to the store.
	RenderedPath string    `json:"renderedPath,omitempty"`
	OwnerID      string    `json:"ownerId,omitempty"`
	IsPublic     bool      `json:"isPublic"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
}

// Visibility values accepted by the save operation.
const (
	VisibilityPrivate = "private"
	VisibilityPublic  = "public"
)

// DefaultName derives the display label used when a record is created
// without one.
func DefaultName(id string) string {
	return "Residence " + id
}
