package models

import "time"

const (
	// MaxTitleLen is the maximum accepted title length, enforced at creation.
	MaxTitleLen = 27
	// MaxBodyLen documents the body column width. It is intentionally not
	// enforced at the handler boundary; see DESIGN.md.
	MaxBodyLen = 300
)

// Post is a single blog entry.
//
// Thumbnail stores a sanitized filename relative to the upload directory,
// or "" when the post has no thumbnail. CreatedAt is assigned by the
// repository at insertion time in a fixed timezone.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:27;not null" json:"title"`
	Body      string    `gorm:"size:300;not null" json:"body"`
	Thumbnail string    `gorm:"size:255" json:"thumbnail,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// HasThumbnail reports whether the post references an uploaded image.
// Value receiver so templates can call it on ranged post values.
func (p Post) HasThumbnail() bool {
	return p.Thumbnail != ""
}
