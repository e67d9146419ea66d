package model

import (
	"net/url"
	"time"
)

// Platform identifies where a link's content lives (youtube, tiktok, ...).
// It is assigned once at ingestion and never empty.
type Platform string

// Link represents a saved piece of content with classification metadata.
type Link struct {
	ID           string     `json:"id"`
	URL          string     `json:"url"`
	Title        string     `json:"title"`
	Platform     Platform   `json:"platform"`
	Category     string     `json:"category,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastViewedAt *time.Time `json:"last_viewed_at,omitempty"`
	ThumbnailURL *string    `json:"thumbnail_url,omitempty"`
}

// Validate checks if the link has a valid absolute URL.
func (l *Link) Validate() error {
	if l.URL == "" {
		return ErrInvalidURL
	}
	u, err := url.Parse(l.URL)
	if err != nil {
		return ErrInvalidURL
	}
	if u.Scheme == "" || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}

// Viewed reports whether the link has been opened at least once.
func (l *Link) Viewed() bool {
	return l.LastViewedAt != nil
}

// DisplayTitle falls back to the URL when no title is set.
func (l *Link) DisplayTitle() string {
	if l.Title == "" {
		return l.URL
	}
	return l.Title
}

// Clone returns a copy that shares no pointers with l.
func (l *Link) Clone() Link {
	c := *l
	if l.LastViewedAt != nil {
		t := *l.LastViewedAt
		c.LastViewedAt = &t
	}
	if l.ThumbnailURL != nil {
		u := *l.ThumbnailURL
		c.ThumbnailURL = &u
	}
	return c
}
