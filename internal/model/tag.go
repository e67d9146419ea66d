package model

import "strings"

// Tag is a free-text label owned by exactly one link. The same name used on
// another link is a separate Tag.
type Tag struct {
	ID     string `json:"id"`
	LinkID string `json:"link_id"`
	Name   string `json:"name"`
}

// FoldTagName normalises a tag name for case-insensitive comparison.
func FoldTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
