package model

// DefaultTabIcon is used when a tab is created without an icon.
const DefaultTabIcon = "folder"

// CustomTab is a user-defined collection of links. LinkIDs keeps insertion
// order and never holds the same id twice.
type CustomTab struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Icon        string   `json:"icon"`
	Description string   `json:"description,omitempty"`
	LinkIDs     []string `json:"link_ids"`
}
