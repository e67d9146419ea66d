package platform

import (
	"net/url"
	"strings"

	"github.com/bunchhieng/shelf/internal/model"
)

// Categories assigned at ingestion when the user gives none.
const (
	CategoryVideo   = "video"
	CategorySocial  = "social"
	CategoryArticle = "article"
)

// DefaultCategory returns the category a link on p starts with.
func DefaultCategory(p model.Platform) string {
	switch p {
	case YouTube, TikTok, Vimeo, Twitch:
		return CategoryVideo
	case Instagram, Twitter, Facebook, Reddit, LinkedIn, Pinterest, Threads:
		return CategorySocial
	default:
		return CategoryArticle
	}
}

// PlaceholderThumbnail returns a generated image URL labelled with the
// platform name, used when no thumbnail could be resolved.
func PlaceholderThumbnail(p model.Platform) string {
	return "https://placehold.co/600x400?text=" + url.QueryEscape(DisplayName(p))
}

var displayNames = map[model.Platform]string{
	YouTube:  "YouTube",
	TikTok:   "TikTok",
	LinkedIn: "LinkedIn",
	Twitter:  "X",
	Webpage:  "Web",
}

// DisplayName is the human label for p.
func DisplayName(p model.Platform) string {
	if n, ok := displayNames[p]; ok {
		return n
	}
	s := string(p)
	if s == "" {
		return "Web"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
