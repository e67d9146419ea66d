package view

import (
	"strings"

	"github.com/bunchhieng/shelf/internal/model"
)

// Membership is the part of the store the filter stages read.
type Membership interface {
	HasTab(tabID string) bool
	KnownPlatform(p model.Platform) bool
	LinksForTab(tabID string) []model.Link
	TagNames(linkID string) []string
}

// Filter narrows links by scope, then tag, then search text. All stages
// are conjunctive; a tab scope replaces the input with the tab's members.
// The input slice is not modified.
func Filter(links []model.Link, c Criteria, m Membership) []model.Link {
	c = c.resolve(m)

	var out []model.Link
	switch c.Scope.Kind {
	case ScopeTab:
		out = m.LinksForTab(c.Scope.Value)
	case ScopePlatform:
		p := model.Platform(c.Scope.Value)
		out = keep(links, func(l model.Link) bool { return l.Platform == p })
	default:
		out = append([]model.Link(nil), links...)
	}

	if c.Tag != "" {
		folded := model.FoldTagName(c.Tag)
		out = keep(out, func(l model.Link) bool {
			for _, name := range m.TagNames(l.ID) {
				if model.FoldTagName(name) == folded {
					return true
				}
			}
			return false
		})
	}

	if c.Search != "" {
		q := strings.ToLower(c.Search)
		out = keep(out, func(l model.Link) bool { return matches(l, q, m) })
	}

	return out
}

// matches reports whether q is a substring of the title, url, category or
// one of the tag names. The thumbnail is never searched.
func matches(l model.Link, q string, m Membership) bool {
	if strings.Contains(strings.ToLower(l.Title), q) ||
		strings.Contains(strings.ToLower(l.URL), q) ||
		strings.Contains(strings.ToLower(l.Category), q) {
		return true
	}
	for _, name := range m.TagNames(l.ID) {
		if strings.Contains(strings.ToLower(name), q) {
			return true
		}
	}
	return false
}

func keep(links []model.Link, pred func(model.Link) bool) []model.Link {
	out := make([]model.Link, 0, len(links))
	for _, l := range links {
		if pred(l) {
			out = append(out, l)
		}
	}
	return out
}
