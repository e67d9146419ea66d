package view

import (
	"strings"

	"github.com/bunchhieng/shelf/internal/model"
)

// ScopeKind is the primary filter dimension.
type ScopeKind int

const (
	ScopeAll ScopeKind = iota
	ScopePlatform
	ScopeTab
)

// Scope selects all links, one platform, or one custom tab.
type Scope struct {
	Kind  ScopeKind
	Value string
}

// All is the default scope.
func All() Scope { return Scope{Kind: ScopeAll} }

// OnPlatform scopes to links classified as p.
func OnPlatform(p model.Platform) Scope { return Scope{Kind: ScopePlatform, Value: string(p)} }

// InTab scopes to the members of a custom tab.
func InTab(tabID string) Scope { return Scope{Kind: ScopeTab, Value: tabID} }

// ParseScope reads "all", "tab:<id>", "platform:<id>" or a bare platform id.
func ParseScope(s string) Scope {
	s = strings.TrimSpace(s)
	switch {
	case s == "" || strings.EqualFold(s, "all"):
		return All()
	case strings.HasPrefix(s, "tab:"):
		return InTab(strings.TrimPrefix(s, "tab:"))
	case strings.HasPrefix(s, "platform:"):
		return OnPlatform(model.Platform(strings.ToLower(strings.TrimPrefix(s, "platform:"))))
	default:
		return OnPlatform(model.Platform(strings.ToLower(s)))
	}
}

func (s Scope) String() string {
	switch s.Kind {
	case ScopePlatform:
		return "platform:" + s.Value
	case ScopeTab:
		return "tab:" + s.Value
	default:
		return "all"
	}
}

// Criteria is the set of independent filters applied together.
type Criteria struct {
	Scope  Scope
	Tag    string
	Search string
}

// Active reports whether any criterion narrows the collection. Call it on
// resolved criteria.
func (c Criteria) Active() bool {
	return c.Scope.Kind != ScopeAll || c.Tag != "" || c.Search != ""
}

// resolve trims text criteria and turns scopes that name nothing, such as
// a deleted tab or an unrecognised platform, into All.
func (c Criteria) resolve(m Membership) Criteria {
	c.Tag = strings.TrimSpace(c.Tag)
	c.Search = strings.TrimSpace(c.Search)
	switch c.Scope.Kind {
	case ScopePlatform:
		if !m.KnownPlatform(model.Platform(c.Scope.Value)) {
			c.Scope = All()
		}
	case ScopeTab:
		if !m.HasTab(c.Scope.Value) {
			c.Scope = All()
		}
	default:
		c.Scope = All()
	}
	return c
}

// Order is the sort key direction on createdAt.
type Order string

const (
	Newest Order = "newest"
	Oldest Order = "oldest"
)

// ParseOrder accepts "newest" or "oldest", ignoring case. Anything else
// yields Newest and ok=false.
func ParseOrder(s string) (Order, bool) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case Newest:
		return Newest, true
	case Oldest:
		return Oldest, true
	default:
		return Newest, false
	}
}
