// Package view derives what to display from a store: the filtered and
// sorted links, per-platform totals for badges, and why the result is empty.
//
// Everything here is a pure function of its inputs. Build is cheap enough
// to call on every keystroke and must be called again after any mutation.
package view

import "github.com/bunchhieng/shelf/internal/model"

// Source is everything Build reads from the store.
type Source interface {
	Membership
	Links() []model.Link
}

// EmptyState explains an empty or absent result.
type EmptyState string

const (
	EmptyNone    EmptyState = ""
	EmptyNoData  EmptyState = "no-data"
	EmptyNoMatch EmptyState = "no-match-for-filters"
	EmptyTab     EmptyState = "empty-collection-in-tab"
)

// CountAll is the Counts key holding the size of the whole collection.
const CountAll = "all"

// View is the displayable result of Build.
type View struct {
	// Links is the requested page of the filtered, sorted result.
	Links []model.Link
	// Total is the filtered result size before paging.
	Total int
	// Counts maps CountAll and every platform present to its size in the
	// unfiltered collection.
	Counts map[string]int
	Empty  EmptyState

	// Criteria are the criteria after resolution: trimmed text, and scopes
	// that name nothing replaced by All.
	Criteria Criteria
	Order    Order
	Page     Page
}

// Build filters, sorts and pages the links in src.
func Build(src Source, c Criteria, order Order, page Page) View {
	if order != Oldest {
		order = Newest
	}
	all := src.Links()
	resolved := c.resolve(src)
	filtered := Sort(Filter(all, resolved, src), order)

	return View{
		Links:    page.apply(filtered),
		Total:    len(filtered),
		Counts:   Counts(all),
		Empty:    classify(src, resolved, len(all), len(filtered)),
		Criteria: resolved,
		Order:    order,
		Page:     page,
	}
}

// Counts tallies links per platform plus the CountAll total. Platforms
// with no links are absent.
func Counts(links []model.Link) map[string]int {
	counts := map[string]int{CountAll: len(links)}
	for _, l := range links {
		counts[string(l.Platform)]++
	}
	return counts
}

func classify(m Membership, c Criteria, total, matched int) EmptyState {
	switch {
	case c.Scope.Kind == ScopeTab && c.Tag == "" && c.Search == "" && len(m.LinksForTab(c.Scope.Value)) == 0:
		return EmptyTab
	case !c.Active() && total == 0:
		return EmptyNoData
	case c.Active() && matched == 0:
		return EmptyNoMatch
	default:
		return EmptyNone
	}
}
