package view

import (
	"slices"

	"github.com/bunchhieng/shelf/internal/model"
)

// Sort returns a copy of links ordered by createdAt. Links with equal
// timestamps keep their input order. Unknown orders sort newest first.
func Sort(links []model.Link, order Order) []model.Link {
	out := slices.Clone(links)
	if order == Oldest {
		slices.SortStableFunc(out, func(a, b model.Link) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
		return out
	}
	slices.SortStableFunc(out, func(a, b model.Link) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}
