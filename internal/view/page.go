package view

import "github.com/bunchhieng/shelf/internal/model"

// Page selects a window of the sorted result. A zero Limit means no limit.
type Page struct {
	Offset int
	Limit  int
}

// NextPage returns the window following p.
func (p Page) NextPage() Page {
	return Page{Offset: p.Offset + p.Limit, Limit: p.Limit}
}

// HasMore reports whether links remain after p in a result of size total.
func (p Page) HasMore(total int) bool {
	return p.Limit > 0 && p.Offset+p.Limit < total
}

func (p Page) apply(links []model.Link) []model.Link {
	start := max(p.Offset, 0)
	if start >= len(links) {
		return []model.Link{}
	}
	end := len(links)
	if p.Limit > 0 {
		end = min(start+p.Limit, end)
	}
	return links[start:end]
}
