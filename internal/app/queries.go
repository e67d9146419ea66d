package app

import (
	"github.com/bunchhieng/shelf/internal/model"
	"github.com/bunchhieng/shelf/internal/store"
)

// Link returns one link.
func (l *Library) Link(id string) (model.Link, error) {
	return l.store.Link(id)
}

// Links returns every link in insertion order.
func (l *Library) Links() []model.Link {
	return l.store.Links()
}

// TagsForLink returns a link's tags.
func (l *Library) TagsForLink(id string) []model.Tag {
	return l.store.TagsForLink(id)
}

// TabsForLink returns the tabs holding a link.
func (l *Library) TabsForLink(id string) []model.CustomTab {
	return l.store.TabsForLink(id)
}

// Tabs returns every custom tab.
func (l *Library) Tabs() []model.CustomTab {
	return l.store.Tabs()
}

// Tab finds a tab by id or name.
func (l *Library) Tab(ref string) (model.CustomTab, error) {
	return resolveTab(l.store, ref)
}

// TagSummary lists distinct tag names with link counts.
func (l *Library) TagSummary() []store.TagCount {
	return l.store.TagSummary()
}

// Export returns the whole collection in its persisted shape.
func (l *Library) Export() model.Snapshot {
	return l.store.Snapshot()
}

// TagNames returns the names of a link's tags.
func (l *Library) TagNames(id string) []string {
	return l.store.TagNames(id)
}
