package store

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bunchhieng/shelf/internal/model"
)

// CreateTab adds an empty tab.
func (s *Store) CreateTab(req TabRequest) (model.CustomTab, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Icon = strings.TrimSpace(req.Icon)
	req.Description = strings.TrimSpace(req.Description)
	if err := check(req); err != nil {
		return model.CustomTab{}, err
	}
	if req.Icon == "" {
		req.Icon = model.DefaultTabIcon
	}

	t := &model.CustomTab{
		ID:          s.newID(),
		Name:        req.Name,
		Icon:        req.Icon,
		Description: req.Description,
	}
	s.insertTab(t)
	return s.tabCopy(t), nil
}

func (s *Store) insertTab(t *model.CustomTab) {
	t.LinkIDs = nil
	s.tabs[t.ID] = t
	s.tabOrder = append(s.tabOrder, t.ID)
}

// DeleteTab removes a tab and its memberships. Member links are kept.
func (s *Store) DeleteTab(id string) error {
	if _, ok := s.tabs[id]; !ok {
		return fmt.Errorf("tab %s: %w", id, model.ErrNotFound)
	}
	s.idx.dropTab(id)
	delete(s.tabs, id)
	s.tabOrder = removeID(s.tabOrder, id)
	return nil
}

// AddLinkToTab makes a link a member of a tab. Adding an existing member
// succeeds with added=false.
func (s *Store) AddLinkToTab(linkID, tabID string) (bool, error) {
	if err := s.requireLinkAndTab(linkID, tabID); err != nil {
		return false, err
	}
	if s.idx.inTab(linkID, tabID) {
		return false, nil
	}
	s.idx.linkTab(linkID, tabID)
	return true, nil
}

// RemoveLinkFromTab drops a membership. Removing a non-member succeeds with
// removed=false.
func (s *Store) RemoveLinkFromTab(linkID, tabID string) (bool, error) {
	if err := s.requireLinkAndTab(linkID, tabID); err != nil {
		return false, err
	}
	if !s.idx.inTab(linkID, tabID) {
		return false, nil
	}
	s.idx.unlinkTab(linkID, tabID)
	return true, nil
}

func (s *Store) requireLinkAndTab(linkID, tabID string) error {
	if _, ok := s.links[linkID]; !ok {
		return fmt.Errorf("link %s: %w", linkID, model.ErrNotFound)
	}
	if _, ok := s.tabs[tabID]; !ok {
		return fmt.Errorf("tab %s: %w", tabID, model.ErrNotFound)
	}
	return nil
}

// Tab returns the tab with the given id, members included.
func (s *Store) Tab(id string) (model.CustomTab, error) {
	t, ok := s.tabs[id]
	if !ok {
		return model.CustomTab{}, fmt.Errorf("tab %s: %w", id, model.ErrNotFound)
	}
	return s.tabCopy(t), nil
}

// HasTab reports whether id names a tab.
func (s *Store) HasTab(id string) bool {
	_, ok := s.tabs[id]
	return ok
}

// TabByName finds a tab by case-insensitive name.
func (s *Store) TabByName(name string) (model.CustomTab, bool) {
	name = strings.TrimSpace(name)
	for _, id := range s.tabOrder {
		if t := s.tabs[id]; strings.EqualFold(t.Name, name) {
			return s.tabCopy(t), true
		}
	}
	return model.CustomTab{}, false
}

// Tabs returns every tab in creation order.
func (s *Store) Tabs() []model.CustomTab {
	out := make([]model.CustomTab, 0, len(s.tabOrder))
	for _, id := range s.tabOrder {
		out = append(out, s.tabCopy(s.tabs[id]))
	}
	return out
}

// TabsForLink returns the tabs a link belongs to.
func (s *Store) TabsForLink(linkID string) []model.CustomTab {
	ids := s.idx.tabsByLink[linkID]
	out := make([]model.CustomTab, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.tabCopy(s.tabs[id]))
	}
	return out
}

// LinksForTab returns a tab's members in the order they were added. An
// unknown tab has no members.
func (s *Store) LinksForTab(tabID string) []model.Link {
	ids := s.idx.linksByTab[tabID]
	out := make([]model.Link, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.links[id].Clone())
	}
	return out
}

func (s *Store) tabCopy(t *model.CustomTab) model.CustomTab {
	c := *t
	c.LinkIDs = slices.Clone(s.idx.linksByTab[t.ID])
	if c.LinkIDs == nil {
		c.LinkIDs = []string{}
	}
	return c
}
