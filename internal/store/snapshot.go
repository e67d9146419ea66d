package store

import (
	"fmt"
	"strings"

	"github.com/bunchhieng/shelf/internal/model"
	"github.com/bunchhieng/shelf/internal/platform"
)

// Snapshot serialises the store to the flat persisted shape. Records keep
// insertion order, so FromSnapshot(s.Snapshot()) reproduces s exactly.
func (s *Store) Snapshot() model.Snapshot {
	snap := model.Snapshot{
		Links: s.Links(),
		Tags:  make([]model.Tag, 0, len(s.tagOrder)),
		Tabs:  s.Tabs(),
	}
	for _, id := range s.tagOrder {
		snap.Tags = append(snap.Tags, *s.tags[id])
	}
	return snap
}

// FromSnapshot hydrates a store. It rejects snapshots with repeated ids,
// repeated tag names on one link, repeated tab members, references to
// links that do not exist, and tag or tab fields that AddTag and CreateTab
// would refuse. URLs are trimmed, times are kept in UTC, and links without
// a platform get platform.Default.
func FromSnapshot(snap model.Snapshot, opts ...Option) (*Store, error) {
	s := New(opts...)

	for i := range snap.Links {
		l := snap.Links[i].Clone()
		l.URL = strings.TrimSpace(l.URL)
		if l.ID == "" {
			return nil, fmt.Errorf("link %q has no id: %w", l.URL, model.ErrInvalidArgument)
		}
		if _, dup := s.links[l.ID]; dup {
			return nil, fmt.Errorf("link %s: %w", l.ID, model.ErrDuplicate)
		}
		if _, dup := s.byURL[l.URL]; dup {
			return nil, fmt.Errorf("link url %q: %w", l.URL, model.ErrDuplicate)
		}
		if l.Platform == "" {
			l.Platform = platform.Default
		}
		l.CreatedAt = l.CreatedAt.UTC()
		if l.LastViewedAt != nil {
			*l.LastViewedAt = l.LastViewedAt.UTC()
		}
		s.insertLink(&l)
	}

	for i := range snap.Tags {
		t := snap.Tags[i]
		if _, dup := s.tags[t.ID]; dup || t.ID == "" {
			return nil, fmt.Errorf("tag %q: %w", t.ID, model.ErrDuplicate)
		}
		if _, ok := s.links[t.LinkID]; !ok {
			return nil, fmt.Errorf("tag %s owner %s: %w", t.ID, t.LinkID, model.ErrNotFound)
		}
		if err := check(tagRequest{Name: strings.TrimSpace(t.Name)}); err != nil {
			return nil, fmt.Errorf("tag %s: %w", t.ID, err)
		}
		if s.tagNamed(t.LinkID, t.Name) != nil {
			return nil, fmt.Errorf("tag %q repeated on link %s: %w", t.Name, t.LinkID, model.ErrInvalidArgument)
		}
		s.insertTag(&t)
	}

	for i := range snap.Tabs {
		t := snap.Tabs[i]
		if _, dup := s.tabs[t.ID]; dup || t.ID == "" {
			return nil, fmt.Errorf("tab %q: %w", t.ID, model.ErrDuplicate)
		}
		if err := check(TabRequest{Name: strings.TrimSpace(t.Name), Icon: t.Icon, Description: t.Description}); err != nil {
			return nil, fmt.Errorf("tab %s: %w", t.ID, err)
		}
		members := t.LinkIDs
		s.insertTab(&t)
		for _, linkID := range members {
			if _, ok := s.links[linkID]; !ok {
				return nil, fmt.Errorf("tab %s member %s: %w", t.ID, linkID, model.ErrNotFound)
			}
			if s.idx.inTab(linkID, t.ID) {
				return nil, fmt.Errorf("tab %s member %s: %w", t.ID, linkID, model.ErrDuplicate)
			}
			s.idx.linkTab(linkID, t.ID)
		}
	}

	return s, nil
}
