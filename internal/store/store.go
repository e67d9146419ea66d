// Package store holds the canonical set of links, tags and custom tabs and
// the membership index derived from them.
//
// A Store is not safe for concurrent use. Hosts that share one between
// goroutines must serialise every call, reads included, since reads hand
// out views of the same index a mutation patches.
package store

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bunchhieng/shelf/internal/model"
	"github.com/bunchhieng/shelf/internal/platform"
)

// Store owns links, tags and tabs. Every mutation validates first and then
// updates records and index together, so a failed call leaves both untouched.
type Store struct {
	links     map[string]*model.Link
	linkOrder []string
	byURL     map[string]string

	tags     map[string]*model.Tag
	tagOrder []string

	tabs     map[string]*model.CustomTab
	tabOrder []string

	idx *index

	classifier *platform.Classifier
	now        func() time.Time
	newID      func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now for createdAt and lastViewedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithClassifier sets the classifier whose platforms count as known scopes.
func WithClassifier(c *platform.Classifier) Option {
	return func(s *Store) {
		if c != nil {
			s.classifier = c
		}
	}
}

// WithIDGenerator replaces model.NewID.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		links: make(map[string]*model.Link),
		byURL: make(map[string]string),
		tags:  make(map[string]*model.Tag),
		tabs:  make(map[string]*model.CustomTab),
		idx:        newIndex(),
		classifier: platform.New(),
		now:        time.Now,
		newID:      model.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Len returns the number of links.
func (s *Store) Len() int {
	return len(s.linkOrder)
}

// Link returns the link with the given id.
func (s *Store) Link(id string) (model.Link, error) {
	l, ok := s.links[id]
	if !ok {
		return model.Link{}, fmt.Errorf("link %s: %w", id, model.ErrNotFound)
	}
	return l.Clone(), nil
}

// Links returns every link in insertion order.
func (s *Store) Links() []model.Link {
	out := make([]model.Link, 0, len(s.linkOrder))
	for _, id := range s.linkOrder {
		out = append(out, s.links[id].Clone())
	}
	return out
}

// KnownPlatform reports whether p is a platform the classifier produces or
// one that a saved link carries.
func (s *Store) KnownPlatform(p model.Platform) bool {
	if p == "" {
		return false
	}
	if s.classifier.Known(p) {
		return true
	}
	for _, l := range s.links {
		if l.Platform == p {
			return true
		}
	}
	return false
}

// LinkByURL returns the link saved under rawURL, if any.
func (s *Store) LinkByURL(rawURL string) (model.Link, bool) {
	id, ok := s.byURL[strings.TrimSpace(rawURL)]
	if !ok {
		return model.Link{}, false
	}
	return s.links[id].Clone(), true
}

// AddLink stores a new link. If a link with the same URL exists it is
// returned unchanged with added=false. A zero CreatedAt is stamped with the
// store clock and an empty Platform falls back to the classifier default.
func (s *Store) AddLink(l model.Link) (model.Link, bool, error) {
	l.URL = strings.TrimSpace(l.URL)
	if err := l.Validate(); err != nil {
		return model.Link{}, false, fmt.Errorf("%w: %w", model.ErrInvalidArgument, err)
	}
	if id, ok := s.byURL[l.URL]; ok {
		return s.links[id].Clone(), false, nil
	}
	if l.ID == "" {
		l.ID = s.newID()
	} else if _, taken := s.links[l.ID]; taken {
		return model.Link{}, false, fmt.Errorf("link %s: %w", l.ID, model.ErrDuplicate)
	}
	l.Title = strings.TrimSpace(l.Title)
	l.Category = strings.TrimSpace(l.Category)
	if l.Platform == "" {
		l.Platform = platform.Default
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = s.now()
	}
	l = l.Clone()
	l.CreatedAt = l.CreatedAt.UTC()

	s.insertLink(&l)
	return l.Clone(), true, nil
}

func (s *Store) insertLink(l *model.Link) {
	s.links[l.ID] = l
	s.linkOrder = append(s.linkOrder, l.ID)
	s.byURL[l.URL] = l.ID
}

// RemoveLink deletes a link together with its tags and tab memberships.
func (s *Store) RemoveLink(id string) error {
	l, ok := s.links[id]
	if !ok {
		return fmt.Errorf("link %s: %w", id, model.ErrNotFound)
	}

	for _, tagID := range slices.Clone(s.idx.tagsByLink[id]) {
		s.deleteTag(s.tags[tagID])
	}
	for _, tabID := range slices.Clone(s.idx.tabsByLink[id]) {
		s.idx.unlinkTab(id, tabID)
	}

	delete(s.links, id)
	delete(s.byURL, l.URL)
	s.linkOrder = removeID(s.linkOrder, id)
	return nil
}

// UpdateLinkTitle replaces a link's title. An empty title is allowed; the
// URL is shown in its place.
func (s *Store) UpdateLinkTitle(id, title string) (model.Link, error) {
	l, ok := s.links[id]
	if !ok {
		return model.Link{}, fmt.Errorf("link %s: %w", id, model.ErrNotFound)
	}
	l.Title = strings.TrimSpace(title)
	return l.Clone(), nil
}

// UpdateLinkCategory replaces a link's category.
func (s *Store) UpdateLinkCategory(id, category string) (model.Link, error) {
	l, ok := s.links[id]
	if !ok {
		return model.Link{}, fmt.Errorf("link %s: %w", id, model.ErrNotFound)
	}
	l.Category = strings.TrimSpace(category)
	return l.Clone(), nil
}

// TouchLastViewed stamps a link as opened now.
func (s *Store) TouchLastViewed(id string) (model.Link, error) {
	l, ok := s.links[id]
	if !ok {
		return model.Link{}, fmt.Errorf("link %s: %w", id, model.ErrNotFound)
	}
	now := s.now().UTC()
	l.LastViewedAt = &now
	return l.Clone(), nil
}

func removeID(ids []string, id string) []string {
	return slices.DeleteFunc(ids, func(v string) bool { return v == id })
}
