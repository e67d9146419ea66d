package store

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/bunchhieng/shelf/internal/model"
)

// AddTag attaches name to a link. If the link already carries a tag with
// the same case-insensitive name, that tag is returned with added=false.
func (s *Store) AddTag(linkID, name string) (model.Tag, bool, error) {
	name = strings.TrimSpace(name)
	if err := check(tagRequest{Name: name}); err != nil {
		return model.Tag{}, false, err
	}
	if _, ok := s.links[linkID]; !ok {
		return model.Tag{}, false, fmt.Errorf("link %s: %w", linkID, model.ErrNotFound)
	}
	if existing := s.tagNamed(linkID, name); existing != nil {
		return *existing, false, nil
	}

	t := &model.Tag{ID: s.newID(), LinkID: linkID, Name: name}
	s.insertTag(t)
	return *t, true, nil
}

func (s *Store) insertTag(t *model.Tag) {
	s.tags[t.ID] = t
	s.tagOrder = append(s.tagOrder, t.ID)
	s.idx.addTag(t.LinkID, t.ID, model.FoldTagName(t.Name))
}

// RemoveTag deletes a single tag.
func (s *Store) RemoveTag(tagID string) error {
	t, ok := s.tags[tagID]
	if !ok {
		return fmt.Errorf("tag %s: %w", tagID, model.ErrNotFound)
	}
	s.deleteTag(t)
	return nil
}

func (s *Store) deleteTag(t *model.Tag) {
	s.idx.removeTag(t.LinkID, t.ID, model.FoldTagName(t.Name))
	delete(s.tags, t.ID)
	s.tagOrder = removeID(s.tagOrder, t.ID)
}

func (s *Store) tagNamed(linkID, name string) *model.Tag {
	folded := model.FoldTagName(name)
	for _, id := range s.idx.tagsByLink[linkID] {
		if t := s.tags[id]; model.FoldTagName(t.Name) == folded {
			return t
		}
	}
	return nil
}

// Tag returns the tag with the given id.
func (s *Store) Tag(id string) (model.Tag, error) {
	t, ok := s.tags[id]
	if !ok {
		return model.Tag{}, fmt.Errorf("tag %s: %w", id, model.ErrNotFound)
	}
	return *t, nil
}

// TagsForLink returns a link's tags in the order they were added. Unknown
// links have no tags.
func (s *Store) TagsForLink(linkID string) []model.Tag {
	ids := s.idx.tagsByLink[linkID]
	out := make([]model.Tag, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.tags[id])
	}
	return out
}

// TagNames returns the names of a link's tags.
func (s *Store) TagNames(linkID string) []string {
	ids := s.idx.tagsByLink[linkID]
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.tags[id].Name)
	}
	return out
}

// HasTag reports whether a link carries a tag named name, ignoring case.
func (s *Store) HasTag(linkID, name string) bool {
	return s.tagNamed(linkID, name) != nil
}

// LinksForTag returns the links tagged name, ignoring case, in the order
// they were tagged.
func (s *Store) LinksForTag(name string) []model.Link {
	ids := s.idx.linksByTag[model.FoldTagName(name)]
	out := make([]model.Link, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.links[id].Clone())
	}
	return out
}

// TagCount is a distinct tag name and how many links carry it.
type TagCount struct {
	Name  string
	Count int
}

// TagSummary lists distinct tag names, keeping the first spelling seen,
// ordered by count descending and then name.
func (s *Store) TagSummary() []TagCount {
	out := make([]TagCount, 0, len(s.idx.linksByTag))
	seen := make(map[string]bool, len(s.idx.linksByTag))
	for _, id := range s.tagOrder {
		t := s.tags[id]
		folded := model.FoldTagName(t.Name)
		if seen[folded] {
			continue
		}
		seen[folded] = true
		out = append(out, TagCount{Name: t.Name, Count: len(s.idx.linksByTag[folded])})
	}
	slices.SortStableFunc(out, func(a, b TagCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(model.FoldTagName(a.Name), model.FoldTagName(b.Name))
	})
	return out
}
