package app

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/bunchhieng/shelf/internal/model"
	"github.com/bunchhieng/shelf/internal/platform"
	"github.com/bunchhieng/shelf/internal/store"
)

// AddRequest is a raw URL to save plus whatever metadata is already known.
type AddRequest struct {
	URL          string
	Title        string
	Category     string
	ThumbnailURL string
	Tags         []string
	Tab          string
}

// Add classifies and saves a URL. Missing metadata is filled in: a category
// from the platform and a placeholder thumbnail. Tags and the tab (id or
// name) are applied in the same step. If the URL was already saved the
// existing link is returned with added=false and the tags and tab are still
// applied.
func (l *Library) Add(ctx context.Context, req AddRequest) (model.Link, bool, error) {
	p := l.classifier.Classify(req.URL)
	link := model.Link{
		URL:      req.URL,
		Title:    req.Title,
		Platform: p,
		Category: strings.TrimSpace(req.Category),
	}
	if link.Category == "" {
		link.Category = platform.DefaultCategory(p)
	}
	thumb := strings.TrimSpace(req.ThumbnailURL)
	if thumb == "" {
		thumb = platform.PlaceholderThumbnail(p)
	}
	link.ThumbnailURL = &thumb

	var saved model.Link
	var added bool
	err := l.mutate(ctx, "add link", func(s *store.Store) (bool, error) {
		var err error
		saved, added, err = s.AddLink(link)
		if err != nil {
			return false, err
		}
		changed := added
		for _, name := range req.Tags {
			if strings.TrimSpace(name) == "" {
				continue
			}
			_, tagged, err := s.AddTag(saved.ID, name)
			if err != nil {
				return false, err
			}
			changed = changed || tagged
		}
		if req.Tab != "" {
			tab, err := resolveTab(s, req.Tab)
			if err != nil {
				return false, err
			}
			joined, err := s.AddLinkToTab(saved.ID, tab.ID)
			if err != nil {
				return false, err
			}
			changed = changed || joined
		}
		return changed, nil
	})
	if err != nil {
		return model.Link{}, false, err
	}

	l.logger.Info("link saved",
		zap.String("id", saved.ID),
		zap.String("platform", string(saved.Platform)),
		zap.Bool("added", added))
	return saved, added, nil
}

// RemoveLink deletes a link, its tags and its tab memberships.
func (l *Library) RemoveLink(ctx context.Context, id string) error {
	err := l.mutate(ctx, "remove link", func(s *store.Store) (bool, error) {
		return true, s.RemoveLink(id)
	})
	if err == nil {
		l.logger.Info("link removed", zap.String("id", id))
	}
	return err
}

// UpdateTitle renames a link.
func (l *Library) UpdateTitle(ctx context.Context, id, title string) (model.Link, error) {
	var out model.Link
	err := l.mutate(ctx, "update title", func(s *store.Store) (bool, error) {
		var err error
		out, err = s.UpdateLinkTitle(id, title)
		return err == nil, err
	})
	return out, err
}

// UpdateCategory recategorises a link.
func (l *Library) UpdateCategory(ctx context.Context, id, category string) (model.Link, error) {
	var out model.Link
	err := l.mutate(ctx, "update category", func(s *store.Store) (bool, error) {
		var err error
		out, err = s.UpdateLinkCategory(id, category)
		return err == nil, err
	})
	return out, err
}

// MarkViewed records that a link was opened.
func (l *Library) MarkViewed(ctx context.Context, id string) (model.Link, error) {
	var out model.Link
	err := l.mutate(ctx, "mark viewed", func(s *store.Store) (bool, error) {
		var err error
		out, err = s.TouchLastViewed(id)
		return err == nil, err
	})
	return out, err
}

// AddTag tags a link. added is false when the link already had the tag.
func (l *Library) AddTag(ctx context.Context, linkID, name string) (model.Tag, bool, error) {
	var tag model.Tag
	var added bool
	err := l.mutate(ctx, "add tag", func(s *store.Store) (bool, error) {
		var err error
		tag, added, err = s.AddTag(linkID, name)
		return added, err
	})
	if err == nil && added {
		l.logger.Info("tag added", zap.String("link", linkID), zap.String("tag", tag.Name))
	}
	return tag, added, err
}

// RemoveTag deletes one tag by id.
func (l *Library) RemoveTag(ctx context.Context, tagID string) error {
	return l.mutate(ctx, "remove tag", func(s *store.Store) (bool, error) {
		return true, s.RemoveTag(tagID)
	})
}

// RemoveTagByName deletes the tag called name from a link, ignoring case.
func (l *Library) RemoveTagByName(ctx context.Context, linkID, name string) error {
	return l.mutate(ctx, "remove tag", func(s *store.Store) (bool, error) {
		if _, err := s.Link(linkID); err != nil {
			return false, err
		}
		folded := model.FoldTagName(name)
		for _, t := range s.TagsForLink(linkID) {
			if model.FoldTagName(t.Name) == folded {
				return true, s.RemoveTag(t.ID)
			}
		}
		return false, &notTaggedError{linkID: linkID, name: name}
	})
}

type notTaggedError struct {
	linkID, name string
}

func (e *notTaggedError) Error() string {
	return "link " + e.linkID + " has no tag " + e.name
}

func (e *notTaggedError) Unwrap() error {
	return model.ErrNotFound
}

// CreateTab adds a custom tab. The configured default icon applies when
// req.Icon is empty.
func (l *Library) CreateTab(ctx context.Context, req store.TabRequest) (model.CustomTab, error) {
	if strings.TrimSpace(req.Icon) == "" {
		req.Icon = l.opts.DefaultIcon
	}
	var tab model.CustomTab
	err := l.mutate(ctx, "create tab", func(s *store.Store) (bool, error) {
		var err error
		tab, err = s.CreateTab(req)
		return err == nil, err
	})
	if err == nil {
		l.logger.Info("tab created", zap.String("id", tab.ID), zap.String("name", tab.Name))
	}
	return tab, err
}

// DeleteTab removes a tab, given by id or name. Its links are kept.
func (l *Library) DeleteTab(ctx context.Context, ref string) error {
	return l.mutate(ctx, "delete tab", func(s *store.Store) (bool, error) {
		tab, err := resolveTab(s, ref)
		if err != nil {
			return false, err
		}
		return true, s.DeleteTab(tab.ID)
	})
}

// AddToTab puts a link in a tab given by id or name. added is false when
// it was already there.
func (l *Library) AddToTab(ctx context.Context, linkID, tabRef string) (bool, error) {
	var added bool
	err := l.mutate(ctx, "add to tab", func(s *store.Store) (bool, error) {
		tab, err := resolveTab(s, tabRef)
		if err != nil {
			return false, err
		}
		added, err = s.AddLinkToTab(linkID, tab.ID)
		return added, err
	})
	return added, err
}

// RemoveFromTab takes a link out of a tab given by id or name.
func (l *Library) RemoveFromTab(ctx context.Context, linkID, tabRef string) (bool, error) {
	var removed bool
	err := l.mutate(ctx, "remove from tab", func(s *store.Store) (bool, error) {
		tab, err := resolveTab(s, tabRef)
		if err != nil {
			return false, err
		}
		removed, err = s.RemoveLinkFromTab(linkID, tab.ID)
		return removed, err
	})
	return removed, err
}

func resolveTab(s *store.Store, ref string) (model.CustomTab, error) {
	if tab, err := s.Tab(ref); err == nil {
		return tab, nil
	}
	if tab, ok := s.TabByName(ref); ok {
		return tab, nil
	}
	return s.Tab(ref)
}
