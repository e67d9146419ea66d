package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bunchhieng/shelf/internal/model"
	"github.com/bunchhieng/shelf/internal/store"
)

// ImportResult counts what an import added. Records that already existed
// are not counted.
type ImportResult struct {
	Links       int
	Tags        int
	Tabs        int
	Memberships int
}

// Import merges snap into the collection in one step: links are matched by
// URL, tags by link and name, tabs by name, and memberships are idempotent.
// Incoming ids are kept when free and well formed. Any bad record aborts
// the whole import.
func (l *Library) Import(ctx context.Context, snap model.Snapshot) (ImportResult, error) {
	var res ImportResult
	if snap.Empty() {
		return res, nil
	}
	err := l.mutate(ctx, "import", func(s *store.Store) (bool, error) {
		res = ImportResult{}
		linkIDs := make(map[string]string, len(snap.Links))

		for _, in := range snap.Links {
			if existing, ok := s.LinkByURL(in.URL); ok {
				if in.ID != "" {
					linkIDs[in.ID] = existing.ID
				}
				continue
			}
			link := in
			if _, err := s.Link(link.ID); err == nil || !model.ValidID(link.ID) {
				link.ID = ""
			}
			if link.Platform == "" {
				link.Platform = l.classifier.Classify(link.URL)
			}
			saved, added, err := s.AddLink(link)
			if err != nil {
				return false, fmt.Errorf("import link %q: %w", in.URL, err)
			}
			if added {
				res.Links++
			}
			if in.ID != "" {
				linkIDs[in.ID] = saved.ID
			}
		}

		for _, t := range snap.Tags {
			owner, ok := linkIDs[t.LinkID]
			if !ok {
				return false, fmt.Errorf("import tag %q: link %s: %w", t.Name, t.LinkID, model.ErrNotFound)
			}
			_, added, err := s.AddTag(owner, t.Name)
			if err != nil {
				return false, fmt.Errorf("import tag %q: %w", t.Name, err)
			}
			if added {
				res.Tags++
			}
		}

		for _, in := range snap.Tabs {
			tab, ok := s.TabByName(in.Name)
			if !ok {
				var err error
				tab, err = s.CreateTab(store.TabRequest{Name: in.Name, Icon: in.Icon, Description: in.Description})
				if err != nil {
					return false, fmt.Errorf("import tab %q: %w", in.Name, err)
				}
				res.Tabs++
			}
			for _, member := range in.LinkIDs {
				linkID, ok := linkIDs[member]
				if !ok {
					return false, fmt.Errorf("import tab %q member %s: %w", in.Name, member, model.ErrNotFound)
				}
				added, err := s.AddLinkToTab(linkID, tab.ID)
				if err != nil {
					return false, err
				}
				if added {
					res.Memberships++
				}
			}
		}

		return res != ImportResult{}, nil
	})
	if err != nil {
		return ImportResult{}, err
	}

	l.logger.Info("import finished",
		zap.Int("links", res.Links),
		zap.Int("tags", res.Tags),
		zap.Int("tabs", res.Tabs),
		zap.Int("memberships", res.Memberships))
	return res, nil
}
