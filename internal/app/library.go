// Package app wires the store, the view and persistence into a Library that
// the CLI and TUI drive.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bunchhieng/shelf/internal/model"
	"github.com/bunchhieng/shelf/internal/platform"
	"github.com/bunchhieng/shelf/internal/storage"
	"github.com/bunchhieng/shelf/internal/store"
	"github.com/bunchhieng/shelf/internal/view"
)

// Options configures a Library. Zero values get sensible defaults.
type Options struct {
	Classifier   *platform.Classifier
	Logger       *zap.Logger
	Order        view.Order
	PageSize     int
	DefaultIcon  string
	StoreOptions []store.Option
}

// Library is a loaded collection plus the view currently presented. Every
// successful mutation is saved and the view rebuilt before returning.
//
// Library is not safe for concurrent use; callers run one mutation at a
// time.
type Library struct {
	storage    storage.Storage
	store      *store.Store
	classifier *platform.Classifier
	logger     *zap.Logger
	opts       Options

	criteria view.Criteria
	order    view.Order
	page     view.Page
	current  view.View
}

// Open loads the collection from st.
func Open(ctx context.Context, st storage.Storage, opts Options) (*Library, error) {
	if opts.Classifier == nil {
		opts.Classifier = platform.New()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Order != view.Oldest {
		opts.Order = view.Newest
	}
	opts.StoreOptions = append([]store.Option{store.WithClassifier(opts.Classifier)}, opts.StoreOptions...)

	snap, err := st.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}
	s, err := store.FromSnapshot(snap, opts.StoreOptions...)
	if err != nil {
		return nil, fmt.Errorf("hydrate collection: %w", err)
	}

	l := &Library{
		storage:    st,
		store:      s,
		classifier: opts.Classifier,
		logger:     opts.Logger,
		opts:       opts,
		criteria:   view.Criteria{Scope: view.All()},
		order:      opts.Order,
		page:       view.Page{Limit: opts.PageSize},
	}
	l.refresh()
	l.logger.Debug("collection loaded",
		zap.Int("links", len(snap.Links)),
		zap.Int("tags", len(snap.Tags)),
		zap.Int("tabs", len(snap.Tabs)))
	return l, nil
}

// View returns the view for the current criteria, order and page.
func (l *Library) View() view.View {
	return l.current
}

// Criteria returns the current filter criteria.
func (l *Library) Criteria() view.Criteria {
	return l.criteria
}

// Order returns the current sort order.
func (l *Library) Order() view.Order {
	return l.order
}

// SetCriteria replaces the active filters and resets paging.
func (l *Library) SetCriteria(c view.Criteria) view.View {
	l.criteria = c
	l.page.Offset = 0
	l.refresh()
	return l.current
}

// SetOrder changes the sort order and resets paging.
func (l *Library) SetOrder(o view.Order) view.View {
	l.order = o
	l.page.Offset = 0
	l.refresh()
	return l.current
}

// SetPage moves the visible window.
func (l *Library) SetPage(p view.Page) view.View {
	l.page = p
	l.refresh()
	return l.current
}

// Query builds a view without changing the current one.
func (l *Library) Query(c view.Criteria, o view.Order, p view.Page) view.View {
	return view.Build(l.store, c, o, p)
}

func (l *Library) refresh() {
	l.current = view.Build(l.store, l.criteria, l.order, l.page)
}

// mutate runs fn against the store and persists the result. If fn fails
// or saving fails, the store is put back exactly as it was. fn reports
// whether it changed anything; no-ops are not saved.
func (l *Library) mutate(ctx context.Context, op string, fn func(s *store.Store) (bool, error)) error {
	before := l.store.Snapshot()

	changed, err := fn(l.store)
	if err != nil {
		l.restore(before)
		return err
	}
	if !changed {
		l.logger.Debug("mutation was a no-op", zap.String("op", op))
		return nil
	}

	if err := l.storage.Save(ctx, l.store.Snapshot()); err != nil {
		l.logger.Warn("save failed, rolling back", zap.String("op", op), zap.Error(err))
		l.restore(before)
		return fmt.Errorf("%s: save: %w", op, err)
	}

	l.refresh()
	return nil
}

func (l *Library) restore(snap model.Snapshot) {
	s, err := store.FromSnapshot(snap, l.opts.StoreOptions...)
	if err != nil {
		// snap came from Snapshot, so this means the store itself is broken
		l.logger.Error("restore failed", zap.Error(err))
		return
	}
	l.store = s
	l.refresh()
}
