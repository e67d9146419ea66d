package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/bunchhieng/shelf/internal/model"
)

const memoryPath = ":memory:"

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sqlx.DB
}

// NewSQLiteStorage opens (creating if needed) the database at dbPath and
// applies pending migrations. ":memory:" opens a private in-memory database.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	var dsn string
	if dbPath == memoryPath {
		dsn = dbPath + "?_pragma=foreign_keys(ON)"
	} else {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
		dsn = dbPath + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)"
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == memoryPath {
		// every pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

type linkRow struct {
	ID           string         `db:"id"`
	URL          string         `db:"url"`
	Title        string         `db:"title"`
	Platform     string         `db:"platform"`
	Category     string         `db:"category"`
	CreatedAt    string         `db:"created_at"`
	LastViewedAt sql.NullString `db:"last_viewed_at"`
	ThumbnailURL sql.NullString `db:"thumbnail_url"`
	Position     int            `db:"position"`
}

type tagRow struct {
	ID       string `db:"id"`
	LinkID   string `db:"link_id"`
	Name     string `db:"name"`
	Position int    `db:"position"`
}

type tabRow struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Icon        string `db:"icon"`
	Description string `db:"description"`
	Position    int    `db:"position"`
}

type tabLinkRow struct {
	TabID    string `db:"tab_id"`
	LinkID   string `db:"link_id"`
	Position int    `db:"position"`
}

func newLinkRow(l model.Link, pos int) linkRow {
	row := linkRow{
		ID:        l.ID,
		URL:       l.URL,
		Title:     l.Title,
		Platform:  string(l.Platform),
		Category:  l.Category,
		CreatedAt: formatSQLiteTime(l.CreatedAt),
		Position:  pos,
	}
	if l.LastViewedAt != nil {
		row.LastViewedAt = sql.NullString{String: formatSQLiteTime(*l.LastViewedAt), Valid: true}
	}
	if l.ThumbnailURL != nil {
		row.ThumbnailURL = sql.NullString{String: *l.ThumbnailURL, Valid: true}
	}
	return row
}

func (r *linkRow) toLink() model.Link {
	link := model.Link{
		ID:        r.ID,
		URL:       r.URL,
		Title:     r.Title,
		Platform:  model.Platform(r.Platform),
		Category:  r.Category,
		CreatedAt: parseSQLiteTime(r.CreatedAt),
	}
	if r.LastViewedAt.Valid && r.LastViewedAt.String != "" {
		viewed := parseSQLiteTime(r.LastViewedAt.String)
		link.LastViewedAt = &viewed
	}
	if r.ThumbnailURL.Valid {
		thumb := r.ThumbnailURL.String
		link.ThumbnailURL = &thumb
	}
	return link
}

// Load reads every record ordered as it was saved.
func (s *SQLiteStorage) Load(ctx context.Context) (model.Snapshot, error) {
	var snap model.Snapshot

	var links []linkRow
	if err := s.db.SelectContext(ctx, &links, `
		SELECT id, url, title, platform, category, created_at, last_viewed_at, thumbnail_url, position
		FROM links ORDER BY position`); err != nil {
		return snap, fmt.Errorf("load links: %w", err)
	}
	snap.Links = make([]model.Link, len(links))
	for i := range links {
		snap.Links[i] = links[i].toLink()
	}

	var tags []tagRow
	if err := s.db.SelectContext(ctx, &tags,
		"SELECT id, link_id, name, position FROM tags ORDER BY position"); err != nil {
		return snap, fmt.Errorf("load tags: %w", err)
	}
	snap.Tags = make([]model.Tag, len(tags))
	for i, t := range tags {
		snap.Tags[i] = model.Tag{ID: t.ID, LinkID: t.LinkID, Name: t.Name}
	}

	var tabs []tabRow
	if err := s.db.SelectContext(ctx, &tabs,
		"SELECT id, name, icon, description, position FROM tabs ORDER BY position"); err != nil {
		return snap, fmt.Errorf("load tabs: %w", err)
	}
	var members []tabLinkRow
	if err := s.db.SelectContext(ctx, &members,
		"SELECT tab_id, link_id, position FROM tab_links ORDER BY tab_id, position"); err != nil {
		return snap, fmt.Errorf("load tab members: %w", err)
	}
	byTab := make(map[string][]string, len(tabs))
	for _, m := range members {
		byTab[m.TabID] = append(byTab[m.TabID], m.LinkID)
	}
	snap.Tabs = make([]model.CustomTab, len(tabs))
	for i, t := range tabs {
		linkIDs := byTab[t.ID]
		if linkIDs == nil {
			linkIDs = []string{}
		}
		snap.Tabs[i] = model.CustomTab{
			ID:          t.ID,
			Name:        t.Name,
			Icon:        t.Icon,
			Description: t.Description,
			LinkIDs:     linkIDs,
		}
	}

	return snap, nil
}

// Save rewrites all tables inside one transaction.
func (s *SQLiteStorage) Save(ctx context.Context, snap model.Snapshot) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"tab_links", "tags", "tabs", "links"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, l := range snap.Links {
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO links (id, url, title, platform, category, created_at, last_viewed_at, thumbnail_url, position)
			VALUES (:id, :url, :title, :platform, :category, :created_at, :last_viewed_at, :thumbnail_url, :position)`,
			newLinkRow(l, i)); err != nil {
			return fmt.Errorf("insert link %s: %w", l.ID, err)
		}
	}

	for i, t := range snap.Tags {
		row := tagRow{ID: t.ID, LinkID: t.LinkID, Name: t.Name, Position: i}
		if _, err := tx.NamedExecContext(ctx,
			"INSERT INTO tags (id, link_id, name, position) VALUES (:id, :link_id, :name, :position)", row); err != nil {
			return fmt.Errorf("insert tag %s: %w", t.ID, err)
		}
	}

	for i, t := range snap.Tabs {
		row := tabRow{ID: t.ID, Name: t.Name, Icon: t.Icon, Description: t.Description, Position: i}
		if _, err := tx.NamedExecContext(ctx,
			"INSERT INTO tabs (id, name, icon, description, position) VALUES (:id, :name, :icon, :description, :position)", row); err != nil {
			return fmt.Errorf("insert tab %s: %w", t.ID, err)
		}
		for j, linkID := range t.LinkIDs {
			member := tabLinkRow{TabID: t.ID, LinkID: linkID, Position: j}
			if _, err := tx.NamedExecContext(ctx,
				"INSERT INTO tab_links (tab_id, link_id, position) VALUES (:tab_id, :link_id, :position)", member); err != nil {
				return fmt.Errorf("insert tab %s member %s: %w", t.ID, linkID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func formatSQLiteTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseSQLiteTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}
