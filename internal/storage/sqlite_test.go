package storage

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/bunchhieng/shelf/internal/model"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	storage, err := NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test storage: %v", err)
	}
	return storage
}

func sampleSnapshot() model.Snapshot {
	viewed := time.Date(2024, 3, 1, 12, 0, 0, 500, time.UTC)
	thumb := "https://placehold.co/600x400?text=YouTube"
	return model.Snapshot{
		Links: []model.Link{
			{
				ID:           "link000002",
				URL:          "https://www.youtube.com/watch?v=1",
				Title:        "Jazz solo",
				Platform:     "youtube",
				Category:     "video",
				CreatedAt:    time.Date(2024, 2, 1, 8, 30, 0, 0, time.UTC),
				LastViewedAt: &viewed,
				ThumbnailURL: &thumb,
			},
			{
				ID:        "link000001",
				URL:       "https://example.com/soup",
				Platform:  "webpage",
				CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		Tags: []model.Tag{
			{ID: "tag0000002", LinkID: "link000002", Name: "music"},
			{ID: "tag0000001", LinkID: "link000001", Name: "Cooking"},
		},
		Tabs: []model.CustomTab{
			{ID: "tab0000001", Name: "Later", Icon: "folder", LinkIDs: []string{"link000001", "link000002"}},
			{ID: "tab0000002", Name: "Empty", Icon: "star", Description: "nothing yet", LinkIDs: []string{}},
		},
	}
}

func TestLoadEmpty(t *testing.T) {
	s := setupTestDB(t)
	defer s.Close()

	snap, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !snap.Empty() {
		t.Errorf("Expected empty snapshot, got %+v", snap)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := setupTestDB(t)
	defer s.Close()

	ctx := context.Background()
	want := sampleSnapshot()
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Round trip mismatch\n got: %+v\nwant: %+v", got, want)
	}
}

func TestSaveReplaces(t *testing.T) {
	s := setupTestDB(t)
	defer s.Close()

	ctx := context.Background()
	if err := s.Save(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("First Save failed: %v", err)
	}

	smaller := sampleSnapshot()
	smaller.Links = smaller.Links[1:]
	smaller.Tags = smaller.Tags[1:]
	smaller.Tabs = []model.CustomTab{{ID: "tab0000001", Name: "Later", Icon: "folder", LinkIDs: []string{"link000001"}}}
	if err := s.Save(ctx, smaller); err != nil {
		t.Fatalf("Second Save failed: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Links) != 1 || got.Links[0].ID != "link000001" {
		t.Errorf("Expected only link000001, got %+v", got.Links)
	}
	if len(got.Tags) != 1 {
		t.Errorf("Expected 1 tag, got %d", len(got.Tags))
	}
	if len(got.Tabs) != 1 || len(got.Tabs[0].LinkIDs) != 1 {
		t.Errorf("Expected 1 tab with 1 member, got %+v", got.Tabs)
	}
}

func TestSaveRejectsOrphanTag(t *testing.T) {
	s := setupTestDB(t)
	defer s.Close()

	ctx := context.Background()
	if err := s.Save(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	broken := sampleSnapshot()
	broken.Tags = append(broken.Tags, model.Tag{ID: "tag0000009", LinkID: "missing000", Name: "x"})
	if err := s.Save(ctx, broken); err == nil {
		t.Fatal("Expected foreign key error, got nil")
	}

	// the failed save must not have cleared the previous data
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Links) != 2 || len(got.Tags) != 2 {
		t.Errorf("Expected previous snapshot intact, got %d links %d tags", len(got.Links), len(got.Tags))
	}
}

func TestReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "shelf.db")

	s, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.Save(context.Background(), sampleSnapshot()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	s.Close()

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("Expected database file: %v", err)
	}

	s, err = NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer s.Close()

	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Links) != 2 || len(got.Tabs) != 2 {
		t.Errorf("Expected 2 links and 2 tabs after reopen, got %d and %d", len(got.Links), len(got.Tabs))
	}
}

func TestParseSQLiteTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-02-01T08:30:00Z", time.Date(2024, 2, 1, 8, 30, 0, 0, time.UTC)},
		{"2024-02-01 08:30:00", time.Date(2024, 2, 1, 8, 30, 0, 0, time.UTC)},
		{"2024-02-01", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"garbage", time.Time{}},
		{"", time.Time{}},
	}
	for _, tt := range tests {
		if got := parseSQLiteTime(tt.in); !got.Equal(tt.want) {
			t.Errorf("parseSQLiteTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
