package store

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bunchhieng/shelf/internal/model"
)

func populated(t *testing.T) *Store {
	t.Helper()
	s := newTestStore(t)
	a := addLink(t, s, "https://www.youtube.com/watch?v=1")
	b := addLink(t, s, "https://www.tiktok.com/@x/video/2")
	c := addLink(t, s, "https://example.com/post")

	_, err := s.TouchLastViewed(a.ID)
	require.NoError(t, err)
	_, err = s.UpdateLinkCategory(c.ID, "Cooking")
	require.NoError(t, err)
	for _, tag := range []struct{ link, name string }{{a.ID, "music"}, {b.ID, "dance"}, {a.ID, "jazz"}} {
		_, _, err := s.AddTag(tag.link, tag.name)
		require.NoError(t, err)
	}
	tab, err := s.CreateTab(TabRequest{Name: "Mix", Icon: "star"})
	require.NoError(t, err)
	_, err = s.AddLinkToTab(c.ID, tab.ID)
	require.NoError(t, err)
	_, err = s.AddLinkToTab(a.ID, tab.ID)
	require.NoError(t, err)
	_, err = s.CreateTab(TabRequest{Name: "Empty"})
	require.NoError(t, err)
	return s
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := populated(t)
	snap := s.Snapshot()

	require.Len(t, snap.Links, 3)
	require.Len(t, snap.Tags, 3)
	require.Len(t, snap.Tabs, 2)
	assert.Equal(t, []string{snap.Links[2].ID, snap.Links[0].ID}, snap.Tabs[0].LinkIDs)

	restored, err := FromSnapshot(snap)
	require.NoError(t, err)
	assert.Equal(t, snap, restored.Snapshot())
	assert.Equal(t, s.TagSummary(), restored.TagSummary())
	assert.Equal(t, s.LinksForTab(snap.Tabs[0].ID), restored.LinksForTab(snap.Tabs[0].ID))
}

func TestFromSnapshotRejectsBrokenReferences(t *testing.T) {
	link := model.Link{ID: "link000001", URL: "https://example.com", Platform: "webpage", CreatedAt: time.Unix(1, 0)}

	tests := []struct {
		name string
		snap model.Snapshot
		want error
	}{
		{
			name: "duplicate link id",
			snap: model.Snapshot{Links: []model.Link{link, link}},
			want: model.ErrDuplicate,
		},
		{
			name: "orphan tag",
			snap: model.Snapshot{Links: []model.Link{link}, Tags: []model.Tag{{ID: "tag0000001", LinkID: "nope", Name: "x"}}},
			want: model.ErrNotFound,
		},
		{
			name: "repeated tag name",
			snap: model.Snapshot{Links: []model.Link{link}, Tags: []model.Tag{
				{ID: "tag0000001", LinkID: link.ID, Name: "x"},
				{ID: "tag0000002", LinkID: link.ID, Name: "X"},
			}},
			want: model.ErrInvalidArgument,
		},
		{
			name: "unknown tab member",
			snap: model.Snapshot{Links: []model.Link{link}, Tabs: []model.CustomTab{{ID: "tab0000001", Name: "t", LinkIDs: []string{"nope"}}}},
			want: model.ErrNotFound,
		},
		{
			name: "overlong tag name",
			snap: model.Snapshot{Links: []model.Link{link}, Tags: []model.Tag{
				{ID: "tag0000001", LinkID: link.ID, Name: strings.Repeat("x", 51)},
			}},
			want: model.ErrInvalidArgument,
		},
		{
			name: "unnamed tab",
			snap: model.Snapshot{Links: []model.Link{link}, Tabs: []model.CustomTab{{ID: "tab0000001", Name: " "}}},
			want: model.ErrInvalidArgument,
		},
		{
			name: "repeated tab member",
			snap: model.Snapshot{Links: []model.Link{link}, Tabs: []model.CustomTab{{ID: "tab0000001", Name: "t", LinkIDs: []string{link.ID, link.ID}}}},
			want: model.ErrDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromSnapshot(tt.snap)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFromSnapshotDefaultsPlatform(t *testing.T) {
	s, err := FromSnapshot(model.Snapshot{Links: []model.Link{{ID: "link000001", URL: "https://example.com"}}})
	require.NoError(t, err)
	l, err := s.Link("link000001")
	require.NoError(t, err)
	assert.Equal(t, model.Platform("webpage"), l.Platform)
}

func TestFromSnapshotTrimsURLs(t *testing.T) {
	s, err := FromSnapshot(model.Snapshot{Links: []model.Link{
		{ID: "link000001", URL: " https://example.com/a\n", Platform: "webpage"},
	}})
	require.NoError(t, err)

	l, ok := s.LinkByURL("https://example.com/a")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/a", l.URL)

	again, added, err := s.AddLink(model.Link{URL: "https://example.com/a"})
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, "link000001", again.ID)
}

func TestFromSnapshotKeepsTimesInUTC(t *testing.T) {
	zone := time.FixedZone("UTC+7", 7*60*60)
	viewed := time.Date(2024, 3, 1, 19, 0, 0, 0, zone)
	s, err := FromSnapshot(model.Snapshot{Links: []model.Link{{
		ID:           "link000001",
		URL:          "https://example.com/a",
		CreatedAt:    time.Date(2024, 3, 1, 8, 0, 0, 0, zone),
		LastViewedAt: &viewed,
	}}})
	require.NoError(t, err)

	l, err := s.Link("link000001")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC), l.CreatedAt)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), *l.LastViewedAt)
	assert.Equal(t, 19, viewed.Hour())
}
