package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bunchhieng/shelf/internal/app"
	"github.com/bunchhieng/shelf/internal/model"
	"github.com/bunchhieng/shelf/internal/storage"
	"github.com/bunchhieng/shelf/internal/store"
)

func setupCommands(t *testing.T) (*Commands, *bytes.Buffer) {
	t.Helper()
	st, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	lib, err := app.Open(context.Background(), st, app.Options{})
	require.NoError(t, err)

	var out bytes.Buffer
	return NewCommands(lib, &out), &out
}

func addedID(t *testing.T, c *Commands, url string) string {
	t.Helper()
	for _, l := range c.lib.Links() {
		if l.URL == url {
			return l.ID
		}
	}
	t.Fatalf("link %s not saved", url)
	return ""
}

func TestAddAndList(t *testing.T) {
	c, out := setupCommands(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, app.AddRequest{URL: "https://www.youtube.com/watch?v=1", Title: "Jazz solo", Tags: []string{"music"}}))
	assert.Contains(t, out.String(), "Added")
	assert.Contains(t, out.String(), "YouTube")

	out.Reset()
	require.NoError(t, c.Add(ctx, app.AddRequest{URL: "https://www.youtube.com/watch?v=1"}))
	assert.Contains(t, out.String(), "Already saved")

	require.NoError(t, c.Add(ctx, app.AddRequest{URL: "https://www.tiktok.com/@a/video/2", Title: "Dance"}))

	out.Reset()
	require.NoError(t, c.List(ListOptions{}))
	listing := out.String()
	assert.Contains(t, listing, "Jazz solo")
	assert.Contains(t, listing, "Dance")
	assert.Contains(t, listing, "music")

	out.Reset()
	require.NoError(t, c.List(ListOptions{Scope: "youtube", Tag: "MUSIC"}))
	assert.Contains(t, out.String(), "Jazz solo")
	assert.NotContains(t, out.String(), "Dance")

	out.Reset()
	require.NoError(t, c.List(ListOptions{Search: "nothing-like-this"}))
	assert.Contains(t, out.String(), "No links match these filters.")

	assert.Error(t, c.List(ListOptions{Order: "sideways"}))
}

func TestAddInvalidURL(t *testing.T) {
	c, _ := setupCommands(t)
	err := c.Add(context.Background(), app.AddRequest{URL: "not a url"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestListEmptyStates(t *testing.T) {
	c, out := setupCommands(t)
	ctx := context.Background()

	require.NoError(t, c.List(ListOptions{}))
	assert.Contains(t, out.String(), "No links saved yet")

	require.NoError(t, c.TabCreate(ctx, store.TabRequest{Name: "Later"}))
	out.Reset()
	require.NoError(t, c.List(ListOptions{Tab: "later"}))
	assert.Contains(t, out.String(), "This tab is empty")

	assert.Error(t, c.List(ListOptions{Tab: "missing"}))
}

func TestListPaging(t *testing.T) {
	c, out := setupCommands(t)
	ctx := context.Background()
	for _, u := range []string{"https://example.com/1", "https://example.com/2", "https://example.com/3"} {
		require.NoError(t, c.Add(ctx, app.AddRequest{URL: u}))
	}

	out.Reset()
	require.NoError(t, c.List(ListOptions{Limit: 2}))
	assert.Contains(t, out.String(), "Showing 1-2 of 3. Use --page 2 for more.")

	out.Reset()
	require.NoError(t, c.List(ListOptions{Limit: 2, Page: 2}))
	assert.NotContains(t, out.String(), "Showing")
}

func TestListUnknownPlatformShowsAll(t *testing.T) {
	c, out := setupCommands(t)
	ctx := context.Background()
	require.NoError(t, c.Add(ctx, app.AddRequest{URL: "https://www.youtube.com/watch?v=1", Title: "Jazz solo"}))
	require.NoError(t, c.Add(ctx, app.AddRequest{URL: "https://example.com/notes", Title: "Notes"}))

	out.Reset()
	require.NoError(t, c.List(ListOptions{Scope: "myspace"}))
	listing := out.String()
	assert.Contains(t, listing, "Unknown platform")
	assert.Contains(t, listing, "Jazz solo")
	assert.Contains(t, listing, "Notes")

	out.Reset()
	require.NoError(t, c.List(ListOptions{Scope: "youtube"}))
	assert.Contains(t, out.String(), "Jazz solo")
	assert.NotContains(t, out.String(), "Notes")
}

func TestTabsAndTags(t *testing.T) {
	c, out := setupCommands(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, app.AddRequest{URL: "https://example.com/soup"}))
	id := addedID(t, c, "https://example.com/soup")

	require.NoError(t, c.TagAdd(ctx, id, "Cooking", "cooking"))
	assert.Contains(t, out.String(), "Already tagged")
	require.Error(t, c.TagAdd(ctx, id, "  "))

	require.NoError(t, c.TabCreate(ctx, store.TabRequest{Name: "Recipes", Description: "weeknight"}))
	require.Error(t, c.TabCreate(ctx, store.TabRequest{Name: " "}))
	require.NoError(t, c.TabAdd(ctx, "Recipes", id))
	require.NoError(t, c.TabAdd(ctx, "recipes", id))
	assert.Contains(t, out.String(), "Already in")

	out.Reset()
	require.NoError(t, c.TabList())
	assert.Contains(t, out.String(), "Recipes")
	assert.Contains(t, out.String(), "1 link(s)")
	assert.Contains(t, out.String(), "weeknight")

	out.Reset()
	require.NoError(t, c.Tags())
	assert.Contains(t, out.String(), "Cooking")

	require.NoError(t, c.TabRemove(ctx, "Recipes", id))
	require.NoError(t, c.TagRemove(ctx, id, "COOKING"))
	assert.Error(t, c.TagRemove(ctx, id, "cooking"))

	require.NoError(t, c.TabDelete(ctx, "Recipes"))
	assert.Error(t, c.TabDelete(ctx, "Recipes"))
	assert.Len(t, c.lib.Links(), 1)
}

func TestOpenMarksViewed(t *testing.T) {
	c, out := setupCommands(t)
	ctx := context.Background()
	require.NoError(t, c.Add(ctx, app.AddRequest{URL: "https://example.com"}))
	id := addedID(t, c, "https://example.com")

	var opened string
	c.OpenURL = func(url string) error {
		opened = url
		return nil
	}

	require.NoError(t, c.Open(ctx, id))
	assert.Equal(t, "https://example.com", opened)
	assert.Contains(t, out.String(), "Opened")

	link, err := c.lib.Link(id)
	require.NoError(t, err)
	assert.True(t, link.Viewed())
}

func TestRemoveSuggestsID(t *testing.T) {
	c, _ := setupCommands(t)
	ctx := context.Background()
	require.NoError(t, c.Add(ctx, app.AddRequest{URL: "https://example.com"}))
	id := addedID(t, c, "https://example.com")

	// 9 is outside the base32 alphabet, so this is always a near miss
	typo := id[:len(id)-1] + "9"
	err := c.Remove(ctx, typo)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Did you mean")
	assert.Contains(t, err.Error(), id)

	require.NoError(t, c.Remove(ctx, id))
	assert.Empty(t, c.lib.Links())
}

func TestExportImport(t *testing.T) {
	c, _ := setupCommands(t)
	ctx := context.Background()
	require.NoError(t, c.Add(ctx, app.AddRequest{URL: "https://example.com", Tags: []string{"a"}}))

	var buf bytes.Buffer
	require.NoError(t, c.Export(&buf))

	var snap model.Snapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &snap))
	assert.Len(t, snap.Links, 1)
	assert.Len(t, snap.Tags, 1)

	path := filepath.Join(t.TempDir(), "links.json")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	other, out := setupCommands(t)
	require.NoError(t, other.Import(ctx, path))
	assert.Contains(t, out.String(), "Imported")
	assert.Equal(t, snap.Links[0].ID, other.lib.Links()[0].ID)
	assert.Equal(t, []string{"a"}, other.lib.TagNames(snap.Links[0].ID))
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"same", "same", 0},
		{"abcd", "abce", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshteinDistance(tt.a, tt.b), "%s/%s", tt.a, tt.b)
	}
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "abcdefg...", truncateString("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncateString("abcdef", 2))
}

func TestFormatCounts(t *testing.T) {
	got := formatCounts(map[string]int{"all": 4, "youtube": 1, "tiktok": 3})
	assert.Equal(t, colorBold+"All"+colorReset+" 4  TikTok 3  YouTube 1", got)
}
