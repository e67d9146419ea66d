package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/bunchhieng/shelf/internal/app"
	"github.com/bunchhieng/shelf/internal/model"
	"github.com/bunchhieng/shelf/internal/platform"
	"github.com/bunchhieng/shelf/internal/store"
	"github.com/bunchhieng/shelf/internal/view"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

// Commands handles all CLI command execution.
type Commands struct {
	lib *app.Library
	out io.Writer

	// OpenURL launches a browser. Tests replace it.
	OpenURL func(url string) error
}

// NewCommands creates a new Commands instance writing to out.
func NewCommands(lib *app.Library, out io.Writer) *Commands {
	return &Commands{lib: lib, out: out, OpenURL: openInBrowser}
}

func (c *Commands) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// suggestID suggests a similar ID if the given ID is not found.
func (c *Commands) suggestID(id string) string {
	bestMatch := ""
	minDistance := len(id) + 1

	for _, link := range c.lib.Links() {
		distance := levenshteinDistance(id, link.ID)
		if distance < minDistance && distance <= 3 {
			minDistance = distance
			bestMatch = link.ID
		}
	}

	return bestMatch
}

func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}

func (c *Commands) handleNotFound(err error, id string, action string) error {
	if errors.Is(err, model.ErrNotFound) {
		msg := fmt.Sprintf("link %s%s%s not found", colorBold, id, colorReset)
		if suggestion := c.suggestID(id); suggestion != "" {
			msg += fmt.Sprintf("\n\n%sDid you mean:%s %s%s%s?", colorYellow, colorReset, colorBold, suggestion, colorReset)
		}
		return fmt.Errorf("%s", msg)
	}
	return fmt.Errorf("%s: %w", action, err)
}

// Add saves a new link.
func (c *Commands) Add(ctx context.Context, req app.AddRequest) error {
	link, added, err := c.lib.Add(ctx, req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidURL) {
			return fmt.Errorf("invalid URL: %s", req.URL)
		}
		return fmt.Errorf("add link: %w", err)
	}

	if added {
		c.printf("%sAdded%s %s link %s%s%s: %s%s%s\n", colorGreen, colorReset, platform.DisplayName(link.Platform),
			colorBold, link.ID, colorReset, colorCyan, link.URL, colorReset)
	} else {
		c.printf("%sAlready saved%s as %s%s%s: %s%s%s\n", colorYellow, colorReset,
			colorBold, link.ID, colorReset, colorCyan, link.URL, colorReset)
	}
	return nil
}

// ListOptions are the filters and paging of the list command.
type ListOptions struct {
	Scope  string
	Tab    string
	Tag    string
	Search string
	Order  string
	Limit  int
	Page   int
}

// List prints the view for the given filters.
func (c *Commands) List(opts ListOptions) error {
	criteria := view.Criteria{Scope: view.ParseScope(opts.Scope), Tag: opts.Tag, Search: opts.Search}
	if opts.Tab != "" {
		tab, err := c.lib.Tab(opts.Tab)
		if err != nil {
			return fmt.Errorf("tab %q not found", opts.Tab)
		}
		criteria.Scope = view.InTab(tab.ID)
	}

	order := c.lib.Order()
	if opts.Order != "" {
		o, ok := view.ParseOrder(opts.Order)
		if !ok {
			return fmt.Errorf("unknown order %q (use newest or oldest)", opts.Order)
		}
		order = o
	}

	page := view.Page{Limit: max(opts.Limit, 0)}
	if opts.Page > 1 && page.Limit > 0 {
		page.Offset = (opts.Page - 1) * page.Limit
	}

	v := c.lib.Query(criteria, order, page)
	if criteria.Scope.Kind == view.ScopePlatform && v.Criteria.Scope.Kind == view.ScopeAll {
		c.printf("%sUnknown platform %q, showing all links.%s\n", colorDim, criteria.Scope.Value, colorReset)
	}
	c.printf("%s\n", formatCounts(v.Counts))

	if len(v.Links) == 0 {
		c.printf("%s\n", emptyMessage(v.Empty))
		return nil
	}

	c.printLinksTable(v.Links)
	if page.HasMore(v.Total) {
		c.printf("%sShowing %d-%d of %d. Use --page %d for more.%s\n", colorDim,
			page.Offset+1, page.Offset+len(v.Links), v.Total, max(opts.Page, 1)+1, colorReset)
	}
	return nil
}

func emptyMessage(state view.EmptyState) string {
	switch state {
	case view.EmptyNoData:
		return "No links saved yet. Add one with 'shelf add <url>'."
	case view.EmptyTab:
		return "This tab is empty. Add links with 'shelf tab add <tab> <id>'."
	case view.EmptyNoMatch:
		return "No links match these filters."
	default:
		return "No links on this page."
	}
}

// Open opens a link in the default browser and records the visit.
func (c *Commands) Open(ctx context.Context, id string) error {
	link, err := c.lib.Link(id)
	if err != nil {
		return c.handleNotFound(err, id, "get link")
	}

	if err := c.OpenURL(link.URL); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	if _, err := c.lib.MarkViewed(ctx, id); err != nil {
		return c.handleNotFound(err, id, "mark viewed")
	}

	c.printf("%sOpened:%s %s%s%s\n", colorGreen, colorReset, colorCyan, link.URL, colorReset)
	return nil
}

func openInBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
	return cmd.Run()
}

// Title renames a link.
func (c *Commands) Title(ctx context.Context, id, title string) error {
	link, err := c.lib.UpdateTitle(ctx, id, title)
	if err != nil {
		return c.handleNotFound(err, id, "update title")
	}
	c.printf("%sRenamed%s link %s%s%s to %q.\n", colorGreen, colorReset, colorBold, link.ID, colorReset, link.Title)
	return nil
}

// Category recategorises a link.
func (c *Commands) Category(ctx context.Context, id, category string) error {
	link, err := c.lib.UpdateCategory(ctx, id, category)
	if err != nil {
		return c.handleNotFound(err, id, "update category")
	}
	c.printf("%sMoved%s link %s%s%s to category %q.\n", colorGreen, colorReset, colorBold, link.ID, colorReset, link.Category)
	return nil
}

// Remove deletes one or more links.
func (c *Commands) Remove(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return fmt.Errorf("at least one ID required")
	}

	var deleted []string
	var failed []string

	for _, id := range ids {
		if err := c.lib.RemoveLink(ctx, id); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				msg := fmt.Sprintf("%s (not found)", id)
				if suggestion := c.suggestID(id); suggestion != "" {
					msg += fmt.Sprintf(" - %sDid you mean:%s %s%s%s?", colorYellow, colorReset, colorBold, suggestion, colorReset)
				}
				failed = append(failed, msg)
			} else {
				failed = append(failed, fmt.Sprintf("%s (%v)", id, err))
			}
			continue
		}
		deleted = append(deleted, id)
	}

	if len(deleted) == 1 {
		c.printf("%sDeleted%s link %s%s%s.\n", colorRed, colorReset, colorBold, deleted[0], colorReset)
	} else if len(deleted) > 1 {
		c.printf("%sDeleted%s %d link(s): %s%s%s\n", colorRed, colorReset, len(deleted), colorBold, strings.Join(deleted, ", "), colorReset)
	}

	if len(failed) > 0 {
		return fmt.Errorf("failed to delete: %s", strings.Join(failed, ", "))
	}
	return nil
}

// TagAdd attaches tags to a link.
func (c *Commands) TagAdd(ctx context.Context, id string, names ...string) error {
	for _, name := range names {
		tag, added, err := c.lib.AddTag(ctx, id, name)
		if err != nil {
			if errors.Is(err, model.ErrInvalidArgument) {
				return fmt.Errorf("invalid tag %q", name)
			}
			return c.handleNotFound(err, id, "add tag")
		}
		if added {
			c.printf("%sTagged%s %s%s%s with %s%s%s.\n", colorGreen, colorReset, colorBold, id, colorReset, colorYellow, tag.Name, colorReset)
		} else {
			c.printf("%sAlready tagged%s %s%s%s with %s%s%s.\n", colorDim, colorReset, colorBold, id, colorReset, colorYellow, tag.Name, colorReset)
		}
	}
	return nil
}

// TagRemove detaches tags from a link by name.
func (c *Commands) TagRemove(ctx context.Context, id string, names ...string) error {
	if _, err := c.lib.Link(id); err != nil {
		return c.handleNotFound(err, id, "remove tag")
	}
	for _, name := range names {
		if err := c.lib.RemoveTagByName(ctx, id, name); err != nil {
			return fmt.Errorf("remove tag: %w", err)
		}
		c.printf("%sUntagged%s %s%s%s: %s\n", colorRed, colorReset, colorBold, id, colorReset, name)
	}
	return nil
}

// Tags lists distinct tag names with counts.
func (c *Commands) Tags() error {
	summary := c.lib.TagSummary()
	if len(summary) == 0 {
		c.printf("No tags yet.\n")
		return nil
	}
	for _, tc := range summary {
		c.printf("%s%-20s%s %d\n", colorYellow, tc.Name, colorReset, tc.Count)
	}
	return nil
}

// TabCreate creates a custom tab.
func (c *Commands) TabCreate(ctx context.Context, req store.TabRequest) error {
	tab, err := c.lib.CreateTab(ctx, req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidArgument) {
			return fmt.Errorf("invalid tab: name is required and must be at most 64 characters")
		}
		return fmt.Errorf("create tab: %w", err)
	}
	c.printf("%sCreated%s tab %s%s%s (%s).\n", colorGreen, colorReset, colorBold, tab.Name, colorReset, tab.ID)
	return nil
}

// TabDelete removes a tab. Its links stay saved.
func (c *Commands) TabDelete(ctx context.Context, ref string) error {
	if err := c.lib.DeleteTab(ctx, ref); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return fmt.Errorf("tab %q not found", ref)
		}
		return fmt.Errorf("delete tab: %w", err)
	}
	c.printf("%sDeleted%s tab %s%s%s.\n", colorRed, colorReset, colorBold, ref, colorReset)
	return nil
}

// TabAdd puts links into a tab.
func (c *Commands) TabAdd(ctx context.Context, ref string, ids ...string) error {
	if _, err := c.lib.Tab(ref); err != nil {
		return fmt.Errorf("tab %q not found", ref)
	}
	for _, id := range ids {
		added, err := c.lib.AddToTab(ctx, id, ref)
		if err != nil {
			return c.handleNotFound(err, id, "add to tab")
		}
		if added {
			c.printf("%sAdded%s %s%s%s to %s.\n", colorGreen, colorReset, colorBold, id, colorReset, ref)
		} else {
			c.printf("%sAlready in%s %s: %s%s%s\n", colorDim, colorReset, ref, colorBold, id, colorReset)
		}
	}
	return nil
}

// TabRemove takes links out of a tab.
func (c *Commands) TabRemove(ctx context.Context, ref string, ids ...string) error {
	if _, err := c.lib.Tab(ref); err != nil {
		return fmt.Errorf("tab %q not found", ref)
	}
	for _, id := range ids {
		removed, err := c.lib.RemoveFromTab(ctx, id, ref)
		if err != nil {
			return c.handleNotFound(err, id, "remove from tab")
		}
		if removed {
			c.printf("%sRemoved%s %s%s%s from %s.\n", colorRed, colorReset, colorBold, id, colorReset, ref)
		} else {
			c.printf("%sNot in%s %s: %s%s%s\n", colorDim, colorReset, ref, colorBold, id, colorReset)
		}
	}
	return nil
}

// TabList prints every custom tab with its size.
func (c *Commands) TabList() error {
	tabs := c.lib.Tabs()
	if len(tabs) == 0 {
		c.printf("No tabs yet. Create one with 'shelf tab create <name>'.\n")
		return nil
	}
	for _, tab := range tabs {
		c.printf("%s%s%s %s[%s]%s %d link(s) %s%s%s\n", colorBold, tab.Name, colorReset,
			colorDim, tab.Icon, colorReset, len(tab.LinkIDs), colorDim, tab.ID, colorReset)
		if tab.Description != "" {
			c.printf("  %s\n", tab.Description)
		}
	}
	return nil
}

// Export writes the whole collection as JSON.
func (c *Commands) Export(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(c.lib.Export()); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// Import merges a JSON export into the collection.
func (c *Commands) Import(ctx context.Context, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	var snap model.Snapshot
	if err := json.NewDecoder(file).Decode(&snap); err != nil {
		return fmt.Errorf("decode JSON: %w", err)
	}

	res, err := c.lib.Import(ctx, snap)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	c.printf("%sImported%s %s%d%s link(s), %d tag(s), %d tab(s), %d tab membership(s).\n",
		colorGreen, colorReset, colorBold, res.Links, colorReset, res.Tags, res.Tabs, res.Memberships)
	return nil
}
