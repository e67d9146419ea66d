package cli

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bunchhieng/shelf/internal/model"
	"github.com/bunchhieng/shelf/internal/platform"
	"github.com/bunchhieng/shelf/internal/view"
)

const (
	maxTitleLen    = 48
	maxTagsLen     = 30
	maxPlatformLen = 10
	ellipsisLen    = 3
)

type column struct {
	header string
	width  int
	color  string
}

func (c *Commands) printLinksTable(links []model.Link) {
	rows := make([][]string, len(links))
	for i, link := range links {
		rows[i] = []string{
			link.ID,
			platform.DisplayName(link.Platform),
			link.DisplayTitle(),
			formatTime(link.CreatedAt),
			strings.Join(c.lib.TagNames(link.ID), ","),
		}
	}

	cols := []column{
		{header: "ID", color: colorBold + colorCyan},
		{header: "PLATFORM", color: colorCyan},
		{header: "TITLE"},
		{header: "CREATED", color: colorDim},
		{header: "TAGS", color: colorYellow},
	}
	limits := []int{0, maxPlatformLen, maxTitleLen, 0, maxTagsLen}

	for i := range cols {
		cols[i].width = len(cols[i].header)
		for _, row := range rows {
			n := len(row[i])
			if limits[i] > 0 {
				n = min(n, limits[i])
			}
			cols[i].width = max(cols[i].width, n)
		}
	}

	// each column is padded by one space on both sides, plus a separator between columns
	totalWidth := len(cols) - 1
	for _, col := range cols {
		totalWidth += col.width + 2
	}

	c.printf("%s┌%s┐%s\n", colorDim, strings.Repeat("─", totalWidth), colorReset)

	var header strings.Builder
	for _, col := range cols {
		fmt.Fprintf(&header, "%s│%s %s%-*s%s ", colorDim, colorReset, colorBold, col.width, col.header, colorReset)
	}
	c.printf("%s%s│%s\n", header.String(), colorDim, colorReset)

	segments := make([]string, len(cols))
	for i, col := range cols {
		segments[i] = strings.Repeat("─", col.width+2)
	}
	c.printf("%s├%s┤%s\n", colorDim, strings.Join(segments, "┼"), colorReset)

	for _, row := range rows {
		var line strings.Builder
		for i, col := range cols {
			fmt.Fprintf(&line, "%s│%s %s%-*s%s ", colorDim, colorReset, col.color, col.width, truncateString(row[i], col.width), colorReset)
		}
		c.printf("%s%s│%s\n", line.String(), colorDim, colorReset)
	}

	c.printf("%s└%s┘%s\n", colorDim, strings.Repeat("─", totalWidth), colorReset)
}

// formatCounts renders the per-platform badges, biggest first.
func formatCounts(counts map[string]int) string {
	platforms := make([]string, 0, len(counts))
	for p := range counts {
		if p != view.CountAll {
			platforms = append(platforms, p)
		}
	}
	slices.SortFunc(platforms, func(a, b string) int {
		if counts[a] != counts[b] {
			return counts[b] - counts[a]
		}
		return strings.Compare(a, b)
	})

	parts := []string{fmt.Sprintf("%sAll%s %d", colorBold, colorReset, counts[view.CountAll])}
	for _, p := range platforms {
		parts = append(parts, fmt.Sprintf("%s %d", platform.DisplayName(model.Platform(p)), counts[p]))
	}
	return strings.Join(parts, "  ")
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= ellipsisLen {
		return s[:maxLen]
	}
	return s[:maxLen-ellipsisLen] + "..."
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
