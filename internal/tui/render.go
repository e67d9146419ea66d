package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bunchhieng/shelf/internal/model"
	"github.com/bunchhieng/shelf/internal/platform"
	"github.com/bunchhieng/shelf/internal/view"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	activeBadgeStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("62")).
				Foreground(lipgloss.Color("230")).
				Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1)

	freshStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	searchStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1)
)

func (m appModel) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderScopes())
	b.WriteString("\n")
	b.WriteString(m.renderFilters())
	b.WriteString("\n\n")
	b.WriteString(m.renderList())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m appModel) renderHeader() string {
	v := m.lib.View()
	header := fmt.Sprintf("shelf  [%d of %d links]", v.Total, len(m.lib.Links()))
	return headerStyle.Render(header)
}

func (m appModel) renderScopes() string {
	counts := m.lib.View().Counts
	badges := make([]string, 0, len(m.scopes))
	for i, e := range m.scopes {
		label := e.label
		switch e.scope.Kind {
		case view.ScopeAll:
			label = fmt.Sprintf("%s %d", label, counts[view.CountAll])
		case view.ScopePlatform:
			label = fmt.Sprintf("%s %d", label, counts[e.scope.Value])
		}
		if i == m.scopeIdx {
			badges = append(badges, activeBadgeStyle.Render(label))
		} else {
			badges = append(badges, badgeStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, badges...)
}

func (m appModel) renderFilters() string {
	if m.searchMode {
		return searchStyle.Width(m.width - 2).Render("/" + m.searchQuery)
	}

	parts := []string{"sort: " + string(m.lib.Order())}
	if m.tagIdx >= 0 {
		parts = append(parts, "tag: "+m.tags[m.tagIdx])
	}
	if m.searchQuery != "" {
		parts = append(parts, fmt.Sprintf("search: %q", m.searchQuery))
	}
	return dimStyle.Render(" " + strings.Join(parts, "  "))
}

func (m appModel) renderList() string {
	if m.confirmDelete {
		return m.renderDeleteConfirmation()
	}

	v := m.lib.View()
	if v.Empty != view.EmptyNone {
		return dimStyle.Render(" " + emptyMessage(v.Empty))
	}

	var b strings.Builder
	listHeight := m.height - 7

	// keep the selection visible
	start := 0
	if m.selected >= listHeight && listHeight > 0 {
		start = m.selected - listHeight + 1
	}

	for i := start; i < len(v.Links) && i-start < listHeight; i++ {
		b.WriteString(m.renderLink(v.Links[i], i == m.selected))
		b.WriteString("\n")
	}

	return b.String()
}

func emptyMessage(state view.EmptyState) string {
	switch state {
	case view.EmptyNoData:
		return "No links saved yet. Add one with 'shelf add <url>'."
	case view.EmptyTab:
		return "This tab is empty. Add links with 'shelf tab add <tab> <id>'."
	default:
		return "No links match these filters. Press 'c' to clear them."
	}
}

func (m appModel) renderLink(link model.Link, selected bool) string {
	statusIcon := "○"
	statusColor := freshStyle
	if link.Viewed() {
		statusIcon = "●"
		statusColor = dimStyle
	}

	title := link.DisplayTitle()
	if len(title) > 60 {
		title = title[:57] + "..."
	}

	tagsStr := ""
	if names := m.lib.TagNames(link.ID); len(names) > 0 {
		tagsStr = fmt.Sprintf(" [%s]", strings.Join(names, ", "))
	}

	line := fmt.Sprintf("%s %-8s %s %s%s",
		statusColor.Render(statusIcon),
		platform.DisplayName(link.Platform),
		titleStyle.Render(title),
		dimStyle.Render(formatTime(link.CreatedAt)),
		tagStyle.Render(tagsStr),
	)

	if selected {
		return selectedStyle.Render(line)
	}
	return " " + line
}

func (m appModel) renderStatusBar() string {
	var parts []string

	if m.statusMsg != "" {
		parts = append(parts, m.statusMsg)
	} else if n := len(m.lib.View().Links); n > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d", m.selected+1, n))
	}

	parts = append(parts, "[o]pen [r]emove [tab]scope [t]ag [s]ort [/]search [q]uit")

	return statusBarStyle.Width(m.width).Render(strings.Join(parts, "  |  "))
}

func (m appModel) renderDeleteConfirmation() string {
	var linkTitle string
	if link, err := m.lib.Link(m.deleteLinkID); err == nil {
		linkTitle = link.DisplayTitle()
		if len(linkTitle) > 50 {
			linkTitle = linkTitle[:47] + "..."
		}
	}

	confirmText := fmt.Sprintf("Delete link: %s?\n\n[y]es / [n]o", linkTitle)
	return selectedStyle.Width(m.width-4).Padding(1, 2).Render(confirmText)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
