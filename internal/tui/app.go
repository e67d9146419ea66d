package tui

import (
	"context"
	"fmt"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bunchhieng/shelf/internal/app"
	"github.com/bunchhieng/shelf/internal/model"
	"github.com/bunchhieng/shelf/internal/platform"
	"github.com/bunchhieng/shelf/internal/view"
)

// scopeEntry is one selectable badge in the header.
type scopeEntry struct {
	label string
	scope view.Scope
}

type appModel struct {
	lib     *app.Library
	openURL func(string) error

	scopes   []scopeEntry
	scopeIdx int
	tags     []string
	tagIdx   int // -1 when no tag filter is active

	selected      int
	searchQuery   string
	searchMode    bool
	confirmDelete bool
	deleteLinkID  string
	width         int
	height        int
	statusMsg     string
}

type statusMsg struct {
	message string
}

type clearStatusMsg struct{}

func initialModel(lib *app.Library, openURL func(string) error) appModel {
	lib.SetPage(view.Page{})
	m := appModel{
		lib:     lib,
		openURL: openURL,
		tagIdx:  -1,
		width:   80,
		height:  24,
	}
	m.rebuildScopes()
	return m
}

func (m appModel) Init() tea.Cmd {
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.confirmDelete {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			return m.handleDeleteConfirmation(keyMsg)
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case statusMsg:
		m.statusMsg = msg.message
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		return m, nil

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchInput(msg)
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "j", "down":
			m.moveDown()

		case "k", "up":
			m.moveUp()

		case "g":
			m.selected = 0

		case "G":
			m.selected = max(len(m.lib.View().Links)-1, 0)

		case "tab":
			m.scopeIdx = (m.scopeIdx + 1) % len(m.scopes)
			m.applyCriteria()

		case "shift+tab":
			m.scopeIdx = (m.scopeIdx + len(m.scopes) - 1) % len(m.scopes)
			m.applyCriteria()

		case "t":
			if len(m.tags) > 0 {
				m.tagIdx++
				if m.tagIdx >= len(m.tags) {
					m.tagIdx = -1
				}
				m.applyCriteria()
			}

		case "s":
			if m.lib.Order() == view.Newest {
				m.lib.SetOrder(view.Oldest)
			} else {
				m.lib.SetOrder(view.Newest)
			}
			m.clampSelection()

		case "c":
			m.scopeIdx = 0
			m.tagIdx = -1
			m.searchQuery = ""
			m.applyCriteria()

		case "/":
			m.searchMode = true

		case "esc":
			m.searchQuery = ""
			m.applyCriteria()

		case "o", "enter":
			return m, m.openLink()

		case "r":
			m.promptDelete()

		case "?":
			return m, status("q=quit j/k=nav tab=scope t=tag s=sort /=search c=clear o=open r=remove")
		}
	}

	return m, nil
}

func status(message string) tea.Cmd {
	return func() tea.Msg { return statusMsg{message} }
}

func (m *appModel) moveDown() {
	if m.selected < len(m.lib.View().Links)-1 {
		m.selected++
	}
}

func (m *appModel) moveUp() {
	if m.selected > 0 {
		m.selected--
	}
}

func (m *appModel) clampSelection() {
	n := len(m.lib.View().Links)
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// rebuildScopes refreshes the scope badges and tag list after the
// collection changed, keeping the current selections where they still exist.
func (m *appModel) rebuildScopes() {
	var current view.Scope
	if m.scopeIdx < len(m.scopes) {
		current = m.scopes[m.scopeIdx].scope
	}
	var currentTag string
	if m.tagIdx >= 0 && m.tagIdx < len(m.tags) {
		currentTag = m.tags[m.tagIdx]
	}

	counts := view.Counts(m.lib.Links())
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
		if a < b {
			return -1
		}
		return 1
	})

	m.scopes = []scopeEntry{{label: "All", scope: view.All()}}
	for _, p := range platforms {
		m.scopes = append(m.scopes, scopeEntry{
			label: platform.DisplayName(model.Platform(p)),
			scope: view.OnPlatform(model.Platform(p)),
		})
	}
	for _, tab := range m.lib.Tabs() {
		m.scopes = append(m.scopes, scopeEntry{label: "#" + tab.Name, scope: view.InTab(tab.ID)})
	}

	m.scopeIdx = slices.IndexFunc(m.scopes, func(e scopeEntry) bool { return e.scope == current })
	if m.scopeIdx < 0 {
		m.scopeIdx = 0
	}

	m.tags = m.tags[:0]
	for _, tc := range m.lib.TagSummary() {
		m.tags = append(m.tags, tc.Name)
	}
	m.tagIdx = slices.Index(m.tags, currentTag)
	m.applyCriteria()
}

func (m *appModel) applyCriteria() {
	c := view.Criteria{Scope: m.scopes[m.scopeIdx].scope, Search: m.searchQuery}
	if m.tagIdx >= 0 {
		c.Tag = m.tags[m.tagIdx]
	}
	m.lib.SetCriteria(c)
	m.clampSelection()
}

func (m *appModel) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchMode = false
		m.searchQuery = ""
		m.applyCriteria()

	case "enter":
		m.searchMode = false

	case "backspace":
		if len(m.searchQuery) > 0 {
			runes := []rune(m.searchQuery)
			m.searchQuery = string(runes[:len(runes)-1])
			m.applyCriteria()
		}

	default:
		if len(msg.Runes) > 0 {
			m.searchQuery += string(msg.Runes)
			m.applyCriteria()
		}
	}
	return m, nil
}

func (m *appModel) current() (model.Link, bool) {
	links := m.lib.View().Links
	if len(links) == 0 || m.selected >= len(links) {
		return model.Link{}, false
	}
	return links[m.selected], true
}

func (m *appModel) openLink() tea.Cmd {
	link, ok := m.current()
	if !ok {
		return nil
	}
	if err := m.openURL(link.URL); err != nil {
		return status(fmt.Sprintf("Error: %v", err))
	}
	if _, err := m.lib.MarkViewed(context.Background(), link.ID); err != nil {
		return status(fmt.Sprintf("Error: %v", err))
	}
	return status(fmt.Sprintf("Opened: %s", link.URL))
}

func (m *appModel) promptDelete() {
	link, ok := m.current()
	if !ok {
		return
	}
	m.confirmDelete = true
	m.deleteLinkID = link.ID
}

func (m appModel) handleDeleteConfirmation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.confirmDelete = false
		linkID := m.deleteLinkID
		m.deleteLinkID = ""
		if err := m.lib.RemoveLink(context.Background(), linkID); err != nil {
			return m, status(fmt.Sprintf("Error: %v", err))
		}
		m.rebuildScopes()
		return m, status("Deleted link")

	case "n", "N", "esc":
		m.confirmDelete = false
		m.deleteLinkID = ""
	}
	return m, nil
}

// Run starts the interactive browser. openURL launches a browser.
func Run(lib *app.Library, openURL func(string) error) error {
	p := tea.NewProgram(initialModel(lib, openURL), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
