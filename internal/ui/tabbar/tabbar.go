// Package tabbar renders the open-document tab strip.
package tabbar

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/truncate"

	"github.com/Wraith29/harmony/internal/ui/styles"
)

// maxTitleWidth caps a single tab's title before truncation kicks in.
const maxTitleWidth = 24

// zoneTabPrefix is the prefix for tab zone IDs.
const zoneTabPrefix = "tabbar-tab:"

// makeTabZoneID creates a zone ID for a tab by position.
func makeTabZoneID(index int) string {
	return fmt.Sprintf("%s%d", zoneTabPrefix, index)
}

// Tab is one entry in the strip.
type Tab struct {
	ID    uuid.UUID
	Title string
	Dirty bool
}

// Model holds the tab strip state.
type Model struct {
	tabs   []Tab
	active int
	width  int
}

// New creates an empty tab strip.
func New() Model {
	return Model{active: -1}
}

// SetWidth sets the render width.
func (m *Model) SetWidth(width int) { m.width = width }

// Tabs returns the current tabs in order.
func (m Model) Tabs() []Tab { return m.tabs }

// Count returns the number of open tabs.
func (m Model) Count() int { return len(m.tabs) }

// ActiveIndex returns the active tab position, or -1 when empty.
func (m Model) ActiveIndex() int { return m.active }

// Active returns the active tab and whether one exists.
func (m Model) Active() (Tab, bool) {
	if m.active < 0 || m.active >= len(m.tabs) {
		return Tab{}, false
	}
	return m.tabs[m.active], true
}

// Add appends a tab and makes it active. Adding an ID that is already open
// activates the existing tab instead.
func (m *Model) Add(tab Tab) {
	for i, t := range m.tabs {
		if t.ID == tab.ID {
			m.active = i
			return
		}
	}
	m.tabs = append(m.tabs, tab)
	m.active = len(m.tabs) - 1
}

// Remove closes the tab at index. The neighbour to the left becomes active.
func (m *Model) Remove(index int) {
	if index < 0 || index >= len(m.tabs) {
		return
	}
	m.tabs = append(m.tabs[:index], m.tabs[index+1:]...)
	switch {
	case len(m.tabs) == 0:
		m.active = -1
	case m.active > index:
		m.active = m.active - 1
	case m.active >= len(m.tabs):
		m.active = len(m.tabs) - 1
	}
}

// Activate makes the tab at index active.
func (m *Model) Activate(index int) {
	if index >= 0 && index < len(m.tabs) {
		m.active = index
	}
}

// Next cycles to the tab after the active one.
func (m *Model) Next() {
	if len(m.tabs) > 0 {
		m.active = (m.active + 1) % len(m.tabs)
	}
}

// Prev cycles to the tab before the active one.
func (m *Model) Prev() {
	if len(m.tabs) > 0 {
		m.active = (m.active - 1 + len(m.tabs)) % len(m.tabs)
	}
}

// SetDirty updates the dirty marker for the tab holding id.
func (m *Model) SetDirty(id uuid.UUID, dirty bool) {
	for i := range m.tabs {
		if m.tabs[i].ID == id {
			m.tabs[i].Dirty = dirty
			return
		}
	}
}

// ClickedTab resolves a mouse click to a tab index, or -1 when the click
// landed outside every tab zone.
func (m Model) ClickedTab(msg tea.MouseMsg) int {
	for i := range m.tabs {
		if z := zone.Get(makeTabZoneID(i)); z != nil && z.InBounds(msg) {
			return i
		}
	}
	return -1
}

// View renders the strip. Each tab is wrapped in a bubblezone mark so clicks
// can be resolved back to an index.
func (m Model) View() string {
	if len(m.tabs) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		title := truncate.StringWithTail(tab.Title, maxTitleWidth, "…")
		if tab.Dirty {
			title += styles.TabDirtyStyle.Render(" ●")
		}

		style := styles.TabInactiveStyle
		if i == m.active {
			style = styles.TabActiveStyle
		}
		rendered = append(rendered, zone.Mark(makeTabZoneID(i), style.Render(title)))
	}

	bar := strings.Join(rendered, lipgloss.NewStyle().Foreground(styles.BorderDefaultColor).Render("│"))
	if m.width > 0 {
		bar = truncate.String(bar, uint(m.width))
	}
	return bar
}
