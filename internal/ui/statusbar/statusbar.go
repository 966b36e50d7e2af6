// Package statusbar renders the bottom status line.
package statusbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/Wraith29/harmony/internal/report"
	"github.com/Wraith29/harmony/internal/ui/styles"
)

// Model holds the status bar state.
type Model struct {
	width int

	language string
	theme    string
	line     int
	col      int
	dirty    bool

	latest      *report.Report
	lastMessage string
}

// New creates an empty status bar.
func New() Model {
	return Model{}
}

// SetWidth sets the render width.
func (m *Model) SetWidth(width int) { m.width = width }

// SetPosition updates the cursor indicator (0-based in, 1-based out).
func (m *Model) SetPosition(line, col int) {
	m.line = line + 1
	m.col = col + 1
}

// SetContext updates the language, theme and dirty indicators.
func (m *Model) SetContext(language, theme string, dirty bool) {
	m.language = language
	m.theme = theme
	m.dirty = dirty
}

// ShowReport displays a warning. Consecutive duplicates of the same message
// are dropped so a per-keystroke warning does not flicker.
func (m *Model) ShowReport(r report.Report) {
	if r.Message == m.lastMessage {
		return
	}
	m.lastMessage = r.Message
	m.latest = &r
}

// ClearReport removes the displayed warning.
func (m *Model) ClearReport() {
	m.latest = nil
	m.lastMessage = ""
}

// Report returns the currently displayed warning, if any.
func (m Model) Report() (report.Report, bool) {
	if m.latest == nil {
		return report.Report{}, false
	}
	return *m.latest, true
}

// View renders the bar: position and context on the left, the latest
// warning on the right.
func (m Model) View() string {
	dirtyMark := ""
	if m.dirty {
		dirtyMark = " [+]"
	}
	left := fmt.Sprintf(" %d:%d  %s  %s%s", m.line, m.col, m.language, m.theme, dirtyMark)

	right := ""
	if m.latest != nil {
		right = styles.StatusWarningStyle.Render(
			fmt.Sprintf("%s: %s ", m.latest.Kind, m.latest.Message))
	}

	if m.width <= 0 {
		return left + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return truncate.String(left+" "+right, uint(m.width))
	}
	return left + strings.Repeat(" ", gap) + right
}
