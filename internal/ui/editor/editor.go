// Package editor renders and edits a single open document.
package editor

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Wraith29/harmony/internal/document"
	"github.com/Wraith29/harmony/internal/syntax"
	"github.com/Wraith29/harmony/internal/ui/styles"
)

// Model holds the editor pane state for one document.
type Model struct {
	doc    *document.Document
	theme  *syntax.Theme
	chrome styles.Chrome

	row int // Cursor line index
	col int // Cursor rune index within the line

	scrollTop int
	width     int
	height    int
	tabWidth  int
	focused   bool
}

// New creates an editor over doc.
func New(doc *document.Document, theme *syntax.Theme, tabWidth int) Model {
	if tabWidth < 1 {
		tabWidth = 4
	}
	return Model{
		doc:      doc,
		theme:    theme,
		chrome:   styles.ChromeFromTheme(theme),
		tabWidth: tabWidth,
		focused:  true,
	}
}

// Document returns the document being edited.
func (m Model) Document() *document.Document { return m.doc }

// SetTheme swaps the theme used for span rendering.
func (m *Model) SetTheme(theme *syntax.Theme) {
	m.theme = theme
	m.chrome = styles.ChromeFromTheme(theme)
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.ensureCursorVisible()
}

// Focus enables cursor rendering and key handling.
func (m *Model) Focus() { m.focused = true }

// Blur disables cursor rendering and key handling.
func (m *Model) Blur() { m.focused = false }

// Focused reports whether the editor has input focus.
func (m Model) Focused() bool { return m.focused }

// Cursor returns the cursor position as (line, rune column).
func (m Model) Cursor() (int, int) { return m.row, m.col }

// Update handles key input.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyRunes, tea.KeySpace:
		text := string(keyMsg.Runes)
		if keyMsg.Type == tea.KeySpace {
			text = " "
		}
		m.insertText(text)
	case tea.KeyTab:
		m.insertText(strings.Repeat(" ", m.tabWidth))
	case tea.KeyEnter:
		m.doc.SplitLine(m.row, m.byteCol())
		m.row++
		m.col = 0
	case tea.KeyBackspace:
		m.backspace()
	case tea.KeyDelete:
		m.deleteForward()
	case tea.KeyUp:
		m.moveCursor(-1, 0)
	case tea.KeyDown:
		m.moveCursor(1, 0)
	case tea.KeyLeft:
		m.moveLeft()
	case tea.KeyRight:
		m.moveRight()
	case tea.KeyHome:
		m.col = 0
	case tea.KeyEnd:
		m.col = len(m.lineRunes(m.row))
	case tea.KeyPgUp:
		m.moveCursor(-m.pageSize(), 0)
	case tea.KeyPgDown:
		m.moveCursor(m.pageSize(), 0)
	}

	m.ensureCursorVisible()
	return m, nil
}

// View renders the visible window of the document.
func (m Model) View() string {
	if m.doc == nil || m.height <= 0 {
		return ""
	}

	modified := m.doc.ModifiedLines()
	gutterWidth := numberWidth(m.doc.LineCount())

	var b strings.Builder
	for row := m.scrollTop; row < m.scrollTop+m.height; row++ {
		if row > m.scrollTop {
			b.WriteByte('\n')
		}
		if row >= m.doc.LineCount() {
			b.WriteString(styles.GutterStyle.Render("~"))
			continue
		}
		b.WriteString(m.renderGutter(row, gutterWidth, modified[row]))
		b.WriteString(m.renderLine(row))
	}
	return b.String()
}

func (m Model) renderGutter(row, gutterWidth int, modified bool) string {
	marker := " "
	if modified {
		marker = styles.GutterModifiedStyle.Render("▎")
	}
	number := fmt.Sprintf("%*d", gutterWidth, row+1)
	return marker + styles.GutterStyle.Render(number) + " "
}

// renderLine styles the line's spans and overlays the cursor cell.
func (m Model) renderLine(row int) string {
	text := m.doc.Line(row)
	spans := m.doc.Spans(row)

	cursorByte := -1
	if m.focused && row == m.row {
		cursorByte = m.byteCol()
	}

	var b strings.Builder
	pos := 0
	for _, span := range spans {
		if span.Start > pos {
			b.WriteString(m.renderSegment(text[pos:span.Start], m.chrome.Text, cursorByte-pos))
		}
		style := styles.SpanStyle(m.theme, span.Category)
		b.WriteString(m.renderSegment(text[span.Start:span.End()], style, cursorByte-span.Start))
		pos = span.End()
	}
	if pos < len(text) {
		b.WriteString(m.renderSegment(text[pos:], m.chrome.Text, cursorByte-pos))
	}
	if cursorByte == len(text) {
		b.WriteString(styles.CursorStyle.Render(" "))
	}
	return b.String()
}

// renderSegment styles one run of text, reversing the rune at cursorByte
// when it falls inside the segment.
func (m Model) renderSegment(text string, style lipgloss.Style, cursorByte int) string {
	if cursorByte < 0 || cursorByte >= len(text) {
		return style.Render(text)
	}

	runes := []rune(text[cursorByte:])
	cell := string(runes[0])
	after := string(runes[1:])

	var b strings.Builder
	if cursorByte > 0 {
		b.WriteString(style.Render(text[:cursorByte]))
	}
	b.WriteString(styles.CursorStyle.Inherit(style).Render(cell))
	if after != "" {
		b.WriteString(style.Render(after))
	}
	return b.String()
}

func (m *Model) insertText(text string) {
	runes := m.lineRunes(m.row)
	line := string(runes[:m.col]) + text + string(runes[m.col:])
	m.doc.OnLineChanged(m.row, line)
	m.col += len([]rune(text))
}

func (m *Model) backspace() {
	if m.col > 0 {
		runes := m.lineRunes(m.row)
		line := string(runes[:m.col-1]) + string(runes[m.col:])
		m.doc.OnLineChanged(m.row, line)
		m.col--
		return
	}
	if m.row > 0 {
		m.col = len(m.lineRunes(m.row - 1))
		m.doc.JoinLine(m.row - 1)
		m.row--
	}
}

func (m *Model) deleteForward() {
	runes := m.lineRunes(m.row)
	if m.col < len(runes) {
		line := string(runes[:m.col]) + string(runes[m.col+1:])
		m.doc.OnLineChanged(m.row, line)
		return
	}
	if m.row+1 < m.doc.LineCount() {
		m.doc.JoinLine(m.row)
	}
}

func (m *Model) moveLeft() {
	if m.col > 0 {
		m.col--
		return
	}
	if m.row > 0 {
		m.row--
		m.col = len(m.lineRunes(m.row))
	}
}

func (m *Model) moveRight() {
	if m.col < len(m.lineRunes(m.row)) {
		m.col++
		return
	}
	if m.row+1 < m.doc.LineCount() {
		m.row++
		m.col = 0
	}
}

// moveCursor moves the cursor by delta lines, clamping to bounds.
func (m *Model) moveCursor(deltaRow, deltaCol int) {
	m.row = clamp(m.row+deltaRow, 0, m.doc.LineCount()-1)
	m.col = clamp(m.col+deltaCol, 0, len(m.lineRunes(m.row)))
}

func (m *Model) ensureCursorVisible() {
	if m.height <= 0 {
		return
	}
	if m.row >= m.scrollTop+m.height {
		m.scrollTop = m.row - m.height + 1
	}
	if m.row < m.scrollTop {
		m.scrollTop = m.row
	}
	maxScroll := max(m.doc.LineCount()-m.height, 0)
	m.scrollTop = clamp(m.scrollTop, 0, maxScroll)

	if m.col > len(m.lineRunes(m.row)) {
		m.col = len(m.lineRunes(m.row))
	}
}

func (m Model) pageSize() int {
	if m.height > 1 {
		return m.height - 1
	}
	return 1
}

func (m Model) lineRunes(row int) []rune {
	return []rune(m.doc.Line(row))
}

// byteCol converts the cursor's rune column to a byte offset.
func (m Model) byteCol() int {
	runes := m.lineRunes(m.row)
	col := clamp(m.col, 0, len(runes))
	return len(string(runes[:col]))
}

// CursorScreenCol returns the display column of the cursor, accounting for
// wide runes.
func (m Model) CursorScreenCol() int {
	runes := m.lineRunes(m.row)
	col := clamp(m.col, 0, len(runes))
	return runewidth.StringWidth(string(runes[:col]))
}

func numberWidth(lineCount int) int {
	width := 1
	for lineCount >= 10 {
		lineCount /= 10
		width++
	}
	return width
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
