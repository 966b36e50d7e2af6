package editor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/Wraith29/harmony/internal/document"
	"github.com/Wraith29/harmony/internal/report"
	"github.com/Wraith29/harmony/internal/syntax"
)

func testHighlighter(t *testing.T) *syntax.Highlighter {
	t.Helper()
	grammar := syntax.CompileGrammar("py", syntax.GrammarFile{
		Keywords: []string{"def", "return"},
		Comment:  "#",
		Multiline: &syntax.MultilineDelims{
			Start: `'''`,
			End:   `'''`,
		},
	}, report.Discard{})
	theme := syntax.NewTheme("test", map[syntax.Category]syntax.Style{
		syntax.CategoryKeyword:    {Colour: "#CBA6F7"},
		syntax.CategoryOperator:   {Colour: "#F38BA8"},
		syntax.CategoryBrace:      {Colour: "#89B4FA"},
		syntax.CategorySpecial:    {Colour: "#FAB387"},
		syntax.CategoryDefinition: {Colour: "#94E2D5"},
		syntax.CategoryString:     {Colour: "#F9E2AF"},
		syntax.CategoryComment:    {Colour: "#6C7086", Italic: true},
		syntax.CategoryMultiline:  {Colour: "#6C7086", Italic: true},
	})
	return syntax.NewHighlighter(grammar, theme, report.Discard{})
}

func testEditor(t *testing.T, content string) Model {
	t.Helper()
	hl := testHighlighter(t)
	doc := document.New("test.py", "py", content, hl)
	m := New(doc, hl.Theme(), 4)
	m.SetSize(80, 24)
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func TestUpdate_InsertRunes(t *testing.T) {
	m := testEditor(t, "def f():")

	m, _ = m.Update(keyRunes("x"))

	require.Equal(t, "xdef f():", m.Document().Line(0))
	row, col := m.Cursor()
	require.Equal(t, 0, row)
	require.Equal(t, 1, col)
}

func TestUpdate_TabInsertsSpaces(t *testing.T) {
	m := testEditor(t, "pass")

	m, _ = m.Update(key(tea.KeyTab))

	require.Equal(t, "    pass", m.Document().Line(0))
	_, col := m.Cursor()
	require.Equal(t, 4, col)
}

func TestUpdate_EnterSplitsLine(t *testing.T) {
	m := testEditor(t, "def f():")
	for i := 0; i < 3; i++ {
		m, _ = m.Update(key(tea.KeyRight))
	}

	m, _ = m.Update(key(tea.KeyEnter))

	require.Equal(t, 2, m.Document().LineCount())
	require.Equal(t, "def", m.Document().Line(0))
	require.Equal(t, " f():", m.Document().Line(1))
	row, col := m.Cursor()
	require.Equal(t, 1, row)
	require.Equal(t, 0, col)
}

func TestUpdate_BackspaceAtLineStartJoins(t *testing.T) {
	m := testEditor(t, "abc\ndef")
	m, _ = m.Update(key(tea.KeyDown))

	m, _ = m.Update(key(tea.KeyBackspace))

	require.Equal(t, 1, m.Document().LineCount())
	require.Equal(t, "abcdef", m.Document().Line(0))
	row, col := m.Cursor()
	require.Equal(t, 0, row)
	require.Equal(t, 3, col)
}

func TestUpdate_DeleteAtLineEndJoins(t *testing.T) {
	m := testEditor(t, "abc\ndef")
	m, _ = m.Update(key(tea.KeyEnd))

	m, _ = m.Update(key(tea.KeyDelete))

	require.Equal(t, 1, m.Document().LineCount())
	require.Equal(t, "abcdef", m.Document().Line(0))
}

func TestUpdate_EditRetriggersHighlight(t *testing.T) {
	m := testEditor(t, "x = 1")

	m, _ = m.Update(key(tea.KeyHome))
	for _, r := range "def " {
		m, _ = m.Update(keyRunes(string(r)))
	}

	spans := m.Document().Spans(0)
	require.NotEmpty(t, spans)
	require.Equal(t, syntax.CategoryKeyword, spans[0].Category)
	require.Equal(t, 0, spans[0].Start)
	require.Equal(t, 3, spans[0].Len)
}

func TestUpdate_OpeningCommentCascades(t *testing.T) {
	m := testEditor(t, "a\nb\nc")

	m, _ = m.Update(keyRunes("'"))
	m, _ = m.Update(keyRunes("'"))
	m, _ = m.Update(keyRunes("'"))

	require.Equal(t, syntax.InsideComment, m.Document().State(0))
	require.Equal(t, syntax.InsideComment, m.Document().State(2))
}

func TestUpdate_BlurredEditorIgnoresKeys(t *testing.T) {
	m := testEditor(t, "abc")
	m.Blur()

	m, _ = m.Update(keyRunes("x"))

	require.Equal(t, "abc", m.Document().Line(0))
}

func TestView_ShowsTildeBeyondEOF(t *testing.T) {
	m := testEditor(t, "only line")
	m.SetSize(40, 3)

	view := m.View()

	require.Contains(t, view, "only line")
	require.Contains(t, view, "~")
}

func TestView_ScrollFollowsCursor(t *testing.T) {
	m := testEditor(t, "l0\nl1\nl2\nl3\nl4\nl5")
	m.SetSize(40, 2)

	for i := 0; i < 5; i++ {
		m, _ = m.Update(key(tea.KeyDown))
	}

	view := m.View()
	require.Contains(t, view, "l5")
	require.NotContains(t, view, "l0")
}

func TestCursorScreenCol_WideRunes(t *testing.T) {
	m := testEditor(t, "日本")
	m, _ = m.Update(key(tea.KeyRight))

	require.Equal(t, 2, m.CursorScreenCol())
}
