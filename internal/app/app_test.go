package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"github.com/Wraith29/harmony/internal/config"
	"github.com/Wraith29/harmony/internal/report"
	"github.com/Wraith29/harmony/internal/syntax"
	"github.com/Wraith29/harmony/internal/ui/filetree"
)

const pyGrammar = `keywords: [def, return, if, else]
operators: ['=', '\+']
braces: ['\(', '\)']
definitions: [def, class]
specials: [self, None]
comment: '#'
multiline:
  start: "'''"
  end: "'''"
`

const defaultThemeFile = `font: Fira Code
syntax:
  keyword: {colour: '#CBA6F7'}
  operator: {colour: '#F38BA8'}
  brace: {colour: '#89B4FA'}
  special: {colour: '#FAB387'}
  definition: {colour: '#94E2D5'}
  string: {colour: '#F9E2AF'}
  comment: {colour: '#6C7086', italic: true}
  multiline: {colour: '#6C7086', italic: true}
editor:
  background: '#1E1E2E'
  text:
    colour: '#CDD6F4'
`

func TestMain(m *testing.M) {
	zone.NewGlobal()
	m.Run()
}

func testConfig(t *testing.T) config.Config {
	t.Helper()

	workspace := t.TempDir()
	languages := filepath.Join(workspace, ".config", "languages")
	themes := filepath.Join(workspace, ".config", "themes")
	require.NoError(t, os.MkdirAll(languages, 0o750))
	require.NoError(t, os.MkdirAll(themes, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(languages, "py.lang"), []byte(pyGrammar), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(themes, "default.theme"), []byte(defaultThemeFile), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(workspace, "main.py"), []byte("def f():\n    return None\n"), 0o600))

	cfg := config.Defaults()
	cfg.Workspace = workspace
	cfg.LanguagesDir = languages
	cfg.ThemesDir = themes
	cfg.UI.LiveReload = false
	return cfg
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := New(Config{Cfg: testConfig(t)})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model)
}

func openMain(t *testing.T, m Model) Model {
	t.Helper()
	path := filepath.Join(m.cfg.Workspace, "main.py")
	updated, _ := m.Update(openFileMsgFor(path))
	return updated.(Model)
}

func openFileMsgFor(path string) tea.Msg {
	return filetree.OpenFileMsg{Path: path}
}

func TestNew_LoadsConfiguredTheme(t *testing.T) {
	m := New(Config{Cfg: testConfig(t)})
	require.Equal(t, "default", m.theme.Name)
}

func TestNew_MissingThemeFallsBack(t *testing.T) {
	cfg := testConfig(t)
	cfg.Theme = "nope"

	m := New(Config{Cfg: cfg})

	require.Equal(t, "fallback", m.theme.Name)
	_, ok := m.theme.Style(syntax.CategoryKeyword)
	require.True(t, ok)
}

func nextReport(t *testing.T, m Model) report.Report {
	t.Helper()
	select {
	case ev := <-m.reportSub:
		return ev.Payload
	case <-time.After(time.Second):
		t.Fatal("no report published")
		return report.Report{}
	}
}

func TestNew_MissingThemeReportsNotFound(t *testing.T) {
	cfg := testConfig(t)
	cfg.Theme = "nope"

	m := New(Config{Cfg: cfg})

	rep := nextReport(t, m)
	require.Equal(t, report.ConfigurationNotFound, rep.Kind)
	require.Contains(t, rep.Message, "nope")
}

func TestOpenFile_MissingGrammarReportsNotFound(t *testing.T) {
	m := newTestModel(t)
	path := filepath.Join(m.cfg.Workspace, "build.zig")
	require.NoError(t, os.WriteFile(path, []byte("const x = 1;\n"), 0o600))

	updated, _ := m.Update(openFileMsgFor(path))
	m = updated.(Model)

	require.Equal(t, 1, m.tabs.Count())
	require.Empty(t, m.active().doc.Spans(0))

	rep := nextReport(t, m)
	require.Equal(t, report.ConfigurationNotFound, rep.Kind)
	require.Contains(t, rep.Message, "zig")
}

func TestOpenFile_CreatesTabAndHighlights(t *testing.T) {
	m := openMain(t, newTestModel(t))

	require.Equal(t, 1, m.tabs.Count())
	tab, ok := m.tabs.Active()
	require.True(t, ok)
	require.Equal(t, "main.py", tab.Title)

	open := m.active()
	require.NotNil(t, open)
	require.Equal(t, "py", open.doc.Language())

	spans := open.doc.Spans(0)
	require.NotEmpty(t, spans)
	require.Equal(t, syntax.Span{Start: 0, Len: 3, Category: syntax.CategoryKeyword}, spans[0])

	cats := make([]syntax.Category, 0, len(spans))
	for _, s := range spans {
		cats = append(cats, s.Category)
	}
	require.Contains(t, cats, syntax.CategoryDefinition)
}

func TestOpenFile_SamePathActivatesExistingTab(t *testing.T) {
	m := openMain(t, newTestModel(t))
	m = openMain(t, m)

	require.Equal(t, 1, m.tabs.Count())
	require.Len(t, m.docs, 1)
}

func TestOpenFile_MissingFileReports(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(openFileMsgFor(filepath.Join(m.cfg.Workspace, "ghost.py")))
	m = updated.(Model)

	require.Equal(t, 0, m.tabs.Count())
}

func TestEditAndSave(t *testing.T) {
	m := openMain(t, newTestModel(t))

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("#")})
	m = updated.(Model)

	open := m.active()
	require.True(t, open.doc.Dirty())
	require.True(t, m.tabs.Tabs()[0].Dirty)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = updated.(Model)

	require.False(t, m.active().doc.Dirty())
	data, err := os.ReadFile(filepath.Join(m.cfg.Workspace, "main.py"))
	require.NoError(t, err)
	require.Equal(t, "#def f():\n    return None\n", string(data))
}

func TestCloseTab_ClosesDocument(t *testing.T) {
	m := openMain(t, newTestModel(t))
	doc := m.active().doc

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlW})
	m = updated.(Model)

	require.Equal(t, 0, m.tabs.Count())
	require.Empty(t, m.docs)
	require.True(t, doc.Closed())
}

func TestCloseTab_SavesDirtyBuffer(t *testing.T) {
	m := openMain(t, newTestModel(t))
	path := m.active().doc.Path()

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'#'}})
	m = updated.(Model)
	require.True(t, m.active().doc.Dirty())

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlW})
	m = updated.(Model)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "#def f():\n    return None\n", string(data))
}

func TestToggleTree_MovesFocus(t *testing.T) {
	m := openMain(t, newTestModel(t))
	require.True(t, m.active().ed.Focused())

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlB})
	m = updated.(Model)
	require.True(t, m.tree.Focused())

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlB})
	m = updated.(Model)
	require.True(t, m.active().ed.Focused())
}

func TestReportMsg_ReachesStatusBar(t *testing.T) {
	m := newTestModel(t)

	updated, cmd := m.Update(reportMsg(report.Report{
		Kind:    report.PatternCompileFailure,
		Message: "bad pattern",
	}))
	m = updated.(Model)

	require.NotNil(t, cmd) // re-arms the subscription
	r, ok := m.status.Report()
	require.True(t, ok)
	require.Equal(t, "bad pattern", r.Message)
}

func TestReload_SwapsTheme(t *testing.T) {
	m := openMain(t, newTestModel(t))

	midnight := []byte("syntax:\n  keyword: {colour: '#FFFFFF'}\n")
	require.NoError(t, os.WriteFile(
		filepath.Join(m.cfg.ThemesDir, "default.theme"), midnight, 0o600))

	updated, _ := m.Update(reloadMsg{})
	m = updated.(Model)

	st, ok := m.theme.Style(syntax.CategoryKeyword)
	require.True(t, ok)
	require.Equal(t, "#FFFFFF", st.Colour)
	_, ok = m.theme.Style(syntax.CategoryOperator)
	require.False(t, ok)
}

func TestView_ComposesPanes(t *testing.T) {
	m := openMain(t, newTestModel(t))

	view := m.View()

	require.Contains(t, view, "main.py") // tab title
	require.Contains(t, view, "def")     // editor body
	require.Contains(t, view, "1:1")     // status position
}

func TestView_HiddenStatusBarOmitsPosition(t *testing.T) {
	cfg := testConfig(t)
	cfg.UI.ShowStatusBar = false

	m := New(Config{Cfg: cfg})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = openMain(t, updated.(Model))

	require.NotContains(t, m.View(), "1:1")
}

func TestApp_SmokeTest(t *testing.T) {
	m := New(Config{Cfg: testConfig(t)})

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("main.py"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlQ})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}
