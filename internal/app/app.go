// Package app contains the root application model.
package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/Wraith29/harmony/internal/config"
	"github.com/Wraith29/harmony/internal/document"
	"github.com/Wraith29/harmony/internal/keys"
	"github.com/Wraith29/harmony/internal/log"
	"github.com/Wraith29/harmony/internal/pubsub"
	"github.com/Wraith29/harmony/internal/report"
	"github.com/Wraith29/harmony/internal/syntax"
	"github.com/Wraith29/harmony/internal/trace"
	"github.com/Wraith29/harmony/internal/ui/editor"
	"github.com/Wraith29/harmony/internal/ui/filetree"
	"github.com/Wraith29/harmony/internal/ui/preview"
	"github.com/Wraith29/harmony/internal/ui/statusbar"
	"github.com/Wraith29/harmony/internal/ui/tabbar"
)

const treeWidth = 28

// reportMsg delivers one recovered configuration problem to the UI.
type reportMsg report.Report

// reloadMsg signals that a grammar or theme file changed on disk.
type reloadMsg struct{}

// Config holds everything the root model needs at startup.
type Config struct {
	Cfg        config.Config
	ConfigPath string
	Provider   *trace.Provider
}

// openDocument pairs a document with its editor pane.
type openDocument struct {
	doc *document.Document
	ed  editor.Model
}

// Model is the root application state.
type Model struct {
	cfg        config.Config
	configPath string
	keymap     keys.KeyMap
	helpModel  help.Model
	showHelp   bool

	grammars *syntax.GrammarLoader
	themes   *syntax.ThemeLoader
	theme    *syntax.Theme
	provider *trace.Provider

	reports   *report.Channel
	reportSub <-chan pubsub.Event[report.Report]
	reportCtx context.Context
	cancelSub context.CancelFunc

	watcher  reloadWatcher
	reloadCh <-chan struct{}

	docs map[uuid.UUID]*openDocument

	tabs     tabbar.Model
	tree     filetree.Model
	status   statusbar.Model
	showTree bool

	previewOpen bool
	previewText string

	width  int
	height int
}

// reloadWatcher is the part of the file watcher the app drives.
type reloadWatcher interface {
	Start() (<-chan struct{}, error)
	Stop() error
}

// New creates the root model.
func New(appCfg Config) Model {
	reports := report.NewChannel()
	ctx, cancel := context.WithCancel(context.Background())

	grammars := syntax.NewGrammarLoader(appCfg.Cfg.LanguagesDir, reports)
	themes := syntax.NewThemeLoader(appCfg.Cfg.ThemesDir, reports)

	m := Model{
		cfg:        appCfg.Cfg,
		configPath: appCfg.ConfigPath,
		keymap:     keys.DefaultKeyMap(),
		helpModel:  help.New(),
		grammars:   grammars,
		themes:     themes,
		provider:   appCfg.Provider,
		reports:    reports,
		reportSub:  reports.Subscribe(ctx),
		reportCtx:  ctx,
		cancelSub:  cancel,
		docs:       map[uuid.UUID]*openDocument{},
		tabs:       tabbar.New(),
		tree:       filetree.New(appCfg.Cfg.Workspace),
		status:     statusbar.New(),
		showTree:   true,
	}
	m.tree.Focus()
	m.theme = m.loadTheme()
	return m
}

// SetWatcher attaches and starts a live-reload watcher. No-op when live
// reload is disabled in the config.
func (m *Model) SetWatcher(w reloadWatcher) {
	if !m.cfg.UI.LiveReload {
		return
	}
	ch, err := w.Start()
	if err != nil {
		log.Warn(log.CatWatcher, "Live reload unavailable", "error", err)
		_ = w.Stop()
		return
	}
	m.watcher = w
	m.reloadCh = ch
}

// loadTheme resolves the configured theme, falling back to the built-in
// palette so a broken install still gets a styled editor. The failure is
// still reported so the status bar shows it.
func (m *Model) loadTheme() *syntax.Theme {
	theme, err := m.themes.Load(m.cfg.Theme)
	if err != nil {
		if errors.Is(err, syntax.ErrThemeNotFound) {
			m.reports.Report(report.ConfigurationNotFound, "theme %q not found", m.cfg.Theme)
		} else {
			log.ErrorErr(log.CatTheme, "Failed to load theme", err, "theme", m.cfg.Theme)
			m.reports.Report(report.ConfigurationInvalid, "cannot load theme %q: %v", m.cfg.Theme, err)
		}
		return fallbackTheme()
	}
	return theme
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForReport()}
	if m.reloadCh != nil {
		cmds = append(cmds, m.waitForReload(m.reloadCh))
	}
	return tea.Batch(cmds...)
}

// waitForReport blocks on the report subscription and feeds the status bar.
func (m Model) waitForReport() tea.Cmd {
	sub := m.reportSub
	return func() tea.Msg {
		ev, ok := <-sub
		if !ok {
			return nil
		}
		return reportMsg(ev.Payload)
	}
}

func (m Model) waitForReload(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return reloadMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case reportMsg:
		r := report.Report(msg)
		m.status.ShowReport(r)
		return m, m.waitForReport()

	case reloadMsg:
		m.reload()
		return m, m.waitForReload(m.reloadCh)

	case filetree.OpenFileMsg:
		return m.openFile(msg.Path)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			if i := m.tabs.ClickedTab(msg); i >= 0 {
				m.tabs.Activate(i)
				m.focusEditor()
			}
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A creation prompt in the tree owns the keyboard outright.
	if m.tree.Prompting() {
		var cmd tea.Cmd
		m.tree, cmd = m.tree.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, m.shutdown()
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keymap.Save):
		m.saveActive()
		return m, nil
	case key.Matches(msg, m.keymap.CloseTab):
		m.closeActive()
		return m, nil
	case key.Matches(msg, m.keymap.NextTab):
		m.tabs.Next()
		m.focusEditor()
		return m, nil
	case key.Matches(msg, m.keymap.PrevTab):
		m.tabs.Prev()
		m.focusEditor()
		return m, nil
	case key.Matches(msg, m.keymap.ToggleTree):
		m.toggleTree()
		return m, nil
	case key.Matches(msg, m.keymap.TogglePreview):
		m.togglePreview()
		return m, nil
	}

	if m.tree.Focused() {
		var cmd tea.Cmd
		m.tree, cmd = m.tree.Update(msg)
		return m, cmd
	}

	if open := m.active(); open != nil {
		var cmd tea.Cmd
		open.ed, cmd = open.ed.Update(msg)
		m.afterEdit(open)
		return m, cmd
	}

	return m, nil
}

// afterEdit refreshes the dirty marker, status line and preview after a
// keystroke reached the editor.
func (m *Model) afterEdit(open *openDocument) {
	m.tabs.SetDirty(open.doc.ID(), open.doc.Dirty())
	m.syncStatus()
	if m.previewOpen {
		m.renderPreview(open.doc)
	}
}

// openFile loads path into a new tab, or activates the existing one.
func (m Model) openFile(path string) (tea.Model, tea.Cmd) {
	for id, open := range m.docs {
		if open.doc.Path() == path {
			m.tabs.Add(tabbar.Tab{ID: id, Title: filepath.Base(path)})
			m.focusEditor()
			return m, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.ErrorErr(log.CatDoc, "Failed to open file", err, "path", path)
		m.reports.Report(report.ConfigurationNotFound, "cannot open %s: %v", filepath.Base(path), err)
		return m, nil
	}

	language := languageOf(path)
	doc := document.New(path, language, string(data), m.highlighter(language), m.docOptions()...)

	open := &openDocument{doc: doc}
	open.ed = editor.New(doc, m.theme, m.cfg.TabWidth)
	m.docs[doc.ID()] = open

	m.tabs.Add(tabbar.Tab{ID: doc.ID(), Title: filepath.Base(path)})
	m.focusEditor()
	m.layout()

	log.Info(log.CatDoc, "Opened file", "path", path, "language", language, "lines", doc.LineCount())
	return m, nil
}

func (m Model) docOptions() []document.Option {
	if m.provider == nil {
		return nil
	}
	return []document.Option{document.WithTracer(m.provider.Tracer())}
}

// highlighter builds the grammar/theme pair for a language. A missing
// grammar degrades to no rules so the document still opens.
func (m Model) highlighter(language string) *syntax.Highlighter {
	grammar, err := m.grammars.Load(language)
	if err != nil {
		if errors.Is(err, syntax.ErrGrammarNotFound) {
			m.reports.Report(report.ConfigurationNotFound, "no grammar for language %q", language)
		} else {
			log.ErrorErr(log.CatSyntax, "Failed to load grammar", err, "language", language)
			m.reports.Report(report.ConfigurationInvalid, "cannot load grammar for %q: %v", language, err)
		}
		grammar = syntax.EmptyGrammar(language)
	}
	return syntax.NewHighlighter(grammar, m.theme, m.reports)
}

func (m *Model) saveActive() {
	open := m.active()
	if open == nil {
		return
	}
	if err := os.WriteFile(open.doc.Path(), []byte(open.doc.Content()), 0o600); err != nil {
		log.ErrorErr(log.CatDoc, "Failed to save file", err, "path", open.doc.Path())
		m.reports.Report(report.ConfigurationInvalid, "cannot save %s: %v", filepath.Base(open.doc.Path()), err)
		return
	}
	open.doc.MarkSaved()
	m.tabs.SetDirty(open.doc.ID(), false)
	m.syncStatus()
	log.Info(log.CatDoc, "Saved file", "path", open.doc.Path())
}

// closeActive saves a dirty buffer before closing its tab.
func (m *Model) closeActive() {
	tab, ok := m.tabs.Active()
	if !ok {
		return
	}
	if open, ok := m.docs[tab.ID]; ok {
		if open.doc.Dirty() {
			m.saveActive()
		}
		open.doc.Close()
		delete(m.docs, tab.ID)
	}
	m.tabs.Remove(m.tabs.ActiveIndex())
	if m.tabs.Count() == 0 {
		m.tree.Focus()
		m.showTree = true
		m.layout()
	}
	m.focusEditor()
}

// reload drops every cached grammar, re-reads the theme, and rebuilds the
// highlighter of each open document.
func (m *Model) reload() {
	log.Info(log.CatWatcher, "Reloading grammars and themes")

	for _, open := range m.docs {
		m.grammars.Invalidate(open.doc.Language())
	}
	m.theme = m.loadTheme()

	for _, open := range m.docs {
		open.doc.SetHighlighter(m.highlighter(open.doc.Language()))
		open.ed.SetTheme(m.theme)
	}
	m.status.ClearReport()
	m.syncStatus()
}

// toggleTree cycles editor -> tree focus -> tree hidden.
func (m *Model) toggleTree() {
	if !m.tree.Focused() {
		m.showTree = true
		m.tree.Focus()
		if open := m.active(); open != nil {
			open.ed.Blur()
		}
	} else {
		m.showTree = false
		m.tree.Blur()
		m.focusEditor()
	}
	m.layout()
}

func (m *Model) togglePreview() {
	open := m.active()
	if open == nil || !strings.EqualFold(filepath.Ext(open.doc.Path()), ".md") {
		return
	}
	m.previewOpen = !m.previewOpen
	if m.previewOpen {
		m.renderPreview(open.doc)
	}
	m.layout()
}

func (m *Model) renderPreview(doc *document.Document) {
	renderer, err := preview.New(m.editorWidth()/2, m.cfg.UI.MarkdownStyle)
	if err != nil {
		log.ErrorErr(log.CatUI, "Failed to build markdown renderer", err)
		m.previewOpen = false
		return
	}
	text, err := renderer.Render(doc.Content())
	if err != nil {
		log.ErrorErr(log.CatUI, "Failed to render markdown", err)
		m.previewOpen = false
		return
	}
	m.previewText = text
}

// focusEditor moves keyboard focus onto the active tab's editor.
func (m *Model) focusEditor() {
	tab, ok := m.tabs.Active()
	if !ok {
		m.syncStatus()
		return
	}
	for id, open := range m.docs {
		if id == tab.ID {
			open.ed.Focus()
		} else {
			open.ed.Blur()
		}
	}
	m.tree.Blur()
	m.showHelp = false
	m.previewOpen = false
	m.syncStatus()
}

func (m *Model) active() *openDocument {
	tab, ok := m.tabs.Active()
	if !ok {
		return nil
	}
	return m.docs[tab.ID]
}

func (m *Model) syncStatus() {
	open := m.active()
	if open == nil {
		m.status.SetPosition(-1, -1)
		m.status.SetContext("", m.themeName(), false)
		return
	}
	row, col := open.ed.Cursor()
	m.status.SetPosition(row, col)
	m.status.SetContext(open.doc.Language(), m.themeName(), open.doc.Dirty())
}

func (m Model) themeName() string {
	if m.theme == nil {
		return ""
	}
	return m.theme.Name
}

// chromeRows is the number of lines taken by the tab bar and, when
// enabled, the status bar.
func (m Model) chromeRows() int {
	if m.cfg.UI.ShowStatusBar {
		return 2
	}
	return 1
}

// layout pushes the current window size into every pane.
func (m *Model) layout() {
	contentHeight := m.height - m.chromeRows()
	if contentHeight < 0 {
		contentHeight = 0
	}

	m.tabs.SetWidth(m.width)
	m.status.SetWidth(m.width)

	if m.showTree {
		m.tree.SetSize(treeWidth, contentHeight)
	}

	edWidth := m.editorWidth()
	if m.previewOpen {
		edWidth /= 2
	}
	for _, open := range m.docs {
		open.ed.SetSize(edWidth, contentHeight)
	}
}

func (m Model) editorWidth() int {
	w := m.width
	if m.showTree {
		w -= treeWidth
	}
	if w < 0 {
		w = 0
	}
	return w
}

// shutdown tears down subscriptions and the watcher before quitting.
func (m Model) shutdown() tea.Cmd {
	if m.watcher != nil {
		_ = m.watcher.Stop()
	}
	m.cancelSub()
	m.reports.Close()
	return tea.Quit
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	contentHeight := m.height - m.chromeRows()
	if contentHeight < 0 {
		contentHeight = 0
	}

	var body string
	if open := m.active(); open != nil {
		body = open.ed.View()
		if m.previewOpen {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.previewText)
		}
	} else {
		body = lipgloss.Place(m.editorWidth(), contentHeight,
			lipgloss.Center, lipgloss.Center, "open a file from the tree (ctrl+b)")
	}

	if m.showTree {
		tree := lipgloss.NewStyle().
			Width(treeWidth).
			Height(contentHeight).
			Render(m.tree.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, tree, body)
	}

	if m.showHelp {
		return lipgloss.JoinVertical(lipgloss.Left, m.tabs.View(), body, m.helpModel.View(m.keymap))
	}
	if !m.cfg.UI.ShowStatusBar {
		return lipgloss.JoinVertical(lipgloss.Left, m.tabs.View(), body)
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.tabs.View(), body, m.status.View())
}

// languageOf maps a file path to its language id via the extension.
func languageOf(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return strings.ToLower(filepath.Base(path))
	}
	return strings.ToLower(ext)
}

// fallbackTheme is used when the configured theme cannot be loaded: every
// category styled, nothing reported per keystroke.
func fallbackTheme() *syntax.Theme {
	return syntax.NewTheme("fallback", map[syntax.Category]syntax.Style{
		syntax.CategoryKeyword:    {Colour: "#CBA6F7"},
		syntax.CategoryOperator:   {Colour: "#F38BA8"},
		syntax.CategoryBrace:      {Colour: "#89B4FA"},
		syntax.CategorySpecial:    {Colour: "#FAB387"},
		syntax.CategoryDefinition: {Colour: "#94E2D5"},
		syntax.CategoryString:     {Colour: "#F9E2AF"},
		syntax.CategoryComment:    {Colour: "#6C7086", Italic: true},
		syntax.CategoryMultiline:  {Colour: "#6C7086", Italic: true},
	})
}
