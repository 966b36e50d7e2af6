// Package filetree renders the workspace directory sidebar.
package filetree

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Wraith29/harmony/internal/log"
	"github.com/Wraith29/harmony/internal/ui/styles"
)

// Node is one visible row of the tree.
type Node struct {
	Path     string
	Name     string
	IsDir    bool
	Depth    int
	Expanded bool
}

// PromptKind distinguishes the creation prompts.
type PromptKind int

const (
	PromptNone PromptKind = iota
	PromptNewFile
	PromptNewDir
)

// OpenFileMsg is emitted when the user picks a file.
type OpenFileMsg struct {
	Path string
}

// Model holds the file tree state.
type Model struct {
	root      string
	nodes     []Node
	expanded  map[string]bool
	cursor    int
	scrollTop int
	width     int
	height    int
	focused   bool

	prompt    PromptKind
	promptDir string
	input     textinput.Model
}

// New creates a tree rooted at dir.
func New(root string) Model {
	input := textinput.New()
	input.CharLimit = 128
	input.Width = 24

	m := Model{
		root:     root,
		expanded: map[string]bool{},
		input:    input,
	}
	m.Refresh()
	return m
}

// Root returns the workspace root directory.
func (m Model) Root() string { return m.root }

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.ensureCursorVisible()
}

// Focus gives the tree keyboard focus.
func (m *Model) Focus() { m.focused = true }

// Blur removes keyboard focus and abandons any open prompt.
func (m *Model) Blur() {
	m.focused = false
	m.closePrompt()
}

// Focused reports whether the tree has keyboard focus.
func (m Model) Focused() bool { return m.focused }

// Prompting reports whether a creation prompt is open, meaning the tree
// wants exclusive key input.
func (m Model) Prompting() bool { return m.prompt != PromptNone }

// Selected returns the node under the cursor.
func (m Model) Selected() (Node, bool) {
	if m.cursor < 0 || m.cursor >= len(m.nodes) {
		return Node{}, false
	}
	return m.nodes[m.cursor], true
}

// Refresh re-reads the workspace from disk, keeping expansion state.
func (m *Model) Refresh() {
	m.nodes = m.nodes[:0]
	m.walk(m.root, 0)
	if m.cursor >= len(m.nodes) {
		m.cursor = max(len(m.nodes)-1, 0)
	}
}

// walk appends dir's entries depth-first, descending into expanded dirs.
// Dotfiles are hidden; directories sort before files.
func (m *Model) walk(dir string, depth int) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.ErrorErr(log.CatUI, "Failed to read workspace directory", err, "dir", dir)
		return
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		node := Node{
			Path:     path,
			Name:     entry.Name(),
			IsDir:    entry.IsDir(),
			Depth:    depth,
			Expanded: m.expanded[path],
		}
		m.nodes = append(m.nodes, node)
		if node.IsDir && node.Expanded {
			m.walk(path, depth+1)
		}
	}
}

// MoveCursor moves the cursor by delta, respecting bounds.
func (m *Model) MoveCursor(delta int) {
	pos := m.cursor + delta
	pos = max(pos, 0)
	pos = min(pos, len(m.nodes)-1)
	pos = max(pos, 0)
	m.cursor = pos
	m.ensureCursorVisible()
}

// Update handles key input. Selecting a file emits OpenFileMsg.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused {
		return m, nil
	}

	if m.prompt != PromptNone {
		return m.updatePrompt(keyMsg)
	}

	switch keyMsg.String() {
	case "j", "down":
		m.MoveCursor(1)
	case "k", "up":
		m.MoveCursor(-1)
	case "enter", "l":
		return m.activate()
	case "h":
		m.collapse()
	case "n":
		m.openPrompt(PromptNewFile)
	case "N":
		m.openPrompt(PromptNewDir)
	case "r":
		m.Refresh()
	}
	return m, nil
}

// activate opens the selected file or toggles the selected directory.
func (m Model) activate() (Model, tea.Cmd) {
	node, ok := m.Selected()
	if !ok {
		return m, nil
	}
	if node.IsDir {
		m.expanded[node.Path] = !m.expanded[node.Path]
		m.Refresh()
		return m, nil
	}
	path := node.Path
	return m, func() tea.Msg { return OpenFileMsg{Path: path} }
}

// collapse folds the selected directory, or jumps to the parent when the
// selection is a file.
func (m *Model) collapse() {
	node, ok := m.Selected()
	if !ok {
		return
	}
	if node.IsDir && m.expanded[node.Path] {
		m.expanded[node.Path] = false
		m.Refresh()
		return
	}
	parent := filepath.Dir(node.Path)
	for i, n := range m.nodes {
		if n.Path == parent {
			m.cursor = i
			m.ensureCursorVisible()
			return
		}
	}
}

func (m *Model) openPrompt(kind PromptKind) {
	m.prompt = kind
	m.promptDir = m.targetDir()
	m.input.SetValue("")
	m.input.Focus()
}

func (m *Model) closePrompt() {
	m.prompt = PromptNone
	m.input.Blur()
}

// targetDir is where a new entry lands: the selected directory, or the
// selected file's parent, or the root.
func (m Model) targetDir() string {
	node, ok := m.Selected()
	if !ok {
		return m.root
	}
	if node.IsDir {
		return node.Path
	}
	return filepath.Dir(node.Path)
}

func (m Model) updatePrompt(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.closePrompt()
		return m, nil
	case tea.KeyEnter:
		name := strings.TrimSpace(m.input.Value())
		kind := m.prompt
		dir := m.promptDir
		m.closePrompt()
		if name == "" {
			return m, nil
		}
		return m.create(kind, filepath.Join(dir, name))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// create makes the file or directory and reselects it.
func (m Model) create(kind PromptKind, path string) (Model, tea.Cmd) {
	var err error
	if kind == PromptNewDir {
		err = os.MkdirAll(path, 0o750)
	} else {
		if err = os.MkdirAll(filepath.Dir(path), 0o750); err == nil {
			err = os.WriteFile(path, nil, 0o600)
		}
	}
	if err != nil {
		log.ErrorErr(log.CatUI, "Failed to create workspace entry", err, "path", path)
		return m, nil
	}

	m.expanded[filepath.Dir(path)] = true
	m.Refresh()
	for i, n := range m.nodes {
		if n.Path == path {
			m.cursor = i
			break
		}
	}
	m.ensureCursorVisible()

	if kind == PromptNewFile {
		return m, func() tea.Msg { return OpenFileMsg{Path: path} }
	}
	return m, nil
}

func (m *Model) ensureCursorVisible() {
	height := m.viewportHeight()
	if height <= 0 {
		return
	}
	if m.cursor >= m.scrollTop+height {
		m.scrollTop = m.cursor - height + 1
	}
	if m.cursor < m.scrollTop {
		m.scrollTop = m.cursor
	}
	maxScroll := max(len(m.nodes)-height, 0)
	m.scrollTop = min(m.scrollTop, maxScroll)
	m.scrollTop = max(m.scrollTop, 0)
}

func (m Model) viewportHeight() int {
	if m.prompt != PromptNone {
		return max(m.height-2, 0)
	}
	return m.height
}

// View renders the visible rows plus any open prompt.
func (m Model) View() string {
	var b strings.Builder

	height := m.viewportHeight()
	for i := m.scrollTop; i < m.scrollTop+height && i < len(m.nodes); i++ {
		if i > m.scrollTop {
			b.WriteByte('\n')
		}
		b.WriteString(m.renderNode(i))
	}

	if m.prompt != PromptNone {
		label := "new file:"
		if m.prompt == PromptNewDir {
			label = "new dir:"
		}
		b.WriteByte('\n')
		b.WriteString(label)
		b.WriteByte('\n')
		b.WriteString(m.input.View())
	}

	return b.String()
}

func (m Model) renderNode(i int) string {
	node := m.nodes[i]

	prefix := "  "
	if m.focused && i == m.cursor {
		prefix = styles.SelectionIndicatorStyle.Render("> ")
	}

	name := node.Name
	if node.IsDir {
		if node.Expanded {
			name = "▾ " + name
		} else {
			name = "▸ " + name
		}
	}

	return prefix + strings.Repeat("  ", node.Depth) + name
}
