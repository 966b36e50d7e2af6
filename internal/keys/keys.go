// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
// Keys that edit text live in the editor itself; these are the chrome-level
// bindings that work regardless of focus.
type KeyMap struct {
	// Files
	Save     key.Binding
	CloseTab key.Binding

	// Tabs
	NextTab key.Binding
	PrevTab key.Binding

	// Panes
	ToggleTree    key.Binding
	TogglePreview key.Binding

	// General
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save file"),
		),
		CloseTab: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("ctrl+w", "close tab"),
		),

		NextTab: key.NewBinding(
			key.WithKeys("ctrl+pgdown", "alt+right"),
			key.WithHelp("alt+→", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("ctrl+pgup", "alt+left"),
			key.WithHelp("alt+←", "previous tab"),
		),

		ToggleTree: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "toggle file tree"),
		),
		TogglePreview: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "toggle markdown preview"),
		),

		Help: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q", "ctrl+c"),
			key.WithHelp("ctrl+q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the compact help line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.ToggleTree, k.NextTab, k.Quit}
}

// FullHelp returns all bindings grouped by column.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Save, k.CloseTab},
		{k.NextTab, k.PrevTab},
		{k.ToggleTree, k.TogglePreview},
		{k.Help, k.Quit},
	}
}
