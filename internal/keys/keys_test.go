package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_Save(t *testing.T) {
	k := DefaultKeyMap()
	msg := tea.KeyMsg{Type: tea.KeyCtrlS}
	require.True(t, key.Matches(msg, k.Save))
}

func TestDefaultKeyMap_QuitMatchesBothChords(t *testing.T) {
	k := DefaultKeyMap()
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlQ}, k.Quit))
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlC}, k.Quit))
}

func TestFullHelp_CoversAllBindings(t *testing.T) {
	k := DefaultKeyMap()
	groups := k.FullHelp()

	total := 0
	for _, group := range groups {
		total += len(group)
	}
	require.Equal(t, 8, total)
}
