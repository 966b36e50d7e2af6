package preview

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestRender_Heading(t *testing.T) {
	r, err := New(60, "dark")
	require.NoError(t, err)

	out, err := r.Render("# Title\n\nbody text")
	require.NoError(t, err)

	plain := ansi.Strip(out)
	require.Contains(t, plain, "Title")
	require.Contains(t, plain, "body text")
}

func TestRender_WrapsAtWidth(t *testing.T) {
	r, err := New(20, "dark")
	require.NoError(t, err)
	require.Equal(t, 20, r.Width())

	out, err := r.Render(strings.Repeat("word ", 20))
	require.NoError(t, err)
	require.Greater(t, strings.Count(out, "\n"), 1)
}

func TestNew_UnknownStyleFallsBackToAuto(t *testing.T) {
	r, err := New(60, "sepia")
	require.NoError(t, err)

	out, err := r.Render("plain")
	require.NoError(t, err)
	require.Contains(t, ansi.Strip(out), "plain")
}
