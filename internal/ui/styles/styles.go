// Package styles contains Lip Gloss style definitions.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Wraith29/harmony/internal/syntax"
)

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor     = lipgloss.AdaptiveColor{Light: "#2D3436", Dark: "#CCCCCC"} // Main/primary text
	TextMutedColor       = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#696969"} // Hints, help text, gutters
	TextPlaceholderColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#777777"} // Input placeholders

	// Semantic color names - Border
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"} // Unfocused borders
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"} // Focused pane border

	// Semantic color names - Status
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"} // Warnings
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"} // Errors

	// Selection indicator color (used for ">" prefix in the file tree)
	SelectionIndicatorColor = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}

	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)

	StatusWarningStyle = lipgloss.NewStyle().Foreground(StatusWarningColor)
	StatusErrorStyle   = lipgloss.NewStyle().Foreground(StatusErrorColor)

	// Tab bar
	TabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(TextPrimaryColor).
			Underline(true)

	TabInactiveStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Foreground(TextMutedColor)

	// Dirty marker shown next to unsaved tab titles
	TabDirtyStyle = lipgloss.NewStyle().Foreground(StatusWarningColor)

	// Gutter marker for lines modified since the last save
	GutterModifiedStyle = lipgloss.NewStyle().Foreground(StatusWarningColor)

	GutterStyle = lipgloss.NewStyle().Foreground(TextMutedColor)

	CursorStyle = lipgloss.NewStyle().Reverse(true)
)

// Chrome holds the theme-derived surface styles for the editor shell.
// Zero-value fields fall back to the terminal defaults.
type Chrome struct {
	Editor   lipgloss.Style
	MenuBar  lipgloss.Style
	FileTree lipgloss.Style
	TextBox  lipgloss.Style
	Text     lipgloss.Style
}

// ChromeFromTheme builds the shell styles from a loaded theme.
func ChromeFromTheme(theme *syntax.Theme) Chrome {
	if theme == nil {
		return Chrome{
			Editor:   lipgloss.NewStyle(),
			MenuBar:  lipgloss.NewStyle(),
			FileTree: lipgloss.NewStyle(),
			TextBox:  lipgloss.NewStyle(),
			Text:     lipgloss.NewStyle().Foreground(TextPrimaryColor),
		}
	}

	ed := theme.Editor
	return Chrome{
		Editor:   paneStyle(ed.Background),
		MenuBar:  paneStyle(firstNonEmpty(ed.MenuBar.Background, ed.Background)),
		FileTree: paneStyle(firstNonEmpty(ed.FileTree.Background, ed.Background)),
		TextBox:  paneStyle(firstNonEmpty(ed.TextBox.Background, ed.Background)),
		Text:     textStyle(ed.Text.Colour),
	}
}

// SpanStyle returns the render style for one highlight category.
// Categories the theme omits render as plain text; the highlighter already
// reported the gap, the UI just degrades.
func SpanStyle(theme *syntax.Theme, cat syntax.Category) lipgloss.Style {
	if theme == nil {
		return lipgloss.NewStyle()
	}
	st, ok := theme.Style(cat)
	if !ok {
		return lipgloss.NewStyle()
	}
	style := lipgloss.NewStyle()
	if st.Colour != "" {
		style = style.Foreground(lipgloss.Color(st.Colour))
	}
	if st.Italic {
		style = style.Italic(true)
	}
	return style
}

func paneStyle(background string) lipgloss.Style {
	if background == "" {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(background))
}

func textStyle(colour string) lipgloss.Style {
	if colour == "" {
		return lipgloss.NewStyle().Foreground(TextPrimaryColor)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(colour))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
