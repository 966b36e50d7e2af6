// Package preview provides styled markdown rendering for the TUI.
package preview

import (
	"github.com/charmbracelet/glamour"
)

// noMarginStyle is a JSON style that removes document margins.
// It inherits from the base style but overrides margin to 0.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps glamour with harmony-specific configuration.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
	style    string
}

// New creates a markdown renderer with the given width.
// style is "dark", "light", or empty for terminal auto-detection.
func New(width int, style string) (*Renderer, error) {
	opts := []glamour.TermRendererOption{
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	}
	switch style {
	case "dark", "light":
		opts = append([]glamour.TermRendererOption{glamour.WithStandardStyle(style)}, opts...)
	default:
		opts = append([]glamour.TermRendererOption{glamour.WithAutoStyle()}, opts...)
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width, style: style}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}
