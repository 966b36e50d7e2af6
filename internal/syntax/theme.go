package syntax

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Wraith29/harmony/internal/log"
	"github.com/Wraith29/harmony/internal/report"
)

// ErrThemeNotFound is returned when no .theme file exists for a theme id.
var ErrThemeNotFound = errors.New("theme not found")

// Style is the display style for one category.
type Style struct {
	Colour string `yaml:"colour"`
	Italic bool   `yaml:"italic"`
}

// Pane holds the chrome colors of one editor surface.
type Pane struct {
	Background string `yaml:"background"`
}

// Chrome holds the editor-wide colors consumed by the UI layer.
type Chrome struct {
	Background string `yaml:"background"`
	Text       struct {
		Colour string `yaml:"colour"`
	} `yaml:"text"`
	MenuBar  Pane `yaml:"menubar"`
	FileTree Pane `yaml:"filetree"`
	TextBox  Pane `yaml:"textbox"`
}

// themeFile is the on-disk shape of a .theme file.
type themeFile struct {
	Font   string           `yaml:"font"`
	Syntax map[string]Style `yaml:"syntax"`
	Editor Chrome           `yaml:"editor"`
}

// Theme maps categories to display styles. Immutable once loaded and shared
// read-only across all open documents using it.
type Theme struct {
	Name   string
	Font   string
	Editor Chrome

	styles map[Category]Style
}

// Style returns the style for a category and whether the theme defines one.
// A category the theme omits is a configuration error at the call site: the
// highlighter skips that category for the current line and reports it.
func (t *Theme) Style(c Category) (Style, bool) {
	s, ok := t.styles[c]
	return s, ok
}

// NewTheme builds a theme from explicit category styles. Intended for tests
// and for built-in fallbacks.
func NewTheme(name string, styles map[Category]Style) *Theme {
	copied := make(map[Category]Style, len(styles))
	for c, s := range styles {
		copied[c] = s
	}
	return &Theme{Name: name, styles: copied}
}

// ThemeLoader loads themes from a directory of .theme files.
type ThemeLoader struct {
	dir      string
	reporter report.Reporter
}

// NewThemeLoader creates a loader reading from dir.
func NewThemeLoader(dir string, rep report.Reporter) *ThemeLoader {
	return &ThemeLoader{dir: dir, reporter: rep}
}

// Load reads and validates the theme with the given id. Category names
// outside the recognized set are reported as ConfigurationInvalid and
// skipped; the rest of the theme still loads.
func (l *ThemeLoader) Load(name string) (*Theme, error) {
	path := filepath.Join(l.dir, name+".theme")
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is built from the configured theme dir
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrThemeNotFound, path)
		}
		return nil, fmt.Errorf("reading theme %s: %w", path, err)
	}

	var file themeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing theme %s: %w", path, err)
	}

	theme := &Theme{
		Name:   name,
		Font:   file.Font,
		Editor: file.Editor,
		styles: make(map[Category]Style, len(file.Syntax)),
	}

	// Sorted iteration keeps report ordering deterministic.
	names := make([]string, 0, len(file.Syntax))
	for n := range file.Syntax {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		cat, ok := ParseCategory(n)
		if !ok {
			l.reporter.Report(report.ConfigurationInvalid,
				"theme %q: unrecognized category %q", name, n)
			continue
		}
		theme.styles[cat] = file.Syntax[n]
	}

	log.Info(log.CatTheme, "loaded theme", "name", name, "categories", len(theme.styles))
	return theme, nil
}

// Available lists the theme ids with a .theme file present.
func (l *ThemeLoader) Available() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("reading theme directory %s: %w", l.dir, err)
	}

	var themes []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name := e.Name(); filepath.Ext(name) == ".theme" {
			themes = append(themes, name[:len(name)-len(".theme")])
		}
	}
	return themes, nil
}
