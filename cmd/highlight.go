package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/Wraith29/harmony/internal/report"
	"github.com/Wraith29/harmony/internal/syntax"
	"github.com/Wraith29/harmony/internal/ui/styles"
)

var highlightCmd = &cobra.Command{
	Use:   "highlight <file>",
	Short: "Render a file's syntax highlighting to stdout",
	Long:  `Runs the highlight engine over a file and prints the styled result, useful for checking a .lang or .theme file without opening the editor.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHighlight,
}

func init() {
	highlightCmd.Flags().String("language", "",
		"language id (default: derived from the file extension)")
	highlightCmd.Flags().Bool("color", false,
		"force truecolor output even when stdout is not a terminal")
	rootCmd.AddCommand(highlightCmd)
}

func runHighlight(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if force, _ := cmd.Flags().GetBool("color"); force {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}

	language, _ := cmd.Flags().GetString("language")
	if language == "" {
		language = strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	}

	rec := &report.Recorder{}
	grammars := syntax.NewGrammarLoader(cfg.LanguagesDir, rec)
	grammar, err := grammars.Load(language)
	if err != nil {
		return fmt.Errorf("loading grammar for %q: %w", language, err)
	}

	themes := syntax.NewThemeLoader(cfg.ThemesDir, rec)
	theme, err := themes.Load(cfg.Theme)
	if err != nil {
		return fmt.Errorf("loading theme %q: %w", cfg.Theme, err)
	}

	hl := syntax.NewHighlighter(grammar, theme, rec)

	out := cmd.OutOrStdout()
	state := syntax.OutsideComment
	for _, line := range strings.Split(string(data), "\n") {
		var spans []syntax.Span
		spans, state = hl.HighlightLine(line, state)
		fmt.Fprintln(out, renderSpans(line, spans, theme))
	}

	if n := rec.Count(report.PatternCompileFailure); n > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d pattern(s) failed to compile\n", n)
	}
	return nil
}

// renderSpans styles one line of text from its highlight spans.
func renderSpans(text string, spans []syntax.Span, theme *syntax.Theme) string {
	var b strings.Builder
	pos := 0
	for _, span := range spans {
		if span.Start > pos {
			b.WriteString(text[pos:span.Start])
		}
		b.WriteString(styles.SpanStyle(theme, span.Category).Render(text[span.Start:span.End()]))
		pos = span.End()
	}
	if pos < len(text) {
		b.WriteString(text[pos:])
	}
	return b.String()
}
