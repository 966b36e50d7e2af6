package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Wraith29/harmony/internal/report"
	"github.com/Wraith29/harmony/internal/syntax"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the installed themes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		loader := syntax.NewThemeLoader(cfg.ThemesDir, report.Discard{})
		themes, err := loader.Available()
		if err != nil {
			return fmt.Errorf("reading %s: %w", cfg.ThemesDir, err)
		}

		out := cmd.OutOrStdout()
		if len(themes) == 0 {
			fmt.Fprintf(out, "no themes installed in %s\n", cfg.ThemesDir)
			return nil
		}
		for _, theme := range themes {
			marker := "  "
			if theme == cfg.Theme {
				marker = "* "
			}
			fmt.Fprintf(out, "%s%s\n", marker, theme)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themesCmd)
}
