package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Wraith29/harmony/internal/report"
	"github.com/Wraith29/harmony/internal/syntax"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the installed language grammars",
	RunE: func(cmd *cobra.Command, _ []string) error {
		loader := syntax.NewGrammarLoader(cfg.LanguagesDir, report.Discard{})
		languages, err := loader.Available()
		if err != nil {
			return fmt.Errorf("reading %s: %w", cfg.LanguagesDir, err)
		}

		out := cmd.OutOrStdout()
		if len(languages) == 0 {
			fmt.Fprintf(out, "no grammars installed in %s\n", cfg.LanguagesDir)
			return nil
		}
		for _, language := range languages {
			fmt.Fprintln(out, language)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
