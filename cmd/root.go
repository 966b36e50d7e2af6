package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Wraith29/harmony/internal/app"
	"github.com/Wraith29/harmony/internal/config"
	"github.com/Wraith29/harmony/internal/log"
	"github.com/Wraith29/harmony/internal/trace"
	"github.com/Wraith29/harmony/internal/watcher"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	debug   bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "harmony [workspace]",
	Short:   "A terminal source-code editor with grammar-driven highlighting",
	Long:    `A terminal source-code editor. Syntax rules live in editable .lang files, colors in .theme files, and both reload live while you type.`,
	Args:    cobra.MaximumNArgs(1),
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/harmony/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"write debug logs to ~/.config/harmony/harmony.log")
	rootCmd.Flags().StringP("theme", "t", "",
		"theme name, overriding the configured one")
	rootCmd.Flags().Bool("no-live-reload", false,
		"disable grammar/theme reload on file change")

	_ = viper.BindPFlag("theme", rootCmd.Flags().Lookup("theme"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("workspace", defaults.Workspace)
	viper.SetDefault("theme", defaults.Theme)
	viper.SetDefault("tab_width", defaults.TabWidth)
	viper.SetDefault("font.name", defaults.Font.Name)
	viper.SetDefault("font.size", defaults.Font.Size)
	viper.SetDefault("languages_dir", defaults.LanguagesDir)
	viper.SetDefault("themes_dir", defaults.ThemesDir)
	viper.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("ui.live_reload", defaults.UI.LiveReload)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .harmony/config.yaml (current directory)
		// 2. ~/.config/harmony/config.yaml (user config)
		if _, err := os.Stat(".harmony/config.yaml"); err == nil {
			viper.SetConfigFile(".harmony/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "harmony"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create a default one
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			home, homeErr := os.UserHomeDir()
			if homeErr == nil {
				defaultPath := filepath.Join(home, ".config", "harmony", "config.yaml")
				if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
					viper.SetConfigFile(defaultPath)
					_ = viper.ReadInConfig()
				}
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func runApp(cmd *cobra.Command, args []string) error {
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if len(args) == 1 {
		cfg.Workspace = args[0]
	}
	if cfg.Workspace == "" || cfg.Workspace == "." {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
		cfg.Workspace = wd
	}
	if _, err := os.Stat(cfg.Workspace); err != nil {
		return fmt.Errorf("opening workspace: %w", err)
	}

	if noReload, _ := cmd.Flags().GetBool("no-live-reload"); noReload {
		cfg.UI.LiveReload = false
	}

	if debug || os.Getenv("HARMONY_DEBUG") != "" {
		logPath := filepath.Join(filepath.Dir(viper.ConfigFileUsed()), "harmony.log")
		if cleanup, err := log.InitWithTeaLog(logPath, "harmony"); err == nil {
			defer cleanup()
			log.SetEnabled(true)
		}
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Exporter == "file" && cfg.Tracing.FilePath == "" {
		cfg.Tracing.FilePath = config.DefaultTracesFilePath()
	}
	provider, err := trace.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = provider.Shutdown(ctx)
	}()

	configFilePath := viper.ConfigFileUsed()

	zone.NewGlobal()
	model := app.New(app.Config{
		Cfg:        cfg,
		ConfigPath: configFilePath,
		Provider:   provider,
	})

	if cfg.UI.LiveReload {
		w, werr := watcher.New(watcher.DefaultConfig(cfg.LanguagesDir, cfg.ThemesDir))
		if werr == nil {
			model.SetWatcher(w)
		}
		// Watcher init errors are non-fatal; the editor works without reload
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
