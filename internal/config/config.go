// Package config provides configuration types, defaults, and persistence for harmony.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Wraith29/harmony/internal/log"
	"github.com/Wraith29/harmony/internal/trace"
)

// Config holds all configuration options for harmony.
type Config struct {
	Workspace    string       `mapstructure:"workspace"`     // Root directory shown in the file tree
	Theme        string       `mapstructure:"theme"`         // Theme name, resolved against ThemesDir
	TabWidth     int          `mapstructure:"tab_width"`     // Spaces inserted per Tab press
	Font         FontConfig   `mapstructure:"font"`          // Terminal hint only; honored by GUI frontends
	LanguagesDir string       `mapstructure:"languages_dir"` // Directory containing *.lang grammar files
	ThemesDir    string       `mapstructure:"themes_dir"`    // Directory containing *.theme files
	UI           UIConfig     `mapstructure:"ui"`
	Tracing      trace.Config `mapstructure:"tracing"`
}

// FontConfig holds font preferences.
type FontConfig struct {
	Name string `mapstructure:"name"`
	Size int    `mapstructure:"size"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowStatusBar bool   `mapstructure:"show_status_bar"`
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
	LiveReload    bool   `mapstructure:"live_reload"`    // Re-read grammars/themes when their files change
}

// DefaultLanguagesDir returns ~/.config/harmony/languages, or empty string if
// the home directory is unavailable.
func DefaultLanguagesDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "harmony", "languages")
}

// DefaultThemesDir returns ~/.config/harmony/themes, or empty string if the
// home directory is unavailable.
func DefaultThemesDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "harmony", "themes")
}

// DefaultTracesFilePath returns the default path for trace file export.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "harmony", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Workspace: ".",
		Theme:     "default",
		TabWidth:  4,
		Font: FontConfig{
			Name: "Fira Code",
			Size: 12,
		},
		LanguagesDir: DefaultLanguagesDir(),
		ThemesDir:    DefaultThemesDir(),
		UI: UIConfig{
			ShowStatusBar: true,
			MarkdownStyle: "dark",
			LiveReload:    true,
		},
		Tracing: trace.DefaultConfig(),
	}
}

// Validate checks the configuration for errors.
// Empty values fall back to defaults and are always valid.
func Validate(cfg Config) error {
	if err := ValidateEditor(cfg); err != nil {
		return err
	}
	if err := ValidateUI(cfg.UI); err != nil {
		return err
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateEditor checks editor-level settings.
func ValidateEditor(cfg Config) error {
	if cfg.TabWidth < 1 || cfg.TabWidth > 16 {
		return fmt.Errorf("tab_width must be between 1 and 16, got %d", cfg.TabWidth)
	}
	if cfg.Font.Size != 0 && (cfg.Font.Size < 6 || cfg.Font.Size > 72) {
		return fmt.Errorf("font.size must be between 6 and 72, got %d", cfg.Font.Size)
	}
	if cfg.Theme == "" {
		return fmt.Errorf("theme must not be empty")
	}
	return nil
}

// ValidateUI checks user interface configuration for errors.
func ValidateUI(ui UIConfig) error {
	switch ui.MarkdownStyle {
	case "", "dark", "light":
		return nil
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", ui.MarkdownStyle)
	}
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing trace.Config) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", or \"stdout\", got %q", tracing.Exporter)
		}
	}

	if tracing.Enabled && tracing.Exporter == "file" && tracing.FilePath == "" {
		return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Harmony Configuration

# Root directory opened in the file tree (default: current directory)
# workspace: /path/to/project

# Theme name, loaded from <themes_dir>/<name>.theme
theme: default

# Spaces inserted when Tab is pressed
tab_width: 4

# Font preferences (advisory; terminal frontends inherit the terminal font)
font:
  name: Fira Code
  size: 12

# Where grammar and theme files live
# languages_dir: ~/.config/harmony/languages
# themes_dir: ~/.config/harmony/themes

# UI settings
ui:
  show_status_bar: true  # Show status bar at bottom
  # markdown_style: dark # Markdown preview style: "dark" (default) or "light"
  live_reload: true      # Reload grammars/themes when their files change on disk

# Tracing configuration
# Enables visibility into highlight rescans and file loads
# tracing:
#   enabled: false   # Enable/disable tracing (default: false)
#   exporter: file   # Export backend: none, file, stdout (default: file)
#   file_path: ~/.config/harmony/traces/traces.jsonl  # Output file for file exporter
#   sample_rate: 1.0 # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
