package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveTheme_CreatesNewFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".harmony.yaml")

	require.NoError(t, SaveTheme(configPath, "midnight"))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "theme: midnight")
}

func TestSaveTheme_PreservesOtherConfigAndComments(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".harmony.yaml")

	initial := `# my settings
theme: default
tab_width: 8
ui:
  show_status_bar: false
`
	require.NoError(t, os.WriteFile(configPath, []byte(initial), 0o644))

	require.NoError(t, SaveTheme(configPath, "midnight"))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# my settings")
	assert.Contains(t, string(data), "theme: midnight")
	assert.Contains(t, string(data), "tab_width: 8")
	assert.Contains(t, string(data), "show_status_bar: false")
}

func TestSaveTabWidth_RoundTripsThroughViper(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".harmony.yaml")

	require.NoError(t, SaveTheme(configPath, "default"))
	require.NoError(t, SaveTabWidth(configPath, 2))

	v := viper.New()
	v.SetConfigFile(configPath)
	require.NoError(t, v.ReadInConfig())

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	assert.Equal(t, 2, cfg.TabWidth)
	assert.Equal(t, "default", cfg.Theme)
}

func TestSaveWorkspace_ReplacesExistingValue(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".harmony.yaml")

	require.NoError(t, os.WriteFile(configPath, []byte("workspace: /old/path\n"), 0o644))
	require.NoError(t, SaveWorkspace(configPath, "/new/path"))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "workspace: /new/path")
	assert.NotContains(t, string(data), "/old/path")
}

func TestSaveScalar_RejectsNonMappingRoot(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".harmony.yaml")

	require.NoError(t, os.WriteFile(configPath, []byte("- just\n- a\n- list\n"), 0o644))

	err := SaveTheme(configPath, "default")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not a mapping")
}
