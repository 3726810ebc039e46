package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFilesReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadKDLAppliesOptions(t *testing.T) {
	dir := t.TempDir()
	kdl := `
additional_classes "btn" "card"
exclude_classes "legacy"
include_all_variables true
theme_specificity 2
on_error "throw"
cache_dir "custom/cache"
base_css "body { margin: 0; }"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".fuzcss.kdl"), []byte(kdl), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"btn", "card"}, cfg.AdditionalClasses)
	assert.Equal(t, []string{"legacy"}, cfg.ExcludeClasses)
	assert.True(t, cfg.IncludeAllVariables)
	assert.Equal(t, 2, cfg.ThemeSpecificity)
	assert.Equal(t, OnThrow, cfg.OnError)
	assert.Equal(t, "custom/cache", cfg.CacheDir)
	assert.Equal(t, ModeReplace, cfg.BaseCSS.Mode)
	assert.Equal(t, "body { margin: 0; }", cfg.BaseCSS.Value)
}

func TestLoadEmptyStringOverrideDisablesSection(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".fuzcss.kdl"), []byte(`variables ""`), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ModeDisabled, cfg.Variables.Mode)
}

func TestLoadTOMLLayersOnTopOfKDL(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".fuzcss.kdl"), []byte(`theme_specificity 3`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".fuzcss.toml"), []byte(`cache_dir = "toml-cache"`+"\n"), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.ThemeSpecificity)
	assert.Equal(t, "toml-cache", cfg.CacheDir)
}

func TestLoadInvalidKDLReturnsError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".fuzcss.kdl"), []byte(`not { valid kdl`), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}
