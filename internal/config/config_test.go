package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaults_Validate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "#glyph-vis", cfg.Target)
	require.True(t, cfg.AutoReparse)
	require.Equal(t, time.Second, cfg.AutoReparseDebounce)
	require.Equal(t, ".glyph/workspaces.db", cfg.WorkspaceDB)
}

func TestValidate_RejectsNegativeDebounce(t *testing.T) {
	cfg := Defaults()
	cfg.AutoReparseDebounce = -time.Second
	require.Error(t, cfg.Validate())
}

func TestValidate_RejectsEmptyTarget(t *testing.T) {
	cfg := Defaults()
	cfg.Target = ""
	require.Error(t, cfg.Validate())
}

func TestWriteDefaultConfig_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glyph", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var fc fileConfig
	require.NoError(t, yaml.Unmarshal(raw, &fc))
	require.Equal(t, "#glyph-vis", fc.Target)
	require.Equal(t, "1s", fc.AutoReparseDebounce)
}

func TestWriteDefaultConfig_NeverOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("target: '#mine'\n"), 0600))

	err := WriteDefaultConfig(path)
	require.Error(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "#mine")
}
