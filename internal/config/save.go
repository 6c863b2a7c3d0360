package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML shape written to disk. Kept separate from Config so
// the file stays stable even as internal fields move.
type fileConfig struct {
	Target              string          `yaml:"target"`
	AutoReparse         bool            `yaml:"auto_reparse"`
	AutoReparseDebounce string          `yaml:"auto_reparse_debounce"`
	WorkspaceDB         string          `yaml:"workspace_db"`
	Flags               map[string]bool `yaml:"flags,omitempty"`
}

// WriteDefaultConfig writes the default configuration to path, creating
// parent directories as needed. Existing files are not overwritten.
func WriteDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaults := Defaults()
	out, err := yaml.Marshal(fileConfig{
		Target:              defaults.Target,
		AutoReparse:         defaults.AutoReparse,
		AutoReparseDebounce: defaults.AutoReparseDebounce.String(),
		WorkspaceDB:         defaults.WorkspaceDB,
		Flags:               defaults.Flags,
	})
	if err != nil {
		return fmt.Errorf("marshaling default config: %w", err)
	}

	if err := os.WriteFile(path, out, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
