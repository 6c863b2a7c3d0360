// Package config provides configuration types and defaults for glyph.
package config

import (
	"fmt"
	"time"

	"github.com/zjrosen/glyph/internal/tracing"
)

// Config holds all configuration options for glyph.
type Config struct {
	// Target is the element identifier views bind to by default.
	Target string `mapstructure:"target"`

	// AutoReparse re-parses the watched spec when its file changes.
	AutoReparse bool `mapstructure:"auto_reparse"`

	// AutoReparseDebounce is the quiet period before a reparse fires.
	AutoReparseDebounce time.Duration `mapstructure:"auto_reparse_debounce"`

	// WorkspaceDB is the path of the workspace SQLite database.
	WorkspaceDB string `mapstructure:"workspace_db"`

	Tracing tracing.Config  `mapstructure:"tracing"`
	Flags   map[string]bool `mapstructure:"flags"`
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Target:              "#glyph-vis",
		AutoReparse:         true,
		AutoReparseDebounce: time.Second,
		WorkspaceDB:         ".glyph/workspaces.db",
		Tracing:             tracing.DefaultConfig(),
		Flags:               map[string]bool{},
	}
}

// Validate rejects configurations glyph cannot run with.
func (c Config) Validate() error {
	if c.AutoReparseDebounce < 0 {
		return fmt.Errorf("auto_reparse_debounce must not be negative")
	}
	if c.Target == "" {
		return fmt.Errorf("target must not be empty")
	}
	return nil
}
