// Package flags provides feature flag support for controlled feature rollout.
// Flags are read-only after initialization and provide safe defaults for unknown flags.
package flags

import (
	"maps"

	"github.com/zjrosen/glyph/internal/log"
)

// Flag name constants for type-safe flag access.
const (
	// FlagWorkspacePersistence controls whether workspace exports are persisted
	// to SQLite. When disabled, exports only ever go to stdout or files.
	FlagWorkspacePersistence = "workspace-persistence"

	// FlagExportCache controls whether clean exports are cached per revision.
	FlagExportCache = "export-cache"
)

// Registry holds feature flag state loaded from configuration.
// Flags are read-only after initialization.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from a config map.
// If flags is nil, an empty registry is created (all flags disabled).
func New(flags map[string]bool) *Registry {
	if flags == nil {
		flags = make(map[string]bool)
	}
	r := &Registry{flags: flags}
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(flags), "flags", r.All())
	return r
}

// Enabled reports whether the named flag is on. Unknown flags are off.
func (r *Registry) Enabled(name string) bool {
	return r.flags[name]
}

// All returns a copy of the flag map.
func (r *Registry) All() map[string]bool {
	out := make(map[string]bool, len(r.flags))
	maps.Copy(out, r.flags)
	return out
}
