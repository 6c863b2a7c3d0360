// Package signals owns the signal store: named live values shared between the
// editor and the rendering engine, plus the stash of signal definitions
// injected into manipulator exports.
package signals

import (
	"sort"
	"sync"

	"github.com/zjrosen/glyph/internal/log"
	"github.com/zjrosen/glyph/internal/vis"
)

// ns prefixes reserved signal names so editor signals never collide with
// user-defined ones.
const ns = "glyph_"

// Reserved signal names.
const (
	// Mode is the current editor interaction mode (handles, connectors, ...).
	Mode = ns + "mode"
	// Selected carries the currently selected mark definition.
	Selected = ns + "selected"
	// Cell carries the currently hovered group cell.
	Cell = ns + "cell"
)

// Store is a mapping from signal name to current value plus a stash of signal
// definitions pending inclusion in an exported specification. Each stashed
// definition carries an Index recording its topological position; exports
// must emit definitions in ascending Index order.
type Store struct {
	mu      sync.RWMutex
	values  map[string]any
	stash   map[string]vis.Signal
	nextIdx int
}

// New creates a store seeded with the reserved editor signals.
func New() *Store {
	s := &Store{
		values: make(map[string]any),
		stash:  make(map[string]vis.Signal),
	}
	s.Init(vis.Signal{Name: Mode, Init: "handles"})
	s.Init(vis.Signal{Name: Selected, Init: nil, Streams: []vis.Stream{
		{Type: "click", Expr: "eventItem()"},
	}})
	s.Init(vis.Signal{Name: Cell, Init: map[string]any{}, Streams: []vis.Stream{
		{Type: "mouseover", Expr: "eventGroup()"},
	}})
	return s
}

// Init registers a signal definition in the stash and seeds its value.
// The definition receives the next stash index; re-initializing an existing
// name keeps the original index so export ordering stays stable.
func (s *Store) Init(def vis.Signal) vis.Signal {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.stash[def.Name]; ok {
		def.Index = existing.Index
	} else {
		def.Index = s.nextIdx
		s.nextIdx++
	}
	s.stash[def.Name] = def
	if _, ok := s.values[def.Name]; !ok {
		s.values[def.Name] = def.Init
	}
	return def
}

// Value reads a signal's current value. The second return is false when the
// name was never initialized or set.
func (s *Store) Value(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name]
	return v, ok
}

// Set writes a signal's current value.
func (s *Store) Set(name string, value any) {
	s.mu.Lock()
	s.values[name] = value
	s.mu.Unlock()
	log.Debug(log.CatSignal, "signal set", "name", name)
}

// Stash returns the stashed definitions sorted ascending by Index. Signal
// definitions with data dependencies carry a higher index than their
// dependencies, so this order is safe to serialize directly.
func (s *Store) Stash() []vis.Signal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]vis.Signal, 0, len(s.stash))
	for _, def := range s.stash {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Names returns the stashed signal names in Index order.
func (s *Store) Names() []string {
	defs := s.Stash()
	names := make([]string, len(defs))
	for i, def := range defs {
		names[i] = def.Name
	}
	return names
}
