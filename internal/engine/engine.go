// Package engine defines the contract the editor consumes from the rendering
// and dataflow engine. The engine itself is an external collaborator; the
// model only depends on these interfaces.
package engine

import (
	"context"
	"reflect"

	"github.com/zjrosen/glyph/internal/vis"
)

// SignalHandler observes a signal value change on a view.
type SignalHandler func(name string, value any)

// ChartFactory constructs a view bound to a target element once a spec has
// been parsed.
type ChartFactory func(target string) View

// Engine parses declarative specifications into renderable views.
type Engine interface {
	// Parse validates and compiles a specification. Parsing is the only
	// fallible step in the view lifecycle; the error carries the engine's
	// parse failure unmodified.
	Parse(ctx context.Context, spec *vis.Spec) (ChartFactory, error)

	// ResetTupleID resets the engine's global tuple-identity counter. Must be
	// called before each parse so tuple ids don't collide across successive
	// parses of different specs.
	ResetTupleID()
}

// View is a live rendering of a parsed specification. At most one view is
// live per model; the model destroys the old view before constructing a
// replacement.
type View interface {
	// Update triggers a re-render.
	Update()

	// Destroy tears down the view. All handlers are released; callers must
	// not use the view afterwards.
	Destroy()

	// OnSignal registers a handler for changes to the named signal.
	OnSignal(name string, h SignalHandler)

	// OffSignal removes handlers for the named signal. A nil handler removes
	// every handler registered for the name; otherwise removal matches
	// handler identity.
	OffSignal(name string, h SignalHandler)

	// Signal reads the view's current value for a signal.
	Signal(name string) (any, bool)

	// SetSignal writes a signal value into the view and notifies handlers.
	SetSignal(name string, value any)
}

// HandlerID returns a comparable identity for a signal handler, used for
// identity-matched removal. Two references to the same function value compare
// equal; distinct closures do not.
func HandlerID(h SignalHandler) uintptr {
	return reflect.ValueOf(h).Pointer()
}
