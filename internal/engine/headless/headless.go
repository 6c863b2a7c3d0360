// Package headless provides an in-process rendering engine implementation.
// It performs structural validation in place of real dataflow compilation and
// drives signal handlers synchronously, which is what the CLI, the playground
// and the tests need from an engine.
package headless

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/zjrosen/glyph/internal/engine"
	"github.com/zjrosen/glyph/internal/log"
	"github.com/zjrosen/glyph/internal/pubsub"
	"github.com/zjrosen/glyph/internal/vis"
)

// Parse errors.
var (
	ErrNilSpec       = errors.New("spec cannot be nil")
	ErrDuplicateData = errors.New("duplicate data source name")
	ErrUnknownSource = errors.New("data source references unknown source")
)

// Engine is the headless engine. It satisfies engine.Engine.
type Engine struct {
	tupleID atomic.Int64
	broker  *pubsub.Broker[SignalChange]
}

// SignalChange is the payload published on every view signal write.
type SignalChange struct {
	Signal string
	Value  any
}

// New creates a headless engine.
func New() *Engine {
	return &Engine{broker: pubsub.NewBroker[SignalChange]()}
}

var _ engine.Engine = (*Engine)(nil)

// Events exposes the engine's signal change broker for observers such as the
// playground.
func (e *Engine) Events() *pubsub.Broker[SignalChange] {
	return e.broker
}

// ResetTupleID resets the global tuple-identity counter.
func (e *Engine) ResetTupleID() {
	e.tupleID.Store(0)
}

// NextTupleID allocates the next tuple identity.
func (e *Engine) NextTupleID() int64 {
	return e.tupleID.Add(1)
}

// Parse validates the specification and returns a factory for views of it.
func (e *Engine) Parse(ctx context.Context, spec *vis.Spec) (engine.ChartFactory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if spec == nil {
		return nil, ErrNilSpec
	}

	names := make(map[string]bool, len(spec.Data))
	for _, d := range spec.Data {
		if names[d.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateData, d.Name)
		}
		names[d.Name] = true
	}
	for _, d := range spec.Data {
		if d.Source != "" && !names[d.Source] {
			return nil, fmt.Errorf("%w: %q -> %q", ErrUnknownSource, d.Name, d.Source)
		}
	}

	log.Debug(log.CatEngine, "spec parsed",
		"data", len(spec.Data),
		"signals", len(spec.Signals),
		"marks", len(spec.Marks))

	return func(target string) engine.View {
		v := &View{
			engine:   e,
			target:   target,
			spec:     spec,
			signals:  make(map[string]any, len(spec.Signals)),
			handlers: make(map[string][]engine.SignalHandler),
		}
		for _, def := range spec.Signals {
			v.signals[def.Name] = def.Init
		}
		return v
	}, nil
}

// View is a headless live view. Signal writes drive handlers synchronously on
// the calling goroutine.
type View struct {
	engine *Engine
	target string
	spec   *vis.Spec

	mu        sync.Mutex
	signals   map[string]any
	handlers  map[string][]engine.SignalHandler
	renders   int
	destroyed bool
}

var _ engine.View = (*View)(nil)

// Target returns the element identifier the view is bound to.
func (v *View) Target() string { return v.target }

// Renders returns the number of completed update passes.
func (v *View) Renders() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renders
}

// Destroyed reports whether Destroy has run.
func (v *View) Destroyed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.destroyed
}

// Update triggers a render pass. No-op after Destroy.
func (v *View) Update() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.destroyed {
		return
	}
	v.renders++
}

// Destroy tears the view down and releases all handlers.
func (v *View) Destroy() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.destroyed {
		return
	}
	v.destroyed = true
	v.handlers = nil
	log.Debug(log.CatEngine, "view destroyed", "target", v.target)
}

// OnSignal registers a handler for the named signal.
func (v *View) OnSignal(name string, h engine.SignalHandler) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.destroyed {
		return
	}
	v.handlers[name] = append(v.handlers[name], h)
}

// OffSignal removes handlers for the named signal. Nil removes all handlers
// for the name; otherwise removal matches handler identity.
func (v *View) OffSignal(name string, h engine.SignalHandler) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.destroyed {
		return
	}
	hs := v.handlers[name]
	for i := len(hs) - 1; i >= 0; i-- {
		if h == nil || engine.HandlerID(hs[i]) == engine.HandlerID(h) {
			hs = append(hs[:i], hs[i+1:]...)
		}
	}
	if len(hs) == 0 {
		delete(v.handlers, name)
	} else {
		v.handlers[name] = hs
	}
}

// Signal reads the view's current value for a signal.
func (v *View) Signal(name string) (any, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	val, ok := v.signals[name]
	return val, ok
}

// SetSignal writes a signal value, notifies handlers and publishes the change
// on the engine's event broker.
func (v *View) SetSignal(name string, value any) {
	v.mu.Lock()
	if v.destroyed {
		v.mu.Unlock()
		return
	}
	v.signals[name] = value
	hs := make([]engine.SignalHandler, len(v.handlers[name]))
	copy(hs, v.handlers[name])
	v.mu.Unlock()

	for _, h := range hs {
		h(name, value)
	}
	v.engine.broker.Publish(pubsub.SignalChangedEvent, SignalChange{Signal: name, Value: value})
}
