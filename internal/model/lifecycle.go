package model

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/glyph/internal/engine"
	"github.com/zjrosen/glyph/internal/log"
	"github.com/zjrosen/glyph/internal/primitive"
	"github.com/zjrosen/glyph/internal/signals"
	"github.com/zjrosen/glyph/internal/vis"
)

// Parse rebuilds the live view from the current manipulator specification.
// Any prior view is fully torn down before the new spec is parsed, so DOM and
// signal bindings never double up. The engine's tuple-identity counter is
// reset per parse so tuple ids don't collide across successive specs. On
// success the new view has the selection handler and every listener-table
// entry registered, and one update pass has completed.
//
// Parse failures propagate the engine's parse error; no local recovery.
func (m *Model) Parse(ctx context.Context, target string) error {
	m.parseMu.Lock()
	defer m.parseMu.Unlock()

	ctx, span := m.tracer.Start(ctx, "model.parse")
	defer span.End()

	if target == "" {
		target = DefaultTarget
	}
	span.SetAttributes(attribute.String("view.target", target))

	// Teardown strictly precedes the new parse.
	m.mu.Lock()
	if m.view != nil {
		m.view.Destroy()
		m.view = nil
	}
	m.mu.Unlock()

	m.eng.ResetTupleID()

	spec := m.Manipulators()
	factory, err := m.eng.Parse(ctx, spec)
	if err != nil {
		span.RecordError(err)
		log.ErrorErr(log.CatEngine, "spec parse failed", err, "target", target)
		return fmt.Errorf("parsing spec: %w", err)
	}

	view := factory(target)

	m.mu.Lock()
	m.view = view
	view.OnSignal(signals.Selected, m.handleSelected)
	for name, hs := range m.listeners {
		for _, h := range hs {
			view.OnSignal(name, h)
		}
	}
	m.mu.Unlock()

	view.Update()
	log.Info(log.CatModel, "view parsed", "target", target)
	return nil
}

// Update triggers the live view's re-render. Returns the model for chaining.
func (m *Model) Update() *Model {
	m.mu.Lock()
	view := m.view
	m.mu.Unlock()
	if view != nil {
		view.Update()
	}
	return m
}

// View returns the live view, or nil when none has been parsed.
func (m *Model) View() engine.View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

// Close destroys the live view, if any.
func (m *Model) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.view != nil {
		m.view.Destroy()
		m.view = nil
	}
}

// handleSelected routes the engine's mark selection signal to the selection
// collaborator using the per-mark id embedded in the mark's definition.
func (m *Model) handleSelected(_ string, value any) {
	id, ok := markID(value)
	if !ok {
		return
	}
	if err := m.sel.Select(id, true); err != nil {
		log.ErrorErr(log.CatModel, "selection failed", err, "id", int64(id))
	}
}

// markID extracts the embedded primitive id from a selected mark definition.
// The engine may hand back the typed definition or its decoded JSON form.
func markID(value any) (primitive.ID, bool) {
	switch v := value.(type) {
	case vis.Mark:
		if v.GID != 0 {
			return primitive.ID(v.GID), true
		}
	case *vis.Mark:
		if v != nil && v.GID != 0 {
			return primitive.ID(v.GID), true
		}
	case map[string]any:
		switch gid := v["_gid"].(type) {
		case float64:
			if gid != 0 {
				return primitive.ID(gid), true
			}
		case int64:
			if gid != 0 {
				return primitive.ID(gid), true
			}
		case int:
			if gid != 0 {
				return primitive.ID(gid), true
			}
		}
	}
	return 0, false
}

// OnSignal registers a handler for the named signal. The handler takes effect
// immediately on a live view and is replayed onto any view Parse constructs
// later.
func (m *Model) OnSignal(name string, h engine.SignalHandler) {
	m.mu.Lock()
	m.listeners[name] = append(m.listeners[name], h)
	view := m.view
	m.mu.Unlock()

	if view != nil {
		view.OnSignal(name, h)
	}
}

// OffSignal removes handlers for the named signal from the listener table
// and, when a view is live, from the view. A nil handler removes every
// handler registered for the name; otherwise removal matches handler
// identity.
func (m *Model) OffSignal(name string, h engine.SignalHandler) {
	m.mu.Lock()
	hs := m.listeners[name]
	// Reverse iteration so splicing while removing stays safe.
	for i := len(hs) - 1; i >= 0; i-- {
		if h == nil || engine.HandlerID(hs[i]) == engine.HandlerID(h) {
			hs = append(hs[:i], hs[i+1:]...)
		}
	}
	if len(hs) == 0 {
		delete(m.listeners, name)
	} else {
		m.listeners[name] = hs
	}
	view := m.view
	m.mu.Unlock()

	if view != nil {
		view.OffSignal(name, h)
	}
}

// Listeners returns the number of registered handlers for a signal name.
func (m *Model) Listeners(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listeners[name])
}
