// Package model is the central state object of the editor: the primitive
// arena, the typed pipeline/scale collections, the signal bridge into the
// rendering engine, the spec exporter, and the view lifecycle controller.
//
// All state lives on the Model rather than in package globals so independent
// editor sessions can coexist and tests stay hermetic.
package model

import (
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/glyph/internal/cachemanager"
	"github.com/zjrosen/glyph/internal/engine"
	"github.com/zjrosen/glyph/internal/log"
	"github.com/zjrosen/glyph/internal/primitive"
	"github.com/zjrosen/glyph/internal/selection"
	"github.com/zjrosen/glyph/internal/signals"
	"github.com/zjrosen/glyph/internal/vis"
)

// DefaultTarget is the element identifier a parsed view binds to when the
// caller does not name one.
const DefaultTarget = "#glyph-vis"

// Model owns one editor session's state and its single live view.
type Model struct {
	reg     *primitive.Registry
	sceneID primitive.ID
	store   *signals.Store
	eng     engine.Engine
	sel     selection.Selector
	tracer  trace.Tracer

	// parseMu serializes the view lifecycle: overlapping Parse calls queue
	// rather than race (the engine contract gives no way to cancel an
	// in-flight parse).
	parseMu sync.Mutex

	// mu guards the collections, the listener table and the view pointer.
	mu          sync.Mutex
	pipelineIDs []primitive.ID
	scaleIDs    []primitive.ID
	listeners   map[string][]engine.SignalHandler
	view        engine.View

	// revision increments on every mutation; the export cache keys on it.
	revision    atomic.Int64
	exportCache cachemanager.CacheManager[string, []byte]
}

// New creates a model with a fresh registry, a root scene, the reserved
// editor signals, and a selection tracker over the registry.
func New(eng engine.Engine) *Model {
	reg := primitive.NewRegistry()
	scene := primitive.NewScene(reg)

	m := &Model{
		reg:         reg,
		sceneID:     scene.ID(),
		store:       signals.New(),
		eng:         eng,
		tracer:      otel.Tracer("github.com/zjrosen/glyph/internal/model"),
		listeners:   make(map[string][]engine.SignalHandler),
		exportCache: cachemanager.NewInMemoryCacheManager[string, []byte]("export", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval),
	}
	m.sel = selection.NewTracker(reg)
	// Setter calls on any registered primitive bump the revision, so the
	// export cache never serves state mutated through a primitive handle.
	reg.SetOnMutate(m.touch)
	return m
}

// SetSelector replaces the selection collaborator. Intended for wiring a UI
// components layer in place of the default tracker.
func (m *Model) SetSelector(sel selection.Selector) {
	m.mu.Lock()
	m.sel = sel
	m.mu.Unlock()
}

// Registry returns the primitive arena.
func (m *Model) Registry() *primitive.Registry { return m.reg }

// Store returns the signal store.
func (m *Model) Store() *signals.Store { return m.store }

// Scene returns the root scene primitive.
func (m *Model) Scene() *primitive.Scene {
	p, ok := m.reg.Lookup(m.sceneID)
	if !ok {
		// The scene is created in New and never removed.
		panic("model: root scene missing from registry")
	}
	return p.(*primitive.Scene)
}

// Lookup resolves a primitive id through the arena.
func (m *Model) Lookup(id primitive.ID) (primitive.Primitive, bool) {
	return m.reg.Lookup(id)
}

// Revision returns the current mutation revision.
func (m *Model) Revision() int64 { return m.revision.Load() }

// touch records a mutation for export-cache invalidation.
func (m *Model) touch() { m.revision.Add(1) }

// ---------------------------------------------------------------------------
// Typed collections
// ---------------------------------------------------------------------------

// Pipelines returns every pipeline in insertion order.
func (m *Model) Pipelines() []*primitive.Pipeline {
	m.mu.Lock()
	ids := make([]primitive.ID, len(m.pipelineIDs))
	copy(ids, m.pipelineIDs)
	m.mu.Unlock()

	out := make([]*primitive.Pipeline, 0, len(ids))
	for _, id := range ids {
		p, ok := m.reg.Lookup(id)
		if !ok {
			log.Error(log.CatModel, "dangling pipeline id", "id", int64(id))
			continue
		}
		out = append(out, p.(*primitive.Pipeline))
	}
	return out
}

// PipelineByID resolves a pipeline by id. Resolution only; never creates.
func (m *Model) PipelineByID(id primitive.ID) (*primitive.Pipeline, bool) {
	p, ok := m.reg.Lookup(id)
	if !ok {
		return nil, false
	}
	pl, ok := p.(*primitive.Pipeline)
	return pl, ok
}

// CreatePipeline constructs a new pipeline with the given name, registers it,
// and appends its id to the collection.
func (m *Model) CreatePipeline(name string) *primitive.Pipeline {
	p := primitive.NewPipeline(m.reg, name)
	m.mu.Lock()
	m.pipelineIDs = append(m.pipelineIDs, p.ID())
	m.mu.Unlock()
	m.touch()
	log.Debug(log.CatModel, "pipeline created", "id", int64(p.ID()), "name", name)
	return p
}

// AddPipeline appends an already-constructed pipeline's id to the collection
// and returns the pipeline unchanged.
func (m *Model) AddPipeline(p *primitive.Pipeline) *primitive.Pipeline {
	m.mu.Lock()
	m.pipelineIDs = append(m.pipelineIDs, p.ID())
	m.mu.Unlock()
	m.touch()
	return p
}

// Scales returns every scale in insertion order.
func (m *Model) Scales() []*primitive.Scale {
	m.mu.Lock()
	ids := make([]primitive.ID, len(m.scaleIDs))
	copy(ids, m.scaleIDs)
	m.mu.Unlock()

	out := make([]*primitive.Scale, 0, len(ids))
	for _, id := range ids {
		p, ok := m.reg.Lookup(id)
		if !ok {
			log.Error(log.CatModel, "dangling scale id", "id", int64(id))
			continue
		}
		out = append(out, p.(*primitive.Scale))
	}
	return out
}

// ScaleByID resolves a scale by id. Resolution only; never creates.
func (m *Model) ScaleByID(id primitive.ID) (*primitive.Scale, bool) {
	p, ok := m.reg.Lookup(id)
	if !ok {
		return nil, false
	}
	s, ok := p.(*primitive.Scale)
	return s, ok
}

// CreateScale constructs a new scale with the given name, registers it, and
// appends its id to the collection.
func (m *Model) CreateScale(name string) *primitive.Scale {
	s := primitive.NewScale(m.reg, name)
	m.mu.Lock()
	m.scaleIDs = append(m.scaleIDs, s.ID())
	m.mu.Unlock()
	m.touch()
	log.Debug(log.CatModel, "scale created", "id", int64(s.ID()), "name", name)
	return s
}

// AddScale appends an already-constructed scale's id to the collection and
// returns the scale unchanged.
func (m *Model) AddScale(s *primitive.Scale) *primitive.Scale {
	m.mu.Lock()
	m.scaleIDs = append(m.scaleIDs, s.ID())
	m.mu.Unlock()
	m.touch()
	return s
}

// ---------------------------------------------------------------------------
// Signal bridge
// ---------------------------------------------------------------------------

// Signal reads a signal's current value from the store.
func (m *Model) Signal(name string) (any, bool) {
	return m.store.Value(name)
}

// SetSignal writes a signal value into the store and, when a view is live,
// propagates the change to it.
func (m *Model) SetSignal(name string, value any) {
	m.store.Set(name, value)
	m.touch()

	m.mu.Lock()
	view := m.view
	m.mu.Unlock()
	if view != nil {
		view.SetSignal(name, value)
	}
}

// InitSignal registers a signal definition in the stash and seeds its value.
func (m *Model) InitSignal(def vis.Signal) vis.Signal {
	out := m.store.Init(def)
	m.touch()
	return out
}
