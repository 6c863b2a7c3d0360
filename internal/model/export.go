package model

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/glyph/internal/log"
	"github.com/zjrosen/glyph/internal/signals"
	"github.com/zjrosen/glyph/internal/vis"
)

// Export assembles a complete specification from the registered primitives.
// Clean exports drop editor-only properties and resolve signal references to
// literal values; dirty exports keep everything the editor needs to rebuild
// its affordances.
func (m *Model) Export(clean bool) *vis.Spec {
	return m.ExportInto(nil, clean)
}

// ExportInto assembles a specification onto base. A nil base starts from a
// fresh export of the root scene; a caller-supplied base is mutated and
// returned with the same identity. The data list is set to the concatenation,
// in pipeline-collection order, of every pipeline's exported data fragments.
func (m *Model) ExportInto(base *vis.Spec, clean bool) *vis.Spec {
	spec := base
	if spec == nil {
		spec = m.Scene().Export(clean)
	}

	data := make([]vis.Data, 0)
	for _, p := range m.Pipelines() {
		data = append(data, p.Export(clean)...)
	}
	spec.Data = data

	for _, s := range m.Scales() {
		spec.Scales = append(spec.Scales, s.Export(clean))
	}

	if clean {
		m.resolveSignalRefs(spec)
	}

	log.Debug(log.CatExport, "spec exported", "clean", clean, "data", len(spec.Data))
	return spec
}

// resolveSignalRefs replaces {"signal": name} property references in data
// transforms and mark properties with the signal's current literal value.
func (m *Model) resolveSignalRefs(spec *vis.Spec) {
	for i := range spec.Data {
		for j := range spec.Data[i].Transform {
			spec.Data[i].Transform[j].Properties = m.resolveMap(spec.Data[i].Transform[j].Properties)
		}
	}
	for i := range spec.Marks {
		spec.Marks[i].Properties = m.resolveMap(spec.Marks[i].Properties)
	}
}

// resolveMap returns a resolved copy; the input map may alias a primitive's
// stored state and must not be mutated.
func (m *Model) resolveMap(props map[string]any) map[string]any {
	if props == nil {
		return nil
	}
	out := make(map[string]any, len(props))
	for k, v := range props {
		val, ok := v.(map[string]any)
		if !ok {
			out[k] = v
			continue
		}
		if name, ok := val["signal"].(string); ok && len(val) == 1 {
			if literal, found := m.store.Value(name); found {
				out[k] = map[string]any{"value": literal}
				continue
			}
		}
		out[k] = m.resolveMap(val)
	}
	return out
}

// Manipulators builds the editor-augmented specification handed to the engine
// while editing: the dirty export plus the stashed signal definitions, the
// cell scoping predicate, the cursor machinery, and the placeholder drag
// target data sources.
func (m *Model) Manipulators() *vis.Spec {
	spec := m.ExportInto(m.Scene().Manipulators(), false)

	if spec.Signals == nil {
		spec.Signals = []vis.Signal{}
	}
	// Stash order is ascending by index: definitions with data dependencies
	// must serialize after their dependencies.
	spec.Signals = append(spec.Signals, m.store.Stash()...)

	if spec.Predicates == nil {
		spec.Predicates = []vis.Predicate{}
	}
	// Scopes manipulator visibility to the hovered/selected cell.
	spec.Predicates = append(spec.Predicates, vis.Predicate{
		Name: signals.Cell,
		Type: "==",
		Operands: []vis.Operand{
			{Signal: signals.Cell + ".key"},
			{Arg: "key"},
		},
	})

	if spec.Data == nil {
		spec.Data = []vis.Data{}
	}
	spec.Data = append(spec.Data, vis.Data{
		Name: "bubble_cursor",
		Transform: []vis.Transform{
			{Type: vis.TransformNS + "bubble_cursor"},
		},
	})

	if spec.Marks == nil {
		spec.Marks = []vis.Mark{}
	}
	spec.Marks = append(spec.Marks, vis.Mark{
		Type: "path",
		Name: "bubble_cursor",
		From: &vis.From{Data: "bubble_cursor"},
		Properties: map[string]any{
			"update": map[string]any{
				"path":        map[string]any{"field": "path"},
				"fill":        map[string]any{"value": "#000"},
				"fillOpacity": map[string]any{"value": 0.1},
			},
		},
	})

	// TODO(drag-onto-scene): replace these fixed drag targets once marks can
	// be dragged onto the scene directly.
	spec.Data = append(spec.Data,
		vis.Data{
			Name: "dummy_data_line",
			Values: []map[string]any{
				{"foo": 100, "bar": 100},
				{"foo": 200, "bar": 200},
			},
		},
		vis.Data{
			Name: "dummy_data_area",
			Values: []map[string]any{
				{"x": 100, "y": 100},
				{"x": 200, "y": 200},
			},
		},
	)

	return spec
}

// ManipulatorsJSON marshals the editor-augmented specification. Never cached;
// manipulator output depends on live signal state.
func (m *Model) ManipulatorsJSON(ctx context.Context) ([]byte, error) {
	_, span := m.tracer.Start(ctx, "model.manipulators")
	defer span.End()

	out, err := json.MarshalIndent(m.Manipulators(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling manipulators: %w", err)
	}
	return out, nil
}

// ExportJSON marshals a clean or dirty export. Results are cached per model
// revision so repeated exports of unchanged state don't re-marshal.
func (m *Model) ExportJSON(ctx context.Context, clean bool) ([]byte, error) {
	ctx, span := m.tracer.Start(ctx, "model.export")
	defer span.End()
	span.SetAttributes(
		attribute.Bool("export.clean", clean),
		attribute.Int64("model.revision", m.Revision()),
	)

	key := fmt.Sprintf("export:%t:%d", clean, m.Revision())
	if cached, ok := m.exportCache.Get(ctx, key); ok {
		return cached, nil
	}

	out, err := json.MarshalIndent(m.Export(clean), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling export: %w", err)
	}
	m.exportCache.Set(ctx, key, out, 0)
	return out, nil
}
