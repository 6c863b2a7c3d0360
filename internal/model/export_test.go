package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/glyph/internal/engine/headless"
	"github.com/zjrosen/glyph/internal/primitive"
	"github.com/zjrosen/glyph/internal/signals"
	"github.com/zjrosen/glyph/internal/vis"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	m := New(headless.New())
	t.Cleanup(m.Close)
	return m
}

func TestExport_EmptyModelHasEmptyDataArray(t *testing.T) {
	m := newTestModel(t)

	spec := m.Export(true)
	require.NotNil(t, spec.Data)
	require.Empty(t, spec.Data)
	require.Empty(t, spec.Scales)
	require.Empty(t, spec.Marks)
}

func TestExport_ConcatenatesPipelinesInCollectionOrder(t *testing.T) {
	m := newTestModel(t)

	m.CreatePipeline("p1").
		AddDataset(primitive.Dataset{Name: "a"}).
		AddDataset(primitive.Dataset{Name: "b"})
	m.CreatePipeline("p2").
		AddDataset(primitive.Dataset{Name: "c"})

	spec := m.Export(true)
	require.Len(t, spec.Data, 3)
	require.Equal(t, "a", spec.Data[0].Name)
	require.Equal(t, "b", spec.Data[1].Name)
	require.Equal(t, "c", spec.Data[2].Name)
}

func TestExport_IncludesScales(t *testing.T) {
	m := newTestModel(t)
	m.CreateScale("x").SetType("linear").SetRange("width")
	m.CreateScale("y").SetRange("height")

	spec := m.Export(true)
	require.Len(t, spec.Scales, 2)
	require.Equal(t, "x", spec.Scales[0].Name)
	require.Equal(t, "y", spec.Scales[1].Name)
}

func TestExport_CleanDropsEditorState(t *testing.T) {
	m := newTestModel(t)

	p := m.CreatePipeline("cars").AddDataset(primitive.Dataset{
		Name: "cars",
		Transform: []vis.Transform{
			{Type: "filter", Properties: map[string]any{"test": "d.hp > 100"}},
			{Type: vis.TransformNS + "handles"},
		},
	})
	x := m.CreateScale("x")
	m.Scene().AddMark("symbol", "points").BindX(x.ID(), "hp")

	dirty := m.Export(false)
	require.Equal(t, int64(p.ID()), dirty.Data[0].Pipeline)
	require.Len(t, dirty.Data[0].Transform, 2)
	require.NotZero(t, dirty.Marks[0].GID)

	clean := m.Export(true)
	require.Zero(t, clean.Data[0].Pipeline)
	require.Len(t, clean.Data[0].Transform, 1)
	require.Zero(t, clean.Marks[0].GID)
}

func TestExport_CleanResolvesSignalRefsToLiterals(t *testing.T) {
	m := newTestModel(t)
	m.InitSignal(vis.Signal{Name: "threshold", Init: 100})
	m.SetSignal("threshold", 250)

	m.CreatePipeline("cars").AddDataset(primitive.Dataset{
		Name: "cars",
		Transform: []vis.Transform{
			{Type: "filter", Properties: map[string]any{
				"test": map[string]any{"signal": "threshold"},
			}},
		},
	})
	m.Scene().AddMark("symbol", "points").
		SetProperty("size", map[string]any{"signal": "threshold"})

	clean := m.Export(true)
	require.Equal(t, map[string]any{"value": 250}, clean.Data[0].Transform[0].Properties["test"])

	update := clean.Marks[0].Properties["update"].(map[string]any)
	require.Equal(t, map[string]any{"value": 250}, update["size"])

	// Dirty exports keep the reference live.
	dirty := m.Export(false)
	update = dirty.Marks[0].Properties["update"].(map[string]any)
	require.Equal(t, map[string]any{"signal": "threshold"}, update["size"])
}

func TestExport_UnknownSignalRefLeftIntact(t *testing.T) {
	m := newTestModel(t)
	m.Scene().AddMark("symbol", "points").
		SetProperty("size", map[string]any{"signal": "nonexistent"})

	clean := m.Export(true)
	update := clean.Marks[0].Properties["update"].(map[string]any)
	require.Equal(t, map[string]any{"signal": "nonexistent"}, update["size"])
}

func TestExportInto_PreservesBaseIdentity(t *testing.T) {
	m := newTestModel(t)
	m.CreatePipeline("cars").AddDataset(primitive.Dataset{Name: "cars"})

	base := &vis.Spec{Name: "custom"}
	out := m.ExportInto(base, true)
	require.Same(t, base, out)
	require.Equal(t, "custom", out.Name)
	require.Len(t, out.Data, 1)
}

func TestManipulators_InjectsStashedSignalsInIndexOrder(t *testing.T) {
	m := newTestModel(t)
	m.InitSignal(vis.Signal{Name: "zed", Init: 1})
	m.InitSignal(vis.Signal{Name: "alpha", Init: 2})

	spec := m.Manipulators()

	var names []string
	for _, def := range spec.Signals {
		names = append(names, def.Name)
	}
	require.Equal(t, []string{signals.Mode, signals.Selected, signals.Cell, "zed", "alpha"}, names)
}

func TestManipulators_InjectsCellPredicate(t *testing.T) {
	m := newTestModel(t)

	spec := m.Manipulators()
	require.Len(t, spec.Predicates, 1)

	pred := spec.Predicates[0]
	require.Equal(t, signals.Cell, pred.Name)
	require.Equal(t, "==", pred.Type)
	require.Len(t, pred.Operands, 2)
	require.Equal(t, signals.Cell+".key", pred.Operands[0].Signal)
	require.Equal(t, "key", pred.Operands[1].Arg)
}

func TestManipulators_InjectsCursorAndDragTargets(t *testing.T) {
	m := newTestModel(t)
	m.CreatePipeline("cars").AddDataset(primitive.Dataset{Name: "cars"})

	spec := m.Manipulators()

	byName := make(map[string]vis.Data, len(spec.Data))
	for _, d := range spec.Data {
		byName[d.Name] = d
	}

	cursor, ok := byName["bubble_cursor"]
	require.True(t, ok)
	require.Len(t, cursor.Transform, 1)
	require.Equal(t, vis.TransformNS+"bubble_cursor", cursor.Transform[0].Type)

	line, ok := byName["dummy_data_line"]
	require.True(t, ok)
	require.Equal(t, []map[string]any{
		{"foo": 100, "bar": 100},
		{"foo": 200, "bar": 200},
	}, line.Values)

	area, ok := byName["dummy_data_area"]
	require.True(t, ok)
	require.Equal(t, []map[string]any{
		{"x": 100, "y": 100},
		{"x": 200, "y": 200},
	}, area.Values)

	last := spec.Marks[len(spec.Marks)-1]
	require.Equal(t, "path", last.Type)
	require.Equal(t, "bubble_cursor", last.Name)
	require.Equal(t, "bubble_cursor", last.From.Data)
}

func TestManipulators_UserDataPrecedesInjectedData(t *testing.T) {
	m := newTestModel(t)
	m.CreatePipeline("cars").AddDataset(primitive.Dataset{Name: "cars"})

	spec := m.Manipulators()
	require.Equal(t, "cars", spec.Data[0].Name)
}

func TestExportJSON_StableAcrossCalls(t *testing.T) {
	m := newTestModel(t)
	m.CreatePipeline("cars").AddDataset(primitive.Dataset{Name: "cars"})

	ctx := context.Background()
	first, err := m.ExportJSON(ctx, true)
	require.NoError(t, err)

	second, err := m.ExportJSON(ctx, true)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestExportJSON_ReflectsPrimitiveHandleMutations(t *testing.T) {
	m := newTestModel(t)
	ctx := context.Background()

	p := m.CreatePipeline("cars")

	before, err := m.ExportJSON(ctx, true)
	require.NoError(t, err)

	// Mutation through the pipeline handle, not a Model method.
	p.AddDataset(primitive.Dataset{Name: "cars"})

	after, err := m.ExportJSON(ctx, true)
	require.NoError(t, err)
	require.NotEqual(t, before, after, "export should reflect the added dataset")
	require.Contains(t, string(after), `"cars"`)
}

func TestRevision_BumpsOnEverySetterPath(t *testing.T) {
	m := newTestModel(t)

	p := m.CreatePipeline("cars")
	s := m.CreateScale("x")
	mk := m.Scene().AddMark("symbol", "points")

	mutations := []func(){
		func() { p.AddDataset(primitive.Dataset{Name: "cars"}) },
		func() { s.SetType("ordinal") },
		func() { s.SetDomain([]float64{0, 1}) },
		func() { s.SetRange("width") },
		func() { m.Scene().SetSize(800, 600) },
		func() { m.Scene().SetPadding("auto") },
		func() { mk.SetFrom("cars") },
		func() { mk.BindX(s.ID(), "hp") },
		func() { mk.BindY(s.ID(), "mpg") },
		func() { mk.SetProperty("fill", map[string]any{"value": "#000"}) },
	}
	for i, mutate := range mutations {
		before := m.Revision()
		mutate()
		require.Greater(t, m.Revision(), before, "mutation %d should bump the revision", i)
	}
}

func TestExportJSON_ReflectsMutations(t *testing.T) {
	m := newTestModel(t)
	ctx := context.Background()

	before, err := m.ExportJSON(ctx, true)
	require.NoError(t, err)

	m.CreatePipeline("cars").AddDataset(primitive.Dataset{Name: "cars"})

	after, err := m.ExportJSON(ctx, true)
	require.NoError(t, err)
	require.NotEqual(t, before, after)
	require.Contains(t, string(after), `"cars"`)
}
