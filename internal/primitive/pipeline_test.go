package primitive

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/glyph/internal/vis"
)

func TestPipeline_ExportFlattensDatasetsInOrder(t *testing.T) {
	reg := NewRegistry()
	p := NewPipeline(reg, "cars").
		AddDataset(Dataset{Name: "cars", URL: "data/cars.json"}).
		AddDataset(Dataset{Name: "cars_fast", Source: "cars"})

	out := p.Export(false)
	require.Len(t, out, 2)
	require.Equal(t, "cars", out[0].Name)
	require.Equal(t, "data/cars.json", out[0].URL)
	require.Equal(t, "cars_fast", out[1].Name)
	require.Equal(t, "cars", out[1].Source)
}

func TestPipeline_DirtyExportCarriesPipelineID(t *testing.T) {
	reg := NewRegistry()
	p := NewPipeline(reg, "cars").AddDataset(Dataset{Name: "cars"})

	dirty := p.Export(false)
	require.Equal(t, int64(p.ID()), dirty[0].Pipeline)

	clean := p.Export(true)
	require.Zero(t, clean[0].Pipeline)
}

func TestPipeline_CleanExportStripsNamespacedTransforms(t *testing.T) {
	reg := NewRegistry()
	p := NewPipeline(reg, "cars").AddDataset(Dataset{
		Name: "cars",
		Transform: []vis.Transform{
			{Type: "filter", Properties: map[string]any{"test": "d.hp > 100"}},
			{Type: vis.TransformNS + "handles"},
			{Type: "sort", Properties: map[string]any{"by": "hp"}},
		},
	})

	dirty := p.Export(false)
	require.Len(t, dirty[0].Transform, 3)

	clean := p.Export(true)
	require.Len(t, clean[0].Transform, 2)
	require.Equal(t, "filter", clean[0].Transform[0].Type)
	require.Equal(t, "sort", clean[0].Transform[1].Type)
}

func TestPipeline_ExportEmpty(t *testing.T) {
	reg := NewRegistry()
	p := NewPipeline(reg, "empty")

	require.Empty(t, p.Export(false))
	require.Empty(t, p.Export(true))
}
