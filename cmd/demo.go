package cmd

import (
	"github.com/zjrosen/glyph/internal/engine"
	"github.com/zjrosen/glyph/internal/model"
	"github.com/zjrosen/glyph/internal/primitive"
	"github.com/zjrosen/glyph/internal/vis"
)

// demoSession builds a small but complete editor session: one pipeline with a
// source and a derived dataset, two scales, and a symbol mark bound to both.
// Commands that need a session to export or parse start from this.
func demoSession(eng engine.Engine) *model.Model {
	m := model.New(eng)

	cars := m.CreatePipeline("cars")
	cars.AddDataset(primitive.Dataset{
		Name: "cars",
		Values: []map[string]any{
			{"hp": 130, "mpg": 18},
			{"hp": 165, "mpg": 15},
			{"hp": 95, "mpg": 24},
			{"hp": 105, "mpg": 22},
		},
	})
	cars.AddDataset(primitive.Dataset{
		Name:   "cars_fast",
		Source: "cars",
		Transform: []vis.Transform{
			{Type: "filter", Properties: map[string]any{"test": "datum.hp > 100"}},
		},
	})

	x := m.CreateScale("x").SetDomain(vis.DataRef{Data: "cars", Field: "hp"}).SetRange("width")
	y := m.CreateScale("y").SetDomain(vis.DataRef{Data: "cars", Field: "mpg"}).SetRange("height")

	m.Scene().SetSize(600, 400).
		AddMark("symbol", "points").
		SetFrom("cars").
		BindX(x.ID(), "hp").
		BindY(y.ID(), "mpg").
		SetProperty("fill", map[string]any{"value": "#4682b4"})

	return m
}
