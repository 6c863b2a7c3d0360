package primitive

import "github.com/zjrosen/glyph/internal/vis"

// Scene is the distinguished root primitive. It is created once at model
// initialization and never replaced. Marks and scales are held as id lists
// and resolved through the registry at export time.
type Scene struct {
	Base
	width   int
	height  int
	padding any
	markIDs []ID
}

// NewScene constructs the root scene and registers it in the arena.
func NewScene(reg *Registry) *Scene {
	s := &Scene{
		Base:   Base{name: "scene", reg: reg},
		width:  500,
		height: 375,
	}
	s.id = reg.Register(s)
	return s
}

// SetSize sets the scene dimensions.
func (s *Scene) SetSize(width, height int) *Scene {
	s.width, s.height = width, height
	s.touch()
	return s
}

// SetPadding sets the scene padding (number, "auto", or per-side object).
func (s *Scene) SetPadding(padding any) *Scene {
	s.padding = padding
	s.touch()
	return s
}

// AddMark constructs a mark, registers it, and appends its id to the scene.
func (s *Scene) AddMark(markType, name string) *Mark {
	m := NewMark(s.reg, markType, name)
	s.markIDs = append(s.markIDs, m.ID())
	s.touch()
	return m
}

// MarkIDs returns the scene's mark ids in insertion order.
func (s *Scene) MarkIDs() []ID {
	return s.markIDs
}

// marks resolves the scene's mark ids. Dangling ids are skipped; they cannot
// occur outside a construction race.
func (s *Scene) marks() []*Mark {
	out := make([]*Mark, 0, len(s.markIDs))
	for _, id := range s.markIDs {
		p, ok := s.reg.Lookup(id)
		if !ok {
			continue
		}
		if m, ok := p.(*Mark); ok {
			out = append(out, m)
		}
	}
	return out
}

// Export produces the scene's top-level spec: dimensions, padding, and the
// resolved mark list. The data list is left empty; the exporter fills it from
// the pipeline collection.
func (s *Scene) Export(clean bool) *vis.Spec {
	spec := &vis.Spec{
		Name:    s.name,
		Width:   s.width,
		Height:  s.height,
		Padding: s.padding,
		Data:    []vis.Data{},
	}
	for _, m := range s.marks() {
		spec.Marks = append(spec.Marks, m.Export(clean))
	}
	return spec
}

// Manipulators produces the scene's editor-augmented export: a dirty export
// whose marks additionally carry a hover property set so the engine can
// highlight the hovered mark while editing.
func (s *Scene) Manipulators() *vis.Spec {
	spec := s.Export(false)
	for i := range spec.Marks {
		if spec.Marks[i].Properties == nil {
			spec.Marks[i].Properties = make(map[string]any)
		}
		spec.Marks[i].Properties["hover"] = map[string]any{
			"fill": map[string]any{"value": "#fc0"},
		}
	}
	return spec
}
