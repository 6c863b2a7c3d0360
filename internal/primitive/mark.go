package primitive

import "github.com/zjrosen/glyph/internal/vis"

// Mark is a renderable primitive owned by the scene. Scale relationships are
// held as ids and resolved through the registry at export time.
type Mark struct {
	Base
	markType string
	from     string
	scaleX   ID
	scaleY   ID
	fieldX   string
	fieldY   string
	extra    map[string]any
}

// NewMark constructs a mark and registers it in the arena. Marks are normally
// created through Scene.AddMark.
func NewMark(reg *Registry, markType, name string) *Mark {
	m := &Mark{Base: Base{name: name, reg: reg}, markType: markType}
	m.id = reg.Register(m)
	return m
}

// SetFrom names the data source the mark iterates over.
func (m *Mark) SetFrom(data string) *Mark {
	m.from = data
	m.touch()
	return m
}

// BindX binds the x encoding to a scale id and data field.
func (m *Mark) BindX(scale ID, field string) *Mark {
	m.scaleX, m.fieldX = scale, field
	m.touch()
	return m
}

// BindY binds the y encoding to a scale id and data field.
func (m *Mark) BindY(scale ID, field string) *Mark {
	m.scaleY, m.fieldY = scale, field
	m.touch()
	return m
}

// SetProperty sets an extra update-set visual property.
func (m *Mark) SetProperty(key string, value any) *Mark {
	if m.extra == nil {
		m.extra = make(map[string]any)
	}
	m.extra[key] = value
	m.touch()
	return m
}

// scaleName resolves a scale id to its name. Empty when unbound.
func (m *Mark) scaleName(id ID) string {
	if id == 0 {
		return ""
	}
	p, ok := m.reg.Lookup(id)
	if !ok {
		return ""
	}
	s, ok := p.(*Scale)
	if !ok {
		return ""
	}
	return s.Name()
}

// Export produces the mark's spec fragment. The editor's per-mark id is
// embedded only on dirty exports; the engine hands it back on selection
// signals so the model can route selection to the owning primitive.
func (m *Mark) Export(clean bool) vis.Mark {
	update := make(map[string]any, len(m.extra)+2)
	if name := m.scaleName(m.scaleX); name != "" {
		update["x"] = map[string]any{"scale": name, "field": m.fieldX}
	}
	if name := m.scaleName(m.scaleY); name != "" {
		update["y"] = map[string]any{"scale": name, "field": m.fieldY}
	}
	for k, v := range m.extra {
		update[k] = v
	}

	out := vis.Mark{
		Type: m.markType,
		Name: m.name,
	}
	if m.from != "" {
		out.From = &vis.From{Data: m.from}
	}
	if len(update) > 0 {
		out.Properties = map[string]any{"update": update}
	}
	if !clean {
		out.GID = int64(m.id)
	}
	return out
}
