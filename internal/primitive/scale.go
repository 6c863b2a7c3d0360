package primitive

import "github.com/zjrosen/glyph/internal/vis"

// Scale is a named primitive mapping data values to visual values.
type Scale struct {
	Base
	scaleType string
	domain    any
	rng       any
}

// NewScale constructs a scale and registers it in the arena.
func NewScale(reg *Registry, name string) *Scale {
	s := &Scale{Base: Base{name: name, reg: reg}, scaleType: "linear"}
	s.id = reg.Register(s)
	return s
}

// SetType sets the scale type (linear, ordinal, ...).
func (s *Scale) SetType(t string) *Scale {
	s.scaleType = t
	s.touch()
	return s
}

// SetDomain sets the scale domain: a literal range or a vis.DataRef.
func (s *Scale) SetDomain(domain any) *Scale {
	s.domain = domain
	s.touch()
	return s
}

// SetRange sets the scale range: a literal range or a range shorthand
// ("width", "height", "category10").
func (s *Scale) SetRange(rng any) *Scale {
	s.rng = rng
	s.touch()
	return s
}

// Export produces the scale's spec fragment. Scales carry no editor-only
// state, so clean and dirty exports are identical.
func (s *Scale) Export(clean bool) vis.Scale {
	return vis.Scale{
		Name:   s.name,
		Type:   s.scaleType,
		Domain: s.domain,
		Range:  s.rng,
	}
}
