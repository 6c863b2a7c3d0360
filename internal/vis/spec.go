// Package vis defines the declarative specification types handed to the
// rendering engine. The types mirror the engine's JSON wire format; editor-only
// fields are tagged so clean exports can drop them.
package vis

import "encoding/json"

// TransformNS prefixes editor-private transform types so the engine can
// distinguish them from user-visible transforms.
const TransformNS = "glyph."

// Spec is a complete renderable specification.
type Spec struct {
	Name       string      `json:"name,omitempty"`
	Width      int         `json:"width,omitempty"`
	Height     int         `json:"height,omitempty"`
	Padding    any         `json:"padding,omitempty"`
	Data       []Data      `json:"data"`
	Scales     []Scale     `json:"scales,omitempty"`
	Signals    []Signal    `json:"signals,omitempty"`
	Predicates []Predicate `json:"predicates,omitempty"`
	Marks      []Mark      `json:"marks,omitempty"`
}

// Data is a named data source with an optional transform chain.
type Data struct {
	Name      string           `json:"name"`
	URL       string           `json:"url,omitempty"`
	Source    string           `json:"source,omitempty"`
	Values    []map[string]any `json:"values,omitempty"`
	Transform []Transform      `json:"transform,omitempty"`

	// Pipeline is the owning pipeline's id. Editor-only; dropped on clean export.
	Pipeline int64 `json:"_pipeline,omitempty"`
}

// Transform is a single transform step. Properties are flattened next to the
// type discriminator on the wire.
type Transform struct {
	Type       string
	Properties map[string]any
}

// MarshalJSON flattens Properties alongside "type".
func (t Transform) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(t.Properties)+1)
	for k, v := range t.Properties {
		obj[k] = v
	}
	obj["type"] = t.Type
	return json.Marshal(obj)
}

// UnmarshalJSON splits the "type" discriminator back out of the flat object.
func (t *Transform) UnmarshalJSON(data []byte) error {
	obj := make(map[string]any)
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if typ, ok := obj["type"].(string); ok {
		t.Type = typ
	}
	delete(obj, "type")
	if len(obj) > 0 {
		t.Properties = obj
	}
	return nil
}

// Scale maps data values to visual values.
type Scale struct {
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"`
	Domain any    `json:"domain,omitempty"`
	Range  any    `json:"range,omitempty"`
}

// DataRef references a field of a named data source, for scale domains.
type DataRef struct {
	Data  string `json:"data"`
	Field string `json:"field,omitempty"`
}

// Signal is a named live value definition. Index records the signal's
// topological position in the stash; definitions with data dependencies must
// serialize after their dependencies, so exports sort ascending by Index.
type Signal struct {
	Name    string   `json:"name"`
	Init    any      `json:"init,omitempty"`
	Streams []Stream `json:"streams,omitempty"`

	Index int `json:"-"`
}

// Stream binds an event stream expression to a signal.
type Stream struct {
	Type string `json:"type"`
	Expr string `json:"expr,omitempty"`
}

// Predicate is a named boolean test over signal values and bound arguments.
type Predicate struct {
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Operands []Operand `json:"operands,omitempty"`
}

// Operand is one side of a predicate comparison. Exactly one field is set.
type Operand struct {
	Value  any    `json:"value,omitempty"`
	Arg    string `json:"arg,omitempty"`
	Signal string `json:"signal,omitempty"`
}

// Mark is a renderable visual element.
type Mark struct {
	Type       string         `json:"type"`
	Name       string         `json:"name,omitempty"`
	From       *From          `json:"from,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`

	// GID is the editor's per-mark primitive id, used to route engine
	// selection events back to the owning primitive. Editor-only.
	GID int64 `json:"_gid,omitempty"`
}

// From names the data source a mark iterates over.
type From struct {
	Data string `json:"data,omitempty"`
	Mark string `json:"mark,omitempty"`
}
