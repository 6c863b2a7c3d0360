// Package selection tracks which primitives are currently selected in the
// editor. The model invokes the Selector when the engine reports a mark
// selection signal change.
package selection

import (
	"errors"
	"sync"

	"github.com/zjrosen/glyph/internal/log"
	"github.com/zjrosen/glyph/internal/primitive"
)

// ErrUnknownPrimitive is returned when a selection names an id that does not
// resolve in the registry.
var ErrUnknownPrimitive = errors.New("selected id does not resolve to a primitive")

// Selector receives selection changes routed from the engine.
type Selector interface {
	// Select marks the primitive as selected. With exclusive set, any prior
	// selection is replaced; otherwise the primitive is added to it.
	Select(id primitive.ID, exclusive bool) error
}

// Tracker is the default Selector: an ordered set of selected ids validated
// against the registry.
type Tracker struct {
	reg *primitive.Registry

	mu       sync.Mutex
	selected []primitive.ID
}

// NewTracker creates a tracker over the given registry.
func NewTracker(reg *primitive.Registry) *Tracker {
	return &Tracker{reg: reg}
}

var _ Selector = (*Tracker)(nil)

// Select records the primitive as selected.
func (t *Tracker) Select(id primitive.ID, exclusive bool) error {
	if _, ok := t.reg.Lookup(id); !ok {
		return ErrUnknownPrimitive
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if exclusive {
		t.selected = t.selected[:0]
	}
	for _, existing := range t.selected {
		if existing == id {
			return nil
		}
	}
	t.selected = append(t.selected, id)
	log.Debug(log.CatModel, "primitive selected", "id", int64(id), "exclusive", exclusive)
	return nil
}

// Selected returns the selected ids in selection order.
func (t *Tracker) Selected() []primitive.ID {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]primitive.ID, len(t.selected))
	copy(out, t.selected)
	return out
}

// Clear empties the selection.
func (t *Tracker) Clear() {
	t.mu.Lock()
	t.selected = t.selected[:0]
	t.mu.Unlock()
}
