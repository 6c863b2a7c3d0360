// Package primitive defines the editor's domain objects (scene, pipelines,
// scales, marks) and the owning registry that maps integer ids to them.
//
// Primitives never hold direct references to each other. Every cross-primitive
// relationship is an ID field resolved through the shared Registry, which
// avoids reference cycles and keeps exported state trivially serializable.
package primitive

// ID uniquely identifies a registered primitive. Ids start at 1; the zero
// value means "unset".
type ID int64

// Primitive is an editor-domain object with a stable integer identity.
// Type-specific export operations live on the concrete types; callers resolve
// an ID through the registry and type-assert to the concrete primitive.
type Primitive interface {
	ID() ID
	Name() string
}

// Base carries the identity shared by all primitives. Concrete types embed it
// and receive their id from Registry.Register at construction. It also holds
// the owning registry so setters can report mutations through it.
type Base struct {
	id   ID
	name string
	reg  *Registry
}

// ID returns the primitive's registry id.
func (b *Base) ID() ID { return b.id }

// Name returns the primitive's display name.
func (b *Base) Name() string { return b.name }

// touch reports a state mutation to the registry's observer. Every setter
// that changes exported state must call it.
func (b *Base) touch() {
	if b.reg != nil {
		b.reg.Touch()
	}
}
