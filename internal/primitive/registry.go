package primitive

import (
	"sync"
	"sync/atomic"
)

// Registry is an owning arena mapping ids to live primitives. Primitives are
// added exclusively at construction and persist for the registry's lifetime;
// there is no eviction. Every id held by a collection or a stash must resolve
// to a live primitive here - a dangling id is a bug, never a valid state.
type Registry struct {
	members   map[ID]Primitive
	membersMu sync.RWMutex
	nextID    atomic.Int64
	onMutate  func()
}

// NewRegistry creates an empty registry. Ids are allocated from 1 so the zero
// ID stays distinguishable from any real primitive.
func NewRegistry() *Registry {
	return &Registry{
		members: make(map[ID]Primitive),
	}
}

// Register stores p under a freshly allocated id and returns that id.
// Constructors call this before returning, so a primitive is resolvable the
// moment its constructor completes.
func (r *Registry) Register(p Primitive) ID {
	id := ID(r.nextID.Add(1))

	r.membersMu.Lock()
	r.members[id] = p
	r.membersMu.Unlock()

	return id
}

// SetOnMutate installs the mutation observer. Every setter on a registered
// primitive reports through Touch, so the owner of the registry sees each
// state change regardless of which handle it happened through. At most one
// observer; installed once at session construction.
func (r *Registry) SetOnMutate(fn func()) {
	r.membersMu.Lock()
	r.onMutate = fn
	r.membersMu.Unlock()
}

// Touch notifies the mutation observer, if any.
func (r *Registry) Touch() {
	r.membersMu.RLock()
	fn := r.onMutate
	r.membersMu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Lookup retrieves a primitive by id. The second return is false when no such
// id exists; callers are expected to only look up ids legitimately obtained
// from a collection or another primitive's state.
func (r *Registry) Lookup(id ID) (Primitive, bool) {
	r.membersMu.RLock()
	defer r.membersMu.RUnlock()
	p, ok := r.members[id]
	return p, ok
}

// Len returns the number of registered primitives.
func (r *Registry) Len() int {
	r.membersMu.RLock()
	defer r.membersMu.RUnlock()
	return len(r.members)
}
