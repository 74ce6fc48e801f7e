package ecs

// Registry names every component store by kind. Destroying an entity strips
// it from all of them, and callers can ask which kinds an entity carries.
type Registry struct {
	kinds   []string
	stores  []Removable
	removed int
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds store under kind. Kinds are reported in registration order.
func (r *Registry) Register(kind string, store Removable) {
	r.kinds = append(r.kinds, kind)
	r.stores = append(r.stores, store)
}

// Kinds lists the kinds of component id currently carries.
func (r *Registry) Kinds(id EntityID) []string {
	var out []string
	for i, s := range r.stores {
		if s.Has(id) {
			out = append(out, r.kinds[i])
		}
	}
	return out
}

// Is reports whether id carries a component of kind.
func (r *Registry) Is(id EntityID, kind string) bool {
	for i, s := range r.stores {
		if r.kinds[i] == kind {
			return s.Has(id)
		}
	}
	return false
}

// RemoveAll strips id from every store and returns how many components it
// held.
func (r *Registry) RemoveAll(id EntityID) int {
	n := 0
	for _, s := range r.stores {
		if s.Has(id) {
			s.Remove(id)
			n++
		}
	}
	r.removed += n
	return n
}

// Removed is the running total of components stripped by RemoveAll.
func (r *Registry) Removed() int { return r.removed }
