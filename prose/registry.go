// Copyright © 2024 The ELPS authors

package prose

import "sort"

// Registry maps symbol names to their current values.  A symbol is bound
// exactly when the registry holds an entry for its name.  A Registry is not
// safe for concurrent use.
type Registry struct {
	bindings map[string]*Val
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{bindings: make(map[string]*Val)}
}

// Get returns the value bound to name.
func (r *Registry) Get(name string) (*Val, bool) {
	v, ok := r.bindings[name]
	return v, ok
}

// Put binds name to v, replacing any previous binding.
func (r *Registry) Put(name string, v *Val) {
	r.bindings[name] = v
}

// Delete removes the binding for name, if any.
func (r *Registry) Delete(name string) {
	delete(r.bindings, name)
}

// Bound returns true if name has a binding.
func (r *Registry) Bound(name string) bool {
	_, ok := r.bindings[name]
	return ok
}

// Len returns the number of bound names.
func (r *Registry) Len() int {
	return len(r.bindings)
}

// Names returns the bound names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.bindings))
	for name := range r.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Binding is the state of one registry entry.  When Bound is false the entry
// is absent and Value is nil.
type Binding struct {
	Name  string
	Value *Val
	Bound bool
}

// Save returns the current state of the entry for name.
func (r *Registry) Save(name string) Binding {
	v, ok := r.bindings[name]
	return Binding{Name: name, Value: v, Bound: ok}
}

// Restore puts the entry for b.Name back into the state b describes.
func (r *Registry) Restore(b Binding) {
	if b.Bound {
		r.bindings[b.Name] = b.Value
		return
	}
	delete(r.bindings, b.Name)
}

// Capture returns the current bindings of those names which are bound.
func (r *Registry) Capture(names []string) []Binding {
	var bs []Binding
	for _, name := range names {
		if v, ok := r.bindings[name]; ok {
			bs = append(bs, Binding{Name: name, Value: v, Bound: true})
		}
	}
	return bs
}

// Install applies bs in order and returns a function which restores every
// entry it touched to its previous state.  Restoring happens in reverse
// order so a name installed twice ends up as it was before the first.
func (r *Registry) Install(bs []Binding) (restore func()) {
	saved := make([]Binding, len(bs))
	for i, b := range bs {
		saved[i] = r.Save(b.Name)
		r.Restore(b)
	}
	return func() {
		for i := len(saved) - 1; i >= 0; i-- {
			r.Restore(saved[i])
		}
	}
}
