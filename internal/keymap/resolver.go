package keymap

// Resolver maps key strings to actions within one context.
type Resolver struct {
	bindings map[string]Action
}

// NewResolver creates a resolver from bindings. A key bound twice resolves
// to the last binding.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{bindings: make(map[string]Action)}
	for _, b := range bindings {
		for _, key := range b.Keys {
			r.bindings[key] = b.Action
		}
	}
	return r
}

// ForContext creates a resolver for the bindings of one context.
func ForContext(context string) *Resolver {
	return NewResolver(ByContext(context))
}

// Resolve returns the action for a key, or empty string if not bound.
func (r *Resolver) Resolve(key string) Action {
	return r.bindings[key]
}
