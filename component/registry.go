package component

import (
	"fmt"
	"sort"
	"sync"
)

// Registry provides component lookup by type identifier.
// Register all components before handing the registry to graph construction;
// the engine only reads from it.
type Registry struct {
	mu         sync.RWMutex
	components map[string]Component
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{components: make(map[string]Component)}
}

// Register adds a component to the registry.
// Returns an error if the type identifier is already taken.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	typ := c.Type()
	if _, exists := r.components[typ]; exists {
		return fmt.Errorf("component type %q already registered", typ)
	}
	r.components[typ] = c
	return nil
}

// MustRegister adds a component and panics on conflict. Intended for
// registration at program start.
func (r *Registry) MustRegister(c Component) {
	if err := r.Register(c); err != nil {
		panic(err)
	}
}

// Get retrieves a component by type identifier.
func (r *Registry) Get(typ string) (Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.components[typ]
	return c, ok
}

// Types returns sorted type identifiers of all registered components.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.components))
	for typ := range r.components {
		types = append(types, typ)
	}
	sort.Strings(types)
	return types
}
