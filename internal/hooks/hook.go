package hooks

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// MarkerAttr is the attribute naming the hook attached to an element.
const MarkerAttr = "phx-hook"

// ErrUnknownHook is returned when an element names a hook that is not
// registered.
var ErrUnknownHook = errors.New("unknown hook")

// Hook is a behaviour bound to one element for that element's lifetime.
// Anything Mount acquires (listeners, timers) must be released by Unmount.
type Hook interface {
	Mount(el Element) error
}

// Updater is implemented by hooks that react to the element being patched.
type Updater interface {
	Update(el Element)
}

// Unmounter is implemented by hooks that hold resources.
type Unmounter interface {
	Unmount(el Element)
}

// Factory creates a fresh Hook for one element.
type Factory func() Hook

// Registry maps hook names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory. Names must be unique.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" {
		return errors.New("hook name must not be empty")
	}
	if f == nil {
		return fmt.Errorf("hook %q: nil factory", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("hook %q already registered", name)
	}
	r.factories[name] = f
	return nil
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Names returns the registered hook names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
