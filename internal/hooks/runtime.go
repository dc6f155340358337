package hooks

import (
	"context"
	"fmt"
	"sync"

	"github.com/conneroisu/heroglyph/internal/logging"
)

// Runtime drives hook lifecycles for the elements of one document. It
// guarantees Mount runs once per element and Unmount runs once, whichever
// removal path detaches the element.
type Runtime struct {
	registry *Registry
	logger   logging.Logger

	mu      sync.Mutex
	mounted map[Element]Hook
	order   []Element
}

// NewRuntime creates a runtime for registry.
func NewRuntime(registry *Registry, logger logging.Logger) *Runtime {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Runtime{
		registry: registry,
		logger:   logger.WithComponent("hooks"),
		mounted:  make(map[Element]Hook),
	}
}

// Mount attaches the hook named by el's marker attribute. Mounting an
// element twice is a no-op.
func (r *Runtime) Mount(el Element) error {
	name, ok := el.Attr(MarkerAttr)
	if !ok || name == "" {
		return fmt.Errorf("element <%s> has no %s attribute", el.TagName(), MarkerAttr)
	}
	factory, ok := r.registry.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownHook, name)
	}

	r.mu.Lock()
	if _, exists := r.mounted[el]; exists {
		r.mu.Unlock()
		return nil
	}
	hook := factory()
	r.mounted[el] = hook
	r.order = append(r.order, el)
	r.mu.Unlock()

	if err := hook.Mount(el); err != nil {
		r.forget(el)
		return fmt.Errorf("mount %q: %w", name, err)
	}
	return nil
}

// MountAll mounts every connected element under root that carries the
// marker attribute, logging and skipping failures. It returns the number of
// newly mounted hooks.
func (r *Runtime) MountAll(root Element) int {
	n := 0
	for _, el := range root.QuerySelectorAll("[" + MarkerAttr + "]") {
		before := r.Mounted()
		if err := r.Mount(el); err != nil {
			r.logger.Warn(context.Background(), err, "hook not mounted")
			continue
		}
		if r.Mounted() > before {
			n++
		}
	}
	return n
}

// Update notifies the hook of el that its element was patched.
func (r *Runtime) Update(el Element) {
	r.mu.Lock()
	hook, ok := r.mounted[el]
	r.mu.Unlock()
	if !ok {
		return
	}
	if u, ok := hook.(Updater); ok {
		u.Update(el)
	}
}

// Unmount releases the hook of el. Unmounting an element that is not
// mounted is a no-op.
func (r *Runtime) Unmount(el Element) {
	hook, ok := r.forget(el)
	if !ok {
		return
	}
	if u, ok := hook.(Unmounter); ok {
		u.Unmount(el)
	}
}

// UnmountAll releases every mounted hook, most recently mounted first.
func (r *Runtime) UnmountAll() {
	r.mu.Lock()
	order := append([]Element(nil), r.order...)
	r.mu.Unlock()

	for i := len(order) - 1; i >= 0; i-- {
		r.Unmount(order[i])
	}
}

// Observe unmounts hooks whose element (or an ancestor of it) is removed
// through n. The returned function stops observing.
func (r *Runtime) Observe(n RemovalNotifier) (stop func()) {
	return n.OnRemove(func(removed Element) {
		r.mu.Lock()
		var affected []Element
		for _, el := range r.order {
			if removed.Contains(el) {
				affected = append(affected, el)
			}
		}
		r.mu.Unlock()

		for i := len(affected) - 1; i >= 0; i-- {
			r.Unmount(affected[i])
		}
	})
}

// Mounted returns the number of mounted hooks.
func (r *Runtime) Mounted() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.mounted)
}

func (r *Runtime) forget(el Element) (Hook, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	hook, ok := r.mounted[el]
	if !ok {
		return nil, false
	}
	delete(r.mounted, el)
	for i, e := range r.order {
		if e == el {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return hook, true
}
