// registry.go is the global extension registry.
//
// Extensions self-register from init(), before main() runs, the same way
// database/sql drivers do. The registry keeps registration order so command
// listings and event delivery are deterministic run to run.

package extension

import "sync"

var (
	mu       sync.RWMutex
	registry = make(map[string]Extension)
	order    []string // registration order, the iteration order for All
)

// Register adds an extension under its Name. Duplicate names panic: a
// clash is a programmer error visible at init time, and panicking there
// beats every caller threading an error out of init().
func Register(e Extension) {
	mu.Lock()
	defer mu.Unlock()

	name := e.Name()
	if _, exists := registry[name]; exists {
		panic("extension already registered: " + name)
	}

	registry[name] = e
	order = append(order, name)
}

// All returns every registered extension in registration order. The slice
// is a fresh copy; callers may iterate without holding any lock.
func All() []Extension {
	mu.RLock()
	defer mu.RUnlock()

	exts := make([]Extension, 0, len(order))
	for _, name := range order {
		exts = append(exts, registry[name])
	}
	return exts
}

// Get returns the extension registered under name, or nil.
func Get(name string) Extension {
	mu.RLock()
	defer mu.RUnlock()
	return registry[name]
}

// Names returns the registered extension names in registration order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, len(order))
	copy(names, order)
	return names
}
